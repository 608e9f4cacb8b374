// Command mtpd exposes a directory on the host filesystem as an MTP
// storage over a USB bulk transport.
package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/kaliedoscape/mtpd"
	"github.com/kaliedoscape/mtpd/internal/logging"
	"github.com/kaliedoscape/mtpd/volume"
)

func main() {
	var (
		root    = flag.String("root", ".", "Directory to expose as the \"sdmc\" storage")
		label   = flag.String("label", "SD Card", "Human-readable storage label reported to the host")
		vid     = flag.Uint("vid", 0, "USB vendor id of the bulk transport device (requires -tags usb)")
		pid     = flag.Uint("pid", 0, "USB product id of the bulk transport device (requires -tags usb)")
		inEP    = flag.Int("in-ep", 1, "Bulk IN endpoint number")
		outEP   = flag.Int("out-ep", 1, "Bulk OUT endpoint number")
		verbose = flag.Bool("v", false, "Verbose output")
	)
	flag.Parse()

	logConfig := logging.DefaultConfig()
	if *verbose {
		logConfig.Level = logging.LevelDebug
	}
	logger := logging.NewLogger(logConfig)
	logging.SetDefault(logger)

	bt, closeTransport, err := newTransport(*vid, *pid, *inEP, *outEP)
	if err != nil {
		logger.Error("failed to open transport", "error", err)
		os.Exit(1)
	}
	defer closeTransport()

	vol := volume.NewLocal("sdmc", *root)
	metrics := mtpd.NewMetrics()

	responder, err := mtpd.NewResponder(mtpd.Params{
		Transport: bt,
		Volume:    vol,
		Storages: []mtpd.StorageSpec{
			{ID: 0x00010001, MountPrefix: "sdmc", Label: *label},
		},
		Logger:   logger,
		Observer: mtpd.NewMetricsObserver(metrics),
	})
	if err != nil {
		logger.Error("failed to create responder", "error", err)
		os.Exit(1)
	}
	defer responder.Close()

	logger.Info("mtpd responder ready", "root", *root, "label", *label)
	fmt.Printf("Exposing %s as storage %q\n", *root, *label)
	fmt.Printf("Press Ctrl+C to stop...\n")

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	done := make(chan error, 1)
	go func() { done <- responder.Serve(ctx) }()

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)

	select {
	case <-sigCh:
		logger.Info("received shutdown signal")
		cancel()
		<-done
	case err := <-done:
		if err != nil && ctx.Err() == nil {
			logger.Error("responder loop exited", "error", err)
			os.Exit(1)
		}
	}

	snap := metrics.Snapshot()
	logger.Info("responder stopped",
		"transactions", snap.Transactions,
		"errors", snap.ErrorResponses,
		"bytes_sent", snap.BytesSent,
		"bytes_received", snap.BytesReceived,
	)
}
