//go:build usb

package main

import (
	"fmt"

	"github.com/kaliedoscape/mtpd/internal/interfaces"
	usbtransport "github.com/kaliedoscape/mtpd/transport/gousb"
)

func newTransport(vid, pid uint, inEP, outEP int) (interfaces.BulkTransport, func() error, error) {
	if vid == 0 || pid == 0 {
		return nil, nil, fmt.Errorf("cmd/mtpd: -vid and -pid are required when built with -tags usb")
	}
	dev, err := usbtransport.Open(uint16(vid), uint16(pid), inEP, outEP)
	if err != nil {
		return nil, nil, fmt.Errorf("cmd/mtpd: %w", err)
	}
	return dev, dev.Close, nil
}
