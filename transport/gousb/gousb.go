//go:build usb

// Package gousb provides a concrete BulkTransport that drives a real USB
// bulk endpoint pair via libusb, grounded on the bulk IN/OUT endpoint
// wrapper nasa-jpl-golaborate's usbtmc package uses to talk to USB Test and
// Measurement Class instruments. Build with "-tags usb"; it pulls in cgo
// and libusb, which is why it's kept out of the default build (see
// DESIGN.md).
package gousb

import (
	"context"
	"fmt"

	"github.com/google/gousb"

	"github.com/kaliedoscape/mtpd/internal/constants"
)

// Device wraps a claimed bulk IN/OUT endpoint pair as a BulkTransport.
type Device struct {
	ctx    *gousb.Context
	dev    *gousb.Device
	closer func()
	in     *gousb.InEndpoint
	out    *gousb.OutEndpoint
}

// Open claims the default interface of the device matching vid/pid and
// returns a ready-to-use BulkTransport over its inEndpoint/outEndpoint bulk
// pair. MTP bulk-only devices advertise bInterfaceClass=6,
// bInterfaceSubClass=1, bInterfaceProtocol=1 (spec.md §6); selecting that
// interface among several is left to the caller via DefaultInterface's
// usual first-interface behavior, matching the single-interface topology
// this responder assumes.
func Open(vid, pid uint16, inEndpoint, outEndpoint int) (*Device, error) {
	ctx := gousb.NewContext()
	dev, err := ctx.OpenDeviceWithVIDPID(gousb.ID(vid), gousb.ID(pid))
	if err != nil {
		ctx.Close()
		return nil, fmt.Errorf("gousb: open device %04x:%04x: %w", vid, pid, err)
	}
	if dev == nil {
		ctx.Close()
		return nil, fmt.Errorf("gousb: no device matching %04x:%04x", vid, pid)
	}
	if err := dev.SetAutoDetach(true); err != nil {
		dev.Close()
		ctx.Close()
		return nil, fmt.Errorf("gousb: set auto detach: %w", err)
	}
	iface, closer, err := dev.DefaultInterface()
	if err != nil {
		dev.Close()
		ctx.Close()
		return nil, fmt.Errorf("gousb: claim default interface: %w", err)
	}
	in, err := iface.InEndpoint(inEndpoint)
	if err != nil {
		closer()
		dev.Close()
		ctx.Close()
		return nil, fmt.Errorf("gousb: bulk IN endpoint %d: %w", inEndpoint, err)
	}
	out, err := iface.OutEndpoint(outEndpoint)
	if err != nil {
		closer()
		dev.Close()
		ctx.Close()
		return nil, fmt.Errorf("gousb: bulk OUT endpoint %d: %w", outEndpoint, err)
	}
	return &Device{ctx: ctx, dev: dev, closer: closer, in: in, out: out}, nil
}

// Receive implements interfaces.BulkTransport: blocks until one bulk
// transfer from the host completes.
func (d *Device) Receive(buf []byte, maxLen int) (int, error) {
	if maxLen < len(buf) {
		buf = buf[:maxLen]
	}
	n, err := d.in.Read(buf)
	if err != nil {
		return n, fmt.Errorf("gousb: bulk IN read: %w", err)
	}
	return n, nil
}

// Send implements interfaces.BulkTransport: writes buf[:length] as one
// bulk transfer to the host, bounded by constants.WriteTimeout so a host
// that stops draining bulk-IN can't stall the responder indefinitely
// (spec.md §4.3/§5).
func (d *Device) Send(buf []byte, length int) error {
	ctx, cancel := context.WithTimeout(context.Background(), constants.WriteTimeout)
	defer cancel()
	if _, err := d.out.WriteContext(ctx, buf[:length]); err != nil {
		return fmt.Errorf("gousb: bulk OUT write: %w", err)
	}
	return nil
}

// Close releases the claimed interface and USB context.
func (d *Device) Close() error {
	d.closer()
	err := d.dev.Close()
	d.ctx.Close()
	return err
}
