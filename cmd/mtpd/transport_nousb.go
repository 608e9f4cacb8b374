//go:build !usb

package main

import (
	"fmt"

	"github.com/kaliedoscape/mtpd/internal/interfaces"
)

func newTransport(vid, pid uint, inEP, outEP int) (interfaces.BulkTransport, func() error, error) {
	return nil, nil, fmt.Errorf("cmd/mtpd: built without USB support; rebuild with -tags usb and pass -vid/-pid")
}
