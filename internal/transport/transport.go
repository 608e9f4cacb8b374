// Package transport adapts a raw BulkTransport (bounded-size packet I/O)
// into container-level read/write, with a page-aligned scratch buffer and
// one-packet read-ahead on the receive side.
package transport

import (
	"fmt"

	"golang.org/x/sys/unix"

	"github.com/kaliedoscape/mtpd/internal/constants"
	"github.com/kaliedoscape/mtpd/internal/container"
	"github.com/kaliedoscape/mtpd/internal/interfaces"
)

// Adapter presents byte-stream read/write over a BulkTransport, backed by
// page-aligned scratch buffers reused across transactions: one for
// read-ahead, one for outgoing packets. Matches the USB DMA alignment
// constraint the same way the teacher's queue runner page-aligns its
// kernel-shared I/O buffers.
type Adapter struct {
	bt     interfaces.BulkTransport
	logger interfaces.Logger

	readBuf    []byte
	readLen    int
	readCursor int

	writeBuf []byte
}

// New allocates the page-aligned scratch buffers and wraps bt. logger may
// be nil.
func New(bt interfaces.BulkTransport, logger interfaces.Logger) (*Adapter, error) {
	readBuf, err := allocPageAligned(constants.BufSize)
	if err != nil {
		return nil, fmt.Errorf("transport: allocate read buffer: %w", err)
	}
	writeBuf, err := allocPageAligned(constants.BufSize)
	if err != nil {
		unix.Munmap(readBuf)
		return nil, fmt.Errorf("transport: allocate write buffer: %w", err)
	}
	return &Adapter{bt: bt, logger: logger, readBuf: readBuf, writeBuf: writeBuf}, nil
}

// Close releases the mmap-backed scratch buffers.
func (a *Adapter) Close() error {
	var firstErr error
	if err := unix.Munmap(a.readBuf); err != nil {
		firstErr = err
	}
	if err := unix.Munmap(a.writeBuf); err != nil && firstErr == nil {
		firstErr = err
	}
	return firstErr
}

func allocPageAligned(size int) ([]byte, error) {
	pageSize := unix.Getpagesize()
	allocSize := size
	if allocSize < pageSize {
		allocSize = pageSize
	}
	return unix.Mmap(-1, 0, allocSize, unix.PROT_READ|unix.PROT_WRITE, unix.MAP_PRIVATE|unix.MAP_ANONYMOUS)
}

// read guarantees delivery of exactly len(out) bytes, refilling the scratch
// buffer from the transport on underflow. A request larger than what is
// left of the current USB packet is satisfied by receiving further packets.
func (a *Adapter) read(out []byte) error {
	need := len(out)
	got := 0
	for got < need {
		if a.readCursor >= a.readLen {
			n, err := a.bt.Receive(a.readBuf, constants.BufSize)
			if err != nil {
				return fmt.Errorf("transport: receive: %w", err)
			}
			if n == 0 {
				return fmt.Errorf("transport: receive: zero-length packet")
			}
			a.readLen = n
			a.readCursor = 0
		}
		avail := a.readLen - a.readCursor
		n := need - got
		if n > avail {
			n = avail
		}
		copy(out[got:got+n], a.readBuf[a.readCursor:a.readCursor+n])
		a.readCursor += n
		got += n
	}
	return nil
}

// write copies buf into the aligned scratch and sends it as a single
// packet. buf must fit within one packet.
func (a *Adapter) write(buf []byte) error {
	if len(buf) > constants.BufSize {
		return fmt.Errorf("transport: write: %d bytes exceeds packet size %d", len(buf), constants.BufSize)
	}
	n := copy(a.writeBuf, buf)
	if err := a.bt.Send(a.writeBuf, n); err != nil {
		return fmt.Errorf("transport: send: %w", err)
	}
	return nil
}

// ReadContainer reads one container's header and its full payload off the
// wire.
func (a *Adapter) ReadContainer() (*container.Container, error) {
	hdr := make([]byte, container.HeaderSize)
	if err := a.read(hdr); err != nil {
		return nil, err
	}
	header := container.DecodeHeader(hdr)
	payloadLen := int(header.Length) - container.HeaderSize
	if payloadLen < 0 {
		return nil, fmt.Errorf("transport: invalid container length %d", header.Length)
	}
	payload := make([]byte, payloadLen)
	if payloadLen > 0 {
		if err := a.read(payload); err != nil {
			return nil, err
		}
	}
	return container.NewCommand(header, payload), nil
}

// WriteContainer sends c's header and payload as a single packet. Callers
// with a Data payload that exceeds a single packet (GetObject) keep the
// container's own payload within FirstPacketPayloadCap and stream the
// remainder with WriteRaw.
func (a *Adapter) WriteContainer(c *container.Container) error {
	return a.write(c.Bytes())
}

// WriteRaw sends an arbitrary chunk of already-framed bytes as one or more
// BUF_SIZE-bounded packets, used to stream the remainder of an
// over-sized Data container after its first packet.
func (a *Adapter) WriteRaw(buf []byte) error {
	for len(buf) > 0 {
		n := len(buf)
		if n > constants.BufSize {
			n = constants.BufSize
		}
		if err := a.write(buf[:n]); err != nil {
			return err
		}
		buf = buf[n:]
	}
	return nil
}

// FirstPacketPayloadCap is the number of payload bytes that fit alongside
// the 12-byte header in a single packet.
func (a *Adapter) FirstPacketPayloadCap() int {
	return constants.BufSize - container.HeaderSize
}

// PacketSize is the transport's fixed packet size.
func (a *Adapter) PacketSize() int {
	return constants.BufSize
}
