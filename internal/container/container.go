// Package container implements PTP/MTP container framing: the 12-byte
// header plus an owned payload, and construction helpers for the Command,
// Data, and Response container flavors.
package container

import (
	"encoding/binary"

	"github.com/kaliedoscape/mtpd/internal/codec"
	"github.com/kaliedoscape/mtpd/internal/proto"
)

// HeaderSize is the fixed size of a container header in bytes.
const HeaderSize = 12

// Header is the 12-byte PTP/MTP container header.
type Header struct {
	Length        uint32
	Type          proto.ContainerType
	Code          uint16
	TransactionID uint32
}

// DecodeHeader parses a 12-byte header. Callers must pass exactly
// HeaderSize bytes.
func DecodeHeader(b []byte) Header {
	return Header{
		Length:        binary.LittleEndian.Uint32(b[0:4]),
		Type:          proto.ContainerType(binary.LittleEndian.Uint16(b[4:6])),
		Code:          binary.LittleEndian.Uint16(b[6:8]),
		TransactionID: binary.LittleEndian.Uint32(b[8:12]),
	}
}

// Encode serializes the header to its 12-byte wire form.
func (h Header) Encode() []byte {
	b := make([]byte, HeaderSize)
	binary.LittleEndian.PutUint32(b[0:4], h.Length)
	binary.LittleEndian.PutUint16(b[4:6], uint16(h.Type))
	binary.LittleEndian.PutUint16(b[6:8], h.Code)
	binary.LittleEndian.PutUint32(b[8:12], h.TransactionID)
	return b
}

// Container is a decoded or constructed PTP container: a header plus an
// owned payload. A Container is produced and consumed within a single
// transaction and has no lifetime beyond it; do not share payloads across
// transactions.
type Container struct {
	Header  Header
	Payload []byte
}

// NewCommand wraps an already-decoded header and its payload bytes (the
// bytes following the header, already read off the wire).
func NewCommand(header Header, payload []byte) *Container {
	return &Container{Header: header, Payload: payload}
}

// Params extracts up to five u32 command parameters, zero-filling any not
// present in the payload.
func (c *Container) Params() [5]uint32 {
	var params [5]uint32
	r := codec.NewReader(c.Payload)
	for i := range params {
		params[i] = r.ReadU32()
	}
	return params
}

// MakeData seeds a Data container header for the given operation code and
// transaction id with an empty payload. Callers install the operation's
// payload with SetPayload.
func MakeData(code uint16, transactionID uint32) *Container {
	return &Container{
		Header: Header{
			Length:        HeaderSize,
			Type:          proto.ContainerTypeData,
			Code:          code,
			TransactionID: transactionID,
		},
	}
}

// MakeResponse builds a Response container carrying up to five u32
// parameters.
func MakeResponse(code proto.ResponseCode, transactionID uint32, params []uint32) *Container {
	w := codec.NewWriter()
	for _, p := range params {
		w.WriteU32(p)
	}
	c := &Container{
		Header: Header{
			Type:          proto.ContainerTypeResponse,
			Code:          uint16(code),
			TransactionID: transactionID,
		},
	}
	c.SetPayload(w.Bytes())
	return c
}

// SetPayload installs payload as the container's body and fixes up
// header.Length to preserve the length == 12 + len(payload) invariant.
func (c *Container) SetPayload(payload []byte) {
	c.Payload = payload
	c.Header.Length = uint32(HeaderSize + len(payload))
}

// SetStreamedPayload installs payload as the container's in-memory body
// (typically just its first packet's worth) while declaring header.Length
// as totalLength, the full logical size of a transfer whose remainder is
// streamed directly rather than materialized (see ops.GetObject). This
// intentionally breaks the length == 12 + len(payload) invariant that
// SetPayload preserves, in exchange for bounding peak memory to one packet.
func (c *Container) SetStreamedPayload(payload []byte, totalLength uint32) {
	c.Payload = payload
	c.Header.Length = totalLength
}

// Bytes serializes the full container (header + payload) for transmission.
func (c *Container) Bytes() []byte {
	out := make([]byte, 0, HeaderSize+len(c.Payload))
	out = append(out, c.Header.Encode()...)
	out = append(out, c.Payload...)
	return out
}
