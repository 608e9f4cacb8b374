package ops

import (
	"github.com/kaliedoscape/mtpd/internal/container"
	"github.com/kaliedoscape/mtpd/internal/engine"
	"github.com/kaliedoscape/mtpd/internal/interfaces"
	"github.com/kaliedoscape/mtpd/internal/proto"
)

// GetObject implements operation 0x1009. Parameter 0 is ObjectHandle. The
// file is streamed without materializing it in memory: the Data
// container's own payload covers only the first packet, with the
// remainder pumped directly through the transport.
func GetObject(e *engine.Engine, txnID uint32, params [5]uint32) engine.Response {
	handle := params[0]
	path, ok := e.Handles.Lookup(handle)
	if !ok {
		return engine.Response{Code: proto.RespInvalidObjectHandle}
	}

	stream, err := e.Volume.OpenRead(path)
	if err != nil {
		return engine.Response{Code: proto.RespAccessDenied}
	}
	defer stream.Close()

	size := e.Volume.FileSize(path)

	firstCap := e.FirstPacketPayloadCap()
	firstLen := size
	if firstLen > uint64(firstCap) {
		firstLen = uint64(firstCap)
	}

	first := make([]byte, firstLen)
	if firstLen > 0 {
		if _, err := readFull(stream, first); err != nil {
			return engine.Response{Code: proto.RespAccessDenied}
		}
	}

	const maxPayload = 0xFFFFFFFF - container.HeaderSize
	logicalLen := size
	if logicalLen > maxPayload {
		logicalLen = maxPayload
	}

	data := container.MakeData(uint16(proto.OpGetObject), txnID)
	data.SetStreamedPayload(first, uint32(container.HeaderSize)+uint32(logicalLen))
	if err := e.SendData(data); err != nil {
		return engine.Response{Code: proto.RespGeneralError}
	}

	remaining := size - firstLen
	const chunkSize = 512
	buf := make([]byte, chunkSize)
	for remaining > 0 {
		n := uint64(chunkSize)
		if n > remaining {
			n = remaining
		}
		if _, err := readFull(stream, buf[:n]); err != nil {
			return engine.Response{Code: proto.RespIncompleteTransfer}
		}
		if err := e.WriteRaw(buf[:n]); err != nil {
			return engine.Response{Code: proto.RespGeneralError}
		}
		remaining -= n
	}

	return engine.Response{Code: proto.RespOK}
}

// readFull reads exactly len(buf) bytes from r, looping over short reads.
func readFull(r interfaces.ReadStream, buf []byte) (int, error) {
	total := 0
	for total < len(buf) {
		n, err := r.Read(buf[total:])
		total += n
		if err != nil {
			return total, err
		}
		if n == 0 {
			break
		}
	}
	return total, nil
}
