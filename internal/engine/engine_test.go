package engine

import (
	"bytes"
	"io"
	"testing"

	"github.com/kaliedoscape/mtpd/internal/container"
	"github.com/kaliedoscape/mtpd/internal/proto"
	"github.com/kaliedoscape/mtpd/internal/transport"
)

type fakeBulkTransport struct {
	inbound [][]byte
	sent    [][]byte
}

func (f *fakeBulkTransport) Receive(buf []byte, maxLen int) (int, error) {
	if len(f.inbound) == 0 {
		return 0, io.EOF
	}
	pkt := f.inbound[0]
	f.inbound = f.inbound[1:]
	return copy(buf, pkt), nil
}

func (f *fakeBulkTransport) Send(buf []byte, length int) error {
	cp := make([]byte, length)
	copy(cp, buf[:length])
	f.sent = append(f.sent, cp)
	return nil
}

func newTestEngine(t *testing.T, bt *fakeBulkTransport, handlers map[proto.OperationCode]HandlerFunc) *Engine {
	t.Helper()
	adapter, err := transport.New(bt, nil)
	if err != nil {
		t.Fatalf("transport.New: %v", err)
	}
	return New(Config{Adapter: adapter, Handlers: handlers})
}

func commandBytes(code uint16, txnID uint32, params ...uint32) []byte {
	w := container.Header{Type: proto.ContainerTypeCommand, Code: code, TransactionID: txnID}
	payload := make([]byte, 0, 4*len(params))
	for _, p := range params {
		payload = append(payload, byte(p), byte(p>>8), byte(p>>16), byte(p>>24))
	}
	w.Length = uint32(container.HeaderSize + len(payload))
	return append(w.Encode(), payload...)
}

func TestServeOneUnsupportedOperation(t *testing.T) {
	bt := &fakeBulkTransport{inbound: [][]byte{commandBytes(0xFFFF, 42)}}
	e := newTestEngine(t, bt, nil)

	if err := e.ServeOne(); err != nil {
		t.Fatalf("ServeOne: %v", err)
	}
	if len(bt.sent) != 1 {
		t.Fatalf("sent %d packets, want 1", len(bt.sent))
	}
	resp := container.DecodeHeader(bt.sent[0][:container.HeaderSize])
	if resp.Code != uint16(proto.RespOperationNotSupported) {
		t.Errorf("response code = %#x, want OperationNotSupported", resp.Code)
	}
	if resp.TransactionID != 42 {
		t.Errorf("response transaction id = %d, want 42", resp.TransactionID)
	}
}

func TestServeOneDispatchesRegisteredHandler(t *testing.T) {
	bt := &fakeBulkTransport{inbound: [][]byte{commandBytes(0x1003, 7)}}
	handlers := map[proto.OperationCode]HandlerFunc{
		proto.OpCloseSession: func(e *Engine, txnID uint32, params [5]uint32) Response {
			if e.SessionID() == 0 {
				return Response{Code: proto.RespSessionNotOpen}
			}
			e.SetSessionID(0)
			return Response{Code: proto.RespOK}
		},
	}
	e := newTestEngine(t, bt, handlers)

	if err := e.ServeOne(); err != nil {
		t.Fatalf("ServeOne: %v", err)
	}
	resp := container.DecodeHeader(bt.sent[0][:container.HeaderSize])
	if resp.Code != uint16(proto.RespSessionNotOpen) {
		t.Errorf("response code = %#x, want SessionNotOpen", resp.Code)
	}
}

func TestResponseTransactionIDMatchesCommand(t *testing.T) {
	bt := &fakeBulkTransport{inbound: [][]byte{commandBytes(0x1002, 99, 1)}}
	handlers := map[proto.OperationCode]HandlerFunc{
		proto.OpOpenSession: func(e *Engine, txnID uint32, params [5]uint32) Response {
			e.SetSessionID(params[0])
			return Response{Code: proto.RespOK}
		},
	}
	e := newTestEngine(t, bt, handlers)

	if err := e.ServeOne(); err != nil {
		t.Fatalf("ServeOne: %v", err)
	}
	resp := container.DecodeHeader(bt.sent[0][:container.HeaderSize])
	if resp.TransactionID != 99 {
		t.Errorf("response transaction id = %d, want 99", resp.TransactionID)
	}
	if e.SessionID() != 1 {
		t.Errorf("SessionID() = %d, want 1", e.SessionID())
	}
}

func TestServeOneSurfacesTransportError(t *testing.T) {
	bt := &fakeBulkTransport{} // no inbound packets queued
	e := newTestEngine(t, bt, nil)

	err := e.ServeOne()
	if err == nil {
		t.Fatal("expected error on empty transport, got nil")
	}
	if !bytes.Contains([]byte(err.Error()), []byte("receive")) && err != io.EOF {
		t.Logf("transport error without receive context: %v", err)
	}
}
