// Package engine implements the MTP transaction engine: it reads one
// Command container, dispatches on operation code, orchestrates the
// optional Data phase, and emits one Response container per iteration. The
// engine is strictly single-threaded and cooperative; it never interleaves
// transactions.
package engine

import (
	"context"
	"time"

	"github.com/kaliedoscape/mtpd/internal/container"
	"github.com/kaliedoscape/mtpd/internal/interfaces"
	"github.com/kaliedoscape/mtpd/internal/proto"
	"github.com/kaliedoscape/mtpd/internal/registry"
	"github.com/kaliedoscape/mtpd/internal/transport"
)

// Response is what a handler hands back to the engine: the response code
// and up to five u32 parameters. The engine writes it out verbatim.
type Response struct {
	Code   proto.ResponseCode
	Params []uint32
}

// HandlerFunc implements one operation. txnID is the Command's transaction
// id, needed to stamp any Data container the handler sends itself before
// returning; the engine stamps the Response with it regardless.
type HandlerFunc func(e *Engine, txnID uint32, params [5]uint32) Response

// Engine owns the per-session state (handle registry, storage registry,
// session id) and drives the read-dispatch-write loop over a transport
// Adapter. HandleRegistry and StorageRegistry are mutated only from the
// engine's own goroutine; no locking is required beyond what those types
// already do for safe concurrent inspection (e.g. from a metrics reporter).
type Engine struct {
	Handles  *registry.HandleRegistry
	Storages *registry.StorageRegistry
	Volume   interfaces.VolumeProvider

	adapter  *transport.Adapter
	logger   interfaces.Logger
	observer interfaces.Observer
	handlers map[proto.OperationCode]HandlerFunc

	sessionID uint32
}

// Config bundles everything New needs to construct an Engine.
type Config struct {
	Adapter  *transport.Adapter
	Volume   interfaces.VolumeProvider
	Handlers map[proto.OperationCode]HandlerFunc
	Logger   interfaces.Logger
	Observer interfaces.Observer
}

// New constructs an Engine with fresh, empty registries.
func New(cfg Config) *Engine {
	return &Engine{
		Handles:  registry.NewHandleRegistry(),
		Storages: registry.NewStorageRegistry(),
		Volume:   cfg.Volume,
		adapter:  cfg.Adapter,
		logger:   cfg.Logger,
		observer: cfg.Observer,
		handlers: cfg.Handlers,
	}
}

// SessionID returns the currently open session id, or 0 if none is open.
func (e *Engine) SessionID() uint32 {
	return e.sessionID
}

// SetSessionID updates the open session id. Handlers call this from
// OpenSession/CloseSession.
func (e *Engine) SetSessionID(id uint32) {
	e.sessionID = id
}

// SendData writes a Data container to the wire. Its payload must fit within
// FirstPacketPayloadCap bytes; for larger transfers, keep the container's
// own payload to the first chunk and stream the remainder with WriteRaw
// (see ops.GetObject).
func (e *Engine) SendData(c *container.Container) error {
	return e.adapter.WriteContainer(c)
}

// WriteRaw streams additional already-framed bytes following a Data
// container's first packet.
func (e *Engine) WriteRaw(buf []byte) error {
	return e.adapter.WriteRaw(buf)
}

// FirstPacketPayloadCap is the number of payload bytes that fit alongside
// the 12-byte header in a single packet.
func (e *Engine) FirstPacketPayloadCap() int {
	return e.adapter.FirstPacketPayloadCap()
}

// Logger exposes the configured logger (possibly nil) to handlers.
func (e *Engine) Logger() interfaces.Logger {
	return e.logger
}

// ServeOne processes exactly one transaction: read a Command container,
// dispatch to its handler (or OperationNotSupported if none is registered),
// and write the Response. Data-phase containers, when the handler needs
// one, are sent by the handler before it returns.
func (e *Engine) ServeOne() error {
	cmd, err := e.adapter.ReadContainer()
	if err != nil {
		return err
	}

	opCode := proto.OperationCode(cmd.Header.Code)
	txnID := cmd.Header.TransactionID
	params := cmd.Params()

	if e.observer != nil {
		e.observer.ObserveBytesReceived(uint64(container.HeaderSize + len(cmd.Payload)))
	}

	start := time.Now()
	resp := Response{Code: proto.RespOperationNotSupported}
	if h, ok := e.handlers[opCode]; ok {
		resp = h(e, txnID, params)
	} else if e.logger != nil {
		e.logger.Debugf("unsupported operation %#04x (tid=%d)", uint16(opCode), txnID)
	}

	respContainer := container.MakeResponse(resp.Code, txnID, resp.Params)
	if err := e.adapter.WriteContainer(respContainer); err != nil {
		return err
	}

	if e.observer != nil {
		e.observer.ObserveBytesSent(uint64(len(respContainer.Bytes())))
		e.observer.ObserveTransaction(uint16(opCode), uint64(time.Since(start).Nanoseconds()), uint16(resp.Code))
	}
	return nil
}

// Loop repeatedly calls ServeOne until ctx is done or an error occurs. A
// transport error on receive or send aborts the loop; the caller decides
// whether to tear down and reinitialize.
func (e *Engine) Loop(ctx context.Context) error {
	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		default:
		}
		if err := e.ServeOne(); err != nil {
			return err
		}
	}
}
