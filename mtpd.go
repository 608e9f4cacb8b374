package mtpd

import (
	"context"
	"fmt"

	"github.com/kaliedoscape/mtpd/internal/engine"
	"github.com/kaliedoscape/mtpd/internal/interfaces"
	"github.com/kaliedoscape/mtpd/internal/ops"
	"github.com/kaliedoscape/mtpd/internal/proto"
	"github.com/kaliedoscape/mtpd/internal/transport"
)

// StorageSpec registers one mounted volume the responder exposes to the
// initiator.
type StorageSpec struct {
	// ID is the opaque StorageId reported on the wire.
	ID uint32
	// MountPrefix is the drive-qualified root the VolumeProvider uses for
	// this storage, e.g. "sdmc".
	MountPrefix string
	// Label is the human-readable name reported as StorageDescription and
	// VolumeIdentifier.
	Label string
}

// Params bundles everything NewResponder needs to wire up a Responder.
type Params struct {
	// Transport is the USB bulk pipe pair the engine reads Commands from
	// and writes Data/Response containers to. Required.
	Transport interfaces.BulkTransport

	// Volume is the filesystem capability set handlers use to traverse and
	// stat the exposed storages. Required.
	Volume interfaces.VolumeProvider

	// Storages lists the volumes to register before serving any
	// transaction. At least one entry is expected for GetStorageIds and
	// GetStorageInfo to be useful, but an empty list is not an error.
	Storages []StorageSpec

	// Logger receives a Debug-level line for each Command whose operation
	// code has no handler; no other events are logged through it. Nil
	// disables logging.
	Logger interfaces.Logger

	// Observer collects per-transaction metrics. Nil disables metrics.
	Observer interfaces.Observer
}

// Responder drives one MTP session end-to-end over a BulkTransport: it owns
// the transaction engine, the handle and storage registries, and the
// transport adapter's scratch buffers.
type Responder struct {
	engine  *engine.Engine
	adapter *transport.Adapter
}

// handlerTable wires each supported proto.OperationCode to its handler.
// This set must stay exactly in sync with proto.Dispatched /
// ops.SupportedOperations: GetDeviceInfo advertises the latter, and a
// mismatch between what's advertised and what's dispatched here is the
// protocol bug spec.md §4.6.1 warns about.
func handlerTable() map[proto.OperationCode]engine.HandlerFunc {
	return map[proto.OperationCode]engine.HandlerFunc{
		proto.OpGetDeviceInfo:      ops.GetDeviceInfo,
		proto.OpOpenSession:        ops.OpenSession,
		proto.OpCloseSession:       ops.CloseSession,
		proto.OpGetStorageIds:      ops.GetStorageIds,
		proto.OpGetStorageInfo:     ops.GetStorageInfo,
		proto.OpGetObjectHandles:   ops.GetObjectHandles,
		proto.OpGetObjectInfo:      ops.GetObjectInfo,
		proto.OpGetObject:          ops.GetObject,
		proto.OpGetDevicePropValue: ops.GetDevicePropValue,
	}
}

// NewResponder constructs a Responder with fresh, empty handle and storage
// registries, registers params.Storages, and allocates the transport
// adapter's page-aligned scratch buffers.
func NewResponder(params Params) (*Responder, error) {
	if params.Transport == nil {
		return nil, fmt.Errorf("mtpd: Params.Transport is required")
	}
	if params.Volume == nil {
		return nil, fmt.Errorf("mtpd: Params.Volume is required")
	}

	adapter, err := transport.New(params.Transport, params.Logger)
	if err != nil {
		return nil, fmt.Errorf("mtpd: %w", err)
	}

	e := engine.New(engine.Config{
		Adapter:  adapter,
		Volume:   params.Volume,
		Handlers: handlerTable(),
		Logger:   params.Logger,
		Observer: params.Observer,
	})

	for _, s := range params.Storages {
		e.Storages.Insert(s.ID, s.MountPrefix, s.Label)
	}

	return &Responder{engine: e, adapter: adapter}, nil
}

// ServeOne processes exactly one transaction: read a Command container,
// dispatch it, and write the Response (and any Data phase the handler
// needs). See spec.md §4.5 for the per-transaction state machine.
func (r *Responder) ServeOne() error {
	return r.engine.ServeOne()
}

// Serve runs the read-dispatch-write loop until ctx is cancelled or a
// transport error aborts it. The engine never interleaves transactions: the
// next Command is only read once the prior Response has been written.
func (r *Responder) Serve(ctx context.Context) error {
	return r.engine.Loop(ctx)
}

// SessionID returns the currently open MTP session id, or 0 if none is
// open.
func (r *Responder) SessionID() uint32 {
	return r.engine.SessionID()
}

// HandleCount reports how many distinct filesystem paths have been
// assigned an ObjectHandle since the Responder was created; handles are
// not evicted on CloseSession.
func (r *Responder) HandleCount() int {
	return r.engine.Handles.Len()
}

// Close releases the transport adapter's scratch buffers. Call once the
// responder is done serving, after Serve returns.
func (r *Responder) Close() error {
	return r.adapter.Close()
}
