package ops

import (
	"github.com/kaliedoscape/mtpd/internal/codec"
	"github.com/kaliedoscape/mtpd/internal/container"
	"github.com/kaliedoscape/mtpd/internal/engine"
	"github.com/kaliedoscape/mtpd/internal/proto"
)

// GetStorageIds implements operation 0x1004: a Data payload listing every
// registered StorageId in registration order.
func GetStorageIds(e *engine.Engine, txnID uint32, params [5]uint32) engine.Response {
	w := codec.NewWriter()
	w.WriteU32Array(e.Storages.IDs())

	data := container.MakeData(uint16(proto.OpGetStorageIds), txnID)
	data.SetPayload(w.Bytes())
	if err := e.SendData(data); err != nil {
		return engine.Response{Code: proto.RespGeneralError}
	}
	return engine.Response{Code: proto.RespOK}
}

// GetStorageInfo implements operation 0x1005. Parameter 0 is the StorageId.
//
// AccessCapability is reported as 1 (read-only) rather than the original
// responder's 2 (read-only with object deletion): this responder never
// implements DeleteObject, so advertising deletion support would mislead
// initiators.
func GetStorageInfo(e *engine.Engine, txnID uint32, params [5]uint32) engine.Response {
	storageID := params[0]
	entry, ok := e.Storages.Lookup(storageID)
	if !ok {
		return engine.Response{Code: proto.RespInvalidStorageID}
	}

	var storageType uint16 = 1
	if entry.MountPrefix == "sdmc" {
		storageType = 2
	}

	total, free, err := e.Volume.StatVolume(entry.MountPrefix)
	if err != nil {
		return engine.Response{Code: proto.RespStoreNotAvailable}
	}

	w := codec.NewWriter()
	w.WriteU16(storageType)
	w.WriteU16(2) // FilesystemType: generic hierarchical
	w.WriteU16(1) // AccessCapability: read-only
	w.WriteU64(total)
	w.WriteU64(free)
	w.WriteU32(0xFFFFFFFF) // FreeSpaceInObjects
	w.WriteString(entry.Label)
	w.WriteString(entry.Label)

	data := container.MakeData(uint16(proto.OpGetStorageInfo), txnID)
	data.SetPayload(w.Bytes())
	if err := e.SendData(data); err != nil {
		return engine.Response{Code: proto.RespGeneralError}
	}
	return engine.Response{Code: proto.RespOK}
}
