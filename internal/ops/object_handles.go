package ops

import (
	"github.com/kaliedoscape/mtpd/internal/codec"
	"github.com/kaliedoscape/mtpd/internal/constants"
	"github.com/kaliedoscape/mtpd/internal/container"
	"github.com/kaliedoscape/mtpd/internal/engine"
	"github.com/kaliedoscape/mtpd/internal/proto"
)

// GetObjectHandles implements operation 0x1007. Parameters are StorageId,
// ObjectFormat (ignored), Parent. Parent == 0xFFFFFFFF requests a listing
// of the storage root rather than a subdirectory.
func GetObjectHandles(e *engine.Engine, txnID uint32, params [5]uint32) engine.Response {
	storageID := params[0]
	parent := params[2]

	entry, ok := e.Storages.Lookup(storageID)
	if !ok {
		return engine.Response{Code: proto.RespInvalidStorageID}
	}

	var dir string
	if parent == constants.RootParentParam {
		dir = entry.MountPrefix + ":/"
	} else {
		p, ok := e.Handles.Lookup(parent)
		if !ok {
			return engine.Response{Code: proto.RespInvalidParentObject}
		}
		dir = p
	}

	children, err := e.Volume.ListDirectory(dir)
	if err != nil {
		return engine.Response{Code: proto.RespInvalidParentObject}
	}

	handles := make([]uint32, 0, len(children))
	for _, child := range children {
		if child == constants.HostLoaderPath {
			continue
		}
		handles = append(handles, e.Handles.GetOrInsert(child))
	}

	w := codec.NewWriter()
	w.WriteU32Array(handles)

	data := container.MakeData(uint16(proto.OpGetObjectHandles), txnID)
	data.SetPayload(w.Bytes())
	if err := e.SendData(data); err != nil {
		return engine.Response{Code: proto.RespGeneralError}
	}
	return engine.Response{Code: proto.RespOK}
}
