package ops

import (
	"github.com/kaliedoscape/mtpd/internal/codec"
	"github.com/kaliedoscape/mtpd/internal/container"
	"github.com/kaliedoscape/mtpd/internal/engine"
	"github.com/kaliedoscape/mtpd/internal/proto"
)

// GetObjectInfo implements operation 0x1008. Parameter 0 is ObjectHandle.
func GetObjectInfo(e *engine.Engine, txnID uint32, params [5]uint32) engine.Response {
	handle := params[0]
	path, ok := e.Handles.Lookup(handle)
	if !ok {
		return engine.Response{Code: proto.RespInvalidObjectHandle}
	}

	storageID, _ := e.Storages.FindByPrefix(path)

	var mountPrefix string
	if entry, ok := e.Storages.Lookup(storageID); ok {
		mountPrefix = entry.MountPrefix
	}

	isDir := e.Volume.IsDirectory(path)
	objectFormat := proto.FormatUndefined
	if isDir {
		objectFormat = proto.FormatAssociation
	}

	size := e.Volume.FileSize(path)

	parent, isRoot := splitParent(path, mountPrefix)
	var parentObject uint32
	if !isRoot {
		parentObject = e.Handles.GetOrInsert(parent)
	}

	ctime, mtime, err := e.Volume.StatTimes(path)
	var dateCreated, dateModified string
	if err == nil {
		dateCreated = ctime.Format(isoBasicLayout)
		dateModified = mtime.Format(isoBasicLayout)
	}

	w := codec.NewWriter()
	w.WriteU32(storageID)
	w.WriteU16(uint16(objectFormat))
	w.WriteU16(0) // ProtectionStatus
	w.WriteU32(uint32(size))
	w.WriteU16(uint16(proto.FormatUndefined)) // ThumbFormat
	w.WriteU32(0)                             // ThumbCompressedSize
	w.WriteU32(0)                             // ThumbPixWidth
	w.WriteU32(0)                             // ThumbPixHeight
	w.WriteU32(0)                             // ImagePixWidth
	w.WriteU32(0)                             // ImagePixHeight
	w.WriteU32(0)                             // ImageBitDepth
	w.WriteU32(parentObject)
	w.WriteU16(1) // AssociationType: generic folder
	w.WriteU32(1) // AssociationDescription
	w.WriteU32(0) // SequenceNumber
	w.WriteString(baseName(path))
	w.WriteString(dateCreated)
	w.WriteString(dateModified)
	w.WriteString("") // Keywords

	data := container.MakeData(uint16(proto.OpGetObjectInfo), txnID)
	data.SetPayload(w.Bytes())
	if err := e.SendData(data); err != nil {
		return engine.Response{Code: proto.RespGeneralError}
	}
	return engine.Response{Code: proto.RespOK}
}
