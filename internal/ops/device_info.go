package ops

import (
	"github.com/kaliedoscape/mtpd/internal/codec"
	"github.com/kaliedoscape/mtpd/internal/container"
	"github.com/kaliedoscape/mtpd/internal/engine"
	"github.com/kaliedoscape/mtpd/internal/proto"
)

// SupportedOperations is the operation-code set this responder dispatches.
// GetDeviceInfo advertises exactly this set; a mismatch between what's
// advertised and what's dispatched is a protocol bug that sends initiators
// probing operations the responder will reject.
var SupportedOperations = proto.Dispatched

// supportedDeviceProperties lists the device properties GetDevicePropDesc
// would describe; only DeviceFriendlyName is ever answered by
// GetDevicePropValue (see device_prop.go).
var supportedDeviceProperties = []uint16{uint16(proto.PropDeviceFriendlyName)}

// supportedPlaybackFormats are the object formats GetObjectInfo may report.
var supportedPlaybackFormats = []uint16{uint16(proto.FormatUndefined), uint16(proto.FormatAssociation)}

// GetDeviceInfo implements operation 0x1001.
func GetDeviceInfo(e *engine.Engine, txnID uint32, params [5]uint32) engine.Response {
	w := codec.NewWriter()
	w.WriteU16(100)         // StandardVersion
	w.WriteU32(0xFFFFFFFF)  // VendorExtensionID
	w.WriteU16(100)         // VendorExtensionVersion
	w.WriteString("microsoft.com: 1.0;")
	w.WriteU16(0) // FunctionalMode

	opCodes := make([]uint16, len(SupportedOperations))
	for i, op := range SupportedOperations {
		opCodes[i] = uint16(op)
	}
	w.WriteU16Array(opCodes)
	w.WriteU16Array(nil) // supported events: empty
	w.WriteU16Array(supportedDeviceProperties)
	w.WriteU16Array(nil) // capture formats: empty
	w.WriteU16Array(supportedPlaybackFormats)

	w.WriteString("Nintendo")
	w.WriteString("Nintendo Switch")
	w.WriteString("1.0")
	w.WriteString("SerialNumber")

	data := container.MakeData(uint16(proto.OpGetDeviceInfo), txnID)
	data.SetPayload(w.Bytes())

	if err := e.SendData(data); err != nil {
		return engine.Response{Code: proto.RespGeneralError}
	}
	return engine.Response{Code: proto.RespOK}
}
