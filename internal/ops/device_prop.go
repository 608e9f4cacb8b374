package ops

import (
	"github.com/kaliedoscape/mtpd/internal/codec"
	"github.com/kaliedoscape/mtpd/internal/container"
	"github.com/kaliedoscape/mtpd/internal/engine"
	"github.com/kaliedoscape/mtpd/internal/proto"
)

// GetDevicePropValue implements operation 0x1015. Parameter 0 is the
// property code; only DeviceFriendlyName is answered.
func GetDevicePropValue(e *engine.Engine, txnID uint32, params [5]uint32) engine.Response {
	propCode := proto.DevicePropertyCode(params[0])
	if propCode != proto.PropDeviceFriendlyName {
		return engine.Response{Code: proto.RespDevicePropNotSupported}
	}

	w := codec.NewWriter()
	w.WriteString("Nintendo Switch")

	data := container.MakeData(uint16(proto.OpGetDevicePropValue), txnID)
	data.SetPayload(w.Bytes())
	if err := e.SendData(data); err != nil {
		return engine.Response{Code: proto.RespGeneralError}
	}
	return engine.Response{Code: proto.RespOK}
}
