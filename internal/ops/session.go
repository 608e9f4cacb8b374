package ops

import (
	"github.com/kaliedoscape/mtpd/internal/engine"
	"github.com/kaliedoscape/mtpd/internal/proto"
)

// OpenSession implements operation 0x1002. Parameter 0 is the requested
// SessionID. A SessionID of 0 is accepted as valid, preserving the
// original responder's leniency (a stricter implementation could reject it
// with InvalidParameter instead).
func OpenSession(e *engine.Engine, txnID uint32, params [5]uint32) engine.Response {
	if e.SessionID() != 0 {
		return engine.Response{Code: proto.RespSessionAlreadyOpen}
	}
	e.SetSessionID(params[0])
	return engine.Response{Code: proto.RespOK}
}

// CloseSession implements operation 0x1003. Object handles already
// allocated are not evicted; they remain valid if another session opens
// later (see the spec's open question on session-scoped handle lifetime).
func CloseSession(e *engine.Engine, txnID uint32, params [5]uint32) engine.Response {
	if e.SessionID() == 0 {
		return engine.Response{Code: proto.RespSessionNotOpen}
	}
	e.SetSessionID(0)
	return engine.Response{Code: proto.RespOK}
}
