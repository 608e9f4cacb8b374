// Package mtpd is the public API for building a Media Transfer Protocol
// responder: wiring a BulkTransport and a VolumeProvider into a Responder
// that serves MTP transactions off a USB bulk pipe pair.
package mtpd

import (
	"errors"
	"fmt"
	"os"

	"github.com/kaliedoscape/mtpd/internal/proto"
)

// ErrorCode classifies a failure independent of the MTP response code it
// maps to on the wire.
type ErrorCode string

const (
	ErrCodeNotFound         ErrorCode = "not found"
	ErrCodeAccessDenied     ErrorCode = "access denied"
	ErrCodeInvalidHandle    ErrorCode = "invalid object handle"
	ErrCodeInvalidStorage   ErrorCode = "invalid storage id"
	ErrCodeStoreUnavailable ErrorCode = "store not available"
	ErrCodeTransport        ErrorCode = "transport error"
	ErrCodeProtocol         ErrorCode = "protocol error"
)

// Error is a structured error carrying enough context to both log
// meaningfully and translate into the wire ResponseCode a handler should
// answer with when a collaborator call fails mid-transaction.
type Error struct {
	Op      string             // operation that failed, e.g. "GetObject"
	Path    string             // filesystem path involved, if any
	Code    ErrorCode
	MTPCode proto.ResponseCode // ResponseCode this error should surface as
	Msg     string
	Inner   error
}

// Error implements the error interface.
func (e *Error) Error() string {
	var parts []string
	if e.Op != "" {
		parts = append(parts, fmt.Sprintf("op=%s", e.Op))
	}
	if e.Path != "" {
		parts = append(parts, fmt.Sprintf("path=%s", e.Path))
	}
	if e.MTPCode != 0 {
		parts = append(parts, fmt.Sprintf("mtp=%#04x", uint16(e.MTPCode)))
	}

	msg := e.Msg
	if msg == "" {
		msg = string(e.Code)
	}

	if len(parts) > 0 {
		return fmt.Sprintf("mtpd: %s (%s)", msg, parts[0])
	}
	return fmt.Sprintf("mtpd: %s", msg)
}

// Unwrap returns the wrapped error for errors.Is/As support.
func (e *Error) Unwrap() error {
	return e.Inner
}

// Is provides errors.Is support keyed on ErrorCode.
func (e *Error) Is(target error) bool {
	if target == nil {
		return false
	}
	te, ok := target.(*Error)
	if !ok {
		return false
	}
	return e.Code == te.Code
}

// NewError constructs a structured Error with no wrapped cause.
func NewError(op string, code ErrorCode, mtpCode proto.ResponseCode, msg string) *Error {
	return &Error{Op: op, Code: code, MTPCode: mtpCode, Msg: msg}
}

// NewPathError constructs a structured Error naming the filesystem path
// involved.
func NewPathError(op, path string, code ErrorCode, mtpCode proto.ResponseCode, msg string) *Error {
	return &Error{Op: op, Path: path, Code: code, MTPCode: mtpCode, Msg: msg}
}

// WrapError wraps an existing error with mtpd context, inferring an
// ErrorCode and ResponseCode from it when inner is a plain os error.
func WrapError(op string, inner error) *Error {
	if inner == nil {
		return nil
	}
	if me, ok := inner.(*Error); ok {
		return &Error{Op: op, Path: me.Path, Code: me.Code, MTPCode: me.MTPCode, Msg: me.Msg, Inner: me.Inner}
	}

	code, mtpCode := mapOSError(inner)
	return &Error{Op: op, Code: code, MTPCode: mtpCode, Msg: inner.Error(), Inner: inner}
}

// mapOSError maps a filesystem error to an ErrorCode and the ResponseCode
// a handler should answer with, mirroring spec.md §7's error taxonomy: a
// missing path surfaces as InvalidObjectHandle, a permission failure as
// AccessDenied, and any other failure as StoreNotAvailable; none of them
// aborts the transaction outright.
func mapOSError(err error) (ErrorCode, proto.ResponseCode) {
	switch {
	case errors.Is(err, os.ErrNotExist):
		return ErrCodeNotFound, proto.RespInvalidObjectHandle
	case errors.Is(err, os.ErrPermission):
		return ErrCodeAccessDenied, proto.RespAccessDenied
	default:
		return ErrCodeStoreUnavailable, proto.RespStoreNotAvailable
	}
}

// IsCode reports whether err is a *Error (possibly wrapped) with the given
// ErrorCode.
func IsCode(err error, code ErrorCode) bool {
	var me *Error
	if errors.As(err, &me) {
		return me.Code == code
	}
	return false
}

// ResponseCodeFor extracts the ResponseCode a handler should answer with
// for err, falling back to GeneralError for errors with no MTP mapping.
func ResponseCodeFor(err error) proto.ResponseCode {
	var me *Error
	if errors.As(err, &me) && me.MTPCode != 0 {
		return me.MTPCode
	}
	return proto.RespGeneralError
}
