// Package apierr is the single error value surfaced by every storefront
// operation. Failures carry a structured Kind and Code so callers branch on
// what went wrong instead of matching message text.
package apierr

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strings"
)

// Kind separates where a failure happened.
type Kind string

const (
	KindTransport  Kind = "transport"  // network failure or HTTP status >= 400
	KindProtocol   Kind = "protocol"   // body could not be decoded
	KindBusiness   Kind = "business"   // envelope code != success sentinel
	KindValidation Kind = "validation" // rejected locally, nothing was sent
)

// Code is the domain condition behind a failure.
type Code string

const (
	CodeUnknown           Code = "unknown"
	CodeInvalidArgument   Code = "invalid_argument"
	CodeNotFound          Code = "not_found"
	CodeConflict          Code = "conflict"
	CodeInsufficientStock Code = "insufficient_stock"
	CodeNotInCart         Code = "not_in_cart"
	CodeInvalidTransition Code = "invalid_transition"
	CodeEmptySelection    Code = "empty_selection"
	CodeUnavailable       Code = "unavailable"
	CodeCanceled          Code = "canceled"
)

// Error is returned by the remote client and by every domain operation.
type Error struct {
	Op      string // domain operation or endpoint, e.g. "cart.add"
	Kind    Kind
	Code    Code
	Status  int    // HTTP status, 0 when no response was received
	BizCode int    // envelope code, 0 when absent
	Message string // backend-supplied or generic message
	Err     error
}

func (e *Error) Error() string {
	msg := e.Message
	if msg == "" && e.Err != nil {
		msg = e.Err.Error()
	}
	if msg == "" {
		msg = string(e.Code)
	}
	if e.Op != "" {
		return fmt.Sprintf("%s: %s", e.Op, msg)
	}
	return msg
}

func (e *Error) Unwrap() error { return e.Err }

// Is matches another *Error by Code, so errors.Is(err, apierr.ErrNotFound)
// works regardless of op or message.
func (e *Error) Is(target error) bool {
	t, ok := target.(*Error)
	if !ok {
		return false
	}
	return t.Code != "" && t.Code == e.Code && t.Op == "" && t.Kind == ""
}

// Sentinels for errors.Is.
var (
	ErrNotFound          = &Error{Code: CodeNotFound}
	ErrConflict          = &Error{Code: CodeConflict}
	ErrInsufficientStock = &Error{Code: CodeInsufficientStock}
	ErrNotInCart         = &Error{Code: CodeNotInCart}
	ErrInvalidTransition = &Error{Code: CodeInvalidTransition}
	ErrEmptySelection    = &Error{Code: CodeEmptySelection}
	ErrInvalidArgument   = &Error{Code: CodeInvalidArgument}
	ErrUnavailable       = &Error{Code: CodeUnavailable}
)

// Validation builds a local rejection.
func Validation(op string, code Code, msg string) *Error {
	return &Error{Op: op, Kind: KindValidation, Code: code, Message: msg}
}

// Transport wraps a failure to obtain a response at all.
func Transport(op string, err error) *Error {
	code := CodeUnavailable
	if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
		code = CodeCanceled
	}
	return &Error{Op: op, Kind: KindTransport, Code: code, Message: "request failed", Err: err}
}

// HTTPStatus builds a transport error for a response with status >= 400.
func HTTPStatus(op string, status int, errorCode, msg string) *Error {
	if msg == "" {
		msg = fmt.Sprintf("HTTP %d error", status)
	}
	return &Error{
		Op:      op,
		Kind:    KindTransport,
		Code:    classify(errorCode, status),
		Status:  status,
		Message: msg,
	}
}

// Business builds an error for an envelope whose code is not the success sentinel.
func Business(op string, status, bizCode int, errorCode, msg string) *Error {
	if msg == "" {
		msg = "request failed"
	}
	return &Error{
		Op:      op,
		Kind:    KindBusiness,
		Code:    classify(errorCode, bizCode),
		Status:  status,
		BizCode: bizCode,
		Message: msg,
	}
}

// Protocol wraps an undecodable body.
func Protocol(op string, status int, err error) *Error {
	return &Error{
		Op:      op,
		Kind:    KindProtocol,
		Code:    CodeUnknown,
		Status:  status,
		Message: "malformed response body",
		Err:     err,
	}
}

var knownErrorCodes = map[string]Code{
	"NOT_FOUND":                 CodeNotFound,
	"PRODUCT_NOT_FOUND":         CodeNotFound,
	"ORDER_NOT_FOUND":           CodeNotFound,
	"CART_ITEM_NOT_FOUND":       CodeNotInCart,
	"ITEM_NOT_IN_CART":          CodeNotInCart,
	"INSUFFICIENT_STOCK":        CodeInsufficientStock,
	"OUT_OF_STOCK":              CodeInsufficientStock,
	"INVALID_STATUS_TRANSITION": CodeInvalidTransition,
	"ORDER_STATUS_INVALID":      CodeInvalidTransition,
	"INVALID_ARGUMENT":          CodeInvalidArgument,
	"VALIDATION_FAILED":         CodeInvalidArgument,
	"CONFLICT":                  CodeConflict,
}

// classify prefers the structured errorCode and falls back to the numeric code.
func classify(errorCode string, numeric int) Code {
	if errorCode != "" {
		key := strings.ToUpper(strings.ReplaceAll(strings.TrimSpace(errorCode), "-", "_"))
		if c, ok := knownErrorCodes[key]; ok {
			return c
		}
	}
	switch {
	case numeric == http.StatusBadRequest || numeric == http.StatusUnprocessableEntity:
		return CodeInvalidArgument
	case numeric == http.StatusNotFound:
		return CodeNotFound
	case numeric == http.StatusConflict:
		return CodeConflict
	case numeric >= http.StatusInternalServerError:
		return CodeUnavailable
	}
	return CodeUnknown
}

// ForOp tags err with a domain operation. A generic conflict is re-coded as
// conflictAs when that is non-empty. Non-*Error values are wrapped as unknown.
func ForOp(op string, err error, conflictAs Code) error {
	if err == nil {
		return nil
	}
	var ae *Error
	if !errors.As(err, &ae) {
		return &Error{Op: op, Kind: KindTransport, Code: CodeUnknown, Err: err}
	}
	out := *ae
	out.Op = op
	if out.Code == CodeConflict && conflictAs != "" {
		out.Code = conflictAs
	}
	return &out
}

// KindOf reports the Kind of err, or "" when err is not an *Error.
func KindOf(err error) Kind {
	var ae *Error
	if errors.As(err, &ae) {
		return ae.Kind
	}
	return ""
}

// CodeOf reports the Code of err; CodeUnknown for foreign errors.
func CodeOf(err error) Code {
	var ae *Error
	if errors.As(err, &ae) {
		return ae.Code
	}
	if err == nil {
		return ""
	}
	return CodeUnknown
}
