package httpapi

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"strconv"

	"github.com/andreasstove999/ecommerce-system/storefront-go/internal/apierr"
	"github.com/andreasstove999/ecommerce-system/storefront-go/internal/middleware"
)

const maxBodyBytes = 1 << 20

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

// writeError maps err onto an HTTP status and the shared error body. The
// message is the user-facing one from apierr.Display.
func (h *Handler) writeError(w http.ResponseWriter, r *http.Request, err error) {
	status := statusFor(err)
	if status >= http.StatusInternalServerError {
		h.logger.ErrorContext(r.Context(), "request failed", "path", r.URL.Path, "status", status, "error", err)
	} else {
		h.logger.InfoContext(r.Context(), "request rejected", "path", r.URL.Path, "status", status, "error", err)
	}
	writeJSON(w, status, middleware.ErrorResponse{
		Error:         apierr.Display(err),
		Code:          string(apierr.CodeOf(err)),
		CorrelationID: middleware.GetCorrelationID(r.Context()),
	})
}

func statusFor(err error) int {
	switch apierr.CodeOf(err) {
	case apierr.CodeInvalidArgument, apierr.CodeEmptySelection:
		return http.StatusBadRequest
	case apierr.CodeNotFound:
		return http.StatusNotFound
	case apierr.CodeConflict, apierr.CodeInsufficientStock, apierr.CodeNotInCart, apierr.CodeInvalidTransition:
		return http.StatusConflict
	case apierr.CodeUnavailable:
		return http.StatusBadGateway
	case apierr.CodeCanceled:
		return http.StatusGatewayTimeout
	}
	if apierr.KindOf(err) == apierr.KindProtocol {
		return http.StatusBadGateway
	}
	return http.StatusInternalServerError
}

func badRequest(op, msg string) error {
	return apierr.Validation(op, apierr.CodeInvalidArgument, msg)
}

// decodeBody decodes a JSON request body into v. An empty body leaves v
// untouched.
func decodeBody(r *http.Request, op string, v any) error {
	dec := json.NewDecoder(io.LimitReader(r.Body, maxBodyBytes))
	dec.DisallowUnknownFields()
	if err := dec.Decode(v); err != nil {
		if errors.Is(err, io.EOF) {
			return nil
		}
		return badRequest(op, "invalid json body")
	}
	return nil
}

// intParam reads a positive integer query parameter, returning def when absent.
func intParam(r *http.Request, op, name string, def int) (int, error) {
	raw := r.URL.Query().Get(name)
	if raw == "" {
		return def, nil
	}
	n, err := strconv.Atoi(raw)
	if err != nil || n < 1 {
		return 0, badRequest(op, name+" must be a positive integer")
	}
	return n, nil
}
