// Package dto holds the commerce backend's wire shapes.
package dto

import "encoding/json"

// SuccessCode is the envelope code the backend uses for a successful call.
const SuccessCode = 200

// Envelope wraps every REST response body.
type Envelope struct {
	Code      int             `json:"code"`
	Message   string          `json:"message"`
	ErrorCode string          `json:"errorCode,omitempty"`
	Data      json.RawMessage `json:"data"`
}
