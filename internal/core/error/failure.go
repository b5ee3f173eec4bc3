package errx

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strings"
)

// Detail is the server-supplied part of a Failure. It is one of StringDetail or
// StructuredDetail; a nil Detail means the body was absent or unparsable.
type Detail interface {
	isDetail()
}

// StringDetail is a plain-string error body.
type StringDetail string

// StructuredDetail is an object error body such as {"error": "...", "message": "..."}.
type StructuredDetail struct {
	Error   string `json:"error,omitempty"`
	Message string `json:"message,omitempty"`
}

func (StringDetail) isDetail()     {}
func (StructuredDetail) isDetail() {}

// Failure is the single error value the remote dispatcher returns. Raw
// transport faults never escape past it.
type Failure struct {
	RawMessage string
	Detail     Detail
	StatusCode int
	Err        error
}

// Error implements the error interface.
func (f *Failure) Error() string {
	if f.StatusCode != 0 {
		return fmt.Sprintf("legal api: status %d: %s", f.StatusCode, f.RawMessage)
	}
	return "legal api: " + f.RawMessage
}

// Unwrap exposes the transport error, if any.
func (f *Failure) Unwrap() error {
	return f.Err
}

// Transport converts a transport-level error (dial, TLS, timeout) into a Failure.
func Transport(err error) *Failure {
	if err == nil {
		return nil
	}
	return &Failure{RawMessage: err.Error(), Err: err}
}

// Decode reports a success status whose body could not be decoded.
func Decode(status int, err error) *Failure {
	return &Failure{
		RawMessage: fmt.Sprintf("decode response: %v", err),
		StatusCode: status,
		Err:        err,
	}
}

// FromResponse builds a Failure from a non-success response. The FastAPI
// backend nests its reason under "detail"; when nothing parses, the failure
// carries only the status code.
func FromResponse(status int, body []byte) *Failure {
	f := &Failure{
		RawMessage: fmt.Sprintf("HTTP %d %s", status, http.StatusText(status)),
		StatusCode: status,
	}
	f.Detail = parseDetail(body)
	return f
}

// AsFailure recovers the Failure in err's chain, converting foreign errors so
// callers can always classify.
func AsFailure(err error) *Failure {
	if err == nil {
		return nil
	}
	var f *Failure
	if errors.As(err, &f) {
		return f
	}
	return Transport(err)
}

func parseDetail(body []byte) Detail {
	if len(strings.TrimSpace(string(body))) == 0 {
		return nil
	}

	var envelope struct {
		Detail  json.RawMessage `json:"detail"`
		Message string          `json:"message"`
		Error   string          `json:"error"`
	}
	if err := json.Unmarshal(body, &envelope); err != nil {
		return nil
	}

	if len(envelope.Detail) == 0 || string(envelope.Detail) == "null" {
		if envelope.Message != "" || envelope.Error != "" {
			return StructuredDetail{Error: envelope.Error, Message: envelope.Message}
		}
		return nil
	}

	var s string
	if err := json.Unmarshal(envelope.Detail, &s); err == nil {
		return StringDetail(s)
	}

	var obj StructuredDetail
	if err := json.Unmarshal(envelope.Detail, &obj); err == nil {
		return obj
	}

	// request validation errors arrive as a list of {loc, msg, type}
	var items []struct {
		Msg string `json:"msg"`
	}
	if err := json.Unmarshal(envelope.Detail, &items); err == nil {
		msgs := make([]string, 0, len(items))
		for _, it := range items {
			if it.Msg != "" {
				msgs = append(msgs, it.Msg)
			}
		}
		if len(msgs) > 0 {
			return StringDetail(strings.Join(msgs, "; "))
		}
	}
	return nil
}
