package plm

import (
	"encoding/json"
	"fmt"
	"strings"
)

// WireRequest is the uniform outgoing message of the dynamic entity API.
type WireRequest struct {
	Params        interface{} `json:"params"`
	ApplicationID interface{} `json:"applicationId"`
}

// wireResponse is the uniform response envelope. error_msg/error_code live
// outside the declared envelope schema on some endpoints; they are
// best-effort enrichment, never required.
type wireResponse struct {
	Result    string          `json:"result"`
	Data      json.RawMessage `json:"data"`
	Errors    []string        `json:"errors"`
	ErrorMsg  string          `json:"error_msg"`
	ErrorCode string          `json:"error_code"`
}

const resultSuccess = "SUCCESS"

// PayloadShape selects how the data payload of a SUCCESS envelope is
// decoded. The per-operation mapping is a fixed backend contract:
// create/update/get/checkout/checkin wrap a logically-single result in a
// one-element array, list/find/history return plain arrays, and delete
// carries no payload at all. Changing this table silently misparses
// responses.
type PayloadShape int

const (
	ShapeSingle PayloadShape = iota
	ShapeUnwrapFirst
	ShapeList
	ShapeNone
)

// RemoteOperationError is a business rejection reported by the backend:
// a FAIL envelope, or an empty array on an unwrap-first endpoint. It is
// not retryable.
type RemoteOperationError struct {
	Entity    string
	Operation string
	Code      string
	Message   string
}

func (e *RemoteOperationError) Error() string {
	if e.Code != "" {
		return fmt.Sprintf("%s/%s rejected by backend [%s]: %s", e.Entity, e.Operation, e.Code, e.Message)
	}
	return fmt.Sprintf("%s/%s rejected by backend: %s", e.Entity, e.Operation, e.Message)
}

// BuildRequest wraps an already-enriched payload into the wire message.
// applicationId is always present and always null in this deployment.
func BuildRequest(params interface{}) *WireRequest {
	return &WireRequest{Params: params}
}

// EnrichParams stamps the fixed operator identity and normalizes the known
// timestamp fields, in place. Caller-provided creator/modifier are
// overwritten: caller input is not trusted here. Every operation passes
// through this step, reads included, for protocol symmetry with the
// backend.
func EnrichParams(params map[string]interface{}, operator string) map[string]interface{} {
	if params == nil {
		params = map[string]interface{}{}
	}
	NormalizeTimestamps(params)
	params[FieldCreator] = operator
	params[FieldModifier] = operator
	return params
}

// ParseResponse decodes the response envelope and applies the payload
// shape. It always returns a slice; unwrap-first callers take element 0.
func ParseResponse(entity, operation string, body []byte, shape PayloadShape) ([]Entity, error) {
	envelope := wireResponse{}
	if err := json.Unmarshal(body, &envelope); err != nil {
		return nil, &DecodeError{Field: "<envelope>", Raw: truncateForDiagnostics(body)}
	}
	if envelope.Result != resultSuccess {
		return nil, newRemoteOperationError(entity, operation, &envelope)
	}

	switch shape {
	case ShapeNone:
		// a SUCCESS envelope is sufficient, absent data is not an error
		return nil, nil
	case ShapeSingle:
		if emptyData(envelope.Data) {
			return nil, &RemoteOperationError{Entity: entity, Operation: operation, Message: "empty result"}
		}
		record := Entity{}
		if err := json.Unmarshal(envelope.Data, &record); err != nil {
			return nil, &DecodeError{Field: "data", Raw: truncateForDiagnostics(envelope.Data)}
		}
		return []Entity{record}, nil
	default:
		records := []Entity{}
		if !emptyData(envelope.Data) {
			if err := json.Unmarshal(envelope.Data, &records); err != nil {
				return nil, &DecodeError{Field: "data", Raw: truncateForDiagnostics(envelope.Data)}
			}
		}
		if shape == ShapeUnwrapFirst {
			if len(records) == 0 {
				return nil, &RemoteOperationError{Entity: entity, Operation: operation, Message: "empty result"}
			}
			return records[:1], nil
		}
		return records, nil
	}
}

func emptyData(data json.RawMessage) bool {
	return len(data) == 0 || string(data) == "null"
}

func newRemoteOperationError(entity, operation string, envelope *wireResponse) *RemoteOperationError {
	message := strings.Join(envelope.Errors, "; ")
	if envelope.ErrorMsg != "" {
		if message != "" {
			message = message + "; " + envelope.ErrorMsg
		} else {
			message = envelope.ErrorMsg
		}
	}
	if message == "" {
		message = "remote operation failed"
	}
	return &RemoteOperationError{Entity: entity, Operation: operation, Code: envelope.ErrorCode, Message: message}
}

func truncateForDiagnostics(raw []byte) string {
	if len(raw) > 512 {
		return string(raw[:512]) + "..."
	}
	return string(raw)
}
