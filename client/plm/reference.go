package plm

import "fmt"

// Reference names another entity instance. On write only ID is significant;
// DisplayName is a read-only projection populated by the backend.
type Reference struct {
	ID          string `json:"id"`
	DisplayName string `json:"displayName,omitempty"`
}

// CodedReference is an enumeration-like value. It is written as a bare code
// string and read back as a structured object.
type CodedReference struct {
	Code   string `json:"code"`
	CnName string `json:"cnName,omitempty"`
	EnName string `json:"enName,omitempty"`
	Alias  string `json:"alias,omitempty"`
}

// DecodeError reports a wire value whose shape matches no recognized
// variant. It is fatal to the current call: partial decoding of a corrupt
// entity is worse than failing the whole operation.
type DecodeError struct {
	Field string
	Raw   interface{}
}

func (e *DecodeError) Error() string {
	return fmt.Sprintf("unrecognized wire shape of field %q: %v", e.Field, e.Raw)
}

// EncodeReference emits the write shape of a reference: an object holding
// id and, when present, displayName. Absent fields are omitted entirely,
// and a nil reference stays nil rather than becoming an empty object.
func EncodeReference(ref *Reference) interface{} {
	if ref == nil {
		return nil
	}
	wire := map[string]interface{}{"id": ref.ID}
	if ref.DisplayName != "" {
		wire["displayName"] = ref.DisplayName
	}
	return wire
}

// DecodeReference accepts the three read shapes the backend produces:
// null, a bare id string, or an object carrying id plus a display label
// under either "displayName" or "name".
func DecodeReference(field string, value interface{}) (*Reference, error) {
	switch v := value.(type) {
	case nil:
		return nil, nil
	case string:
		return &Reference{ID: v}, nil
	case map[string]interface{}:
		id, ok := v["id"].(string)
		if !ok {
			return nil, &DecodeError{Field: field, Raw: value}
		}
		ref := Reference{ID: id}
		if name, ok := v["displayName"].(string); ok {
			ref.DisplayName = name
		} else if name, ok := v["name"].(string); ok {
			ref.DisplayName = name
		}
		return &ref, nil
	}
	return nil, &DecodeError{Field: field, Raw: value}
}

// EncodeCodedReference emits the write shape of a coded reference: the bare
// code string. The human readable names are never sent by the client.
func EncodeCodedReference(coded *CodedReference) interface{} {
	if coded == nil || coded.Code == "" {
		return nil
	}
	return coded.Code
}

// DecodeCodedReference accepts null, a bare code string, or the structured
// object shape. Anything else fails fast instead of guessing.
func DecodeCodedReference(field string, value interface{}) (*CodedReference, error) {
	switch v := value.(type) {
	case nil:
		return nil, nil
	case string:
		return &CodedReference{Code: v, EnName: v}, nil
	case map[string]interface{}:
		code, ok := v["code"].(string)
		if !ok {
			return nil, &DecodeError{Field: field, Raw: value}
		}
		coded := CodedReference{Code: code}
		coded.CnName, _ = v["cnName"].(string)
		coded.EnName, _ = v["enName"].(string)
		coded.Alias, _ = v["alias"].(string)
		return &coded, nil
	}
	return nil, &DecodeError{Field: field, Raw: value}
}
