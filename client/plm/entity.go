package plm

// Entity is one record of the backend's dynamic schema: a mapping from
// field name to value. The entity type name ("Part", "Employee", ...) is
// carried at the call site, not inside the record.
type Entity map[string]interface{}

// fields owned by the backend on every entity
const (
	FieldID             = "id"
	FieldCreator        = "creator"
	FieldModifier       = "modifier"
	FieldCreateTime     = "createTime"
	FieldLastUpdateTime = "lastUpdateTime"
	FieldRdmVersion     = "rdmVersion"
	FieldRdmDeleteFlag  = "rdmDeleteFlag"
	FieldRdmExtension   = "rdmExtensionType"
	FieldClassName      = "className"
	FieldTenant         = "tenant"
)

// serverOwnedFields are stripped from an update payload before it is sent.
// id stays: it addresses the record being updated.
var serverOwnedFields = []string{
	FieldCreateTime, FieldLastUpdateTime, FieldRdmDeleteFlag,
	FieldRdmExtension, FieldClassName, FieldTenant,
}

func (e Entity) ID() string {
	return e.StringField(FieldID)
}

func (e Entity) StringField(name string) string {
	if v, ok := e[name].(string); ok {
		return v
	}
	return ""
}

// Int64Field reads a numeric field. JSON decoding yields float64 for
// numbers, in-process built records may hold native integer types.
func (e Entity) Int64Field(name string) int64 {
	switch v := e[name].(type) {
	case float64:
		return int64(v)
	case int64:
		return v
	case int:
		return int64(v)
	}
	return 0
}

func (e Entity) BoolField(name string) bool {
	if v, ok := e[name].(bool); ok {
		return v
	}
	return false
}

func (e Entity) Reference(name string) (*Reference, error) {
	return DecodeReference(name, e[name])
}

func (e Entity) CodedReference(name string) (*CodedReference, error) {
	return DecodeCodedReference(name, e[name])
}

// StripSystemFields removes the backend-owned fields from params in place
// and returns params. Callers never set system fields on a write.
func StripSystemFields(params map[string]interface{}) map[string]interface{} {
	if params == nil {
		return nil
	}
	for _, name := range serverOwnedFields {
		delete(params, name)
	}
	return params
}
