package generate

import (
	"encoding/json"
	"fmt"
	"strings"
	"sync"

	"github.com/bytedance/sonic"
	"github.com/eino-contrib/jsonschema"
	"github.com/xeipuuv/gojsonschema"
)

type FieldError struct {
	Field   string
	Message string
}

// SchemaError lists every way a payload breaks the wire schema.
type SchemaError struct {
	Errors []FieldError
}

func (e *SchemaError) Error() string {
	var sb strings.Builder
	sb.WriteString("payload does not match schema:")
	for _, fe := range e.Errors {
		sb.WriteString(fmt.Sprintf(" %s: %s;", fe.Field, fe.Message))
	}
	return strings.TrimSuffix(sb.String(), ";")
}

var (
	schemaOnce     sync.Once
	schemaDoc      []byte
	schemaCompiled *gojsonschema.Schema
	schemaErr      error
)

func loadSchema() {
	s := jsonschema.Reflect(&Payload{})
	s.Title = "Interview generation request"
	s.Description = "Body accepted by the interview generation endpoint."
	raw, err := json.Marshal(s)
	if err != nil {
		schemaErr = fmt.Errorf("marshal payload schema: %w", err)
		return
	}

	// gojsonschema only knows drafts up to 7; drop the declared draft so it
	// validates in hybrid mode, and the id so $ref resolves inside this document.
	var doc map[string]any
	if err := json.Unmarshal(raw, &doc); err != nil {
		schemaErr = fmt.Errorf("decode payload schema: %w", err)
		return
	}
	delete(doc, "$schema")
	delete(doc, "$id")
	if schemaDoc, err = json.MarshalIndent(doc, "", "  "); err != nil {
		schemaErr = fmt.Errorf("marshal payload schema: %w", err)
		return
	}

	schemaCompiled, schemaErr = gojsonschema.NewSchema(gojsonschema.NewBytesLoader(schemaDoc))
	if schemaErr != nil {
		schemaErr = fmt.Errorf("compile payload schema: %w", schemaErr)
	}
}

// PayloadSchema returns the JSON schema of Payload.
func PayloadSchema() ([]byte, error) {
	schemaOnce.Do(loadSchema)
	return schemaDoc, schemaErr
}

// ValidatePayload checks p against the wire schema before it is sent.
func ValidatePayload(p Payload) error {
	schemaOnce.Do(loadSchema)
	if schemaErr != nil {
		return schemaErr
	}
	doc, err := sonic.Marshal(p)
	if err != nil {
		return fmt.Errorf("marshal payload: %w", err)
	}
	res, err := schemaCompiled.Validate(gojsonschema.NewBytesLoader(doc))
	if err != nil {
		return fmt.Errorf("validate payload: %w", err)
	}
	if res.Valid() {
		return nil
	}
	se := &SchemaError{}
	for _, e := range res.Errors() {
		se.Errors = append(se.Errors, FieldError{Field: e.Field(), Message: e.Description()})
	}
	return se
}
