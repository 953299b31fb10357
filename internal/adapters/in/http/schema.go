package http

import (
	"bytes"
	"context"
	_ "embed"
	"encoding/json"
	"fmt"
	"io"

	"github.com/getkin/kin-openapi/openapi3"
)

//go:embed openapi.yaml
var openAPIDocument []byte

const (
	schemaProviderStatusUpdate = "ProviderStatusUpdate"
	schemaPlaceOrderRequest    = "PlaceOrderRequest"
)

// SchemaValidator checks request bodies against the embedded OpenAPI components.
type SchemaValidator struct {
	doc *openapi3.T
}

// NewSchemaValidator loads and validates the embedded document.
func NewSchemaValidator(ctx context.Context) (*SchemaValidator, error) {
	doc, err := openapi3.NewLoader().LoadFromData(openAPIDocument)
	if err != nil {
		return nil, fmt.Errorf("load openapi document: %w", err)
	}
	if err = doc.Validate(ctx); err != nil {
		return nil, fmt.Errorf("validate openapi document: %w", err)
	}
	return &SchemaValidator{doc: doc}, nil
}

// Decode validates body against the named schema, then unmarshals it into dst.
func (v *SchemaValidator) Decode(body io.Reader, schemaName string, dst any) error {
	ref, ok := v.doc.Components.Schemas[schemaName]
	if !ok || ref.Value == nil {
		return fmt.Errorf("unknown schema %q", schemaName)
	}

	raw, err := io.ReadAll(body)
	if err != nil {
		return err
	}

	var generic any
	if err = json.Unmarshal(raw, &generic); err != nil {
		return err
	}
	if err = ref.Value.VisitJSON(generic); err != nil {
		return err
	}

	dec := json.NewDecoder(bytes.NewReader(raw))
	return dec.Decode(dst)
}
