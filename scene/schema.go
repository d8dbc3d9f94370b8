package scene

import (
	_ "embed"
	"encoding/json"
	"strings"
	"sync"

	"github.com/pkg/errors"
	"github.com/santhosh-tekuri/jsonschema/v5"
)

const schemaURL = "scene.schema.json"

//go:embed scene.schema.json
var schemaJSON string

var (
	schemaOnce sync.Once
	schema     *jsonschema.Schema
	schemaErr  error
)

func compiledSchema() (*jsonschema.Schema, error) {
	schemaOnce.Do(func() {
		c := jsonschema.NewCompiler()
		if err := c.AddResource(schemaURL, strings.NewReader(schemaJSON)); err != nil {
			schemaErr = errors.Wrap(err, "load scene schema")
			return
		}
		schema, schemaErr = c.Compile(schemaURL)
		if schemaErr != nil {
			schemaErr = errors.Wrap(schemaErr, "compile scene schema")
		}
	})
	return schema, schemaErr
}

// validateDocument checks a decoded YAML document against the scene schema
// The document is round-tripped through JSON so the validator sees JSON value types
func validateDocument(doc any) error {
	s, err := compiledSchema()
	if err != nil {
		return err
	}

	raw, err := json.Marshal(doc)
	if err != nil {
		return errors.Wrap(err, "scene document is not JSON compatible")
	}
	var v any
	if err := json.Unmarshal(raw, &v); err != nil {
		return errors.Wrap(err, "scene document round trip")
	}

	if err := s.Validate(v); err != nil {
		return errors.Wrap(ErrInvalidScene, err.Error())
	}
	return nil
}
