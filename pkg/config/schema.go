package config

import (
	"bytes"
	_ "embed"
	"sync"

	"github.com/glorpus-work/relfetch/pkg/errors"
	"github.com/santhosh-tekuri/jsonschema/v6"
)

//go:embed schema.json
var schemaJSON []byte

const schemaURL = "https://relfetch.dev/schema/config.json"

var compileSchema = sync.OnceValues(func() (*jsonschema.Schema, error) {
	doc, err := jsonschema.UnmarshalJSON(bytes.NewReader(schemaJSON))
	if err != nil {
		return nil, err
	}
	c := jsonschema.NewCompiler()
	if err := c.AddResource(schemaURL, doc); err != nil {
		return nil, err
	}
	return c.Compile(schemaURL)
})

// validateSchema checks a decoded YAML document against the configuration schema.
func validateSchema(doc any) error {
	sch, err := compileSchema()
	if err != nil {
		return errors.Wrap(err, "failed to compile config schema")
	}
	if err := sch.Validate(doc); err != nil {
		return errors.Wrap(errors.ErrConfigSchema, err.Error())
	}
	return nil
}
