package jobs

import (
	_ "embed"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/xeipuuv/gojsonschema"
)

//go:embed job.schema.json
var jobSchemaJSON []byte

var jobSchema = mustCompile(jobSchemaJSON)

// Keys the client may never set on a job document.
var protectedKeys = []string{"id", "_id", "employer", "applications", "createdAt", "updatedAt"}

func mustCompile(raw []byte) *gojsonschema.Schema {
	schema, err := gojsonschema.NewSchema(gojsonschema.NewBytesLoader(raw))
	if err != nil {
		panic(fmt.Sprintf("compile job schema: %v", err))
	}
	return schema
}

// Document is a job as submitted by a client: a loosely typed JSON object.
type Document map[string]any

// ParseDocument decodes a JSON object and drops server-owned keys.
func ParseDocument(raw []byte) (Document, error) {
	var doc Document
	if err := json.Unmarshal(raw, &doc); err != nil {
		return nil, fmt.Errorf("%w: body must be a JSON object", ErrInvalidInput)
	}
	if doc == nil {
		return nil, fmt.Errorf("%w: body must be a JSON object", ErrInvalidInput)
	}
	for _, k := range protectedKeys {
		delete(doc, k)
	}
	return doc, nil
}

// validateDocument checks doc against the job schema and returns every violation.
func validateDocument(doc Document) error {
	res, err := jobSchema.Validate(gojsonschema.NewGoLoader(map[string]any(doc)))
	if err != nil {
		return fmt.Errorf("%w: %v", ErrInvalidInput, err)
	}
	if res.Valid() {
		return nil
	}
	msgs := make([]string, 0, len(res.Errors()))
	for _, e := range res.Errors() {
		field := e.Field()
		if field == "(root)" {
			msgs = append(msgs, e.Description())
			continue
		}
		msgs = append(msgs, field+": "+e.Description())
	}
	return fmt.Errorf("%w: %s", ErrInvalidInput, strings.Join(msgs, "; "))
}

// merge overlays patch onto base. Top-level keys are replaced whole.
func merge(base, patch Document) Document {
	out := make(Document, len(base)+len(patch))
	for k, v := range base {
		out[k] = v
	}
	for k, v := range patch {
		out[k] = v
	}
	return out
}

// decode converts a validated document into an Input.
func (d Document) decode() (Input, error) {
	raw, err := json.Marshal(d)
	if err != nil {
		return Input{}, err
	}
	var in Input
	if err := json.Unmarshal(raw, &in); err != nil {
		return Input{}, fmt.Errorf("%w: %v", ErrInvalidInput, err)
	}
	return in, nil
}
