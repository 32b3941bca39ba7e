// pkg/registry/registry.go
package registry

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/xeipuuv/gojsonschema"
)

func LoadRegistry(path string) (*ActivityRegistry, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	var reg ActivityRegistry
	if err := json.Unmarshal(data, &reg); err != nil {
		return nil, err
	}
	return &reg, nil
}

// Find returns the activity registered for a task type.
func (r *ActivityRegistry) Find(taskType string) (*Activity, bool) {
	for i := range r.Activities {
		if r.Activities[i].TaskType == taskType {
			return &r.Activities[i], true
		}
	}
	return nil, false
}

// Validate checks that every activity carries a task type and that its
// input and output schemas compile as JSON Schema documents. Run at
// startup so a malformed registry fails fast instead of at job time.
func (r *ActivityRegistry) Validate() error {
	seen := make(map[string]bool, len(r.Activities))
	for _, a := range r.Activities {
		if a.TaskType == "" {
			return fmt.Errorf("activity %q: missing task type", a.ID)
		}
		if seen[a.TaskType] {
			return fmt.Errorf("activity %q: duplicate task type %q", a.ID, a.TaskType)
		}
		seen[a.TaskType] = true

		for name, schema := range map[string]map[string]interface{}{
			"input": a.InputSchema, "output": a.OutputSchema,
		} {
			if schema == nil {
				continue
			}
			loader := gojsonschema.NewGoLoader(schema)
			if _, err := gojsonschema.NewSchema(loader); err != nil {
				return fmt.Errorf("activity %q: invalid %s schema: %w", a.ID, name, err)
			}
		}
	}
	return nil
}
