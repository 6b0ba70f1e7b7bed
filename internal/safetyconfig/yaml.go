package safetyconfig

import (
	"encoding/json"
	"fmt"

	"gopkg.in/yaml.v3"
)

// yamlToJSON lets the YAML form of the document share the JSON decoder and
// its required-key check.
func yamlToJSON(data []byte) ([]byte, error) {
	var doc map[string]any
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("decode yaml: %w", err)
	}
	out, err := json.Marshal(doc)
	if err != nil {
		return nil, fmt.Errorf("convert yaml: %w", err)
	}
	return out, nil
}
