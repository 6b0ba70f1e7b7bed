package profile

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"
)

// ParseFile reads a profile document from disk. Files ending in .yaml or .yml
// are decoded as YAML, everything else as JSON.
func ParseFile(path string) (Profile, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Profile{}, fmt.Errorf("read profile: %w", err)
	}
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		return Parse(data, "yaml")
	default:
		return Parse(data, "json")
	}
}

// Parse decodes a profile document in the given format ("json" or "yaml").
func Parse(data []byte, format string) (Profile, error) {
	var p Profile
	switch format {
	case "yaml":
		if err := yaml.Unmarshal(data, &p); err != nil {
			return Profile{}, fmt.Errorf("decode profile yaml: %w", err)
		}
	default:
		if err := json.Unmarshal(data, &p); err != nil {
			return Profile{}, fmt.Errorf("decode profile json: %w", err)
		}
	}
	return p, nil
}
