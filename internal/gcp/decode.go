// Package gcp turns exported compute#firewall documents into domain data
// and provides the sources the evaluator loads rules through.
package gcp

import (
	"encoding/json"
	"fmt"
	"path/filepath"

	"gopkg.in/yaml.v3"

	"github.com/eleven-am/cerberus/internal/domain"
)

// DecodeJSON parses one firewall resource document as produced by
// `gcloud compute firewall-rules describe --format=json`.
func DecodeJSON(data []byte) (*domain.FirewallData, error) {
	var fw domain.FirewallData
	if err := json.Unmarshal(data, &fw); err != nil {
		return nil, fmt.Errorf("decode firewall document: %w", err)
	}
	return &fw, nil
}

// DecodeYAML parses the --format=yaml flavor of the same document.
func DecodeYAML(data []byte) (*domain.FirewallData, error) {
	var fw domain.FirewallData
	if err := yaml.Unmarshal(data, &fw); err != nil {
		return nil, fmt.Errorf("decode firewall document: %w", err)
	}
	return &fw, nil
}

func decodeByExt(path string, data []byte) (*domain.FirewallData, error) {
	switch ext := filepath.Ext(path); ext {
	case ".json":
		return DecodeJSON(data)
	case ".yaml", ".yml":
		return DecodeYAML(data)
	default:
		return nil, fmt.Errorf("unsupported document extension %q", ext)
	}
}
