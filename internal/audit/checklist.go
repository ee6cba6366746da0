// Package audit runs declarative compliance checklists against firewall
// rules served by a source.
package audit

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// Predicate names accepted in checklist files.
const (
	PredicateExists              = "exists"
	PredicateAllowedHTTP         = "allowed-http"
	PredicateAllowedSSH          = "allowed-ssh"
	PredicateAllowedHTTPS        = "allowed-https"
	PredicateAllowedRDP          = "allowed-rdp"
	PredicateAllowPortProtocol   = "allow-port-protocol"
	PredicateAllowSourceTags     = "allow-source-tags"
	PredicateAllowSourceTagsOnly = "allow-source-tags-only"
	PredicateAllowTargetTags     = "allow-target-tags"
	PredicateAllowTargetTagsOnly = "allow-target-tags-only"
	PredicateAllowIPRanges       = "allow-ip-ranges"
	PredicateAllowIPRangesOnly   = "allow-ip-ranges-only"
)

// Check is one expected predicate outcome. Port and Protocol only apply to
// allow-port-protocol; Values feeds the tag and range predicates.
type Check struct {
	Predicate string   `yaml:"predicate"`
	Port      string   `yaml:"port,omitempty"`
	Protocol  string   `yaml:"protocol,omitempty"`
	Values    []string `yaml:"values,omitempty"`
	Expect    bool     `yaml:"expect"`
}

// RuleChecks groups the checks declared against one firewall rule.
type RuleChecks struct {
	Project string  `yaml:"project"`
	Name    string  `yaml:"name"`
	Checks  []Check `yaml:"checks"`
}

// Checklist is a declarative audit document.
type Checklist struct {
	Firewalls []RuleChecks `yaml:"firewalls"`
}

// LoadChecklist reads and validates a YAML checklist file.
func LoadChecklist(path string) (*Checklist, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read checklist: %w", err)
	}
	return ParseChecklist(data)
}

// ParseChecklist decodes and validates checklist YAML.
func ParseChecklist(data []byte) (*Checklist, error) {
	var checklist Checklist
	if err := yaml.Unmarshal(data, &checklist); err != nil {
		return nil, fmt.Errorf("parse checklist: %w", err)
	}
	if err := checklist.validate(); err != nil {
		return nil, err
	}
	return &checklist, nil
}

func (c *Checklist) validate() error {
	if len(c.Firewalls) == 0 {
		return fmt.Errorf("checklist declares no firewalls")
	}
	for i, fw := range c.Firewalls {
		if fw.Project == "" {
			return fmt.Errorf("firewalls[%d]: missing project", i)
		}
		if fw.Name == "" {
			return fmt.Errorf("firewalls[%d]: missing name", i)
		}
		if len(fw.Checks) == 0 {
			return fmt.Errorf("firewalls[%d] (%s/%s): no checks", i, fw.Project, fw.Name)
		}
		for j, check := range fw.Checks {
			if err := check.validate(); err != nil {
				return fmt.Errorf("firewalls[%d] (%s/%s) checks[%d]: %w", i, fw.Project, fw.Name, j, err)
			}
		}
	}
	return nil
}

func (c Check) validate() error {
	switch c.Predicate {
	case PredicateExists, PredicateAllowedHTTP, PredicateAllowedSSH,
		PredicateAllowedHTTPS, PredicateAllowedRDP:
	case PredicateAllowPortProtocol:
		if c.Port == "" {
			return fmt.Errorf("predicate %s requires a port", c.Predicate)
		}
	case PredicateAllowSourceTags, PredicateAllowSourceTagsOnly,
		PredicateAllowTargetTags, PredicateAllowTargetTagsOnly,
		PredicateAllowIPRanges, PredicateAllowIPRangesOnly:
		// values may be empty, an empty set matches trivially
	case "":
		return fmt.Errorf("missing predicate")
	default:
		return fmt.Errorf("unknown predicate %q", c.Predicate)
	}
	return nil
}
