package domain

import (
	"fmt"

	"gopkg.in/yaml.v3"

	"github.com/eleven-am/cerberus/internal/optional"
)

// Direction is the traffic direction of a firewall rule as reported by the
// Compute API.
type Direction string

const (
	DirectionIngress Direction = "INGRESS"
	DirectionEgress  Direction = "EGRESS"
)

// AllowedEntry is one protocol/ports pair from a rule's allowed or denied
// list. Ports stays unset for protocols that have none, such as icmp.
type AllowedEntry struct {
	IPProtocol optional.Value[string] `json:"IPProtocol" yaml:"IPProtocol"`
	Ports      optional.List[string]  `json:"ports" yaml:"ports"`
}

// LogConfig mirrors the rule's logging settings.
type LogConfig struct {
	Enable   bool   `json:"enable" yaml:"enable"`
	Metadata string `json:"metadata" yaml:"metadata"`
}

// FirewallData is one compute#firewall resource document. Fields the API
// never returned stay unset, which the evaluator treats differently from
// present-but-empty: absence of allowed or direction is a hard error,
// absence of tags or ranges just never matches.
type FirewallData struct {
	ID                    optional.Value[string]      `json:"id" yaml:"id"`
	Name                  optional.Value[string]      `json:"name" yaml:"name"`
	Description           optional.Value[string]      `json:"description" yaml:"description"`
	Network               optional.Value[string]      `json:"network" yaml:"network"`
	Priority              optional.Value[int64]       `json:"priority" yaml:"priority"`
	Direction             optional.Value[Direction]   `json:"direction" yaml:"direction"`
	Disabled              optional.Value[bool]        `json:"disabled" yaml:"disabled"`
	Allowed               optional.List[AllowedEntry] `json:"allowed" yaml:"allowed"`
	Denied                optional.List[AllowedEntry] `json:"denied" yaml:"denied"`
	SourceRanges          optional.List[string]       `json:"sourceRanges" yaml:"sourceRanges"`
	DestinationRanges     optional.List[string]       `json:"destinationRanges" yaml:"destinationRanges"`
	SourceTags            optional.List[string]       `json:"sourceTags" yaml:"sourceTags"`
	TargetTags            optional.List[string]       `json:"targetTags" yaml:"targetTags"`
	SourceServiceAccounts optional.List[string]       `json:"sourceServiceAccounts" yaml:"sourceServiceAccounts"`
	TargetServiceAccounts optional.List[string]       `json:"targetServiceAccounts" yaml:"targetServiceAccounts"`
	LogConfig             optional.Value[LogConfig]   `json:"logConfig" yaml:"logConfig"`
	CreationTimestamp     optional.Value[string]      `json:"creationTimestamp" yaml:"creationTimestamp"`
	SelfLink              optional.Value[string]      `json:"selfLink" yaml:"selfLink"`
}

// UnmarshalYAML decodes the document mapping field by field so that a key
// with a null value still reaches its optional wrapper. yaml.v3 skips a
// field's custom unmarshaler for null nodes, which would leave
// "sourceTags: null" looking unset instead of defined and empty. Unknown
// keys are ignored.
func (f *FirewallData) UnmarshalYAML(node *yaml.Node) error {
	return eachMappingField(node, "firewall document", func(key string, value *yaml.Node) error {
		switch key {
		case "id":
			return f.ID.UnmarshalYAML(value)
		case "name":
			return f.Name.UnmarshalYAML(value)
		case "description":
			return f.Description.UnmarshalYAML(value)
		case "network":
			return f.Network.UnmarshalYAML(value)
		case "priority":
			return f.Priority.UnmarshalYAML(value)
		case "direction":
			return f.Direction.UnmarshalYAML(value)
		case "disabled":
			return f.Disabled.UnmarshalYAML(value)
		case "allowed":
			return f.Allowed.UnmarshalYAML(value)
		case "denied":
			return f.Denied.UnmarshalYAML(value)
		case "sourceRanges":
			return f.SourceRanges.UnmarshalYAML(value)
		case "destinationRanges":
			return f.DestinationRanges.UnmarshalYAML(value)
		case "sourceTags":
			return f.SourceTags.UnmarshalYAML(value)
		case "targetTags":
			return f.TargetTags.UnmarshalYAML(value)
		case "sourceServiceAccounts":
			return f.SourceServiceAccounts.UnmarshalYAML(value)
		case "targetServiceAccounts":
			return f.TargetServiceAccounts.UnmarshalYAML(value)
		case "logConfig":
			return f.LogConfig.UnmarshalYAML(value)
		case "creationTimestamp":
			return f.CreationTimestamp.UnmarshalYAML(value)
		case "selfLink":
			return f.SelfLink.UnmarshalYAML(value)
		}
		return nil
	})
}

// UnmarshalYAML keeps null-valued keys visible to the optional fields,
// so "ports: null" stays distinct from an entry with no ports key.
func (e *AllowedEntry) UnmarshalYAML(node *yaml.Node) error {
	return eachMappingField(node, "allowed entry", func(key string, value *yaml.Node) error {
		switch key {
		case "IPProtocol":
			return e.IPProtocol.UnmarshalYAML(value)
		case "ports":
			return e.Ports.UnmarshalYAML(value)
		}
		return nil
	})
}

func eachMappingField(node *yaml.Node, what string, decode func(key string, value *yaml.Node) error) error {
	if node.Kind != yaml.MappingNode {
		return fmt.Errorf("%s on line %d is not a mapping", what, node.Line)
	}
	for i := 0; i+1 < len(node.Content); i += 2 {
		if err := decode(node.Content[i].Value, node.Content[i+1]); err != nil {
			return err
		}
	}
	return nil
}
