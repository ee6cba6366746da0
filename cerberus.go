// Package cerberus evaluates GCP firewall rule compliance. It loads one
// compute#firewall resource at a time through a pluggable Source and
// answers allow/deny predicates over the rule's declarative attributes:
// protocol/port coverage, source and target tag sets, and
// direction-relevant IP ranges. Evaluation is read-only and pure; the
// only external operation is the one fetch at Load.
package cerberus

import (
	"context"
	"time"

	"github.com/eleven-am/cerberus/internal/audit"
	"github.com/eleven-am/cerberus/internal/gcp"
	"github.com/eleven-am/cerberus/internal/rules"
)

// Load fetches the firewall rule named name in project through src and
// wraps it for evaluation. A rule the source does not have yields a
// handle with Exists() == false rather than an error; transport and
// decode failures fail the load.
func Load(ctx context.Context, src Source, project, name string) (*Firewall, error) {
	return rules.Load(ctx, src, project, name)
}

// NewFirewall wraps already-fetched rule data for evaluation. A nil data
// marks a rule that was not found.
func NewFirewall(data *FirewallData, project, name string) *Firewall {
	return rules.NewFirewall(data, project, name)
}

// NewStaticSource returns a Source serving rules registered in memory.
func NewStaticSource() *StaticSource {
	return gcp.NewStaticSource()
}

// NewFileSource returns a Source serving exported resource documents from
// root, laid out as <root>/<project>/<name>.json (or .yaml/.yml).
func NewFileSource(root string) *FileSource {
	return gcp.NewFileSource(root)
}

// NewCachedSource wraps src with a TTL cache over successful lookups.
// Non-positive ttl and capacity select the defaults.
func NewCachedSource(src Source, ttl time.Duration, capacity int) *CachedSource {
	return gcp.NewCachedSource(src, ttl, capacity)
}

// DecodeJSON parses one firewall resource document as produced by
// `gcloud compute firewall-rules describe --format=json`.
func DecodeJSON(data []byte) (*FirewallData, error) {
	return gcp.DecodeJSON(data)
}

// DecodeYAML parses the --format=yaml flavor of the same document.
func DecodeYAML(data []byte) (*FirewallData, error) {
	return gcp.DecodeYAML(data)
}

// LoadChecklist reads and validates a YAML audit checklist.
func LoadChecklist(path string) (*Checklist, error) {
	return audit.LoadChecklist(path)
}

// ParseChecklist decodes and validates checklist YAML.
func ParseChecklist(data []byte) (*Checklist, error) {
	return audit.ParseChecklist(data)
}

// NewRunner returns an audit runner evaluating checklists against rules
// served by src.
func NewRunner(src Source) *Runner {
	return audit.NewRunner(src)
}
