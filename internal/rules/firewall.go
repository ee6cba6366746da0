package rules

import (
	"context"
	"errors"
	"fmt"

	"github.com/eleven-am/cerberus/internal/domain"
)

// Ports behind the convenience predicates.
const (
	portHTTP  = "80"
	portSSH   = "22"
	portHTTPS = "443"
	portRDP   = "3389"
)

const defaultProtocol = "tcp"

// Firewall answers allow predicates over a single fetched firewall rule.
// A nil data marks a rule the source did not have; the handle stays usable
// and Exists reports false.
type Firewall struct {
	data    *domain.FirewallData
	project string
	name    string
}

func NewFirewall(data *domain.FirewallData, project, name string) *Firewall {
	return &Firewall{
		data:    data,
		project: project,
		name:    name,
	}
}

// Load fetches one firewall rule through src and wraps it for evaluation.
// A *domain.NotFoundError from the source yields a not-found handle rather
// than an error; anything else fails the load.
func Load(ctx context.Context, src domain.Source, project, name string) (*Firewall, error) {
	data, err := src.Firewall(ctx, project, name)
	if err != nil {
		var notFound *domain.NotFoundError
		if errors.As(err, &notFound) {
			return NewFirewall(nil, project, name), nil
		}
		return nil, fmt.Errorf("fetch firewall %s/%s: %w", project, name, err)
	}
	return NewFirewall(data, project, name), nil
}

func (f *Firewall) Exists() bool {
	return f.data != nil
}

func (f *Firewall) Project() string {
	return f.project
}

// Name returns the requested rule name, found or not.
func (f *Firewall) Name() string {
	return f.name
}

// Data exposes the raw resource attributes, nil when the rule was not
// found. Callers must treat the result as read-only.
func (f *Firewall) Data() *domain.FirewallData {
	return f.data
}

func (f *Firewall) String() string {
	return fmt.Sprintf("Firewall Rule %s", f.name)
}

func (f *Firewall) AllowedHTTP() (bool, error) {
	return f.AllowPortProtocol(portHTTP, defaultProtocol)
}

func (f *Firewall) AllowedSSH() (bool, error) {
	return f.AllowPortProtocol(portSSH, defaultProtocol)
}

func (f *Firewall) AllowedHTTPS() (bool, error) {
	return f.AllowPortProtocol(portHTTPS, defaultProtocol)
}

func (f *Firewall) AllowedRDP() (bool, error) {
	return f.AllowPortProtocol(portRDP, defaultProtocol)
}

// AllowPortProtocol reports whether any allowed entry for protocol covers
// port. Protocols compare byte for byte; an empty protocol means tcp. A
// rule that never carried an allowed list cannot answer and errors.
func (f *Firewall) AllowPortProtocol(port, protocol string) (bool, error) {
	if protocol == "" {
		protocol = defaultProtocol
	}
	if f.data == nil || !f.data.Allowed.Defined() {
		return false, &domain.MissingPropertyError{Property: "allowed"}
	}
	for _, entry := range f.data.Allowed.Items() {
		if proto, ok := entry.IPProtocol.Get(); !ok || proto != protocol {
			continue
		}
		for _, spec := range entry.Ports.Items() {
			matched, err := portSpecMatches(spec, port)
			if err != nil {
				return false, err
			}
			if matched {
				return true, nil
			}
		}
	}
	return false, nil
}

// AllowSourceTags reports whether every given tag appears in the rule's
// source tags. Rules without source tags match nothing and never error.
func (f *Firewall) AllowSourceTags(tags []string) bool {
	if f.data == nil || !f.data.SourceTags.Defined() {
		return false
	}
	return listMatches(f.data.SourceTags.Items(), tags, false)
}

// AllowSourceTagsOnly reports whether the rule's source tags are exactly
// the given set.
func (f *Firewall) AllowSourceTagsOnly(tags []string) bool {
	if f.data == nil || !f.data.SourceTags.Defined() {
		return false
	}
	return listMatches(f.data.SourceTags.Items(), tags, true)
}

// AllowTargetTags reports whether every given tag appears in the rule's
// target tags. Rules without target tags match nothing and never error.
func (f *Firewall) AllowTargetTags(tags []string) bool {
	if f.data == nil || !f.data.TargetTags.Defined() {
		return false
	}
	return listMatches(f.data.TargetTags.Items(), tags, false)
}

// AllowTargetTagsOnly reports whether the rule's target tags are exactly
// the given set.
func (f *Firewall) AllowTargetTagsOnly(tags []string) bool {
	if f.data == nil || !f.data.TargetTags.Defined() {
		return false
	}
	return listMatches(f.data.TargetTags.Items(), tags, true)
}

// AllowIPRanges reports whether every given CIDR string appears in the
// rule's direction-relevant ranges. Ranges compare as opaque strings, so
// "10.0.0.0/8" is not covered by "0.0.0.0/0".
func (f *Firewall) AllowIPRanges(ranges []string) (bool, error) {
	return f.matchRanges(ranges, false)
}

// AllowIPRangesOnly reports whether the rule's direction-relevant ranges
// are exactly the given set.
func (f *Firewall) AllowIPRangesOnly(ranges []string) (bool, error) {
	return f.matchRanges(ranges, true)
}

func (f *Firewall) matchRanges(ranges []string, exact bool) (bool, error) {
	if f.data == nil || !f.data.Direction.Defined() {
		return false, &domain.MissingPropertyError{Property: "direction"}
	}
	// INGRESS rules filter on source ranges; every other direction value
	// reads destination ranges.
	list := f.data.DestinationRanges
	if dir, _ := f.data.Direction.Get(); dir == domain.DirectionIngress {
		list = f.data.SourceRanges
	}
	if !list.Defined() {
		return false, nil
	}
	return listMatches(list.Items(), ranges, exact), nil
}
