package rules

import (
	"context"
	"errors"
	"fmt"
	"testing"

	"github.com/eleven-am/cerberus/internal/domain"
	"github.com/eleven-am/cerberus/internal/optional"
)

func sshFirewall() *domain.FirewallData {
	return &domain.FirewallData{
		Name:      optional.Of("allow-ssh"),
		Direction: optional.Of(domain.DirectionIngress),
		Allowed: optional.OfList(
			domain.AllowedEntry{
				IPProtocol: optional.Of("tcp"),
				Ports:      optional.OfList("22"),
			},
		),
		SourceRanges: optional.OfList("0.0.0.0/0"),
	}
}

func TestFirewall_Exists(t *testing.T) {
	fw := NewFirewall(sshFirewall(), "my-project", "allow-ssh")
	if !fw.Exists() {
		t.Error("expected Exists true for loaded rule")
	}

	missing := NewFirewall(nil, "my-project", "allow-ssh")
	if missing.Exists() {
		t.Error("expected Exists false for nil data")
	}
}

func TestFirewall_String(t *testing.T) {
	fw := NewFirewall(nil, "my-project", "allow-ssh")
	if fw.String() != "Firewall Rule allow-ssh" {
		t.Errorf("String() = %q, want %q", fw.String(), "Firewall Rule allow-ssh")
	}
}

func TestFirewall_Identity(t *testing.T) {
	fw := NewFirewall(sshFirewall(), "my-project", "allow-ssh")

	if fw.Project() != "my-project" {
		t.Errorf("Project() = %q, want my-project", fw.Project())
	}
	if fw.Name() != "allow-ssh" {
		t.Errorf("Name() = %q, want allow-ssh", fw.Name())
	}
	if fw.Data() == nil {
		t.Error("Data() should not be nil for a loaded rule")
	}
}

func TestFirewall_AllowPortProtocol_MissingAllowed(t *testing.T) {
	fw := NewFirewall(&domain.FirewallData{
		Direction: optional.Of(domain.DirectionIngress),
	}, "my-project", "no-allowed")

	_, err := fw.AllowPortProtocol("80", "tcp")
	if err == nil {
		t.Fatal("expected error for undefined allowed")
	}
	var missing *domain.MissingPropertyError
	if !errors.As(err, &missing) {
		t.Fatalf("expected MissingPropertyError, got %T", err)
	}
	if missing.Property != "allowed" {
		t.Errorf("Property = %q, want allowed", missing.Property)
	}
}

func TestFirewall_AllowPortProtocol_NotFoundRule(t *testing.T) {
	fw := NewFirewall(nil, "my-project", "ghost")

	_, err := fw.AllowPortProtocol("80", "tcp")
	var missing *domain.MissingPropertyError
	if !errors.As(err, &missing) {
		t.Fatalf("expected MissingPropertyError, got %T", err)
	}
}

func TestFirewall_AllowPortProtocol_EmptyAllowed(t *testing.T) {
	fw := NewFirewall(&domain.FirewallData{
		Allowed: optional.OfList[domain.AllowedEntry](),
	}, "my-project", "empty-allowed")

	got, err := fw.AllowPortProtocol("80", "tcp")
	if err != nil {
		t.Fatalf("expected no error for present-but-empty allowed, got %v", err)
	}
	if got {
		t.Error("expected false for empty allowed list")
	}
}

func TestFirewall_AllowPortProtocol_ExactPort(t *testing.T) {
	fw := NewFirewall(sshFirewall(), "my-project", "allow-ssh")

	tests := []struct {
		name string
		port string
		want bool
	}{
		{"matching port", "22", true},
		{"other port", "80", false},
		{"leading zero differs", "022", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := fw.AllowPortProtocol(tt.port, "tcp")
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if got != tt.want {
				t.Errorf("AllowPortProtocol(%q, tcp) = %v, want %v", tt.port, got, tt.want)
			}
		})
	}
}

func TestFirewall_AllowPortProtocol_Range(t *testing.T) {
	fw := NewFirewall(&domain.FirewallData{
		Allowed: optional.OfList(
			domain.AllowedEntry{
				IPProtocol: optional.Of("tcp"),
				Ports:      optional.OfList("4000-5000"),
			},
		),
	}, "my-project", "allow-dev")

	tests := []struct {
		name string
		port string
		want bool
	}{
		{"below range", "3999", false},
		{"range start", "4000", true},
		{"in range", "4500", true},
		{"range end", "5000", true},
		{"above range", "5001", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := fw.AllowPortProtocol(tt.port, "tcp")
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if got != tt.want {
				t.Errorf("AllowPortProtocol(%q, tcp) = %v, want %v", tt.port, got, tt.want)
			}
		})
	}
}

func TestFirewall_AllowPortProtocol_ProtocolMatch(t *testing.T) {
	fw := NewFirewall(&domain.FirewallData{
		Allowed: optional.OfList(
			domain.AllowedEntry{
				IPProtocol: optional.Of("udp"),
				Ports:      optional.OfList("53"),
			},
			domain.AllowedEntry{
				IPProtocol: optional.Of("tcp"),
				Ports:      optional.OfList("53"),
			},
		),
	}, "my-project", "allow-dns")

	tests := []struct {
		name     string
		port     string
		protocol string
		want     bool
	}{
		{"udp entry", "53", "udp", true},
		{"tcp entry", "53", "tcp", true},
		{"no sctp entry", "53", "sctp", false},
		{"protocol is case sensitive", "53", "TCP", false},
		{"empty protocol means tcp", "53", "", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := fw.AllowPortProtocol(tt.port, tt.protocol)
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if got != tt.want {
				t.Errorf("AllowPortProtocol(%q, %q) = %v, want %v", tt.port, tt.protocol, got, tt.want)
			}
		})
	}
}

func TestFirewall_AllowPortProtocol_SkipsEntriesWithoutPorts(t *testing.T) {
	fw := NewFirewall(&domain.FirewallData{
		Allowed: optional.OfList(
			domain.AllowedEntry{
				IPProtocol: optional.Of("icmp"),
			},
			domain.AllowedEntry{
				IPProtocol: optional.Of("tcp"),
				Ports:      optional.OfList("22"),
			},
		),
	}, "my-project", "allow-mixed")

	got, err := fw.AllowPortProtocol("22", "tcp")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !got {
		t.Error("expected tcp/22 allowed past the portless icmp entry")
	}

	got, err = fw.AllowPortProtocol("22", "icmp")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got {
		t.Error("portless entry should never cover a port")
	}
}

func TestFirewall_AllowPortProtocol_SkipsEntriesWithoutProtocol(t *testing.T) {
	fw := NewFirewall(&domain.FirewallData{
		Allowed: optional.OfList(
			domain.AllowedEntry{
				Ports: optional.OfList("22"),
			},
		),
	}, "my-project", "allow-odd")

	got, err := fw.AllowPortProtocol("22", "tcp")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got {
		t.Error("entry without protocol should not match")
	}
}

func TestFirewall_AllowPortProtocol_MalformedRange(t *testing.T) {
	fw := NewFirewall(&domain.FirewallData{
		Allowed: optional.OfList(
			domain.AllowedEntry{
				IPProtocol: optional.Of("tcp"),
				Ports:      optional.OfList("abc-def"),
			},
		),
	}, "my-project", "allow-broken")

	_, err := fw.AllowPortProtocol("80", "tcp")
	if err == nil {
		t.Fatal("expected error for malformed range")
	}
	var rangeErr *domain.MalformedRangeError
	if !errors.As(err, &rangeErr) {
		t.Fatalf("expected MalformedRangeError, got %T", err)
	}
	if rangeErr.Spec != "abc-def" {
		t.Errorf("Spec = %q, want abc-def", rangeErr.Spec)
	}
}

func TestFirewall_AllowPortProtocol_MatchBeforeMalformed(t *testing.T) {
	fw := NewFirewall(&domain.FirewallData{
		Allowed: optional.OfList(
			domain.AllowedEntry{
				IPProtocol: optional.Of("tcp"),
				Ports:      optional.OfList("80", "abc-def"),
			},
		),
	}, "my-project", "allow-partial")

	got, err := fw.AllowPortProtocol("80", "tcp")
	if err != nil {
		t.Fatalf("match before malformed spec should win, got error: %v", err)
	}
	if !got {
		t.Error("expected tcp/80 allowed")
	}

	_, err = fw.AllowPortProtocol("443", "tcp")
	if err == nil {
		t.Error("expected malformed range error once scan reaches it")
	}
}

func TestFirewall_AllowedConveniences(t *testing.T) {
	fw := NewFirewall(sshFirewall(), "my-project", "allow-ssh")

	tests := []struct {
		name string
		eval func() (bool, error)
		want bool
	}{
		{"ssh", fw.AllowedSSH, true},
		{"http", fw.AllowedHTTP, false},
		{"https", fw.AllowedHTTPS, false},
		{"rdp", fw.AllowedRDP, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := tt.eval()
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if got != tt.want {
				t.Errorf("got %v, want %v", got, tt.want)
			}
		})
	}
}

func TestFirewall_AllowSourceTags(t *testing.T) {
	fw := NewFirewall(&domain.FirewallData{
		SourceTags: optional.OfList("web", "bastion"),
	}, "my-project", "allow-tagged")

	tests := []struct {
		name string
		tags []string
		want bool
	}{
		{"subset", []string{"web"}, true},
		{"full set", []string{"bastion", "web"}, true},
		{"missing tag", []string{"web", "db"}, false},
		{"empty set", nil, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := fw.AllowSourceTags(tt.tags); got != tt.want {
				t.Errorf("AllowSourceTags(%v) = %v, want %v", tt.tags, got, tt.want)
			}
		})
	}
}

func TestFirewall_AllowSourceTags_Undefined(t *testing.T) {
	fw := NewFirewall(&domain.FirewallData{}, "my-project", "untagged")

	if fw.AllowSourceTags([]string{"web"}) {
		t.Error("expected false when source tags are unset")
	}
	if fw.AllowSourceTags(nil) {
		t.Error("expected false for empty query against unset tags")
	}
}

func TestFirewall_AllowSourceTagsOnly(t *testing.T) {
	fw := NewFirewall(&domain.FirewallData{
		SourceTags: optional.OfList("web", "bastion"),
	}, "my-project", "allow-tagged")

	if !fw.AllowSourceTagsOnly([]string{"bastion", "web"}) {
		t.Error("expected exact set to match regardless of order")
	}
	if fw.AllowSourceTagsOnly([]string{"web"}) {
		t.Error("expected false when rule has extra tags")
	}
	if fw.AllowSourceTagsOnly([]string{"web", "bastion", "db"}) {
		t.Error("expected false when query has extra tags")
	}
}

func TestFirewall_AllowTargetTags(t *testing.T) {
	fw := NewFirewall(&domain.FirewallData{
		SourceTags: optional.OfList("web"),
		TargetTags: optional.OfList("db"),
	}, "my-project", "allow-tagged")

	if !fw.AllowTargetTags([]string{"db"}) {
		t.Error("expected target tag db allowed")
	}
	if fw.AllowTargetTags([]string{"web"}) {
		t.Error("source tags must not leak into target tag checks")
	}
	if !fw.AllowTargetTagsOnly([]string{"db"}) {
		t.Error("expected exact target tag set to match")
	}
}

func TestFirewall_AllowTargetTags_Undefined(t *testing.T) {
	fw := NewFirewall(&domain.FirewallData{
		SourceTags: optional.OfList("web"),
	}, "my-project", "allow-tagged")

	if fw.AllowTargetTags([]string{"web"}) {
		t.Error("expected false when target tags are unset")
	}
	if fw.AllowTargetTagsOnly(nil) {
		t.Error("expected false when target tags are unset")
	}
}

func TestFirewall_Tags_NotFoundRule(t *testing.T) {
	fw := NewFirewall(nil, "my-project", "ghost")

	if fw.AllowSourceTags([]string{"web"}) || fw.AllowTargetTags([]string{"web"}) {
		t.Error("expected false on a rule that was not found")
	}
	if fw.AllowSourceTagsOnly(nil) || fw.AllowTargetTagsOnly(nil) {
		t.Error("expected false on a rule that was not found")
	}
}

func TestFirewall_AllowIPRanges_MissingDirection(t *testing.T) {
	fw := NewFirewall(&domain.FirewallData{
		SourceRanges: optional.OfList("10.0.0.0/8"),
	}, "my-project", "no-direction")

	_, err := fw.AllowIPRanges([]string{"10.0.0.0/8"})
	if err == nil {
		t.Fatal("expected error for undefined direction")
	}
	var missing *domain.MissingPropertyError
	if !errors.As(err, &missing) {
		t.Fatalf("expected MissingPropertyError, got %T", err)
	}
	if missing.Property != "direction" {
		t.Errorf("Property = %q, want direction", missing.Property)
	}
}

func TestFirewall_AllowIPRanges_Ingress(t *testing.T) {
	fw := NewFirewall(&domain.FirewallData{
		Direction:         optional.Of(domain.DirectionIngress),
		SourceRanges:      optional.OfList("10.0.0.0/8", "192.168.0.0/16"),
		DestinationRanges: optional.OfList("172.16.0.0/12"),
	}, "my-project", "allow-internal")

	got, err := fw.AllowIPRanges([]string{"10.0.0.0/8"})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !got {
		t.Error("expected source range match for ingress rule")
	}

	got, err = fw.AllowIPRanges([]string{"172.16.0.0/12"})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got {
		t.Error("ingress rule must not read destination ranges")
	}
}

func TestFirewall_AllowIPRanges_Egress(t *testing.T) {
	fw := NewFirewall(&domain.FirewallData{
		Direction:         optional.Of(domain.DirectionEgress),
		SourceRanges:      optional.OfList("10.0.0.0/8"),
		DestinationRanges: optional.OfList("172.16.0.0/12"),
	}, "my-project", "allow-out")

	got, err := fw.AllowIPRanges([]string{"172.16.0.0/12"})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !got {
		t.Error("expected destination range match for egress rule")
	}

	got, err = fw.AllowIPRanges([]string{"10.0.0.0/8"})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got {
		t.Error("egress rule must not read source ranges")
	}
}

func TestFirewall_AllowIPRanges_UnrecognizedDirection(t *testing.T) {
	fw := NewFirewall(&domain.FirewallData{
		Direction:         optional.Of(domain.Direction("SIDEWAYS")),
		SourceRanges:      optional.OfList("10.0.0.0/8"),
		DestinationRanges: optional.OfList("172.16.0.0/12"),
	}, "my-project", "allow-odd")

	got, err := fw.AllowIPRanges([]string{"172.16.0.0/12"})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !got {
		t.Error("unrecognized direction should fall back to destination ranges")
	}
}

func TestFirewall_AllowIPRanges_UndefinedRanges(t *testing.T) {
	fw := NewFirewall(&domain.FirewallData{
		Direction: optional.Of(domain.DirectionIngress),
	}, "my-project", "no-ranges")

	got, err := fw.AllowIPRanges([]string{"10.0.0.0/8"})
	if err != nil {
		t.Fatalf("range absence is not an error, got %v", err)
	}
	if got {
		t.Error("expected false when the selected range list is unset")
	}
}

func TestFirewall_AllowIPRanges_NoCIDRContainment(t *testing.T) {
	fw := NewFirewall(&domain.FirewallData{
		Direction:    optional.Of(domain.DirectionIngress),
		SourceRanges: optional.OfList("0.0.0.0/0"),
	}, "my-project", "allow-all")

	got, err := fw.AllowIPRanges([]string{"10.0.0.0/8"})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got {
		t.Error("ranges compare as strings, 0.0.0.0/0 must not cover 10.0.0.0/8")
	}
}

func TestFirewall_AllowIPRangesOnly(t *testing.T) {
	fw := NewFirewall(&domain.FirewallData{
		Direction:    optional.Of(domain.DirectionIngress),
		SourceRanges: optional.OfList("10.0.0.0/8", "192.168.0.0/16"),
	}, "my-project", "allow-internal")

	got, err := fw.AllowIPRangesOnly([]string{"192.168.0.0/16", "10.0.0.0/8"})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !got {
		t.Error("expected exact range set to match regardless of order")
	}

	got, err = fw.AllowIPRangesOnly([]string{"10.0.0.0/8"})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got {
		t.Error("expected false when rule has extra ranges")
	}
}

func TestLoad(t *testing.T) {
	src := newMockSource()
	src.add("my-project", "allow-ssh", sshFirewall())

	fw, err := Load(context.Background(), src, "my-project", "allow-ssh")
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if !fw.Exists() {
		t.Error("expected rule to exist")
	}

	allowed, err := fw.AllowedSSH()
	if err != nil {
		t.Fatalf("AllowedSSH: %v", err)
	}
	if !allowed {
		t.Error("expected ssh allowed")
	}
}

func TestLoad_NotFound(t *testing.T) {
	src := newMockSource()

	fw, err := Load(context.Background(), src, "my-project", "ghost")
	if err != nil {
		t.Fatalf("not-found must not fail Load, got %v", err)
	}
	if fw.Exists() {
		t.Error("expected Exists false")
	}
	if fw.String() != "Firewall Rule ghost" {
		t.Errorf("String() = %q, want the requested name", fw.String())
	}
}

func TestLoad_SourceError(t *testing.T) {
	src := newMockSource()
	src.err = fmt.Errorf("connection refused")

	_, err := Load(context.Background(), src, "my-project", "allow-ssh")
	if err == nil {
		t.Fatal("expected transport error to fail Load")
	}
}
