package domain

import "context"

// Source supplies firewall resources by project and rule name.
// Implementations wrap exported resource documents, in-memory fixtures, or
// whatever else can produce a compute#firewall body. An absent rule is
// reported with *NotFoundError so callers can tell missing data from
// transport failure.
type Source interface {
	Firewall(ctx context.Context, project, name string) (*FirewallData, error)
}
