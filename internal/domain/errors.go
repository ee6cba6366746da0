package domain

import "fmt"

// MissingPropertyError means a predicate could not be answered because the
// rule document never carried a structurally required property.
type MissingPropertyError struct {
	Property string
}

func (e *MissingPropertyError) Error() string {
	return fmt.Sprintf("firewall rule has no %q property", e.Property)
}

// MalformedRangeError means a port range spec had bounds that do not parse
// as integers.
type MalformedRangeError struct {
	Spec string
}

func (e *MalformedRangeError) Error() string {
	return fmt.Sprintf("malformed port range %q", e.Spec)
}

type NotFoundError struct {
	Project string
	Name    string
}

func (e *NotFoundError) Error() string {
	return fmt.Sprintf("firewall rule %s not found in project %s", e.Name, e.Project)
}
