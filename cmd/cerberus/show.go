package main

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/eleven-am/cerberus"
)

var showCmd = &cobra.Command{
	Use:   "show <project> <name>",
	Short: "Print one firewall rule's attributes and core predicates",
	Args:  cobra.ExactArgs(2),
	RunE:  runShow,
}

func runShow(cmd *cobra.Command, args []string) error {
	src, err := newSource()
	if err != nil {
		return err
	}
	project, name := args[0], args[1]

	fw, err := cerberus.Load(cmd.Context(), src, project, name)
	if err != nil {
		return err
	}
	if !fw.Exists() {
		failure("firewall rule %s not found in project %s\n", name, project)
		return fmt.Errorf("rule not found")
	}

	info("%s (project %s)\n", fw, project)
	printAttributes(fw.Data())

	fmt.Println()
	printPredicate("allowed-http", fw.AllowedHTTP)
	printPredicate("allowed-ssh", fw.AllowedSSH)
	printPredicate("allowed-https", fw.AllowedHTTPS)
	printPredicate("allowed-rdp", fw.AllowedRDP)
	return nil
}

func printAttributes(data *cerberus.FirewallData) {
	if network, ok := data.Network.Get(); ok {
		printField("network", network)
	}
	if direction, ok := data.Direction.Get(); ok {
		printField("direction", string(direction))
	}
	if priority, ok := data.Priority.Get(); ok {
		printField("priority", fmt.Sprintf("%d", priority))
	}
	if disabled, ok := data.Disabled.Get(); ok {
		printField("disabled", fmt.Sprintf("%t", disabled))
	}
	if data.SourceRanges.Defined() {
		printField("source ranges", strings.Join(data.SourceRanges.Items(), ", "))
	}
	if data.DestinationRanges.Defined() {
		printField("destination ranges", strings.Join(data.DestinationRanges.Items(), ", "))
	}
	if data.SourceTags.Defined() {
		printField("source tags", strings.Join(data.SourceTags.Items(), ", "))
	}
	if data.TargetTags.Defined() {
		printField("target tags", strings.Join(data.TargetTags.Items(), ", "))
	}
	if data.Allowed.Defined() {
		printField("allowed", describeEntries(data.Allowed.Items()))
	}
	if data.Denied.Defined() {
		printField("denied", describeEntries(data.Denied.Items()))
	}
	if description, ok := data.Description.Get(); ok {
		printField("description", description)
	}
}

func printField(label, value string) {
	fmt.Printf("  %-20s %s\n", label, value)
}

func describeEntries(entries []cerberus.AllowedEntry) string {
	parts := make([]string, 0, len(entries))
	for _, entry := range entries {
		protocol := entry.IPProtocol.Or("?")
		if entry.Ports.Len() == 0 {
			parts = append(parts, protocol)
			continue
		}
		parts = append(parts, fmt.Sprintf("%s:%s", protocol, strings.Join(entry.Ports.Items(), ",")))
	}
	return strings.Join(parts, "  ")
}

func printPredicate(name string, predicate func() (bool, error)) {
	allowed, err := predicate()
	switch {
	case err != nil:
		failure("  %-20s error: %v\n", name, err)
	case allowed:
		success("  %-20s allowed\n", name)
	default:
		fmt.Printf("  %-20s not allowed\n", name)
	}
}
