package main

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/eleven-am/cerberus"
)

var auditCmd = &cobra.Command{
	Use:   "audit",
	Short: "Evaluate a compliance checklist against exported firewall rules",
	Long: `Audit loads every firewall rule named in the checklist, evaluates each
declared check, and prints a per-finding verdict. The exit status is
non-zero when any finding fails or any rule cannot be loaded.`,
	RunE: runAudit,
}

func init() {
	auditCmd.Flags().StringP("checklist", "c", "", "checklist YAML file (required)")
	auditCmd.MarkFlagRequired("checklist")
	auditCmd.Flags().IntP("concurrency", "n", 4, "how many rules to load in parallel")
	viper.BindPFlag("concurrency", auditCmd.Flags().Lookup("concurrency"))
}

func runAudit(cmd *cobra.Command, args []string) error {
	src, err := newSource()
	if err != nil {
		return err
	}

	path, err := cmd.Flags().GetString("checklist")
	if err != nil {
		return err
	}
	checklist, err := cerberus.LoadChecklist(path)
	if err != nil {
		return err
	}

	runner := cerberus.NewRunner(src)
	runner.Concurrency = viper.GetInt("concurrency")
	report, err := runner.Run(cmd.Context(), checklist)
	if err != nil {
		return err
	}

	printReport(report)

	passed, failed := report.Counts()
	info("\n%d passed, %d failed\n", passed, failed)
	if failed > 0 {
		return fmt.Errorf("%d of %d findings failed", failed, passed+failed)
	}
	return nil
}

func printReport(report *cerberus.Report) {
	for _, rule := range report.Rules {
		info("%s/%s\n", rule.Project, rule.Name)
		if rule.Err != nil {
			failure("  FAIL load rule: %v\n", rule.Err)
			continue
		}
		for _, finding := range rule.Findings {
			label := describeCheck(finding.Check)
			switch {
			case finding.Err != nil:
				failure("  FAIL %s: %v\n", label, finding.Err)
			case finding.Pass:
				success("  PASS %s\n", label)
			default:
				failure("  FAIL %s: expected %t, got %t\n", label, finding.Check.Expect, finding.Got)
			}
		}
	}
}

func describeCheck(check cerberus.Check) string {
	switch check.Predicate {
	case cerberus.PredicateAllowPortProtocol:
		protocol := check.Protocol
		if protocol == "" {
			protocol = "tcp"
		}
		return fmt.Sprintf("%s %s/%s", check.Predicate, protocol, check.Port)
	default:
		if len(check.Values) > 0 {
			return fmt.Sprintf("%s [%s]", check.Predicate, strings.Join(check.Values, ", "))
		}
		return check.Predicate
	}
}
