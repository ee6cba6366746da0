package audit

import (
	"context"
	"fmt"

	"github.com/sirupsen/logrus"
	"golang.org/x/sync/errgroup"

	"github.com/eleven-am/cerberus/internal/domain"
	"github.com/eleven-am/cerberus/internal/rules"
)

const defaultConcurrency = 4

// Runner evaluates checklists against firewall rules served by Source.
// Concurrency bounds how many rules load in parallel; Logger defaults to
// the logrus standard logger.
type Runner struct {
	Source      domain.Source
	Concurrency int
	Logger      *logrus.Logger
}

func NewRunner(source domain.Source) *Runner {
	return &Runner{Source: source}
}

// Run loads every rule in the checklist and evaluates its checks. Rules
// are fetched concurrently; evaluation per rule stays sequential. The
// returned report preserves checklist order.
func (r *Runner) Run(ctx context.Context, checklist *Checklist) (*Report, error) {
	log := r.Logger
	if log == nil {
		log = logrus.StandardLogger()
	}
	limit := r.Concurrency
	if limit <= 0 {
		limit = defaultConcurrency
	}

	results := make([]RuleResult, len(checklist.Firewalls))
	g, gCtx := errgroup.WithContext(ctx)
	g.SetLimit(limit)

	for i, rc := range checklist.Firewalls {
		i, rc := i, rc
		g.Go(func() error {
			results[i] = r.evaluateRule(gCtx, log, rc)
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return &Report{Rules: results}, nil
}

func (r *Runner) evaluateRule(ctx context.Context, log *logrus.Logger, rc RuleChecks) RuleResult {
	result := RuleResult{Project: rc.Project, Name: rc.Name}

	fields := logrus.Fields{"project": rc.Project, "firewall": rc.Name}
	firewall, err := rules.Load(ctx, r.Source, rc.Project, rc.Name)
	if err != nil {
		log.WithFields(fields).WithError(err).Error("load firewall rule")
		result.Err = err
		return result
	}

	result.Findings = make([]Finding, 0, len(rc.Checks))
	for _, check := range rc.Checks {
		got, err := evaluate(firewall, check)
		pass := err == nil && got == check.Expect
		result.Findings = append(result.Findings, Finding{
			Check: check,
			Got:   got,
			Err:   err,
			Pass:  pass,
		})
	}
	log.WithFields(fields).WithField("checks", len(rc.Checks)).Debug("evaluated firewall rule")
	return result
}

func evaluate(firewall *rules.Firewall, c Check) (bool, error) {
	switch c.Predicate {
	case PredicateExists:
		return firewall.Exists(), nil
	case PredicateAllowedHTTP:
		return firewall.AllowedHTTP()
	case PredicateAllowedSSH:
		return firewall.AllowedSSH()
	case PredicateAllowedHTTPS:
		return firewall.AllowedHTTPS()
	case PredicateAllowedRDP:
		return firewall.AllowedRDP()
	case PredicateAllowPortProtocol:
		return firewall.AllowPortProtocol(c.Port, c.Protocol)
	case PredicateAllowSourceTags:
		return firewall.AllowSourceTags(c.Values), nil
	case PredicateAllowSourceTagsOnly:
		return firewall.AllowSourceTagsOnly(c.Values), nil
	case PredicateAllowTargetTags:
		return firewall.AllowTargetTags(c.Values), nil
	case PredicateAllowTargetTagsOnly:
		return firewall.AllowTargetTagsOnly(c.Values), nil
	case PredicateAllowIPRanges:
		return firewall.AllowIPRanges(c.Values)
	case PredicateAllowIPRangesOnly:
		return firewall.AllowIPRangesOnly(c.Values)
	default:
		return false, fmt.Errorf("unknown predicate %q", c.Predicate)
	}
}
