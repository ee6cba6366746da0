package audit

// Finding is one evaluated check with its observed outcome. Err records an
// evaluation failure, such as a rule missing its allowed property; a
// finding with an error never passes.
type Finding struct {
	Check Check
	Got   bool
	Err   error
	Pass  bool
}

// RuleResult carries the findings for one firewall rule. Err is set when
// the rule could not be loaded at all, in which case Findings is empty.
type RuleResult struct {
	Project  string
	Name     string
	Err      error
	Findings []Finding
}

// Report is the outcome of running a checklist. Rules keeps checklist
// order.
type Report struct {
	Rules []RuleResult
}

// Counts tallies passed and failed findings. A rule that failed to load
// counts as one failure.
func (r *Report) Counts() (passed, failed int) {
	for _, rule := range r.Rules {
		if rule.Err != nil {
			failed++
			continue
		}
		for _, finding := range rule.Findings {
			if finding.Pass {
				passed++
			} else {
				failed++
			}
		}
	}
	return passed, failed
}

// Passed reports whether every rule loaded and every finding matched its
// expectation.
func (r *Report) Passed() bool {
	_, failed := r.Counts()
	return failed == 0
}
