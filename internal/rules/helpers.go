package rules

import (
	"strconv"
	"strings"

	"github.com/eleven-am/cerberus/internal/domain"
)

// portSpecMatches reports whether a single allowed ports token covers port.
// Tokens without a dash compare as literal strings, so "080" does not cover
// "80". Range bounds must parse as integers and are inclusive; a port that
// does not parse never falls inside a range.
func portSpecMatches(spec, port string) (bool, error) {
	lower, upper, isRange := strings.Cut(spec, "-")
	if !isRange {
		return spec == port, nil
	}
	lo, err := strconv.Atoi(lower)
	if err != nil {
		return false, &domain.MalformedRangeError{Spec: spec}
	}
	hi, err := strconv.Atoi(upper)
	if err != nil {
		return false, &domain.MalformedRangeError{Spec: spec}
	}
	p, err := strconv.Atoi(port)
	if err != nil {
		return false, nil
	}
	return p >= lo && p <= hi, nil
}

// listMatches reports whether want is covered by have: the same set when
// exact, otherwise a subset. Order and duplicates never matter, and an
// empty want matches trivially.
func listMatches[T comparable](have, want []T, exact bool) bool {
	haveSet := make(map[T]struct{}, len(have))
	for _, v := range have {
		haveSet[v] = struct{}{}
	}
	wantSet := make(map[T]struct{}, len(want))
	for _, v := range want {
		wantSet[v] = struct{}{}
	}
	if exact && len(wantSet) != len(haveSet) {
		return false
	}
	for v := range wantSet {
		if _, ok := haveSet[v]; !ok {
			return false
		}
	}
	return true
}
