package cerberus

import (
	"github.com/eleven-am/cerberus/internal/audit"
	"github.com/eleven-am/cerberus/internal/domain"
	"github.com/eleven-am/cerberus/internal/gcp"
	"github.com/eleven-am/cerberus/internal/rules"
)

type Firewall = rules.Firewall

type FirewallData = domain.FirewallData

type AllowedEntry = domain.AllowedEntry

type LogConfig = domain.LogConfig

type Direction = domain.Direction

const (
	DirectionIngress = domain.DirectionIngress
	DirectionEgress  = domain.DirectionEgress
)

type Source = domain.Source

type MissingPropertyError = domain.MissingPropertyError

type MalformedRangeError = domain.MalformedRangeError

type NotFoundError = domain.NotFoundError

type StaticSource = gcp.StaticSource

type FileSource = gcp.FileSource

type CachedSource = gcp.CachedSource

type Checklist = audit.Checklist

type RuleChecks = audit.RuleChecks

type Check = audit.Check

type Runner = audit.Runner

type Report = audit.Report

type RuleResult = audit.RuleResult

type Finding = audit.Finding

const (
	PredicateExists              = audit.PredicateExists
	PredicateAllowedHTTP         = audit.PredicateAllowedHTTP
	PredicateAllowedSSH          = audit.PredicateAllowedSSH
	PredicateAllowedHTTPS        = audit.PredicateAllowedHTTPS
	PredicateAllowedRDP          = audit.PredicateAllowedRDP
	PredicateAllowPortProtocol   = audit.PredicateAllowPortProtocol
	PredicateAllowSourceTags     = audit.PredicateAllowSourceTags
	PredicateAllowSourceTagsOnly = audit.PredicateAllowSourceTagsOnly
	PredicateAllowTargetTags     = audit.PredicateAllowTargetTags
	PredicateAllowTargetTagsOnly = audit.PredicateAllowTargetTagsOnly
	PredicateAllowIPRanges       = audit.PredicateAllowIPRanges
	PredicateAllowIPRangesOnly   = audit.PredicateAllowIPRangesOnly
)
