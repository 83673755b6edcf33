package rules

import (
	"fmt"
	"sort"
	"strings"

	"github.com/standardbeagle/stylecheck/internal/diag"
	"github.com/standardbeagle/stylecheck/internal/errors"
)

// Factory constructs a rule at the given severity.
type Factory func(sev diag.Severity) (Rule, error)

type catalogEntry struct {
	id      string
	factory Factory
}

// catalog lists the built-in rules in their canonical order. It is read
// only; registries are built from it explicitly.
var catalog = []catalogEntry{
	{IDMark, func(s diag.Severity) (Rule, error) { return NewMarkRule(s) }},
	{IDOpeningBrace, func(s diag.Severity) (Rule, error) { return NewOpeningBraceRule(s) }},
	{IDOperatorWhitespace, func(s diag.Severity) (Rule, error) { return NewOperatorWhitespaceRule(s) }},
	{IDReturnPosition, func(s diag.Severity) (Rule, error) { return NewReturnPositionRule(s) }},
	{IDStatementPosition, func(s diag.Severity) (Rule, error) { return NewStatementPositionRule(s) }},
}

// KnownIDs returns every built-in rule identifier in canonical order.
func KnownIDs() []string {
	ids := make([]string, len(catalog))
	for i, e := range catalog {
		ids[i] = e.id
	}
	return ids
}

// Registry is the set of rules one lint run executes.
type Registry struct {
	rules []Rule
	byID  map[string]Rule
}

// NewRegistry creates an empty registry.
func NewRegistry() *Registry {
	return &Registry{byID: make(map[string]Rule)}
}

// Register adds rule. Identifiers must be unique.
func (r *Registry) Register(rule Rule) error {
	id := rule.ID()
	if _, dup := r.byID[id]; dup {
		return errors.NewRuleError(id, fmt.Errorf("already registered"))
	}
	r.rules = append(r.rules, rule)
	r.byID[id] = rule
	return nil
}

// Get looks a rule up by identifier.
func (r *Registry) Get(id string) (Rule, bool) {
	rule, ok := r.byID[id]
	return rule, ok
}

// All returns the rules in registration order.
func (r *Registry) All() []Rule {
	out := make([]Rule, len(r.rules))
	copy(out, r.rules)
	return out
}

// IDs returns rule identifiers in registration order.
func (r *Registry) IDs() []string {
	ids := make([]string, len(r.rules))
	for i, rule := range r.rules {
		ids[i] = rule.ID()
	}
	return ids
}

// Len is the number of registered rules.
func (r *Registry) Len() int {
	return len(r.rules)
}

// Fingerprint identifies the rule set and severities, for result caching.
func (r *Registry) Fingerprint() string {
	parts := make([]string, len(r.rules))
	for i, rule := range r.rules {
		parts[i] = rule.ID() + "=" + rule.Severity().String()
	}
	sort.Strings(parts)
	return strings.Join(parts, ",")
}

// Setting enables a rule and sets its severity.
type Setting struct {
	Enabled  bool
	Severity diag.Severity
}

// Build constructs a registry from settings keyed by rule identifier. Rules
// missing from settings are enabled at warning severity. Unknown
// identifiers and failing constructors abort the build.
func Build(settings map[string]Setting) (*Registry, error) {
	known := KnownIDs()
	for id := range settings {
		if !contains(known, id) {
			err := errors.NewRuleError(id, fmt.Errorf("unknown rule"))
			if s := Suggest(id, known); s != "" {
				err = err.WithSuggestion(s)
			}
			return nil, err
		}
	}

	reg := NewRegistry()
	for _, e := range catalog {
		setting, ok := settings[e.id]
		if !ok {
			setting = Setting{Enabled: true, Severity: diag.SevWarning}
		}
		if !setting.Enabled {
			continue
		}
		rule, err := e.factory(setting.Severity)
		if err != nil {
			return nil, err
		}
		if err := reg.Register(rule); err != nil {
			return nil, err
		}
	}
	return reg, nil
}

// Default builds every rule at warning severity.
func Default() (*Registry, error) {
	return Build(nil)
}

func contains(ids []string, id string) bool {
	for _, k := range ids {
		if k == id {
			return true
		}
	}
	return false
}
