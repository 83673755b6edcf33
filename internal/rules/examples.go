package rules

import (
	"fmt"

	"github.com/standardbeagle/stylecheck/internal/source"
)

// Prepare turns an example snippet into a parsed file.
type Prepare func(snippet string) (*source.File, error)

// ExampleFailure is one example that did not behave as documented.
type ExampleFailure struct {
	RuleID     string
	Snippet    string
	Triggering bool
	Got        int
	Err        error
}

func (f ExampleFailure) String() string {
	if f.Err != nil {
		return fmt.Sprintf("%s: %q: %v", f.RuleID, f.Snippet, f.Err)
	}
	if f.Triggering {
		return fmt.Sprintf("%s: %q should trigger but produced no violations", f.RuleID, f.Snippet)
	}
	return fmt.Sprintf("%s: %q should not trigger but produced %d violation(s)", f.RuleID, f.Snippet, f.Got)
}

// CheckExamples runs every rule alone over its own examples: non-triggering
// snippets must produce zero violations, triggering ones at least one.
func CheckExamples(reg *Registry, prepare Prepare) []ExampleFailure {
	var failures []ExampleFailure
	for _, rule := range reg.All() {
		desc := rule.Description()
		check := func(snippet string, triggering bool) {
			file, err := prepare(snippet)
			if err != nil {
				failures = append(failures, ExampleFailure{RuleID: desc.ID, Snippet: snippet, Triggering: triggering, Err: err})
				return
			}
			n := len(rule.Validate(file))
			if (n > 0) != triggering {
				failures = append(failures, ExampleFailure{RuleID: desc.ID, Snippet: snippet, Triggering: triggering, Got: n})
			}
		}
		for _, s := range desc.NonTriggering {
			check(s, false)
		}
		for _, s := range desc.Triggering {
			check(s, true)
		}
	}
	return failures
}
