// Package validator lints factory definitions beyond the structural checks
// Definition.Validate performs, reporting errors, warnings and suggestions.
package validator

import (
	"fmt"
	"strings"

	"github.com/amp-labs/ringlet/fsm/factory"
)

// ValidationResult contains the results of validating a definition.
type ValidationResult struct {
	Valid       bool
	Errors      []ValidationError
	Warnings    []ValidationWarning
	Suggestions []Suggestion
}

// ValidationError represents a validation error with an optional fix.
type ValidationError struct {
	Code     string   // Error code like "UNREACHABLE_STATE"
	Message  string   // Human-readable error message
	Location Location // Where the error occurred
	Fix      *Fix     // Optional auto-fix suggestion
}

// ValidationWarning represents a non-critical issue.
type ValidationWarning struct {
	Code     string
	Message  string
	Location Location
	Fix      *Fix
}

// Suggestion provides improvement recommendations.
type Suggestion struct {
	Message string // Suggestion description
	Example string // YAML example showing the improvement
}

// Location identifies where an issue occurred.
type Location struct {
	File       string // Definition file path
	State      string // State name if applicable
	Transition int    // Transition index, -1 if not applicable
}

func stateLocation(state string) Location {
	return Location{State: state, Transition: -1}
}

// Validate lints def with the default rules.
func Validate(def *factory.Definition) ValidationResult {
	return ValidateWithRules(def, DefaultRules())
}

// ValidateFile loads a definition from a file and validates it.
func ValidateFile(path string) (ValidationResult, error) {
	return ValidateFileWithOptions(path, false)
}

// ValidateFileStrict loads a definition from a file and validates it in strict mode.
func ValidateFileStrict(path string) (ValidationResult, error) {
	return ValidateFileWithOptions(path, true)
}

// ValidateFileWithOptions loads a definition from a file and validates it.
func ValidateFileWithOptions(path string, strict bool) (ValidationResult, error) {
	def, err := factory.LoadDefinitionFile(path)
	if err != nil {
		return ValidationResult{
			Valid: false,
			Errors: []ValidationError{
				{
					Code:     "DEFINITION_LOAD_FAILED",
					Message:  fmt.Sprintf("Failed to load definition: %v", err),
					Location: Location{File: path, Transition: -1},
				},
			},
		}, err
	}

	var result ValidationResult
	if strict {
		result = ValidateWithRulesStrict(def, DefaultRules())
	} else {
		result = Validate(def)
	}

	for i := range result.Errors {
		if result.Errors[i].Location.File == "" {
			result.Errors[i].Location.File = path
		}
	}

	for i := range result.Warnings {
		if result.Warnings[i].Location.File == "" {
			result.Warnings[i].Location.File = path
		}
	}

	return result, nil
}

// ValidateWithRules validates using custom rules.
func ValidateWithRules(def *factory.Definition, rules []Rule) ValidationResult {
	var result ValidationResult

	for _, rule := range rules {
		ruleResult := rule.Check(def)
		result.Errors = append(result.Errors, ruleResult.Errors...)
		result.Warnings = append(result.Warnings, ruleResult.Warnings...)
	}

	result.Valid = len(result.Errors) == 0
	result.Suggestions = generateSuggestions(def)

	return result
}

// ValidateWithRulesStrict validates with warnings promoted to errors.
func ValidateWithRulesStrict(def *factory.Definition, rules []Rule) ValidationResult {
	result := ValidateWithRules(def, rules)

	for _, warning := range result.Warnings {
		result.Errors = append(result.Errors, ValidationError(warning))
	}

	result.Warnings = nil
	result.Valid = len(result.Errors) == 0

	return result
}

// Fixes collects the fixes attached to errors and warnings, in report order.
func (r ValidationResult) Fixes() []*Fix {
	var fixes []*Fix

	for _, e := range r.Errors {
		if e.Fix != nil {
			fixes = append(fixes, e.Fix)
		}
	}

	for _, w := range r.Warnings {
		if w.Fix != nil {
			fixes = append(fixes, w.Fix)
		}
	}

	return fixes
}

func generateSuggestions(def *factory.Definition) []Suggestion {
	var suggestions []Suggestion

	labelled := false

	for _, t := range def.Transitions {
		if t.Label != "" {
			labelled = true

			break
		}
	}

	if !labelled && len(def.Transitions) > 2 {
		suggestions = append(suggestions, Suggestion{
			Message: "Consider labelling transitions so rendered diagrams are readable",
			Example: `transitions:
  - from: Check
    to: Add
    when: [buttonPushed]
    label: button pushed`,
		})
	}

	declared := false

	for _, s := range def.States {
		if s.Sensors.Declared || s.Actuators.Declared {
			declared = true

			break
		}
	}

	if !declared && len(def.Externals) > 0 {
		suggestions = append(suggestions, Suggestion{
			Message: "Consider declaring sensors and actuators so time-slot hosts latch only what a state reads",
			Example: `states:
  - name: Check
    sensors: [doorOpen]
    actuators: [timeLeft]`,
		})
	}

	return suggestions
}

// HasErrors returns true if the result has any errors.
func (r ValidationResult) HasErrors() bool {
	return len(r.Errors) > 0
}

// HasWarnings returns true if the result has any warnings.
func (r ValidationResult) HasWarnings() bool {
	return len(r.Warnings) > 0
}

// String returns a human-readable summary of validation results.
func (r ValidationResult) String() string {
	var sb strings.Builder

	if r.Valid {
		sb.WriteString("definition is valid\n")
	} else {
		fmt.Fprintf(&sb, "definition has %d error(s)\n", len(r.Errors))
	}

	for _, err := range r.Errors {
		fmt.Fprintf(&sb, "  [%s] %s", err.Code, err.Message)

		if err.Location.State != "" {
			fmt.Fprintf(&sb, " (state: %s)", err.Location.State)
		}

		sb.WriteString("\n")

		if err.Fix != nil {
			fmt.Fprintf(&sb, "    Fix: %s\n", err.Fix.Description)
		}
	}

	if len(r.Warnings) > 0 {
		fmt.Fprintf(&sb, "%d warning(s):\n", len(r.Warnings))

		for _, warn := range r.Warnings {
			fmt.Fprintf(&sb, "  [%s] %s\n", warn.Code, warn.Message)
		}
	}

	if len(r.Suggestions) > 0 {
		fmt.Fprintf(&sb, "%d suggestion(s) for improvement\n", len(r.Suggestions))
	}

	return sb.String()
}
