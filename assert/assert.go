// Package assert provides debug-mode assertions for construction-time
// programming errors. Assertions panic with a formatted message and are
// compiled to no-ops when building with the assertions_disabled tag.
package assert

import "fmt"

// message builds the panic message for a failed assertion.
// If the first arg is a string it is used as a format string with the remaining args,
// otherwise all args are included verbatim.
func message(args []any) string {
	if len(args) == 0 {
		return "assertion failed"
	}

	if format, ok := args[0].(string); ok {
		return fmt.Sprintf(format, args[1:]...)
	}

	return fmt.Sprintf("assertion failed: %v", args)
}
