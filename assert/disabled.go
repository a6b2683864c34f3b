//go:build assertions_disabled

package assert

// Enabled reports whether assertions are compiled in.
const Enabled = false

// True is a no-op when assertions are disabled.
func True(value bool, args ...any) {
	// Intentionally left blank
}

// False is a no-op when assertions are disabled.
func False(value bool, args ...any) {
	// Intentionally left blank
}

// NotNil is a no-op when assertions are disabled.
func NotNil(value any, args ...any) {
	// Intentionally left blank
}

// Check is a no-op when assertions are disabled; fn is never called.
func Check(fn func() error) {
	// Intentionally left blank
}
