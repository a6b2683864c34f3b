//go:build !assertions_disabled

package assert

// Enabled reports whether assertions are compiled in.
const Enabled = true

// True panics unless value is true.
// The optional args can be used to provide a formatted panic message:
// - If the first arg is a string, it's used as a format string with remaining args.
// - Otherwise, all args are included in the panic message.
func True(value bool, args ...any) {
	if value {
		return
	}

	panic(message(args))
}

// False panics unless value is false.
// The optional args follow the same formatting rules as True.
func False(value bool, args ...any) {
	True(!value, args...)
}

// NotNil panics if value is an untyped nil.
// The optional args follow the same formatting rules as True.
func NotNil(value any, args ...any) {
	True(value != nil, args...)
}

// Check calls fn and panics with the returned error, if any.
// The check function is not evaluated at all when assertions are disabled.
func Check(fn func() error) {
	if err := fn(); err != nil {
		panic(err.Error())
	}
}
