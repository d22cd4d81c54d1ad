package assert

import "github.com/oomph-ac/pmove/oerror"

// IsTrue panics with an OomphError when ok is false.
func IsTrue(ok bool, message string, args ...any) {
	if !ok {
		panic(oerror.New(message, args...))
	}
}
