package charter

import "fmt"

// capture runs fn and converts a panic into an ordinary error. It is the
// containment wall around best-effort side tasks (hooks, sink delivery,
// observers): whatever happens inside fn, the request keeps going.
func capture(fn func() error) (err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("panic: %v", r)
		}
	}()
	return fn()
}
