package services

import "log"

// runSideEffect executes a best-effort side effect. Failures (errors or
// panics) are logged and never reach the caller, so a broken notification or
// email path cannot fail the operation that triggered it.
func runSideEffect(name string, fn func() error) {
	defer func() {
		if r := recover(); r != nil {
			log.Printf("side effect %s panicked: %v", name, r)
		}
	}()
	if err := fn(); err != nil {
		log.Printf("side effect %s failed: %v", name, err)
	}
}
