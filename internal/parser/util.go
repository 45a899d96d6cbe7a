package parser

import "errors"

// diagJoin wraps errors.Join so driver.go's error aggregation matches
// the checker's own discipline: the joined diagnostics become the
// error value.
func diagJoin(errs []error) error {
	return errors.Join(errs...)
}
