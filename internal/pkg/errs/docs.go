// Package errs provides the error types shared by the dispatch service.
//
// Each type follows the same shape:
//   - a sentinel error variable (e.g., ErrValueIsRequired) usable with errors.Is
//   - a struct carrying the parameter name and an optional cause
//   - constructors with and without cause
//   - Error() for formatting and Unwrap() returning the sentinel
//
// Domain constructors join these errors with errors.Join, so a single call can
// report every invalid field of a candidate record or a command at once.
package errs
