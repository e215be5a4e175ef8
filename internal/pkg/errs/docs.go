// Package errs provides the error types shared across the fulfillment service.
//
// Each error type follows the same shape:
//   - a sentinel variable (ErrValueIsRequired, ErrObjectNotFound, ...)
//   - a struct carrying the details
//   - constructors with and without a cause
//   - Error() for the message and Unwrap() for errors.Is classification
//
// ObjectNotFoundError and the value errors are returned by domain constructors
// and repositories. AmbiguousCommitError is produced by the postgres unit of
// work and consumed by the transition executor only. PersistenceFailureError is
// what callers of the executor see when storage could not be relied on.
package errs
