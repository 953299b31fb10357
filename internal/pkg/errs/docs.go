// Package errs provides standardized error types for the catering application.
//
// Each error type pairs a sentinel (ErrObjectNotFound, ErrValueIsInvalid, ...)
// with a struct carrying the offending parameter, so callers can classify
// failures with errors.Is and still log the details.
package errs
