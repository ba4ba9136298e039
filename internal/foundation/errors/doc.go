// Package errors provides classified error primitives used across salonsite.
//
// Errors carry a category (config, read_malformed, write_failed, selector_invalid, ...),
// a severity and free-form context. Adapters translate them into HTTP responses and
// CLI exit codes.
//
//	err := errors.WrapError(cause, errors.CategoryWriteFailed, "save content").
//		WithContext("backend", "file").
//		Build()
package errors
