/*
Package errors implements custom error interfaces for trustee.

Errors are categorized by registered root errors. Every error returned during
runtime should wrap one of the roots, so that callers can classify a
failure with a `root.Is(err)` check without string comparison, and the
numeric code of an error is stable across releases.
*/
package errors
