package object

import "errors"

// Validation and parse failures are fatal: callers abort on the first error
// encountered in depth-first order. Every error returned by this package
// wraps one of these sentinels so callers can classify with errors.Is.
var (
	// ErrInvalidMode marks a tree entry whose mode token is not in the
	// recognized set.
	ErrInvalidMode = errors.New("invalid tree entry mode")

	// ErrInvalidType marks an object whose declared record type disagrees
	// with the variant it was requested as.
	ErrInvalidType = errors.New("declared type does not match expected type")

	// ErrInvalidSize marks an object whose declared size disagrees with the
	// actual payload length.
	ErrInvalidSize = errors.New("declared size does not match payload length")

	// ErrInvalidSHA1 marks an object whose recomputed content hash disagrees
	// with the hash it was requested under.
	ErrInvalidSHA1 = errors.New("content hash does not match object hash")

	// ErrMissingObject marks a hash the store could not resolve.
	ErrMissingObject = errors.New("object not found")

	// ErrHeadNotFound marks a repository with no resolvable head reference.
	ErrHeadNotFound = errors.New("head reference not found")

	// ErrMissingCommitData marks a commit payload lacking a required tree
	// row, author row, or blank-line-delimited subject.
	ErrMissingCommitData = errors.New("commit payload missing required data")

	// ErrExcessiveCommitData marks a commit payload with more than one tree
	// row.
	ErrExcessiveCommitData = errors.New("commit payload has excessive data")

	// ErrMalformedRecord marks raw bytes that do not split into a
	// well-formed header and payload.
	ErrMalformedRecord = errors.New("malformed object record")
)
