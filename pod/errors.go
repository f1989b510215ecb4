package pod

import "errors"

// Error taxonomy of the POD engine. Errors returned by this package wrap one
// of these sentinels, so callers can classify them with errors.Is.
var (
	// ErrInputShape is returned for too many PODs per arity, op lists longer
	// than NS, or payloads that do not have NS statements.
	ErrInputShape = errors.New("invalid input shape")
	// ErrLookupMissing is returned for unknown POD names, statement labels,
	// origins missing in the rename map, or a missing _signer entry.
	ErrLookupMissing = errors.New("lookup missing")
	// ErrInvalidClaim is returned when an operation precondition does not
	// hold, including arithmetic overflow and failed membership checks.
	ErrInvalidClaim = errors.New("invalid claim")
	// ErrTypeMismatch is returned when an operand value has the wrong kind.
	ErrTypeMismatch = errors.New("type mismatch")
	// ErrSignatureInvalid is returned when a Schnorr or oracle signature
	// does not verify, or the content id does not match the payload.
	ErrSignatureInvalid = errors.New("invalid signature")
	// ErrProofInvalid is returned when a recursive proof does not verify.
	ErrProofInvalid = errors.New("invalid proof")
	// ErrVectorTooLong is returned for vectors longer than VL.
	ErrVectorTooLong = errors.New("vector too long")
)
