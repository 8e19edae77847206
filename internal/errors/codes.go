package errors

// Error codes for the dicec compiler: one reserved numeric block per
// pipeline stage.
//
// E01xx: namespace construction
// E02xx: basic-block / name resolution
// E03xx: inlining
// E04xx: environment collaborator
// E05xx: graph construction / rewriting
// E06xx: runtime

const (
	// Parse errors are passed through from the parser collaborator, not
	// produced by the core; this code only tags them for Reporter.
	ErrParse = "E0000"

	// Namespace construction.
	ErrDuplicateName   = "E0101"
	ErrStdlibShadowed  = "E0102"
	ErrMissingAnalyze  = "E0103"
	ErrMultipleAnalyze = "E0104"

	// Basic-block / resolution errors.
	ErrUnresolvedName  = "E0201"
	ErrArityMismatch   = "E0202"
	ErrTypeMismatch    = "E0203"
	ErrReturnMissing   = "E0204"
	ErrMultipleReturns = "E0205"

	// Inlining.
	ErrRecursiveFunction = "E0301"
	ErrDivisionByZero    = "E0302"

	// Environment collaborator.
	ErrEnvironmentMissing     = "E0401"
	ErrEnvironmentParseFailed = "E0402"

	// Runtime (never surfaced to a correctly validated program).
	ErrNonConstantDiceCount = "E0602"
	ErrInvalidDiceRange     = "E0603"
)
