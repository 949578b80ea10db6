// Package allele models a single allele call at a genomic locus.
//
// A call is one of three states: Present (a usable allele identifier),
// Missing (no call attempted or found, written as "-"), or Ambiguous
// (a multi-hit call that is unusable for comparison, written as "?").
package allele

// State distinguishes the three kinds of allele call.
type State int

const (
	// Missing means no call was attempted or found at the locus.
	Missing State = iota
	// Ambiguous means the call matched more than one reference allele.
	Ambiguous
	// Present means a single usable allele was called.
	Present
)

// Token literals for Missing and Ambiguous calls.
const (
	MissingToken   = "-"
	AmbiguousToken = "?"
)

// Call is an allele call at one locus for one sample. The zero value is
// a Missing call.
type Call struct {
	State State
	// ID is the allele identifier. It is an opaque label compared only
	// for equality; it is set only when State is Present.
	ID string
}

// MissingCall returns a Missing call.
func MissingCall() Call {
	return Call{State: Missing}
}

// AmbiguousCall returns an Ambiguous call.
func AmbiguousCall() Call {
	return Call{State: Ambiguous}
}

// PresentCall returns a Present call with the given allele identifier.
func PresentCall(id string) Call {
	return Call{State: Present, ID: id}
}

// ParseToken decodes a raw call token. "-" decodes to Missing, "?" to
// Ambiguous, and any other token to Present with the token as the
// allele identifier.
func ParseToken(token string) Call {
	switch token {
	case MissingToken:
		return MissingCall()
	case AmbiguousToken:
		return AmbiguousCall()
	default:
		return PresentCall(token)
	}
}

// Token renders the call back to its wire token.
func (c Call) Token() string {
	switch c.State {
	case Ambiguous:
		return AmbiguousToken
	case Present:
		return c.ID
	default:
		return MissingToken
	}
}

// IsPresent reports whether the call is usable for comparison.
func (c Call) IsPresent() bool {
	return c.State == Present
}

// Equal reports whether two calls are both Present with the same
// allele identifier. Missing and Ambiguous calls never compare equal,
// not even to themselves: they carry no comparable allele.
func (c Call) Equal(other Call) bool {
	return c.State == Present && other.State == Present && c.ID == other.ID
}

func (c Call) String() string {
	return c.Token()
}
