package crypto

import (
	"errors"
	"fmt"
)

// AlgorithmId identifies a post-quantum signature suite. The zero value is
// the invalid sentinel and never passes validation.
type AlgorithmId uint8

const (
	ALG_UNKNOWN      AlgorithmId = 0
	ALG_ML_DSA_87    AlgorithmId = 1
	ALG_SLH_DSA_256F AlgorithmId = 2
)

// AlgorithmSizes holds the fixed byte lengths a provider guarantees for one
// algorithm. SigMaxLen is an upper bound: individual signing operations may
// emit fewer bytes.
type AlgorithmSizes struct {
	PubKeyLen  int
	PrivKeyLen int
	SigMaxLen  int
}

var ErrUnsupportedAlgorithm = errors.New("crypto: unsupported algorithm")

// Known reports whether a is a member of the closed algorithm enumeration,
// independent of whether the linked provider enables it at runtime.
func (a AlgorithmId) Known() bool {
	return a == ALG_ML_DSA_87 || a == ALG_SLH_DSA_256F
}

func (a AlgorithmId) String() string {
	switch a {
	case ALG_ML_DSA_87:
		return "ML-DSA-87"
	case ALG_SLH_DSA_256F:
		return "SLH-DSA-SHAKE-256f"
	default:
		return "Unknown"
	}
}

// ParseAlgorithm maps an algorithm name back to its id. Unrecognised names
// yield ALG_UNKNOWN.
func ParseAlgorithm(s string) AlgorithmId {
	switch s {
	case "ML-DSA-87":
		return ALG_ML_DSA_87
	case "SLH-DSA-SHAKE-256f":
		return ALG_SLH_DSA_256F
	default:
		return ALG_UNKNOWN
	}
}

// registry is resolved once at package init and never mutated afterwards, so
// concurrent reads need no synchronization.
var registry map[AlgorithmId]SchemeProvider

func init() {
	registry = resolveProviders()
}

func lookupProvider(a AlgorithmId) (SchemeProvider, bool) {
	p, ok := registry[a]
	return p, ok
}

// Sizes returns the provider's fixed key and maximum signature lengths for a.
// It fails for ALG_UNKNOWN and for any algorithm the linked provider does not
// enable.
func Sizes(a AlgorithmId) (AlgorithmSizes, error) {
	p, ok := lookupProvider(a)
	if !ok {
		return AlgorithmSizes{}, fmt.Errorf("%w: %s", ErrUnsupportedAlgorithm, a)
	}
	return p.Sizes(), nil
}

// IsSupported reports whether the linked provider enables a.
func IsSupported(a AlgorithmId) bool {
	_, ok := lookupProvider(a)
	return ok
}

// SupportedAlgorithms lists the enabled algorithms in id order.
func SupportedAlgorithms() []AlgorithmId {
	out := make([]AlgorithmId, 0, len(registry))
	for _, a := range []AlgorithmId{ALG_ML_DSA_87, ALG_SLH_DSA_256F} {
		if _, ok := registry[a]; ok {
			out = append(out, a)
		}
	}
	return out
}
