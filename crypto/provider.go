// Package crypto implements the EBC post-quantum identity core: the
// algorithm registry, tagged public key / private key / signature value
// types, and their binary wire forms. Scheme mathematics come from an
// external provider (circl); this package only binds to it.
package crypto

import (
	"github.com/cloudflare/circl/sign"
	"github.com/cloudflare/circl/sign/schemes"
	"go.uber.org/zap"
)

// SchemeProvider is the narrow per-algorithm interface consensus-facing code
// uses. Implementations must be safe for concurrent use.
type SchemeProvider interface {
	Algorithm() AlgorithmId
	Sizes() AlgorithmSizes

	// KeyGen returns freshly generated raw public and secret key bytes.
	KeyGen() (pub, priv []byte, err error)

	// Sign signs a digest with raw secret key bytes. The returned signature
	// may be shorter than Sizes().SigMaxLen.
	Sign(priv, digest []byte) ([]byte, error)

	// Verify checks a signature over digest against raw public key bytes.
	Verify(pub, digest, sig []byte) bool

	// DerivePublicKey recovers the public key from raw secret key bytes
	// using the scheme's own derivation rule.
	DerivePublicKey(priv []byte) ([]byte, error)
}

// logger receives provider-failure diagnostics. Failures are never surfaced
// to callers as distinguishable errors, so this is the only operator-visible
// signal.
var logger = zap.NewNop()

// SetLogger replaces the package logger. Call it during process startup,
// before concurrent use of this package begins.
func SetLogger(l *zap.Logger) {
	if l != nil {
		logger = l
	}
}

// circl scheme names, per FIPS 204 / FIPS 205.
var circlSchemeNames = map[AlgorithmId]string{
	ALG_ML_DSA_87:    "ML-DSA-87",
	ALG_SLH_DSA_256F: "SLH-DSA-SHAKE-256f",
}

// resolveProviders binds each algorithm id to its circl scheme. Algorithms
// whose scheme is missing from the linked circl build are left out and
// reported as unsupported.
func resolveProviders() map[AlgorithmId]SchemeProvider {
	out := make(map[AlgorithmId]SchemeProvider, len(circlSchemeNames))
	for alg, name := range circlSchemeNames {
		s := schemes.ByName(name)
		if s == nil {
			continue
		}
		out[alg] = &circlProvider{alg: alg, scheme: s}
	}
	return out
}

// circlProvider adapts a circl sign.Scheme to SchemeProvider.
type circlProvider struct {
	alg    AlgorithmId
	scheme sign.Scheme
}

func (p *circlProvider) Algorithm() AlgorithmId { return p.alg }

func (p *circlProvider) Sizes() AlgorithmSizes {
	return AlgorithmSizes{
		PubKeyLen:  p.scheme.PublicKeySize(),
		PrivKeyLen: p.scheme.PrivateKeySize(),
		SigMaxLen:  p.scheme.SignatureSize(),
	}
}

func (p *circlProvider) KeyGen() ([]byte, []byte, error) {
	pk, sk, err := p.scheme.GenerateKey()
	if err != nil {
		return nil, nil, err
	}
	pkBytes, err := pk.MarshalBinary()
	if err != nil {
		return nil, nil, err
	}
	skBytes, err := sk.MarshalBinary()
	if err != nil {
		return nil, nil, err
	}
	return pkBytes, skBytes, nil
}

func (p *circlProvider) Sign(priv, digest []byte) ([]byte, error) {
	sk, err := p.scheme.UnmarshalBinaryPrivateKey(priv)
	if err != nil {
		return nil, err
	}
	return p.scheme.Sign(sk, digest, nil), nil
}

func (p *circlProvider) Verify(pub, digest, sig []byte) bool {
	pk, err := p.scheme.UnmarshalBinaryPublicKey(pub)
	if err != nil {
		return false
	}
	return p.scheme.Verify(pk, digest, sig, nil)
}

func (p *circlProvider) DerivePublicKey(priv []byte) ([]byte, error) {
	sk, err := p.scheme.UnmarshalBinaryPrivateKey(priv)
	if err != nil {
		return nil, err
	}
	pk, ok := sk.Public().(sign.PublicKey)
	if !ok {
		return nil, ErrUnsupportedAlgorithm
	}
	return pk.MarshalBinary()
}
