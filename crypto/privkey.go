package crypto

import "go.uber.org/zap"

// PrivKey owns raw secret key bytes for one algorithm. It is a single-owner
// resource: pass the pointer to transfer ownership, never share it across
// goroutines without external synchronization. Every exit path (explicit
// Clear, failed construction) overwrites the secret before releasing it.
type PrivKey struct {
	alg  AlgorithmId
	data []byte
	pub  PubKey // cached public key, set at generation time
}

// NewPrivKey builds a PrivKey from raw secret bytes. The input is copied;
// on validation failure the copy is wiped and the invalid sentinel returned.
func NewPrivKey(data []byte, alg AlgorithmId) *PrivKey {
	sk := &PrivKey{alg: alg, data: append([]byte(nil), data...)}
	if !sk.Validate() {
		sk.Clear()
	}
	return sk
}

// GenerateKeyPair runs the provider's keygen for alg. On any failure it
// returns two invalid sentinels; no partially populated key escapes and no
// intermediate secret buffer survives.
func GenerateKeyPair(alg AlgorithmId) (*PrivKey, PubKey) {
	p, ok := lookupProvider(alg)
	if !ok {
		return &PrivKey{}, PubKey{}
	}
	pubBytes, privBytes, err := p.KeyGen()
	if err != nil {
		logger.Warn("pq keygen failed",
			zap.Stringer("algorithm", alg),
			zap.Error(err))
		zeroBytes(privBytes)
		return &PrivKey{}, PubKey{}
	}
	pub := NewPubKey(pubBytes, alg)
	sk := &PrivKey{alg: alg, data: privBytes, pub: pub}
	if !sk.Validate() || !pub.Validate() {
		sk.Clear()
		return &PrivKey{}, PubKey{}
	}
	return sk, pub
}

func (sk *PrivKey) Algorithm() AlgorithmId { return sk.alg }

// Bytes exports a copy of the raw secret, for key storage tooling. The
// caller owns the copy and is responsible for wiping it.
func (sk *PrivKey) Bytes() []byte {
	if !sk.Validate() {
		return nil
	}
	return append([]byte(nil), sk.data...)
}

// Validate reports whether the algorithm is enabled and the secret length
// matches the registry.
func (sk *PrivKey) Validate() bool {
	sizes, err := Sizes(sk.alg)
	if err != nil {
		return false
	}
	return len(sk.data) == sizes.PrivKeyLen
}

// Sign signs a message digest and returns the provider's raw signature
// output at its actual length. Returns nil if the key is invalid or the
// provider fails.
func (sk *PrivKey) Sign(digest []byte) []byte {
	if !sk.Validate() {
		return nil
	}
	p, ok := lookupProvider(sk.alg)
	if !ok {
		return nil
	}
	sig, err := p.Sign(sk.data, digest)
	if err != nil {
		logger.Warn("pq signing failed",
			zap.Stringer("algorithm", sk.alg),
			zap.Error(err))
		return nil
	}
	return sig
}

// GetPubKey returns the corresponding public key. Keys made by
// GenerateKeyPair carry it; otherwise it is recovered through the scheme's
// own derivation rule (not all schemes embed the public key in the secret
// encoding, so no byte-suffix shortcut is taken).
func (sk *PrivKey) GetPubKey() PubKey {
	if sk.pub.Validate() {
		return sk.pub
	}
	if !sk.Validate() {
		return PubKey{}
	}
	p, ok := lookupProvider(sk.alg)
	if !ok {
		return PubKey{}
	}
	pubBytes, err := p.DerivePublicKey(sk.data)
	if err != nil {
		logger.Warn("pq public key derivation failed",
			zap.Stringer("algorithm", sk.alg),
			zap.Error(err))
		return PubKey{}
	}
	sk.pub = NewPubKey(pubBytes, sk.alg)
	return sk.pub
}

// Clear overwrites the secret bytes, drops the cached public key, and resets
// the algorithm to the invalid sentinel. The wipe completes before Clear
// returns.
func (sk *PrivKey) Clear() {
	zeroBytes(sk.data)
	sk.data = nil
	sk.alg = ALG_UNKNOWN
	sk.pub = PubKey{}
}

func zeroBytes(b []byte) {
	for i := range b {
		b[i] = 0
	}
}
