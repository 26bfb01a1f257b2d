package crypto

import "bytes"

// PubKey is an immutable public key value: algorithm tag plus raw key bytes.
// The zero value is the invalid sentinel.
type PubKey struct {
	alg  AlgorithmId
	data []byte
}

// NewPubKey builds a PubKey from raw bytes. Anything that fails validation
// canonicalizes to the invalid sentinel rather than a malformed key.
func NewPubKey(data []byte, alg AlgorithmId) PubKey {
	pk := PubKey{alg: alg, data: append([]byte(nil), data...)}
	if !pk.Validate() {
		return PubKey{}
	}
	return pk
}

func (pk PubKey) Algorithm() AlgorithmId { return pk.alg }

// Bytes returns a copy of the raw key bytes.
func (pk PubKey) Bytes() []byte {
	return append([]byte(nil), pk.data...)
}

// Validate reports whether the algorithm is enabled and the key length
// matches the registry.
func (pk PubKey) Validate() bool {
	sizes, err := Sizes(pk.alg)
	if err != nil {
		return false
	}
	return len(pk.data) == sizes.PubKeyLen
}

// Serialize returns the wire form: one algorithm tag byte followed by the
// raw key bytes. The per-algorithm fixed length makes the tag
// self-describing, so there is no length prefix. Returns nil for an invalid
// key.
func (pk PubKey) Serialize() []byte {
	if !pk.Validate() {
		return nil
	}
	out := make([]byte, 0, 1+len(pk.data))
	out = append(out, byte(pk.alg))
	out = append(out, pk.data...)
	return out
}

// DeserializePubKey parses the wire form produced by Serialize. Empty input,
// an unknown tag, or a length mismatch all yield the invalid sentinel.
func DeserializePubKey(b []byte) PubKey {
	if len(b) == 0 {
		return PubKey{}
	}
	alg := AlgorithmId(b[0])
	if !alg.Known() {
		return PubKey{}
	}
	return NewPubKey(b[1:], alg)
}

// Equal reports structural equality.
func (pk PubKey) Equal(other PubKey) bool {
	return pk.alg == other.alg && bytes.Equal(pk.data, other.data)
}
