package crypto

import (
	"bytes"
	"encoding/binary"
)

// sigHeaderLen is the serialized signature header: algorithm tag byte plus
// 4-byte little-endian body length.
const sigHeaderLen = 5

// Signature is a signature value: algorithm tag plus raw signature bytes.
// Signature lengths vary per signing operation, bounded by the registry
// maximum. The zero value is the invalid sentinel.
type Signature struct {
	alg  AlgorithmId
	data []byte
}

// NewSignature builds a Signature from raw bytes, canonicalizing anything
// invalid to the sentinel.
func NewSignature(data []byte, alg AlgorithmId) Signature {
	sig := Signature{alg: alg, data: append([]byte(nil), data...)}
	if !sig.Validate() {
		return Signature{}
	}
	return sig
}

func (s Signature) Algorithm() AlgorithmId { return s.alg }

// Bytes returns a copy of the raw signature bytes.
func (s Signature) Bytes() []byte {
	return append([]byte(nil), s.data...)
}

// Validate reports whether the algorithm is enabled and the body is
// non-empty and at or below the registry maximum.
func (s Signature) Validate() bool {
	sizes, err := Sizes(s.alg)
	if err != nil {
		return false
	}
	return len(s.data) > 0 && len(s.data) <= sizes.SigMaxLen
}

// Verify checks the signature over digest against pub. It is false unless
// both values validate and use the same algorithm; verification itself is
// delegated to the provider. There are no partial-success states.
func (s Signature) Verify(digest []byte, pub PubKey) bool {
	if !s.Validate() || !pub.Validate() {
		return false
	}
	if s.alg != pub.alg {
		return false
	}
	p, ok := lookupProvider(s.alg)
	if !ok {
		return false
	}
	return p.Verify(pub.data, digest, s.data)
}

// Serialize returns the wire form: tag byte, 4-byte little-endian body
// length, then the body. The explicit length is required because signature
// lengths vary per operation, unlike keys. Returns nil for an invalid
// signature.
func (s Signature) Serialize() []byte {
	if !s.Validate() {
		return nil
	}
	out := make([]byte, 0, sigHeaderLen+len(s.data))
	out = append(out, byte(s.alg))
	var lenBuf [4]byte
	binary.LittleEndian.PutUint32(lenBuf[:], uint32(len(s.data)))
	out = append(out, lenBuf[:]...)
	out = append(out, s.data...)
	return out
}

// DeserializeSignature parses the wire form produced by Serialize. The
// buffer must be exactly header plus declared body length; truncated or
// over-long input, an unknown tag, or a body failing validation all yield
// the invalid sentinel.
func DeserializeSignature(b []byte) Signature {
	if len(b) < sigHeaderLen {
		return Signature{}
	}
	alg := AlgorithmId(b[0])
	if !alg.Known() {
		return Signature{}
	}
	bodyLen := binary.LittleEndian.Uint32(b[1:sigHeaderLen])
	if uint64(len(b)) != sigHeaderLen+uint64(bodyLen) {
		return Signature{}
	}
	return NewSignature(b[sigHeaderLen:], alg)
}

// Equal reports structural equality.
func (s Signature) Equal(other Signature) bool {
	return s.alg == other.alg && bytes.Equal(s.data, other.data)
}
