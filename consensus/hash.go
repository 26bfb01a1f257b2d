package consensus

import "crypto/sha256"

// hash256 is double SHA-256, the digest used for sighash preimages and
// script-hash payloads.
func hash256(b []byte) [32]byte {
	first := sha256.Sum256(b)
	return sha256.Sum256(first[:])
}

// Hash256 exposes double SHA-256 for address and script hashing.
func Hash256(b []byte) [32]byte {
	return hash256(b)
}
