// Package address renders and parses bech32m post-quantum addresses. An
// address commits to a version, a signature algorithm, and a hash payload;
// the payload width is fixed by the version.
package address

import (
	"bytes"
	"crypto/sha256"
	"errors"

	"github.com/btcsuite/btcd/btcutil/bech32"
	"golang.org/x/crypto/ripemd160"

	"ebc.dev/node/consensus"
	"ebc.dev/node/crypto"
)

// Version is the leading byte of the decoded address payload.
type Version byte

const (
	PubKeyHash Version = 0
	ScriptHash Version = 1
	WitnessV0  Version = 2
	WitnessV1  Version = 3
)

const (
	pubKeyHashLen = ripemd160.Size // 20
	scriptHashLen = 32
)

// ErrUnsupportedVersion is returned by Script for witness versions, which
// have no locking-script form yet.
var ErrUnsupportedVersion = errors.New("address: no script form for witness version")

// Address is an immutable parsed address. The zero value is invalid.
type Address struct {
	version Version
	alg     crypto.AlgorithmId
	payload []byte
}

// New builds an address from parts. Invalid combinations collapse to the
// zero (invalid) address.
func New(version Version, alg crypto.AlgorithmId, payload []byte) Address {
	a := Address{
		version: version,
		alg:     alg,
		payload: append([]byte(nil), payload...),
	}
	if !a.Validate() {
		return Address{}
	}
	return a
}

func (a Address) Version() Version              { return a.version }
func (a Address) Algorithm() crypto.AlgorithmId { return a.alg }

func (a Address) Payload() []byte {
	return append([]byte(nil), a.payload...)
}

// Validate checks the algorithm is known and the payload width matches the
// version.
func (a Address) Validate() bool {
	if !a.alg.Known() {
		return false
	}
	switch a.version {
	case PubKeyHash:
		return len(a.payload) == pubKeyHashLen
	case ScriptHash:
		return len(a.payload) == scriptHashLen
	case WitnessV0:
		return len(a.payload) == pubKeyHashLen || len(a.payload) == scriptHashLen
	case WitnessV1:
		return len(a.payload) == scriptHashLen
	default:
		return false
	}
}

// Encode renders the address as a bech32m string for the given network.
// Returns "" when the address is invalid.
func (a Address) Encode(net Network) string {
	if !a.Validate() {
		return ""
	}
	data := make([]byte, 0, 2+len(a.payload))
	data = append(data, byte(a.version), byte(a.alg))
	data = append(data, a.payload...)

	conv, err := bech32.ConvertBits(data, 8, 5, true)
	if err != nil {
		return ""
	}
	s, err := bech32.EncodeM(net.HRP(), conv)
	if err != nil {
		return ""
	}
	return s
}

// Decode parses a bech32m address string for the given network. All failure
// modes return the zero address and an error.
func Decode(s string, net Network) (Address, error) {
	hrp, data, version, err := bech32.DecodeGeneric(s)
	if err != nil {
		return Address{}, err
	}
	if version != bech32.VersionM {
		return Address{}, errors.New("address: not bech32m")
	}
	if hrp != net.HRP() {
		return Address{}, errors.New("address: wrong network prefix")
	}
	raw, err := bech32.ConvertBits(data, 5, 8, false)
	if err != nil {
		return Address{}, err
	}
	if len(raw) < 2 {
		return Address{}, errors.New("address: payload too short")
	}
	a := Address{
		version: Version(raw[0]),
		alg:     crypto.AlgorithmId(raw[1]),
		payload: append([]byte(nil), raw[2:]...),
	}
	if !a.Validate() {
		return Address{}, errors.New("address: invalid version, algorithm or payload")
	}
	return a, nil
}

// FromPubKey derives the pay-to-pubkey-hash address for a public key.
func FromPubKey(pk crypto.PubKey) Address {
	if !pk.Validate() {
		return Address{}
	}
	return New(PubKeyHash, pk.Algorithm(), HashPubKey(pk))
}

// FromScriptHash wraps a 32-byte script hash in a pay-to-script-hash
// address.
func FromScriptHash(hash [32]byte, alg crypto.AlgorithmId) Address {
	return New(ScriptHash, alg, hash[:])
}

// HashPubKey computes the 20-byte address payload for a public key:
// RIPEMD160 over the SHA-256 of its serialized form.
func HashPubKey(pk crypto.PubKey) []byte {
	ser := pk.Serialize()
	if ser == nil {
		return nil
	}
	inner := sha256.Sum256(ser)
	h := ripemd160.New()
	h.Write(inner[:])
	return h.Sum(nil)
}

// HashScript computes the 32-byte pay-to-script-hash payload.
func HashScript(script consensus.Script) [32]byte {
	return consensus.Hash256(script)
}

// Script returns the locking script the address stands for. Witness
// versions return ErrUnsupportedVersion.
func (a Address) Script() (consensus.Script, error) {
	if !a.Validate() {
		return nil, errors.New("address: invalid")
	}
	switch a.version {
	case PubKeyHash:
		s := consensus.Script{}.
			AddOp(consensus.OP_DUP).
			AddOp(consensus.OP_HASH160).
			AddData(a.payload).
			AddOp(consensus.OP_EQUALVERIFY).
			AddOp(consensus.OP_PQCHECKSIG)
		return s, nil
	case ScriptHash:
		s := consensus.Script{}.
			AddOp(consensus.OP_HASH256).
			AddData(a.payload).
			AddOp(consensus.OP_EQUAL)
		return s, nil
	default:
		return nil, ErrUnsupportedVersion
	}
}

func (a Address) IsP2PQPKH() bool { return a.version == PubKeyHash }
func (a Address) IsP2PQSH() bool  { return a.version == ScriptHash }

func (a Address) IsWitness() bool {
	return a.version == WitnessV0 || a.version == WitnessV1
}

func (a Address) Equal(other Address) bool {
	return a.version == other.version &&
		a.alg == other.alg &&
		bytes.Equal(a.payload, other.payload)
}

// IsValidAddressString reports whether s parses as a valid address on the
// network.
func IsValidAddressString(s string, net Network) bool {
	_, err := Decode(s, net)
	return err == nil
}
