package consensus

import (
	"encoding/binary"
)

// SigHashType selects which parts of the transaction a signature commits to.
// The trailing byte of a signature blob carries this value.
type SigHashType byte

const (
	SIGHASH_ALL    SigHashType = 0x01
	SIGHASH_NONE   SigHashType = 0x02
	SIGHASH_SINGLE SigHashType = 0x03

	SIGHASH_ANYONECANPAY SigHashType = 0x80
)

// Base strips the anyone-can-pay modifier.
func (t SigHashType) Base() SigHashType {
	return t &^ SIGHASH_ANYONECANPAY
}

func (t SigHashType) AnyOneCanPay() bool {
	return t&SIGHASH_ANYONECANPAY != 0
}

// Valid reports whether the base type is one of ALL, NONE or SINGLE and no
// undefined modifier bits are set.
func (t SigHashType) Valid() bool {
	base := t.Base()
	if base != SIGHASH_ALL && base != SIGHASH_NONE && base != SIGHASH_SINGLE {
		return false
	}
	return t&^(SIGHASH_ANYONECANPAY|0x03) == 0
}

// ActivationFlags captures the deployment state of the post-quantum script
// rules at the evaluation height. The flags are committed to in the digest so
// a signature made under one regime cannot be replayed under another.
type ActivationFlags struct {
	Active      bool
	GracePeriod bool
}

func (f ActivationFlags) Byte() byte {
	var b byte
	if f.Active {
		b |= 0x01
	}
	if f.GracePeriod {
		b |= 0x02
	}
	return b
}

// IsPQEnabled reports whether post-quantum checksig operations may succeed
// under the given deployment state.
func IsPQEnabled(f ActivationFlags) bool {
	return f.Active || f.GracePeriod
}

const sighashTag = "EBCv1-sighash/"

var zero32 [32]byte

func hashPrevouts(tx *Tx) [32]byte {
	buf := make([]byte, 0, len(tx.Inputs)*(32+4))
	var tmp4 [4]byte
	for _, in := range tx.Inputs {
		buf = append(buf, in.PrevTxid[:]...)
		binary.LittleEndian.PutUint32(tmp4[:], in.PrevVout)
		buf = append(buf, tmp4[:]...)
	}
	return Hash256(buf)
}

func hashSequences(tx *Tx) [32]byte {
	buf := make([]byte, 0, len(tx.Inputs)*4)
	var tmp4 [4]byte
	for _, in := range tx.Inputs {
		binary.LittleEndian.PutUint32(tmp4[:], in.Sequence)
		buf = append(buf, tmp4[:]...)
	}
	return Hash256(buf)
}

func hashOutputs(tx *Tx) [32]byte {
	buf := make([]byte, 0)
	for _, o := range tx.Outputs {
		buf = append(buf, TxOutputBytes(o)...)
	}
	return Hash256(buf)
}

// TxSigHashes caches the per-transaction preimage subhashes so signing or
// checking many inputs of one transaction hashes the shared parts once.
type TxSigHashes struct {
	Prevouts  [32]byte
	Sequences [32]byte
	Outputs   [32]byte
}

func NewTxSigHashes(tx *Tx) *TxSigHashes {
	return &TxSigHashes{
		Prevouts:  hashPrevouts(tx),
		Sequences: hashSequences(tx),
		Outputs:   hashOutputs(tx),
	}
}

// SignatureHash computes the digest a post-quantum checksig signature signs.
// The preimage is domain-tagged and commits to the transaction, the spent
// input and its amount, the executing scriptCode, the hash type, and the
// deployment flags.
func SignatureHash(
	tx *Tx,
	inputIndex uint32,
	amount uint64,
	scriptCode []byte,
	hashType SigHashType,
	flags ActivationFlags,
) ([32]byte, error) {
	return signatureHash(tx, NewTxSigHashes(tx), inputIndex, amount, scriptCode, hashType, flags)
}

func signatureHash(
	tx *Tx,
	cache *TxSigHashes,
	inputIndex uint32,
	amount uint64,
	scriptCode []byte,
	hashType SigHashType,
	flags ActivationFlags,
) ([32]byte, error) {
	if !hashType.Valid() {
		return [32]byte{}, txerr(TX_ERR_SIGHASH_TYPE, "sighash: unknown hash type 0x%02x", byte(hashType))
	}
	if uint64(inputIndex) >= uint64(len(tx.Inputs)) {
		return [32]byte{}, txerr(TX_ERR_INPUT_INDEX, "sighash: input_index out of bounds")
	}
	if len(scriptCode) > MaxScriptSize {
		return [32]byte{}, txerr(TX_ERR_SCRIPT_TOO_LONG, "sighash: script code %d bytes", len(scriptCode))
	}

	prevoutsDigest := zero32
	sequencesDigest := zero32
	outputsDigest := zero32

	if !hashType.AnyOneCanPay() {
		prevoutsDigest = cache.Prevouts
		if hashType.Base() == SIGHASH_ALL {
			sequencesDigest = cache.Sequences
		}
	}
	switch hashType.Base() {
	case SIGHASH_ALL:
		outputsDigest = cache.Outputs
	case SIGHASH_SINGLE:
		if uint64(inputIndex) < uint64(len(tx.Outputs)) {
			outputsDigest = Hash256(TxOutputBytes(tx.Outputs[inputIndex]))
		}
	}

	in := tx.Inputs[inputIndex]

	preimage := make([]byte, 0, len(sighashTag)+4+1+32+32+4+36+9+len(scriptCode)+8+4+32+4+1)
	preimage = append(preimage, []byte(sighashTag)...)

	var tmp4 [4]byte
	binary.LittleEndian.PutUint32(tmp4[:], tx.Version)
	preimage = append(preimage, tmp4[:]...)

	preimage = append(preimage, flags.Byte())

	preimage = append(preimage, prevoutsDigest[:]...)
	preimage = append(preimage, sequencesDigest[:]...)

	binary.LittleEndian.PutUint32(tmp4[:], inputIndex)
	preimage = append(preimage, tmp4[:]...)

	preimage = append(preimage, in.PrevTxid[:]...)
	binary.LittleEndian.PutUint32(tmp4[:], in.PrevVout)
	preimage = append(preimage, tmp4[:]...)

	preimage = append(preimage, CompactSize(len(scriptCode)).Encode()...)
	preimage = append(preimage, scriptCode...)

	var tmp8 [8]byte
	binary.LittleEndian.PutUint64(tmp8[:], amount)
	preimage = append(preimage, tmp8[:]...)

	binary.LittleEndian.PutUint32(tmp4[:], in.Sequence)
	preimage = append(preimage, tmp4[:]...)

	preimage = append(preimage, outputsDigest[:]...)

	binary.LittleEndian.PutUint32(tmp4[:], tx.Locktime)
	preimage = append(preimage, tmp4[:]...)

	preimage = append(preimage, byte(hashType))

	return Hash256(preimage), nil
}
