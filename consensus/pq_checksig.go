package consensus

import (
	"ebc.dev/node/crypto"
)

// A signature blob pushed by scriptSig is a serialized signature followed by
// a single hash-type byte.
const sigBlobMinLen = 6

// SplitSigBlob separates a stack signature blob into the structured
// signature and its trailing hash type. Malformed blobs fail closed.
func SplitSigBlob(blob []byte) (crypto.Signature, SigHashType, error) {
	if len(blob) < sigBlobMinLen {
		return crypto.Signature{}, 0, txerr(TX_ERR_SIG_ENCODING, "sig blob too short")
	}
	hashType := SigHashType(blob[len(blob)-1])
	if !hashType.Valid() {
		return crypto.Signature{}, 0, txerr(TX_ERR_SIGHASH_TYPE, "sig blob: invalid hash type 0x%02x", blob[len(blob)-1])
	}
	sig := crypto.DeserializeSignature(blob[:len(blob)-1])
	if !sig.Validate() {
		return crypto.Signature{}, 0, txerr(TX_ERR_SIG_ENCODING, "sig blob: malformed signature")
	}
	return sig, hashType, nil
}

// JoinSigBlob builds the stack blob for a signature and hash type. Returns
// nil when the signature does not serialize.
func JoinSigBlob(sig crypto.Signature, hashType SigHashType) []byte {
	ser := sig.Serialize()
	if ser == nil || !hashType.Valid() {
		return nil
	}
	return append(ser, byte(hashType))
}

// PQSignatureChecker validates post-quantum checksig operations for one
// input of a transaction.
type PQSignatureChecker struct {
	tx         *Tx
	hashes     *TxSigHashes
	inputIndex uint32
	amount     uint64
	flags      ActivationFlags
}

func NewPQSignatureChecker(tx *Tx, inputIndex uint32, amount uint64, flags ActivationFlags) *PQSignatureChecker {
	return &PQSignatureChecker{
		tx:         tx,
		hashes:     NewTxSigHashes(tx),
		inputIndex: inputIndex,
		amount:     amount,
		flags:      flags,
	}
}

func (c *PQSignatureChecker) SignatureHash(scriptCode []byte, hashType SigHashType) ([32]byte, error) {
	return signatureHash(c.tx, c.hashes, c.inputIndex, c.amount, scriptCode, hashType, c.flags)
}

// CheckPQSig verifies a signature blob against a serialized public key over
// the digest for scriptCode. All failure modes yield false; the operation
// also fails when the post-quantum rules are not deployed.
func (c *PQSignatureChecker) CheckPQSig(sigBlob, pubKeyBytes, scriptCode []byte) bool {
	if !IsPQEnabled(c.flags) {
		return false
	}
	sig, hashType, err := SplitSigBlob(sigBlob)
	if err != nil {
		return false
	}
	pub := crypto.DeserializePubKey(pubKeyBytes)
	if !pub.Validate() {
		return false
	}
	digest, err := c.SignatureHash(scriptCode, hashType)
	if err != nil {
		return false
	}
	return sig.Verify(digest[:], pub)
}

// EvalPQCheckSig implements OP_PQCHECKSIG: it pops nothing here (the caller
// supplies the two operands) and pushes the boolean result onto stack.
func EvalPQCheckSig(c *PQSignatureChecker, sigBlob, pubKeyBytes, scriptCode []byte, stack *[][]byte) {
	if c.CheckPQSig(sigBlob, pubKeyBytes, scriptCode) {
		*stack = append(*stack, []byte{1})
	} else {
		*stack = append(*stack, []byte{})
	}
}

// EvalPQCheckSigVerify implements OP_PQCHECKSIGVERIFY: instead of pushing a
// result it aborts evaluation with an error on failure.
func EvalPQCheckSigVerify(c *PQSignatureChecker, sigBlob, pubKeyBytes, scriptCode []byte) error {
	if !c.CheckPQSig(sigBlob, pubKeyBytes, scriptCode) {
		return txerr(TX_ERR_SIG_ENCODING, "pq checksig verify failed")
	}
	return nil
}
