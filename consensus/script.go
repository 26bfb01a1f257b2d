package consensus

// Script is a serialized locking or unlocking script fragment. This package
// does not evaluate scripts; it only builds and recognizes the fragments the
// PQ opcodes bind to. The stack evaluator lives outside this repository.
type Script []byte

// Opcodes used by EBC locking scripts. OP_PQCHECKSIG and
// OP_PQCHECKSIGVERIFY occupy previously unassigned opcode space.
const (
	OP_PUSHDATA1   = 0x4c
	OP_PUSHDATA2   = 0x4d
	OP_DUP         = 0x76
	OP_EQUAL       = 0x87
	OP_EQUALVERIFY = 0x88
	OP_HASH160     = 0xa9
	OP_HASH256     = 0xaa

	OP_PQCHECKSIG       = 0xc0
	OP_PQCHECKSIGVERIFY = 0xc1
)

// maxDirectPush is the largest payload encoded as a bare length byte.
const maxDirectPush = 75

// MaxScriptSize bounds any script fragment fed into signature hashing.
const MaxScriptSize = 10000

// AddOp appends a single opcode.
func (s Script) AddOp(op byte) Script {
	return append(s, op)
}

// AddData appends a canonical minimal push of data. Payloads above 65535
// bytes are not representable in a locking script and return the script
// unchanged.
func (s Script) AddData(data []byte) Script {
	n := len(data)
	switch {
	case n <= maxDirectPush:
		s = append(s, byte(n))
	case n <= 0xff:
		s = append(s, OP_PUSHDATA1, byte(n))
	case n <= 0xffff:
		s = append(s, OP_PUSHDATA2, byte(n), byte(n>>8))
	default:
		return s
	}
	return append(s, data...)
}

// IsPayToPQPubKeyHash recognizes the canonical P2PQPKH form:
// DUP HASH160 <20-byte hash> EQUALVERIFY PQCHECKSIG.
func (s Script) IsPayToPQPubKeyHash() bool {
	return len(s) == 25 &&
		s[0] == OP_DUP &&
		s[1] == OP_HASH160 &&
		s[2] == 20 &&
		s[23] == OP_EQUALVERIFY &&
		s[24] == OP_PQCHECKSIG
}

// IsPayToPQScriptHash recognizes the canonical P2PQSH form:
// HASH256 <32-byte hash> EQUAL.
func (s Script) IsPayToPQScriptHash() bool {
	return len(s) == 35 &&
		s[0] == OP_HASH256 &&
		s[1] == 32 &&
		s[34] == OP_EQUAL
}
