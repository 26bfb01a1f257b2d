package consensus

import (
	"encoding/binary"
)

// Tx is the transaction shape the signature-hash and script layers operate
// on. Field encodings are little-endian with CompactSize length prefixes.
type Tx struct {
	Version  uint32
	Inputs   []TxInput
	Outputs  []TxOutput
	Locktime uint32
}

type TxInput struct {
	PrevTxid  [32]byte
	PrevVout  uint32
	ScriptSig []byte
	Sequence  uint32
}

type TxOutput struct {
	Value    uint64
	PkScript Script
}

type cursor struct {
	b   []byte
	pos int
}

func maxIntAsUint64() uint64 {
	return uint64(^uint(0) >> 1)
}

func toIntLen(v uint64, name string) (int, error) {
	if v > maxIntAsUint64() {
		return 0, txerr(TX_ERR_PARSE, "%s overflows usize", name)
	}
	// #nosec G115 -- v is bounded to int by maxIntAsUint64 above.
	return int(v), nil
}

func newCursor(b []byte) *cursor {
	return &cursor{b: b, pos: 0}
}

func (c *cursor) remaining() int {
	if c.pos >= len(c.b) {
		return 0
	}
	return len(c.b) - c.pos
}

func (c *cursor) readExact(n int) ([]byte, error) {
	if n < 0 || c.remaining() < n {
		return nil, txerr(TX_ERR_PARSE, "truncated")
	}
	start := c.pos
	c.pos += n
	return c.b[start:c.pos], nil
}

func (c *cursor) readU32LE() (uint32, error) {
	b, err := c.readExact(4)
	if err != nil {
		return 0, err
	}
	return binary.LittleEndian.Uint32(b), nil
}

func (c *cursor) readU64LE() (uint64, error) {
	b, err := c.readExact(8)
	if err != nil {
		return 0, err
	}
	return binary.LittleEndian.Uint64(b), nil
}

func (c *cursor) readCompactSize() (uint64, error) {
	cs, used, err := DecodeCompactSize(c.b[c.pos:])
	if err != nil {
		return 0, err
	}
	c.pos += used
	return uint64(cs), nil
}

// ParseTxBytes decodes a serialized transaction. Trailing bytes after the
// locktime are rejected.
func ParseTxBytes(b []byte) (*Tx, error) {
	cur := newCursor(b)

	version, err := cur.readU32LE()
	if err != nil {
		return nil, err
	}

	inputCountU64, err := cur.readCompactSize()
	if err != nil {
		return nil, err
	}
	inputCount, err := toIntLen(inputCountU64, "input_count")
	if err != nil {
		return nil, err
	}
	inputs := make([]TxInput, 0, inputCount)
	for i := 0; i < inputCount; i++ {
		prevTxidBytes, err := cur.readExact(32)
		if err != nil {
			return nil, err
		}
		var prevTxid [32]byte
		copy(prevTxid[:], prevTxidBytes)

		prevVout, err := cur.readU32LE()
		if err != nil {
			return nil, err
		}

		scriptSigLenU64, err := cur.readCompactSize()
		if err != nil {
			return nil, err
		}
		scriptSigLen, err := toIntLen(scriptSigLenU64, "script_sig_len")
		if err != nil {
			return nil, err
		}
		scriptSigBytes, err := cur.readExact(scriptSigLen)
		if err != nil {
			return nil, err
		}

		sequence, err := cur.readU32LE()
		if err != nil {
			return nil, err
		}

		inputs = append(inputs, TxInput{
			PrevTxid:  prevTxid,
			PrevVout:  prevVout,
			ScriptSig: append([]byte(nil), scriptSigBytes...),
			Sequence:  sequence,
		})
	}

	outputCountU64, err := cur.readCompactSize()
	if err != nil {
		return nil, err
	}
	outputCount, err := toIntLen(outputCountU64, "output_count")
	if err != nil {
		return nil, err
	}
	outputs := make([]TxOutput, 0, outputCount)
	for i := 0; i < outputCount; i++ {
		value, err := cur.readU64LE()
		if err != nil {
			return nil, err
		}
		pkScriptLenU64, err := cur.readCompactSize()
		if err != nil {
			return nil, err
		}
		pkScriptLen, err := toIntLen(pkScriptLenU64, "pk_script_len")
		if err != nil {
			return nil, err
		}
		pkScriptBytes, err := cur.readExact(pkScriptLen)
		if err != nil {
			return nil, err
		}

		outputs = append(outputs, TxOutput{
			Value:    value,
			PkScript: Script(append([]byte(nil), pkScriptBytes...)),
		})
	}

	locktime, err := cur.readU32LE()
	if err != nil {
		return nil, err
	}

	if cur.pos != len(b) {
		return nil, txerr(TX_ERR_PARSE, "trailing bytes")
	}

	return &Tx{
		Version:  version,
		Inputs:   inputs,
		Outputs:  outputs,
		Locktime: locktime,
	}, nil
}

func TxInputBytes(in TxInput) []byte {
	out := make([]byte, 0, 32+4+9+len(in.ScriptSig)+4)
	out = append(out, in.PrevTxid[:]...)
	var tmp4 [4]byte
	binary.LittleEndian.PutUint32(tmp4[:], in.PrevVout)
	out = append(out, tmp4[:]...)
	out = append(out, CompactSize(len(in.ScriptSig)).Encode()...)
	out = append(out, in.ScriptSig...)
	binary.LittleEndian.PutUint32(tmp4[:], in.Sequence)
	out = append(out, tmp4[:]...)
	return out
}

func TxOutputBytes(o TxOutput) []byte {
	out := make([]byte, 0, 8+9+len(o.PkScript))
	var tmp8 [8]byte
	binary.LittleEndian.PutUint64(tmp8[:], o.Value)
	out = append(out, tmp8[:]...)
	out = append(out, CompactSize(len(o.PkScript)).Encode()...)
	out = append(out, o.PkScript...)
	return out
}

func TxBytes(tx *Tx) []byte {
	out := make([]byte, 0, 4+9+9+4)
	var tmp4 [4]byte
	binary.LittleEndian.PutUint32(tmp4[:], tx.Version)
	out = append(out, tmp4[:]...)
	out = append(out, CompactSize(len(tx.Inputs)).Encode()...)
	for _, in := range tx.Inputs {
		out = append(out, TxInputBytes(in)...)
	}
	out = append(out, CompactSize(len(tx.Outputs)).Encode()...)
	for _, o := range tx.Outputs {
		out = append(out, TxOutputBytes(o)...)
	}
	binary.LittleEndian.PutUint32(tmp4[:], tx.Locktime)
	out = append(out, tmp4[:]...)
	return out
}

// TxID is the double-SHA-256 of the serialized transaction.
func TxID(tx *Tx) [32]byte {
	return Hash256(TxBytes(tx))
}
