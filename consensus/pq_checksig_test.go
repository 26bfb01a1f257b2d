package consensus

import (
	"bytes"
	"testing"

	"ebc.dev/node/crypto"
)

func signedInput(t *testing.T) (*PQSignatureChecker, []byte, []byte, []byte) {
	t.Helper()
	algs := crypto.SupportedAlgorithms()
	if len(algs) == 0 {
		t.Skipf("no signature algorithms enabled")
	}
	alg := algs[0]

	sk, pub := crypto.GenerateKeyPair(alg)
	if sk == nil || !pub.Validate() {
		t.Fatalf("keygen failed for %v", alg)
	}
	t.Cleanup(sk.Clear)

	tx := sampleTx()
	scriptCode := []byte{OP_DUP, OP_HASH160}
	checker := NewPQSignatureChecker(tx, 0, 5000, ActivationFlags{Active: true})

	digest, err := checker.SignatureHash(scriptCode, SIGHASH_ALL)
	if err != nil {
		t.Fatalf("sighash: %v", err)
	}
	raw := sk.Sign(digest[:])
	if raw == nil {
		t.Fatalf("sign failed")
	}
	sig := crypto.NewSignature(raw, alg)
	blob := JoinSigBlob(sig, SIGHASH_ALL)
	if blob == nil {
		t.Fatalf("blob encode failed")
	}
	return checker, blob, pub.Serialize(), scriptCode
}

func TestCheckPQSigEndToEnd(t *testing.T) {
	checker, blob, pubBytes, scriptCode := signedInput(t)
	if !checker.CheckPQSig(blob, pubBytes, scriptCode) {
		t.Fatalf("valid signature rejected")
	}
}

func TestCheckPQSigWrongScriptCode(t *testing.T) {
	checker, blob, pubBytes, _ := signedInput(t)
	if checker.CheckPQSig(blob, pubBytes, []byte{OP_EQUAL}) {
		t.Fatalf("signature valid under wrong script code")
	}
}

func TestCheckPQSigMalformedInputs(t *testing.T) {
	checker, blob, pubBytes, scriptCode := signedInput(t)

	if checker.CheckPQSig(nil, pubBytes, scriptCode) {
		t.Fatalf("empty blob accepted")
	}
	if checker.CheckPQSig(blob[:4], pubBytes, scriptCode) {
		t.Fatalf("truncated blob accepted")
	}

	badType := append([]byte(nil), blob...)
	badType[len(badType)-1] = 0x00
	if checker.CheckPQSig(badType, pubBytes, scriptCode) {
		t.Fatalf("invalid hash type accepted")
	}

	flipped := append([]byte(nil), blob...)
	flipped[len(flipped)/2] ^= 0x01
	if checker.CheckPQSig(flipped, pubBytes, scriptCode) {
		t.Fatalf("corrupted signature accepted")
	}

	if checker.CheckPQSig(blob, nil, scriptCode) {
		t.Fatalf("empty pubkey accepted")
	}
	if checker.CheckPQSig(blob, pubBytes[:8], scriptCode) {
		t.Fatalf("truncated pubkey accepted")
	}
}

func TestCheckPQSigInactive(t *testing.T) {
	checker, blob, pubBytes, scriptCode := signedInput(t)
	off := NewPQSignatureChecker(checker.tx, 0, 5000, ActivationFlags{})
	if off.CheckPQSig(blob, pubBytes, scriptCode) {
		t.Fatalf("checksig succeeded with rules disabled")
	}
}

func TestEvalPQCheckSigStack(t *testing.T) {
	checker, blob, pubBytes, scriptCode := signedInput(t)

	var stack [][]byte
	EvalPQCheckSig(checker, blob, pubBytes, scriptCode, &stack)
	if len(stack) != 1 || !bytes.Equal(stack[0], []byte{1}) {
		t.Fatalf("expected true on stack, got %v", stack)
	}

	stack = nil
	EvalPQCheckSig(checker, blob, pubBytes, []byte{OP_EQUAL}, &stack)
	if len(stack) != 1 || len(stack[0]) != 0 {
		t.Fatalf("expected empty (false) on stack, got %v", stack)
	}
}

func TestEvalPQCheckSigVerify(t *testing.T) {
	checker, blob, pubBytes, scriptCode := signedInput(t)

	if err := EvalPQCheckSigVerify(checker, blob, pubBytes, scriptCode); err != nil {
		t.Fatalf("verify: %v", err)
	}
	if err := EvalPQCheckSigVerify(checker, blob, pubBytes, []byte{OP_EQUAL}); err == nil {
		t.Fatalf("expected abort on bad signature")
	}
}

func TestSplitJoinSigBlob(t *testing.T) {
	algs := crypto.SupportedAlgorithms()
	if len(algs) == 0 {
		t.Skipf("no signature algorithms enabled")
	}
	alg := algs[0]
	sig := crypto.NewSignature(bytes.Repeat([]byte{0xab}, 64), alg)
	if !sig.Validate() {
		t.Fatalf("signature container invalid")
	}

	blob := JoinSigBlob(sig, SIGHASH_SINGLE|SIGHASH_ANYONECANPAY)
	if blob == nil {
		t.Fatalf("join failed")
	}
	got, ht, err := SplitSigBlob(blob)
	if err != nil {
		t.Fatalf("split: %v", err)
	}
	if ht != SIGHASH_SINGLE|SIGHASH_ANYONECANPAY {
		t.Fatalf("hash type mismatch: 0x%02x", byte(ht))
	}
	if !got.Equal(sig) {
		t.Fatalf("signature mismatch after split")
	}

	if JoinSigBlob(sig, SigHashType(0x00)) != nil {
		t.Fatalf("join accepted invalid hash type")
	}
	if _, _, err := SplitSigBlob(nil); err == nil {
		t.Fatalf("split accepted nil blob")
	}
	if _, _, err := SplitSigBlob([]byte{0x01, 0x02}); err == nil {
		t.Fatalf("split accepted short blob")
	}
}
