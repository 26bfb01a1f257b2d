package address

import (
	"bytes"
	"strings"
	"testing"

	"ebc.dev/node/consensus"
	"ebc.dev/node/crypto"
)

func testPayload20() []byte {
	return bytes.Repeat([]byte{0x42}, 20)
}

func testPayload32() []byte {
	return bytes.Repeat([]byte{0x24}, 32)
}

func TestEncodeDecodeRoundTrip(t *testing.T) {
	cases := []struct {
		version Version
		payload []byte
	}{
		{PubKeyHash, testPayload20()},
		{ScriptHash, testPayload32()},
		{WitnessV0, testPayload20()},
		{WitnessV0, testPayload32()},
		{WitnessV1, testPayload32()},
	}
	for _, c := range cases {
		a := New(c.version, crypto.ALG_ML_DSA_87, c.payload)
		if !a.Validate() {
			t.Fatalf("version %d payload %d: invalid", c.version, len(c.payload))
		}
		s := a.Encode(Mainnet)
		if s == "" {
			t.Fatalf("version %d: encode failed", c.version)
		}
		if !strings.HasPrefix(s, "ebc1") {
			t.Fatalf("unexpected prefix: %s", s)
		}
		got, err := Decode(s, Mainnet)
		if err != nil {
			t.Fatalf("decode %s: %v", s, err)
		}
		if !got.Equal(a) {
			t.Fatalf("round trip mismatch for version %d", c.version)
		}
	}
}

func TestNetworkPrefixes(t *testing.T) {
	a := New(PubKeyHash, crypto.ALG_ML_DSA_87, testPayload20())

	main := a.Encode(Mainnet)
	test := a.Encode(Testnet)
	reg := a.Encode(Regtest)
	if !strings.HasPrefix(test, "tebc1") || !strings.HasPrefix(reg, "rebc1") {
		t.Fatalf("network prefixes wrong: %s %s", test, reg)
	}

	// An address from one network must not decode on another.
	if _, err := Decode(main, Testnet); err == nil {
		t.Fatalf("mainnet address accepted on testnet")
	}
	if _, err := Decode(test, Mainnet); err == nil {
		t.Fatalf("testnet address accepted on mainnet")
	}
}

func TestDecodeRejects(t *testing.T) {
	a := New(ScriptHash, crypto.ALG_ML_DSA_87, testPayload32())
	s := a.Encode(Mainnet)

	bad := []string{
		"",
		"ebc1",
		"not an address",
		s + "x",
		strings.ToUpper(s[:10]) + s[10:], // mixed case
	}
	for _, b := range bad {
		if _, err := Decode(b, Mainnet); err == nil {
			t.Fatalf("accepted %q", b)
		}
	}
}

func TestNewRejectsBadShapes(t *testing.T) {
	if New(PubKeyHash, crypto.ALG_ML_DSA_87, testPayload32()).Validate() {
		t.Fatalf("32-byte pubkey hash accepted")
	}
	if New(ScriptHash, crypto.ALG_ML_DSA_87, testPayload20()).Validate() {
		t.Fatalf("20-byte script hash accepted")
	}
	if New(WitnessV1, crypto.ALG_ML_DSA_87, testPayload20()).Validate() {
		t.Fatalf("20-byte witness v1 accepted")
	}
	if New(Version(9), crypto.ALG_ML_DSA_87, testPayload20()).Validate() {
		t.Fatalf("unknown version accepted")
	}
	if New(PubKeyHash, crypto.ALG_UNKNOWN, testPayload20()).Validate() {
		t.Fatalf("unknown algorithm accepted")
	}
}

func TestScriptForms(t *testing.T) {
	pkh := New(PubKeyHash, crypto.ALG_ML_DSA_87, testPayload20())
	s, err := pkh.Script()
	if err != nil {
		t.Fatalf("pkh script: %v", err)
	}
	if !s.IsPayToPQPubKeyHash() {
		t.Fatalf("pkh script form wrong: %x", s)
	}

	sh := FromScriptHash([32]byte{0x01}, crypto.ALG_ML_DSA_87)
	s, err = sh.Script()
	if err != nil {
		t.Fatalf("sh script: %v", err)
	}
	if !s.IsPayToPQScriptHash() {
		t.Fatalf("sh script form wrong: %x", s)
	}

	wit := New(WitnessV1, crypto.ALG_ML_DSA_87, testPayload32())
	if _, err := wit.Script(); err != ErrUnsupportedVersion {
		t.Fatalf("expected ErrUnsupportedVersion, got %v", err)
	}
}

func TestFromPubKey(t *testing.T) {
	algs := crypto.SupportedAlgorithms()
	if len(algs) == 0 {
		t.Skipf("no signature algorithms enabled")
	}
	sk, pub := crypto.GenerateKeyPair(algs[0])
	if sk == nil {
		t.Fatalf("keygen failed")
	}
	defer sk.Clear()

	a := FromPubKey(pub)
	if !a.Validate() || !a.IsP2PQPKH() {
		t.Fatalf("pubkey address invalid")
	}
	if s := a.Encode(Mainnet); !strings.HasPrefix(s, "ebc1") {
		t.Fatalf("mainnet address prefix wrong: %s", s)
	}
	if a.Algorithm() != pub.Algorithm() {
		t.Fatalf("algorithm not carried into address")
	}
	if !bytes.Equal(a.Payload(), HashPubKey(pub)) {
		t.Fatalf("payload is not the pubkey hash")
	}

	// The address binds the locking script to the same hash.
	s, err := a.Script()
	if err != nil {
		t.Fatalf("script: %v", err)
	}
	if !bytes.Equal([]byte(s[3:23]), a.Payload()) {
		t.Fatalf("script embeds a different hash")
	}

	if FromPubKey(crypto.PubKey{}).Validate() {
		t.Fatalf("invalid pubkey produced an address")
	}
}

func TestHashScriptMatchesAddress(t *testing.T) {
	inner := consensus.Script{}.AddOp(consensus.OP_DUP)
	hash := HashScript(inner)
	a := FromScriptHash(hash, crypto.ALG_SLH_DSA_256F)
	if !a.IsP2PQSH() {
		t.Fatalf("expected script-hash address")
	}
	if !bytes.Equal(a.Payload(), hash[:]) {
		t.Fatalf("payload mismatch")
	}
}

func TestIsValidAddressString(t *testing.T) {
	a := New(PubKeyHash, crypto.ALG_ML_DSA_87, testPayload20())
	s := a.Encode(Mainnet)
	if !IsValidAddressString(s, Mainnet) {
		t.Fatalf("valid address rejected")
	}
	if IsValidAddressString(s, Regtest) {
		t.Fatalf("wrong network accepted")
	}
	if IsValidAddressString("ebc11qqqq", Mainnet) {
		t.Fatalf("garbage accepted")
	}
}
