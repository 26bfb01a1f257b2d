// ebc-keytool is a JSON-over-stdio harness for the post-quantum identity
// core: key generation, addresses, digests and signatures. One request in,
// one response out.
package main

import (
	"encoding/hex"
	"encoding/json"
	"fmt"
	"io"
	"os"

	"go.uber.org/zap"

	"ebc.dev/node/address"
	"ebc.dev/node/consensus"
	"ebc.dev/node/crypto"
)

type Request struct {
	Op         string `json:"op"`
	Algorithm  string `json:"algorithm,omitempty"`
	Network    string `json:"network,omitempty"`
	Address    string `json:"address,omitempty"`
	PubKeyHex  string `json:"pubkey,omitempty"`
	PrivKeyHex string `json:"privkey,omitempty"`
	SigHex     string `json:"signature,omitempty"`
	DigestHex  string `json:"digest,omitempty"`
	TxHex      string `json:"tx_hex,omitempty"`
	InputIndex uint32 `json:"input_index,omitempty"`
	Amount     uint64 `json:"amount,omitempty"`
	ScriptHex  string `json:"script_code,omitempty"`
	HashType   byte   `json:"hash_type,omitempty"`
	Active     bool   `json:"active,omitempty"`
	Grace      bool   `json:"grace_period,omitempty"`
}

type Response struct {
	Ok         bool   `json:"ok"`
	Err        string `json:"err,omitempty"`
	Algorithm  string `json:"algorithm,omitempty"`
	Address    string `json:"address,omitempty"`
	Version    byte   `json:"version,omitempty"`
	PayloadHex string `json:"payload,omitempty"`
	PubKeyHex  string `json:"pubkey,omitempty"`
	PrivKeyHex string `json:"privkey,omitempty"`
	SigHex     string `json:"signature,omitempty"`
	DigestHex  string `json:"digest,omitempty"`
	Valid      bool   `json:"valid"`
}

func writeResp(w io.Writer, resp Response) {
	enc := json.NewEncoder(w)
	enc.SetEscapeHTML(false)
	_ = enc.Encode(resp)
}

func fail(w io.Writer, format string, args ...any) {
	writeResp(w, Response{Ok: false, Err: fmt.Sprintf(format, args...)})
}

func parseNetwork(s string) (address.Network, bool) {
	switch s {
	case "", "mainnet":
		return address.Mainnet, true
	case "testnet":
		return address.Testnet, true
	case "regtest":
		return address.Regtest, true
	}
	return address.Mainnet, false
}

func main() {
	logger, err := zap.NewProduction()
	if err == nil {
		defer func() { _ = logger.Sync() }()
		crypto.SetLogger(logger)
	}

	var req Request
	if err := json.NewDecoder(os.Stdin).Decode(&req); err != nil {
		fail(os.Stdout, "bad request: %v", err)
		return
	}
	run(os.Stdout, req)
}

func run(w io.Writer, req Request) {
	net, ok := parseNetwork(req.Network)
	if !ok {
		fail(w, "unknown network %q", req.Network)
		return
	}

	switch req.Op {
	case "generate":
		alg := crypto.ParseAlgorithm(req.Algorithm)
		if !crypto.IsSupported(alg) {
			fail(w, "unsupported algorithm %q", req.Algorithm)
			return
		}
		sk, pub := crypto.GenerateKeyPair(alg)
		if !sk.Validate() {
			fail(w, "keygen failed")
			return
		}
		defer sk.Clear()
		writeResp(w, Response{
			Ok:         true,
			Valid:      true,
			Algorithm:  alg.String(),
			PrivKeyHex: hex.EncodeToString(sk.Bytes()),
			PubKeyHex:  hex.EncodeToString(pub.Serialize()),
			Address:    address.FromPubKey(pub).Encode(net),
		})

	case "address":
		pubBytes, err := hex.DecodeString(req.PubKeyHex)
		if err != nil {
			fail(w, "bad pubkey hex")
			return
		}
		pub := crypto.DeserializePubKey(pubBytes)
		if !pub.Validate() {
			fail(w, "invalid pubkey")
			return
		}
		a := address.FromPubKey(pub)
		writeResp(w, Response{
			Ok:        true,
			Valid:     true,
			Algorithm: pub.Algorithm().String(),
			Address:   a.Encode(net),
		})

	case "decode-address":
		a, err := address.Decode(req.Address, net)
		if err != nil {
			fail(w, "decode: %v", err)
			return
		}
		writeResp(w, Response{
			Ok:         true,
			Valid:      true,
			Algorithm:  a.Algorithm().String(),
			Version:    byte(a.Version()),
			PayloadHex: hex.EncodeToString(a.Payload()),
		})

	case "sighash":
		digest, ok := computeSighash(w, req)
		if !ok {
			return
		}
		writeResp(w, Response{Ok: true, Valid: true, DigestHex: hex.EncodeToString(digest[:])})

	case "sign":
		alg := crypto.ParseAlgorithm(req.Algorithm)
		skBytes, err := hex.DecodeString(req.PrivKeyHex)
		if err != nil {
			fail(w, "bad privkey hex")
			return
		}
		sk := crypto.NewPrivKey(skBytes, alg)
		defer sk.Clear()
		if !sk.Validate() {
			fail(w, "invalid privkey")
			return
		}
		digest, err := hex.DecodeString(req.DigestHex)
		if err != nil || len(digest) != 32 {
			fail(w, "bad digest")
			return
		}
		raw := sk.Sign(digest)
		if raw == nil {
			fail(w, "signing failed")
			return
		}
		sig := crypto.NewSignature(raw, alg)
		blob := consensus.JoinSigBlob(sig, consensus.SigHashType(req.HashType))
		if blob == nil {
			fail(w, "bad hash type 0x%02x", req.HashType)
			return
		}
		writeResp(w, Response{Ok: true, Valid: true, SigHex: hex.EncodeToString(blob)})

	case "verify":
		sigBytes, err := hex.DecodeString(req.SigHex)
		if err != nil {
			fail(w, "bad signature hex")
			return
		}
		pubBytes, err := hex.DecodeString(req.PubKeyHex)
		if err != nil {
			fail(w, "bad pubkey hex")
			return
		}
		digest, err := hex.DecodeString(req.DigestHex)
		if err != nil || len(digest) != 32 {
			fail(w, "bad digest")
			return
		}
		sig := crypto.DeserializeSignature(sigBytes)
		pub := crypto.DeserializePubKey(pubBytes)
		writeResp(w, Response{Ok: true, Valid: sig.Verify(digest, pub)})

	default:
		fail(w, "unknown op %q", req.Op)
	}
}

func computeSighash(w io.Writer, req Request) ([32]byte, bool) {
	txBytes, err := hex.DecodeString(req.TxHex)
	if err != nil {
		fail(w, "bad tx hex")
		return [32]byte{}, false
	}
	tx, err := consensus.ParseTxBytes(txBytes)
	if err != nil {
		if te, ok := err.(*consensus.TxError); ok {
			fail(w, "%s", te.Code)
			return [32]byte{}, false
		}
		fail(w, "%v", err)
		return [32]byte{}, false
	}
	scriptCode, err := hex.DecodeString(req.ScriptHex)
	if err != nil {
		fail(w, "bad script hex")
		return [32]byte{}, false
	}
	flags := consensus.ActivationFlags{Active: req.Active, GracePeriod: req.Grace}
	digest, err := consensus.SignatureHash(tx, req.InputIndex, req.Amount,
		scriptCode, consensus.SigHashType(req.HashType), flags)
	if err != nil {
		if te, ok := err.(*consensus.TxError); ok {
			fail(w, "%s", te.Code)
			return [32]byte{}, false
		}
		fail(w, "%v", err)
		return [32]byte{}, false
	}
	return digest, true
}
