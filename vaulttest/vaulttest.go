// Package vaulttest provides shared fixtures for package tests: keypair
// generation and ticket signing.
package vaulttest

import (
	"crypto/rand"

	"github.com/btcsuite/btcd/btcec/v2"
	"github.com/decred/dcrd/dcrec/secp256k1/v4"
	"github.com/decred/dcrd/dcrec/secp256k1/v4/ecdsa"

	"github.com/strikevault/core/sigcheck"
	"github.com/strikevault/core/ticket"
	"github.com/strikevault/core/vaultcrypto"
)

// Key is a test signer: a private key plus its derived fingerprint.
type Key struct {
	Priv        *secp256k1.PrivateKey
	Fingerprint vaultcrypto.Fingerprint
}

// NewKey generates a fresh secp256k1 keypair via btcec and converts it to
// a decred key for signing.
func NewKey() Key {
	btcPriv, err := btcec.NewPrivateKey()
	if err != nil {
		panic(err)
	}
	priv := secp256k1.PrivKeyFromBytes(btcPriv.Serialize())
	fp := vaultcrypto.FingerprintFromPubKey(priv.PubKey())
	return Key{Priv: priv, Fingerprint: fp}
}

// Sign produces a Signature over t's digest with k's private key,
// recovery-id normalized to {0, 1}.
func Sign(k Key, t ticket.Ticket) sigcheck.Signature {
	digest := t.Digest()
	sig := ecdsa.SignCompact(k.Priv, digest[:], false)
	// ecdsa.SignCompact returns [recID+27, R(32), S(32)].
	var out sigcheck.Signature
	out.RecoveryID = sig[0] - 27
	copy(out.R[:], sig[1:33])
	copy(out.S[:], sig[33:65])
	return out
}

// Garbage returns a structurally valid but cryptographically meaningless
// signature, for exercising the "foreign signature silently dropped"
// path.
func Garbage() sigcheck.Signature {
	var out sigcheck.Signature
	_, _ = rand.Read(out.R[:])
	_, _ = rand.Read(out.S[:])
	out.RecoveryID = 0
	return out
}
