// Package vaultcrypto implements Ethereum-style secp256k1 signature
// recovery: given a 32-byte digest and a 65-byte (r, s, v) signature,
// recover the 20-byte fingerprint (address) of the signing key, the same
// scheme original_source's recover_eth_address uses for signature
// verification.
package vaultcrypto

import (
	"golang.org/x/crypto/sha3"

	lru "github.com/hashicorp/golang-lru"

	"github.com/decred/dcrd/dcrec/secp256k1/v4"
	"github.com/decred/dcrd/dcrec/secp256k1/v4/ecdsa"

	"github.com/strikevault/core/verr"
)

// Fingerprint is the last 20 bytes of keccak256(uncompressed pubkey[1:]).
type Fingerprint [20]byte

func (f Fingerprint) Bytes() []byte { return f[:] }

// Keccak256 hashes data with the legacy (pre-NIST) Keccak padding, matching
// Ethereum's address-derivation hash.
func Keccak256(data ...[]byte) [32]byte {
	h := sha3.NewLegacyKeccak256()
	for _, d := range data {
		h.Write(d)
	}
	var out [32]byte
	copy(out[:], h.Sum(nil))
	return out
}

// FingerprintFromPubKey derives the fingerprint of an uncompressed
// secp256k1 public key (65 bytes, leading 0x04 included).
func FingerprintFromPubKey(pub *secp256k1.PublicKey) Fingerprint {
	uncompressed := pub.SerializeUncompressed()
	digest := Keccak256(uncompressed[1:])
	var fp Fingerprint
	copy(fp[:], digest[12:])
	return fp
}

const recoverCacheSize = 4096

var recoverCache *lru.Cache

func init() {
	c, err := lru.New(recoverCacheSize)
	if err != nil {
		panic(err) // only fails for a non-positive size, which recoverCacheSize never is
	}
	recoverCache = c
}

type recoverKey [65 + 32]byte

// Recover recovers the fingerprint of the key that produced signature
// (r, s) with recovery id recID over digest. recID must already be
// normalized to {0, 1} (callers that receive Ethereum-style 27/28 values
// must subtract 27 first).
func Recover(digest [32]byte, r, s [32]byte, recID byte) (Fingerprint, error) {
	if recID > 3 {
		return Fingerprint{}, verr.New(verr.InvalidRecoveryId, "recovery id out of range")
	}

	var key recoverKey
	copy(key[0:32], r[:])
	copy(key[32:64], s[:])
	key[64] = recID
	copy(key[65:97], digest[:])

	if cached, ok := recoverCache.Get(key); ok {
		return cached.(Fingerprint), nil
	}

	compact := make([]byte, 65)
	compact[0] = recID + 27
	copy(compact[1:33], r[:])
	copy(compact[33:65], s[:])

	pub, _, err := ecdsa.RecoverCompact(compact, digest[:])
	if err != nil {
		return Fingerprint{}, verr.Wrap(verr.InvalidRecoveryId, err)
	}

	fp := FingerprintFromPubKey(pub)
	recoverCache.Add(key, fp)
	return fp, nil
}

// NormalizeRecoveryID maps an Ethereum-style 27/28 v value down to {0, 1},
// leaving an already-normalized {0, 1} value unchanged.
func NormalizeRecoveryID(v byte) (byte, error) {
	switch v {
	case 0, 1:
		return v, nil
	case 27, 28:
		return v - 27, nil
	default:
		return 0, verr.New(verr.InvalidRecoveryId, "recovery id must be 0, 1, 27 or 28")
	}
}
