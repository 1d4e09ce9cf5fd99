// Package address derives deterministic 32-byte account addresses from a
// program id and a list of seed byte-strings, generalizing the Solana PDA
// scheme this engine's data model was distilled from. There is no
// associated elliptic curve here, so unlike a PDA there is no bump search:
// bump is carried for schema fidelity and fixed at 255.
package address

import (
	"encoding/binary"

	"github.com/ethereum/go-ethereum/crypto"
)

// Address is a 32-byte deterministic account identifier.
type Address [32]byte

func (a Address) Bytes() []byte { return a[:] }

func (a Address) String() string {
	const hexdigits = "0123456789abcdef"
	out := make([]byte, 64)
	for i, b := range a {
		out[i*2] = hexdigits[b>>4]
		out[i*2+1] = hexdigits[b&0xF]
	}
	return string(out)
}

// fixedBump is carried for schema fidelity with the account model this
// was distilled from; see DESIGN.md open-question #5.
const fixedBump byte = 255

// Derive computes a deterministic address from a program id and an ordered
// list of seeds, CREATE2-style: keccak256(programID || seed_0 || ... ||
// seed_n || bump).
func Derive(programID [32]byte, seeds ...[]byte) (Address, byte) {
	buf := make([]byte, 0, 32+32*len(seeds)+1)
	buf = append(buf, programID[:]...)
	for _, s := range seeds {
		buf = append(buf, s...)
	}
	buf = append(buf, fixedBump)
	digest := crypto.Keccak256(buf)
	var out Address
	copy(out[:], digest)
	return out, fixedBump
}

// Vault derives a vault's own address from its seed string.
func Vault(programID [32]byte, vaultSeed []byte) Address {
	addr, _ := Derive(programID, []byte("vault"), vaultSeed)
	return addr
}

// Treasury derives the treasury account address owned by a vault.
func Treasury(programID [32]byte, vault Address) Address {
	addr, _ := Derive(programID, []byte("treasury"), vault.Bytes())
	return addr
}

func le64(v uint64) []byte {
	b := make([]byte, 8)
	binary.LittleEndian.PutUint64(b, v)
	return b
}

// UserNonce derives the user-namespace nonce record address for a given
// vault and request id.
func UserNonce(programID [32]byte, vault Address, requestID uint64) Address {
	addr, _ := Derive(programID, []byte("nonce"), vault.Bytes(), le64(requestID))
	return addr
}

// AdminNonce derives the admin-namespace nonce record address for a given
// vault and request id. Kept in a namespace disjoint from UserNonce so
// user-path and admin-path request ids can never collide.
func AdminNonce(programID [32]byte, vault Address, requestID uint64) Address {
	addr, _ := Derive(programID, []byte("admin_nonce"), vault.Bytes(), le64(requestID))
	return addr
}
