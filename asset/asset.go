// Package asset defines the vault's two asset kinds (native balance, or a
// whitelisted token identified by a 32-byte mint) and the amount pairing
// used throughout deposit/withdrawal tickets.
package asset

import "encoding/binary"

// Kind distinguishes the native asset from a token asset.
type Kind uint8

const (
	Native Kind = 0
	Token  Kind = 1
)

// Key identifies an asset: either Native, or a Token with a specific mint.
type Key struct {
	Kind Kind
	Mint [32]byte // zero for Native
}

func NewNative() Key { return Key{Kind: Native} }

func NewToken(mint [32]byte) Key { return Key{Kind: Token, Mint: mint} }

func (k Key) Equal(o Key) bool {
	return k.Kind == o.Kind && k.Mint == o.Mint
}

// AppendTo appends k's canonical byte encoding to data, matching the
// ticket digest layout: a 1-byte kind tag, followed by the 32-byte mint
// for Token (nothing for Native).
func (k Key) AppendTo(data []byte) []byte {
	data = append(data, byte(k.Kind))
	if k.Kind == Token {
		data = append(data, k.Mint[:]...)
	}
	return data
}

// Amount pairs an asset key with an amount, the unit of every
// deposit/withdrawal list in a ticket.
type Amount struct {
	Asset  Key
	Amount uint64
}

// AppendTo appends the canonical ticket-digest encoding of an Amount: the
// asset key, a 0x40 framing byte, then the amount as 8 little-endian bytes.
func (a Amount) AppendTo(data []byte) []byte {
	data = a.Asset.AppendTo(data)
	data = append(data, 0x40)
	var buf [8]byte
	binary.LittleEndian.PutUint64(buf[:], a.Amount)
	return append(data, buf[:]...)
}

// DuplicateKey returns the first asset key that appears more than once
// among amounts, and true, or a zero Key and false if all are distinct.
// Used to reject a ticket that lists the same asset twice in one batch.
func DuplicateKey(amounts []Amount) (Key, bool) {
	for i := range amounts {
		for j := i + 1; j < len(amounts); j++ {
			if amounts[i].Asset.Equal(amounts[j].Asset) {
				return amounts[i].Asset, true
			}
		}
	}
	return Key{}, false
}
