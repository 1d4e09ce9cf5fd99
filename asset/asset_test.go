package asset

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestKeyEqual(t *testing.T) {
	mint := [32]byte{1, 2, 3}
	assert.True(t, NewToken(mint).Equal(NewToken(mint)))
	assert.False(t, NewToken(mint).Equal(NewNative()))
	other := [32]byte{4, 5, 6}
	assert.False(t, NewToken(mint).Equal(NewToken(other)))
}

func TestDuplicateKeyDetection(t *testing.T) {
	mint := [32]byte{9}
	amounts := []Amount{
		{Asset: NewNative(), Amount: 1},
		{Asset: NewToken(mint), Amount: 2},
	}
	_, dup := DuplicateKey(amounts)
	assert.False(t, dup)

	amounts = append(amounts, Amount{Asset: NewNative(), Amount: 3})
	key, dup := DuplicateKey(amounts)
	assert.True(t, dup)
	assert.Equal(t, NewNative(), key)
}

func TestAmountAppendToFraming(t *testing.T) {
	a := Amount{Asset: NewNative(), Amount: 500}
	data := a.AppendTo(nil)
	assert.Equal(t, byte(Native), data[0])
	assert.Equal(t, byte(0x40), data[1])
	assert.Len(t, data, 1+1+8)
}
