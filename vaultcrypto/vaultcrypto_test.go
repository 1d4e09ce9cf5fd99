package vaultcrypto

import (
	"testing"

	"github.com/decred/dcrd/dcrec/secp256k1/v4"
	"github.com/decred/dcrd/dcrec/secp256k1/v4/ecdsa"
	"github.com/stretchr/testify/require"
)

func TestRecoverMatchesSigningKey(t *testing.T) {
	priv, err := secp256k1.GeneratePrivateKey()
	require.NoError(t, err)
	want := FingerprintFromPubKey(priv.PubKey())

	digest := Keccak256([]byte("hello vault"))
	compact := ecdsa.SignCompact(priv, digest[:], false)

	var r, s [32]byte
	copy(r[:], compact[1:33])
	copy(s[:], compact[33:65])
	recID, err := NormalizeRecoveryID(compact[0])
	require.NoError(t, err)

	got, err := Recover(digest, r, s, recID)
	require.NoError(t, err)
	require.Equal(t, want, got)
}

func TestNormalizeRecoveryID(t *testing.T) {
	for _, tc := range []struct {
		in      byte
		want    byte
		wantErr bool
	}{
		{0, 0, false},
		{1, 1, false},
		{27, 0, false},
		{28, 1, false},
		{2, 0, true},
		{99, 0, true},
	} {
		got, err := NormalizeRecoveryID(tc.in)
		if tc.wantErr {
			require.Error(t, err)
			continue
		}
		require.NoError(t, err)
		require.Equal(t, tc.want, got)
	}
}

func TestRecoverCacheReturnsSameFingerprint(t *testing.T) {
	priv, err := secp256k1.GeneratePrivateKey()
	require.NoError(t, err)
	digest := Keccak256([]byte("cache me"))
	compact := ecdsa.SignCompact(priv, digest[:], false)

	var r, s [32]byte
	copy(r[:], compact[1:33])
	copy(s[:], compact[33:65])
	recID, err := NormalizeRecoveryID(compact[0])
	require.NoError(t, err)

	fp1, err := Recover(digest, r, s, recID)
	require.NoError(t, err)
	fp2, err := Recover(digest, r, s, recID)
	require.NoError(t, err)
	require.Equal(t, fp1, fp2)
}
