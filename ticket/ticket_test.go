package ticket

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/strikevault/core/address"
	"github.com/strikevault/core/asset"
	"github.com/strikevault/core/vaultcrypto"
)

func fingerprints(fps ...[20]byte) []vaultcrypto.Fingerprint {
	out := make([]vaultcrypto.Fingerprint, len(fps))
	for i, fp := range fps {
		out[i] = vaultcrypto.Fingerprint(fp)
	}
	return out
}

func testVault() address.Address {
	var a address.Address
	copy(a[:], []byte("0123456789abcdef0123456789abcdef"))
	return a
}

func testRecipient() address.Address {
	var a address.Address
	copy(a[:], []byte("recipientrecipientrecipientrecip"))
	return a
}

func TestWithdrawalDigestIsDeterministic(t *testing.T) {
	w := &Withdrawal{
		RequestID:   1000,
		Vault:       testVault(),
		Recipient:   testRecipient(),
		Withdrawals: []asset.Amount{{Asset: asset.NewNative(), Amount: 500}},
		Expiry:      1893456000,
		NetworkID:   102,
	}
	d1 := w.Digest()
	d2 := w.Digest()
	require.Equal(t, d1, d2)
}

func TestWithdrawalDigestChangesWithRequestID(t *testing.T) {
	base := &Withdrawal{
		RequestID:   1000,
		Vault:       testVault(),
		Recipient:   testRecipient(),
		Withdrawals: []asset.Amount{{Asset: asset.NewNative(), Amount: 500}},
		Expiry:      1893456000,
		NetworkID:   102,
	}
	other := *base
	other.RequestID = 1001
	assert.NotEqual(t, base.Digest(), other.Digest())
}

func TestDomainSeparatorsPreventCrossVariantCollision(t *testing.T) {
	w := &Withdrawal{
		RequestID:   1,
		Vault:       testVault(),
		Recipient:   testRecipient(),
		Withdrawals: []asset.Amount{{Asset: asset.NewNative(), Amount: 1}},
		Expiry:      100,
		NetworkID:   101,
	}
	bulk := &BulkWithdrawal{
		Tickets:   []Withdrawal{*w},
		Expiry:    100,
		NetworkID: 101,
	}
	assert.NotEqual(t, w.Digest(), bulk.Digest())
}

func TestAddAssetAndRemoveAssetDigestsDiffer(t *testing.T) {
	mint := [32]byte{1, 2, 3}
	add := &AddAsset{RequestID: 1, Vault: testVault(), Asset: asset.NewToken(mint), Expiry: 1, NetworkID: 101}
	remove := &RemoveAsset{RequestID: 1, Vault: testVault(), Asset: asset.NewToken(mint), Expiry: 1, NetworkID: 101}
	assert.NotEqual(t, add.Digest(), remove.Digest())
}

func TestRotateValidatorsDigestOrderMatters(t *testing.T) {
	fpA := [20]byte{0xAA}
	fpB := [20]byte{0xBB}
	r1 := &RotateValidators{
		RequestID: 1, Vault: testVault(),
		Signers:    fingerprints(fpA, fpB),
		MThreshold: 1, Expiry: 1, NetworkID: 101,
	}
	r2 := &RotateValidators{
		RequestID: 1, Vault: testVault(),
		Signers:    fingerprints(fpB, fpA),
		MThreshold: 1, Expiry: 1, NetworkID: 101,
	}
	assert.NotEqual(t, r1.Digest(), r2.Digest())
}
