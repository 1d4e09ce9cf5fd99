// Package sigcheck validates a ticket's accompanying signature list against
// a vault's signer set, grounded on original_source's validate_sigs: recover
// each signature's fingerprint independently, keep only those matching a
// real signer, dedup, and compare the count against the vault's threshold.
package sigcheck

import (
	"github.com/strikevault/core/ticket"
	"github.com/strikevault/core/vaultcrypto"
	"github.com/strikevault/core/verr"
)

// Signature is one (r, s, recoveryID) triple supplied alongside a ticket.
type Signature struct {
	R, S       [32]byte
	RecoveryID byte // 0, 1, 27 or 28
}

// Validate recovers the fingerprint behind every signature, keeps the
// subset that both recovers successfully and belongs to signers, dedups by
// fingerprint, and requires at least mThreshold distinct valid signers.
// Malformed or foreign signatures are silently dropped rather than
// rejecting outright — a caller attaching one bad signature alongside
// enough good ones should still succeed. Attaching fewer signatures than
// mThreshold in the first place is InsufficientSignatures; attaching
// enough but having too few actually verify is the distinct
// InsufficientValidSignatures.
func Validate(t ticket.Ticket, sigs []Signature, signers []vaultcrypto.Fingerprint, mThreshold int) (map[vaultcrypto.Fingerprint]struct{}, error) {
	if len(sigs) < mThreshold {
		return nil, verr.New(verr.InsufficientSignatures, "fewer signatures attached than the threshold requires")
	}

	allowed := make(map[vaultcrypto.Fingerprint]struct{}, len(signers))
	for _, s := range signers {
		allowed[s] = struct{}{}
	}

	digest := t.Digest()
	valid := make(map[vaultcrypto.Fingerprint]struct{})
	for _, sig := range sigs {
		recID, err := vaultcrypto.NormalizeRecoveryID(sig.RecoveryID)
		if err != nil {
			continue
		}
		fp, err := vaultcrypto.Recover(digest, sig.R, sig.S, recID)
		if err != nil {
			continue
		}
		if _, ok := allowed[fp]; ok {
			valid[fp] = struct{}{}
		}
	}

	if len(valid) < mThreshold {
		return valid, verr.New(verr.InsufficientValidSignatures, "fewer valid signatures than threshold")
	}
	return valid, nil
}

// ValidateUnanimous requires every vault signer to have produced a valid
// signature — the stricter rule original_source's admin.rs applies to
// admin_withdraw — by calling Validate with m = len(signers). Any shortfall,
// including attaching fewer signatures than there are signers, surfaces as
// InsufficientValidSignatures; admin_withdraw has no separate error code for
// "not unanimous".
func ValidateUnanimous(t ticket.Ticket, sigs []Signature, signers []vaultcrypto.Fingerprint) (map[vaultcrypto.Fingerprint]struct{}, error) {
	valid, err := Validate(t, sigs, signers, len(signers))
	if verr.Is(err, verr.InsufficientSignatures) {
		return nil, verr.New(verr.InsufficientValidSignatures, "not every signer produced a valid signature")
	}
	return valid, err
}
