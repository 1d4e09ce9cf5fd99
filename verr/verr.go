// Package verr defines the engine's stable numeric error ABI.
//
// Code values are assigned in declaration order and must never be
// reordered or have a value removed once released — callers outside this
// module may switch on the ordinal. New codes are always appended.
package verr

import (
	"errors"
	"fmt"
)

type Code uint32

const (
	InvalidSignersCount Code = iota
	InvalidThreshold
	DuplicateSigner
	InvalidAmount
	NoDepositsProvided
	NoWithdrawalsProvided
	AssetNotWhitelisted
	TokenAccountNotFound
	InsufficientFunds
	TicketExpired
	InvalidVault
	InvalidRecipient
	InvalidNetwork
	InsufficientSignatures
	InsufficientValidSignatures
	NonceAlreadyUsed
	UnauthorizedUser
	AdminDepositShouldBeSigned
	DuplicateRequestId
	RequiresMigration

	// supplemented: not present in the distilled spec, recovered from
	// original_source/ during the Go-native expansion.
	InvalidTreasuryOwner
	InvalidNonceAccount
	InvalidRecoveryId
	Overflow
	TooManyTickets
	InsufficientAccounts
	UnexpectedTokenAccounts
	DuplicateAsset

	// supplemented by this engine's own config limits, not original_source/.
	WhitelistFull
)

var names = map[Code]string{
	InvalidSignersCount:         "invalid signers count",
	InvalidThreshold:            "invalid threshold value",
	DuplicateSigner:             "duplicate signer in vault",
	InvalidAmount:               "invalid amount",
	NoDepositsProvided:          "no deposits provided",
	NoWithdrawalsProvided:       "no withdrawals provided",
	AssetNotWhitelisted:         "asset not whitelisted",
	TokenAccountNotFound:        "token account not found",
	InsufficientFunds:           "insufficient funds in treasury",
	TicketExpired:               "ticket expired",
	InvalidVault:                "invalid vault",
	InvalidRecipient:            "invalid recipient",
	InvalidNetwork:              "invalid network id",
	InsufficientSignatures:      "insufficient signatures provided",
	InsufficientValidSignatures: "insufficient valid signatures",
	NonceAlreadyUsed:            "nonce already used",
	UnauthorizedUser:            "unauthorized user",
	AdminDepositShouldBeSigned:  "admin deposit ticket must be signed by caller",
	DuplicateRequestId:          "duplicate request id",
	RequiresMigration:           "vault state requires migration",

	InvalidTreasuryOwner:    "invalid treasury owner",
	InvalidNonceAccount:     "invalid nonce account",
	InvalidRecoveryId:       "invalid signature recovery id",
	Overflow:                "arithmetic overflow",
	TooManyTickets:          "too many tickets in batch",
	InsufficientAccounts:    "insufficient accounts provided",
	UnexpectedTokenAccounts: "unexpected token accounts provided",
	DuplicateAsset:          "duplicate asset in request",
	WhitelistFull:           "whitelisted asset count would exceed the configured maximum",
}

// Error is the typed error value every domain rejection is wrapped in.
type Error struct {
	Code Code
	Msg  string
	Err  error
}

func (e *Error) Error() string {
	if e.Msg == "" {
		return fmt.Sprintf("%s (code %d)", names[e.Code], e.Code)
	}
	return fmt.Sprintf("%s (code %d): %s", names[e.Code], e.Code, e.Msg)
}

func (e *Error) Unwrap() error { return e.Err }

// New builds an *Error with an explanatory message.
func New(code Code, msg string) *Error {
	return &Error{Code: code, Msg: msg}
}

// Wrap builds an *Error carrying an underlying cause.
func Wrap(code Code, err error) *Error {
	return &Error{Code: code, Err: err}
}

// Is reports whether err is a *Error with the given code.
func Is(err error, code Code) bool {
	var e *Error
	if !errors.As(err, &e) {
		return false
	}
	return e.Code == code
}
