package store

import "fmt"

// KeyVersion prefixes every key this engine writes, so a future layout
// change can coexist with old data during migration.
const KeyVersion = "v1"

func withVer(s string) string {
	return KeyVersion + "_" + s
}

// KeyVault is the storage key for a vault's serialized state.
func KeyVault(vaultAddrHex string) []byte {
	return []byte(withVer(fmt.Sprintf("vault_%s", vaultAddrHex)))
}

// KeyTreasury is the storage key for a (vault, asset) balance entry.
func KeyTreasury(vaultAddrHex, assetKeyHex string) []byte {
	return []byte(withVer(fmt.Sprintf("treasury_%s_%s", vaultAddrHex, assetKeyHex)))
}

// KeyNonce is the storage key for a namespaced nonce record.
func KeyNonce(namespace, vaultAddrHex string, requestID uint64) []byte {
	return []byte(withVer(fmt.Sprintf("%s_%s_%d", namespace, vaultAddrHex, requestID)))
}
