package mmr

import "sync"

// StorageKeyRequest identifies a storage item whose key the host derives
// for fraud proof verification.
type StorageKeyRequest struct {
	// Pallet and item name the key is derived from.
	Pallet string
	Item   string
	// Suffix appended to the derived prefix, SCALE-encoded by the caller.
	Suffix []byte
}

// StorageKeyProvider derives storage keys on behalf of runtime code.
type StorageKeyProvider interface {
	StorageKey(req StorageKeyRequest) []byte
}

var (
	keyMu       sync.RWMutex
	keyProvider StorageKeyProvider
)

// RegisterStorageKeyProvider installs the host-side key derivation hook.
func RegisterStorageKeyProvider(p StorageKeyProvider) {
	keyMu.Lock()
	defer keyMu.Unlock()
	keyProvider = p
}

// GetStorageKey derives the storage key for the given request. Panics if no
// provider is registered.
func GetStorageKey(req StorageKeyRequest) []byte {
	keyMu.RLock()
	defer keyMu.RUnlock()
	if keyProvider == nil {
		panic("no storage key provider registered")
	}
	return keyProvider.StorageKey(req)
}
