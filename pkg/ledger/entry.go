package ledger

import (
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"time"
)

// GenesisHash is the chain root for the first entry's previous-hash input.
const GenesisHash = "GENESIS"

// Entry is one chargeable event in the ledger.
type Entry struct {
	Sequence      uint64    `json:"sequence"`
	TransactionID string    `json:"transaction_id"`
	Value         float64   `json:"value"`
	Fee           float64   `json:"fee"`
	Timestamp     time.Time `json:"timestamp"`
	Hash          string    `json:"hash"`
}

// canonicalRecord is the hash input for an entry. Fields are declared in
// sorted key order so the serialization is stable; Hash is excluded.
type canonicalRecord struct {
	Fee           float64 `json:"fee"`
	Sequence      uint64  `json:"sequence"`
	Timestamp     string  `json:"timestamp"`
	TransactionID string  `json:"transaction_id"`
	Value         float64 `json:"value"`
}

// ComputeHash returns the chain hash for the entry given the previous hash:
// SHA-256 over prevHash concatenated with the canonical serialization.
func ComputeHash(prevHash string, e *Entry) string {
	payload, _ := json.Marshal(canonicalRecord{
		Fee:           e.Fee,
		Sequence:      e.Sequence,
		Timestamp:     e.Timestamp.UTC().Format(time.RFC3339Nano),
		TransactionID: e.TransactionID,
		Value:         e.Value,
	})
	sum := sha256.Sum256(append([]byte(prevHash), payload...))
	return hex.EncodeToString(sum[:])
}
