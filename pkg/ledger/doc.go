// Package ledger implements the tamper-evident forensic ledger and its
// underreporting detection.
//
// Every chargeable event is appended as an Entry whose hash covers the
// previous entry's hash plus a canonical serialization of the record, rooted
// at a fixed genesis sentinel. Altering any stored record invalidates its own
// hash and every later one, which VerifyChain detects by recomputation.
//
// The compliance Monitor compares submitted usage reports against the actual
// entry count per period and emits a BreachEvent when the discrepancy exceeds
// tolerance.
package ledger
