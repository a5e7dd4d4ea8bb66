// Package fees converts alignment gaps into tiered fee mandates and tracks
// the time-escalated access fee.
//
// The classifier maps (score, threshold, stability) to a FeeGapResult with an
// ordinal severity tier of 1, 2, 5 or 10. The clock escalates the base fee
// exponentially once the grace deadline has passed, using verified time from
// a temporal guard so that local clock rollback cannot shrink the fee.
package fees
