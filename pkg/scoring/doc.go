// Package scoring computes the alignment score of a request against the
// policy vector.
//
// The per-dimension similarity function is a pluggable strategy so that the
// default keyword matcher can be swapped for an embedding-based scorer
// without touching the pipeline. Scoring never fails: text with no signal
// simply scores zero.
package scoring
