// Package policy implements the weighted policy vector that every inbound
// request is evaluated against.
//
// The vector holds a fixed, closed set of named dimensions, each carrying a
// weight in [0, 1] and an immutable baseline. Weights only move through
// bounded operations: Boost raises a single dimension (capped at 1.0) and
// Decay uniformly erodes accumulated boosts back toward the baseline. Every
// mutation is appended to an in-memory change log so that weight drift is
// fully reconstructable after the fact.
//
// The vector also carries the frozen flag used by the admission controller:
// while frozen, all boosts are rejected and the pipeline defers incoming
// requests instead of scoring them.
package policy
