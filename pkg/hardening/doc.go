// Package hardening applies targeted policy boosts in response to detected
// attack patterns.
//
// Requests that fall below the admission threshold are classified into a
// small fixed set of attack types. Each type maps to the policy dimensions it
// stresses, and the feedback loop boosts exactly those dimensions, bounded by
// a cooldown window so a burst of attacks cannot ratchet the vector. Boosts
// erode over time via DecayAll, which runs off the request path on a cron
// schedule.
package hardening
