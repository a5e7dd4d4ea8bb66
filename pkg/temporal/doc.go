// Package temporal guards the fee clock against local-clock manipulation.
//
// Time is fetched from an ordered chain of external sources (NTP first, HTTP
// Date headers second), each with its own timeout under an overall deadline.
// When the external and local clocks disagree by more than the configured
// threshold, a tamper event is recorded and the guard arms the eternity
// override consumed by the fee clock.
//
// When every source fails, the guard degrades rather than trusting the local
// wall clock: with a prior verification it estimates current time from the
// last verified time plus a monotonic elapsed reading; without one it returns
// local time explicitly marked unverified.
package temporal
