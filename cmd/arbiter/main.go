// Arbiter is an admission-control and forensic-accounting runtime.
//
// It scores inbound requests against a weighted policy vector, admits or
// defers them under load, classifies divergence into tiered fees, records
// chargeable events in a hash-chained royalty ledger, and guards the fee
// escalation clock against local clock tampering.
//
// Usage:
//
//	# Start the runtime with default configuration
//	arbiter run
//
//	# Start with custom configuration file
//	arbiter run --config /path/to/arbiter.yaml
//
//	# Validate a single request from the command line
//	arbiter validate --text "summarize this document" --context user_query
//
//	# Verify the ledger hash chain
//	arbiter ledger verify
//
//	# Export ledger entries as JSON
//	arbiter ledger export --format json
//
//	# Show version information
//	arbiter version
package main

func main() {
	Execute()
}
