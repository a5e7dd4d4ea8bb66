// Package security provides authority signature verification for privileged
// Arbiter operations.
//
// Critical operations require a primary-authority signature; important
// operations accept a delegated-authority signature. Signatures are
// hex-encoded HMAC-SHA256 of the operation name under the authority key:
//
//	sig := security.Sign(primaryKey, "AUDIT_CERTIFICATION")
//
// Keys are loaded from files named in the security configuration section.
// An authority with no configured key rejects every signature.
package security
