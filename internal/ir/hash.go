package ir

import (
	"crypto/sha256"
	"encoding/hex"
	"fmt"
)

// DomainUnit prefixes unit fingerprints. The version suffix allows the
// canonical form to change without colliding with older fingerprints.
const DomainUnit = "specialize/unit/v1"

// hashWithDomain computes SHA256(domain + 0x00 + data).
// The null separator keeps domain and data from running together.
func hashWithDomain(domain string, data []byte) string {
	h := sha256.New()
	h.Write([]byte(domain))
	h.Write([]byte{0x00})
	h.Write(data)
	return hex.EncodeToString(h.Sum(nil))
}

// Fingerprint returns the content hash of a unit's canonical form.
// Structurally identical units share a fingerprint.
func Fingerprint(u *Unit) (string, error) {
	canonical, err := MarshalCanonical(u)
	if err != nil {
		return "", fmt.Errorf("Fingerprint: failed to marshal: %w", err)
	}
	return hashWithDomain(DomainUnit, canonical), nil
}

// MustFingerprint is like Fingerprint but panics on error.
// Use only in tests or when the unit came from a successful Builder.Finish.
func MustFingerprint(u *Unit) string {
	fp, err := Fingerprint(u)
	if err != nil {
		panic(err)
	}
	return fp
}
