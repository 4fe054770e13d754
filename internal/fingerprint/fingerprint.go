// Package fingerprint derives the duplicate-detection keys for records.
package fingerprint

import (
	"crypto/sha256"
	"encoding/hex"
	"strings"

	"github.com/starford/laguz/internal/models"
)

// Sum returns the hex-encoded SHA-256 digest of data.
func Sum(data []byte) string {
	h := sha256.Sum256(data)
	return hex.EncodeToString(h[:])
}

// Content returns the content fingerprint of a record: a digest of its title
// and raw body markup. Records with equal title and body always yield the
// same digest regardless of any other field.
func Content(r models.Record) string {
	combined := strings.TrimSpace(r.Title + "\n" + r.BodyMarkup)
	return Sum([]byte(combined))
}

// TitleKey returns the trimmed, lower-cased title. An empty result means the
// record carries no title key and never participates in title-collision
// checks.
func TitleKey(r models.Record) string {
	return strings.ToLower(strings.TrimSpace(r.Title))
}
