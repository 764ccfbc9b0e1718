// Package diffn implements the normalized diff helper: it compares files by
// a hash that ignores line endings and per-line leading/trailing whitespace,
// so formatting-only divergence reads as a match.
package diffn

import (
	"crypto/sha256"
	"encoding/hex"
	"strings"
	"unicode/utf8"
)

// NormalizeText trims each line and joins them without separators. Content
// that is not valid UTF-8 falls back to plain CR/LF stripping, which is the
// best that can be done for binary files.
func NormalizeText(content []byte) []byte {
	if !utf8.Valid(content) {
		return stripCRLF(content)
	}

	lines := strings.Split(string(content), "\n")
	var b strings.Builder
	for _, line := range lines {
		b.WriteString(strings.TrimSpace(line))
	}
	return []byte(b.String())
}

func stripCRLF(content []byte) []byte {
	out := make([]byte, 0, len(content))
	for _, c := range content {
		if c == '\r' || c == '\n' {
			continue
		}
		out = append(out, c)
	}
	return out
}

// Sum returns the hex SHA-256 of the normalized content.
func Sum(content []byte) string {
	sum := sha256.Sum256(NormalizeText(content))
	return hex.EncodeToString(sum[:])
}

// Outcome classifies one comparison.
type Outcome string

const (
	OutcomeMatch Outcome = "MATCH"
	OutcomeDiff  Outcome = "DIFF"
	OutcomeError Outcome = "ERROR"
)

// Result is one comparison line of the diffn command.
type Result struct {
	Label   string
	Outcome Outcome
	Detail  string
}

// Compare classifies two contents; a nil content means the corresponding
// side could not be read and its name is reported in the error.
func Compare(label string, left, right []byte, leftName, rightName string) Result {
	if left == nil {
		return Result{Label: label, Outcome: OutcomeError, Detail: "not found: " + leftName}
	}
	if right == nil {
		return Result{Label: label, Outcome: OutcomeError, Detail: "not found: " + rightName}
	}
	if Sum(left) == Sum(right) {
		return Result{Label: label, Outcome: OutcomeMatch}
	}
	return Result{Label: label, Outcome: OutcomeDiff, Detail: "different normalized hash"}
}
