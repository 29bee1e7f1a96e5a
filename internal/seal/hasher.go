package seal

import (
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"time"

	"github.com/oakline/boardvault/internal/domain"
)

// Canonical payload shapes. Field order is fixed by the struct definitions
// and contains no timestamps or random values, so marshalling the same
// logical content always yields the same bytes and therefore the same
// digest. That determinism is what makes the digest usable as tamper
// evidence.

type decisionContent struct {
	Title        string `json:"title"`
	Context      string `json:"context"`
	Decision     string `json:"decision"`
	Consequences string `json:"consequences"`
}

type reportContent struct {
	Title  string `json:"title"`
	Period string `json:"period"`
	Body   string `json:"body"`
}

type boardPackContent struct {
	Title       string   `json:"title"`
	MeetingDate string   `json:"meeting_date"` // RFC 3339 date, part of the frozen content
	Agenda      []string `json:"agenda"`
	Body        string   `json:"body"`
}

type secretContent struct {
	Title   string `json:"title"`
	Content string `json:"content"`
}

// Sum marshals v to canonical JSON and returns the hex SHA-256 digest plus
// the canonical bytes it was computed over.
func Sum(v any) (string, []byte, error) {
	b, err := json.Marshal(v)
	if err != nil {
		return "", nil, fmt.Errorf("seal.Sum: %w", err)
	}
	return SumBytes(b), b, nil
}

// SumBytes returns the hex SHA-256 digest of a canonical payload.
func SumBytes(b []byte) string {
	sum := sha256.Sum256(b)
	return hex.EncodeToString(sum[:])
}

// CanonicalDecision returns the digest and canonical payload for a decision.
func CanonicalDecision(d *domain.Decision) (string, []byte, error) {
	return Sum(decisionContent{
		Title:        d.Title,
		Context:      d.Context,
		Decision:     d.Decision,
		Consequences: d.Consequences,
	})
}

// CanonicalReport returns the digest and canonical payload for a report.
func CanonicalReport(r *domain.Report) (string, []byte, error) {
	return Sum(reportContent{
		Title:  r.Title,
		Period: r.Period,
		Body:   r.Body,
	})
}

// CanonicalBoardPack returns the digest and canonical payload for a board pack.
func CanonicalBoardPack(b *domain.BoardPack) (string, []byte, error) {
	return Sum(boardPackContent{
		Title:       b.Title,
		MeetingDate: b.MeetingDate.UTC().Format(time.RFC3339),
		Agenda:      b.Agenda,
		Body:        b.Body,
	})
}

// CanonicalSecret returns the digest and canonical payload for secret content.
func CanonicalSecret(title, content string) (string, []byte, error) {
	return Sum(secretContent{Title: title, Content: content})
}

// VerifyVersion recomputes the digest over a stored canonical payload and
// compares it with the recorded hash. A mismatch signals tampering and is
// surfaced as ErrIntegrityMismatch, never swallowed.
func VerifyVersion(v *domain.SecretVersion) error {
	recomputed := SumBytes(v.ContentCanonical)
	if recomputed != v.SHA256Hash {
		return fmt.Errorf("seal.VerifyVersion: version %d: stored %s recomputed %s: %w",
			v.VersionNumber, v.SHA256Hash, recomputed, domain.ErrIntegrityMismatch)
	}
	return nil
}
