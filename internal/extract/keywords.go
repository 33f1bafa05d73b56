package extract

import "strings"

// Keyword sets are the single source of the presence flags used by both
// extraction and validation scoring. All matching is case-insensitive
// substring search.
var (
	GovernmentKeywords = []string{
		"government of india",
		"govt of india",
		"ministry",
		"department",
		"empowerment of persons with disabilities",
	}
	DisabilityKeywords = []string{
		"disability",
		"disabled",
		"pwd",
		"persons with disabilities",
		"empowerment of persons",
	}
	CertificateKeywords = []string{
		"certificate",
		"certification",
		"certify",
	}
	MedicalKeywords = []string{
		"medical",
		"hospital",
		"doctor",
		"authority",
		"dr.",
		"physician",
	}
)

// TriageHintKeywords is the small set scanned by the low-quality gate to
// enrich the user-facing message. It never changes the triage outcome.
var TriageHintKeywords = []string{
	"certificate", "disability", "government", "india",
	"ministry", "pwd", "hospital", "medical", "authority",
}

func containsAny(lower string, keywords []string) bool {
	for _, kw := range keywords {
		if strings.Contains(lower, kw) {
			return true
		}
	}
	return false
}

// CountTriageHints reports how many triage hint keywords appear in the text.
func CountTriageHints(text string) int {
	lower := strings.ToLower(text)
	n := 0
	for _, kw := range TriageHintKeywords {
		if strings.Contains(lower, kw) {
			n++
		}
	}
	return n
}
