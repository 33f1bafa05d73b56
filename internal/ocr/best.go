// Package ocr holds recognition result selection shared by the pipeline and
// its engine implementations.
package ocr

import (
	"strings"

	"samarth/internal/domain"
)

// Better reports whether candidate should replace current. A candidate wins
// only when its confidence is strictly greater AND its trimmed text is
// strictly longer: a high-confidence near-empty result must not overwrite a
// lower-confidence but substantial one.
func Better(current, candidate domain.OCRResult) bool {
	return candidate.Confidence > current.Confidence &&
		len(strings.TrimSpace(candidate.Text)) > len(strings.TrimSpace(current.Text))
}

// Best folds a list of results down to the single best one, starting from
// the zero result. An empty or all-failed list yields the zero result, which
// downstream treats as a normal "no usable text" signal.
func Best(results []domain.OCRResult) domain.OCRResult {
	var best domain.OCRResult
	for _, r := range results {
		if Better(best, r) {
			best = r
		}
	}
	return best
}
