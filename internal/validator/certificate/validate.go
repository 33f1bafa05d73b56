// Package certificate scores an extracted certificate record for
// authenticity and completeness.
package certificate

import (
	"math"
	"regexp"

	"samarth/internal/extract"
)

// ErrorKind identifies a blocking validation failure.
type ErrorKind string

const (
	ErrMissingGovernmentKeywords  ErrorKind = "missing_government_keywords"
	ErrMissingDisabilityKeywords  ErrorKind = "missing_disability_keywords"
	ErrMissingCertificateKeywords ErrorKind = "missing_certificate_keywords"
	ErrCertificateNumberMissing   ErrorKind = "certificate_number_missing"
	ErrCertificateNumberInvalid   ErrorKind = "certificate_number_invalid"
	ErrPercentageMissing          ErrorKind = "disability_percentage_missing"
	ErrPercentageOutOfRange       ErrorKind = "disability_percentage_out_of_range"
	ErrNameMissing                ErrorKind = "name_missing_or_too_short"
)

// WarningKind identifies a non-blocking validation concern.
type WarningKind string

const (
	WarnDateOfIssueMissing     WarningKind = "date_of_issue_missing"
	WarnMedicalKeywordsMissing WarningKind = "medical_keywords_missing"
)

// MaxScore is the number of completeness/authenticity indicators counted.
const MaxScore = 8

// DefaultMinValidScore is the score floor for automatic verification. It is
// a heuristic tunable surfaced through configuration.
const DefaultMinValidScore = 6

// Certificate numbers are two uppercase letters followed by at least ten
// digits (UDID-style).
var certNumberPattern = regexp.MustCompile(`^[A-Z]{2}\d{10,}$`)

// Result is the outcome of validating one extracted record. It is derived
// purely from the record; validating the same record twice yields identical
// results.
type Result struct {
	IsValid         bool           `json:"is_valid"`
	Score           int            `json:"score"`
	MaxScore        int            `json:"max_score"`
	ScorePercentage int            `json:"score_percentage"`
	Errors          []ErrorKind    `json:"errors"`
	Warnings        []WarningKind  `json:"warnings"`
	Fields          extract.Fields `json:"fields"`
}

// Validate checks the record against the blocking rules, collects warnings,
// and counts the satisfied indicators. A record is valid only when no error
// triggered and the score reaches minValidScore.
func Validate(f extract.Fields, minValidScore int) Result {
	if minValidScore <= 0 {
		minValidScore = DefaultMinValidScore
	}

	var errs []ErrorKind
	var warnings []WarningKind

	if !f.HasGovernmentKeywords {
		errs = append(errs, ErrMissingGovernmentKeywords)
	}
	if !f.HasDisabilityKeywords {
		errs = append(errs, ErrMissingDisabilityKeywords)
	}
	if !f.HasCertificateKeywords {
		errs = append(errs, ErrMissingCertificateKeywords)
	}

	switch {
	case f.CertificateNumber == nil:
		errs = append(errs, ErrCertificateNumberMissing)
	case !certNumberPattern.MatchString(*f.CertificateNumber):
		errs = append(errs, ErrCertificateNumberInvalid)
	}

	switch {
	case f.DisabilityPercentage == nil:
		errs = append(errs, ErrPercentageMissing)
	case *f.DisabilityPercentage < 1 || *f.DisabilityPercentage > 100:
		errs = append(errs, ErrPercentageOutOfRange)
	}

	if f.Name == nil || len(*f.Name) <= 3 {
		errs = append(errs, ErrNameMissing)
	}

	if f.DateOfIssue == nil {
		warnings = append(warnings, WarnDateOfIssueMissing)
	}
	if !f.HasMedicalKeywords {
		warnings = append(warnings, WarnMedicalKeywordsMissing)
	}

	score := scoreOf(f)

	return Result{
		IsValid:         len(errs) == 0 && score >= minValidScore,
		Score:           score,
		MaxScore:        MaxScore,
		ScorePercentage: int(math.Round(100 * float64(score) / float64(MaxScore))),
		Errors:          errs,
		Warnings:        warnings,
		Fields:          f,
	}
}

// scoreOf counts one point per satisfied indicator. Adding an indicator to a
// record never lowers its score.
func scoreOf(f extract.Fields) int {
	score := 0
	if f.HasGovernmentKeywords {
		score++
	}
	if f.HasDisabilityKeywords {
		score++
	}
	if f.HasCertificateKeywords {
		score++
	}
	if f.HasMedicalKeywords {
		score++
	}
	if f.CertificateNumber != nil {
		score++
	}
	if f.DisabilityPercentage != nil {
		score++
	}
	if f.Name != nil {
		score++
	}
	if f.DateOfIssue != nil {
		score++
	}
	return score
}
