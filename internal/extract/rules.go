package extract

import (
	"regexp"
	"strings"
)

// Field identifiers used by the rule table.
const (
	FieldCertificateNumber    = "certificate_number"
	FieldDateOfIssue          = "date_of_issue"
	FieldValidTill            = "valid_till"
	FieldName                 = "name"
	FieldFatherName           = "father_name"
	FieldDateOfBirth          = "date_of_birth"
	FieldAge                  = "age"
	FieldGender               = "gender"
	FieldRegistrationNumber   = "registration_number"
	FieldDisabilityType       = "disability_type"
	FieldDiagnosis            = "diagnosis"
	FieldDisabilityPercentage = "disability_percentage"
	FieldIssuingAuthority     = "issuing_authority"
)

// Rule binds a field to one pattern and an optional postprocess step. Rules
// for the same field run in table order and the first accepted match wins;
// later rules are fallbacks, never overrides.
type Rule struct {
	Field   string
	Pattern *regexp.Regexp
	Post    func(string) (string, bool)
}

// Shared pattern fragments.
const (
	datePat     = `(\d{1,2}[/-]\d{1,2}[/-]\d{2,4})`
	capWordsPat = `([A-Z][a-z]+(?:\s+[A-Z][a-z]+)+)`  // two or more capitalized words
	capRunPat   = `([A-Z][a-z]+(?:\s+[A-Z][a-z]+)*)`  // one or more capitalized words
)

func upper(s string) (string, bool) { return strings.ToUpper(s), true }

func longerThan3(s string) (string, bool) {
	s = strings.TrimSpace(s)
	return s, len(s) > 3
}

func normalizeGender(s string) (string, bool) {
	switch strings.ToLower(s) {
	case "m", "male":
		return "male", true
	case "f", "female":
		return "female", true
	default:
		return "other", true
	}
}

// Rules is the ordered extraction table. Labels match case-insensitively;
// captured values keep their natural-case requirements.
var Rules = []Rule{
	{FieldCertificateNumber, regexp.MustCompile(`(?i:certificate\s*(?:no|number|#)\.?\s*[:\-.]?\s*)([A-Za-z]{2}\d{10,})`), upper},
	{FieldCertificateNumber, regexp.MustCompile(`\b([A-Z]{2}\d{10,})\b`), upper},

	{FieldDateOfIssue, regexp.MustCompile(`(?i:(?:date\s+of\s+issue|issued\s+on|date)\s*[:\-.]?\s*)` + datePat), nil},
	{FieldDateOfIssue, regexp.MustCompile(datePat), nil},

	{FieldValidTill, regexp.MustCompile(`(?i:(?:valid\s+(?:till|until|upto)|expiry|expires?)(?:\s+date)?\s*[:\-.]?\s*)` + datePat), nil},

	{FieldName, regexp.MustCompile(`(?i:name\s+of\s+(?:the\s+)?person\s+with\s+disability\s*[:\-.]?\s*)` + capWordsPat), longerThan3},
	{FieldName, regexp.MustCompile(`(?i:name\s*[:\-.]?\s*)` + capWordsPat), longerThan3},
	{FieldName, regexp.MustCompile(`\b(?:Shri|Smt|Mr|Mrs|Ms)\.?\s+` + capWordsPat), longerThan3},

	{FieldFatherName, regexp.MustCompile(`(?i:(?:son\s+of|daughter\s+of|father(?:'s)?\s+name|father)\s*[:\-.]?\s*)(?:(?i:shri|smt|mr|mrs|ms)\.?\s+)?` + capRunPat), nil},

	{FieldDateOfBirth, regexp.MustCompile(`(?i:(?:date\s+of\s+birth|d\.?o\.?b\.?|born\s+on)\s*[:\-.]?\s*)` + datePat), nil},

	{FieldAge, regexp.MustCompile(`(?i:\bage\b\s*[:\-.]?\s*)(\d{1,3})\b`), nil},

	{FieldGender, regexp.MustCompile(`(?i:\b(?:gender|sex)\s*[:\-.]?\s*(male|female|m|f|other)\b)`), normalizeGender},

	{FieldRegistrationNumber, regexp.MustCompile(`(?i:\breg(?:istration)?\.?\s*(?:no|number|#)\.?\s*[:\-.]?\s*)([A-Za-z0-9/]+)`), upper},

	{FieldDisabilityType, regexp.MustCompile(`(?i:(?:case\s+of|type\s+of\s+disability|disability\s+type)\s*[:\-.]?\s*)` + capRunPat), nil},
	{FieldDisabilityType, regexp.MustCompile(`(?i)\b(locomotor|visual|hearing|intellectual|mental illness|mental|autism|multiple disabilit(?:y|ies)|specific learning disabilit(?:y|ies))\b`), func(s string) (string, bool) {
		return strings.ToLower(s), true
	}},

	{FieldDiagnosis, regexp.MustCompile(`(?i:diagnosis\s*[:\-.]?\s*)([A-Z][A-Z, ]+)`), func(s string) (string, bool) {
		s = strings.TrimRight(strings.TrimSpace(s), ",")
		return s, s != ""
	}},

	{FieldDisabilityPercentage, regexp.MustCompile(`(?i:(?:percentage\s+of\s+disability|disability\s+percentage|\bpercent(?:age)?)\s*[:\-.]?\s*)(\d{1,3})\s*%`), nil},

	{FieldIssuingAuthority, regexp.MustCompile(`(?i:(?:issuing\s+authority|medical\s+authority|hospital)\s*[:\-.]?\s*)([A-Z][A-Za-z ,.&]*(?:Hospital|Authority|Department))`), nil},
	{FieldIssuingAuthority, regexp.MustCompile(`(Dr\.?\s+[A-Z][a-z]+\s+[A-Z][a-z]+\s+(?:Hospital|Medical|Municipal|General)(?:\s+[A-Z][a-z]+)*)`), nil},
}
