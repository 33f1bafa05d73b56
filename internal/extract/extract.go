// Package extract derives a structured certificate record from raw OCR text
// using an ordered first-match-wins rule table.
package extract

import (
	"strconv"
	"strings"
)

// Extract runs every rule in table order against the text and builds the
// structured record. It is a pure function: identical text always yields an
// identical record.
func Extract(text string) Fields {
	values := make(map[string]string)
	for _, rule := range Rules {
		if _, done := values[rule.Field]; done {
			continue
		}
		m := rule.Pattern.FindStringSubmatch(text)
		if m == nil {
			continue
		}
		captured := strings.TrimSpace(m[1])
		if rule.Post != nil {
			v, ok := rule.Post(captured)
			if !ok {
				continue
			}
			captured = v
		}
		if captured != "" {
			values[rule.Field] = captured
		}
	}

	lower := strings.ToLower(text)
	f := Fields{
		CertificateNumber:  strPtr(values, FieldCertificateNumber),
		DateOfIssue:        strPtr(values, FieldDateOfIssue),
		ValidTill:          strPtr(values, FieldValidTill),
		Name:               strPtr(values, FieldName),
		FatherName:         strPtr(values, FieldFatherName),
		DateOfBirth:        strPtr(values, FieldDateOfBirth),
		Age:                intPtr(values, FieldAge),
		Gender:             strPtr(values, FieldGender),
		RegistrationNumber: strPtr(values, FieldRegistrationNumber),
		DisabilityType:     strPtr(values, FieldDisabilityType),
		Diagnosis:          strPtr(values, FieldDiagnosis),
		// Range enforcement is the validator's job; extraction keeps
		// whatever the pattern captured.
		DisabilityPercentage: intPtr(values, FieldDisabilityPercentage),
		IssuingAuthority:     strPtr(values, FieldIssuingAuthority),

		HasGovernmentKeywords:  containsAny(lower, GovernmentKeywords),
		HasDisabilityKeywords:  containsAny(lower, DisabilityKeywords),
		HasCertificateKeywords: containsAny(lower, CertificateKeywords),
		HasMedicalKeywords:     containsAny(lower, MedicalKeywords),
	}
	return f
}

func strPtr(values map[string]string, field string) *string {
	if v, ok := values[field]; ok {
		return &v
	}
	return nil
}

func intPtr(values map[string]string, field string) *int {
	v, ok := values[field]
	if !ok {
		return nil
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		return nil
	}
	return &n
}
