package extract

// Fields is the structured record derived from raw OCR text. Every pointer
// field is nil when no rule matched; a non-nil value satisfies the shape its
// rule captures.
type Fields struct {
	CertificateNumber    *string `json:"certificate_number,omitempty"`
	DateOfIssue          *string `json:"date_of_issue,omitempty"`
	ValidTill            *string `json:"valid_till,omitempty"`
	Name                 *string `json:"name,omitempty"`
	FatherName           *string `json:"father_name,omitempty"`
	DateOfBirth          *string `json:"date_of_birth,omitempty"`
	Age                  *int    `json:"age,omitempty"`
	Gender               *string `json:"gender,omitempty"`
	RegistrationNumber   *string `json:"registration_number,omitempty"`
	DisabilityType       *string `json:"disability_type,omitempty"`
	Diagnosis            *string `json:"diagnosis,omitempty"`
	DisabilityPercentage *int    `json:"disability_percentage,omitempty"`
	IssuingAuthority     *string `json:"issuing_authority,omitempty"`

	HasGovernmentKeywords  bool `json:"has_government_keywords"`
	HasDisabilityKeywords  bool `json:"has_disability_keywords"`
	HasCertificateKeywords bool `json:"has_certificate_keywords"`
	HasMedicalKeywords     bool `json:"has_medical_keywords"`
}

// HasCertificateSignal reports whether any of the three keyword flags that
// mark a document as certificate-like is set. The triage engine uses this to
// route incomplete but plausible documents to manual review instead of
// rejection.
func (f Fields) HasCertificateSignal() bool {
	return f.HasGovernmentKeywords || f.HasDisabilityKeywords || f.HasCertificateKeywords
}
