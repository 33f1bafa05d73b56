package domain

// VerificationStatus is the triage state of a subject's certificate.
type VerificationStatus string

const (
	VerificationStatusUnverified VerificationStatus = "unverified"
	VerificationStatusVerified   VerificationStatus = "verified"
	VerificationStatusPending    VerificationStatus = "pending_manual"
	VerificationStatusRejected   VerificationStatus = "rejected"
)

// Machine-readable reason codes carried on VerificationOutcome.
const (
	ReasonUnsupportedFormat  = "unsupported_format"
	ReasonUnreadableImage    = "unreadable_image"
	ReasonLowConfidence      = "low_ocr_confidence"
	ReasonInsufficientText   = "insufficient_text_extracted"
	ReasonFieldsNotExtracted = "required_fields_not_auto_extractable"
	ReasonValidationFailed   = "validation_failed"
	ReasonProcessingError    = "processing_error"
)

// Activity log actions.
const (
	ActivityCertificateVerified = "certificate_verified"
	ActivityCertificatePending  = "certificate_pending_review"
	ActivityCertificateRejected = "certificate_rejected"
)

// UserRole defines the reviewer role hierarchy.
type UserRole string

const (
	RoleAdmin    UserRole = "admin"
	RoleReviewer UserRole = "reviewer"
	RoleSubject  UserRole = "subject"
)

// FileType represents the allowed upload types.
type FileType string

const (
	FileTypeJPG  FileType = "jpg"
	FileTypePNG  FileType = "png"
	FileTypeWEBP FileType = "webp"
	FileTypeBMP  FileType = "bmp"
	FileTypeTIFF FileType = "tiff"
)

// AllowedContentTypes maps MIME content types back to FileType. PDF is
// deliberately absent: certificates must be submitted as photographs.
var AllowedContentTypes = map[string]FileType{
	"image/jpeg": FileTypeJPG,
	"image/png":  FileTypePNG,
	"image/webp": FileTypeWEBP,
	"image/bmp":  FileTypeBMP,
	"image/tiff": FileTypeTIFF,
}

// AllowedExtensions maps file extensions (without dot) to FileType.
var AllowedExtensions = map[string]FileType{
	"jpg":  FileTypeJPG,
	"jpeg": FileTypeJPG,
	"png":  FileTypePNG,
	"webp": FileTypeWEBP,
	"bmp":  FileTypeBMP,
	"tif":  FileTypeTIFF,
	"tiff": FileTypeTIFF,
}
