// Package export renders verification attempts as spreadsheet reports for
// manual reviewers.
package export

import (
	"fmt"
	"io"
	"regexp"
	"strings"
	"time"

	"github.com/xuri/excelize/v2"

	"samarth/internal/domain"
)

const sheetName = "Attempts"

var columns = []string{
	"Attempt ID",
	"Subject ID",
	"File Name",
	"Status",
	"Reason",
	"Score",
	"OCR Confidence",
	"Archive Key",
	"Submitted At",
}

// WriteAttempts writes the attempts as an XLSX workbook to w, newest first
// in whatever order the caller provides.
func WriteAttempts(w io.Writer, attempts []domain.VerificationAttempt) error {
	f := excelize.NewFile()
	defer f.Close()

	idx, err := f.NewSheet(sheetName)
	if err != nil {
		return fmt.Errorf("creating sheet: %w", err)
	}
	f.SetActiveSheet(idx)
	if err := f.DeleteSheet("Sheet1"); err != nil {
		return fmt.Errorf("removing default sheet: %w", err)
	}

	for col, name := range columns {
		cell, _ := excelize.CoordinatesToCellName(col+1, 1)
		if err := f.SetCellValue(sheetName, cell, name); err != nil {
			return fmt.Errorf("writing header: %w", err)
		}
	}

	for i := range attempts {
		a := &attempts[i]
		row := []interface{}{
			a.ID.String(),
			a.SubjectID.String(),
			a.FileName,
			string(a.Status),
			a.Reason,
			a.Score,
			a.Confidence,
			a.ArchiveKey,
			a.CreatedAt.Format(time.RFC3339),
		}
		for col, v := range row {
			cell, _ := excelize.CoordinatesToCellName(col+1, i+2)
			if err := f.SetCellValue(sheetName, cell, v); err != nil {
				return fmt.Errorf("writing row %d: %w", i+1, err)
			}
		}
	}

	if err := f.Write(w); err != nil {
		return fmt.Errorf("writing workbook: %w", err)
	}
	return nil
}

// nonAlphanumeric matches characters that are not alphanumeric, hyphen, or underscore.
var nonAlphanumeric = regexp.MustCompile(`[^a-zA-Z0-9_-]+`)

// multiUnderscore matches consecutive underscores.
var multiUnderscore = regexp.MustCompile(`_{2,}`)

// SanitizeFilename cleans a report name for use in Content-Disposition.
func SanitizeFilename(name string) string {
	s := nonAlphanumeric.ReplaceAllString(name, "_")
	s = multiUnderscore.ReplaceAllString(s, "_")
	s = strings.Trim(s, "_")
	if len(s) > 100 {
		s = s[:100]
	}
	return s
}

// BuildFilename returns a sanitized, dated filename for the report download.
func BuildFilename(name string) string {
	return fmt.Sprintf("%s_%s.xlsx", SanitizeFilename(name), time.Now().Format("2006-01-02"))
}
