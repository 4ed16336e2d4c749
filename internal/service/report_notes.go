package service

import "strings"

const (
	summaryLabel         = "SUMMARY: "
	recommendationsLabel = "\n\nRECOMMENDATIONS: "
)

// FormatReportNotes renders report text in the layout persisted on observation notes.
func FormatReportNotes(summary, recommendations string) string {
	return summaryLabel + summary + recommendationsLabel + recommendations
}

// ParseReportNotes splits notes written by FormatReportNotes at the first recommendations
// marker. Save refuses summaries containing the marker. ok is false for free-form notes.
func ParseReportNotes(notes string) (summary, recommendations string, ok bool) {
	if !strings.HasPrefix(notes, summaryLabel) {
		return "", "", false
	}
	body := strings.TrimPrefix(notes, summaryLabel)
	idx := strings.Index(body, recommendationsLabel)
	if idx < 0 {
		return "", "", false
	}
	return body[:idx], body[idx+len(recommendationsLabel):], true
}
