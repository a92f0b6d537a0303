package model

import (
	"strings"
	"time"
)

// Line is one OCR text line with its recognition confidence and original
// position in the document.
type Line struct {
	Text       string
	Confidence float64
	Index      int
}

// RawInput is the unprocessed OCR output for one receipt or notification,
// plus the capture timestamp used to resolve yearless dates and temporal
// features.
type RawInput struct {
	CapturedAt time.Time
	Lines      []Line
}

// IsEmpty reports whether the input carries no usable text at all.
func (in RawInput) IsEmpty() bool {
	for _, line := range in.Lines {
		if strings.TrimSpace(line.Text) != "" {
			return false
		}
	}
	return true
}

// Text joins all lines into one newline-separated string.
func (in RawInput) Text() string {
	parts := make([]string, len(in.Lines))
	for i, line := range in.Lines {
		parts[i] = line.Text
	}
	return strings.Join(parts, "\n")
}
