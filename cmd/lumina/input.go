package main

import (
	"bufio"
	"encoding/json"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/lumina-receipts/lumina/internal/model"
)

// ocrDocument is the JSON shape emitted by the OCR collaborator.
type ocrDocument struct {
	CapturedAt time.Time `json:"captured_at"`
	Lines      []ocrLine `json:"lines"`
}

type ocrLine struct {
	Text       string  `json:"text"`
	Confidence float64 `json:"confidence"`
}

// readInput parses one input document. JSON documents carry per-line OCR
// confidences and a capture timestamp; plain text falls back to one line
// per OCR line with full confidence and the current time.
func readInput(r io.Reader) (model.RawInput, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return model.RawInput{}, fmt.Errorf("failed to read input: %w", err)
	}

	trimmed := strings.TrimSpace(string(data))
	if strings.HasPrefix(trimmed, "{") {
		var doc ocrDocument
		if err := json.Unmarshal(data, &doc); err != nil {
			return model.RawInput{}, fmt.Errorf("invalid OCR document: %w", err)
		}
		in := model.RawInput{CapturedAt: doc.CapturedAt}
		if in.CapturedAt.IsZero() {
			in.CapturedAt = time.Now().UTC()
		}
		for i, line := range doc.Lines {
			in.Lines = append(in.Lines, model.Line{
				Text:       line.Text,
				Confidence: line.Confidence,
				Index:      i,
			})
		}
		return in, nil
	}

	in := model.RawInput{CapturedAt: time.Now().UTC()}
	scanner := bufio.NewScanner(strings.NewReader(string(data)))
	idx := 0
	for scanner.Scan() {
		in.Lines = append(in.Lines, model.Line{
			Text:       scanner.Text(),
			Confidence: 1.0,
			Index:      idx,
		})
		idx++
	}
	if err := scanner.Err(); err != nil {
		return model.RawInput{}, fmt.Errorf("failed to scan input: %w", err)
	}
	return in, nil
}
