// Package pdftext turns uploaded document bytes into plain text.
// PDF payloads go through a PDF text extractor; anything else is
// treated as already-extracted UTF-8 text.
package pdftext

import (
	"bytes"
	"fmt"
	"io"
	"strings"

	"github.com/ledongthuc/pdf"
)

var pdfMagic = []byte("%PDF-")

// IsPDF reports whether the payload starts with the PDF header.
func IsPDF(data []byte) bool {
	return bytes.HasPrefix(data, pdfMagic)
}

// ExtractText returns the text content of the payload. PDF inputs are
// parsed page by page; plain inputs pass through trimmed. Empty
// output is reported as ErrExtraction so callers never score a
// document no text came out of.
func ExtractText(data []byte) (string, error) {
	if len(data) == 0 {
		return "", fmt.Errorf("empty payload: %w", ErrExtraction)
	}

	if !IsPDF(data) {
		text := strings.TrimSpace(string(data))
		if text == "" {
			return "", fmt.Errorf("blank payload: %w", ErrExtraction)
		}
		return text, nil
	}

	r, err := pdf.NewReader(bytes.NewReader(data), int64(len(data)))
	if err != nil {
		return "", fmt.Errorf("parse pdf: %v: %w", err, ErrExtraction)
	}

	plain, err := r.GetPlainText()
	if err != nil {
		return "", fmt.Errorf("extract pdf text: %v: %w", err, ErrExtraction)
	}

	var sb strings.Builder
	if _, err := io.Copy(&sb, plain); err != nil {
		return "", fmt.Errorf("read pdf text: %v: %w", err, ErrExtraction)
	}

	text := strings.TrimSpace(sb.String())
	if text == "" {
		return "", fmt.Errorf("pdf contains no text layer: %w", ErrExtraction)
	}
	return text, nil
}
