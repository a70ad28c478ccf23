package pdftext

import "errors"

// ErrExtraction indicates no usable text could be pulled from the
// payload.
var ErrExtraction = errors.New("text extraction failed")
