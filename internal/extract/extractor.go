// Package extract turns uploaded documents into plain text. Dispatch is
// purely by filename suffix; the actual parsing is delegated per format.
package extract

import (
	"context"
	"errors"
	"path/filepath"
	"strings"
)

var (
	ErrUnsupportedFormat = errors.New("unsupported file format")
	ErrNoContent         = errors.New("no text extracted from file")
)

// Extractor dispatches an upload to the matching format reader.
type Extractor struct {
	ocr *TesseractOCR
}

func NewExtractor(ocr *TesseractOCR) *Extractor {
	return &Extractor{ocr: ocr}
}

// Extract returns the plain text of a document. The whole upload is held in
// memory; uploads are bounded by the HTTP layer well below anything that
// would matter here.
func (e *Extractor) Extract(ctx context.Context, filename string, data []byte) (string, error) {
	var (
		text string
		err  error
	)

	switch strings.ToLower(filepath.Ext(filename)) {
	case ".pdf":
		text, err = extractPDF(data)
	case ".jpg", ".jpeg", ".png":
		text, err = e.ocr.Extract(ctx, data)
	case ".ppt", ".pptx":
		text, err = extractSlides(data)
	default:
		return "", ErrUnsupportedFormat
	}
	if err != nil {
		return "", err
	}

	if strings.TrimSpace(text) == "" {
		return "", ErrNoContent
	}
	return text, nil
}
