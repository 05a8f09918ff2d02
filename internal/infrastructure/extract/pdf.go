package extract

import (
	"bytes"
	"context"
	"errors"
	"io"
	"strings"

	"github.com/ledongthuc/pdf"
)

var (
	ErrNotPDF    = errors.New("not a pdf document")
	ErrCorrupted = errors.New("corrupted pdf document")
	ErrNoText    = errors.New("no extractable text in pdf")
)

var pdfMagic = []byte("%PDF")

// PDFExtractor pulls the plain text out of an uploaded resume. Scanned
// image-only PDFs yield ErrNoText.
type PDFExtractor struct{}

func NewPDFExtractor() *PDFExtractor {
	return &PDFExtractor{}
}

func (e *PDFExtractor) ExtractText(ctx context.Context, data []byte) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}
	if !bytes.HasPrefix(data, pdfMagic) {
		return "", ErrNotPDF
	}

	r, err := pdf.NewReader(bytes.NewReader(data), int64(len(data)))
	if err != nil {
		return "", ErrCorrupted
	}

	plain, err := r.GetPlainText()
	if err != nil {
		return "", ErrCorrupted
	}
	b, err := io.ReadAll(plain)
	if err != nil {
		return "", ErrCorrupted
	}

	text := collapseWhitespace(string(b))
	if text == "" {
		return "", ErrNoText
	}
	return text, nil
}

func collapseWhitespace(s string) string {
	return strings.Join(strings.Fields(s), " ")
}
