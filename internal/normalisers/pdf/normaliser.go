// Package pdf provides a normaliser for PDF documents.
package pdf

import (
	"bytes"
	"context"
	"fmt"
	"regexp"
	"strings"

	"github.com/ledongthuc/pdf"

	"github.com/custodia-labs/askdoc-cli/internal/core/domain"
	"github.com/custodia-labs/askdoc-cli/internal/core/ports/driven"
)

// Ensure Normaliser implements the interface.
var _ driven.Normaliser = (*Normaliser)(nil)

// whitespaceRun matches any run of whitespace, including newlines.
var whitespaceRun = regexp.MustCompile(`\s+`)

// Normaliser extracts plain text from PDF documents.
type Normaliser struct{}

// New creates a new PDF normaliser.
func New() *Normaliser {
	return &Normaliser{}
}

// SupportedMIMETypes returns the MIME types this normaliser handles.
func (n *Normaliser) SupportedMIMETypes() []string {
	return []string{"application/pdf"}
}

// Normalise extracts the text of every page and collapses whitespace.
// Extraction is pure: the same bytes always yield the same content,
// which downstream identifier derivation depends on.
func (n *Normaliser) Normalise(_ context.Context, raw *domain.RawDocument) (*driven.NormaliseResult, error) {
	if raw == nil {
		return nil, domain.ErrInvalidInput
	}

	reader, err := pdf.NewReader(bytes.NewReader(raw.Content), int64(len(raw.Content)))
	if err != nil {
		return nil, fmt.Errorf("open pdf: %w", err)
	}

	text, err := reader.GetPlainText()
	if err != nil {
		return nil, fmt.Errorf("extract text: %w", err)
	}

	var buf bytes.Buffer
	if _, err := buf.ReadFrom(text); err != nil {
		return nil, fmt.Errorf("read text: %w", err)
	}

	return &driven.NormaliseResult{
		Document: domain.Document{
			Name:    raw.Name,
			Content: NormaliseText(buf.String()),
		},
	}, nil
}

// NormaliseText collapses all whitespace runs (spaces, tabs, newlines)
// into single spaces and trims leading and trailing whitespace.
func NormaliseText(text string) string {
	return strings.TrimSpace(whitespaceRun.ReplaceAllString(text, " "))
}
