// Package normalisers contains format-specific text extraction.
// Each subpackage implements driven.Normaliser for one document format,
// producing a domain.Document whose Content is whitespace-normalised
// plain text ready for chunking.
package normalisers
