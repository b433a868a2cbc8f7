// Package domain contains the core entities of the askdoc pipeline:
// documents, chunks, ingestion outcomes, answers, and the sentinel errors
// shared across services and adapters. It has no dependencies on other
// internal packages.
package domain
