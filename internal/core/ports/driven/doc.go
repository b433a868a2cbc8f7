// Package driven provides interfaces for infrastructure adapters
// (secondary/outbound ports): embedding generation, language model
// inference, vector storage, text normalisation, chunking, and
// answer delivery.
package driven
