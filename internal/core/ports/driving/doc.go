// Package driving provides interfaces for application entry points
// (primary/inbound ports) invoked by the CLI.
package driving
