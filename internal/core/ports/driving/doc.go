// Package driving provides interfaces for use-case entry points (primary/inbound ports).
// The CLI and MCP adapters depend on these, never on concrete services.
package driving
