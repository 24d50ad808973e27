// Package http provides the outbound HTTP transport for hitrelay executions.
//
// It wraps the standard library's http package with additional features:
//   - Configurable timeouts
//   - Redirect handling
//   - Ordered query parameter assembly
//   - Response decoding and payload inspection
//   - Stable transport failure codes
package http
