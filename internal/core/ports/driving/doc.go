// Package driving defines the inbound ports of the reconciliation core,
// consumed by the CLI and HTTP adapters.
package driving
