// Package driven defines the outbound ports of the reconciliation core:
// the file source, the search index and the extractor registry. Adapters
// implement these interfaces; the core only consumes them.
package driven
