// Package domain contains the core business entities for docsync:
// remote file snapshots, indexable documents, sync outcomes and reports.
// It has no dependencies on adapters or external services.
package domain
