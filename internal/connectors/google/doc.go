// Package google holds the shared plumbing for talking to Google APIs:
// token handling, rate limiting and service construction. Drive-specific
// logic lives in the drive subpackage.
package google
