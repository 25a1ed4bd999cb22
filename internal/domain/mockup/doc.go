// Package mockup models provider-side mockup rendering tasks and their
// results. The provider owns the authoritative task state; the local task
// record is a reference key plus the last status observed via polling.
package mockup
