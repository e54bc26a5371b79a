// Package search coordinates live queries against the journal: debounced
// suggestions while the user types and immediate full submissions, with a
// shared monotonic sequence counter guaranteeing that a slow, superseded
// response can never overwrite a newer one. Abandoned queries are cancelled
// at the transport rather than left to complete silently.
package search
