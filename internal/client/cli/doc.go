// Package cli provides the interactive Jotter command-line client.
//
// It wires configuration, local storage, the request gateway, and an
// interactive REPL. Typical flow: restore or prompt for a session, then
// execute user commands.
//
// Key features:
//   - Login / Register / Logout with transparent credential renewal
//   - List / Show published entries and drafts
//   - A line-oriented editor with autosave for drafts
//   - Live search with debounced suggestions and explicit submission
//   - Publish / Delete
//
// The REPL is started via App.Root(ctx), which blocks until the user exits.
// See App and runREPL for details.
package cli
