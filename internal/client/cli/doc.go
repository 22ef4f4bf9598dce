// Package cli provides the interactive runauth command-line client.
//
// It wires configuration, the HTTP API client and the session service into
// a small REPL:
//   - register / login / logout
//   - me (refreshes the access token once when it has expired)
//   - refresh
//
// The REPL is started via App.Run(ctx), which blocks until the user exits.
package cli
