// Package cli provides authctl, the interactive command-line client for the
// paramita auth service.
//
// It wires configuration and the gRPC API client into a small REPL:
//   - register / login / logout
//   - me (show the current profile)
//   - health / version
//
// The REPL is started via App.Run(ctx), which blocks until the user exits.
package cli
