// Package client talks to the paramita auth server for the authctl CLI.
//
// Client is the transport-agnostic contract; GRPCClient implements it over
// paramita.auth.v1.AuthService. GRPCClient keeps the access token returned
// by Register or Login and attaches it to every later call, and maps gRPC
// status codes to the sentinel errors in errors.go so callers can match
// them with errors.Is.
package client
