// Package common contains shared constants and sentinel errors used across
// the auth server, its transports and the authctl client.
package common

// AuthorizationHeaderName is the gRPC metadata / HTTP header carrying
// "Bearer <token>".
const AuthorizationHeaderName = "authorization"

// AccessTokenHeaderName is the legacy metadata key carrying a bare token.
const AccessTokenHeaderName = "access_token"

// BearerPrefix precedes the token in the authorization header.
const BearerPrefix = "Bearer "

// ServiceVersion is reported by the version endpoints.
const ServiceVersion = "1.0.0"

// ServiceName identifies the service in health and version reports.
const ServiceName = "paramita-auth"
