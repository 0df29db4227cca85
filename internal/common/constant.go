// Package common contains shared constants and sentinel errors used across
// portal components.
package common

// AuthorizationHeaderName is the HTTP header carrying the bearer credential
// on outbound authenticated requests.
const AuthorizationHeaderName = "Authorization"

// BearerPrefix precedes the token value in the authorization header.
const BearerPrefix = "Bearer "
