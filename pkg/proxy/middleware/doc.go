// Package middleware provides the HTTP middleware chain for the relay
// server: request ID propagation, structured request logging, panic
// recovery, and CORS.
package middleware
