// Package httpserver provides an http.Server wrapper with graceful
// shutdown, env-driven configuration and probe handlers for liveness
// and readiness endpoints.
package httpserver
