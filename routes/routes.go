// Package routes wires controllers onto the gin engine.
//
//   - api.go: API routes (/v1/*)
//   - web.go: index and health probes
package routes
