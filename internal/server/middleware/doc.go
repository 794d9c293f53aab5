// Package middleware provides HTTP middleware for the MCP server.
// These middleware functions handle request metrics, security headers and
// other cross-cutting concerns.
package middleware
