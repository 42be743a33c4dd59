// Package routes defines the types used to register HTTP routes and the
// interface implemented by the route system.
package routes

import "net/http"

// Group represents a collection of routes with a common prefix.
type Group struct {
	Prefix      string
	Description string
	Routes      []Route
	Children    []Group
}

// Route represents an HTTP route with method, pattern, and handler.
type Route struct {
	Method  string
	Pattern string
	Handler http.HandlerFunc
}
