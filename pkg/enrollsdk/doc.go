// Package enrollsdk holds the wire types for the enrollment service's HTTP
// API plus a small client for them. The server handlers and any Go consumers
// share these definitions so the two cannot drift apart.
package enrollsdk
