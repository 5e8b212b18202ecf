// Package app is the application layer, the only component that references
// multiple domain components. It orchestrates the use cases: registration and
// login, profile and link management, the password-protected-link gate, custom
// domain registration, analytics dispatch, and aggregate statistics.
package app
