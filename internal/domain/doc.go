// Package domain holds the core entities of the bio-link service and the
// repository interfaces the adapters implement. It has no dependencies on
// transport or storage packages.
package domain
