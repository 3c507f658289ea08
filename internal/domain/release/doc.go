// Package release holds the domain model of a published release and the
// outcome of looking one up.
package release
