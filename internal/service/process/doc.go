// Package process starts the real application as a child process and waits
// for it to finish.
package process
