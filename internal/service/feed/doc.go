// Package feed asks the GitHub release index for the latest release.
//
// The check is best effort: any transport, status or payload problem yields
// release.NotFound so that the application still starts.
package feed
