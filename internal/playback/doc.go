// Package playback drives a session: it pulls lines from a source,
// translates and renders them, and streams the samples to a single audio
// sink until the source runs dry or the context is cancelled.
package playback
