// Package source provides line-oriented text producers for the player:
// a paced simulated generator, readers over files and stdin (optionally
// gzip or zstd compressed), a file follower, Markdown extraction and the
// system clipboard.
package source
