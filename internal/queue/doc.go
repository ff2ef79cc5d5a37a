// Package queue buffers rendered lines between the renderer and the audio
// sink so the next line is synthesized while the current one plays.
package queue
