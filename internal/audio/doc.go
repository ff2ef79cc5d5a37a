// Package audio synthesizes Morse keying into float32 PCM and streams it to
// a playback sink. Sinks cover an external aplay process, in-process
// playback through oto/v3, WAV files and raw PCM output.
package audio
