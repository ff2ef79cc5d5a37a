// Package morse translates text into Morse symbol strings and derives the
// element timings used to key them.
//
// A symbol string uses '.' and '-' for elements, a single space between
// characters and '/' for the gap between words, e.g. "... --- ...".
package morse
