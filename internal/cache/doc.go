// Package cache keeps recently rendered Morse audio in memory so repeated
// lines (beacons, CQ calls) are not synthesized again.
package cache
