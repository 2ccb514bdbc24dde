//go:build vl53l5cx_targets3

package vl53l5cx

// MaxTargetsPerZone under the vl53l5cx_targets3 tag.
const MaxTargetsPerZone = 3
