//go:build vl53l5cx_targets4

package vl53l5cx

// MaxTargetsPerZone under the vl53l5cx_targets4 tag.
const MaxTargetsPerZone = 4
