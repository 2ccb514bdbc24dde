//go:build vl53l5cx_targets2

package vl53l5cx

// MaxTargetsPerZone under the vl53l5cx_targets2 tag.
const MaxTargetsPerZone = 2
