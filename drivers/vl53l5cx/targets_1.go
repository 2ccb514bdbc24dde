//go:build !vl53l5cx_targets2 && !vl53l5cx_targets3 && !vl53l5cx_targets4

package vl53l5cx

// MaxTargetsPerZone is the per-zone target capacity compiled into the
// driver. The default is one target per zone; the vl53l5cx_targets2/3/4
// build tags select a deeper pipeline. Selecting several at once is a
// build error.
const MaxTargetsPerZone = 1
