package vl53l5cx

import (
	"io/fs"
	"path"
	"strconv"
)

// FirmwareBundle carries the vendor firmware image and factory tables the
// sensor needs at Init. The sensor has no non-volatile program store, so the
// firmware is uploaded over the bus on every cold boot. The blobs ship with
// the vendor driver distribution and are opaque to this package.
type FirmwareBundle struct {
	// Firmware is the 84KiB MCU firmware image.
	Firmware []byte

	// DefaultConfiguration is the post-boot register block.
	DefaultConfiguration []byte

	// DefaultXtalk is the factory crosstalk correction table, re-sent
	// whenever the zone resolution changes.
	DefaultXtalk []byte

	// NVMCommand triggers the readout of per-unit calibration from NVM.
	NVMCommand []byte
}

// BundleError reports a bundle blob with the wrong size.
type BundleError struct {
	Name string
	Got  int
	Want int
}

func (e *BundleError) Error() string {
	return "vl53l5cx: bundle blob " + e.Name + " is " + strconv.Itoa(e.Got) +
		" bytes, want " + strconv.Itoa(e.Want)
}

func (e *BundleError) Unwrap() error { return ErrBundle }

func (b *FirmwareBundle) validate() error {
	for _, blob := range []struct {
		name string
		data []byte
		want int
	}{
		{"firmware", b.Firmware, FirmwareSize},
		{"default configuration", b.DefaultConfiguration, DefaultConfigSize},
		{"default xtalk", b.DefaultXtalk, XtalkSize},
		{"nvm command", b.NVMCommand, NVMCommandSize},
	} {
		if len(blob.data) != blob.want {
			return &BundleError{Name: blob.name, Got: len(blob.data), Want: blob.want}
		}
	}
	return nil
}

// Blob file names read by LoadFirmwareBundle.
const (
	FirmwareFile      = "firmware.bin"
	DefaultConfigFile = "default_configuration.bin"
	DefaultXtalkFile  = "default_xtalk.bin"
	NVMCommandFile    = "nvm_command.bin"
)

// LoadFirmwareBundle reads the four vendor blobs from dir inside fsys. Sizes
// are checked strictly: a truncated firmware image leaves the sensor
// unbootable until the next power cycle. The returned bundle aliases nothing
// and can be shared between devices.
func LoadFirmwareBundle(fsys fs.FS, dir string) (*FirmwareBundle, error) {
	var b FirmwareBundle
	for _, blob := range []struct {
		file string
		dst  *[]byte
		want int
	}{
		{FirmwareFile, &b.Firmware, FirmwareSize},
		{DefaultConfigFile, &b.DefaultConfiguration, DefaultConfigSize},
		{DefaultXtalkFile, &b.DefaultXtalk, XtalkSize},
		{NVMCommandFile, &b.NVMCommand, NVMCommandSize},
	} {
		data, err := fs.ReadFile(fsys, path.Join(dir, blob.file))
		if err != nil {
			return nil, err
		}
		if len(data) != blob.want {
			return nil, &BundleError{Name: blob.file, Got: len(data), Want: blob.want}
		}
		*blob.dst = data
	}
	return &b, nil
}
