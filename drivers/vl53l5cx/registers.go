package vl53l5cx

// Register indexes, DCI addresses and result block headers. Addresses follow
// the vendor's firmware interface and are not documented in the datasheet.

const (
	// Default I2C address: 0x52 in the vendor's 8-bit convention, 0x29 7-bit.
	AddressDefault8 = 0x52
	AddressDefault  = AddressDefault8 >> 1

	// --- User-interface command window ---

	regUICmdStatus = 0x2C00
	regUICmdStart  = 0x2C04
	regUICmdEnd    = 0x2FFF

	// --- DCI (device configuration interface) addresses ---

	dciZoneConfig   = 0x5450
	dciFreqHz       = 0x5458
	dciIntTime      = 0x545C
	dciFWNbTarget   = 0x5478
	dciRangingMode  = 0xAD30
	dciDSSConfig    = 0xAD38
	dciTargetOrder  = 0x4960
	dciSharpener    = 0x546F
	dciOutputConfig = 0xCD60
	dciOutputEnable = 0xCD68
	dciOutputList   = 0xCD78
	dciPipeControl  = 0xDB80
	dciSingleRange  = 0xD964
	dciGlareFilter  = 0xE108

	// UI range-data settings block, read back after start to verify the
	// configured transfer size.
	dciRangeData = 0x5440

	// --- Result block headers (type:4 | size:12 | idx:16) ---

	bhStart        = 0x0000000D
	bhMetadata     = 0x54B400C0
	bhCommonData   = 0x54C00040
	bhAmbientRate  = 0x54D00104
	bhSpadCount    = 0x55D00404
	bhNbTarget     = 0xDB840401
	bhSignalRate   = 0xDBC40404
	bhRangeSigma   = 0xDEC40402
	bhDistance     = 0xDF440402
	bhReflectance  = 0xE0440401
	bhTargetStatus = 0xE0840401
	bhMotionDetect = 0xD85808C0

	// Block indexes (high 16 bits of a header) the decoder dispatches on.
	idxMetadata     = 0x54B4
	idxAmbientRate  = 0x54D0
	idxSpadCount    = 0x55D0
	idxNbTarget     = 0xDB84
	idxSignalRate   = 0xDBC4
	idxRangeSigma   = 0xDEC4
	idxDistance     = 0xDF44
	idxReflectance  = 0xE044
	idxTargetStatus = 0xE084

	// Per-zone blocks live in this index window; everything else in the
	// output list is sized per target.
	idxPerZoneFirst = 0x54D0
	idxPerZoneLast  = 0x54D0 + 960
)

// Vendor table sizes. The tables themselves are opaque inputs carried by a
// FirmwareBundle; only their lengths are fixed here.
const (
	FirmwareSize      = 0x15000
	DefaultConfigSize = 972
	XtalkSize         = 776
	NVMCommandSize    = 40

	offsetBufferSize = 488
	nvmDataSize      = 492
)
