package vl53l5cx

import "encoding/binary"

// GetRangingData collects the sensor's current frame into out. Call it once
// CheckDataReady reports true; calling it again before the next frame simply
// re-reads the same one. The collected frame marks the stream position, so
// CheckDataReady stays false until the sensor produces a newer frame.
func (d *Device) GetRangingData(out *Frame) error {
	if err := d.requireRanging(); err != nil {
		return err
	}
	buf := d.temp[:d.dataReadSize]
	if err := d.p.ReadBytes(0x0000, buf); err != nil {
		return err
	}
	d.streamCount = buf[0]
	d.p.SwapBuffer(buf)
	return decodeFrame(buf, d.resolution, out)
}

// DecodeRawFrame decodes one raw result packet, as read from the sensor's
// result window, into out. raw is byte-swapped in place. It serves replay
// and post-processing of recorded packets; live acquisition goes through
// GetRangingData.
func DecodeRawFrame(raw []byte, res Resolution, out *Frame) error {
	if len(raw) < 20 {
		return ErrCorruptFrame
	}
	SwapBuffer(raw)
	return decodeFrame(raw, res, out)
}

// decodeFrame walks the block list of a raw, already byte-swapped result
// packet. Blocks are dispatched by index; unknown indexes and disabled
// categories are skipped. Only the active zones of the session's grid are
// written, so a frame downsized from 8x8 to 4x4 keeps no stale tail in view.
func decodeFrame(buf []byte, res Resolution, out *Frame) error {
	zones := res.Zones()
	out.resolution = res

	for i := 16; i+4 <= len(buf); i += 4 {
		bh := binary.LittleEndian.Uint32(buf[i:])
		btype := int(bh & 0xf)
		bsize := int(bh >> 4 & 0xfff)
		msize := bsize
		if btype > 0x1 && btype < 0xd {
			msize = btype * bsize
		}
		if i+4+msize > len(buf) {
			return ErrCorruptFrame
		}
		payload := buf[i+4 : i+4+msize]

		switch uint16(bh >> 16) {
		case idxMetadata:
			if msize < 12 {
				return ErrCorruptFrame
			}
			out.silicon = int8(payload[8])
		case idxAmbientRate:
			if msize < 4*zones {
				return ErrCorruptFrame
			}
			out.captureAmbientPerSPAD(payload, zones)
		case idxSpadCount:
			if msize < 4*zones {
				return ErrCorruptFrame
			}
			out.captureSPADsEnabled(payload, zones)
		case idxNbTarget:
			if msize < zones {
				return ErrCorruptFrame
			}
			out.captureTargetsDetected(payload, zones)
		case idxSignalRate:
			if msize < 4*zones*MaxTargetsPerZone {
				return ErrCorruptFrame
			}
			out.captureSignalPerSPAD(payload, zones, MaxTargetsPerZone)
		case idxRangeSigma:
			if msize < 2*zones*MaxTargetsPerZone {
				return ErrCorruptFrame
			}
			out.captureRangeSigma(payload, zones, MaxTargetsPerZone)
		case idxDistance:
			if msize < 2*zones*MaxTargetsPerZone {
				return ErrCorruptFrame
			}
			out.captureDistance(payload, zones, MaxTargetsPerZone)
		case idxReflectance:
			if msize < zones*MaxTargetsPerZone {
				return ErrCorruptFrame
			}
			out.captureReflectance(payload, zones, MaxTargetsPerZone)
		case idxTargetStatus:
			if msize < zones*MaxTargetsPerZone {
				return ErrCorruptFrame
			}
			out.captureTargetStatus(payload, zones, MaxTargetsPerZone)
		}
		i += msize
	}

	// Zones with no detected target still carry whatever the firmware left
	// in the other categories. Overwrite their status so stale values
	// cannot pass for measurements.
	for z := 0; z < zones; z++ {
		if n, ok := out.targetsDetectedAt(z); ok && n == 0 {
			out.markNoTarget(z, MaxTargetsPerZone)
		}
	}
	return nil
}
