package tilemap

// Tiled global tile id flags.
const (
	flipHorizontal = 1 << 31
	flipVertical   = 1 << 30
	rawIDMask      = 0x1fffffff
)

// Runtime tile id layout: 10 bits of tile, then one bit per flip.
const (
	// TileBank is the number of tiles addressable by a runtime id. Raw ids
	// wrap around it, so ids 112 apart share a runtime id.
	TileBank = 112

	FlipX  = 1 << 10
	FlipY  = 1 << 11
	IDMask = 0x3ff
)

// RuntimeID converts a Tiled global tile id into a runtime tile id.
func RuntimeID(gid uint32) uint16 {
	id := uint16((gid & rawIDMask) % TileBank)
	if gid&flipHorizontal != 0 {
		id += FlipX
	}
	if gid&flipVertical != 0 {
		id += FlipY
	}
	return id
}
