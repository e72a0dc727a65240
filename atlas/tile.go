package atlas

import "math"

// TileID is a 32-bit identifier that encodes a tile slot's (x, y)
// coordinates, in tile units, with y in the upper 16 bits and x in the
// lower 16, per spec.md §3. A renderer holding only a TileID can compute
// the tile's pixel origin via Pixel without knowing the atlas's
// dimensions.
type TileID uint32

// NewTileID packs tile-unit coordinates into a TileID.
func NewTileID(x, y uint16) TileID {
	return TileID(uint32(y)<<16 | uint32(x))
}

// X returns the tile-unit column.
func (t TileID) X() uint16 { return uint16(t & 0xffff) }

// Y returns the tile-unit row.
func (t TileID) Y() uint16 { return uint16(t >> 16) }

// Pixel returns the tile's pixel origin for a given tile size.
func (t TileID) Pixel(tileSize int) Location {
	return Location{X: int(t.X()) * tileSize, Y: int(t.Y()) * tileSize}
}

// Location is a pixel-space (x, y) offset into the atlas texture.
type Location struct {
	X, Y int
}

// Size is a pixel-space (width, height) extent.
type Size struct {
	Width, Height int
}

// dims derives the atlas's tile grid geometry from the requested slot
// count, per spec.md §4.2.1: the grid is a power-of-two square of tiles
// just large enough to hold every requested slot.
func dims(totalSlots int) (tilesPerEdge int) {
	if totalSlots < 1 {
		totalSlots = 1
	}
	n := nextPow2(totalSlots)
	side := int(math.Ceil(math.Sqrt(float64(n))))
	return nextPow2(side)
}

// nextPow2 returns the smallest power of two >= n (n >= 1).
func nextPow2(n int) int {
	if n <= 1 {
		return 1
	}
	p := 1
	for p < n {
		p <<= 1
	}
	return p
}

// tileLocations precomputes the pixel origin of every slot index in a
// tilesInX x tilesInY grid, per spec.md §3: slot i sits at grid position
// (i % tilesInX, i / tilesInX).
func tileLocations(tilesInX, total, tileSize int) []Location {
	locs := make([]Location, total)
	for i := range locs {
		gx, gy := i%tilesInX, i/tilesInX
		locs[i] = Location{X: gx * tileSize, Y: gy * tileSize}
	}
	return locs
}
