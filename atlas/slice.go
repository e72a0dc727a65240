package atlas

import "math"

// Slice describes one tile-width-or-narrower column range of a wider
// bitmap, so a renderer can upload each slice as its own tile with its own
// content hash, per spec.md §4.2.5.
type Slice struct {
	Index  int
	BeginX int
	EndX   int
}

// Slices covers [offsetX, bitmapWidth) in tileWidth-sized steps, the same
// ceil-division chunking fragmenter.Fragger.CreateFragments uses to split
// a byte payload into fixed-size fragments, generalized here from byte
// offsets to pixel-column offsets.
func Slices(offsetX, bitmapWidth, tileWidth int) []Slice {
	if tileWidth <= 0 || bitmapWidth <= offsetX {
		return nil
	}

	remaining := bitmapWidth - offsetX
	total := int(math.Ceil(float64(remaining) / float64(tileWidth)))
	slices := make([]Slice, total)

	for i := 0; i < total; i++ {
		begin := offsetX + i*tileWidth
		end := begin + tileWidth
		if end > bitmapWidth {
			end = bitmapWidth
		}
		slices[i] = Slice{Index: i, BeginX: begin, EndX: end}
	}

	return slices
}
