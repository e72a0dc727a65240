package atlas

import "github.com/cespare/xxhash/v2"

// ContentHash is the strong, content-derived key the atlas uses to
// identify a tile's bitmap. Collisions are not guarded against — spec.md
// §9 calls for a hash wide enough (>=128 bits) that treating collision as
// impossible is a reasonable engineering tradeoff, the same tradeoff
// fragmenter.Fragger makes by trusting its much narrower uint32 fragment
// ids never collide within a session.
type ContentHash [16]byte

// Sum computes a ContentHash over b by running two independently seeded
// xxhash passes and concatenating their 64-bit digests. xxhash has no
// native 128-bit variant; doubling a fast 64-bit digest this way is the
// standard way to widen it for a use like this one, where throughput
// matters far more than cryptographic properties.
func Sum(b []byte) ContentHash {
	var h ContentHash
	lo := xxhash.Sum64(b)
	hi := xxhash.New()
	hi.Write(seedPrefix)
	hi.Write(b)
	hiSum := hi.Sum64()

	putUint64(h[0:8], lo)
	putUint64(h[8:16], hiSum)
	return h
}

// seedPrefix perturbs the second xxhash pass so it doesn't just reproduce
// the first digest's low bits for inputs shorter than the hasher's block
// size.
var seedPrefix = []byte("contour-atlas-v1")

func putUint64(b []byte, v uint64) {
	b[0] = byte(v)
	b[1] = byte(v >> 8)
	b[2] = byte(v >> 16)
	b[3] = byte(v >> 24)
	b[4] = byte(v >> 32)
	b[5] = byte(v >> 40)
	b[6] = byte(v >> 48)
	b[7] = byte(v >> 56)
}
