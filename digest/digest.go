// Package digest implements the non-standard MD5 variant used to sign
// blueprint text envelopes. It deliberately does not
// delegate to crypto/md5: eight of the round constants and two of the
// initial state words are altered from the standard algorithm, so any
// bit-for-bit-compliant MD5 implementation produces the wrong answer.
package digest

import "encoding/hex"

const (
	blockSize  = 64
	digestSize = 16
)

// shiftAmounts are the standard MD5 per-round left-rotate amounts.
var shiftAmounts = [64]uint32{
	7, 12, 17, 22, 7, 12, 17, 22, 7, 12, 17, 22, 7, 12, 17, 22,
	5, 9, 14, 20, 5, 9, 14, 20, 5, 9, 14, 20, 5, 9, 14, 20,
	4, 11, 16, 23, 4, 11, 16, 23, 4, 11, 16, 23, 4, 11, 16, 23,
	6, 10, 15, 21, 6, 10, 15, 21, 6, 10, 15, 21, 6, 10, 15, 21,
}

// roundConstants are floor(2^32 * abs(sin(i+1))) for i in [0,64), with
// eight entries altered by a single hex digit from the standard values
// (see the per-line comments; this is the "buggy" part of the variant).
var roundConstants = [64]uint32{
	0xd76aa478, 0xe8d7b756, 0x242070db, 0xc1bdceee, // [1]: c7->d7
	0xf57c0faf, 0x4787c62a, 0xa8304623, 0xfd469501, // [6]: ...13->23
	0x698098d8, 0x8b44f7af, 0xffff5bb1, 0x895cd7be,
	0x6b9f1122, 0xfd987193, 0xa679438e, 0x39b40821, // [12]: 6b90->6b9f, [15]: 49b4->39b4
	0xf61e2562, 0xc040b340, 0x265e5a51, 0xc9b6c7aa, // [19]: e9b6c7aa->c9b6c7aa
	0xd62f105d, 0x02443453, 0xd8a1e681, 0xe7d3fbc8, // [21]: 1453->3453
	0x21f1cde6, 0xc33707d6, 0xf4d50d87, 0x475a14ed, // [24]: 21e1->21f1, [27]: 455a->475a
	0xa9e3e905, 0xfcefa3f8, 0x676f02d9, 0x8d2a4c8a,
	0xfffa3942, 0x8771f681, 0x6d9d6122, 0xfde5380c,
	0xa4beea44, 0x4bdecfa9, 0xf6bb4b60, 0xbebfbc70,
	0x289b7ec6, 0xeaa127fa, 0xd4ef3085, 0x04881d05,
	0xd9d4d039, 0xe6db99e5, 0x1fa27cf8, 0xc4ac5665,
	0xf4292244, 0x432aff97, 0xab9423a7, 0xfc93a039,
	0x655b59c3, 0x8f0ccc92, 0xffeff47d, 0x85845dd1,
	0x6fa87e4f, 0xfe2ce6e0, 0xa3014314, 0x4e0811a1,
	0xf7537e82, 0xbd3af235, 0x2ad7d2bb, 0xeb86d391,
}

// Altered initial state: b0 and d0 each differ from the standard MD5
// initial state by one swapped hex digit pair.
const (
	a0init uint32 = 0x67452301
	b0init uint32 = 0xefdcab89 // standard: 0xefcdab89
	c0init uint32 = 0x98badcfe
	d0init uint32 = 0x10325746 // standard: 0x10325476
)

// Digest accumulates input and produces the altered-MD5 signature.
type Digest struct {
	a, b, c, d uint32
}

// New returns a Digest primed with the variant's initial state.
func New() *Digest {
	return &Digest{a: a0init, b: b0init, c: c0init, d: d0init}
}

// Sum computes the full digest of data in one call and returns its
// lowercase hex encoding.
func Sum(data []byte) string {
	d := New()
	d.Write(data)
	return d.HexDigest()
}

// Write feeds data through the variant algorithm. Unlike hash.Hash, it is
// not safe to call incrementally with partial blocks across calls; pass
// the complete message in one Write (mirroring the reference
// implementation, which only ever hashes a single bytes object).
func (d *Digest) Write(data []byte) {
	padded := pad(data)
	for offset := 0; offset < len(padded); offset += blockSize {
		d.processBlock(padded[offset : offset+blockSize])
	}
}

func pad(data []byte) []byte {
	origLenBits := uint64(len(data)) * 8
	out := make([]byte, len(data), len(data)+72)
	copy(out, data)
	out = append(out, 0x80)
	for len(out)%blockSize != 56 {
		out = append(out, 0)
	}
	var lenBuf [8]byte
	for i := 0; i < 8; i++ {
		lenBuf[i] = byte(origLenBits >> (8 * i))
	}
	out = append(out, lenBuf[:]...)
	return out
}

func (d *Digest) processBlock(chunk []byte) {
	a, b, c, d2 := d.a, d.b, d.c, d.d

	for i := 0; i < 64; i++ {
		var f uint32
		var g int
		switch {
		case i <= 15:
			f = (b & c) | (^b & d2)
			g = i
		case i <= 31:
			f = (b & d2) | (c &^ d2)
			g = (5*i + 1) % 16
		case i <= 47:
			f = b ^ c ^ d2
			g = (3*i + 5) % 16
		default:
			f = c ^ (b | ^d2)
			g = (7 * i) % 16
		}

		word := readUint32LE(chunk[4*g : 4*g+4])
		toRotate := a + f + roundConstants[i] + word
		newB := b + leftRotate(toRotate, shiftAmounts[i])
		a, b, c, d2 = d2, newB, b, c
	}

	d.a += a
	d.b += b
	d.c += c
	d.d += d2
}

func leftRotate(x, n uint32) uint32 {
	return (x << n) | (x >> (32 - n))
}

func readUint32LE(b []byte) uint32 {
	return uint32(b[0]) | uint32(b[1])<<8 | uint32(b[2])<<16 | uint32(b[3])<<24
}

// HexDigest returns the accumulated digest as lowercase hex, in the same
// byte order the original's int.from_bytes/to_bytes round trip produces:
// each 32-bit word little-endian, words in a,b,c,d order.
func (d *Digest) HexDigest() string {
	raw := make([]byte, 0, digestSize)
	for _, word := range [4]uint32{d.a, d.b, d.c, d.d} {
		raw = append(raw, byte(word), byte(word>>8), byte(word>>16), byte(word>>24))
	}
	return hex.EncodeToString(raw)
}
