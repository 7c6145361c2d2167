//go:build amd64

package simd

import (
	"encoding/binary"

	"golang.org/x/sys/cpu"
)

// hasFastFold gates the wide-word fold path. SSE2 is baseline on amd64;
// the check keeps the dispatch shape shared with the other accelerated
// paths that do need feature detection.
var hasFastFold = cpu.X86.HasSSE2

// fastFoldThreshold is the minimum buffer length before the wide-word
// path pays for its setup cost.
const fastFoldThreshold = 32

const (
	foldOnes uint64 = 0x0101010101010101
	foldHigh uint64 = 0x8080808080808080
)

// foldUpperFast uppercases eight bytes per iteration, branchlessly. For
// each packed byte, the mask gets its high bit set iff the byte's low
// seven bits fall in 'a'..'z' and the byte's own high bit is clear; the
// per-byte additions cannot carry into a neighbor because both sums stay
// below 256. Flagged bytes have bit 5 cleared, which maps 'a'..'z' onto
// 'A'..'Z' and touches nothing else.
func foldUpperFast(dst, src []byte) {
	n := len(src)
	i := 0
	for ; i+8 <= n; i += 8 {
		v := binary.LittleEndian.Uint64(src[i:])
		l := v &^ foldHigh
		ge := l + foldOnes*(0x80-'a')
		le := l + foldOnes*(0x80-'z'-1)
		mask := (ge &^ le &^ v) & foldHigh
		binary.LittleEndian.PutUint64(dst[i:], v^(mask>>2))
	}
	for ; i < n; i++ {
		dst[i] = UpperTable[src[i]]
	}
}
