//go:build !amd64

package simd

// hasFastFold is always false on non-amd64 builds; FoldUpper uses the plain
// per-byte table lookup everywhere.
var hasFastFold = false

const fastFoldThreshold = 1 << 30

func foldUpperFast(dst, src []byte) {
	foldUpperGeneric(dst, src)
}
