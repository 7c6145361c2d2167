package detect

import (
	"bytes"

	"github.com/coregx/vigil/internal/simd"
)

// ContentOption is a literal (possibly case-insensitive, possibly
// negated) byte-pattern search, anchored either to an absolute offset in
// the buffer or relative to the cursor left behind by a preceding
// option.
type ContentOption struct {
	Pattern []byte // already uppercased if Nocase
	Raw []byte
	Nocase bool
	Negated bool
	Relative bool

	// Distance and Within bound a relative search: the match must start
	// at least Distance bytes after the cursor, and entirely within
	// Within bytes of it (0 means unbounded).
	Distance, Within int

	// Offset and Depth bound an absolute search from the start of the
	// buffer (0 means unbounded depth).
	Offset, Depth int
}

// NewContentOption builds a content option, uppercasing its pattern
// up-front when Nocase is set so Evaluate never folds case on the hot
// path.
func NewContentOption(pattern []byte, nocase, negated, relative bool, distance, within, offset, depth int) *ContentOption {
	c := &ContentOption{
		Raw: append([]byte(nil), pattern...),
		Nocase: nocase,
		Negated: negated,
		Relative: relative,
		Distance: distance,
		Within: within,
		Offset: offset,
		Depth: depth,
	}
	if nocase {
		c.Pattern = simd.FoldUpper(make([]byte, len(pattern)), pattern)
	} else {
		c.Pattern = c.Raw
	}
	return c
}

// Kind implements Option.
func (c *ContentOption) Kind() Kind { return KindContent }

// IsRelative implements Option.
func (c *ContentOption) IsRelative() bool { return c.Relative }

// Hash implements Option.
func (c *ContentOption) Hash() uint64 {
	h := uint64(1469598103934665603)
	mix := func(b byte) {
		h ^= uint64(b)
		h *= 1099511628211
	}
	for _, b := range c.Pattern {
		mix(b)
	}
	mix(boolByte(c.Nocase))
	mix(boolByte(c.Negated))
	mix(boolByte(c.Relative))
	mixInt := func(v int) {
		mix(byte(v))
		mix(byte(v >> 8))
		mix(byte(v >> 16))
		mix(byte(v >> 24))
	}
	mixInt(c.Distance)
	mixInt(c.Within)
	mixInt(c.Offset)
	mixInt(c.Depth)
	return h
}

// Equal implements Option.
func (c *ContentOption) Equal(other Option) bool {
	o, ok := other.(*ContentOption)
	if !ok {
		return false
	}
	return bytes.Equal(c.Pattern, o.Pattern) &&
		c.Nocase == o.Nocase && c.Negated == o.Negated && c.Relative == o.Relative &&
		c.Distance == o.Distance && c.Within == o.Within &&
		c.Offset == o.Offset && c.Depth == o.Depth
}

// Evaluate implements Option. On a successful (non-negated) match,
// cursor.Start is advanced to one byte past the match end, so descendant
// relative searches continue from there.
func (c *ContentOption) Evaluate(cursor *Cursor, pkt *PacketContext) EvalStatus {
	pos, found := c.search(cursor, 0)
	if c.Negated {
		if found {
			return NoMatch
		}
		return Match
	}
	if !found {
		return NoMatch
	}
	cursor.Start = pos + len(c.Pattern)
	cursor.Length = len(cursor.Buffer) - cursor.Start
	return Match
}

// Retry implements Retryable: it searches again starting past the
// previous match. A relative window slides with the advanced cursor,
// re-running the search the way Evaluate would see it; an absolute
// window stays anchored at the buffer start, so resuming from
// cursor.Start is what guarantees forward progress.
func (c *ContentOption) Retry(cursor *Cursor, orig *Cursor) bool {
	if c.Negated {
		return false
	}
	pos, found := c.search(cursor, cursor.Start)
	if !found {
		return false
	}
	cursor.Start = pos + len(c.Pattern)
	cursor.Length = len(cursor.Buffer) - cursor.Start
	return true
}

// search finds the next occurrence of Pattern in cursor's buffer,
// honoring the relative/absolute window this option was configured
// with, and returns the absolute byte offset of the match start. The
// search never starts before resume.
func (c *ContentOption) search(cursor *Cursor, resume int) (int, bool) {
	buf := cursor.Buffer
	var lo, hi int
	if c.Relative {
		lo = cursor.Start + c.Distance
		if c.Within > 0 {
			hi = cursor.Start + c.Within
		} else {
			hi = len(buf)
		}
	} else {
		lo = c.Offset
		if c.Depth > 0 {
			hi = c.Offset + c.Depth
		} else {
			hi = len(buf)
		}
	}
	if lo < resume {
		lo = resume
	}
	if lo < 0 {
		lo = 0
	}
	if hi > len(buf) {
		hi = len(buf)
	}
	if lo >= hi || lo > len(buf) {
		return 0, false
	}

	window := buf[lo:hi]
	if c.Nocase {
		folded := simd.FoldUpper(make([]byte, len(window)), window)
		idx := bytes.Index(folded, c.Pattern)
		if idx < 0 {
			return 0, false
		}
		return lo + idx, true
	}
	idx := bytes.Index(window, c.Pattern)
	if idx < 0 {
		return 0, false
	}
	return lo + idx, true
}

func boolByte(b bool) byte {
	if b {
		return 1
	}
	return 0
}
