package detect

// Cursor is a (buffer, start offset, length) view passed by value into
// each option's Evaluate call. Relative content searches advance Start
// within Buffer; the underlying array is never copied.
type Cursor struct {
	Buffer []byte
	Start int
	Length int
}

// NewCursor creates a cursor covering the whole of buffer.
func NewCursor(buffer []byte) Cursor {
	return Cursor{Buffer: buffer, Start: 0, Length: len(buffer)}
}

// View returns the byte range the cursor currently covers.
func (c Cursor) View() []byte {
	if c.Start < 0 || c.Length < 0 || c.Start > len(c.Buffer) {
		return nil
	}
	end := c.Start + c.Length
	if end > len(c.Buffer) {
		end = len(c.Buffer)
	}
	if end < c.Start {
		return nil
	}
	return c.Buffer[c.Start:end]
}

// Remaining returns the number of bytes left in the cursor's view.
func (c Cursor) Remaining() int {
	v := c.View()
	return len(v)
}
