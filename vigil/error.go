package vigil

import "fmt"

// ErrThreadOutOfRange is returned by ScanPacket when Packet.ThreadID falls
// outside [0, ThreadCount).
type ErrThreadOutOfRange struct {
	ThreadID int
	ThreadCount int
}

func (e *ErrThreadOutOfRange) Error() string {
	return fmt.Sprintf("vigil: thread id %d out of range [0, %d)", e.ThreadID, e.ThreadCount)
}
