package protocol

import (
	"crypto/rand"
	"encoding/binary"
	"sync/atomic"
)

var sessionSeq int64

// NewSessionID returns a process-unique websocket session id: a sequence
// number in the high bits and random noise in the low 16.
func NewSessionID() int64 {
	base := atomic.AddInt64(&sessionSeq, 1)
	var b [2]byte
	_, _ = rand.Read(b[:])
	return (base << 16) | int64(binary.BigEndian.Uint16(b[:]))
}
