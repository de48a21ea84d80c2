package workspace

import (
	"crypto/rand"
	"encoding/binary"
	"sync"
	"time"
)

// Panel event ids are ULIDs: 26-character Crockford Base32 strings with a
// millisecond timestamp prefix, so they sort in publish order.

var (
	ulidMu  sync.Mutex
	lastTS  uint64
	lastSeq uint16
)

const crockford = "0123456789ABCDEFGHJKMNPQRSTVWXYZ"

func newEventID() string {
	ulidMu.Lock()
	defer ulidMu.Unlock()

	ts := uint64(time.Now().UnixMilli())
	if ts == lastTS {
		lastSeq++
	} else {
		lastTS = ts
		lastSeq = 0
	}

	// 48-bit timestamp, 16-bit sequence, 64 random bits.
	var b [16]byte
	binary.BigEndian.PutUint64(b[:8], ts<<16|uint64(lastSeq))
	rand.Read(b[8:])

	return encode(b)
}

// encode writes the 128-bit value as 26 base32 digits, most significant
// first. The leading digit carries only the top 3 bits.
func encode(b [16]byte) string {
	hi := binary.BigEndian.Uint64(b[:8])
	lo := binary.BigEndian.Uint64(b[8:])

	var out [26]byte
	for i := len(out) - 1; i >= 0; i-- {
		out[i] = crockford[lo&31]
		lo = lo>>5 | hi<<59
		hi >>= 5
	}
	return string(out[:])
}
