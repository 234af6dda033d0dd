package cache

import (
	"encoding/binary"
	"fmt"
	"math"

	"github.com/memorylane/dailyquestion/pkg/domain/embedding"
)

// Vectors are stored as little-endian float64s.
func encodeVector(v embedding.Vector) []byte {
	buf := make([]byte, 8*len(v))
	for i, f := range v {
		binary.LittleEndian.PutUint64(buf[i*8:], math.Float64bits(f))
	}
	return buf
}

func decodeVector(raw []byte) (embedding.Vector, error) {
	if len(raw) == 0 || len(raw)%8 != 0 {
		return nil, fmt.Errorf("corrupt embedding entry of %d bytes", len(raw))
	}
	v := make(embedding.Vector, len(raw)/8)
	for i := range v {
		v[i] = math.Float64frombits(binary.LittleEndian.Uint64(raw[i*8:]))
	}
	return v, nil
}
