// Package rng provides the deterministic stream factory backing the Monte
// Carlo engine. Stream seeds are hash-derived from the base seed, the project
// identifier, and the chunk index, so a run's draws do not depend on worker
// scheduling.
package rng

import (
	"encoding/binary"
	"hash/fnv"

	"golang.org/x/exp/rand"

	"bimrov/ports"
)

// HashedStreamFactory derives one independent PCG source per (project, chunk)
// pair via FNV-1a over the base seed and the stream coordinates.
type HashedStreamFactory struct {
	baseSeed int64
}

// NewHashedStreamFactory creates a factory for the given base seed.
func NewHashedStreamFactory(baseSeed int64) *HashedStreamFactory {
	return &HashedStreamFactory{baseSeed: baseSeed}
}

var _ ports.StreamFactory = (*HashedStreamFactory)(nil)

// Stream returns the deterministic source for one simulation chunk.
func (f *HashedStreamFactory) Stream(projectID string, chunk int) rand.Source {
	h := fnv.New64a()

	var buf [8]byte
	binary.LittleEndian.PutUint64(buf[:], uint64(f.baseSeed))
	h.Write(buf[:])

	h.Write([]byte(projectID))

	binary.LittleEndian.PutUint64(buf[:], uint64(chunk))
	h.Write(buf[:])

	return rand.NewSource(h.Sum64())
}

// Seed returns the base seed.
func (f *HashedStreamFactory) Seed() int64 {
	return f.baseSeed
}
