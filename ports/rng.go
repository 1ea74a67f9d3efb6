package ports

import (
	"golang.org/x/exp/rand"
)

// StreamFactory provides seeded random number generation for deterministic
// simulation runs. Each (project, chunk) pair gets its own independent
// stream, so the aggregated result is identical for a given seed regardless
// of how chunks are scheduled across workers.
type StreamFactory interface {
	// Stream returns a deterministic random source for one iteration chunk
	// of one project's simulation.
	Stream(projectID string, chunk int) rand.Source

	// Seed returns the base seed the factory derives its streams from.
	Seed() int64
}
