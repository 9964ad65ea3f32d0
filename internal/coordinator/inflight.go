package coordinator

import (
	"fmt"

	rendezvous "github.com/dgryski/go-rendezvous"
	"github.com/cespare/xxhash/v2"
	"golang.org/x/sync/singleflight"
)

// shardCount partitions the in-flight registry across independent
// singleflight.Group instances. A single Group's internal mutex is held
// for the O(1) map lookup on every Do/DoChan call; sharding by
// fingerprint keeps that critical section short under high concurrent
// fanout across many distinct fingerprints, at the cost of two requests
// with different fingerprints never being able to observe each other's
// group (which spec.md never requires — ordering across fingerprints is
// explicitly unconstrained).
const shardCount = 16

// shardedFlight is spec.md §5's "in-flight registry (mutex-protected map
// keyed by fingerprint)", implemented as shardCount independent
// singleflight.Group values selected by rendezvous (highest random
// weight) hashing, so a given fingerprint always maps to the same shard,
// and a change in shardCount moves only the fingerprints whose
// highest-weight shard was added or removed.
type shardedFlight struct {
	shards   []*singleflight.Group
	nodes    []string
	rv       *rendezvous.Rendezvous
	nodeIdx  map[string]int
}

func newShardedFlight() *shardedFlight {
	nodes := make([]string, shardCount)
	idx := make(map[string]int, shardCount)
	shards := make([]*singleflight.Group, shardCount)
	for i := 0; i < shardCount; i++ {
		name := fmt.Sprintf("shard-%d", i)
		nodes[i] = name
		idx[name] = i
		shards[i] = &singleflight.Group{}
	}
	return &shardedFlight{
		shards:  shards,
		nodes:   nodes,
		rv:      rendezvous.New(nodes, xxhash.Sum64String),
		nodeIdx: idx,
	}
}

// groupFor returns the singleflight.Group that owns fingerprint.
func (f *shardedFlight) groupFor(fingerprint string) *singleflight.Group {
	node := f.rv.Lookup(fingerprint)
	return f.shards[f.nodeIdx[node]]
}
