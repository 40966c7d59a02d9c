package ingest

import (
	"context"
	"fmt"

	"github.com/podsift/podsift/app/database"
	"github.com/podsift/podsift/app/feed"
)

// Plan is the minimal set of freshly parsed episodes that are genuinely new
// for a feed.
type Plan struct {
	ToInsert []feed.Episode
	NewCount int
}

// Planner computes upsert plans by comparing parsed episode GUIDs against
// what the store already holds. Identity is GUID only; the ephemeral
// parse-time IDs are never compared. Lookups run in fixed-size batches to
// respect store query limits, which also keeps a refresh idempotent: a feed
// whose items have not changed plans zero inserts.
type Planner struct {
	episodes  database.EpisodeStore
	batchSize int
}

func NewPlanner(episodes database.EpisodeStore, batchSize int) *Planner {
	if batchSize <= 0 {
		batchSize = 50
	}
	return &Planner{episodes: episodes, batchSize: batchSize}
}

// Run partitions episodes into batches, queries the persisted GUID set per
// batch and keeps the difference. An empty input returns an empty plan
// without touching the store.
func (p *Planner) Run(ctx context.Context, feedID string, episodes []feed.Episode) (*Plan, error) {
	plan := &Plan{}
	if len(episodes) == 0 {
		return plan, nil
	}

	for start := 0; start < len(episodes); start += p.batchSize {
		end := min(start+p.batchSize, len(episodes))
		batch := episodes[start:end]

		guids := make([]string, 0, len(batch))
		for _, e := range batch {
			guids = append(guids, e.GUID)
		}

		existing, err := p.episodes.FindEpisodeGUIDs(ctx, feedID, guids)
		if err != nil {
			return nil, fmt.Errorf("failed to look up persisted episodes: %w", err)
		}

		for _, e := range batch {
			if _, ok := existing[e.GUID]; !ok {
				plan.ToInsert = append(plan.ToInsert, e)
			}
		}
	}

	plan.NewCount = len(plan.ToInsert)
	return plan, nil
}

// Batches splits the planned inserts into store-sized chunks.
func (p *Planner) Batches(plan *Plan) [][]feed.Episode {
	var batches [][]feed.Episode
	for start := 0; start < len(plan.ToInsert); start += p.batchSize {
		end := min(start+p.batchSize, len(plan.ToInsert))
		batches = append(batches, plan.ToInsert[start:end])
	}
	return batches
}
