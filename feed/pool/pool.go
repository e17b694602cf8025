package pool

import (
	"context"
	"encoding/hex"
	"sort"

	"github.com/armon/go-metrics"
	cmap "github.com/orcaman/concurrent-map/v2"

	feedlog "github.com/foresta-global/pricefeed/feed/log"
	"github.com/foresta-global/pricefeed/x/pricefeed/types"
)

// CheckFunc is the validity predicate the pool runs before admitting a
// submission. It is pure over a state snapshot, so the pool may evaluate
// candidates concurrently.
type CheckFunc func(sub types.Submission, source types.Source) (types.Validity, error)

type entry struct {
	sub      types.Submission
	validity types.Validity
}

// Pool holds candidate price submissions between validity checking and block
// inclusion. Entries are keyed by the uniqueness tag, so two submissions for
// the same (submitter, height) collide and the most recent wins.
type Pool struct {
	check   CheckFunc
	entries cmap.ConcurrentMap[string, entry]
}

func New(check CheckFunc) *Pool {
	return &Pool{
		check:   check,
		entries: cmap.New[entry](),
	}
}

// Add validates a submission and admits it. Rejections are returned to the
// caller as the structured validity error, never a panic.
func (p *Pool) Add(sub types.Submission, source types.Source) error {
	validity, err := p.check(sub, source)
	if err != nil {
		metrics.IncrCounter([]string{"feed", "pool", "rejected"}, 1)
		return err
	}

	tag := hex.EncodeToString(validity.UniqueTag)
	if _, replaced := p.entries.Get(tag); replaced {
		feedlog.Debugf("replacing pool entry %s", tag)
	}
	p.entries.Set(tag, entry{sub: sub, validity: validity})

	metrics.IncrCounter([]string{"feed", "pool", "accepted"}, 1)
	metrics.SetGauge([]string{"feed", "pool", "size"}, float32(p.entries.Count()))

	return nil
}

// SubmitPrice implements the pool client contract for the local worker.
func (p *Pool) SubmitPrice(_ context.Context, sub types.Submission) error {
	return p.Add(sub, types.SourceLocal)
}

// Len returns the number of pending submissions.
func (p *Pool) Len() int {
	return p.entries.Count()
}

// PopReady drains all pending submissions ordered by descending priority,
// ready for block inclusion.
func (p *Pool) PopReady() []types.Submission {
	drained := make([]entry, 0, p.entries.Count())
	for tag, e := range p.entries.Items() {
		drained = append(drained, e)
		p.entries.Remove(tag)
	}

	sort.Slice(drained, func(i, j int) bool {
		return drained[i].validity.Priority > drained[j].validity.Priority
	})

	subs := make([]types.Submission, len(drained))
	for i, e := range drained {
		subs[i] = e.sub
	}

	metrics.SetGauge([]string{"feed", "pool", "size"}, float32(p.entries.Count()))
	return subs
}

// PruneExpired drops submissions whose longevity has run out at the given
// height.
func (p *Pool) PruneExpired(height int64) {
	for tag, e := range p.entries.Items() {
		if e.sub.Payload.BlockNumber+e.validity.Longevity < height {
			p.entries.Remove(tag)
			metrics.IncrCounter([]string{"feed", "pool", "expired"}, 1)
		}
	}

	metrics.SetGauge([]string{"feed", "pool", "size"}, float32(p.entries.Count()))
}
