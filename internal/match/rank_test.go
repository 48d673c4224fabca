package match

import (
	"context"
	"errors"
	"fmt"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/novapeople/match-engine/internal/domain"
)

// fakeInsight implements domain.InsightProvider for tests.
type fakeInsight struct {
	comment string
	err     error
	delay   time.Duration
	calls   atomic.Int32
}

func (f *fakeInsight) Comment(ctx context.Context, req domain.InsightRequest) (string, error) {
	f.calls.Add(1)
	if f.delay > 0 {
		select {
		case <-time.After(f.delay):
		case <-ctx.Done():
			return "", ctx.Err()
		}
	}
	if f.err != nil {
		return "", f.err
	}
	return f.comment, nil
}

func (f *fakeInsight) Health(context.Context) error { return nil }

func testJob() domain.JobDescriptor {
	return domain.JobDescriptor{
		ID:             "job-1",
		Title:          "Backend Engineer",
		FreeText:       "build services in Go with Kafka",
		RequiredSkills: []string{"Go", "Kafka"},
	}
}

func pool(n int) []domain.CandidateProfile {
	out := make([]domain.CandidateProfile, 0, n)
	for i := 0; i < n; i++ {
		out = append(out, domain.CandidateProfile{ID: fmt.Sprintf("cand-%03d", i)})
	}
	return out
}

func TestRank_SortedDescendingWithTieBreak(t *testing.T) {
	t.Parallel()
	// zz scores higher than the three identical empty candidates, which tie
	// and must come back in ascending candidate id order.
	candidates := []domain.CandidateProfile{
		{ID: "c"},
		{ID: "a"},
		{ID: "zz", FreeText: "build services in Go with Kafka", Skills: []string{"Go", "Kafka"}},
		{ID: "b"},
	}
	r := NewRanker(NewCalculator(), nil, RankerOptions{ScoreConcurrency: 4})
	list := r.Rank(context.Background(), testJob(), candidates, 10, false)

	require.Len(t, list.Items, 4)
	assert.Equal(t, "zz", list.Items[0].CandidateID)
	assert.Equal(t, "a", list.Items[1].CandidateID)
	assert.Equal(t, "b", list.Items[2].CandidateID)
	assert.Equal(t, "c", list.Items[3].CandidateID)
	for i := 1; i < len(list.Items); i++ {
		assert.LessOrEqual(t, list.Items[i].Score, list.Items[i-1].Score)
	}
}

func TestRank_DeterministicAcrossRunsAndConcurrency(t *testing.T) {
	t.Parallel()
	candidates := pool(200)
	job := testJob()

	baseline := NewRanker(NewCalculator(), nil, RankerOptions{ScoreConcurrency: 1}).
		Rank(context.Background(), job, candidates, 50, false)
	for _, conc := range []int{2, 8, 32} {
		got := NewRanker(NewCalculator(), nil, RankerOptions{ScoreConcurrency: conc}).
			Rank(context.Background(), job, candidates, 50, false)
		require.Equal(t, baseline.Items, got.Items, "concurrency %d changed the order", conc)
	}
}

func TestRank_TruncatesToLimit(t *testing.T) {
	t.Parallel()
	r := NewRanker(NewCalculator(), nil, RankerOptions{ScoreConcurrency: 4})
	list := r.Rank(context.Background(), testJob(), pool(30), 5, false)
	assert.Len(t, list.Items, 5)
	assert.Equal(t, 30, list.Stats.PoolSize)
}

func TestRank_EmptyPool(t *testing.T) {
	t.Parallel()
	r := NewRanker(NewCalculator(), nil, RankerOptions{})
	list := r.Rank(context.Background(), testJob(), nil, 5, false)
	assert.Empty(t, list.Items)
	assert.Equal(t, 0, list.Stats.PoolSize)
}

func TestRank_StatsSummarizeScoredPool(t *testing.T) {
	t.Parallel()
	candidates := []domain.CandidateProfile{
		{ID: "strong", FreeText: "build services in Go with Kafka", Skills: []string{"Go", "Kafka"}},
		{ID: "weak"},
	}
	r := NewRanker(NewCalculator(), nil, RankerOptions{})
	list := r.Rank(context.Background(), testJob(), candidates, 1, false)

	require.Len(t, list.Items, 1)
	assert.Equal(t, 2, list.Stats.PoolSize)
	assert.Equal(t, list.Items[0].Score, list.Stats.MaxScore)
	assert.Less(t, list.Stats.MinScore, list.Stats.MaxScore)
	assert.Greater(t, list.Stats.AverageScore, float64(list.Stats.MinScore))
}

func TestRank_EnrichmentAttachesInsight(t *testing.T) {
	t.Parallel()
	ins := &fakeInsight{comment: "solid skill coverage"}
	r := NewRanker(NewCalculator(), ins, RankerOptions{EnrichConcurrency: 2, EnrichTimeout: time.Second})
	list := r.Rank(context.Background(), testJob(), pool(3), 2, true)

	require.Len(t, list.Items, 2)
	for _, item := range list.Items {
		require.NotNil(t, item.Insight)
		assert.Equal(t, "solid skill coverage", *item.Insight)
	}
	// only the truncated shortlist gets enriched
	assert.Equal(t, int32(2), ins.calls.Load())
	assert.Equal(t, 2, list.Stats.EnrichedCount)
}

func TestRank_EnrichmentFailureLeavesRankingIntact(t *testing.T) {
	t.Parallel()
	job := testJob()
	candidates := pool(4)

	plain := NewRanker(NewCalculator(), nil, RankerOptions{}).
		Rank(context.Background(), job, candidates, 4, false)
	failing := &fakeInsight{err: errors.New("boom")}
	enriched := NewRanker(NewCalculator(), failing, RankerOptions{EnrichConcurrency: 4, EnrichTimeout: time.Second}).
		Rank(context.Background(), job, candidates, 4, true)

	require.Len(t, enriched.Items, len(plain.Items))
	for i := range plain.Items {
		assert.Nil(t, enriched.Items[i].Insight)
		// identical to the no-enrichment case except insight
		assert.Equal(t, plain.Items[i], enriched.Items[i])
	}
	assert.Equal(t, 0, enriched.Stats.EnrichedCount)
}

func TestRank_EnrichmentTimeoutDegradesToNil(t *testing.T) {
	t.Parallel()
	slow := &fakeInsight{comment: "too late", delay: 500 * time.Millisecond}
	r := NewRanker(NewCalculator(), slow, RankerOptions{EnrichConcurrency: 1, EnrichTimeout: 20 * time.Millisecond})
	list := r.Rank(context.Background(), testJob(), pool(1), 1, true)

	require.Len(t, list.Items, 1)
	assert.Nil(t, list.Items[0].Insight)
	assert.Equal(t, 0, list.Stats.EnrichedCount)
}

func TestRank_CancelledContextStillReturnsNumericRanking(t *testing.T) {
	t.Parallel()
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	ins := &fakeInsight{comment: "never used"}
	r := NewRanker(NewCalculator(), ins, RankerOptions{ScoreConcurrency: 4, EnrichConcurrency: 2, EnrichTimeout: time.Second})
	list := r.Rank(ctx, testJob(), pool(10), 5, true)

	require.Len(t, list.Items, 5)
	for _, item := range list.Items {
		assert.NotEmpty(t, item.CandidateID)
		assert.Nil(t, item.Insight)
	}
}

func TestMatch_SinglePair(t *testing.T) {
	t.Parallel()
	ins := &fakeInsight{comment: "good fit"}
	r := NewRanker(NewCalculator(), ins, RankerOptions{EnrichTimeout: time.Second})

	res := r.Match(context.Background(), testJob(), domain.CandidateProfile{ID: "c1", Skills: []string{"Go"}}, true)
	require.NotNil(t, res.Insight)
	assert.Equal(t, "good fit", *res.Insight)

	plain := r.Match(context.Background(), testJob(), domain.CandidateProfile{ID: "c1", Skills: []string{"Go"}}, false)
	assert.Nil(t, plain.Insight)
	assert.Equal(t, res.Score, plain.Score)
}
