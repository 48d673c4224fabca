package match

import (
	"context"
	"log/slog"
	"sort"
	"sync/atomic"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/novapeople/match-engine/internal/domain"
	"github.com/novapeople/match-engine/internal/observability"
)

// RankerOptions bound the worker pools and the per-call enrichment timeout.
type RankerOptions struct {
	// ScoreConcurrency caps parallel score computations; <=0 means sequential.
	ScoreConcurrency int
	// EnrichConcurrency caps parallel insight calls; <=0 disables parallelism.
	EnrichConcurrency int
	// EnrichTimeout bounds each insight call; <=0 falls back to 10s.
	EnrichTimeout time.Duration
}

// Ranker applies the score calculator across a candidate pool for one job and
// produces a deterministically ordered, truncated shortlist. Scoring is pure
// and side-effect free per candidate, so the pool is processed in parallel;
// the final sort makes the parallelism invisible in the output.
//
// The insight provider is optional and strictly additive: its unavailability
// can never corrupt or block the numeric ranking.
type Ranker struct {
	calc    Calculator
	insight domain.InsightProvider
	opts    RankerOptions
}

// NewRanker constructs a Ranker. insight may be nil to disable enrichment.
func NewRanker(calc Calculator, insight domain.InsightProvider, opts RankerOptions) *Ranker {
	if opts.EnrichTimeout <= 0 {
		opts.EnrichTimeout = 10 * time.Second
	}
	return &Ranker{calc: calc, insight: insight, opts: opts}
}

// Rank scores every candidate against the job, sorts by score descending with
// ascending candidate id as the tie break, truncates to limit and, when enrich
// is set and a provider is configured, attaches insights to the surviving
// items. Enrichment failures degrade the item to a nil insight.
func (r *Ranker) Rank(ctx context.Context, job domain.JobDescriptor, candidates []domain.CandidateProfile, limit int, enrich bool) domain.RankedList {
	results := make([]domain.MatchResult, len(candidates))

	// Scoring is pure CPU work and always runs to completion, even when the
	// request is cancelled mid-flight: the numeric ranking is returned
	// regardless and only enrichment gets abandoned.
	var g errgroup.Group
	if r.opts.ScoreConcurrency > 0 {
		g.SetLimit(r.opts.ScoreConcurrency)
	} else {
		g.SetLimit(1)
	}
	for i, c := range candidates {
		g.Go(func() error {
			results[i] = r.calc.Score(job, c)
			return nil
		})
	}
	_ = g.Wait()

	sort.Slice(results, func(i, j int) bool {
		if results[i].Score != results[j].Score {
			return results[i].Score > results[j].Score
		}
		return results[i].CandidateID < results[j].CandidateID
	})

	stats := poolStats(results)

	if limit > 0 && len(results) > limit {
		results = results[:limit]
	}

	list := domain.RankedList{JobID: job.ID, JobTitle: job.Title, Items: results, Stats: stats}

	if enrich && r.insight != nil && ctx.Err() == nil {
		list.Stats.EnrichedCount = r.enrichAll(ctx, job, candidates, list.Items)
	}
	return list
}

// Match scores a single pair, optionally enriched. The numeric result is
// computed before any I/O happens.
func (r *Ranker) Match(ctx context.Context, job domain.JobDescriptor, candidate domain.CandidateProfile, enrich bool) domain.MatchResult {
	res := r.calc.Score(job, candidate)
	if enrich && r.insight != nil {
		r.enrichOne(ctx, job, candidate, &res)
	}
	return res
}

// enrichAll attaches insights to the already-sorted items with bounded
// concurrency. In-flight calls are abandoned on cancellation; the ranking is
// returned regardless. Returns the number of items actually enriched.
func (r *Ranker) enrichAll(ctx context.Context, job domain.JobDescriptor, candidates []domain.CandidateProfile, items []domain.MatchResult) int {
	byID := make(map[string]domain.CandidateProfile, len(candidates))
	for _, c := range candidates {
		byID[c.ID] = c
	}

	var enriched atomic.Int64
	g, gctx := errgroup.WithContext(ctx)
	if r.opts.EnrichConcurrency > 0 {
		g.SetLimit(r.opts.EnrichConcurrency)
	} else {
		g.SetLimit(1)
	}
	for i := range items {
		g.Go(func() error {
			candidate, ok := byID[items[i].CandidateID]
			if !ok {
				return nil
			}
			if r.enrichOne(gctx, job, candidate, &items[i]) {
				enriched.Add(1)
			}
			return nil
		})
	}
	_ = g.Wait()
	return int(enriched.Load())
}

// enrichOne performs a single bounded insight call. Failures are logged once
// and leave the result unchanged except Insight == nil.
func (r *Ranker) enrichOne(ctx context.Context, job domain.JobDescriptor, candidate domain.CandidateProfile, res *domain.MatchResult) bool {
	callCtx, cancel := context.WithTimeout(ctx, r.opts.EnrichTimeout)
	defer cancel()

	comment, err := r.insight.Comment(callCtx, domain.InsightRequest{
		Job:           job,
		Candidate:     candidate,
		MatchedSkills: res.MatchedRequiredSkills,
		MissingSkills: res.MissingRequiredSkills,
		MatchScore:    res.Score,
	})
	if err != nil {
		observability.LoggerFromContext(ctx).Warn("insight enrichment failed",
			slog.String("job_id", job.ID),
			slog.String("candidate_id", candidate.ID),
			slog.Any("error", err))
		res.Insight = nil
		return false
	}
	res.Insight = &comment
	return true
}

func poolStats(results []domain.MatchResult) domain.RankedStats {
	stats := domain.RankedStats{PoolSize: len(results)}
	if len(results) == 0 {
		return stats
	}
	sum := 0
	stats.MinScore = results[0].Score
	stats.MaxScore = results[0].Score
	for _, res := range results {
		sum += res.Score
		if res.Score < stats.MinScore {
			stats.MinScore = res.Score
		}
		if res.Score > stats.MaxScore {
			stats.MaxScore = res.Score
		}
	}
	stats.AverageScore = float64(sum) / float64(len(results))
	return stats
}
