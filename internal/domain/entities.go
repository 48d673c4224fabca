// Package domain holds the core entities and ports of the matching engine.
package domain

import (
	"context"
	"errors"
)

// Error taxonomy (sentinels)
var (
	ErrInvalidArgument     = errors.New("invalid argument")
	ErrNotFound            = errors.New("not found")
	ErrUpstreamTimeout     = errors.New("upstream timeout")
	ErrUpstreamUnavailable = errors.New("upstream unavailable")
	ErrInternal            = errors.New("internal error")
)

// JobDescriptor describes one open position for the duration of a ranking run.
// FreeText is the concatenated description; RequiredSkills and NiceToHaveSkills
// keep the recruiter's display casing, comparison happens on the canonical form.
type JobDescriptor struct {
	ID               string   `json:"id"`
	Title            string   `json:"title"`
	FreeText         string   `json:"freeText"`
	RequiredSkills   []string `json:"requiredSkills"`
	NiceToHaveSkills []string `json:"niceToHaveSkills"`
	Responsibilities []string `json:"responsibilities,omitempty"`
}

// CandidateProfile is one applicant's view for scoring. FreeText aggregates
// headline, summary, resume text and prior-role descriptions.
// ExperienceYears is nil when unknown.
type CandidateProfile struct {
	ID              string   `json:"id"`
	Name            string   `json:"name"`
	FreeText        string   `json:"freeText"`
	Skills          []string `json:"skills"`
	ExperienceYears *float64 `json:"experienceYears,omitempty"`
}

// MatchResult is the outcome of scoring one (job, candidate) pair.
// Invariants: MatchedRequiredSkills and MissingRequiredSkills are disjoint and
// their union equals the job's RequiredSkills; Score is an integer in [0,100].
type MatchResult struct {
	CandidateID           string   `json:"candidateId"`
	JobID                 string   `json:"jobId"`
	Score                 int      `json:"score"`
	Similarity            float64  `json:"similarity"`
	MatchedRequiredSkills []string `json:"matchedRequiredSkills"`
	MatchedNiceSkills     []string `json:"matchedNiceSkills"`
	MissingRequiredSkills []string `json:"missingRequiredSkills"`
	Insight               *string  `json:"insight"`
}

// RankedStats summarizes a scored pool; informational only.
type RankedStats struct {
	PoolSize      int     `json:"poolSize"`
	AverageScore  float64 `json:"averageScore"`
	MinScore      int     `json:"minScore"`
	MaxScore      int     `json:"maxScore"`
	EnrichedCount int     `json:"enrichedCount"`
}

// RankedList is the ordered shortlist for one job: non-increasing Score,
// ties broken by ascending CandidateID.
type RankedList struct {
	JobID    string        `json:"jobId"`
	JobTitle string        `json:"jobTitle"`
	Items    []MatchResult `json:"items"`
	Stats    RankedStats   `json:"stats"`
}

// InsightRequest is the payload sent to the external reasoning service.
// The service only comments on an already-computed score, never recomputes it.
type InsightRequest struct {
	Job           JobDescriptor    `json:"job"`
	Candidate     CandidateProfile `json:"candidate"`
	MatchedSkills []string         `json:"matchedSkills"`
	MissingSkills []string         `json:"missingSkills"`
	MatchScore    int              `json:"matchScore"`
}

// InsightProvider (port)
//
// Comment returns qualitative commentary for a computed match. Implementations
// must honor ctx cancellation and bound each call with a timeout; any failure
// is returned as an error and the caller degrades to a nil insight.
type InsightProvider interface {
	Comment(ctx context.Context, req InsightRequest) (string, error)
	Health(ctx context.Context) error
}
