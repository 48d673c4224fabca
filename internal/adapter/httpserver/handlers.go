package httpserver

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strings"
	"sync"

	"github.com/go-playground/validator/v10"

	"github.com/novapeople/match-engine/internal/adapter/observability"
	"github.com/novapeople/match-engine/internal/config"
	"github.com/novapeople/match-engine/internal/domain"
	"github.com/novapeople/match-engine/internal/match"
	"github.com/novapeople/match-engine/pkg/textx"
)

// Server aggregates handler dependencies.
type Server struct {
	Cfg          config.Config
	Ranker       *match.Ranker
	InsightCheck func(ctx context.Context) error
}

// NewServer constructs an HTTP server with all handlers wired.
func NewServer(cfg config.Config, ranker *match.Ranker, insightCheck func(context.Context) error) *Server {
	return &Server{Cfg: cfg, Ranker: ranker, InsightCheck: insightCheck}
}

var (
	vldOnce sync.Once
	vld     *validator.Validate
)

func getValidator() *validator.Validate {
	vldOnce.Do(func() { vld = validator.New() })
	return vld
}

// jobPayload mirrors domain.JobDescriptor with boundary validation tags.
type jobPayload struct {
	ID               string   `json:"id" validate:"required,max=100"`
	Title            string   `json:"title" validate:"max=500"`
	FreeText         string   `json:"freeText"`
	RequiredSkills   []string `json:"requiredSkills" validate:"max=100,dive,max=200"`
	NiceToHaveSkills []string `json:"niceToHaveSkills" validate:"max=100,dive,max=200"`
	Responsibilities []string `json:"responsibilities"`
}

func (p jobPayload) toDomain() domain.JobDescriptor {
	return domain.JobDescriptor{
		ID:               p.ID,
		Title:            textx.SanitizeText(p.Title),
		FreeText:         textx.SanitizeText(p.FreeText),
		RequiredSkills:   p.RequiredSkills,
		NiceToHaveSkills: p.NiceToHaveSkills,
		Responsibilities: p.Responsibilities,
	}
}

// candidatePayload mirrors domain.CandidateProfile with validation tags.
// Negative experience is rejected here; the engine assumes sanitized input.
type candidatePayload struct {
	ID              string   `json:"id" validate:"required,max=100"`
	Name            string   `json:"name" validate:"max=500"`
	FreeText        string   `json:"freeText"`
	Skills          []string `json:"skills" validate:"max=500,dive,max=200"`
	ExperienceYears *float64 `json:"experienceYears" validate:"omitempty,gte=0"`
}

func (p candidatePayload) toDomain() domain.CandidateProfile {
	return domain.CandidateProfile{
		ID:              p.ID,
		Name:            textx.SanitizeText(p.Name),
		FreeText:        textx.SanitizeText(p.FreeText),
		Skills:          p.Skills,
		ExperienceYears: p.ExperienceYears,
	}
}

type matchRequest struct {
	Job       jobPayload       `json:"job" validate:"required"`
	Candidate candidatePayload `json:"candidate" validate:"required"`
	Enrich    bool             `json:"enrich"`
}

type rankRequest struct {
	Job        jobPayload         `json:"job" validate:"required"`
	Candidates []candidatePayload `json:"candidates" validate:"max=1000"`
	Limit      int                `json:"limit" validate:"gte=0"`
	Enrich     bool               `json:"enrich"`
}

func decodeJSON(r *http.Request, dst interface{}) error {
	if ct := r.Header.Get("Content-Type"); ct != "" && !strings.Contains(ct, "application/json") {
		return fmt.Errorf("%w: content-type must be application/json", domain.ErrInvalidArgument)
	}
	dec := json.NewDecoder(r.Body)
	dec.DisallowUnknownFields()
	if err := dec.Decode(dst); err != nil {
		return fmt.Errorf("%w: %v", domain.ErrInvalidArgument, err)
	}
	return nil
}

func validatePayload(v interface{}) error {
	if err := getValidator().Struct(v); err != nil {
		return fmt.Errorf("%w: %v", domain.ErrInvalidArgument, err)
	}
	return nil
}

// MatchHandler scores one (job, candidate) pair, optionally enriched.
func (s *Server) MatchHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req matchRequest
		if err := decodeJSON(r, &req); err != nil {
			writeError(w, r, err, nil)
			return
		}
		if err := validatePayload(req); err != nil {
			writeError(w, r, err, nil)
			return
		}
		res := s.Ranker.Match(r.Context(), req.Job.toDomain(), req.Candidate.toDomain(), req.Enrich)
		observability.ObserveMatch(res.Score, res.Similarity)
		writeJSON(w, http.StatusOK, res)
	}
}

// RankHandler scores a candidate pool against one job and returns the
// deterministically ordered shortlist. Enrichment failures never affect the
// numeric ranking or the response status.
func (s *Server) RankHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req rankRequest
		if err := decodeJSON(r, &req); err != nil {
			writeError(w, r, err, nil)
			return
		}
		if err := validatePayload(req); err != nil {
			writeError(w, r, err, nil)
			return
		}

		limit := req.Limit
		if limit <= 0 {
			limit = s.Cfg.RankDefaultLimit
		}
		if s.Cfg.RankMaxLimit > 0 && limit > s.Cfg.RankMaxLimit {
			writeError(w, r, fmt.Errorf("%w: limit %d exceeds maximum %d", domain.ErrInvalidArgument, limit, s.Cfg.RankMaxLimit),
				map[string]int{"max_limit": s.Cfg.RankMaxLimit})
			return
		}

		candidates := make([]domain.CandidateProfile, 0, len(req.Candidates))
		for _, c := range req.Candidates {
			candidates = append(candidates, c.toDomain())
		}

		observability.RankPoolSize.Observe(float64(len(candidates)))
		list := s.Ranker.Rank(r.Context(), req.Job.toDomain(), candidates, limit, req.Enrich)
		for _, item := range list.Items {
			observability.ObserveMatch(item.Score, item.Similarity)
		}
		writeJSON(w, http.StatusOK, list)
	}
}

// readinessCheck is a single readiness probe result.
type readinessCheck struct {
	Name    string `json:"name"`
	OK      bool   `json:"ok"`
	Details string `json:"details,omitempty"`
}

// ReadyzHandler reports readiness. The insight service is an optional
// collaborator: its unavailability is reported but does not flip readiness,
// because the numeric pipeline keeps working without it.
func (s *Server) ReadyzHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		checks := []readinessCheck{{Name: "engine", OK: true}}
		if s.InsightCheck != nil {
			c := readinessCheck{Name: "insight", OK: true}
			if err := s.InsightCheck(r.Context()); err != nil {
				c.OK = false
				c.Details = err.Error()
			}
			checks = append(checks, c)
		}
		writeJSON(w, http.StatusOK, map[string]interface{}{"checks": checks})
	}
}
