// Package glossary serves the curated protocol glossary: terms pulled from
// two provider databases (concepts and components), normalized, cached with
// a TTL, and queried by title, tag, free text, or relation.
package glossary

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"sync"
	"time"

	"github.com/solstice-fi/lorebase/notion"
	"github.com/solstice-fi/lorebase/snapshot"
)

const snapshotTitle = "Protocol Glossary"

// Category classifies a term.
type Category string

const (
	CategoryConcept   Category = "concept"
	CategoryComponent Category = "component"
)

// Term is one glossary entry. Titles are unique case-insensitively within a
// snapshot.
type Term struct {
	Title    string   `json:"title"`
	Summary  string   `json:"summary"`
	Tags     []string `json:"tags,omitempty"`
	Category Category `json:"category"`
	Owner    string   `json:"owner,omitempty"`
}

// Terms is the normalized glossary payload, in fetch order.
type Terms []Term

// Config configures the glossary service.
type Config struct {
	// ConceptsDB and ComponentsDB are the two source database ids.
	ConceptsDB   string
	ComponentsDB string
	// TTL is the snapshot time-to-live. Default: snapshot.DefaultTTL.
	TTL time.Duration
	// MaxRelated caps the related-terms listing. Default: 5.
	MaxRelated int
	// Logger overrides the default slog logger.
	Logger *slog.Logger
	// Recorder receives refresh outcomes (optional).
	Recorder snapshot.Recorder
}

func (c *Config) defaults() {
	if c.TTL <= 0 {
		c.TTL = snapshot.DefaultTTL
	}
	if c.MaxRelated <= 0 {
		c.MaxRelated = 5
	}
	if c.Logger == nil {
		c.Logger = slog.Default()
	}
}

// Service is the glossary domain.
type Service struct {
	cfg    Config
	client *notion.Client
	cache  *snapshot.Cache[Terms]
	logger *slog.Logger
}

// New creates the glossary service.
func New(client *notion.Client, cfg Config) *Service {
	cfg.defaults()
	s := &Service{cfg: cfg, client: client, logger: cfg.Logger}
	opts := []snapshot.Option[Terms]{
		snapshot.WithLogger[Terms](cfg.Logger),
		snapshot.WithFallback[Terms](defaultTerms),
	}
	if cfg.Recorder != nil {
		opts = append(opts, snapshot.WithRecorder[Terms](cfg.Recorder))
	}
	s.cache = snapshot.New("glossary", cfg.TTL, s.fetch, opts...)
	return s
}

// fetch queries both source databases concurrently. The sources are
// independent: one side failing keeps the other's rows (logged, not
// escalated). Only both failing is a fetch error, which lets the cache
// apply its stale/fallback policy.
func (s *Service) fetch(ctx context.Context) (string, Terms, error) {
	type result struct {
		rows []notion.Row
		err  error
	}
	var concepts, components result

	var wg sync.WaitGroup
	wg.Add(2)
	go func() {
		defer wg.Done()
		concepts.rows, concepts.err = s.client.QueryDatabase(ctx, s.cfg.ConceptsDB)
	}()
	go func() {
		defer wg.Done()
		components.rows, components.err = s.client.QueryDatabase(ctx, s.cfg.ComponentsDB)
	}()
	wg.Wait()

	if concepts.err != nil && components.err != nil {
		return "", nil, fmt.Errorf("glossary fetch: concepts: %v; components: %w", concepts.err, components.err)
	}
	if concepts.err != nil {
		s.logger.Warn("glossary concepts query failed, keeping components", "error", concepts.err)
	}
	if components.err != nil {
		s.logger.Warn("glossary components query failed, keeping concepts", "error", components.err)
	}

	terms := normalizeRows(concepts.rows, CategoryConcept)
	terms = append(terms, normalizeRows(components.rows, CategoryComponent)...)
	return snapshotTitle, dedupe(terms), nil
}

// Overview describes the cached snapshot.
type Overview struct {
	Title      string    `json:"title"`
	FetchedAt  time.Time `json:"fetched_at"`
	Fallback   bool      `json:"fallback,omitempty"`
	Terms      int       `json:"terms"`
	Concepts   int       `json:"concepts"`
	Components int       `json:"components"`
}

// Overview returns counts for a fresh-enough snapshot.
func (s *Service) Overview(ctx context.Context) Overview {
	snap := s.cache.Get(ctx, false)
	out := Overview{Title: snap.Title, FetchedAt: snap.FetchedAt, Fallback: snap.Fallback, Terms: len(snap.Data)}
	for _, t := range snap.Data {
		switch t.Category {
		case CategoryConcept:
			out.Concepts++
		case CategoryComponent:
			out.Components++
		}
	}
	return out
}

// Term looks a term up by title, case-insensitively. Nil on miss.
func (s *Service) Term(ctx context.Context, title string) *Term {
	return s.cache.Get(ctx, false).Data.ByTitle(title)
}

// List returns all terms in snapshot order, optionally narrowed to one
// category ("" means all).
func (s *Service) List(ctx context.Context, category Category) Terms {
	return s.cache.Get(ctx, false).Data.List(category)
}

// Search runs relevance-ranked free-text search over all terms.
func (s *Service) Search(ctx context.Context, query string) []SearchResult {
	return s.cache.Get(ctx, false).Data.Search(query)
}

// FilterByTag returns terms whose tag set matches the filter, optionally
// narrowed by category first.
func (s *Service) FilterByTag(ctx context.Context, tag string, category Category) Terms {
	return s.cache.Get(ctx, false).Data.FilterByTag(tag, category)
}

// Translate resolves a term and produces its plain-language rendering plus
// related terms. Nil on miss.
func (s *Service) Translate(ctx context.Context, title string) *Translation {
	terms := s.cache.Get(ctx, false).Data
	term := terms.ByTitle(title)
	if term == nil {
		return nil
	}
	return &Translation{
		Term:       *term,
		Simplified: Simplify(term.Summary),
		Related:    terms.Related(term, s.cfg.MaxRelated),
	}
}

// RefreshResult reports an explicit refresh operation.
type RefreshResult struct {
	OK        bool      `json:"ok"`
	Message   string    `json:"message"`
	FetchedAt time.Time `json:"fetched_at,omitempty"`
	Terms     int       `json:"terms,omitempty"`
}

// Refresh forces a live fetch, reporting failure without disturbing the
// cached terms.
func (s *Service) Refresh(ctx context.Context) RefreshResult {
	snap, err := s.cache.Refresh(ctx)
	if err != nil {
		return RefreshResult{OK: false, Message: fmt.Sprintf("glossary refresh failed: %v", err)}
	}
	return RefreshResult{
		OK:        true,
		Message:   fmt.Sprintf("glossary refreshed: %d terms", len(snap.Data)),
		FetchedAt: snap.FetchedAt,
		Terms:     len(snap.Data),
	}
}

// ByTitle returns the term with the given title (case-insensitive), or nil.
func (t Terms) ByTitle(title string) *Term {
	for i := range t {
		if strings.EqualFold(t[i].Title, title) {
			return &t[i]
		}
	}
	return nil
}

// List returns the terms of one category ("" = all), in snapshot order.
func (t Terms) List(category Category) Terms {
	if category == "" {
		return t
	}
	var out Terms
	for _, term := range t {
		if term.Category == category {
			out = append(out, term)
		}
	}
	return out
}

// dedupe keeps the first occurrence of each title (case-insensitive); titles
// are unique within a snapshot by contract.
func dedupe(terms Terms) Terms {
	seen := make(map[string]bool, len(terms))
	out := terms[:0]
	for _, term := range terms {
		key := strings.ToLower(term.Title)
		if seen[key] {
			continue
		}
		seen[key] = true
		out = append(out, term)
	}
	return out
}
