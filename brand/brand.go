// Package brand serves the curated brand and style-guide content: fetched
// from the hierarchical content provider, normalized into sections and
// subsections, cached with a bounded-staleness TTL, and queried by id or
// free text.
package brand

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/solstice-fi/lorebase/notion"
	"github.com/solstice-fi/lorebase/snapshot"
)

// snapshotTitle labels the brand snapshot.
const snapshotTitle = "Brand & Style Guide"

// Section is a top-level unit of the brand document. IDs are sequential
// integers as strings, assigned in document order.
type Section struct {
	ID          string       `json:"id"`
	Title       string       `json:"title"`
	Body        string       `json:"body,omitempty"`
	Subsections []Subsection `json:"subsections,omitempty"`
}

// Subsection is a second-level unit. Its ID is "<sectionID>.<n>" and its
// ParentID always resolves to a section in the same snapshot.
type Subsection struct {
	ID       string `json:"id"`
	ParentID string `json:"parent_id"`
	Title    string `json:"title"`
	Body     string `json:"body,omitempty"`
}

// Content is the normalized brand payload: sections in document order.
type Content []Section

// Config configures the brand service.
type Config struct {
	// PageID is the provider container holding the brand document.
	PageID string
	// TTL is the snapshot time-to-live. Default: snapshot.DefaultTTL.
	TTL time.Duration
	// MaxResults caps search results. Default: 5.
	MaxResults int
	// SnippetLen bounds search snippets, in runes. Default: 150.
	SnippetLen int
	// Logger overrides the default slog logger.
	Logger *slog.Logger
	// Recorder receives refresh outcomes (optional).
	Recorder snapshot.Recorder
}

func (c *Config) defaults() {
	if c.TTL <= 0 {
		c.TTL = snapshot.DefaultTTL
	}
	if c.MaxResults <= 0 {
		c.MaxResults = 5
	}
	if c.SnippetLen <= 0 {
		c.SnippetLen = 150
	}
	if c.Logger == nil {
		c.Logger = slog.Default()
	}
}

// Service is the brand content domain: one snapshot cache over the provider
// adapter plus the query operations.
type Service struct {
	cfg    Config
	client *notion.Client
	cache  *snapshot.Cache[Content]
	logger *slog.Logger
}

// New creates the brand service.
func New(client *notion.Client, cfg Config) *Service {
	cfg.defaults()
	s := &Service{cfg: cfg, client: client, logger: cfg.Logger}
	opts := []snapshot.Option[Content]{
		snapshot.WithLogger[Content](cfg.Logger),
		snapshot.WithFallback[Content](defaultContent),
	}
	if cfg.Recorder != nil {
		opts = append(opts, snapshot.WithRecorder[Content](cfg.Recorder))
	}
	s.cache = snapshot.New("brand", cfg.TTL, s.fetch, opts...)
	return s
}

// fetch pulls the page's blocks and normalizes them. An empty result is an
// error: a misconfigured page id must fall back to defaults, not serve an
// empty guide.
func (s *Service) fetch(ctx context.Context) (string, Content, error) {
	blocks, err := s.client.BlockChildren(ctx, s.cfg.PageID)
	if err != nil {
		return "", nil, fmt.Errorf("fetch brand page: %w", err)
	}
	content := Normalize(blocks)
	if len(content) == 0 {
		return "", nil, fmt.Errorf("brand page %s produced no sections", s.cfg.PageID)
	}
	return snapshotTitle, content, nil
}

// SectionSummary is one row of the overview listing.
type SectionSummary struct {
	ID          string `json:"id"`
	Title       string `json:"title"`
	Subsections int    `json:"subsections"`
}

// Overview describes the cached snapshot without its full bodies.
type Overview struct {
	Title     string           `json:"title"`
	FetchedAt time.Time        `json:"fetched_at"`
	Fallback  bool             `json:"fallback,omitempty"`
	Sections  []SectionSummary `json:"sections"`
}

// Overview returns the section listing of a fresh-enough snapshot.
func (s *Service) Overview(ctx context.Context) Overview {
	snap := s.cache.Get(ctx, false)
	out := Overview{Title: snap.Title, FetchedAt: snap.FetchedAt, Fallback: snap.Fallback}
	for _, sec := range snap.Data {
		out.Sections = append(out.Sections, SectionSummary{
			ID: sec.ID, Title: sec.Title, Subsections: len(sec.Subsections),
		})
	}
	return out
}

// List returns all sections in snapshot order.
func (s *Service) List(ctx context.Context) Content {
	return s.cache.Get(ctx, false).Data
}

// Lookup resolves an entity id: "2" finds a section, "2.1" a subsection.
// Both results are nil when the id is absent; a miss is not an error.
func (s *Service) Lookup(ctx context.Context, id string) (*Section, *Subsection) {
	content := s.cache.Get(ctx, false).Data
	if strings.Contains(id, ".") {
		return nil, content.SubsectionByID(id)
	}
	return content.SectionByID(id), nil
}

// Search runs relevance-ranked free-text search. maxResults <= 0 uses the
// configured default.
func (s *Service) Search(ctx context.Context, query string, maxResults int) []SearchResult {
	if maxResults <= 0 {
		maxResults = s.cfg.MaxResults
	}
	content := s.cache.Get(ctx, false).Data
	return content.Search(query, maxResults, s.cfg.SnippetLen)
}

// RefreshResult reports an explicit refresh operation.
type RefreshResult struct {
	OK        bool      `json:"ok"`
	Message   string    `json:"message"`
	FetchedAt time.Time `json:"fetched_at,omitempty"`
	Sections  int       `json:"sections,omitempty"`
}

// Refresh forces a live fetch. Failure is reported here as a structured
// result; cached data stays usable for ordinary queries either way.
func (s *Service) Refresh(ctx context.Context) RefreshResult {
	snap, err := s.cache.Refresh(ctx)
	if err != nil {
		return RefreshResult{OK: false, Message: fmt.Sprintf("brand refresh failed: %v", err)}
	}
	return RefreshResult{
		OK:        true,
		Message:   fmt.Sprintf("brand content refreshed: %d sections", len(snap.Data)),
		FetchedAt: snap.FetchedAt,
		Sections:  len(snap.Data),
	}
}

// SectionByID returns the section with the given id, or nil.
func (c Content) SectionByID(id string) *Section {
	for i := range c {
		if c[i].ID == id {
			return &c[i]
		}
	}
	return nil
}

// SubsectionByID returns the subsection with the given id, or nil.
func (c Content) SubsectionByID(id string) *Subsection {
	for i := range c {
		for j := range c[i].Subsections {
			if c[i].Subsections[j].ID == id {
				return &c[i].Subsections[j]
			}
		}
	}
	return nil
}
