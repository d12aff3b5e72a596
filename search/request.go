package search

import (
	"time"

	"github.com/poiesic/recall/core"
)

// Mode selects which ranking strategies a search uses.
type Mode string

const (
	// ModeSemantic ranks by vector similarity only.
	ModeSemantic Mode = "semantic"
	// ModeText ranks by lexical full-text match only.
	ModeText Mode = "text"
	// ModeHybrid merges semantic and lexical strategies.
	ModeHybrid Mode = "hybrid"
)

// Request describes one search call. All fields are optional, but a
// request needs at least a query, a negative query, or one resolvable
// exemplar to produce results.
type Request struct {
	// Query is the free-text query. Embedded for the semantic legs and
	// passed verbatim to the lexical leg.
	Query string

	// NegativeQuery is a concept to steer away from. Its embedding is
	// subtracted from the composed query vector.
	NegativeQuery string

	// ExcludeTerms removes any result whose text contains one of these
	// terms. A hard filter, not a ranking signal.
	ExcludeTerms []string

	// Mode selects the ranking strategies. Defaults to ModeHybrid.
	Mode Mode

	// Limit caps the number of results. Defaults to 10.
	Limit int

	// Source restricts results to one source system.
	Source string

	// Since restricts results to items newer than this time.
	Since time.Time

	// Cwd is the caller's current project context. Matching results get
	// an additive score boost; with ProjectOnly set it becomes a filter.
	Cwd string

	// ProjectOnly restricts results to the Cwd project.
	ProjectOnly bool

	// LikeSessions are weighted session exemplars ("id" or "id:weight")
	// whose centroids are added to the query vector.
	LikeSessions []string

	// UnlikeSessions are weighted session exemplars whose centroids are
	// subtracted, dampened.
	UnlikeSessions []string

	// LikeProjects are weighted project exemplars, added.
	LikeProjects []string

	// UnlikeProjects are weighted project exemplars, subtracted, dampened.
	UnlikeProjects []string
}

// Result is one ranked conversation. Strategies are deduplicated by
// session: a session surfaced by one leg is never repeated by another.
type Result struct {
	SessionId string
	Title     string
	Source    string
	Project   string
	Path      string
	Snippet   string
	Score     float32
	Strategy  string
	Timestamp time.Time
}

func (r *Request) mode() Mode {
	if r.Mode == "" {
		return ModeHybrid
	}
	return r.Mode
}

func (r *Request) limit() int {
	if r.Limit <= 0 {
		return 10
	}
	return r.Limit
}

// parseExemplars parses weighted-id entries, dropping malformed ones.
func parseExemplars(entries []string) []core.WeightedExemplar {
	parsed := make([]core.WeightedExemplar, 0, len(entries))
	for _, entry := range entries {
		exemplar, err := core.ParseWeightedExemplar(entry)
		if err != nil {
			continue
		}
		parsed = append(parsed, exemplar)
	}
	return parsed
}

func (r *Request) hasExemplars() bool {
	return len(r.LikeSessions) > 0 || len(r.UnlikeSessions) > 0 ||
		len(r.LikeProjects) > 0 || len(r.UnlikeProjects) > 0
}
