package search

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sort"

	"github.com/poiesic/recall/core"
	"github.com/poiesic/recall/storage"
)

// projectBoost is added to a result's score when its project matches the
// caller's current project context.
const projectBoost = 0.1

// overQuery widens the per-leg candidate pool so session-level dedup and
// filters still leave enough results to fill the requested limit.
const overQuery = 3

// ErrNoStrategies is returned when every ranking strategy failed or was
// unavailable for a request.
var ErrNoStrategies = errors.New("no search strategy produced results")

// Searcher ranks conversations with up to three strategies: session-level
// vector similarity, message-level vector similarity grouped by session,
// and lexical full-text match. Strategies degrade independently: one leg
// failing removes that leg, not the search.
type Searcher struct {
	vectors  storage.VectorIndex
	lexical  storage.LexicalIndex
	sessions storage.SessionRepository
	composer *Composer
	logger   *slog.Logger
}

// NewSearcher creates a hybrid searcher. The lexical index may be nil, in
// which case text and hybrid searches run on vectors alone.
func NewSearcher(vectors storage.VectorIndex, lexical storage.LexicalIndex, sessions storage.SessionRepository, composer *Composer) *Searcher {
	return &Searcher{
		vectors:  vectors,
		lexical:  lexical,
		sessions: sessions,
		composer: composer,
		logger:   slog.Default().With("component", "searcher"),
	}
}

// Search runs a request and returns ranked, session-deduplicated results.
//
// Legs are merged first-seen-wins in the order session-vector,
// message-vector, lexical, so a conversation surfaced semantically is
// never repeated by a later leg. Filters apply before a result enters the
// merged set; the project boost and final sort apply after.
func (s *Searcher) Search(ctx context.Context, req *Request) ([]*Result, error) {
	mode := req.mode()
	limit := req.limit()

	merged := make(map[string]*Result)
	legsRun := 0
	legsFailed := 0

	if mode == ModeSemantic || mode == ModeHybrid {
		vector, err := s.composer.Compose(ctx, req)
		switch {
		case errors.Is(err, ErrNothingToCompose) && req.Query == "" && !req.hasExemplars():
			// Purely lexical request; nothing to do for the vector legs.
		case err != nil:
			if errors.Is(err, core.ErrDimensionMismatch) {
				return nil, err
			}
			legsRun += 2
			legsFailed += 2
			s.logger.Warn("query composition failed, vector legs skipped", "err", err)
		default:
			legsRun++
			if err := s.sessionLeg(ctx, req, vector, limit, merged); err != nil {
				legsFailed++
				s.logger.Warn("session vector leg failed", "err", err)
			}
			legsRun++
			if err := s.messageLeg(ctx, req, vector, limit, merged); err != nil {
				legsFailed++
				s.logger.Warn("message vector leg failed", "err", err)
			}
		}
	}

	if (mode == ModeText || mode == ModeHybrid) && req.Query != "" && s.lexical != nil {
		legsRun++
		if err := s.lexicalLeg(ctx, req, limit, merged); err != nil {
			legsFailed++
			s.logger.Warn("lexical leg failed", "err", err)
		}
	}

	if legsRun == 0 {
		return nil, fmt.Errorf("%w: request has no usable query or exemplars", ErrNoStrategies)
	}
	if legsFailed == legsRun {
		return nil, ErrNoStrategies
	}

	results := make([]*Result, 0, len(merged))
	for _, result := range merged {
		if req.Cwd != "" && result.Project == req.Cwd {
			result.Score += projectBoost
		}
		results = append(results, result)
	}
	sort.Slice(results, func(i, j int) bool {
		if results[i].Score != results[j].Score {
			return results[i].Score > results[j].Score
		}
		return results[i].SessionId < results[j].SessionId
	})
	if len(results) > limit {
		results = results[:limit]
	}
	return results, nil
}

// sessionLeg ranks whole conversations by session-vector similarity.
func (s *Searcher) sessionLeg(ctx context.Context, req *Request, vector []float32, limit int, merged map[string]*Result) error {
	hits, err := s.vectors.Query(ctx, core.CollectionSessions, vector, limit*overQuery)
	if err != nil {
		return err
	}
	for _, hit := range hits {
		meta := hit.Record.SessionMeta
		result := &Result{
			SessionId: meta.SessionId,
			Title:     meta.Title,
			Source:    meta.Source,
			Project:   meta.Project,
			Path:      meta.Path,
			Snippet:   snippet(hit.Record.Document),
			Score:     1 - hit.Distance,
			Strategy:  "session",
		}
		s.admit(ctx, req, result, merged)
	}
	return nil
}

// messageLeg ranks individual messages and keeps the best-scoring message
// per session not already surfaced by the session leg.
func (s *Searcher) messageLeg(ctx context.Context, req *Request, vector []float32, limit int, merged map[string]*Result) error {
	hits, err := s.vectors.Query(ctx, core.CollectionMessages, vector, limit*overQuery)
	if err != nil {
		return err
	}
	for _, hit := range hits {
		meta := hit.Record.MessageMeta
		result := &Result{
			SessionId: meta.SessionId,
			Source:    meta.Source,
			Project:   meta.Project,
			Path:      meta.Path,
			Snippet:   snippet(hit.Record.Document),
			Score:     1 - hit.Distance,
			Strategy:  "message",
			Timestamp: meta.Timestamp,
		}
		s.admit(ctx, req, result, merged)
	}
	return nil
}

// lexicalLeg ranks by full-text match, one best-ranked message per session.
func (s *Searcher) lexicalLeg(ctx context.Context, req *Request, limit int, merged map[string]*Result) error {
	hits, err := s.lexical.Search(ctx, req.Query, limit*overQuery)
	if err != nil {
		return err
	}
	for _, hit := range hits {
		result := &Result{
			SessionId: hit.Doc.SessionID,
			Title:     hit.Doc.Title,
			Source:    hit.Doc.Source,
			Project:   hit.Doc.Project,
			Path:      hit.Doc.Path,
			Snippet:   snippet(hit.Doc.Content),
			Score:     float32(hit.Score),
			Strategy:  "lexical",
			Timestamp: hit.Doc.Timestamp,
		}
		s.admit(ctx, req, result, merged)
	}
	return nil
}

// admit applies filters and first-seen-wins dedup by session. Hits from a
// vector leg hydrate missing session fields from the session repository.
func (s *Searcher) admit(ctx context.Context, req *Request, result *Result, merged map[string]*Result) {
	if result.SessionId == "" {
		return
	}
	if _, seen := merged[result.SessionId]; seen {
		return
	}
	if !s.passesFilters(ctx, req, result) {
		return
	}
	if result.Title == "" && s.sessions != nil {
		if session, err := s.sessions.GetSession(ctx, result.SessionId); err == nil {
			result.Title = session.Title
			if result.Timestamp.IsZero() {
				result.Timestamp = session.UpdatedAt
			}
		}
	}
	merged[result.SessionId] = result
}

func (s *Searcher) passesFilters(ctx context.Context, req *Request, result *Result) bool {
	if req.Source != "" && result.Source != req.Source {
		return false
	}
	if req.ProjectOnly && req.Cwd != "" && result.Project != req.Cwd {
		return false
	}
	if containsExcludedTerm(result.Snippet+" "+result.Title, req.ExcludeTerms) {
		return false
	}
	if !req.Since.IsZero() {
		timestamp := result.Timestamp
		if timestamp.IsZero() && s.sessions != nil {
			if session, err := s.sessions.GetSession(ctx, result.SessionId); err == nil {
				timestamp = session.UpdatedAt
			}
		}
		if !timestamp.IsZero() && timestamp.Before(req.Since) {
			return false
		}
	}
	return true
}

const snippetLength = 200

// snippet truncates document text for display, breaking on a rune boundary.
func snippet(text string) string {
	if len(text) <= snippetLength {
		return text
	}
	runes := []rune(text)
	if len(runes) <= snippetLength {
		return text
	}
	return string(runes[:snippetLength]) + "…"
}
