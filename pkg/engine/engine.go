// Package engine is the public entry point of the scheme engine: it owns
// the corpus, the retrieval index and the conversation orchestrator behind
// a single Process call.
package engine

import (
	"context"
	"encoding/json"
	"errors"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/agrimitra-ai/scheme-engine/internal/cache"
	"github.com/agrimitra-ai/scheme-engine/internal/corpus"
	"github.com/agrimitra-ai/scheme-engine/internal/dialog"
	"github.com/agrimitra-ai/scheme-engine/internal/index"
	"github.com/agrimitra-ai/scheme-engine/internal/observability"
)

// DefaultCacheTTL bounds how long resolved responses are served from cache.
const DefaultCacheTTL = 10 * time.Minute

// Request is a single conversation turn.
type Request struct {
	Text      string `json:"text"`
	StateHint string `json:"state_hint,omitempty"`
	TopK      int    `json:"top_k,omitempty"`
}

// Response re-exports the dialog turn outcome.
type Response = dialog.Response

// Option configures the engine.
type Option func(*Engine)

// WithLogger sets the logger. Defaults to a no-op logger.
func WithLogger(log *observability.Logger) Option {
	return func(e *Engine) { e.log = log }
}

// WithCache enables the resolved-response cache. A nil client disables it.
func WithCache(c cache.Client, ttl time.Duration) Option {
	return func(e *Engine) {
		e.cache = c
		if ttl > 0 {
			e.ttl = ttl
		}
	}
}

// WithIndexOptions overrides the retrieval index defaults.
func WithIndexOptions(opts index.Options) Option {
	return func(e *Engine) { e.indexOpts = opts }
}

// WithQuestionGenerator attaches the external eligibility question
// collaborator.
func WithQuestionGenerator(g dialog.QuestionGenerator) Option {
	return func(e *Engine) { e.questions = g }
}

// Engine wires corpus loading, indexing and dialog routing. Initialization
// is lazy and happens at most once; a corpus load failure surfaces
// corpus.ErrDataUnavailable on every call.
type Engine struct {
	src       corpus.Source
	log       *observability.Logger
	cache     cache.Client
	ttl       time.Duration
	indexOpts index.Options
	questions dialog.QuestionGenerator

	initOnce sync.Once
	initErr  error
	orch     *dialog.Orchestrator
}

// New creates an engine over a corpus source.
func New(src corpus.Source, opts ...Option) *Engine {
	e := &Engine{
		src: src,
		log: observability.Nop(),
		ttl: DefaultCacheTTL,
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// init loads and normalizes the corpus, builds the catalog and the index,
// and assembles the orchestrator. Runs at most once.
func (e *Engine) init(ctx context.Context) error {
	e.initOnce.Do(func() {
		start := time.Now()

		records, err := corpus.LoadEnriched(ctx, e.src)
		if err != nil {
			e.initErr = err
			e.log.Error().Err(err).Msg("corpus load failed")
			return
		}

		catalog := corpus.BuildCatalog(records)
		idx := index.New(records, e.indexOpts)
		idx.Build()

		e.orch = dialog.NewOrchestrator(catalog, idx, e.log)
		if e.questions != nil {
			e.orch = e.orch.WithQuestionGenerator(e.questions)
		}

		e.log.Info().
			Int("schemes", len(records)).
			Dur("elapsed", time.Since(start)).
			Msg("engine initialized")
	})
	return e.initErr
}

// Process handles one conversation turn. Resolved turns are cached when a
// cache client is configured; disambiguation turns always recompute.
func (e *Engine) Process(ctx context.Context, req Request) (*Response, error) {
	if err := e.init(ctx); err != nil {
		return nil, err
	}

	key := e.cacheKey(req)
	if e.cache != nil {
		if data, err := e.cache.Get(ctx, key); err == nil {
			var resp Response
			if err := json.Unmarshal(data, &resp); err == nil {
				e.log.Debug().Str("key", key).Msg("cache hit")
				return &resp, nil
			}
		} else if !errors.Is(err, cache.ErrCacheMiss) {
			e.log.Warn().Err(err).Msg("cache get failed")
		}
	}

	resp := e.orch.Process(ctx, dialog.Request{
		Text:      req.Text,
		StateHint: req.StateHint,
		TopK:      req.TopK,
	})

	if e.cache != nil && resp.State == dialog.StateResolved {
		if data, err := json.Marshal(resp); err == nil {
			if err := e.cache.Set(ctx, key, data, e.ttl); err != nil {
				e.log.Warn().Err(err).Msg("cache set failed")
			}
		}
	}

	return resp, nil
}

func (e *Engine) cacheKey(req Request) string {
	return cache.CacheKey("turn",
		strings.ToLower(req.StateHint),
		strconv.Itoa(req.TopK),
		strings.ToLower(strings.TrimSpace(req.Text)),
	)
}
