// Package dialog drives the multi-turn scheme discovery conversation:
// topic disambiguation, scope choice and the final retrieval turn.
package dialog

import (
	"context"
	"strings"

	"github.com/agrimitra-ai/scheme-engine/internal/corpus"
	"github.com/agrimitra-ai/scheme-engine/internal/eligibility"
	"github.com/agrimitra-ai/scheme-engine/internal/index"
	"github.com/agrimitra-ai/scheme-engine/internal/observability"
	"github.com/agrimitra-ai/scheme-engine/internal/profile"
)

// TurnState identifies where a turn landed in the disambiguation flow.
type TurnState string

const (
	StateInit               TurnState = "init"
	StateTopicListShown     TurnState = "topic_list_shown"
	StateScopeChoicePending TurnState = "scope_choice_pending"
	StateResolved           TurnState = "resolved"
)

// QuestionGenerator produces eligibility questions for shortlisted
// schemes. It is an external collaborator; the engine ships no
// implementation of its own.
type QuestionGenerator interface {
	Questions(ctx context.Context, query string, schemes []SchemeSummary) ([]string, error)
}

// Request is a single conversation turn.
type Request struct {
	Text      string
	StateHint string
	TopK      int
}

// TopicEntry is one row of the numbered topic list.
type TopicEntry struct {
	Name        string   `json:"name"`
	Count       int      `json:"count"`
	SchemeTypes []string `json:"scheme_types"`
}

// TopicListPayload asks the caller to pick a sub-category.
type TopicListPayload struct {
	State  string        `json:"state"`
	Scope  profile.Scope `json:"scope"`
	Topics []TopicEntry  `json:"topics"`

	// Marker must be echoed inside the follow-up text so the next turn
	// can reconstruct this state.
	Marker string `json:"marker"`
}

// ScopeOption is one side of a State-versus-Central choice.
type ScopeOption struct {
	Type  string `json:"type"` // State or Central
	Count int    `json:"count"`
}

// ScopeChoicePayload asks the caller to pick between State and Central
// schemes for a topic available in both.
type ScopeChoicePayload struct {
	Topic   string        `json:"topic"`
	State   string        `json:"state"`
	Options []ScopeOption `json:"options"`
	Marker  string        `json:"marker"`
}

// Response is the outcome of a turn. Exactly one of Schemes, TopicList or
// ScopeChoice is populated when State is not init.
type Response struct {
	State       TurnState                `json:"state"`
	Profile     profile.ApplicantProfile `json:"profile"`
	Message     string                   `json:"message,omitempty"`
	Schemes     []SchemeSummary          `json:"schemes,omitempty"`
	TopicList   *TopicListPayload        `json:"topic_list,omitempty"`
	ScopeChoice *ScopeChoicePayload      `json:"scope_choice,omitempty"`
	Questions   []string                 `json:"questions,omitempty"`
}

// Orchestrator routes conversation turns. It is stateless: every turn is
// resolved from the text alone, including any echoed context marker.
type Orchestrator struct {
	catalog   *corpus.Catalog
	idx       *index.Index
	log       *observability.Logger
	questions QuestionGenerator
}

// NewOrchestrator creates an orchestrator over a built catalog and index.
func NewOrchestrator(catalog *corpus.Catalog, idx *index.Index, log *observability.Logger) *Orchestrator {
	if log == nil {
		log = observability.Nop()
	}
	return &Orchestrator{catalog: catalog, idx: idx, log: log}
}

// WithQuestionGenerator attaches the eligibility question collaborator.
func (o *Orchestrator) WithQuestionGenerator(g QuestionGenerator) *Orchestrator {
	o.questions = g
	return o
}

// Process handles one conversation turn.
func (o *Orchestrator) Process(ctx context.Context, req Request) *Response {
	clean, markerState, markerTopic := parseMarker(req.Text)
	lower := strings.ToLower(clean)

	stateHint := req.StateHint
	if stateHint == "" {
		stateHint = markerState
	}
	p := profile.Parse(clean, stateHint)

	topK := req.TopK
	if topK <= 0 {
		topK = index.DefaultTopK
	}

	log := o.log.WithOperation("dialog.process")
	log.Debug().
		Str("state", p.State).
		Str("marker_topic", markerTopic).
		Str("scope", string(p.Scope)).
		Msg("processing turn")

	// Pending scope choice reconstructed from the marker.
	if markerTopic != "" {
		return o.resolveScopeChoice(ctx, req, p, lower, markerTopic, topK)
	}

	scope, scopeExplicit := profile.ExtractScopeExplicit(lower)
	p.Scope = scope

	// Numeric follow-up selection against the topic list.
	if n, ok := parseSelection(lower); ok && p.State != "" {
		topic, mapped := mapSelection(o.catalog, p.State, p.Scope, n)
		if !mapped {
			log.Warn().Int("selection", n).Str("state", p.State).Msg("selection out of range")
			resp := o.topicListResponse(p)
			resp.Message = "That number is not on the list. Please pick one of the numbered sub-categories."
			return resp
		}
		p.Topic = topic
		return o.resolveTopicTurn(ctx, req, p, lower, scopeExplicit, topK)
	}

	// Topic resolution from the text itself.
	p.Topic = resolveTopic(o.catalog, lower)

	if p.Topic != "" {
		return o.resolveTopicTurn(ctx, req, p, lower, scopeExplicit, topK)
	}

	// No topic. Contextual signals allow retrieval anyway, unless the
	// caller explicitly asked to see the list.
	if hasContextualSignals(p, lower) && !asksForTopicList(lower) {
		return o.retrieve(ctx, req, p, topK)
	}

	if p.State != "" {
		return o.topicListResponse(p)
	}

	return &Response{
		State:   StateInit,
		Profile: p,
		Message: "Please tell me your state or the type of scheme you are looking for.",
	}
}

// resolveScopeChoice handles the turn after a State-versus-Central
// question. An explicit scope keyword or a numeric pick resolves it;
// anything else re-asks.
func (o *Orchestrator) resolveScopeChoice(ctx context.Context, req Request, p profile.ApplicantProfile, lower, topic string, topK int) *Response {
	if canonical, ok := o.catalog.CanonicalTopic(topic); ok {
		topic = canonical
	}
	p.Topic = topic

	scope, explicit := profile.ExtractScopeExplicit(lower)
	if !explicit {
		if n, ok := parseSelection(lower); ok {
			switch n {
			case 1:
				scope, explicit = profile.ScopeStateOnly, true
			case 2:
				scope, explicit = profile.ScopeCentralOnly, true
			}
		}
	}

	if !explicit {
		resp := o.scopeChoiceResponse(p, topic)
		resp.Message = "Please choose State schemes or Central schemes."
		return resp
	}

	p.Scope = scope
	return o.retrieve(ctx, req, p, topK)
}

// resolveTopicTurn checks topic availability across scopes, asks for a
// scope choice when the topic exists on both sides without an explicit
// preference, auto-narrows one-sided topics, then retrieves.
func (o *Orchestrator) resolveTopicTurn(ctx context.Context, req Request, p profile.ApplicantProfile, lower string, scopeExplicit bool, topK int) *Response {
	if canonical, ok := o.catalog.CanonicalTopic(p.Topic); ok {
		p.Topic = canonical
	}

	if p.State != "" {
		_, hasState := o.catalog.StateTopicCount(p.State, p.Topic)
		_, hasCentral := o.catalog.CentralTopicCount(p.Topic)

		if hasState && hasCentral && p.Scope == profile.ScopeAll && !scopeExplicit {
			return o.scopeChoiceResponse(p, p.Topic)
		}
		if !scopeExplicit {
			if hasState && !hasCentral {
				p.Scope = profile.ScopeStateOnly
			} else if hasCentral && !hasState {
				p.Scope = profile.ScopeCentralOnly
			}
		}
	}

	return o.retrieve(ctx, req, p, topK)
}

// retrieve runs the resolved turn: search, assess, summarize.
func (o *Orchestrator) retrieve(ctx context.Context, req Request, p profile.ApplicantProfile, topK int) *Response {
	query := index.ComposeQuery(p)
	results := o.idx.Search(query, p, topK)

	summaries := make([]SchemeSummary, 0, len(results))
	for _, r := range results {
		a := eligibility.Assess(p, r.Record)
		summaries = append(summaries, buildSummary(r.Record, r.Score, a))
	}

	resp := &Response{
		State:   StateResolved,
		Profile: p,
		Schemes: summaries,
	}
	if len(summaries) == 0 {
		resp.Message = "No matching schemes found. Please try adjusting your search criteria."
	}

	if o.questions != nil && len(summaries) > 0 && asksAboutEligibility(strings.ToLower(req.Text)) {
		questions, err := o.questions.Questions(ctx, req.Text, summaries)
		if err != nil {
			o.log.Warn().Err(err).Msg("eligibility question generation failed")
		} else {
			resp.Questions = questions
		}
	}

	o.log.Info().
		Str("query", query).
		Str("topic", p.Topic).
		Int("results", len(summaries)).
		Msg("turn resolved")
	return resp
}

func (o *Orchestrator) topicListResponse(p profile.ApplicantProfile) *Response {
	list := displayList(o.catalog, p.State, p.Scope)

	entries := make([]TopicEntry, 0, len(list))
	for _, t := range list {
		entries = append(entries, TopicEntry{
			Name:        t.Name,
			Count:       t.Count,
			SchemeTypes: topicSchemeTypes(o.catalog, p.State, t.Name),
		})
	}

	return &Response{
		State:   StateTopicListShown,
		Profile: p,
		TopicList: &TopicListPayload{
			State:  p.State,
			Scope:  p.Scope,
			Topics: entries,
			Marker: FormatSelectionMarker(p.State),
		},
	}
}

func (o *Orchestrator) scopeChoiceResponse(p profile.ApplicantProfile, topic string) *Response {
	stateCount, _ := o.catalog.StateTopicCount(p.State, topic)
	centralCount, _ := o.catalog.CentralTopicCount(topic)

	return &Response{
		State:   StateScopeChoicePending,
		Profile: p,
		ScopeChoice: &ScopeChoicePayload{
			Topic: topic,
			State: p.State,
			Options: []ScopeOption{
				{Type: "State", Count: stateCount},
				{Type: "Central", Count: centralCount},
			},
			Marker: FormatScopeMarker(topic, p.State),
		},
	}
}

// topicSchemeTypes reports which sides of the corpus declare a topic.
func topicSchemeTypes(catalog *corpus.Catalog, state, topic string) []string {
	var types []string
	if _, ok := catalog.StateTopicCount(state, topic); ok {
		types = append(types, "State")
	}
	if _, ok := catalog.CentralTopicCount(topic); ok {
		types = append(types, "Central")
	}
	return types
}

// hasContextualSignals reports whether the turn carries enough signal to
// retrieve without a resolved topic: crops, land, a target group, or an
// explicit financial or insurance ask.
func hasContextualSignals(p profile.ApplicantProfile, lower string) bool {
	if len(p.Crops) > 0 || p.LandAcres != nil || p.TargetGroup != "" {
		return true
	}
	return strings.Contains(lower, "financial") ||
		strings.Contains(lower, "insurance") ||
		strings.Contains(lower, "loan") ||
		strings.Contains(lower, "subsidy")
}
