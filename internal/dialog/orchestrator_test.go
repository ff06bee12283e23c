package dialog

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/agrimitra-ai/scheme-engine/internal/corpus"
	"github.com/agrimitra-ai/scheme-engine/internal/index"
	"github.com/agrimitra-ai/scheme-engine/internal/profile"
)

// dialogCorpus spreads sub-categories across both sides: Financial
// assistance exists as State and Central, Animal husbandry only in Goa,
// Crop insurance only centrally.
func dialogCorpus() []corpus.ProgramRecord {
	return []corpus.ProgramRecord{
		{
			SchemeName:       "Goa Farmer Fund",
			State:            "Goa",
			SubCategories:    []string{"Financial assistance"},
			BriefDescription: "Financial assistance for small farmers in Goa.",
		},
		{
			SchemeName:       "Goa Kisan Relief",
			State:            "Goa",
			SubCategories:    []string{"Financial assistance"},
			BriefDescription: "Financial assistance and direct support for farmers in Goa.",
		},
		{
			SchemeName:       "Goa Dairy Mission",
			State:            "Goa",
			SubCategories:    []string{"Animal husbandry"},
			BriefDescription: "Dairy cattle development support for milk producers in Goa.",
		},
		{
			SchemeName:       "National Kisan Fund",
			SubCategories:    []string{"Financial assistance"},
			BriefDescription: "Financial assistance for farmers across India.",
		},
		{
			SchemeName:       "National Crop Shield",
			SubCategories:    []string{"Crop insurance"},
			BriefDescription: "Crop insurance cover for rice farmers across India.",
		},
	}
}

func newTestOrchestrator(t *testing.T) *Orchestrator {
	t.Helper()

	enriched := make([]corpus.EnrichedRecord, 0, len(dialogCorpus()))
	for _, r := range dialogCorpus() {
		enriched = append(enriched, corpus.Normalize(r))
	}

	catalog := corpus.BuildCatalog(enriched)
	ix := index.New(enriched, index.Options{MinDocFreq: 1})
	ix.Build()
	return NewOrchestrator(catalog, ix, nil)
}

func TestProcess_StateOnlyShowsTopicList(t *testing.T) {
	o := newTestOrchestrator(t)

	resp := o.Process(context.Background(), Request{Text: "schemes in Goa"})
	assert.Equal(t, StateTopicListShown, resp.State)
	require.NotNil(t, resp.TopicList)
	assert.Equal(t, "Goa", resp.TopicList.State)
	assert.Equal(t, "(selecting from sub-categories for Goa)", resp.TopicList.Marker)

	// State topics by count, then Central extras.
	require.Len(t, resp.TopicList.Topics, 3)
	assert.Equal(t, "Financial assistance", resp.TopicList.Topics[0].Name)
	assert.Equal(t, 2, resp.TopicList.Topics[0].Count)
	assert.Equal(t, []string{"State", "Central"}, resp.TopicList.Topics[0].SchemeTypes)
	assert.Equal(t, "Animal husbandry", resp.TopicList.Topics[1].Name)
	assert.Equal(t, []string{"State"}, resp.TopicList.Topics[1].SchemeTypes)
	assert.Equal(t, "Crop insurance", resp.TopicList.Topics[2].Name)
	assert.Equal(t, []string{"Central"}, resp.TopicList.Topics[2].SchemeTypes)
}

func TestProcess_NumericSelectionResolves(t *testing.T) {
	o := newTestOrchestrator(t)

	resp := o.Process(context.Background(), Request{
		Text: "2 (selecting from sub-categories for Goa)",
	})
	assert.Equal(t, StateResolved, resp.State)
	assert.Equal(t, "Animal husbandry", resp.Profile.Topic)
	require.Len(t, resp.Schemes, 1)
	assert.Equal(t, "Goa Dairy Mission", resp.Schemes[0].SchemeName)
}

func TestProcess_SelectionOutOfRangeReshowsList(t *testing.T) {
	o := newTestOrchestrator(t)

	resp := o.Process(context.Background(), Request{
		Text: "99 (selecting from sub-categories for Goa)",
	})
	assert.Equal(t, StateTopicListShown, resp.State)
	assert.Equal(t, "Goa", resp.TopicList.State)
	assert.Contains(t, resp.Message, "not on the list")
}

func TestProcess_TopicInBothScopesAsksForChoice(t *testing.T) {
	o := newTestOrchestrator(t)

	resp := o.Process(context.Background(), Request{
		Text: "financial assistance schemes in Goa",
	})
	assert.Equal(t, StateScopeChoicePending, resp.State)
	require.NotNil(t, resp.ScopeChoice)
	assert.Equal(t, "Financial assistance", resp.ScopeChoice.Topic)
	assert.Equal(t, []ScopeOption{
		{Type: "State", Count: 2},
		{Type: "Central", Count: 1},
	}, resp.ScopeChoice.Options)
	assert.Equal(t, "(choosing scheme type for Financial assistance in Goa)", resp.ScopeChoice.Marker)
}

func TestProcess_ScopeChoiceByKeyword(t *testing.T) {
	o := newTestOrchestrator(t)

	resp := o.Process(context.Background(), Request{
		Text: "State schemes (choosing scheme type for Financial assistance in Goa)",
	})
	assert.Equal(t, StateResolved, resp.State)
	assert.Equal(t, profile.ScopeStateOnly, resp.Profile.Scope)
	require.Len(t, resp.Schemes, 2)
	for _, s := range resp.Schemes {
		assert.Equal(t, "Goa", s.State)
	}
}

func TestProcess_ScopeChoiceByNumber(t *testing.T) {
	o := newTestOrchestrator(t)

	resp := o.Process(context.Background(), Request{
		Text: "2 (choosing scheme type for Financial assistance in Goa)",
	})
	assert.Equal(t, StateResolved, resp.State)
	assert.Equal(t, profile.ScopeCentralOnly, resp.Profile.Scope)
	require.Len(t, resp.Schemes, 1)
	assert.Equal(t, "National Kisan Fund", resp.Schemes[0].SchemeName)
}

func TestProcess_ScopeChoiceUnclearReasks(t *testing.T) {
	o := newTestOrchestrator(t)

	resp := o.Process(context.Background(), Request{
		Text: "maybe (choosing scheme type for Financial assistance in Goa)",
	})
	assert.Equal(t, StateScopeChoicePending, resp.State)
	assert.Equal(t, "Please choose State schemes or Central schemes.", resp.Message)
	require.NotNil(t, resp.ScopeChoice)
	assert.Equal(t, "Financial assistance", resp.ScopeChoice.Topic)
}

func TestProcess_OneSidedTopicAutoNarrows(t *testing.T) {
	o := newTestOrchestrator(t)

	resp := o.Process(context.Background(), Request{Text: "dairy schemes in Goa"})
	assert.Equal(t, StateResolved, resp.State)
	assert.Equal(t, "Animal husbandry", resp.Profile.Topic)
	assert.Equal(t, profile.ScopeStateOnly, resp.Profile.Scope)
}

func TestProcess_AgeIsNotASelection(t *testing.T) {
	o := newTestOrchestrator(t)

	resp := o.Process(context.Background(), Request{
		Text: "I am 45 years old and from Goa",
	})
	assert.Equal(t, StateTopicListShown, resp.State)
	require.NotNil(t, resp.Profile.Age)
	assert.Equal(t, 45, *resp.Profile.Age)
}

func TestProcess_ContextualSignalsBypassList(t *testing.T) {
	o := newTestOrchestrator(t)

	resp := o.Process(context.Background(), Request{
		Text: "I grow rice in Goa and need help",
	})
	assert.Equal(t, StateResolved, resp.State)
	assert.Equal(t, []string{"Rice"}, resp.Profile.Crops)
	assert.NotEmpty(t, resp.Schemes)
}

func TestProcess_ExplicitListAskOverridesSignals(t *testing.T) {
	o := newTestOrchestrator(t)

	resp := o.Process(context.Background(), Request{
		Text: "show me list of options for my 2 acres farm in Goa",
	})
	assert.Equal(t, StateTopicListShown, resp.State)
}

func TestProcess_NoStateNoTopicPrompts(t *testing.T) {
	o := newTestOrchestrator(t)

	resp := o.Process(context.Background(), Request{Text: "hello there"})
	assert.Equal(t, StateInit, resp.State)
	assert.Equal(t, "Please tell me your state or the type of scheme you are looking for.", resp.Message)
}

func TestProcess_StateHintWinsOverText(t *testing.T) {
	o := newTestOrchestrator(t)

	resp := o.Process(context.Background(), Request{
		Text:      "what schemes can I get",
		StateHint: "Goa",
	})
	assert.Equal(t, StateTopicListShown, resp.State)
	assert.Equal(t, "Goa", resp.Profile.State)
}

func TestProcess_Deterministic(t *testing.T) {
	o := newTestOrchestrator(t)
	req := Request{Text: "financial assistance schemes in Goa"}

	first := o.Process(context.Background(), req)
	second := o.Process(context.Background(), req)
	assert.Equal(t, first, second)
}

type stubQuestionGenerator struct {
	questions []string
	err       error
}

func (s stubQuestionGenerator) Questions(ctx context.Context, query string, schemes []SchemeSummary) ([]string, error) {
	return s.questions, s.err
}

func TestProcess_EligibilityAskGeneratesQuestions(t *testing.T) {
	o := newTestOrchestrator(t).WithQuestionGenerator(stubQuestionGenerator{
		questions: []string{"What is your age?", "How much land do you own?"},
	})

	resp := o.Process(context.Background(), Request{
		Text: "am I eligible for dairy schemes in Goa",
	})
	assert.Equal(t, StateResolved, resp.State)
	assert.Equal(t, []string{"What is your age?", "How much land do you own?"}, resp.Questions)
}

func TestProcess_QuestionGeneratorFailureIsNotFatal(t *testing.T) {
	o := newTestOrchestrator(t).WithQuestionGenerator(stubQuestionGenerator{
		err: errors.New("generator offline"),
	})

	resp := o.Process(context.Background(), Request{
		Text: "am I eligible for dairy schemes in Goa",
	})
	assert.Equal(t, StateResolved, resp.State)
	assert.Empty(t, resp.Questions)
	assert.NotEmpty(t, resp.Schemes)
}
