// Package handlers provides HTTP handlers for the scheme engine API.
package handlers

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/google/uuid"

	"github.com/agrimitra-ai/scheme-engine/internal/corpus"
	"github.com/agrimitra-ai/scheme-engine/internal/dialog"
	"github.com/agrimitra-ai/scheme-engine/internal/observability"
	"github.com/agrimitra-ai/scheme-engine/pkg/engine"
)

// DiscoveryHandler handles scheme discovery requests.
type DiscoveryHandler struct {
	logger      *observability.Logger
	engine      *engine.Engine
	defaultTopK int
}

// NewDiscoveryHandler creates a new discovery handler.
func NewDiscoveryHandler(logger *observability.Logger, eng *engine.Engine, defaultTopK int) *DiscoveryHandler {
	return &DiscoveryHandler{
		logger:      logger,
		engine:      eng,
		defaultTopK: defaultTopK,
	}
}

// QueryRequestDTO represents the API request for a conversation turn.
type QueryRequestDTO struct {
	Text      string `json:"text"`
	StateHint string `json:"stateHint,omitempty"`
	TopK      int    `json:"topK,omitempty"`
}

// QueryResponseDTO represents the API response for a conversation turn.
type QueryResponseDTO struct {
	RequestID   string                     `json:"requestId"`
	State       string                     `json:"state"`
	Message     string                     `json:"message,omitempty"`
	Schemes     []dialog.SchemeSummary     `json:"schemes,omitempty"`
	TopicList   *dialog.TopicListPayload   `json:"topicList,omitempty"`
	ScopeChoice *dialog.ScopeChoicePayload `json:"scopeChoice,omitempty"`
	Questions   []string                   `json:"questions,omitempty"`
	Profile     ProfileDTO                 `json:"profile"`
}

// ProfileDTO is the extracted applicant profile echoed back to the caller.
type ProfileDTO struct {
	State       string   `json:"state,omitempty"`
	Crops       []string `json:"crops,omitempty"`
	LandAcres   *float64 `json:"landAcres,omitempty"`
	FarmerType  string   `json:"farmerType,omitempty"`
	Age         *int     `json:"age,omitempty"`
	Income      *float64 `json:"income,omitempty"`
	TargetGroup string   `json:"targetGroup,omitempty"`
	Topic       string   `json:"topic,omitempty"`
	Scope       string   `json:"scope"`
}

// Query handles POST /api/v1/schemes/query.
func (h *DiscoveryHandler) Query(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	var reqDTO QueryRequestDTO
	if err := json.NewDecoder(r.Body).Decode(&reqDTO); err != nil {
		h.writeError(w, http.StatusBadRequest, "invalid request body", err.Error())
		return
	}

	if reqDTO.Text == "" {
		h.writeError(w, http.StatusBadRequest, "text is required", "")
		return
	}

	topK := reqDTO.TopK
	if topK <= 0 {
		topK = h.defaultTopK
	}

	resp, err := h.engine.Process(ctx, engine.Request{
		Text:      reqDTO.Text,
		StateHint: reqDTO.StateHint,
		TopK:      topK,
	})
	if err != nil {
		h.logger.Error().Err(err).Msg("Query failed")
		if errors.Is(err, corpus.ErrDataUnavailable) {
			h.writeError(w, http.StatusServiceUnavailable, "scheme data unavailable", err.Error())
			return
		}
		h.writeError(w, http.StatusInternalServerError, "query failed", err.Error())
		return
	}

	respDTO := QueryResponseDTO{
		RequestID:   uuid.NewString(),
		State:       string(resp.State),
		Message:     resp.Message,
		Schemes:     resp.Schemes,
		TopicList:   resp.TopicList,
		ScopeChoice: resp.ScopeChoice,
		Questions:   resp.Questions,
		Profile: ProfileDTO{
			State:       resp.Profile.State,
			Crops:       resp.Profile.Crops,
			LandAcres:   resp.Profile.LandAcres,
			FarmerType:  resp.Profile.FarmerType,
			Age:         resp.Profile.Age,
			Income:      resp.Profile.Income,
			TargetGroup: resp.Profile.TargetGroup,
			Topic:       resp.Profile.Topic,
			Scope:       string(resp.Profile.Scope),
		},
	}

	w.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(w).Encode(respDTO); err != nil {
		h.logger.Error().Err(err).Msg("Failed to encode response")
	}
}

func (h *DiscoveryHandler) writeError(w http.ResponseWriter, status int, message, detail string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	resp := map[string]string{
		"error":   message,
		"message": message,
	}
	if detail != "" {
		resp["detail"] = detail
	}
	json.NewEncoder(w).Encode(resp)
}
