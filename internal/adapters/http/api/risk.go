package api

import (
	"context"
	"net/http"

	"github.com/okian/fightlab/internal/domain/model"
)

// RiskDependencies defines the interface for risk operations.
type RiskDependencies interface {
	PredictRisk(ctx context.Context, profile model.AthleteProfile) (model.RiskPrediction, error)
	DefaultProfile() model.AthleteProfile
}

// RiskHandler handles injury risk requests.
type RiskHandler struct {
	deps RiskDependencies
}

// NewRiskHandler creates a new risk handler.
func NewRiskHandler(deps RiskDependencies) *RiskHandler {
	return &RiskHandler{deps: deps}
}

// HandleDefaultProfile handles GET /v1/risk/profile requests.
func (h *RiskHandler) HandleDefaultProfile(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, h.deps.DefaultProfile())
}

// HandlePredict handles POST /v1/risk/predict requests.
// Fields missing from the body keep their default profile values. A
// risk_factors list replaces the default list as a whole.
func (h *RiskHandler) HandlePredict(w http.ResponseWriter, r *http.Request) {
	defaults := h.deps.DefaultProfile()
	profile := defaults
	profile.RiskFactors = nil
	if err := decodeJSON(w, r, &profile); err != nil {
		writeServiceError(w, r, err)
		return
	}
	if profile.RiskFactors == nil {
		profile.RiskFactors = defaults.RiskFactors
	}
	pred, err := h.deps.PredictRisk(r.Context(), profile)
	if err != nil {
		writeServiceError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, pred)
}
