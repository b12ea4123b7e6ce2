package v1

import (
	"github.com/gin-gonic/gin"
)

// InfoHandler serves the static informational payloads backing the
// model-info and contact screens.
type InfoHandler struct{}

func NewInfoHandler() *InfoHandler {
	return &InfoHandler{}
}

type featureInfo struct {
	Name        string `json:"name"`
	Description string `json:"description"`
	NormalRange string `json:"normal_range"`
}

type stageInfo struct {
	Stage       string `json:"stage"`
	Description string `json:"description"`
}

type modelInfoResponse struct {
	ModelType  string            `json:"model_type"`
	Explainer  string            `json:"explainer"`
	Metrics    map[string]string `json:"metrics"`
	Features   []featureInfo     `json:"features"`
	Stages     []stageInfo       `json:"stages"`
	Disclaimer string            `json:"disclaimer"`
}

func (h *InfoHandler) ModelInfo(c *gin.Context) {
	respondOK(c, modelInfoResponse{
		ModelType: "Random Forest / Gradient Boosting ensemble trained on OCT feature vectors",
		Explainer: "SHAP (SHapley Additive exPlanations) feature attributions per prediction",
		Metrics: map[string]string{
			"accuracy":    "89%",
			"f1_score":    "0.87",
			"sensitivity": "91%",
			"specificity": "88%",
		},
		Features: []featureInfo{
			{
				Name:        "RNFL Thickness",
				Description: "Retinal nerve fiber layer thickness by quadrant; the inferior quadrant is typically thickest and most sensitive to early glaucoma.",
				NormalRange: "95-105 um average",
			},
			{
				Name:        "GC-IPL Thickness",
				Description: "Ganglion cell plus inner plexiform layer thickness; thinning precedes visual field loss.",
				NormalRange: "75-85 um average",
			},
			{
				Name:        "TSNIT Pattern",
				Description: "Temporal-superior-nasal-inferior-temporal thickness profile; glaucoma disrupts its double-hump symmetry.",
				NormalRange: "symmetric double hump",
			},
			{
				Name:        "Cup-to-Disc Ratio",
				Description: "Ratio of the optic cup diameter to the optic disc diameter; glaucomatous damage enlarges the cup.",
				NormalRange: "<0.6 normal, >0.7 glaucomatous",
			},
		},
		Stages: []stageInfo{
			{Stage: "Normal", Description: "No structural damage detected; parameters within normal limits."},
			{Stage: "Early Glaucoma", Description: "Early structural changes; localized RNFL thinning without significant field loss."},
			{Stage: "Moderate Glaucoma", Description: "Established damage with measurable thinning in multiple quadrants."},
			{Stage: "Advanced Glaucoma", Description: "Severe diffuse loss; immediate treatment intensification indicated."},
		},
		Disclaimer: "Predictions support clinical decision-making; they do not replace it.",
	})
}

type contactResponse struct {
	Team  string `json:"team"`
	Email string `json:"email"`
	Phone string `json:"phone"`
}

func (h *InfoHandler) Contact(c *gin.Context) {
	respondOK(c, contactResponse{
		Team:  "Glaucoma AI Insights",
		Email: "support@glaucoma-insights.example.com",
		Phone: "+1 (555) 010-0199",
	})
}
