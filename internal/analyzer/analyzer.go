// Package analyzer stages OCT-derived measurements into one of the four
// glaucoma stages and produces a feature-attribution explanation. It is a
// deterministic rule-based scorer calibrated against published normal ranges
// (RNFL 95-105um average, GC-IPL 75-85um, cup-to-disc ratio suspicious above
// 0.6, glaucomatous above 0.7); it performs no model inference.
package analyzer

import (
	"math"

	"github.com/Jeevanbnj/glaucoma-ai-insights/internal/domain/prediction"
)

// Feature names as they appear in explanations and stored feature vectors.
const (
	FeatureRNFLInferior = "RNFL Inferior"
	FeatureRNFLSuperior = "RNFL Superior"
	FeatureRNFLNasal    = "RNFL Nasal"
	FeatureRNFLTemporal = "RNFL Temporal"
	FeatureGCIPL        = "GC-IPL Thickness"
	FeatureCupDiscRatio = "Cup-to-Disc Ratio"
)

// Measurements are the six OCT inputs of one analysis. Thickness values are
// in micrometers; the cup-to-disc ratio is dimensionless.
type Measurements struct {
	RNFLInferior float64 `json:"rnfl_inferior" binding:"required,gt=0"`
	RNFLSuperior float64 `json:"rnfl_superior" binding:"required,gt=0"`
	RNFLNasal    float64 `json:"rnfl_nasal" binding:"required,gt=0"`
	RNFLTemporal float64 `json:"rnfl_temporal" binding:"required,gt=0"`
	GCIPL        float64 `json:"gcipl_thickness" binding:"required,gt=0"`
	CupDiscRatio float64 `json:"cup_disc_ratio" binding:"required,gt=0,lte=1"`
}

// Vector returns the measurements as the stored feature vector.
func (m Measurements) Vector() prediction.FeatureVector {
	return prediction.FeatureVector{
		FeatureRNFLInferior: m.RNFLInferior,
		FeatureRNFLSuperior: m.RNFLSuperior,
		FeatureRNFLNasal:    m.RNFLNasal,
		FeatureRNFLTemporal: m.RNFLTemporal,
		FeatureGCIPL:        m.GCIPL,
		FeatureCupDiscRatio: m.CupDiscRatio,
	}
}

// Result is the outcome of one analysis. Probability is the confidence in
// the assigned stage and always lies in [0, 1]; the explanation is ordered
// by descending importance with non-negative weights.
type Result struct {
	Stage         prediction.Stage         `json:"stage"`
	Probability   float64                  `json:"probability"`
	Explanation   prediction.Explanation   `json:"explanation"`
	FeatureVector prediction.FeatureVector `json:"feature_vector"`
}

// baseline holds the healthy reference value and scoring weight of a feature.
// Weights reflect the ISNT rule: the inferior and superior quadrants are the
// most sensitive to early glaucomatous loss.
type baseline struct {
	name   string
	value  float64
	weight float64
}

var thicknessBaselines = []baseline{
	{FeatureRNFLInferior, 120, 0.30},
	{FeatureRNFLSuperior, 130, 0.25},
	{FeatureGCIPL, 82, 0.20},
	{FeatureRNFLNasal, 75, 0.05},
	{FeatureRNFLTemporal, 70, 0.05},
}

const (
	cdrBaseline = 0.5
	cdrWeight   = 0.15

	// Fractional deviation from baseline below which a feature reads as normal.
	normalBand = 0.05
)

// Stage thresholds on the aggregate deficit score.
const (
	earlyThreshold    = 0.10
	moderateThreshold = 0.30
	advancedThreshold = 0.55
)

type Analyzer struct{}

func New() *Analyzer {
	return &Analyzer{}
}

// Analyze scores the measurements into a stage. Same input, same output.
func (a *Analyzer) Analyze(m Measurements) Result {
	type scored struct {
		name      string
		weight    float64
		deficit   float64 // 0 = at baseline, 1 = total loss
		direction prediction.Direction
	}

	values := map[string]float64{
		FeatureRNFLInferior: m.RNFLInferior,
		FeatureRNFLSuperior: m.RNFLSuperior,
		FeatureGCIPL:        m.GCIPL,
		FeatureRNFLNasal:    m.RNFLNasal,
		FeatureRNFLTemporal: m.RNFLTemporal,
	}

	features := make([]scored, 0, len(thicknessBaselines)+1)
	for _, b := range thicknessBaselines {
		v := values[b.name]
		dev := (b.value - v) / b.value
		s := scored{name: b.name, weight: b.weight, direction: prediction.DirectionNormal}
		if dev > normalBand {
			s.deficit = math.Min(dev, 1)
			s.direction = prediction.DirectionDecreased
		} else if dev < -normalBand {
			s.direction = prediction.DirectionIncreased
		}
		features = append(features, s)
	}

	// Cup excavation grows with damage, so the ratio scores on excess.
	cdr := scored{name: FeatureCupDiscRatio, weight: cdrWeight, direction: prediction.DirectionNormal}
	if excess := (m.CupDiscRatio - cdrBaseline) / cdrBaseline; excess > normalBand {
		cdr.deficit = math.Min(excess, 1)
		cdr.direction = prediction.DirectionIncreased
	} else if excess < -normalBand {
		cdr.direction = prediction.DirectionDecreased
	}
	features = append(features, cdr)

	var score float64
	for _, f := range features {
		score += f.weight * f.deficit
	}

	stage := stageFor(score)

	explanation := make(prediction.Explanation, 0, len(features))
	for _, f := range features {
		importance := f.weight * f.deficit
		if stage == prediction.StageNormal {
			// With nothing abnormal, attribution goes to how firmly each
			// feature sits inside its normal range.
			importance = f.weight * (1 - f.deficit)
		}
		explanation = append(explanation, prediction.FeatureAttribution{
			Feature:    f.name,
			Direction:  f.direction,
			Importance: round3(importance),
		})
	}
	// Deficits are clamped to [0,1], so Normalize cannot fail here.
	_ = explanation.Normalize()

	return Result{
		Stage:         stage,
		Probability:   round3(probabilityFor(stage, score)),
		Explanation:   explanation,
		FeatureVector: m.Vector(),
	}
}

func stageFor(score float64) prediction.Stage {
	switch {
	case score < earlyThreshold:
		return prediction.StageNormal
	case score < moderateThreshold:
		return prediction.StageEarly
	case score < advancedThreshold:
		return prediction.StageModerate
	default:
		return prediction.StageAdvanced
	}
}

// probabilityFor maps the score's position within the stage's band into a
// confidence value in [0.5, 0.99]. A pristine scan is a confident Normal, a
// fully degraded one a confident Advanced; for the middle stages confidence
// peaks mid-band and drops toward the boundaries.
func probabilityFor(stage prediction.Stage, score float64) float64 {
	var distance float64
	switch stage {
	case prediction.StageNormal:
		distance = score / earlyThreshold
	case prediction.StageEarly:
		distance = bandDistance(score, earlyThreshold, moderateThreshold)
	case prediction.StageModerate:
		distance = bandDistance(score, moderateThreshold, advancedThreshold)
	default:
		distance = 1 - (score-advancedThreshold)/(1-advancedThreshold)
	}

	p := 0.99 - 0.49*math.Min(math.Max(distance, 0), 1)
	return math.Max(0.5, math.Min(0.99, p))
}

func bandDistance(score, lo, hi float64) float64 {
	mid := (lo + hi) / 2
	return math.Abs(score-mid) / ((hi - lo) / 2)
}

func round3(v float64) float64 {
	return math.Round(v*1000) / 1000
}
