package prediction

import (
	"sort"
	"time"

	"github.com/google/uuid"
)

// Stage is the predicted glaucoma stage. Exactly these four values exist.
type Stage string

const (
	StageNormal   Stage = "Normal"
	StageEarly    Stage = "Early Glaucoma"
	StageModerate Stage = "Moderate Glaucoma"
	StageAdvanced Stage = "Advanced Glaucoma"
)

func (s Stage) IsValid() bool {
	switch s {
	case StageNormal, StageEarly, StageModerate, StageAdvanced:
		return true
	}
	return false
}

// Stages lists all valid stages in order of severity.
func Stages() []Stage {
	return []Stage{StageNormal, StageEarly, StageModerate, StageAdvanced}
}

// Direction describes how a feature deviates from its normal range.
type Direction string

const (
	DirectionDecreased Direction = "decreased"
	DirectionIncreased Direction = "increased"
	DirectionNormal    Direction = "normal"
)

func (d Direction) IsValid() bool {
	switch d {
	case DirectionDecreased, DirectionIncreased, DirectionNormal:
		return true
	}
	return false
}

// FeatureAttribution is one entry of the explanation payload: how much a
// single OCT feature contributed to the predicted stage.
type FeatureAttribution struct {
	Feature    string    `json:"feature"`
	Direction  Direction `json:"direction"`
	Importance float64   `json:"importance"`
}

// Explanation is the ordered list of feature attributions. Importance weights
// are non-negative and entries are sorted by descending importance.
type Explanation []FeatureAttribution

// Normalize sorts the explanation by descending importance. It returns
// ErrNegativeImportance if any weight is below zero and ErrInvalidDirection
// if an entry carries an unknown direction.
func (e Explanation) Normalize() error {
	for _, attr := range e {
		if attr.Importance < 0 {
			return ErrNegativeImportance
		}
		if !attr.Direction.IsValid() {
			return ErrInvalidDirection
		}
	}
	sort.SliceStable(e, func(i, j int) bool {
		return e[i].Importance > e[j].Importance
	})
	return nil
}

// IsSorted reports whether the explanation is ordered by descending importance.
func (e Explanation) IsSorted() bool {
	return sort.SliceIsSorted(e, func(i, j int) bool {
		return e[i].Importance > e[j].Importance
	})
}

// FeatureVector is the opaque structured payload of OCT measurements the
// analysis ran on, keyed by feature name.
type FeatureVector map[string]float64

// Prediction is immutable once saved; there is no edit or delete path.
// It always references a patient owned by the same doctor.
type Prediction struct {
	ID        uuid.UUID `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	CreatedAt time.Time `gorm:"autoCreateTime;index"`

	DoctorID  uuid.UUID `gorm:"column:doctor_id;type:uuid;not null;index"`
	PatientID uuid.UUID `gorm:"column:patient_id;type:uuid;not null;index"`

	ImagePath     string        `gorm:"column:image_path;type:varchar(500)"`
	FeatureVector FeatureVector `gorm:"column:feature_vector;serializer:json"`

	PredictedStage Stage       `gorm:"column:predicted_stage;type:varchar(30);not null;index"`
	Probability    float64     `gorm:"column:probability;not null"`
	Explanation    Explanation `gorm:"column:explanation;serializer:json"`

	DoctorNotes string `gorm:"column:doctor_notes;type:text"`
}

func (Prediction) TableName() string {
	return "clinical.predictions"
}

// TopFeature returns the most important attribution, if any.
func (p *Prediction) TopFeature() (FeatureAttribution, bool) {
	if len(p.Explanation) == 0 {
		return FeatureAttribution{}, false
	}
	return p.Explanation[0], true
}

type CreatePredictionCommand struct {
	DoctorID      uuid.UUID
	PatientID     uuid.UUID
	ImagePath     string
	FeatureVector FeatureVector
	Stage         Stage
	Probability   float64
	Explanation   Explanation
	DoctorNotes   string
}

// ListPredictionsQuery selects predictions for one patient, newest first.
type ListPredictionsQuery struct {
	PatientID uuid.UUID
	Page      int
	PageSize  int
}

type PagedPredictions struct {
	Predictions []*Prediction
	TotalCount  int64
	Page        int
	PageSize    int
	TotalPages  int
}
