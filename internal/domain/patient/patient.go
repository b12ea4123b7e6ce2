package patient

import (
	"database/sql/driver"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
)

type Gender string

const (
	GenderMale   Gender = "male"
	GenderFemale Gender = "female"
	GenderOther  Gender = "other"
)

func (g Gender) IsValid() bool {
	switch g {
	case GenderMale, GenderFemale, GenderOther:
		return true
	}
	return false
}

// MaxAge is the upper bound accepted for a patient's age.
const MaxAge = 120

const riskFactorDelimiter = ";"

// RiskFactors is an ordered set of free-text tags. The domain works with a
// native slice; the store column is a single delimited string.
type RiskFactors []string

func (rf RiskFactors) Value() (driver.Value, error) {
	if len(rf) == 0 {
		return "", nil
	}
	cleaned := make([]string, 0, len(rf))
	for _, f := range rf {
		if t := strings.TrimSpace(f); t != "" {
			cleaned = append(cleaned, t)
		}
	}
	return strings.Join(cleaned, riskFactorDelimiter), nil
}

func (rf *RiskFactors) Scan(value any) error {
	var raw string
	switch v := value.(type) {
	case nil:
		*rf = nil
		return nil
	case string:
		raw = v
	case []byte:
		raw = string(v)
	default:
		return fmt.Errorf("unsupported risk_factors column type %T", value)
	}

	if raw == "" {
		*rf = nil
		return nil
	}

	parts := strings.Split(raw, riskFactorDelimiter)
	factors := make(RiskFactors, 0, len(parts))
	for _, p := range parts {
		if t := strings.TrimSpace(p); t != "" {
			factors = append(factors, t)
		}
	}
	*rf = factors
	return nil
}

// Patient belongs to exactly one doctor and is visible only to that doctor.
// Records are created once and never updated or deleted.
type Patient struct {
	ID        uuid.UUID `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	CreatedAt time.Time `gorm:"autoCreateTime;index"`

	DoctorID uuid.UUID `gorm:"column:doctor_id;type:uuid;not null;index"`

	PatientCode    string      `gorm:"column:patient_code;type:varchar(50);not null;index"`
	Name           string      `gorm:"column:name;type:varchar(200);not null"`
	Age            int         `gorm:"column:age;not null"`
	Gender         Gender      `gorm:"column:gender;type:varchar(10);not null"`
	MedicalHistory string      `gorm:"column:medical_history;type:text"`
	RiskFactors    RiskFactors `gorm:"column:risk_factors;type:text"`
}

func (Patient) TableName() string {
	return "clinical.patients"
}

// OwnedBy reports whether the record belongs to the given doctor.
func (p *Patient) OwnedBy(doctorID uuid.UUID) bool {
	return p.DoctorID == doctorID
}

type CreatePatientCommand struct {
	DoctorID       uuid.UUID
	PatientCode    string
	Name           string
	Age            int
	Gender         Gender
	MedicalHistory string
	RiskFactors    []string
}

// ListPatientsQuery filters and paginates a doctor's patient list.
// Results are always ordered by creation time descending.
type ListPatientsQuery struct {
	DoctorID uuid.UUID
	Search   string // matches name or patient code
	Page     int
	PageSize int
}

type PagedPatients struct {
	Patients   []*Patient
	TotalCount int64
	Page       int
	PageSize   int
	TotalPages int
}
