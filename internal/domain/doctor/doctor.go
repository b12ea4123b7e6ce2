package doctor

import (
	"strings"
	"time"

	"github.com/google/uuid"
)

// Doctor is the clinical profile created at registration. It is read-only
// afterwards; there is no update or delete path.
type Doctor struct {
	ID        uuid.UUID `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	CreatedAt time.Time `gorm:"autoCreateTime;index"`

	// Session identity this profile belongs to. Exactly one Doctor per user.
	UserID uuid.UUID `gorm:"column:user_id;type:uuid;uniqueIndex;not null"`

	Name            string `gorm:"column:name;type:varchar(200);not null"`
	Email           string `gorm:"column:email;type:varchar(255);not null"`
	Hospital        string `gorm:"column:hospital;type:varchar(200)"`
	Specialization  string `gorm:"column:specialization;type:varchar(200)"`
	ExperienceYears int    `gorm:"column:experience_years;default:0"`
}

func (Doctor) TableName() string {
	return "clinical.doctors"
}

func (d *Doctor) DisplayName() string {
	return strings.TrimSpace(d.Name)
}

type CreateDoctorCommand struct {
	UserID          uuid.UUID
	Name            string
	Email           string
	Hospital        string
	Specialization  string
	ExperienceYears int
}

// DashboardStats summarizes a doctor's caseload for the dashboard screen.
type DashboardStats struct {
	TotalPatients    int64 `json:"total_patients"`
	TotalPredictions int64 `json:"total_predictions"`
	TodayCases       int64 `json:"today_cases"`
}
