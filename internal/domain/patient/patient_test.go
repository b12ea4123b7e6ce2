package patient

import (
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGender_IsValid(t *testing.T) {
	tests := []struct {
		gender Gender
		valid  bool
	}{
		{GenderMale, true},
		{GenderFemale, true},
		{GenderOther, true},
		{Gender(""), false},
		{Gender("Male"), false},
		{Gender("unknown"), false},
	}

	for _, tt := range tests {
		t.Run(string(tt.gender), func(t *testing.T) {
			assert.Equal(t, tt.valid, tt.gender.IsValid())
		})
	}
}

func TestRiskFactors_Value(t *testing.T) {
	tests := []struct {
		name     string
		factors  RiskFactors
		expected string
	}{
		{"empty", nil, ""},
		{"single", RiskFactors{"family history"}, "family history"},
		{"multiple", RiskFactors{"family history", "high IOP", "myopia"}, "family history;high IOP;myopia"},
		{"trims whitespace", RiskFactors{" diabetes ", "high IOP"}, "diabetes;high IOP"},
		{"drops empty entries", RiskFactors{"diabetes", "", "  "}, "diabetes"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			v, err := tt.factors.Value()
			require.NoError(t, err)
			assert.Equal(t, tt.expected, v)
		})
	}
}

func TestRiskFactors_Scan(t *testing.T) {
	tests := []struct {
		name     string
		column   any
		expected RiskFactors
	}{
		{"nil column", nil, nil},
		{"empty string", "", nil},
		{"single", "family history", RiskFactors{"family history"}},
		{"multiple", "family history;high IOP;myopia", RiskFactors{"family history", "high IOP", "myopia"}},
		{"bytes", []byte("diabetes;myopia"), RiskFactors{"diabetes", "myopia"}},
		{"skips blank segments", "diabetes;;myopia", RiskFactors{"diabetes", "myopia"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var rf RiskFactors
			require.NoError(t, rf.Scan(tt.column))
			assert.Equal(t, tt.expected, rf)
		})
	}
}

func TestRiskFactors_ScanRejectsUnknownType(t *testing.T) {
	var rf RiskFactors
	assert.Error(t, rf.Scan(42))
}

func TestRiskFactors_RoundTrip(t *testing.T) {
	original := RiskFactors{"family history", "high IOP", "steroid use"}

	v, err := original.Value()
	require.NoError(t, err)

	var decoded RiskFactors
	require.NoError(t, decoded.Scan(v))
	assert.Equal(t, original, decoded)
}

func TestPatient_OwnedBy(t *testing.T) {
	owner := uuid.New()
	p := &Patient{ID: uuid.New(), DoctorID: owner}

	assert.True(t, p.OwnedBy(owner))
	assert.False(t, p.OwnedBy(uuid.New()))
}
