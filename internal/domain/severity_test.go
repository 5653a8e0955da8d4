package domain

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestSeverityThresholds_Classify(t *testing.T) {
	th := DefaultSeverityThresholds()
	assert.Equal(t, SeverityNormal, th.Classify(1))
	assert.Equal(t, SeverityNormal, th.Classify(3))
	assert.Equal(t, SeverityCaution, th.Classify(4))
	assert.Equal(t, SeverityCaution, th.Classify(5))
	assert.Equal(t, SeverityHigh, th.Classify(6))
	assert.Equal(t, SeverityCritical, th.Classify(9))
	assert.Equal(t, SeverityDanger, th.Classify(10))
	assert.Equal(t, SeverityDanger, th.Classify(25))
}

func TestSeverityThresholds_Custom(t *testing.T) {
	th := SeverityThresholds{Caution: 2, High: 3, Critical: 3, Danger: 5}
	assert.NoError(t, th.Validate())
	assert.Equal(t, SeverityCaution, th.Classify(2))
	assert.Equal(t, SeverityCritical, th.Classify(3), "equal thresholds resolve to the higher category")
	assert.Equal(t, SeverityDanger, th.Classify(5))
}

func TestSeverityThresholds_Validate(t *testing.T) {
	assert.NoError(t, DefaultSeverityThresholds().Validate())
	assert.ErrorIs(t, SeverityThresholds{}.Validate(), ErrValidation)
	assert.ErrorIs(t, SeverityThresholds{Caution: 5, High: 4, Critical: 8, Danger: 10}.Validate(), ErrValidation)
}

func TestSeverity_Ordering(t *testing.T) {
	assert.Less(t, SeverityNormal, SeverityCaution)
	assert.Less(t, SeverityCritical, SeverityDanger)
	assert.Equal(t, "Berbahaya", SeverityDanger.String())
	assert.Equal(t, "Perhatian", SeverityCaution.String())
}
