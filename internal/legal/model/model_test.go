package model

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseMode(t *testing.T) {
	m, err := ParseMode("")
	require.NoError(t, err)
	assert.Equal(t, ModeResearch, m)

	m, err = ParseMode("  Judicial_Review ")
	require.NoError(t, err)
	assert.Equal(t, ModeJudicialReview, m)

	_, err = ParseMode("poetry")
	assert.Error(t, err)
}

func TestParseDisclaimerLevel(t *testing.T) {
	assert.Equal(t, DisclaimerSpecificAdvice, ParseDisclaimerLevel("specific_advice"))
	assert.Equal(t, DisclaimerBorderline, ParseDisclaimerLevel("BORDERLINE"))
	assert.Equal(t, DisclaimerResearch, ParseDisclaimerLevel(""))
	assert.Equal(t, DisclaimerResearch, ParseDisclaimerLevel("urgent"))
}

func TestSourceLabel(t *testing.T) {
	tests := []struct {
		name     string
		src      Source
		label    string
		hasLabel bool
	}{
		{"citation wins", Source{Citation: "[2019] eKLR", Title: "Republic v X"}, "[2019] eKLR", true},
		{"title fallback", Source{Title: "Constitution of Kenya"}, "Constitution of Kenya", true},
		{"blank citation ignored", Source{Citation: "  ", Title: "Act"}, "Act", true},
		{"placeholder", Source{Court: "High Court"}, SourcePlaceholder, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.label, tt.src.Label())
			assert.Equal(t, tt.hasLabel, tt.src.HasLabel())
		})
	}
}

func TestNewHealthSnapshot(t *testing.T) {
	s := NewHealthSnapshot(true, true, 1200)
	assert.Equal(t, RetrievalGrounded, s.Mode)
	assert.False(t, s.CheckedAt.IsZero())

	assert.Equal(t, RetrievalDirect, NewHealthSnapshot(true, true, 0).Mode)
	assert.Equal(t, RetrievalDirect, NewHealthSnapshot(true, false, 50).Mode)

	off := OfflineSnapshot()
	assert.False(t, off.APIOnline)
	assert.False(t, off.IndexOnline)
	assert.Equal(t, RetrievalDirect, off.Mode)
}

func TestRequestStateString(t *testing.T) {
	assert.Equal(t, "idle", Idle.String())
	assert.Equal(t, "in_flight", InFlight.String())
}
