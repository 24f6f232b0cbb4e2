package service

import (
	"testing"
	"time"

	"sigrap/internal/apperr"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseReportRangeDefaultsToLast30Days(t *testing.T) {
	from, to, err := parseReportRange("", "")
	require.NoError(t, err)

	assert.True(t, from.Before(to))
	assert.InDelta(t, 30*24*time.Hour, to.Sub(from), float64(time.Minute))
}

func TestParseReportRangeExclusiveEnd(t *testing.T) {
	from, to, err := parseReportRange("2026-03-01", "2026-03-31")
	require.NoError(t, err)

	assert.Equal(t, "2026-03-01", from.Format("2006-01-02"))
	// The end bound covers the whole last day
	assert.Equal(t, "2026-04-01", to.Format("2006-01-02"))
}

func TestParseReportRangeRejectsBadInput(t *testing.T) {
	_, _, err := parseReportRange("not-a-date", "")
	assert.ErrorIs(t, err, apperr.Validation(""))

	_, _, err = parseReportRange("2026-05-01", "2026-04-01")
	assert.ErrorIs(t, err, apperr.Validation(""))
}
