package icron

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGetTriggerInfo(t *testing.T) {
	ref := time.Date(2024, 3, 10, 12, 30, 0, 0, time.UTC)

	info, err := GetTriggerInfo("0 3 * * *", ref)
	require.NoError(t, err)
	assert.Equal(t, time.Date(2024, 3, 11, 3, 0, 0, 0, time.UTC), info.Next)
	assert.Equal(t, time.Date(2024, 3, 10, 3, 0, 0, 0, time.UTC), info.Last)
	assert.Equal(t, 14*time.Hour+30*time.Minute, info.TimeUntilNext)
	assert.Equal(t, 9*time.Hour+30*time.Minute, info.TimeSinceLast)
	assert.Contains(t, info.String(), `"0 3 * * *" next at 2024-03-11T03:00:00Z`)
}

func TestGetTriggerInfo_Descriptor(t *testing.T) {
	ref := time.Date(2024, 3, 10, 12, 30, 0, 0, time.UTC)
	info, err := GetTriggerInfo("@hourly", ref)
	require.NoError(t, err)
	assert.Equal(t, time.Date(2024, 3, 10, 13, 0, 0, 0, time.UTC), info.Next)
}

func TestGetTriggerInfo_Invalid(t *testing.T) {
	_, err := GetTriggerInfo("every day", time.Now())
	assert.Error(t, err)
}
