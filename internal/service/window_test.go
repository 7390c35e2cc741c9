package service

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/noah-isme/study-seat-api/internal/models"
)

var seoul = time.FixedZone("KST", 9*60*60)

func at(hour, minute, second int) time.Time {
	return time.Date(2024, 5, 2, hour, minute, second, 0, seoul)
}

func TestParseClock(t *testing.T) {
	h, m, err := ParseClock("09:05")
	require.NoError(t, err)
	assert.Equal(t, 9, h)
	assert.Equal(t, 5, m)

	h, m, err = ParseClock("7:3")
	require.NoError(t, err)
	assert.Equal(t, 7, h)
	assert.Equal(t, 3, m)

	for _, raw := range []string{"", "0900", "24:00", "12:60", "ab:cd", "1:2:3"} {
		_, _, err := ParseClock(raw)
		assert.Error(t, err, raw)
	}
}

func TestIsWithinWindowInclusiveBounds(t *testing.T) {
	session := models.StudySession{StartTime: "09:00", MinutesBefore: 10, MinutesAfter: 5}

	assert.False(t, IsWithinWindow(at(8, 49, 59), session))
	assert.True(t, IsWithinWindow(at(8, 50, 0), session))
	assert.True(t, IsWithinWindow(at(9, 0, 0), session))
	assert.True(t, IsWithinWindow(at(9, 5, 0), session))
	assert.False(t, IsWithinWindow(at(9, 5, 1), session))
}

func TestRegistrationWindowAnchoredToCurrentDay(t *testing.T) {
	session := models.StudySession{StartTime: "18:30", MinutesBefore: 30, MinutesAfter: 0}
	now := time.Date(2030, 1, 15, 18, 10, 0, 0, seoul)

	opensAt, closesAt, err := RegistrationWindow(now, session)
	require.NoError(t, err)
	assert.Equal(t, time.Date(2030, 1, 15, 18, 0, 0, 0, seoul), opensAt)
	assert.Equal(t, time.Date(2030, 1, 15, 18, 30, 0, 0, seoul), closesAt)
}

func TestIsWithinWindowRejectsMalformedStart(t *testing.T) {
	assert.False(t, IsWithinWindow(at(9, 0, 0), models.StudySession{StartTime: "nine"}))
}

func TestIsGradeEligible(t *testing.T) {
	session := models.StudySession{TwoGrade: true}
	assert.False(t, IsGradeEligible(1, session))
	assert.True(t, IsGradeEligible(2, session))
	assert.False(t, IsGradeEligible(3, session))
	assert.False(t, IsGradeEligible(7, session))
}
