package service

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/noah-isme/study-seat-api/internal/models"
)

const clockLayout = "15:04"

// ParseClock parses an "HH:MM" wall clock time. A single digit hour or minute is accepted.
func ParseClock(raw string) (hour, minute int, err error) {
	parts := strings.Split(strings.TrimSpace(raw), ":")
	if len(parts) != 2 {
		return 0, 0, fmt.Errorf("clock %q: expected HH:MM", raw)
	}
	hour, err = strconv.Atoi(parts[0])
	if err != nil || hour < 0 || hour > 23 {
		return 0, 0, fmt.Errorf("clock %q: invalid hour", raw)
	}
	minute, err = strconv.Atoi(parts[1])
	if err != nil || minute < 0 || minute > 59 {
		return 0, 0, fmt.Errorf("clock %q: invalid minute", raw)
	}
	return hour, minute, nil
}

// RegistrationWindow returns the inclusive admission bounds of session on the calendar day of now.
// The window is anchored to today, never to the date a registration targets.
func RegistrationWindow(now time.Time, session models.StudySession) (opensAt, closesAt time.Time, err error) {
	hour, minute, err := ParseClock(session.StartTime)
	if err != nil {
		return time.Time{}, time.Time{}, err
	}
	y, m, d := now.Date()
	start := time.Date(y, m, d, hour, minute, 0, 0, now.Location())
	opensAt = start.Add(-time.Duration(session.MinutesBefore) * time.Minute)
	closesAt = start.Add(time.Duration(session.MinutesAfter) * time.Minute)
	return opensAt, closesAt, nil
}

// IsWithinWindow reports whether now lies inside the session's registration window, both ends included.
func IsWithinWindow(now time.Time, session models.StudySession) bool {
	opensAt, closesAt, err := RegistrationWindow(now, session)
	if err != nil {
		return false
	}
	return !now.Before(opensAt) && !now.After(closesAt)
}

// IsGradeEligible reports whether the session admits students of grade.
func IsGradeEligible(grade int, session models.StudySession) bool {
	return session.AllowsGrade(grade)
}
