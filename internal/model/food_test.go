package model

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestFood_ComputeDaysLeft(t *testing.T) {
	now := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)

	tests := []struct {
		name      string
		useByDate time.Time
		expected  int
	}{
		{name: "three full days", useByDate: now.Add(72 * time.Hour), expected: 3},
		{name: "partial day rounds up", useByDate: now.Add(36 * time.Hour), expected: 2},
		{name: "later the same day", useByDate: now.Add(6 * time.Hour), expected: 1},
		{name: "exactly now", useByDate: now, expected: 0},
		{name: "expired is floored at zero", useByDate: now.Add(-48 * time.Hour), expected: 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := Food{UseByDate: tt.useByDate}
			assert.Equal(t, tt.expected, f.ComputeDaysLeft(now))
		})
	}
}

func TestFood_RefreshDaysLeft(t *testing.T) {
	now := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	f := Food{UseByDate: now.Add(24 * time.Hour)}
	f.RefreshDaysLeft(now)
	assert.Equal(t, 1, f.DaysLeft)
}

func TestRole_Valid(t *testing.T) {
	assert.True(t, RoleAdmin.Valid())
	assert.True(t, RoleManager.Valid())
	assert.True(t, RoleGuest.Valid())
	assert.False(t, Role("superuser").Valid())
	assert.False(t, Role("").Valid())
}
