package models

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestCanTransitionApplication(t *testing.T) {
	cases := []struct {
		name string
		from ApplicationStatus
		to   ApplicationStatus
		ok   bool
	}{
		{"pending to interview", ApplicationStatusPending, ApplicationStatusInterview, true},
		{"pending to accepted", ApplicationStatusPending, ApplicationStatusAccepted, true},
		{"pending to rejected", ApplicationStatusPending, ApplicationStatusRejected, true},
		{"pending cannot stay pending", ApplicationStatusPending, ApplicationStatusPending, false},
		{"interview reschedule", ApplicationStatusInterview, ApplicationStatusInterview, true},
		{"interview to accepted", ApplicationStatusInterview, ApplicationStatusAccepted, true},
		{"interview to rejected", ApplicationStatusInterview, ApplicationStatusRejected, true},
		{"interview cannot reopen", ApplicationStatusInterview, ApplicationStatusPending, false},
		{"accepted is terminal", ApplicationStatusAccepted, ApplicationStatusRejected, false},
		{"rejected is terminal", ApplicationStatusRejected, ApplicationStatusInterview, false},
		{"rejected cannot reopen", ApplicationStatusRejected, ApplicationStatusPending, false},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.ok, CanTransitionApplication(tc.from, tc.to))
		})
	}
}

func TestIsValidApplicationStatus(t *testing.T) {
	for _, s := range []ApplicationStatus{
		ApplicationStatusPending,
		ApplicationStatusInterview,
		ApplicationStatusAccepted,
		ApplicationStatusRejected,
	} {
		assert.True(t, IsValidApplicationStatus(s), string(s))
	}
	assert.False(t, IsValidApplicationStatus("Archived"))
	assert.False(t, IsValidApplicationStatus(""))
}
