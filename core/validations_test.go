package core

import (
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestValidateEvent(t *testing.T) {
	t.Parallel()

	now := time.Now()

	tests := []struct {
		name    string
		event   Event
		wantErr bool
		errMsg  string
	}{
		{
			name: "valid event",
			event: Event{
				Title:     "Valid Title",
				StartTime: now,
				EndTime:   now.Add(time.Hour),
			},
			wantErr: false,
		},
		{
			name: "end one second after start",
			event: Event{
				Title:     "Valid Title",
				StartTime: now,
				EndTime:   now.Add(time.Second),
			},
			wantErr: false,
		},
		{
			name: "empty title",
			event: Event{
				Title:     "   ",
				StartTime: now,
				EndTime:   now.Add(time.Hour),
			},
			wantErr: true,
			errMsg:  "title is required",
		},
		{
			name: "title too long",
			event: Event{
				Title:     strings.Repeat("a", 201),
				StartTime: now,
				EndTime:   now.Add(time.Hour),
			},
			wantErr: true,
			errMsg:  "title is too long (200 characters tops)",
		},
		{
			name: "end equals start",
			event: Event{
				Title:     "Valid Title",
				StartTime: now,
				EndTime:   now,
			},
			wantErr: true,
			errMsg:  "end must be after start",
		},
		{
			name: "end time before start time",
			event: Event{
				Title:     "Valid Title",
				StartTime: now,
				EndTime:   now.Add(-time.Hour),
			},
			wantErr: true,
			errMsg:  "end must be after start",
		},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			err := ValidateEvent(tt.event)
			if tt.wantErr {
				require.ErrorIs(t, err, ErrValidation)
				assert.Contains(t, err.Error(), tt.errMsg)
			} else {
				require.NoError(t, err)
			}
		})
	}
}

func TestValidateRegistration(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		form    RegistrationForm
		wantErr bool
		errMsg  string
	}{
		{
			name: "valid form",
			form: RegistrationForm{Rut: "11111111-1", Password1: "testpass123", Password2: "testpass123"},
		},
		{
			name:    "passwords do not match",
			form:    RegistrationForm{Rut: "11111111-1", Password1: "testpass123", Password2: "otherpass123"},
			wantErr: true,
			errMsg:  "password2 does not match password1",
		},
		{
			name:    "missing rut",
			form:    RegistrationForm{Rut: "  ", Password1: "testpass123", Password2: "testpass123"},
			wantErr: true,
			errMsg:  "rut is required",
		},
		{
			name:    "rut too long",
			form:    RegistrationForm{Rut: "1234567890123", Password1: "testpass123", Password2: "testpass123"},
			wantErr: true,
			errMsg:  "rut is too long (12 characters tops)",
		},
		{
			name:    "short password",
			form:    RegistrationForm{Rut: "11111111-1", Password1: "short", Password2: "short"},
			wantErr: true,
			errMsg:  "password1 is too short",
		},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			err := ValidateRegistration(tt.form)
			if tt.wantErr {
				require.ErrorIs(t, err, ErrValidation)
				assert.Contains(t, err.Error(), tt.errMsg)
			} else {
				require.NoError(t, err)
			}
		})
	}
}

func TestValidateLogin(t *testing.T) {
	t.Parallel()

	require.NoError(t, ValidateLogin(LoginForm{Rut: "12345678-9", Password: "secret"}))

	err := ValidateLogin(LoginForm{Rut: "12345678-9"})
	require.ErrorIs(t, err, ErrValidation)
	assert.Contains(t, err.Error(), "password is required")
}
