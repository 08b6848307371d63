package core

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCheckAuthenticated(t *testing.T) {
	t.Parallel()

	anonymous := Identity{}
	user := Identity{UserId: "u1"}

	tests := []struct {
		name       string
		identity   Identity
		requestURI string
		wantResume string
	}{
		{"anonymous on calendar", anonymous, "/calendario/2025/", "/calendario/2025/"},
		{"anonymous keeps query", anonymous, "/calendario/semana/?foo=bar", "/calendario/semana/?foo=bar"},
		{"anonymous on login", anonymous, "/calendario/login/", ""},
		{"anonymous on login with next", anonymous, "/calendario/login/?next=%2Fcalendario%2F", ""},
		{"anonymous on register", anonymous, "/calendario/register/", ""},
		{"anonymous outside calendar", anonymous, "/", ""},
		{"authenticated", user, "/calendario/2025/", ""},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			err := CheckAuthenticated(tt.identity, tt.requestURI)
			if tt.wantResume == "" {
				require.NoError(t, err)
				return
			}

			var notAuthenticated *NotAuthenticatedError
			require.ErrorAs(t, err, &notAuthenticated)
			assert.Equal(t, tt.wantResume, notAuthenticated.ResumePath)
		})
	}
}

func TestResolveNextPath(t *testing.T) {
	t.Parallel()

	tests := map[string]string{
		"":                                     DefaultPath,
		"   ":                                  DefaultPath,
		"/calendario/2025/10/":                 "/calendario/2025/10/",
		"/calendario/semana/?x=1":              "/calendario/semana/?x=1",
		"/calendario/login/":                   DefaultPath,
		"/calendario/login/?next=/calendario/": DefaultPath,
		"//evil.example.com/":                  DefaultPath,
		"https://evil.example.com/":            DefaultPath,
		"/\\evil.example.com":                  DefaultPath,
	}

	for next, want := range tests {
		assert.Equal(t, want, ResolveNextPath(next), "next=%q", next)
	}
}

func TestCheckAdmin(t *testing.T) {
	t.Parallel()

	var notAuthenticated *NotAuthenticatedError
	require.ErrorAs(t, CheckAdmin(Identity{}), &notAuthenticated)
	require.ErrorIs(t, CheckAdmin(Identity{UserId: "u1"}), ErrForbidden)
	require.NoError(t, CheckAdmin(Identity{UserId: "u1", IsAdmin: true}))
}

func TestCheckOwnership(t *testing.T) {
	t.Parallel()

	admin := Identity{UserId: "a", IsAdmin: true}

	require.NoError(t, CheckOwnership(admin, &Event{OwnerId: "a"}))
	require.ErrorIs(t, CheckOwnership(admin, &Event{OwnerId: "b"}), ErrEventNotFound)
	require.ErrorIs(t, CheckOwnership(admin, nil), ErrNotFound)
}
