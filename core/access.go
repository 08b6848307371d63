package core

import (
	"strings"
)

const (
	ProtectedPrefix = "/calendario/"
	LoginPath       = "/calendario/login/"
	RegisterPath    = "/calendario/register/"
	DefaultPath     = "/calendario/"
)

// CheckAuthenticated denies anonymous callers on protected paths. requestURI may carry a
// query string; it is kept whole as the resume path.
func CheckAuthenticated(identity Identity, requestURI string) error {
	if identity.IsAuthenticated() {
		return nil
	}

	path, _, _ := strings.Cut(requestURI, "?")
	if !strings.HasPrefix(path, ProtectedPrefix) || path == LoginPath || path == RegisterPath {
		return nil
	}

	return &NotAuthenticatedError{ResumePath: requestURI}
}

// ResolveNextPath picks where to send a caller after login. The login page itself and
// anything that is not a local path fall back to the default calendar.
func ResolveNextPath(next string) string {
	next = strings.TrimSpace(next)
	if next == "" {
		return DefaultPath
	}

	path, _, _ := strings.Cut(next, "?")
	if path == LoginPath || !isLocalPath(next) {
		return DefaultPath
	}

	return next
}

func isLocalPath(path string) bool {
	return strings.HasPrefix(path, "/") && !strings.HasPrefix(path, "//") && !strings.Contains(path, "\\")
}

func CheckAdmin(identity Identity) error {
	if !identity.IsAuthenticated() {
		return &NotAuthenticatedError{}
	}

	if !identity.IsAdmin {
		return ErrForbidden
	}

	return nil
}

// CheckOwnership hides events owned by someone else behind a not-found.
func CheckOwnership(identity Identity, event *Event) error {
	if event == nil || event.OwnerId != identity.UserId {
		return ErrEventNotFound
	}

	return nil
}
