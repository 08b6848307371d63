package core

import (
	"errors"
	"net/http"
	"net/url"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog/log"
)

const identityKey = "calendar.identity"

// AuthGate resolves the session cookie into an identity and sends anonymous callers on
// protected paths to the login page, remembering where they were going.
func AuthGate(auth AuthService, cookieName string) gin.HandlerFunc {
	return func(gctx *gin.Context) {
		ctx := gctx.Request.Context()

		token, _ := gctx.Cookie(cookieName)

		identity, err := auth.CurrentIdentity(ctx, token)
		if err != nil {
			log.Ctx(ctx).Error().Err(err).Msg("failed to resolve session")
			gctx.AbortWithStatusJSON(http.StatusInternalServerError, NewError("failed to resolve session", err))

			return
		}

		gctx.Set(identityKey, identity)

		err = CheckAuthenticated(identity, gctx.Request.URL.RequestURI())
		if err != nil {
			var notAuthenticated *NotAuthenticatedError
			if errors.As(err, &notAuthenticated) {
				log.Ctx(ctx).Info().Str("resume", notAuthenticated.ResumePath).Msg("login required")
				redirectToLogin(gctx, notAuthenticated.ResumePath)

				return
			}
		}

		gctx.Next()
	}
}

func IdentityFrom(gctx *gin.Context) Identity {
	value, ok := gctx.Get(identityKey)
	if !ok {
		return Identity{}
	}

	identity, _ := value.(Identity)

	return identity
}

func redirectToLogin(gctx *gin.Context, resumePath string) {
	location := LoginPath
	if resumePath != "" {
		location += "?next=" + url.QueryEscape(resumePath)
	}

	gctx.Redirect(http.StatusFound, location)
	gctx.Abort()
}
