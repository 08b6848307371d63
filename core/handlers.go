package core

import (
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog/log"
)

type Handlers interface {
	GetCalendar(gctx *gin.Context)
	GetWeek(gctx *gin.Context)
	ExportMonth(gctx *gin.Context)
	PostEvents(gctx *gin.Context)
	GetEvents(gctx *gin.Context)
	PutEvents(gctx *gin.Context)
	DeleteEvents(gctx *gin.Context)
	PostRegister(gctx *gin.Context)
	GetLogin(gctx *gin.Context)
	PostLogin(gctx *gin.Context)
	PostLogout(gctx *gin.Context)
}

type CookieOptions struct {
	Name   string
	MaxAge time.Duration
	Secure bool
}

type CalendarResponse struct {
	IsAdmin  bool `json:"is_admin"`
	Calendar any  `json:"calendar"`
}

type handlers struct {
	calendar CalendarService
	auth     AuthService
	cookie   CookieOptions
}

func NewHandlers(calendar CalendarService, auth AuthService, cookie CookieOptions) Handlers {
	return &handlers{calendar: calendar, auth: auth, cookie: cookie}
}

// GetCalendar serves the yearly, monthly or daily view depending on which path parameters are present.
func (h *handlers) GetCalendar(gctx *gin.Context) {
	ctx := gctx.Request.Context()
	identity := IdentityFrom(gctx)

	year, month, day, err := calendarParams(gctx, "year", "month", "day")
	if err != nil {
		h.abortWithError(gctx, "invalid calendar path", err)
		return
	}

	var view any

	switch {
	case gctx.Param("day") != "":
		view, err = h.calendar.Daily(ctx, identity, year, month, day)
	case gctx.Param("month") != "":
		view, err = h.calendar.Monthly(ctx, identity, year, month)
	default:
		view, err = h.calendar.Yearly(ctx, identity, year)
	}

	if err != nil {
		h.abortWithError(gctx, "failed to build calendar", err)
		return
	}

	gctx.JSON(http.StatusOK, CalendarResponse{IsAdmin: identity.IsAdmin, Calendar: view})
}

func (h *handlers) GetWeek(gctx *gin.Context) {
	ctx := gctx.Request.Context()
	identity := IdentityFrom(gctx)

	week := gctx.Param("week")
	if week == "current" {
		week = ""
	}

	year, err := intParam("year", gctx.Param("year"))
	if err != nil {
		h.abortWithError(gctx, "invalid calendar path", err)
		return
	}

	weekNumber, err := intParam("week", week)
	if err != nil {
		h.abortWithError(gctx, "invalid calendar path", err)
		return
	}

	weekly, err := h.calendar.Weekly(ctx, identity, year, weekNumber)
	if err != nil {
		h.abortWithError(gctx, "failed to build calendar", err)
		return
	}

	gctx.JSON(http.StatusOK, CalendarResponse{IsAdmin: identity.IsAdmin, Calendar: weekly})
}

func (h *handlers) ExportMonth(gctx *gin.Context) {
	ctx := gctx.Request.Context()

	year, month, _, err := calendarParams(gctx, "year", "month", "")
	if err != nil {
		h.abortWithError(gctx, "invalid calendar path", err)
		return
	}

	body, err := h.calendar.ExportMonth(ctx, IdentityFrom(gctx), year, month)
	if err != nil {
		h.abortWithError(gctx, "failed to export calendar", err)
		return
	}

	gctx.Header("Content-Disposition", fmt.Sprintf(`attachment; filename="calendario-%04d-%02d.ics"`, year, month))
	gctx.Data(http.StatusOK, "text/calendar; charset=utf-8", []byte(body))
}

func (h *handlers) PostEvents(gctx *gin.Context) {
	ctx := gctx.Request.Context()

	var event Event

	err := gctx.ShouldBindJSON(&event)
	if err != nil {
		log.Ctx(ctx).Error().Err(err).Msg("failed to bind JSON")
		gctx.AbortWithStatusJSON(http.StatusBadRequest, NewError("failed to bind JSON", err))

		return
	}

	savedEvent, err := h.calendar.CreateEvent(ctx, IdentityFrom(gctx), &event)
	if err != nil {
		h.abortWithError(gctx, "creating event failed", err)
		return
	}

	gctx.JSON(http.StatusCreated, savedEvent)
}

func (h *handlers) GetEvents(gctx *gin.Context) {
	ctx := gctx.Request.Context()

	id := gctx.Param("id")
	if len(id) == 0 {
		log.Ctx(ctx).Error().Msg("parameter 'id' is required")
		gctx.AbortWithStatusJSON(http.StatusBadRequest, NewError("parameter 'id' is required"))

		return
	}

	event, err := h.calendar.GetOwnedEvent(ctx, IdentityFrom(gctx), id)
	if err != nil {
		h.abortWithError(gctx, "getting event failed", err)
		return
	}

	gctx.JSON(http.StatusOK, event)
}

func (h *handlers) PutEvents(gctx *gin.Context) {
	ctx := gctx.Request.Context()

	var changes Event

	err := gctx.ShouldBindJSON(&changes)
	if err != nil {
		log.Ctx(ctx).Error().Err(err).Msg("failed to bind JSON")
		gctx.AbortWithStatusJSON(http.StatusBadRequest, NewError("failed to bind JSON", err))

		return
	}

	event, err := h.calendar.UpdateEvent(ctx, IdentityFrom(gctx), gctx.Param("id"), &changes)
	if err != nil {
		h.abortWithError(gctx, "updating event failed", err)
		return
	}

	gctx.JSON(http.StatusOK, event)
}

func (h *handlers) DeleteEvents(gctx *gin.Context) {
	ctx := gctx.Request.Context()

	err := h.calendar.DeleteEvent(ctx, IdentityFrom(gctx), gctx.Param("id"))
	if err != nil {
		h.abortWithError(gctx, "deleting event failed", err)
		return
	}

	gctx.Status(http.StatusNoContent)
}

func (h *handlers) PostRegister(gctx *gin.Context) {
	ctx := gctx.Request.Context()

	var form RegistrationForm

	err := gctx.ShouldBind(&form)
	if err != nil {
		log.Ctx(ctx).Error().Err(err).Msg("failed to bind registration form")
		gctx.AbortWithStatusJSON(http.StatusBadRequest, NewError("failed to bind registration form", err))

		return
	}

	identity, err := h.auth.Register(ctx, form)
	if err != nil {
		h.abortWithError(gctx, "registration failed", err)
		return
	}

	h.setSessionCookie(gctx, identity.SessionId)
	gctx.Redirect(http.StatusFound, DefaultPath)
}

func (h *handlers) GetLogin(gctx *gin.Context) {
	next := gctx.Query("next")

	response := gin.H{"next": next}
	if next != "" {
		response["message"] = "Debes iniciar sesión para acceder a esa página."
	}

	gctx.JSON(http.StatusOK, response)
}

// PostLogin authenticates and resumes at the originally requested path.
func (h *handlers) PostLogin(gctx *gin.Context) {
	ctx := gctx.Request.Context()

	var form LoginForm

	err := gctx.ShouldBind(&form)
	if err != nil {
		log.Ctx(ctx).Error().Err(err).Msg("failed to bind login form")
		gctx.AbortWithStatusJSON(http.StatusBadRequest, NewError("failed to bind login form", err))

		return
	}

	if form.Next == "" {
		form.Next = gctx.Query("next")
	}

	identity, err := h.auth.Login(ctx, form)
	if err != nil {
		h.abortWithError(gctx, "RUT o contraseña inválidos.", err)
		return
	}

	h.setSessionCookie(gctx, identity.SessionId)
	gctx.Redirect(http.StatusFound, ResolveNextPath(form.Next))
}

func (h *handlers) PostLogout(gctx *gin.Context) {
	ctx := gctx.Request.Context()

	err := h.auth.Logout(ctx, IdentityFrom(gctx))
	if err != nil {
		h.abortWithError(gctx, "logout failed", err)
		return
	}

	gctx.SetSameSite(http.SameSiteLaxMode)
	gctx.SetCookie(h.cookie.Name, "", -1, "/", "", h.cookie.Secure, true)
	gctx.Redirect(http.StatusFound, LoginPath)
}

func (h *handlers) setSessionCookie(gctx *gin.Context, token string) {
	gctx.SetSameSite(http.SameSiteLaxMode)
	gctx.SetCookie(h.cookie.Name, token, int(h.cookie.MaxAge.Seconds()), "/", "", h.cookie.Secure, true)
}

func (h *handlers) abortWithError(gctx *gin.Context, message string, err error) {
	ctx := gctx.Request.Context()

	var notAuthenticated *NotAuthenticatedError

	switch {
	case errors.As(err, &notAuthenticated):
		redirectToLogin(gctx, gctx.Request.URL.RequestURI())
	case errors.Is(err, ErrValidation), errors.Is(err, ErrInvalidDate):
		log.Ctx(ctx).Info().Err(err).Msg(message)
		gctx.AbortWithStatusJSON(http.StatusBadRequest, NewError(message, err))
	case errors.Is(err, ErrInvalidCredentials):
		log.Ctx(ctx).Info().Err(err).Msg(message)
		gctx.AbortWithStatusJSON(http.StatusUnauthorized, NewError(message, err))
	case errors.Is(err, ErrForbidden):
		log.Ctx(ctx).Warn().Err(err).Msg(message)
		gctx.AbortWithStatusJSON(http.StatusForbidden, NewError(message, err))
	case errors.Is(err, ErrNotFound):
		log.Ctx(ctx).Info().Err(err).Msg(message)
		gctx.AbortWithStatusJSON(http.StatusNotFound, NewError(message, err))
	default:
		log.Ctx(ctx).Error().Err(err).Msg(message)
		gctx.AbortWithStatusJSON(http.StatusInternalServerError, NewError(message, err))
	}
}

func calendarParams(gctx *gin.Context, yearKey, monthKey, dayKey string) (int, int, int, error) {
	year, err := intParam(yearKey, gctx.Param(yearKey))
	if err != nil {
		return 0, 0, 0, err
	}

	month, err := intParam(monthKey, gctx.Param(monthKey))
	if err != nil {
		return 0, 0, 0, err
	}

	day, err := intParam(dayKey, gctx.Param(dayKey))
	if err != nil {
		return 0, 0, 0, err
	}

	return year, month, day, nil
}

// intParam parses an optional path parameter; absent parameters are zero.
func intParam(name string, value string) (int, error) {
	if value == "" {
		return 0, nil
	}

	n, err := strconv.Atoi(value)
	if err != nil || n <= 0 {
		return 0, fmt.Errorf("%w: %s %q is not a positive number", ErrInvalidDate, name, value)
	}

	return n, nil
}
