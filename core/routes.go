package core

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

func RegisterRoutes(router *gin.Engine, h Handlers, gate gin.HandlerFunc) {
	router.GET("/", func(gctx *gin.Context) {
		gctx.Redirect(http.StatusFound, DefaultPath)
	})

	calendar := router.Group("/calendario", gate)

	calendar.GET("/", h.GetCalendar)
	calendar.GET("/:year/", h.GetCalendar)
	calendar.GET("/:year/:month/", h.GetCalendar)
	calendar.GET("/:year/:month/:day/", h.GetCalendar)

	calendar.GET("/semana/", h.GetWeek)
	calendar.GET("/semana/:year/:week/", h.GetWeek)

	calendar.GET("/exportar/:year/:month/", h.ExportMonth)

	calendar.POST("/evento/crear/", h.PostEvents)
	calendar.GET("/evento/editar/:id/", h.GetEvents)
	calendar.POST("/evento/editar/:id/", h.PutEvents)
	calendar.GET("/evento/eliminar/:id/", h.GetEvents)
	calendar.POST("/evento/eliminar/:id/", h.DeleteEvents)

	calendar.POST("/register/", h.PostRegister)
	calendar.GET("/login/", h.GetLogin)
	calendar.POST("/login/", h.PostLogin)
	calendar.POST("/logout/", h.PostLogout)
}
