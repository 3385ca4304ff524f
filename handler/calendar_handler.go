package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/tieubaoca/doc2cal/middleware"
	"github.com/tieubaoca/doc2cal/service"
	"github.com/tieubaoca/doc2cal/types"
)

type CalendarHandler struct {
	calendar    *service.CalendarService
	credentials *service.CredentialStore
}

func NewCalendarHandler(calendar *service.CalendarService, credentials *service.CredentialStore) *CalendarHandler {
	return &CalendarHandler{
		calendar:    calendar,
		credentials: credentials,
	}
}

func (h *CalendarHandler) HandleStatus(c *gin.Context) {
	cred := h.credentials.Current(middleware.SessionID(c))
	if cred == nil {
		c.JSON(http.StatusOK, types.DataResponse{
			Status: true,
			Data:   types.CalendarStatusResponse{Authenticated: false},
		})
		return
	}
	info, err := h.calendar.Describe(c.Request.Context(), cred)
	if err != nil {
		c.JSON(http.StatusBadGateway, types.DataResponse{
			Status:  false,
			Message: err.Error(),
			Data:    types.CalendarStatusResponse{Authenticated: true},
		})
		return
	}
	c.JSON(http.StatusOK, types.DataResponse{
		Status: true,
		Data:   types.CalendarStatusResponse{Authenticated: true, Calendar: info},
	})
}
