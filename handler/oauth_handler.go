package handler

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/tieubaoca/doc2cal/middleware"
	"github.com/tieubaoca/doc2cal/service"
)

type OAuthHandler struct {
	oauth    *service.OAuthService
	sessions *service.SessionStore
}

func NewOAuthHandler(oauth *service.OAuthService, sessions *service.SessionStore) *OAuthHandler {
	return &OAuthHandler{
		oauth:    oauth,
		sessions: sessions,
	}
}

func (h *OAuthHandler) Authorize(c *gin.Context) {
	url, err := h.oauth.AuthorizeURL(middleware.SessionID(c))
	if err != nil {
		renderError(c, http.StatusInternalServerError, "Could not start Google authorization.")
		return
	}
	c.Redirect(http.StatusFound, url)
}

func (h *OAuthHandler) Callback(c *gin.Context) {
	sessionID := middleware.SessionID(c)
	_, err := h.oauth.HandleCallback(c.Request.Context(), sessionID, c.Query("error"), c.Query("state"), c.Query("code"))
	switch {
	case err == nil:
		h.sessions.AddFlash(sessionID, "Google Calendar authenticated successfully.")
	case errors.Is(err, service.ErrStateMismatch):
		renderError(c, http.StatusBadRequest, "Authorization state did not match. Please try again.")
		return
	case errors.Is(err, service.ErrMissingCode):
		renderError(c, http.StatusBadRequest, "Authorization code missing.")
		return
	case errors.Is(err, service.ErrAuthorizationDenied):
		h.sessions.AddFlash(sessionID, "Google Calendar authorization was denied.")
	default:
		h.sessions.AddFlash(sessionID, "Google Calendar authentication failed.")
	}
	c.Redirect(http.StatusFound, "/")
}
