package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/tieubaoca/doc2cal/middleware"
	"github.com/tieubaoca/doc2cal/service"
	"github.com/tieubaoca/doc2cal/types"
)

type PageHandler struct {
	sessions    *service.SessionStore
	credentials *service.CredentialStore
}

func NewPageHandler(sessions *service.SessionStore, credentials *service.CredentialStore) *PageHandler {
	return &PageHandler{
		sessions:    sessions,
		credentials: credentials,
	}
}

func (h *PageHandler) Index(c *gin.Context) {
	sessionID := middleware.SessionID(c)
	c.HTML(http.StatusOK, "index.html", gin.H{
		"Flashes":       h.sessions.Flashes(sessionID),
		"Authenticated": h.credentials.Current(sessionID) != nil,
		"MaxPages":      types.MaxSelectedPages,
	})
}

// Logout drops the session credential. A persisted token file stays.
func (h *PageHandler) Logout(c *gin.Context) {
	sessionID := middleware.SessionID(c)
	h.credentials.Forget(sessionID)
	h.sessions.AddFlash(sessionID, "Signed out of Google Calendar.")
	c.Redirect(http.StatusFound, "/")
}

func renderError(c *gin.Context, status int, message string) {
	c.HTML(status, "error.html", gin.H{"Message": message})
}
