package handler

import (
	"context"
	"errors"
	"mime/multipart"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/tieubaoca/doc2cal/middleware"
	"github.com/tieubaoca/doc2cal/service"
	"github.com/tieubaoca/doc2cal/types"
)

const (
	msgTooManyPages   = "Please select a maximum of 2 pages."
	msgInvalidPages   = "Invalid page numbers entered."
	msgFileType       = "File type not allowed! Please upload an image, PDF, or DOCX file."
	msgFileTooLarge   = "Uploaded file is too large."
	msgUploadFailed   = "Could not read the uploaded file."
	msgAuthorizeFirst = "Please connect Google Calendar first."
)

type Pipeline interface {
	Process(ctx context.Context, conv *service.Conversation, req types.ProcessRequest) types.ProcessResult
}

type ProcessHandler struct {
	pipeline          Pipeline
	files             *service.FileService
	sessions          *service.SessionStore
	credentials       *service.CredentialStore
	newConversation   func() *service.Conversation
	requireCredential bool
	logger            *zap.Logger
}

func NewProcessHandler(
	pipeline Pipeline,
	files *service.FileService,
	sessions *service.SessionStore,
	credentials *service.CredentialStore,
	newConversation func() *service.Conversation,
	requireCredential bool,
	logger *zap.Logger,
) *ProcessHandler {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &ProcessHandler{
		pipeline:          pipeline,
		files:             files,
		sessions:          sessions,
		credentials:       credentials,
		newConversation:   newConversation,
		requireCredential: requireCredential,
		logger:            logger.With(zap.String("module", "process_handler")),
	}
}

// HandleProcess serves the HTML form. Validation faults are flashed and
// redirect back to the form without running anything.
func (h *ProcessHandler) HandleProcess(c *gin.Context) {
	sessionID := middleware.SessionID(c)

	req, header, err := h.validate(c)
	if err != nil {
		h.sessions.AddFlash(sessionID, userMessage(err))
		c.Redirect(http.StatusFound, "/")
		return
	}
	if h.requireCredential && h.credentials.Current(sessionID) == nil {
		h.sessions.AddFlash(sessionID, msgAuthorizeFirst)
		c.Redirect(http.StatusFound, "/authorize")
		return
	}

	result, err := h.run(c, sessionID, req, header)
	if err != nil {
		h.sessions.AddFlash(sessionID, userMessage(err))
		c.Redirect(http.StatusFound, "/")
		return
	}
	c.HTML(http.StatusOK, "result.html", gin.H{
		"CombinedInput":   result.CombinedInput,
		"GeneratedCode":   result.GeneratedCode,
		"ExecutionOutput": result.Execution.Display(),
	})
}

// HandleProcessAPI is the JSON variant of HandleProcess.
func (h *ProcessHandler) HandleProcessAPI(c *gin.Context) {
	sessionID := middleware.SessionID(c)

	req, header, err := h.validate(c)
	if err != nil {
		c.JSON(http.StatusBadRequest, types.DataResponse{
			Status:  false,
			Message: userMessage(err),
		})
		return
	}
	if h.requireCredential && h.credentials.Current(sessionID) == nil {
		c.JSON(http.StatusUnauthorized, types.DataResponse{
			Status:  false,
			Message: msgAuthorizeFirst,
		})
		return
	}

	result, err := h.run(c, sessionID, req, header)
	if err != nil {
		c.JSON(http.StatusBadRequest, types.DataResponse{
			Status:  false,
			Message: userMessage(err),
		})
		return
	}
	c.JSON(http.StatusOK, types.DataResponse{
		Status: true,
		Data:   result,
	})
}

// validate reads the form fields. The upload, if any, is checked but not yet stored.
func (h *ProcessHandler) validate(c *gin.Context) (types.ProcessRequest, *multipart.FileHeader, error) {
	pages, err := types.ParsePageSelection(c.PostForm("selected_pages"))
	if err != nil {
		return types.ProcessRequest{}, nil, err
	}
	req := types.ProcessRequest{
		Text:    c.PostForm("text_input"),
		Pages:   pages,
		Persist: formBool(c.PostForm("persist")),
	}

	header, err := c.FormFile("file_upload")
	if errors.Is(err, http.ErrMissingFile) {
		return req, nil, nil
	}
	if err != nil {
		return types.ProcessRequest{}, nil, err
	}
	if _, ok := types.KindFromFilename(header.Filename); !ok {
		return types.ProcessRequest{}, nil, service.ErrFileTypeNotAllowed
	}
	return req, header, nil
}

func (h *ProcessHandler) run(c *gin.Context, sessionID string, req types.ProcessRequest, header *multipart.FileHeader) (types.ProcessResult, error) {
	if header != nil {
		doc, err := h.files.Save(header)
		if err != nil {
			return types.ProcessResult{}, err
		}
		defer h.files.Remove(doc)
		req.Document = doc
	}
	conv := h.sessions.Conversation(sessionID, h.newConversation)
	return h.pipeline.Process(c.Request.Context(), conv, req), nil
}

func userMessage(err error) string {
	switch {
	case errors.Is(err, types.ErrTooManyPages):
		return msgTooManyPages
	case errors.Is(err, types.ErrInvalidPages):
		return msgInvalidPages
	case errors.Is(err, service.ErrFileTypeNotAllowed):
		return msgFileType
	case errors.Is(err, service.ErrFileTooLarge):
		return msgFileTooLarge
	default:
		return msgUploadFailed
	}
}

func formBool(v string) bool {
	if v == "on" {
		return true
	}
	b, _ := strconv.ParseBool(v)
	return b
}
