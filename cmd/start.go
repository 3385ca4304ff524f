/*
Copyright © 2025 tieubaoca
*/
package cmd

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/tieubaoca/doc2cal/handler"
	"github.com/tieubaoca/doc2cal/logger"
	"github.com/tieubaoca/doc2cal/middleware"
	"github.com/tieubaoca/doc2cal/service"
)

// startServerCmd represents the start command
var startServerCmd = &cobra.Command{
	Use:   "start",
	Short: "Start the web server",
	Long:  `Starts the web server that serves the upload form, the OAuth flow and the processing endpoints`,
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
		defer stop()

		a, err := newApp(ctx, true)
		if err != nil {
			return err
		}
		defer a.close(context.Background())

		router, err := newRouter(a)
		if err != nil {
			return err
		}
		srv := &http.Server{
			Addr:    ":" + a.cfg.Port,
			Handler: router,
		}

		go func() {
			<-ctx.Done()
			shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
			defer cancel()
			srv.Shutdown(shutdownCtx)
		}()

		a.log.Info("Starting server", zap.String("port", a.cfg.Port))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			a.log.Error("Server error", zap.Error(err))
			return err
		}
		return nil
	},
}

func newRouter(a *app) (*gin.Engine, error) {
	files, err := service.NewFileService(a.cfg.UploadDir, a.cfg.MaxUploadMB, a.log)
	if err != nil {
		return nil, err
	}
	pipeline := service.NewPipelineService(a.extractor, a.prompts, a.gateway, a.executor, files, a.cfg.Executor.CodeLang, a.log)
	oauth := service.NewOAuthService(service.NewOAuthConfig(a.cfg.OAuth), a.sessions, a.credentials, a.cfg.OAuth.PersistToken, a.log)
	ws := service.NewWebSocketService(a.gateway, a.log)

	// Initialize handlers
	corsHandler := handler.NewCorsHandler()
	pageHandler := handler.NewPageHandler(a.sessions, a.credentials)
	processHandler := handler.NewProcessHandler(pipeline, files, a.sessions, a.credentials, a.newConversation, a.cfg.RequireCredential, logger.Module(a.log, "http"))
	oauthHandler := handler.NewOAuthHandler(oauth, a.sessions)
	calendarHandler := handler.NewCalendarHandler(a.calendar, a.credentials)
	chatHandler := handler.NewChatHandler(a.sessions, a.gateway, ws, a.newConversation)

	if a.cfg.Log.Production {
		gin.SetMode(gin.ReleaseMode)
	}
	router := gin.New()
	router.Use(gin.Logger(), gin.Recovery())
	router.MaxMultipartMemory = a.cfg.MaxUploadMB << 20
	handler.LoadTemplates(router)
	router.Use(middleware.Session(a.cfg.SessionSecret, a.cfg.SessionTTL))

	router.GET("/", pageHandler.Index)
	router.POST("/logout", pageHandler.Logout)
	router.POST("/process", processHandler.HandleProcess)
	router.GET("/authorize", oauthHandler.Authorize)
	router.GET("/oauth2callback", oauthHandler.Callback)
	router.GET("/calendar", calendarHandler.HandleStatus)
	router.GET("/conversation", chatHandler.HandleTranscript)
	router.POST("/conversation/reset", chatHandler.HandleReset)
	router.GET("/ws", chatHandler.HandleWebSocket)

	apiV1 := router.Group("/api/v1")
	apiV1.Use(corsHandler.CorsMiddleware)
	{
		apiV1.POST("/process", processHandler.HandleProcessAPI)
		apiV1.POST("/chat", chatHandler.HandleChat)
	}
	return router, nil
}

func init() {
	rootCmd.AddCommand(startServerCmd)
}
