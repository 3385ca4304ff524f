package cmd

import (
	"context"
	"fmt"
	"os"

	"go.mongodb.org/mongo-driver/v2/mongo"
	"go.uber.org/zap"

	"github.com/tieubaoca/doc2cal/config"
	"github.com/tieubaoca/doc2cal/database"
	"github.com/tieubaoca/doc2cal/logger"
	"github.com/tieubaoca/doc2cal/repository"
	"github.com/tieubaoca/doc2cal/service"
	"github.com/tieubaoca/doc2cal/types"
)

const defaultConfigPath = "config/config.yaml"

// app holds the services shared by every command.
type app struct {
	cfg         *config.Config
	log         *zap.Logger
	sessions    *service.SessionStore
	credentials *service.CredentialStore
	extractor   *service.Extractor
	executor    *service.Executor
	calendar    *service.CalendarService
	gateway     *service.LLMGateway
	prompts     *service.PromptBuilder
	stores      database.ExchangeStores
	ai          service.AIService
	mongo       *mongo.Client
}

func loadConfig() (*config.Config, error) {
	path := cfgFile
	if path == "" {
		if _, err := os.Stat(defaultConfigPath); err == nil {
			path = defaultConfigPath
		}
	}
	return config.LoadConfig(path)
}

// newApp wires the core services. The AI client is only built when withAI is set
// so commands that never call the model need no API key.
func newApp(ctx context.Context, withAI bool) (*app, error) {
	cfg, err := loadConfig()
	if err != nil {
		return nil, fmt.Errorf("failed to load config: %w", err)
	}
	log := logger.New(cfg.Log.File, cfg.Log.Level, cfg.Log.Production)

	a := &app{
		cfg:      cfg,
		log:      log,
		sessions: service.NewSessionStore(cfg.SessionTTL),
		calendar: service.NewCalendarService("", log),
		gateway:  service.NewLLMGateway(log),
		prompts:  service.NewPromptBuilder(cfg.Prompt.AllowedDependencies),
	}
	a.credentials = service.NewCredentialStore(a.sessions, cfg.OAuth.TokenFile, log)
	a.extractor = service.NewExtractor(
		service.NewPDFService(),
		service.NewTesseractService(cfg.OCR.Language),
		service.NewLibreOfficeConverter(),
		types.OCRConfig{DPI: cfg.OCR.DPI, Language: cfg.OCR.Language, TempDir: cfg.OCR.TempDir},
		log,
	)
	a.executor = service.NewExecutor(cfg.Executor, cfg.OAuth.TokenFile, log)

	if withAI {
		if err := a.openExchangeStores(ctx); err != nil {
			return nil, err
		}
		a.ai, err = service.NewAIService(ctx, cfg.LLM)
		if err != nil {
			return nil, fmt.Errorf("failed to create AI client: %w", err)
		}
	}
	return a, nil
}

func (a *app) openExchangeStores(ctx context.Context) error {
	switch a.cfg.ExchangeStore.Backend {
	case "mongo":
		client, err := database.NewMongoClient(ctx, a.cfg.ExchangeStore.MongoURI)
		if err != nil {
			return err
		}
		a.mongo = client
		a.stores = repository.NewExchangeRepos(client.Database(a.cfg.ExchangeStore.MongoDB), a.cfg.ExchangeStore.Names)
	case "", "file":
		a.stores = database.NewJSONStores(a.cfg.ExchangeStore.Dir, a.cfg.ExchangeStore.Names)
	default:
		return fmt.Errorf("unknown exchange store backend %q", a.cfg.ExchangeStore.Backend)
	}
	a.log.Info("Exchange stores ready",
		zap.String("backend", a.cfg.ExchangeStore.Backend),
		zap.Strings("names", a.cfg.ExchangeStore.Names))
	return nil
}

func (a *app) newConversation() *service.Conversation {
	return service.NewConversation(a.ai, a.stores, a.log)
}

func (a *app) close(ctx context.Context) {
	if closer, ok := a.ai.(interface{ Close() error }); ok {
		closer.Close()
	}
	if a.mongo != nil {
		a.mongo.Disconnect(ctx)
	}
	a.log.Sync()
}
