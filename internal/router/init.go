package router

import (
	"github.com/oksasatya/go-ddd-finance/internal/application"
	"github.com/oksasatya/go-ddd-finance/internal/container"
	pginfra "github.com/oksasatya/go-ddd-finance/internal/infrastructure/postgres"
	"github.com/oksasatya/go-ddd-finance/internal/infrastructure/search"
	handlers "github.com/oksasatya/go-ddd-finance/internal/interface/http"
	"github.com/oksasatya/go-ddd-finance/internal/router/modules"
	"github.com/oksasatya/go-ddd-finance/pkg/helpers"
)

type ModuleDeps struct {
	Users        *application.UserService
	Entries      *application.EntryService
	Statements   *application.StatementService
	UserHandler  *handlers.UserHandler
	EntryHandler *handlers.EntryHandler
}

func buildDeps() ModuleDeps {
	cfg := container.GetConfig()
	logger := container.GetLogger()
	pool := container.GetPGPool()

	userRepo := pginfra.NewUserRepository(pool)
	entryRepo := pginfra.NewEntryRepository(pool)

	// nil interfaces disable the optional integrations
	var pub application.JobPublisher
	if p := container.GetRabbitPub(); p != nil && cfg.MailSendEnabled {
		pub = p
	}
	var indexer application.EntryIndexer
	if es := container.GetES(); es != nil {
		indexer = search.NewEntryIndex(es, cfg.ESEntriesIndex)
	}
	var uploader application.ObjectUploader
	if gcs := container.GetGCS(); gcs != nil && cfg.GCSBucket != "" {
		uploader = &helpers.GCSUploader{Client: gcs, Bucket: cfg.GCSBucket}
	}

	users := application.NewUserService(userRepo, container.GetJWT(), container.GetRedis(), logger, pub, cfg.AppName)
	entries := application.NewEntryService(entryRepo, indexer, logger)
	statements := application.NewStatementService(entryRepo, uploader, logger)

	return ModuleDeps{
		Users:        users,
		Entries:      entries,
		Statements:   statements,
		UserHandler:  handlers.NewUserHandler(users, entries, logger, cfg.CookieDomain, cfg.CookieSecure),
		EntryHandler: handlers.NewEntryHandler(entries, statements, logger),
	}
}

// InitModules initializes all application modules and registers them with the router registry
// This function should be called once during application startup to wire up all modules
func InitModules(r *Registry) {
	deps := buildDeps()
	r.Add(modules.NewUserModule(deps.UserHandler, container.GetJWT()))
	r.Add(modules.NewEntryModule(deps.EntryHandler, container.GetJWT()))
	if container.GetConfig().DebugMetricsEnabled {
		r.Add(modules.NewDebugModule())
	}
}
