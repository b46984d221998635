// Package di provides dependency injection configuration for the mediadiet server.
package di

import (
	"github.com/samber/do/v2"

	"github.com/mediadiet/mediadiet/internal/auth"
	"github.com/mediadiet/mediadiet/internal/catalog"
	"github.com/mediadiet/mediadiet/internal/config"
	"github.com/mediadiet/mediadiet/internal/di/providers"
	"github.com/mediadiet/mediadiet/internal/logger"
	"github.com/mediadiet/mediadiet/internal/service"
	"github.com/mediadiet/mediadiet/internal/validation"
)

// NewContainer creates and configures the DI container with all providers.
// configPath may be empty, in which case configuration comes from the
// environment alone.
func NewContainer(configPath string) *do.RootScope {
	injector := do.New()

	// Core infrastructure
	do.ProvideValue(injector, providers.ConfigPath(configPath))
	do.Provide(injector, providers.ProvideConfig)
	do.Provide(injector, providers.ProvideLogger)
	do.Provide(injector, providers.ProvideValidator)
	do.Provide(injector, providers.ProvideAuthKey)

	// Database layer
	do.Provide(injector, providers.ProvideStore)

	// Catalog layer
	do.Provide(injector, providers.ProvideCatalogCache)
	do.Provide(injector, providers.ProvideCatalogs)

	// Search layer
	do.Provide(injector, providers.ProvideSearchIndex)
	do.Provide(injector, providers.ProvideSearchService)

	// Auth layer
	do.Provide(injector, providers.ProvideTokenService)

	// Business services
	do.Provide(injector, providers.ProvideMediaResolver)
	do.Provide(injector, providers.ProvideEntryService)
	do.Provide(injector, providers.ProvideSavedService)
	do.Provide(injector, providers.ProvideListService)
	do.Provide(injector, providers.ProvideStatsService)
	do.Provide(injector, providers.ProvideSocialService)
	do.Provide(injector, providers.ProvideUserService)
	do.Provide(injector, providers.ProvideCatalogService)

	// Server
	do.Provide(injector, providers.ProvideHTTPServer)

	return injector
}

// Bootstrap initializes all services and starts the HTTP server.
// This triggers lazy initialization of all core services.
func Bootstrap(injector *do.RootScope) error {
	// Invoke core services to trigger initialization
	if _, err := do.Invoke[*config.Config](injector); err != nil {
		return err
	}
	_ = do.MustInvoke[*logger.Logger](injector)
	_ = do.MustInvoke[*validation.Validator](injector)
	_ = do.MustInvoke[providers.AuthKey](injector)
	_ = do.MustInvoke[*providers.StoreHandle](injector)
	_ = do.MustInvoke[*providers.CatalogCacheHandle](injector)
	_ = do.MustInvoke[catalog.Catalogs](injector)
	_ = do.MustInvoke[*providers.SearchIndexHandle](injector)
	_ = do.MustInvoke[*service.SearchService](injector)
	_ = do.MustInvoke[*auth.TokenService](injector)

	// Business services
	_ = do.MustInvoke[*service.MediaResolver](injector)
	_ = do.MustInvoke[*service.EntryService](injector)
	_ = do.MustInvoke[*service.SavedService](injector)
	_ = do.MustInvoke[*service.ListService](injector)
	_ = do.MustInvoke[*service.StatsService](injector)
	_ = do.MustInvoke[*service.SocialService](injector)
	_ = do.MustInvoke[*service.UserService](injector)
	_ = do.MustInvoke[*service.CatalogService](injector)

	// Server
	_ = do.MustInvoke[*providers.HTTPServerHandle](injector)

	// Rebuild the search index from the database if it was lost
	providers.TriggerSearchReindexIfNeeded(injector)

	return nil
}
