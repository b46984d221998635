package providers

import (
	"github.com/samber/do/v2"

	"github.com/mediadiet/mediadiet/internal/catalog"
	"github.com/mediadiet/mediadiet/internal/logger"
	"github.com/mediadiet/mediadiet/internal/service"
	"github.com/mediadiet/mediadiet/internal/validation"
)

// ProvideMediaResolver provides the catalog-to-store media resolver. Newly
// created media items are indexed through the search service.
func ProvideMediaResolver(i do.Injector) (*service.MediaResolver, error) {
	catalogs := do.MustInvoke[catalog.Catalogs](i)
	searchService := do.MustInvoke[*service.SearchService](i)
	log := do.MustInvoke[*logger.Logger](i)

	return service.NewMediaResolver(catalogs, searchService, log.Logger), nil
}

// ProvideEntryService provides the entry mutation service.
func ProvideEntryService(i do.Injector) (*service.EntryService, error) {
	storeHandle := do.MustInvoke[*StoreHandle](i)
	resolver := do.MustInvoke[*service.MediaResolver](i)
	v := do.MustInvoke[*validation.Validator](i)
	log := do.MustInvoke[*logger.Logger](i)

	return service.NewEntryService(storeHandle.Store, resolver, v, log.Logger), nil
}

// ProvideSavedService provides the saved-for-later service.
func ProvideSavedService(i do.Injector) (*service.SavedService, error) {
	storeHandle := do.MustInvoke[*StoreHandle](i)
	resolver := do.MustInvoke[*service.MediaResolver](i)
	v := do.MustInvoke[*validation.Validator](i)
	log := do.MustInvoke[*logger.Logger](i)

	return service.NewSavedService(storeHandle.Store, resolver, v, log.Logger), nil
}

// ProvideListService provides the entry list aggregator.
func ProvideListService(i do.Injector) (*service.ListService, error) {
	storeHandle := do.MustInvoke[*StoreHandle](i)
	log := do.MustInvoke[*logger.Logger](i)

	return service.NewListService(storeHandle.Store, log.Logger), nil
}

// ProvideStatsService provides the counts service.
func ProvideStatsService(i do.Injector) (*service.StatsService, error) {
	storeHandle := do.MustInvoke[*StoreHandle](i)
	log := do.MustInvoke[*logger.Logger](i)

	return service.NewStatsService(storeHandle.Store, log.Logger), nil
}

// ProvideSocialService provides the follow graph service.
func ProvideSocialService(i do.Injector) (*service.SocialService, error) {
	storeHandle := do.MustInvoke[*StoreHandle](i)
	log := do.MustInvoke[*logger.Logger](i)

	return service.NewSocialService(storeHandle.Store, log.Logger), nil
}

// ProvideUserService provides the user profile service.
func ProvideUserService(i do.Injector) (*service.UserService, error) {
	storeHandle := do.MustInvoke[*StoreHandle](i)
	v := do.MustInvoke[*validation.Validator](i)
	log := do.MustInvoke[*logger.Logger](i)

	return service.NewUserService(storeHandle.Store, v, log.Logger), nil
}

// ProvideCatalogService provides the catalog browsing service.
func ProvideCatalogService(i do.Injector) (*service.CatalogService, error) {
	catalogs := do.MustInvoke[catalog.Catalogs](i)
	log := do.MustInvoke[*logger.Logger](i)

	return service.NewCatalogService(catalogs, log.Logger), nil
}
