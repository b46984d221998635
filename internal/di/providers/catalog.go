package providers

import (
	"net/http"
	"time"

	"github.com/samber/do/v2"

	"github.com/mediadiet/mediadiet/internal/catalog"
	"github.com/mediadiet/mediadiet/internal/catalog/cache"
	"github.com/mediadiet/mediadiet/internal/catalog/openlibrary"
	"github.com/mediadiet/mediadiet/internal/catalog/tmdb"
	"github.com/mediadiet/mediadiet/internal/config"
	"github.com/mediadiet/mediadiet/internal/logger"
	"github.com/mediadiet/mediadiet/internal/validation"
)

// CatalogCacheHandle wraps the detail cache with shutdown capability.
// Store is nil when caching is disabled.
type CatalogCacheHandle struct {
	*cache.Store
}

// Shutdown implements do.Shutdownable.
func (h *CatalogCacheHandle) Shutdown() error {
	if h.Store == nil {
		return nil
	}
	return h.Close()
}

// ProvideCatalogCache provides the Badger-backed catalog detail cache.
func ProvideCatalogCache(i do.Injector) (*CatalogCacheHandle, error) {
	cfg := do.MustInvoke[*config.Config](i)
	log := do.MustInvoke[*logger.Logger](i)

	if !cfg.Cache.Enabled {
		log.Info("Catalog cache disabled by configuration")
		return &CatalogCacheHandle{}, nil
	}

	store, err := cache.Open(cfg.Cache.Path, cfg.Cache.TTL, log.Logger)
	if err != nil {
		return nil, err
	}

	log.Info("Catalog cache initialized", "path", cfg.Cache.Path, "ttl", cfg.Cache.TTL)

	return &CatalogCacheHandle{Store: store}, nil
}

// ProvideCatalogs provides the movie, show and book catalogs, behind the
// detail cache when it is enabled.
func ProvideCatalogs(i do.Injector) (catalog.Catalogs, error) {
	cfg := do.MustInvoke[*config.Config](i)
	log := do.MustInvoke[*logger.Logger](i)
	v := do.MustInvoke[*validation.Validator](i)
	cacheHandle := do.MustInvoke[*CatalogCacheHandle](i)

	httpClient := &http.Client{
		Transport: &http.Transport{
			Proxy:               http.ProxyFromEnvironment,
			MaxIdleConns:        20,
			MaxIdleConnsPerHost: 10,
			IdleConnTimeout:     90 * time.Second,
		},
	}

	movies := tmdb.New(tmdb.Config{
		APIKey:            cfg.Catalog.TMDBAPIKey,
		BaseURL:           cfg.Catalog.TMDBBaseURL,
		Timeout:           cfg.Catalog.Timeout,
		RequestsPerSecond: cfg.Catalog.RequestsPerSecond,
		Burst:             cfg.Catalog.Burst,
	}, httpClient, v, log.Logger)

	books := openlibrary.New(openlibrary.Config{
		BaseURL:           cfg.Catalog.OpenLibraryBaseURL,
		Timeout:           cfg.Catalog.Timeout,
		RequestsPerSecond: cfg.Catalog.RequestsPerSecond,
		Burst:             cfg.Catalog.Burst,
	}, httpClient, v, log.Logger)

	catalogs := catalog.Catalogs{Movies: movies, Shows: movies, Books: books}

	if cfg.Catalog.TMDBAPIKey == "" {
		log.Warn("TMDB API key not set, movie and TV lookups will fail")
	}

	if cacheHandle.Store != nil {
		return cacheHandle.Wrap(catalogs), nil
	}
	return catalogs, nil
}
