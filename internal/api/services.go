package api

import (
	"github.com/mediadiet/mediadiet/internal/service"
)

// Services groups all business logic services used by the API server.
type Services struct {
	Entries *service.EntryService
	Saved   *service.SavedService
	Lists   *service.ListService
	Stats   *service.StatsService
	Social  *service.SocialService
	Users   *service.UserService
	Catalog *service.CatalogService
	Search  *service.SearchService // nil disables local media search
}
