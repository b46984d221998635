// Package main is an operator tool for local development: it creates user
// profiles and mints access tokens the API will accept.
//
// Usage:
//
//	go run ./cmd/seed user add usr-1 alice --first Alice --last Liddell
//	go run ./cmd/seed token issue alice
package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"time"

	"github.com/alecthomas/kingpin/v2"

	"github.com/mediadiet/mediadiet/internal/auth"
	"github.com/mediadiet/mediadiet/internal/config"
	"github.com/mediadiet/mediadiet/internal/domain"
	"github.com/mediadiet/mediadiet/internal/id"
	"github.com/mediadiet/mediadiet/internal/logger"
	"github.com/mediadiet/mediadiet/internal/store/sqlite"
)

func main() {
	app := kingpin.New("mediadiet-seed", "Development helper for the mediadiet database.")
	configPath := app.Flag("config", "Path to a YAML configuration file.").
		Envar("MEDIADIET_CONFIG").
		ExistingFile()

	user := app.Command("user", "Manage user profiles.")
	userAdd := user.Command("add", "Create or refresh a user profile.")
	userID := userAdd.Arg("id", "Account id; generated when omitted.").String()
	username := userAdd.Arg("username", "Unique username.").Required().String()
	firstName := userAdd.Flag("first", "First name.").String()
	lastName := userAdd.Flag("last", "Last name.").String()

	token := app.Command("token", "Manage access tokens.")
	tokenIssue := token.Command("issue", "Mint an access token for an existing user.")
	tokenUser := tokenIssue.Arg("username", "Username to mint a token for.").Required().String()
	tokenTTL := tokenIssue.Flag("ttl", "Token lifetime; defaults to the configured duration.").Duration()

	command := kingpin.MustParse(app.Parse(os.Args[1:]))

	cfg, err := config.LoadConfig(*configPath)
	app.FatalIfError(err, "load config")

	log := logger.New(logger.Config{
		Writer:      os.Stderr,
		Level:       slog.LevelWarn,
		Environment: cfg.App.Environment,
	})
	defer log.Close()

	app.FatalIfError(os.MkdirAll(filepath.Dir(cfg.Database.Path), 0o755), "create data directory")
	s, err := sqlite.Open(cfg.Database.Path, 1, log.Logger)
	app.FatalIfError(err, "open database")
	defer s.Close()

	ctx := context.Background()

	switch command {
	case userAdd.FullCommand():
		if *userID == "" {
			*userID, err = id.Generate("usr")
			app.FatalIfError(err, "generate id")
		}
		u := &domain.User{ID: *userID, Username: *username, FirstName: *firstName, LastName: *lastName}
		app.FatalIfError(s.EnsureUser(ctx, u), "create user")
		if *firstName != "" || *lastName != "" {
			u.FirstName, u.LastName = *firstName, *lastName
			app.FatalIfError(s.UpdateUser(ctx, u), "update user")
		}
		fmt.Printf("%s\t%s\t%s\n", u.ID, u.Username, u.DisplayName())

	case tokenIssue.FullCommand():
		u, err := s.GetUserByUsername(ctx, *tokenUser)
		app.FatalIfError(err, "find user %s", *tokenUser)

		tokens, err := tokenService(cfg, *tokenTTL)
		app.FatalIfError(err, "token service")

		tok, err := tokens.GenerateAccessToken(u)
		app.FatalIfError(err, "mint token")
		fmt.Println(tok)
	}
}

func tokenService(cfg *config.Config, ttl time.Duration) (*auth.TokenService, error) {
	if ttl <= 0 {
		ttl = cfg.Auth.AccessTokenDuration
	}
	key, err := auth.KeySource{Hex: cfg.Auth.AccessTokenKey, File: cfg.Auth.KeyFile}.Load()
	if err != nil {
		return nil, err
	}
	return auth.NewTokenServiceFromKey(key, ttl)
}
