package providers

import (
	"github.com/samber/do/v2"

	"github.com/mediadiet/mediadiet/internal/auth"
	"github.com/mediadiet/mediadiet/internal/config"
	"github.com/mediadiet/mediadiet/internal/logger"
)

// AuthKey wraps the authentication key bytes.
type AuthKey []byte

// ProvideAuthKey resolves the token key from configuration, generating the
// key file on first start.
func ProvideAuthKey(i do.Injector) (AuthKey, error) {
	cfg := do.MustInvoke[*config.Config](i)
	log := do.MustInvoke[*logger.Logger](i)

	source := auth.KeySource{Hex: cfg.Auth.AccessTokenKey, File: cfg.Auth.KeyFile}
	key, err := source.Load()
	if err != nil {
		return nil, err
	}

	from := cfg.Auth.KeyFile
	if cfg.Auth.AccessTokenKey != "" {
		from = "config"
	}
	log.Info("Authentication key loaded",
		"source", from,
		"access_token_duration", cfg.Auth.AccessTokenDuration,
	)
	return AuthKey(key), nil
}

// ProvideTokenService provides the PASETO token service.
func ProvideTokenService(i do.Injector) (*auth.TokenService, error) {
	cfg := do.MustInvoke[*config.Config](i)
	authKey := do.MustInvoke[AuthKey](i)

	return auth.NewTokenServiceFromKey([]byte(authKey), cfg.Auth.AccessTokenDuration)
}
