package app

import (
	"fmt"
	"log/slog"

	"github.com/sautiyetu/sauti/pkg/cryptox"
	"github.com/sautiyetu/sauti/pkg/jwtx"
)

// InitSigner loads the Ed25519 signing key from cfg.SigningKeyFile, creating
// it on first start. Tokens survive restarts as long as the file does.
func InitSigner(cfg Config, logger *slog.Logger) (*jwtx.Signer, error) {
	pemKey, err := cryptox.LoadOrCreateEd25519Key(cfg.SigningKeyFile)
	if err != nil {
		return nil, err
	}

	signer, err := jwtx.NewSigner(pemKey)
	if err != nil {
		return nil, fmt.Errorf("failed to parse signing key: %w", err)
	}

	logger.Info("signing key loaded", "path", cfg.SigningKeyFile, "kid", signer.KID())
	return signer, nil
}
