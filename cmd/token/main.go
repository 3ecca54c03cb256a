// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

// Command token issues a bearer token for one user so a client can
// authenticate against the records API. It signs with the same key and
// issuer as the server.
//
//	token -subject alice -token-sign-key secret
package main

import (
	"context"
	"fmt"
	"os"

	"github.com/MKhiriev/go-fin-sync/internal/config"
	"github.com/MKhiriev/go-fin-sync/internal/logger"
	"github.com/MKhiriev/go-fin-sync/internal/service"
)

func main() {
	log := logger.NewLogger("go-fin-sync-token")

	cfg, err := config.GetStructuredConfig()
	if err != nil {
		log.Fatal().Err(err).Msg("error getting configs")
	}
	if cfg.App.TokenSignKey == "" {
		log.Fatal().Msg("token sign key is not set")
	}

	token, err := service.NewAuthService(cfg.App, log).CreateToken(context.Background(), cfg.App.TokenSubject)
	if err != nil {
		log.Fatal().Err(err).Str("subject", cfg.App.TokenSubject).Msg("error creating token")
	}

	fmt.Fprintln(os.Stdout, token.SignedString)
}
