package main

import (
	"blogapi/server"

	"github.com/labstack/echo/v4/middleware"
	log "github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
	"golang.org/x/crypto/acme/autocert"
)

func serveCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Serve the API over HTTP for local development",
		RunE: func(cmd *cobra.Command, args []string) error {
			app, err := setup()
			if err != nil {
				return err
			}
			e := server.New(app.handler, app.tokens.Key())

			addr := app.cfg.Server.Address
			if addr != "" {
				log.WithField("addr", addr).Info("Listening")
				return e.Start(addr)
			}
			// Cache certificates to avoid issues with rate limits (https://letsencrypt.org/docs/rate-limits)
			e.AutoTLSManager.Cache = autocert.DirCache("/var/www/.cache")
			if onlyHost := app.cfg.Server.WhitelistHost; onlyHost != "" {
				e.AutoTLSManager.HostPolicy = autocert.HostWhitelist(onlyHost)
			}
			e.Pre(middleware.HTTPSRedirect())
			return e.StartAutoTLS(":443")
		},
	}
}
