package main

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/Mujtaba19938/FINDASH/internal/analytics"
	"github.com/Mujtaba19938/FINDASH/internal/api"
	"github.com/Mujtaba19938/FINDASH/internal/certs"
	"github.com/Mujtaba19938/FINDASH/internal/common"
)

func serveCmd() *cobra.Command {
	var (
		addr       string
		issueToken string
		tokenTTL   time.Duration
		useTLS     bool
	)
	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve the analytics API over HTTP",
		Long: `Serve the analytics engine and intent router as a JSON API.

Requests to /api/* need a bearer token signed with api.jwt_secret whose
subject is the user ID. Use --issue-token to mint one.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			if err := appConfig.ValidateAPI(); err != nil {
				return common.NewUserError("API is not configured: "+err.Error(), err)
			}

			auth := api.NoAuth()
			if !appConfig.API.AuthDisabled {
				auth = api.NewAuthenticator(appConfig.API.JWTSecret)
			}

			if issueToken != "" {
				token, err := auth.IssueToken(issueToken, tokenTTL)
				if err != nil {
					return err
				}
				_, err = fmt.Fprintln(cmd.OutOrStdout(), token)
				return err
			}

			if addr == "" {
				addr = appConfig.API.Addr
			}
			cfg := api.DefaultConfig()
			cfg.Addr = addr
			cfg.CORSOrigins = appConfig.API.CORSOrigins
			if appConfig.API.ReadTimeout > 0 {
				cfg.ReadTimeout = appConfig.API.ReadTimeout
			}

			ctx := cmd.Context()
			store, err := initStorage(ctx, appConfig)
			if err != nil {
				return err
			}
			defer func() { _ = store.Close() }()

			opts := []api.Option{api.WithConfig(cfg)}
			if useTLS {
				cert, err := certs.NewStore(appConfig.API.TLSDir).Certificate()
				if err != nil {
					return fmt.Errorf("failed to load TLS certificate: %w", err)
				}
				opts = append(opts, api.WithTLS(certs.TLSConfig(cert)))
			}

			server := api.NewServer(analytics.New(store, analytics.WithClock(timeNow)), auth, opts...)
			return server.ListenAndServe(ctx)
		},
	}
	cmd.Flags().StringVar(&addr, "addr", "", "listen address (default api.addr)")
	cmd.Flags().StringVar(&issueToken, "issue-token", "", "print a bearer token for this user and exit")
	cmd.Flags().BoolVar(&useTLS, "tls", false, "serve HTTPS with a self-signed certificate from api.tls_dir")
	cmd.Flags().DurationVar(&tokenTTL, "token-ttl", 24*time.Hour, "lifetime of an issued token")
	return cmd
}
