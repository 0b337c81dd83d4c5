package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/jrsteele09/go-okta-login/internal/config"
	"github.com/jrsteele09/go-okta-login/internal/mockidp"
	"github.com/jrsteele09/go-okta-login/token/keys"
	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"
)

func newMockServerCmd(c config.Config) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "mock-server",
		Short: "Serve a local stand-in for an Okta org to log in against",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			addr, _ := cmd.Flags().GetString("addr")
			keyFile, _ := cmd.Flags().GetString("key-file")
			keyID, _ := cmd.Flags().GetString("key-id")

			opts := mockidp.DemoOptions()
			if keyFile != "" {
				kp, err := loadOrCreateKey(keyFile, keyID)
				if err != nil {
					return err
				}
				opts.Signer = keys.NewKeyPairSigner(kp)
			}
			idp, err := mockidp.New(opts)
			if err != nil {
				return err
			}

			displayAppname(c.GetAppName())
			server := &http.Server{Addr: addr, Handler: idp, ReadHeaderTimeout: 10 * time.Second}
			errs := make(chan error, 1)
			go func() { errs <- listenAndServe(server) }()

			log.Info().
				Str("addr", addr).
				Str("client_id", mockidp.DemoClientID).
				Str("redirect_uri", mockidp.DemoRedirectURI).
				Str("username", mockidp.DemoUsername).
				Msg("mock authorization server listening")

			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()
			select {
			case err := <-errs:
				return err
			case <-ctx.Done():
			}
			return shutdown(server)
		},
	}
	cmd.Flags().String("addr", c.GetMockPort(), "Listen address (MOCK_PORT)")
	cmd.Flags().String("key-file", "", "PEM encoded RSA private key for signing, created if missing; a throwaway key is used when empty")
	cmd.Flags().String("key-id", "mock-key-1", "kid published for the --key-file key")
	return cmd
}

func listenAndServe(server *http.Server) error {
	if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		return fmt.Errorf("server.ListenAndServe %w", err)
	}
	return nil
}

func shutdown(server *http.Server) error {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := server.Shutdown(ctx); err != nil {
		return fmt.Errorf("server.Shutdown: %w", err)
	}
	log.Info().Msg("mock authorization server stopped")
	return nil
}

// loadOrCreateKey reads an RSA key from path, generating and saving one first
// if the file does not exist.
func loadOrCreateKey(path, keyID string) (*keys.KeyPair, error) {
	pemBytes, err := os.ReadFile(path)
	if err == nil {
		return keys.LoadKeyPairFromPEM(keyID, string(pemBytes))
	}
	if !errors.Is(err, os.ErrNotExist) {
		return nil, fmt.Errorf("read signing key: %w", err)
	}

	kp, err := keys.GenerateRSAKeyPair(keyID, keys.MinRSABits)
	if err != nil {
		return nil, err
	}
	if err := os.WriteFile(path, []byte(kp.ExportPrivateKeyPEM()), 0o600); err != nil {
		return nil, fmt.Errorf("write signing key: %w", err)
	}
	log.Info().Str("path", path).Msg("generated mock signing key")
	return kp, nil
}
