package main

import (
	"fmt"
	"io"
	"time"

	"github.com/spf13/cobra"

	"github.com/jonathan/site-generator/internal/config"
	"github.com/jonathan/site-generator/internal/server"
)

var tokenCmd = &cobra.Command{
	Use:   "token",
	Short: "Issue a bearer token for the generation endpoint",
	Long: `Signs a token with the configured JWT secret. Use it as the API key of a
site generator whose provider is "endpoint".`,
	Example: `  site_agent token --subject marketing-site --ttl 720h`,
	RunE:    runToken,
}

var (
	tokenSubject string
	tokenScope   string
	tokenTTL     time.Duration
)

func init() {
	tokenCmd.Flags().StringVar(&tokenSubject, "subject", "", "Name of the caller the token is issued to")
	tokenCmd.Flags().StringVar(&tokenScope, "scope", "generate", "Scope recorded in the token")
	tokenCmd.Flags().DurationVar(&tokenTTL, "ttl", 0, "Token lifetime (defaults to the jwt.expiration setting)")
	_ = tokenCmd.MarkFlagRequired("subject")
	rootCmd.AddCommand(tokenCmd)
}

func runToken(cmd *cobra.Command, _ []string) error {
	settings, err := config.LoadSettings(settingsPath)
	if err != nil {
		return err
	}
	jwtCfg, err := config.NewJWTConfig(settings.JWT)
	if err != nil {
		return err
	}
	return issueToken(cmd.OutOrStdout(), jwtCfg, tokenSubject, tokenScope, tokenTTL)
}

func issueToken(out io.Writer, cfg *config.JWTConfig, subject, scope string, ttl time.Duration) error {
	token, err := server.NewJWTService(cfg).GenerateToken(subject, scope, ttl)
	if err != nil {
		return err
	}
	_, err = fmt.Fprintln(out, token)
	return err
}
