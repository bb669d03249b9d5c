package main

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/octobees/brand-enrichment/internal/auth"
	"github.com/octobees/brand-enrichment/internal/branddev"
	"github.com/octobees/brand-enrichment/internal/resolver"
	"github.com/octobees/brand-enrichment/internal/service"
)

var errMissingJWTSecret = errors.New("JWT_SECRET must be set")

func newRootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:          "brandctl",
		Short:        "Brand enrichment operator tool",
		SilenceUsage: true,
	}
	root.AddCommand(newTokenCmd(), newResolveCmd(), newLookupCmd())
	return root
}

func newTokenCmd() *cobra.Command {
	var (
		subject     string
		serviceName string
		scopes      []string
		ttl         time.Duration
	)

	cmd := &cobra.Command{
		Use:   "token",
		Short: "Issue a service token signed with JWT_SECRET",
		RunE: func(cmd *cobra.Command, args []string) error {
			secret := os.Getenv("JWT_SECRET")
			if secret == "" {
				return errMissingJWTSecret
			}
			if serviceName == "" {
				serviceName = subject
			}
			token, err := auth.NewJWTManager(secret, ttl).GenerateToken(subject, serviceName, scopes)
			if err != nil {
				return fmt.Errorf("issue token: %w", err)
			}
			fmt.Fprintln(cmd.OutOrStdout(), token)
			return nil
		},
	}

	cmd.Flags().StringVar(&subject, "subject", "", "token subject, usually the calling service id")
	cmd.Flags().StringVar(&serviceName, "service", "", "calling service name (defaults to subject)")
	cmd.Flags().StringSliceVar(&scopes, "scope", []string{auth.ScopeBrandRead}, "granted scopes")
	cmd.Flags().DurationVar(&ttl, "ttl", 24*time.Hour, "token lifetime")
	_ = cmd.MarkFlagRequired("subject")

	return cmd
}

func newResolveCmd() *cobra.Command {
	var websiteURL string

	cmd := &cobra.Command{
		Use:   "resolve [company name]",
		Short: "Print the lookup domain for a company without calling the provider",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			name := strings.Join(args, " ")
			domain, ok := resolver.Default().Resolve(name, websiteURL)
			if !ok || domain == "" {
				return errors.New(service.MessageDomainUnresolvable)
			}
			fmt.Fprintln(cmd.OutOrStdout(), domain)
			return nil
		},
	}

	cmd.Flags().StringVar(&websiteURL, "url", "", "company website url")
	return cmd
}

func newLookupCmd() *cobra.Command {
	var (
		websiteURL string
		baseURL    string
		timeout    time.Duration
	)

	cmd := &cobra.Command{
		Use:   "lookup [company name]",
		Short: "Fetch and print brand assets for a company",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			client, err := branddev.NewClient(os.Getenv("BRANDDEV_API_KEY"),
				branddev.WithBaseURL(baseURL),
				branddev.WithTimeout(timeout),
			)
			if err != nil {
				return err
			}

			assets := service.NewBrandService(client).Lookup(cmd.Context(), strings.Join(args, " "), websiteURL)
			out, err := json.MarshalIndent(assets, "", "  ")
			if err != nil {
				return fmt.Errorf("encode brand assets: %w", err)
			}
			fmt.Fprintln(cmd.OutOrStdout(), string(out))
			return nil
		},
	}

	cmd.Flags().StringVar(&websiteURL, "url", "", "company website url")
	cmd.Flags().StringVar(&baseURL, "base-url", os.Getenv("BRANDDEV_BASE_URL"), "brand.dev retrieve endpoint")
	cmd.Flags().DurationVar(&timeout, "timeout", branddev.DefaultTimeout, "provider request timeout")
	return cmd
}
