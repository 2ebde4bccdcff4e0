package main

import (
	"context"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/conformal-tools/conform/app"
	"github.com/conformal-tools/conform/domain"
	"github.com/conformal-tools/conform/internal/config"
)

var (
	profileConfigPath   string
	profileFormat       string
	profileCachePath    string
	profileMaxFiles     int
	profileForceRefresh bool
	profileOutputPath   string
)

func profileCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "profile [path]",
		Short: "Learn and print the project's convention profile",
		Long: `Build (or load from cache) the pattern profile for a project and
print it. The profile captures dominant naming styles, file placement,
import conventions, error handling, and documentation habits.

Examples:
  conform profile
  conform profile ../webapp
  conform profile --refresh
  conform profile --format yaml`,
		Args: cobra.MaximumNArgs(1),
		RunE: runProfile,
	}

	cmd.Flags().StringVarP(&profileConfigPath, "config", "c", "",
		"Path to config file")
	cmd.Flags().StringVarP(&profileFormat, "format", "f", "json",
		"Output format: json, yaml")
	cmd.Flags().StringVar(&profileCachePath, "cache", "",
		"Profile cache location (overrides config)")
	cmd.Flags().IntVar(&profileMaxFiles, "max-files", 0,
		"Stop collecting after this many files (overrides config)")
	cmd.Flags().BoolVar(&profileForceRefresh, "refresh", false,
		"Rebuild the profile, ignoring the cache")
	cmd.Flags().StringVarP(&profileOutputPath, "output", "o", "",
		"Write the profile to a file instead of stdout")

	return cmd
}

func runProfile(cmd *cobra.Command, args []string) error {
	root := "."
	if len(args) > 0 {
		root = args[0]
	}

	cfg, err := config.LoadConfigWithTarget(profileConfigPath, root)
	if err != nil {
		return fmt.Errorf("failed to load configuration: %w", err)
	}

	// Flags explicitly set on the CLI override the config file
	if profileCachePath != "" {
		cfg.Cache.Path = profileCachePath
	}
	if cmd.Flags().Changed("max-files") {
		cfg.Collector.MaxFiles = profileMaxFiles
	}

	var format domain.OutputFormat
	switch profileFormat {
	case "json", "", string(domain.OutputFormatStructured):
		format = domain.OutputFormatStructured
	case "yaml", "yml":
		format = domain.OutputFormatYAML
	default:
		return domain.NewUnsupportedFormatError(profileFormat)
	}

	writer := os.Stdout
	if profileOutputPath != "" {
		file, err := os.Create(profileOutputPath)
		if err != nil {
			return fmt.Errorf("failed to create output file: %w", err)
		}
		defer file.Close()
		writer = file
	}

	uc := app.NewProfileUseCase(cfg, nil)
	profile, err := uc.Execute(context.Background(), app.ProfileConfig{
		ProjectRoot:  root,
		ForceRefresh: profileForceRefresh,
		OutputFormat: format,
		OutputWriter: writer,
	})
	if err != nil {
		return err
	}

	if profileOutputPath != "" {
		fmt.Printf("Profile for %d files saved to: %s\n", profile.FileCount, profileOutputPath)
	}

	return nil
}
