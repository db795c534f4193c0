// Package main is the entry point for the reagent CLI.
package main

import (
	"fmt"
	"log/slog"
	"os"
	"time"

	"github.com/spf13/cobra"

	"github.com/flemzord/reagent/internal/agent"
	"github.com/flemzord/reagent/internal/core"
	"github.com/flemzord/reagent/internal/runner"
	"github.com/flemzord/reagent/pkg/app"

	// Module registration.
	_ "github.com/flemzord/reagent/internal/gateway"
	_ "github.com/flemzord/reagent/modules/provider/anthropic"
	_ "github.com/flemzord/reagent/modules/provider/openai"
	_ "github.com/flemzord/reagent/modules/record/sqlite"
	_ "github.com/flemzord/reagent/modules/tool/hackernews"
	_ "github.com/flemzord/reagent/modules/tool/searx"
)

// Set by goreleaser ldflags.
var (
	version = "dev"
	commit  = "none"
	date    = "unknown"
)

func main() {
	if err := rootCmd().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		os.Exit(1)
	}
}

func rootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:           "reagent",
		Short:         "A reasoning agent that answers questions with web tools",
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	root.PersistentFlags().StringP("config", "c", "", "Path to configuration file")
	root.AddCommand(versionCmd(), startCmd(), askCmd(), configCmd())
	return root
}

func versionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print version and compiled modules",
		Run: func(_ *cobra.Command, _ []string) {
			fmt.Printf("reagent %s (commit: %s, built: %s)\n", version, commit, date)
			mods := core.GetModules()
			if len(mods) == 0 {
				fmt.Println("\nNo compiled modules.")
				return
			}
			fmt.Println("\nCompiled modules:")
			for _, mod := range mods {
				fmt.Printf("  %s\n", mod.ID)
			}
		},
	}
}

func startCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "start",
		Short: "Start the agent with all configured modules",
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfgPath, _ := cmd.Flags().GetString("config")
			verbose, _ := cmd.Flags().GetBool("verbose")

			level := slog.LevelInfo
			if verbose {
				level = slog.LevelDebug
			}

			return app.Run(app.RunParams{
				ConfigPath: cfgPath,
				Version:    version,
				Commit:     commit,
				Date:       date,
				LogLevel:   level,
			})
		},
	}
	cmd.Flags().BoolP("verbose", "v", false, "Enable debug logging")
	return cmd
}

func askCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "ask <question>",
		Short: "Run a single query and print the reasoning trace",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfgPath, _ := cmd.Flags().GetString("config")
			maxIter, _ := cmd.Flags().GetInt("max-iterations")

			application, _, err := app.Build(app.RunParams{
				ConfigPath: cfgPath,
				LogLevel:   slog.LevelWarn,
			})
			if err != nil {
				return err
			}
			defer application.Stop()

			mod, ok := application.Module("agent.react")
			if !ok {
				return fmt.Errorf("agent.react module is not configured")
			}
			r, ok := mod.(*runner.Runner)
			if !ok {
				return fmt.Errorf("agent.react module has unexpected type")
			}
			// Providers and tools registered their services during
			// provisioning; only the runner itself needs starting.
			if err := r.Start(); err != nil {
				return err
			}

			resp, elapsed, err := r.Run(cmd.Context(), runner.RunRequest{
				Question:      args[0],
				MaxIterations: maxIter,
				Observer: func(s agent.Step) {
					fmt.Println(s.RawOutput)
					if s.Observation != "" {
						fmt.Printf("Observation: %s\n", s.Observation)
					}
				},
			})
			if err != nil {
				return err
			}

			fmt.Printf("\nFinal Answer: %s\n", resp.Answer)
			fmt.Printf("(%d iterations, %s, stop: %s)\n", resp.Iterations, elapsed.Round(time.Millisecond), resp.StopReason)
			return nil
		},
	}
	cmd.Flags().Int("max-iterations", 0, "Override the configured iteration budget")
	return cmd
}

func configCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "config",
		Short: "Configuration management",
	}
	cmd.AddCommand(&cobra.Command{
		Use:   "check <path>",
		Short: "Validate configuration",
		Args:  cobra.ExactArgs(1),
		RunE: func(_ *cobra.Command, args []string) error {
			application, _, err := app.Build(app.RunParams{
				ConfigPath: args[0],
				LogLevel:   slog.LevelWarn,
			})
			if err != nil {
				return err
			}
			defer application.Stop()

			fmt.Println("Configuration OK")
			return nil
		},
	})
	return cmd
}
