package cmd

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"streamctl/internal/config"
	"streamctl/internal/installer"
	"streamctl/internal/launcher"
	"streamctl/internal/restart"
	"streamctl/internal/transport"
	"streamctl/internal/tui/controller"
	"streamctl/internal/tui/model"
	"streamctl/pkg/logging"
)

func newDashboardCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "dashboard",
		Short: "Open the interactive panel",
		Long: `Connects to the streaming server's event endpoint and opens the
interactive panel. This is also what running streamctl bare does.`,
		RunE: runDashboard,
	}
}

func runDashboard(cmd *cobra.Command, args []string) error {
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("loading configuration: %w", err)
	}

	logChannel := logging.InitForTUI(parseLogLevel(cfg.Logging.Level))
	defer logging.CloseTUIChannel()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	client := transport.NewClient(cfg.Server.EventsURL)
	client.Start(ctx)
	defer client.Close()

	launch := launcher.New(cfg.Runtime.ProcessName, cfg.Runtime.LaunchCommand)
	coordinator := restart.NewCoordinator(launch.RestartRuntime)

	releases, err := installer.NewGitHubReleaseSource(cfg.Releases.StableRepo, cfg.Releases.NightlyRepo)
	if err != nil {
		return fmt.Errorf("setting up release discovery: %w", err)
	}
	steps := &installer.HTTPSteps{
		StagingDir: cfg.Installer.StagingDir,
		AssetName:  cfg.Installer.AssetName,
	}
	worker := installer.NewActor(steps, releases)
	worker.Start()

	m := model.InitializeModel(model.Deps{
		Transport:   client,
		Coordinator: coordinator,
		Worker:      worker,
		Runtime:     launch,
		Version:     rootCmd.Version,
		LogChannel:  logChannel,
	})

	program := controller.NewProgram(m)
	if _, err := program.Run(); err != nil {
		return fmt.Errorf("running panel: %w", err)
	}

	// The model's shutdown path already stopped the worker; tearing the
	// transport down is all that is left.
	return nil
}

func parseLogLevel(raw string) logging.Level {
	switch raw {
	case "debug":
		return logging.LevelDebug
	case "warn":
		return logging.LevelWarn
	case "error":
		return logging.LevelError
	default:
		return logging.LevelInfo
	}
}
