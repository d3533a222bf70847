package main

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/tejashwikalptaru/wavescope/internal/app"
	"github.com/tejashwikalptaru/wavescope/internal/config"
	"github.com/tejashwikalptaru/wavescope/internal/domain"
	"github.com/tejashwikalptaru/wavescope/internal/logger"
)

// options holds the command-line flags. Flags that were set win over the
// configuration file and the environment.
type options struct {
	configPath  string
	mode        string
	file        string
	logLevel    string
	frameSource string
	mockAudio   bool
}

// newRootCmd builds the wavescope command. run receives the resolved
// configuration and owns the application lifecycle.
func newRootCmd(run func(app.Config) error) *cobra.Command {
	opts := &options{}

	rootCmd := &cobra.Command{
		Use:           "wavescope [file]",
		Short:         "Play an audio file and visualize its frequency spectrum",
		Version:       app.GetVersionInfo().Version,
		Args:          cobra.MaximumNArgs(1),
		SilenceErrors: true,
		SilenceUsage:  true,
		CompletionOptions: cobra.CompletionOptions{
			DisableDefaultCmd: true,
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := resolveConfig(cmd, opts, args)
			if err != nil {
				return err
			}
			return run(cfg)
		},
	}

	rootCmd.SetHelpCommand(&cobra.Command{Hidden: true})

	versionCmd := &cobra.Command{
		Use:   "version",
		Short: "Print version information",
		Run: func(cmd *cobra.Command, args []string) {
			fmt.Fprintln(cmd.OutOrStdout(), app.GetVersionInfo().FullString())
		},
	}
	rootCmd.AddCommand(versionCmd)

	rootCmd.Flags().StringVarP(&opts.configPath, "config", "c", "",
		"Path to a YAML configuration file (default ./"+config.DefaultFile+" when present)")
	rootCmd.Flags().StringVarP(&opts.mode, "mode", "m", "",
		"Initial visualization: bars, wave, circular or flashing")
	rootCmd.Flags().StringVarP(&opts.file, "file", "f", "",
		"Audio file to load on startup")
	rootCmd.Flags().StringVar(&opts.logLevel, "log-level", "",
		"Log level: debug, info, warn or error")
	rootCmd.Flags().StringVar(&opts.frameSource, "frame-source", "",
		"Frame cadence: vsync or ticker")
	rootCmd.Flags().BoolVar(&opts.mockAudio, "mock-audio", false,
		"Use the synthetic audio engine instead of the sound card")

	return rootCmd
}

func resolveConfig(cmd *cobra.Command, opts *options, args []string) (app.Config, error) {
	fileCfg, err := config.LoadConfig(opts.configPath)
	if err != nil {
		return app.Config{}, err
	}
	cfg := app.FromFileConfig(fileCfg)

	flags := cmd.Flags()
	if flags.Changed("mode") {
		mode, err := domain.ParseMode(opts.mode)
		if err != nil {
			return app.Config{}, err
		}
		cfg.Mode = mode
	}
	if flags.Changed("log-level") {
		level, ok := logger.ParseLevel(opts.logLevel)
		if !ok {
			return app.Config{}, domain.NewValidationError("log-level", opts.logLevel, "unknown level")
		}
		cfg.LogLevel = level
	}
	if flags.Changed("frame-source") {
		src := strings.ToLower(opts.frameSource)
		if src != config.FrameSourceVSync && src != config.FrameSourceTicker {
			return app.Config{}, domain.NewValidationError("frame-source", opts.frameSource, "must be vsync or ticker")
		}
		cfg.FrameSource = src
	}
	if flags.Changed("mock-audio") {
		cfg.UseMockAudio = opts.mockAudio
	}

	cfg.InitialFile = opts.file
	if len(args) == 1 {
		if opts.file != "" {
			return app.Config{}, fmt.Errorf("file given twice: %q and %q", opts.file, args[0])
		}
		cfg.InitialFile = args[0]
	}
	return cfg, nil
}
