package main

import (
	"fmt"
	"os"
	"time"

	"pomodoro/internal/storage"
	"pomodoro/internal/ui/preferences"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

const (
	appName = "Pomodoro"
	appID   = "com.pomodoro.app"
)

var (
	// Global flags
	verbose      bool
	configPath   string
	apiURL       string
	workDuration time.Duration
	breakLength  time.Duration

	logger *zap.Logger

	// settings is fileSettings with the command line overrides applied.
	settings     preferences.Settings
	fileSettings preferences.Settings
	overrides    flagOverrides
)

// rootCmd starts the desktop timer.
var rootCmd = &cobra.Command{
	Use:   "pomodoro",
	Short: "Pomodoro work/break timer",
	Long: `Pomodoro alternates focused work sessions with short breaks.

Run without arguments to open the desktop timer with a tray icon.
Completed work sessions are reported to the progress API.`,
	SilenceUsage: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		config := zap.NewProductionConfig()
		if verbose {
			config.Level = zap.NewAtomicLevelAt(zapcore.DebugLevel)
		}
		var err error
		logger, err = config.Build()
		if err != nil {
			return fmt.Errorf("failed to initialize logger: %w", err)
		}

		if err := loadSettings(cmd); err != nil {
			return err
		}
		return nil
	},
	PersistentPostRun: func(cmd *cobra.Command, args []string) {
		if logger != nil {
			_ = logger.Sync()
		}
	},
	RunE: runDesktop,
}

func init() {
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "Enable verbose logging")
	rootCmd.PersistentFlags().StringVar(&configPath, "config", "", "Settings file (default: user config dir)")
	rootCmd.PersistentFlags().StringVar(&apiURL, "api", "", "Progress API base URL")
	rootCmd.PersistentFlags().DurationVar(&workDuration, "work", 0, "Work session length, e.g. 25m")
	rootCmd.PersistentFlags().DurationVar(&breakLength, "break", 0, "Break length, e.g. 5m")

	rootCmd.AddCommand(tuiCmd)
	rootCmd.AddCommand(serveCmd)
	rootCmd.AddCommand(statusCmd)
	rootCmd.AddCommand(configCmd)
}

// loadSettings reads the settings file and applies flag overrides on top.
func loadSettings(cmd *cobra.Command) error {
	path, err := settingsFile()
	if err != nil {
		return err
	}
	loaded, err := storage.LoadSettings(path)
	if err != nil {
		return err
	}
	fileSettings = loaded
	overrides = overridesFromFlags(cmd)
	settings = overrides.apply(loaded)
	return settings.TimerConfig().Validate()
}

func settingsFile() (string, error) {
	if configPath != "" {
		return configPath, nil
	}
	return storage.SettingsPath(appName)
}

// flagOverrides holds the settings given on the command line. They apply to
// this run only and are never written to the settings file.
type flagOverrides struct {
	api       *string
	work      *time.Duration
	breakTime *time.Duration
}

func overridesFromFlags(cmd *cobra.Command) flagOverrides {
	var set flagOverrides
	flags := cmd.Flags()
	if flags.Changed("api") {
		value := apiURL
		set.api = &value
	}
	if flags.Changed("work") {
		value := workDuration
		set.work = &value
	}
	if flags.Changed("break") {
		value := breakLength
		set.breakTime = &value
	}
	return set
}

func (set flagOverrides) apply(loaded preferences.Settings) preferences.Settings {
	if set.api != nil {
		loaded.APIBaseURL = *set.api
	}
	if set.work != nil {
		loaded.WorkDuration = *set.work
	}
	if set.breakTime != nil {
		loaded.BreakDuration = *set.breakTime
	}
	return loaded
}

// persist returns what to write when the user saves edited in place of the
// effective settings. Overridden fields the user left alone keep their file
// values; an edited field drops its override.
func (set *flagOverrides) persist(file, effective, edited preferences.Settings) preferences.Settings {
	saved := edited
	if set.api != nil {
		if edited.APIBaseURL == effective.APIBaseURL {
			saved.APIBaseURL = file.APIBaseURL
		} else {
			set.api = nil
		}
	}
	if set.work != nil {
		if edited.WorkDuration == effective.WorkDuration {
			saved.WorkDuration = file.WorkDuration
		} else {
			set.work = nil
		}
	}
	if set.breakTime != nil {
		if edited.BreakDuration == effective.BreakDuration {
			saved.BreakDuration = file.BreakDuration
		} else {
			set.breakTime = nil
		}
	}
	return saved
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
