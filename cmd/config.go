package main

import (
	"fmt"

	"pomodoro/internal/storage"

	"github.com/spf13/cobra"
)

var configCmd = &cobra.Command{
	Use:   "config",
	Short: "Print the effective settings as YAML",
	Long: `Prints the settings after the file and command line flags are merged.
Redirect the output to a settings file to start from the current values.`,
	RunE: runConfig,
}

func runConfig(cmd *cobra.Command, args []string) error {
	data, err := storage.MarshalSettings(settings)
	if err != nil {
		return err
	}
	path, err := settingsFile()
	if err != nil {
		return err
	}
	out := cmd.OutOrStdout()
	fmt.Fprintf(out, "# %s\n", path)
	_, err = out.Write(data)
	return err
}
