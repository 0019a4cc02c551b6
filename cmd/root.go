package cmd

import (
	"github.com/spf13/cobra"

	"github.com/bnema/vmview/internal/config"
	"github.com/bnema/vmview/internal/logger"
)

var (
	// Version is set during build
	Version = "0.1.0-dev"

	configPath string

	rootCmd = &cobra.Command{
		Use:   "vmview",
		Short: "vmview - VM display, input and clipboard bridge",
		Long: `vmview bridges a virtual machine's emulated display, input and clipboard
devices to the host: it mirrors guest framebuffer updates into a host surface,
routes host keyboard/pointer events to the guest with pointer-grab semantics,
and keeps the host and guest clipboards in sync.`,
		SilenceUsage: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			if configPath != "" {
				config.SetConfigPath(configPath)
			}
			if err := config.Init(); err != nil {
				return err
			}
			if level := config.Get().Logging.LogLevel; level != "" {
				logger.SetLevel(level)
			}
			return nil
		},
	}
)

// Execute runs the root command
func Execute() error {
	return rootCmd.Execute()
}

func init() {
	rootCmd.Version = Version
	rootCmd.SetVersionTemplate(`{{with .Name}}{{printf "%s " .}}{{end}}{{printf "version %s\n" .Version}}`)
	rootCmd.PersistentFlags().StringVar(&configPath, "config", "", "config file path")

	rootCmd.AddCommand(runCmd)
	rootCmd.AddCommand(configCmd)
}
