package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/bnema/vmview/internal/config"
)

var configCmd = &cobra.Command{
	Use:   "config",
	Short: "Show the active configuration",
	Run: func(cmd *cobra.Command, args []string) {
		cfg := config.Get()
		fmt.Printf("config file: %s\n\n", config.GetConfigPath())
		fmt.Printf("display.refresh_interval_ms   = %d\n", cfg.Display.RefreshIntervalMs)
		fmt.Printf("input.swap_alt_meta           = %v\n", cfg.Input.SwapAltMeta)
		fmt.Printf("input.grab_hotkey_modifier    = %s\n", cfg.Input.GrabHotkeyModifier)
		fmt.Printf("input.grab_hotkey_key         = %s\n", cfg.Input.GrabHotkeyKey)
		fmt.Printf("clipboard.request_timeout_ms  = %d\n", cfg.Clipboard.RequestTimeoutMs)
		fmt.Printf("clipboard.poll_interval_ms    = %d\n", cfg.Clipboard.PollIntervalMs)
		fmt.Printf("logging.log_level             = %q\n", cfg.Logging.LogLevel)
	},
}
