// Command purify generates keys for, evaluates, and proves/verifies
// correct evaluation of the two-curve low-multiplicative-complexity PRF.
package main

import (
	"errors"
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/jonasnick/purify/internal/logger"
)

var logLevel string

var rootCmd = &cobra.Command{
	Use:   "purify",
	Short: "A PRF with low multiplicative complexity",
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		if err := viper.BindPFlag("log-level", cmd.Flags().Lookup("log-level")); err != nil {
			return err
		}
		logger.SetLogger(logger.Logger().New("level", viper.GetString("log-level")))
		return nil
	},
}

func init() {
	rootCmd.PersistentFlags().StringVar(&logLevel, "log-level", "error", "log level (debug, info, warn, error)")
	rootCmd.AddCommand(genCmd)
	rootCmd.AddCommand(evalCmd)
	rootCmd.AddCommand(verifierCmd)
	rootCmd.AddCommand(proveCmd)
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		code := 2 // parameter error: cobra's own usage/flag/arg errors, and
		// unwrapped RunE errors, default to this.
		var ec exitCoder
		if errors.As(err, &ec) {
			code = ec.ExitCode()
		}
		os.Exit(code)
	}
}
