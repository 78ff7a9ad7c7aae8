// Command folio is a terminal portfolio: an animated star scene with
// corner panels, translated content and GitHub repository cards.
package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

var configPath string

var rootCmd = &cobra.Command{
	Use:   "folio",
	Short: "Terminal portfolio with an animated scene and GitHub repo cards",
	Long: `folio shows an animated disk and star scene with four corner panels.

Runs the interactive TUI when stdin and stdout are terminals and FOLIO_TUI
is not "0". Otherwise it prints the repository cards and exits.`,
	SilenceUsage: true,
	RunE:         runRoot,
}

func init() {
	rootCmd.PersistentFlags().StringVar(&configPath, "config", "", "path to config file (default: user config dir)")

	reposCmd.Flags().BoolVar(&reposJSON, "json", false, "print cards as JSON")

	snapshotCmd.Flags().DurationVar(&snapshotAt, "at", snapshotAt, "simulated time since start")
	snapshotCmd.Flags().StringVar(&snapshotOut, "out", "", "output file (.svg or .png)")
	snapshotCmd.Flags().IntVar(&snapshotWidth, "width", 0, "image width in pixels (default: from terminal)")
	snapshotCmd.Flags().IntVar(&snapshotHeight, "height", 0, "image height in pixels (default: from terminal)")
	_ = snapshotCmd.MarkFlagRequired("out")

	cacheCmd.AddCommand(cacheClearCmd)
	rootCmd.AddCommand(reposCmd, snapshotCmd, langCmd, cacheCmd)
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}
}
