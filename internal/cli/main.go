package cli

import (
	"context"
	"fmt"
	"os"
	"os/signal"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
)

func Main() {
	_ = godotenv.Load() // best-effort: load .env if present

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	root := NewRootCmd()
	root.SetOut(os.Stdout)
	root.SetErr(os.Stderr)

	if err := root.ExecuteContext(ctx); err != nil {
		fmt.Fprintln(os.Stderr, err)
		stop()
		os.Exit(1)
	}
}

// NewRootCmd builds the command tree. Without a subcommand it starts the TUI.
func NewRootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:           "comedyclip",
		Short:         "Find, review and cut clips from stand-up comedy videos",
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE:          runTUI,
	}

	root.PersistentFlags().String("out", "./output", "Output directory")
	root.PersistentFlags().String("log-level", "", "Log level: quiet, normal, verbose (default from LOG_LEVEL)")
	root.PersistentFlags().String("log-file", "", "Log file path (default under the user cache dir)")

	root.AddCommand(
		newTUICmd(),
		newSearchCmd(),
		newDetailsCmd(),
		newTranscriptCmd(),
		newSuggestCmd(),
		newClipCmd(),
		newVerticalCmd(),
		newDownloadCmd(),
		newKeyCmd(),
	)
	return root
}
