package cli

import (
	"github.com/spf13/cobra"

	"github.com/forPelevin/comedyclip/internal/tui"
)

func newTUICmd() *cobra.Command {
	return &cobra.Command{
		Use:   "tui",
		Short: "Start the interactive session (default)",
		Args:  cobra.NoArgs,
		RunE:  runTUI,
	}
}

func runTUI(cmd *cobra.Command, _ []string) error {
	a, err := setup(cmd, true, nil)
	if err != nil {
		return err
	}
	defer a.Close()

	a.log.Info("tui started")
	return tui.Run(cmd.Context(), tui.Options{
		Service:    a.uc,
		Session:    a.sess,
		Log:        a.log,
		OutDir:     a.cfg.OutDir,
		MinClipSec: a.cfg.MinClipSec,
		MaxClipSec: a.cfg.MaxClipSec,
		ClipCount:  a.cfg.ClipCount,
		MaxResults: a.cfg.MaxResults,
	})
}
