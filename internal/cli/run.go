package cli

import (
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/forPelevin/comedyclip/internal/credentials"
	"github.com/forPelevin/comedyclip/internal/logging"
	"github.com/forPelevin/comedyclip/internal/pipeline"
	"github.com/forPelevin/comedyclip/internal/session"
	"github.com/forPelevin/comedyclip/internal/usecase"
)

// app is everything a command needs once flags and env are resolved.
type app struct {
	cfg    pipeline.Config
	uc     usecase.Usecase
	sess   *session.Session
	log    logrus.FieldLogger
	closer io.Closer
}

func (a *app) Close() {
	if a.closer != nil {
		_ = a.closer.Close()
	}
}

// setup resolves config from env and flags, then wires the usecase.
// interactive keeps logs off the terminal. tweak runs before validation.
func setup(cmd *cobra.Command, interactive bool, tweak func(*pipeline.Config)) (*app, error) {
	level, _ := cmd.Flags().GetString("log-level")
	if level == "" {
		level = os.Getenv("LOG_LEVEL")
	}
	logFile, _ := cmd.Flags().GetString("log-file")

	opts := logging.Options{Level: level, File: logFile}
	if !interactive {
		opts.Console = cmd.ErrOrStderr()
	}
	base, closer, err := logging.New(opts)
	if err != nil {
		return nil, fmt.Errorf("logging: %w", err)
	}

	sess := session.New()
	log := base.WithField("session", sess.ID)

	cfg := pipeline.FromEnv(log, credentials.Lookup)
	if cmd.Flags().Lookup("out") != nil && !isLocalOut(cmd) {
		cfg.OutDir, _ = cmd.Flags().GetString("out")
	}
	if tweak != nil {
		tweak(&cfg)
	}
	if err := cfg.Validate(); err != nil {
		_ = closer.Close()
		return nil, fmt.Errorf("config: %w", err)
	}
	if missing := pipeline.MissingTools(cfg); len(missing) > 0 {
		log.WithField("tools", strings.Join(missing, ",")).Warn("required tools not found on PATH")
	}

	uc, err := pipeline.Build(cmd.Context(), cfg, log)
	if err != nil {
		_ = closer.Close()
		return nil, fmt.Errorf("setup: %w", err)
	}
	return &app{cfg: cfg, uc: uc, sess: sess, log: log, closer: closer}, nil
}

// isLocalOut reports whether the command redefines --out as a file path.
func isLocalOut(cmd *cobra.Command) bool {
	return cmd.LocalNonPersistentFlags().Lookup("out") != nil
}
