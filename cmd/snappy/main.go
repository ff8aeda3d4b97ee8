/*
 * Copyright (c) 2025 by Alexander Drost, Oldenburg, Germany.
 * This file is licensed to you under the Apache License, Version 2.0 (the "License"); you may not use this file except in compliance with the License.  You may obtain a copy of the License at
 *   http://www.apache.org/licenses/LICENSE-2.0
 * Unless required by applicable law or agreed to in writing, software distributed under the License is distributed on an
 * "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.  See the License for the specific language governing permissions and limitations under the License.
 */

package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"time"

	"github.com/spf13/cobra"

	"snappy/internal/config"
	"snappy/internal/crash"
	applog "snappy/internal/log"
	"snappy/internal/telemetry"
	"snappy/internal/tui"
	"snappy/internal/ui"
	"snappy/internal/version"
)

// usageError marks errors that should exit with code 2.
type usageError struct{ error }

func (e usageError) Unwrap() error { return e.error }

// usageArgs marks argument validation failures as usage errors.
func usageArgs(check cobra.PositionalArgs) cobra.PositionalArgs {
	return func(cmd *cobra.Command, args []string) error {
		if err := check(cmd, args); err != nil {
			return usageError{err}
		}
		return nil
	}
}

// app carries what every subcommand needs after startup.
type app struct {
	cfg config.AppConfig
	tel *telemetry.Client
	log *slog.Logger
	// state feeds crash reports with the engine state of the running command.
	state func() string
}

func (a *app) crashState() string {
	if a.state == nil {
		return ""
	}
	return a.state()
}

func newRootCmd(a *app) *cobra.Command {
	var journalPath string
	var writeConfig bool

	root := &cobra.Command{
		Use:           "snappy",
		Short:         "Snappy - drag content and snap it to anchor points",
		SilenceUsage:  true,
		SilenceErrors: true,
		Args:          cobra.ArbitraryArgs,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return a.setup()
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			if len(args) > 0 {
				return usageError{fmt.Errorf("unknown command %q for %q", args[0], cmd.CommandPath())}
			}
			return cmd.Help()
		},
	}

	versionCmd := &cobra.Command{
		Use:   "version",
		Short: "Print the version",
		Args:  usageArgs(cobra.NoArgs),
		Run: func(cmd *cobra.Command, args []string) {
			fmt.Fprintf(cmd.OutOrStdout(), "snappy %s\n", version.String())
		},
	}

	anchorsCmd := &cobra.Command{
		Use:   "anchors <expr>",
		Short: "Resolve an anchor expression such as \"all - top - bottomLeading\"",
		Args:  usageArgs(cobra.ExactArgs(1)),
		RunE: func(cmd *cobra.Command, args []string) error {
			return a.anchors(cmd.OutOrStdout(), args[0])
		},
	}

	replayCmd := &cobra.Command{
		Use:   "replay <trace.json>",
		Short: "Validate a gesture trace and replay it through the drag engine",
		Args:  usageArgs(cobra.ExactArgs(1)),
		RunE: func(cmd *cobra.Command, args []string) error {
			return a.replay(cmd.Context(), cmd.OutOrStdout(), args[0], journalPath)
		},
	}
	replayCmd.Flags().StringVar(&journalPath, "journal", "", "record each release to this SQLite journal")

	renderCmd := &cobra.Command{
		Use:   "render <trace.json> <out.png|out.svg|out.pdf>",
		Short: "Replay a trace and write a snapshot of the final layout",
		Args:  usageArgs(cobra.ExactArgs(2)),
		RunE: func(cmd *cobra.Command, args []string) error {
			return a.render(cmd.Context(), cmd.OutOrStdout(), args[0], args[1])
		},
	}

	journalCmd := &cobra.Command{
		Use:   "journal <db>",
		Short: "Summarize a release journal",
		Args:  usageArgs(cobra.ExactArgs(1)),
		RunE: func(cmd *cobra.Command, args []string) error {
			return a.journal(cmd.Context(), cmd.OutOrStdout(), args[0])
		},
	}

	configCmd := &cobra.Command{
		Use:   "config",
		Short: "Print the effective configuration",
		Args:  usageArgs(cobra.NoArgs),
		RunE: func(cmd *cobra.Command, args []string) error {
			return a.showConfig(cmd.OutOrStdout(), writeConfig)
		},
	}
	configCmd.Flags().BoolVar(&writeConfig, "write", false, "write the effective configuration to the config file")

	tuiCmd := &cobra.Command{
		Use:   "tui",
		Short: "Run the terminal demo",
		Args:  usageArgs(cobra.NoArgs),
		RunE: func(cmd *cobra.Command, args []string) error {
			opts, err := a.dragOptions()
			if err != nil {
				return err
			}
			return tui.Run(cmd.Context(), tui.Options{
				Drag:        opts,
				Gesture:     a.cfg.Gesture.Tracker(),
				History:     a.cfg.History.Manager(),
				ShowMarkers: a.cfg.Engine.ShowMarkers,
			})
		},
	}

	uiCmd := &cobra.Command{
		Use:   "ui",
		Short: "Run the desktop demo (build with -tags fyne)",
		Args:  usageArgs(cobra.NoArgs),
		RunE: func(cmd *cobra.Command, args []string) error {
			opts, err := a.dragOptions()
			if err != nil {
				return err
			}
			return ui.Run(cmd.Context(), ui.Options{
				Drag:        opts,
				Gesture:     a.cfg.Gesture.Tracker(),
				History:     a.cfg.History.Manager(),
				Spring:      ui.Spring{Stiffness: a.cfg.Render.SpringStiffness, Damping: a.cfg.Render.SpringDamping},
				ShowMarkers: a.cfg.Engine.ShowMarkers,
			})
		},
	}

	root.AddCommand(versionCmd, anchorsCmd, replayCmd, renderCmd, journalCmd, configCmd, tuiCmd, uiCmd)
	root.SetFlagErrorFunc(func(cmd *cobra.Command, err error) error { return usageError{err} })
	return root
}

// setup loads configuration, then initializes logging and telemetry from it.
func (a *app) setup() error {
	cfg, err := config.Load()
	if err != nil {
		return err
	}
	if err := cfg.Validate(); err != nil {
		return fmt.Errorf("invalid configuration: %w", err)
	}
	a.cfg = cfg
	applog.Init(cfg.Logging.Options())
	a.log = applog.WithComponent("cli")

	tcfg := telemetry.FromEnv()
	tcfg.OptIn = tcfg.OptIn || cfg.General.TelemetryOptIn
	a.tel = telemetry.New(tcfg)
	telemetry.SetDefault(a.tel)
	return nil
}

func (a *app) shutdown() {
	if a.tel == nil {
		return
	}
	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()
	a.tel.Flush(ctx)
	a.tel.Close()
}

func main() {
	a := &app{}
	defer crash.Recover(crash.Options{Command: commandName(os.Args), State: a.crashState})

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	root := newRootCmd(a)
	err := root.ExecuteContext(ctx)
	stop()
	a.shutdown()
	if err == nil {
		return
	}
	fmt.Fprintln(os.Stderr, "Error:", err)
	var ue usageError
	if errors.As(err, &ue) {
		os.Exit(2)
	}
	os.Exit(1)
}

func commandName(args []string) string {
	if len(args) > 1 {
		return args[1]
	}
	return ""
}
