package cmd

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"strings"

	"github.com/spf13/cobra"

	"github.com/papapumpkin/pairplan/internal/dag"
	"github.com/papapumpkin/pairplan/internal/session"
	"github.com/papapumpkin/pairplan/internal/sessionfile"
	"github.com/papapumpkin/pairplan/internal/telemetry"
	"github.com/papapumpkin/pairplan/internal/watcher"
)

// errConflict makes plan exit non-zero when the answers contain a cycle.
var errConflict = errors.New("plan: answers contain a cycle")

var planCmd = &cobra.Command{
	Use:   "plan <file>",
	Short: "Schedule the items from the answers given so far",
	Long: `Builds the dependency graph from the answered questions and schedules it.
Unanswered questions add no constraint. If the answers contain a cycle, the
cycle is shown together with the questions to revisit and the command exits
non-zero.

--report renders a Markdown report instead (waves, linear, tracks, critical).
--watch recomputes the plan every time the file changes.`,
	Args: cobra.ExactArgs(1),
	RunE: runWithApp(runPlan),
}

func init() {
	planCmd.Flags().String("mode", "", "scheduler: waves or linear (default from config)")
	planCmd.Flags().Bool("json", false, "write the plan as JSON to stdout")
	planCmd.Flags().String("report", "", "write a Markdown report to stdout: "+strings.Join(reportNames(), ", "))
	planCmd.Flags().Bool("graph", false, "draw the wave plan as a diagram")
	planCmd.Flags().Bool("tracks", false, "also show independent tracks and the critical path")
	planCmd.Flags().Bool("watch", false, "replan whenever the file changes")
	rootCmd.AddCommand(planCmd)
}

func reportNames() []string {
	return []string{"waves", "linear", "tracks", "critical"}
}

type planOptions struct {
	mode   session.Mode
	json   bool
	report dag.ReportStrategy
	graph  bool
	tracks bool
}

func planOptionsFrom(a *app, cmd *cobra.Command) (planOptions, error) {
	var opts planOptions
	modeStr, _ := cmd.Flags().GetString("mode")
	if modeStr == "" {
		modeStr = a.cfg.DefaultMode
	}
	mode, err := session.ParseMode(modeStr)
	if err != nil {
		return opts, err
	}
	opts.mode = mode
	opts.json, _ = cmd.Flags().GetBool("json")
	opts.graph, _ = cmd.Flags().GetBool("graph")
	opts.tracks, _ = cmd.Flags().GetBool("tracks")

	if name, _ := cmd.Flags().GetString("report"); name != "" {
		strategy, ok := dag.Strategies[name]
		if !ok {
			return opts, fmt.Errorf("unknown report %q (want one of %s)", name, strings.Join(reportNames(), ", "))
		}
		opts.report = strategy
	}
	return opts, nil
}

func runPlan(a *app, cmd *cobra.Command, args []string) error {
	path := args[0]
	opts, err := planOptionsFrom(a, cmd)
	if err != nil {
		return err
	}
	s, err := a.load(path)
	if err != nil {
		return err
	}

	if watch, _ := cmd.Flags().GetBool("watch"); watch {
		return a.watchPlan(cmd, path, s, opts)
	}
	ok, err := a.showPlan(cmd, path, s, opts)
	if err != nil {
		return err
	}
	if !ok {
		return errConflict
	}
	return nil
}

// showPlan computes and prints one plan. ok is false on conflict.
func (a *app) showPlan(cmd *cobra.Command, path string, s session.Session, opts planOptions) (bool, error) {
	name := sessionfile.Name(path)
	if errs := s.Validate(); session.HasFatal(errs) {
		a.printer.Validation(name, s, errs)
		return false, fmt.Errorf("session %q is invalid", name)
	}

	res, err := s.Plan(opts.mode)
	if err != nil {
		return false, err
	}
	if res.OK() {
		a.emit(telemetry.Event{
			Kind:    telemetry.KindPlanComputed,
			Session: name,
			Data:    map[string]any{"mode": string(opts.mode), "items": len(res.Order())},
		})
	} else {
		a.emit(telemetry.Event{
			Kind:    telemetry.KindCycleDetected,
			Session: name,
			Data:    map[string]any{"questions": res.Conflict.Questions, "stuck": res.Conflict.Stuck},
		})
	}

	out := cmd.OutOrStdout()
	switch {
	case opts.json:
		if err := writePlanJSON(out, s, res); err != nil {
			return false, fmt.Errorf("writing plan JSON: %w", err)
		}
		return res.OK(), nil
	case opts.report != nil:
		fmt.Fprint(out, opts.report.Render(s.Graph()))
		return res.OK(), nil
	}

	a.printer.Plan(s, res)
	if !res.OK() {
		return false, nil
	}

	if opts.graph || opts.tracks {
		g := s.Graph()
		tracks, err := dag.ComputeTracks(g)
		if err != nil {
			return false, err
		}
		critical, err := dag.CriticalPath(g)
		if err != nil {
			return false, err
		}
		if opts.graph {
			waves, err := dag.ComputeWaves(g)
			if err != nil {
				return false, err
			}
			a.printer.Diagram(waves, g, critical, tracks)
		}
		if opts.tracks {
			a.printer.Tracks(s, tracks)
			a.printer.CriticalPath(s, critical)
		}
	}
	return true, nil
}

// watchPlan prints the plan, then replans on every change to the file
// until interrupted.
func (a *app) watchPlan(cmd *cobra.Command, path string, s session.Session, opts planOptions) error {
	if _, err := a.showPlan(cmd, path, s, opts); err != nil {
		a.printer.Error(err.Error())
	}

	w, err := watcher.New(path, a.cfg.WatchDebounce, a.logger)
	if err != nil {
		return err
	}
	ctx, stop := signal.NotifyContext(contextOf(cmd), os.Interrupt)
	defer stop()

	guard := session.NewGuard(s)
	a.printer.Info("watching " + path + " (ctrl-c to stop)")
	return w.Run(ctx, func(c watcher.Change) error {
		a.printer.Replanning(path, c.At)
		if c.Kind == watcher.ChangeRemoved {
			a.printer.Warn(path + " was removed; waiting for it to come back")
			return nil
		}
		next, err := sessionfile.Load(path)
		if err != nil {
			// Keep the last good session while the file is mid-edit.
			a.printer.Error(err.Error())
			return nil
		}
		guard.Replace(next)
		a.emit(telemetry.Event{Kind: telemetry.KindReplanned, Session: sessionfile.Name(path)})
		if _, err := a.showPlan(cmd, path, guard.Snapshot(), opts); err != nil {
			a.printer.Error(err.Error())
		}
		return nil
	})
}

// contextOf returns the command's context, or Background when unset.
func contextOf(cmd *cobra.Command) context.Context {
	if ctx := cmd.Context(); ctx != nil {
		return ctx
	}
	return context.Background()
}
