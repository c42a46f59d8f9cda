package main

import (
	"bufio"
	"context"
	"encoding/json"
	"errors"
	"flag"
	"fmt"
	"io"
	"log/slog"
	"os"
	"strings"
	"time"

	"github.com/chainbridge-occ/kernel/pkg/artifact"
	"github.com/chainbridge-occ/kernel/pkg/config"
	"github.com/chainbridge-occ/kernel/pkg/decision"
	"github.com/chainbridge-occ/kernel/pkg/friction"
	"github.com/chainbridge-occ/kernel/pkg/kernel"
	"github.com/chainbridge-occ/kernel/pkg/store/ledger"
)

// stdin is swapped out in tests.
var stdin io.Reader = os.Stdin

// Dispatcher
func main() {
	os.Exit(Run(os.Args, os.Stdout, os.Stderr))
}

// Run is the entrypoint for testing.
func Run(args []string, stdout, stderr io.Writer) int {
	if len(args) < 2 {
		printUsage(stderr)
		return 2
	}

	switch args[1] {
	case "validate":
		return runValidate(args[2:], stdout, stderr)
	case "review":
		return runReview(args[2:], stdout, stderr)
	case "ledger":
		return runLedger(args[2:], stdout, stderr)
	case "help", "-h", "--help":
		printUsage(stdout)
		return 0
	default:
		fmt.Fprintf(stderr, "unknown command %q\n", args[1])
		printUsage(stderr)
		return 2
	}
}

func printUsage(w io.Writer) {
	fmt.Fprintln(w, "Usage: kernelctl <command> [flags]")
	fmt.Fprintln(w, "")
	fmt.Fprintln(w, "Commands:")
	fmt.Fprintln(w, "  validate   evaluate a PAC document against the admission gates")
	fmt.Fprintln(w, "  review     run an operator review with friction and record the verdict")
	fmt.Fprintln(w, "  ledger     list recorded decisions")
}

func setupLogging(level string) {
	var lvl slog.Level
	if err := lvl.UnmarshalText([]byte(level)); err != nil {
		lvl = slog.LevelInfo
	}
	slog.SetDefault(slog.New(slog.NewJSONHandler(os.Stderr, &slog.HandlerOptions{Level: lvl})))
}

func runValidate(args []string, stdout, stderr io.Writer) int {
	fs := flag.NewFlagSet("validate", flag.ContinueOnError)
	fs.SetOutput(stderr)
	var (
		artifactPath = fs.String("artifact", "", "path to the PAC document (JSON or YAML)")
		executor     = fs.String("executor", "", "executor GID (defaults to KERNEL_EXECUTOR_GID)")
		admittedSecs = fs.Int64("admitted-secs", 0, "admission time as Unix seconds; enables the dwell check")
		noLedger     = fs.Bool("no-ledger", false, "skip recording the decision")
	)
	if err := fs.Parse(args); err != nil {
		return 2
	}
	if *artifactPath == "" {
		fmt.Fprintln(stderr, "validate: -artifact is required")
		return 2
	}

	cfg := config.Load()
	setupLogging(cfg.LogLevel)
	if *executor == "" {
		*executor = cfg.ExecutorGID
	}

	a, err := loadArtifact(*artifactPath)
	if err != nil {
		fmt.Fprintf(stderr, "validate: %v\n", err)
		return 1
	}

	reqs, err := config.LoadFrictionRequirements(cfg.FrictionPolicy)
	if err != nil {
		fmt.Fprintf(stderr, "validate: %v\n", err)
		return 1
	}

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	opts := []kernel.ValidatorOption{kernel.WithRequirements(reqs)}
	if !*noLedger {
		store, err := ledger.OpenSQLite(ctx, cfg.LedgerPath)
		if err != nil {
			fmt.Fprintf(stderr, "validate: open ledger: %v\n", err)
			return 1
		}
		defer func() { _ = store.Close() }()
		opts = append(opts, kernel.WithLedger(store))
	}

	v, err := kernel.NewValidator(*executor, opts...)
	if err != nil {
		fmt.Fprintf(stderr, "validate: %v\n", err)
		return 1
	}

	var obj *decision.Object
	var verr error
	if *admittedSecs > 0 {
		admitted := friction.AdmissionFromUnix(*admittedSecs)
		obj, verr = v.ValidatePreflightWithFriction(ctx, a, admitted)
	} else {
		obj, verr = v.ValidatePreflight(ctx, a)
	}
	if obj == nil {
		fmt.Fprintf(stderr, "validate: %v\n", verr)
		return 1
	}

	enc := json.NewEncoder(stdout)
	enc.SetIndent("", "  ")
	if err := enc.Encode(obj); err != nil {
		fmt.Fprintf(stderr, "validate: %v\n", err)
		return 1
	}
	if verr != nil {
		fmt.Fprintf(stderr, "validate: %v\n", verr)
		return 1
	}
	return 0
}

func loadArtifact(path string) (*artifact.Artifact, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	var a *artifact.Artifact
	if strings.HasSuffix(path, ".yaml") || strings.HasSuffix(path, ".yml") {
		a, err = artifact.ParseYAMLDocument(raw)
	} else {
		a, err = artifact.ParseDocument(raw)
	}
	if err != nil {
		return nil, fmt.Errorf("parse artifact: %w", err)
	}
	return a, nil
}

// runReview walks an operator through the friction sequence for one
// artifact and commits the verdict, friction report included, to the
// ledger.
func runReview(args []string, stdout, stderr io.Writer) int {
	fs := flag.NewFlagSet("review", flag.ContinueOnError)
	fs.SetOutput(stderr)
	var (
		artifactPath = fs.String("artifact", "", "path to the PAC document (JSON or YAML)")
		executor     = fs.String("executor", "", "executor GID (defaults to KERNEL_EXECUTOR_GID)")
		remember     = fs.Bool("remember", false, "remember this decision where the tier allows it")
		noLedger     = fs.Bool("no-ledger", false, "skip recording the decision")
	)
	if err := fs.Parse(args); err != nil {
		return 2
	}
	if *artifactPath == "" {
		fmt.Fprintln(stderr, "review: -artifact is required")
		return 2
	}

	cfg := config.Load()
	setupLogging(cfg.LogLevel)
	if *executor == "" {
		*executor = cfg.ExecutorGID
	}

	a, err := loadArtifact(*artifactPath)
	if err != nil {
		fmt.Fprintf(stderr, "review: %v\n", err)
		return 1
	}

	reqs, err := config.LoadFrictionRequirements(cfg.FrictionPolicy)
	if err != nil {
		fmt.Fprintf(stderr, "review: %v\n", err)
		return 1
	}

	o := friction.NewOrchestrator(
		friction.WithRequirements(reqs),
		friction.WithVelocityEnforcement(cfg.VelocityEnforce),
	)

	pacID := a.Metadata.PACID
	tier := a.Metadata.GovernanceTier
	summary := a.Metadata.Scope
	if summary == "" {
		summary = pacID
	}

	o.StartReview(pacID, tier)
	started := time.Now()

	req := friction.DecisionRequest{
		DecisionID:  pacID,
		Tier:        tier,
		ArtifactRef: *artifactPath,
		Summary:     summary,
		Remember:    *remember,
	}

	reader := bufio.NewReader(stdin)
	if reqs.For(tier).ChallengeRequired {
		c := o.IssueChallenge(tier, summary)
		fmt.Fprintln(stdout, c.Prompt)
		answer, rerr := reader.ReadString('\n')
		if rerr != nil && answer == "" {
			fmt.Fprintf(stderr, "review: read answer: %v\n", rerr)
			return 1
		}
		req.ChallengeResponse = &friction.ChallengeResponse{
			ChallengeID:      c.ID,
			Answer:           strings.TrimSpace(answer),
			Attempt:          1,
			ResponseDuration: time.Since(started),
		}
	} else {
		fmt.Fprintf(stdout, "Approving %s (tier %s). Press Enter to confirm.\n", pacID, tier)
		_, _ = reader.ReadString('\n')
	}

	outcome, err := submitWaitingOutDwell(o, req)
	if err != nil {
		fmt.Fprintf(stderr, "review: %v\n", err)
		return 1
	}

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	opts := []kernel.ValidatorOption{kernel.WithRequirements(reqs)}
	if !*noLedger {
		store, err := ledger.OpenSQLite(ctx, cfg.LedgerPath)
		if err != nil {
			fmt.Fprintf(stderr, "review: open ledger: %v\n", err)
			return 1
		}
		defer func() { _ = store.Close() }()
		opts = append(opts, kernel.WithLedger(store))
	}

	v, err := kernel.NewValidator(*executor, opts...)
	if err != nil {
		fmt.Fprintf(stderr, "review: %v\n", err)
		return 1
	}

	obj, err := v.CommitDecision(ctx, a, outcome)
	if err != nil {
		fmt.Fprintf(stderr, "review: %v\n", err)
		return 1
	}

	enc := json.NewEncoder(stdout)
	enc.SetIndent("", "  ")
	if err := enc.Encode(obj); err != nil {
		fmt.Fprintf(stderr, "review: %v\n", err)
		return 1
	}
	return 0
}

// submitWaitingOutDwell retries a submission that lands before the tier
// minimum, sleeping out the remaining dwell. Every other failure is
// terminal.
func submitWaitingOutDwell(o *friction.Orchestrator, req friction.DecisionRequest) (*friction.DecisionOutcome, error) {
	for {
		outcome, err := o.SubmitDecision(req)
		if err == nil {
			return outcome, nil
		}
		var dwell *friction.DwellTimeViolationError
		if !errors.As(err, &dwell) {
			return nil, err
		}
		time.Sleep(dwell.Required - dwell.Elapsed)
	}
}

func runLedger(args []string, stdout, stderr io.Writer) int {
	fs := flag.NewFlagSet("ledger", flag.ContinueOnError)
	fs.SetOutput(stderr)
	var (
		limit = fs.Int("limit", 20, "maximum decisions to list")
		pacID = fs.String("pac", "", "list decisions for one PAC only")
	)
	if err := fs.Parse(args); err != nil {
		return 2
	}

	cfg := config.Load()
	setupLogging(cfg.LogLevel)

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	store, err := ledger.OpenSQLite(ctx, cfg.LedgerPath)
	if err != nil {
		fmt.Fprintf(stderr, "ledger: %v\n", err)
		return 1
	}
	defer func() { _ = store.Close() }()

	var rows any
	if *pacID != "" {
		rows, err = store.ListByPAC(ctx, *pacID)
	} else {
		rows, err = store.List(ctx, *limit)
	}
	if err != nil {
		fmt.Fprintf(stderr, "ledger: %v\n", err)
		return 1
	}

	enc := json.NewEncoder(stdout)
	enc.SetIndent("", "  ")
	if err := enc.Encode(rows); err != nil {
		fmt.Fprintf(stderr, "ledger: %v\n", err)
		return 1
	}
	return 0
}
