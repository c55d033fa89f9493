package main

import (
	"context"
	"fmt"
	"os"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/peopleworks/SqlSchemaDiff/internal/cliconfig"
	"github.com/peopleworks/SqlSchemaDiff/internal/composer"
	"github.com/peopleworks/SqlSchemaDiff/internal/differ"
	"github.com/peopleworks/SqlSchemaDiff/internal/snapshot"
)

// diffFlags is shared by diff, drift, sync and deploy/delta-apply —
// all four accept the same source/target-or-snapshot pair plus the
// differ's shaping flags from §4.4.
type diffFlags struct {
	Source sideFlags `group:"Source" namespace:"source"`
	Target sideFlags `group:"Target" namespace:"target"`

	Out               string `long:"out"`
	IncludeDrops      bool   `long:"include-drops"`
	IncludeTableDrops bool   `long:"include-table-drops"`
	AllowTableRebuild bool   `long:"allow-table-rebuild"`
	AddOnly           bool   `long:"add-only"`
}

// resolvePair extracts or loads both sides, running live extractions
// concurrently on distinct connections per §4.11.
func resolvePair(ctx context.Context, source, target sideFlags) (snapshot.Snapshot, snapshot.Snapshot, error) {
	var src, tgt snapshot.Snapshot

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		src, err = resolveSide(gctx, source)
		return err
	})
	g.Go(func() error {
		var err error
		tgt, err = resolveSide(gctx, target)
		return err
	})

	if err := g.Wait(); err != nil {
		return snapshot.Snapshot{}, snapshot.Snapshot{}, err
	}
	return src, tgt, nil
}

func runDiff(args []string) (int, error) {
	var flags diffFlags
	if _, err := cliconfig.NewParser(&flags).ParseArgs(args); err != nil {
		return 0, invocationErr(err)
	}
	if flags.Out == "" {
		flags.Out = "diff.sql"
	}

	return diffCommand(flags, false)
}

func runDrift(args []string) (int, error) {
	var flags diffFlags
	if _, err := cliconfig.NewParser(&flags).ParseArgs(args); err != nil {
		return 0, invocationErr(err)
	}
	flags.IncludeDrops = true
	flags.IncludeTableDrops = true
	if flags.Out == "" {
		flags.Out = "diff.sql"
	}

	return diffCommand(flags, true)
}

// diffCommand runs the diff pipeline and writes the script. When
// exitOnDrift is set (the drift command), it returns exit code 2 if
// any object was added, changed, or removed.
func diffCommand(flags diffFlags, exitOnDrift bool) (int, error) {
	ctx := context.Background()

	source, target, err := resolvePair(ctx, flags.Source, flags.Target)
	if err != nil {
		return 0, err
	}

	result, err := differ.Diff(source, target, differ.Options{
		IncludeDrops:      flags.IncludeDrops,
		IncludeTableDrops: flags.IncludeTableDrops,
		AllowTableRebuild: flags.AllowTableRebuild,
		AddOnly:           flags.AddOnly,
	})
	if err != nil {
		return 0, err
	}

	script := composer.Compose(source.DatabaseName, target.DatabaseName, time.Now(), result)
	if err := writeOutput(flags.Out, script); err != nil {
		return 0, err
	}

	fmt.Fprintf(os.Stderr, "added=%d changed=%d removed=%d skipped=%d\n", result.Added, result.Changed, result.Removed, result.Skipped)

	if exitOnDrift && (result.Added > 0 || result.Changed > 0 || result.Removed > 0) {
		return 2, nil
	}
	return 0, nil
}
