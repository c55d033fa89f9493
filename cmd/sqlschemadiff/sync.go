package main

import (
	"context"
	"fmt"
	"os"
	"time"

	"github.com/peopleworks/SqlSchemaDiff/internal/applier"
	"github.com/peopleworks/SqlSchemaDiff/internal/apperr"
	"github.com/peopleworks/SqlSchemaDiff/internal/catalog"
	"github.com/peopleworks/SqlSchemaDiff/internal/cliconfig"
	"github.com/peopleworks/SqlSchemaDiff/internal/composer"
	"github.com/peopleworks/SqlSchemaDiff/internal/differ"
)

type syncFlags struct {
	diffFlags
	Apply          bool `long:"apply"`
	DryRun         bool `long:"dry-run"`
	TimeoutSeconds int  `long:"timeout-seconds" default:"120"`
}

func runSync(args []string) (int, error) {
	var flags syncFlags
	if _, err := cliconfig.NewParser(&flags).ParseArgs(args); err != nil {
		return 0, invocationErr(err)
	}
	if flags.Out == "" {
		flags.Out = "sync.diff.sql"
	}
	return syncCommand(flags, flags.Apply)
}

// runDeploy implements both the `deploy` and `delta-apply` command
// names, which always apply regardless of --apply.
func runDeploy(args []string) (int, error) {
	var flags syncFlags
	if _, err := cliconfig.NewParser(&flags).ParseArgs(args); err != nil {
		return 0, invocationErr(err)
	}
	if flags.Out == "" {
		flags.Out = "sync.diff.sql"
	}
	return syncCommand(flags, true)
}

func syncCommand(flags syncFlags, apply bool) (int, error) {
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

	if !apply {
		return 0, nil
	}

	if flags.Target.DBName == "" {
		return 0, apperr.Invocation("applying requires a live --target-db connection, not a snapshot")
	}

	conn, err := cliconfig.Resolve(cliconfig.Flags{
		Host: flags.Target.Host, Port: flags.Target.Port, User: flags.Target.User,
		Password: flags.Target.Password, Prompt: flags.Target.Prompt, DBName: flags.Target.DBName,
	})
	if err != nil {
		return 0, err
	}

	db, err := catalog.Connect(ctx, conn.DSN())
	if err != nil {
		return 0, err
	}
	defer db.Close()

	if err := applier.Apply(ctx, db, script, applier.Options{
		DryRun:         flags.DryRun,
		TimeoutSeconds: flags.TimeoutSeconds,
	}, os.Stdout); err != nil {
		return 0, err
	}

	return 0, nil
}
