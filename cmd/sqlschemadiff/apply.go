package main

import (
	"context"
	"os"

	"github.com/peopleworks/SqlSchemaDiff/internal/apperr"
	"github.com/peopleworks/SqlSchemaDiff/internal/applier"
	"github.com/peopleworks/SqlSchemaDiff/internal/catalog"
	"github.com/peopleworks/SqlSchemaDiff/internal/cliconfig"
)

type applyFlags struct {
	cliconfig.Flags
	Script         string `long:"script" required:"true"`
	DryRun         bool   `long:"dry-run"`
	TimeoutSeconds int    `long:"timeout-seconds" default:"120"`
}

func runApply(args []string) (int, error) {
	var flags applyFlags
	if _, err := cliconfig.NewParser(&flags).ParseArgs(args); err != nil {
		return 0, invocationErr(err)
	}

	script, err := os.ReadFile(flags.Script)
	if err != nil {
		return 0, apperr.IO("reading script", err)
	}

	ctx := context.Background()

	conn, err := cliconfig.Resolve(flags.Flags)
	if err != nil {
		return 0, err
	}

	db, err := catalog.Connect(ctx, conn.DSN())
	if err != nil {
		return 0, err
	}
	defer db.Close()

	if err := applier.Apply(ctx, db, string(script), applier.Options{
		DryRun:         flags.DryRun,
		TimeoutSeconds: flags.TimeoutSeconds,
	}, os.Stdout); err != nil {
		return 0, err
	}

	return 0, nil
}
