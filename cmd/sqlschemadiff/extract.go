package main

import (
	"context"
	"time"

	"github.com/peopleworks/SqlSchemaDiff/internal/catalog"
	"github.com/peopleworks/SqlSchemaDiff/internal/cliconfig"
	"github.com/peopleworks/SqlSchemaDiff/internal/composer"
	"github.com/peopleworks/SqlSchemaDiff/internal/differ"
	"github.com/peopleworks/SqlSchemaDiff/internal/extract"
	"github.com/peopleworks/SqlSchemaDiff/internal/snapshot"
)

type extractFlags struct {
	cliconfig.Flags
	Out  string `long:"out" default:"schema.sql"`
	JSON string `long:"json" description:"also write a snapshot document to this path"`
}

func runExtract(args []string) (int, error) {
	var flags extractFlags
	if _, err := cliconfig.NewParser(&flags).ParseArgs(args); err != nil {
		return 0, invocationErr(err)
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

	reader := catalog.NewReader(db)
	defer reader.Close()

	snap, err := extract.Snapshot(ctx, reader, flags.DBName, time.Now())
	if err != nil {
		return 0, err
	}

	full, err := differ.Diff(snap, snapshot.Snapshot{}, differ.Options{})
	if err != nil {
		return 0, err
	}

	script := composer.Compose(snap.DatabaseName, snap.DatabaseName, snap.GeneratedAtUTC, full)
	if err := writeOutput(flags.Out, script); err != nil {
		return 0, err
	}

	if flags.JSON != "" {
		data, err := snapshot.Encode(snap)
		if err != nil {
			return 0, err
		}
		if err := writeOutput(flags.JSON, string(data)); err != nil {
			return 0, err
		}
	}

	return 0, nil
}
