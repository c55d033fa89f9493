package main

import (
	"context"
	"fmt"
	"os"

	"github.com/peopleworks/SqlSchemaDiff/internal/apperr"
	"github.com/peopleworks/SqlSchemaDiff/internal/catalog"
	"github.com/peopleworks/SqlSchemaDiff/internal/cliconfig"
	"github.com/peopleworks/SqlSchemaDiff/internal/probe"
)

type checkConnFlags struct {
	Source         sideFlags `group:"Source" namespace:"source"`
	Target         sideFlags `group:"Target" namespace:"target"`
	TimeoutSeconds int       `long:"timeout-seconds" default:"15"`
}

func runCheckConn(args []string) (int, error) {
	var flags checkConnFlags
	if _, err := cliconfig.NewParser(&flags).ParseArgs(args); err != nil {
		return 0, invocationErr(err)
	}

	if flags.Source.DBName == "" && flags.Target.DBName == "" {
		return 0, apperr.Invocation("check-conn requires at least one of --source-db or --target-db")
	}

	ctx := context.Background()
	if flags.TimeoutSeconds > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, secondsOrZero(flags.TimeoutSeconds))
		defer cancel()
	}

	if flags.Source.DBName != "" {
		if err := checkOne(ctx, "source", flags.Source); err != nil {
			return 0, err
		}
	}
	if flags.Target.DBName != "" {
		if err := checkOne(ctx, "target", flags.Target); err != nil {
			return 0, err
		}
	}

	return 0, nil
}

func checkOne(ctx context.Context, label string, f sideFlags) error {
	conn, err := cliconfig.Resolve(cliconfig.Flags{
		Host: f.Host, Port: f.Port, User: f.User, Password: f.Password, Prompt: f.Prompt, DBName: f.DBName,
	})
	if err != nil {
		return err
	}

	db, err := catalog.Connect(ctx, conn.DSN())
	if err != nil {
		return err
	}
	defer db.Close()

	info, err := probe.Check(ctx, db)
	if err != nil {
		return err
	}

	fmt.Fprintf(os.Stdout, "[%s]\n%s\n", label, info)
	return nil
}
