package main

import (
	"context"
	"fmt"
	"os"
	"time"

	"github.com/peopleworks/SqlSchemaDiff/internal/apperr"
	"github.com/peopleworks/SqlSchemaDiff/internal/catalog"
	"github.com/peopleworks/SqlSchemaDiff/internal/cliconfig"
	"github.com/peopleworks/SqlSchemaDiff/internal/extract"
	"github.com/peopleworks/SqlSchemaDiff/internal/snapshot"
)

// sideFlags names one end (source or target) of a two-database
// command: either a live connection or a pre-extracted snapshot
// document, per §6's "source + target (conn or snapshot)" columns.
type sideFlags struct {
	Host     string `long:"host" value-name:"host_name" default:"127.0.0.1"`
	Port     uint   `long:"port" value-name:"port_num" default:"1433"`
	User     string `long:"user" value-name:"user_name" default:"sa"`
	Password string `long:"password" value-name:"password"`
	Prompt   bool   `long:"password-prompt"`
	DBName   string `long:"db" value-name:"db_name"`
	Snapshot string `long:"snapshot" value-name:"path" description:"read this side from a snapshot document instead of connecting"`
}

// resolveSide loads a snapshot either from a snapshot document on disk
// or by connecting live and running a full extraction.
func resolveSide(ctx context.Context, f sideFlags) (snapshot.Snapshot, error) {
	if f.Snapshot != "" {
		data, err := os.ReadFile(f.Snapshot)
		if err != nil {
			return snapshot.Snapshot{}, apperr.IO(fmt.Sprintf("reading snapshot %s", f.Snapshot), err)
		}
		return snapshot.Decode(data)
	}

	if f.DBName == "" {
		return snapshot.Snapshot{}, apperr.Invocation("either --db or --snapshot is required")
	}

	conn, err := cliconfig.Resolve(cliconfig.Flags{
		Host: f.Host, Port: f.Port, User: f.User, Password: f.Password, Prompt: f.Prompt, DBName: f.DBName,
	})
	if err != nil {
		return snapshot.Snapshot{}, err
	}

	db, err := catalog.Connect(ctx, conn.DSN())
	if err != nil {
		return snapshot.Snapshot{}, apperr.IO(fmt.Sprintf("connecting to %s", f.DBName), err)
	}
	defer db.Close()

	reader := catalog.NewReader(db)
	defer reader.Close()

	return extract.Snapshot(ctx, reader, f.DBName, time.Now())
}

func writeOutput(path, content string) error {
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		return apperr.IO(fmt.Sprintf("writing %s", path), err)
	}
	return nil
}

// invocationErr wraps a go-flags parse failure as an apperr.Error so
// main's exit handling treats it uniformly with every other error
// kind.
func invocationErr(err error) error {
	return apperr.Wrap(apperr.KindInvocation, "parsing flags", err)
}

func secondsOrZero(seconds int) time.Duration {
	if seconds <= 0 {
		return 0
	}
	return time.Duration(seconds) * time.Second
}
