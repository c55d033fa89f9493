// Command sqlschemadiff compares the schema of two SQL-Server-family
// databases and emits a deployable migration script. The subcommand
// dispatch table is below in main().
package main

import (
	"fmt"
	"os"

	"github.com/peopleworks/SqlSchemaDiff/internal/obslog"
)

func main() {
	obslog.Init()

	if len(os.Args) < 2 {
		fmt.Fprintln(os.Stderr, "usage: sqlschemadiff <extract|diff|drift|sync|deploy|delta-apply|apply|check-conn> [options]")
		os.Exit(1)
	}

	cmd, args := os.Args[1], os.Args[2:]

	var run func([]string) (int, error)
	switch cmd {
	case "extract":
		run = runExtract
	case "diff":
		run = runDiff
	case "drift":
		run = runDrift
	case "sync":
		run = runSync
	case "deploy", "delta-apply":
		run = runDeploy
	case "apply":
		run = runApply
	case "check-conn":
		run = runCheckConn
	default:
		fmt.Fprintf(os.Stderr, "unknown command %q\n", cmd)
		os.Exit(1)
	}

	code, err := run(args)
	if err != nil {
		fmt.Fprintf(os.Stderr, "sqlschemadiff: %s\n", err)
		os.Exit(1)
	}
	os.Exit(code)
}
