// Package cliconfig parses the connection flags shared by every
// subcommand and builds the SQL Server DSN, grounded on
// cmd/mssqldef's parseOptions and mssqlBuildDSN.
package cliconfig

import (
	"fmt"
	"net/url"
	"os"

	"github.com/jessevdk/go-flags"
	"golang.org/x/term"

	"github.com/peopleworks/SqlSchemaDiff/internal/apperr"
)

// Connection identifies one SQL Server endpoint (source or target).
type Connection struct {
	Host     string
	Port     uint
	User     string
	Password string
	DBName   string
}

// DSN builds the sqlserver:// connection string per mssqlBuildDSN.
func (c Connection) DSN() string {
	query := url.Values{}
	query.Add("database", c.DBName)

	u := &url.URL{
		Scheme:   "sqlserver",
		User:     url.UserPassword(c.User, c.Password),
		Host:     fmt.Sprintf("%s:%d", c.Host, c.Port),
		RawQuery: query.Encode(),
	}
	return u.String()
}

// Flags is the go-flags group embedded by every subcommand that needs
// a single connection (extract, apply). Commands naming a source and/or
// a target (diff, drift, sync, deploy, check-conn) use the command
// package's sideFlags under "source" and "target" namespaces instead.
type Flags struct {
	Host     string `short:"h" long:"host" description:"Host to connect to the SQL Server instance" value-name:"host_name" default:"127.0.0.1"`
	Port     uint   `short:"p" long:"port" description:"Port used for the connection" value-name:"port_num" default:"1433"`
	User     string `short:"U" long:"user" description:"SQL Server login name" value-name:"user_name" default:"sa"`
	Password string `short:"P" long:"password" description:"SQL Server login password, overridden by $SQLSCHEMADIFF_PWD" value-name:"password"`
	Prompt   bool   `long:"password-prompt" description:"Force a password prompt"`
	DBName   string `long:"db" description:"Database name" value-name:"db_name" required:"true"`
}

// Resolve turns parsed Flags into a Connection, applying the
// environment override and password prompt per §4.7.
func Resolve(f Flags) (Connection, error) {
	password := f.Password
	if env, ok := os.LookupEnv("SQLSCHEMADIFF_PWD"); ok {
		password = env
	}

	if f.Prompt {
		fmt.Fprint(os.Stderr, "Enter Password: ")
		pass, err := term.ReadPassword(int(os.Stdin.Fd()))
		fmt.Fprintln(os.Stderr)
		if err != nil {
			return Connection{}, apperr.IO("reading password prompt", err)
		}
		password = string(pass)
	}

	return Connection{
		Host:     f.Host,
		Port:     f.Port,
		User:     f.User,
		Password: password,
		DBName:   f.DBName,
	}, nil
}

// NewParser returns a go-flags parser over data, matching the
// teacher's flags.NewParser(&opts, flags.None) construction. Namespaced
// groups are joined with "-", so the source group's --db is --source-db.
func NewParser(data any) *flags.Parser {
	p := flags.NewParser(data, flags.None)
	p.NamespaceDelimiter = "-"
	return p
}
