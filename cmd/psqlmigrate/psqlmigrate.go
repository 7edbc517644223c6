package main

import (
	"context"
	"fmt"
	"log"
	"os"
	"syscall"

	"github.com/jessevdk/go-flags"
	"github.com/sqldef/migrator"
	"github.com/sqldef/migrator/database"
	"github.com/sqldef/migrator/database/postgres"
	"github.com/sqldef/migrator/dialects"
	"github.com/sqldef/migrator/util"
	"golang.org/x/term"
)

// version and revision are set via -ldflags
var version = "dev"
var revision = "HEAD"

// Return parsed options and database config
func parseOptions(args []string) (database.Config, *migrator.Options) {
	var opts struct {
		User     string `short:"U" long:"user" description:"PostgreSQL user name" value-name:"username" default:"postgres"`
		Password string `short:"W" long:"password" description:"PostgreSQL user password, overridden by $PGPASSWORD" value-name:"password"`
		Host     string `short:"h" long:"host" description:"Host or socket directory to connect to the PostgreSQL server" value-name:"hostname" default:"127.0.0.1"`
		Port     uint   `short:"p" long:"port" description:"Port used for the connection" value-name:"port" default:"5432"`
		SslMode  string `long:"sslmode" description:"The connection's sslmode, overridden by $PGSSLMODE when unset" value-name:"sslmode"`
		SslCa    string `long:"sslrootcert" description:"Root certificate used to verify the server, overridden by $PGSSLROOTCERT when unset" value-name:"sslrootcert"`
		Prompt   bool   `long:"password-prompt" description:"Force PostgreSQL user password prompt"`
		migrator.MigrationFlags
	}
	opts.Init()

	parser := flags.NewParser(&opts, flags.None)
	parser.Usage = "[OPTIONS] db_name < migrations.yml"
	args, err := parser.ParseArgs(args)
	if err != nil {
		log.Fatal(err)
	}

	if opts.Help {
		parser.WriteHelp(os.Stdout)
		os.Exit(0)
	}

	if opts.Version {
		fmt.Printf("%s (%s)\n", version, revision)
		os.Exit(0)
	}

	options, err := opts.Options()
	if err != nil {
		log.Fatal(err)
	}

	if len(args) == 0 {
		fmt.Print("No database is specified!\n\n")
		parser.WriteHelp(os.Stdout)
		os.Exit(1)
	} else if len(args) > 1 {
		fmt.Printf("Multiple databases are given: %v\n\n", args)
		parser.WriteHelp(os.Stdout)
		os.Exit(1)
	}

	password, ok := os.LookupEnv("PGPASSWORD")
	if !ok {
		password = opts.Password
	}

	if opts.Prompt {
		fmt.Printf("Enter Password: ")
		pass, err := term.ReadPassword(int(syscall.Stdin))
		if err != nil {
			log.Fatal(err)
		}
		password = string(pass)
	}

	config := database.Config{
		DbName:   args[0],
		User:     opts.User,
		Password: password,
		Host:     opts.Host,
		Port:     int(opts.Port),
		SslMode:  opts.SslMode,
		SslCa:    opts.SslCa,
	}
	// a directory given as host is a unix socket directory
	if stat, err := os.Stat(opts.Host); err == nil && stat.IsDir() {
		config.Socket = opts.Host
	}
	return config, options
}

func main() {
	util.InitSlog()
	config, options := parseOptions(os.Args[1:])

	g, err := dialects.New("postgres", options.Config.GeneratorOptions())
	if err != nil {
		log.Fatal(err)
	}
	migrations, err := migrator.LoadMigrations(options.MigrationFile)
	if err != nil {
		log.Fatal(err)
	}

	var db database.Database
	if !options.DryRun && !options.Check {
		db, err = postgres.NewDatabase(config)
		if err != nil {
			log.Fatal(err)
		}
		defer db.Close()
	}

	if err := migrator.Run(context.Background(), g, db, migrations, options, database.NewStdoutLogger()); err != nil {
		log.Fatal(err)
	}
}
