package main

import (
	"context"
	"fmt"
	"log"
	"os"

	"github.com/jessevdk/go-flags"
	"github.com/sqldef/migrator"
	"github.com/sqldef/migrator/database"
	"github.com/sqldef/migrator/database/sqlite3"
	"github.com/sqldef/migrator/dialects"
	"github.com/sqldef/migrator/util"
)

// version and revision are set via -ldflags
var version = "dev"
var revision = "HEAD"

// Return parsed options and database config
func parseOptions(args []string) (database.Config, *migrator.Options) {
	var opts struct {
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

	return database.Config{DbName: args[0]}, options
}

func main() {
	util.InitSlog()
	config, options := parseOptions(os.Args[1:])

	g, err := dialects.New("sqlite3", options.Config.GeneratorOptions())
	if err != nil {
		log.Fatal(err)
	}
	migrations, err := migrator.LoadMigrations(options.MigrationFile)
	if err != nil {
		log.Fatal(err)
	}

	var db database.Database
	if !options.DryRun && !options.Check {
		db, err = sqlite3.NewDatabase(config)
		if err != nil {
			log.Fatal(err)
		}
		defer db.Close()
	}

	if err := migrator.Run(context.Background(), g, db, migrations, options, database.NewStdoutLogger()); err != nil {
		log.Fatal(err)
	}
}
