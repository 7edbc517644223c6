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
	"github.com/sqldef/migrator/database/mssql"
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
		User     string `short:"U" long:"user" description:"MSSQL user name" value-name:"user_name" default:"sa"`
		Password string `short:"P" long:"password" description:"MSSQL user password, overridden by $MSSQL_PWD" value-name:"password"`
		Host     string `short:"h" long:"host" description:"Host to connect to the MSSQL server" value-name:"host_name" default:"127.0.0.1"`
		Port     uint   `short:"p" long:"port" description:"Port used for the connection" value-name:"port_num" default:"1433"`
		Encrypt  string `long:"encrypt" description:"Connection encryption (disable, false, true, strict)" value-name:"mode"`
		Prompt   bool   `long:"password-prompt" description:"Force MSSQL user password prompt"`
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

	password, ok := os.LookupEnv("MSSQL_PWD")
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
		SslMode:  opts.Encrypt,
	}
	return config, options
}

func main() {
	util.InitSlog()
	config, options := parseOptions(os.Args[1:])

	g, err := dialects.New("mssql", options.Config.GeneratorOptions())
	if err != nil {
		log.Fatal(err)
	}
	migrations, err := migrator.LoadMigrations(options.MigrationFile)
	if err != nil {
		log.Fatal(err)
	}

	var db database.Database
	if !options.DryRun && !options.Check {
		db, err = mssql.NewDatabase(config)
		if err != nil {
			log.Fatal(err)
		}
		defer db.Close()
	}

	if err := migrator.Run(context.Background(), g, db, migrations, options, database.NewStdoutLogger()); err != nil {
		log.Fatal(err)
	}
}
