package main

import (
	"context"
	"fmt"
	"log"
	"os"
	"strings"
	"syscall"

	"github.com/jessevdk/go-flags"
	"github.com/sqldef/migrator"
	"github.com/sqldef/migrator/database"
	"github.com/sqldef/migrator/database/mysql"
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
		User                  string `short:"u" long:"user" description:"MySQL user name" value-name:"user_name" default:"root"`
		Password              string `short:"p" long:"password" description:"MySQL user password, overridden by $MYSQL_PWD" value-name:"password"`
		Host                  string `short:"h" long:"host" description:"Host to connect to the MySQL server" value-name:"host_name" default:"127.0.0.1"`
		Port                  uint   `short:"P" long:"port" description:"Port used for the connection" value-name:"port_num" default:"3306"`
		Socket                string `short:"S" long:"socket" description:"The socket file to use for connection" value-name:"socket"`
		SslMode               string `long:"ssl-mode" description:"SSL connection mode(PREFERRED,REQUIRED,DISABLED,CUSTOM)." value-name:"ssl_mode" default:"PREFERRED"`
		SslCa                 string `long:"ssl-ca" description:"File that contains list of trusted SSL Certificate Authorities" value-name:"ssl_ca"`
		Prompt                bool   `long:"password-prompt" description:"Force MySQL user password prompt"`
		EnableCleartextPlugin bool   `long:"enable-cleartext-plugin" description:"Enable/disable the clear text authentication plugin"`
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

	sslMode, ok := mysqlSslMode(opts.SslMode)
	if !ok {
		fmt.Printf("Wrong value for ssl-mode is given: %v\n\n", opts.SslMode)
		parser.WriteHelp(os.Stdout)
		os.Exit(1)
	}

	password, ok := os.LookupEnv("MYSQL_PWD")
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
		DbName:                     args[0],
		User:                       opts.User,
		Password:                   password,
		Host:                       opts.Host,
		Port:                       int(opts.Port),
		Socket:                     opts.Socket,
		SslMode:                    sslMode,
		SslCa:                      opts.SslCa,
		MySQLEnableCleartextPlugin: opts.EnableCleartextPlugin,
	}
	return config, options
}

// mysqlSslMode maps --ssl-mode to the driver's tls parameter.
func mysqlSslMode(mode string) (string, bool) {
	switch strings.ToLower(mode) {
	case "disabled":
		return "false", true
	case "preferred":
		return "preferred", true
	case "required":
		return "true", true
	case "custom":
		return "custom", true
	default:
		return "", false
	}
}

func main() {
	util.InitSlog()
	config, options := parseOptions(os.Args[1:])

	g, err := dialects.New("mysql", options.Config.GeneratorOptions())
	if err != nil {
		log.Fatal(err)
	}
	migrations, err := migrator.LoadMigrations(options.MigrationFile)
	if err != nil {
		log.Fatal(err)
	}

	var db database.Database
	if !options.DryRun && !options.Check {
		db, err = mysql.NewDatabase(config)
		if err != nil {
			log.Fatal(err)
		}
		defer db.Close()
	}

	if err := migrator.Run(context.Background(), g, db, migrations, options, database.NewStdoutLogger()); err != nil {
		log.Fatal(err)
	}
}
