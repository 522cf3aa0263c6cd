package main

import (
	"errors"
	"fmt"
	"log"
	"os"
	"runtime/debug"
	"strings"

	_ "github.com/glebarez/go-sqlite"
	"github.com/hashicorp/logutils"
	"github.com/jessevdk/go-flags"
	"github.com/joho/godotenv"

	"github.com/bobylevd/team-balancer/app/cmd"
)

var options struct {
	Balance cmd.Balance `command:"balance" description:"split a roster into teams"`
	Import  cmd.Import  `command:"import"  description:"load a roster file into the store"`
	Roster  cmd.Roster  `command:"roster"  description:"show the stored roster"`
	Bot     cmd.Bot     `command:"bot"     description:"run discord bot"`

	StoreLocation string `long:"db"       env:"DB"       default:"teams.db" description:"store location"`
	EnvFile       string `long:"env-file" env:"ENV_FILE" default:".env"     description:"file with environment variables"`
	Debug         bool   `long:"debug"    env:"DEBUG"    description:"turn on debug mode"`
}

var version = "unknown"

func getVersion() string {
	if bi, ok := debug.ReadBuildInfo(); ok && bi.Main.Version != "" && bi.Main.Version != "(devel)" {
		return bi.Main.Version
	}
	return version
}

func main() {
	loadEnv(envFile(os.Args[1:]))

	p := flags.NewParser(&options, flags.Default)
	p.CommandHandler = func(c flags.Commander, args []string) error {
		setupLog(options.Debug)

		log.Printf("[DEBUG] team-balancer, version: %s", getVersion())

		commonOpts := cmd.CommonOpts{
			Version:       getVersion(),
			StoreLocation: options.StoreLocation,
			Stdout:        os.Stdout,
		}
		if cs, ok := c.(interface{ Set(cmd.CommonOpts) }); ok {
			cs.Set(commonOpts)
		}

		if err := c.Execute(args); err != nil {
			log.Printf("[ERROR] failed to execute command: %v", err)
			return err
		}

		return nil
	}

	if _, err := p.Parse(); err != nil {
		if errors.Is(err, flags.ErrHelp) {
			os.Exit(0)
		}
		os.Exit(1)
	}
}

// loadEnv sets variables from the env file unless they are already set.
// A missing file is not an error.
func loadEnv(path string) {
	env, err := godotenv.Read(path)
	if err != nil {
		if !errors.Is(err, os.ErrNotExist) {
			fmt.Fprintf(os.Stderr, "failed to read %s: %v\n", path, err)
		}
		return
	}
	for k, v := range env {
		if _, ok := os.LookupEnv(k); !ok {
			_ = os.Setenv(k, v)
		}
	}
}

// envFile returns the env file location before the flags are parsed, as the
// file itself may define flag values.
func envFile(args []string) string {
	for i, arg := range args {
		if arg == "--env-file" && i+1 < len(args) {
			return args[i+1]
		}
		if v, ok := strings.CutPrefix(arg, "--env-file="); ok {
			return v
		}
	}
	if v, ok := os.LookupEnv("ENV_FILE"); ok {
		return v
	}
	return ".env"
}

func setupLog(dbg bool) {
	filter := &logutils.LevelFilter{
		Levels:   []logutils.LogLevel{"DEBUG", "INFO", "WARN", "ERROR"},
		MinLevel: "INFO",
		Writer:   os.Stderr,
	}

	logFlags := log.Ldate | log.Ltime

	if dbg {
		logFlags = log.Ldate | log.Ltime | log.Lmicroseconds | log.Lshortfile
		filter.MinLevel = "DEBUG"
	}

	log.SetFlags(logFlags)
	log.SetOutput(filter)
}
