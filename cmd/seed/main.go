package main

import (
	"fmt"
	"log"
	"os"

	"github.com/spf13/pflag"

	"congregation_backend/internals/configs"
	database "congregation_backend/internals/databases"
	"congregation_backend/internals/seeds"
)

func main() {
	if err := run(); err != nil {
		log.Fatalf("[FATAL] seed: %v", err)
	}
}

func run() error {
	var file string
	var migrate, dryRun bool

	flagSet := pflag.NewFlagSet("seed", pflag.ContinueOnError)
	flagSet.StringVarP(&file, "file", "f", "internals/seeds/data/seed.yaml", "path to the YAML seed document")
	flagSet.BoolVar(&migrate, "migrate", true, "run schema migration before seeding")
	flagSet.BoolVar(&dryRun, "dry-run", false, "validate and apply the seed, then roll it back")
	flagSet.BoolP("help", "h", false, "show help")

	if err := flagSet.Parse(os.Args[1:]); err != nil {
		if err == pflag.ErrHelp {
			printHelp(flagSet)
			return nil
		}
		return err
	}
	if help, _ := flagSet.GetBool("help"); help {
		printHelp(flagSet)
		return nil
	}

	cfg := configs.LoadEnv()
	database.ConnectDB(cfg)
	if migrate {
		if err := database.Migrate(database.DB); err != nil {
			return fmt.Errorf("migrate: %w", err)
		}
	}
	if err := seeds.RunAllSeeds(database.DB, file, dryRun); err != nil {
		return err
	}
	log.Println("[INFO] seed finished")
	return nil
}

func printHelp(flagSet *pflag.FlagSet) {
	fmt.Fprintf(os.Stderr, "Load members and activities from a YAML file.\n\nUsage:\n  seed [flags]\n\nFlags:\n")
	flagSet.PrintDefaults()
}
