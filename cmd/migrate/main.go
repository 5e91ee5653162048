package main

import (
	"errors"
	"flag"
	"fmt"
	"os"
	"strconv"

	"github.com/golang-migrate/migrate/v4"
	_ "github.com/golang-migrate/migrate/v4/database/postgres"
	_ "github.com/golang-migrate/migrate/v4/source/file"
	_ "github.com/lib/pq"
	"go.uber.org/zap"

	"github.com/shopsync/backend/internal/infrastructure/config"
	"github.com/shopsync/backend/internal/infrastructure/logger"
)

const defaultMigrationsPath = "migrations"

func main() {
	var (
		migrationsPath string
		logLevel       string
	)

	flag.StringVar(&migrationsPath, "path", defaultMigrationsPath, "Path to migrations directory")
	flag.StringVar(&logLevel, "log-level", "info", "Log level (debug, info, warn, error)")
	flag.Parse()

	args := flag.Args()
	if len(args) == 0 {
		printUsage()
		os.Exit(1)
	}
	command := args[0]

	log := logger.New(&config.LogConfig{
		Level:  logLevel,
		Format: "console",
		Output: "stdout",
	})
	defer func() {
		_ = log.Sync()
	}()

	cfg, err := config.Load()
	if err != nil {
		log.Fatal("failed to load configuration", zap.Error(err))
	}

	m, err := migrate.New("file://"+migrationsPath, cfg.Database.MigrateURL())
	if err != nil {
		log.Fatal("failed to initialize migrator", zap.Error(err))
	}
	defer func() {
		srcErr, dbErr := m.Close()
		if srcErr != nil {
			log.Error("error closing migration source", zap.Error(srcErr))
		}
		if dbErr != nil {
			log.Error("error closing migration database", zap.Error(dbErr))
		}
	}()

	switch command {
	case "up":
		err = m.Up()
	case "down":
		steps := 1
		if len(args) > 1 {
			steps, err = strconv.Atoi(args[1])
			if err != nil || steps < 1 {
				log.Fatal("down expects a positive step count", zap.Strings("args", args[1:]))
			}
		}
		err = m.Steps(-steps)
	case "version":
		version, dirty, verr := m.Version()
		if verr != nil {
			if errors.Is(verr, migrate.ErrNilVersion) {
				log.Info("no migrations applied yet")
				return
			}
			log.Fatal("failed to read migration version", zap.Error(verr))
		}
		log.Info("current migration version",
			zap.Uint("version", version),
			zap.Bool("dirty", dirty),
		)
		return
	case "force":
		if len(args) < 2 {
			log.Fatal("force expects a version argument")
		}
		version, verr := strconv.Atoi(args[1])
		if verr != nil {
			log.Fatal("force expects a numeric version", zap.String("arg", args[1]))
		}
		err = m.Force(version)
	default:
		printUsage()
		os.Exit(1)
	}

	if err != nil {
		if errors.Is(err, migrate.ErrNoChange) {
			log.Info("database is up to date")
			return
		}
		log.Fatal("migration failed", zap.String("command", command), zap.Error(err))
	}
	log.Info("migration complete", zap.String("command", command))
}

func printUsage() {
	fmt.Fprintf(os.Stderr, `Usage: migrate [flags] <command>

Commands:
  up              Apply all pending migrations
  down [n]        Roll back n migrations (default 1)
  version         Print the current migration version
  force <v>       Set the migration version without running migrations

Flags:
  -path string       Path to migrations directory (default %q)
  -log-level string  Log level (default "info")
`, defaultMigrationsPath)
}
