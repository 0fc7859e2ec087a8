package main

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"log"
	"os"
	"strings"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/spf13/cobra"
)

var (
	configPath string
	assumeYes  bool
)

var rootCmd = &cobra.Command{
	Use:     "pgbarge [config.toml]",
	Short:   "SQLite/MySQL to PostgreSQL migration tool",
	Args:    cobra.MaximumNArgs(1),
	Version: "0.2.0",
	RunE:    runMigration,
}

func init() {
	rootCmd.Flags().StringVar(&configPath, "config", "", "path to migration TOML config file")
	rootCmd.Flags().BoolVar(&assumeYes, "yes", false, "skip the interactive confirmation prompt")
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func runMigration(cmd *cobra.Command, args []string) error {
	// Resolve config path: positional arg takes precedence over --config flag
	cfgPath := configPath
	if len(args) > 0 {
		cfgPath = args[0]
	}
	if cfgPath == "" {
		return fmt.Errorf("config file required: pgbarge <config.toml> or pgbarge --config <config.toml>")
	}

	cfg, err := loadConfig(cfgPath)
	if err != nil {
		return err
	}
	if assumeYes {
		cfg.AssumeYes = true
	}

	ctx := context.Background()
	start := time.Now()

	log.Printf("pgbarge — %s → PostgreSQL migration", cfg.Source.Type)
	log.Printf("config: batch_size=%d extra_columns=%d assume_yes=%t",
		cfg.BatchSize, len(cfg.ExtraColumns), cfg.AssumeYes)

	src, err := newSourceDB(cfg.Source.Type)
	if err != nil {
		return err
	}

	log.Printf("connecting to %s...", src.Name())
	srcDB, err := src.OpenDB(cfg.Source.DSN)
	if err != nil {
		return err
	}
	defer srcDB.Close()

	if err := srcDB.PingContext(ctx); err != nil {
		return fmt.Errorf("ping %s: %w", src.Name(), err)
	}

	log.Printf("connecting to PostgreSQL...")
	pool, err := pgxpool.New(ctx, cfg.Target.DSN)
	if err != nil {
		return fmt.Errorf("connect postgres: %w", err)
	}
	defer pool.Close()

	if err := pool.Ping(ctx); err != nil {
		return fmt.Errorf("ping postgres: %w", err)
	}

	confirm := func([]TablePlan) (bool, error) {
		if cfg.AssumeYes {
			return true, nil
		}
		return promptConfirmation(os.Stdin, os.Stderr)
	}

	if err := runTransfer(ctx, cfg, src, srcDB, pool, confirm); err != nil {
		return err
	}

	log.Printf("done in %s", time.Since(start).Round(time.Millisecond))
	return nil
}

// promptConfirmation asks for an explicit go-ahead after all DDL has been
// shown. Anything other than y/yes declines.
func promptConfirmation(in io.Reader, out io.Writer) (bool, error) {
	fmt.Fprint(out, "Apply these statements and copy all data? [y/N]: ")
	sc := bufio.NewScanner(in)
	if !sc.Scan() {
		if err := sc.Err(); err != nil {
			return false, err
		}
		return false, nil
	}
	switch strings.ToLower(strings.TrimSpace(sc.Text())) {
	case "y", "yes":
		return true, nil
	}
	return false, nil
}
