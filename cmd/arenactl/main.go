// Command arenactl administers an Arena database from the shell.
//
// Usage:
//
//	arenactl migrate up --db data/arena.db
//	arenactl hash-password
//	arenactl codes add SUMMER24 --config config/app.yaml
//	arenactl registration open
package main

import (
	"bufio"
	"context"
	"database/sql"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"
	"text/tabwriter"
	"time"

	"github.com/golang-migrate/migrate/v4"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"

	"github.com/codr1/Arena/internal/api/auth"
	"github.com/codr1/Arena/internal/config"
	appdb "github.com/codr1/Arena/internal/db"
)

const defaultDBPath = "data/arena.db"

type globalFlags struct {
	configPath string
	dbPath     string
}

func main() {
	log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stderr})

	if err := newRootCmd().Execute(); err != nil {
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	flags := &globalFlags{}

	root := &cobra.Command{
		Use:           "arenactl",
		Short:         "Arena administration CLI",
		SilenceUsage:  true,
		SilenceErrors: false,
	}
	root.PersistentFlags().StringVar(&flags.configPath, "config", "", "Path to the YAML configuration file")
	root.PersistentFlags().StringVar(&flags.dbPath, "db", "", "Path to the SQLite database (overrides --config)")

	root.AddCommand(migrateCmd(flags))
	root.AddCommand(hashPasswordCmd())
	root.AddCommand(codesCmd(flags))
	root.AddCommand(registrationCmd(flags))
	return root
}

// databasePath resolves --db, then the config file, then the default.
func (f *globalFlags) databasePath() (string, error) {
	if f.dbPath != "" {
		return f.dbPath, nil
	}
	if f.configPath == "" {
		return defaultDBPath, nil
	}
	data, err := os.ReadFile(f.configPath)
	if err != nil {
		return "", fmt.Errorf("read config: %w", err)
	}
	cfg, err := config.Parse(data)
	if err != nil {
		return "", err
	}
	if cfg.Database.Filename == "" {
		return "", errors.New("config has no database filename")
	}
	return cfg.Database.Filename, nil
}

func (f *globalFlags) openDB() (*appdb.DB, error) {
	path, err := f.databasePath()
	if err != nil {
		return nil, err
	}
	return appdb.New(path)
}

// --------------------------------------------------------------------------
// migrate
// --------------------------------------------------------------------------

func migrateCmd(flags *globalFlags) *cobra.Command {
	return &cobra.Command{
		Use:       "migrate [up|down|version]",
		Short:     "Apply or inspect schema migrations",
		Args:      cobra.ExactArgs(1),
		ValidArgs: []string{"up", "down", "version"},
		RunE: func(cmd *cobra.Command, args []string) error {
			path, err := flags.databasePath()
			if err != nil {
				return err
			}
			sqlDB, err := appdb.OpenRaw(path)
			if err != nil {
				return err
			}
			defer sqlDB.Close()

			m, err := appdb.Migrator(sqlDB)
			if err != nil {
				return err
			}
			return runMigration(cmd.OutOrStdout(), m, args[0])
		},
	}
}

func runMigration(out io.Writer, m *migrate.Migrate, command string) error {
	switch command {
	case "up":
		if err := m.Up(); err != nil && !errors.Is(err, migrate.ErrNoChange) {
			return fmt.Errorf("migration up failed: %w", err)
		}
	case "down":
		if err := m.Down(); err != nil && !errors.Is(err, migrate.ErrNoChange) {
			return fmt.Errorf("migration down failed: %w", err)
		}
	case "version":
		version, dirty, err := m.Version()
		if errors.Is(err, migrate.ErrNilVersion) {
			fmt.Fprintln(out, "Version: none")
			return nil
		}
		if err != nil {
			return fmt.Errorf("get version failed: %w", err)
		}
		fmt.Fprintf(out, "Version: %d, Dirty: %v\n", version, dirty)
		return nil
	default:
		return fmt.Errorf("unknown migrate command: %s", command)
	}
	log.Info().Str("command", command).Msg("Migration complete")
	return nil
}

// --------------------------------------------------------------------------
// hash-password
// --------------------------------------------------------------------------

func hashPasswordCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "hash-password",
		Short: "Print a bcrypt hash for OWNER_PASSWORD_HASH, reading the password from stdin",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			password, err := bufio.NewReader(cmd.InOrStdin()).ReadString('\n')
			if err != nil && !errors.Is(err, io.EOF) {
				return err
			}
			password = strings.TrimRight(password, "\r\n")
			if password == "" {
				return errors.New("password is required")
			}
			hash, err := auth.HashPassword(password)
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), hash)
			return nil
		},
	}
}

// --------------------------------------------------------------------------
// codes
// --------------------------------------------------------------------------

func codesCmd(flags *globalFlags) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "codes",
		Short: "Manage tournament codes",
	}

	cmd.AddCommand(&cobra.Command{
		Use:   "add CODE...",
		Short: "Add tournament codes",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return withDB(flags, func(ctx context.Context, database *appdb.DB) error {
				for _, raw := range args {
					code := strings.TrimSpace(raw)
					if code == "" {
						continue
					}
					if _, err := database.Queries.CreateTournamentCode(ctx, code); err != nil {
						return fmt.Errorf("add %q: %w", code, err)
					}
					fmt.Fprintf(cmd.OutOrStdout(), "added %s\n", code)
				}
				return nil
			})
		},
	})

	cmd.AddCommand(&cobra.Command{
		Use:   "list",
		Short: "List tournament codes",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return withDB(flags, func(ctx context.Context, database *appdb.DB) error {
				codes, err := database.Queries.ListTournamentCodes(ctx)
				if err != nil {
					return err
				}
				tw := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 4, 2, ' ', 0)
				fmt.Fprintln(tw, "CODE\tCREATED")
				for _, c := range codes {
					fmt.Fprintf(tw, "%s\t%s\n", c.Code, c.CreatedAt.Local().Format(time.DateTime))
				}
				return tw.Flush()
			})
		},
	})

	cmd.AddCommand(&cobra.Command{
		Use:   "delete CODE",
		Short: "Delete a tournament code",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return withDB(flags, func(ctx context.Context, database *appdb.DB) error {
				n, err := database.Queries.DeleteTournamentCode(ctx, args[0])
				if err != nil {
					return err
				}
				if n == 0 {
					return fmt.Errorf("code %q not found", args[0])
				}
				fmt.Fprintf(cmd.OutOrStdout(), "deleted %s\n", args[0])
				return nil
			})
		},
	})

	return cmd
}

// --------------------------------------------------------------------------
// registration
// --------------------------------------------------------------------------

func registrationCmd(flags *globalFlags) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "registration",
		Short: "Open, close or inspect player registration",
	}

	for _, status := range []string{"open", "closed"} {
		use := status
		if status == "closed" {
			use = "close"
		}
		cmd.AddCommand(&cobra.Command{
			Use:   use,
			Short: "Set registration to " + status,
			Args:  cobra.NoArgs,
			RunE: func(cmd *cobra.Command, args []string) error {
				return withDB(flags, func(ctx context.Context, database *appdb.DB) error {
					if _, err := database.Queries.SetRegistrationStatus(ctx, status); err != nil {
						return err
					}
					fmt.Fprintf(cmd.OutOrStdout(), "registration %s\n", status)
					return nil
				})
			},
		})
	}

	cmd.AddCommand(&cobra.Command{
		Use:   "status",
		Short: "Show the current registration status",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return withDB(flags, func(ctx context.Context, database *appdb.DB) error {
				status, err := database.Queries.GetRegistrationStatus(ctx)
				if errors.Is(err, sql.ErrNoRows) {
					status = "closed"
				} else if err != nil {
					return err
				}
				fmt.Fprintf(cmd.OutOrStdout(), "registration %s\n", status)
				return nil
			})
		},
	})

	return cmd
}

func withDB(flags *globalFlags, fn func(ctx context.Context, database *appdb.DB) error) error {
	database, err := flags.openDB()
	if err != nil {
		return err
	}
	defer database.Close()

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()
	return fn(ctx, database)
}
