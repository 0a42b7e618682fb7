// Command breakctl manages users, activities and the schema of the breaks service.
package main

import (
	"context"
	"fmt"
	"os"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/fastygo/breaks/internal/config"
	pgInfra "github.com/fastygo/breaks/internal/infrastructure/postgres"
	"github.com/fastygo/breaks/pkg/logger"
	"github.com/fastygo/breaks/repository/postgres"
	adminUC "github.com/fastygo/breaks/usecase/admin"
)

// env holds what every sub-command shares. The pool is opened lazily.
type env struct {
	cfg    *config.Config
	logger *zap.Logger
	pool   *pgxpool.Pool
}

func (e *env) admin(ctx context.Context) (*adminUC.UseCase, error) {
	if e.pool == nil {
		pool, err := pgInfra.NewPool(ctx, e.cfg.Database, e.logger)
		if err != nil {
			return nil, err
		}
		e.pool = pool
	}
	return adminUC.New(
		postgres.NewUserRepository(e.pool),
		postgres.NewActivityRepository(e.pool),
		e.logger,
	), nil
}

func (e *env) close() {
	if e.pool != nil {
		e.pool.Close()
	}
	if e.logger != nil {
		_ = e.logger.Sync()
	}
}

func newRootCmd() *cobra.Command {
	e := &env{}

	root := &cobra.Command{
		Use:           "breakctl",
		Short:         "Administer the breaks service",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.Load()
			if err != nil {
				return err
			}
			level, _ := cmd.Flags().GetString("log-level")
			if level == "" {
				level = cfg.Logger.Level
			}
			zapLogger, err := logger.New(logger.Config{
				Level:    level,
				Encoding: "console",
				Output:   cmd.ErrOrStderr(),
			})
			if err != nil {
				return err
			}
			e.cfg, e.logger = cfg, zapLogger
			return nil
		},
		PersistentPostRun: func(*cobra.Command, []string) {
			e.close()
		},
	}
	root.PersistentFlags().String("log-level", "warn", "log level (debug, info, warn, error)")

	root.AddCommand(
		newUserCmd(e),
		newActivityCmd(e),
		newMigrateCmd(e),
	)
	return root
}

func main() {
	if err := newRootCmd().ExecuteContext(context.Background()); err != nil {
		fmt.Fprintln(os.Stderr, "error:", err)
		os.Exit(1)
	}
}
