package main

import (
	"fmt"
	"strconv"

	"github.com/spf13/cobra"

	pgInfra "github.com/fastygo/breaks/internal/infrastructure/postgres"
)

func newUserCmd(e *env) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "user",
		Short: "Manage login accounts",
	}

	var username, password string
	create := &cobra.Command{
		Use:   "create",
		Short: "Create a user",
		RunE: func(cmd *cobra.Command, _ []string) error {
			uc, err := e.admin(cmd.Context())
			if err != nil {
				return err
			}
			user, err := uc.CreateUser(cmd.Context(), username, password)
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "created user %s (%s)\n", user.Username, user.ID)
			return nil
		},
	}
	create.Flags().StringVar(&username, "username", "", "login name")
	create.Flags().StringVar(&password, "password", "", "password (at least 8 characters)")
	_ = create.MarkFlagRequired("username")
	_ = create.MarkFlagRequired("password")

	var deleteName string
	del := &cobra.Command{
		Use:   "delete",
		Short: "Delete a user and all of their breaks",
		RunE: func(cmd *cobra.Command, _ []string) error {
			uc, err := e.admin(cmd.Context())
			if err != nil {
				return err
			}
			if err := uc.DeleteUser(cmd.Context(), deleteName); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "deleted user %s\n", deleteName)
			return nil
		},
	}
	del.Flags().StringVar(&deleteName, "username", "", "login name")
	_ = del.MarkFlagRequired("username")

	cmd.AddCommand(create, del)
	return cmd
}

func newActivityCmd(e *env) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "activity",
		Short: "Manage the activity catalog",
	}

	add := &cobra.Command{
		Use:   "add NAME",
		Short: "Add an activity",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			uc, err := e.admin(cmd.Context())
			if err != nil {
				return err
			}
			activity, err := uc.AddActivity(cmd.Context(), args[0])
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "%d\t%s\n", activity.ID, activity.Name)
			return nil
		},
	}

	list := &cobra.Command{
		Use:   "list",
		Short: "List activities",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			uc, err := e.admin(cmd.Context())
			if err != nil {
				return err
			}
			activities, err := uc.ListActivities(cmd.Context())
			if err != nil {
				return err
			}
			for _, a := range activities {
				fmt.Fprintf(cmd.OutOrStdout(), "%d\t%s\n", a.ID, a.Name)
			}
			return nil
		},
	}

	del := &cobra.Command{
		Use:   "delete ID",
		Short: "Delete an activity and every break that used it",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := strconv.ParseInt(args[0], 10, 64)
			if err != nil || id <= 0 {
				return fmt.Errorf("invalid activity id %q", args[0])
			}
			uc, err := e.admin(cmd.Context())
			if err != nil {
				return err
			}
			if err := uc.DeleteActivity(cmd.Context(), id); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "deleted activity %d\n", id)
			return nil
		},
	}

	cmd.AddCommand(add, list, del)
	return cmd
}

func newMigrateCmd(e *env) *cobra.Command {
	var down bool
	var path string
	cmd := &cobra.Command{
		Use:   "migrate",
		Short: "Apply schema migrations",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			if path == "" {
				path = e.cfg.Migrations.Path
			}
			if err := pgInfra.Migrate(e.cfg.Database, path, down, e.logger); err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), "migrations applied")
			return nil
		},
	}
	cmd.Flags().BoolVar(&down, "down", false, "revert every migration instead")
	cmd.Flags().StringVar(&path, "path", "", "migrations directory (defaults to MIGRATIONS_PATH)")
	return cmd
}
