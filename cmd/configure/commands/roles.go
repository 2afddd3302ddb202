package commands

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/brainindex/brainindex-api/internal/database"
	"github.com/brainindex/brainindex-api/internal/models"
)

// NewRolesCmd creates the role management command with grant and revoke subcommands.
func NewRolesCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "roles",
		Short: "Manage user roles",
		Long:  "Grant or revoke application roles for a user, addressed by email.",
	}
	cmd.AddCommand(newRolesGrantCmd())
	cmd.AddCommand(newRolesRevokeCmd())
	return cmd
}

func resolveRole(raw string) (models.AppRole, error) {
	role := models.AppRole(raw)
	if role != models.RoleAdmin && role != models.RoleUser {
		return "", fmt.Errorf("invalid role %q (must be 'admin' or 'user')", raw)
	}
	return role, nil
}

func newRolesGrantCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "grant <email> <role>",
		Short: "Grant a role to a user",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			role, err := resolveRole(args[1])
			if err != nil {
				return err
			}

			db, err := openDB()
			if err != nil {
				return fmt.Errorf("connect to database: %w", err)
			}
			defer closeDB(db)

			ctx := context.Background()
			profile, err := database.NewProfileRepository(db).GetByEmail(ctx, args[0])
			if err != nil {
				return fmt.Errorf("find user %s: %w", args[0], err)
			}

			if err := database.NewUserRoleRepository(db).Grant(ctx, profile.ID, role); err != nil {
				return fmt.Errorf("grant role: %w", err)
			}
			fmt.Printf("Granted %s to %s\n", role, args[0])
			return nil
		},
	}
	return cmd
}

func newRolesRevokeCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "revoke <email> <role>",
		Short: "Revoke a role from a user",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			role, err := resolveRole(args[1])
			if err != nil {
				return err
			}

			db, err := openDB()
			if err != nil {
				return fmt.Errorf("connect to database: %w", err)
			}
			defer closeDB(db)

			ctx := context.Background()
			profile, err := database.NewProfileRepository(db).GetByEmail(ctx, args[0])
			if err != nil {
				return fmt.Errorf("find user %s: %w", args[0], err)
			}

			if err := database.NewUserRoleRepository(db).Revoke(ctx, profile.ID, role); err != nil {
				return fmt.Errorf("revoke role: %w", err)
			}
			fmt.Printf("Revoked %s from %s\n", role, args[0])
			return nil
		},
	}
	return cmd
}
