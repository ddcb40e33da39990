package cli

import (
	"fmt"
	"os"
	"strings"
	"text/tabwriter"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/example/rota/internal/wire"
)

var userCmd = &cobra.Command{
	Use:   "user",
	Short: "Manage the user directory",
	Long:  "Add users, toggle availability, and grant or revoke roles",
}

var userAddCmd = &cobra.Command{
	Use:   "add [user-id]",
	Short: "Add a user",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		id := args[0]
		name, _ := cmd.Flags().GetString("name")
		email, _ := cmd.Flags().GetString("email")

		ctx := NewContext()
		if err := wire.DirectoryService().AddUser(ctx, id, name, email); err != nil {
			return fmt.Errorf("failed to add user: %w", err)
		}

		fmt.Printf("✓ Added user %s\n", id)
		return nil
	},
}

var userEnableCmd = &cobra.Command{
	Use:   "enable [user-id]",
	Short: "Enable a user for assignment",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := NewContext()
		if err := wire.DirectoryService().SetEnabled(ctx, args[0], true); err != nil {
			return fmt.Errorf("failed to enable user: %w", err)
		}
		fmt.Printf("✓ Enabled %s\n", args[0])
		return nil
	},
}

var userDisableCmd = &cobra.Command{
	Use:   "disable [user-id]",
	Short: "Disable a user (removed from rotations on next reconcile)",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := NewContext()
		if err := wire.DirectoryService().SetEnabled(ctx, args[0], false); err != nil {
			return fmt.Errorf("failed to disable user: %w", err)
		}
		fmt.Printf("✓ Disabled %s\n", args[0])
		return nil
	},
}

var userGrantCmd = &cobra.Command{
	Use:   "grant [user-id] [role]",
	Short: "Grant a role to a user",
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := NewContext()
		if err := wire.DirectoryService().GrantRole(ctx, args[0], args[1]); err != nil {
			return fmt.Errorf("failed to grant role: %w", err)
		}
		fmt.Printf("✓ Granted %q to %s\n", args[1], args[0])
		return nil
	},
}

var userRevokeCmd = &cobra.Command{
	Use:   "revoke [user-id] [role]",
	Short: "Revoke a role from a user",
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := NewContext()
		if err := wire.DirectoryService().RevokeRole(ctx, args[0], args[1]); err != nil {
			return fmt.Errorf("failed to revoke role: %w", err)
		}
		fmt.Printf("✓ Revoked %q from %s\n", args[1], args[0])
		return nil
	},
}

var userListCmd = &cobra.Command{
	Use:   "list",
	Short: "List users with their roles",
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := NewContext()
		users, err := wire.DirectoryService().ListUsers(ctx)
		if err != nil {
			return fmt.Errorf("failed to list users: %w", err)
		}

		if len(users) == 0 {
			fmt.Println("No users found")
			return nil
		}

		disabledMarker := color.New(color.FgRed).Sprint("disabled")
		w := tabwriter.NewWriter(os.Stdout, 0, 8, 2, ' ', 0)
		fmt.Fprintln(w, "ID\tNAME\tSTATUS\tROLES")
		fmt.Fprintln(w, "--\t----\t------\t-----")
		for _, u := range users {
			status := "enabled"
			if !u.Enabled {
				status = disabledMarker
			}
			fmt.Fprintf(w, "%s\t%s\t%s\t%s\n", u.ID, u.FullName, status, strings.Join(u.Roles, ", "))
		}
		return w.Flush()
	},
}

var inboxCmd = &cobra.Command{
	Use:   "inbox [user-id]",
	Short: "Show a user's notifications, newest first",
	Args:  cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		userID := GetActorID()
		if len(args) == 1 {
			userID = args[0]
		}
		unread, _ := cmd.Flags().GetBool("unread")

		ctx := NewContext()
		notifications, err := wire.DirectoryService().Inbox(ctx, userID, unread)
		if err != nil {
			return fmt.Errorf("failed to read inbox: %w", err)
		}

		if len(notifications) == 0 {
			fmt.Printf("No notifications for %s\n", userID)
			return nil
		}

		fmt.Printf("\nInbox for %s:\n", userID)
		for _, n := range notifications {
			kind := color.New(color.FgCyan).Sprintf("[%s]", n.Kind)
			fmt.Printf("  %s %s %s\n", n.CreatedAt, kind, n.Message)
		}
		fmt.Println()

		return nil
	},
}

// UserCmd returns the user command
func UserCmd() *cobra.Command {
	userAddCmd.Flags().StringP("name", "n", "", "Full name")
	userAddCmd.Flags().StringP("email", "e", "", "Email address")

	userCmd.AddCommand(userAddCmd)
	userCmd.AddCommand(userEnableCmd)
	userCmd.AddCommand(userDisableCmd)
	userCmd.AddCommand(userGrantCmd)
	userCmd.AddCommand(userRevokeCmd)
	userCmd.AddCommand(userListCmd)

	return userCmd
}

// InboxCmd returns the inbox command
func InboxCmd() *cobra.Command {
	inboxCmd.Flags().BoolP("unread", "u", false, "Show only unread notifications")
	return inboxCmd
}
