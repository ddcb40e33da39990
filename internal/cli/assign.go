package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/example/rota/internal/models"
	"github.com/example/rota/internal/ports/primary"
	"github.com/example/rota/internal/wire"
)

var assignCmd = &cobra.Command{
	Use:   "assign",
	Short: "Assign work items to users",
	Long:  "Assign leads and tickets by round-robin rotation or to a specific user",
}

var assignRoleCmd = &cobra.Command{
	Use:   "role [item-ref]",
	Short: "Assign an item to the next user in the role rotation",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		itemID := args[0]
		itemType, err := models.ParseItemRef(itemID)
		if err != nil {
			return err
		}

		role, _ := cmd.Flags().GetString("role")
		if role == "" {
			role = itemType.Role()
		}
		skipSync, _ := cmd.Flags().GetBool("skip-task-sync")

		ctx := NewContext()
		if err := wire.OfficeHoursService().AssertOpen(ctx, false); err != nil {
			return err
		}

		result, err := wire.AssignmentService().AssignByRole(ctx, primary.AssignByRoleRequest{
			ItemType:     itemType,
			ItemID:       itemID,
			Role:         role,
			AssignedBy:   GetActorID(),
			SkipTaskSync: skipSync,
		})
		if err != nil {
			if pe, ok := primary.IsPoolExhausted(err); ok {
				return fmt.Errorf("rotation pool exhausted for %s: every eligible user (%d) already tried on %s",
					pe.Role, len(pe.Eligible), itemID)
			}
			return fmt.Errorf("failed to assign %s: %w", itemID, err)
		}

		fmt.Printf("✓ Assigned %s to %s via %s rotation\n", itemID, result.AssignedUser, result.Role)
		if result.TaskID != "" {
			fmt.Printf("  Follow-up task %s due %s\n", result.TaskID, result.TaskDueAt)
		}
		return nil
	},
}

var assignUserCmd = &cobra.Command{
	Use:   "user [item-ref] [user-id]",
	Short: "Assign an item directly to a specific user",
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		itemID := args[0]
		userID := args[1]
		itemType, err := models.ParseItemRef(itemID)
		if err != nil {
			return err
		}
		skipSync, _ := cmd.Flags().GetBool("skip-task-sync")

		ctx := NewContext()
		if err := wire.OfficeHoursService().AssertOpen(ctx, true); err != nil {
			return err
		}

		result, err := wire.AssignmentService().AssignDirect(ctx, primary.AssignDirectRequest{
			ItemType:     itemType,
			ItemID:       itemID,
			UserID:       userID,
			AssignedBy:   GetActorID(),
			SkipTaskSync: skipSync,
		})
		if err != nil {
			return fmt.Errorf("failed to assign %s: %w", itemID, err)
		}

		fmt.Printf("✓ Assigned %s directly to %s\n", itemID, result.AssignedUser)
		if result.TaskID != "" {
			fmt.Printf("  Follow-up task %s due %s\n", result.TaskID, result.TaskDueAt)
		}
		return nil
	},
}

var assignPreviewCmd = &cobra.Command{
	Use:   "preview [role]",
	Short: "Preview who would be assigned next without assigning",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		role := args[0]

		ctx := NewContext()
		next, status, err := wire.TrackerService().PeekNext(ctx, role)
		if err != nil {
			return fmt.Errorf("failed to preview rotation: %w", err)
		}

		fmt.Printf("Next up for %s: %s (position %d of %d)\n",
			role, next, status.CurrentPosition, status.TotalUsers)
		return nil
	},
}

// AssignCmd returns the assign command
func AssignCmd() *cobra.Command {
	assignRoleCmd.Flags().StringP("role", "r", "", "Override the role governing rotation (default: the item type's role)")
	assignRoleCmd.Flags().Bool("skip-task-sync", false, "Do not create or move the follow-up task")
	assignUserCmd.Flags().Bool("skip-task-sync", false, "Do not create or move the follow-up task")

	assignCmd.AddCommand(assignRoleCmd)
	assignCmd.AddCommand(assignUserCmd)
	assignCmd.AddCommand(assignPreviewCmd)

	return assignCmd
}
