package cli

import (
	"fmt"
	"os"
	"text/tabwriter"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/example/rota/internal/models"
	"github.com/example/rota/internal/ports/primary"
	"github.com/example/rota/internal/wire"
)

var requestCmd = &cobra.Command{
	Use:   "request",
	Short: "Assignment request workflow",
	Long:  "File, review, and decide requests to assign an item to a specific user",
}

var requestCreateCmd = &cobra.Command{
	Use:   "create [item-ref] [user-id]",
	Short: "Request that an item be assigned to a user",
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		itemID := args[0]
		userID := args[1]
		itemType, err := models.ParseItemRef(itemID)
		if err != nil {
			return err
		}
		reason, _ := cmd.Flags().GetString("reason")

		ctx := NewContext()
		request, err := wire.RequestService().Create(ctx, primary.CreateRequestInput{
			ItemType:      itemType,
			ItemID:        itemID,
			RequestedUser: userID,
			RequestedBy:   GetActorID(),
			Reason:        reason,
		})
		if err != nil {
			return fmt.Errorf("failed to create request: %w", err)
		}

		fmt.Printf("✓ Filed request %s: assign %s to %s\n", request.ID, itemID, userID)
		return nil
	},
}

var requestApproveCmd = &cobra.Command{
	Use:   "approve [request-id]",
	Short: "Approve a pending request and perform the assignment",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		requestID := args[0]
		note, _ := cmd.Flags().GetString("note")

		ctx := NewContext()
		if err := wire.RequestService().Approve(ctx, requestID, GetActorID(), note); err != nil {
			return fmt.Errorf("failed to approve request: %w", err)
		}

		fmt.Printf("✓ Approved %s and assigned the item\n", requestID)
		return nil
	},
}

var requestRejectCmd = &cobra.Command{
	Use:   "reject [request-id]",
	Short: "Reject a pending request",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		requestID := args[0]
		reason, _ := cmd.Flags().GetString("reason")
		if reason == "" {
			return fmt.Errorf("a rejection reason is required (--reason)")
		}

		ctx := NewContext()
		if err := wire.RequestService().Reject(ctx, requestID, GetActorID(), reason); err != nil {
			return fmt.Errorf("failed to reject request: %w", err)
		}

		fmt.Printf("✓ Rejected %s\n", requestID)
		return nil
	},
}

var requestListCmd = &cobra.Command{
	Use:   "list",
	Short: "List assignment requests",
	RunE: func(cmd *cobra.Command, args []string) error {
		status, _ := cmd.Flags().GetString("status")
		mine, _ := cmd.Flags().GetBool("mine")

		ctx := NewContext()
		requests, err := wire.RequestService().List(ctx, GetActorID(), primary.RequestFilters{
			Status: status,
			Mine:   mine,
		})
		if err != nil {
			return fmt.Errorf("failed to list requests: %w", err)
		}

		if len(requests) == 0 {
			fmt.Println("No requests found")
			return nil
		}

		w := tabwriter.NewWriter(os.Stdout, 0, 8, 2, ' ', 0)
		fmt.Fprintln(w, "ID\tITEM\tUSER\tBY\tSTATUS\tDECIDED BY")
		fmt.Fprintln(w, "--\t----\t----\t--\t------\t----------")
		for _, r := range requests {
			fmt.Fprintf(w, "%s\t%s\t%s\t%s\t%s\t%s\n",
				r.ID, r.ItemID, r.RequestedUser, r.RequestedBy, requestStatusLabel(r.Status), r.DecidedBy)
		}
		return w.Flush()
	},
}

func requestStatusLabel(status string) string {
	switch status {
	case "pending":
		return color.New(color.FgYellow).Sprint(status)
	case "approved":
		return color.New(color.FgGreen).Sprint(status)
	case "rejected":
		return color.New(color.FgRed).Sprint(status)
	default:
		return status
	}
}

// RequestCmd returns the request command
func RequestCmd() *cobra.Command {
	requestCreateCmd.Flags().StringP("reason", "r", "", "Why this user should get the item")
	requestApproveCmd.Flags().StringP("note", "n", "", "Optional decision note")
	requestRejectCmd.Flags().StringP("reason", "r", "", "Rejection reason (required)")
	requestListCmd.Flags().StringP("status", "s", "", "Filter by status (pending, approved, rejected)")
	requestListCmd.Flags().Bool("mine", false, "Show only your own requests")

	requestCmd.AddCommand(requestCreateCmd)
	requestCmd.AddCommand(requestApproveCmd)
	requestCmd.AddCommand(requestRejectCmd)
	requestCmd.AddCommand(requestListCmd)

	return requestCmd
}
