package cli

import (
	"fmt"
	"os"
	"strings"
	"text/tabwriter"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/example/rota/internal/models"
	"github.com/example/rota/internal/ports/primary"
	"github.com/example/rota/internal/wire"
)

var leadCmd = &cobra.Command{
	Use:   "lead",
	Short: "Manage leads",
	Long:  "Create, list, and inspect sales leads",
}

var leadCreateCmd = &cobra.Command{
	Use:   "create [name]",
	Short: "Create a new lead",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		source, _ := cmd.Flags().GetString("source")

		ctx := NewContext()
		id, err := wire.ItemService().CreateLead(ctx, args[0], source)
		if err != nil {
			return fmt.Errorf("failed to create lead: %w", err)
		}

		fmt.Printf("✓ Created lead %s: %s\n", id, args[0])
		return nil
	},
}

var leadListCmd = &cobra.Command{
	Use:   "list",
	Short: "List leads",
	RunE: func(cmd *cobra.Command, args []string) error {
		return listItems(models.ItemTypeLead)
	},
}

var leadShowCmd = &cobra.Command{
	Use:   "show [lead-id]",
	Short: "Show lead details and activity",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return showItem(models.ItemTypeLead, args[0])
	},
}

var ticketCmd = &cobra.Command{
	Use:   "ticket",
	Short: "Manage tickets",
	Long:  "Create, list, and inspect support tickets",
}

var ticketCreateCmd = &cobra.Command{
	Use:   "create [subject]",
	Short: "Create a new ticket",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		customer, _ := cmd.Flags().GetString("customer")

		ctx := NewContext()
		id, err := wire.ItemService().CreateTicket(ctx, args[0], customer)
		if err != nil {
			return fmt.Errorf("failed to create ticket: %w", err)
		}

		fmt.Printf("✓ Created ticket %s: %s\n", id, args[0])
		return nil
	},
}

var ticketListCmd = &cobra.Command{
	Use:   "list",
	Short: "List tickets",
	RunE: func(cmd *cobra.Command, args []string) error {
		return listItems(models.ItemTypeTicket)
	},
}

var ticketShowCmd = &cobra.Command{
	Use:   "show [ticket-id]",
	Short: "Show ticket details and activity",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return showItem(models.ItemTypeTicket, args[0])
	},
}

var taskCmd = &cobra.Command{
	Use:   "task",
	Short: "Follow-up tasks",
	Long:  "List the follow-up tasks created by assignment",
}

var taskListCmd = &cobra.Command{
	Use:   "list",
	Short: "List follow-up tasks",
	RunE: func(cmd *cobra.Command, args []string) error {
		status, _ := cmd.Flags().GetString("status")
		user, _ := cmd.Flags().GetString("user")
		finalOverdue, _ := cmd.Flags().GetBool("final-overdue")

		filters := primary.TaskFilters{Status: status, AssignedTo: user}
		if finalOverdue {
			t := true
			filters.FinalOverdue = &t
		}

		ctx := NewContext()
		tasks, err := wire.ItemService().ListTasks(ctx, filters)
		if err != nil {
			return fmt.Errorf("failed to list tasks: %w", err)
		}

		if len(tasks) == 0 {
			fmt.Println("No tasks found")
			return nil
		}

		overdueMarker := color.New(color.FgRed).Sprint(" [final overdue]")
		w := tabwriter.NewWriter(os.Stdout, 0, 8, 2, ' ', 0)
		fmt.Fprintln(w, "ID\tITEM\tASSIGNED TO\tSTATUS\tDUE")
		fmt.Fprintln(w, "--\t----\t-----------\t------\t---")
		for _, t := range tasks {
			marker := ""
			if t.FinalOverdue {
				marker = overdueMarker
			}
			fmt.Fprintf(w, "%s\t%s\t%s\t%s%s\t%s\n", t.ID, t.ItemID, t.AssignedTo, t.Status, marker, t.DueAt)
		}
		return w.Flush()
	},
}

func listItems(itemType models.ItemType) error {
	ctx := NewContext()
	items, err := wire.ItemService().ListItems(ctx, itemType)
	if err != nil {
		return fmt.Errorf("failed to list %ss: %w", itemType, err)
	}

	if len(items) == 0 {
		fmt.Printf("No %ss found\n", itemType)
		return nil
	}

	w := tabwriter.NewWriter(os.Stdout, 0, 8, 2, ' ', 0)
	fmt.Fprintln(w, "ID\tSTATUS\tASSIGNED TO\tTITLE")
	fmt.Fprintln(w, "--\t------\t-----------\t-----")
	for _, item := range items {
		fmt.Fprintf(w, "%s\t%s\t%s\t%s\n", item.ID, item.Status, item.AssignedTo, item.Title)
	}
	return w.Flush()
}

func showItem(itemType models.ItemType, itemID string) error {
	ctx := NewContext()
	item, err := wire.ItemService().Get(ctx, itemType, itemID)
	if err != nil {
		return fmt.Errorf("failed to get %s: %w", itemType, err)
	}

	fmt.Printf("\n%s: %s\n", itemType.Label(), item.ID)
	fmt.Printf("Title:   %s\n", item.Title)
	fmt.Printf("Status:  %s\n", item.Status)
	if item.AssignedTo != "" {
		fmt.Printf("Assigned to: %s\n", item.AssignedTo)
	}
	if item.AssignedRole != "" {
		fmt.Printf("Via role:    %s\n", item.AssignedRole)
	}
	if len(item.Assignees) > 0 {
		fmt.Printf("Tried:       %s\n", strings.Join(item.Assignees, ", "))
	}
	if item.FinalOverdueTask != "" {
		fmt.Printf("Final overdue task: %s\n", color.New(color.FgRed).Sprint(item.FinalOverdueTask))
	}
	fmt.Printf("Created: %s\n", item.CreatedAt)

	notes, err := wire.ItemService().Activity(ctx, itemType, itemID)
	if err == nil && len(notes) > 0 {
		fmt.Println("\nActivity:")
		for _, n := range notes {
			fmt.Printf("  %s  %s: %s\n", n.CreatedAt, n.Author, n.Body)
		}
	}
	fmt.Println()

	return nil
}

// LeadCmd returns the lead command
func LeadCmd() *cobra.Command {
	leadCreateCmd.Flags().StringP("source", "s", "", "Lead source")

	leadCmd.AddCommand(leadCreateCmd)
	leadCmd.AddCommand(leadListCmd)
	leadCmd.AddCommand(leadShowCmd)

	return leadCmd
}

// TicketCmd returns the ticket command
func TicketCmd() *cobra.Command {
	ticketCreateCmd.Flags().StringP("customer", "c", "", "Customer name")

	ticketCmd.AddCommand(ticketCreateCmd)
	ticketCmd.AddCommand(ticketListCmd)
	ticketCmd.AddCommand(ticketShowCmd)

	return ticketCmd
}

// TaskCmd returns the task command
func TaskCmd() *cobra.Command {
	taskListCmd.Flags().StringP("status", "s", "", "Filter by status (open, in_progress, done, canceled)")
	taskListCmd.Flags().StringP("user", "u", "", "Filter by assigned user")
	taskListCmd.Flags().Bool("final-overdue", false, "Show only final overdue tasks")

	taskCmd.AddCommand(taskListCmd)

	return taskCmd
}
