package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

func (c *console) assignmentCommand() *cobra.Command {
	cmd := &cobra.Command{Use: "assignment", Short: "manage device-to-store assignments"}

	list := &cobra.Command{
		Use:   "list",
		Short: "list all assignments (resolves missing states)",
		RunE: func(cmd *cobra.Command, args []string) error {
			all, err := c.assignments.List()
			if err != nil {
				return err
			}
			for _, a := range all {
				state := a.State
				if state == "" {
					state = "-"
				}
				fmt.Printf("%s\t%s\t%s\t%s\tactive=%v\n", a.ID, a.StoreID, a.Orientation, state, a.Active)
			}
			return nil
		},
	}

	imp := &cobra.Command{
		Use:   "import <csv>",
		Short: "bulk import assignments from a csv file",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			f, err := os.Open(args[0])
			if err != nil {
				return err
			}
			defer f.Close()

			result, err := c.assignments.ImportCSV(f)
			if err != nil {
				return err
			}
			fmt.Printf("batch %s: imported %d rows\n", result.BatchID, len(result.Imported))
			for _, rowErr := range result.Unresolved {
				fmt.Printf("  skipped %s\n", rowErr.Error())
			}
			return nil
		},
	}

	del := &cobra.Command{
		Use:   "delete <id>",
		Short: "delete an assignment outright",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := c.assignments.Delete(args[0]); err != nil {
				return err
			}
			fmt.Printf("assignment %s deleted\n", args[0])
			return nil
		},
	}

	cmd.AddCommand(list, imp, del)
	return cmd
}

func (c *console) reportCommand() *cobra.Command {
	cmd := &cobra.Command{Use: "report", Short: "read-only rollups"}

	states := &cobra.Command{
		Use:   "states",
		Short: "active assignments per state",
		RunE: func(cmd *cobra.Command, args []string) error {
			counts, err := c.reporter.AssignmentsByState()
			if err != nil {
				return err
			}
			for state, n := range counts {
				fmt.Printf("%s\t%d\n", state, n)
			}
			return nil
		},
	}

	playlists := &cobra.Command{
		Use:   "playlists",
		Short: "playlists per status",
		RunE: func(cmd *cobra.Command, args []string) error {
			counts, err := c.reporter.PlaylistsByStatus()
			if err != nil {
				return err
			}
			for status, n := range counts {
				fmt.Printf("%s\t%d\n", status, n)
			}
			return nil
		},
	}

	overlaps := &cobra.Command{
		Use:   "overlaps",
		Short: "live playlists targeting the same stores over intersecting dates",
		RunE: func(cmd *cobra.Command, args []string) error {
			found, err := c.reporter.LiveOverlaps()
			if err != nil {
				return err
			}
			for _, o := range found {
				fmt.Printf("playlists %d and %d overlap on %v\n", o.A, o.B, o.Stores)
			}
			if len(found) == 0 {
				fmt.Println("no overlaps")
			}
			return nil
		},
	}

	cmd.AddCommand(states, playlists, overlaps)
	return cmd
}
