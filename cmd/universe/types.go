package main

import (
	"fmt"
	"io"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/ersonp/universe-core/internal/domain/entities"
)

func newTypesCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "types",
		Short: "Inspect the type catalog",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runTypesList(cmd)
		},
	}

	cmd.AddCommand(newTypesListCmd())
	cmd.AddCommand(newTypesDescribeCmd())

	return cmd
}

func newTypesListCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List all catalog types",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runTypesList(cmd)
		},
	}
}

func runTypesList(cmd *cobra.Command) error {
	ctx := cmd.Context()
	out := cmd.OutOrStdout()

	return withDeps(ctx, func(d *Deps) error {
		types, err := d.TypeHandler.HandleList(ctx)
		if err != nil {
			return fmt.Errorf("listing types: %w", err)
		}

		if len(types) == 0 {
			fmt.Fprintln(out, "No types found.")
			return nil
		}

		printTypes(out, types)
		return nil
	})
}

func printTypes(out io.Writer, types []entities.Type) {
	w := tabwriter.NewWriter(out, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "ID\tNAME\tGROUP\tDEFAULT")
	for i := range types {
		isDefault := ""
		if entities.IsDefaultType(types[i].ID) {
			isDefault = "yes"
		}
		fmt.Fprintf(w, "%d\t%s\t%s\t%s\n", types[i].ID, types[i].Name, types[i].GroupID, isDefault)
	}
	w.Flush()
}

func newTypesDescribeCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "describe <type-id>",
		Short: "Show details about a catalog type",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runTypesDescribe(cmd, args[0])
		},
	}
}

func runTypesDescribe(cmd *cobra.Command, arg string) error {
	id, err := parseID("type", arg)
	if err != nil {
		return err
	}

	ctx := cmd.Context()
	out := cmd.OutOrStdout()

	return withDeps(ctx, func(d *Deps) error {
		t, err := d.TypeHandler.HandleDescribe(ctx, id)
		if err != nil {
			return err
		}

		fmt.Fprintf(out, "Type:      %d\n", t.ID)
		fmt.Fprintf(out, "Name:      %s\n", t.Name)
		fmt.Fprintf(out, "Group:     %s (%d)\n", t.GroupID, uint32(t.GroupID))
		fmt.Fprintf(out, "Category:  %d\n", t.CategoryID)
		if t.Radius != 0 {
			fmt.Fprintf(out, "Radius:    %g\n", t.Radius)
		}
		if t.Description != "" {
			fmt.Fprintf(out, "About:     %s\n", t.Description)
		}
		fmt.Fprintf(out, "Published: %t\n", t.Published)
		return nil
	})
}
