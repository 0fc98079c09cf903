package main

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"

	dto "github.com/prometheus/client_model/go"
	"github.com/prometheus/common/expfmt"
	"github.com/spf13/cobra"

	"github.com/ersonp/universe-core/internal/application/handlers"
	"github.com/ersonp/universe-core/internal/domain/entities"
)

type loadFlags struct {
	as      string
	recurse bool
	json    bool
	metrics bool
}

func newLoadCmd() *cobra.Command {
	var flags loadFlags

	cmd := &cobra.Command{
		Use:   "load <item-id>",
		Short: "Load and validate one item",
		Long: `Loads an item through the validation pipeline and prints it.

With --as solarsystem the item must be a solar system; any other type is
reported as not found. Without --as the item loads as whatever its group
is registered as.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runLoad(cmd, args[0], flags)
		},
	}

	cmd.Flags().StringVar(&flags.as, "as", "item", "Kind to load as (item, solarsystem)")
	cmd.Flags().BoolVarP(&flags.recurse, "recurse", "r", false, "Also load the item's contents")
	cmd.Flags().BoolVar(&flags.json, "json", false, "Print JSON")
	cmd.Flags().BoolVar(&flags.metrics, "metrics", false, "Print pipeline metrics after loading")

	return cmd
}

func runLoad(cmd *cobra.Command, arg string, flags loadFlags) error {
	id, err := parseID("item", arg)
	if err != nil {
		return err
	}
	kind, err := entities.ParseKind(flags.as)
	if err != nil {
		return err
	}

	ctx := cmd.Context()
	out := cmd.OutOrStdout()

	return withDeps(ctx, func(d *Deps) error {
		view, loadErr := d.ItemHandler.HandleLoad(ctx, handlers.LoadRequest{ID: id, Kind: kind, Recurse: flags.recurse})
		// The command owns the loaded object until it has been printed.
		defer d.ItemHandler.HandleRelease(id)

		if loadErr == nil {
			if flags.json {
				if err := writeJSON(out, view); err != nil {
					return err
				}
			} else {
				printItemView(out, view, 0)
			}
		}

		if flags.metrics {
			families, err := d.Registry.Gather()
			if err != nil {
				return fmt.Errorf("gathering metrics: %w", err)
			}
			fmt.Fprintln(out)
			if err := writeMetrics(out, families); err != nil {
				return err
			}
		}

		return describeLoadError(id, kind, loadErr)
	})
}

func parseID(what, s string) (uint32, error) {
	v, err := strconv.ParseUint(strings.TrimSpace(s), 10, 32)
	if err != nil {
		return 0, fmt.Errorf("invalid %s id %q: must be an unsigned 32-bit integer", what, s)
	}
	return uint32(v), nil
}

// describeLoadError turns pipeline errors into CLI messages.
func describeLoadError(id uint32, kind entities.Kind, err error) error {
	var ce *entities.ConsistencyError
	switch {
	case err == nil:
		return nil
	case errors.As(err, &ce):
		return fmt.Errorf("item %d: corrupted store (%s disagrees): %w", id, ce.Field, err)
	case errors.Is(err, entities.ErrTypeMismatch):
		return fmt.Errorf("item %d is not a %s: %w", id, kind, err)
	case errors.Is(err, entities.ErrNotFound):
		return fmt.Errorf("item %d not found: %w", id, err)
	default:
		return fmt.Errorf("loading item %d: %w", id, err)
	}
}

func writeJSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	if err := enc.Encode(v); err != nil {
		return fmt.Errorf("encoding JSON: %w", err)
	}
	return nil
}

func printItemView(w io.Writer, v *handlers.ItemView, depth int) {
	indent := strings.Repeat("  ", depth)
	name := v.Name
	if name == "" {
		name = v.TypeName
	}
	fmt.Fprintf(w, "%s%d %s [%s: %s (%d)]\n", indent, v.ID, name, v.Group, v.TypeName, v.TypeID)
	if depth == 0 {
		fmt.Fprintf(w, "%s  owner %d, location %d, position (%g, %g, %g)\n",
			indent, v.OwnerID, v.LocationID, v.Position.X, v.Position.Y, v.Position.Z)
	}
	if s := v.System; s != nil {
		fmt.Fprintf(w, "%s  security %.2f", indent, s.Security)
		if s.SecurityClass != "" {
			fmt.Fprintf(w, " (%s)", s.SecurityClass)
		}
		fmt.Fprintf(w, ", sun %s (%d), radius %g\n", s.SunTypeName, s.SunTypeID, s.Radius)
		if len(s.Flags) > 0 {
			fmt.Fprintf(w, "%s  flags: %s\n", indent, strings.Join(s.Flags, ", "))
		}
	}
	for _, c := range v.Contents {
		printItemView(w, c, depth+1)
	}
}

// writeMetrics prints families in the Prometheus text format.
func writeMetrics(w io.Writer, families []*dto.MetricFamily) error {
	enc := expfmt.NewEncoder(w, expfmt.NewFormat(expfmt.TypeTextPlain))
	for _, mf := range families {
		if err := enc.Encode(mf); err != nil {
			return fmt.Errorf("encoding metrics: %w", err)
		}
	}
	return nil
}
