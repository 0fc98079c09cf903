package services

import (
	"context"
	"fmt"
	"slices"

	"github.com/ersonp/universe-core/internal/domain/entities"
)

type walkKey struct{}

// walk is the path from the outermost recursive load to the current item.
type walk struct {
	ancestors []uint32
}

func walkFrom(ctx context.Context) walk {
	w, _ := ctx.Value(walkKey{}).(walk)
	return w
}

// attachContents loads the items located in e and returns a copy of e
// carrying them. Items at the depth limit are returned without contents.
func (f *ItemFactory) attachContents(ctx context.Context, e entities.Entity) (entities.Entity, error) {
	c, ok := e.(entities.Container)
	if !ok {
		return e, nil
	}

	w := walkFrom(ctx)
	if len(w.ancestors) >= f.maxDepth {
		return e, nil
	}

	records, err := f.store.ListContents(ctx, e.ID())
	if err != nil {
		return nil, fmt.Errorf("listing contents of item %d: %w", e.ID(), err)
	}

	path := append(slices.Clone(w.ancestors), e.ID())
	childCtx := context.WithValue(ctx, walkKey{}, walk{ancestors: path})

	children := make([]entities.Entity, 0, len(records))
	for i := range records {
		data := records[i]
		if slices.Contains(path, data.ItemID) {
			return nil, &entities.ConsistencyError{
				ItemID:   data.ItemID,
				Field:    "location_id",
				Stored:   data.LocationID,
				Resolved: e.ID(),
			}
		}

		child, err := f.loadItem(childCtx, data.ItemID, LoadOptions{
			Recurse:    true,
			Prefetched: Prefetched{Data: &data},
		})
		if err != nil {
			return nil, fmt.Errorf("loading contents of item %d: %w", e.ID(), err)
		}
		children = append(children, child)
	}

	return c.WithContents(children)
}
