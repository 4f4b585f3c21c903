package pages

import (
	"context"
	"fmt"
)

// Resolver computes the closed set of pages reachable from the configured
// root. The stored hierarchy is expected to be a tree; the resolver still
// guards against repeated ids so malformed data fails fast instead of
// recursing without bound.
type Resolver struct {
	repo Repository
}

// NewResolver constructs a resolver over the supplied page repository.
func NewResolver(repo Repository) *Resolver {
	return &Resolver{repo: repo}
}

// PagesFromRoot returns every page reachable from the root, root first, then
// each subtree in discovery order.
func (r *Resolver) PagesFromRoot(ctx context.Context) ([]*Page, error) {
	rootID, err := r.repo.RootPageID(ctx)
	if err != nil {
		return nil, fmt.Errorf("resolve root page: %w", err)
	}

	root, err := r.repo.GetByID(ctx, rootID)
	if err != nil {
		return nil, fmt.Errorf("load root page %d: %w", rootID, err)
	}

	seen := map[int]struct{}{rootID: {}}
	out := []*Page{root}
	descendants, err := r.collectPages(ctx, rootID, seen)
	if err != nil {
		return nil, err
	}
	return append(out, descendants...), nil
}

// PageIDsFromRoot returns the ids of every page reachable from the root,
// root inclusive. No ordering is guaranteed beyond uniqueness.
func (r *Resolver) PageIDsFromRoot(ctx context.Context) (map[int]struct{}, error) {
	rootID, err := r.repo.RootPageID(ctx)
	if err != nil {
		return nil, fmt.Errorf("resolve root page: %w", err)
	}

	seen := map[int]struct{}{rootID: {}}
	if err := r.collectPageIDs(ctx, rootID, seen); err != nil {
		return nil, err
	}
	return seen, nil
}

func (r *Resolver) collectPages(ctx context.Context, id int, seen map[int]struct{}) ([]*Page, error) {
	children, err := r.repo.ChildPages(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("load children of page %d: %w", id, err)
	}

	var out []*Page
	for _, child := range children {
		if _, dup := seen[child.ID]; dup {
			return nil, &MalformedTreeError{PageID: child.ID}
		}
		seen[child.ID] = struct{}{}
		out = append(out, child)

		subtree, err := r.collectPages(ctx, child.ID, seen)
		if err != nil {
			return nil, err
		}
		out = append(out, subtree...)
	}
	return out, nil
}

func (r *Resolver) collectPageIDs(ctx context.Context, id int, seen map[int]struct{}) error {
	childIDs, err := r.repo.ChildPageIDs(ctx, id)
	if err != nil {
		return fmt.Errorf("load children of page %d: %w", id, err)
	}

	for _, childID := range childIDs {
		if _, dup := seen[childID]; dup {
			return &MalformedTreeError{PageID: childID}
		}
		seen[childID] = struct{}{}

		if err := r.collectPageIDs(ctx, childID, seen); err != nil {
			return err
		}
	}
	return nil
}
