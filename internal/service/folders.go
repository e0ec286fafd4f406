package service

import (
	"context"

	"boardspace-backend/internal/repo"
)

// MaxFolderDepth bounds every walk up the folder chain. Moves only guard
// direct self-containment, so stored chains may contain cycles.
const MaxFolderDepth = 64

// walkAncestors calls visit for start and then for each parent folder id,
// stopping when the chain reaches the root or visit returns false. It
// reports truncated=true when it stopped because of a repeated folder or
// the depth cap.
func walkAncestors(ctx context.Context, items repo.ItemRepoInterface, start uint, visit func(folderID uint) (bool, error)) (truncated bool, err error) {
	seen := make(map[uint]struct{})
	current := start
	for depth := 0; ; depth++ {
		if depth >= MaxFolderDepth {
			return true, nil
		}
		if _, dup := seen[current]; dup {
			return true, nil
		}
		seen[current] = struct{}{}

		more, err := visit(current)
		if err != nil || !more {
			return false, err
		}

		parent, err := items.ParentFolderID(ctx, current)
		if err != nil {
			return false, err
		}
		if parent == nil {
			return false, nil
		}
		current = *parent
	}
}
