package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/google/uuid"
	"golang.org/x/sync/singleflight"

	"boardspace-backend/internal/apperr"
	"boardspace-backend/internal/cache"
	"boardspace-backend/internal/itemable"
	"boardspace-backend/internal/models"
	"boardspace-backend/internal/optional"
	"boardspace-backend/internal/repo"
)

// CreateItemInput is a create request. Type is required; the board is picked
// from BoardUUID, then BoardID, then the owner's first board.
type CreateItemInput struct {
	Type       string
	BoardID    optional.Field[uint]
	BoardUUID  optional.Field[string]
	FolderUUID optional.Field[string]
	Geometry   itemable.Geometry
	Fields     itemable.Fields
}

// UpdateItemInput is a partial update. A present FolderUUID moves the item.
type UpdateItemInput struct {
	Type       optional.Field[string]
	FolderUUID optional.Field[string]
	Geometry   itemable.Geometry
	Fields     itemable.Fields
}

type ItemServiceOptions struct {
	// RejectFolderCycles fails moves that would put a folder inside one of
	// its own descendants. When false such moves are only logged.
	RejectFolderCycles bool
	Now                func() time.Time
	Logger             *slog.Logger
}

// ItemService is the placement layer: it creates, moves, lists and deletes
// items together with their payloads.
type ItemService struct {
	store        *repo.Store
	cache        *cache.ItemCache
	sf           singleflight.Group
	now          func() time.Time
	rejectCycles bool
	log          *slog.Logger
}

func NewItemService(store *repo.Store, c *cache.ItemCache, opts ItemServiceOptions) *ItemService {
	s := &ItemService{
		store:        store,
		cache:        c,
		now:          opts.Now,
		rejectCycles: opts.RejectFolderCycles,
		log:          opts.Logger,
	}
	if s.now == nil {
		s.now = time.Now
	}
	if s.log == nil {
		s.log = slog.Default()
	}
	return s
}

// CreateItem inserts the payload and then the container pointing at it, in
// one transaction.
func (s *ItemService) CreateItem(ctx context.Context, ownerID uuid.UUID, in CreateItemInput) (itemable.Resource, error) {
	t, ok := models.ParseItemType(in.Type)
	if !ok {
		return nil, apperr.Invalid("type", "must be one of todo, checklist, folder, note, bookmark, event")
	}
	rect, geomErr := itemable.DefaultRect(t, in.Geometry)
	payload, fieldErr := itemable.Build(t, in.Fields, s.now())
	var folderUUID *uuid.UUID
	u, refErr := parseFolderRef(in.FolderUUID)
	if refErr == nil {
		folderUUID = u
	}
	if err := joinValidation(geomErr, fieldErr, refErr, checkBoardRef(in)); err != nil {
		return nil, err
	}

	var item models.Item
	err := s.store.Transaction(ctx, func(tx *repo.Store) error {
		board, err := s.targetBoard(ctx, tx, ownerID, in)
		if err != nil {
			return err
		}

		var folderID *uint
		if folderUUID != nil {
			folder, err := tx.Items().FindFolderOnBoard(ctx, board.ID, *folderUUID)
			switch {
			case errors.Is(err, apperr.ErrNotFound):
				s.log.Debug("folder not found, placing item at root", "folder_uuid", folderUUID.String(), "board_id", board.ID)
			case err != nil:
				return err
			default:
				folderID = &folder.ID
			}
		}

		ref, err := tx.Payloads().Create(ctx, payload)
		if err != nil {
			return err
		}
		item = models.Item{
			UserID:       ownerID,
			BoardID:      board.ID,
			FolderID:     folderID,
			ItemableType: ref.Type,
			ItemableID:   ref.ID,
			X:            rect.X,
			Y:            rect.Y,
			Width:        rect.Width,
			Height:       rect.Height,
		}
		return tx.Items().CreateItem(ctx, &item)
	})
	if err != nil {
		return nil, err
	}

	s.invalidate(ctx, item.BoardID)
	s.log.Debug("item created", "item_id", item.ID, "type", t, "board_id", item.BoardID)
	return itemable.Project(item, payload), nil
}

func checkBoardRef(in CreateItemInput) error {
	var errs apperr.ValidationErrors
	if in.BoardID.Err() != nil {
		errs.Add("board_id", "must be an integer")
	}
	if in.BoardUUID.Err() != nil {
		errs.Add("board_uuid", "must be a string")
	}
	return errs.OrNil()
}

// targetBoard resolves the board for a new item. An explicit reference that
// does not resolve is an error; no reference at all falls back to the first
// board, creating "My Board" for owners without one.
func (s *ItemService) targetBoard(ctx context.Context, tx *repo.Store, ownerID uuid.UUID, in CreateItemInput) (*models.Board, error) {
	if ref, ok := in.BoardUUID.Get(); ok && ref != "" {
		return tx.Boards().FindOwned(ctx, ownerID, ref)
	}
	if id, ok := in.BoardID.Get(); ok {
		return tx.Boards().FindOwned(ctx, ownerID, fmt.Sprint(id))
	}

	board, err := tx.Boards().FirstOwned(ctx, ownerID)
	if err == nil || !errors.Is(err, apperr.ErrNotFound) {
		return board, err
	}
	board = &models.Board{OwnerID: ownerID, Title: models.DefaultBoardTitle}
	if err := tx.Boards().CreateBoard(ctx, board); err != nil {
		return nil, err
	}
	s.log.Info("created default board", "board_id", board.ID, "owner_id", ownerID)
	return board, nil
}

// GetItem loads one owned item with its payload.
func (s *ItemService) GetItem(ctx context.Context, ownerID uuid.UUID, id uint) (itemable.Resource, error) {
	item, err := s.store.Items().GetOwned(ctx, ownerID, id)
	if err != nil {
		return nil, err
	}
	if _, err := itemable.Lookup(item.Type()); err != nil {
		return itemable.Project(*item, nil), nil
	}
	payload, err := s.store.Payloads().Get(ctx, item.Ref())
	if err != nil {
		return nil, err
	}
	return itemable.Project(*item, payload), nil
}

// ListAllItems returns every item of the owner across boards and folders.
func (s *ItemService) ListAllItems(ctx context.Context, ownerID uuid.UUID) ([]itemable.Resource, error) {
	items, err := s.store.Items().GetAllItems(ctx, ownerID)
	if err != nil {
		return nil, fmt.Errorf("list items: %w", err)
	}
	return s.project(ctx, s.store, items)
}

// ListItems returns one folder level of a board. An empty folderUUID lists
// the root level. A folder uuid that does not resolve on this board yields
// an empty list, not an error.
func (s *ItemService) ListItems(ctx context.Context, ownerID uuid.UUID, boardRef, folderUUID string) ([]itemable.Resource, error) {
	board, err := s.store.Boards().FindOwned(ctx, ownerID, boardRef)
	if err != nil {
		return nil, err
	}

	scope := cache.RootScope
	var folderID *uint
	if folderUUID != "" {
		u, err := uuid.Parse(folderUUID)
		if err != nil {
			return []itemable.Resource{}, nil
		}
		folder, err := s.store.Items().FindFolderOnBoard(ctx, board.ID, u)
		if errors.Is(err, apperr.ErrNotFound) {
			s.log.Debug("folder not found, empty listing", "folder_uuid", folderUUID, "board_id", board.ID)
			return []itemable.Resource{}, nil
		}
		if err != nil {
			return nil, err
		}
		folderID = &folder.ID
		scope = u.String()
	}

	// the generation is read before the database so a write that lands
	// during the fill bumps it and the filled listing is never served
	gen, err := s.cache.Generation(ctx, board.ID)
	cached := err == nil
	if err != nil {
		s.log.Warn("item cache read failed", "board_id", board.ID, "error", err)
	} else if list, ok, err := s.cache.GetListing(ctx, board.ID, gen, scope); err != nil {
		s.log.Warn("item cache read failed", "board_id", board.ID, "error", err)
	} else if ok {
		return list, nil
	}

	// waiters share the fill, so it must not die with the first caller
	fillCtx := context.WithoutCancel(ctx)
	key := fmt.Sprintf("%d:%d:%s", board.ID, gen, scope)
	v, err, _ := s.sf.Do(key, func() (any, error) {
		items, err := s.store.Items().ListByScope(fillCtx, board.ID, ownerID, folderID)
		if err != nil {
			return nil, fmt.Errorf("list items: %w", err)
		}
		list, err := s.project(fillCtx, s.store, items)
		if err != nil {
			return nil, err
		}
		if !cached {
			return list, nil
		}
		if err := s.cache.SetListing(fillCtx, board.ID, gen, scope, list); err != nil {
			s.log.Warn("item cache write failed", "board_id", board.ID, "error", err)
		}
		return list, nil
	})
	if err != nil {
		return nil, err
	}
	return v.([]itemable.Resource), nil
}

// UpdateItem applies geometry, folder placement and payload fields. The
// item type cannot change.
func (s *ItemService) UpdateItem(ctx context.Context, ownerID uuid.UUID, id uint, in UpdateItemInput) (itemable.Resource, error) {
	if err := in.Geometry.Validate(); err != nil {
		return nil, err
	}
	if _, err := parseFolderRef(in.FolderUUID); err != nil {
		return nil, err
	}

	var (
		item    *models.Item
		payload models.Itemable
	)
	err := s.store.Transaction(ctx, func(tx *repo.Store) error {
		var err error
		item, err = tx.Items().GetOwned(ctx, ownerID, id)
		if err != nil {
			return err
		}
		if err := checkImmutableType(in.Type, item.Type()); err != nil {
			return err
		}

		changed := false
		if !in.Geometry.Empty() {
			rect := in.Geometry.ApplyTo(itemable.Rect{X: item.X, Y: item.Y, Width: item.Width, Height: item.Height})
			item.X, item.Y, item.Width, item.Height = rect.X, rect.Y, rect.Width, rect.Height
			changed = true
		}
		if in.FolderUUID.Present() {
			if err := s.move(ctx, tx, item, in.FolderUUID); err != nil {
				return err
			}
			changed = true
		}
		if changed {
			if err := tx.Items().UpdateItem(ctx, item); err != nil {
				return err
			}
		}

		if in.Fields.Empty() {
			payload, err = tx.Payloads().Get(ctx, item.Ref())
		} else {
			payload, err = tx.Payloads().Update(ctx, item.Ref(), in.Fields)
		}
		return err
	})
	if err != nil {
		return nil, err
	}

	s.invalidate(ctx, item.BoardID)
	return itemable.Project(*item, payload), nil
}

// MoveItem places an item into the folder with the given uuid, or at the
// root for null or an empty string.
func (s *ItemService) MoveItem(ctx context.Context, ownerID uuid.UUID, id uint, folderUUID optional.Field[string]) (itemable.Resource, error) {
	if !folderUUID.Present() {
		folderUUID = optional.Null[string]()
	}
	return s.UpdateItem(ctx, ownerID, id, UpdateItemInput{FolderUUID: folderUUID})
}

// move sets item.FolderID for a move request. An item that is itself the
// target folder keeps its placement; a target that does not resolve on the
// item's board puts the item at the root.
func (s *ItemService) move(ctx context.Context, tx *repo.Store, item *models.Item, target optional.Field[string]) error {
	u, err := parseFolderRef(target)
	if err != nil {
		return err
	}
	if u == nil {
		item.FolderID = nil
		return nil
	}

	isFolder := item.Type() == models.TypeFolder
	if isFolder {
		self, err := tx.Payloads().Get(ctx, item.Ref())
		if err != nil {
			return err
		}
		if self.(*models.Folder).UUID == *u {
			s.log.Debug("ignoring move of folder into itself", "item_id", item.ID)
			return nil
		}
	}

	folder, err := tx.Items().FindFolderOnBoard(ctx, item.BoardID, *u)
	if errors.Is(err, apperr.ErrNotFound) {
		s.log.Debug("folder not found, moving item to root", "folder_uuid", u.String(), "item_id", item.ID)
		item.FolderID = nil
		return nil
	}
	if err != nil {
		return err
	}

	if isFolder {
		inside, truncated, err := s.isAncestor(ctx, tx, item.ItemableID, folder.ID)
		if err != nil {
			return err
		}
		switch {
		case inside && s.rejectCycles:
			return apperr.Conflict("folder %s is inside the folder being moved", u)
		case truncated && s.rejectCycles:
			return apperr.Conflict("folder chain above %s is too deep or cyclic", u)
		case inside:
			s.log.Warn("move creates a folder cycle", "item_id", item.ID, "target_folder_id", folder.ID)
		case truncated:
			s.log.Warn("folder chain too deep or cyclic", "item_id", item.ID, "target_folder_id", folder.ID)
		}
	}
	item.FolderID = &folder.ID
	return nil
}

// isAncestor reports whether folderID appears on the chain from start up to
// the root. truncated is set when the walk stopped on a revisited folder or
// the depth bound before reaching the root without finding folderID.
func (s *ItemService) isAncestor(ctx context.Context, tx *repo.Store, folderID, start uint) (found, truncated bool, err error) {
	truncated, err = walkAncestors(ctx, tx.Items(), start, func(id uint) (bool, error) {
		if id == folderID {
			found = true
			return false, nil
		}
		return true, nil
	})
	if err != nil {
		return false, false, err
	}
	return found, truncated && !found, nil
}

// DeleteItem removes the payload and then the container in one transaction.
// Items inside a deleted folder move up to the folder's own scope.
func (s *ItemService) DeleteItem(ctx context.Context, ownerID uuid.UUID, id uint) error {
	var item *models.Item
	err := s.store.Transaction(ctx, func(tx *repo.Store) error {
		var err error
		item, err = tx.Items().GetOwned(ctx, ownerID, id)
		if err != nil {
			return err
		}
		if err := tx.Payloads().Delete(ctx, item.Ref()); err != nil {
			return fmt.Errorf("delete payload of item %d: %w", item.ID, err)
		}
		if item.Type() == models.TypeFolder {
			if err := tx.Items().Reparent(ctx, item.ItemableID, item.FolderID); err != nil {
				return err
			}
		}
		return tx.Items().DeleteItem(ctx, item.ID)
	})
	if err != nil {
		return err
	}
	s.invalidate(ctx, item.BoardID)
	return nil
}

func (s *ItemService) project(ctx context.Context, st *repo.Store, items []models.Item) ([]itemable.Resource, error) {
	payloads, err := st.Payloads().LoadFor(ctx, items)
	if err != nil {
		return nil, err
	}
	out := make([]itemable.Resource, 0, len(items))
	for _, item := range items {
		out = append(out, itemable.Project(item, payloads[item.Ref()]))
	}
	return out, nil
}

func (s *ItemService) invalidate(ctx context.Context, boardID uint) {
	if err := s.cache.InvalidateBoard(ctx, boardID); err != nil {
		s.log.Warn("failed to invalidate item cache", "board_id", boardID, "error", err)
	}
}

// parseFolderRef returns nil for an absent, null or blank reference.
func parseFolderRef(f optional.Field[string]) (*uuid.UUID, error) {
	if f.Err() != nil {
		return nil, apperr.Invalid("folder_uuid", "must be a string")
	}
	raw, ok := f.Get()
	if !ok || strings.TrimSpace(raw) == "" {
		return nil, nil
	}
	u, err := uuid.Parse(strings.TrimSpace(raw))
	if err != nil {
		return nil, apperr.Invalid("folder_uuid", "must be a valid UUID")
	}
	return &u, nil
}

func checkImmutableType(submitted optional.Field[string], current models.ItemType) error {
	if !submitted.Present() {
		return nil
	}
	raw, ok := submitted.Get()
	if t, known := models.ParseItemType(raw); !ok || !known || t != current {
		return apperr.Invalid("type", "cannot be changed")
	}
	return nil
}

// joinValidation merges validation failures into one error and returns the
// first non validation error unchanged.
func joinValidation(errs ...error) error {
	var all apperr.ValidationErrors
	for _, err := range errs {
		if err == nil {
			continue
		}
		var many apperr.ValidationErrors
		var one *apperr.ValidationError
		switch {
		case errors.As(err, &many):
			all = append(all, many...)
		case errors.As(err, &one):
			all = append(all, one)
		default:
			return err
		}
	}
	return all.OrNil()
}
