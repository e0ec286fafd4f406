package service

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/url"
	"strings"

	"github.com/google/uuid"

	"boardspace-backend/internal/apperr"
	"boardspace-backend/internal/cache"
	"boardspace-backend/internal/libraries"
	"boardspace-backend/internal/models"
	"boardspace-backend/internal/optional"
	"boardspace-backend/internal/repo"
	"boardspace-backend/internal/validation"
)

// BoardInput is a board create or partial update request.
type BoardInput struct {
	Title       optional.Field[string] `json:"title" validate:"omitempty,max=255"`
	Description optional.Field[string] `json:"description"`
}

// Breadcrumb is one entry of the navigation trail.
type Breadcrumb struct {
	Title string `json:"title"`
	Link  string `json:"link"`
}

// BoardService owns board lifecycle and board scoped navigation.
type BoardService struct {
	store  *repo.Store
	cache  *cache.ItemCache
	thumbs libraries.ThumbnailStore
	log    *slog.Logger
}

func NewBoardService(store *repo.Store, c *cache.ItemCache, thumbs libraries.ThumbnailStore, log *slog.Logger) *BoardService {
	if log == nil {
		log = slog.Default()
	}
	return &BoardService{store: store, cache: c, thumbs: thumbs, log: log}
}

func (s *BoardService) ListBoards(ctx context.Context, ownerID uuid.UUID) ([]models.Board, error) {
	boards, err := s.store.Boards().GetAllBoards(ctx, ownerID)
	if err != nil {
		return nil, fmt.Errorf("list boards: %w", err)
	}
	return boards, nil
}

// ResolveOwnedBoard finds a board by numeric id or uuid. Missing boards and
// boards of other owners both fail with NotFoundError.
func (s *BoardService) ResolveOwnedBoard(ctx context.Context, ownerID uuid.UUID, ref string) (*models.Board, error) {
	return s.store.Boards().FindOwned(ctx, ownerID, ref)
}

func (s *BoardService) CreateBoard(ctx context.Context, ownerID uuid.UUID, in BoardInput) (*models.Board, error) {
	var errs apperr.ValidationErrors
	title, ok := in.Title.Get()
	if !ok || strings.TrimSpace(title) == "" {
		errs.Add("title", "is required")
	}
	checkBoardFields(&errs, in)
	if err := errs.OrNil(); err != nil {
		return nil, err
	}

	board := &models.Board{
		OwnerID:     ownerID,
		Title:       title,
		Description: in.Description.Ptr(),
	}
	if err := s.store.Boards().CreateBoard(ctx, board); err != nil {
		return nil, err
	}
	s.log.Debug("board created", "board_id", board.ID, "owner_id", ownerID)
	return board, nil
}

func (s *BoardService) UpdateBoard(ctx context.Context, ownerID uuid.UUID, ref string, in BoardInput) (*models.Board, error) {
	var errs apperr.ValidationErrors
	if in.Title.Present() {
		title, ok := in.Title.Get()
		if !ok || strings.TrimSpace(title) == "" {
			errs.Add("title", "is required")
		}
	}
	checkBoardFields(&errs, in)
	if err := errs.OrNil(); err != nil {
		return nil, err
	}

	board, err := s.ResolveOwnedBoard(ctx, ownerID, ref)
	if err != nil {
		return nil, err
	}
	if title, ok := in.Title.Get(); ok {
		board.Title = title
	}
	if in.Description.Present() {
		board.Description = in.Description.Ptr()
	}
	if err := s.store.Boards().UpdateBoard(ctx, board); err != nil {
		return nil, err
	}
	return board, nil
}

func checkBoardFields(errs *apperr.ValidationErrors, in BoardInput) {
	if in.Title.Err() != nil {
		errs.Add("title", "must be a string")
	}
	if in.Description.Err() != nil {
		errs.Add("description", "must be a string")
	}
	validation.Check(errs, in)
}

// DeleteBoard removes the board, its items and their payload rows in one
// transaction.
func (s *BoardService) DeleteBoard(ctx context.Context, ownerID uuid.UUID, ref string) error {
	var board *models.Board
	err := s.store.Transaction(ctx, func(tx *repo.Store) error {
		var err error
		board, err = tx.Boards().FindOwned(ctx, ownerID, ref)
		if err != nil {
			return err
		}
		items, err := tx.Items().ListByBoard(ctx, board.ID)
		if err != nil {
			return fmt.Errorf("list board items: %w", err)
		}
		byType := make(map[models.ItemType][]uint)
		for _, item := range items {
			byType[item.Type()] = append(byType[item.Type()], item.ItemableID)
		}
		for t, ids := range byType {
			if err := tx.Payloads().DeleteMany(ctx, t, ids); err != nil {
				return err
			}
		}
		if err := tx.Items().DeleteByBoard(ctx, board.ID); err != nil {
			return err
		}
		return tx.Boards().DeleteBoard(ctx, board.ID)
	})
	if err != nil {
		return err
	}

	if err := s.cache.InvalidateBoard(ctx, board.ID); err != nil {
		s.log.Warn("failed to invalidate item cache", "board_id", board.ID, "error", err)
	}
	if board.Thumbnail != "" && s.thumbs != nil {
		if err := s.thumbs.Delete(ctx, libraries.ThumbnailName(board.UUID.String())); err != nil {
			s.log.Warn("failed to delete thumbnail", "board_id", board.ID, "error", err)
		}
	}
	return nil
}

// SetThumbnail stores the rendered image of a board and records its location.
func (s *BoardService) SetThumbnail(ctx context.Context, ownerID uuid.UUID, ref, contentType string, r io.Reader) (*models.Board, error) {
	if s.thumbs == nil {
		return nil, errors.New("thumbnail storage is not configured")
	}
	board, err := s.ResolveOwnedBoard(ctx, ownerID, ref)
	if err != nil {
		return nil, err
	}
	location, err := s.thumbs.Save(ctx, libraries.ThumbnailName(board.UUID.String()), contentType, r)
	if err != nil {
		return nil, err
	}
	board.Thumbnail = location
	if err := s.store.Boards().UpdateBoard(ctx, board); err != nil {
		return nil, err
	}
	return board, nil
}

// BuildBreadcrumbs returns dashboard, board, then the folder chain from the
// root down to folderUUID. An unknown folder yields the two fixed entries.
func (s *BoardService) BuildBreadcrumbs(ctx context.Context, board *models.Board, folderUUID string) ([]Breadcrumb, error) {
	boardLink := "/board/" + board.UUID.String()
	crumbs := []Breadcrumb{
		{Title: "Dashboard", Link: "/dashboard"},
		{Title: board.Title, Link: boardLink},
	}
	if folderUUID == "" {
		return crumbs, nil
	}
	u, err := uuid.Parse(folderUUID)
	if err != nil {
		return crumbs, nil
	}

	items := s.store.Items()
	start, err := items.FindFolderOnBoard(ctx, board.ID, u)
	if errors.Is(err, apperr.ErrNotFound) {
		return crumbs, nil
	}
	if err != nil {
		return nil, err
	}

	// collected leaf first
	var trail []Breadcrumb
	truncated, err := walkAncestors(ctx, items, start.ID, func(folderID uint) (bool, error) {
		folder := start
		if folderID != start.ID {
			parent, err := items.GetFolder(ctx, folderID)
			if errors.Is(err, apperr.ErrNotFound) {
				return false, nil
			}
			if err != nil {
				return false, err
			}
			folder = parent
		}
		trail = append(trail, Breadcrumb{
			Title: folder.Name,
			Link:  boardLink + "?f=" + url.QueryEscape(folder.UUID.String()),
		})
		return true, nil
	})
	if err != nil {
		return nil, fmt.Errorf("walk folder chain: %w", err)
	}
	if truncated {
		s.log.Warn("folder chain truncated", "board_id", board.ID, "folder_uuid", folderUUID, "depth", len(trail))
	}

	for i := len(trail) - 1; i >= 0; i-- {
		crumbs = append(crumbs, trail[i])
	}
	return crumbs, nil
}
