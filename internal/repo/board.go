package repo

import (
	"context"
	"fmt"
	"strconv"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"boardspace-backend/internal/apperr"
	"boardspace-backend/internal/models"
)

// BoardRepo represents the repository for the board model
type BoardRepo struct {
	db *gorm.DB
}

type BoardRepoInterface interface {
	CreateBoard(ctx context.Context, board *models.Board) error
	GetAllBoards(ctx context.Context, ownerID uuid.UUID) ([]models.Board, error)
	FindOwned(ctx context.Context, ownerID uuid.UUID, ref string) (*models.Board, error)
	FirstOwned(ctx context.Context, ownerID uuid.UUID) (*models.Board, error)
	UpdateBoard(ctx context.Context, board *models.Board) error
	DeleteBoard(ctx context.Context, id uint) error
}

func NewBoardRepository(db *gorm.DB) BoardRepoInterface {
	return &BoardRepo{db: db}
}

// CreateBoard inserts the board, generating its uuid when unset
func (r *BoardRepo) CreateBoard(ctx context.Context, board *models.Board) error {
	if board.UUID == uuid.Nil {
		board.UUID = uuid.New()
	}
	if err := r.db.WithContext(ctx).Create(board).Error; err != nil {
		return fmt.Errorf("create board: %w", err)
	}
	return nil
}

// GetAllBoards returns the owner's boards, most recently updated first
func (r *BoardRepo) GetAllBoards(ctx context.Context, ownerID uuid.UUID) ([]models.Board, error) {
	var boards []models.Board
	err := r.db.WithContext(ctx).
		Where("owner_id = ?", ownerID).
		Order("updated_at desc").
		Order("id desc").
		Find(&boards).Error
	return boards, err
}

// FindOwned resolves ref as a numeric id or a uuid. Boards of other owners
// are reported exactly like missing ones.
func (r *BoardRepo) FindOwned(ctx context.Context, ownerID uuid.UUID, ref string) (*models.Board, error) {
	q := r.db.WithContext(ctx).Where("owner_id = ?", ownerID)
	if id, err := strconv.ParseUint(ref, 10, 64); err == nil {
		q = q.Where("id = ?", id)
	} else if u, err := uuid.Parse(ref); err == nil {
		q = q.Where("uuid = ?", u)
	} else {
		return nil, apperr.NotFound("board")
	}

	var board models.Board
	if err := q.First(&board).Error; err != nil {
		return nil, notFound(err, "board")
	}
	return &board, nil
}

// FirstOwned returns the owner's oldest board.
func (r *BoardRepo) FirstOwned(ctx context.Context, ownerID uuid.UUID) (*models.Board, error) {
	var board models.Board
	err := r.db.WithContext(ctx).Where("owner_id = ?", ownerID).Order("id asc").First(&board).Error
	if err != nil {
		return nil, notFound(err, "board")
	}
	return &board, nil
}

func (r *BoardRepo) UpdateBoard(ctx context.Context, board *models.Board) error {
	if err := r.db.WithContext(ctx).Save(board).Error; err != nil {
		return fmt.Errorf("update board: %w", err)
	}
	return nil
}

func (r *BoardRepo) DeleteBoard(ctx context.Context, id uint) error {
	res := r.db.WithContext(ctx).Delete(&models.Board{}, id)
	if res.Error != nil {
		return fmt.Errorf("delete board: %w", res.Error)
	}
	if res.RowsAffected == 0 {
		return apperr.NotFound("board")
	}
	return nil
}
