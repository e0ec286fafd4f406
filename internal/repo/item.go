package repo

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"boardspace-backend/internal/apperr"
	"boardspace-backend/internal/models"
)

// ItemRepo persists the positional containers and answers the folder
// placement queries.
type ItemRepo struct {
	db *gorm.DB
}

type ItemRepoInterface interface {
	CreateItem(ctx context.Context, item *models.Item) error
	GetOwned(ctx context.Context, ownerID uuid.UUID, id uint) (*models.Item, error)
	GetAllItems(ctx context.Context, ownerID uuid.UUID) ([]models.Item, error)
	ListByScope(ctx context.Context, boardID uint, ownerID uuid.UUID, folderID *uint) ([]models.Item, error)
	ListByBoard(ctx context.Context, boardID uint) ([]models.Item, error)
	UpdateItem(ctx context.Context, item *models.Item) error
	Reparent(ctx context.Context, fromFolderID uint, toFolderID *uint) error
	DeleteItem(ctx context.Context, id uint) error
	DeleteByBoard(ctx context.Context, boardID uint) error
	FindFolderOnBoard(ctx context.Context, boardID uint, folderUUID uuid.UUID) (*models.Folder, error)
	GetFolder(ctx context.Context, folderID uint) (*models.Folder, error)
	ParentFolderID(ctx context.Context, folderID uint) (*uint, error)
}

func NewItemRepository(db *gorm.DB) ItemRepoInterface {
	return &ItemRepo{db: db}
}

func (r *ItemRepo) CreateItem(ctx context.Context, item *models.Item) error {
	if err := r.db.WithContext(ctx).Create(item).Error; err != nil {
		return fmt.Errorf("create item: %w", err)
	}
	return nil
}

// GetOwned loads an item only when it belongs to ownerID.
func (r *ItemRepo) GetOwned(ctx context.Context, ownerID uuid.UUID, id uint) (*models.Item, error) {
	var item models.Item
	err := r.db.WithContext(ctx).Where("user_id = ?", ownerID).First(&item, id).Error
	if err != nil {
		return nil, notFound(err, "item")
	}
	return &item, nil
}

func (r *ItemRepo) GetAllItems(ctx context.Context, ownerID uuid.UUID) ([]models.Item, error) {
	var items []models.Item
	err := r.db.WithContext(ctx).Where("user_id = ?", ownerID).Order("id asc").Find(&items).Error
	return items, err
}

// ListByScope returns one folder level of a board. A nil folderID selects
// the root level, not the whole board.
func (r *ItemRepo) ListByScope(ctx context.Context, boardID uint, ownerID uuid.UUID, folderID *uint) ([]models.Item, error) {
	q := r.db.WithContext(ctx).Where("board_id = ? AND user_id = ?", boardID, ownerID)
	if folderID == nil {
		q = q.Where("folder_id IS NULL")
	} else {
		q = q.Where("folder_id = ?", *folderID)
	}
	var items []models.Item
	err := q.Order("id asc").Find(&items).Error
	return items, err
}

func (r *ItemRepo) ListByBoard(ctx context.Context, boardID uint) ([]models.Item, error) {
	var items []models.Item
	err := r.db.WithContext(ctx).Where("board_id = ?", boardID).Find(&items).Error
	return items, err
}

// UpdateItem writes every column, so a nil FolderID is stored as NULL.
func (r *ItemRepo) UpdateItem(ctx context.Context, item *models.Item) error {
	if err := r.db.WithContext(ctx).Save(item).Error; err != nil {
		return fmt.Errorf("update item: %w", err)
	}
	return nil
}

// Reparent moves every item of one folder into another scope (nil is root).
func (r *ItemRepo) Reparent(ctx context.Context, fromFolderID uint, toFolderID *uint) error {
	err := r.db.WithContext(ctx).Model(&models.Item{}).
		Where("folder_id = ?", fromFolderID).
		Update("folder_id", toFolderID).Error
	if err != nil {
		return fmt.Errorf("reparent items: %w", err)
	}
	return nil
}

func (r *ItemRepo) DeleteItem(ctx context.Context, id uint) error {
	res := r.db.WithContext(ctx).Delete(&models.Item{}, id)
	if res.Error != nil {
		return fmt.Errorf("delete item: %w", res.Error)
	}
	if res.RowsAffected == 0 {
		return apperr.NotFound("item")
	}
	return nil
}

func (r *ItemRepo) DeleteByBoard(ctx context.Context, boardID uint) error {
	if err := r.db.WithContext(ctx).Where("board_id = ?", boardID).Delete(&models.Item{}).Error; err != nil {
		return fmt.Errorf("delete board items: %w", err)
	}
	return nil
}

// FindFolderOnBoard resolves a folder uuid, but only when the folder's own
// item sits on boardID. Folders of other boards are reported as not found.
func (r *ItemRepo) FindFolderOnBoard(ctx context.Context, boardID uint, folderUUID uuid.UUID) (*models.Folder, error) {
	var folder models.Folder
	err := r.db.WithContext(ctx).
		Joins("JOIN items ON items.itemable_id = folders.id AND items.itemable_type = ?", models.TypeFolder).
		Where("folders.uuid = ? AND items.board_id = ?", folderUUID, boardID).
		First(&folder).Error
	if err != nil {
		return nil, notFound(err, "folder")
	}
	return &folder, nil
}

func (r *ItemRepo) GetFolder(ctx context.Context, folderID uint) (*models.Folder, error) {
	var folder models.Folder
	if err := r.db.WithContext(ctx).First(&folder, folderID).Error; err != nil {
		return nil, notFound(err, "folder")
	}
	return &folder, nil
}

// ParentFolderID follows a folder to its owning item and returns that
// item's folder_id. A folder without an owning item has no parent.
func (r *ItemRepo) ParentFolderID(ctx context.Context, folderID uint) (*uint, error) {
	var owner models.Item
	err := r.db.WithContext(ctx).
		Where("itemable_type = ? AND itemable_id = ?", models.TypeFolder, folderID).
		Limit(1).
		Find(&owner).Error
	if err != nil {
		return nil, fmt.Errorf("load folder owner: %w", err)
	}
	if owner.ID == 0 {
		return nil, nil
	}
	return owner.FolderID, nil
}
