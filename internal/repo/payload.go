package repo

import (
	"context"
	"fmt"
	"reflect"

	"gorm.io/gorm"

	"boardspace-backend/internal/apperr"
	"boardspace-backend/internal/itemable"
	"boardspace-backend/internal/models"
)

// PayloadRepo is the store for the six typed payload tables. Which table
// a call touches is decided by the itemable registry.
type PayloadRepo struct {
	db *gorm.DB
}

type PayloadRepoInterface interface {
	Create(ctx context.Context, payload models.Itemable) (models.ItemableRef, error)
	Get(ctx context.Context, ref models.ItemableRef) (models.Itemable, error)
	Update(ctx context.Context, ref models.ItemableRef, fields itemable.Fields) (models.Itemable, error)
	Delete(ctx context.Context, ref models.ItemableRef) error
	DeleteMany(ctx context.Context, t models.ItemType, ids []uint) error
	LoadFor(ctx context.Context, items []models.Item) (map[models.ItemableRef]models.Itemable, error)
}

func NewPayloadRepository(db *gorm.DB) PayloadRepoInterface {
	return &PayloadRepo{db: db}
}

func (r *PayloadRepo) Create(ctx context.Context, payload models.Itemable) (models.ItemableRef, error) {
	if err := r.db.WithContext(ctx).Create(payload).Error; err != nil {
		return models.ItemableRef{}, fmt.Errorf("create %s: %w", payload.ItemType(), err)
	}
	return models.ItemableRef{Type: payload.ItemType(), ID: payload.PayloadID()}, nil
}

func (r *PayloadRepo) Get(ctx context.Context, ref models.ItemableRef) (models.Itemable, error) {
	payload, err := itemable.New(ref.Type)
	if err != nil {
		return nil, err
	}
	if err := r.db.WithContext(ctx).First(payload, ref.ID).Error; err != nil {
		return nil, notFound(err, string(ref.Type))
	}
	return payload, nil
}

// Update applies a partial update. Only submitted fields change.
func (r *PayloadRepo) Update(ctx context.Context, ref models.ItemableRef, fields itemable.Fields) (models.Itemable, error) {
	payload, err := r.Get(ctx, ref)
	if err != nil {
		return nil, err
	}
	if err := itemable.Apply(payload, fields); err != nil {
		return nil, err
	}
	if err := r.db.WithContext(ctx).Save(payload).Error; err != nil {
		return nil, fmt.Errorf("update %s: %w", ref.Type, err)
	}
	return payload, nil
}

func (r *PayloadRepo) Delete(ctx context.Context, ref models.ItemableRef) error {
	payload, err := itemable.New(ref.Type)
	if err != nil {
		return err
	}
	res := r.db.WithContext(ctx).Delete(payload, ref.ID)
	if res.Error != nil {
		return fmt.Errorf("delete %s: %w", ref.Type, res.Error)
	}
	if res.RowsAffected == 0 {
		return apperr.NotFound(string(ref.Type))
	}
	return nil
}

func (r *PayloadRepo) DeleteMany(ctx context.Context, t models.ItemType, ids []uint) error {
	if len(ids) == 0 {
		return nil
	}
	payload, err := itemable.New(t)
	if err != nil {
		return err
	}
	if err := r.db.WithContext(ctx).Delete(payload, ids).Error; err != nil {
		return fmt.Errorf("delete %s rows: %w", t, err)
	}
	return nil
}

// LoadFor fetches the payloads of items with one query per type. Items
// whose payload row is missing are simply absent from the map.
func (r *PayloadRepo) LoadFor(ctx context.Context, items []models.Item) (map[models.ItemableRef]models.Itemable, error) {
	ids := make(map[models.ItemType][]uint)
	for _, item := range items {
		ids[item.Type()] = append(ids[item.Type()], item.ItemableID)
	}

	out := make(map[models.ItemableRef]models.Itemable, len(items))
	for t, typeIDs := range ids {
		proto, err := itemable.New(t)
		if err != nil {
			// unknown tags project as base fields only
			continue
		}
		rows := reflect.New(reflect.SliceOf(reflect.TypeOf(proto).Elem()))
		if err := r.db.WithContext(ctx).Find(rows.Interface(), typeIDs).Error; err != nil {
			return nil, fmt.Errorf("load %s rows: %w", t, err)
		}
		slice := rows.Elem()
		for i := 0; i < slice.Len(); i++ {
			p := slice.Index(i).Addr().Interface().(models.Itemable)
			out[models.ItemableRef{Type: t, ID: p.PayloadID()}] = p
		}
	}
	return out, nil
}
