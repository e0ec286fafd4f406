package service

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/require"

	"boardspace-backend/internal/itemable"
	"boardspace-backend/internal/libraries"
	"boardspace-backend/internal/models"
	"boardspace-backend/internal/optional"
	"boardspace-backend/internal/repo"
	"boardspace-backend/internal/testutil"
)

var fixedNow = time.Date(2025, 9, 23, 10, 11, 49, 0, time.UTC)

type fixture struct {
	ctx    context.Context
	store  *repo.Store
	boards *BoardService
	items  *ItemService
	owner  uuid.UUID
	thumbs string
}

func newFixture(t *testing.T, opts ItemServiceOptions) *fixture {
	t.Helper()
	store := testutil.NewTestStore(t)
	opts.Now = func() time.Time { return fixedNow }
	dir := t.TempDir()
	return &fixture{
		ctx:    context.Background(),
		store:  store,
		thumbs: dir,
		boards: NewBoardService(store, nil, libraries.LocalThumbnailStore{Dir: dir}, nil),
		items:  NewItemService(store, nil, opts),
		owner:  testutil.NewOwner(),
	}
}

func (f *fixture) board(t *testing.T, title string) *models.Board {
	t.Helper()
	b, err := f.boards.CreateBoard(f.ctx, f.owner, BoardInput{Title: optional.Of(title)})
	require.NoError(t, err)
	return b
}

func (f *fixture) create(t *testing.T, board *models.Board, in CreateItemInput) itemable.Resource {
	t.Helper()
	in.BoardUUID = optional.Of(board.UUID.String())
	res, err := f.items.CreateItem(f.ctx, f.owner, in)
	require.NoError(t, err)
	return res
}

func (f *fixture) folder(t *testing.T, board *models.Board, name string, parent string) itemable.Resource {
	t.Helper()
	in := CreateItemInput{Type: "folder", Fields: itemable.Fields{Name: optional.Of(name)}}
	if parent != "" {
		in.FolderUUID = optional.Of(parent)
	}
	return f.create(t, board, in)
}

func (f *fixture) todo(t *testing.T, board *models.Board, folderUUID string) itemable.Resource {
	t.Helper()
	in := CreateItemInput{Type: "todo"}
	if folderUUID != "" {
		in.FolderUUID = optional.Of(folderUUID)
	}
	return f.create(t, board, in)
}

// rawItem reads the container row directly.
func (f *fixture) rawItem(t *testing.T, res itemable.Resource) models.Item {
	t.Helper()
	item, err := f.store.Items().GetOwned(f.ctx, f.owner, res["id"].(uint))
	require.NoError(t, err)
	return *item
}

func ids(list []itemable.Resource) []uint {
	out := make([]uint, 0, len(list))
	for _, r := range list {
		out = append(out, r["id"].(uint))
	}
	return out
}
