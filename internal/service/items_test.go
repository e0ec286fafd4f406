package service

import (
	"sort"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"boardspace-backend/internal/apperr"
	"boardspace-backend/internal/itemable"
	"boardspace-backend/internal/models"
	"boardspace-backend/internal/optional"
	"boardspace-backend/internal/testutil"
)

func TestCreateItemProjectsExactlyTypeFields(t *testing.T) {
	f := newFixture(t, ItemServiceOptions{})
	board := f.board(t, "B1")

	for _, typ := range models.ItemTypes {
		res := f.create(t, board, CreateItemInput{
			Type: string(typ),
			Fields: itemable.Fields{
				Title: optional.Of("Title"),
				Name:  optional.Of("Name"),
			},
		})

		def, err := itemable.Lookup(typ)
		require.NoError(t, err)
		want := append(append([]string{}, itemable.BaseFields...), def.Fields...)
		sort.Strings(want)

		got := make([]string, 0, len(res))
		for k := range res {
			got = append(got, k)
		}
		sort.Strings(got)
		assert.Equal(t, want, got, typ)
	}
}

func TestCreateItemAppliesTypeDefaults(t *testing.T) {
	f := newFixture(t, ItemServiceOptions{})
	board := f.board(t, "B1")

	todo := f.todo(t, board, "")
	assert.Equal(t, "New Todo", todo["title"])
	assert.Equal(t, 350, todo["width"])
	assert.Equal(t, 200, todo["height"])
	assert.Equal(t, 0, todo["x"])

	event := f.create(t, board, CreateItemInput{Type: "event"})
	assert.Equal(t, fixedNow, event["start_at"])
	assert.Equal(t, 280, event["width"])
	assert.Equal(t, 140, event["height"])

	checklist := f.create(t, board, CreateItemInput{Type: "checklist", Fields: itemable.Fields{Title: optional.Of("Groceries")}})
	assert.Equal(t, 200, checklist["width"])
	assert.Equal(t, 100, checklist["height"])
}

func TestCreateItemWidthBoundary(t *testing.T) {
	f := newFixture(t, ItemServiceOptions{})
	board := f.board(t, "B1")

	_, err := f.items.CreateItem(f.ctx, f.owner, CreateItemInput{
		Type:      "note",
		BoardUUID: optional.Of(board.UUID.String()),
		Geometry:  itemable.Geometry{Width: optional.Of(10)},
	})
	require.ErrorIs(t, err, apperr.ErrValidation)
	assert.Contains(t, apperr.FieldErrors(err), "width")

	res := f.create(t, board, CreateItemInput{Type: "note", Geometry: itemable.Geometry{Width: optional.Of(50)}})
	assert.Equal(t, 50, res["width"])
}

func TestCreateItemValidationIsCollected(t *testing.T) {
	f := newFixture(t, ItemServiceOptions{})

	_, err := f.items.CreateItem(f.ctx, f.owner, CreateItemInput{
		Type:       "checklist",
		FolderUUID: optional.Of("not-a-uuid"),
		Geometry:   itemable.Geometry{Height: optional.Of(5)},
	})
	fields := apperr.FieldErrors(err)
	assert.Contains(t, fields, "title")
	assert.Contains(t, fields, "height")
	assert.Contains(t, fields, "folder_uuid")

	_, err = f.items.CreateItem(f.ctx, f.owner, CreateItemInput{Type: "widget"})
	assert.Contains(t, apperr.FieldErrors(err), "type")

	boards, err := f.boards.ListBoards(f.ctx, f.owner)
	require.NoError(t, err)
	assert.Empty(t, boards, "failed validation must not create a default board")
}

func TestCreateItemCreatesDefaultBoard(t *testing.T) {
	f := newFixture(t, ItemServiceOptions{})

	_, err := f.items.CreateItem(f.ctx, f.owner, CreateItemInput{Type: "todo"})
	require.NoError(t, err)

	boards, err := f.boards.ListBoards(f.ctx, f.owner)
	require.NoError(t, err)
	require.Len(t, boards, 1)
	assert.Equal(t, models.DefaultBoardTitle, boards[0].Title)

	_, err = f.items.CreateItem(f.ctx, f.owner, CreateItemInput{Type: "note"})
	require.NoError(t, err)
	boards, err = f.boards.ListBoards(f.ctx, f.owner)
	require.NoError(t, err)
	assert.Len(t, boards, 1, "second item reuses the first board")
}

func TestCreateItemForeignBoardIsNotFound(t *testing.T) {
	f := newFixture(t, ItemServiceOptions{})
	board := f.board(t, "B1")

	other := testutil.NewOwner()
	_, err := f.items.CreateItem(f.ctx, other, CreateItemInput{Type: "todo", BoardUUID: optional.Of(board.UUID.String())})
	assert.ErrorIs(t, err, apperr.ErrNotFound)

	_, err = f.items.CreateItem(f.ctx, other, CreateItemInput{Type: "todo", BoardID: optional.Of(board.ID)})
	assert.ErrorIs(t, err, apperr.ErrNotFound)
}

func TestCreateItemUnknownFolderFailsOpen(t *testing.T) {
	f := newFixture(t, ItemServiceOptions{})
	board := f.board(t, "B1")

	res := f.todo(t, board, "3f1c1c9e-8a54-4c55-9f39-5b0d1f2f7a11")
	assert.Nil(t, f.rawItem(t, res).FolderID)
}

func TestCreateItemFolderOfOtherBoardFailsOpen(t *testing.T) {
	f := newFixture(t, ItemServiceOptions{})
	b1 := f.board(t, "B1")
	b2 := f.board(t, "B2")
	inbox := f.folder(t, b1, "Inbox", "")

	res := f.todo(t, b2, inbox["uuid"].(string))
	assert.Nil(t, f.rawItem(t, res).FolderID)
}

func TestFolderScopedListing(t *testing.T) {
	f := newFixture(t, ItemServiceOptions{})
	board := f.board(t, "B1")
	inbox := f.folder(t, board, "Inbox", "")
	inboxUUID := inbox["uuid"].(string)
	todo := f.todo(t, board, inboxUUID)

	root, err := f.items.ListItems(f.ctx, f.owner, board.UUID.String(), "")
	require.NoError(t, err)
	assert.Equal(t, []uint{inbox["id"].(uint)}, ids(root))

	inside, err := f.items.ListItems(f.ctx, f.owner, board.UUID.String(), inboxUUID)
	require.NoError(t, err)
	assert.Equal(t, []uint{todo["id"].(uint)}, ids(inside))
	assert.Equal(t, "New Todo", inside[0]["title"])
}

func TestListItemsUnknownFolderIsEmpty(t *testing.T) {
	f := newFixture(t, ItemServiceOptions{})
	board := f.board(t, "B1")
	f.todo(t, board, "")

	for _, ref := range []string{"does-not-exist", "7d0d6b8e-2f45-4c0e-9d55-0f5c8a0b5e01"} {
		list, err := f.items.ListItems(f.ctx, f.owner, board.UUID.String(), ref)
		require.NoError(t, err)
		assert.NotNil(t, list)
		assert.Empty(t, list)
	}
}

func TestListItemsIsOwnerScoped(t *testing.T) {
	f := newFixture(t, ItemServiceOptions{})
	board := f.board(t, "B1")

	_, err := f.items.ListItems(f.ctx, testutil.NewOwner(), board.UUID.String(), "")
	assert.ErrorIs(t, err, apperr.ErrNotFound)

	_, err = f.items.ListItems(f.ctx, f.owner, "nope", "")
	assert.ErrorIs(t, err, apperr.ErrNotFound)
}

func TestListAllItemsSpansBoards(t *testing.T) {
	f := newFixture(t, ItemServiceOptions{})
	b1 := f.board(t, "B1")
	b2 := f.board(t, "B2")
	inbox := f.folder(t, b1, "Inbox", "")
	f.todo(t, b1, inbox["uuid"].(string))
	f.todo(t, b2, "")

	all, err := f.items.ListAllItems(f.ctx, f.owner)
	require.NoError(t, err)
	assert.Len(t, all, 3)

	none, err := f.items.ListAllItems(f.ctx, testutil.NewOwner())
	require.NoError(t, err)
	assert.Empty(t, none)
}

func TestUpdateGeometryRoundTrip(t *testing.T) {
	f := newFixture(t, ItemServiceOptions{})
	board := f.board(t, "B1")
	todo := f.todo(t, board, "")
	id := todo["id"].(uint)

	_, err := f.items.UpdateItem(f.ctx, f.owner, id, UpdateItemInput{Geometry: itemable.Geometry{
		X: optional.Of(150), Y: optional.Of(150), Width: optional.Of(300), Height: optional.Of(200),
	}})
	require.NoError(t, err)

	got, err := f.items.GetItem(f.ctx, f.owner, id)
	require.NoError(t, err)
	assert.Equal(t, 150, got["x"])
	assert.Equal(t, 150, got["y"])
	assert.Equal(t, 300, got["width"])
	assert.Equal(t, 200, got["height"])
	assert.Equal(t, todo["title"], got["title"])
	assert.Equal(t, todo["completed"], got["completed"])
}

func TestUpdateRejectsInvalidGeometry(t *testing.T) {
	f := newFixture(t, ItemServiceOptions{})
	board := f.board(t, "B1")
	todo := f.todo(t, board, "")

	_, err := f.items.UpdateItem(f.ctx, f.owner, todo["id"].(uint), UpdateItemInput{Geometry: itemable.Geometry{Height: optional.Of(29)}})
	assert.ErrorIs(t, err, apperr.ErrValidation)
}

func TestUpdateWritesExplicitFalse(t *testing.T) {
	f := newFixture(t, ItemServiceOptions{})
	board := f.board(t, "B1")
	todo := f.todo(t, board, "")
	id := todo["id"].(uint)

	res, err := f.items.UpdateItem(f.ctx, f.owner, id, UpdateItemInput{Fields: itemable.Fields{Completed: optional.Of(true)}})
	require.NoError(t, err)
	assert.Equal(t, true, res["completed"])

	_, err = f.items.UpdateItem(f.ctx, f.owner, id, UpdateItemInput{Fields: itemable.Fields{Completed: optional.Of(false)}})
	require.NoError(t, err)

	got, err := f.items.GetItem(f.ctx, f.owner, id)
	require.NoError(t, err)
	assert.Equal(t, false, got["completed"])
	assert.Equal(t, "New Todo", got["title"], "absent fields stay untouched")
}

func TestUpdateClearsNullableField(t *testing.T) {
	f := newFixture(t, ItemServiceOptions{})
	board := f.board(t, "B1")
	todo := f.todo(t, board, "")

	res, err := f.items.UpdateItem(f.ctx, f.owner, todo["id"].(uint), UpdateItemInput{Fields: itemable.Fields{Description: optional.Null[string]()}})
	require.NoError(t, err)
	assert.Nil(t, res["description"])
}

func TestUpdateCannotChangeType(t *testing.T) {
	f := newFixture(t, ItemServiceOptions{})
	board := f.board(t, "B1")
	todo := f.todo(t, board, "")
	id := todo["id"].(uint)

	_, err := f.items.UpdateItem(f.ctx, f.owner, id, UpdateItemInput{Type: optional.Of("note")})
	assert.Equal(t, "cannot be changed", apperr.FieldErrors(err)["type"])

	_, err = f.items.UpdateItem(f.ctx, f.owner, id, UpdateItemInput{Type: optional.Of("todo")})
	assert.NoError(t, err)
}

func TestUpdateForeignItemIsNotFound(t *testing.T) {
	f := newFixture(t, ItemServiceOptions{})
	board := f.board(t, "B1")
	todo := f.todo(t, board, "")

	_, err := f.items.UpdateItem(f.ctx, testutil.NewOwner(), todo["id"].(uint), UpdateItemInput{Fields: itemable.Fields{Completed: optional.Of(true)}})
	assert.ErrorIs(t, err, apperr.ErrNotFound)

	_, err = f.items.GetItem(f.ctx, testutil.NewOwner(), todo["id"].(uint))
	assert.ErrorIs(t, err, apperr.ErrNotFound)
}

func TestMoveFolderIntoItselfIsNoop(t *testing.T) {
	f := newFixture(t, ItemServiceOptions{})
	board := f.board(t, "B1")
	parent := f.folder(t, board, "Parent", "")
	child := f.folder(t, board, "Child", parent["uuid"].(string))

	before := f.rawItem(t, child)
	require.NotNil(t, before.FolderID)

	_, err := f.items.MoveItem(f.ctx, f.owner, child["id"].(uint), optional.Of(child["uuid"].(string)))
	require.NoError(t, err)

	after := f.rawItem(t, child)
	require.NotNil(t, after.FolderID)
	assert.Equal(t, *before.FolderID, *after.FolderID)
}

func TestMoveItemBetweenScopes(t *testing.T) {
	f := newFixture(t, ItemServiceOptions{})
	board := f.board(t, "B1")
	inbox := f.folder(t, board, "Inbox", "")
	todo := f.todo(t, board, "")
	id := todo["id"].(uint)

	_, err := f.items.MoveItem(f.ctx, f.owner, id, optional.Of(inbox["uuid"].(string)))
	require.NoError(t, err)
	assert.NotNil(t, f.rawItem(t, todo).FolderID)

	_, err = f.items.MoveItem(f.ctx, f.owner, id, optional.Of(""))
	require.NoError(t, err)
	assert.Nil(t, f.rawItem(t, todo).FolderID)

	_, err = f.items.MoveItem(f.ctx, f.owner, id, optional.Of(inbox["uuid"].(string)))
	require.NoError(t, err)
	_, err = f.items.MoveItem(f.ctx, f.owner, id, optional.Null[string]())
	require.NoError(t, err)
	assert.Nil(t, f.rawItem(t, todo).FolderID)
}

func TestMoveToUnknownFolderFailsOpen(t *testing.T) {
	f := newFixture(t, ItemServiceOptions{})
	board := f.board(t, "B1")
	inbox := f.folder(t, board, "Inbox", "")
	todo := f.todo(t, board, inbox["uuid"].(string))

	_, err := f.items.MoveItem(f.ctx, f.owner, todo["id"].(uint), optional.Of("0b7f4a52-6b0f-4bb8-a1ad-5f8b1e2d0c33"))
	require.NoError(t, err)
	assert.Nil(t, f.rawItem(t, todo).FolderID)

	_, err = f.items.MoveItem(f.ctx, f.owner, todo["id"].(uint), optional.Of("garbage"))
	assert.ErrorIs(t, err, apperr.ErrValidation)
}

func TestMoveFolderIntoDescendant(t *testing.T) {
	t.Run("allowed and logged by default", func(t *testing.T) {
		f := newFixture(t, ItemServiceOptions{})
		board := f.board(t, "B1")
		a := f.folder(t, board, "A", "")
		b := f.folder(t, board, "B", a["uuid"].(string))

		_, err := f.items.MoveItem(f.ctx, f.owner, a["id"].(uint), optional.Of(b["uuid"].(string)))
		require.NoError(t, err)
		assert.NotNil(t, f.rawItem(t, a).FolderID)
	})

	t.Run("rejected when configured", func(t *testing.T) {
		f := newFixture(t, ItemServiceOptions{RejectFolderCycles: true})
		board := f.board(t, "B1")
		a := f.folder(t, board, "A", "")
		b := f.folder(t, board, "B", a["uuid"].(string))
		c := f.folder(t, board, "C", b["uuid"].(string))

		_, err := f.items.MoveItem(f.ctx, f.owner, a["id"].(uint), optional.Of(c["uuid"].(string)))
		assert.ErrorIs(t, err, apperr.ErrConflict)
		assert.Nil(t, f.rawItem(t, a).FolderID)

		// moving a leaf sideways is still fine
		d := f.folder(t, board, "D", "")
		_, err = f.items.MoveItem(f.ctx, f.owner, d["id"].(uint), optional.Of(c["uuid"].(string)))
		assert.NoError(t, err)
	})
}

func TestMoveIntoFolderWithCyclicChain(t *testing.T) {
	f := newFixture(t, ItemServiceOptions{})
	board := f.board(t, "B1")
	a := f.folder(t, board, "A", "")
	b := f.folder(t, board, "B", a["uuid"].(string))
	_, err := f.items.MoveItem(f.ctx, f.owner, a["id"].(uint), optional.Of(b["uuid"].(string)))
	require.NoError(t, err)
	d := f.folder(t, board, "D", "")

	strict := NewItemService(f.store, nil, ItemServiceOptions{RejectFolderCycles: true})
	_, err = strict.MoveItem(f.ctx, f.owner, d["id"].(uint), optional.Of(a["uuid"].(string)))
	require.ErrorIs(t, err, apperr.ErrConflict)
	assert.Contains(t, err.Error(), "too deep or cyclic")
	assert.NotContains(t, err.Error(), "inside the folder being moved")
	assert.Nil(t, f.rawItem(t, d).FolderID)

	// the default mode only logs and still places the folder
	_, err = f.items.MoveItem(f.ctx, f.owner, d["id"].(uint), optional.Of(a["uuid"].(string)))
	require.NoError(t, err)
	assert.NotNil(t, f.rawItem(t, d).FolderID)
}

func TestDeleteItemRemovesPayloadAndContainer(t *testing.T) {
	f := newFixture(t, ItemServiceOptions{})
	board := f.board(t, "B1")
	todo := f.todo(t, board, "")
	item := f.rawItem(t, todo)

	require.NoError(t, f.items.DeleteItem(f.ctx, f.owner, item.ID))

	_, err := f.store.Items().GetOwned(f.ctx, f.owner, item.ID)
	assert.ErrorIs(t, err, apperr.ErrNotFound)
	_, err = f.store.Payloads().Get(f.ctx, item.Ref())
	assert.ErrorIs(t, err, apperr.ErrNotFound)

	assert.ErrorIs(t, f.items.DeleteItem(f.ctx, f.owner, item.ID), apperr.ErrNotFound)
}

func TestDeleteItemKeepsContainerWhenPayloadMissing(t *testing.T) {
	f := newFixture(t, ItemServiceOptions{})
	board := f.board(t, "B1")
	todo := f.todo(t, board, "")
	item := f.rawItem(t, todo)
	require.NoError(t, f.store.Payloads().Delete(f.ctx, item.Ref()))

	err := f.items.DeleteItem(f.ctx, f.owner, item.ID)
	assert.ErrorIs(t, err, apperr.ErrNotFound)

	_, err = f.store.Items().GetOwned(f.ctx, f.owner, item.ID)
	assert.NoError(t, err, "container survives a failed payload delete")
}

func TestDeleteFolderLiftsChildren(t *testing.T) {
	f := newFixture(t, ItemServiceOptions{})
	board := f.board(t, "B1")
	outer := f.folder(t, board, "Outer", "")
	inner := f.folder(t, board, "Inner", outer["uuid"].(string))
	todo := f.todo(t, board, inner["uuid"].(string))

	require.NoError(t, f.items.DeleteItem(f.ctx, f.owner, inner["id"].(uint)))

	list, err := f.items.ListItems(f.ctx, f.owner, board.UUID.String(), outer["uuid"].(string))
	require.NoError(t, err)
	assert.Equal(t, []uint{todo["id"].(uint)}, ids(list))
}
