package sqlbind

import (
	"context"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/leapstack-labs/dynabind/pkg/forward"
)

func newMockCursor(t *testing.T, rows *sqlmock.Rows) *forward.Forwarder {
	t.Helper()
	ctx := context.Background()
	cmd, mock := newMockCommand(t, "SELECT PhotoID, Title FROM photos")
	mock.ExpectQuery("SELECT PhotoID, Title FROM photos").WillReturnRows(rows)

	cursor, err := cmd.InvokeHandle(ctx, "query")
	require.NoError(t, err)
	return cursor
}

func TestCursorTarget_ReadCurrentRow(t *testing.T) {
	ctx := context.Background()
	cursor := newMockCursor(t, sqlmock.NewRows([]string{"PhotoID", "Title"}).
		AddRow(42, "sunset").
		AddRow(43, "harbor"))

	more, err := cursor.InvokeValue(ctx, "next")
	require.NoError(t, err)
	assert.Equal(t, true, more)

	id, err := forward.ReadAs[int](ctx, cursor, "PhotoID")
	require.NoError(t, err)
	assert.Equal(t, 42, id)

	title, err := forward.ReadAs[string](ctx, cursor, "Title")
	require.NoError(t, err)
	assert.Equal(t, "sunset", title)

	t.Run("advancing replaces the current row", func(t *testing.T) {
		more, err := cursor.InvokeValue(ctx, "next")
		require.NoError(t, err)
		assert.Equal(t, true, more)

		id, err := forward.ReadAs[int](ctx, cursor, "PhotoID")
		require.NoError(t, err)
		assert.Equal(t, 43, id)
	})

	t.Run("exhausted cursor returns false", func(t *testing.T) {
		more, err := cursor.InvokeValue(ctx, "next")
		require.NoError(t, err)
		assert.Equal(t, false, more)
	})
}

func TestCursorTarget_MissingColumn(t *testing.T) {
	ctx := context.Background()
	cursor := newMockCursor(t, sqlmock.NewRows([]string{"PhotoID", "Title"}).AddRow(42, "sunset"))

	_, err := cursor.InvokeValue(ctx, "next")
	require.NoError(t, err)

	_, err = cursor.Read(ctx, "NonexistentColumn")
	require.Error(t, err)
	assert.True(t, forward.IsMemberNotFound(err))
	assert.Contains(t, err.Error(), "PhotoID")
}

func TestCursorTarget_ReadBeforeNext(t *testing.T) {
	ctx := context.Background()
	cursor := newMockCursor(t, sqlmock.NewRows([]string{"PhotoID"}).AddRow(42))

	_, err := cursor.Read(ctx, "PhotoID")
	require.Error(t, err)
	assert.True(t, forward.IsInvalidTarget(err))
}

func TestCursorTarget_WriteIsRejected(t *testing.T) {
	ctx := context.Background()
	cursor := newMockCursor(t, sqlmock.NewRows([]string{"PhotoID"}).AddRow(42))

	_, err := cursor.InvokeValue(ctx, "next")
	require.NoError(t, err)

	err = cursor.Write(ctx, "PhotoID", 99)
	require.Error(t, err)
	assert.True(t, forward.IsInvalidTarget(err))
}

func TestCursorTarget_Close(t *testing.T) {
	ctx := context.Background()
	cursor := newMockCursor(t, sqlmock.NewRows([]string{"PhotoID"}).AddRow(42))

	_, err := cursor.InvokeValue(ctx, "close")
	require.NoError(t, err)
}
