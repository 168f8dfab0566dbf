package repository

import (
	"context"
	"testing"

	"juspatria-backend/models"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMemoryHistoryStore(t *testing.T) {
	ctx := context.Background()
	s := NewMemoryHistoryStore()

	items, err := s.Load(ctx, "jurisHistory")
	require.NoError(t, err)
	assert.Empty(t, items)

	written := models.HistoryItems{{ID: "2", Preview: "b"}, {ID: "1", Preview: "a"}}
	require.NoError(t, s.Save(ctx, "jurisHistory", written))

	written[0].Preview = "mutated"
	items, err = s.Load(ctx, "jurisHistory")
	require.NoError(t, err)
	require.Len(t, items, 2)
	assert.Equal(t, "b", items[0].Preview)

	items[1].Preview = "mutated"
	again, err := s.Load(ctx, "jurisHistory")
	require.NoError(t, err)
	assert.Equal(t, "a", again[1].Preview)

	other, err := s.Load(ctx, "other")
	require.NoError(t, err)
	assert.Empty(t, other)

	require.NoError(t, s.Clear(ctx, "jurisHistory"))
	items, err = s.Load(ctx, "jurisHistory")
	require.NoError(t, err)
	assert.Empty(t, items)
}

func TestMemoryFileRepository(t *testing.T) {
	ctx := context.Background()
	r := NewMemoryFileRepository()

	file := &models.File{ID: uuid.New(), Filename: "lei.pdf", MimeType: "application/pdf", Size: 3}
	require.NoError(t, r.Create(ctx, file))
	assert.False(t, file.CreatedAt.IsZero())

	got, err := r.GetByID(ctx, file.ID)
	require.NoError(t, err)
	assert.Equal(t, "lei.pdf", got.Filename)

	require.NoError(t, r.Delete(ctx, file.ID))
	_, err = r.GetByID(ctx, file.ID)
	assert.ErrorIs(t, err, ErrFileNotFound)
}
