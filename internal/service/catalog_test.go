package service

import (
	"bytes"
	"context"
	"io"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/nkosarev/bookstore-server/internal/logger"
	"github.com/nkosarev/bookstore-server/internal/mocks"
	"github.com/nkosarev/bookstore-server/internal/model"
)

const testBookID = "66f0c1d2e3a4b5c6d7e8f901"

func validBook() model.Book {
	return model.Book{
		ID:          testBookID,
		Title:       "The Hobbit",
		Authors:     []string{"J.R.R. Tolkien"},
		Price:       19.99,
		PageCount:   310,
		Publisher:   "Allen & Unwin",
		Language:    "English",
		Genres:      []string{"Fantasy"},
		Link:        "https://example.com/hobbit",
		IsAvailable: true,
		Annotation:  "A hole in the ground.",
	}
}

func newCatalogFixture() (*mocks.BookStore, *mocks.CoverStorage, *Catalog) {
	books := &mocks.BookStore{}
	covers := &mocks.CoverStorage{}
	return books, covers, NewCatalog(books, covers, logger.New(0))
}

func TestCatalog_GetAll(t *testing.T) {
	ctx := context.Background()
	books, _, catalog := newCatalogFixture()

	books.On("GetAll", mock.Anything, (*bool)(nil)).Return([]model.Book{validBook()}, nil).Once()
	got, err := catalog.GetAll(ctx, nil)
	require.NoError(t, err)
	assert.Len(t, got, 1)

	yes := true
	books.On("GetAll", mock.Anything, &yes).Return([]model.Book{}, nil).Once()
	_, err = catalog.GetAll(ctx, &yes)
	require.Error(t, err)
	assert.True(t, model.IsKind(err, model.KindNotFound))
	assert.Contains(t, err.Error(), "no books found")
}

func TestCatalog_GetByID(t *testing.T) {
	ctx := context.Background()
	books, _, catalog := newCatalogFixture()

	_, err := catalog.GetByID(ctx, "short")
	require.Error(t, err)
	assert.True(t, model.IsKind(err, model.KindInvalidArgument))
	books.AssertNotCalled(t, "GetByID", mock.Anything, mock.Anything)

	books.On("GetByID", mock.Anything, testBookID).Return(model.Book{}, model.ErrNotFound).Once()
	_, err = catalog.GetByID(ctx, testBookID)
	assert.ErrorIs(t, err, model.ErrNotFound)

	books.On("GetByID", mock.Anything, testBookID).Return(validBook(), nil).Once()
	got, err := catalog.GetByID(ctx, testBookID)
	require.NoError(t, err)
	assert.Equal(t, "The Hobbit", got.Title)
}

func TestCatalog_Exists(t *testing.T) {
	ctx := context.Background()
	books, _, catalog := newCatalogFixture()

	_, err := catalog.Exists(ctx, "zz")
	require.Error(t, err)
	assert.True(t, model.IsKind(err, model.KindInvalidArgument))

	books.On("GetByID", mock.Anything, testBookID).Return(model.Book{}, model.ErrNotFound).Once()
	exists, err := catalog.Exists(ctx, testBookID)
	require.NoError(t, err)
	assert.False(t, exists)

	books.On("GetByID", mock.Anything, testBookID).Return(validBook(), nil).Once()
	exists, err = catalog.Exists(ctx, testBookID)
	require.NoError(t, err)
	assert.True(t, exists)
}

func TestCatalog_Search(t *testing.T) {
	ctx := context.Background()
	books, _, catalog := newCatalogFixture()

	_, err := catalog.SearchExact(ctx, "   ", nil)
	require.Error(t, err)
	assert.True(t, model.IsKind(err, model.KindInvalidArgument))

	books.On("SearchExact", mock.Anything, "Tolkien", (*bool)(nil)).Return([]model.Book{validBook()}, nil).Once()
	got, err := catalog.SearchExact(ctx, "Tolkien", nil)
	require.NoError(t, err)
	assert.Len(t, got, 1)

	books.On("SearchPartial", mock.Anything, "nobody", (*bool)(nil)).Return([]model.Book{}, nil).Once()
	_, err = catalog.SearchPartial(ctx, "nobody", nil)
	require.Error(t, err)
	assert.True(t, model.IsKind(err, model.KindNotFound))
}

func TestCatalog_Create(t *testing.T) {
	ctx := context.Background()
	books, _, catalog := newCatalogFixture()

	invalid := validBook()
	invalid.Title = "  "
	_, err := catalog.Create(ctx, invalid)
	require.Error(t, err)
	assert.True(t, model.IsKind(err, model.KindInvalidArgument))
	assert.Contains(t, err.Error(), "fields cannot be empty")

	relative := validBook()
	relative.Link = "/hobbit"
	_, err = catalog.Create(ctx, relative)
	require.Error(t, err)
	assert.True(t, model.IsKind(err, model.KindInvalidArgument))

	book := validBook()
	books.On("Insert", mock.Anything, mock.MatchedBy(func(b model.Book) bool {
		return b.ID == "" && b.Title == book.Title
	})).Return(book, nil).Once()

	created, err := catalog.Create(ctx, book)
	require.NoError(t, err)
	assert.Equal(t, testBookID, created.ID)
}

func TestCatalog_Update(t *testing.T) {
	ctx := context.Background()
	books, _, catalog := newCatalogFixture()

	noID := validBook()
	noID.ID = ""
	_, err := catalog.Update(ctx, noID)
	require.Error(t, err)
	assert.True(t, model.IsKind(err, model.KindInvalidArgument))

	missing := validBook()
	books.On("Replace", mock.Anything, missing).Return(model.Book{}, model.ErrNotFound).Once()
	_, err = catalog.Update(ctx, missing)
	assert.ErrorIs(t, err, model.ErrNotFound)

	books.On("Replace", mock.Anything, missing).Return(missing, nil).Once()
	updated, err := catalog.Update(ctx, missing)
	require.NoError(t, err)
	assert.Equal(t, testBookID, updated.ID)
}

func TestCatalog_UpdatePartial_FieldSelection(t *testing.T) {
	ctx := context.Background()
	books, _, catalog := newCatalogFixture()

	price := 9.99
	blank := "   "
	negative := -1.0
	unavailable := false

	books.On("ApplyPartialUpdate", mock.Anything, testBookID, map[string]any{
		model.BookFieldPrice:       9.99,
		model.BookFieldIsAvailable: false,
	}).Return(validBook(), nil).Once()

	// Failing predicates are dropped silently as long as one field passes.
	_, err := catalog.UpdatePartial(ctx, testBookID, model.BookPatch{
		Title:       &blank,
		Price:       &price,
		IsAvailable: &unavailable,
	})
	require.NoError(t, err)
	books.AssertExpectations(t)

	// All supplied fields failing their predicates is a rejection.
	_, err = catalog.UpdatePartial(ctx, testBookID, model.BookPatch{
		Title: &blank,
		Price: &negative,
	})
	require.Error(t, err)
	assert.True(t, model.IsKind(err, model.KindInvalidArgument))
	assert.Contains(t, err.Error(), "no valid fields provided")

	// Empty patch is the same rejection.
	_, err = catalog.UpdatePartial(ctx, testBookID, model.BookPatch{})
	require.Error(t, err)
	assert.True(t, model.IsKind(err, model.KindInvalidArgument))
}

func TestCatalog_UpdatePartial_NotFound(t *testing.T) {
	ctx := context.Background()
	books, _, catalog := newCatalogFixture()

	price := 9.99
	books.On("ApplyPartialUpdate", mock.Anything, testBookID, mock.Anything).Return(model.Book{}, model.ErrNotFound).Once()

	_, err := catalog.UpdatePartial(ctx, testBookID, model.BookPatch{Price: &price})
	assert.ErrorIs(t, err, model.ErrNotFound)
}

func TestCatalog_Delete(t *testing.T) {
	ctx := context.Background()
	books, _, catalog := newCatalogFixture()

	_, err := catalog.Delete(ctx, "bogus")
	require.Error(t, err)
	assert.True(t, model.IsKind(err, model.KindInvalidArgument))

	books.On("DeleteByID", mock.Anything, testBookID).Return(model.Book{}, model.ErrNotFound).Once()
	_, err = catalog.Delete(ctx, testBookID)
	assert.ErrorIs(t, err, model.ErrNotFound)

	books.On("DeleteByID", mock.Anything, testBookID).Return(validBook(), nil).Once()
	deleted, err := catalog.Delete(ctx, testBookID)
	require.NoError(t, err)
	assert.Equal(t, "The Hobbit", deleted.Title)
}

func TestCatalog_UploadCover(t *testing.T) {
	ctx := context.Background()
	books, covers, catalog := newCatalogFixture()
	payload := strings.NewReader("png bytes")

	err := catalog.UploadCover(ctx, testBookID, payload, 9, "text/plain")
	require.Error(t, err)
	assert.True(t, model.IsKind(err, model.KindInvalidArgument))

	books.On("GetByID", mock.Anything, testBookID).Return(model.Book{}, model.ErrNotFound).Once()
	err = catalog.UploadCover(ctx, testBookID, payload, 9, "image/png")
	assert.ErrorIs(t, err, model.ErrNotFound)

	books.On("GetByID", mock.Anything, testBookID).Return(validBook(), nil).Once()
	covers.On("Upload", mock.Anything, testBookID, payload, int64(9), "image/png").Return(nil).Once()
	require.NoError(t, catalog.UploadCover(ctx, testBookID, payload, 9, "image/png"))
	covers.AssertExpectations(t)
}

func TestCatalog_GetCover(t *testing.T) {
	ctx := context.Background()
	_, covers, catalog := newCatalogFixture()

	covers.On("Download", mock.Anything, testBookID).Return(nil, "", model.ErrNotFound).Once()
	_, _, err := catalog.GetCover(ctx, testBookID)
	assert.ErrorIs(t, err, model.ErrNotFound)

	body := io.NopCloser(bytes.NewReader([]byte("png bytes")))
	covers.On("Download", mock.Anything, testBookID).Return(body, "image/png", nil).Once()
	reader, contentType, err := catalog.GetCover(ctx, testBookID)
	require.NoError(t, err)
	assert.Equal(t, "image/png", contentType)
	got, err := io.ReadAll(reader)
	require.NoError(t, err)
	assert.Equal(t, []byte("png bytes"), got)
}
