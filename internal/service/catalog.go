package service

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/url"
	"regexp"
	"strings"

	"github.com/nkosarev/bookstore-server/internal/logger"
	"github.com/nkosarev/bookstore-server/internal/model"
)

var bookIDPattern = regexp.MustCompile(`^[0-9a-fA-F]{24}$`)

// Catalog orchestrates validation and persistence for book CRUD and
// search.
type Catalog struct {
	books  model.BookStore
	covers model.CoverStorage
	logger *logger.Logger
}

func NewCatalog(books model.BookStore, covers model.CoverStorage, logger *logger.Logger) *Catalog {
	return &Catalog{
		books:  books,
		covers: covers,
		logger: logger,
	}
}

// GetAll returns all books, optionally filtered by availability. An
// empty result set is reported as NotFound rather than an empty slice.
func (c *Catalog) GetAll(ctx context.Context, available *bool) ([]model.Book, error) {
	books, err := c.books.GetAll(ctx, available)
	if err != nil {
		return nil, fmt.Errorf("failed to get books: %w", err)
	}
	if len(books) == 0 {
		return nil, model.NewNotFound("no books found")
	}
	return books, nil
}

func (c *Catalog) GetByID(ctx context.Context, id string) (model.Book, error) {
	if err := validateBookID(id); err != nil {
		return model.Book{}, err
	}

	book, err := c.books.GetByID(ctx, id)
	if errors.Is(err, model.ErrNotFound) {
		return model.Book{}, model.ErrNotFound
	}
	if err != nil {
		return model.Book{}, fmt.Errorf("failed to get book: %w", err)
	}
	return book, nil
}

// Exists reports whether a book with the given id is stored. Unlike
// GetByID it never reports absence as an error.
func (c *Catalog) Exists(ctx context.Context, id string) (bool, error) {
	if err := validateBookID(id); err != nil {
		return false, err
	}

	_, err := c.books.GetByID(ctx, id)
	if errors.Is(err, model.ErrNotFound) {
		return false, nil
	}
	if err != nil {
		return false, fmt.Errorf("failed to get book: %w", err)
	}
	return true, nil
}

// SearchExact matches the term against whole field values,
// case-insensitively, over title, language, publisher, authors and
// genres.
func (c *Catalog) SearchExact(ctx context.Context, term string, available *bool) ([]model.Book, error) {
	return c.search(ctx, term, available, c.books.SearchExact)
}

// SearchPartial matches the term as a case-insensitive substring, over
// the exact-search fields plus the annotation text.
func (c *Catalog) SearchPartial(ctx context.Context, term string, available *bool) ([]model.Book, error) {
	return c.search(ctx, term, available, c.books.SearchPartial)
}

func (c *Catalog) search(ctx context.Context, term string, available *bool, fn func(context.Context, string, *bool) ([]model.Book, error)) ([]model.Book, error) {
	if strings.TrimSpace(term) == "" {
		return nil, model.NewInvalidArgument("search term must not be empty")
	}

	books, err := fn(ctx, term, available)
	if err != nil {
		return nil, fmt.Errorf("failed to search books: %w", err)
	}
	if len(books) == 0 {
		return nil, model.NewNotFound("no books found")
	}
	return books, nil
}

// Create validates the full record and persists it, returning the book
// with its assigned id.
func (c *Catalog) Create(ctx context.Context, book model.Book) (model.Book, error) {
	if err := validateBook(book); err != nil {
		return model.Book{}, err
	}

	book.ID = ""
	created, err := c.books.Insert(ctx, book)
	if err != nil {
		return model.Book{}, fmt.Errorf("failed to insert book: %w", err)
	}

	c.logger.Info("Catalog service: book created",
		"book_id", created.ID)

	return created, nil
}

// Update replaces the stored record wholesale after full validation.
func (c *Catalog) Update(ctx context.Context, book model.Book) (model.Book, error) {
	if err := validateBookID(book.ID); err != nil {
		return model.Book{}, err
	}
	if err := validateBook(book); err != nil {
		return model.Book{}, err
	}

	updated, err := c.books.Replace(ctx, book)
	if errors.Is(err, model.ErrNotFound) {
		return model.Book{}, model.ErrNotFound
	}
	if err != nil {
		return model.Book{}, fmt.Errorf("failed to replace book: %w", err)
	}

	c.logger.Info("Catalog service: book updated",
		"book_id", updated.ID)

	return updated, nil
}

// UpdatePartial applies only the supplied fields that pass their
// per-field predicates, in one atomic store update. If no supplied
// field passes, the call is rejected.
func (c *Catalog) UpdatePartial(ctx context.Context, id string, patch model.BookPatch) (model.Book, error) {
	if err := validateBookID(id); err != nil {
		return model.Book{}, err
	}

	fields := patchFields(patch)
	if len(fields) == 0 {
		return model.Book{}, model.NewInvalidArgument("no valid fields provided")
	}

	updated, err := c.books.ApplyPartialUpdate(ctx, id, fields)
	if errors.Is(err, model.ErrNotFound) {
		return model.Book{}, model.ErrNotFound
	}
	if err != nil {
		return model.Book{}, fmt.Errorf("failed to apply partial update: %w", err)
	}

	c.logger.Info("Catalog service: book partially updated",
		"book_id", updated.ID)

	return updated, nil
}

// Delete removes the book and returns the deleted record.
func (c *Catalog) Delete(ctx context.Context, id string) (model.Book, error) {
	if err := validateBookID(id); err != nil {
		return model.Book{}, err
	}

	deleted, err := c.books.DeleteByID(ctx, id)
	if errors.Is(err, model.ErrNotFound) {
		return model.Book{}, model.ErrNotFound
	}
	if err != nil {
		return model.Book{}, fmt.Errorf("failed to delete book: %w", err)
	}

	c.logger.Info("Catalog service: book deleted",
		"book_id", id)

	return deleted, nil
}

// UploadCover stores a cover image for an existing book.
func (c *Catalog) UploadCover(ctx context.Context, id string, reader io.Reader, size int64, contentType string) error {
	if err := validateBookID(id); err != nil {
		return err
	}
	if contentType != "image/png" && contentType != "image/jpeg" {
		return model.NewInvalidArgument("cover must be image/png or image/jpeg")
	}

	if _, err := c.books.GetByID(ctx, id); err != nil {
		if errors.Is(err, model.ErrNotFound) {
			return model.ErrNotFound
		}
		return fmt.Errorf("failed to get book: %w", err)
	}

	if err := c.covers.Upload(ctx, id, reader, size, contentType); err != nil {
		return fmt.Errorf("failed to upload cover: %w", err)
	}
	return nil
}

// GetCover returns the cover image stream and content type for a book.
func (c *Catalog) GetCover(ctx context.Context, id string) (io.ReadCloser, string, error) {
	if err := validateBookID(id); err != nil {
		return nil, "", err
	}

	reader, contentType, err := c.covers.Download(ctx, id)
	if errors.Is(err, model.ErrNotFound) {
		return nil, "", model.ErrNotFound
	}
	if err != nil {
		return nil, "", fmt.Errorf("failed to download cover: %w", err)
	}
	return reader, contentType, nil
}

func validateBookID(id string) error {
	if !bookIDPattern.MatchString(id) {
		return model.NewInvalidArgument("invalid book id")
	}
	return nil
}

func validateBook(book model.Book) error {
	valid := strings.TrimSpace(book.Title) != "" &&
		validStringList(book.Authors) &&
		book.Price > 0 &&
		book.PageCount > 0 &&
		strings.TrimSpace(book.Publisher) != "" &&
		strings.TrimSpace(book.Language) != "" &&
		validStringList(book.Genres) &&
		validAbsoluteURI(book.Link) &&
		strings.TrimSpace(book.Annotation) != ""
	if !valid {
		return model.NewInvalidArgument("fields cannot be empty")
	}
	return nil
}

func validStringList(list []string) bool {
	return len(list) > 0 && strings.TrimSpace(list[0]) != ""
}

func validAbsoluteURI(link string) bool {
	if strings.TrimSpace(link) == "" {
		return false
	}
	u, err := url.Parse(link)
	return err == nil && u.IsAbs()
}

// patchFields converts a patch into the set of store field assignments,
// keeping only supplied values that pass their predicates. A supplied
// availability flag is always applied, false included.
func patchFields(patch model.BookPatch) map[string]any {
	fields := make(map[string]any)

	if patch.Title != nil && strings.TrimSpace(*patch.Title) != "" {
		fields[model.BookFieldTitle] = *patch.Title
	}
	if patch.Authors != nil && validStringList(*patch.Authors) {
		fields[model.BookFieldAuthors] = *patch.Authors
	}
	if patch.Price != nil && *patch.Price > 0 {
		fields[model.BookFieldPrice] = *patch.Price
	}
	if patch.PageCount != nil && *patch.PageCount > 0 {
		fields[model.BookFieldPageCount] = *patch.PageCount
	}
	if patch.Publisher != nil && strings.TrimSpace(*patch.Publisher) != "" {
		fields[model.BookFieldPublisher] = *patch.Publisher
	}
	if patch.Language != nil && strings.TrimSpace(*patch.Language) != "" {
		fields[model.BookFieldLanguage] = *patch.Language
	}
	if patch.Genres != nil && validStringList(*patch.Genres) {
		fields[model.BookFieldGenres] = *patch.Genres
	}
	if patch.Link != nil && validAbsoluteURI(*patch.Link) {
		fields[model.BookFieldLink] = *patch.Link
	}
	if patch.IsAvailable != nil {
		fields[model.BookFieldIsAvailable] = *patch.IsAvailable
	}
	if patch.Annotation != nil && strings.TrimSpace(*patch.Annotation) != "" {
		fields[model.BookFieldAnnotation] = *patch.Annotation
	}

	return fields
}
