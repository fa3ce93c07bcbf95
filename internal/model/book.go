package model

import "context"

// BookStore defines persistence operations for catalog books. The
// available filter, when non-nil, is applied conjunctively to every
// retrieval. Mutations on an absent id return ErrNotFound.
type BookStore interface {
	GetAll(ctx context.Context, available *bool) ([]Book, error)
	GetByID(ctx context.Context, id string) (Book, error)
	Insert(ctx context.Context, book Book) (Book, error)
	Replace(ctx context.Context, book Book) (Book, error)
	DeleteByID(ctx context.Context, id string) (Book, error)
	ApplyPartialUpdate(ctx context.Context, id string, fields map[string]any) (Book, error)
	SearchExact(ctx context.Context, term string, available *bool) ([]Book, error)
	SearchPartial(ctx context.Context, term string, available *bool) ([]Book, error)
}

// Book represents a catalog record. ID is the store-assigned document id
// in its 24-hex-digit string form.
type Book struct {
	ID          string
	Title       string
	Authors     []string
	Price       float64
	PageCount   int
	Publisher   string
	Language    string
	Genres      []string
	Link        string
	IsAvailable bool
	Annotation  string
}

// BookPatch carries the caller-supplied fields of a partial update.
// A nil field means "not supplied"; note IsAvailable distinguishes a
// supplied false from an absent value.
type BookPatch struct {
	Title       *string
	Authors     *[]string
	Price       *float64
	PageCount   *int
	Publisher   *string
	Language    *string
	Genres      *[]string
	Link        *string
	IsAvailable *bool
	Annotation  *string
}

// Canonical field names shared by the partial-update field set and the
// document store.
const (
	BookFieldTitle       = "title"
	BookFieldAuthors     = "authors"
	BookFieldPrice       = "price"
	BookFieldPageCount   = "pageCount"
	BookFieldPublisher   = "publisher"
	BookFieldLanguage    = "language"
	BookFieldGenres      = "genres"
	BookFieldLink        = "link"
	BookFieldIsAvailable = "isAvailable"
	BookFieldAnnotation  = "annotation"
)
