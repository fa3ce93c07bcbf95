package mongo

import (
	"context"
	"errors"
	"fmt"
	"regexp"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/nkosarev/bookstore-server/internal/model"
)

var _ model.BookStore = (*BookRepository)(nil)

type BookRepository struct {
	coll *mongo.Collection
}

func NewBookRepository(coll *mongo.Collection) *BookRepository {
	return &BookRepository{
		coll: coll,
	}
}

// bookDoc is the persisted shape of a book. Mapping between it and
// model.Book is explicit so field handling stays auditable.
type bookDoc struct {
	ID          primitive.ObjectID `bson:"_id,omitempty"`
	Title       string             `bson:"title"`
	Authors     []string           `bson:"authors"`
	Price       float64            `bson:"price"`
	PageCount   int                `bson:"pageCount"`
	Publisher   string             `bson:"publisher"`
	Language    string             `bson:"language"`
	Genres      []string           `bson:"genres"`
	Link        string             `bson:"link"`
	IsAvailable bool               `bson:"isAvailable"`
	Annotation  string             `bson:"annotation"`
}

func docFromBook(book model.Book) (bookDoc, error) {
	doc := bookDoc{
		Title:       book.Title,
		Authors:     book.Authors,
		Price:       book.Price,
		PageCount:   book.PageCount,
		Publisher:   book.Publisher,
		Language:    book.Language,
		Genres:      book.Genres,
		Link:        book.Link,
		IsAvailable: book.IsAvailable,
		Annotation:  book.Annotation,
	}
	if book.ID != "" {
		oid, err := primitive.ObjectIDFromHex(book.ID)
		if err != nil {
			return bookDoc{}, model.NewInvalidArgument("invalid book id")
		}
		doc.ID = oid
	}
	return doc, nil
}

func (d bookDoc) toBook() model.Book {
	return model.Book{
		ID:          d.ID.Hex(),
		Title:       d.Title,
		Authors:     d.Authors,
		Price:       d.Price,
		PageCount:   d.PageCount,
		Publisher:   d.Publisher,
		Language:    d.Language,
		Genres:      d.Genres,
		Link:        d.Link,
		IsAvailable: d.IsAvailable,
		Annotation:  d.Annotation,
	}
}

func idFilter(id string) (bson.M, error) {
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return nil, model.NewInvalidArgument("invalid book id")
	}
	return bson.M{"_id": oid}, nil
}

// availabilityFilter returns the base filter, extended with the
// availability condition when the caller supplied one.
func availabilityFilter(available *bool) bson.M {
	filter := bson.M{}
	if available != nil {
		filter["isAvailable"] = *available
	}
	return filter
}

// Fields searched by the exact matcher: whole-field, case-insensitive.
// Array fields match element-wise.
var exactSearchFields = []string{"title", "language", "publisher", "authors", "genres"}

// Fields searched by the partial matcher additionally include the
// annotation text.
var partialSearchFields = []string{"title", "language", "publisher", "annotation", "authors", "genres"}

// searchFilter builds a case-insensitive regex $or over the given
// fields, conjoined with the optional availability condition.
func searchFilter(term string, fields []string, anchored bool, available *bool) bson.M {
	pattern := regexp.QuoteMeta(term)
	if anchored {
		pattern = "^" + pattern + "$"
	}
	re := primitive.Regex{Pattern: pattern, Options: "i"}

	or := make(bson.A, 0, len(fields))
	for _, f := range fields {
		or = append(or, bson.M{f: re})
	}

	filter := availabilityFilter(available)
	filter["$or"] = or
	return filter
}

func (r *BookRepository) find(ctx context.Context, filter bson.M) ([]model.Book, error) {
	cursor, err := r.coll.Find(ctx, filter)
	if err != nil {
		return nil, fmt.Errorf("failed to query books: %w", err)
	}

	var docs []bookDoc
	if err := cursor.All(ctx, &docs); err != nil {
		return nil, fmt.Errorf("failed to decode books: %w", err)
	}

	books := make([]model.Book, 0, len(docs))
	for _, d := range docs {
		books = append(books, d.toBook())
	}
	return books, nil
}

func (r *BookRepository) GetAll(ctx context.Context, available *bool) ([]model.Book, error) {
	return r.find(ctx, availabilityFilter(available))
}

func (r *BookRepository) GetByID(ctx context.Context, id string) (model.Book, error) {
	filter, err := idFilter(id)
	if err != nil {
		return model.Book{}, err
	}

	var doc bookDoc
	err = r.coll.FindOne(ctx, filter).Decode(&doc)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return model.Book{}, model.ErrNotFound
		}
		return model.Book{}, fmt.Errorf("failed to get book by id: %w", err)
	}

	return doc.toBook(), nil
}

func (r *BookRepository) Insert(ctx context.Context, book model.Book) (model.Book, error) {
	doc, err := docFromBook(book)
	if err != nil {
		return model.Book{}, err
	}

	result, err := r.coll.InsertOne(ctx, doc)
	if err != nil {
		return model.Book{}, fmt.Errorf("failed to insert book: %w", err)
	}

	oid, ok := result.InsertedID.(primitive.ObjectID)
	if !ok {
		return model.Book{}, fmt.Errorf("unexpected inserted id type %T", result.InsertedID)
	}
	doc.ID = oid

	return doc.toBook(), nil
}

func (r *BookRepository) Replace(ctx context.Context, book model.Book) (model.Book, error) {
	doc, err := docFromBook(book)
	if err != nil {
		return model.Book{}, err
	}

	opts := options.FindOneAndReplace().SetReturnDocument(options.After)

	var replaced bookDoc
	err = r.coll.FindOneAndReplace(ctx, bson.M{"_id": doc.ID}, doc, opts).Decode(&replaced)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return model.Book{}, model.ErrNotFound
		}
		return model.Book{}, fmt.Errorf("failed to replace book: %w", err)
	}

	return replaced.toBook(), nil
}

func (r *BookRepository) DeleteByID(ctx context.Context, id string) (model.Book, error) {
	filter, err := idFilter(id)
	if err != nil {
		return model.Book{}, err
	}

	var deleted bookDoc
	err = r.coll.FindOneAndDelete(ctx, filter).Decode(&deleted)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return model.Book{}, model.ErrNotFound
		}
		return model.Book{}, fmt.Errorf("failed to delete book: %w", err)
	}

	return deleted.toBook(), nil
}

// ApplyPartialUpdate sets exactly the supplied fields in one atomic
// update and returns the resulting document.
func (r *BookRepository) ApplyPartialUpdate(ctx context.Context, id string, fields map[string]any) (model.Book, error) {
	filter, err := idFilter(id)
	if err != nil {
		return model.Book{}, err
	}

	set := bson.M{}
	for k, v := range fields {
		set[k] = v
	}

	opts := options.FindOneAndUpdate().SetReturnDocument(options.After)

	var updated bookDoc
	err = r.coll.FindOneAndUpdate(ctx, filter, bson.M{"$set": set}, opts).Decode(&updated)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return model.Book{}, model.ErrNotFound
		}
		return model.Book{}, fmt.Errorf("failed to apply partial update: %w", err)
	}

	return updated.toBook(), nil
}

func (r *BookRepository) SearchExact(ctx context.Context, term string, available *bool) ([]model.Book, error) {
	return r.find(ctx, searchFilter(term, exactSearchFields, true, available))
}

func (r *BookRepository) SearchPartial(ctx context.Context, term string, available *bool) ([]model.Book, error) {
	return r.find(ctx, searchFilter(term, partialSearchFields, false, available))
}
