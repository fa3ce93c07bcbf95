package handler

import (
	"context"
	"io"
	"net/http"
	"strconv"

	"github.com/labstack/echo/v4"

	"github.com/nkosarev/bookstore-server/internal/logger"
	"github.com/nkosarev/bookstore-server/internal/model"
)

// CatalogService is the book surface consumed by the handler.
type CatalogService interface {
	GetAll(ctx context.Context, available *bool) ([]model.Book, error)
	GetByID(ctx context.Context, id string) (model.Book, error)
	Exists(ctx context.Context, id string) (bool, error)
	SearchExact(ctx context.Context, term string, available *bool) ([]model.Book, error)
	SearchPartial(ctx context.Context, term string, available *bool) ([]model.Book, error)
	Create(ctx context.Context, book model.Book) (model.Book, error)
	Update(ctx context.Context, book model.Book) (model.Book, error)
	UpdatePartial(ctx context.Context, id string, patch model.BookPatch) (model.Book, error)
	Delete(ctx context.Context, id string) (model.Book, error)
	UploadCover(ctx context.Context, id string, reader io.Reader, size int64, contentType string) error
	GetCover(ctx context.Context, id string) (io.ReadCloser, string, error)
}

// Book handles catalog requests.
type Book struct {
	service CatalogService
	logger  *logger.Logger
}

func NewBook(service CatalogService, logger *logger.Logger) *Book {
	return &Book{service: service, logger: logger}
}

type bookRequest struct {
	Title       string   `json:"title"`
	Authors     []string `json:"authors"`
	Price       float64  `json:"price"`
	PageCount   int      `json:"pageCount"`
	Publisher   string   `json:"publisher"`
	Language    string   `json:"language"`
	Genres      []string `json:"genres"`
	Link        string   `json:"link"`
	IsAvailable bool     `json:"isAvailable"`
	Annotation  string   `json:"annotation"`
}

type bookPatchRequest struct {
	Title       *string   `json:"title"`
	Authors     *[]string `json:"authors"`
	Price       *float64  `json:"price"`
	PageCount   *int      `json:"pageCount"`
	Publisher   *string   `json:"publisher"`
	Language    *string   `json:"language"`
	Genres      *[]string `json:"genres"`
	Link        *string   `json:"link"`
	IsAvailable *bool     `json:"isAvailable"`
	Annotation  *string   `json:"annotation"`
}

type bookResponse struct {
	ID          string   `json:"id"`
	Title       string   `json:"title"`
	Authors     []string `json:"authors"`
	Price       float64  `json:"price"`
	PageCount   int      `json:"pageCount"`
	Publisher   string   `json:"publisher"`
	Language    string   `json:"language"`
	Genres      []string `json:"genres"`
	Link        string   `json:"link"`
	IsAvailable bool     `json:"isAvailable"`
	Annotation  string   `json:"annotation"`
}

func (r bookRequest) toBook(id string) model.Book {
	return model.Book{
		ID:          id,
		Title:       r.Title,
		Authors:     r.Authors,
		Price:       r.Price,
		PageCount:   r.PageCount,
		Publisher:   r.Publisher,
		Language:    r.Language,
		Genres:      r.Genres,
		Link:        r.Link,
		IsAvailable: r.IsAvailable,
		Annotation:  r.Annotation,
	}
}

func (r bookPatchRequest) toPatch() model.BookPatch {
	return model.BookPatch{
		Title:       r.Title,
		Authors:     r.Authors,
		Price:       r.Price,
		PageCount:   r.PageCount,
		Publisher:   r.Publisher,
		Language:    r.Language,
		Genres:      r.Genres,
		Link:        r.Link,
		IsAvailable: r.IsAvailable,
		Annotation:  r.Annotation,
	}
}

func toBookResponse(b model.Book) bookResponse {
	return bookResponse{
		ID:          b.ID,
		Title:       b.Title,
		Authors:     b.Authors,
		Price:       b.Price,
		PageCount:   b.PageCount,
		Publisher:   b.Publisher,
		Language:    b.Language,
		Genres:      b.Genres,
		Link:        b.Link,
		IsAvailable: b.IsAvailable,
		Annotation:  b.Annotation,
	}
}

func toBookResponses(books []model.Book) []bookResponse {
	out := make([]bookResponse, 0, len(books))
	for _, b := range books {
		out = append(out, toBookResponse(b))
	}
	return out
}

// availabilityParam parses the optional "available" query parameter.
func availabilityParam(c echo.Context) (*bool, error) {
	raw := c.QueryParam("available")
	if raw == "" {
		return nil, nil
	}
	v, err := strconv.ParseBool(raw)
	if err != nil {
		return nil, model.NewInvalidArgument("available must be a boolean")
	}
	return &v, nil
}

// GetAll handles GET /api/books.
func (h *Book) GetAll(c echo.Context) error {
	available, err := availabilityParam(c)
	if err != nil {
		return handleError(c, err)
	}

	books, err := h.service.GetAll(c.Request().Context(), available)
	if err != nil {
		return handleError(c, err)
	}

	return c.JSON(http.StatusOK, toBookResponses(books))
}

// Search handles GET /api/books/search. The "exact" query parameter
// selects whole-field matching; the default is substring matching.
func (h *Book) Search(c echo.Context) error {
	available, err := availabilityParam(c)
	if err != nil {
		return handleError(c, err)
	}

	term := c.QueryParam("term")
	search := h.service.SearchPartial
	if exact, _ := strconv.ParseBool(c.QueryParam("exact")); exact {
		search = h.service.SearchExact
	}

	books, err := search(c.Request().Context(), term, available)
	if err != nil {
		return handleError(c, err)
	}

	return c.JSON(http.StatusOK, toBookResponses(books))
}

// GetByID handles GET /api/books/:id.
func (h *Book) GetByID(c echo.Context) error {
	book, err := h.service.GetByID(c.Request().Context(), c.Param("id"))
	if err != nil {
		return handleError(c, err)
	}

	return c.JSON(http.StatusOK, toBookResponse(book))
}

// Head handles HEAD /api/books/:id as a bodyless existence check.
func (h *Book) Head(c echo.Context) error {
	exists, err := h.service.Exists(c.Request().Context(), c.Param("id"))
	if err != nil {
		return handleError(c, err)
	}
	if !exists {
		return c.NoContent(http.StatusNotFound)
	}
	return c.NoContent(http.StatusOK)
}

// Create handles POST /api/books.
func (h *Book) Create(c echo.Context) error {
	var req bookRequest
	if err := c.Bind(&req); err != nil {
		return handleError(c, model.NewInvalidArgument("invalid request body"))
	}

	created, err := h.service.Create(c.Request().Context(), req.toBook(""))
	if err != nil {
		h.logger.Error("Book handler: create failed",
			"error", err.Error())
		return handleError(c, err)
	}

	return c.JSON(http.StatusCreated, toBookResponse(created))
}

// Update handles PUT /api/books/:id as a full replace.
func (h *Book) Update(c echo.Context) error {
	var req bookRequest
	if err := c.Bind(&req); err != nil {
		return handleError(c, model.NewInvalidArgument("invalid request body"))
	}

	updated, err := h.service.Update(c.Request().Context(), req.toBook(c.Param("id")))
	if err != nil {
		return handleError(c, err)
	}

	return c.JSON(http.StatusOK, toBookResponse(updated))
}

// UpdatePartial handles PATCH /api/books/:id.
func (h *Book) UpdatePartial(c echo.Context) error {
	var req bookPatchRequest
	if err := c.Bind(&req); err != nil {
		return handleError(c, model.NewInvalidArgument("invalid request body"))
	}

	updated, err := h.service.UpdatePartial(c.Request().Context(), c.Param("id"), req.toPatch())
	if err != nil {
		return handleError(c, err)
	}

	return c.JSON(http.StatusOK, toBookResponse(updated))
}

// Delete handles DELETE /api/books/:id and returns the deleted record.
func (h *Book) Delete(c echo.Context) error {
	deleted, err := h.service.Delete(c.Request().Context(), c.Param("id"))
	if err != nil {
		return handleError(c, err)
	}

	return c.JSON(http.StatusOK, toBookResponse(deleted))
}

// UploadCover handles PUT /api/books/:id/cover.
func (h *Book) UploadCover(c echo.Context) error {
	req := c.Request()

	err := h.service.UploadCover(req.Context(), c.Param("id"), req.Body, req.ContentLength, req.Header.Get(echo.HeaderContentType))
	if err != nil {
		return handleError(c, err)
	}

	return c.NoContent(http.StatusNoContent)
}

// GetCover handles GET /api/books/:id/cover.
func (h *Book) GetCover(c echo.Context) error {
	reader, contentType, err := h.service.GetCover(c.Request().Context(), c.Param("id"))
	if err != nil {
		return handleError(c, err)
	}
	defer reader.Close()

	return c.Stream(http.StatusOK, contentType, reader)
}
