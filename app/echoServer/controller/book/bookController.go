package book

import (
	"log/slog"
	"net/http"
	"strconv"

	"github.com/go-playground/validator/v10"
	"github.com/labstack/echo/v4"

	"bookinventory/app/echoServer/authctx"
	"bookinventory/model"
	inventorysvc "bookinventory/service/inventory"
)

type Controller struct {
	Svc inventorysvc.Service
	V   *validator.Validate
	Log *slog.Logger
}

func bookID(c echo.Context) (int64, bool) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	return id, err == nil && id > 0
}

// mapErr turns service error codes into JSON responses; uncoded errors are
// logged and become a 500.
func (h *Controller) mapErr(c echo.Context, op string, err error) error {
	switch inventorysvc.Code(err) {
	case inventorysvc.ErrBadInput:
		return c.JSON(http.StatusBadRequest, echo.Map{"message": "bad input"})
	case inventorysvc.ErrISBNTaken:
		return c.JSON(http.StatusConflict, echo.Map{"message": "isbn already registered"})
	case inventorysvc.ErrForbidden:
		return c.JSON(http.StatusForbidden, echo.Map{"message": "forbidden"})
	case inventorysvc.ErrBookNotFound:
		return c.JSON(http.StatusNotFound, echo.Map{"message": "book not found"})
	case inventorysvc.ErrNoCopies:
		return c.JSON(http.StatusConflict, echo.Map{"message": "no copies available"})
	}
	h.Log.Error(op+" error", "err", err)
	return c.JSON(http.StatusInternalServerError, echo.Map{"message": "internal error"})
}

// POST /v1/books
func (h *Controller) Create(c echo.Context) error {
	var req CreateBookReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"message": "invalid json"})
	}
	if err := h.V.Struct(req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"message": "validation error"})
	}
	b, err := h.Svc.Create(c.Request().Context(), authctx.Actor(c), inventorysvc.CreateInput{
		ISBN:            req.ISBN,
		Title:           req.Title,
		Author:          req.Author,
		AvailableCopies: req.AvailableCopies,
	})
	if err != nil {
		return h.mapErr(c, "book create", err)
	}
	return c.JSON(http.StatusCreated, b)
}

// GET /v1/books
func (h *Controller) List(c echo.Context) error {
	rows, err := h.Svc.List(c.Request().Context())
	if err != nil {
		return h.mapErr(c, "book list", err)
	}
	if rows == nil {
		rows = []model.Book{}
	}
	return c.JSON(http.StatusOK, echo.Map{"data": rows})
}

// GET /v1/books/:id
func (h *Controller) Detail(c echo.Context) error {
	id, ok := bookID(c)
	if !ok {
		return c.JSON(http.StatusBadRequest, echo.Map{"message": "invalid id"})
	}
	b, err := h.Svc.Get(c.Request().Context(), id)
	if err != nil {
		return h.mapErr(c, "book detail", err)
	}
	return c.JSON(http.StatusOK, b)
}

// PATCH /v1/books/:id  (admin, staff)
func (h *Controller) Update(c echo.Context) error {
	id, ok := bookID(c)
	if !ok {
		return c.JSON(http.StatusBadRequest, echo.Map{"message": "invalid id"})
	}
	var req UpdateBookReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"message": "invalid json"})
	}
	if err := h.V.Struct(req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"message": "validation error"})
	}
	b, err := h.Svc.Update(c.Request().Context(), authctx.Actor(c), id, inventorysvc.Patch{
		ISBN:            req.ISBN,
		Title:           req.Title,
		Author:          req.Author,
		AvailableCopies: req.AvailableCopies,
		OwnerID:         req.OwnerID,
	})
	if err != nil {
		return h.mapErr(c, "book update", err)
	}
	return c.JSON(http.StatusOK, b)
}

// DELETE /v1/books/:id  (admin)
func (h *Controller) Delete(c echo.Context) error {
	id, ok := bookID(c)
	if !ok {
		return c.JSON(http.StatusBadRequest, echo.Map{"message": "invalid id"})
	}
	if err := h.Svc.Delete(c.Request().Context(), authctx.Actor(c), id); err != nil {
		return h.mapErr(c, "book delete", err)
	}
	return c.NoContent(http.StatusNoContent)
}

// PATCH /v1/books/:id/checkout  (admin, staff)
func (h *Controller) Checkout(c echo.Context) error {
	id, ok := bookID(c)
	if !ok {
		return c.JSON(http.StatusBadRequest, echo.Map{"message": "invalid id"})
	}
	if err := h.Svc.Checkout(c.Request().Context(), authctx.Actor(c), id); err != nil {
		return h.mapErr(c, "book checkout", err)
	}
	return c.JSON(http.StatusOK, echo.Map{"message": "checked out"})
}

// PATCH /v1/books/:id/return
func (h *Controller) Return(c echo.Context) error {
	id, ok := bookID(c)
	if !ok {
		return c.JSON(http.StatusBadRequest, echo.Map{"message": "invalid id"})
	}
	if err := h.Svc.Return(c.Request().Context(), authctx.Actor(c), id); err != nil {
		return h.mapErr(c, "book return", err)
	}
	return c.JSON(http.StatusOK, echo.Map{"message": "returned"})
}

// GET /v1/books/:id/checkouts
func (h *Controller) Checkouts(c echo.Context) error {
	id, ok := bookID(c)
	if !ok {
		return c.JSON(http.StatusBadRequest, echo.Map{"message": "invalid id"})
	}
	rows, err := h.Svc.Checkouts(c.Request().Context(), authctx.Actor(c), id)
	if err != nil {
		return h.mapErr(c, "book checkouts", err)
	}
	return c.JSON(http.StatusOK, echo.Map{"data": rows})
}
