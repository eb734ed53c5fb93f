package http

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/httplog/v2"
	"github.com/go-chi/render"
	"github.com/go-playground/validator/v10"
	"github.com/vadimbarashkov/nhood/internal/entity"
)

func handlePing(w http.ResponseWriter, r *http.Request) {
	w.WriteHeader(http.StatusOK)
	fmt.Fprint(w, "pong")
}

func handleRoot(info ServiceInfo) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		render.PlainText(w, r, info.Name+":"+info.Version)
	}
}

type entryUseCase[E any] interface {
	FindAll(ctx context.Context) ([]*E, error)
	FindByID(ctx context.Context, id int64) (*E, error)
	Create(ctx context.Context, e *E) (*E, error)
	Modify(ctx context.Context, id int64, incoming *E) (*E, error)
	Delete(ctx context.Context, id int64) (*E, error)
}

type entryRequest[E any] interface {
	toEntity() *E
}

// entryHandler serves one resource. Failed requests are answered with an empty
// body; the reason only goes to the request log.
type entryHandler[E any, Req entryRequest[E], Resp any] struct {
	resource   string
	useCase    entryUseCase[E]
	validate   *validator.Validate
	idOf       func(*E) int64
	toResponse func(*E) Resp
}

func (h *entryHandler[E, Req, Resp]) findAll(w http.ResponseWriter, r *http.Request) {
	entries, err := h.useCase.FindAll(r.Context())
	if err != nil {
		httplog.LogEntrySetField(r.Context(), "err", slog.AnyValue(err))
		w.WriteHeader(http.StatusInternalServerError)
		return
	}

	resp := make([]Resp, 0, len(entries))
	for _, e := range entries {
		resp = append(resp, h.toResponse(e))
	}

	render.Status(r, http.StatusOK)
	render.JSON(w, r, resp)
}

func (h *entryHandler[E, Req, Resp]) findByID(w http.ResponseWriter, r *http.Request) {
	id, ok := parseID(w, r)
	if !ok {
		return
	}

	e, err := h.useCase.FindByID(r.Context(), id)
	if err != nil {
		writeError(w, r, err)
		return
	}

	render.Status(r, http.StatusOK)
	render.JSON(w, r, h.toResponse(e))
}

func (h *entryHandler[E, Req, Resp]) create(w http.ResponseWriter, r *http.Request) {
	incoming, ok := h.decode(w, r)
	if !ok {
		return
	}

	e, err := h.useCase.Create(r.Context(), incoming)
	if err != nil {
		writeError(w, r, err)
		return
	}

	w.Header().Set("Location", fmt.Sprintf("/%s/%d", h.resource, h.idOf(e)))
	w.WriteHeader(http.StatusCreated)
}

func (h *entryHandler[E, Req, Resp]) modify(w http.ResponseWriter, r *http.Request) {
	id, ok := parseID(w, r)
	if !ok {
		return
	}

	incoming, ok := h.decode(w, r)
	if !ok {
		return
	}

	if _, err := h.useCase.Modify(r.Context(), id, incoming); err != nil {
		writeError(w, r, err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

func (h *entryHandler[E, Req, Resp]) delete(w http.ResponseWriter, r *http.Request) {
	id, ok := parseID(w, r)
	if !ok {
		return
	}

	if _, err := h.useCase.Delete(r.Context(), id); err != nil {
		writeError(w, r, err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

// decode reads and validates the request body. It answers 400 itself and
// reports false when the body is missing, malformed or invalid.
func (h *entryHandler[E, Req, Resp]) decode(w http.ResponseWriter, r *http.Request) (*E, bool) {
	var req Req

	if err := render.DecodeJSON(r.Body, &req); err != nil {
		httplog.LogEntrySetField(r.Context(), "err", slog.AnyValue(err))
		w.WriteHeader(http.StatusBadRequest)
		return nil, false
	}

	if err := h.validate.Struct(req); err != nil {
		httplog.LogEntrySetField(r.Context(), "validation_errors", slog.AnyValue(getValidationErrors(err)))
		w.WriteHeader(http.StatusBadRequest)
		return nil, false
	}

	return req.toEntity(), true
}

func parseID(w http.ResponseWriter, r *http.Request) (int64, bool) {
	id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil {
		httplog.LogEntrySetField(r.Context(), "err", slog.AnyValue(err))
		w.WriteHeader(http.StatusBadRequest)
		return 0, false
	}

	return id, true
}

func writeError(w http.ResponseWriter, r *http.Request, err error) {
	if errors.Is(err, entity.ErrEntryNotFound) {
		w.WriteHeader(http.StatusNotFound)
		return
	}

	httplog.LogEntrySetField(r.Context(), "err", slog.AnyValue(err))
	w.WriteHeader(http.StatusInternalServerError)
}
