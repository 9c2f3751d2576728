package handler

import (
	"encoding/json"
	"net/http"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"

	"github.com/warungpos/pos-service/internal/apperr"
	"github.com/warungpos/pos-service/internal/category"
	"github.com/warungpos/pos-service/internal/category/dto"
	"github.com/warungpos/pos-service/internal/platform/logger"
	"github.com/warungpos/pos-service/internal/server/respond"
)

type CategoryHandler struct {
	uc     category.UseCase
	logger logger.Logger
}

func NewCategoryHandler(uc category.UseCase, log logger.Logger) *CategoryHandler {
	return &CategoryHandler{
		uc:     uc,
		logger: log,
	}
}

func (h *CategoryHandler) Routes(r chi.Router) {
	r.Get("/", h.List)
	r.Post("/", h.Create)
	r.Get("/{id}", h.Get)
	r.Put("/{id}", h.Update)
	r.Delete("/{id}", h.Delete)
}

func (h *CategoryHandler) List(w http.ResponseWriter, r *http.Request) {
	categories, err := h.uc.ListCategories(r.Context())
	if err != nil {
		h.logger.Error("failed to list categories", zap.Error(err))
		respond.Error(w, err)
		return
	}
	respond.JSON(w, http.StatusOK, categories)
}

func (h *CategoryHandler) Get(w http.ResponseWriter, r *http.Request) {
	c, err := h.uc.GetCategory(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		respond.Error(w, err)
		return
	}
	respond.JSON(w, http.StatusOK, c)
}

func (h *CategoryHandler) Create(w http.ResponseWriter, r *http.Request) {
	var input dto.CreateCategoryInput
	if err := json.NewDecoder(r.Body).Decode(&input); err != nil {
		respond.Error(w, apperr.Validation("invalid request body"))
		return
	}

	c, err := h.uc.CreateCategory(r.Context(), &input)
	if err != nil {
		h.logger.Error("failed to create category", zap.Error(err))
		respond.Error(w, err)
		return
	}
	respond.JSON(w, http.StatusCreated, c)
}

func (h *CategoryHandler) Update(w http.ResponseWriter, r *http.Request) {
	var input dto.UpdateCategoryInput
	if err := json.NewDecoder(r.Body).Decode(&input); err != nil {
		respond.Error(w, apperr.Validation("invalid request body"))
		return
	}
	input.ID = chi.URLParam(r, "id")

	c, err := h.uc.UpdateCategory(r.Context(), &input)
	if err != nil {
		h.logger.Error("failed to update category", zap.Error(err))
		respond.Error(w, err)
		return
	}
	respond.JSON(w, http.StatusOK, c)
}

func (h *CategoryHandler) Delete(w http.ResponseWriter, r *http.Request) {
	if err := h.uc.DeleteCategory(r.Context(), chi.URLParam(r, "id")); err != nil {
		h.logger.Error("failed to delete category", zap.Error(err))
		respond.Error(w, err)
		return
	}
	respond.JSON(w, http.StatusOK, map[string]bool{"ok": true})
}
