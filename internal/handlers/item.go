// internal/handlers/item.go
package handlers

import (
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"mime/multipart"
	"net/http"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/stockroomhq/stockroom-be/internal/core/domain"
	"github.com/stockroomhq/stockroom-be/internal/core/ports"
)

// ItemHandler handles inventory-related HTTP requests
type ItemHandler struct {
	service        ports.ItemService
	logger         *slog.Logger
	maxUploadBytes int64
}

// NewItemHandler creates a new item handler
func NewItemHandler(service ports.ItemService, logger *slog.Logger, maxUploadBytes int64) *ItemHandler {
	if maxUploadBytes <= 0 {
		maxUploadBytes = 32 << 20
	}
	return &ItemHandler{
		service:        service,
		logger:         logger.With(slog.String("handler", "items")),
		maxUploadBytes: maxUploadBytes,
	}
}

// Register handles POST /register. The request is a form (multipart when a
// photo accompanies it) with fields name, description and file field photo.
func (h *ItemHandler) Register(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	upload, ext, err := h.formFile(r, "photo")
	if err != nil {
		h.respondError(w, http.StatusBadRequest, "Invalid request body")
		return
	}
	if upload != nil {
		defer upload.Close()
	}

	name := r.FormValue("name")
	description := r.FormValue("description")

	var reader io.Reader
	if upload != nil {
		reader = upload
	}

	item, err := h.service.Register(ctx, name, description, reader, ext)
	if err != nil {
		if domain.IsValidation(err) {
			h.respondError(w, http.StatusBadRequest, err.Error())
			return
		}

		h.logger.ErrorContext(ctx, "failed to register item",
			slog.String("error", err.Error()))
		h.respondError(w, http.StatusInternalServerError, "Failed to register item")
		return
	}

	h.respondJSON(w, http.StatusCreated, map[string]string{
		"message": "Item registered successfully",
		"id":      item.ID,
	})
}

// ListItems handles GET /inventory
func (h *ItemHandler) ListItems(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	items, err := h.service.List(ctx)
	if err != nil {
		h.logger.ErrorContext(ctx, "failed to list items",
			slog.String("error", err.Error()))
		h.respondError(w, http.StatusInternalServerError, "Failed to list items")
		return
	}

	h.respondJSON(w, http.StatusOK, items)
}

// GetItem handles GET /inventory/{id}
func (h *ItemHandler) GetItem(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	id := r.PathValue("id")

	item, err := h.service.Get(ctx, id)
	if err != nil {
		if errors.Is(err, domain.ErrItemNotFound) {
			h.respondError(w, http.StatusNotFound, "Item not found")
			return
		}

		h.logger.ErrorContext(ctx, "failed to get item",
			slog.String("id", id),
			slog.String("error", err.Error()))
		h.respondError(w, http.StatusInternalServerError, "Failed to retrieve item")
		return
	}

	h.respondJSON(w, http.StatusOK, item)
}

// UpdateItem handles PUT /inventory/{id}. Only the fields present and
// non-empty in the body are applied; a body with neither field responds 200
// with a distinct "no changes requested" message and the unchanged item.
func (h *ItemHandler) UpdateItem(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	id := r.PathValue("id")

	var changes domain.ItemChanges
	if err := json.NewDecoder(r.Body).Decode(&changes); err != nil {
		h.respondError(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	item, err := h.service.Update(ctx, id, changes)
	if err != nil {
		switch {
		case errors.Is(err, domain.ErrNoChanges):
			h.respondJSON(w, http.StatusOK, map[string]interface{}{
				"message": "No changes requested",
				"item":    item,
			})
			return
		case errors.Is(err, domain.ErrItemNotFound):
			h.respondError(w, http.StatusNotFound, "Item not found")
			return
		}

		h.logger.ErrorContext(ctx, "failed to update item",
			slog.String("id", id),
			slog.String("error", err.Error()))
		h.respondError(w, http.StatusInternalServerError, "Failed to update item")
		return
	}

	h.respondJSON(w, http.StatusOK, map[string]interface{}{
		"message": "Item updated successfully",
		"item":    item,
	})
}

// DeleteItem handles DELETE /inventory/{id}
func (h *ItemHandler) DeleteItem(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	id := r.PathValue("id")

	if err := h.service.Delete(ctx, id); err != nil {
		if errors.Is(err, domain.ErrItemNotFound) {
			h.respondError(w, http.StatusNotFound, "Item not found")
			return
		}

		h.logger.ErrorContext(ctx, "failed to delete item",
			slog.String("id", id),
			slog.String("error", err.Error()))
		h.respondError(w, http.StatusInternalServerError, "Failed to delete item")
		return
	}

	h.respondJSON(w, http.StatusOK, map[string]string{
		"message": "Item deleted successfully",
	})
}

// GetPhoto handles GET /inventory/{id}/photo. The response content type is
// always image/jpeg regardless of the uploaded format; this matches the
// documented API contract.
func (h *ItemHandler) GetPhoto(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	id := r.PathValue("id")

	data, err := h.service.GetPhoto(ctx, id)
	if err != nil {
		if errors.Is(err, domain.ErrItemNotFound) || errors.Is(err, domain.ErrPhotoNotFound) {
			h.respondError(w, http.StatusNotFound, "Photo not found")
			return
		}

		h.logger.ErrorContext(ctx, "failed to read photo",
			slog.String("id", id),
			slog.String("error", err.Error()))
		h.respondError(w, http.StatusInternalServerError, "Failed to retrieve photo")
		return
	}

	w.Header().Set("Content-Type", "image/jpeg")
	w.Header().Set("Content-Length", strconv.Itoa(len(data)))
	w.WriteHeader(http.StatusOK)
	if _, err := w.Write(data); err != nil {
		h.logger.ErrorContext(ctx, "failed to write photo response",
			slog.String("error", err.Error()))
	}
}

// ReplacePhoto handles PUT /inventory/{id}/photo
func (h *ItemHandler) ReplacePhoto(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	id := r.PathValue("id")

	upload, ext, err := h.formFile(r, "photo")
	if err != nil || upload == nil {
		h.respondError(w, http.StatusBadRequest, "No file uploaded")
		return
	}
	defer upload.Close()

	if err := h.service.ReplacePhoto(ctx, id, upload, ext); err != nil {
		if errors.Is(err, domain.ErrItemNotFound) {
			h.respondError(w, http.StatusNotFound, "Item not found")
			return
		}

		h.logger.ErrorContext(ctx, "failed to replace photo",
			slog.String("id", id),
			slog.String("error", err.Error()))
		h.respondError(w, http.StatusInternalServerError, "Failed to update photo")
		return
	}

	h.respondJSON(w, http.StatusOK, map[string]string{
		"message": "Photo updated successfully",
	})
}

// Search handles GET and POST /search. Lookup is by exact id only; the
// response is plain text.
func (h *ItemHandler) Search(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	id := r.FormValue("id")
	if id == "" {
		h.respondText(w, http.StatusBadRequest, "Bad Request")
		return
	}

	includePhoto := false
	if v := r.FormValue("includePhoto"); v != "" {
		if parsed, err := strconv.ParseBool(v); err == nil {
			includePhoto = parsed
		}
	}

	result, err := h.service.Search(ctx, id, includePhoto)
	if err != nil {
		if errors.Is(err, domain.ErrItemNotFound) {
			h.respondText(w, http.StatusNotFound, "Not Found")
			return
		}

		h.logger.ErrorContext(ctx, "failed to search item",
			slog.String("id", id),
			slog.String("error", err.Error()))
		h.respondText(w, http.StatusInternalServerError, "Internal Server Error")
		return
	}

	var b strings.Builder
	b.WriteString("Name: " + result.Name + "\n")
	b.WriteString("Description: " + result.Description)
	if result.PhotoURL != "" {
		b.WriteString("\nPhoto: " + result.PhotoURL)
	}

	h.respondText(w, http.StatusOK, b.String())
}

// NotFound is the fallback for unmatched routes.
func NotFound(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	w.WriteHeader(http.StatusNotFound)
	_, _ = w.Write([]byte("Not Found"))
}

// formFile extracts an optional multipart file field. A plain form request
// without a file yields (nil, "", nil).
func (h *ItemHandler) formFile(r *http.Request, field string) (multipart.File, string, error) {
	ct := r.Header.Get("Content-Type")
	if !strings.HasPrefix(ct, "multipart/form-data") {
		if err := r.ParseForm(); err != nil {
			return nil, "", err
		}
		return nil, "", nil
	}

	if err := r.ParseMultipartForm(h.maxUploadBytes); err != nil {
		return nil, "", err
	}

	file, header, err := r.FormFile(field)
	if err != nil {
		if errors.Is(err, http.ErrMissingFile) {
			return nil, "", nil
		}
		return nil, "", err
	}

	return file, filepath.Ext(header.Filename), nil
}

// Helper methods

func (h *ItemHandler) respondJSON(w http.ResponseWriter, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)

	if err := json.NewEncoder(w).Encode(data); err != nil {
		h.logger.Error("failed to encode JSON response",
			slog.String("error", err.Error()))
	}
}

func (h *ItemHandler) respondError(w http.ResponseWriter, status int, message string) {
	h.respondJSON(w, status, map[string]string{"error": message})
}

func (h *ItemHandler) respondText(w http.ResponseWriter, status int, body string) {
	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	w.WriteHeader(status)
	_, _ = w.Write([]byte(body))
}
