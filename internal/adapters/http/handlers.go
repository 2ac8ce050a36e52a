package web

import (
	"database/sql"
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"time"

	"github.com/google/uuid"

	"storyboard/internal/application/orchestrators"
	"storyboard/internal/domain/part"
)

// timeNow is a variable for testability.
var timeNow = time.Now

// generateID creates a new UUID string.
func generateID() string {
	return uuid.New().String()
}

// internalError logs the real error and returns a generic message to the client.
// This prevents leaking internal details per OWASP A05.
func internalError(w http.ResponseWriter, err error) {
	slog.Error("internal_error", "error", err.Error())
	jsonError(w, "internal server error", http.StatusInternalServerError)
}

// strictDecode decodes JSON from the request body, rejecting unknown fields.
func strictDecode(r *http.Request, v any) error {
	dec := json.NewDecoder(r.Body)
	dec.DisallowUnknownFields()
	return dec.Decode(v)
}

// writeJSON writes v as a JSON response with the given status.
func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}

// jsonError writes a JSON error body. Every non-2xx API response uses this
// shape so clients can always read .error.
func jsonError(w http.ResponseWriter, message string, status int) {
	writeJSON(w, status, map[string]string{"error": message})
}

// partPayload is the request body for create and update.
type partPayload struct {
	Title               string `json:"title"`
	ImagePath           string `json:"image_path"`
	MovementDescription string `json:"movement_description"`
	Content             string `json:"content"`
}

// partError maps domain errors to HTTP status codes.
func partError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, part.ErrNotFound):
		jsonError(w, "Part not found", http.StatusNotFound)
	case errors.Is(err, part.ErrEmptyTitle),
		errors.Is(err, part.ErrEmptyContent),
		errors.Is(err, part.ErrTitleTooLong),
		errors.Is(err, part.ErrMovementTooLong),
		errors.Is(err, part.ErrContentTooLong),
		errors.Is(err, orchestrators.ErrEmptyReorder):
		jsonError(w, err.Error(), http.StatusBadRequest)
	default:
		internalError(w, err)
	}
}

// handleListParts handles GET /api/parts.
// Always returns a JSON array ordered by order_index, never null.
func handleListParts(w http.ResponseWriter, r *http.Request) {
	parts, err := stores.PartStore.ListAll(r.Context())
	if err != nil {
		internalError(w, err)
		return
	}
	if parts == nil {
		parts = []part.Part{}
	}
	writeJSON(w, http.StatusOK, parts)
}

// handleGetPart handles GET /api/parts/{id}.
func handleGetPart(w http.ResponseWriter, r *http.Request) {
	p, err := stores.PartStore.GetByID(r.Context(), r.PathValue("id"))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			jsonError(w, "Part not found", http.StatusNotFound)
			return
		}
		internalError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, p)
}

// handleCreatePart handles POST /api/parts.
func handleCreatePart(w http.ResponseWriter, r *http.Request) {
	var input partPayload
	if err := strictDecode(r, &input); err != nil {
		jsonError(w, "invalid JSON", http.StatusBadRequest)
		return
	}

	created, err := orchestrators.ExecuteCreatePart(r.Context(), orchestrators.CreatePartInput{
		Title:               input.Title,
		ImagePath:           input.ImagePath,
		MovementDescription: input.MovementDescription,
		Content:             input.Content,
	}, orchestrators.CreatePartDeps{
		PartStore:  stores.PartStore,
		GenerateID: generateID,
		Now:        timeNow,
	})
	if err != nil {
		partError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, created)
}

// handleUpdatePart handles PUT /api/parts/{id}.
func handleUpdatePart(w http.ResponseWriter, r *http.Request) {
	var input partPayload
	if err := strictDecode(r, &input); err != nil {
		jsonError(w, "invalid JSON", http.StatusBadRequest)
		return
	}

	updated, err := orchestrators.ExecuteUpdatePart(r.Context(), orchestrators.UpdatePartInput{
		PartID:              r.PathValue("id"),
		Title:               input.Title,
		ImagePath:           input.ImagePath,
		MovementDescription: input.MovementDescription,
		Content:             input.Content,
	}, orchestrators.UpdatePartDeps{
		PartStore: stores.PartStore,
		Now:       timeNow,
	})
	if err != nil {
		partError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, updated)
}

// handleDeletePart handles DELETE /api/parts/{id}.
func handleDeletePart(w http.ResponseWriter, r *http.Request) {
	err := orchestrators.ExecuteDeletePart(r.Context(), r.PathValue("id"), orchestrators.DeletePartDeps{
		PartStore:   stores.PartStore,
		RemoveImage: removeUpload,
	})
	if err != nil {
		partError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"status": "deleted"})
}

// handleReorderParts handles PUT /api/parts/reorder.
// The body must be {"parts": [{id, order_index}, ...]}; anything else is a
// 400 before any write happens.
func handleReorderParts(w http.ResponseWriter, r *http.Request) {
	var input struct {
		Parts []part.Order `json:"parts"`
	}
	if err := strictDecode(r, &input); err != nil {
		jsonError(w, "body must be {\"parts\": [{id, order_index}]}", http.StatusBadRequest)
		return
	}

	parts, err := orchestrators.ExecuteReorderParts(r.Context(), orchestrators.ReorderPartsInput{
		Orders: input.Parts,
	}, orchestrators.ReorderPartsDeps{
		PartStore: stores.PartStore,
	})
	if err != nil {
		partError(w, err)
		return
	}
	if parts == nil {
		parts = []part.Part{}
	}
	writeJSON(w, http.StatusOK, parts)
}
