package web

import (
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"os"
	"path/filepath"
	"strings"

	"github.com/google/uuid"
)

// maxUploadBytes bounds an image upload (10 MB).
const maxUploadBytes = 10 << 20

const uploadURLPrefix = "/uploads/"

// allowedImageTypes maps accepted file extensions to the content types an
// upload may declare for them. Both the extension and the part's
// Content-Type must pass.
var allowedImageTypes = map[string][]string{
	".jpg":  {"image/jpeg"},
	".jpeg": {"image/jpeg"},
	".png":  {"image/png"},
	".gif":  {"image/gif"},
	".webp": {"image/webp"},
}

// handleUpload handles POST /api/upload.
// Expects multipart/form-data with an "image" file field. The stored filename
// is a fresh UUID so uploads never collide and client names never reach disk.
func handleUpload(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, maxUploadBytes)

	file, header, err := r.FormFile("image")
	if err != nil {
		var maxErr *http.MaxBytesError
		if errors.As(err, &maxErr) {
			jsonError(w, "image exceeds the 10MB limit", http.StatusBadRequest)
			return
		}
		jsonError(w, "multipart field 'image' is required", http.StatusBadRequest)
		return
	}
	defer file.Close()

	ext := strings.ToLower(filepath.Ext(header.Filename))
	contentTypes, ok := allowedImageTypes[ext]
	if !ok {
		jsonError(w, "only jpeg, png, gif and webp images are accepted", http.StatusBadRequest)
		return
	}
	declared := header.Header.Get("Content-Type")
	if !typeAllowed(declared, contentTypes) {
		jsonError(w, fmt.Sprintf("content type %q does not match a %s image", declared, ext), http.StatusBadRequest)
		return
	}

	filename := uuid.New().String() + ext
	destPath := filepath.Join(cfg.UploadDir, filename)

	dest, err := os.Create(destPath)
	if err != nil {
		internalError(w, err)
		return
	}
	defer dest.Close()

	if _, err := io.Copy(dest, file); err != nil {
		os.Remove(destPath)
		var maxErr *http.MaxBytesError
		if errors.As(err, &maxErr) {
			jsonError(w, "image exceeds the 10MB limit", http.StatusBadRequest)
			return
		}
		internalError(w, err)
		return
	}

	slog.Info("part_event", "event", "image_uploaded", "filename", filename, "size", header.Size)
	writeJSON(w, http.StatusOK, map[string]string{"path": uploadURLPrefix + filename})
}

func typeAllowed(declared string, allowed []string) bool {
	for _, t := range allowed {
		if declared == t {
			return true
		}
	}
	return false
}

// removeUpload deletes an uploaded file given its public /uploads/ path.
// Paths outside the upload prefix, or containing separators after it, are
// rejected rather than resolved.
func removeUpload(publicPath string) error {
	name, ok := strings.CutPrefix(publicPath, uploadURLPrefix)
	if !ok {
		return fmt.Errorf("not an upload path: %s", publicPath)
	}
	if name == "" || name != filepath.Base(name) {
		return fmt.Errorf("invalid upload filename: %s", name)
	}
	if err := os.Remove(filepath.Join(cfg.UploadDir, name)); err != nil && !os.IsNotExist(err) {
		return err
	}
	return nil
}
