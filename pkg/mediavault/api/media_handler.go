package api

import (
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/render"

	"github.com/mediavault/mediavault/pkg/mediavault"
)

// MediaHandler handles HTTP requests for media using pkg/mediavault
type MediaHandler struct {
	service mediavault.Service
}

// NewMediaHandler creates a new media handler
func NewMediaHandler(service mediavault.Service) *MediaHandler {
	return &MediaHandler{service: service}
}

// Routes returns the routes for media
func (h *MediaHandler) Routes() chi.Router {
	r := chi.NewRouter()

	r.Post("/add", h.AddMedia)

	r.Get("/get", h.ListMedia)
	r.Get("/get/images", h.listKind(mediavault.KindImage, "images"))
	r.Get("/get/pdf", h.listKind(mediavault.KindPDF, "pdf files"))
	r.Get("/get/videos", h.listKind(mediavault.KindVideo, "videos"))
	r.Get("/get/audios", h.listKind(mediavault.KindAudio, "audio files"))
	r.Get("/get/texts", h.listKind(mediavault.KindText, "text files"))
	r.Get("/get/other", h.ListOther)
	r.Get("/get/corbeille", h.ListTrash)
	r.Get("/get/{id}", h.GetMedia)

	r.Patch("/move/{id}", h.MoveToTrash)
	r.Patch("/restaure/{id}", h.RestoreMedia)
	r.Delete("/delete/{id}", h.DeleteMedia)

	r.Get("/download/{id}", h.DownloadMedia)

	return r
}

// MessageResponse is the envelope for all media endpoints
type MessageResponse struct {
	Msg    string      `json:"msg"`
	Result interface{} `json:"result,omitempty"`
}

// UploadMetadata is the JSON carried in the "metadata" multipart field
type UploadMetadata struct {
	Title       string `json:"title"`
	Description string `json:"description"`
}

const maxUploadBytes = 512 << 20 // 512 MiB

// AddMedia handles a multipart upload: a "file" part with the binary content
// and a "metadata" part with the JSON-encoded title and description.
func (h *MediaHandler) AddMedia(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, maxUploadBytes)

	file, header, err := r.FormFile("file")
	if err != nil {
		slog.Error("Missing file part in upload", "error", err)
		renderMessage(w, r, http.StatusBadRequest, "no file selected")
		return
	}
	defer file.Close()

	if header.Filename == "" {
		renderMessage(w, r, http.StatusBadRequest, "no file selected")
		return
	}

	var meta UploadMetadata
	if raw := r.FormValue("metadata"); raw != "" {
		if err := json.Unmarshal([]byte(raw), &meta); err != nil {
			slog.Error("Invalid metadata part in upload", "error", err)
			renderMessage(w, r, http.StatusBadRequest, "invalid metadata")
			return
		}
	}

	media, err := h.service.AddMedia(r.Context(), mediavault.AddMediaRequest{
		FileName:    header.Filename,
		Title:       meta.Title,
		Description: meta.Description,
		Reader:      file,
	})
	if err != nil {
		h.renderError(w, r, err, "add media")
		return
	}

	slog.Info("Media added", "id", media.ID, "name", media.Name, "kind", media.Kind)
	render.Status(r, http.StatusCreated)
	render.JSON(w, r, MessageResponse{Msg: "new media added", Result: media})
}

// ListMedia returns every record, trashed or not.
func (h *MediaHandler) ListMedia(w http.ResponseWriter, r *http.Request) {
	media, err := h.service.ListMedia(r.Context())
	if err != nil {
		h.renderError(w, r, err, "list media")
		return
	}

	if len(media) == 0 {
		render.JSON(w, r, MessageResponse{Msg: "no media yet"})
		return
	}

	render.JSON(w, r, MessageResponse{Msg: "all media", Result: media})
}

// GetMedia retrieves one record by ID.
func (h *MediaHandler) GetMedia(w http.ResponseWriter, r *http.Request) {
	id, ok := h.mediaID(w, r)
	if !ok {
		return
	}

	media, err := h.service.GetMedia(r.Context(), id)
	if err != nil {
		h.renderError(w, r, err, "get media")
		return
	}

	render.JSON(w, r, MessageResponse{Msg: "media found", Result: media})
}

// listKind builds a handler for one typed listing. Trashed records never
// appear here; an empty result is a 404 with a "none for now" message, which
// is how the API tells "nothing of this kind" apart from a failed lookup.
func (h *MediaHandler) listKind(kind mediavault.Kind, label string) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		media, err := h.service.ListMediaByKind(r.Context(), kind)
		if err != nil {
			h.renderError(w, r, err, "list "+label)
			return
		}

		if len(media) == 0 {
			renderMessage(w, r, http.StatusNotFound, "no "+label+" for now")
			return
		}

		render.JSON(w, r, MessageResponse{Msg: "all " + label, Result: media})
	}
}

// ListOther returns the non-trashed records no extension set claimed.
func (h *MediaHandler) ListOther(w http.ResponseWriter, r *http.Request) {
	media, err := h.service.ListOther(r.Context())
	if err != nil {
		h.renderError(w, r, err, "list other")
		return
	}

	if len(media) == 0 {
		renderMessage(w, r, http.StatusNotFound, "no unidentified files for now")
		return
	}

	render.JSON(w, r, MessageResponse{Msg: "all unidentified files", Result: media})
}

// ListTrash returns the records currently in the trash.
func (h *MediaHandler) ListTrash(w http.ResponseWriter, r *http.Request) {
	media, err := h.service.ListTrash(r.Context())
	if err != nil {
		h.renderError(w, r, err, "list trash")
		return
	}

	if len(media) == 0 {
		renderMessage(w, r, http.StatusNotFound, "nothing in the trash for now")
		return
	}

	render.JSON(w, r, MessageResponse{Msg: "all trashed media", Result: media})
}

// MoveToTrash soft-deletes a record.
func (h *MediaHandler) MoveToTrash(w http.ResponseWriter, r *http.Request) {
	id, ok := h.mediaID(w, r)
	if !ok {
		return
	}

	media, err := h.service.MoveToTrash(r.Context(), id)
	if err != nil {
		h.renderError(w, r, err, "move to trash")
		return
	}

	slog.Info("Media moved to trash", "id", media.ID, "location", media.Location)
	render.JSON(w, r, MessageResponse{Msg: "media moved to the trash", Result: media})
}

// RestoreMedia brings a trashed record back.
func (h *MediaHandler) RestoreMedia(w http.ResponseWriter, r *http.Request) {
	id, ok := h.mediaID(w, r)
	if !ok {
		return
	}

	media, err := h.service.RestoreMedia(r.Context(), id)
	if err != nil {
		h.renderError(w, r, err, "restore media")
		return
	}

	slog.Info("Media restored", "id", media.ID, "location", media.Location)
	render.JSON(w, r, MessageResponse{Msg: "media restored", Result: media})
}

// DeleteMedia permanently removes a record and its blob.
func (h *MediaHandler) DeleteMedia(w http.ResponseWriter, r *http.Request) {
	id, ok := h.mediaID(w, r)
	if !ok {
		return
	}

	result, err := h.service.DeleteMedia(r.Context(), id)
	if err != nil {
		h.renderError(w, r, err, "delete media")
		return
	}

	msg := "media permanently deleted"
	if result.BlobMissing {
		msg = "media record deleted; the file was already missing from storage"
	}

	slog.Info("Media deleted", "id", id, "blob_missing", result.BlobMissing)
	render.JSON(w, r, MessageResponse{Msg: msg})
}

// DownloadMedia streams the blob bytes for a record.
func (h *MediaHandler) DownloadMedia(w http.ResponseWriter, r *http.Request) {
	id, ok := h.mediaID(w, r)
	if !ok {
		return
	}

	rc, result, err := h.service.DownloadMedia(r.Context(), id)
	if err != nil {
		h.renderError(w, r, err, "download media")
		return
	}
	defer rc.Close()

	contentType := "application/octet-stream"
	if result.Meta != nil && result.Meta.ContentType != "" {
		contentType = result.Meta.ContentType
	}

	w.Header().Set("Content-Disposition", `attachment; filename="`+result.Media.Name+`"`)
	w.Header().Set("Content-Type", contentType)
	if result.Meta != nil && result.Meta.Size > 0 {
		w.Header().Set("Content-Length", strconv.FormatInt(result.Meta.Size, 10))
	}
	if _, err := io.Copy(w, rc); err != nil {
		slog.Error("Failed to stream media", "id", id, "error", err)
	}
}

func (h *MediaHandler) mediaID(w http.ResponseWriter, r *http.Request) (int64, bool) {
	idStr := chi.URLParam(r, "id")
	id, err := strconv.ParseInt(idStr, 10, 64)
	if err != nil {
		slog.Error("Invalid media ID", "id", idStr, "error", err)
		renderMessage(w, r, http.StatusBadRequest, "invalid media id")
		return 0, false
	}
	return id, true
}

// renderError maps domain errors onto HTTP status codes and a message body.
func (h *MediaHandler) renderError(w http.ResponseWriter, r *http.Request, err error, op string) {
	switch {
	case errors.Is(err, mediavault.ErrMediaNotFound):
		renderMessage(w, r, http.StatusNotFound, "this media does not exist")
	case errors.Is(err, mediavault.ErrInvalidName):
		renderMessage(w, r, http.StatusBadRequest, "invalid file name")
	case errors.Is(err, mediavault.ErrDuplicateName):
		renderMessage(w, r, http.StatusConflict, "a media with this name already exists")
	case errors.Is(err, mediavault.ErrDuplicateLocation):
		renderMessage(w, r, http.StatusConflict, "a media with this location already exists")
	case errors.Is(err, mediavault.ErrTrashCollision):
		renderMessage(w, r, http.StatusConflict, "a media with this name is already in the trash")
	case errors.Is(err, mediavault.ErrInvalidRestore):
		renderMessage(w, r, http.StatusNotFound, "this media cannot be restored")
	case errors.Is(err, mediavault.ErrBlobMissing):
		renderMessage(w, r, http.StatusNotFound, "the file does not exist in storage")
	default:
		slog.Error("Media operation failed", "op", op, "error", err)
		renderMessage(w, r, http.StatusInternalServerError, "internal error")
	}
}

func renderMessage(w http.ResponseWriter, r *http.Request, status int, msg string) {
	render.Status(r, status)
	render.JSON(w, r, MessageResponse{Msg: msg})
}
