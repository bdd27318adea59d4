package files

import (
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"

	"village-admin-go/internal/storage/files"
	commonhandler "village-admin-go/internal/transport/httpserver/handler/common"
	"village-admin-go/pkg/logger"
)

type Handlers struct {
	store *files.Store
	log   logger.Logger
	debug bool
}

func New(store *files.Store, log logger.Logger, debug bool) *Handlers {
	return &Handlers{store: store, log: log, debug: debug}
}

// Serve streams a stored scan, for example GET /api/files/ktp/<uuid>.png.
func (h *Handlers) Serve(w http.ResponseWriter, r *http.Request) {
	folder := chi.URLParam(r, "type")
	name := chi.URLParam(r, "filename")

	file, err := h.store.Open(folder, name)
	if errors.Is(err, files.ErrNotFound) {
		h.log.BusinessError("files.serve: not found", err, "type", folder, "filename", name)
		commonhandler.WriteError(w, http.StatusNotFound, "file_not_found", "File tidak ditemukan")
		return
	}
	if err != nil {
		h.log.InternalError("files.serve: open failed", err, "type", folder, "filename", name)
		commonhandler.WriteInternalError(w, h.debug, err)
		return
	}
	defer file.Close()

	info, err := file.Stat()
	if err != nil {
		h.log.InternalError("files.serve: stat failed", err, "type", folder, "filename", name)
		commonhandler.WriteInternalError(w, h.debug, err)
		return
	}

	w.Header().Set("Cache-Control", "private, max-age=3600")
	http.ServeContent(w, r, info.Name(), info.ModTime(), file)
}
