package server

import (
	"context"
	"errors"
	"io"
	"mime"
	"net/http"
	"path"
	"strconv"

	"musiclib/logger"
	"musiclib/storage"

	"github.com/gorilla/mux"
)

// AssetSource opens stored audio assets by filename.
type AssetSource interface {
	Open(ctx context.Context, name string) (io.ReadCloser, *storage.AssetInfo, error)
}

// AssetHandler streams audio assets for inline playback.
type AssetHandler struct {
	assets AssetSource
}

func NewAssetHandler(assets AssetSource) *AssetHandler {
	return &AssetHandler{assets: assets}
}

// Serve handles GET /storage/music/{filename}.
func (h *AssetHandler) Serve(w http.ResponseWriter, r *http.Request) {
	name := mux.Vars(r)["filename"]

	body, info, err := h.assets.Open(r.Context(), name)
	if err != nil {
		if errors.Is(err, storage.ErrAssetNotFound) || errors.Is(err, storage.ErrInvalidName) {
			http.Error(w, "File not found", http.StatusNotFound)
			return
		}
		logger.Error("failed to open audio asset",
			logger.String("filename", name),
			logger.ErrorField(err))
		http.Error(w, "Server Error", http.StatusInternalServerError)
		return
	}
	defer body.Close()

	contentType := info.ContentType
	if contentType == "" || contentType == "application/octet-stream" {
		if byExt := mime.TypeByExtension(path.Ext(name)); byExt != "" {
			contentType = byExt
		}
	}
	if contentType != "" {
		w.Header().Set("Content-Type", contentType)
	}
	if info.ETag != "" {
		w.Header().Set("ETag", strconv.Quote(info.ETag))
	}
	w.Header().Set("Cache-Control", "public, max-age=3600")

	// Seekable bodies get Range support so players can scrub.
	if rs, ok := body.(io.ReadSeeker); ok {
		http.ServeContent(w, r, path.Base(name), info.LastModified, rs)
		return
	}

	w.Header().Set("Content-Length", strconv.FormatInt(info.Size, 10))
	if _, err := io.Copy(w, body); err != nil {
		logger.Warn("error streaming audio asset",
			logger.String("filename", name),
			logger.ErrorField(err))
	}
}
