package server

import (
	"net/http"
	"strconv"

	"musiclib/core/auth"
	"musiclib/core/music"
	"musiclib/model"
	"musiclib/request"

	"github.com/gorilla/mux"
)

// MusicHandler serves the /api/musics resource.
type MusicHandler struct {
	svc *music.Service
}

// NewMusicHandler creates a MusicHandler over svc.
func NewMusicHandler(svc *music.Service) *MusicHandler {
	return &MusicHandler{svc: svc}
}

type entryHandlerFunc func(w http.ResponseWriter, r *http.Request, caller auth.Caller, entry *model.MusicEntry)
type callerHandlerFunc func(w http.ResponseWriter, r *http.Request, caller auth.Caller)

// withCaller reads the caller placed in the context by authenticate.
func withCaller(next callerHandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		caller, ok := auth.CallerFromContext(r.Context())
		if !ok {
			writeMessage(w, http.StatusUnauthorized, "Unauthenticated.")
			return
		}
		next(w, r, caller)
	}
}

// withEntry resolves {id} before the operation runs. Unknown and non-numeric
// ids are both reported as not found.
func (h *MusicHandler) withEntry(next entryHandlerFunc) http.HandlerFunc {
	return withCaller(func(w http.ResponseWriter, r *http.Request, caller auth.Caller) {
		id, err := strconv.ParseInt(mux.Vars(r)["id"], 10, 64)
		if err != nil || id <= 0 {
			writeMessage(w, http.StatusNotFound, notFoundMessage)
			return
		}

		entry, err := h.svc.Resolve(r.Context(), id)
		if err != nil {
			respondError(w, r, err)
			return
		}
		next(w, r, caller, entry)
	})
}

// bind parses and validates the write payload for caller.
func bind(r *http.Request, caller auth.Caller) (*request.StoreMusicRequest, error) {
	if !request.Authorize(caller) {
		return nil, errForbidden
	}
	input, err := request.FromRequest(r)
	if err != nil {
		return nil, err
	}
	if err := input.Validate(); err != nil {
		return nil, err
	}
	return input, nil
}

// List handles GET /api/musics.
func (h *MusicHandler) List(w http.ResponseWriter, r *http.Request, caller auth.Caller) {
	entries, err := h.svc.List(r.Context(), caller)
	if err != nil {
		respondError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, entries)
}

// Create handles POST /api/musics.
func (h *MusicHandler) Create(w http.ResponseWriter, r *http.Request, caller auth.Caller) {
	input, err := bind(r, caller)
	if err != nil {
		respondError(w, r, err)
		return
	}

	entry, err := h.svc.Create(r.Context(), caller, input)
	if err != nil {
		respondError(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, entry)
}

// Show handles GET /api/musics/{id}.
func (h *MusicHandler) Show(w http.ResponseWriter, r *http.Request, caller auth.Caller, entry *model.MusicEntry) {
	entry, err := h.svc.Read(r.Context(), caller, entry)
	if err != nil {
		respondError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, entry)
}

// Update handles POST /api/musics/{id}.
func (h *MusicHandler) Update(w http.ResponseWriter, r *http.Request, caller auth.Caller, entry *model.MusicEntry) {
	input, err := bind(r, caller)
	if err != nil {
		respondError(w, r, err)
		return
	}

	updated, err := h.svc.Update(r.Context(), caller, entry, input)
	if err != nil {
		respondError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, updated)
}

// Destroy handles DELETE /api/musics/{id}.
func (h *MusicHandler) Destroy(w http.ResponseWriter, r *http.Request, caller auth.Caller, entry *model.MusicEntry) {
	if err := h.svc.Delete(r.Context(), caller, entry); err != nil {
		respondError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// register mounts the resource routes on api.
func (h *MusicHandler) register(api *mux.Router) {
	api.HandleFunc("/musics", withCaller(h.List)).Methods(http.MethodGet)
	api.HandleFunc("/musics", withCaller(h.Create)).Methods(http.MethodPost)
	api.HandleFunc("/musics/{id}", h.withEntry(h.Show)).Methods(http.MethodGet)
	api.HandleFunc("/musics/{id}", h.withEntry(h.Update)).Methods(http.MethodPost)
	api.HandleFunc("/musics/{id}", h.withEntry(h.Destroy)).Methods(http.MethodDelete)
}
