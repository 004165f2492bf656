package server

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/wishcal/wishcal/pkg/artifact"
	"github.com/wishcal/wishcal/pkg/storage"
)

func (s *Server) handleListUsers(w http.ResponseWriter, r *http.Request) {
	users, err := s.DB.ListUsers(r.Context())
	if err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}
	writeJSON(w, users)
}

type createUserRequest struct {
	Email string `json:"email"`
}

func (s *Server) handleCreateUser(w http.ResponseWriter, r *http.Request) {
	var req createUserRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil || req.Email == "" {
		http.Error(w, "email is required", http.StatusBadRequest)
		return
	}
	user, err := s.DB.CreateUser(r.Context(), req.Email)
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}
	writeJSON(w, user)
}

func (s *Server) handleDeleteUser(w http.ResponseWriter, r *http.Request) {
	if err := s.DB.DeleteUser(r.Context(), chi.URLParam(r, "id")); err != nil {
		writeStorageError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) handleListProfiles(w http.ResponseWriter, r *http.Request) {
	profiles, err := s.DB.ListProfilesByUser(r.Context(), chi.URLParam(r, "userID"))
	if err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}
	writeJSON(w, profiles)
}

type profileRequest struct {
	UserID  string `json:"userId"`
	SteamID string `json:"steamId"`
}

func (s *Server) handleCreateProfile(w http.ResponseWriter, r *http.Request) {
	var req profileRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil || req.UserID == "" || req.SteamID == "" {
		http.Error(w, "userId and steamId are required", http.StatusBadRequest)
		return
	}
	profile, err := s.DB.CreateProfile(r.Context(), req.UserID, req.SteamID)
	if err != nil {
		writeStorageError(w, err)
		return
	}
	writeJSON(w, profile)
}

func (s *Server) handleUpdateProfile(w http.ResponseWriter, r *http.Request) {
	var req profileRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil || req.UserID == "" || req.SteamID == "" {
		http.Error(w, "userId and steamId are required", http.StatusBadRequest)
		return
	}
	profile, err := s.DB.UpdateProfile(r.Context(), chi.URLParam(r, "id"), req.UserID, req.SteamID)
	if err != nil {
		writeStorageError(w, err)
		return
	}
	writeJSON(w, profile)
}

func (s *Server) handleDeleteProfile(w http.ResponseWriter, r *http.Request) {
	if err := s.DB.DeleteProfile(r.Context(), chi.URLParam(r, "id")); err != nil {
		writeStorageError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// handleGetCalendar serves the profile's most recent calendar document.
// Responds 404 until the first successful sync sets the pointer.
func (s *Server) handleGetCalendar(w http.ResponseWriter, r *http.Request) {
	profile, err := s.DB.GetProfile(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		writeStorageError(w, err)
		return
	}
	if profile.ArtifactPointer == "" {
		http.Error(w, "no calendar generated yet", http.StatusNotFound)
		return
	}
	data, err := s.Artifacts.Get(r.Context(), profile.ArtifactPointer)
	if err != nil {
		if errors.Is(err, artifact.ErrNotFound) {
			http.Error(w, "calendar not found", http.StatusNotFound)
			return
		}
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "text/calendar")
	w.Write(data)
}

func writeJSON(w http.ResponseWriter, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(v)
}

func writeStorageError(w http.ResponseWriter, err error) {
	if errors.Is(err, storage.ErrNotFound) {
		http.Error(w, "not found", http.StatusNotFound)
		return
	}
	http.Error(w, err.Error(), http.StatusInternalServerError)
}
