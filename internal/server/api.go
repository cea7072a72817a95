package server

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"

	"github.com/charmbracelet/log"
	"github.com/desertthunder/setlist2spotify/internal/tasks"
)

const maxBodyBytes = 1 << 20

// Response messages shared with the web client.
const (
	MsgHello            = "Hello World"
	MsgNoSetlists       = "No setlists found for this artist."
	MsgNoTracks         = "No tracks found on Spotify."
	MsgCreateFailed     = "Failed to create playlist."
	MsgTracksAdded      = "Tracks added to playlist successfully."
	msgAuthFailed       = "Authentication failed: %v"
	msgPlaylistNotFound = "No playlist found with name '%s'"
	msgFindFailed       = "Error finding playlist: %v"
	msgAddFailed        = "Failed to add tracks: %v"
)

// API serves the JSON endpoints used by the web client.
type API struct {
	engine  tasks.Engine
	logger  *log.Logger
	version string
}

// NewAPI creates the JSON API backed by engine.
func NewAPI(engine tasks.Engine, logger *log.Logger, version string) *API {
	return &API{engine: engine, logger: logger, version: version}
}

// Register adds every endpoint to r.
func (a *API) Register(r Router) {
	r.Handle(http.MethodGet, "/", http.HandlerFunc(a.handleRoot))
	r.Handle(http.MethodGet, "/health", http.HandlerFunc(a.handleHealth))
	r.Handle(http.MethodPost, "/authentication", http.HandlerFunc(a.handleAuthenticate))
	r.Handle(http.MethodPost, "/setlists", http.HandlerFunc(a.handleSetlists))
	r.Handle(http.MethodPost, "/spotify/search/tracks", http.HandlerFunc(a.handleSearchTracks))
	r.Handle(http.MethodPost, "/spotify/create/playlist", http.HandlerFunc(a.handleCreatePlaylist))
	r.Handle(http.MethodPost, "/spotify/get/playlist", http.HandlerFunc(a.handleGetPlaylist))
	r.Handle(http.MethodPost, "/spotify/add/tracks", http.HandlerFunc(a.handleAddTracks))
}

type setlistsRequest struct {
	ArtistName *string `json:"artist_name"`
}

func (b setlistsRequest) missing() []string {
	return missingFields(field{"artist_name", b.ArtistName != nil})
}

type tracksRequest struct {
	ArtistName *string  `json:"artist_name"`
	Songs      []string `json:"songs"`
}

func (b tracksRequest) missing() []string {
	return missingFields(field{"artist_name", b.ArtistName != nil}, field{"songs", b.Songs != nil})
}

type createPlaylistRequest struct {
	ArtistName *string `json:"artist_name"`
	VenueName  *string `json:"venue_name"`
	UserID     *string `json:"user_id"`
}

func (b createPlaylistRequest) missing() []string {
	return missingFields(
		field{"artist_name", b.ArtistName != nil},
		field{"venue_name", b.VenueName != nil},
		field{"user_id", b.UserID != nil},
	)
}

type getPlaylistRequest struct {
	UserID       *string `json:"user_id"`
	PlaylistName *string `json:"playlist_name"`
}

func (b getPlaylistRequest) missing() []string {
	return missingFields(field{"user_id", b.UserID != nil}, field{"playlist_name", b.PlaylistName != nil})
}

type addTracksRequest struct {
	PlaylistID *string  `json:"playlist_id"`
	TrackIDs   []string `json:"track_ids"`
}

func (b addTracksRequest) missing() []string {
	return missingFields(field{"playlist_id", b.PlaylistID != nil}, field{"track_ids", b.TrackIDs != nil})
}

func (a *API) handleRoot(w http.ResponseWriter, r *http.Request) {
	writeMessage(w, http.StatusOK, MsgHello)
}

func (a *API) handleHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok", "version": a.version})
}

func (a *API) handleAuthenticate(w http.ResponseWriter, r *http.Request) {
	user, err := a.engine.CurrentUser(r.Context())
	if err != nil {
		a.logger.Error("authentication failed", "error", err)
		writeMessage(w, http.StatusInternalServerError, fmt.Sprintf(msgAuthFailed, err))
		return
	}
	writeJSON(w, http.StatusOK, user)
}

func (a *API) handleSetlists(w http.ResponseWriter, r *http.Request) {
	var body setlistsRequest
	if !decodeBody(w, r, &body) {
		return
	}

	records := a.engine.FetchSetlists(r.Context(), *body.ArtistName, nil)
	if len(records) == 0 {
		writeMessage(w, http.StatusOK, MsgNoSetlists)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"setlists": records})
}

func (a *API) handleSearchTracks(w http.ResponseWriter, r *http.Request) {
	var body tracksRequest
	if !decodeBody(w, r, &body) {
		return
	}

	result := a.engine.Reconcile(r.Context(), body.Songs, *body.ArtistName, nil)
	if result.Empty() {
		writeMessage(w, http.StatusOK, MsgNoTracks)
		return
	}
	writeJSON(w, http.StatusOK, result)
}

func (a *API) handleCreatePlaylist(w http.ResponseWriter, r *http.Request) {
	var body createPlaylistRequest
	if !decodeBody(w, r, &body) {
		return
	}

	id, ok := a.engine.CreatePlaylist(r.Context(), *body.UserID, *body.ArtistName, *body.VenueName)
	if !ok {
		writeMessage(w, http.StatusOK, MsgCreateFailed)
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"playlist_id": id})
}

func (a *API) handleGetPlaylist(w http.ResponseWriter, r *http.Request) {
	var body getPlaylistRequest
	if !decodeBody(w, r, &body) {
		return
	}

	id, ok, err := a.engine.FindPlaylist(r.Context(), *body.UserID, *body.PlaylistName)
	switch {
	case err != nil:
		writeMessage(w, http.StatusInternalServerError, fmt.Sprintf(msgFindFailed, err))
	case !ok:
		writeMessage(w, http.StatusNotFound, fmt.Sprintf(msgPlaylistNotFound, *body.PlaylistName))
	default:
		writeJSON(w, http.StatusOK, map[string]string{"playlist_id": id})
	}
}

func (a *API) handleAddTracks(w http.ResponseWriter, r *http.Request) {
	var body addTracksRequest
	if !decodeBody(w, r, &body) {
		return
	}

	if err := a.engine.AddTracks(r.Context(), *body.PlaylistID, body.TrackIDs); err != nil {
		a.logger.Error("adding tracks failed", "playlist", *body.PlaylistID, "error", err)
		writeMessage(w, http.StatusInternalServerError, fmt.Sprintf(msgAddFailed, err))
		return
	}
	writeMessage(w, http.StatusOK, MsgTracksAdded)
}

type field struct {
	name    string
	present bool
}

func missingFields(fields ...field) []string {
	var missing []string
	for _, f := range fields {
		if !f.present {
			missing = append(missing, f.name)
		}
	}
	return missing
}

type validator interface {
	missing() []string
}

// decodeBody decodes a JSON request body and answers 422 when it is malformed or lacks a
// required field.
func decodeBody(w http.ResponseWriter, r *http.Request, v validator) bool {
	dec := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxBodyBytes))
	if err := dec.Decode(v); err != nil {
		msg := "Invalid request body: " + err.Error()
		if errors.Is(err, io.EOF) {
			msg = "Request body is required"
		}
		writeMessage(w, http.StatusUnprocessableEntity, msg)
		return false
	}

	if missing := v.missing(); len(missing) > 0 {
		writeMessage(w, http.StatusUnprocessableEntity, "Missing required fields: "+strings.Join(missing, ", "))
		return false
	}
	return true
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeMessage(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, map[string]string{"message": msg})
}
