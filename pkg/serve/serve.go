// Package serve provides HTTP handlers for browsing an extraction.
package serve

import (
	"encoding/json"
	"net/http"
	"strconv"
	"sync"

	"github.com/gorilla/mux"
	"k8s.io/klog/v2"

	"github.com/tstromberg/picasa-extract/pkg/picasa"
)

// Server serves the most recent extraction.
type Server struct {
	mu sync.RWMutex
	e  *picasa.Export
}

// New creates a new server.
func New(e *picasa.Export) *Server {
	return &Server{e: e}
}

// SetExport replaces the extraction being served.
func (s *Server) SetExport(e *picasa.Export) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.e = e
}

func (s *Server) export() *picasa.Export {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.e
}

// Router returns the routes served by s.
func (s *Server) Router() *mux.Router {
	r := mux.NewRouter()
	r.HandleFunc("/albums", s.AlbumsHandler()).Methods(http.MethodGet)
	r.HandleFunc("/albums/{id:[0-9]+}", s.AlbumHandler()).Methods(http.MethodGet)
	r.HandleFunc("/contacts", s.ContactsHandler()).Methods(http.MethodGet)
	return r
}

// AlbumsHandler lists every album keyed by sequence number.
func (s *Server) AlbumsHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, _ *http.Request) {
		e := s.export()
		as := map[string]*picasa.Album{}
		for _, a := range e.Albums {
			as[strconv.Itoa(a.ID)] = a
		}
		writeJSON(w, as)
	}
}

// AlbumHandler returns a single album.
func (s *Server) AlbumHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, err := strconv.Atoi(mux.Vars(r)["id"])
		if err != nil {
			http.Error(w, "bad album id", http.StatusBadRequest)
			return
		}
		a, ok := s.export().Album(id)
		if !ok {
			http.NotFound(w, r)
			return
		}
		writeJSON(w, a)
	}
}

// ContactsHandler returns the global contact directory.
func (s *Server) ContactsHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, _ *http.Request) {
		writeJSON(w, s.export().Contacts)
	}
}

func writeJSON(w http.ResponseWriter, v any) {
	w.Header().Set("Content-Type", "application/json")
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	if err := enc.Encode(v); err != nil {
		klog.Errorf("encode: %v", err)
	}
}
