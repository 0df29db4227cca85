// Package devserver is an in-memory implementation of the portal API,
// meant for local development and end-to-end exercising of the client. It
// speaks the same wire contract as the production backend: bearer auth,
// {items,total} pages, {"error","errors"} failure bodies.
package devserver

import (
	"crypto/rand"
	"encoding/json"
	"net/http"
	"strconv"

	"github.com/go-chi/chi"
	chimiddleware "github.com/go-chi/chi/middleware"

	"github.com/staffvault/pdfportal/internal/client/models"
	"github.com/staffvault/pdfportal/internal/logging"
)

// Server holds the in-memory store and the signing secret. The secret is
// random per process, so tokens do not survive a restart; neither does the
// data they point at.
type Server struct {
	store  *Store
	secret []byte
	log    logging.Logger
}

func NewServer(log logging.Logger) *Server {
	secret := make([]byte, 32)
	if _, err := rand.Read(secret); err != nil {
		panic(err)
	}
	return &Server{store: NewStore(), secret: secret, log: log}
}

// Store exposes the backing store for seeding.
func (s *Server) Store() *Store {
	return s.store
}

// Seed loads a small fixture set: an admin, two employees, three groups,
// and nothing else. The admin signs in with company id "admin0001" and
// birthdate "1970-01-01".
func (s *Server) Seed() {
	for _, name := range []string{"management", "hr", "engineering"} {
		s.store.CreateGroup(name)
	}
	s.store.CreateUser(models.User{
		Firstname: "Ada", Lastname: "Root", Department: "IT",
		Role: models.RoleAdmin, Birthdate: "1970-01-01", CompanyID: "admin0001",
		Groups: []string{"management"},
	})
	s.store.CreateUser(models.User{
		Firstname: "Bo", Lastname: "Fields", Department: "HR",
		Role: models.RoleUser, Birthdate: "1985-04-12", CompanyID: "emp0002",
		Groups: []string{"hr"},
	})
	s.store.CreateUser(models.User{
		Firstname: "Cleo", Lastname: "Marsh", Department: "Engineering",
		Role: models.RoleUser, Birthdate: "1991-09-30", CompanyID: "emp0003",
		Groups: []string{"engineering"},
	})
}

// Router builds the HTTP surface.
func (s *Server) Router() *chi.Mux {
	r := chi.NewRouter()
	r.Use(chimiddleware.RequestID)
	r.Use(chimiddleware.Recoverer)

	r.Post("/auth/login", s.handleLogin)

	r.Group(func(r chi.Router) {
		r.Use(s.requireAuth)
		r.Get("/files", s.handleMyFiles)
		r.Get("/files/{id}", s.handleDownload)

		r.Route("/admin", func(r chi.Router) {
			r.Use(s.requireAdmin)

			r.Get("/users", s.handleListUsers)
			r.Post("/users", s.handleCreateUser)
			r.Put("/users/{id}", s.handleUpdateUser)
			r.Delete("/users/{id}", s.handleDeleteUser)
			r.Delete("/users", s.handleDeleteNonAdmins)

			r.Get("/groups", s.handleListGroups)
			r.Post("/groups", s.handleCreateGroup)
			r.Delete("/groups/{name}", s.handleDeleteGroup)

			r.Get("/files", s.handleListFiles)
			r.Post("/upload", s.handleUpload)
			r.Put("/files/{id}", s.handleUpdateFile)
			r.Delete("/files/{id}", s.handleDeleteFile)

			r.Post("/import-users", s.handleImportUsers)
			r.Get("/export-users", s.handleExportUsers)
		})
	})

	return r
}

// fieldError mirrors the validation entries of the wire contract.
type fieldError struct {
	Msg   string `json:"msg"`
	Param string `json:"param"`
}

func writeJSON(w http.ResponseWriter, status int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(payload)
}

func writeError(w http.ResponseWriter, status int, message string) {
	writeJSON(w, status, map[string]string{"error": message})
}

func writeValidation(w http.ResponseWriter, errs []fieldError) {
	writeJSON(w, http.StatusBadRequest, map[string]any{"errors": errs})
}

func pageParams(r *http.Request) (page, limit int, query string) {
	q := r.URL.Query()
	page, _ = strconv.Atoi(q.Get("page"))
	limit, _ = strconv.Atoi(q.Get("limit"))
	if page < 1 {
		page = 1
	}
	if limit < 1 {
		limit = 10
	}
	return page, limit, q.Get("q")
}

func (s *Server) handleLogin(w http.ResponseWriter, r *http.Request) {
	var req struct {
		CompanyID string `json:"companyid"`
		Birthdate string `json:"birthdate"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "Malformed request body")
		return
	}

	var errs []fieldError
	if req.CompanyID == "" {
		errs = append(errs, fieldError{Msg: "company id is required", Param: "companyid"})
	}
	if req.Birthdate == "" {
		errs = append(errs, fieldError{Msg: "birthdate is required", Param: "birthdate"})
	}
	if len(errs) > 0 {
		writeValidation(w, errs)
		return
	}

	user, ok := s.store.Authenticate(req.CompanyID, req.Birthdate)
	if !ok {
		writeError(w, http.StatusUnauthorized, "Invalid credentials")
		return
	}

	token, err := s.issueToken(user)
	if err != nil {
		s.log.Error(r.Context(), "token issue failed", "error", err)
		writeError(w, http.StatusInternalServerError, "Could not issue token")
		return
	}

	writeJSON(w, http.StatusOK, map[string]any{
		"token": token,
		"user": models.Identity{
			ID:        user.ID,
			Role:      user.Role,
			CompanyID: user.CompanyID,
			Firstname: user.Firstname,
			Lastname:  user.Lastname,
		},
	})
}

func (s *Server) handleMyFiles(w http.ResponseWriter, r *http.Request) {
	files := s.store.FilesForUser(currentUser(r))
	if files == nil {
		files = []models.FileSummary{}
	}
	writeJSON(w, http.StatusOK, files)
}

func (s *Server) handleDownload(w http.ResponseWriter, r *http.Request) {
	user := currentUser(r)
	id := chi.URLParam(r, "id")

	// Invisible and nonexistent files are indistinguishable on purpose.
	if !s.store.VisibleTo(user, id) {
		writeError(w, http.StatusNotFound, "File not found")
		return
	}

	_, content, _ := s.store.File(id)
	w.Header().Set("Content-Type", "application/pdf")
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(content)
}
