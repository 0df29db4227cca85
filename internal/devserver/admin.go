package devserver

import (
	"encoding/csv"
	"encoding/json"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/go-chi/chi"

	"github.com/staffvault/pdfportal/internal/client/models"
)

const maxUploadBytes = 32 << 20

func validateUser(u models.User) []fieldError {
	var errs []fieldError
	if u.Firstname == "" {
		errs = append(errs, fieldError{Msg: "firstname is required", Param: "firstname"})
	}
	if u.Lastname == "" {
		errs = append(errs, fieldError{Msg: "lastname is required", Param: "lastname"})
	}
	if u.CompanyID == "" {
		errs = append(errs, fieldError{Msg: "company id is required", Param: "companyid"})
	}
	if u.Birthdate == "" {
		errs = append(errs, fieldError{Msg: "birthdate is required", Param: "birthdate"})
	}
	if len(u.Groups) == 0 {
		errs = append(errs, fieldError{Msg: "at least one group must be selected", Param: "groups"})
	}
	return errs
}

func (s *Server) handleListUsers(w http.ResponseWriter, r *http.Request) {
	page, limit, query := pageParams(r)
	items, total := s.store.ListUsers(page, limit, query)
	if items == nil {
		items = []models.User{}
	}
	writeJSON(w, http.StatusOK, map[string]any{"items": items, "total": total})
}

func (s *Server) handleCreateUser(w http.ResponseWriter, r *http.Request) {
	var u models.User
	if err := json.NewDecoder(r.Body).Decode(&u); err != nil {
		writeError(w, http.StatusBadRequest, "Malformed request body")
		return
	}
	if errs := validateUser(u); len(errs) > 0 {
		writeValidation(w, errs)
		return
	}
	created := s.store.CreateUser(u)
	writeJSON(w, http.StatusCreated, created)
}

func (s *Server) handleUpdateUser(w http.ResponseWriter, r *http.Request) {
	var u models.User
	if err := json.NewDecoder(r.Body).Decode(&u); err != nil {
		writeError(w, http.StatusBadRequest, "Malformed request body")
		return
	}
	if errs := validateUser(u); len(errs) > 0 {
		writeValidation(w, errs)
		return
	}
	if !s.store.UpdateUser(chi.URLParam(r, "id"), u) {
		writeError(w, http.StatusNotFound, "User not found")
		return
	}
	writeJSON(w, http.StatusOK, u)
}

func (s *Server) handleDeleteUser(w http.ResponseWriter, r *http.Request) {
	if !s.store.DeleteUser(chi.URLParam(r, "id")) {
		writeError(w, http.StatusNotFound, "User not found")
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"ok": true})
}

func (s *Server) handleDeleteNonAdmins(w http.ResponseWriter, r *http.Request) {
	count := s.store.DeleteNonAdmins()
	writeJSON(w, http.StatusOK, map[string]int{"deletedCount": count})
}

func (s *Server) handleListGroups(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, s.store.Groups())
}

func (s *Server) handleCreateGroup(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Name string `json:"name"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "Malformed request body")
		return
	}
	name := strings.TrimSpace(req.Name)
	if name == "" {
		writeValidation(w, []fieldError{{Msg: "group name is required", Param: "name"}})
		return
	}
	group, ok := s.store.CreateGroup(name)
	if !ok {
		writeError(w, http.StatusConflict, "A group with this name already exists")
		return
	}
	writeJSON(w, http.StatusCreated, group)
}

func (s *Server) handleDeleteGroup(w http.ResponseWriter, r *http.Request) {
	if !s.store.DeleteGroup(chi.URLParam(r, "name")) {
		writeError(w, http.StatusNotFound, "Group not found")
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"ok": true})
}

func (s *Server) handleListFiles(w http.ResponseWriter, r *http.Request) {
	page, limit, query := pageParams(r)
	items, total := s.store.ListFiles(page, limit, query)
	if items == nil {
		items = []models.FileSummary{}
	}
	writeJSON(w, http.StatusOK, map[string]any{"items": items, "total": total})
}

func (s *Server) handleUpload(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseMultipartForm(maxUploadBytes); err != nil {
		writeError(w, http.StatusBadRequest, "Malformed upload")
		return
	}

	file, header, err := r.FormFile("file")
	if err != nil {
		writeValidation(w, []fieldError{{Msg: "a PDF file is required", Param: "file"}})
		return
	}
	defer file.Close()

	groups := r.MultipartForm.Value["groups"]
	if len(groups) == 0 {
		writeValidation(w, []fieldError{{Msg: "at least one group must be selected", Param: "groups"}})
		return
	}

	content, err := io.ReadAll(file)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "Could not read upload")
		return
	}

	summary := s.store.AddFile(models.FileSummary{
		OriginalName: header.Filename,
		DisplayName:  r.FormValue("displayName"),
		UploadDate:   today(),
		Groups:       groups,
	}, content)
	writeJSON(w, http.StatusCreated, summary)
}

func (s *Server) handleUpdateFile(w http.ResponseWriter, r *http.Request) {
	var upd models.FileUpdate
	if err := json.NewDecoder(r.Body).Decode(&upd); err != nil {
		writeError(w, http.StatusBadRequest, "Malformed request body")
		return
	}
	if len(upd.Groups) == 0 {
		writeValidation(w, []fieldError{{Msg: "at least one group must be selected", Param: "groups"}})
		return
	}
	if !s.store.UpdateFile(chi.URLParam(r, "id"), upd) {
		writeError(w, http.StatusNotFound, "File not found")
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"ok": true})
}

func (s *Server) handleDeleteFile(w http.ResponseWriter, r *http.Request) {
	if !s.store.DeleteFile(chi.URLParam(r, "id")) {
		writeError(w, http.StatusNotFound, "File not found")
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"ok": true})
}

// handleImportUsers ingests a CSV with the columns firstname, lastname,
// department, birthdate, companyid, groups (semicolon separated). Rows are
// matched against existing users by company id; rows whose full name is
// already taken by a different user are skipped.
func (s *Server) handleImportUsers(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseMultipartForm(maxUploadBytes); err != nil {
		writeError(w, http.StatusBadRequest, "Malformed upload")
		return
	}
	file, _, err := r.FormFile("file")
	if err != nil {
		writeValidation(w, []fieldError{{Msg: "a spreadsheet file is required", Param: "file"}})
		return
	}
	defer file.Close()

	reader := csv.NewReader(file)
	reader.FieldsPerRecord = -1

	var report models.ImportReport
	first := true
	for {
		record, err := reader.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			writeError(w, http.StatusBadRequest, "Could not parse the spreadsheet")
			return
		}
		if first {
			first = false
			if len(record) > 0 && strings.EqualFold(record[0], "firstname") {
				continue
			}
		}
		if len(record) < 5 {
			continue
		}

		u := models.User{
			Firstname:  strings.TrimSpace(record[0]),
			Lastname:   strings.TrimSpace(record[1]),
			Department: strings.TrimSpace(record[2]),
			Birthdate:  strings.TrimSpace(record[3]),
			CompanyID:  strings.TrimSpace(record[4]),
			Role:       models.RoleUser,
		}
		if len(record) > 5 && record[5] != "" {
			u.Groups = strings.Split(record[5], ";")
		}

		if _, exists := s.store.UserByCompanyID(u.CompanyID); exists {
			report.MatchedExisting++
			continue
		}
		if s.store.HasUserNamed(u.Firstname, u.Lastname) {
			report.SkippedExistingName++
			continue
		}
		s.store.CreateUser(u)
		report.Inserted++
	}

	writeJSON(w, http.StatusOK, report)
}

// handleExportUsers streams the directory as CSV. The format parameter is
// accepted for parity with the production API, but this server always
// produces CSV.
func (s *Server) handleExportUsers(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "text/csv")
	w.Header().Set("Content-Disposition", `attachment; filename="users.csv"`)
	w.WriteHeader(http.StatusOK)

	writer := csv.NewWriter(w)
	_ = writer.Write([]string{"firstname", "lastname", "department", "birthdate", "companyid", "groups"})
	for _, u := range s.store.AllUsers() {
		_ = writer.Write([]string{
			u.Firstname, u.Lastname, u.Department, u.Birthdate, u.CompanyID,
			strings.Join(u.Groups, ";"),
		})
	}
	writer.Flush()
}

func today() string {
	return time.Now().Format("2006-01-02")
}
