package devserver

import (
	"sort"
	"strings"
	"sync"

	"github.com/google/uuid"

	"github.com/staffvault/pdfportal/internal/client/models"
)

// storedFile keeps the catalogue entry together with the PDF bytes.
type storedFile struct {
	summary models.FileSummary
	content []byte
}

// Store is the in-memory backing state of the development server. All data
// is lost on restart, which is the point: the store exists so the client
// can be exercised end to end without a real deployment.
type Store struct {
	mu     sync.RWMutex
	users  map[string]models.User
	groups map[string]models.Group
	files  map[string]*storedFile
}

func NewStore() *Store {
	return &Store{
		users:  make(map[string]models.User),
		groups: make(map[string]models.Group),
		files:  make(map[string]*storedFile),
	}
}

// Authenticate matches the company id / birthdate pair against the user
// directory.
func (s *Store) Authenticate(companyID, birthdate string) (models.User, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	for _, u := range s.users {
		if u.CompanyID == companyID && u.Birthdate == birthdate {
			return u, true
		}
	}
	return models.User{}, false
}

func (s *Store) User(id string) (models.User, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	u, ok := s.users[id]
	return u, ok
}

// CreateUser inserts a user and assigns it an id.
func (s *Store) CreateUser(u models.User) models.User {
	s.mu.Lock()
	defer s.mu.Unlock()
	u.ID = uuid.NewString()
	s.users[u.ID] = u
	return u
}

func (s *Store) UpdateUser(id string, u models.User) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.users[id]; !ok {
		return false
	}
	u.ID = id
	s.users[id] = u
	return true
}

func (s *Store) DeleteUser(id string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.users[id]; !ok {
		return false
	}
	delete(s.users, id)
	return true
}

// DeleteNonAdmins removes every user without the admin role and returns
// how many were removed.
func (s *Store) DeleteNonAdmins() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	count := 0
	for id, u := range s.users {
		if u.Role != models.RoleAdmin {
			delete(s.users, id)
			count++
		}
	}
	return count
}

// HasUserNamed reports whether a user with this exact name exists.
func (s *Store) HasUserNamed(firstname, lastname string) bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	for _, u := range s.users {
		if u.Firstname == firstname && u.Lastname == lastname {
			return true
		}
	}
	return false
}

// UserByCompanyID looks a user up by the company id, the import match key.
func (s *Store) UserByCompanyID(companyID string) (models.User, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	for _, u := range s.users {
		if u.CompanyID == companyID {
			return u, true
		}
	}
	return models.User{}, false
}

// ListUsers returns one page of the directory plus the filtered total.
// Ordering is by lastname then firstname so pagination is stable.
func (s *Store) ListUsers(page, limit int, query string) ([]models.User, int) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var matched []models.User
	for _, u := range s.users {
		if userMatches(u, query) {
			matched = append(matched, u)
		}
	}
	sort.Slice(matched, func(i, j int) bool {
		if matched[i].Lastname != matched[j].Lastname {
			return matched[i].Lastname < matched[j].Lastname
		}
		return matched[i].Firstname < matched[j].Firstname
	})
	return paginate(matched, page, limit), len(matched)
}

// AllUsers returns the full directory sorted for export.
func (s *Store) AllUsers() []models.User {
	s.mu.RLock()
	n := len(s.users)
	s.mu.RUnlock()
	users, _ := s.ListUsers(1, n+1, "")
	return users
}

func userMatches(u models.User, query string) bool {
	if query == "" {
		return true
	}
	q := strings.ToLower(query)
	for _, field := range []string{u.Firstname, u.Lastname, u.Department, u.CompanyID} {
		if strings.Contains(strings.ToLower(field), q) {
			return true
		}
	}
	return false
}

func (s *Store) Groups() []models.Group {
	s.mu.RLock()
	defer s.mu.RUnlock()
	groups := make([]models.Group, 0, len(s.groups))
	for _, g := range s.groups {
		groups = append(groups, g)
	}
	sort.Slice(groups, func(i, j int) bool { return groups[i].Name < groups[j].Name })
	return groups
}

// CreateGroup inserts a group; a duplicate name reports false.
func (s *Store) CreateGroup(name string) (models.Group, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, g := range s.groups {
		if g.Name == name {
			return models.Group{}, false
		}
	}
	g := models.Group{ID: uuid.NewString(), Name: name}
	s.groups[g.ID] = g
	return g, true
}

// DeleteGroup removes a group by name. References from users and files are
// left as they are.
func (s *Store) DeleteGroup(name string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	for id, g := range s.groups {
		if g.Name == name {
			delete(s.groups, id)
			return true
		}
	}
	return false
}

// AddFile stores an uploaded PDF and its catalogue entry.
func (s *Store) AddFile(summary models.FileSummary, content []byte) models.FileSummary {
	s.mu.Lock()
	defer s.mu.Unlock()
	summary.ID = uuid.NewString()
	summary.StoredName = uuid.NewString() + ".pdf"
	s.files[summary.ID] = &storedFile{summary: summary, content: content}
	return summary
}

func (s *Store) UpdateFile(id string, upd models.FileUpdate) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	f, ok := s.files[id]
	if !ok {
		return false
	}
	f.summary.Groups = upd.Groups
	f.summary.DisplayName = upd.DisplayName
	return true
}

func (s *Store) DeleteFile(id string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.files[id]; !ok {
		return false
	}
	delete(s.files, id)
	return true
}

// File returns a file's catalogue entry and content.
func (s *Store) File(id string) (models.FileSummary, []byte, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	f, ok := s.files[id]
	if !ok {
		return models.FileSummary{}, nil, false
	}
	return f.summary, f.content, true
}

// ListFiles returns one page of the catalogue plus the filtered total,
// ordered by title.
func (s *Store) ListFiles(page, limit int, query string) ([]models.FileSummary, int) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var matched []models.FileSummary
	for _, f := range s.files {
		if fileMatches(f.summary, query) {
			matched = append(matched, f.summary)
		}
	}
	sort.Slice(matched, func(i, j int) bool { return matched[i].Title() < matched[j].Title() })
	return paginate(matched, page, limit), len(matched)
}

// FilesForUser returns the catalogue entries visible to a user: every file
// for admins, group-intersecting files for everyone else.
func (s *Store) FilesForUser(u models.User) []models.FileSummary {
	s.mu.RLock()
	defer s.mu.RUnlock()

	member := make(map[string]bool, len(u.Groups))
	for _, g := range u.Groups {
		member[g] = true
	}

	var visible []models.FileSummary
	for _, f := range s.files {
		if u.Role == models.RoleAdmin || intersects(f.summary.Groups, member) {
			visible = append(visible, f.summary)
		}
	}
	sort.Slice(visible, func(i, j int) bool { return visible[i].Title() < visible[j].Title() })
	return visible
}

// VisibleTo reports whether a user may read the file.
func (s *Store) VisibleTo(u models.User, fileID string) bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	f, ok := s.files[fileID]
	if !ok {
		return false
	}
	if u.Role == models.RoleAdmin {
		return true
	}
	member := make(map[string]bool, len(u.Groups))
	for _, g := range u.Groups {
		member[g] = true
	}
	return intersects(f.summary.Groups, member)
}

func fileMatches(f models.FileSummary, query string) bool {
	if query == "" {
		return true
	}
	q := strings.ToLower(query)
	return strings.Contains(strings.ToLower(f.OriginalName), q) ||
		strings.Contains(strings.ToLower(f.DisplayName), q)
}

func intersects(groups []string, member map[string]bool) bool {
	for _, g := range groups {
		if member[g] {
			return true
		}
	}
	return false
}

func paginate[T any](items []T, page, limit int) []T {
	if page < 1 {
		page = 1
	}
	if limit < 1 {
		limit = 10
	}
	start := (page - 1) * limit
	if start >= len(items) {
		return nil
	}
	end := start + limit
	if end > len(items) {
		end = len(items)
	}
	return items[start:end]
}
