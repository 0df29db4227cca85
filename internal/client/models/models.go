// Package models defines the portal's wire-level data types: the
// authenticated identity, users, groups, file records, and the paged
// result envelope returned by admin list endpoints.
package models

import "encoding/json"

// Role distinguishes regular employees from administrators.
type Role string

const (
	RoleUser  Role = "user"
	RoleAdmin Role = "admin"
)

// Identity is the authenticated principal returned by the login endpoint.
// It is owned by the session store: created on login, destroyed on logout
// or credential invalidation.
type Identity struct {
	ID        string `json:"id"`
	Role      Role   `json:"role"`
	CompanyID string `json:"companyid"`
	Firstname string `json:"firstname,omitempty"`
	Lastname  string `json:"lastname,omitempty"`
}

// IsAdmin reports whether the identity may enter the admin area.
func (i *Identity) IsAdmin() bool {
	return i != nil && i.Role == RoleAdmin
}

// User is an employee record managed on the admin Users screen.
// Group membership is stored by group name, matching the wire contract.
type User struct {
	ID         string   `json:"_id,omitempty"`
	Firstname  string   `json:"firstname"`
	Lastname   string   `json:"lastname"`
	Department string   `json:"department"`
	Role       Role     `json:"role"`
	Birthdate  string   `json:"birthdate"` // YYYY-MM-DD
	CompanyID  string   `json:"companyid"`
	Groups     []string `json:"groups"`
}

// Group is a named tag controlling which users see which files.
type Group struct {
	ID   string `json:"_id,omitempty"`
	Name string `json:"name"`
}

// FileSummary describes an uploaded PDF. StoredName is the server-side
// storage key ("filename" on the wire); DisplayName is optional and falls
// back to OriginalName for presentation.
type FileSummary struct {
	ID           string   `json:"_id"`
	OriginalName string   `json:"originalName"`
	StoredName   string   `json:"filename"`
	DisplayName  string   `json:"displayName,omitempty"`
	UploadDate   string   `json:"uploadDate,omitempty"`
	Groups       []string `json:"groups"`
}

// Title returns the name shown to users: display name when set,
// otherwise the original upload name.
func (f *FileSummary) Title() string {
	if f.DisplayName != "" {
		return f.DisplayName
	}
	return f.OriginalName
}

// FileUpdate is the mutable subset of a file record.
type FileUpdate struct {
	Groups      []string `json:"groups"`
	DisplayName string   `json:"displayName"`
}

// ImportReport summarizes a bulk user import.
type ImportReport struct {
	Inserted            int `json:"inserted"`
	MatchedExisting     int `json:"matchedExisting"`
	SkippedExistingName int `json:"skippedExistingName"`
}

// Page is a bounded slice of a larger server-side collection plus the total
// match count. len(Items) <= the requested limit; Total counts all matches
// independent of the current page.
type Page[T any] struct {
	Items []T `json:"items"`
	Total int `json:"total"`
}

// UnmarshalJSON accepts both the {items,total} envelope and a bare JSON
// array. A bare array degrades to client-count pagination: Total becomes
// len(Items). An envelope without a numeric total does the same.
func (p *Page[T]) UnmarshalJSON(data []byte) error {
	var envelope struct {
		Items []T  `json:"items"`
		Total *int `json:"total"`
	}
	if err := json.Unmarshal(data, &envelope); err == nil {
		p.Items = envelope.Items
		if envelope.Total != nil {
			p.Total = *envelope.Total
		} else {
			p.Total = len(envelope.Items)
		}
		return nil
	}

	var items []T
	if err := json.Unmarshal(data, &items); err != nil {
		return err
	}
	p.Items = items
	p.Total = len(items)
	return nil
}
