// Package model contains domain entities and DTOs used across layers.
// I keep it lean and focused on data shapes without behavior.
package model

// User is a single directory entry. ID is assigned by the store and never changes.
type User struct {
	ID        string `json:"id"`
	FirstName string `json:"firstName"`
	LastName  string `json:"lastName"`
}

// UserInput is the payload for creating a user.
// ID exists only so a caller-supplied id can be detected and rejected.
type UserInput struct {
	ID        *string `json:"id,omitempty"`
	FirstName string  `json:"firstName"`
	LastName  string  `json:"lastName"`
}

// UserPatch is a partial update; nil fields are left untouched.
type UserPatch struct {
	FirstName *string `json:"firstName,omitempty"`
	LastName  *string `json:"lastName,omitempty"`
}

// Empty reports whether the patch changes nothing.
func (p UserPatch) Empty() bool { return p.FirstName == nil && p.LastName == nil }

// Pagination is the client-held window plus search filter driving a users query.
// OrderBy is accepted for forward compatibility and has no effect.
type Pagination struct {
	Page     int    `json:"page" validate:"gte=0"`
	PageSize int    `json:"pageSize" validate:"gt=0"`
	Search   string `json:"search"`
	OrderBy  string `json:"orderBy,omitempty"`
}

// UserPage is the result of applying search and pagination to the directory.
// Total counts every match, Data holds at most PageSize of them.
type UserPage struct {
	Total int    `json:"total"`
	Data  []User `json:"data"`
}
