package user

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/KwaminaWhyte/pm-tnt-backend-sub001/internal/query"
)

// Role distinguishes travellers from back-office staff.
type Role string

const (
	RoleUser  Role = "user"
	RoleAdmin Role = "admin"
)

// User is the read model used by the admin directory.
type User struct {
	ID        uuid.UUID `json:"id"`
	FirstName string    `json:"firstName"`
	LastName  string    `json:"lastName"`
	Email     string    `json:"email"`
	Phone     string    `json:"phone"`
	Role      Role      `json:"role"`
	IsActive  bool      `json:"isActive"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

// Directory lists users and looks them up by id.
type Directory interface {
	query.Collection[*User]
	FindByID(ctx context.Context, id uuid.UUID) (*User, error)
}

// SearchConfig matches a search term against name, email and phone.
var SearchConfig = query.EntityConfig{
	Name:         "users",
	SearchFields: []string{"firstName", "lastName", "email", "phone"},
	Filters: map[string]query.FieldRule{
		"role":     {Field: "role", Op: query.OpEq},
		"isActive": {Field: "isActive", Op: query.OpEq, Kind: query.Bool},
	},
	SortFields:  []string{"firstName", "lastName", "email", "createdAt"},
	DefaultSort: query.Sort{Field: "createdAt", Order: query.Desc},
}
