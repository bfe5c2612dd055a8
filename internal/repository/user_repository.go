package repository

import (
	"context"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/KwaminaWhyte/pm-tnt-backend-sub001/internal/domain/user"
)

// UserModel is the read-side GORM model for the users table. Credentials live
// with the identity service and are not mapped here.
type UserModel struct {
	ID        uuid.UUID `gorm:"type:uuid;primaryKey"`
	FirstName string    `gorm:"size:100"`
	LastName  string    `gorm:"size:100"`
	Email     string    `gorm:"uniqueIndex;not null;size:255"`
	Phone     string    `gorm:"size:30"`
	Role      string    `gorm:"not null;size:20;default:'user'"`
	IsActive  bool      `gorm:"not null;default:true"`
	CreatedAt time.Time `gorm:"not null;index"`
	UpdatedAt time.Time `gorm:"not null"`
}

func (UserModel) TableName() string { return "users" }

var userColumns = map[string]string{
	"id":        "id",
	"firstName": "first_name",
	"lastName":  "last_name",
	"email":     "email",
	"phone":     "phone",
	"role":      "role",
	"isActive":  "is_active",
	"createdAt": "created_at",
}

// GormUserRepository lists users for the admin directory.
type GormUserRepository struct {
	*gormCollection[UserModel, *user.User]
}

// NewGormUserRepository creates a new GormUserRepository.
func NewGormUserRepository(db *gorm.DB) *GormUserRepository {
	return &GormUserRepository{newGormCollection(db, "User", userColumns, toDomainUser)}
}

func (r *GormUserRepository) FindByID(ctx context.Context, id uuid.UUID) (*user.User, error) {
	return r.first(ctx, id.String())
}

func toDomainUser(m *UserModel) (*user.User, error) {
	return &user.User{
		ID:        m.ID,
		FirstName: m.FirstName,
		LastName:  m.LastName,
		Email:     m.Email,
		Phone:     m.Phone,
		Role:      user.Role(m.Role),
		IsActive:  m.IsActive,
		CreatedAt: m.CreatedAt,
		UpdatedAt: m.UpdatedAt,
	}, nil
}
