package application

import (
	"context"

	"github.com/google/uuid"

	"github.com/KwaminaWhyte/pm-tnt-backend-sub001/internal/domain/user"
	"github.com/KwaminaWhyte/pm-tnt-backend-sub001/internal/query"
)

// UserService backs the admin user directory.
type UserService struct {
	users  user.Directory
	engine *query.Engine
}

// NewUserService creates a new UserService.
func NewUserService(users user.Directory, engine *query.Engine) *UserService {
	return &UserService{users: users, engine: engine}
}

// ListUsers returns one page of users matching params.
func (s *UserService) ListUsers(ctx context.Context, params query.Params) (*query.PageResult[*user.User], error) {
	return query.Search(ctx, s.engine, params, user.SearchConfig, query.Collection[*user.User](s.users))
}

// GetUser retrieves a single user.
func (s *UserService) GetUser(ctx context.Context, id uuid.UUID) (*user.User, error) {
	return s.users.FindByID(ctx, id)
}
