package repository

import (
	"context"
	"errors"

	"github.com/cjodon01/autoauthadmin/domain/model"
)

// ErrNotFound is returned by lookups when no row matches inside the caller's tenant.
var ErrNotFound = errors.New("record not found")

// IConnection is the read-only connection lookup, scoped to the owning user.
type IConnection interface {
	GetByID(ctx context.Context, id, userID string) (*model.Connection, error)
}

// IPage is the read-only page lookup, scoped to the owning user.
type IPage interface {
	GetByID(ctx context.Context, id, userID string) (*model.Page, error)
}

// IPlatformAdapter executes one feature against one platform API.
type IPlatformAdapter interface {
	Execute(ctx context.Context, call model.AdapterCall) (*model.CallResult, error)
}
