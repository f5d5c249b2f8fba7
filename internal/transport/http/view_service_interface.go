package http

import (
	"context"

	"github.com/krykon00/krk-budget-app/internal/services"
	"github.com/krykon00/krk-budget-app/pkg/contracts/domain"
)

// ViewServiceInterface is the part of services.ViewService the handlers use
type ViewServiceInterface interface {
	Catalog() []services.ViewInfo
	Build(ctx context.Context, name string, filter domain.FilterSelection) (*services.View, error)
	Filters(ctx context.Context, name string) (*services.FilterOptions, error)
	Table(ctx context.Context, name string, filter domain.FilterSelection) (services.NamedTable, error)
}

var _ ViewServiceInterface = (*services.ViewService)(nil)
