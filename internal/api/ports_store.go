package api

import (
	"context"

	"github.com/jbweber/homelab/adh/internal/domain"
	"github.com/jbweber/homelab/adh/internal/repository"
)

// FilterPorts implements PortsStore interface
func (a *API) FilterPorts(ctx context.Context, f repository.PortFilter) ([]domain.Port, int, error) {
	return a.portRepo.Filter(ctx, f)
}

// CreatePort implements PortsStore interface
func (a *API) CreatePort(ctx context.Context, p domain.Port) (domain.Port, error) {
	p.ID = 0
	return a.portRepo.Save(ctx, p)
}

// GetPort implements PortsStore interface
func (a *API) GetPort(ctx context.Context, id int64) (domain.Port, error) {
	return a.portRepo.FindByID(ctx, id)
}

// UpdatePort implements PortsStore interface
func (a *API) UpdatePort(ctx context.Context, p domain.Port) (domain.Port, error) {
	return a.portRepo.Save(ctx, p)
}

// DeletePort implements PortsStore interface
func (a *API) DeletePort(ctx context.Context, id int64) error {
	return a.portRepo.DeleteByID(ctx, id)
}
