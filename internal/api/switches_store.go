package api

import (
	"context"

	"github.com/jbweber/homelab/adh/internal/domain"
	"github.com/jbweber/homelab/adh/internal/repository"
)

// FilterSwitches implements SwitchesStore interface
func (a *API) FilterSwitches(ctx context.Context, f repository.SwitchFilter) ([]domain.Switch, int, error) {
	return a.switchRepo.Filter(ctx, f)
}

// CreateSwitch implements SwitchesStore interface
func (a *API) CreateSwitch(ctx context.Context, s domain.Switch) (domain.Switch, error) {
	s.ID = 0
	return a.switchRepo.Save(ctx, s)
}

// GetSwitch implements SwitchesStore and PortsStore interfaces
func (a *API) GetSwitch(ctx context.Context, id int64) (domain.Switch, error) {
	return a.switchRepo.FindByID(ctx, id)
}

// UpdateSwitch implements SwitchesStore interface
func (a *API) UpdateSwitch(ctx context.Context, s domain.Switch) (domain.Switch, error) {
	return a.switchRepo.Save(ctx, s)
}

// DeleteSwitch implements SwitchesStore interface
func (a *API) DeleteSwitch(ctx context.Context, id int64) error {
	return a.switchRepo.DeleteByID(ctx, id)
}
