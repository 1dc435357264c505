package api

import (
	"context"

	"github.com/jbweber/homelab/adh/internal/device"
	"github.com/jbweber/homelab/adh/internal/domain"
	"github.com/jbweber/homelab/adh/internal/repository"
)

// FilterDevices implements DevicesStore interface
func (a *API) FilterDevices(ctx context.Context, f repository.DeviceFilter) ([]domain.Device, int, error) {
	return a.deviceRepo.Filter(ctx, f)
}

// GetDevice implements DevicesStore interface
func (a *API) GetDevice(ctx context.Context, mac string) (domain.Device, error) {
	return a.deviceRepo.FindByMAC(ctx, mac)
}

// PutDevice implements DevicesStore interface
func (a *API) PutDevice(ctx context.Context, mac string, req device.Request) (device.Outcome, error) {
	return a.reconciler.Put(ctx, mac, req)
}

// DeleteDevice implements DevicesStore interface
func (a *API) DeleteDevice(ctx context.Context, mac string) error {
	return a.reconciler.Delete(ctx, mac)
}
