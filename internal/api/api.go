package api

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/jbweber/homelab/adh/internal/datastore"
	"github.com/jbweber/homelab/adh/internal/device"
	"github.com/jbweber/homelab/adh/internal/logging"
	"github.com/jbweber/homelab/adh/internal/notify"
	"github.com/jbweber/homelab/adh/internal/repository"
	"github.com/jbweber/homelab/adh/internal/snmp"
)

// API holds repository dependencies for clean data access
type API struct {
	switchRepo repository.SwitchRepository
	portRepo   repository.PortRepository
	deviceRepo repository.DeviceRepository
	memberRepo repository.MemberRepository
	reconciler *device.Reconciler
	prober     PortStateProber
	logger     *logging.Logger
}

// NewAPI creates a new API instance with repositories initialized from the datastore
func NewAPI(ds *datastore.Datastore, prober PortStateProber, notifier notify.Notifier, logger *logging.Logger) *API {
	return NewAPIWithRepos(
		repository.NewSwitchRepository(ds.DB),
		repository.NewPortRepository(ds.DB),
		repository.NewDeviceRepository(ds.DB),
		repository.NewMemberRepository(ds.DB),
		prober,
		notifier,
		logger,
	)
}

// NewAPIWithRepos creates a new API instance with the provided repositories
func NewAPIWithRepos(
	switchRepo repository.SwitchRepository,
	portRepo repository.PortRepository,
	deviceRepo repository.DeviceRepository,
	memberRepo repository.MemberRepository,
	prober PortStateProber,
	notifier notify.Notifier,
	logger *logging.Logger,
) *API {
	if logger == nil {
		logger = logging.Discard()
	}
	if prober == nil {
		prober = snmp.NewProber(snmp.DefaultPort, 0, 1)
	}
	return &API{
		switchRepo: switchRepo,
		portRepo:   portRepo,
		deviceRepo: deviceRepo,
		memberRepo: memberRepo,
		reconciler: device.NewReconciler(deviceRepo, memberRepo, notifier, logger),
		prober:     prober,
		logger:     logger.With("component", "api"),
	}
}

// Close releases the prepared statements held by the repositories.
func (a *API) Close() error {
	return errors.Join(a.deviceRepo.Close(), a.memberRepo.Close())
}

// healthHandler handles GET /.
func (a *API) healthHandler(w http.ResponseWriter, r *http.Request) {
	if _, err := fmt.Fprintln(w, "adh web service is running!"); err != nil {
		a.logger.Warn("failed to write response", "error", err)
	}
}

// RegisterRoutes registers all API endpoints to the given chi router.
func (a *API) RegisterRoutes(r chi.Router) {
	r.Get("/", a.healthHandler)

	switches := NewSwitches(a, a.logger)
	ports := NewPorts(a, a.prober, a.logger)
	r.Route("/switch", func(r chi.Router) {
		r.Get("/", switches.FilterSwitchesHandler)
		r.Post("/", switches.CreateSwitchHandler)
		r.Route("/{switchID}", func(r chi.Router) {
			r.Get("/", switches.GetSwitchHandler)
			r.Put("/", switches.UpdateSwitchHandler)
			r.Delete("/", switches.DeleteSwitchHandler)

			r.Route("/port", func(r chi.Router) {
				r.Get("/", ports.FilterSwitchPortsHandler)
				r.Post("/", ports.CreatePortHandler)
				r.Get("/{portID}", ports.GetPortHandler)
				r.Put("/{portID}", ports.UpdatePortHandler)
				r.Delete("/{portID}", ports.DeletePortHandler)
				r.Get("/{portID}/state", ports.PortStateHandler)
			})
		})
	})

	r.Route("/port", func(r chi.Router) {
		r.Get("/", ports.FilterPortsHandler)
	})

	devices := NewDevices(a, a.logger)
	r.Route("/device", func(r chi.Router) {
		r.Get("/", devices.FilterDevicesHandler)
		r.Get("/{mac}", devices.GetDeviceHandler)
		r.Put("/{mac}", devices.PutDeviceHandler)
		r.Delete("/{mac}", devices.DeleteDeviceHandler)
	})
}
