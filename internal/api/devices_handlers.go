package api

import (
	"context"
	"net/http"
	"net/url"

	"github.com/go-chi/chi/v5"

	"github.com/jbweber/homelab/adh/internal/device"
	"github.com/jbweber/homelab/adh/internal/domain"
	"github.com/jbweber/homelab/adh/internal/logging"
	"github.com/jbweber/homelab/adh/internal/repository"
)

// DevicesStore defines the datastore interface for device handlers
type DevicesStore interface {
	FilterDevices(ctx context.Context, f repository.DeviceFilter) ([]domain.Device, int, error)
	GetDevice(ctx context.Context, mac string) (domain.Device, error)
	PutDevice(ctx context.Context, mac string, req device.Request) (device.Outcome, error)
	DeleteDevice(ctx context.Context, mac string) error
}

// Devices groups device handlers for testability
type Devices struct {
	store  DevicesStore
	logger *logging.Logger
}

func NewDevices(store DevicesStore, logger *logging.Logger) *Devices {
	return &Devices{store: store, logger: logger}
}

// DeviceRequest is the body of PUT /device/{mac}. The owner may be given as
// username or ownerLogin.
type DeviceRequest struct {
	MAC            string `json:"mac"`
	ConnectionType string `json:"connectionType"`
	Username       string `json:"username"`
	OwnerLogin     string `json:"ownerLogin,omitempty"`
	IPAddress      string `json:"ipAddress,omitempty"`
	IPv6Address    string `json:"ipv6Address,omitempty"`
}

type DeviceResponse struct {
	MAC            string `json:"mac"`
	ConnectionType string `json:"connectionType"`
	Username       string `json:"username"`
	IPAddress      string `json:"ipAddress,omitempty"`
	IPv6Address    string `json:"ipv6Address,omitempty"`
}

func (d DeviceRequest) toRequest() device.Request {
	owner := d.Username
	if owner == "" {
		owner = d.OwnerLogin
	}
	return device.Request{
		MAC:            d.MAC,
		ConnectionType: domain.ConnectionType(d.ConnectionType),
		OwnerLogin:     owner,
		IPv4:           d.IPAddress,
		IPv6:           d.IPv6Address,
	}
}

func toDeviceResponse(d domain.Device) DeviceResponse {
	return DeviceResponse{
		MAC:            d.MAC,
		ConnectionType: string(d.ConnectionType),
		Username:       d.OwnerLogin,
		IPAddress:      d.IPv4,
		IPv6Address:    d.IPv6,
	}
}

// macParam returns the unescaped {mac} path parameter.
func macParam(r *http.Request) string {
	raw := chi.URLParam(r, "mac")
	if mac, err := url.PathUnescape(raw); err == nil {
		return mac
	}
	return raw
}

// FilterDevicesHandler handles GET /device/.
//
// Query: limit, offset, username (exact owner login), terms (substring of
// mac, ipAddress or ipv6Address).
func (d *Devices) FilterDevicesHandler(w http.ResponseWriter, r *http.Request) {
	page, err := parsePage(r)
	if err != nil {
		writeBadRequest(w, err.Error())
		return
	}

	q := r.URL.Query()
	devices, total, err := d.store.FilterDevices(r.Context(), repository.DeviceFilter{
		Page:     page,
		Username: q.Get("username"),
		Terms:    q.Get("terms"),
	})
	if err != nil {
		writeStoreError(w, d.logger, r, err)
		return
	}

	response := make([]DeviceResponse, len(devices))
	for i, dev := range devices {
		response[i] = toDeviceResponse(dev)
	}

	setTotalCount(w, total)
	writeJSON(w, http.StatusOK, response)
}

// PutDeviceHandler handles PUT /device/{mac}.
//
// Returns 201 with a Location when the device is new and 204 when an
// existing device was updated or moved between wired and wireless.
func (d *Devices) PutDeviceHandler(w http.ResponseWriter, r *http.Request) {
	var body DeviceRequest
	if err := decodeJSON(r, &body); err != nil {
		writeBadRequest(w, err.Error())
		return
	}

	req := body.toRequest()
	outcome, err := d.store.PutDevice(r.Context(), macParam(r), req)
	if err != nil {
		writeStoreError(w, d.logger, r, err)
		return
	}

	if outcome == device.Created {
		// A create only succeeds when body and path MACs agree.
		mac, _ := domain.NormalizeMAC(req.MAC)
		w.Header().Set("Location", "/device/"+mac)
		w.WriteHeader(http.StatusCreated)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// GetDeviceHandler handles GET /device/{mac}.
func (d *Devices) GetDeviceHandler(w http.ResponseWriter, r *http.Request) {
	mac, err := domain.NormalizeMAC(macParam(r))
	if err != nil {
		writeBadRequest(w, err.Error())
		return
	}

	dev, err := d.store.GetDevice(r.Context(), mac)
	if err != nil {
		writeStoreError(w, d.logger, r, err)
		return
	}
	writeJSON(w, http.StatusOK, toDeviceResponse(dev))
}

// DeleteDeviceHandler handles DELETE /device/{mac}. Both the wired and the
// wireless row are removed, so a repeated delete reports 404.
func (d *Devices) DeleteDeviceHandler(w http.ResponseWriter, r *http.Request) {
	if err := d.store.DeleteDevice(r.Context(), macParam(r)); err != nil {
		writeStoreError(w, d.logger, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
