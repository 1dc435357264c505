package api

import (
	"context"
	"errors"
	"fmt"
	"net/http"

	"github.com/jbweber/homelab/adh/internal/domain"
	"github.com/jbweber/homelab/adh/internal/logging"
	"github.com/jbweber/homelab/adh/internal/repository"
	"github.com/jbweber/homelab/adh/internal/snmp"
)

// PortsStore defines the datastore interface for port handlers
type PortsStore interface {
	FilterPorts(ctx context.Context, f repository.PortFilter) ([]domain.Port, int, error)
	CreatePort(ctx context.Context, p domain.Port) (domain.Port, error)
	GetPort(ctx context.Context, id int64) (domain.Port, error)
	UpdatePort(ctx context.Context, p domain.Port) (domain.Port, error)
	DeletePort(ctx context.Context, id int64) error
	GetSwitch(ctx context.Context, id int64) (domain.Switch, error)
}

// PortStateProber reads the live operational state of a switch interface.
type PortStateProber interface {
	OperState(ctx context.Context, target, community, oid string) (string, error)
}

// Ports groups port handlers for testability
type Ports struct {
	store  PortsStore
	prober PortStateProber
	logger *logging.Logger
}

func NewPorts(store PortsStore, prober PortStateProber, logger *logging.Logger) *Ports {
	return &Ports{store: store, prober: prober, logger: logger}
}

// PortRequest is the body of port create and update. SwitchID defaults to
// the switch in the path.
type PortRequest struct {
	PortNumber string `json:"portNumber"`
	RoomNumber *int64 `json:"roomNumber,omitempty"`
	SwitchID   *int64 `json:"switchID,omitempty"`
	OID        string `json:"oid,omitempty"`
	Rcom       int64  `json:"rcom,omitempty"`
}

type PortResponse struct {
	ID         int64  `json:"id"`
	PortNumber string `json:"portNumber"`
	RoomNumber *int64 `json:"roomNumber,omitempty"`
	SwitchID   int64  `json:"switchID"`
	OID        string `json:"oid,omitempty"`
	Rcom       int64  `json:"rcom"`
}

type PortStateResponse struct {
	PortID int64  `json:"portID"`
	OID    string `json:"oid"`
	State  string `json:"state"`
}

func (p PortRequest) toDomain(id, pathSwitchID int64) domain.Port {
	switchID := pathSwitchID
	if p.SwitchID != nil {
		switchID = *p.SwitchID
	}
	return domain.Port{
		ID:         id,
		SwitchID:   switchID,
		RoomNumber: p.RoomNumber,
		PortNumber: p.PortNumber,
		OID:        p.OID,
		Rcom:       p.Rcom,
	}
}

func toPortResponse(p domain.Port) PortResponse {
	return PortResponse{
		ID:         p.ID,
		PortNumber: p.PortNumber,
		RoomNumber: p.RoomNumber,
		SwitchID:   p.SwitchID,
		OID:        p.OID,
		Rcom:       p.Rcom,
	}
}

// FilterPortsHandler handles GET /port/.
//
// Query: limit, offset, switchID, roomNumber, terms (substring of port number or oid).
func (p *Ports) FilterPortsHandler(w http.ResponseWriter, r *http.Request) {
	switchID, err := parseOptionalInt64(r, "switchID")
	if err != nil {
		writeBadRequest(w, err.Error())
		return
	}
	p.filter(w, r, switchID)
}

// FilterSwitchPortsHandler handles GET /switch/{switchID}/port/.
func (p *Ports) FilterSwitchPortsHandler(w http.ResponseWriter, r *http.Request) {
	switchID, err := parseID(r, "switchID")
	if err != nil {
		writeBadRequest(w, err.Error())
		return
	}
	p.filter(w, r, &switchID)
}

func (p *Ports) filter(w http.ResponseWriter, r *http.Request, switchID *int64) {
	page, err := parsePage(r)
	if err != nil {
		writeBadRequest(w, err.Error())
		return
	}
	roomNumber, err := parseOptionalInt64(r, "roomNumber")
	if err != nil {
		writeBadRequest(w, err.Error())
		return
	}

	ports, total, err := p.store.FilterPorts(r.Context(), repository.PortFilter{
		Page:       page,
		SwitchID:   switchID,
		RoomNumber: roomNumber,
		Terms:      r.URL.Query().Get("terms"),
	})
	if err != nil {
		writeStoreError(w, p.logger, r, err)
		return
	}

	response := make([]PortResponse, len(ports))
	for i, port := range ports {
		response[i] = toPortResponse(port)
	}

	setTotalCount(w, total)
	writeJSON(w, http.StatusOK, response)
}

// CreatePortHandler handles POST /switch/{switchID}/port/.
// Returns 400 when the switch or room does not exist.
func (p *Ports) CreatePortHandler(w http.ResponseWriter, r *http.Request) {
	switchID, err := parseID(r, "switchID")
	if err != nil {
		writeBadRequest(w, err.Error())
		return
	}

	var req PortRequest
	if err := decodeJSON(r, &req); err != nil {
		writeBadRequest(w, err.Error())
		return
	}

	created, err := p.store.CreatePort(r.Context(), req.toDomain(0, switchID))
	if err != nil {
		writeStoreError(w, p.logger, r, err)
		return
	}

	w.Header().Set("Location", fmt.Sprintf("/switch/%d/port/%d", created.SwitchID, created.ID))
	writeJSON(w, http.StatusCreated, toPortResponse(created))
}

// lookup loads the port from the path and checks it belongs to the path switch.
func (p *Ports) lookup(w http.ResponseWriter, r *http.Request) (domain.Port, bool) {
	switchID, err := parseID(r, "switchID")
	if err != nil {
		writeBadRequest(w, err.Error())
		return domain.Port{}, false
	}
	portID, err := parseID(r, "portID")
	if err != nil {
		writeBadRequest(w, err.Error())
		return domain.Port{}, false
	}

	port, err := p.store.GetPort(r.Context(), portID)
	if err != nil {
		writeStoreError(w, p.logger, r, err)
		return domain.Port{}, false
	}
	if port.SwitchID != switchID {
		writeNotFound(w, fmt.Sprintf("port %d not found on switch %d", portID, switchID))
		return domain.Port{}, false
	}
	return port, true
}

// GetPortHandler handles GET /switch/{switchID}/port/{portID}.
func (p *Ports) GetPortHandler(w http.ResponseWriter, r *http.Request) {
	port, ok := p.lookup(w, r)
	if !ok {
		return
	}
	writeJSON(w, http.StatusOK, toPortResponse(port))
}

// UpdatePortHandler handles PUT /switch/{switchID}/port/{portID}.
// The port must be on the path switch; a body switchID moves it. An unknown
// target switch or room is a 400.
func (p *Ports) UpdatePortHandler(w http.ResponseWriter, r *http.Request) {
	port, ok := p.lookup(w, r)
	if !ok {
		return
	}

	var req PortRequest
	if err := decodeJSON(r, &req); err != nil {
		writeBadRequest(w, err.Error())
		return
	}

	if _, err := p.store.UpdatePort(r.Context(), req.toDomain(port.ID, port.SwitchID)); err != nil {
		writeStoreError(w, p.logger, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// DeletePortHandler handles DELETE /switch/{switchID}/port/{portID}.
func (p *Ports) DeletePortHandler(w http.ResponseWriter, r *http.Request) {
	port, ok := p.lookup(w, r)
	if !ok {
		return
	}
	if err := p.store.DeletePort(r.Context(), port.ID); err != nil {
		writeStoreError(w, p.logger, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// PortStateHandler handles GET /switch/{switchID}/port/{portID}/state by
// querying the switch over SNMP.
func (p *Ports) PortStateHandler(w http.ResponseWriter, r *http.Request) {
	port, ok := p.lookup(w, r)
	if !ok {
		return
	}
	sw, err := p.store.GetSwitch(r.Context(), port.SwitchID)
	if err != nil {
		writeStoreError(w, p.logger, r, err)
		return
	}

	state, err := p.prober.OperState(r.Context(), sw.IP, sw.Community, port.OID)
	switch {
	case err == nil:
	case errors.Is(err, snmp.ErrInvalidOID):
		writeBadRequest(w, err.Error())
		return
	case errors.Is(err, snmp.ErrNoSuchInterface):
		writeNotFound(w, err.Error())
		return
	case errors.Is(err, snmp.ErrUnreachable):
		p.logger.Warn("switch unreachable", "switch_id", sw.ID, "ip", sw.IP, "error", err)
		writeError(w, http.StatusBadGateway, ErrCodeBadGateway, err.Error())
		return
	default:
		writeStoreError(w, p.logger, r, err)
		return
	}

	writeJSON(w, http.StatusOK, PortStateResponse{PortID: port.ID, OID: port.OID, State: state})
}
