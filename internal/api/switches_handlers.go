package api

import (
	"context"
	"fmt"
	"net/http"

	"github.com/jbweber/homelab/adh/internal/domain"
	"github.com/jbweber/homelab/adh/internal/logging"
	"github.com/jbweber/homelab/adh/internal/repository"
)

// SwitchesStore defines the datastore interface for switch handlers
type SwitchesStore interface {
	FilterSwitches(ctx context.Context, f repository.SwitchFilter) ([]domain.Switch, int, error)
	CreateSwitch(ctx context.Context, s domain.Switch) (domain.Switch, error)
	GetSwitch(ctx context.Context, id int64) (domain.Switch, error)
	UpdateSwitch(ctx context.Context, s domain.Switch) (domain.Switch, error)
	DeleteSwitch(ctx context.Context, id int64) error
}

// Switches groups switch handlers for testability
type Switches struct {
	store  SwitchesStore
	logger *logging.Logger
}

func NewSwitches(store SwitchesStore, logger *logging.Logger) *Switches {
	return &Switches{store: store, logger: logger}
}

// SwitchBody is the writable part of a switch.
type SwitchBody struct {
	Description string `json:"description"`
	IP          string `json:"ip"`
	Community   string `json:"community"`
}

type SwitchResponse struct {
	ID          int64  `json:"id"`
	Description string `json:"description"`
	IP          string `json:"ip"`
	Community   string `json:"community"`
}

// SwitchListItem is one entry of the switch listing.
type SwitchListItem struct {
	SwitchID int64      `json:"switchID"`
	Switch   SwitchBody `json:"switch"`
}

func (b SwitchBody) toDomain(id int64) domain.Switch {
	return domain.Switch{ID: id, Description: b.Description, IP: b.IP, Community: b.Community}
}

func toSwitchResponse(s domain.Switch) SwitchResponse {
	return SwitchResponse{ID: s.ID, Description: s.Description, IP: s.IP, Community: s.Community}
}

// FilterSwitchesHandler handles GET /switch/.
//
// Query: limit, offset, terms (substring of description, ip or community).
func (s *Switches) FilterSwitchesHandler(w http.ResponseWriter, r *http.Request) {
	page, err := parsePage(r)
	if err != nil {
		writeBadRequest(w, err.Error())
		return
	}

	switches, total, err := s.store.FilterSwitches(r.Context(), repository.SwitchFilter{
		Page:  page,
		Terms: r.URL.Query().Get("terms"),
	})
	if err != nil {
		writeStoreError(w, s.logger, r, err)
		return
	}

	response := make([]SwitchListItem, len(switches))
	for i, sw := range switches {
		response[i] = SwitchListItem{
			SwitchID: sw.ID,
			Switch:   SwitchBody{Description: sw.Description, IP: sw.IP, Community: sw.Community},
		}
	}

	setTotalCount(w, total)
	writeJSON(w, http.StatusOK, response)
}

// CreateSwitchHandler handles POST /switch/.
func (s *Switches) CreateSwitchHandler(w http.ResponseWriter, r *http.Request) {
	var body SwitchBody
	if err := decodeJSON(r, &body); err != nil {
		writeBadRequest(w, err.Error())
		return
	}

	created, err := s.store.CreateSwitch(r.Context(), body.toDomain(0))
	if err != nil {
		writeStoreError(w, s.logger, r, err)
		return
	}

	w.Header().Set("Location", fmt.Sprintf("/switch/%d", created.ID))
	writeJSON(w, http.StatusCreated, toSwitchResponse(created))
}

// GetSwitchHandler handles GET /switch/{switchID}.
func (s *Switches) GetSwitchHandler(w http.ResponseWriter, r *http.Request) {
	id, err := parseID(r, "switchID")
	if err != nil {
		writeBadRequest(w, err.Error())
		return
	}

	sw, err := s.store.GetSwitch(r.Context(), id)
	if err != nil {
		writeStoreError(w, s.logger, r, err)
		return
	}
	writeJSON(w, http.StatusOK, toSwitchResponse(sw))
}

// UpdateSwitchHandler handles PUT /switch/{switchID}. The body is validated
// before the switch is looked up, so an invalid body never changes the row.
func (s *Switches) UpdateSwitchHandler(w http.ResponseWriter, r *http.Request) {
	id, err := parseID(r, "switchID")
	if err != nil {
		writeBadRequest(w, err.Error())
		return
	}

	var body SwitchBody
	if err := decodeJSON(r, &body); err != nil {
		writeBadRequest(w, err.Error())
		return
	}

	if _, err := s.store.UpdateSwitch(r.Context(), body.toDomain(id)); err != nil {
		writeStoreError(w, s.logger, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// DeleteSwitchHandler handles DELETE /switch/{switchID}. Ports of the
// switch go with it.
func (s *Switches) DeleteSwitchHandler(w http.ResponseWriter, r *http.Request) {
	id, err := parseID(r, "switchID")
	if err != nil {
		writeBadRequest(w, err.Error())
		return
	}

	if err := s.store.DeleteSwitch(r.Context(), id); err != nil {
		writeStoreError(w, s.logger, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
