// Package device reconciles a requested device state with the wired and
// wireless device tables.
package device

import (
	"context"
	"errors"
	"fmt"

	"github.com/jbweber/homelab/adh/internal/domain"
	"github.com/jbweber/homelab/adh/internal/logging"
	"github.com/jbweber/homelab/adh/internal/notify"
	"github.com/jbweber/homelab/adh/internal/repository"
)

// Store is the persistence the reconciler needs.
type Store interface {
	InTx(ctx context.Context, fn func(tx repository.DeviceTx) error) error
	DeleteByMAC(ctx context.Context, mac string) ([]domain.Device, error)
}

// MemberFinder resolves owner logins.
type MemberFinder interface {
	FindByLogin(ctx context.Context, login string) (domain.Member, error)
}

// Request is the desired state of the device addressed by a MAC.
type Request struct {
	MAC            string
	ConnectionType domain.ConnectionType
	OwnerLogin     string
	IPv4           string
	IPv6           string
}

// Outcome tells whether Put created a new device or updated an existing one.
type Outcome int

const (
	Created Outcome = iota + 1
	Updated
)

func (o Outcome) String() string {
	switch o {
	case Created:
		return "created"
	case Updated:
		return "updated"
	default:
		return "unknown"
	}
}

// Reconciler applies create-or-update requests so that a MAC ends up in
// exactly one device table.
type Reconciler struct {
	store    Store
	members  MemberFinder
	notifier notify.Notifier
	logger   *logging.Logger
	locks    *keyedMutex
}

// NewReconciler creates a reconciler. A nil notifier disables events.
func NewReconciler(store Store, members MemberFinder, notifier notify.Notifier, logger *logging.Logger) *Reconciler {
	if notifier == nil {
		notifier = notify.Nop{}
	}
	if logger == nil {
		logger = logging.Discard()
	}
	return &Reconciler{
		store:    store,
		members:  members,
		notifier: notifier,
		logger:   logger.With("component", "device"),
		locks:    newKeyedMutex(),
	}
}

// plan is the set of writes for one Put.
type plan struct {
	drop    domain.ConnectionType // row to delete first, "" for none
	inPlace bool                  // update the wanted row instead of creating it
	outcome Outcome
	action  notify.Action
}

// decide maps what exists for the path MAC and the wanted connection type
// to at most one delete and one create or update.
func decide(hasWired, hasWireless bool, wanted domain.ConnectionType) plan {
	hasWanted, hasOther := hasWired, hasWireless
	other := domain.ConnectionWireless
	if wanted == domain.ConnectionWireless {
		hasWanted, hasOther = hasWireless, hasWired
		other = domain.ConnectionWired
	}

	p := plan{inPlace: hasWanted, outcome: Updated, action: notify.ActionUpdated}
	if hasOther {
		p.drop = other
	}
	switch {
	case !hasWanted && !hasOther:
		p.outcome = Created
		p.action = notify.ActionCreated
	case !hasWanted:
		p.action = notify.ActionMigrated
	}
	return p
}

func (r *Reconciler) validate(pathMAC string, req Request) (string, Request, error) {
	path, err := domain.NormalizeMAC(pathMAC)
	if err != nil {
		return "", req, fmt.Errorf("%w: %v", ErrMalformedAddress, err)
	}
	req.MAC, err = domain.NormalizeMAC(req.MAC)
	if err != nil {
		return "", req, fmt.Errorf("%w: %v", ErrMalformedAddress, err)
	}
	if req.IPv4 != "" && !domain.IsIPv4(req.IPv4) {
		return "", req, fmt.Errorf("%w: %v %q", ErrMalformedAddress, domain.ErrInvalidIPv4, req.IPv4)
	}
	if req.IPv6 != "" && !domain.IsIPv6(req.IPv6) {
		return "", req, fmt.Errorf("%w: %v %q", ErrMalformedAddress, domain.ErrInvalidIPv6, req.IPv6)
	}
	if !req.ConnectionType.Valid() {
		return "", req, fmt.Errorf("%w: %q", ErrInvalidConnectionType, req.ConnectionType)
	}
	return path, req, nil
}

// Put makes req the state of the device known by pathMAC. Existence checks
// and writes share one transaction, and calls touching the same MACs are
// serialized.
func (r *Reconciler) Put(ctx context.Context, pathMAC string, req Request) (Outcome, error) {
	path, req, err := r.validate(pathMAC, req)
	if err != nil {
		return 0, err
	}

	owner, err := r.members.FindByLogin(ctx, req.OwnerLogin)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return 0, fmt.Errorf("%w: %q", ErrOwnerNotFound, req.OwnerLogin)
		}
		return 0, fmt.Errorf("failed to resolve owner: %w", err)
	}

	unlock := r.locks.lockAll(path, req.MAC)
	defer unlock()

	var p plan
	err = r.store.InTx(ctx, func(tx repository.DeviceTx) error {
		hasWired, err := tx.WiredExists(ctx, path)
		if err != nil {
			return err
		}
		hasWireless, err := tx.WirelessExists(ctx, path)
		if err != nil {
			return err
		}

		p = decide(hasWired, hasWireless, req.ConnectionType)
		if req.MAC != path {
			if p.outcome == Created {
				return fmt.Errorf("%w: %s != %s", ErrMACMismatch, req.MAC, path)
			}
			if err := checkRenameTarget(ctx, tx, req.MAC); err != nil {
				return err
			}
		}
		return apply(ctx, tx, p, path, req, owner.ID)
	})
	if err != nil {
		return 0, err
	}

	r.logger.Info("device reconciled",
		"mac", req.MAC,
		"path_mac", path,
		"connection_type", req.ConnectionType,
		"action", p.action,
	)
	r.publish(ctx, notify.DeviceEvent{
		Action:         p.action,
		MAC:            req.MAC,
		ConnectionType: string(req.ConnectionType),
		Username:       owner.Login,
	})
	return p.outcome, nil
}

// checkRenameTarget refuses a rename onto a MAC that either table already holds.
func checkRenameTarget(ctx context.Context, tx repository.DeviceTx, mac string) error {
	wired, err := tx.WiredExists(ctx, mac)
	if err != nil {
		return err
	}
	wireless, err := tx.WirelessExists(ctx, mac)
	if err != nil {
		return err
	}
	if wired || wireless {
		return fmt.Errorf("device %s: %w", mac, repository.ErrDuplicate)
	}
	return nil
}

func apply(ctx context.Context, tx repository.DeviceTx, p plan, path string, req Request, ownerID int64) error {
	switch p.drop {
	case domain.ConnectionWired:
		if err := tx.DeleteWired(ctx, path); err != nil {
			return err
		}
	case domain.ConnectionWireless:
		if err := tx.DeleteWireless(ctx, path); err != nil {
			return err
		}
	}

	if req.ConnectionType == domain.ConnectionWired {
		d := domain.WiredDevice{MAC: req.MAC, IPv4: req.IPv4, IPv6: req.IPv6, MemberID: ownerID}
		if p.inPlace {
			return tx.UpdateWired(ctx, path, d)
		}
		_, err := tx.CreateWired(ctx, d)
		return err
	}

	d := domain.WirelessDevice{MAC: req.MAC, MemberID: ownerID}
	if p.inPlace {
		return tx.UpdateWireless(ctx, path, d)
	}
	_, err := tx.CreateWireless(ctx, d)
	return err
}

// Delete removes every row holding mac. It returns repository.ErrNotFound
// when there was nothing to remove.
func (r *Reconciler) Delete(ctx context.Context, mac string) error {
	normalized, err := domain.NormalizeMAC(mac)
	if err != nil {
		return fmt.Errorf("%w: %v", ErrMalformedAddress, err)
	}

	unlock := r.locks.lockAll(normalized)
	defer unlock()

	removed, err := r.store.DeleteByMAC(ctx, normalized)
	if err != nil {
		return err
	}

	r.logger.Info("device deleted", "mac", normalized, "rows", len(removed))
	event := notify.DeviceEvent{Action: notify.ActionDeleted, MAC: normalized}
	if len(removed) > 0 {
		event.ConnectionType = string(removed[0].ConnectionType)
		event.Username = removed[0].OwnerLogin
	}
	r.publish(ctx, event)
	return nil
}

func (r *Reconciler) publish(ctx context.Context, event notify.DeviceEvent) {
	if err := r.notifier.DeviceChanged(ctx, event); err != nil {
		r.logger.Warn("device notification failed", "mac", event.MAC, "action", event.Action, "error", err)
	}
}
