package repository

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/jbweber/homelab/adh/internal/datastore"
	"github.com/jbweber/homelab/adh/internal/domain"
)

// DeviceRepository reads and writes devices across the wired and wireless
// tables. MACs passed in must already be in canonical form.
type DeviceRepository interface {
	// FindByMAC returns the device for mac, checking the wireless table first.
	FindByMAC(ctx context.Context, mac string) (domain.Device, error)
	// Filter returns one page of devices ordered by MAC, plus the number of
	// matches without paging.
	Filter(ctx context.Context, f DeviceFilter) ([]domain.Device, int, error)
	// DeleteByMAC removes every row holding mac from both tables and returns
	// what was removed. ErrNotFound when nothing matched.
	DeleteByMAC(ctx context.Context, mac string) ([]domain.Device, error)
	// InTx runs fn against a transactional view of both tables.
	InTx(ctx context.Context, fn func(tx DeviceTx) error) error
	Close() error
}

// DeviceTx is the set of writes the reconciler may combine atomically.
type DeviceTx interface {
	WiredExists(ctx context.Context, mac string) (bool, error)
	WirelessExists(ctx context.Context, mac string) (bool, error)
	CreateWired(ctx context.Context, d domain.WiredDevice) (domain.WiredDevice, error)
	// UpdateWired rewrites the row currently holding mac, keeping its id.
	UpdateWired(ctx context.Context, mac string, d domain.WiredDevice) error
	DeleteWired(ctx context.Context, mac string) error
	CreateWireless(ctx context.Context, d domain.WirelessDevice) (domain.WirelessDevice, error)
	// UpdateWireless rewrites the row currently holding mac, keeping its id.
	UpdateWireless(ctx context.Context, mac string, d domain.WirelessDevice) error
	DeleteWireless(ctx context.Context, mac string) error
}

const (
	wiredExistsQuery    = "SELECT COUNT(*) FROM wired_devices WHERE mac = ?"
	wirelessExistsQuery = "SELECT COUNT(*) FROM wireless_devices WHERE mac = ?"

	deviceView = `
		WITH devices AS (
			SELECT w.id, w.mac, 'wired' AS connection_type, m.login, w.ipv4, w.ipv6
			FROM wired_devices w JOIN members m ON m.id = w.member_id
			UNION ALL
			SELECT l.id, l.mac, 'wireless' AS connection_type, m.login, NULL AS ipv4, NULL AS ipv6
			FROM wireless_devices l JOIN members m ON m.id = l.member_id
		)`
)

type deviceRepositoryImpl struct {
	db    *sql.DB
	stmts *PreparedStatementCache
}

// NewDeviceRepository creates a new device repository
func NewDeviceRepository(db *sql.DB) DeviceRepository {
	return &deviceRepositoryImpl{
		db:    db,
		stmts: NewPreparedStatementCache(db),
	}
}

func scanDevice(row interface{ Scan(...any) error }) (domain.Device, error) {
	var (
		d          domain.Device
		connection string
		ipv4, ipv6 sql.NullString
	)
	if err := row.Scan(&d.ID, &d.MAC, &connection, &d.OwnerLogin, &ipv4, &ipv6); err != nil {
		return domain.Device{}, err
	}
	d.ConnectionType = domain.ConnectionType(connection)
	d.IPv4 = ipv4.String
	d.IPv6 = ipv6.String
	return d, nil
}

func (r *deviceRepositoryImpl) findAllByMAC(ctx context.Context, q queryer, mac string) ([]domain.Device, error) {
	rows, err := q.QueryContext(ctx, deviceView+`
		SELECT id, mac, connection_type, login, ipv4, ipv6 FROM devices
		WHERE mac = ? ORDER BY connection_type DESC`, mac)
	if err != nil {
		return nil, fmt.Errorf("failed to find device: %w", err)
	}
	defer rows.Close()

	devices := []domain.Device{}
	for rows.Next() {
		d, err := scanDevice(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan device: %w", err)
		}
		devices = append(devices, d)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating devices: %w", err)
	}
	return devices, nil
}

// FindByMAC retrieves a device by MAC
func (r *deviceRepositoryImpl) FindByMAC(ctx context.Context, mac string) (domain.Device, error) {
	devices, err := r.findAllByMAC(ctx, r.db, mac)
	if err != nil {
		return domain.Device{}, err
	}
	if len(devices) == 0 {
		return domain.Device{}, fmt.Errorf("device %s: %w", mac, ErrNotFound)
	}
	// "wireless" sorts after "wired", so DESC puts it first
	return devices[0], nil
}

// Filter retrieves a page of devices
func (r *deviceRepositoryImpl) Filter(ctx context.Context, f DeviceFilter) ([]domain.Device, int, error) {
	var conditions []string
	var args []any
	if f.Username != "" {
		conditions = append(conditions, "login = ?")
		args = append(args, f.Username)
	}
	if f.Terms != "" {
		clause, termArgs := containsClause(f.Terms, "mac", "ipv4", "ipv6")
		conditions = append(conditions, clause)
		args = append(args, termArgs...)
	}
	where := whereClause(conditions)

	total, err := countRows(ctx, r.db, deviceView+" SELECT COUNT(*) FROM devices"+where, args...)
	if err != nil {
		return nil, 0, err
	}

	rows, err := r.db.QueryContext(ctx, deviceView+`
		SELECT id, mac, connection_type, login, ipv4, ipv6 FROM devices`+where+`
		ORDER BY mac, connection_type LIMIT ? OFFSET ?`,
		append(args, f.Limit, f.Offset)...)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to filter devices: %w", err)
	}
	defer rows.Close()

	devices := []domain.Device{}
	for rows.Next() {
		d, err := scanDevice(rows)
		if err != nil {
			return nil, 0, fmt.Errorf("failed to scan device: %w", err)
		}
		devices = append(devices, d)
	}
	if err := rows.Err(); err != nil {
		return nil, 0, fmt.Errorf("error iterating devices: %w", err)
	}
	return devices, total, nil
}

// DeleteByMAC removes mac from both tables in one transaction
func (r *deviceRepositoryImpl) DeleteByMAC(ctx context.Context, mac string) ([]domain.Device, error) {
	var removed []domain.Device
	err := datastore.RunInTx(ctx, r.db, func(tx *sql.Tx) error {
		devices, err := r.findAllByMAC(ctx, tx, mac)
		if err != nil {
			return err
		}
		if len(devices) == 0 {
			return fmt.Errorf("device %s: %w", mac, ErrNotFound)
		}
		for _, table := range []string{"wired_devices", "wireless_devices"} {
			if _, err := tx.ExecContext(ctx, "DELETE FROM "+table+" WHERE mac = ?", mac); err != nil {
				return fmt.Errorf("failed to delete device: %w", err)
			}
		}
		removed = devices
		return nil
	})
	if err != nil {
		return nil, err
	}
	return removed, nil
}

// InTx runs fn in a write transaction
func (r *deviceRepositoryImpl) InTx(ctx context.Context, fn func(tx DeviceTx) error) error {
	return datastore.RunInTx(ctx, r.db, func(tx *sql.Tx) error {
		return fn(&deviceTx{tx: tx, stmts: r.stmts})
	})
}

// Close releases cached statements
func (r *deviceRepositoryImpl) Close() error {
	return r.stmts.Close()
}

type deviceTx struct {
	tx    *sql.Tx
	stmts *PreparedStatementCache
}

func (t *deviceTx) exists(ctx context.Context, query, mac string) (bool, error) {
	stmt, err := t.stmts.ForTx(ctx, t.tx, query)
	if err != nil {
		return false, fmt.Errorf("failed to prepare device lookup: %w", err)
	}
	var count int
	if err := stmt.QueryRowContext(ctx, mac).Scan(&count); err != nil {
		return false, fmt.Errorf("failed to check device existence: %w", err)
	}
	return count > 0, nil
}

func (t *deviceTx) WiredExists(ctx context.Context, mac string) (bool, error) {
	return t.exists(ctx, wiredExistsQuery, mac)
}

func (t *deviceTx) WirelessExists(ctx context.Context, mac string) (bool, error) {
	return t.exists(ctx, wirelessExistsQuery, mac)
}

func (t *deviceTx) CreateWired(ctx context.Context, d domain.WiredDevice) (domain.WiredDevice, error) {
	result, err := t.tx.ExecContext(ctx,
		"INSERT INTO wired_devices (mac, ipv4, ipv6, member_id) VALUES (?, ?, ?, ?)",
		d.MAC, nullString(d.IPv4), nullString(d.IPv6), d.MemberID)
	if err != nil {
		return domain.WiredDevice{}, translateWriteError(err, "wired device "+d.MAC)
	}
	if d.ID, err = result.LastInsertId(); err != nil {
		return domain.WiredDevice{}, fmt.Errorf("failed to get device ID: %w", err)
	}
	return d, nil
}

func (t *deviceTx) UpdateWired(ctx context.Context, mac string, d domain.WiredDevice) error {
	result, err := t.tx.ExecContext(ctx, `
		UPDATE wired_devices
		SET mac = ?, ipv4 = ?, ipv6 = ?, member_id = ?, updated_at = CURRENT_TIMESTAMP
		WHERE mac = ?`,
		d.MAC, nullString(d.IPv4), nullString(d.IPv6), d.MemberID, mac)
	if err != nil {
		return translateWriteError(err, "wired device "+d.MAC)
	}
	return expectAffected(result, "wired device", mac)
}

func (t *deviceTx) DeleteWired(ctx context.Context, mac string) error {
	return t.deleteMAC(ctx, "wired_devices", mac)
}

func (t *deviceTx) CreateWireless(ctx context.Context, d domain.WirelessDevice) (domain.WirelessDevice, error) {
	result, err := t.tx.ExecContext(ctx,
		"INSERT INTO wireless_devices (mac, member_id) VALUES (?, ?)",
		d.MAC, d.MemberID)
	if err != nil {
		return domain.WirelessDevice{}, translateWriteError(err, "wireless device "+d.MAC)
	}
	if d.ID, err = result.LastInsertId(); err != nil {
		return domain.WirelessDevice{}, fmt.Errorf("failed to get device ID: %w", err)
	}
	return d, nil
}

func (t *deviceTx) UpdateWireless(ctx context.Context, mac string, d domain.WirelessDevice) error {
	result, err := t.tx.ExecContext(ctx, `
		UPDATE wireless_devices
		SET mac = ?, member_id = ?, updated_at = CURRENT_TIMESTAMP
		WHERE mac = ?`,
		d.MAC, d.MemberID, mac)
	if err != nil {
		return translateWriteError(err, "wireless device "+d.MAC)
	}
	return expectAffected(result, "wireless device", mac)
}

func (t *deviceTx) DeleteWireless(ctx context.Context, mac string) error {
	return t.deleteMAC(ctx, "wireless_devices", mac)
}

func (t *deviceTx) deleteMAC(ctx context.Context, table, mac string) error {
	result, err := t.tx.ExecContext(ctx, "DELETE FROM "+table+" WHERE mac = ?", mac)
	if err != nil {
		return fmt.Errorf("failed to delete device: %w", err)
	}
	rows, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected: %w", err)
	}
	if rows == 0 {
		return fmt.Errorf("device %s: %w", mac, ErrNotFound)
	}
	return nil
}
