package repository

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jbweber/homelab/adh/internal/domain"
)

func seedDevices(t *testing.T, repo DeviceRepository, memberID int64) {
	t.Helper()
	ctx := context.Background()
	err := repo.InTx(ctx, func(tx DeviceTx) error {
		if _, err := tx.CreateWired(ctx, domain.WiredDevice{MAC: "96:24:F6:D0:48:A7", IPv4: "157.159.42.42", IPv6: "e91f:bd71:56d9:13f3:5499:25b:cc84:f7e4", MemberID: memberID}); err != nil {
			return err
		}
		if _, err := tx.CreateWired(ctx, domain.WiredDevice{MAC: "6A:81:B7:AE:7A:01", MemberID: memberID}); err != nil {
			return err
		}
		_, err := tx.CreateWireless(ctx, domain.WirelessDevice{MAC: "80:65:F3:FC:44:A9", MemberID: memberID})
		return err
	})
	require.NoError(t, err)
}

func TestDeviceRepository_FindByMAC(t *testing.T) {
	db := setupTestDB(t)
	repo := NewDeviceRepository(db)
	defer repo.Close()
	ctx := context.Background()

	m := createTestMember(t, db, "dubois_j")
	seedDevices(t, repo, m.ID)

	d, err := repo.FindByMAC(ctx, "96:24:F6:D0:48:A7")
	require.NoError(t, err)
	assert.Equal(t, domain.ConnectionWired, d.ConnectionType)
	assert.Equal(t, "dubois_j", d.OwnerLogin)
	assert.Equal(t, "157.159.42.42", d.IPv4)

	d, err = repo.FindByMAC(ctx, "80:65:F3:FC:44:A9")
	require.NoError(t, err)
	assert.Equal(t, domain.ConnectionWireless, d.ConnectionType)
	assert.Empty(t, d.IPv4)

	_, err = repo.FindByMAC(ctx, "00:00:00:00:00:00")
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestDeviceRepository_FindByMACPrefersWireless(t *testing.T) {
	db := setupTestDB(t)
	repo := NewDeviceRepository(db)
	ctx := context.Background()

	m := createTestMember(t, db, "jdoe")
	err := repo.InTx(ctx, func(tx DeviceTx) error {
		if _, err := tx.CreateWired(ctx, domain.WiredDevice{MAC: "AA:BB:CC:DD:EE:01", MemberID: m.ID}); err != nil {
			return err
		}
		_, err := tx.CreateWireless(ctx, domain.WirelessDevice{MAC: "AA:BB:CC:DD:EE:01", MemberID: m.ID})
		return err
	})
	require.NoError(t, err)

	d, err := repo.FindByMAC(ctx, "AA:BB:CC:DD:EE:01")
	require.NoError(t, err)
	assert.Equal(t, domain.ConnectionWireless, d.ConnectionType)
}

func TestDeviceRepository_Filter(t *testing.T) {
	db := setupTestDB(t)
	repo := NewDeviceRepository(db)
	ctx := context.Background()

	owner := createTestMember(t, db, "dubois_j")
	other := createTestMember(t, db, "martin_p")
	seedDevices(t, repo, owner.ID)
	err := repo.InTx(ctx, func(tx DeviceTx) error {
		_, err := tx.CreateWireless(ctx, domain.WirelessDevice{MAC: "01:02:03:04:05:06", MemberID: other.ID})
		return err
	})
	require.NoError(t, err)

	page := Page{Limit: DefaultLimit}

	all, total, err := repo.Filter(ctx, DeviceFilter{Page: page})
	require.NoError(t, err)
	assert.Equal(t, 4, total)
	require.Len(t, all, 4)
	assert.Equal(t, "01:02:03:04:05:06", all[0].MAC)
	assert.Equal(t, "96:24:F6:D0:48:A7", all[3].MAC)

	byOwner, total, err := repo.Filter(ctx, DeviceFilter{Page: page, Username: "dubois_j"})
	require.NoError(t, err)
	assert.Equal(t, 3, total)
	assert.Len(t, byOwner, 3)

	tests := []struct {
		terms string
		want  int
	}{
		{"96:", 1},
		{"e91f", 1},
		{"157.159", 1},
		{"A7", 1},
		{"a7", 0},
		{":", 4},
		{"nothing", 0},
	}
	for _, tt := range tests {
		t.Run(tt.terms, func(t *testing.T) {
			got, total, err := repo.Filter(ctx, DeviceFilter{Page: page, Terms: tt.terms})
			require.NoError(t, err)
			assert.Equal(t, tt.want, total)
			assert.Len(t, got, tt.want)
		})
	}

	limited, total, err := repo.Filter(ctx, DeviceFilter{Page: Page{Limit: 2, Offset: 3}})
	require.NoError(t, err)
	assert.Equal(t, 4, total)
	assert.Len(t, limited, 1)
}

func TestDeviceRepository_DeleteByMAC(t *testing.T) {
	db := setupTestDB(t)
	repo := NewDeviceRepository(db)
	ctx := context.Background()

	m := createTestMember(t, db, "jdoe")
	err := repo.InTx(ctx, func(tx DeviceTx) error {
		if _, err := tx.CreateWired(ctx, domain.WiredDevice{MAC: "AA:BB:CC:DD:EE:01", MemberID: m.ID}); err != nil {
			return err
		}
		_, err := tx.CreateWireless(ctx, domain.WirelessDevice{MAC: "AA:BB:CC:DD:EE:01", MemberID: m.ID})
		return err
	})
	require.NoError(t, err)

	removed, err := repo.DeleteByMAC(ctx, "AA:BB:CC:DD:EE:01")
	require.NoError(t, err)
	assert.Len(t, removed, 2)

	_, err = repo.FindByMAC(ctx, "AA:BB:CC:DD:EE:01")
	assert.ErrorIs(t, err, ErrNotFound)

	_, err = repo.DeleteByMAC(ctx, "AA:BB:CC:DD:EE:01")
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestDeviceTx_UpdateKeepsID(t *testing.T) {
	db := setupTestDB(t)
	repo := NewDeviceRepository(db)
	ctx := context.Background()

	m := createTestMember(t, db, "jdoe")
	var created domain.WiredDevice
	err := repo.InTx(ctx, func(tx DeviceTx) error {
		var err error
		created, err = tx.CreateWired(ctx, domain.WiredDevice{MAC: "AA:BB:CC:DD:EE:01", IPv4: "10.0.0.1", MemberID: m.ID})
		return err
	})
	require.NoError(t, err)

	err = repo.InTx(ctx, func(tx DeviceTx) error {
		return tx.UpdateWired(ctx, "AA:BB:CC:DD:EE:01", domain.WiredDevice{MAC: "AA:BB:CC:DD:EE:02", IPv4: "10.0.0.2", MemberID: m.ID})
	})
	require.NoError(t, err)

	d, err := repo.FindByMAC(ctx, "AA:BB:CC:DD:EE:02")
	require.NoError(t, err)
	assert.Equal(t, created.ID, d.ID)
	assert.Equal(t, "10.0.0.2", d.IPv4)

	err = repo.InTx(ctx, func(tx DeviceTx) error {
		return tx.UpdateWireless(ctx, "AA:BB:CC:DD:EE:02", domain.WirelessDevice{MAC: "AA:BB:CC:DD:EE:02", MemberID: m.ID})
	})
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestDeviceRepository_InTxRollsBack(t *testing.T) {
	db := setupTestDB(t)
	repo := NewDeviceRepository(db)
	ctx := context.Background()

	m := createTestMember(t, db, "jdoe")
	boom := errors.New("boom")

	err := repo.InTx(ctx, func(tx DeviceTx) error {
		if _, err := tx.CreateWired(ctx, domain.WiredDevice{MAC: "AA:BB:CC:DD:EE:01", MemberID: m.ID}); err != nil {
			return err
		}
		exists, err := tx.WiredExists(ctx, "AA:BB:CC:DD:EE:01")
		if err != nil {
			return err
		}
		assert.True(t, exists)
		return boom
	})
	assert.ErrorIs(t, err, boom)

	_, err = repo.FindByMAC(ctx, "AA:BB:CC:DD:EE:01")
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestDeviceTx_Duplicate(t *testing.T) {
	db := setupTestDB(t)
	repo := NewDeviceRepository(db)
	ctx := context.Background()

	m := createTestMember(t, db, "jdoe")
	err := repo.InTx(ctx, func(tx DeviceTx) error {
		if _, err := tx.CreateWireless(ctx, domain.WirelessDevice{MAC: "AA:BB:CC:DD:EE:01", MemberID: m.ID}); err != nil {
			return err
		}
		_, err := tx.CreateWireless(ctx, domain.WirelessDevice{MAC: "AA:BB:CC:DD:EE:01", MemberID: m.ID})
		return err
	})
	assert.ErrorIs(t, err, ErrDuplicate)

	err = repo.InTx(ctx, func(tx DeviceTx) error {
		_, err := tx.CreateWireless(ctx, domain.WirelessDevice{MAC: "AA:BB:CC:DD:EE:09", MemberID: 9999})
		return err
	})
	assert.ErrorIs(t, err, ErrReferenceNotFound)
}
