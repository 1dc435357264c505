package repository

import (
	"context"
	"database/sql"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/jbweber/homelab/adh/internal/domain"
	"github.com/jbweber/homelab/adh/internal/testutil"
)

func setupTestDB(t *testing.T) *sql.DB {
	t.Helper()
	ds, cleanup := testutil.SetupTestDatastore(t, t.Name())
	t.Cleanup(cleanup)
	return ds.DB
}

func createTestMember(t *testing.T, db *sql.DB, login string) domain.Member {
	t.Helper()
	repo := NewMemberRepository(db)
	m, err := repo.Save(context.Background(), domain.Member{Login: login, Name: "Doe", FirstName: "Jane", Email: login + "@example.com"})
	require.NoError(t, err)
	return m
}

func createTestSwitch(t *testing.T, db *sql.DB, description string) domain.Switch {
	t.Helper()
	repo := NewSwitchRepository(db)
	s, err := repo.Save(context.Background(), domain.Switch{Description: description, IP: "192.168.102.2", Community: "public"})
	require.NoError(t, err)
	return s
}

func int64Ptr(v int64) *int64 { return &v }
