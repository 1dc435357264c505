package api

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jbweber/homelab/adh/internal/datastore"
	"github.com/jbweber/homelab/adh/internal/domain"
	"github.com/jbweber/homelab/adh/internal/logging"
	"github.com/jbweber/homelab/adh/internal/notify"
	"github.com/jbweber/homelab/adh/internal/repository"
	"github.com/jbweber/homelab/adh/internal/testutil"
)

// fakeProber answers port state queries without a switch.
type fakeProber struct {
	state     string
	err       error
	target    string
	community string
	oid       string
}

func (f *fakeProber) OperState(_ context.Context, target, community, oid string) (string, error) {
	f.target, f.community, f.oid = target, community, oid
	return f.state, f.err
}

type testAPI struct {
	router *chi.Mux
	ds     *datastore.Datastore
	prober *fakeProber
}

func setupTestAPI(t *testing.T) *testAPI {
	t.Helper()
	ds, cleanup := testutil.SetupTestDatastore(t, strings.ReplaceAll(t.Name(), "/", "_"))
	t.Cleanup(cleanup)

	prober := &fakeProber{state: "UP"}
	api := NewAPI(ds, prober, notify.Nop{}, logging.Discard())
	t.Cleanup(func() { _ = api.Close() })

	r := chi.NewRouter()
	api.RegisterRoutes(r)
	return &testAPI{router: r, ds: ds, prober: prober}
}

func (ta *testAPI) do(t *testing.T, method, target string, body any) *httptest.ResponseRecorder {
	t.Helper()
	var reader io.Reader
	if body != nil {
		data, err := json.Marshal(body)
		require.NoError(t, err)
		reader = bytes.NewReader(data)
	}
	req := httptest.NewRequest(method, target, reader)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	w := httptest.NewRecorder()
	ta.router.ServeHTTP(w, req)
	return w
}

func (ta *testAPI) seedMember(t *testing.T, login string) domain.Member {
	t.Helper()
	repo := repository.NewMemberRepository(ta.ds.DB)
	defer repo.Close()
	m, err := repo.Save(context.Background(), domain.Member{Login: login, Name: "Doe", FirstName: "Jane"})
	require.NoError(t, err)
	return m
}

func (ta *testAPI) seedSwitch(t *testing.T, description string) domain.Switch {
	t.Helper()
	s, err := repository.NewSwitchRepository(ta.ds.DB).Save(context.Background(),
		domain.Switch{Description: description, IP: "192.168.102.2", Community: "public"})
	require.NoError(t, err)
	return s
}

func (ta *testAPI) seedRoom(t *testing.T, number int64) domain.Room {
	t.Helper()
	room, err := repository.NewRoomRepository(ta.ds.DB).Save(context.Background(), domain.Room{Number: number})
	require.NoError(t, err)
	return room
}

func decodeBody[T any](t *testing.T, w *httptest.ResponseRecorder) T {
	t.Helper()
	var v T
	require.NoError(t, json.NewDecoder(w.Body).Decode(&v))
	return v
}

func TestHealthHandler(t *testing.T) {
	ta := setupTestAPI(t)

	w := ta.do(t, http.MethodGet, "/", nil)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "running")
}

func TestUnknownRoute(t *testing.T) {
	ta := setupTestAPI(t)

	w := ta.do(t, http.MethodGet, "/nope", nil)

	assert.Equal(t, http.StatusNotFound, w.Code)
}
