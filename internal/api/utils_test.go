package api

import (
	"bytes"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/go-chi/chi/v5/middleware"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jbweber/homelab/adh/internal/config"
	"github.com/jbweber/homelab/adh/internal/device"
	"github.com/jbweber/homelab/adh/internal/logging"
	"github.com/jbweber/homelab/adh/internal/repository"
)

func TestParsePage(t *testing.T) {
	tests := []struct {
		query   string
		want    repository.Page
		wantErr bool
	}{
		{"", repository.Page{Limit: 100}, false},
		{"limit=5&offset=10", repository.Page{Limit: 5, Offset: 10}, false},
		{"limit=0", repository.Page{Limit: 0}, false},
		{"limit=-1", repository.Page{}, true},
		{"offset=-1", repository.Page{}, true},
		{"limit=ten", repository.Page{}, true},
		{"offset=1.5", repository.Page{}, true},
	}
	for _, tt := range tests {
		t.Run(tt.query, func(t *testing.T) {
			page, err := parsePage(httptest.NewRequest(http.MethodGet, "/?"+tt.query, nil))
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, page)
		})
	}
}

func TestWriteStoreError(t *testing.T) {
	tests := []struct {
		err    error
		status int
		code   string
	}{
		{fmt.Errorf("switch 1: %w", repository.ErrNotFound), http.StatusNotFound, ErrCodeNotFound},
		{fmt.Errorf("member: %w", repository.ErrDuplicate), http.StatusConflict, ErrCodeConflict},
		{fmt.Errorf("x: %w", repository.ErrInvalidEntity), http.StatusBadRequest, ErrCodeBadRequest},
		{fmt.Errorf("room 1: %w", repository.ErrReferenceNotFound), http.StatusBadRequest, ErrCodeBadRequest},
		{device.ErrOwnerNotFound, http.StatusBadRequest, ErrCodeBadRequest},
		{device.ErrMACMismatch, http.StatusBadRequest, ErrCodeBadRequest},
		{io.ErrUnexpectedEOF, http.StatusInternalServerError, ErrCodeInternal},
	}
	for _, tt := range tests {
		t.Run(tt.err.Error(), func(t *testing.T) {
			w := httptest.NewRecorder()
			writeStoreError(w, logging.Discard(), httptest.NewRequest(http.MethodGet, "/", nil), tt.err)

			assert.Equal(t, tt.status, w.Code)
			assert.Equal(t, "application/json", w.Header().Get("Content-Type"))
			body := decodeBody[Error](t, w)
			assert.Equal(t, tt.status, body.Status)
			assert.Equal(t, tt.code, body.Code)
		})
	}
}

func TestWriteStoreError_HidesInternalDetails(t *testing.T) {
	var buf bytes.Buffer
	logger := logging.NewWithWriter(config.LoggingConfig{Level: "info", Format: "json"}, "test", &buf)

	w := httptest.NewRecorder()
	writeStoreError(w, logger, httptest.NewRequest(http.MethodGet, "/switch/", nil), fmt.Errorf("disk on fire"))

	assert.NotContains(t, w.Body.String(), "disk on fire")
	assert.Contains(t, buf.String(), "disk on fire")
}

func TestRequestLogger(t *testing.T) {
	var buf bytes.Buffer
	logger := logging.NewWithWriter(config.LoggingConfig{Level: "info", Format: "json"}, "test", &buf)

	handler := middleware.RequestID(RequestLogger(logger)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusTeapot)
	})))

	w := httptest.NewRecorder()
	handler.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/switch/", nil))

	assert.Equal(t, http.StatusTeapot, w.Code)
	out := buf.String()
	assert.Contains(t, out, `"msg":"http request"`)
	assert.Contains(t, out, `"status":418`)
	assert.Contains(t, out, `"path":"/switch/"`)
	assert.Contains(t, out, `"request_id"`)
}

func TestBodySizeLimit(t *testing.T) {
	var readErr error
	handler := BodySizeLimit(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, readErr = io.ReadAll(r.Body)
	}))

	big := strings.NewReader(strings.Repeat("x", maxRequestBodySize+1))
	handler.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodPost, "/", big))

	assert.Error(t, readErr)
}
