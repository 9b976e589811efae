package mealapi

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mamadbah2/cantine/internal/config"
	"github.com/mamadbah2/cantine/internal/domain/models"
)

func newClientAgainst(t *testing.T, handler http.HandlerFunc) *APIClient {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)
	return NewClient(config.RemoteConfig{BaseURL: srv.URL, APIToken: "secret-token"})
}

func TestListHospitalsDecodesAndSendsToken(t *testing.T) {
	client := newClientAgainst(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/hospitals", r.URL.Path)
		assert.Equal(t, "Bearer secret-token", r.Header.Get("Authorization"))
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`[{"id":"h-1","name":"Donka","active":true},{"id":"h-2","name":"Ignace Deen","active":false}]`))
	})

	hospitals, err := client.ListHospitals(context.Background())
	require.NoError(t, err)
	require.Len(t, hospitals, 2)
	assert.Equal(t, "h-1", hospitals[0].ID)
	assert.True(t, hospitals[0].Active)
	assert.False(t, hospitals[1].Active)
}

func TestListHospitalsSurfacesAPIError(t *testing.T) {
	client := newClientAgainst(t, func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusInternalServerError)
		_, _ = w.Write([]byte(`{"error":"database unavailable"}`))
	})

	_, err := client.ListHospitals(context.Background())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "status=500")
	assert.Contains(t, err.Error(), "database unavailable")
}

func TestSubmitProductionsPostsBatch(t *testing.T) {
	var received models.SubmitProductionRequest
	client := newClientAgainst(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "/production", r.URL.Path)
		require.NoError(t, json.NewDecoder(r.Body).Decode(&received))
		w.WriteHeader(http.StatusCreated)
	})

	req := models.SubmitProductionRequest{Productions: []models.ProductionRow{
		{HospitalID: "h-1", HospitalName: "Donka", StarchProduced: 2.5, VegetablesProduced: 1.25, Pax: 80},
	}}
	require.NoError(t, client.SubmitProductions(context.Background(), req))

	require.Len(t, received.Productions, 1)
	assert.Equal(t, req.Productions[0], received.Productions[0])
}

func TestSubmitProductionsFailsOnRejection(t *testing.T) {
	client := newClientAgainst(t, func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusBadRequest)
		_, _ = w.Write([]byte(`{"error":"invalid payload"}`))
	})

	err := client.SubmitProductions(context.Background(), models.SubmitProductionRequest{})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "invalid payload")
}

func TestListProductionsSendsWindow(t *testing.T) {
	client := newClientAgainst(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "2026-08-24", r.URL.Query().Get("start"))
		assert.Equal(t, "2026-08-30", r.URL.Query().Get("end"))
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`[{"id":"p-1","hospitalId":"h-1","starchProduced":2.5}]`))
	})

	start := time.Date(2026, time.August, 24, 0, 0, 0, 0, time.UTC)
	end := time.Date(2026, time.August, 30, 0, 0, 0, 0, time.UTC)
	records, err := client.ListProductions(context.Background(), start, end)
	require.NoError(t, err)
	require.Len(t, records, 1)
	assert.Equal(t, "p-1", records[0].ID)
	assert.Equal(t, 2.5, records[0].StarchProduced)
}

func TestCurrentUserDecodesIdentity(t *testing.T) {
	client := newClientAgainst(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/auth/me", r.URL.Path)
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"id":"u-1","email":"kitchen@example.org","role":"data_entry","isActive":true}`))
	})

	user, err := client.CurrentUser(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "u-1", user.ID)
	assert.Equal(t, "data_entry", user.Role)
	assert.True(t, user.Active)
}

func TestFastAPIStyleDetailErrors(t *testing.T) {
	client := newClientAgainst(t, func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusNotFound)
		_, _ = w.Write([]byte(`{"detail":"Hospital not found"}`))
	})

	_, err := client.ListHospitals(context.Background())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "Hospital not found")
}
