package crm

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/medresidency/logbook/internal/pkg/apperrors"
)

func TestLookupLicense_Regular(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "application/json", r.Header.Get("Content-Type"))

		// Request body must be a one-element array wrapping the payload.
		var body []map[string]interface{}
		require.NoError(t, json.NewDecoder(r.Body).Decode(&body))
		require.Len(t, body, 1)
		physician, ok := body[0]["medico"].(map[string]interface{})
		require.True(t, ok)
		assert.Equal(t, "123456", physician["crmMedico"])
		assert.Equal(t, "SP", physician["ufMedico"])

		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"dados":[{"COUNT":"1","SITUACAO":"Regular"}]}`))
	}))
	defer server.Close()

	client := NewClient(Config{BaseURL: server.URL})
	result, err := client.LookupLicense(context.Background(), "SP", "123456")
	require.NoError(t, err)

	assert.True(t, result.Found)
	assert.Equal(t, 1, result.Count)
	assert.Equal(t, "Regular", result.Status)
	assert.True(t, result.Eligible())
}

func TestLookupLicense_Irregular(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"dados":[{"COUNT":1,"SITUACAO":"Cassado"}]}`))
	}))
	defer server.Close()

	client := NewClient(Config{BaseURL: server.URL})
	result, err := client.LookupLicense(context.Background(), "RJ", "999999")
	require.NoError(t, err)

	assert.True(t, result.Found)
	assert.False(t, result.Eligible())
}

func TestLookupLicense_MultipleMatches(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"dados":[{"COUNT":2,"SITUACAO":"Regular"}]}`))
	}))
	defer server.Close()

	client := NewClient(Config{BaseURL: server.URL})
	result, err := client.LookupLicense(context.Background(), "MG", "111111")
	require.NoError(t, err)

	assert.Equal(t, 2, result.Count)
	assert.False(t, result.Eligible())
}

func TestLookupLicense_NotFound(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"dados":[]}`))
	}))
	defer server.Close()

	client := NewClient(Config{BaseURL: server.URL})
	result, err := client.LookupLicense(context.Background(), "BA", "000000")
	require.NoError(t, err)

	assert.False(t, result.Found)
	assert.False(t, result.Eligible())
}

func TestLookupLicense_ServerError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	}))
	defer server.Close()

	client := NewClient(Config{BaseURL: server.URL})
	_, err := client.LookupLicense(context.Background(), "SP", "123456")
	assert.ErrorIs(t, err, apperrors.ErrExternalService)
}

func TestLookupLicense_Timeout(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		time.Sleep(200 * time.Millisecond)
		w.Write([]byte(`{"dados":[]}`))
	}))
	defer server.Close()

	client := NewClient(Config{BaseURL: server.URL, Timeout: 50 * time.Millisecond})
	_, err := client.LookupLicense(context.Background(), "SP", "123456")
	assert.ErrorIs(t, err, apperrors.ErrExternalService)
}
