package service

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCalendarDescribe(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "Bearer access", r.Header.Get("Authorization"))
		assert.Equal(t, "/calendars/primary", r.URL.Path)
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"id":"sam@example.com","summary":"Sam","timeZone":"America/New_York"}`))
	}))
	defer srv.Close()

	svc := NewCalendarService(srv.URL+"/", nil)
	info, err := svc.Describe(context.Background(), validCredential())
	require.NoError(t, err)

	assert.Equal(t, "sam@example.com", info.ID)
	assert.Equal(t, "Sam", info.Summary)
	assert.Equal(t, "America/New_York", info.TimeZone)
}

func TestCalendarDescribeRejectsInvalidCredential(t *testing.T) {
	svc := NewCalendarService("http://127.0.0.1:0/", nil)

	_, err := svc.Describe(context.Background(), nil)
	assert.ErrorIs(t, err, ErrNoCredential)

	expired := validCredential()
	expired.Expiry = time.Now().Add(-time.Hour)
	_, err = svc.Describe(context.Background(), expired)
	assert.ErrorIs(t, err, ErrNoCredential)
}

func TestCalendarDescribeAPIError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusUnauthorized)
		w.Write([]byte(`{"error":{"code":401,"message":"Invalid Credentials"}}`))
	}))
	defer srv.Close()

	_, err := NewCalendarService(srv.URL+"/", nil).Describe(context.Background(), validCredential())
	assert.Error(t, err)
}
