package bookings

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/require"
)

func TestForwardJSONFirst(t *testing.T) {
	var contentTypes []string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		contentTypes = append(contentTypes, r.Header.Get("Content-Type"))
		w.WriteHeader(http.StatusOK)
	}))
	defer srv.Close()

	f := NewForwarder(srv.URL, time.Second)
	err := f.Forward(context.Background(), Booking{ID: uuid.New(), Name: "Sam", Phone: "0400000000"})
	require.NoError(t, err)
	require.Equal(t, []string{"application/json"}, contentTypes)
}

func TestForwardFallsBackToForm(t *testing.T) {
	var contentTypes []string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ct := r.Header.Get("Content-Type")
		contentTypes = append(contentTypes, ct)
		if ct == "application/json" {
			w.WriteHeader(http.StatusUnsupportedMediaType)
			return
		}
		require.NoError(t, r.ParseForm())
		require.Equal(t, "Sam", r.PostFormValue("name"))
		w.WriteHeader(http.StatusOK)
	}))
	defer srv.Close()

	f := NewForwarder(srv.URL, time.Second)
	err := f.Forward(context.Background(), Booking{ID: uuid.New(), Name: "Sam", Phone: "0400000000"})
	require.NoError(t, err)
	require.Len(t, contentTypes, 2)
	require.Equal(t, "application/x-www-form-urlencoded", contentTypes[1])
}

func TestForwardBothEncodingsFail(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	}))
	defer srv.Close()

	f := NewForwarder(srv.URL, time.Second)
	err := f.Forward(context.Background(), Booking{ID: uuid.New(), Name: "Sam"})
	require.Error(t, err)
}

func TestForwardDisabledWithoutURL(t *testing.T) {
	f := NewForwarder("", time.Second)
	require.False(t, f.Enabled())
	require.NoError(t, f.Forward(context.Background(), Booking{ID: uuid.New()}))
}
