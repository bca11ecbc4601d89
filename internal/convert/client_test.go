package convert

import (
	"context"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestConvertToCSV_SendsMultipartFile(t *testing.T) {
	var gotPath, gotName, gotBody string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.URL.Path
		file, header, err := r.FormFile("file")
		if err != nil {
			http.Error(w, `{"error":"No file provided"}`, http.StatusBadRequest)
			return
		}
		defer file.Close()
		data, _ := io.ReadAll(file)
		gotName = header.Filename
		gotBody = string(data)

		w.Header().Set("Content-Type", "text/csv")
		io.WriteString(w, "a,b\n1,2\n")
	}))
	defer srv.Close()

	c := New(srv.URL + "/")
	csv, err := c.ConvertToCSV(context.Background(), "report.pdf", strings.NewReader("%PDF-1.4"))
	require.NoError(t, err)

	assert.Equal(t, "/convert_to_csv", gotPath)
	assert.Equal(t, "report.pdf", gotName)
	assert.Equal(t, "%PDF-1.4", gotBody)
	assert.Equal(t, "a,b\n1,2\n", csv)
}

func TestConvertToCSV_ServiceError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusInternalServerError)
		io.WriteString(w, `{"error":"No tables found"}`)
	}))
	defer srv.Close()

	_, err := New(srv.URL).ConvertToCSV(context.Background(), "x.pdf", strings.NewReader("x"))
	require.Error(t, err)

	var se *StatusError
	require.True(t, errors.As(err, &se))
	assert.Equal(t, http.StatusInternalServerError, se.StatusCode)
	assert.Equal(t, "No tables found", se.Message)
	assert.Contains(t, err.Error(), "No tables found")
}

func TestConvertToCSV_NonJSONErrorBody(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "bad gateway", http.StatusBadGateway)
	}))
	defer srv.Close()

	_, err := New(srv.URL).ConvertToCSV(context.Background(), "x.pdf", strings.NewReader("x"))
	var se *StatusError
	require.True(t, errors.As(err, &se))
	assert.Equal(t, http.StatusBadGateway, se.StatusCode)
	assert.Empty(t, se.Message)
}

func TestConvertToCSV_Unreachable(t *testing.T) {
	srv := httptest.NewServer(http.NotFoundHandler())
	url := srv.URL
	srv.Close()

	_, err := New(url).ConvertToCSV(context.Background(), "x.pdf", strings.NewReader("x"))
	assert.Error(t, err)
}

func TestConvertToCSV_NotConfigured(t *testing.T) {
	c := New("  ")
	assert.False(t, c.Configured())

	_, err := c.ConvertToCSV(context.Background(), "x.pdf", strings.NewReader("x"))
	assert.ErrorIs(t, err, ErrNotConfigured)
	assert.ErrorIs(t, c.Health(context.Background()), ErrNotConfigured)
}

func TestConvertToCSV_Timeout(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		select {
		case <-time.After(time.Second):
		case <-r.Context().Done():
		}
	}))
	defer srv.Close()

	c := New(srv.URL, WithTimeout(20*time.Millisecond))
	_, err := c.ConvertToCSV(context.Background(), "x.pdf", strings.NewReader("x"))
	assert.Error(t, err)
}

func TestHealth(t *testing.T) {
	var healthy atomic.Bool
	healthy.Store(true)
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/health" || !healthy.Load() {
			w.WriteHeader(http.StatusServiceUnavailable)
			return
		}
		io.WriteString(w, `{"status":"UP"}`)
	}))
	defer srv.Close()

	c := New(srv.URL)
	assert.NoError(t, c.Health(context.Background()))

	healthy.Store(false)
	var se *StatusError
	err := c.Health(context.Background())
	require.True(t, errors.As(err, &se))
	assert.Equal(t, http.StatusServiceUnavailable, se.StatusCode)
}

func TestNew_NormalisesBaseURL(t *testing.T) {
	tests := map[string]string{
		"http://conv:8000":     "http://conv:8000",
		"http://conv:8000/":    "http://conv:8000",
		"  http://conv:8000// ": "http://conv:8000",
		"":                     "",
	}
	for in, want := range tests {
		assert.Equal(t, want, New(in).BaseURL(), "New(%q)", in)
	}
}
