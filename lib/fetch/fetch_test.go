package fetch

import (
	"context"
	"errors"
	"io"
	"io/fs"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type roundTripperFunc func(*http.Request) (*http.Response, error)

func (f roundTripperFunc) RoundTrip(req *http.Request) (*http.Response, error) {
	return f(req)
}

func TestFetchHTTP(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodGet, r.Method)
		assert.Equal(t, "/data.csv", r.URL.Path)
		assert.Equal(t, "1", r.URL.Query().Get("a"))
		_, _ = w.Write([]byte("a,b\n1,2\n"))
	}))
	defer srv.Close()

	f := New(Config{}, nil)
	body, err := f.Fetch(context.Background(), srv.URL+"/data.csv?a=1&b=2")
	require.NoError(t, err)
	assert.Equal(t, "a,b\n1,2\n", string(body))
}

func TestFetchHTTPBearerToken(t *testing.T) {
	var got string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		got = r.Header.Get("Authorization")
	}))
	defer srv.Close()

	host := strings.TrimPrefix(srv.URL, "http://")
	_, err := New(Config{BearerToken: "secret", TokenHosts: []string{host}}, nil).Fetch(context.Background(), srv.URL)
	require.NoError(t, err)
	assert.Equal(t, "Bearer secret", got)
}

func TestFetchHTTPBearerTokenScopedToHosts(t *testing.T) {
	var got []string
	f := New(Config{BearerToken: "s3cret", TokenHosts: []string{"Data.Example.com", "api.example.com:8443"}}, nil)
	f.SetHTTPClient(&http.Client{Transport: roundTripperFunc(func(req *http.Request) (*http.Response, error) {
		got = append(got, req.Header.Get("Authorization"))
		return &http.Response{
			StatusCode: http.StatusOK,
			Body:       io.NopCloser(strings.NewReader("a\n1\n")),
			Header:     make(http.Header),
		}, nil
	})})

	sources := []string{
		"https://data.example.com/x.csv",
		"https://data.example.com:444/x.csv",
		"https://api.example.com:8443/x.csv",
		"https://api.example.com/x.csv",
		"http://attacker.example.net/x.csv",
		"https://data.example.com.attacker.net/x.csv",
	}
	for _, source := range sources {
		_, err := f.Fetch(context.Background(), source)
		require.NoError(t, err, source)
	}
	assert.Equal(t, []string{"Bearer s3cret", "Bearer s3cret", "Bearer s3cret", "", "", ""}, got)
}

func TestFetchHTTPBearerTokenWithoutHosts(t *testing.T) {
	var got string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		got = r.Header.Get("Authorization")
	}))
	defer srv.Close()

	_, err := New(Config{BearerToken: "s3cret"}, nil).Fetch(context.Background(), srv.URL+"/x.csv")
	require.NoError(t, err)
	assert.Empty(t, got)
}

func TestFetchHTTPStatusError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "no such dataset", http.StatusNotFound)
	}))
	defer srv.Close()

	_, err := New(Config{}, nil).Fetch(context.Background(), srv.URL)
	require.Error(t, err)
	var fe *Error
	require.True(t, errors.As(err, &fe))
	assert.Equal(t, http.StatusBadGateway, fe.Code)
	assert.Contains(t, fe.Message, "status 404")
	assert.Contains(t, fe.Message, "no such dataset")
}

func TestFetchHTTPTransportError(t *testing.T) {
	f := New(Config{}, nil)
	transportErr := errors.New("connection refused")
	f.SetHTTPClient(&http.Client{Transport: roundTripperFunc(func(*http.Request) (*http.Response, error) {
		return nil, transportErr
	})})

	_, err := f.Fetch(context.Background(), "https://example.com/data.csv")
	require.Error(t, err)
	assert.ErrorIs(t, err, transportErr)
	var fe *Error
	require.True(t, errors.As(err, &fe))
	assert.Equal(t, http.StatusBadGateway, fe.Code)
}

func TestFetchHTTPContextCanceled(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		<-r.Context().Done()
	}))
	defer srv.Close()

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err := New(Config{}, nil).Fetch(ctx, srv.URL)
	require.Error(t, err)
	assert.ErrorIs(t, err, context.Canceled)
}

func TestFetchFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "data.csv")
	require.NoError(t, os.WriteFile(path, []byte("x\n1\n"), 0o600))

	body, err := New(Config{}, nil).Fetch(context.Background(), "file://"+path)
	require.NoError(t, err)
	assert.Equal(t, "x\n1\n", string(body))
}

func TestFetchFileMissing(t *testing.T) {
	_, err := New(Config{}, nil).Fetch(context.Background(), "file://"+filepath.Join(t.TempDir(), "missing.csv"))
	require.Error(t, err)
	assert.ErrorIs(t, err, fs.ErrNotExist)
	var fe *Error
	require.True(t, errors.As(err, &fe))
	assert.Equal(t, http.StatusNotFound, fe.Code)
}

func TestFetchUnsupportedSource(t *testing.T) {
	for _, source := range []string{"ftp://example.com/a.csv", "data.csv", "", "fil", "file://", "s3://bucket/key"} {
		_, err := New(Config{}, nil).Fetch(context.Background(), source)
		require.Error(t, err, source)
		assert.ErrorIs(t, err, ErrUnsupportedSource, source)
		var fe *Error
		require.True(t, errors.As(err, &fe))
		assert.Equal(t, http.StatusBadRequest, fe.Code)
	}
}
