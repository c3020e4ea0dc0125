package fetch

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/gaurav-prasanna/pagesift/core"
)

const page = "<html><body><script>x=1</script><p>Hello   world</p></body></html>"

func newSiteServer(t *testing.T) *httptest.Server {
	t.Helper()
	mux := http.NewServeMux()
	mux.HandleFunc("/robots.txt", func(w http.ResponseWriter, r *http.Request) {
		http.NotFound(w, r)
	})
	mux.HandleFunc("/ok", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "text/html")
		_, _ = w.Write([]byte(page))
	})
	mux.HandleFunc("/missing", func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "not here", http.StatusNotFound)
	})
	mux.HandleFunc("/broken", func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "boom", http.StatusInternalServerError)
	})
	mux.HandleFunc("/slow", func(w http.ResponseWriter, r *http.Request) {
		select {
		case <-r.Context().Done():
		case <-time.After(2 * time.Second):
		}
	})
	mux.HandleFunc("/big", func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(strings.Repeat("a", 2048)))
	})
	srv := httptest.NewServer(mux)
	t.Cleanup(srv.Close)
	return srv
}

func TestValidateURL(t *testing.T) {
	tests := []struct {
		name    string
		url     string
		wantErr bool
	}{
		{name: "https", url: "https://example.com", wantErr: false},
		{name: "http with path", url: "http://example.com/a/b?q=1", wantErr: false},
		{name: "empty", url: "", wantErr: true},
		{name: "blank", url: "   ", wantErr: true},
		{name: "no scheme", url: "example.com", wantErr: true},
		{name: "ftp scheme", url: "ftp://example.com/file", wantErr: true},
		{name: "no host", url: "https:///path", wantErr: true},
		{name: "garbage", url: "://bad", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidateURL(tt.url)
			if tt.wantErr {
				require.Error(t, err)
				assert.True(t, core.IsKind(err, core.KindInvalidArgument))
				return
			}
			assert.NoError(t, err)
		})
	}
}

func TestNormalizeURL(t *testing.T) {
	assert.Equal(t, "https://example.com/docs", NormalizeURL("https://Example.com/docs/#intro"))
	assert.Equal(t, "https://example.com/", NormalizeURL("https://example.com/"))
}

func TestHTTPFetcher(t *testing.T) {
	srv := newSiteServer(t)
	f := New(WithTimeout(time.Second))

	doc, err := f.Fetch(context.Background(), srv.URL+"/ok")
	require.NoError(t, err)
	assert.Equal(t, page, doc.HTML)
	assert.Equal(t, http.StatusOK, doc.StatusCode)
	assert.Equal(t, srv.URL+"/ok", doc.URL)
	assert.False(t, doc.FetchedAt.IsZero())
}

func TestHTTPFetcher_Errors(t *testing.T) {
	srv := newSiteServer(t)
	f := New(WithTimeout(100*time.Millisecond), WithMaxBodyBytes(1024))

	tests := []struct {
		name   string
		url    string
		kind   core.Kind
		status int
	}{
		{name: "not found", url: srv.URL + "/missing", kind: core.KindFetch, status: http.StatusNotFound},
		{name: "server error", url: srv.URL + "/broken", kind: core.KindFetch, status: http.StatusInternalServerError},
		{name: "timeout", url: srv.URL + "/slow", kind: core.KindFetch},
		{name: "body too large", url: srv.URL + "/big", kind: core.KindFetch},
		{name: "invalid url", url: "not a url", kind: core.KindInvalidArgument},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			doc, err := f.Fetch(context.Background(), tt.url)
			require.Error(t, err)
			assert.Nil(t, doc)
			assert.Equal(t, tt.kind, core.KindOf(err))

			if tt.status != 0 {
				var se *StatusError
				require.True(t, errors.As(err, &se))
				assert.Equal(t, tt.status, se.Status)
			}
		})
	}
}

func TestHTTPFetcher_ConnectionRefused(t *testing.T) {
	srv := httptest.NewServer(http.NotFoundHandler())
	url := srv.URL
	srv.Close()

	_, err := New(WithTimeout(time.Second)).Fetch(context.Background(), url)
	require.Error(t, err)
	assert.True(t, core.IsKind(err, core.KindFetch))
}

func TestCollyFetcher(t *testing.T) {
	srv := newSiteServer(t)
	f := NewColly(WithTimeout(time.Second))

	doc, err := f.Fetch(context.Background(), srv.URL+"/ok")
	require.NoError(t, err)
	assert.Equal(t, page, doc.HTML)
	assert.Equal(t, http.StatusOK, doc.StatusCode)

	_, err = f.Fetch(context.Background(), srv.URL+"/missing")
	require.Error(t, err)
	assert.True(t, core.IsKind(err, core.KindFetch))

	_, err = f.Fetch(context.Background(), "")
	assert.True(t, core.IsKind(err, core.KindInvalidArgument))
}

func TestCollyFetcher_BodyTooLarge(t *testing.T) {
	srv := newSiteServer(t)

	doc, err := NewColly(WithTimeout(time.Second), WithMaxBodyBytes(1024)).Fetch(context.Background(), srv.URL+"/big")
	require.Error(t, err)
	assert.Nil(t, doc)
	assert.True(t, core.IsKind(err, core.KindFetch))
	assert.Contains(t, err.Error(), "exceeds 1024 bytes")

	doc, err = NewColly(WithTimeout(time.Second), WithMaxBodyBytes(2048)).Fetch(context.Background(), srv.URL+"/big")
	require.NoError(t, err)
	assert.Len(t, doc.HTML, 2048)
}

func TestRemoteFetcher(t *testing.T) {
	var got renderRequest
	var auth string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		auth = r.Header.Get("Authorization")
		if err := json.NewDecoder(r.Body).Decode(&got); err != nil {
			http.Error(w, err.Error(), http.StatusBadRequest)
			return
		}
		if got.URL == "https://fail.example.com" {
			http.Error(w, "upstream failed", http.StatusBadGateway)
			return
		}
		_, _ = w.Write([]byte("<html><body><p>rendered</p></body></html>"))
	}))
	defer srv.Close()

	f := NewRemote(srv.URL, "secret", WithTimeout(2*time.Second))

	doc, err := f.Fetch(context.Background(), "https://spa.example.com")
	require.NoError(t, err)
	assert.Equal(t, "<html><body><p>rendered</p></body></html>", doc.HTML)
	assert.Equal(t, "https://spa.example.com", doc.URL)
	assert.Equal(t, "https://spa.example.com", got.URL)
	assert.Equal(t, int64(2000), got.TimeoutMS)
	assert.Equal(t, "Bearer secret", auth)

	_, err = f.Fetch(context.Background(), "https://fail.example.com")
	require.Error(t, err)
	assert.True(t, core.IsKind(err, core.KindFetch))

	_, err = NewRemote("", "").Fetch(context.Background(), "https://example.com")
	assert.True(t, core.IsKind(err, core.KindInvalidArgument))
}
