package rest

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"

	"github.com/dabsmanuel/joshua-art-portfolio-sub000/internal/tokens"
	pkgerrors "github.com/dabsmanuel/joshua-art-portfolio-sub000/pkg/errors"
)

func newTestClient(t *testing.T, server *httptest.Server, store tokens.Store, onExpired func()) *Client {
	t.Helper()
	client, err := New(Params{
		BaseURL:          server.URL,
		Tokens:           store,
		OnSessionExpired: onExpired,
	})
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	return client
}

func TestClientAttachesBearerToken(t *testing.T) {
	var gotAuth string
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotAuth = r.Header.Get("Authorization")
		w.Write([]byte(`{"ok":true}`))
	}))
	defer server.Close()

	store := tokens.NewMemoryStore()
	store.SetTokens("access-abc", "refresh-abc")
	client := newTestClient(t, server, store, nil)

	if err := client.JSON(context.Background(), http.MethodGet, "/artwork", nil, nil, nil); err != nil {
		t.Fatalf("JSON: %v", err)
	}
	if gotAuth != "Bearer access-abc" {
		t.Fatalf("expected bearer header, got %q", gotAuth)
	}
}

func TestClientRefreshesOnceOn401(t *testing.T) {
	var refreshCalls, artworkCalls int
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/auth/refresh":
			refreshCalls++
			var body map[string]string
			json.NewDecoder(r.Body).Decode(&body)
			if body["refreshToken"] != "refresh-old" {
				t.Errorf("unexpected refresh token %q", body["refreshToken"])
			}
			json.NewEncoder(w).Encode(map[string]string{
				"accessToken":  "access-new",
				"refreshToken": "refresh-new",
			})
		case "/artwork":
			artworkCalls++
			if r.Header.Get("Authorization") == "Bearer access-new" {
				w.Write([]byte(`{"id":"1"}`))
				return
			}
			w.WriteHeader(http.StatusUnauthorized)
		default:
			t.Errorf("unexpected path %s", r.URL.Path)
		}
	}))
	defer server.Close()

	store := tokens.NewMemoryStore()
	store.SetTokens("access-old", "refresh-old")
	client := newTestClient(t, server, store, nil)

	var out struct {
		ID string `json:"id"`
	}
	if err := client.JSON(context.Background(), http.MethodGet, "/artwork", nil, nil, &out); err != nil {
		t.Fatalf("JSON: %v", err)
	}
	if out.ID != "1" {
		t.Fatalf("unexpected response %+v", out)
	}
	if refreshCalls != 1 {
		t.Fatalf("expected exactly one refresh call, got %d", refreshCalls)
	}
	if artworkCalls != 2 {
		t.Fatalf("expected original + one retry, got %d calls", artworkCalls)
	}
	if store.Access() != "access-new" || store.Refresh() != "refresh-new" {
		t.Fatalf("new tokens were not persisted")
	}
}

func TestClientRetriedRequestFailurePropagatesWithoutLooping(t *testing.T) {
	var refreshCalls, artworkCalls int
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/auth/refresh":
			refreshCalls++
			json.NewEncoder(w).Encode(map[string]string{
				"accessToken":  "access-new",
				"refreshToken": "refresh-new",
			})
		case "/artwork":
			artworkCalls++
			w.WriteHeader(http.StatusUnauthorized)
		}
	}))
	defer server.Close()

	store := tokens.NewMemoryStore()
	store.SetTokens("access-old", "refresh-old")
	expired := false
	client := newTestClient(t, server, store, func() { expired = true })

	err := client.JSON(context.Background(), http.MethodGet, "/artwork", nil, nil, nil)
	if err == nil {
		t.Fatalf("expected failure")
	}
	if pkgerrors.Normalize(err).Code() != pkgerrors.CodeUnauthorized {
		t.Fatalf("expected unauthorized, got %v", err)
	}
	if refreshCalls != 1 || artworkCalls != 2 {
		t.Fatalf("expected no retry loop, got refresh=%d artwork=%d", refreshCalls, artworkCalls)
	}
	// A 401 on the freshly refreshed token ends the session.
	if store.HasTokens() {
		t.Fatalf("tokens should be cleared after a 401 on a fresh token")
	}
	if !expired {
		t.Fatalf("session-expired hook should fire")
	}
}

func TestClient401WithoutRefreshTokenClearsAndSignals(t *testing.T) {
	var refreshCalls int
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path == "/auth/refresh" {
			refreshCalls++
		}
		w.WriteHeader(http.StatusUnauthorized)
	}))
	defer server.Close()

	store := tokens.NewMemoryStore()
	store.SetTokens("access-stale", "")
	expired := false
	client := newTestClient(t, server, store, func() { expired = true })

	err := client.JSON(context.Background(), http.MethodGet, "/artwork", nil, nil, nil)
	if pkgerrors.Normalize(err).Code() != pkgerrors.CodeUnauthorized {
		t.Fatalf("expected unauthorized, got %v", err)
	}
	if refreshCalls != 0 {
		t.Fatalf("no refresh attempt should happen without a refresh token")
	}
	if store.HasTokens() {
		t.Fatalf("tokens should be cleared immediately")
	}
	if !expired {
		t.Fatalf("session-expired hook should fire")
	}
}

func TestClientFailedRefreshClearsTokens(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path == "/auth/refresh" {
			w.WriteHeader(http.StatusUnauthorized)
			w.Write([]byte(`{"message":"refresh token revoked"}`))
			return
		}
		w.WriteHeader(http.StatusUnauthorized)
	}))
	defer server.Close()

	store := tokens.NewMemoryStore()
	store.SetTokens("access-old", "refresh-revoked")
	expired := false
	client := newTestClient(t, server, store, func() { expired = true })

	err := client.JSON(context.Background(), http.MethodGet, "/artwork", nil, nil, nil)
	if pkgerrors.Normalize(err).Code() != pkgerrors.CodeUnauthorized {
		t.Fatalf("expected unauthorized, got %v", err)
	}
	if store.HasTokens() || !expired {
		t.Fatalf("failed refresh should clear tokens and signal expiry")
	}
}

func TestClientMapsErrorResponses(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNotFound)
		w.Write([]byte(`{"message":"artwork not found"}`))
	}))
	defer server.Close()

	client := newTestClient(t, server, tokens.NewMemoryStore(), nil)
	err := client.JSON(context.Background(), http.MethodGet, "/artwork/9", nil, nil, nil)
	typed := pkgerrors.As(err)
	if typed == nil || typed.Code() != pkgerrors.CodeNotFound {
		t.Fatalf("expected typed not-found, got %v", err)
	}
	if typed.Message() != "artwork not found" {
		t.Fatalf("server message should be preserved, got %q", typed.Message())
	}
}

func TestClientNetworkErrorsNormalize(t *testing.T) {
	store := tokens.NewMemoryStore()
	client, err := New(Params{BaseURL: "http://127.0.0.1:1", Tokens: store})
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	callErr := client.JSON(context.Background(), http.MethodGet, "/artwork", nil, nil, nil)
	if pkgerrors.Normalize(callErr).Code() != pkgerrors.CodeNetwork {
		t.Fatalf("expected network classification, got %v", callErr)
	}
}

func TestClientMultipartEncodesFieldsAndFiles(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if err := r.ParseMultipartForm(1 << 20); err != nil {
			t.Errorf("parse multipart: %v", err)
		}
		if got := r.FormValue("title"); got != "Dusk" {
			t.Errorf("unexpected title %q", got)
		}
		file, header, err := r.FormFile("images")
		if err != nil {
			t.Errorf("missing file part: %v", err)
		} else {
			defer file.Close()
			if header.Filename != "dusk.jpg" {
				t.Errorf("unexpected filename %q", header.Filename)
			}
		}
		w.Write([]byte(`{"ok":true}`))
	}))
	defer server.Close()

	client := newTestClient(t, server, tokens.NewMemoryStore(), nil)
	form := NewForm().
		Set("title", "Dusk").
		Set("price", "").
		AddFile("images", "dusk.jpg", []byte("jpegbytes"))
	if err := client.Multipart(context.Background(), http.MethodPost, "/artwork", form, nil); err != nil {
		t.Fatalf("Multipart: %v", err)
	}
}

func TestClientBytesReturnsRawBody(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Query().Get("status") != "pending" {
			t.Errorf("query not forwarded: %s", r.URL.RawQuery)
		}
		w.Header().Set("Content-Type", "text/csv")
		w.Write([]byte("id,name\n1,Ada\n"))
	}))
	defer server.Close()

	client := newTestClient(t, server, tokens.NewMemoryStore(), nil)
	query := url.Values{}
	query.Set("status", "pending")
	raw, err := client.Bytes(context.Background(), http.MethodGet, "/inquiries/export/csv", query)
	if err != nil {
		t.Fatalf("Bytes: %v", err)
	}
	if !strings.HasPrefix(string(raw), "id,name") {
		t.Fatalf("unexpected body %q", raw)
	}
}
