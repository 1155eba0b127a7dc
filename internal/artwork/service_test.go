package artwork

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/shopspring/decimal"

	"github.com/dabsmanuel/joshua-art-portfolio-sub000/internal/rest"
	"github.com/dabsmanuel/joshua-art-portfolio-sub000/internal/tokens"
	"github.com/dabsmanuel/joshua-art-portfolio-sub000/internal/upload"
	pkgerrors "github.com/dabsmanuel/joshua-art-portfolio-sub000/pkg/errors"
)

func newService(t *testing.T, server *httptest.Server) Service {
	t.Helper()
	client, err := rest.New(rest.Params{BaseURL: server.URL, Tokens: tokens.NewMemoryStore()})
	if err != nil {
		t.Fatalf("rest.New: %v", err)
	}
	svc, err := NewService(ServiceParams{Client: client})
	if err != nil {
		t.Fatalf("NewService: %v", err)
	}
	return svc
}

func TestListForwardsFilterParams(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		query := r.URL.Query()
		if query.Get("category") != "portraits" || query.Get("page") != "2" || query.Get("featured") != "true" {
			t.Errorf("filter not forwarded: %s", r.URL.RawQuery)
		}
		if query.Has("sold") {
			t.Errorf("nil sold filter should be omitted")
		}
		json.NewEncoder(w).Encode(ListResult{Artworks: []Artwork{{ID: "a1"}}, Total: 1, Page: 2, Pages: 3})
	}))
	defer server.Close()

	featured := true
	result, err := newService(t, server).List(context.Background(), ListFilter{
		Page:     2,
		Category: CategoryPortraits,
		Featured: &featured,
	})
	if err != nil {
		t.Fatalf("List: %v", err)
	}
	if len(result.Artworks) != 1 || result.Total != 1 {
		t.Fatalf("unexpected result %+v", result)
	}
}

func TestCreateEncodesMultipartRecord(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost || r.URL.Path != "/artwork" {
			t.Errorf("unexpected %s %s", r.Method, r.URL.Path)
		}
		if err := r.ParseMultipartForm(4 << 20); err != nil {
			t.Fatalf("parse multipart: %v", err)
		}
		if got := r.FormValue("title"); got != "Dusk Over Fields" {
			t.Errorf("unexpected title %q", got)
		}
		if got := r.FormValue("price"); got != "450.5" {
			t.Errorf("unexpected price %q", got)
		}
		if tags := r.MultipartForm.Value["tags"]; len(tags) != 2 {
			t.Errorf("expected repeated tags field, got %v", tags)
		}
		var prints []PrintOption
		if err := json.Unmarshal([]byte(r.FormValue("printOptions")), &prints); err != nil || len(prints) != 1 {
			t.Errorf("print options not encoded: %v %v", prints, err)
		}
		if files := r.MultipartForm.File["images"]; len(files) != 2 {
			t.Errorf("expected two image parts, got %d", len(files))
		}
		json.NewEncoder(w).Encode(detailEnvelope{Artwork: Artwork{ID: "a1", Title: "Dusk Over Fields"}})
	}))
	defer server.Close()

	price := decimal.RequireFromString("450.5")
	record, err := newService(t, server).Create(context.Background(), CreateInput{
		Title:        "Dusk Over Fields",
		Category:     CategoryLandscapes,
		Year:         2024,
		Price:        &price,
		Tags:         []string{"oil", "evening"},
		PrintOptions: []PrintOption{{Size: "A3", Price: decimal.RequireFromString("60")}},
		Images: []upload.File{
			{Name: "dusk-1.jpg", Content: []byte("one")},
			{Name: "dusk-2.jpg", Content: []byte("two")},
		},
	})
	if err != nil {
		t.Fatalf("Create: %v", err)
	}
	if record.ID != "a1" {
		t.Fatalf("unexpected record %+v", record)
	}
}

func TestCreateValidatesBeforeDispatch(t *testing.T) {
	called := false
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		called = true
	}))
	defer server.Close()

	_, err := newService(t, server).Create(context.Background(), CreateInput{Title: "", Category: "sculpture"})
	typed := pkgerrors.As(err)
	if typed == nil || typed.Code() != pkgerrors.CodeValidation {
		t.Fatalf("expected validation error, got %v", err)
	}
	if called {
		t.Fatalf("invalid payload must not reach the network")
	}
}

func TestImageSubsetOpsEncodePublicID(t *testing.T) {
	var paths []string
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		paths = append(paths, r.Method+" "+r.URL.Path)
		json.NewEncoder(w).Encode(detailEnvelope{Artwork: Artwork{ID: "a1"}})
	}))
	defer server.Close()

	svc := newService(t, server)
	ctx := context.Background()
	if _, err := svc.RemoveImage(ctx, "a1", "portfolio/artworks/dusk"); err != nil {
		t.Fatalf("RemoveImage: %v", err)
	}
	if _, err := svc.SetPrimaryImage(ctx, "a1", "portfolio/artworks/dawn"); err != nil {
		t.Fatalf("SetPrimaryImage: %v", err)
	}
	want := []string{
		"DELETE /artwork/a1/images/portfolio--artworks--dusk",
		"PUT /artwork/a1/images/portfolio--artworks--dawn/primary",
	}
	for i, path := range want {
		if paths[i] != path {
			t.Fatalf("call %d = %q, want %q", i, paths[i], path)
		}
	}
}

func TestPrimaryImageFallsBackToFirst(t *testing.T) {
	record := Artwork{Images: []ImageRef{
		{PublicID: "first"},
		{PublicID: "second"},
	}}
	if got := record.PrimaryImage(); got == nil || got.PublicID != "first" {
		t.Fatalf("expected first-image fallback, got %+v", got)
	}
	record.Images[1].IsPrimary = true
	if got := record.PrimaryImage(); got == nil || got.PublicID != "second" {
		t.Fatalf("expected flagged primary, got %+v", got)
	}
	if got := (Artwork{}).PrimaryImage(); got != nil {
		t.Fatalf("expected nil for empty image list, got %+v", got)
	}
}
