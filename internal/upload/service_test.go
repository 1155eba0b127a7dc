package upload

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/dabsmanuel/joshua-art-portfolio-sub000/internal/rest"
	"github.com/dabsmanuel/joshua-art-portfolio-sub000/internal/tokens"
	pkgerrors "github.com/dabsmanuel/joshua-art-portfolio-sub000/pkg/errors"
)

func TestEncodePublicIDIsDeterministicAndSymmetric(t *testing.T) {
	cases := []struct {
		raw     string
		encoded string
	}{
		{raw: "portfolio/artworks/abc123", encoded: "portfolio--artworks--abc123"},
		{raw: "flat", encoded: "flat"},
		{raw: "a/b/c/d", encoded: "a--b--c--d"},
	}
	for _, tc := range cases {
		got := EncodePublicID(tc.raw)
		if got != tc.encoded {
			t.Fatalf("EncodePublicID(%q) = %q, want %q", tc.raw, got, tc.encoded)
		}
		if again := EncodePublicID(tc.raw); again != got {
			t.Fatalf("encoding is not deterministic for %q", tc.raw)
		}
		if back := DecodePublicID(got); back != tc.raw {
			t.Fatalf("DecodePublicID(%q) = %q, want %q", got, back, tc.raw)
		}
	}
}

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

func TestUploadSingleSendsMultipart(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/upload/single" {
			t.Errorf("unexpected path %s", r.URL.Path)
		}
		if err := r.ParseMultipartForm(1 << 20); err != nil {
			t.Errorf("parse multipart: %v", err)
		}
		_, header, err := r.FormFile("image")
		if err != nil {
			t.Errorf("missing image part: %v", err)
		} else if header.Filename != "dusk.jpg" {
			t.Errorf("unexpected filename %q", header.Filename)
		}
		json.NewEncoder(w).Encode(singleEnvelope{Image: Image{
			PublicID: "portfolio/artworks/dusk",
			URL:      "https://img.example.com/portfolio/artworks/dusk.jpg",
		}})
	}))
	defer server.Close()

	svc := newService(t, server)
	image, err := svc.UploadSingle(context.Background(), File{Name: "dusk.jpg", Content: []byte("jpegbytes")})
	if err != nil {
		t.Fatalf("UploadSingle: %v", err)
	}
	if image.PublicID != "portfolio/artworks/dusk" {
		t.Fatalf("unexpected image %+v", image)
	}
}

func TestDeleteEncodesPublicIDInPath(t *testing.T) {
	var gotPath string
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.URL.Path
		w.Write([]byte(`{"message":"deleted"}`))
	}))
	defer server.Close()

	svc := newService(t, server)
	if err := svc.Delete(context.Background(), "portfolio/artworks/dusk"); err != nil {
		t.Fatalf("Delete: %v", err)
	}
	if gotPath != "/upload/portfolio--artworks--dusk" {
		t.Fatalf("public id not encoded in path: %s", gotPath)
	}
}

func TestImageInfoResolvesVariants(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/upload/image-info/portfolio--artworks--dusk" {
			t.Errorf("unexpected path %s", r.URL.Path)
		}
		json.NewEncoder(w).Encode(singleEnvelope{Image: Image{
			PublicID: "portfolio/artworks/dusk",
			Variants: Variants{
				Original:  "https://img.example.com/original/dusk.jpg",
				Thumbnail: "https://img.example.com/thumb/dusk.jpg",
			},
		}})
	}))
	defer server.Close()

	svc := newService(t, server)
	info, err := svc.ImageInfo(context.Background(), "portfolio/artworks/dusk")
	if err != nil {
		t.Fatalf("ImageInfo: %v", err)
	}
	if info.Variants.Thumbnail == "" {
		t.Fatalf("variants not decoded: %+v", info)
	}
}

func TestUploadMultipleRequiresFiles(t *testing.T) {
	svcClient, _ := rest.New(rest.Params{BaseURL: "http://localhost", Tokens: tokens.NewMemoryStore()})
	svc, _ := NewService(ServiceParams{Client: svcClient})

	_, err := svc.UploadMultiple(context.Background(), nil)
	typed := pkgerrors.As(err)
	if typed == nil || typed.Code() != pkgerrors.CodeValidation {
		t.Fatalf("expected validation error, got %v", err)
	}
}
