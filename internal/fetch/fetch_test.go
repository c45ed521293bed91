package fetch

import (
	"bytes"
	"context"
	"image"
	"image/png"
	"net/http"
	"net/http/httptest"
	"testing"
)

func pngBytes(t *testing.T, width, height int) []byte {
	t.Helper()
	img := image.NewRGBA(image.Rect(0, 0, width, height))
	var buf bytes.Buffer
	if err := png.Encode(&buf, img); err != nil {
		t.Fatal(err)
	}
	return buf.Bytes()
}

func TestFetchDocuments(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/version.json":
			w.Write([]byte(`{"version":"1.3"}`))
		case "/speaker.json":
			w.Write([]byte(`[]`))
		case "/schedule_201801.json":
			w.Write([]byte(`{"conference":{"days":{}}}`))
		default:
			http.NotFound(w, r)
		}
	}))
	defer srv.Close()

	c := New(srv.URL, srv.Client(), nil)
	ctx := context.Background()

	if body, err := c.FetchVersion(ctx); err != nil || string(body) != `{"version":"1.3"}` {
		t.Errorf("FetchVersion = %q, %v", body, err)
	}
	if body, err := c.FetchSpeakers(ctx); err != nil || string(body) != `[]` {
		t.Errorf("FetchSpeakers = %q, %v", body, err)
	}
	if _, err := c.FetchSchedule(ctx, 201801); err != nil {
		t.Errorf("FetchSchedule: %v", err)
	}
	if _, err := c.FetchSchedule(ctx, 999999); err == nil {
		t.Error("expected error for missing schedule")
	}
}

func TestDownloadImageReportsBounds(t *testing.T) {
	img := pngBytes(t, 200, 100)
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write(img)
	}))
	defer srv.Close()

	c := New(srv.URL, srv.Client(), nil)
	data, width, height, err := c.DownloadImage(context.Background(), srv.URL+"/speaker.png")
	if err != nil {
		t.Fatalf("DownloadImage: %v", err)
	}
	if len(data) == 0 || width != 200 || height != 100 {
		t.Errorf("got %d bytes, %dx%d, want 200x100", len(data), width, height)
	}
}

func TestDownloadImageRejectsGarbage(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte("not an image"))
	}))
	defer srv.Close()

	c := New(srv.URL, srv.Client(), nil)
	if _, _, _, err := c.DownloadImage(context.Background(), srv.URL+"/x.jpg"); err == nil {
		t.Error("expected decode error")
	}
}
