package fetcher

import (
	"context"
	"net/http"
	"net/http/httptest"
	"os"
	"strings"
	"testing"
	"time"
)

func TestConvertGDriveURL(t *testing.T) {
	cases := []struct {
		in   string
		want string
	}{
		{
			in:   "https://drive.google.com/file/d/1AbC_d-9/view?usp=sharing",
			want: "https://drive.google.com/uc?export=download&id=1AbC_d-9",
		},
		{
			in:   "https://drive.google.com/open?id=XyZ123",
			want: "https://drive.google.com/uc?export=download&id=XyZ123",
		},
		{
			in:   "https://drive.google.com/uc?export=download&id=already",
			want: "https://drive.google.com/uc?export=download&id=already",
		},
		{
			in:   "https://example.com/audio.mp3",
			want: "https://example.com/audio.mp3",
		},
	}
	for _, c := range cases {
		if got := ConvertGDriveURL(c.in); got != c.want {
			t.Fatalf("ConvertGDriveURL(%q) = %q, want %q", c.in, got, c.want)
		}
	}
}

func TestRemoteExtension(t *testing.T) {
	cases := []struct {
		in   string
		want string
	}{
		{"https://example.com/audio.wav", ".wav"},
		{"https://example.com/audio.FLAC?x=1", ".flac"},
		{"https://example.com/audio.exe", ".mp3"},
		{"https://example.com/audio", ".mp3"},
	}
	for _, c := range cases {
		if got := remoteExtension(c.in); got != c.want {
			t.Fatalf("remoteExtension(%q) = %q, want %q", c.in, got, c.want)
		}
	}
}

func TestFetchToTemp_Success(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte("audio-bytes"))
	}))
	defer server.Close()

	f := NewHTTPFetcher(10*time.Second, t.TempDir())
	path, err := f.FetchToTemp(context.Background(), server.URL+"/meeting.wav")
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
	defer os.Remove(path)

	if !strings.HasSuffix(path, ".wav") {
		t.Fatalf("expected .wav temp file, got %s", path)
	}
	content, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("read temp file: %v", err)
	}
	if string(content) != "audio-bytes" {
		t.Fatalf("unexpected content: %q", content)
	}
}

func TestFetchToTemp_Non2xx(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNotFound)
	}))
	defer server.Close()

	f := NewHTTPFetcher(10*time.Second, t.TempDir())
	if _, err := f.FetchToTemp(context.Background(), server.URL+"/missing.mp3"); err == nil {
		t.Fatal("expected error for non-2xx response")
	}
}
