package imagestore

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
)

func TestUpload(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/upload" {
			t.Errorf("path = %s, want /upload", r.URL.Path)
		}
		var req uploadRequest
		json.NewDecoder(r.Body).Decode(&req)
		if req.Folder != "recipes" {
			t.Errorf("folder = %s, want recipes", req.Folder)
		}
		json.NewEncoder(w).Encode(Image{URL: "https://img.example/abc.jpg", PublicID: "abc"})
	}))
	defer server.Close()

	client := New(Config{BaseURL: server.URL})
	img, err := client.Upload(context.Background(), "base64data")
	if err != nil {
		t.Fatalf("upload: %v", err)
	}
	if img.URL != "https://img.example/abc.jpg" || img.PublicID != "abc" {
		t.Fatalf("unexpected image: %+v", img)
	}
}

func TestUploadFailure(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnprocessableEntity)
		w.Write([]byte("unsupported format"))
	}))
	defer server.Close()

	client := New(Config{BaseURL: server.URL})
	if _, err := client.Upload(context.Background(), "notanimage"); err == nil {
		t.Fatal("expected error")
	}
}

func TestDeleteTreatsMissingAsSuccess(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodDelete {
			t.Errorf("method = %s, want DELETE", r.Method)
		}
		w.WriteHeader(http.StatusNotFound)
	}))
	defer server.Close()

	client := New(Config{BaseURL: server.URL})
	if err := client.Delete(context.Background(), "gone"); err != nil {
		t.Fatalf("delete of missing image should succeed: %v", err)
	}
}
