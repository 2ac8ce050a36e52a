package client

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"storyboard/internal/view"
)

func TestClient_MapsUnauthorizedToSentinel(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusUnauthorized)
		json.NewEncoder(w).Encode(map[string]string{"error": "Authentication required", "code": "AUTH_REQUIRED"})
	}))
	defer srv.Close()

	c, err := New(srv.URL)
	if err != nil {
		t.Fatalf("new: %v", err)
	}

	_, err = c.Create(context.Background(), view.PartFields{Title: "T", Content: "C"})
	if !errors.Is(err, view.ErrUnauthenticated) {
		t.Errorf("create: expected ErrUnauthenticated, got %v", err)
	}

	err = c.Login(context.Background(), "admin", "wrong")
	if !errors.Is(err, view.ErrInvalidCredentials) {
		t.Errorf("login: expected ErrInvalidCredentials, got %v", err)
	}
}

func TestClient_KeepsSessionCookieAcrossCalls(t *testing.T) {
	var sawCookie bool
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/api/auth/login":
			http.SetCookie(w, &http.Cookie{Name: "storyboard_session", Value: "signed", Path: "/"})
			json.NewEncoder(w).Encode(map[string]any{"success": true})
		case "/api/parts":
			if c, err := r.Cookie("storyboard_session"); err == nil && c.Value == "signed" {
				sawCookie = true
			}
			w.Write([]byte("[]"))
		}
	}))
	defer srv.Close()

	c, err := New(srv.URL)
	if err != nil {
		t.Fatalf("new: %v", err)
	}
	if err := c.Login(context.Background(), "admin", "secret"); err != nil {
		t.Fatalf("login: %v", err)
	}
	if _, err := c.List(context.Background()); err != nil {
		t.Fatalf("list: %v", err)
	}
	if !sawCookie {
		t.Error("the login cookie must be replayed on later calls")
	}
}

func TestClient_UploadSendsDeclaredContentType(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		file, header, err := r.FormFile("image")
		if err != nil {
			t.Errorf("form file: %v", err)
			http.Error(w, "bad", http.StatusBadRequest)
			return
		}
		defer file.Close()
		if ct := header.Header.Get("Content-Type"); ct != "image/png" {
			t.Errorf("declared content type = %q, want image/png", ct)
		}
		body, _ := io.ReadAll(file)
		if string(body) != "png bytes" {
			t.Errorf("unexpected file body %q", body)
		}
		json.NewEncoder(w).Encode(map[string]string{"path": "/uploads/x.png"})
	}))
	defer srv.Close()

	c, err := New(srv.URL)
	if err != nil {
		t.Fatalf("new: %v", err)
	}
	path, err := c.Upload(context.Background(), "frame.png", strings.NewReader("png bytes"))
	if err != nil {
		t.Fatalf("upload: %v", err)
	}
	if path != "/uploads/x.png" {
		t.Errorf("unexpected path %q", path)
	}
}
