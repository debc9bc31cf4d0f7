package httpclient

import (
	"context"
	"io"
	"net"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"
)

func TestRestyClientPostSendsHeadersWithoutBody(t *testing.T) {
	var (
		method      string
		contentType string
		accept      string
		length      int64
		body        []byte
	)
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		method = r.Method
		contentType = r.Header.Get("Content-Type")
		accept = r.Header.Get("Accept")
		length = r.ContentLength
		body, _ = io.ReadAll(r.Body)
		w.WriteHeader(http.StatusCreated)
		_, _ = w.Write([]byte("created"))
	}))
	defer srv.Close()

	client := NewRestyClient(2 * time.Second)
	resp, err := client.Post(context.Background(), srv.URL, map[string]string{
		"Accept":       "*/*",
		"Content-Type": "application/json; charset=utf-8",
	})
	if err != nil {
		t.Fatalf("Post: %v", err)
	}

	if method != http.MethodPost {
		t.Fatalf("expected POST, got %s", method)
	}
	if contentType != "application/json; charset=utf-8" {
		t.Fatalf("Content-Type = %q", contentType)
	}
	if accept != "*/*" {
		t.Fatalf("Accept = %q", accept)
	}
	if length != 0 || len(body) != 0 {
		t.Fatalf("expected empty body, got length=%d body=%q", length, body)
	}
	if resp.StatusCode() != http.StatusCreated {
		t.Fatalf("StatusCode = %d", resp.StatusCode())
	}
	if string(resp.Body()) != "created" {
		t.Fatalf("Body = %q", resp.Body())
	}
}

func TestRestyClientPostConnectionRefused(t *testing.T) {
	ln, err := net.Listen("tcp", "127.0.0.1:0")
	if err != nil {
		t.Fatalf("listen: %v", err)
	}
	addr := ln.Addr().String()
	ln.Close()

	resp, err := NewRestyClient(time.Second).Post(context.Background(), "http://"+addr+"/api/users", nil)
	if err == nil {
		t.Fatalf("expected transport error, got status %d", resp.StatusCode())
	}
	if resp != nil {
		t.Fatalf("expected nil response on transport error")
	}
}
