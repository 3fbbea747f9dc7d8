package testutil

import (
	"bytes"
	"fmt"
	"net"
	"net/http"
	"net/http/httptest"
	"strconv"
	"testing"
	"time"

	"github.com/NYTimes/gziphandler"
)

// OKBody is the body served by /ok, exactly 512 bytes.
var OKBody = bytes.Repeat([]byte("0123456789abcdef"), 32)

// GzipBody is the body served (compressed) by /gzip, exactly 4096 bytes.
var GzipBody = bytes.Repeat([]byte("0123456789abcdef"), 256)

// Handler returns the routes of the dummy target server.
func Handler() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("/ok", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		w.Write(OKBody)
	})
	mux.HandleFunc("/empty", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	})
	mux.HandleFunc("/error", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
		w.Write([]byte("error"))
	})
	mux.HandleFunc("/redirect/ok", func(w http.ResponseWriter, r *http.Request) {
		http.Redirect(w, r, "/ok", http.StatusFound)
	})
	mux.HandleFunc("/redirect/error", func(w http.ResponseWriter, r *http.Request) {
		http.Redirect(w, r, "/error", http.StatusFound)
	})
	mux.HandleFunc("/redirect/loop", func(w http.ResponseWriter, r *http.Request) {
		http.Redirect(w, r, "/redirect/loop", http.StatusFound)
	})
	mux.HandleFunc("/redirect/external", func(w http.ResponseWriter, r *http.Request) {
		// Points at another host. The redirect hook rejects it before any
		// connection is attempted, so nothing ever dials example.com.
		http.Redirect(w, r, "http://example.com/ok", http.StatusFound)
	})
	mux.HandleFunc("/redirect/port", func(w http.ResponseWriter, r *http.Request) {
		host, _, err := net.SplitHostPort(r.Host)
		if err != nil {
			host = r.Host
		}
		http.Redirect(w, r, fmt.Sprintf("http://%s:1/ok", host), http.StatusFound)
	})
	mux.HandleFunc("/only/get", func(w http.ResponseWriter, r *http.Request) {
		if r.Method != "GET" {
			w.WriteHeader(http.StatusMethodNotAllowed)
		}
	})
	mux.HandleFunc("/only/post", func(w http.ResponseWriter, r *http.Request) {
		if r.Method != "POST" {
			w.WriteHeader(http.StatusMethodNotAllowed)
		}
	})
	mux.HandleFunc("/slow", func(w http.ResponseWriter, r *http.Request) {
		select {
		case <-time.After(10 * time.Second):
		case <-r.Context().Done():
			return
		}
		w.Write([]byte("OK"))
	})
	mux.Handle("/gzip", gziphandler.GzipHandler(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "text/plain")
		w.WriteHeader(http.StatusOK)
		w.Write(GzipBody)
	})))
	mux.HandleFunc("/auth", func(w http.ResponseWriter, r *http.Request) {
		user, password, ok := r.BasicAuth()
		if !ok || user != "aladdin" || password != "opensesame" {
			w.Header().Set("WWW-Authenticate", `Basic realm="cave"`)
			w.WriteHeader(http.StatusUnauthorized)
			return
		}
		w.WriteHeader(http.StatusOK)
		w.Write([]byte("secret"))
	})
	mux.HandleFunc("/modified", func(w http.ResponseWriter, r *http.Request) {
		age := time.Hour
		if raw := r.URL.Query().Get("age"); raw != "" {
			if seconds, err := strconv.Atoi(raw); err == nil {
				age = time.Duration(seconds) * time.Second
			}
		}
		w.Header().Set("Last-Modified", time.Now().Add(-age).UTC().Format(http.TimeFormat))
		w.WriteHeader(http.StatusOK)
		w.Write([]byte("old news"))
	})

	return mux
}

// StartHTTPServer starts a dummy target server for one test.
func StartHTTPServer(t testing.TB) *httptest.Server {
	t.Helper()

	server := httptest.NewServer(Handler())
	t.Cleanup(server.Close)
	return server
}

// StartHTTPSServer starts the same server behind TLS with a self-signed
// certificate, so connecting with certificate verification on fails.
func StartHTTPSServer(t testing.TB) *httptest.Server {
	t.Helper()

	server := httptest.NewTLSServer(Handler())
	t.Cleanup(server.Close)
	return server
}
