package client

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
)

func TestRequestInjectsBearer(t *testing.T) {
	var got string
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		got = r.Header.Get("Authorization")
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"ok":true}`))
	}))
	defer server.Close()

	gw := New(server.URL, NewSession("tok-123"), nil)
	payload, err := gw.Request(context.Background(), "/api/tickets", Options{})
	if err != nil {
		t.Fatalf("Request: %v", err)
	}
	if got != "Bearer tok-123" {
		t.Errorf("Authorization = %q", got)
	}
	if string(payload) != `{"ok":true}` {
		t.Errorf("payload = %s", payload)
	}
}

func TestRequestNoTokenNoHeader(t *testing.T) {
	var sawHeader bool
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, sawHeader = r.Header["Authorization"]
	}))
	defer server.Close()

	gw := New(server.URL, NewSession(""), nil)
	if _, err := gw.Request(context.Background(), "/", Options{}); err != nil {
		t.Fatalf("Request: %v", err)
	}
	if sawHeader {
		t.Error("Authorization header sent without a token")
	}
}

func TestRequestUnauthorized(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		// Body must be ignored on 401, even when it is not JSON.
		w.WriteHeader(http.StatusUnauthorized)
		_, _ = w.Write([]byte("<html>denied</html>"))
	}))
	defer server.Close()

	session := NewSession("tok-123")
	logouts := 0
	gw := New(server.URL, session, func() { logouts++ })

	_, err := gw.Request(context.Background(), "/api/auth/me", Options{})
	if !errors.Is(err, ErrSessaoExpirada) {
		t.Fatalf("err = %v, want ErrSessaoExpirada", err)
	}
	if session.Token() != "" {
		t.Error("session token not cleared")
	}
	if logouts != 1 {
		t.Errorf("onLogout ran %d times, want 1", logouts)
	}

	// A second 401 fires the callback again; once per response, not per session.
	_, _ = gw.Request(context.Background(), "/api/auth/me", Options{})
	if logouts != 2 {
		t.Errorf("onLogout ran %d times after second 401, want 2", logouts)
	}
}

func TestRequestAPIError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusBadRequest)
		_, _ = w.Write([]byte("título é obrigatório"))
	}))
	defer server.Close()

	gw := New(server.URL, nil, nil)
	_, err := gw.Request(context.Background(), "/api/tickets", Options{Method: http.MethodPost, Body: map[string]string{}})

	var apiErr *APIError
	if !errors.As(err, &apiErr) {
		t.Fatalf("err = %T, want *APIError", err)
	}
	if apiErr.StatusCode != http.StatusBadRequest {
		t.Errorf("status = %d", apiErr.StatusCode)
	}
	if apiErr.Error() != "título é obrigatório" {
		t.Errorf("message = %q", apiErr.Error())
	}
}

func TestRequestAPIErrorEmptyBody(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusServiceUnavailable)
	}))
	defer server.Close()

	gw := New(server.URL, nil, nil)
	_, err := gw.Request(context.Background(), "/health/ready", Options{})

	var apiErr *APIError
	if !errors.As(err, &apiErr) {
		t.Fatalf("err = %T, want *APIError", err)
	}
	if apiErr.Error() != "Erro 503: Service Unavailable" {
		t.Errorf("message = %q", apiErr.Error())
	}
}

func TestRequestNonJSONSuccess(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("Content-Type", "text/csv; charset=utf-8")
		_, _ = w.Write([]byte("Código,Título\n"))
	}))
	defer server.Close()

	gw := New(server.URL, nil, nil)
	payload, err := gw.Request(context.Background(), "/api/tickets/reports/resolved.csv", Options{})
	if err != nil {
		t.Fatalf("Request: %v", err)
	}
	if payload != nil {
		t.Errorf("non-JSON success must yield nil payload, got %s", payload)
	}
}

func TestRequestEmptyJSONBody(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusNoContent)
	}))
	defer server.Close()

	gw := New(server.URL, nil, nil)
	payload, err := gw.Request(context.Background(), "/api/tickets/1", Options{Method: http.MethodDelete})
	if err != nil {
		t.Fatalf("Request: %v", err)
	}
	if payload != nil {
		t.Errorf("empty body must yield nil payload, got %s", payload)
	}
}

func TestDoDecodes(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost {
			t.Errorf("method = %s", r.Method)
		}
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"ticketId":"INC0000042"}`))
	}))
	defer server.Close()

	gw := New(server.URL, nil, nil)
	var out struct {
		TicketID string `json:"ticketId"`
	}
	if err := gw.Do(context.Background(), http.MethodPost, "/api/tickets", map[string]string{"titulo": "x"}, &out); err != nil {
		t.Fatalf("Do: %v", err)
	}
	if out.TicketID != "INC0000042" {
		t.Errorf("decoded = %+v", out)
	}
}

func TestNewDefaults(t *testing.T) {
	gw := New("", nil, nil)
	if gw.baseURL != DefaultBaseURL {
		t.Errorf("baseURL = %q", gw.baseURL)
	}
	gw = New("http://api.local/", nil, nil)
	if gw.baseURL != "http://api.local" {
		t.Errorf("trailing slash kept: %q", gw.baseURL)
	}
}
