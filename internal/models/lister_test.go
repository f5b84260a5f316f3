package models

import (
	"bytes"
	"context"
	"net/http"
	"net/http/httptest"
	"reflect"
	"strings"
	"testing"
)

func newModelServer(t *testing.T) *httptest.Server {
	t.Helper()

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/v1/models" {
			http.NotFound(w, r)
			return
		}
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"object":"list","data":[
			{"id":"tts-1-hd","object":"model","owned_by":"system"},
			{"id":"gpt-4o","object":"model","owned_by":"system"},
			{"id":"tts-1","object":"model","owned_by":"system"},
			{"id":"gpt-4o-mini-tts","object":"model","owned_by":"system"}
		]}`))
	}))
	t.Cleanup(server.Close)

	return server
}

func TestNewLister(t *testing.T) {
	lister := NewLister("test-api-key", "")

	if lister == nil {
		t.Fatal("NewLister returned nil")
	}

	if lister.apiKey != "test-api-key" {
		t.Errorf("Expected API key 'test-api-key', got '%s'", lister.apiKey)
	}

	if lister.client == nil {
		t.Error("OpenAI client not initialized")
	}
}

func TestTTSModels_NoAPIKey(t *testing.T) {
	lister := NewLister("", "")

	_, err := lister.TTSModels(context.Background())
	if err == nil {
		t.Fatal("Expected error for missing API key")
	}

	expectedError := "OpenAI API key not found. Set OPENAI_API_KEY environment variable or configure in .mathcards.yaml"
	if err.Error() != expectedError {
		t.Errorf("Expected error '%s', got: %v", expectedError, err)
	}
}

func TestTTSModels(t *testing.T) {
	server := newModelServer(t)
	lister := NewLister("test-api-key", server.URL+"/v1")

	got, err := lister.TTSModels(context.Background())
	if err != nil {
		t.Fatalf("TTSModels failed: %v", err)
	}

	want := []string{"gpt-4o-mini-tts", "tts-1", "tts-1-hd"}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("TTSModels() = %v, want %v", got, want)
	}
}

func TestListAvailableModels(t *testing.T) {
	server := newModelServer(t)
	lister := NewLister("test-api-key", server.URL+"/v1")

	var out bytes.Buffer
	if err := lister.ListAvailableModels(context.Background(), &out); err != nil {
		t.Fatalf("ListAvailableModels failed: %v", err)
	}

	for _, want := range []string{"  tts-1\n", "  tts-1-hd\n", "alloy, ash"} {
		if !strings.Contains(out.String(), want) {
			t.Errorf("output missing %q:\n%s", want, out.String())
		}
	}
	if strings.Contains(out.String(), "gpt-4o\n") {
		t.Errorf("chat model listed:\n%s", out.String())
	}
}

func TestListAvailableModels_ServerError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, `{"error":{"message":"invalid key"}}`, http.StatusUnauthorized)
	}))
	defer server.Close()

	lister := NewLister("bad-key", server.URL+"/v1")

	var out bytes.Buffer
	if err := lister.ListAvailableModels(context.Background(), &out); err == nil {
		t.Error("Expected error from server")
	}
}
