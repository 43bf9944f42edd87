// Command smoketest drives a running portal server through a create, analyze,
// search, layout and cascade-delete round.
package main

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"os"
	"time"

	"github.com/google/uuid"
	"github.com/joho/godotenv"
)

var client = &http.Client{Timeout: 10 * time.Second}

func main() {
	_ = godotenv.Load()
	baseURL := os.Getenv("PORTAL_URL")
	if baseURL == "" {
		baseURL = "http://localhost:8080"
	}

	run := uuid.New().String()[:8]
	alice, bob := "alice-"+run, "bob-"+run
	knows, cites := "knows-"+run, "cites-"+run

	steps := []struct {
		name   string
		method string
		path   string
		body   any
		status int
	}{
		{"create alice", http.MethodPost, "/entities", map[string]any{"id": alice, "facial_data_id": "face-" + run}, http.StatusCreated},
		{"create bob", http.MethodPost, "/entities", map[string]any{"id": bob, "text_data_id": "text-" + run}, http.StatusCreated},
		{"create relation", http.MethodPost, "/relations", map[string]any{
			"id": knows, "predicate": "knows", "subject_entity_id": alice, "object_entity_id": bob,
		}, http.StatusCreated},
		{"create meta-relation", http.MethodPost, "/relations", map[string]any{
			"id": cites, "predicate": "cites", "subject_relation_id": knows, "object_entity_id": bob,
		}, http.StatusCreated},
		{"reject dangling relation", http.MethodPost, "/relations", map[string]any{
			"predicate": "knows", "subject_entity_id": alice, "object_entity_id": "ghost-" + run,
		}, http.StatusBadRequest},
		{"analyze", http.MethodPost, "/analyze", map[string]string{"type": "all"}, http.StatusOK},
		{"search", http.MethodGet, "/search?q=" + alice + "&includeRelations=true", nil, http.StatusOK},
		{"layout", http.MethodGet, "/layout", nil, http.StatusOK},
		{"delete alice", http.MethodDelete, "/entities/" + alice, nil, http.StatusNoContent},
		{"meta-relation cascaded", http.MethodGet, "/relations/" + cites, nil, http.StatusNotFound},
		{"delete bob", http.MethodDelete, "/entities/" + bob, nil, http.StatusNoContent},
	}

	fmt.Printf("Running smoke test against %s\n", baseURL)
	for i, step := range steps {
		if err := send(baseURL, step.method, step.path, step.body, step.status); err != nil {
			fmt.Printf("%d. FAILED: %s: %v\n", i+1, step.name, err)
			os.Exit(1)
		}
		fmt.Printf("%d. PASSED: %s\n", i+1, step.name)
	}
}

func send(baseURL, method, path string, payload any, want int) error {
	var body io.Reader
	if payload != nil {
		data, err := json.Marshal(payload)
		if err != nil {
			return err
		}
		body = bytes.NewReader(data)
	}

	req, err := http.NewRequest(method, baseURL+path, body)
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := client.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode != want {
		respBody, _ := io.ReadAll(resp.Body)
		return fmt.Errorf("status %d, want %d: %s", resp.StatusCode, want, respBody)
	}
	return nil
}
