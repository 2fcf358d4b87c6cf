package handlers

import (
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
)

func TestRespondWithError(t *testing.T) {
	tests := []struct {
		name    string
		status  int
		userMsg string
		err     error
	}{
		{
			name:    "client error",
			status:  http.StatusBadRequest,
			userMsg: ErrInvalidRequestBody,
			err:     errors.New("unexpected EOF"),
		},
		{
			name:    "server error without wrapped error",
			status:  http.StatusInternalServerError,
			userMsg: ErrInternalServerError,
			err:     nil,
		},
		{
			name:    "unauthorized",
			status:  http.StatusUnauthorized,
			userMsg: ErrUnauthorized,
			err:     errors.New("token expired"),
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := httptest.NewRecorder()
			respondWithError(rec, tt.status, tt.userMsg, "test failure", tt.err)

			if rec.Code != tt.status {
				t.Errorf("status = %d, want %d", rec.Code, tt.status)
			}
			if ct := rec.Header().Get("Content-Type"); ct != "application/json" {
				t.Errorf("Content-Type = %q, want application/json", ct)
			}

			var body map[string]string
			if err := json.NewDecoder(rec.Body).Decode(&body); err != nil {
				t.Fatalf("response is not JSON: %v", err)
			}
			if body["error"] != tt.userMsg {
				t.Errorf("error = %q, want %q", body["error"], tt.userMsg)
			}
		})
	}
}

func TestRespondWithJSON(t *testing.T) {
	rec := httptest.NewRecorder()
	respondWithJSON(rec, http.StatusCreated, map[string]int{"coins": 25})

	if rec.Code != http.StatusCreated {
		t.Errorf("status = %d, want %d", rec.Code, http.StatusCreated)
	}
	var body map[string]int
	if err := json.NewDecoder(rec.Body).Decode(&body); err != nil {
		t.Fatalf("response is not JSON: %v", err)
	}
	if body["coins"] != 25 {
		t.Errorf("coins = %d, want 25", body["coins"])
	}
}

func TestDecodeJSON(t *testing.T) {
	type loginRequest struct {
		Username string `json:"username"`
		PIN      string `json:"pin"`
	}

	tests := []struct {
		name    string
		body    string
		wantErr bool
	}{
		{
			name:    "valid body",
			body:    `{"username": "brave-coder", "pin": "1234"}`,
			wantErr: false,
		},
		{
			name:    "unknown field rejected",
			body:    `{"username": "brave-coder", "pin": "1234", "admin": true}`,
			wantErr: true,
		},
		{
			name:    "malformed JSON",
			body:    `{"username": `,
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodPost, "/api/login", strings.NewReader(tt.body))
			var dst loginRequest
			err := decodeJSON(req, &dst)
			if (err != nil) != tt.wantErr {
				t.Errorf("decodeJSON error = %v, wantErr %v", err, tt.wantErr)
			}
		})
	}
}
