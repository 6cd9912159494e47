package http

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"

	"chat-relay/internal/app"
	"chat-relay/internal/config"
)

func newTestServer(t *testing.T) (*gin.Engine, *app.PresenceCoordinator) {
	t.Helper()
	gin.SetMode(gin.TestMode)
	cfg := &config.Config{
		Mode:         "test",
		StaticPath:   t.TempDir(),
		ReadLimit:    32768,
		PingPeriod:   54 * time.Second,
		Secret:       "test-secret",
		RateInterval: time.Minute,
	}
	coord := app.NewPresenceCoordinator(app.NewState(0))
	return SetupRouter(context.Background(), cfg, coord), coord
}

func doJSON(t *testing.T, r *gin.Engine, method, path, body string) (*httptest.ResponseRecorder, map[string]any) {
	t.Helper()
	req := httptest.NewRequest(method, path, strings.NewReader(body))
	if body != "" {
		req.Header.Set("Content-Type", "application/json")
	}
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	var parsed map[string]any
	if err := json.Unmarshal(w.Body.Bytes(), &parsed); err != nil {
		t.Fatalf("%s %s returned non-JSON body %q: %v", method, path, w.Body.String(), err)
	}
	return w, parsed
}

func TestListMessages_EmptyLog(t *testing.T) {
	r, _ := newTestServer(t)

	w, body := doJSON(t, r, http.MethodGet, "/api/messages", "")
	if w.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", w.Code)
	}
	if body["success"] != true {
		t.Error("success = false, want true")
	}
	if body["count"] != float64(0) {
		t.Errorf("count = %v, want 0", body["count"])
	}
	if _, ok := body["messages"].([]any); !ok {
		t.Errorf("messages = %T, want JSON array", body["messages"])
	}
}

func TestPostMessage(t *testing.T) {
	tests := []struct {
		name       string
		body       string
		wantStatus int
		wantError  string
	}{
		{
			name:       "valid message",
			body:       `{"username":"alice","message":"hello","room":"general"}`,
			wantStatus: http.StatusCreated,
		},
		{
			name:       "room defaults to general",
			body:       `{"username":"alice","message":"hello"}`,
			wantStatus: http.StatusCreated,
		},
		{
			name:       "missing username",
			body:       `{"message":"hello"}`,
			wantStatus: http.StatusBadRequest,
			wantError:  "Username and message are required",
		},
		{
			name:       "empty username",
			body:       `{"username":"","message":"hello"}`,
			wantStatus: http.StatusBadRequest,
			wantError:  "Username and message are required",
		},
		{
			name:       "missing message",
			body:       `{"username":"alice"}`,
			wantStatus: http.StatusBadRequest,
			wantError:  "Username and message are required",
		},
		{
			name:       "exactly 500 characters",
			body:       `{"username":"alice","message":"` + strings.Repeat("x", 500) + `"}`,
			wantStatus: http.StatusCreated,
		},
		{
			name:       "501 characters",
			body:       `{"username":"alice","message":"` + strings.Repeat("x", 501) + `"}`,
			wantStatus: http.StatusBadRequest,
			wantError:  "Message too long (max 500 characters)",
		},
		{
			name:       "500 multibyte characters",
			body:       `{"username":"alice","message":"` + strings.Repeat("ф", 500) + `"}`,
			wantStatus: http.StatusCreated,
		},
		{
			name:       "not json",
			body:       `username=alice`,
			wantStatus: http.StatusBadRequest,
			wantError:  "Username and message are required",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r, _ := newTestServer(t)
			w, body := doJSON(t, r, http.MethodPost, "/api/messages", tt.body)

			if w.Code != tt.wantStatus {
				t.Fatalf("status = %d, want %d (body %v)", w.Code, tt.wantStatus, body)
			}
			if tt.wantStatus == http.StatusCreated {
				if body["success"] != true {
					t.Error("success = false, want true")
				}
				msg, ok := body["message"].(map[string]any)
				if !ok {
					t.Fatalf("message = %T, want object", body["message"])
				}
				if msg["username"] != "alice" {
					t.Errorf("message.username = %v, want alice", msg["username"])
				}
				if msg["room"] != "general" {
					t.Errorf("message.room = %v, want general", msg["room"])
				}
			} else {
				if body["success"] != false {
					t.Error("success = true, want false")
				}
				if body["error"] != tt.wantError {
					t.Errorf("error = %v, want %q", body["error"], tt.wantError)
				}
			}
		})
	}
}

func TestPostMessage_AppearsInRoomFilter(t *testing.T) {
	r, _ := newTestServer(t)

	doJSON(t, r, http.MethodPost, "/api/messages", `{"username":"alice","message":"in general"}`)
	doJSON(t, r, http.MethodPost, "/api/messages", `{"username":"bob","message":"in random","room":"random"}`)

	w, body := doJSON(t, r, http.MethodGet, "/api/messages/random", "")
	if w.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", w.Code)
	}
	if body["room"] != "random" {
		t.Errorf("room = %v, want random", body["room"])
	}
	if body["count"] != float64(1) {
		t.Errorf("count = %v, want 1", body["count"])
	}

	_, all := doJSON(t, r, http.MethodGet, "/api/messages", "")
	if all["count"] != float64(2) {
		t.Errorf("total count = %v, want 2", all["count"])
	}
}

func TestListUsersAndRooms_TrackPresence(t *testing.T) {
	r, coord := newTestServer(t)

	if err := coord.Dispatch("c1", app.JoinUser{Username: "alice", Room: "general"}); err != nil {
		t.Fatal(err)
	}
	if err := coord.Dispatch("c2", app.JoinUser{Username: "bob", Room: "random"}); err != nil {
		t.Fatal(err)
	}

	_, users := doJSON(t, r, http.MethodGet, "/api/users", "")
	if users["count"] != float64(2) {
		t.Errorf("users count = %v, want 2", users["count"])
	}

	_, rooms := doJSON(t, r, http.MethodGet, "/api/rooms", "")
	if rooms["count"] != float64(2) {
		t.Errorf("rooms count = %v, want 2", rooms["count"])
	}

	// Rooms are ephemeral: emptied rooms disappear from the listing.
	if err := coord.Dispatch("c2", app.Disconnect{}); err != nil {
		t.Fatal(err)
	}
	_, rooms = doJSON(t, r, http.MethodGet, "/api/rooms", "")
	got, _ := rooms["rooms"].([]any)
	if len(got) != 1 || got[0] != "general" {
		t.Errorf("rooms = %v after disconnect, want [general]", rooms["rooms"])
	}
}

func TestUnmatchedRoute(t *testing.T) {
	r, _ := newTestServer(t)

	w, body := doJSON(t, r, http.MethodGet, "/api/nope", "")
	if w.Code != http.StatusNotFound {
		t.Fatalf("status = %d, want 404", w.Code)
	}
	if body["success"] != false || body["error"] != "Route not found" {
		t.Errorf("body = %v, want 404 envelope", body)
	}
}
