package session

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/wablastdev/wablast/internal/client"
)

func newTestRouter(m *Manager) *gin.Engine {
	gin.SetMode(gin.TestMode)
	h := NewHandlers(m, zap.NewNop())
	r := gin.New()
	r.POST("/wa/add", h.AddSessionHandler)
	r.GET("/wa/sessions", h.ListSessionsHandler)
	r.GET("/wa/status", h.StatusHandler)
	r.POST("/wa/logout", h.LogoutHandler)
	return r
}

func doJSON(r *gin.Engine, method, path, body string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(method, path, strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func TestAddSessionReturnsQR(t *testing.T) {
	ch := newFakeChannel()
	ch.emit(client.PairingChallenge{Code: "pair-me"})
	m := newTestManager(&fakeDialer{results: []dialResult{{ch: ch}}}, &fakeStore{})
	r := newTestRouter(m)

	w := doJSON(r, http.MethodPost, "/wa/add", `{"user":"alice"}`)
	if w.Code != http.StatusOK {
		t.Fatalf("status = %d, body %s", w.Code, w.Body.String())
	}
	var resp map[string]interface{}
	if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if resp["user"] != "alice" || resp["state"] != "awaiting_pairing" {
		t.Errorf("resp = %v", resp)
	}
	if resp["qrcode"] != "img:pair-me" {
		t.Errorf("qrcode = %v", resp["qrcode"])
	}
}

func TestAddSessionConflict(t *testing.T) {
	ch := newFakeChannel()
	ch.emit(client.PairingChallenge{Code: "x"})
	m := newTestManager(&fakeDialer{results: []dialResult{{ch: ch}}}, &fakeStore{})
	r := newTestRouter(m)

	if w := doJSON(r, http.MethodPost, "/wa/add", `{"user":"alice"}`); w.Code != http.StatusOK {
		t.Fatalf("first add = %d", w.Code)
	}
	if w := doJSON(r, http.MethodPost, "/wa/add", `{"user":"alice"}`); w.Code != http.StatusConflict {
		t.Fatalf("duplicate add = %d, want 409", w.Code)
	}
}

func TestAddSessionBadRequest(t *testing.T) {
	m := newTestManager(&fakeDialer{}, &fakeStore{})
	r := newTestRouter(m)

	if w := doJSON(r, http.MethodPost, "/wa/add", `{}`); w.Code != http.StatusBadRequest {
		t.Fatalf("missing user = %d, want 400", w.Code)
	}
}

func TestStatusUnknownSession(t *testing.T) {
	m := newTestManager(&fakeDialer{}, &fakeStore{})
	r := newTestRouter(m)

	w := doJSON(r, http.MethodGet, "/wa/status?user=ghost", "")
	if w.Code != http.StatusNotFound {
		t.Fatalf("status = %d, want 404", w.Code)
	}
}

func TestStatusReflectsState(t *testing.T) {
	ch := newFakeChannel()
	ch.emit(client.Opened{})
	m := newTestManager(&fakeDialer{results: []dialResult{{ch: ch}}}, &fakeStore{})
	if _, err := m.Create(context.Background(), "alice"); err != nil {
		t.Fatalf("Create: %v", err)
	}
	r := newTestRouter(m)

	w := doJSON(r, http.MethodGet, "/wa/status?user=alice", "")
	if w.Code != http.StatusOK {
		t.Fatalf("status = %d", w.Code)
	}
	var resp map[string]interface{}
	if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if resp["state"] != "open" || resp["open"] != true {
		t.Errorf("resp = %v", resp)
	}
}

func TestLogoutRemoves(t *testing.T) {
	ch := newFakeChannel()
	ch.emit(client.Opened{})
	m := newTestManager(&fakeDialer{results: []dialResult{{ch: ch}}}, &fakeStore{})
	if _, err := m.Create(context.Background(), "alice"); err != nil {
		t.Fatalf("Create: %v", err)
	}
	r := newTestRouter(m)

	if w := doJSON(r, http.MethodPost, "/wa/logout", `{"user":"alice"}`); w.Code != http.StatusOK {
		t.Fatalf("logout = %d", w.Code)
	}
	if w := doJSON(r, http.MethodPost, "/wa/logout", `{"user":"alice"}`); w.Code != http.StatusNotFound {
		t.Fatalf("second logout = %d, want 404", w.Code)
	}
}
