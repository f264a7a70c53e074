package httpserver

import (
	"encoding/hex"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/LabsCrypt/flowfi/internal/authz"
	cfgpkg "github.com/LabsCrypt/flowfi/internal/config"
	"github.com/LabsCrypt/flowfi/internal/runtime"
	pebblestore "github.com/LabsCrypt/flowfi/internal/storage/pebble"
	logpkg "github.com/LabsCrypt/flowfi/pkg/log"
)

func newTestServer(t *testing.T, cfg cfgpkg.Config) (*Server, *uint64) {
	t.Helper()
	now := uint64(100)
	rt, err := runtime.Open(runtime.Options{
		DataDir: t.TempDir(),
		Fsync:   pebblestore.FsyncModeNever,
		Config:  cfg,
		Clock:   func() uint64 { return now },
	})
	if err != nil {
		t.Fatalf("rt open: %v", err)
	}
	t.Cleanup(func() { rt.Close() })
	logger, _ := logpkg.ApplyConfig(&logpkg.Config{Level: "error", Format: "text"})
	s, err := New(rt, logger)
	if err != nil {
		t.Fatalf("new server: %v", err)
	}
	return s, &now
}

func do(t *testing.T, s *Server, method, path, body string, hdr map[string]string) *httptest.ResponseRecorder {
	t.Helper()
	var req *http.Request
	if body == "" {
		req = httptest.NewRequest(method, path, nil)
	} else {
		req = httptest.NewRequest(method, path, strings.NewReader(body))
		req.Header.Set("Content-Type", "application/json")
	}
	for k, v := range hdr {
		req.Header.Set(k, v)
	}
	w := httptest.NewRecorder()
	s.srv.Handler.ServeHTTP(w, req)
	return w
}

func TestHealthHandler(t *testing.T) {
	s, _ := newTestServer(t, cfgpkg.Default())
	if w := do(t, s, http.MethodGet, "/v1/healthz", "", nil); w.Code != http.StatusOK {
		t.Fatalf("status: %d", w.Code)
	}
}

func TestStreamLifecycleOverHTTP(t *testing.T) {
	s, now := newTestServer(t, cfgpkg.Default())

	if w := do(t, s, http.MethodPost, "/v1/accounts/mint", `{"token":"USDX","account":"alice","amount":1500}`, nil); w.Code != http.StatusNoContent {
		t.Fatalf("mint: %d %s", w.Code, w.Body)
	}

	w := do(t, s, http.MethodPost, "/v1/streams/create", `{"sender":"alice","recipient":"bob","token":"USDX","amount":1000,"duration":100}`, nil)
	if w.Code != http.StatusCreated {
		t.Fatalf("create: %d %s", w.Code, w.Body)
	}
	var created struct {
		ID uint64 `json:"id"`
	}
	if err := json.Unmarshal(w.Body.Bytes(), &created); err != nil || created.ID != 1 {
		t.Fatalf("create body: %s (%v)", w.Body, err)
	}

	if w := do(t, s, http.MethodPost, "/v1/streams/topup", `{"sender":"alice","id":1,"amount":500}`, nil); w.Code != http.StatusNoContent {
		t.Fatalf("topup: %d %s", w.Code, w.Body)
	}

	*now += 50
	if w := do(t, s, http.MethodPost, "/v1/streams/withdraw", `{"recipient":"bob","id":1}`, nil); w.Code != http.StatusNoContent {
		t.Fatalf("withdraw: %d %s", w.Code, w.Body)
	}

	w = do(t, s, http.MethodGet, "/v1/streams/get?id=1", "", nil)
	if w.Code != http.StatusOK {
		t.Fatalf("get: %d %s", w.Code, w.Body)
	}
	var got struct {
		ID              uint64 `json:"id"`
		DepositedAmount int64  `json:"depositedAmount"`
		WithdrawnAmount int64  `json:"withdrawnAmount"`
		IsActive        bool   `json:"isActive"`
		Claimable       int64  `json:"claimable"`
	}
	if err := json.Unmarshal(w.Body.Bytes(), &got); err != nil {
		t.Fatalf("get body: %v", err)
	}
	if got.DepositedAmount != 1500 || got.WithdrawnAmount != 500 || !got.IsActive || got.Claimable != 0 {
		t.Fatalf("get: %+v", got)
	}

	if w := do(t, s, http.MethodPost, "/v1/streams/cancel", `{"sender":"alice","id":1}`, nil); w.Code != http.StatusNoContent {
		t.Fatalf("cancel: %d %s", w.Code, w.Body)
	}

	w = do(t, s, http.MethodGet, "/v1/accounts/balance?token=USDX&account=bob", "", nil)
	if w.Code != http.StatusOK {
		t.Fatalf("balance: %d", w.Code)
	}
	var bal struct {
		Balance int64 `json:"balance"`
	}
	if err := json.Unmarshal(w.Body.Bytes(), &bal); err != nil || bal.Balance != 500 {
		t.Fatalf("balance body: %s (%v)", w.Body, err)
	}
}

func TestErrorStatusMapping(t *testing.T) {
	s, _ := newTestServer(t, cfgpkg.Default())

	cases := []struct {
		name string
		path string
		body string
		want int
	}{
		{"invalid amount", "/v1/streams/create", `{"sender":"alice","recipient":"bob","token":"USDX","amount":0,"duration":10}`, http.StatusBadRequest},
		{"insufficient funds", "/v1/streams/create", `{"sender":"alice","recipient":"bob","token":"USDX","amount":10,"duration":10}`, http.StatusPaymentRequired},
		{"missing stream", "/v1/streams/topup", `{"sender":"alice","id":99,"amount":10}`, http.StatusNotFound},
		{"bad json", "/v1/streams/topup", `{"sender":`, http.StatusBadRequest},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if w := do(t, s, http.MethodPost, tc.path, tc.body, nil); w.Code != tc.want {
				t.Fatalf("status = %d, want %d (%s)", w.Code, tc.want, w.Body)
			}
		})
	}

	if w := do(t, s, http.MethodGet, "/v1/streams/get?id=99", "", nil); w.Code != http.StatusNotFound {
		t.Fatalf("get missing: %d", w.Code)
	}
	if w := do(t, s, http.MethodGet, "/v1/streams/get?id=abc", "", nil); w.Code != http.StatusBadRequest {
		t.Fatalf("get bad id: %d", w.Code)
	}
	if w := do(t, s, http.MethodGet, "/v1/streams/create", "", nil); w.Code != http.StatusMethodNotAllowed {
		t.Fatalf("wrong method: %d", w.Code)
	}
}

func TestHMACAuthOverHTTP(t *testing.T) {
	secret := []byte("super-secret")
	cfg := cfgpkg.Default()
	cfg.Auth = cfgpkg.Auth{Mode: "hmac", Keys: map[string]string{"alice": hex.EncodeToString(secret)}}
	s, _ := newTestServer(t, cfg)

	if w := do(t, s, http.MethodPost, "/v1/accounts/mint", `{"token":"USDX","account":"alice","amount":1000}`, nil); w.Code != http.StatusNoContent {
		t.Fatalf("mint: %d", w.Code)
	}

	body := `{"sender":"alice","recipient":"bob","token":"USDX","amount":1000,"duration":100}`

	// No credentials.
	if w := do(t, s, http.MethodPost, "/v1/streams/create", body, nil); w.Code != http.StatusForbidden {
		t.Fatalf("unsigned create: %d, want 403", w.Code)
	}

	// Valid signature over the exact body.
	sig := authz.Sign(secret, []byte(body))
	hdr := map[string]string{
		"X-Flowfi-Principal": "alice",
		"X-Flowfi-Signature": hex.EncodeToString(sig),
	}
	if w := do(t, s, http.MethodPost, "/v1/streams/create", body, hdr); w.Code != http.StatusCreated {
		t.Fatalf("signed create: %d %s", w.Code, w.Body)
	}

	// Tampered body under the old signature.
	tampered := strings.Replace(body, "1000", "9000", 1)
	if w := do(t, s, http.MethodPost, "/v1/streams/create", tampered, hdr); w.Code != http.StatusForbidden {
		t.Fatalf("tampered create: %d, want 403", w.Code)
	}
}

func TestEventsSSE(t *testing.T) {
	s, _ := newTestServer(t, cfgpkg.Default())

	do(t, s, http.MethodPost, "/v1/accounts/mint", `{"token":"USDX","account":"alice","amount":1000}`, nil)
	if w := do(t, s, http.MethodPost, "/v1/streams/create", `{"sender":"alice","recipient":"bob","token":"USDX","amount":1000,"duration":100}`, nil); w.Code != http.StatusCreated {
		t.Fatalf("create: %d", w.Code)
	}

	w := do(t, s, http.MethodGet, "/v1/streams/events?from=earliest&limit=1", "", nil)
	if ct := w.Header().Get("Content-Type"); ct != "text/event-stream" {
		t.Fatalf("content type: %q", ct)
	}
	out := w.Body.String()
	if !strings.Contains(out, "event: stream_created") || !strings.Contains(out, `"sender":"alice"`) {
		t.Fatalf("sse body: %q", out)
	}

	// Bad filter reports before streaming.
	if w := do(t, s, http.MethodGet, "/v1/streams/events?from=earliest&filter=((bogus&limit=1", "", nil); w.Code != http.StatusBadRequest {
		t.Fatalf("bad filter: %d", w.Code)
	}
}

func TestAckEndpoint(t *testing.T) {
	s, _ := newTestServer(t, cfgpkg.Default())
	if w := do(t, s, http.MethodPost, "/v1/streams/ack", `{"group":"indexer","seq":3}`, nil); w.Code != http.StatusNoContent {
		t.Fatalf("ack: %d %s", w.Code, w.Body)
	}
	if w := do(t, s, http.MethodPost, "/v1/streams/ack", `{"seq":3}`, nil); w.Code != http.StatusBadRequest {
		t.Fatalf("ack without group: %d", w.Code)
	}
}
