package mid

import (
	"net/http"
	"net/http/httptest"
	"testing"
)

func rateReq(ip string) *http.Request {
	r := httptest.NewRequest(http.MethodGet, "/", nil)
	r.RemoteAddr = ip + ":51234"
	return r
}

func TestRateLimitBurst(t *testing.T) {
	h := Chain(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	}), RateLimit(1, 2))

	codes := make([]int, 0, 3)
	for i := 0; i < 3; i++ {
		rec := httptest.NewRecorder()
		h.ServeHTTP(rec, rateReq("10.0.0.1"))
		codes = append(codes, rec.Code)
	}

	if codes[0] != http.StatusOK || codes[1] != http.StatusOK {
		t.Fatalf("burst requests should pass, got %v", codes)
	}
	if codes[2] != http.StatusTooManyRequests {
		t.Fatalf("expected 429 after burst, got %v", codes)
	}
}

func TestRateLimitPerClient(t *testing.T) {
	h := Chain(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	}), RateLimit(1, 1))

	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, rateReq("10.0.0.1"))
	if rec.Code != http.StatusOK {
		t.Fatalf("first client first request: got %d", rec.Code)
	}

	rec = httptest.NewRecorder()
	h.ServeHTTP(rec, rateReq("10.0.0.1"))
	if rec.Code != http.StatusTooManyRequests {
		t.Fatalf("first client second request: got %d", rec.Code)
	}

	// A different client gets its own bucket.
	rec = httptest.NewRecorder()
	h.ServeHTTP(rec, rateReq("10.0.0.2"))
	if rec.Code != http.StatusOK {
		t.Fatalf("second client should not be throttled, got %d", rec.Code)
	}
}
