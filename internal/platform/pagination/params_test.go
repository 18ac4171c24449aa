package pagination

import (
	"net/http/httptest"
	"testing"
)

func TestParseParamsDefaults(t *testing.T) {
	req := httptest.NewRequest("GET", "/api/v1/orders", nil)
	params, err := ParseParams(req)
	if err != nil {
		t.Fatalf("ParseParams: %v", err)
	}
	if params.Skip != 0 {
		t.Errorf("skip = %d, want 0", params.Skip)
	}
	if params.Limit != DefaultLimit {
		t.Errorf("limit = %d, want %d", params.Limit, DefaultLimit)
	}
}

func TestParseParamsExplicit(t *testing.T) {
	req := httptest.NewRequest("GET", "/api/v1/orders?skip=20&limit=5", nil)
	params, err := ParseParams(req)
	if err != nil {
		t.Fatalf("ParseParams: %v", err)
	}
	if params.Skip != 20 || params.Limit != 5 {
		t.Errorf("got skip=%d limit=%d", params.Skip, params.Limit)
	}
}

func TestParseParamsCapsLimit(t *testing.T) {
	req := httptest.NewRequest("GET", "/api/v1/orders?limit=5000", nil)
	params, err := ParseParams(req)
	if err != nil {
		t.Fatalf("ParseParams: %v", err)
	}
	if params.Limit != MaxLimit {
		t.Errorf("limit = %d, want %d", params.Limit, MaxLimit)
	}
}

func TestParseParamsRejectsBadInput(t *testing.T) {
	cases := []string{
		"/api/v1/orders?skip=-1",
		"/api/v1/orders?skip=abc",
		"/api/v1/orders?limit=0",
		"/api/v1/orders?limit=-5",
		"/api/v1/orders?limit=ten",
	}
	for _, target := range cases {
		req := httptest.NewRequest("GET", target, nil)
		if _, err := ParseParams(req); err == nil {
			t.Errorf("expected error for %s", target)
		}
	}
}
