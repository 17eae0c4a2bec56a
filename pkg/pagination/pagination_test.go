package pagination

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/labstack/echo/v4"
)

func paramsFor(t *testing.T, query string) Params {
	t.Helper()
	e := echo.New()
	req := httptest.NewRequest(http.MethodGet, "/?"+query, nil)
	c := e.NewContext(req, httptest.NewRecorder())
	return FromContext(c)
}

func TestFromContext(t *testing.T) {
	tests := []struct {
		name       string
		query      string
		wantLimit  int
		wantOffset int
	}{
		{"defaults", "", DefaultLimit, 0},
		{"explicit", "limit=5&offset=10", 5, 10},
		{"capped at max", "limit=5000", MaxLimit, 0},
		{"negative ignored", "limit=-1&offset=-5", DefaultLimit, 0},
		{"garbage ignored", "limit=abc&offset=xyz", DefaultLimit, 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p := paramsFor(t, tt.query)
			if p.Limit != tt.wantLimit || p.Offset != tt.wantOffset {
				t.Errorf("got %+v, want limit=%d offset=%d", p, tt.wantLimit, tt.wantOffset)
			}
		})
	}
}

func TestNewResponse_HasMore(t *testing.T) {
	if r := NewResponse(nil, 50, 20, 0); !r.HasMore {
		t.Error("expected has_more for first page of 50")
	}
	if r := NewResponse(nil, 50, 20, 40); r.HasMore {
		t.Error("expected no more after last page")
	}
}

func TestParams_NextOffset(t *testing.T) {
	p := Params{Limit: 20, Offset: 20}
	if !p.HasNext(50) {
		t.Error("expected next page at offset 20 of 50")
	}
	if got := p.NextOffset(); got != 40 {
		t.Errorf("NextOffset = %d, want 40", got)
	}
}
