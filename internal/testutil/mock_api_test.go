package testutil

import (
	"io"
	"net/http"
	"net/url"
	"strings"
	"testing"
)

func TestMockAPI_ListResponse(t *testing.T) {
	mock := NewMockAPI()
	defer mock.Close()

	mock.SetResponse("/admin/users", NewListResponse([]map[string]string{{"user_id": "1"}}, 1, 1))

	resp, err := http.Get(mock.URL() + "/admin/users?page=1&limit=10")
	if err != nil {
		t.Fatalf("GET: %v", err)
	}
	defer resp.Body.Close()
	body, _ := io.ReadAll(resp.Body)

	if resp.StatusCode != http.StatusOK {
		t.Errorf("status = %d, want 200", resp.StatusCode)
	}
	if !strings.Contains(string(body), `"success":true`) {
		t.Errorf("body = %s", body)
	}
	if got := mock.GetLastQuery().Get("limit"); got != "10" {
		t.Errorf("last limit = %q, want 10", got)
	}
	if mock.GetRequestCount() != 1 {
		t.Errorf("request count = %d, want 1", mock.GetRequestCount())
	}
}

func TestMockAPI_UnknownRouteIs404(t *testing.T) {
	mock := NewMockAPI()
	defer mock.Close()

	resp, err := http.Get(mock.URL() + "/nope")
	if err != nil {
		t.Fatalf("GET: %v", err)
	}
	resp.Body.Close()

	if resp.StatusCode != http.StatusNotFound {
		t.Errorf("status = %d, want 404", resp.StatusCode)
	}
}

func TestMockAPI_ResponderAndReset(t *testing.T) {
	mock := NewMockAPI()
	defer mock.Close()

	mock.SetResponder("/admin/allOrders", func(q url.Values) MockResponse {
		if q.Get("page") == "2" {
			return NewNotFoundResponse()
		}
		return NewStatusListResponse([]string{}, 0, 1)
	})

	for _, page := range []string{"1", "2"} {
		resp, err := http.Get(mock.URL() + "/admin/allOrders?page=" + page)
		if err != nil {
			t.Fatalf("GET: %v", err)
		}
		resp.Body.Close()
	}

	queries := mock.GetQueries()
	if len(queries) != 2 || queries[1].Get("page") != "2" {
		t.Errorf("queries = %v", queries)
	}

	mock.Reset()
	if mock.GetRequestCount() != 0 || len(mock.GetQueries()) != 0 {
		t.Error("Reset did not clear tracking")
	}
}
