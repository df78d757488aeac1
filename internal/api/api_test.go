package api

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/starford/daycal/internal/caldate"
	"github.com/starford/daycal/internal/calservice"
	"github.com/starford/daycal/internal/dayinfo"
	"github.com/starford/daycal/internal/testutil"
)

// testEnv starts a service over an in-memory repository and mounts the router.
// An empty authToken means disabled mode.
func testEnv(t *testing.T, authToken string, infos ...dayinfo.Info) (*dayinfo.MemoryRepository, http.Handler) {
	t.Helper()
	repo := dayinfo.NewMemoryRepository(infos...)
	svc := testutil.TestService(t, repo, nil)
	return repo, NewRouter(svc, authToken != "", authToken, nil)
}

func do(t *testing.T, router http.Handler, method, target string, body any) *httptest.ResponseRecorder {
	t.Helper()
	var buf bytes.Buffer
	if body != nil {
		if err := json.NewEncoder(&buf).Encode(body); err != nil {
			t.Fatal(err)
		}
	}
	req := httptest.NewRequest(method, target, &buf)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	return w
}

func decodeBody[T any](t *testing.T, w *httptest.ResponseRecorder) T {
	t.Helper()
	var v T
	if err := json.Unmarshal(w.Body.Bytes(), &v); err != nil {
		t.Fatalf("decode %q: %v", w.Body.String(), err)
	}
	return v
}

func TestGetState(t *testing.T) {
	_, router := testEnv(t, "")

	w := do(t, router, http.MethodGet, "/state", nil)
	if w.Code != http.StatusOK {
		t.Fatalf("status = %d", w.Code)
	}
	c := decodeBody[calservice.Cursor](t, w)
	if c.Date != testutil.Today || c.Month.String() != "2022-10" {
		t.Errorf("cursor = %+v", c)
	}
}

func TestNavigate(t *testing.T) {
	_, router := testEnv(t, "")

	w := do(t, router, http.MethodPost, "/state/navigate", NavigateRequest{Op: "next-month"})
	if w.Code != http.StatusOK {
		t.Fatalf("status = %d, body = %s", w.Code, w.Body.String())
	}
	if c := decodeBody[calservice.Cursor](t, w); c.Date != caldate.MustParse("2022-11-25") {
		t.Errorf("cursor = %s", c.Date)
	}

	w = do(t, router, http.MethodGet, "/month", nil)
	if m := decodeBody[calservice.MonthSnapshot](t, w); m.Title != "November 2022" || len(m.Cells) != 42 {
		t.Errorf("month = %q with %d cells", m.Title, len(m.Cells))
	}

	w = do(t, router, http.MethodPost, "/state/navigate", NavigateRequest{Op: "date", Date: "2020-02-29"})
	if c := decodeBody[calservice.Cursor](t, w); c.Date != caldate.MustParse("2020-02-29") {
		t.Errorf("cursor = %s", c.Date)
	}
	w = do(t, router, http.MethodGet, "/year", nil)
	if y := decodeBody[calservice.YearSnapshot](t, w); y.Year != 2020 || len(y.Cells) != 366 || y.Cells[365].Hidden {
		t.Errorf("year = %d, %d cells", y.Year, len(y.Cells))
	}
}

func TestNavigate_Invalid(t *testing.T) {
	_, router := testEnv(t, "")

	for name, body := range map[string]any{
		"unknown op":   NavigateRequest{Op: "sideways"},
		"missing date": NavigateRequest{Op: "date"},
		"bad date":     NavigateRequest{Op: "date", Date: "2022-02-30"},
		"not json":     "{",
	} {
		w := do(t, router, http.MethodPost, "/state/navigate", body)
		if w.Code != http.StatusBadRequest {
			t.Errorf("%s: status = %d, want 400", name, w.Code)
		}
	}
}

func TestPutAndGetDay(t *testing.T) {
	repo, router := testEnv(t, "")

	w := do(t, router, http.MethodPut, "/days/2022-10-25", DayRequest{Header: "Birthday", Content: []string{"cake"}})
	if w.Code != http.StatusOK {
		t.Fatalf("put status = %d, body = %s", w.Code, w.Body.String())
	}
	if _, found, _ := repo.FindBy(context.Background(), testutil.Today); !found {
		t.Error("day not persisted")
	}

	w = do(t, router, http.MethodGet, "/days/2022-10-25", nil)
	day := decodeBody[calservice.Day](t, w)
	if !day.Found || day.Header != "Birthday" || day.Text != "25 October - Birthday\n - cake" {
		t.Errorf("day = %+v", day)
	}

	w = do(t, router, http.MethodGet, "/month", nil)
	m := decodeBody[calservice.MonthSnapshot](t, w)
	if cell := m.Cells[4*7+1]; !cell.HasInfo || cell.Tooltip != day.Text {
		t.Errorf("month cell = %+v", cell)
	}

	// Empty body clears the day.
	w = do(t, router, http.MethodPut, "/days/2022-10-25", DayRequest{})
	if day := decodeBody[calservice.Day](t, w); day.Found {
		t.Errorf("cleared day = %+v", day)
	}
}

func TestDay_InvalidInput(t *testing.T) {
	_, router := testEnv(t, "")

	if w := do(t, router, http.MethodGet, "/days/2022-13-01", nil); w.Code != http.StatusBadRequest {
		t.Errorf("bad date = %d, want 400", w.Code)
	}
	long := DayRequest{Header: strings.Repeat("x", maxHeaderLen+1)}
	if w := do(t, router, http.MethodPut, "/days/2022-10-25", long); w.Code != http.StatusBadRequest {
		t.Errorf("long header = %d, want 400", w.Code)
	}
}

func TestRefresh(t *testing.T) {
	repo, router := testEnv(t, "")
	repo.Put(dayinfo.NewInfo(caldate.MustParse("2022-10-03"), "Dentist"))

	w := do(t, router, http.MethodPost, "/days/refresh", RefreshRequest{Scope: "month", Key: "2022-10"})
	if w.Code != http.StatusNoContent {
		t.Fatalf("refresh = %d, body = %s", w.Code, w.Body.String())
	}
	m := decodeBody[calservice.MonthSnapshot](t, do(t, router, http.MethodGet, "/month", nil))
	if !m.Cells[7].HasInfo {
		t.Errorf("refreshed cell = %+v", m.Cells[7])
	}

	if w := do(t, router, http.MethodPost, "/days/refresh", RefreshRequest{Scope: "week", Key: "1"}); w.Code != http.StatusBadRequest {
		t.Errorf("bad scope = %d, want 400", w.Code)
	}
	if w := do(t, router, http.MethodPost, "/days/refresh", RefreshRequest{Scope: "month", Key: "oct"}); w.Code != http.StatusBadRequest {
		t.Errorf("bad key = %d, want 400", w.Code)
	}
}

func TestPress(t *testing.T) {
	_, router := testEnv(t, "")

	w := do(t, router, http.MethodPost, "/month/press", PressRequest{Index: 29})
	if w.Code != http.StatusOK || !decodeBody[PressResponse](t, w).Accepted {
		t.Errorf("press = %d %s", w.Code, w.Body.String())
	}
	w = do(t, router, http.MethodPost, "/year/press", PressRequest{Index: 365})
	if decodeBody[PressResponse](t, w).Accepted {
		t.Error("press on hidden year cell accepted")
	}
	if w := do(t, router, http.MethodPost, "/month/press", PressRequest{Index: -1}); w.Code != http.StatusBadRequest {
		t.Errorf("negative index = %d, want 400", w.Code)
	}
}

func TestHoverYear(t *testing.T) {
	_, router := testEnv(t, "")

	if w := do(t, router, http.MethodPost, "/year/hover", HoverRequest{Index: 40, On: true}); w.Code != http.StatusNoContent {
		t.Fatalf("hover = %d", w.Code)
	}
	y := decodeBody[calservice.YearSnapshot](t, do(t, router, http.MethodGet, "/year", nil))
	// Index 40 is February 10th; all of February is focused.
	if !y.Cells[31].Has("month-focused") || y.Cells[30].Has("month-focused") {
		t.Errorf("focus: feb1=%v jan31=%v", y.Cells[31].Flags, y.Cells[30].Flags)
	}
}

func TestSearch_UnsupportedOnMemory(t *testing.T) {
	_, router := testEnv(t, "")

	if w := do(t, router, http.MethodGet, "/days/search?q=cake", nil); w.Code != http.StatusNotImplemented {
		t.Errorf("search = %d, want 501", w.Code)
	}
	if w := do(t, router, http.MethodGet, "/days/search", nil); w.Code != http.StatusBadRequest {
		t.Errorf("search no query = %d, want 400", w.Code)
	}
}

func TestSearch_SQLite(t *testing.T) {
	db := testutil.TestDB(t)
	_ = db.Upsert(context.Background(), dayinfo.NewInfo(testutil.Today, "Birthday", "chocolate cake"))
	router := NewRouter(testutil.TestService(t, db, nil), false, "", nil)

	w := do(t, router, http.MethodGet, "/days/search?q=chocolate", nil)
	if w.Code != http.StatusOK {
		t.Fatalf("search = %d, body = %s", w.Code, w.Body.String())
	}
	res := decodeBody[SearchResponse](t, w)
	if len(res.Results) != 1 || res.Results[0].Date != testutil.Today {
		t.Errorf("results = %+v", res.Results)
	}
}

func TestAuthMiddleware_ValidToken(t *testing.T) {
	_, router := testEnv(t, "secret123")

	req := httptest.NewRequest(http.MethodGet, "/state", nil)
	req.Header.Set("Authorization", "Bearer secret123")
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	if w.Code != http.StatusOK {
		t.Errorf("authed = %d, want 200", w.Code)
	}
}

func TestAuthMiddleware_MissingToken(t *testing.T) {
	_, router := testEnv(t, "secret123")

	if w := do(t, router, http.MethodGet, "/state", nil); w.Code != http.StatusUnauthorized {
		t.Errorf("unauthed = %d, want 401", w.Code)
	}
}

func TestAuthMiddleware_WrongToken(t *testing.T) {
	_, router := testEnv(t, "secret123")

	req := httptest.NewRequest(http.MethodGet, "/state", nil)
	req.Header.Set("Authorization", "Bearer wrong")
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	if w.Code != http.StatusUnauthorized {
		t.Errorf("wrong token = %d, want 401", w.Code)
	}
}

// SSE endpoint auth tests.

func testEnvWithSSE(t *testing.T, authEnabled bool, token string) http.Handler {
	t.Helper()
	svc := testutil.TestService(t, dayinfo.NewMemoryRepository(), nil)
	sseHandler := http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("Content-Type", "text/event-stream")
		w.WriteHeader(http.StatusOK)
	})
	return NewRouter(svc, authEnabled, token, sseHandler)
}

func TestSSEEvents_AuthProtected(t *testing.T) {
	router := testEnvWithSSE(t, true, "tok")

	ctx, cancel := context.WithTimeout(context.Background(), time.Second)
	defer cancel()
	req := httptest.NewRequest(http.MethodGet, "/events", nil).WithContext(ctx)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	if w.Code != http.StatusUnauthorized {
		t.Errorf("SSE no auth = %d, want 401", w.Code)
	}
}

func TestSSEEvents_ValidToken(t *testing.T) {
	router := testEnvWithSSE(t, true, "tok")

	req := httptest.NewRequest(http.MethodGet, "/events", nil)
	req.Header.Set("Authorization", "Bearer tok")
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	if w.Code != http.StatusOK {
		t.Errorf("SSE valid token = %d, want 200", w.Code)
	}
}

func TestSSEEvents_QueryToken(t *testing.T) {
	router := testEnvWithSSE(t, true, "tok")

	req := httptest.NewRequest(http.MethodGet, "/events?access_token=tok", nil)
	req.Header.Set("Accept", "text/event-stream")
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	if w.Code != http.StatusOK {
		t.Errorf("SSE query token = %d, want 200", w.Code)
	}

	// Only event-stream requests may use the query parameter.
	if w := do(t, router, http.MethodGet, "/state?access_token=tok", nil); w.Code != http.StatusUnauthorized {
		t.Errorf("query token on /state = %d, want 401", w.Code)
	}
}
