package api

import (
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"testing/fstest"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/marmos91/dsomm/pkg/api/auth"
	"github.com/marmos91/dsomm/pkg/api/handlers"
	"github.com/marmos91/dsomm/pkg/model"
	"github.com/marmos91/dsomm/pkg/source"
	"github.com/marmos91/dsomm/pkg/state"
	"github.com/marmos91/dsomm/pkg/tracker"
)

const (
	testSecret = "0123456789abcdef0123456789abcdef"
	uuidBuild  = "11111111-0000-0000-0000-000000000001"
	uuidSCA    = "22222222-0000-0000-0000-000000000001"
)

var testFiles = fstest.MapFS{
	"meta.yaml": {Data: []byte(`
strings:
  en:
    maturity_levels: [Basic, Intermediate]
    allTeamsGroupName: All
progressDefinition:
  Not implemented:
    score: 0%
  Assessed:
    score: "20%"
  Implemented:
    score: 1
teams: [Team A, Team B]
teamGroups:
  Backend: [Team A]
activityFiles:
  - activities.yaml
teamProgressFile: team-progress.yaml
`)},
	"activities.yaml": {Data: []byte(`
Build and Deployment:
  Build:
    Building and testing of artifacts in virtual environments:
      uuid: 11111111-0000-0000-0000-000000000001
      level: 1
      tags: [ci]
      references:
        samm2: [I-SB-A-1]
Test and Verification:
  Static depth for applications:
    Software composition analysis:
      uuid: 22222222-0000-0000-0000-000000000001
      level: 1
      description: Use **SCA**
`)},
	"team-progress.yaml": {Data: []byte(`
progress:
  11111111-0000-0000-0000-000000000001:
    Team A:
      Assessed: 2024-01-10
      Implemented: 2024-02-10
`)},
}

type testServer struct {
	*httptest.Server
	svc *tracker.Service
	jwt *auth.JWTService
}

func newTestServer(t *testing.T, withAuth bool) *testServer {
	t.Helper()
	store, err := state.New(&state.Config{Type: state.DatabaseTypeSQLite, SQLite: state.SQLiteConfig{Path: ":memory:"}})
	require.NoError(t, err)
	t.Cleanup(func() { _ = store.Close() })

	svc := tracker.New(source.NewFS(testFiles), store,
		tracker.WithClock(func() time.Time { return time.Date(2024, 5, 1, 15, 0, 0, 0, time.UTC) }))

	ts := &testServer{svc: svc}
	if withAuth {
		ts.jwt, err = auth.NewJWTService(auth.JWTConfig{Secret: testSecret})
		require.NoError(t, err)
	}
	ts.Server = httptest.NewServer(NewRouter(svc, RouterOptions{JWT: ts.jwt}))
	t.Cleanup(ts.Close)
	return ts
}

func (ts *testServer) token(t *testing.T, scopes ...auth.Scope) string {
	t.Helper()
	tok, err := ts.jwt.GenerateToken("tester", scopes...)
	require.NoError(t, err)
	return tok.AccessToken
}

func (ts *testServer) do(t *testing.T, method, path, body, token string) *http.Response {
	t.Helper()
	req, err := http.NewRequest(method, ts.URL+path, strings.NewReader(body))
	require.NoError(t, err)
	if body != "" {
		req.Header.Set("Content-Type", "application/json")
	}
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	resp, err := http.DefaultClient.Do(req)
	require.NoError(t, err)
	t.Cleanup(func() { _ = resp.Body.Close() })
	return resp
}

func decode[T any](t *testing.T, resp *http.Response) T {
	t.Helper()
	var v T
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&v))
	return v
}

func TestHealthEndpoints(t *testing.T) {
	ts := newTestServer(t, false)

	resp := ts.do(t, http.MethodGet, "/health", "", "")
	assert.Equal(t, http.StatusOK, resp.StatusCode)

	resp = ts.do(t, http.MethodGet, "/health/ready", "", "")
	assert.Equal(t, http.StatusServiceUnavailable, resp.StatusCode, "data not loaded yet")

	resp = ts.do(t, http.MethodGet, "/api/v1/meta", "", "")
	require.Equal(t, http.StatusOK, resp.StatusCode)

	resp = ts.do(t, http.MethodGet, "/health/ready", "", "")
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	health := decode[handlers.Response](t, resp)
	assert.Equal(t, "healthy", health.Status)
}

func TestMetaAndActivities(t *testing.T) {
	ts := newTestServer(t, false)

	resp := ts.do(t, http.MethodGet, "/api/v1/meta", "", "")
	require.Equal(t, http.StatusOK, resp.StatusCode)
	meta := decode[tracker.MetaView](t, resp)
	assert.Equal(t, []string{"Team A", "Team B"}, meta.Teams)
	assert.Equal(t, 2, meta.Activities)

	resp = ts.do(t, http.MethodGet, "/api/v1/activities?dimension=Build", "", "")
	require.Equal(t, http.StatusOK, resp.StatusCode)
	activities := decode[[]model.Activity](t, resp)
	require.Len(t, activities, 1)
	assert.Equal(t, uuidBuild, activities[0].UUID)

	resp = ts.do(t, http.MethodGet, "/api/v1/activities/"+uuidSCA+"?html=true", "", "")
	require.Equal(t, http.StatusOK, resp.StatusCode)
	var activity struct {
		UUID string            `json:"uuid"`
		HTML map[string]string `json:"html"`
	}
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&activity))
	assert.Equal(t, uuidSCA, activity.UUID)
	assert.Contains(t, activity.HTML["description"], "<strong>SCA</strong>")

	resp = ts.do(t, http.MethodGet, "/api/v1/activities?level=x", "", "")
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
}

func TestActivityNotFoundIsProblem(t *testing.T) {
	ts := newTestServer(t, false)

	resp := ts.do(t, http.MethodGet, "/api/v1/activities/missing", "", "")
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
	assert.Equal(t, handlers.ContentTypeProblemJSON, resp.Header.Get("Content-Type"))
	problem := decode[handlers.Problem](t, resp)
	assert.Equal(t, http.StatusNotFound, problem.Status)
}

func TestMutatingRoutesRequireWriteScope(t *testing.T) {
	ts := newTestServer(t, true)
	path := "/api/v1/progress/" + uuidSCA + "/Team%20B"
	body := `{"title":"Assessed"}`

	resp := ts.do(t, http.MethodPut, path, body, "")
	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
	assert.NotEmpty(t, resp.Header.Get("WWW-Authenticate"))

	resp = ts.do(t, http.MethodPut, path, body, "not-a-token")
	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)

	resp = ts.do(t, http.MethodPut, path, body, ts.token(t, auth.ScopeRead))
	assert.Equal(t, http.StatusForbidden, resp.StatusCode)

	resp = ts.do(t, http.MethodPut, path, body, ts.token(t, auth.ScopeWrite))
	require.Equal(t, http.StatusOK, resp.StatusCode)
	tp := decode[map[string]time.Time](t, resp)
	assert.Contains(t, tp, "Assessed")

	// reads stay public
	resp = ts.do(t, http.MethodGet, "/api/v1/progress", "", "")
	assert.Equal(t, http.StatusOK, resp.StatusCode)
}

func TestSetProgressErrors(t *testing.T) {
	ts := newTestServer(t, false)

	resp := ts.do(t, http.MethodPut, "/api/v1/progress/"+uuidSCA+"/Team%20A", `{"title":"Done-ish"}`, "")
	assert.Equal(t, http.StatusUnprocessableEntity, resp.StatusCode)

	resp = ts.do(t, http.MethodPut, "/api/v1/progress/"+uuidSCA+"/Nobody", `{"title":"Assessed"}`, "")
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)

	resp = ts.do(t, http.MethodPut, "/api/v1/progress/"+uuidSCA+"/Team%20A", `{"title":""}`, "")
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)

	resp = ts.do(t, http.MethodPut, "/api/v1/progress/"+uuidSCA+"/Team%20A", `{`, "")
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
}

func TestProgressExportAndDelete(t *testing.T) {
	ts := newTestServer(t, false)

	resp := ts.do(t, http.MethodPut, "/api/v1/progress/"+uuidSCA+"/Team%20B", `{"title":"Implemented"}`, "")
	require.Equal(t, http.StatusOK, resp.StatusCode)

	resp = ts.do(t, http.MethodGet, "/api/v1/progress/export", "", "")
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, "application/yaml", resp.Header.Get("Content-Type"))
	out, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	assert.Contains(t, string(out), uuidSCA)
	assert.Contains(t, string(out), "'Implemented': 2024-05-01")

	resp = ts.do(t, http.MethodDelete, "/api/v1/progress", "", "")
	assert.Equal(t, http.StatusNoContent, resp.StatusCode)

	resp = ts.do(t, http.MethodGet, "/api/v1/progress", "", "")
	p := decode[model.Progress](t, resp)
	assert.NotContains(t, p[uuidSCA], "Team B")
	assert.Contains(t, p[uuidBuild], "Team A", "file progress survives")
}

func TestTeamsEndpoints(t *testing.T) {
	ts := newTestServer(t, false)

	resp := ts.do(t, http.MethodPut, "/api/v1/teams",
		`{"teams":["Team A","Team B","Team C"],"teamGroups":[{"name":"Backend","teams":["Team A","Team C"]}]}`, "")
	require.Equal(t, http.StatusOK, resp.StatusCode)
	doc := decode[model.TeamsDocument](t, resp)
	assert.Equal(t, []string{"Team A", "Team B", "Team C"}, doc.Teams)

	resp = ts.do(t, http.MethodPut, "/api/v1/teams", `{"teams":["Team A","Team A"]}`, "")
	assert.Equal(t, http.StatusConflict, resp.StatusCode)

	resp = ts.do(t, http.MethodGet, "/api/v1/groups/Backend/summary", "", "")
	require.Equal(t, http.StatusOK, resp.StatusCode)
	summary := decode[struct {
		Teams []string `json:"teams"`
	}](t, resp)
	assert.Equal(t, []string{"Team A", "Team C"}, summary.Teams)

	resp = ts.do(t, http.MethodGet, "/api/v1/teams/Team%20A/summary", "", "")
	require.Equal(t, http.StatusOK, resp.StatusCode)

	resp = ts.do(t, http.MethodGet, "/api/v1/teams/Nobody/summary", "", "")
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)

	resp = ts.do(t, http.MethodDelete, "/api/v1/teams", "", "")
	require.Equal(t, http.StatusOK, resp.StatusCode)
	doc = decode[model.TeamsDocument](t, resp)
	assert.Equal(t, []string{"Team A", "Team B"}, doc.Teams)

	resp = ts.do(t, http.MethodGet, "/api/v1/teams/export", "", "")
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, "application/yaml", resp.Header.Get("Content-Type"))
}

func TestMappingAndHeatmapFormats(t *testing.T) {
	ts := newTestServer(t, false)

	resp := ts.do(t, http.MethodGet, "/api/v1/mapping?format=csv", "", "")
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Contains(t, resp.Header.Get("Content-Type"), "text/csv")
	assert.Contains(t, resp.Header.Get("Content-Disposition"), "dsomm-mapping.csv")

	resp = ts.do(t, http.MethodGet, "/api/v1/mapping?sort=sideways", "", "")
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)

	resp = ts.do(t, http.MethodGet, "/api/v1/mapping?format=xml", "", "")
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)

	resp = ts.do(t, http.MethodGet, "/api/v1/heatmap?group=Backend&format=svg&theme=dark", "", "")
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, "image/svg+xml", resp.Header.Get("Content-Type"))

	resp = ts.do(t, http.MethodGet, "/api/v1/heatmap?team=Nobody", "", "")
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
}

func TestSettingsEndpoints(t *testing.T) {
	ts := newTestServer(t, false)

	resp := ts.do(t, http.MethodGet, "/api/v1/preferences", "", "")
	require.Equal(t, http.StatusOK, resp.StatusCode)

	resp = ts.do(t, http.MethodPut, "/api/v1/preferences", `{"maxLevel":1,"dateFormat":"02.01.2006"}`, "")
	require.Equal(t, http.StatusOK, resp.StatusCode)
	prefs := decode[tracker.Settings](t, resp)
	assert.Equal(t, 1, prefs.MaxLevel)

	resp = ts.do(t, http.MethodPut, "/api/v1/preferences", `{"maxLevel":9}`, "")
	assert.Equal(t, http.StatusUnprocessableEntity, resp.StatusCode)

	resp = ts.do(t, http.MethodGet, "/api/v1/settings/missing", "", "")
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)

	resp = ts.do(t, http.MethodPut, "/api/v1/matrix/filters", `{"tags":["ci"]}`, "")
	require.Equal(t, http.StatusOK, resp.StatusCode)

	resp = ts.do(t, http.MethodGet, "/api/v1/matrix", "", "")
	require.Equal(t, http.StatusOK, resp.StatusCode)
	matrix := decode[struct {
		Rows []json.RawMessage `json:"rows"`
	}](t, resp)
	require.Len(t, matrix.Rows, 1)

	resp = ts.do(t, http.MethodGet, "/api/v1/settings", "", "")
	require.Equal(t, http.StatusOK, resp.StatusCode)
}
