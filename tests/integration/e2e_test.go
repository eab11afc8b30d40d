package integration

import (
	"bytes"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	json "github.com/goccy/go-json"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/fireplan/fireplan-backend/internal/adapter/httpapi"
	"github.com/fireplan/fireplan-backend/internal/config"
	"github.com/fireplan/fireplan-backend/internal/store"
	"github.com/fireplan/fireplan-backend/internal/usecase/session"
)

// newTestServer assembles the full stack against an in-memory store, exactly
// as cmd/server wires it, minus the real listener.
func newTestServer(t *testing.T) *httptest.Server {
	t.Helper()

	now := func() time.Time { return time.Date(2023, time.June, 15, 0, 0, 0, 0, time.UTC) }
	reducer := session.NewReducer(nil, now)
	sessionStore := store.NewSessionStore(reducer)

	authService := httpapi.NewAuthService(config.AuthConfig{
		APIToken:        "e2e-token",
		JWTSecret:       "e2e-secret",
		TokenTTLMinutes: 10,
	}, nil)
	handler := httpapi.NewHandler(sessionStore, nil)
	router := httpapi.NewRouter(handler, authService, []string{"*"}, zap.NewNop())

	srv := httptest.NewServer(router)
	t.Cleanup(srv.Close)
	return srv
}

func login(t *testing.T, srv *httptest.Server) string {
	t.Helper()
	resp, err := http.Post(srv.URL+"/api/v1/auth/login", "application/json",
		strings.NewReader(`{"token":"e2e-token"}`))
	require.NoError(t, err)
	defer resp.Body.Close()
	require.Equal(t, http.StatusOK, resp.StatusCode)

	var body struct {
		Data struct {
			AccessToken string `json:"accessToken"`
		} `json:"data"`
	}
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&body))
	require.NotEmpty(t, body.Data.AccessToken)
	return body.Data.AccessToken
}

func doJSON(t *testing.T, method, url, token, body string) (*http.Response, []byte) {
	t.Helper()
	var reader io.Reader
	if body != "" {
		reader = strings.NewReader(body)
	}
	req, err := http.NewRequest(method, url, reader)
	require.NoError(t, err)
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	resp, err := http.DefaultClient.Do(req)
	require.NoError(t, err)
	defer resp.Body.Close()
	data, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	return resp, data
}

func TestE2E_RequiresAuthentication(t *testing.T) {
	srv := newTestServer(t)

	resp, _ := doJSON(t, http.MethodGet, srv.URL+"/api/v1/state", "", "")
	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)

	resp, body := doJSON(t, http.MethodGet, srv.URL+"/api/v1/session", "", "")
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Contains(t, string(body), "unauthenticated")
}

func TestE2E_PlanAndReportFlow(t *testing.T) {
	srv := newTestServer(t)
	token := login(t, srv)

	// 1. Record actual investments.
	resp, _ := doJSON(t, http.MethodPut, srv.URL+"/api/v1/investments", token,
		`{"investments":[
			{"investedAmount":"10000","currentValue":"10000","recordDate":"2023-01-01","tag":"Stocks"},
			{"investedAmount":"5000","currentValue":"5200","recordDate":"2023-01-01","tag":"Bonds"}
		]}`)
	require.Equal(t, http.StatusOK, resp.StatusCode)

	// 2. Record inflation history.
	resp, _ = doJSON(t, http.MethodPut, srv.URL+"/api/v1/inflation", token,
		`{"inflationObservations":[{"inflation":"6.2","recordDate":"2023-01-01"}]}`)
	require.Equal(t, http.StatusOK, resp.StatusCode)

	// 3. Compute a plan.
	resp, body := doJSON(t, http.MethodPost, srv.URL+"/api/v1/plan", token,
		`{"startDate":"2023-01-01","startingMonthlyContribution":"10000",
		  "targetMonthlyIncomeAtMaturity":"100000","currency":"EUR",
		  "expectedAnnualInflationPct":"6","expectedAnnualGrowthRatePct":"12",
		  "annualContributionStepUpPct":"8"}`)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Contains(t, string(body), `"horizonCapped":false`)

	// 4. The report interleaves actuals, their aggregate and the plan.
	resp, body = doJSON(t, http.MethodGet, srv.URL+"/api/v1/report", token, "")
	require.Equal(t, http.StatusOK, resp.StatusCode)
	report := string(body)
	assert.Contains(t, report, `"tag":"Actual"`)
	assert.Contains(t, report, `"tag":"Planned"`)
	assert.Contains(t, report, `"tag":"Stocks"`)
	assert.Contains(t, report, `"variances"`)

	// 5. Snapshot round-trip: export, reset, import, same state.
	resp, exported := doJSON(t, http.MethodGet, srv.URL+"/api/v1/snapshot", token, "")
	require.Equal(t, http.StatusOK, resp.StatusCode)

	resp, _ = doJSON(t, http.MethodPost, srv.URL+"/api/v1/state/reset", token, "")
	require.Equal(t, http.StatusOK, resp.StatusCode)

	resp, body = doJSON(t, http.MethodGet, srv.URL+"/api/v1/state", token, "")
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.NotContains(t, string(body), `"Stocks"`)

	req, err := http.NewRequest(http.MethodPut, srv.URL+"/api/v1/snapshot", bytes.NewReader(exported))
	require.NoError(t, err)
	req.Header.Set("Authorization", "Bearer "+token)
	importResp, err := http.DefaultClient.Do(req)
	require.NoError(t, err)
	importResp.Body.Close()
	require.Equal(t, http.StatusOK, importResp.StatusCode)

	resp, body = doJSON(t, http.MethodGet, srv.URL+"/api/v1/state", token, "")
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Contains(t, string(body), `"Stocks"`)
	assert.Contains(t, string(body), `"inflationObservations"`)
}

func TestE2E_CSVRoundTrip(t *testing.T) {
	srv := newTestServer(t)
	token := login(t, srv)

	csv := "investedAmount,currentValue,recordDate,tag\n1000.50,1100.25,2023-01-01,Stocks\n"
	req, err := http.NewRequest(http.MethodPut, srv.URL+"/api/v1/investments/csv", strings.NewReader(csv))
	require.NoError(t, err)
	req.Header.Set("Authorization", "Bearer "+token)
	resp, err := http.DefaultClient.Do(req)
	require.NoError(t, err)
	resp.Body.Close()
	require.Equal(t, http.StatusOK, resp.StatusCode)

	getResp, body := doJSON(t, http.MethodGet, srv.URL+"/api/v1/investments/csv", token, "")
	require.Equal(t, http.StatusOK, getResp.StatusCode)
	assert.Contains(t, string(body), "investedAmount,currentValue,recordDate,tag")
	assert.Contains(t, string(body), "1000.5,1100.25,2023-01-01,Stocks")
}
