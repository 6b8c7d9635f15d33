//go:build integration

package integration

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"os"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/fxdesk/swapbook-backend/internal/adapter/repository/postgres"
	"github.com/fxdesk/swapbook-backend/internal/usecase/seeder"
)

var (
	db         *postgres.DB
	baseURL    string
	apiToken   string
	httpClient *http.Client
)

// TestMain sets up the test environment
func TestMain(m *testing.M) {
	ctx := context.Background()

	// 1. Connect to Database
	dbConnStr := getDBConnectionString()
	var err error
	db, err = postgres.NewDB(dbConnStr)
	if err != nil {
		panic(fmt.Sprintf("Failed to connect to database: %v", err))
	}
	defer db.Close()

	// 2. HTTP client against the running server
	baseURL = getServerURL()
	apiToken = getAPIToken()
	httpClient = &http.Client{Timeout: 10 * time.Second}

	// 3. Self-Healing Setup: make sure reference data exists
	if err := setupReferenceData(ctx); err != nil {
		panic(fmt.Sprintf("Failed to setup reference data: %v", err))
	}

	// Run tests
	code := m.Run()

	os.Exit(code)
}

// setupReferenceData seeds schedules and statuses (same seeder the server
// runs on boot) plus the book and counterparty the tests book against.
func setupReferenceData(ctx context.Context) error {
	scheduleRepo := postgres.NewScheduleRepository(db)
	statusRepo := postgres.NewTradeStatusRepository(db)

	if err := seeder.NewRefDataSeeder(scheduleRepo, statusRepo).Seed(ctx); err != nil {
		return fmt.Errorf("failed to seed schedules and statuses: %w", err)
	}

	for table, name := range map[string]string{
		"books":          "Integration Book",
		"counterparties": "Integration Counterparty",
	} {
		query := fmt.Sprintf(
			"INSERT INTO %s (id, name) VALUES ($1, $2) ON CONFLICT (name) DO NOTHING", table)
		if _, err := db.ExecContext(ctx, query, uuid.New(), name); err != nil {
			return fmt.Errorf("failed to ensure %s row: %w", table, err)
		}
	}

	return nil
}

func getDBConnectionString() string {
	if connStr := os.Getenv("DB_CONN_STR"); connStr != "" {
		return connStr
	}
	return "host=localhost port=5432 user=postgres password=postgres dbname=swapbook sslmode=disable"
}

func getServerURL() string {
	if addr := os.Getenv("TEST_SERVER_URL"); addr != "" {
		return addr
	}
	return "http://localhost:8080"
}

func getAPIToken() string {
	if token := os.Getenv("API_TOKEN"); token != "" {
		return token
	}
	return "dev-token"
}

// nextTradeID hands out trade ids unique across test runs; trade versions
// are append-only so reusing an id would collide with earlier runs.
func nextTradeID() int64 {
	return time.Now().UnixNano() % 1_000_000_000
}

type legPayload struct {
	Notional                  string `json:"notional"`
	Rate                      string `json:"rate"`
	CalculationPeriodSchedule string `json:"calculation_period_schedule"`
}

type tradePayload struct {
	TradeID          int64        `json:"trade_id"`
	TradeDate        string       `json:"trade_date"`
	StartDate        string       `json:"start_date"`
	MaturityDate     string       `json:"maturity_date"`
	BookName         string       `json:"book_name"`
	CounterpartyName string       `json:"counterparty_name"`
	TradeStatus      string       `json:"trade_status,omitempty"`
	Legs             []legPayload `json:"legs"`
}

type cashflowResult struct {
	PaymentDate string `json:"payment_date"`
	PeriodStart string `json:"period_start"`
	PeriodEnd   string `json:"period_end"`
	Amount      string `json:"amount"`
}

type legResult struct {
	Notional                  string           `json:"notional"`
	Rate                      string           `json:"rate"`
	CalculationPeriodSchedule string           `json:"calculation_period_schedule"`
	Cashflows                 []cashflowResult `json:"cashflows"`
}

type tradeResult struct {
	TradeID          int64       `json:"trade_id"`
	Version          int         `json:"version"`
	Active           bool        `json:"active"`
	TradeDate        string      `json:"trade_date"`
	StartDate        string      `json:"start_date"`
	MaturityDate     string      `json:"maturity_date"`
	BookName         string      `json:"book_name"`
	CounterpartyName string      `json:"counterparty_name"`
	TradeStatus      string      `json:"trade_status"`
	Legs             []legResult `json:"legs"`
}

func samplePayload(tradeID int64) tradePayload {
	return tradePayload{
		TradeID:          tradeID,
		TradeDate:        "2025-01-15",
		StartDate:        "2025-01-17",
		MaturityDate:     "2026-01-17",
		BookName:         "Integration Book",
		CounterpartyName: "Integration Counterparty",
		Legs: []legPayload{
			{Notional: "1000000", Rate: "0.05", CalculationPeriodSchedule: "1M"},
			{Notional: "1000000", Rate: "0", CalculationPeriodSchedule: "1M"},
		},
	}
}

func doRequest(t *testing.T, method, path string, payload any) (*http.Response, []byte) {
	t.Helper()

	var body io.Reader
	if payload != nil {
		raw, err := json.Marshal(payload)
		require.NoError(t, err)
		body = bytes.NewReader(raw)
	}

	req, err := http.NewRequest(method, baseURL+path, body)
	require.NoError(t, err)
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", apiToken)

	resp, err := httpClient.Do(req)
	require.NoError(t, err)
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	require.NoError(t, err)

	return resp, raw
}

func TestE2E_CreateTrade(t *testing.T) {
	tradeID := nextTradeID()

	resp, raw := doRequest(t, http.MethodPost, "/api/trades", samplePayload(tradeID))
	require.Equal(t, http.StatusCreated, resp.StatusCode, string(raw))

	var booked tradeResult
	require.NoError(t, json.Unmarshal(raw, &booked))

	assert.Equal(t, tradeID, booked.TradeID)
	assert.Equal(t, 1, booked.Version)
	assert.True(t, booked.Active)
	assert.Equal(t, "NEW", booked.TradeStatus)
	require.Len(t, booked.Legs, 2)
	for _, leg := range booked.Legs {
		assert.Len(t, leg.Cashflows, 12)
	}

	// Every cashflow on the zero-rate leg settles to nothing.
	for _, cf := range booked.Legs[1].Cashflows {
		amount, err := decimal.NewFromString(cf.Amount)
		require.NoError(t, err)
		assert.True(t, amount.IsZero(), "expected zero amount, got %s", cf.Amount)
	}

	// The version row is active in the database.
	var active bool
	err := db.QueryRowContext(context.Background(),
		"SELECT active FROM trades WHERE trade_id = $1 AND version = 1", tradeID).Scan(&active)
	require.NoError(t, err)
	assert.True(t, active)
}

func TestE2E_AmendTrade(t *testing.T) {
	tradeID := nextTradeID()

	resp, raw := doRequest(t, http.MethodPost, "/api/trades", samplePayload(tradeID))
	require.Equal(t, http.StatusCreated, resp.StatusCode, string(raw))

	amendment := samplePayload(tradeID)
	amendment.Legs[0].Rate = "0.06"

	resp, raw = doRequest(t, http.MethodPut, fmt.Sprintf("/api/trades/%d", tradeID), amendment)
	require.Equal(t, http.StatusOK, resp.StatusCode, string(raw))

	var amended tradeResult
	require.NoError(t, json.Unmarshal(raw, &amended))

	assert.Equal(t, 2, amended.Version)
	assert.True(t, amended.Active)
	assert.Equal(t, "AMENDED", amended.TradeStatus)
	require.Len(t, amended.Legs, 2)

	// Exactly one version may remain active, and it must be the amendment.
	var activeVersion int
	err := db.QueryRowContext(context.Background(),
		"SELECT version FROM trades WHERE trade_id = $1 AND active = TRUE", tradeID).Scan(&activeVersion)
	require.NoError(t, err)
	assert.Equal(t, 2, activeVersion)

	var versionCount int
	err = db.QueryRowContext(context.Background(),
		"SELECT COUNT(*) FROM trades WHERE trade_id = $1", tradeID).Scan(&versionCount)
	require.NoError(t, err)
	assert.Equal(t, 2, versionCount)
}

func TestE2E_AmendUnknownTrade(t *testing.T) {
	tradeID := nextTradeID()

	resp, raw := doRequest(t, http.MethodPut, fmt.Sprintf("/api/trades/%d", tradeID), samplePayload(tradeID))
	assert.Equal(t, http.StatusNotFound, resp.StatusCode, string(raw))
}

func TestE2E_GetTrade(t *testing.T) {
	tradeID := nextTradeID()

	resp, raw := doRequest(t, http.MethodPost, "/api/trades", samplePayload(tradeID))
	require.Equal(t, http.StatusCreated, resp.StatusCode, string(raw))

	resp, raw = doRequest(t, http.MethodGet, fmt.Sprintf("/api/trades/%d", tradeID), nil)
	require.Equal(t, http.StatusOK, resp.StatusCode, string(raw))

	var fetched tradeResult
	require.NoError(t, json.Unmarshal(raw, &fetched))
	assert.Equal(t, tradeID, fetched.TradeID)
	assert.Equal(t, 1, fetched.Version)
	require.Len(t, fetched.Legs, 2)
	assert.Len(t, fetched.Legs[0].Cashflows, 12)
}

func TestE2E_GetUnknownTrade(t *testing.T) {
	resp, raw := doRequest(t, http.MethodGet, fmt.Sprintf("/api/trades/%d", nextTradeID()), nil)
	assert.Equal(t, http.StatusNotFound, resp.StatusCode, string(raw))
}

func TestE2E_ValidationRejected(t *testing.T) {
	tradeID := nextTradeID()

	payload := samplePayload(tradeID)
	payload.StartDate = "2025-01-10" // before trade date

	resp, raw := doRequest(t, http.MethodPost, "/api/trades", payload)
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode, string(raw))

	// Rejected proposals must leave no trace.
	var count int
	err := db.QueryRowContext(context.Background(),
		"SELECT COUNT(*) FROM trades WHERE trade_id = $1", tradeID).Scan(&count)
	require.NoError(t, err)
	assert.Zero(t, count)
}

func TestE2E_AuthRequired(t *testing.T) {
	raw, err := json.Marshal(samplePayload(nextTradeID()))
	require.NoError(t, err)

	req, err := http.NewRequest(http.MethodPost, baseURL+"/api/trades", bytes.NewReader(raw))
	require.NoError(t, err)
	req.Header.Set("Content-Type", "application/json")

	resp, err := httpClient.Do(req)
	require.NoError(t, err)
	defer resp.Body.Close()

	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
}
