//go:build e2e
// +build e2e

package e2e_test

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"os"
	"sync"
	"testing"
	"time"

	"gorm.io/gorm"

	"village-admin-go/internal/app"
	"village-admin-go/internal/auth"
	"village-admin-go/internal/config"
	"village-admin-go/internal/db"
	userdomain "village-admin-go/internal/domain/user"
	userrepo "village-admin-go/internal/repository/postgres/user"
	"village-admin-go/pkg/logger"
)

const (
	adminEmail    = "admin@desa.id"
	adminPassword = "rahasia-desa"
)

type testEnv struct {
	server *httptest.Server
	db     *gorm.DB
	token  string
}

func setupE2E(t *testing.T) *testEnv {
	t.Helper()

	dsn := os.Getenv("E2E_DB_DSN")
	if dsn == "" {
		t.Skip("E2E_DB_DSN not set; skipping e2e tests")
	}

	log := logger.NewNop()
	cfg := config.Config{
		DB:          config.DBConfig{DSN: dsn},
		Auth:        config.AuthConfig{JWTSecret: "e2e-secret", Issuer: "village-admin", TokenTTL: time.Hour},
		Uploads:     config.UploadsConfig{Dir: t.TempDir(), MaxBytes: 1 << 20},
		CORSOrigins: []string{"*"},
	}

	dbConn, err := db.NewPostgres(cfg.DB, log)
	if err != nil {
		t.Fatalf("db connect: %v", err)
	}
	if err := db.Migrate(dbConn, log); err != nil {
		t.Fatalf("migrate: %v", err)
	}
	if err := cleanDB(dbConn); err != nil {
		t.Fatalf("clean db: %v", err)
	}

	users := userdomain.NewService(userrepo.NewPostgres(dbConn), auth.NewTokenService(cfg.Auth))
	if _, err := users.CreateAdmin(context.Background(), adminEmail, "Admin", adminPassword); err != nil {
		t.Fatalf("create admin: %v", err)
	}

	router, err := app.NewHandler(cfg, dbConn, log)
	if err != nil {
		t.Fatalf("build handler: %v", err)
	}
	env := &testEnv{server: httptest.NewServer(router), db: dbConn}

	resp, body := env.request(t, http.MethodPost, "/api/auth/login", "", map[string]string{
		"email": adminEmail, "password": adminPassword,
	})
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("login: expected 200, got %d: %s", resp.StatusCode, string(body))
	}
	var login struct {
		Token string `json:"token"`
	}
	if err := json.Unmarshal(body, &login); err != nil || login.Token == "" {
		t.Fatalf("decode login: %v", err)
	}
	env.token = login.Token
	return env
}

func (e *testEnv) Close() {
	e.server.Close()
	_ = db.Close(e.db)
}

func cleanDB(dbConn *gorm.DB) error {
	return dbConn.WithContext(context.Background()).Exec(
		"TRUNCATE TABLE birth_entries, deaths, move_outs, family_members, household_heads, family_cards, admin_users CASCADE",
	).Error
}

func (e *testEnv) request(t *testing.T, method, path, token string, payload interface{}) (*http.Response, []byte) {
	t.Helper()

	var body io.Reader
	if payload != nil {
		data, err := json.Marshal(payload)
		if err != nil {
			t.Fatalf("marshal payload: %v", err)
		}
		body = bytes.NewReader(data)
	}

	req, err := http.NewRequest(method, e.server.URL+path, body)
	if err != nil {
		t.Fatalf("new request: %v", err)
	}
	if payload != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	client := &http.Client{Timeout: 5 * time.Second}
	resp, err := client.Do(req)
	if err != nil {
		t.Fatalf("do request: %v", err)
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		t.Fatalf("read response: %v", err)
	}
	return resp, respBody
}

type errorEnvelope struct {
	Error struct {
		Code    string `json:"code"`
		Message string `json:"message"`
	} `json:"error"`
}

type idResponse struct {
	ID string `json:"id"`
}

func decode(t *testing.T, body []byte, dst interface{}) {
	t.Helper()
	if err := json.Unmarshal(body, dst); err != nil {
		t.Fatalf("decode %s: %v", string(body), err)
	}
}

func TestE2EHealthAndAuth(t *testing.T) {
	env := setupE2E(t)
	defer env.Close()

	resp, body := env.request(t, http.MethodGet, "/api/health", "", nil)
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", resp.StatusCode, string(body))
	}

	resp, body = env.request(t, http.MethodGet, "/api/family-cards", "", nil)
	if resp.StatusCode != http.StatusUnauthorized {
		t.Fatalf("expected 401, got %d: %s", resp.StatusCode, string(body))
	}
	var errResp errorEnvelope
	decode(t, body, &errResp)
	if errResp.Error.Code != "missing_token" {
		t.Fatalf("expected missing_token, got %q", errResp.Error.Code)
	}

	resp, _ = env.request(t, http.MethodGet, "/api/family-cards", "garbage", nil)
	if resp.StatusCode != http.StatusUnauthorized {
		t.Fatalf("expected 401 for a bad token, got %d", resp.StatusCode)
	}

	resp, _ = env.request(t, http.MethodPost, "/api/auth/login", "", map[string]string{
		"email": adminEmail, "password": "wrong-password",
	})
	if resp.StatusCode != http.StatusUnauthorized {
		t.Fatalf("expected 401 for a wrong password, got %d", resp.StatusCode)
	}
}

func TestE2EHouseholdFlow(t *testing.T) {
	env := setupE2E(t)
	defer env.Close()

	resp, body := env.request(t, http.MethodPost, "/api/family-cards", env.token, map[string]string{"no_kk": "3201010101010001"})
	if resp.StatusCode != http.StatusCreated {
		t.Fatalf("expected 201, got %d: %s", resp.StatusCode, string(body))
	}
	var card idResponse
	decode(t, body, &card)

	resp, body = env.request(t, http.MethodPost, "/api/household-heads", env.token, map[string]string{
		"nik": "3201011", "name": "Budi", "family_card_id": card.ID,
	})
	if resp.StatusCode != http.StatusCreated {
		t.Fatalf("expected 201, got %d: %s", resp.StatusCode, string(body))
	}
	var head idResponse
	decode(t, body, &head)

	resp, body = env.request(t, http.MethodPost, "/api/household-heads", env.token, map[string]string{
		"nik": "3201022", "name": "Siti", "family_card_id": card.ID,
	})
	if resp.StatusCode != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d: %s", resp.StatusCode, string(body))
	}

	resp, body = env.request(t, http.MethodDelete, "/api/family-cards/"+card.ID, env.token, nil)
	if resp.StatusCode != http.StatusBadRequest {
		t.Fatalf("expected 400 while the card has a head, got %d: %s", resp.StatusCode, string(body))
	}

	resp, body = env.request(t, http.MethodDelete, "/api/household-heads/"+head.ID, env.token, nil)
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", resp.StatusCode, string(body))
	}

	resp, body = env.request(t, http.MethodGet, "/api/family-cards/headless", env.token, nil)
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", resp.StatusCode, string(body))
	}
	var headless struct {
		Total int `json:"total"`
	}
	decode(t, body, &headless)
	if headless.Total != 1 {
		t.Fatalf("expected 1 headless card, got %d", headless.Total)
	}
}

// Concurrent head creations for one card: exactly one wins.
func TestE2EConcurrentHeadsForOneCard(t *testing.T) {
	env := setupE2E(t)
	defer env.Close()

	resp, body := env.request(t, http.MethodPost, "/api/family-cards", env.token, map[string]string{"no_kk": "3201010101010002"})
	if resp.StatusCode != http.StatusCreated {
		t.Fatalf("expected 201, got %d: %s", resp.StatusCode, string(body))
	}
	var card idResponse
	decode(t, body, &card)

	const attempts = 5
	statuses := make(chan int, attempts)
	var wg sync.WaitGroup
	for i := 0; i < attempts; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			data, _ := json.Marshal(map[string]string{
				"nik": fmt.Sprintf("32010%d", i), "name": "Kepala", "family_card_id": card.ID,
			})
			req, _ := http.NewRequest(http.MethodPost, env.server.URL+"/api/household-heads", bytes.NewReader(data))
			req.Header.Set("Content-Type", "application/json")
			req.Header.Set("Authorization", "Bearer "+env.token)
			resp, err := http.DefaultClient.Do(req)
			if err != nil {
				statuses <- 0
				return
			}
			_ = resp.Body.Close()
			statuses <- resp.StatusCode
		}(i)
	}
	wg.Wait()
	close(statuses)

	created := 0
	for status := range statuses {
		if status == http.StatusCreated {
			created++
		}
	}
	if created != 1 {
		t.Fatalf("expected exactly one head, got %d", created)
	}
}

func TestE2EMutationFlow(t *testing.T) {
	env := setupE2E(t)
	defer env.Close()

	payload := map[string]string{"name": "Bayi", "nik": "9999", "event_date": "2024-01-15"}
	resp, body := env.request(t, http.MethodPost, "/api/mutations/birth-entry", env.token, payload)
	if resp.StatusCode != http.StatusCreated {
		t.Fatalf("expected 201, got %d: %s", resp.StatusCode, string(body))
	}

	resp, body = env.request(t, http.MethodPost, "/api/mutations/birth-entry", env.token, payload)
	if resp.StatusCode != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d: %s", resp.StatusCode, string(body))
	}
	var errResp errorEnvelope
	decode(t, body, &errResp)
	if errResp.Error.Message != "NIK sudah terdaftar" {
		t.Fatalf("unexpected message %q", errResp.Error.Message)
	}

	resp, body = env.request(t, http.MethodPost, "/api/mutations/move-out", env.token, map[string]string{
		"name": "Bayi", "nik": "9999", "event_date": "2024-06-01", "destination_address": "Bandung",
	})
	if resp.StatusCode != http.StatusCreated {
		t.Fatalf("expected 201 across kinds, got %d: %s", resp.StatusCode, string(body))
	}
}
