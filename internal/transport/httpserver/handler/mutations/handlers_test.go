package mutations

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	mutationdomain "village-admin-go/internal/domain/mutation"
	mutationrepo "village-admin-go/internal/repository/postgres/mutation"
	"village-admin-go/internal/repository/testdb"
	"village-admin-go/pkg/logger"
)

type recorder struct {
	writes []string
}

func (r *recorder) RecordWrite(entity, operation string) {
	r.writes = append(r.writes, entity+":"+operation)
}

func newRouter(t *testing.T) (http.Handler, *gorm.DB, *recorder) {
	t.Helper()
	gormDB := testdb.New(t)
	writes := &recorder{}
	h := New(mutationdomain.NewService(mutationrepo.NewPostgres(gormDB)), writes, logger.NewNop(), false)

	r := chi.NewRouter()
	r.Route("/mutations/{kind}", func(r chi.Router) {
		r.Get("/", h.List)
		r.Post("/", h.Create)
		r.Get("/{id}", h.Get)
		r.Put("/{id}", h.Update)
		r.Delete("/{id}", h.Delete)
	})
	return r, gormDB, writes
}

func do(t *testing.T, router http.Handler, method, path string, payload interface{}) (int, map[string]interface{}) {
	t.Helper()
	var body bytes.Buffer
	if payload != nil {
		require.NoError(t, json.NewEncoder(&body).Encode(payload))
	}
	req := httptest.NewRequest(method, path, &body)
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	var decoded map[string]interface{}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &decoded), rec.Body.String())
	return rec.Code, decoded
}

func errorCode(t *testing.T, payload map[string]interface{}) string {
	t.Helper()
	body, ok := payload["error"].(map[string]interface{})
	require.True(t, ok)
	return body["code"].(string)
}

func seedCard(t *testing.T, gormDB *gorm.DB) string {
	t.Helper()
	cardID, headID := uuid.NewString(), uuid.NewString()
	require.NoError(t, gormDB.Exec("INSERT INTO family_cards (id, no_kk) VALUES (?, ?)", cardID, "1111").Error)
	require.NoError(t, gormDB.Exec("INSERT INTO household_heads (id, nik, name, family_card_id) VALUES (?, ?, ?, ?)", headID, "1", "Budi", cardID).Error)
	require.NoError(t, gormDB.Exec("UPDATE family_cards SET household_head_id = ? WHERE id = ?", headID, cardID).Error)
	return cardID
}

func TestDuplicateBirthEntryRejected(t *testing.T) {
	router, _, writes := newRouter(t)

	status, body := do(t, router, http.MethodPost, "/mutations/birth-entry/", map[string]string{
		"name": "Bayi", "nik": "9999", "event_date": "2024-01-15",
	})
	require.Equal(t, http.StatusCreated, status, body)
	assert.Equal(t, "2024-01-15", body["event_date"])
	assert.Contains(t, body, "previous_address")
	assert.Nil(t, body["family_card"])

	status, body = do(t, router, http.MethodPost, "/mutations/birth-entry/", map[string]string{
		"name": "Bayi", "nik": "9999", "event_date": "2024-01-15",
	})
	assert.Equal(t, http.StatusBadRequest, status)
	assert.Equal(t, "nik_taken", errorCode(t, body))
	assert.Equal(t, "NIK sudah terdaftar", body["error"].(map[string]interface{})["message"])
	assert.Equal(t, []string{"birth-entry:create"}, writes.writes)
}

func TestCreateValidation(t *testing.T) {
	router, _, _ := newRouter(t)

	tests := []struct {
		name    string
		path    string
		payload map[string]interface{}
		status  int
		code    string
	}{
		{"unknown kind", "/mutations/marriage/", map[string]interface{}{"name": "A"}, http.StatusNotFound, "unknown_mutation_kind"},
		{"missing name", "/mutations/death/", map[string]interface{}{"nik": "1", "event_date": "2024-01-01", "death_address": "RS"}, http.StatusBadRequest, "validation_error"},
		{"invalid date", "/mutations/death/", map[string]interface{}{"name": "A", "nik": "1", "event_date": "kemarin", "death_address": "RS"}, http.StatusBadRequest, "validation_error"},
		{"missing address", "/mutations/move-out/", map[string]interface{}{"name": "A", "nik": "1", "event_date": "2024-01-01"}, http.StatusBadRequest, "validation_error"},
		{"foreign address key", "/mutations/move-out/", map[string]interface{}{"name": "A", "nik": "1", "event_date": "2024-01-01", "death_address": "RS"}, http.StatusBadRequest, "invalid_request"},
		{"unknown card", "/mutations/birth-entry/", map[string]interface{}{"name": "A", "nik": "1", "event_date": "2024-01-01", "family_card_id": uuid.NewString()}, http.StatusBadRequest, "family_card_not_found"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			status, body := do(t, router, http.MethodPost, tt.path, tt.payload)
			assert.Equal(t, tt.status, status)
			assert.Equal(t, tt.code, errorCode(t, body))
		})
	}
}

func TestCardLinkLifecycle(t *testing.T) {
	router, gormDB, _ := newRouter(t)
	cardID := seedCard(t, gormDB)

	status, body := do(t, router, http.MethodPost, "/mutations/move-out/", map[string]string{
		"name": "Ani", "nik": "77", "event_date": "2024-03-01T08:00:00Z",
		"destination_address": "Bandung", "family_card_id": cardID,
	})
	require.Equal(t, http.StatusCreated, status, body)
	id := body["id"].(string)
	card := body["family_card"].(map[string]interface{})
	assert.Equal(t, "1111", card["no_kk"])
	assert.Equal(t, "Budi", card["household_head"].(map[string]interface{})["name"])

	status, body = do(t, router, http.MethodPut, "/mutations/move-out/"+id, map[string]string{"name": "Ani S"})
	require.Equal(t, http.StatusOK, status)
	assert.Equal(t, cardID, body["family_card_id"])

	status, body = do(t, router, http.MethodPut, "/mutations/move-out/"+id, map[string]interface{}{"family_card_id": nil})
	require.Equal(t, http.StatusOK, status)
	assert.Nil(t, body["family_card_id"])
	assert.Nil(t, body["family_card"])

	status, body = do(t, router, http.MethodPut, "/mutations/move-out/"+id, map[string]interface{}{"destination_address": nil})
	assert.Equal(t, http.StatusBadRequest, status)
	assert.Equal(t, "validation_error", errorCode(t, body))

	status, body = do(t, router, http.MethodGet, "/mutations/move-out/", nil)
	require.Equal(t, http.StatusOK, status)
	assert.EqualValues(t, 1, body["total"])

	status, _ = do(t, router, http.MethodDelete, "/mutations/move-out/"+id, nil)
	require.Equal(t, http.StatusOK, status)
	status, body = do(t, router, http.MethodGet, "/mutations/move-out/"+id, nil)
	assert.Equal(t, http.StatusNotFound, status)
	assert.Equal(t, "mutation_not_found", errorCode(t, body))
}
