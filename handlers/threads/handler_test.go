package threads

import (
	"bytes"
	"encoding/json"
	"io"
	"log"
	"net/http"
	"net/http/httptest"
	"os"
	"testing"
	"time"

	"github.com/rparit-stacks/pixel-pandit-esco-sub001/models"
	"github.com/rparit-stacks/pixel-pandit-esco-sub001/testutils"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
)

func TestMain(m *testing.M) {
	testutils.InitTestMain()

	log.SetOutput(io.Discard)

	exitCode := m.Run()

	log.SetOutput(os.Stdout)

	os.Exit(exitCode)
}

var userColumns = []string{
	"id", "email", "password", "name", "role", "status",
	"session_subject", "stripe_customer_id", "created_at", "updated_at",
}

var profileColumns = []string{
	"id", "user_id", "display_name", "bio", "city", "hourly_rate",
	"is_online", "calls_enabled", "is_verified", "created_at", "updated_at",
}

var threadColumns = []string{
	"id", "client_id", "profile_id", "status", "created_at", "updated_at",
}

var subscriptionColumns = []string{
	"id", "user_id", "plan", "chat_balance", "is_unlimited", "status",
	"expires_at", "stripe_subscription_id", "created_at", "updated_at",
}

func userRow(mock sqlmock.Sqlmock, id string, role models.Role) *sqlmock.Rows {
	now := time.Now()
	return mock.NewRows(userColumns).
		AddRow(id, id+"@example.com", "hash", "User "+id, role, models.UserActive, nil, "", now, now)
}

func profileRow(mock sqlmock.Sqlmock, id string, ownerID string) *sqlmock.Rows {
	now := time.Now()
	return mock.NewRows(profileColumns).
		AddRow(id, ownerID, "Display "+id, "", "Paris", 100, true, true, true, now, now)
}

func threadRow(mock sqlmock.Sqlmock, id, clientID, profileID string, status models.ThreadStatus) *sqlmock.Rows {
	now := time.Now()
	return mock.NewRows(threadColumns).
		AddRow(id, clientID, profileID, status, now, now)
}

func authedRouter(userID string, method, path string, handler gin.HandlerFunc) *gin.Engine {
	r := testutils.SetupTestRouter()
	r.Handle(method, path, func(c *gin.Context) {
		c.Set("user_id", userID)
		handler(c)
	})
	return r
}

func TestCreateThread_Idempotent(t *testing.T) {
	_, mock, cleanup := testutils.SetupTestDB(t)
	defer cleanup()

	mock.ExpectQuery(`SELECT (.+) FROM "users"`).
		WillReturnRows(userRow(mock, "client-1", models.ClientRole))
	mock.ExpectQuery(`SELECT (.+) FROM "profiles"`).
		WillReturnRows(profileRow(mock, "profile-1", "provider-1"))
	mock.ExpectQuery(`SELECT (.+) FROM "chat_threads"`).
		WillReturnRows(threadRow(mock, "thread-1", "client-1", "profile-1", models.ThreadPending))

	// re-posting only refreshes updated_at
	mock.ExpectBegin()
	mock.ExpectExec(`UPDATE "chat_threads" SET`).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectCommit()

	r := authedRouter("client-1", http.MethodPost, "/chats", CreateThread)

	body, _ := json.Marshal(map[string]string{"profileId": "profile-1"})
	req, _ := http.NewRequest(http.MethodPost, "/chats", bytes.NewBuffer(body))
	req.Header.Set("Content-Type", "application/json")
	resp := httptest.NewRecorder()

	r.ServeHTTP(resp, req)

	assert.Equal(t, http.StatusOK, resp.Code)

	var thread models.ChatThread
	json.Unmarshal(resp.Body.Bytes(), &thread)
	assert.Equal(t, "thread-1", thread.ID)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestCreateThread_ProfileNotFound(t *testing.T) {
	_, mock, cleanup := testutils.SetupTestDB(t)
	defer cleanup()

	mock.ExpectQuery(`SELECT (.+) FROM "users"`).
		WillReturnRows(userRow(mock, "client-1", models.ClientRole))
	mock.ExpectQuery(`SELECT (.+) FROM "profiles"`).
		WillReturnRows(mock.NewRows(profileColumns))

	r := authedRouter("client-1", http.MethodPost, "/chats", CreateThread)

	body, _ := json.Marshal(map[string]string{"profileId": "missing"})
	req, _ := http.NewRequest(http.MethodPost, "/chats", bytes.NewBuffer(body))
	req.Header.Set("Content-Type", "application/json")
	resp := httptest.NewRecorder()

	r.ServeHTTP(resp, req)

	assert.Equal(t, http.StatusNotFound, resp.Code)
}

func TestCreateThread_NoCredits(t *testing.T) {
	_, mock, cleanup := testutils.SetupTestDB(t)
	defer cleanup()

	mock.ExpectQuery(`SELECT (.+) FROM "users"`).
		WillReturnRows(userRow(mock, "client-1", models.ClientRole))
	mock.ExpectQuery(`SELECT (.+) FROM "profiles"`).
		WillReturnRows(profileRow(mock, "profile-1", "provider-1"))
	mock.ExpectQuery(`SELECT (.+) FROM "chat_threads"`).
		WillReturnRows(mock.NewRows(threadColumns))
	mock.ExpectQuery(`SELECT (.+) FROM "subscriptions"`).
		WillReturnRows(mock.NewRows(subscriptionColumns).
			AddRow("sub-1", "client-1", models.PlanBasic, 0, false, models.SubscriptionActive,
				time.Now().Add(24*time.Hour), "", time.Now(), time.Now()))

	r := authedRouter("client-1", http.MethodPost, "/chats", CreateThread)

	body, _ := json.Marshal(map[string]string{"profileId": "profile-1"})
	req, _ := http.NewRequest(http.MethodPost, "/chats", bytes.NewBuffer(body))
	req.Header.Set("Content-Type", "application/json")
	resp := httptest.NewRecorder()

	r.ServeHTTP(resp, req)

	assert.Equal(t, http.StatusForbidden, resp.Code)

	var respBody map[string]string
	json.Unmarshal(resp.Body.Bytes(), &respBody)
	assert.Equal(t, "no credits", respBody["error"])
}

func TestCreateThread_NewThread(t *testing.T) {
	_, mock, cleanup := testutils.SetupTestDB(t)
	defer cleanup()

	mock.ExpectQuery(`SELECT (.+) FROM "users"`).
		WillReturnRows(userRow(mock, "client-1", models.ClientRole))
	mock.ExpectQuery(`SELECT (.+) FROM "profiles"`).
		WillReturnRows(profileRow(mock, "profile-1", "provider-1"))
	mock.ExpectQuery(`SELECT (.+) FROM "chat_threads"`).
		WillReturnRows(mock.NewRows(threadColumns))
	mock.ExpectQuery(`SELECT (.+) FROM "subscriptions"`).
		WillReturnRows(mock.NewRows(subscriptionColumns).
			AddRow("sub-1", "client-1", models.PlanUnlimited, 0, true, models.SubscriptionActive,
				time.Now().Add(24*time.Hour), "", time.Now(), time.Now()))

	mock.ExpectBegin()
	mock.ExpectQuery(`INSERT INTO "chat_threads"`).
		WillReturnRows(mock.NewRows([]string{"id"}).AddRow("thread-new"))
	mock.ExpectCommit()

	r := authedRouter("client-1", http.MethodPost, "/chats", CreateThread)

	body, _ := json.Marshal(map[string]string{"profileId": "profile-1"})
	req, _ := http.NewRequest(http.MethodPost, "/chats", bytes.NewBuffer(body))
	req.Header.Set("Content-Type", "application/json")
	resp := httptest.NewRecorder()

	r.ServeHTTP(resp, req)

	assert.Equal(t, http.StatusCreated, resp.Code)

	var thread models.ChatThread
	json.Unmarshal(resp.Body.Bytes(), &thread)
	assert.Equal(t, models.ThreadPending, thread.Status)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestUpdateThreadStatus_Accept(t *testing.T) {
	_, mock, cleanup := testutils.SetupTestDB(t)
	defer cleanup()

	mock.ExpectQuery(`SELECT (.+) FROM "users"`).
		WillReturnRows(userRow(mock, "provider-1", models.ProviderRole))
	mock.ExpectQuery(`SELECT (.+) FROM "chat_threads"`).
		WillReturnRows(threadRow(mock, "thread-1", "client-1", "profile-1", models.ThreadPending))
	mock.ExpectQuery(`SELECT (.+) FROM "profiles"`).
		WillReturnRows(profileRow(mock, "profile-1", "provider-1"))

	mock.ExpectBegin()
	mock.ExpectExec(`UPDATE "chat_threads" SET`).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectCommit()

	r := authedRouter("provider-1", http.MethodPatch, "/chats/:id/status", UpdateThreadStatus)

	body, _ := json.Marshal(map[string]string{"status": "ACCEPTED"})
	req, _ := http.NewRequest(http.MethodPatch, "/chats/thread-1/status", bytes.NewBuffer(body))
	req.Header.Set("Content-Type", "application/json")
	resp := httptest.NewRecorder()

	r.ServeHTTP(resp, req)

	assert.Equal(t, http.StatusOK, resp.Code)

	var thread models.ChatThread
	json.Unmarshal(resp.Body.Bytes(), &thread)
	assert.Equal(t, models.ThreadAccepted, thread.Status)
}

func TestUpdateThreadStatus_NotOwner(t *testing.T) {
	_, mock, cleanup := testutils.SetupTestDB(t)
	defer cleanup()

	mock.ExpectQuery(`SELECT (.+) FROM "users"`).
		WillReturnRows(userRow(mock, "provider-2", models.ProviderRole))
	mock.ExpectQuery(`SELECT (.+) FROM "chat_threads"`).
		WillReturnRows(threadRow(mock, "thread-1", "client-1", "profile-1", models.ThreadPending))
	mock.ExpectQuery(`SELECT (.+) FROM "profiles"`).
		WillReturnRows(profileRow(mock, "profile-1", "provider-1"))

	r := authedRouter("provider-2", http.MethodPatch, "/chats/:id/status", UpdateThreadStatus)

	body, _ := json.Marshal(map[string]string{"status": "ACCEPTED"})
	req, _ := http.NewRequest(http.MethodPatch, "/chats/thread-1/status", bytes.NewBuffer(body))
	req.Header.Set("Content-Type", "application/json")
	resp := httptest.NewRecorder()

	r.ServeHTTP(resp, req)

	assert.Equal(t, http.StatusForbidden, resp.Code)
}

func TestUpdateThreadStatus_RejectedStaysRejected(t *testing.T) {
	_, mock, cleanup := testutils.SetupTestDB(t)
	defer cleanup()

	mock.ExpectQuery(`SELECT (.+) FROM "users"`).
		WillReturnRows(userRow(mock, "provider-1", models.ProviderRole))
	mock.ExpectQuery(`SELECT (.+) FROM "chat_threads"`).
		WillReturnRows(threadRow(mock, "thread-1", "client-1", "profile-1", models.ThreadRejected))
	mock.ExpectQuery(`SELECT (.+) FROM "profiles"`).
		WillReturnRows(profileRow(mock, "profile-1", "provider-1"))

	r := authedRouter("provider-1", http.MethodPatch, "/chats/:id/status", UpdateThreadStatus)

	body, _ := json.Marshal(map[string]string{"status": "ACCEPTED"})
	req, _ := http.NewRequest(http.MethodPatch, "/chats/thread-1/status", bytes.NewBuffer(body))
	req.Header.Set("Content-Type", "application/json")
	resp := httptest.NewRecorder()

	r.ServeHTTP(resp, req)

	assert.Equal(t, http.StatusForbidden, resp.Code)
}

func TestUpdateThreadStatus_InvalidStatus(t *testing.T) {
	_, mock, cleanup := testutils.SetupTestDB(t)
	defer cleanup()

	mock.ExpectQuery(`SELECT (.+) FROM "users"`).
		WillReturnRows(userRow(mock, "provider-1", models.ProviderRole))

	r := authedRouter("provider-1", http.MethodPatch, "/chats/:id/status", UpdateThreadStatus)

	body, _ := json.Marshal(map[string]string{"status": "PENDING"})
	req, _ := http.NewRequest(http.MethodPatch, "/chats/thread-1/status", bytes.NewBuffer(body))
	req.Header.Set("Content-Type", "application/json")
	resp := httptest.NewRecorder()

	r.ServeHTTP(resp, req)

	assert.Equal(t, http.StatusBadRequest, resp.Code)
}

func TestDeleteThread_NotParticipant(t *testing.T) {
	_, mock, cleanup := testutils.SetupTestDB(t)
	defer cleanup()

	mock.ExpectQuery(`SELECT (.+) FROM "users"`).
		WillReturnRows(userRow(mock, "stranger-1", models.ClientRole))
	mock.ExpectQuery(`SELECT (.+) FROM "chat_threads"`).
		WillReturnRows(threadRow(mock, "thread-1", "client-1", "profile-1", models.ThreadAccepted))
	mock.ExpectQuery(`SELECT (.+) FROM "profiles"`).
		WillReturnRows(profileRow(mock, "profile-1", "provider-1"))

	r := authedRouter("stranger-1", http.MethodDelete, "/chats/:id", DeleteThread)

	req, _ := http.NewRequest(http.MethodDelete, "/chats/thread-1", nil)
	resp := httptest.NewRecorder()

	r.ServeHTTP(resp, req)

	assert.Equal(t, http.StatusForbidden, resp.Code)
}

func TestDeleteThread_CascadesMessages(t *testing.T) {
	_, mock, cleanup := testutils.SetupTestDB(t)
	defer cleanup()

	mock.ExpectQuery(`SELECT (.+) FROM "users"`).
		WillReturnRows(userRow(mock, "client-1", models.ClientRole))
	mock.ExpectQuery(`SELECT (.+) FROM "chat_threads"`).
		WillReturnRows(threadRow(mock, "thread-1", "client-1", "profile-1", models.ThreadAccepted))

	mock.ExpectBegin()
	mock.ExpectExec(`DELETE FROM "chat_messages"`).
		WillReturnResult(sqlmock.NewResult(0, 3))
	mock.ExpectCommit()
	mock.ExpectBegin()
	mock.ExpectExec(`DELETE FROM "chat_threads"`).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectCommit()

	r := authedRouter("client-1", http.MethodDelete, "/chats/:id", DeleteThread)

	req, _ := http.NewRequest(http.MethodDelete, "/chats/thread-1", nil)
	resp := httptest.NewRecorder()

	r.ServeHTTP(resp, req)

	assert.Equal(t, http.StatusOK, resp.Code)
	assert.NoError(t, mock.ExpectationsWereMet())
}
