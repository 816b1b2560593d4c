package favorites

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

var favoriteColumns = []string{"id", "client_id", "profile_id", "created_at"}

func authedRouter(userID string, method, path string, handler gin.HandlerFunc) *gin.Engine {
	r := testutils.SetupTestRouter()
	r.Handle(method, path, func(c *gin.Context) {
		c.Set("user_id", userID)
		handler(c)
	})
	return r
}

func sendRequest(r *gin.Engine, method, path string, payload interface{}) *httptest.ResponseRecorder {
	var reqBody *bytes.Buffer
	if payload != nil {
		raw, _ := json.Marshal(payload)
		reqBody = bytes.NewBuffer(raw)
	} else {
		reqBody = bytes.NewBuffer(nil)
	}
	req, _ := http.NewRequest(method, path, reqBody)
	req.Header.Set("Content-Type", "application/json")
	resp := httptest.NewRecorder()
	r.ServeHTTP(resp, req)
	return resp
}

func clientRow(mock sqlmock.Sqlmock) *sqlmock.Rows {
	now := time.Now()
	return mock.NewRows(userColumns).
		AddRow("client-1", "client@example.com", "hash", "Client", models.ClientRole,
			models.UserActive, nil, "", now, now)
}

func TestCreateFavorite_New(t *testing.T) {
	_, mock, cleanup := testutils.SetupTestDB(t)
	defer cleanup()

	now := time.Now()
	mock.ExpectQuery(`SELECT (.+) FROM "users"`).
		WillReturnRows(clientRow(mock))
	mock.ExpectQuery(`SELECT (.+) FROM "profiles"`).
		WillReturnRows(mock.NewRows(profileColumns).
			AddRow("profile-1", "provider-1", "Mia", "", "Paris", 120, true, true, true, now, now))
	mock.ExpectQuery(`SELECT (.+) FROM "favorites"`).
		WillReturnRows(mock.NewRows(favoriteColumns))

	mock.ExpectBegin()
	mock.ExpectQuery(`INSERT INTO "favorites"`).
		WillReturnRows(mock.NewRows([]string{"id"}).AddRow("fav-1"))
	mock.ExpectCommit()

	r := authedRouter("client-1", http.MethodPost, "/favorites", CreateFavorite)
	resp := sendRequest(r, http.MethodPost, "/favorites", models.FavoriteCreate{ProfileID: "profile-1"})

	assert.Equal(t, http.StatusCreated, resp.Code)

	var favorite models.Favorite
	json.Unmarshal(resp.Body.Bytes(), &favorite)
	assert.Equal(t, "fav-1", favorite.ID)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestCreateFavorite_AlreadyBookmarked(t *testing.T) {
	_, mock, cleanup := testutils.SetupTestDB(t)
	defer cleanup()

	now := time.Now()
	mock.ExpectQuery(`SELECT (.+) FROM "users"`).
		WillReturnRows(clientRow(mock))
	mock.ExpectQuery(`SELECT (.+) FROM "profiles"`).
		WillReturnRows(mock.NewRows(profileColumns).
			AddRow("profile-1", "provider-1", "Mia", "", "Paris", 120, true, true, true, now, now))
	mock.ExpectQuery(`SELECT (.+) FROM "favorites"`).
		WillReturnRows(mock.NewRows(favoriteColumns).
			AddRow("fav-1", "client-1", "profile-1", now))

	r := authedRouter("client-1", http.MethodPost, "/favorites", CreateFavorite)
	resp := sendRequest(r, http.MethodPost, "/favorites", models.FavoriteCreate{ProfileID: "profile-1"})

	assert.Equal(t, http.StatusOK, resp.Code)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestCreateFavorite_ProfileNotFound(t *testing.T) {
	_, mock, cleanup := testutils.SetupTestDB(t)
	defer cleanup()

	mock.ExpectQuery(`SELECT (.+) FROM "users"`).
		WillReturnRows(clientRow(mock))
	mock.ExpectQuery(`SELECT (.+) FROM "profiles"`).
		WillReturnRows(mock.NewRows(profileColumns))

	r := authedRouter("client-1", http.MethodPost, "/favorites", CreateFavorite)
	resp := sendRequest(r, http.MethodPost, "/favorites", models.FavoriteCreate{ProfileID: "missing"})

	assert.Equal(t, http.StatusNotFound, resp.Code)
}

func TestDeleteFavorite_NotFound(t *testing.T) {
	_, mock, cleanup := testutils.SetupTestDB(t)
	defer cleanup()

	mock.ExpectQuery(`SELECT (.+) FROM "users"`).
		WillReturnRows(clientRow(mock))

	mock.ExpectBegin()
	mock.ExpectExec(`DELETE FROM "favorites"`).
		WillReturnResult(sqlmock.NewResult(0, 0))
	mock.ExpectCommit()

	r := authedRouter("client-1", http.MethodDelete, "/favorites/:profileId", DeleteFavorite)
	resp := sendRequest(r, http.MethodDelete, "/favorites/profile-9", nil)

	assert.Equal(t, http.StatusNotFound, resp.Code)
}

func TestDeleteFavorite_Success(t *testing.T) {
	_, mock, cleanup := testutils.SetupTestDB(t)
	defer cleanup()

	mock.ExpectQuery(`SELECT (.+) FROM "users"`).
		WillReturnRows(clientRow(mock))

	mock.ExpectBegin()
	mock.ExpectExec(`DELETE FROM "favorites"`).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectCommit()

	r := authedRouter("client-1", http.MethodDelete, "/favorites/:profileId", DeleteFavorite)
	resp := sendRequest(r, http.MethodDelete, "/favorites/profile-1", nil)

	assert.Equal(t, http.StatusOK, resp.Code)
	assert.NoError(t, mock.ExpectationsWereMet())
}
