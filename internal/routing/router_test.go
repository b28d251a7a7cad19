package routing

import (
	"archive/zip"
	"bytes"
	"crypto/ed25519"
	"crypto/rand"
	"encoding/json"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"net/textproto"
	"testing"
	"time"

	"github.com/gavv/httpexpect/v2"
	"github.com/google/uuid"
	"github.com/pashagolub/pgxmock/v3"
	log "github.com/sirupsen/logrus"
	"github.com/stretchr/testify/mock"
	"golang.org/x/crypto/bcrypt"

	"lovelog/internal/managers"
	"lovelog/internal/managers/mocks"
	"lovelog/internal/utils"
)

// define request payload for user registration
type User struct {
	UserId         string `json:"user_id,omitempty"`
	Username       string `json:"username"`
	Nickname       string `json:"nickname,omitempty"`
	Password       string `json:"password"`
	HashedPassword string `json:"-"`
	Email          string `json:"email"`
}

func setupMocks(t *testing.T) (*mocks.MockDatabaseManager, managers.JWTMgr, *mocks.MockMailManager, *mocks.MockStorageManager) {
	poolMock, err := pgxmock.NewPool()
	if err != nil {
		log.Errorf("Error creating mock database pool: %v", err)
	}

	databaseMgrMock := &mocks.MockDatabaseManager{}
	databaseMgrMock.On("GetPool").Return(poolMock)

	t.Setenv("ENVIRONMENT", "test")
	publicKey, privateKey, err := ed25519.GenerateKey(rand.Reader)
	if err != nil {
		log.Errorf("Error generating key pair: %v", err)
	}
	jwtMgr := managers.NewJWTManager(privateKey, publicKey)

	mailMgrMock := &mocks.MockMailManager{}
	mailMgrMock.On("SendWelcomeMail", mock.AnythingOfType("string"), mock.AnythingOfType("string")).Return(nil)

	storageMgrMock := &mocks.MockStorageManager{}
	storageMgrMock.On("UploadDir").Return(t.TempDir())

	return databaseMgrMock, jwtMgr, mailMgrMock, storageMgrMock
}

func TestUserRegistration(t *testing.T) {
	testCases := []struct {
		name   string
		user   User
		status int
	}{
		{
			"ValidRegistration",
			User{Username: "testUser", Nickname: "Testy", Password: "test.Password123", Email: "test@example.com"},
			http.StatusCreated,
		},
		{
			"InvalidEmail",
			User{Username: "testUser", Password: "test.Password123", Email: "test@example@.com"},
			http.StatusBadRequest,
		},
		{
			"DuplicateUsername",
			User{Username: "duplicateUser", Password: "duplicate.Password123", Email: "duplicate@example.com"},
			http.StatusBadRequest,
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			databaseMgrMock, jwtManagerMock, mailMgrMock, storageMgrMock := setupMocks(t)

			router := InitRouter(databaseMgrMock, mailMgrMock, jwtManagerMock, storageMgrMock)

			server := httptest.NewServer(router)
			defer server.Close()

			poolMock := databaseMgrMock.GetPool().(pgxmock.PgxPoolIface)

			// Mock database calls
			switch tc.name {
			case "InvalidEmail":
				// Validation fails before any database work
			case "DuplicateUsername":
				poolMock.ExpectBegin()
				poolMock.ExpectQuery("SELECT username, email").
					WithArgs(tc.user.Username, tc.user.Email, pgxmock.AnyArg()).
					WillReturnRows(pgxmock.NewRows([]string{"username", "email"}).AddRow(tc.user.Username, "other@example.com"))
				poolMock.ExpectRollback()
			default:
				poolMock.ExpectBegin()
				poolMock.ExpectQuery("SELECT username, email").
					WithArgs(tc.user.Username, tc.user.Email, pgxmock.AnyArg()).
					WillReturnRows(pgxmock.NewRows([]string{"username", "email"}))
				poolMock.ExpectExec("INSERT INTO lovelog_schema.users").
					WithArgs(pgxmock.AnyArg(), tc.user.Username, tc.user.Nickname, tc.user.Email,
						pgxmock.AnyArg(), pgxmock.AnyArg(), pgxmock.AnyArg()).
					WillReturnResult(pgxmock.NewResult("INSERT", 1))
				poolMock.ExpectCommit()
			}

			expect := httpexpect.Default(t, server.URL)
			response := expect.POST("/api/auth/register").WithJSON(tc.user).Expect().Status(tc.status)

			body := response.JSON().Object()
			switch tc.name {
			case "InvalidEmail":
				body.HasValue("success", false)
				body.HasValue("code", "ERR-001")
			case "DuplicateUsername":
				body.HasValue("success", false)
				body.HasValue("code", "ERR-002")
			default:
				body.HasValue("success", true)
				data := body.Value("data").Object()
				data.Value("user").Object().HasValue("username", tc.user.Username)
				data.Value("user").Object().HasValue("nickname", tc.user.Nickname)
				data.Value("user").Object().HasValue("email", tc.user.Email)
				data.Value("token").String().NotEmpty()
				data.Value("refreshToken").String().NotEmpty()
			}

			if err := poolMock.ExpectationsWereMet(); err != nil {
				t.Errorf("there were unfulfilled expectations: %s", err)
			}
		})
	}
}

func TestUserLogin(t *testing.T) {
	createLoginUser := func() User {
		u := User{
			UserId:   uuid.New().String(),
			Username: "testUser",
			Password: "test.Password123",
			Email:    "test@example.com",
		}

		hash, _ := bcrypt.GenerateFromPassword([]byte(u.Password), bcrypt.DefaultCost)
		u.HashedPassword = string(hash)

		return u
	}

	testCases := []struct {
		name     string
		user     User
		password string
		status   int
	}{
		{"ValidLogin", createLoginUser(), "test.Password123", http.StatusOK},
		{"WrongPassword", createLoginUser(), "wrong.Password123", http.StatusUnauthorized},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			databaseMgrMock, jwtManagerMock, mailMgrMock, storageMgrMock := setupMocks(t)

			router := InitRouter(databaseMgrMock, mailMgrMock, jwtManagerMock, storageMgrMock)

			server := httptest.NewServer(router)
			defer server.Close()

			poolMock := databaseMgrMock.GetPool().(pgxmock.PgxPoolIface)

			poolMock.ExpectBegin()
			poolMock.ExpectQuery("SELECT user_id, username, password").
				WithArgs(tc.user.Email).
				WillReturnRows(pgxmock.NewRows([]string{"user_id", "username", "password", "created_at"}).
					AddRow(uuid.MustParse(tc.user.UserId), tc.user.Username, []byte(tc.user.HashedPassword), time.Now()))
			if tc.status == http.StatusOK {
				poolMock.ExpectCommit()
			} else {
				poolMock.ExpectRollback()
			}

			expect := httpexpect.Default(t, server.URL)
			response := expect.POST("/api/auth/login").
				WithJSON(map[string]string{"email": tc.user.Email, "password": tc.password}).
				Expect().Status(tc.status)

			body := response.JSON().Object()
			if tc.status == http.StatusOK {
				body.HasValue("success", true)
				body.Value("data").Object().Value("token").String().NotEmpty()
			} else {
				body.HasValue("success", false)
				body.HasValue("code", "ERR-005")
			}

			if err := poolMock.ExpectationsWereMet(); err != nil {
				t.Errorf("there were unfulfilled expectations: %s", err)
			}
		})
	}
}

func TestCountdownAuthentication(t *testing.T) {
	databaseMgrMock, jwtManagerMock, mailMgrMock, storageMgrMock := setupMocks(t)

	router := InitRouter(databaseMgrMock, mailMgrMock, jwtManagerMock, storageMgrMock)

	server := httptest.NewServer(router)
	defer server.Close()

	poolMock := databaseMgrMock.GetPool().(pgxmock.PgxPoolIface)

	// No token, no database work
	expect := httpexpect.Default(t, server.URL)
	response := expect.GET("/api/countdowns/").Expect().Status(http.StatusUnauthorized)
	response.JSON().Object().HasValue("code", "ERR-014")

	if err := poolMock.ExpectationsWereMet(); err != nil {
		t.Errorf("there were unfulfilled expectations: %s", err)
	}
}

func TestCountdownCreation(t *testing.T) {
	userId := uuid.New().String()

	testCases := []struct {
		name    string
		payload map[string]interface{}
		status  int
	}{
		{
			"ValidCountdown",
			map[string]interface{}{
				"title":      "Trip to Kyoto",
				"targetDate": utils.Midnight(time.Now()).AddDate(0, 0, 10).Format(utils.DateLayout),
			},
			http.StatusCreated,
		},
		{
			"RecurringWithoutInterval",
			map[string]interface{}{
				"title":       "Anniversary",
				"targetDate":  "2024-02-14",
				"isRecurring": true,
			},
			http.StatusBadRequest,
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			databaseMgrMock, jwtManagerMock, mailMgrMock, storageMgrMock := setupMocks(t)

			router := InitRouter(databaseMgrMock, mailMgrMock, jwtManagerMock, storageMgrMock)

			server := httptest.NewServer(router)
			defer server.Close()

			jwtToken, _ := jwtManagerMock.GenerateJWT(userId, "testUser", false)

			poolMock := databaseMgrMock.GetPool().(pgxmock.PgxPoolIface)

			if tc.status == http.StatusCreated {
				poolMock.ExpectBegin()
				poolMock.ExpectExec("INSERT INTO lovelog_schema.countdowns").
					WithArgs(pgxmock.AnyArg(), userId, tc.payload["title"], "", pgxmock.AnyArg(), "event", "countdown",
						false, "", pgxmock.AnyArg(), pgxmock.AnyArg()).
					WillReturnResult(pgxmock.NewResult("INSERT", 1))
				poolMock.ExpectCommit()
			}

			expect := httpexpect.Default(t, server.URL)
			response := expect.POST("/api/countdowns/").
				WithHeader("Authorization", "Bearer "+jwtToken).
				WithJSON(tc.payload).
				Expect().Status(tc.status)

			body := response.JSON().Object()
			if tc.status == http.StatusCreated {
				data := body.Value("data").Object()
				data.HasValue("direction", "countdown")
				data.HasValue("days", 10)
				data.HasValue("absoluteDays", 10)
				data.HasValue("status", "soon")
			} else {
				body.HasValue("success", false)
				body.HasValue("code", "ERR-001")
			}

			if err := poolMock.ExpectationsWereMet(); err != nil {
				t.Errorf("there were unfulfilled expectations: %s", err)
			}
		})
	}
}

func TestCountdownList(t *testing.T) {
	databaseMgrMock, jwtManagerMock, mailMgrMock, storageMgrMock := setupMocks(t)

	router := InitRouter(databaseMgrMock, mailMgrMock, jwtManagerMock, storageMgrMock)

	server := httptest.NewServer(router)
	defer server.Close()

	userId := uuid.New().String()
	jwtToken, _ := jwtManagerMock.GenerateJWT(userId, "testUser", false)

	poolMock := databaseMgrMock.GetPool().(pgxmock.PgxPoolIface)

	// An anniversary 100 days ago: the first day counts as day one, so the
	// signed count is -101 and the status is month-scale
	targetDate := utils.Midnight(time.Now()).AddDate(0, 0, -100)

	poolMock.ExpectBegin()
	poolMock.ExpectQuery("SELECT countdown_id, title").
		WithArgs(userId).
		WillReturnRows(pgxmock.NewRows([]string{"countdown_id", "title", "description", "target_date", "type",
			"direction", "is_recurring", "recurring_type", "created_at", "updated_at"}).
			AddRow(uuid.New(), "First date", "", targetDate, "anniversary", "countup", false, "", time.Now(), time.Now()))
	poolMock.ExpectCommit()

	expect := httpexpect.Default(t, server.URL)
	response := expect.GET("/api/countdowns/").
		WithHeader("Authorization", "Bearer "+jwtToken).
		Expect().Status(http.StatusOK)

	countdowns := response.JSON().Object().Value("data").Object().Value("countdowns").Array()
	countdowns.Length().IsEqual(1)
	first := countdowns.Value(0).Object()
	first.HasValue("days", -101)
	first.HasValue("absoluteDays", 101)
	first.HasValue("status", "month")

	if err := poolMock.ExpectationsWereMet(); err != nil {
		t.Errorf("there were unfulfilled expectations: %s", err)
	}
}

func TestDefaultAlbumProtection(t *testing.T) {
	databaseMgrMock, jwtManagerMock, mailMgrMock, storageMgrMock := setupMocks(t)

	router := InitRouter(databaseMgrMock, mailMgrMock, jwtManagerMock, storageMgrMock)

	server := httptest.NewServer(router)
	defer server.Close()

	userId := uuid.New().String()
	albumId := uuid.New().String()
	jwtToken, _ := jwtManagerMock.GenerateJWT(userId, "testUser", false)

	poolMock := databaseMgrMock.GetPool().(pgxmock.PgxPoolIface)

	poolMock.ExpectBegin()
	poolMock.ExpectQuery("SELECT is_default").
		WithArgs(albumId, userId).
		WillReturnRows(pgxmock.NewRows([]string{"is_default"}).AddRow(true))
	poolMock.ExpectRollback()

	expect := httpexpect.Default(t, server.URL)
	response := expect.DELETE("/api/photos/albums/"+albumId).
		WithHeader("Authorization", "Bearer "+jwtToken).
		Expect().Status(http.StatusBadRequest)

	response.JSON().Object().HasValue("code", "ERR-010")

	if err := poolMock.ExpectationsWereMet(); err != nil {
		t.Errorf("there were unfulfilled expectations: %s", err)
	}
}

func TestProfileRetrieval(t *testing.T) {
	databaseMgrMock, jwtManagerMock, mailMgrMock, storageMgrMock := setupMocks(t)

	router := InitRouter(databaseMgrMock, mailMgrMock, jwtManagerMock, storageMgrMock)

	server := httptest.NewServer(router)
	defer server.Close()

	userId := uuid.New().String()
	jwtToken, _ := jwtManagerMock.GenerateJWT(userId, "testUser", false)

	poolMock := databaseMgrMock.GetPool().(pgxmock.PgxPoolIface)

	poolMock.ExpectBegin()
	poolMock.ExpectQuery("SELECT username, nickname, email, status, profile_picture_url").
		WithArgs(userId).
		WillReturnRows(pgxmock.NewRows([]string{"username", "nickname", "email", "status", "profile_picture_url", "created_at"}).
			AddRow("testUser", "Testy", "test@example.com", "on cloud nine", "/uploads/me.png", time.Now()))
	poolMock.ExpectCommit()

	expect := httpexpect.Default(t, server.URL)
	response := expect.GET("/api/auth/profile").
		WithHeader("Authorization", "Bearer "+jwtToken).
		Expect().Status(http.StatusOK)

	data := response.JSON().Object().Value("data").Object()
	data.HasValue("username", "testUser")
	data.HasValue("nickname", "Testy")
	data.HasValue("status", "on cloud nine")
	data.HasValue("profilePictureUrl", "/uploads/me.png")

	if err := poolMock.ExpectationsWereMet(); err != nil {
		t.Errorf("there were unfulfilled expectations: %s", err)
	}
}

func TestProfileUpdate(t *testing.T) {
	databaseMgrMock, jwtManagerMock, mailMgrMock, storageMgrMock := setupMocks(t)

	router := InitRouter(databaseMgrMock, mailMgrMock, jwtManagerMock, storageMgrMock)

	server := httptest.NewServer(router)
	defer server.Close()

	userId := uuid.New().String()
	jwtToken, _ := jwtManagerMock.GenerateJWT(userId, "testUser", false)

	poolMock := databaseMgrMock.GetPool().(pgxmock.PgxPoolIface)

	payload := map[string]string{
		"username":          "testUser",
		"nickname":          "Sweetheart",
		"email":             "test@example.com",
		"status":            "counting the days",
		"profilePictureUrl": "/uploads/new.png",
	}

	poolMock.ExpectBegin()
	poolMock.ExpectQuery("SELECT username, email").
		WithArgs(payload["username"], payload["email"], pgxmock.AnyArg()).
		WillReturnRows(pgxmock.NewRows([]string{"username", "email"}))
	poolMock.ExpectExec("UPDATE lovelog_schema.users").
		WithArgs(payload["username"], payload["nickname"], payload["email"], payload["status"],
			payload["profilePictureUrl"], pgxmock.AnyArg(), pgxmock.AnyArg()).
		WillReturnResult(pgxmock.NewResult("UPDATE", 1))
	poolMock.ExpectCommit()

	expect := httpexpect.Default(t, server.URL)
	response := expect.PUT("/api/auth/profile").
		WithHeader("Authorization", "Bearer "+jwtToken).
		WithJSON(payload).
		Expect().Status(http.StatusOK)

	data := response.JSON().Object().Value("data").Object()
	data.HasValue("nickname", "Sweetheart")
	data.HasValue("status", "counting the days")
	data.HasValue("profilePictureUrl", "/uploads/new.png")

	if err := poolMock.ExpectationsWereMet(); err != nil {
		t.Errorf("there were unfulfilled expectations: %s", err)
	}
}

func TestPhotoUpload(t *testing.T) {
	databaseMgrMock, jwtManagerMock, mailMgrMock, storageMgrMock := setupMocks(t)

	stored := &managers.StoredFile{
		Filename: "ab12.png",
		Path:     "uploads/ab12.png",
		URL:      "/uploads/ab12.png",
		Size:     14,
		MimeType: "image/png",
	}
	storageMgrMock.On("MaxUploadSize").Return(int64(10 << 20))
	storageMgrMock.On("SaveUpload", mock.Anything).Return(stored, nil)
	storageMgrMock.On("GenerateThumbnail", stored.Filename).Return(nil)

	router := InitRouter(databaseMgrMock, mailMgrMock, jwtManagerMock, storageMgrMock)

	server := httptest.NewServer(router)
	defer server.Close()

	userId := uuid.New().String()
	albumId := uuid.New()
	jwtToken, _ := jwtManagerMock.GenerateJWT(userId, "testUser", false)

	poolMock := databaseMgrMock.GetPool().(pgxmock.PgxPoolIface)

	poolMock.ExpectBegin()
	poolMock.ExpectQuery("SELECT album_id FROM lovelog_schema.albums WHERE user_id").
		WithArgs(userId).
		WillReturnRows(pgxmock.NewRows([]string{"album_id"}).AddRow(albumId))
	poolMock.ExpectExec("INSERT INTO lovelog_schema.photos").
		WithArgs(pgxmock.AnyArg(), userId, albumId, stored.Filename, "beach.png", stored.Path, stored.URL,
			stored.Size, stored.MimeType, "Day at the sea", []string{"beach", "sunset", "holiday"},
			pgxmock.AnyArg(), pgxmock.AnyArg()).
		WillReturnResult(pgxmock.NewResult("INSERT", 1))
	poolMock.ExpectCommit()

	var buf bytes.Buffer
	writer := multipart.NewWriter(&buf)
	partHeader := textproto.MIMEHeader{}
	partHeader.Set("Content-Disposition", `form-data; name="photos"; filename="beach.png"`)
	partHeader.Set("Content-Type", "image/png")
	part, _ := writer.CreatePart(partHeader)
	part.Write([]byte("not a real png"))
	writer.WriteField("description", "Day at the sea")
	writer.WriteField("tags", "beach, sunset, ,holiday")
	writer.Close()

	expect := httpexpect.Default(t, server.URL)
	response := expect.POST("/api/photos/upload").
		WithHeader("Authorization", "Bearer "+jwtToken).
		WithHeader("Content-Type", writer.FormDataContentType()).
		WithBytes(buf.Bytes()).
		Expect().Status(http.StatusCreated)

	photos := response.JSON().Object().Value("data").Object().Value("photos").Array()
	photos.Length().IsEqual(1)
	first := photos.Value(0).Object()
	first.HasValue("description", "Day at the sea")
	first.Value("tags").Array().IsEqual([]string{"beach", "sunset", "holiday"})

	if err := poolMock.ExpectationsWereMet(); err != nil {
		t.Errorf("there were unfulfilled expectations: %s", err)
	}
	storageMgrMock.AssertExpectations(t)
}

func TestAlbumCascadeDeletion(t *testing.T) {
	databaseMgrMock, jwtManagerMock, mailMgrMock, storageMgrMock := setupMocks(t)

	storageMgrMock.On("RemoveFile", "uploads/a.png").Return()
	storageMgrMock.On("RemoveFile", "uploads/b.png").Return()
	storageMgrMock.On("RemoveThumbnail", "a.png").Return()
	storageMgrMock.On("RemoveThumbnail", "b.png").Return()

	router := InitRouter(databaseMgrMock, mailMgrMock, jwtManagerMock, storageMgrMock)

	server := httptest.NewServer(router)
	defer server.Close()

	userId := uuid.New().String()
	albumId := uuid.New().String()
	jwtToken, _ := jwtManagerMock.GenerateJWT(userId, "testUser", false)

	poolMock := databaseMgrMock.GetPool().(pgxmock.PgxPoolIface)

	poolMock.ExpectBegin()
	poolMock.ExpectQuery("SELECT is_default").
		WithArgs(albumId, userId).
		WillReturnRows(pgxmock.NewRows([]string{"is_default"}).AddRow(false))
	poolMock.ExpectQuery("SELECT path, filename").
		WithArgs(albumId).
		WillReturnRows(pgxmock.NewRows([]string{"path", "filename"}).
			AddRow("uploads/a.png", "a.png").
			AddRow("uploads/b.png", "b.png"))
	poolMock.ExpectExec("DELETE FROM lovelog_schema.photos").
		WithArgs(albumId).
		WillReturnResult(pgxmock.NewResult("DELETE", 2))
	poolMock.ExpectExec("DELETE FROM lovelog_schema.albums").
		WithArgs(albumId).
		WillReturnResult(pgxmock.NewResult("DELETE", 1))
	poolMock.ExpectCommit()

	expect := httpexpect.Default(t, server.URL)
	response := expect.DELETE("/api/photos/albums/"+albumId).
		WithHeader("Authorization", "Bearer "+jwtToken).
		Expect().Status(http.StatusOK)

	response.JSON().Object().HasValue("message", "Album deleted with 2 photos")

	if err := poolMock.ExpectationsWereMet(); err != nil {
		t.Errorf("there were unfulfilled expectations: %s", err)
	}
	storageMgrMock.AssertExpectations(t)
}

func TestDiaryPhotoAttachIdempotency(t *testing.T) {
	databaseMgrMock, jwtManagerMock, mailMgrMock, storageMgrMock := setupMocks(t)

	router := InitRouter(databaseMgrMock, mailMgrMock, jwtManagerMock, storageMgrMock)

	server := httptest.NewServer(router)
	defer server.Close()

	userId := uuid.New().String()
	diaryId := uuid.New()
	photoId := uuid.New()
	albumId := uuid.New()
	jwtToken, _ := jwtManagerMock.GenerateJWT(userId, "testUser", false)

	poolMock := databaseMgrMock.GetPool().(pgxmock.PgxPoolIface)

	diaryRows := func() *pgxmock.Rows {
		return pgxmock.NewRows([]string{"diary_id", "title", "content", "mood", "category", "tags",
			"entry_date", "is_public", "created_at", "updated_at"}).
			AddRow(diaryId, "Our day", "We went hiking.", "happy", "", []string{}, time.Now(), false, time.Now(), time.Now())
	}
	attachmentRows := func() *pgxmock.Rows {
		return pgxmock.NewRows([]string{"diary_id", "photo_id", "album_id", "filename", "original_name",
			"url", "size", "mime_type", "description", "tags", "created_at"}).
			AddRow(diaryId, photoId, albumId, "a.png", "orig.png", "/uploads/a.png", int64(10), "image/png", "", []string{}, time.Now())
	}

	// The second attach of the same photo inserts nothing and the diary
	// still lists the photo exactly once
	for _, inserted := range []int64{1, 0} {
		poolMock.ExpectBegin()
		poolMock.ExpectQuery("SELECT diary_id, title").
			WithArgs(diaryId.String(), userId).
			WillReturnRows(diaryRows())
		poolMock.ExpectExec("INSERT INTO lovelog_schema.diary_photos").
			WithArgs(diaryId.String(), []string{photoId.String()}, userId).
			WillReturnResult(pgxmock.NewResult("INSERT", inserted))
		poolMock.ExpectQuery("SELECT dp.diary_id, p.photo_id").
			WithArgs([]uuid.UUID{diaryId}).
			WillReturnRows(attachmentRows())
		poolMock.ExpectCommit()
	}

	expect := httpexpect.Default(t, server.URL)
	payload := map[string]interface{}{"photoIds": []string{photoId.String()}}

	for i := 0; i < 2; i++ {
		response := expect.POST("/api/diaries/"+diaryId.String()+"/photos").
			WithHeader("Authorization", "Bearer "+jwtToken).
			WithJSON(payload).
			Expect().Status(http.StatusOK)

		data := response.JSON().Object().Value("data").Object()
		data.HasValue("title", "Our day")
		attached := data.Value("attachedPhotos").Array()
		attached.Length().IsEqual(1)
		attached.Value(0).Object().HasValue("id", photoId.String())
	}

	if err := poolMock.ExpectationsWereMet(); err != nil {
		t.Errorf("there were unfulfilled expectations: %s", err)
	}
}

func TestBackupExport(t *testing.T) {
	databaseMgrMock, jwtManagerMock, mailMgrMock, storageMgrMock := setupMocks(t)

	router := InitRouter(databaseMgrMock, mailMgrMock, jwtManagerMock, storageMgrMock)

	server := httptest.NewServer(router)
	defer server.Close()

	userId := uuid.New().String()
	diaryId := uuid.New()
	photoId := uuid.New()
	albumId := uuid.New()
	jwtToken, _ := jwtManagerMock.GenerateJWT(userId, "testUser", false)

	poolMock := databaseMgrMock.GetPool().(pgxmock.PgxPoolIface)
	// The collections are fetched concurrently, arrival order is not fixed
	poolMock.MatchExpectationsInOrder(false)

	poolMock.ExpectQuery("SELECT diary_id, user_id, title").
		WithArgs(userId).
		WillReturnRows(pgxmock.NewRows([]string{"diary_id", "user_id", "title", "content", "mood", "category",
			"tags", "entry_date", "is_public", "created_at", "updated_at"}).
			AddRow(diaryId, uuid.MustParse(userId), "Our day", "We went hiking.", "happy", "", []string{},
				time.Now(), false, time.Now(), time.Now()))
	poolMock.ExpectQuery("SELECT dp.diary_id, dp.photo_id").
		WithArgs(userId).
		WillReturnRows(pgxmock.NewRows([]string{"diary_id", "photo_id"}).AddRow(diaryId, photoId))
	poolMock.ExpectQuery("SELECT album_id, user_id, name").
		WithArgs(userId).
		WillReturnRows(pgxmock.NewRows([]string{"album_id", "user_id", "name", "description", "cover_photo",
			"is_default", "created_at", "updated_at"}))
	poolMock.ExpectQuery("SELECT photo_id, user_id, album_id").
		WithArgs(userId).
		WillReturnRows(pgxmock.NewRows([]string{"photo_id", "user_id", "album_id", "filename", "original_name",
			"path", "url", "size", "mime_type", "description", "tags", "created_at", "updated_at"}).
			AddRow(photoId, uuid.MustParse(userId), albumId, "a.png", "orig.png", "missing/a.png",
				"/uploads/a.png", int64(10), "image/png", "", []string{}, time.Now(), time.Now()))
	poolMock.ExpectQuery("SELECT countdown_id, user_id, title").
		WithArgs(userId).
		WillReturnRows(pgxmock.NewRows([]string{"countdown_id", "user_id", "title", "description", "target_date",
			"type", "direction", "is_recurring", "recurring_type", "created_at", "updated_at"}))

	expect := httpexpect.Default(t, server.URL)
	response := expect.GET("/api/backup/export").
		WithHeader("Authorization", "Bearer "+jwtToken).
		Expect().Status(http.StatusOK)

	response.Header("Content-Type").IsEqual("application/zip")
	response.Header("Content-Disposition").Contains("lovelog-backup-" + userId)

	raw := []byte(response.Body().Raw())
	archive, err := zip.NewReader(bytes.NewReader(raw), int64(len(raw)))
	if err != nil {
		t.Fatalf("response is not a readable zip: %v", err)
	}

	metadataFile, err := archive.Open("metadata.json")
	if err != nil {
		t.Fatalf("metadata.json missing from archive: %v", err)
	}
	defer metadataFile.Close()

	var metadata struct {
		Diaries []struct {
			AttachedPhotos []string `json:"attached_photos"`
		} `json:"diaries"`
	}
	if err := json.NewDecoder(metadataFile).Decode(&metadata); err != nil {
		t.Fatalf("could not decode metadata.json: %v", err)
	}

	if len(metadata.Diaries) != 1 {
		t.Fatalf("expected 1 diary in metadata, got %d", len(metadata.Diaries))
	}
	if len(metadata.Diaries[0].AttachedPhotos) != 1 || metadata.Diaries[0].AttachedPhotos[0] != photoId.String() {
		t.Errorf("expected diary to list photo %s, got %v", photoId, metadata.Diaries[0].AttachedPhotos)
	}

	if err := poolMock.ExpectationsWereMet(); err != nil {
		t.Errorf("there were unfulfilled expectations: %s", err)
	}
}

func TestDiaryDeletion(t *testing.T) {
	testCases := []struct {
		name         string
		rowsAffected int64
		status       int
	}{
		{"OwnedDiary", 1, http.StatusOK},
		{"UnknownDiary", 0, http.StatusNotFound},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			databaseMgrMock, jwtManagerMock, mailMgrMock, storageMgrMock := setupMocks(t)

			router := InitRouter(databaseMgrMock, mailMgrMock, jwtManagerMock, storageMgrMock)

			server := httptest.NewServer(router)
			defer server.Close()

			userId := uuid.New().String()
			diaryId := uuid.New().String()
			jwtToken, _ := jwtManagerMock.GenerateJWT(userId, "testUser", false)

			poolMock := databaseMgrMock.GetPool().(pgxmock.PgxPoolIface)

			poolMock.ExpectBegin()
			poolMock.ExpectExec("DELETE FROM lovelog_schema.diaries").
				WithArgs(diaryId, userId).
				WillReturnResult(pgxmock.NewResult("DELETE", tc.rowsAffected))
			if tc.status == http.StatusOK {
				poolMock.ExpectCommit()
			} else {
				poolMock.ExpectRollback()
			}

			expect := httpexpect.Default(t, server.URL)
			response := expect.DELETE("/api/diaries/"+diaryId).
				WithHeader("Authorization", "Bearer "+jwtToken).
				Expect().Status(tc.status)

			if tc.status == http.StatusNotFound {
				response.JSON().Object().HasValue("code", "ERR-006")
			}

			if err := poolMock.ExpectationsWereMet(); err != nil {
				t.Errorf("there were unfulfilled expectations: %s", err)
			}
		})
	}
}
