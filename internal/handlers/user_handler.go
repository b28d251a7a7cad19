package handlers

import (
	"context"
	"errors"
	"net/http"
	"os"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"
	"github.com/jackc/pgx/v5"

	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"

	"lovelog/internal/managers"
	"lovelog/internal/schemas"
	"lovelog/internal/utils"
)

type UserHdl interface {
	Register(c *gin.Context)
	Login(c *gin.Context)
	RefreshToken(c *gin.Context)
	GetProfile(c *gin.Context)
	UpdateProfile(c *gin.Context)
	ChangePassword(c *gin.Context)
}

type UserHandler struct {
	DatabaseManager managers.DatabaseMgr
	JWTManager      managers.JWTMgr
	MailManager     managers.MailMgr
}

func NewUserHandler(databaseManager *managers.DatabaseMgr, jwtManager *managers.JWTMgr, mailManager *managers.MailMgr) UserHdl {
	return &UserHandler{
		DatabaseManager: *databaseManager,
		JWTManager:      *jwtManager,
		MailManager:     *mailManager,
	}
}

// Register creates a new account and answers with the user and a fresh token
// pair, so the client is logged in right away.
func (handler *UserHandler) Register(c *gin.Context) {
	// Decode the request body into the registration request struct
	registrationRequest := &schemas.RegistrationRequest{}
	if err := utils.DecodeRequestBody(c, registrationRequest); err != nil {
		return
	}

	// Validate the registration request struct using the validator
	if err := utils.ValidateStruct(c, registrationRequest); err != nil {
		return
	}

	// Begin a new transaction
	tx, transactionCtx, cancel := utils.BeginTransaction(c, handler.DatabaseManager.GetPool())
	if tx == nil || transactionCtx == nil {
		return
	}
	var err error
	defer func() { utils.RollbackTransaction(c, tx, transactionCtx, cancel, err) }()

	// Check if the username or email is taken
	if err = checkUsernameEmailTaken(transactionCtx, c, tx, registrationRequest.Username, registrationRequest.Email, uuid.Nil); err != nil {
		return
	}

	// Check if the email is reachable, if enabled
	if os.Getenv("VERIFY_EMAIL") == "true" && !utils.GetValidator().VerifyEmail(registrationRequest.Email) {
		err = errors.New("email unreachable")
		utils.WriteAndLogError(c, schemas.EmailUnreachable, http.StatusBadRequest, err)
		return
	}

	hashedPassword, err := bcrypt.GenerateFromPassword([]byte(registrationRequest.Password), bcrypt.DefaultCost)
	if err != nil {
		utils.WriteAndLogError(c, schemas.InternalServerError, http.StatusInternalServerError, err)
		return
	}

	// Insert the user into the database
	userId := uuid.New()
	createdAt := time.Now()

	queryString := "INSERT INTO lovelog_schema.users (user_id, username, nickname, email, password, created_at, updated_at) VALUES ($1, $2, $3, $4, $5, $6, $7)"
	if _, err = tx.Exec(transactionCtx, queryString, userId, registrationRequest.Username, registrationRequest.Nickname, registrationRequest.Email, hashedPassword, createdAt, createdAt); err != nil {
		utils.WriteAndLogError(c, schemas.DatabaseError, http.StatusInternalServerError, err)
		return
	}

	// Commit the transaction
	if err = utils.CommitTransaction(c, tx, transactionCtx, cancel); err != nil {
		return
	}

	tokenPair, err := generateTokenPair(handler.JWTManager, userId.String(), registrationRequest.Username)
	if err != nil {
		utils.WriteAndLogError(c, schemas.InternalServerError, http.StatusInternalServerError, err)
		return
	}

	// A failed welcome mail must not fail the registration
	if mailErr := handler.MailManager.SendWelcomeMail(registrationRequest.Email, registrationRequest.Username); mailErr != nil {
		utils.LogMessageWithFields(c, "warn", "Failed to send welcome mail: "+mailErr.Error())
	}

	userDto := &schemas.UserDTO{
		ID:        userId.String(),
		Username:  registrationRequest.Username,
		Nickname:  registrationRequest.Nickname,
		Email:     registrationRequest.Email,
		CreatedAt: createdAt.Format(time.RFC3339),
	}

	utils.WriteAndLogResponse(c, http.StatusCreated, "Registration successful", gin.H{
		"user":         userDto,
		"token":        tokenPair.Token,
		"refreshToken": tokenPair.RefreshToken,
	})
}

// Login verifies the credentials and answers with the user and a fresh token
// pair. A wrong email and a wrong password are indistinguishable on purpose.
func (handler *UserHandler) Login(c *gin.Context) {
	loginRequest := &schemas.LoginRequest{}
	if err := utils.DecodeRequestBody(c, loginRequest); err != nil {
		return
	}

	if err := utils.ValidateStruct(c, loginRequest); err != nil {
		return
	}

	tx, transactionCtx, cancel := utils.BeginTransaction(c, handler.DatabaseManager.GetPool())
	if tx == nil || transactionCtx == nil {
		return
	}
	var err error
	defer func() { utils.RollbackTransaction(c, tx, transactionCtx, cancel, err) }()

	var userId uuid.UUID
	var username string
	var hashedPassword []byte
	var createdAt time.Time

	queryString := "SELECT user_id, username, password, created_at FROM lovelog_schema.users WHERE email = $1"
	row := tx.QueryRow(transactionCtx, queryString, loginRequest.Email)
	if err = row.Scan(&userId, &username, &hashedPassword, &createdAt); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			utils.WriteAndLogError(c, schemas.InvalidCredentials, http.StatusUnauthorized, err)
			return
		}

		utils.WriteAndLogError(c, schemas.DatabaseError, http.StatusInternalServerError, err)
		return
	}

	if err = bcrypt.CompareHashAndPassword(hashedPassword, []byte(loginRequest.Password)); err != nil {
		utils.WriteAndLogError(c, schemas.InvalidCredentials, http.StatusUnauthorized, err)
		return
	}

	if err = utils.CommitTransaction(c, tx, transactionCtx, cancel); err != nil {
		return
	}

	tokenPair, err := generateTokenPair(handler.JWTManager, userId.String(), username)
	if err != nil {
		utils.WriteAndLogError(c, schemas.InternalServerError, http.StatusInternalServerError, err)
		return
	}

	userDto := &schemas.UserDTO{
		ID:        userId.String(),
		Username:  username,
		Email:     loginRequest.Email,
		CreatedAt: createdAt.Format(time.RFC3339),
	}

	utils.WriteAndLogResponse(c, http.StatusOK, "Login successful", gin.H{
		"user":         userDto,
		"token":        tokenPair.Token,
		"refreshToken": tokenPair.RefreshToken,
	})
}

// RefreshToken exchanges a valid refresh token for a new token pair.
func (handler *UserHandler) RefreshToken(c *gin.Context) {
	refreshTokenRequest := &schemas.RefreshTokenRequest{}
	if err := utils.DecodeRequestBody(c, refreshTokenRequest); err != nil {
		return
	}

	if err := utils.ValidateStruct(c, refreshTokenRequest); err != nil {
		return
	}

	refreshTokenClaims, err := handler.JWTManager.ValidateJWT(refreshTokenRequest.RefreshToken)
	if err != nil {
		utils.WriteAndLogError(c, schemas.InvalidToken, http.StatusUnauthorized, err)
		return
	}

	claims, ok := refreshTokenClaims.(jwt.MapClaims)
	if !ok {
		utils.WriteAndLogError(c, schemas.InvalidToken, http.StatusUnauthorized, errors.New("malformed claims"))
		return
	}

	refreshClaim, _ := claims["refresh"].(string)
	if refreshClaim != "true" {
		utils.WriteAndLogError(c, schemas.InvalidToken, http.StatusUnauthorized, errors.New("access token used as refresh token"))
		return
	}

	userId, _ := claims["sub"].(string)
	username, _ := claims["username"].(string)

	tokenPair, err := generateTokenPair(handler.JWTManager, userId, username)
	if err != nil {
		utils.WriteAndLogError(c, schemas.InternalServerError, http.StatusInternalServerError, err)
		return
	}

	utils.WriteAndLogResponse(c, http.StatusOK, "Token refreshed", tokenPair)
}

// GetProfile returns the authenticated user's profile.
func (handler *UserHandler) GetProfile(c *gin.Context) {
	userId := c.GetString(utils.UserIDKey.String())

	tx, transactionCtx, cancel := utils.BeginTransaction(c, handler.DatabaseManager.GetPool())
	if tx == nil || transactionCtx == nil {
		return
	}
	var err error
	defer func() { utils.RollbackTransaction(c, tx, transactionCtx, cancel, err) }()

	var username, nickname, email, status, profilePictureUrl string
	var createdAt time.Time

	queryString := "SELECT username, nickname, email, status, profile_picture_url, created_at FROM lovelog_schema.users WHERE user_id = $1"
	row := tx.QueryRow(transactionCtx, queryString, userId)
	if err = row.Scan(&username, &nickname, &email, &status, &profilePictureUrl, &createdAt); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			utils.WriteAndLogError(c, schemas.UserNotFound, http.StatusNotFound, err)
			return
		}

		utils.WriteAndLogError(c, schemas.DatabaseError, http.StatusInternalServerError, err)
		return
	}

	if err = utils.CommitTransaction(c, tx, transactionCtx, cancel); err != nil {
		return
	}

	userDto := &schemas.UserDTO{
		ID:                userId,
		Username:          username,
		Nickname:          nickname,
		Email:             email,
		Status:            status,
		ProfilePictureURL: profilePictureUrl,
		CreatedAt:         createdAt.Format(time.RFC3339),
	}

	utils.WriteAndLogResponse(c, http.StatusOK, "Profile retrieved", userDto)
}

// UpdateProfile changes the authenticated user's username, nickname, email,
// status and profile picture. The uniqueness check excludes the user's own
// row so resubmitting the current values succeeds.
func (handler *UserHandler) UpdateProfile(c *gin.Context) {
	changeProfileRequest := &schemas.ChangeProfileRequest{}
	if err := utils.DecodeRequestBody(c, changeProfileRequest); err != nil {
		return
	}

	if err := utils.ValidateStruct(c, changeProfileRequest); err != nil {
		return
	}

	userId, err := uuid.Parse(c.GetString(utils.UserIDKey.String()))
	if err != nil {
		utils.WriteAndLogError(c, schemas.Unauthorized, http.StatusUnauthorized, err)
		return
	}

	tx, transactionCtx, cancel := utils.BeginTransaction(c, handler.DatabaseManager.GetPool())
	if tx == nil || transactionCtx == nil {
		return
	}
	defer func() { utils.RollbackTransaction(c, tx, transactionCtx, cancel, err) }()

	if err = checkUsernameEmailTaken(transactionCtx, c, tx, changeProfileRequest.Username, changeProfileRequest.Email, userId); err != nil {
		return
	}

	queryString := "UPDATE lovelog_schema.users SET username = $1, nickname = $2, email = $3, status = $4, profile_picture_url = $5, updated_at = $6 WHERE user_id = $7"
	result, err := tx.Exec(transactionCtx, queryString, changeProfileRequest.Username, changeProfileRequest.Nickname,
		changeProfileRequest.Email, changeProfileRequest.Status, changeProfileRequest.ProfilePictureURL, time.Now(), userId)
	if err != nil {
		utils.WriteAndLogError(c, schemas.DatabaseError, http.StatusInternalServerError, err)
		return
	}
	if result.RowsAffected() == 0 {
		err = pgx.ErrNoRows
		utils.WriteAndLogError(c, schemas.UserNotFound, http.StatusNotFound, err)
		return
	}

	if err = utils.CommitTransaction(c, tx, transactionCtx, cancel); err != nil {
		return
	}

	userDto := &schemas.UserDTO{
		ID:                userId.String(),
		Username:          changeProfileRequest.Username,
		Nickname:          changeProfileRequest.Nickname,
		Email:             changeProfileRequest.Email,
		Status:            changeProfileRequest.Status,
		ProfilePictureURL: changeProfileRequest.ProfilePictureURL,
	}

	utils.WriteAndLogResponse(c, http.StatusOK, "Profile updated", userDto)
}

// ChangePassword sets a new password after verifying the current one.
func (handler *UserHandler) ChangePassword(c *gin.Context) {
	changePasswordRequest := &schemas.ChangePasswordRequest{}
	if err := utils.DecodeRequestBody(c, changePasswordRequest); err != nil {
		return
	}

	if err := utils.ValidateStruct(c, changePasswordRequest); err != nil {
		return
	}

	userId := c.GetString(utils.UserIDKey.String())

	tx, transactionCtx, cancel := utils.BeginTransaction(c, handler.DatabaseManager.GetPool())
	if tx == nil || transactionCtx == nil {
		return
	}
	var err error
	defer func() { utils.RollbackTransaction(c, tx, transactionCtx, cancel, err) }()

	var hashedPassword []byte
	queryString := "SELECT password FROM lovelog_schema.users WHERE user_id = $1"
	row := tx.QueryRow(transactionCtx, queryString, userId)
	if err = row.Scan(&hashedPassword); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			utils.WriteAndLogError(c, schemas.UserNotFound, http.StatusNotFound, err)
			return
		}

		utils.WriteAndLogError(c, schemas.DatabaseError, http.StatusInternalServerError, err)
		return
	}

	if err = bcrypt.CompareHashAndPassword(hashedPassword, []byte(changePasswordRequest.CurrentPassword)); err != nil {
		utils.WriteAndLogError(c, schemas.PasswordIncorrect, http.StatusBadRequest, err)
		return
	}

	newHashedPassword, err := bcrypt.GenerateFromPassword([]byte(changePasswordRequest.NewPassword), bcrypt.DefaultCost)
	if err != nil {
		utils.WriteAndLogError(c, schemas.InternalServerError, http.StatusInternalServerError, err)
		return
	}

	queryString = "UPDATE lovelog_schema.users SET password = $1, updated_at = $2 WHERE user_id = $3"
	if _, err = tx.Exec(transactionCtx, queryString, newHashedPassword, time.Now(), userId); err != nil {
		utils.WriteAndLogError(c, schemas.DatabaseError, http.StatusInternalServerError, err)
		return
	}

	if err = utils.CommitTransaction(c, tx, transactionCtx, cancel); err != nil {
		return
	}

	utils.WriteAndLogResponse(c, http.StatusOK, "Password changed", nil)
}

// checkUsernameEmailTaken verifies that neither the username nor the email
// belong to another account. excludeId skips the caller's own row on profile
// updates; pass uuid.Nil during registration.
func checkUsernameEmailTaken(ctx context.Context, c *gin.Context, tx pgx.Tx, username, email string, excludeId uuid.UUID) error {
	queryString := "SELECT username, email FROM lovelog_schema.users WHERE (username = $1 OR email = $2) AND user_id != $3"
	rows, err := tx.Query(ctx, queryString, username, email, excludeId)
	if err != nil {
		utils.WriteAndLogError(c, schemas.DatabaseError, http.StatusInternalServerError, err)
		return err
	}
	defer rows.Close()

	for rows.Next() {
		var foundUsername, foundEmail string
		if err := rows.Scan(&foundUsername, &foundEmail); err != nil {
			utils.WriteAndLogError(c, schemas.DatabaseError, http.StatusInternalServerError, err)
			return err
		}

		if foundUsername == username {
			err := errors.New("username taken")
			utils.WriteAndLogError(c, schemas.UsernameTaken, http.StatusBadRequest, err)
			return err
		}

		err := errors.New("email taken")
		utils.WriteAndLogError(c, schemas.EmailTaken, http.StatusBadRequest, err)
		return err
	}

	return rows.Err()
}

// generateTokenPair issues a fresh access and refresh token for the user.
func generateTokenPair(jwtManager managers.JWTMgr, userId, username string) (*schemas.TokenPairDTO, error) {
	token, err := jwtManager.GenerateJWT(userId, username, false)
	if err != nil {
		return nil, err
	}

	refreshToken, err := jwtManager.GenerateJWT(userId, username, true)
	if err != nil {
		return nil, err
	}

	return &schemas.TokenPairDTO{
		Token:        token,
		RefreshToken: refreshToken,
	}, nil
}
