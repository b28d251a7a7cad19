package handlers

import (
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"lovelog/internal/managers"
	"lovelog/internal/schemas"
	"lovelog/internal/utils"
)

type CountdownHdl interface {
	ListCountdowns(c *gin.Context)
	GetCountdown(c *gin.Context)
	CreateCountdown(c *gin.Context)
	UpdateCountdown(c *gin.Context)
	DeleteCountdown(c *gin.Context)
}

type CountdownHandler struct {
	DatabaseManager managers.DatabaseMgr
}

func NewCountdownHandler(databaseManager *managers.DatabaseMgr) CountdownHdl {
	return &CountdownHandler{
		DatabaseManager: *databaseManager,
	}
}

const countdownColumns = "countdown_id, title, description, target_date, type, direction, is_recurring, recurring_type, created_at, updated_at"

// ListCountdowns returns the user's countdowns ordered by target date. Day
// counts and status labels are derived against the current day on every read.
func (handler *CountdownHandler) ListCountdowns(c *gin.Context) {
	userId := c.GetString(utils.UserIDKey.String())

	whereClause := "WHERE user_id = $1"
	args := []interface{}{userId}
	if countdownType := c.Query(utils.TypeParamKey); countdownType != "" {
		args = append(args, countdownType)
		whereClause += fmt.Sprintf(" AND type = $%d", len(args))
	}
	if direction := c.Query(utils.DirectionParamKey); direction != "" {
		args = append(args, direction)
		whereClause += fmt.Sprintf(" AND direction = $%d", len(args))
	}

	tx, transactionCtx, cancel := utils.BeginTransaction(c, handler.DatabaseManager.GetPool())
	if tx == nil || transactionCtx == nil {
		return
	}
	var err error
	defer func() { utils.RollbackTransaction(c, tx, transactionCtx, cancel, err) }()

	queryString := fmt.Sprintf("SELECT %s FROM lovelog_schema.countdowns %s ORDER BY target_date ASC", countdownColumns, whereClause)
	rows, err := tx.Query(transactionCtx, queryString, args...)
	if err != nil {
		utils.WriteAndLogError(c, schemas.DatabaseError, http.StatusInternalServerError, err)
		return
	}

	now := time.Now()
	countdownDtos := make([]schemas.CountdownDTO, 0)
	for rows.Next() {
		var countdown schemas.Countdown
		if err = rows.Scan(&countdown.ID, &countdown.Title, &countdown.Description, &countdown.TargetDate,
			&countdown.Type, &countdown.Direction, &countdown.IsRecurring, &countdown.RecurringType,
			&countdown.CreatedAt, &countdown.UpdatedAt); err != nil {
			rows.Close()
			utils.WriteAndLogError(c, schemas.DatabaseError, http.StatusInternalServerError, err)
			return
		}
		countdownDtos = append(countdownDtos, buildCountdownDTO(countdown, now))
	}
	rows.Close()
	if err = rows.Err(); err != nil {
		utils.WriteAndLogError(c, schemas.DatabaseError, http.StatusInternalServerError, err)
		return
	}

	if err = utils.CommitTransaction(c, tx, transactionCtx, cancel); err != nil {
		return
	}

	utils.WriteAndLogResponse(c, http.StatusOK, "Countdowns retrieved", gin.H{"countdowns": countdownDtos})
}

// GetCountdown returns a single countdown.
func (handler *CountdownHandler) GetCountdown(c *gin.Context) {
	userId := c.GetString(utils.UserIDKey.String())
	countdownId := c.Param(utils.IdParamKey)

	tx, transactionCtx, cancel := utils.BeginTransaction(c, handler.DatabaseManager.GetPool())
	if tx == nil || transactionCtx == nil {
		return
	}
	var err error
	defer func() { utils.RollbackTransaction(c, tx, transactionCtx, cancel, err) }()

	countdown, err := scanCountdown(c, tx.QueryRow(transactionCtx,
		fmt.Sprintf("SELECT %s FROM lovelog_schema.countdowns WHERE countdown_id = $1 AND user_id = $2", countdownColumns),
		countdownId, userId))
	if err != nil {
		return
	}

	if err = utils.CommitTransaction(c, tx, transactionCtx, cancel); err != nil {
		return
	}

	utils.WriteAndLogResponse(c, http.StatusOK, "Countdown retrieved", buildCountdownDTO(*countdown, time.Now()))
}

// CreateCountdown creates a new countdown. When no direction is given it is
// derived from the target date: past dates count up, future dates count down.
func (handler *CountdownHandler) CreateCountdown(c *gin.Context) {
	createCountdownRequest := &schemas.CreateCountdownRequest{}
	if err := utils.DecodeRequestBody(c, createCountdownRequest); err != nil {
		return
	}

	if err := utils.ValidateStruct(c, createCountdownRequest); err != nil {
		return
	}

	userId := c.GetString(utils.UserIDKey.String())

	targetDate, err := time.Parse(utils.DateLayout, createCountdownRequest.TargetDate)
	if err != nil {
		utils.WriteAndLogError(c, schemas.BadRequest, http.StatusBadRequest, err)
		return
	}

	direction := createCountdownRequest.Direction
	if direction == "" {
		direction = utils.AutoDirection(targetDate, time.Now())
	}

	countdownType := createCountdownRequest.Type
	if countdownType == "" {
		countdownType = "event"
	}

	tx, transactionCtx, cancel := utils.BeginTransaction(c, handler.DatabaseManager.GetPool())
	if tx == nil || transactionCtx == nil {
		return
	}
	defer func() { utils.RollbackTransaction(c, tx, transactionCtx, cancel, err) }()

	countdown := schemas.Countdown{
		ID:            uuid.New(),
		Title:         createCountdownRequest.Title,
		Description:   createCountdownRequest.Description,
		TargetDate:    targetDate,
		Type:          countdownType,
		Direction:     direction,
		IsRecurring:   createCountdownRequest.IsRecurring,
		RecurringType: createCountdownRequest.RecurringType,
		CreatedAt:     time.Now(),
		UpdatedAt:     time.Now(),
	}

	queryString := "INSERT INTO lovelog_schema.countdowns (countdown_id, user_id, title, description, target_date, type, direction, is_recurring, recurring_type, created_at, updated_at) " +
		"VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)"
	if _, err = tx.Exec(transactionCtx, queryString, countdown.ID, userId, countdown.Title, countdown.Description,
		countdown.TargetDate, countdown.Type, countdown.Direction, countdown.IsRecurring, countdown.RecurringType,
		countdown.CreatedAt, countdown.UpdatedAt); err != nil {
		utils.WriteAndLogError(c, schemas.DatabaseError, http.StatusInternalServerError, err)
		return
	}

	if err = utils.CommitTransaction(c, tx, transactionCtx, cancel); err != nil {
		return
	}

	utils.WriteAndLogResponse(c, http.StatusCreated, "Countdown created", buildCountdownDTO(countdown, time.Now()))
}

// UpdateCountdown updates a countdown. Only fields present in the request
// change. A countdown cannot end up recurring without a recurrence interval.
func (handler *CountdownHandler) UpdateCountdown(c *gin.Context) {
	updateCountdownRequest := &schemas.UpdateCountdownRequest{}
	if err := utils.DecodeRequestBody(c, updateCountdownRequest); err != nil {
		return
	}

	if err := utils.ValidateStruct(c, updateCountdownRequest); err != nil {
		return
	}

	userId := c.GetString(utils.UserIDKey.String())
	countdownId := c.Param(utils.IdParamKey)

	tx, transactionCtx, cancel := utils.BeginTransaction(c, handler.DatabaseManager.GetPool())
	if tx == nil || transactionCtx == nil {
		return
	}
	var err error
	defer func() { utils.RollbackTransaction(c, tx, transactionCtx, cancel, err) }()

	countdown, err := scanCountdown(c, tx.QueryRow(transactionCtx,
		fmt.Sprintf("SELECT %s FROM lovelog_schema.countdowns WHERE countdown_id = $1 AND user_id = $2 FOR UPDATE", countdownColumns),
		countdownId, userId))
	if err != nil {
		return
	}

	if updateCountdownRequest.Title != nil {
		countdown.Title = *updateCountdownRequest.Title
	}
	if updateCountdownRequest.Description != nil {
		countdown.Description = *updateCountdownRequest.Description
	}
	if updateCountdownRequest.TargetDate != nil {
		parsed, parseErr := time.Parse(utils.DateLayout, *updateCountdownRequest.TargetDate)
		if parseErr != nil {
			err = parseErr
			utils.WriteAndLogError(c, schemas.BadRequest, http.StatusBadRequest, err)
			return
		}
		countdown.TargetDate = parsed
	}
	if updateCountdownRequest.Type != nil {
		countdown.Type = *updateCountdownRequest.Type
	}
	if updateCountdownRequest.Direction != nil {
		countdown.Direction = *updateCountdownRequest.Direction
	}
	if updateCountdownRequest.IsRecurring != nil {
		countdown.IsRecurring = *updateCountdownRequest.IsRecurring
	}
	if updateCountdownRequest.RecurringType != nil {
		countdown.RecurringType = *updateCountdownRequest.RecurringType
	}

	if countdown.IsRecurring && countdown.RecurringType == "" {
		err = errors.New("recurring countdown without recurrence interval")
		utils.WriteAndLogError(c, schemas.BadRequest.WithMessage("RecurringType is required for a recurring countdown"), http.StatusBadRequest, err)
		return
	}
	countdown.UpdatedAt = time.Now()

	queryString := "UPDATE lovelog_schema.countdowns SET title = $1, description = $2, target_date = $3, type = $4, direction = $5, is_recurring = $6, recurring_type = $7, updated_at = $8 " +
		"WHERE countdown_id = $9 AND user_id = $10"
	if _, err = tx.Exec(transactionCtx, queryString, countdown.Title, countdown.Description, countdown.TargetDate,
		countdown.Type, countdown.Direction, countdown.IsRecurring, countdown.RecurringType, countdown.UpdatedAt,
		countdownId, userId); err != nil {
		utils.WriteAndLogError(c, schemas.DatabaseError, http.StatusInternalServerError, err)
		return
	}

	if err = utils.CommitTransaction(c, tx, transactionCtx, cancel); err != nil {
		return
	}

	utils.WriteAndLogResponse(c, http.StatusOK, "Countdown updated", buildCountdownDTO(*countdown, time.Now()))
}

// DeleteCountdown removes a countdown.
func (handler *CountdownHandler) DeleteCountdown(c *gin.Context) {
	userId := c.GetString(utils.UserIDKey.String())
	countdownId := c.Param(utils.IdParamKey)

	tx, transactionCtx, cancel := utils.BeginTransaction(c, handler.DatabaseManager.GetPool())
	if tx == nil || transactionCtx == nil {
		return
	}
	var err error
	defer func() { utils.RollbackTransaction(c, tx, transactionCtx, cancel, err) }()

	queryString := "DELETE FROM lovelog_schema.countdowns WHERE countdown_id = $1 AND user_id = $2"
	result, err := tx.Exec(transactionCtx, queryString, countdownId, userId)
	if err != nil {
		utils.WriteAndLogError(c, schemas.DatabaseError, http.StatusInternalServerError, err)
		return
	}
	if result.RowsAffected() == 0 {
		err = pgx.ErrNoRows
		utils.WriteAndLogError(c, schemas.CountdownNotFound, http.StatusNotFound, err)
		return
	}

	if err = utils.CommitTransaction(c, tx, transactionCtx, cancel); err != nil {
		return
	}

	utils.WriteAndLogResponse(c, http.StatusOK, "Countdown deleted", nil)
}

// scanCountdown scans one countdown row, translating a missing row into the
// not-found response.
func scanCountdown(c *gin.Context, row pgx.Row) (*schemas.Countdown, error) {
	var countdown schemas.Countdown
	if err := row.Scan(&countdown.ID, &countdown.Title, &countdown.Description, &countdown.TargetDate,
		&countdown.Type, &countdown.Direction, &countdown.IsRecurring, &countdown.RecurringType,
		&countdown.CreatedAt, &countdown.UpdatedAt); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			utils.WriteAndLogError(c, schemas.CountdownNotFound, http.StatusNotFound, err)
			return nil, err
		}

		utils.WriteAndLogError(c, schemas.DatabaseError, http.StatusInternalServerError, err)
		return nil, err
	}

	return &countdown, nil
}

// buildCountdownDTO derives the response view of a countdown relative to now.
func buildCountdownDTO(countdown schemas.Countdown, now time.Time) schemas.CountdownDTO {
	derived := utils.DeriveCountdown(countdown.TargetDate, countdown.Direction, now)

	return schemas.CountdownDTO{
		ID:                  countdown.ID.String(),
		Title:               countdown.Title,
		Description:         countdown.Description,
		TargetDate:          countdown.TargetDate.Format(utils.DateLayout),
		FormattedTargetDate: derived.FormattedTargetDate,
		Type:                countdown.Type,
		Direction:           countdown.Direction,
		IsRecurring:         countdown.IsRecurring,
		RecurringType:       countdown.RecurringType,
		Days:                derived.Days,
		AbsoluteDays:        derived.AbsoluteDays,
		Status:              derived.Status,
		CreatedAt:           countdown.CreatedAt.Format(time.RFC3339),
		UpdatedAt:           countdown.UpdatedAt.Format(time.RFC3339),
	}
}
