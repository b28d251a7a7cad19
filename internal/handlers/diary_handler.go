package handlers

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"lovelog/internal/managers"
	"lovelog/internal/schemas"
	"lovelog/internal/utils"
)

type DiaryHdl interface {
	ListDiaries(c *gin.Context)
	GetDiary(c *gin.Context)
	CreateDiary(c *gin.Context)
	UpdateDiary(c *gin.Context)
	DeleteDiary(c *gin.Context)
	GetCategories(c *gin.Context)
	GetTags(c *gin.Context)
	AttachPhotos(c *gin.Context)
	RemovePhoto(c *gin.Context)
}

type DiaryHandler struct {
	DatabaseManager managers.DatabaseMgr
}

func NewDiaryHandler(databaseManager *managers.DatabaseMgr) DiaryHdl {
	return &DiaryHandler{
		DatabaseManager: *databaseManager,
	}
}

const diaryColumns = "diary_id, title, content, mood, category, tags, entry_date, is_public, created_at, updated_at"

// ListDiaries returns the authenticated user's diary entries, newest entry
// date first, filtered by category, mood, date range and free-text search.
// The search term matches title, content and tags case-insensitively.
func (handler *DiaryHandler) ListDiaries(c *gin.Context) {
	userId := c.GetString(utils.UserIDKey.String())
	page, limit := utils.ParsePageParams(c, 10)

	whereClause := "WHERE user_id = $1"
	args := []interface{}{userId}

	if category := c.Query(utils.CategoryParamKey); category != "" {
		args = append(args, category)
		whereClause += fmt.Sprintf(" AND category = $%d", len(args))
	}
	if mood := c.Query(utils.MoodParamKey); mood != "" {
		args = append(args, mood)
		whereClause += fmt.Sprintf(" AND mood = $%d", len(args))
	}
	if startDate := c.Query(utils.StartDateParamKey); startDate != "" {
		args = append(args, startDate)
		whereClause += fmt.Sprintf(" AND entry_date >= $%d", len(args))
	}
	if endDate := c.Query(utils.EndDateParamKey); endDate != "" {
		args = append(args, endDate)
		whereClause += fmt.Sprintf(" AND entry_date <= $%d", len(args))
	}
	if search := c.Query(utils.SearchParamKey); search != "" {
		args = append(args, "%"+search+"%")
		n := len(args)
		whereClause += fmt.Sprintf(" AND (title ILIKE $%d OR content ILIKE $%d OR EXISTS (SELECT 1 FROM unnest(tags) tag WHERE tag ILIKE $%d))", n, n, n)
	}

	tx, transactionCtx, cancel := utils.BeginTransaction(c, handler.DatabaseManager.GetPool())
	if tx == nil || transactionCtx == nil {
		return
	}
	var err error
	defer func() { utils.RollbackTransaction(c, tx, transactionCtx, cancel, err) }()

	var total int
	countQuery := "SELECT COUNT(*) FROM lovelog_schema.diaries " + whereClause
	if err = tx.QueryRow(transactionCtx, countQuery, args...).Scan(&total); err != nil {
		utils.WriteAndLogError(c, schemas.DatabaseError, http.StatusInternalServerError, err)
		return
	}

	listArgs := append(args, limit, (page-1)*limit)
	listQuery := fmt.Sprintf("SELECT %s FROM lovelog_schema.diaries %s ORDER BY entry_date DESC, created_at DESC LIMIT $%d OFFSET $%d",
		diaryColumns, whereClause, len(listArgs)-1, len(listArgs))

	rows, err := tx.Query(transactionCtx, listQuery, listArgs...)
	if err != nil {
		utils.WriteAndLogError(c, schemas.DatabaseError, http.StatusInternalServerError, err)
		return
	}

	diaries := make([]schemas.Diary, 0)
	for rows.Next() {
		var diary schemas.Diary
		if err = rows.Scan(&diary.ID, &diary.Title, &diary.Content, &diary.Mood, &diary.Category, &diary.Tags,
			&diary.EntryDate, &diary.IsPublic, &diary.CreatedAt, &diary.UpdatedAt); err != nil {
			rows.Close()
			utils.WriteAndLogError(c, schemas.DatabaseError, http.StatusInternalServerError, err)
			return
		}
		diaries = append(diaries, diary)
	}
	rows.Close()
	if err = rows.Err(); err != nil {
		utils.WriteAndLogError(c, schemas.DatabaseError, http.StatusInternalServerError, err)
		return
	}

	photosByDiary, err := fetchAttachedPhotos(c, tx, transactionCtx, diaries)
	if err != nil {
		return
	}

	if err = utils.CommitTransaction(c, tx, transactionCtx, cancel); err != nil {
		return
	}

	diaryDtos := make([]schemas.DiaryDTO, 0, len(diaries))
	for _, diary := range diaries {
		diaryDtos = append(diaryDtos, buildDiaryDTO(diary, photosByDiary[diary.ID]))
	}

	utils.WriteAndLogResponse(c, http.StatusOK, "Diaries retrieved", gin.H{
		"diaries":    diaryDtos,
		"pagination": utils.NewPaginationDTO(page, limit, total),
	})
}

// GetDiary returns a single diary entry with its attached photos.
func (handler *DiaryHandler) GetDiary(c *gin.Context) {
	userId := c.GetString(utils.UserIDKey.String())
	diaryId := c.Param(utils.IdParamKey)

	tx, transactionCtx, cancel := utils.BeginTransaction(c, handler.DatabaseManager.GetPool())
	if tx == nil || transactionCtx == nil {
		return
	}
	var err error
	defer func() { utils.RollbackTransaction(c, tx, transactionCtx, cancel, err) }()

	queryString := fmt.Sprintf("SELECT %s FROM lovelog_schema.diaries WHERE diary_id = $1 AND user_id = $2", diaryColumns)
	var diary schemas.Diary
	row := tx.QueryRow(transactionCtx, queryString, diaryId, userId)
	if err = row.Scan(&diary.ID, &diary.Title, &diary.Content, &diary.Mood, &diary.Category, &diary.Tags,
		&diary.EntryDate, &diary.IsPublic, &diary.CreatedAt, &diary.UpdatedAt); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			utils.WriteAndLogError(c, schemas.DiaryNotFound, http.StatusNotFound, err)
			return
		}

		utils.WriteAndLogError(c, schemas.DatabaseError, http.StatusInternalServerError, err)
		return
	}

	photosByDiary, err := fetchAttachedPhotos(c, tx, transactionCtx, []schemas.Diary{diary})
	if err != nil {
		return
	}

	if err = utils.CommitTransaction(c, tx, transactionCtx, cancel); err != nil {
		return
	}

	utils.WriteAndLogResponse(c, http.StatusOK, "Diary retrieved", buildDiaryDTO(diary, photosByDiary[diary.ID]))
}

// CreateDiary creates a new diary entry. The entry date defaults to today,
// and photos named in the request are attached when they belong to the user.
func (handler *DiaryHandler) CreateDiary(c *gin.Context) {
	createDiaryRequest := &schemas.CreateDiaryRequest{}
	if err := utils.DecodeRequestBody(c, createDiaryRequest); err != nil {
		return
	}

	if err := utils.ValidateStruct(c, createDiaryRequest); err != nil {
		return
	}

	userId := c.GetString(utils.UserIDKey.String())

	entryDate := utils.Midnight(time.Now())
	if createDiaryRequest.Date != "" {
		parsed, err := time.Parse(utils.DateLayout, createDiaryRequest.Date)
		if err != nil {
			utils.WriteAndLogError(c, schemas.BadRequest, http.StatusBadRequest, err)
			return
		}
		entryDate = parsed
	}

	tx, transactionCtx, cancel := utils.BeginTransaction(c, handler.DatabaseManager.GetPool())
	if tx == nil || transactionCtx == nil {
		return
	}
	var err error
	defer func() { utils.RollbackTransaction(c, tx, transactionCtx, cancel, err) }()

	diary := schemas.Diary{
		ID:        uuid.New(),
		Title:     createDiaryRequest.Title,
		Content:   createDiaryRequest.Content,
		Mood:      createDiaryRequest.Mood,
		Category:  createDiaryRequest.Category,
		Tags:      createDiaryRequest.Tags,
		EntryDate: entryDate,
		IsPublic:  createDiaryRequest.IsPublic,
		CreatedAt: time.Now(),
		UpdatedAt: time.Now(),
	}
	if diary.Tags == nil {
		diary.Tags = []string{}
	}

	queryString := "INSERT INTO lovelog_schema.diaries (diary_id, user_id, title, content, mood, category, tags, entry_date, is_public, created_at, updated_at) " +
		"VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)"
	if _, err = tx.Exec(transactionCtx, queryString, diary.ID, userId, diary.Title, diary.Content, diary.Mood,
		diary.Category, diary.Tags, diary.EntryDate, diary.IsPublic, diary.CreatedAt, diary.UpdatedAt); err != nil {
		utils.WriteAndLogError(c, schemas.DatabaseError, http.StatusInternalServerError, err)
		return
	}

	if len(createDiaryRequest.PhotoIds) > 0 {
		if err = attachOwnedPhotos(c, tx, transactionCtx, diary.ID.String(), userId, createDiaryRequest.PhotoIds); err != nil {
			return
		}
	}

	photosByDiary, err := fetchAttachedPhotos(c, tx, transactionCtx, []schemas.Diary{diary})
	if err != nil {
		return
	}

	if err = utils.CommitTransaction(c, tx, transactionCtx, cancel); err != nil {
		return
	}

	utils.WriteAndLogResponse(c, http.StatusCreated, "Diary created", buildDiaryDTO(diary, photosByDiary[diary.ID]))
}

// UpdateDiary updates a diary entry. Only fields present in the request
// change; the stored row is locked, overlaid and written back in one
// transaction.
func (handler *DiaryHandler) UpdateDiary(c *gin.Context) {
	updateDiaryRequest := &schemas.UpdateDiaryRequest{}
	if err := utils.DecodeRequestBody(c, updateDiaryRequest); err != nil {
		return
	}

	if err := utils.ValidateStruct(c, updateDiaryRequest); err != nil {
		return
	}

	userId := c.GetString(utils.UserIDKey.String())
	diaryId := c.Param(utils.IdParamKey)

	tx, transactionCtx, cancel := utils.BeginTransaction(c, handler.DatabaseManager.GetPool())
	if tx == nil || transactionCtx == nil {
		return
	}
	var err error
	defer func() { utils.RollbackTransaction(c, tx, transactionCtx, cancel, err) }()

	queryString := fmt.Sprintf("SELECT %s FROM lovelog_schema.diaries WHERE diary_id = $1 AND user_id = $2 FOR UPDATE", diaryColumns)
	var diary schemas.Diary
	row := tx.QueryRow(transactionCtx, queryString, diaryId, userId)
	if err = row.Scan(&diary.ID, &diary.Title, &diary.Content, &diary.Mood, &diary.Category, &diary.Tags,
		&diary.EntryDate, &diary.IsPublic, &diary.CreatedAt, &diary.UpdatedAt); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			utils.WriteAndLogError(c, schemas.DiaryNotFound, http.StatusNotFound, err)
			return
		}

		utils.WriteAndLogError(c, schemas.DatabaseError, http.StatusInternalServerError, err)
		return
	}

	if updateDiaryRequest.Title != nil {
		diary.Title = *updateDiaryRequest.Title
	}
	if updateDiaryRequest.Content != nil {
		diary.Content = *updateDiaryRequest.Content
	}
	if updateDiaryRequest.Mood != nil {
		diary.Mood = *updateDiaryRequest.Mood
	}
	if updateDiaryRequest.Category != nil {
		diary.Category = *updateDiaryRequest.Category
	}
	if updateDiaryRequest.Tags != nil {
		diary.Tags = *updateDiaryRequest.Tags
	}
	if updateDiaryRequest.Date != nil {
		parsed, parseErr := time.Parse(utils.DateLayout, *updateDiaryRequest.Date)
		if parseErr != nil {
			err = parseErr
			utils.WriteAndLogError(c, schemas.BadRequest, http.StatusBadRequest, err)
			return
		}
		diary.EntryDate = parsed
	}
	if updateDiaryRequest.IsPublic != nil {
		diary.IsPublic = *updateDiaryRequest.IsPublic
	}
	diary.UpdatedAt = time.Now()

	queryString = "UPDATE lovelog_schema.diaries SET title = $1, content = $2, mood = $3, category = $4, tags = $5, entry_date = $6, is_public = $7, updated_at = $8 " +
		"WHERE diary_id = $9 AND user_id = $10"
	if _, err = tx.Exec(transactionCtx, queryString, diary.Title, diary.Content, diary.Mood, diary.Category,
		diary.Tags, diary.EntryDate, diary.IsPublic, diary.UpdatedAt, diaryId, userId); err != nil {
		utils.WriteAndLogError(c, schemas.DatabaseError, http.StatusInternalServerError, err)
		return
	}

	photosByDiary, err := fetchAttachedPhotos(c, tx, transactionCtx, []schemas.Diary{diary})
	if err != nil {
		return
	}

	if err = utils.CommitTransaction(c, tx, transactionCtx, cancel); err != nil {
		return
	}

	utils.WriteAndLogResponse(c, http.StatusOK, "Diary updated", buildDiaryDTO(diary, photosByDiary[diary.ID]))
}

// DeleteDiary removes a diary entry. Attachment rows go with it; the photos
// themselves stay in their albums.
func (handler *DiaryHandler) DeleteDiary(c *gin.Context) {
	userId := c.GetString(utils.UserIDKey.String())
	diaryId := c.Param(utils.IdParamKey)

	tx, transactionCtx, cancel := utils.BeginTransaction(c, handler.DatabaseManager.GetPool())
	if tx == nil || transactionCtx == nil {
		return
	}
	var err error
	defer func() { utils.RollbackTransaction(c, tx, transactionCtx, cancel, err) }()

	queryString := "DELETE FROM lovelog_schema.diaries WHERE diary_id = $1 AND user_id = $2"
	result, err := tx.Exec(transactionCtx, queryString, diaryId, userId)
	if err != nil {
		utils.WriteAndLogError(c, schemas.DatabaseError, http.StatusInternalServerError, err)
		return
	}
	if result.RowsAffected() == 0 {
		err = pgx.ErrNoRows
		utils.WriteAndLogError(c, schemas.DiaryNotFound, http.StatusNotFound, err)
		return
	}

	if err = utils.CommitTransaction(c, tx, transactionCtx, cancel); err != nil {
		return
	}

	utils.WriteAndLogResponse(c, http.StatusOK, "Diary deleted", nil)
}

// GetCategories returns the distinct categories used by the user's entries.
func (handler *DiaryHandler) GetCategories(c *gin.Context) {
	handler.listDistinct(c, "SELECT DISTINCT category FROM lovelog_schema.diaries WHERE user_id = $1 AND category != '' ORDER BY category",
		"Categories retrieved", "categories")
}

// GetTags returns the distinct tags used by the user's entries.
func (handler *DiaryHandler) GetTags(c *gin.Context) {
	handler.listDistinct(c, "SELECT DISTINCT unnest(tags) AS tag FROM lovelog_schema.diaries WHERE user_id = $1 ORDER BY tag",
		"Tags retrieved", "tags")
}

func (handler *DiaryHandler) listDistinct(c *gin.Context, queryString, message, key string) {
	userId := c.GetString(utils.UserIDKey.String())

	tx, transactionCtx, cancel := utils.BeginTransaction(c, handler.DatabaseManager.GetPool())
	if tx == nil || transactionCtx == nil {
		return
	}
	var err error
	defer func() { utils.RollbackTransaction(c, tx, transactionCtx, cancel, err) }()

	rows, err := tx.Query(transactionCtx, queryString, userId)
	if err != nil {
		utils.WriteAndLogError(c, schemas.DatabaseError, http.StatusInternalServerError, err)
		return
	}

	values := make([]string, 0)
	for rows.Next() {
		var value string
		if err = rows.Scan(&value); err != nil {
			rows.Close()
			utils.WriteAndLogError(c, schemas.DatabaseError, http.StatusInternalServerError, err)
			return
		}
		values = append(values, value)
	}
	rows.Close()
	if err = rows.Err(); err != nil {
		utils.WriteAndLogError(c, schemas.DatabaseError, http.StatusInternalServerError, err)
		return
	}

	if err = utils.CommitTransaction(c, tx, transactionCtx, cancel); err != nil {
		return
	}

	utils.WriteAndLogResponse(c, http.StatusOK, message, gin.H{key: values})
}

// AttachPhotos attaches the given photos to a diary entry. Photos already
// attached or not owned by the user are skipped silently, so the operation
// can be retried.
func (handler *DiaryHandler) AttachPhotos(c *gin.Context) {
	attachPhotosRequest := &schemas.AttachPhotosRequest{}
	if err := utils.DecodeRequestBody(c, attachPhotosRequest); err != nil {
		return
	}

	if err := utils.ValidateStruct(c, attachPhotosRequest); err != nil {
		return
	}

	userId := c.GetString(utils.UserIDKey.String())
	diaryId := c.Param(utils.IdParamKey)

	tx, transactionCtx, cancel := utils.BeginTransaction(c, handler.DatabaseManager.GetPool())
	if tx == nil || transactionCtx == nil {
		return
	}
	var err error
	defer func() { utils.RollbackTransaction(c, tx, transactionCtx, cancel, err) }()

	var diary schemas.Diary
	queryString := fmt.Sprintf("SELECT %s FROM lovelog_schema.diaries WHERE diary_id = $1 AND user_id = $2", diaryColumns)
	row := tx.QueryRow(transactionCtx, queryString, diaryId, userId)
	if err = row.Scan(&diary.ID, &diary.Title, &diary.Content, &diary.Mood, &diary.Category, &diary.Tags,
		&diary.EntryDate, &diary.IsPublic, &diary.CreatedAt, &diary.UpdatedAt); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			utils.WriteAndLogError(c, schemas.DiaryNotFound, http.StatusNotFound, err)
			return
		}

		utils.WriteAndLogError(c, schemas.DatabaseError, http.StatusInternalServerError, err)
		return
	}

	if err = attachOwnedPhotos(c, tx, transactionCtx, diaryId, userId, attachPhotosRequest.PhotoIds); err != nil {
		return
	}

	photosByDiary, err := fetchAttachedPhotos(c, tx, transactionCtx, []schemas.Diary{diary})
	if err != nil {
		return
	}

	if err = utils.CommitTransaction(c, tx, transactionCtx, cancel); err != nil {
		return
	}

	utils.WriteAndLogResponse(c, http.StatusOK, "Photos attached", buildDiaryDTO(diary, photosByDiary[diary.ID]))
}

// RemovePhoto detaches a photo from a diary entry. Detaching a photo that is
// not attached is a no-op.
func (handler *DiaryHandler) RemovePhoto(c *gin.Context) {
	userId := c.GetString(utils.UserIDKey.String())
	diaryId := c.Param(utils.IdParamKey)
	photoId := c.Param(utils.PhotoIdKey)

	tx, transactionCtx, cancel := utils.BeginTransaction(c, handler.DatabaseManager.GetPool())
	if tx == nil || transactionCtx == nil {
		return
	}
	var err error
	defer func() { utils.RollbackTransaction(c, tx, transactionCtx, cancel, err) }()

	queryString := "SELECT diary_id FROM lovelog_schema.diaries WHERE diary_id = $1 AND user_id = $2"
	var foundId uuid.UUID
	if err = tx.QueryRow(transactionCtx, queryString, diaryId, userId).Scan(&foundId); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			utils.WriteAndLogError(c, schemas.DiaryNotFound, http.StatusNotFound, err)
			return
		}

		utils.WriteAndLogError(c, schemas.DatabaseError, http.StatusInternalServerError, err)
		return
	}

	queryString = "DELETE FROM lovelog_schema.diary_photos WHERE diary_id = $1 AND photo_id = $2"
	if _, err = tx.Exec(transactionCtx, queryString, diaryId, photoId); err != nil {
		utils.WriteAndLogError(c, schemas.DatabaseError, http.StatusInternalServerError, err)
		return
	}

	if err = utils.CommitTransaction(c, tx, transactionCtx, cancel); err != nil {
		return
	}

	utils.WriteAndLogResponse(c, http.StatusOK, "Photo detached", nil)
}

// attachOwnedPhotos inserts attachment rows for every photo ID the user
// actually owns. Duplicate attachments are ignored.
func attachOwnedPhotos(c *gin.Context, tx pgx.Tx, ctx context.Context, diaryId, userId string, photoIds []string) error {
	queryString := "INSERT INTO lovelog_schema.diary_photos (diary_id, photo_id) " +
		"SELECT $1, photo_id FROM lovelog_schema.photos WHERE photo_id = ANY($2) AND user_id = $3 " +
		"ON CONFLICT DO NOTHING"
	if _, err := tx.Exec(ctx, queryString, diaryId, photoIds, userId); err != nil {
		utils.WriteAndLogError(c, schemas.DatabaseError, http.StatusInternalServerError, err)
		return err
	}
	return nil
}

// fetchAttachedPhotos loads the photos attached to the given diaries in one
// query and groups them by diary.
func fetchAttachedPhotos(c *gin.Context, tx pgx.Tx, ctx context.Context, diaries []schemas.Diary) (map[uuid.UUID][]schemas.PhotoDTO, error) {
	photosByDiary := make(map[uuid.UUID][]schemas.PhotoDTO, len(diaries))
	if len(diaries) == 0 {
		return photosByDiary, nil
	}

	diaryIds := make([]uuid.UUID, 0, len(diaries))
	for _, diary := range diaries {
		diaryIds = append(diaryIds, diary.ID)
	}

	queryString := "SELECT dp.diary_id, p.photo_id, p.album_id, p.filename, p.original_name, p.url, p.size, p.mime_type, p.description, p.tags, p.created_at " +
		"FROM lovelog_schema.diary_photos dp " +
		"JOIN lovelog_schema.photos p ON p.photo_id = dp.photo_id " +
		"WHERE dp.diary_id = ANY($1) " +
		"ORDER BY dp.attached_at"
	rows, err := tx.Query(ctx, queryString, diaryIds)
	if err != nil {
		utils.WriteAndLogError(c, schemas.DatabaseError, http.StatusInternalServerError, err)
		return nil, err
	}
	defer rows.Close()

	for rows.Next() {
		var diaryId uuid.UUID
		var photo schemas.Photo
		if err := rows.Scan(&diaryId, &photo.ID, &photo.AlbumID, &photo.Filename, &photo.OriginalName,
			&photo.URL, &photo.Size, &photo.MimeType, &photo.Description, &photo.Tags, &photo.CreatedAt); err != nil {
			utils.WriteAndLogError(c, schemas.DatabaseError, http.StatusInternalServerError, err)
			return nil, err
		}
		photosByDiary[diaryId] = append(photosByDiary[diaryId], buildPhotoDTO(photo))
	}

	if err := rows.Err(); err != nil {
		utils.WriteAndLogError(c, schemas.DatabaseError, http.StatusInternalServerError, err)
		return nil, err
	}

	return photosByDiary, nil
}

// buildDiaryDTO derives the response view of a diary entry. The word count
// and the human-readable date are computed here, never stored.
func buildDiaryDTO(diary schemas.Diary, attachedPhotos []schemas.PhotoDTO) schemas.DiaryDTO {
	if attachedPhotos == nil {
		attachedPhotos = []schemas.PhotoDTO{}
	}
	tags := diary.Tags
	if tags == nil {
		tags = []string{}
	}

	return schemas.DiaryDTO{
		ID:             diary.ID.String(),
		Title:          diary.Title,
		Content:        diary.Content,
		Mood:           diary.Mood,
		Category:       diary.Category,
		Tags:           tags,
		Date:           diary.EntryDate.Format(utils.DateLayout),
		FormattedDate:  diary.EntryDate.Format("January 2, 2006"),
		WordCount:      len(strings.Fields(diary.Content)),
		IsPublic:       diary.IsPublic,
		AttachedPhotos: attachedPhotos,
		CreatedAt:      diary.CreatedAt.Format(time.RFC3339),
		UpdatedAt:      diary.UpdatedAt.Format(time.RFC3339),
	}
}
