package handlers

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"

	"lovelog/internal/interfaces"
	"lovelog/internal/managers"
	"lovelog/internal/schemas"
	"lovelog/internal/utils"
)

type BackupHdl interface {
	ExportBackup(c *gin.Context)
}

type BackupHandler struct {
	DatabaseManager managers.DatabaseMgr
}

func NewBackupHandler(databaseManager *managers.DatabaseMgr) BackupHdl {
	return &BackupHandler{
		DatabaseManager: *databaseManager,
	}
}

// ExportBackup streams a zip archive of everything the user owns: a
// metadata.json snapshot of all records plus the photo files. The collections
// are fetched concurrently; any fetch error fails the request before the
// first byte of the archive is written. Photo files missing on disk are
// skipped, the metadata still names them.
func (handler *BackupHandler) ExportBackup(c *gin.Context) {
	userId := c.GetString(utils.UserIDKey.String())
	pool := handler.DatabaseManager.GetPool()

	fetchCtx, cancel := context.WithDeadline(c.Request.Context(), time.Now().Add(30*time.Second))
	defer cancel()

	metadata := schemas.BackupMetadata{ExportedAt: time.Now()}

	group, groupCtx := errgroup.WithContext(fetchCtx)
	group.Go(func() error {
		diaries, err := fetchUserDiaries(groupCtx, pool, userId)
		metadata.Diaries = diaries
		return err
	})
	group.Go(func() error {
		albums, err := fetchUserAlbums(groupCtx, pool, userId)
		metadata.Albums = albums
		return err
	})
	group.Go(func() error {
		photos, err := fetchUserPhotos(groupCtx, pool, userId)
		metadata.Photos = photos
		return err
	})
	group.Go(func() error {
		countdowns, err := fetchUserCountdowns(groupCtx, pool, userId)
		metadata.Countdowns = countdowns
		return err
	})

	if err := group.Wait(); err != nil {
		utils.WriteAndLogError(c, schemas.ExportFailed, http.StatusInternalServerError, err)
		return
	}

	metadataBytes, err := json.MarshalIndent(metadata, "", "  ")
	if err != nil {
		utils.WriteAndLogError(c, schemas.ExportFailed, http.StatusInternalServerError, err)
		return
	}

	files := make([]utils.ArchiveFile, 0, len(metadata.Photos))
	for _, photo := range metadata.Photos {
		files = append(files, utils.ArchiveFile{
			Name: photo.Filename,
			Path: photo.Path,
		})
	}

	filename := fmt.Sprintf("lovelog-backup-%s-%d.zip", userId, time.Now().UnixMilli())
	c.Header("Content-Type", "application/zip")
	c.Header("Content-Disposition", "attachment; filename="+filename)
	c.Status(http.StatusOK)

	// Headers are out, errors from here on can only be logged
	if err := utils.WriteBackupArchive(c.Writer, metadataBytes, files); err != nil {
		utils.LogMessageWithFields(c, "error", "Backup archive aborted mid-stream: "+err.Error())
	}
}

func fetchUserDiaries(ctx context.Context, pool interfaces.PgxPoolIface, userId string) ([]schemas.Diary, error) {
	queryString := "SELECT diary_id, user_id, title, content, mood, category, tags, entry_date, is_public, created_at, updated_at " +
		"FROM lovelog_schema.diaries WHERE user_id = $1 ORDER BY entry_date DESC"
	rows, err := pool.Query(ctx, queryString, userId)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	diaries := make([]schemas.Diary, 0)
	for rows.Next() {
		var diary schemas.Diary
		if err := rows.Scan(&diary.ID, &diary.UserID, &diary.Title, &diary.Content, &diary.Mood, &diary.Category,
			&diary.Tags, &diary.EntryDate, &diary.IsPublic, &diary.CreatedAt, &diary.UpdatedAt); err != nil {
			return nil, err
		}
		diary.AttachedPhotos = make([]uuid.UUID, 0)
		diaries = append(diaries, diary)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	if err := loadDiaryAttachments(ctx, pool, userId, diaries); err != nil {
		return nil, err
	}

	return diaries, nil
}

// loadDiaryAttachments fills AttachedPhotos for each diary in attach order.
func loadDiaryAttachments(ctx context.Context, pool interfaces.PgxPoolIface, userId string, diaries []schemas.Diary) error {
	if len(diaries) == 0 {
		return nil
	}

	queryString := "SELECT dp.diary_id, dp.photo_id FROM lovelog_schema.diary_photos dp " +
		"JOIN lovelog_schema.diaries d ON d.diary_id = dp.diary_id " +
		"WHERE d.user_id = $1 ORDER BY dp.attached_at"
	rows, err := pool.Query(ctx, queryString, userId)
	if err != nil {
		return err
	}
	defer rows.Close()

	indexById := make(map[uuid.UUID]int, len(diaries))
	for i, diary := range diaries {
		indexById[diary.ID] = i
	}

	for rows.Next() {
		var diaryId, photoId uuid.UUID
		if err := rows.Scan(&diaryId, &photoId); err != nil {
			return err
		}
		if i, ok := indexById[diaryId]; ok {
			diaries[i].AttachedPhotos = append(diaries[i].AttachedPhotos, photoId)
		}
	}

	return rows.Err()
}

func fetchUserAlbums(ctx context.Context, pool interfaces.PgxPoolIface, userId string) ([]schemas.Album, error) {
	queryString := "SELECT album_id, user_id, name, description, cover_photo, is_default, created_at, updated_at " +
		"FROM lovelog_schema.albums WHERE user_id = $1 ORDER BY created_at ASC"
	rows, err := pool.Query(ctx, queryString, userId)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	albums := make([]schemas.Album, 0)
	for rows.Next() {
		var album schemas.Album
		if err := rows.Scan(&album.ID, &album.UserID, &album.Name, &album.Description, &album.CoverPhoto,
			&album.IsDefault, &album.CreatedAt, &album.UpdatedAt); err != nil {
			return nil, err
		}
		albums = append(albums, album)
	}

	return albums, rows.Err()
}

func fetchUserPhotos(ctx context.Context, pool interfaces.PgxPoolIface, userId string) ([]schemas.Photo, error) {
	queryString := "SELECT photo_id, user_id, album_id, filename, original_name, path, url, size, mime_type, description, tags, created_at, updated_at " +
		"FROM lovelog_schema.photos WHERE user_id = $1 ORDER BY created_at ASC"
	rows, err := pool.Query(ctx, queryString, userId)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	photos := make([]schemas.Photo, 0)
	for rows.Next() {
		var photo schemas.Photo
		if err := rows.Scan(&photo.ID, &photo.UserID, &photo.AlbumID, &photo.Filename, &photo.OriginalName,
			&photo.Path, &photo.URL, &photo.Size, &photo.MimeType, &photo.Description, &photo.Tags,
			&photo.CreatedAt, &photo.UpdatedAt); err != nil {
			return nil, err
		}
		photos = append(photos, photo)
	}

	return photos, rows.Err()
}

func fetchUserCountdowns(ctx context.Context, pool interfaces.PgxPoolIface, userId string) ([]schemas.Countdown, error) {
	queryString := "SELECT countdown_id, user_id, title, description, target_date, type, direction, is_recurring, recurring_type, created_at, updated_at " +
		"FROM lovelog_schema.countdowns WHERE user_id = $1 ORDER BY target_date ASC"
	rows, err := pool.Query(ctx, queryString, userId)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	countdowns := make([]schemas.Countdown, 0)
	for rows.Next() {
		var countdown schemas.Countdown
		if err := rows.Scan(&countdown.ID, &countdown.UserID, &countdown.Title, &countdown.Description,
			&countdown.TargetDate, &countdown.Type, &countdown.Direction, &countdown.IsRecurring,
			&countdown.RecurringType, &countdown.CreatedAt, &countdown.UpdatedAt); err != nil {
			return nil, err
		}
		countdowns = append(countdowns, countdown)
	}

	return countdowns, rows.Err()
}
