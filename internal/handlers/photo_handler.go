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

type PhotoHdl interface {
	GetAlbums(c *gin.Context)
	CreateAlbum(c *gin.Context)
	UpdateAlbum(c *gin.Context)
	DeleteAlbum(c *gin.Context)
	GetPhotos(c *gin.Context)
	UploadPhotos(c *gin.Context)
	DeletePhoto(c *gin.Context)
}

type PhotoHandler struct {
	DatabaseManager managers.DatabaseMgr
	StorageManager  managers.StorageMgr
}

func NewPhotoHandler(databaseManager *managers.DatabaseMgr, storageManager *managers.StorageMgr) PhotoHdl {
	return &PhotoHandler{
		DatabaseManager: *databaseManager,
		StorageManager:  *storageManager,
	}
}

// maxFilesPerUpload caps the number of files accepted in one request.
const maxFilesPerUpload = 20

// GetAlbums returns all albums of the user together with their photo counts,
// default album first.
func (handler *PhotoHandler) GetAlbums(c *gin.Context) {
	userId := c.GetString(utils.UserIDKey.String())

	tx, transactionCtx, cancel := utils.BeginTransaction(c, handler.DatabaseManager.GetPool())
	if tx == nil || transactionCtx == nil {
		return
	}
	var err error
	defer func() { utils.RollbackTransaction(c, tx, transactionCtx, cancel, err) }()

	queryString := "SELECT a.album_id, a.name, a.description, a.cover_photo, a.is_default, a.created_at, a.updated_at, COUNT(p.photo_id) " +
		"FROM lovelog_schema.albums a " +
		"LEFT JOIN lovelog_schema.photos p ON p.album_id = a.album_id " +
		"WHERE a.user_id = $1 " +
		"GROUP BY a.album_id " +
		"ORDER BY a.is_default DESC, a.created_at ASC"
	rows, err := tx.Query(transactionCtx, queryString, userId)
	if err != nil {
		utils.WriteAndLogError(c, schemas.DatabaseError, http.StatusInternalServerError, err)
		return
	}

	albumDtos := make([]schemas.AlbumDTO, 0)
	for rows.Next() {
		var album schemas.Album
		var photoCount int
		if err = rows.Scan(&album.ID, &album.Name, &album.Description, &album.CoverPhoto, &album.IsDefault,
			&album.CreatedAt, &album.UpdatedAt, &photoCount); err != nil {
			rows.Close()
			utils.WriteAndLogError(c, schemas.DatabaseError, http.StatusInternalServerError, err)
			return
		}
		albumDtos = append(albumDtos, buildAlbumDTO(album, photoCount))
	}
	rows.Close()
	if err = rows.Err(); err != nil {
		utils.WriteAndLogError(c, schemas.DatabaseError, http.StatusInternalServerError, err)
		return
	}

	if err = utils.CommitTransaction(c, tx, transactionCtx, cancel); err != nil {
		return
	}

	utils.WriteAndLogResponse(c, http.StatusOK, "Albums retrieved", gin.H{"albums": albumDtos})
}

// CreateAlbum creates a new album. Flagging it as the default moves the flag
// off any previous default in the same transaction.
func (handler *PhotoHandler) CreateAlbum(c *gin.Context) {
	createAlbumRequest := &schemas.CreateAlbumRequest{}
	if err := utils.DecodeRequestBody(c, createAlbumRequest); err != nil {
		return
	}

	if err := utils.ValidateStruct(c, createAlbumRequest); err != nil {
		return
	}

	userId := c.GetString(utils.UserIDKey.String())

	tx, transactionCtx, cancel := utils.BeginTransaction(c, handler.DatabaseManager.GetPool())
	if tx == nil || transactionCtx == nil {
		return
	}
	var err error
	defer func() { utils.RollbackTransaction(c, tx, transactionCtx, cancel, err) }()

	if createAlbumRequest.IsDefault {
		if err = unsetDefaultAlbum(c, tx, transactionCtx, userId); err != nil {
			return
		}
	}

	album := schemas.Album{
		ID:          uuid.New(),
		Name:        createAlbumRequest.Name,
		Description: createAlbumRequest.Description,
		IsDefault:   createAlbumRequest.IsDefault,
		CreatedAt:   time.Now(),
		UpdatedAt:   time.Now(),
	}

	queryString := "INSERT INTO lovelog_schema.albums (album_id, user_id, name, description, cover_photo, is_default, created_at, updated_at) " +
		"VALUES ($1, $2, $3, $4, $5, $6, $7, $8)"
	if _, err = tx.Exec(transactionCtx, queryString, album.ID, userId, album.Name, album.Description, "",
		album.IsDefault, album.CreatedAt, album.UpdatedAt); err != nil {
		utils.WriteAndLogError(c, schemas.DatabaseError, http.StatusInternalServerError, err)
		return
	}

	if err = utils.CommitTransaction(c, tx, transactionCtx, cancel); err != nil {
		return
	}

	utils.WriteAndLogResponse(c, http.StatusCreated, "Album created", buildAlbumDTO(album, 0))
}

// UpdateAlbum updates an album. Only fields present in the request change;
// promoting an album to default demotes the previous default.
func (handler *PhotoHandler) UpdateAlbum(c *gin.Context) {
	updateAlbumRequest := &schemas.UpdateAlbumRequest{}
	if err := utils.DecodeRequestBody(c, updateAlbumRequest); err != nil {
		return
	}

	if err := utils.ValidateStruct(c, updateAlbumRequest); err != nil {
		return
	}

	userId := c.GetString(utils.UserIDKey.String())
	albumId := c.Param(utils.IdParamKey)

	tx, transactionCtx, cancel := utils.BeginTransaction(c, handler.DatabaseManager.GetPool())
	if tx == nil || transactionCtx == nil {
		return
	}
	var err error
	defer func() { utils.RollbackTransaction(c, tx, transactionCtx, cancel, err) }()

	var album schemas.Album
	queryString := "SELECT album_id, name, description, cover_photo, is_default, created_at, updated_at " +
		"FROM lovelog_schema.albums WHERE album_id = $1 AND user_id = $2 FOR UPDATE"
	row := tx.QueryRow(transactionCtx, queryString, albumId, userId)
	if err = row.Scan(&album.ID, &album.Name, &album.Description, &album.CoverPhoto, &album.IsDefault,
		&album.CreatedAt, &album.UpdatedAt); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			utils.WriteAndLogError(c, schemas.AlbumNotFound, http.StatusNotFound, err)
			return
		}

		utils.WriteAndLogError(c, schemas.DatabaseError, http.StatusInternalServerError, err)
		return
	}

	if updateAlbumRequest.Name != nil {
		album.Name = *updateAlbumRequest.Name
	}
	if updateAlbumRequest.Description != nil {
		album.Description = *updateAlbumRequest.Description
	}
	if updateAlbumRequest.CoverPhoto != nil {
		album.CoverPhoto = *updateAlbumRequest.CoverPhoto
	}
	if updateAlbumRequest.IsDefault != nil && *updateAlbumRequest.IsDefault && !album.IsDefault {
		if err = unsetDefaultAlbum(c, tx, transactionCtx, userId); err != nil {
			return
		}
		album.IsDefault = true
	}
	album.UpdatedAt = time.Now()

	queryString = "UPDATE lovelog_schema.albums SET name = $1, description = $2, cover_photo = $3, is_default = $4, updated_at = $5 " +
		"WHERE album_id = $6 AND user_id = $7"
	if _, err = tx.Exec(transactionCtx, queryString, album.Name, album.Description, album.CoverPhoto,
		album.IsDefault, album.UpdatedAt, albumId, userId); err != nil {
		utils.WriteAndLogError(c, schemas.DatabaseError, http.StatusInternalServerError, err)
		return
	}

	var photoCount int
	queryString = "SELECT COUNT(*) FROM lovelog_schema.photos WHERE album_id = $1"
	if err = tx.QueryRow(transactionCtx, queryString, albumId).Scan(&photoCount); err != nil {
		utils.WriteAndLogError(c, schemas.DatabaseError, http.StatusInternalServerError, err)
		return
	}

	if err = utils.CommitTransaction(c, tx, transactionCtx, cancel); err != nil {
		return
	}

	utils.WriteAndLogResponse(c, http.StatusOK, "Album updated", buildAlbumDTO(album, photoCount))
}

// DeleteAlbum deletes an album together with all photos in it. The default
// album is protected. Database rows go first; the files on disk are removed
// after the commit, and a failed file removal is only logged.
func (handler *PhotoHandler) DeleteAlbum(c *gin.Context) {
	userId := c.GetString(utils.UserIDKey.String())
	albumId := c.Param(utils.IdParamKey)

	tx, transactionCtx, cancel := utils.BeginTransaction(c, handler.DatabaseManager.GetPool())
	if tx == nil || transactionCtx == nil {
		return
	}
	var err error
	defer func() { utils.RollbackTransaction(c, tx, transactionCtx, cancel, err) }()

	var isDefault bool
	queryString := "SELECT is_default FROM lovelog_schema.albums WHERE album_id = $1 AND user_id = $2 FOR UPDATE"
	if err = tx.QueryRow(transactionCtx, queryString, albumId, userId).Scan(&isDefault); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			utils.WriteAndLogError(c, schemas.AlbumNotFound, http.StatusNotFound, err)
			return
		}

		utils.WriteAndLogError(c, schemas.DatabaseError, http.StatusInternalServerError, err)
		return
	}

	if isDefault {
		err = errors.New("default album")
		utils.WriteAndLogError(c, schemas.DefaultAlbumProtected, http.StatusBadRequest, err)
		return
	}

	// Collect file locations before the rows disappear
	queryString = "SELECT path, filename FROM lovelog_schema.photos WHERE album_id = $1"
	rows, err := tx.Query(transactionCtx, queryString, albumId)
	if err != nil {
		utils.WriteAndLogError(c, schemas.DatabaseError, http.StatusInternalServerError, err)
		return
	}

	type storedLocation struct {
		path     string
		filename string
	}
	locations := make([]storedLocation, 0)
	for rows.Next() {
		var location storedLocation
		if err = rows.Scan(&location.path, &location.filename); err != nil {
			rows.Close()
			utils.WriteAndLogError(c, schemas.DatabaseError, http.StatusInternalServerError, err)
			return
		}
		locations = append(locations, location)
	}
	rows.Close()
	if err = rows.Err(); err != nil {
		utils.WriteAndLogError(c, schemas.DatabaseError, http.StatusInternalServerError, err)
		return
	}

	queryString = "DELETE FROM lovelog_schema.photos WHERE album_id = $1"
	if _, err = tx.Exec(transactionCtx, queryString, albumId); err != nil {
		utils.WriteAndLogError(c, schemas.DatabaseError, http.StatusInternalServerError, err)
		return
	}

	queryString = "DELETE FROM lovelog_schema.albums WHERE album_id = $1"
	if _, err = tx.Exec(transactionCtx, queryString, albumId); err != nil {
		utils.WriteAndLogError(c, schemas.DatabaseError, http.StatusInternalServerError, err)
		return
	}

	if err = utils.CommitTransaction(c, tx, transactionCtx, cancel); err != nil {
		return
	}

	for _, location := range locations {
		handler.StorageManager.RemoveFile(location.path)
		handler.StorageManager.RemoveThumbnail(location.filename)
	}

	utils.WriteAndLogResponse(c, http.StatusOK, fmt.Sprintf("Album deleted with %d photos", len(locations)), nil)
}

// GetPhotos returns the user's photos, newest first, optionally restricted to
// one album.
func (handler *PhotoHandler) GetPhotos(c *gin.Context) {
	userId := c.GetString(utils.UserIDKey.String())
	page, limit := utils.ParsePageParams(c, 20)

	whereClause := "WHERE user_id = $1"
	args := []interface{}{userId}
	if albumId := c.Query(utils.AlbumIdParamKey); albumId != "" {
		args = append(args, albumId)
		whereClause += fmt.Sprintf(" AND album_id = $%d", len(args))
	}

	tx, transactionCtx, cancel := utils.BeginTransaction(c, handler.DatabaseManager.GetPool())
	if tx == nil || transactionCtx == nil {
		return
	}
	var err error
	defer func() { utils.RollbackTransaction(c, tx, transactionCtx, cancel, err) }()

	var total int
	countQuery := "SELECT COUNT(*) FROM lovelog_schema.photos " + whereClause
	if err = tx.QueryRow(transactionCtx, countQuery, args...).Scan(&total); err != nil {
		utils.WriteAndLogError(c, schemas.DatabaseError, http.StatusInternalServerError, err)
		return
	}

	listArgs := append(args, limit, (page-1)*limit)
	listQuery := fmt.Sprintf("SELECT photo_id, album_id, filename, original_name, url, size, mime_type, description, tags, created_at "+
		"FROM lovelog_schema.photos %s ORDER BY created_at DESC LIMIT $%d OFFSET $%d",
		whereClause, len(listArgs)-1, len(listArgs))

	rows, err := tx.Query(transactionCtx, listQuery, listArgs...)
	if err != nil {
		utils.WriteAndLogError(c, schemas.DatabaseError, http.StatusInternalServerError, err)
		return
	}

	photoDtos := make([]schemas.PhotoDTO, 0)
	for rows.Next() {
		var photo schemas.Photo
		if err = rows.Scan(&photo.ID, &photo.AlbumID, &photo.Filename, &photo.OriginalName, &photo.URL,
			&photo.Size, &photo.MimeType, &photo.Description, &photo.Tags, &photo.CreatedAt); err != nil {
			rows.Close()
			utils.WriteAndLogError(c, schemas.DatabaseError, http.StatusInternalServerError, err)
			return
		}
		photoDtos = append(photoDtos, buildPhotoDTO(photo))
	}
	rows.Close()
	if err = rows.Err(); err != nil {
		utils.WriteAndLogError(c, schemas.DatabaseError, http.StatusInternalServerError, err)
		return
	}

	if err = utils.CommitTransaction(c, tx, transactionCtx, cancel); err != nil {
		return
	}

	utils.WriteAndLogResponse(c, http.StatusOK, "Photos retrieved", gin.H{
		"photos":     photoDtos,
		"pagination": utils.NewPaginationDTO(page, limit, total),
	})
}

// UploadPhotos stores the uploaded image files and creates their database
// rows. Files land in the album given by the albumId form field, or in the
// user's default album, which is created on first use. The whole request is
// rejected before anything is stored when a file is not an image or the
// combined size exceeds the limit.
func (handler *PhotoHandler) UploadPhotos(c *gin.Context) {
	userId := c.GetString(utils.UserIDKey.String())

	form, err := c.MultipartForm()
	if err != nil {
		utils.WriteAndLogError(c, schemas.BadRequest, http.StatusBadRequest, err)
		return
	}

	files := form.File["photos"]
	if len(files) == 0 {
		utils.WriteAndLogError(c, schemas.NoFilesUploaded, http.StatusBadRequest, errors.New("no files in request"))
		return
	}
	if len(files) > maxFilesPerUpload {
		err = fmt.Errorf("%d files in request", len(files))
		utils.WriteAndLogError(c, schemas.BadRequest.WithMessage(fmt.Sprintf("At most %d photos can be uploaded at once.", maxFilesPerUpload)), http.StatusBadRequest, err)
		return
	}

	var totalSize int64
	for _, fileHeader := range files {
		if !strings.HasPrefix(fileHeader.Header.Get("Content-Type"), "image/") {
			err = fmt.Errorf("unsupported file type: %s", fileHeader.Header.Get("Content-Type"))
			utils.WriteAndLogError(c, schemas.UnsupportedFileType, http.StatusBadRequest, err)
			return
		}
		totalSize += fileHeader.Size
	}
	if totalSize > handler.StorageManager.MaxUploadSize() {
		err = fmt.Errorf("upload size %d exceeds limit", totalSize)
		utils.WriteAndLogError(c, schemas.PayloadTooLarge, http.StatusBadRequest, err)
		return
	}

	tx, transactionCtx, cancel := utils.BeginTransaction(c, handler.DatabaseManager.GetPool())
	if tx == nil || transactionCtx == nil {
		return
	}
	defer func() { utils.RollbackTransaction(c, tx, transactionCtx, cancel, err) }()

	albumId, err := handler.resolveTargetAlbum(c, tx, transactionCtx, userId, c.PostForm(utils.AlbumIdParamKey))
	if err != nil {
		return
	}

	description := strings.TrimSpace(c.PostForm("description"))
	tags := parseTagList(c.PostForm("tags"))

	photoDtos := make([]schemas.PhotoDTO, 0, len(files))
	storedPaths := make([]string, 0, len(files))
	for _, fileHeader := range files {
		stored, saveErr := handler.StorageManager.SaveUpload(fileHeader)
		if saveErr != nil {
			err = saveErr
			handler.removeStoredFiles(storedPaths)
			utils.WriteAndLogError(c, schemas.InternalServerError, http.StatusInternalServerError, err)
			return
		}
		storedPaths = append(storedPaths, stored.Path)

		// A missing thumbnail degrades the gallery view, nothing more
		if thumbErr := handler.StorageManager.GenerateThumbnail(stored.Filename); thumbErr != nil {
			utils.LogMessageWithFields(c, "warn", "Failed to generate thumbnail: "+thumbErr.Error())
		}

		photo := schemas.Photo{
			ID:           uuid.New(),
			AlbumID:      albumId,
			Filename:     stored.Filename,
			OriginalName: fileHeader.Filename,
			Path:         stored.Path,
			URL:          stored.URL,
			Size:         stored.Size,
			MimeType:     stored.MimeType,
			Description:  description,
			Tags:         tags,
			CreatedAt:    time.Now(),
			UpdatedAt:    time.Now(),
		}

		queryString := "INSERT INTO lovelog_schema.photos (photo_id, user_id, album_id, filename, original_name, path, url, size, mime_type, description, tags, created_at, updated_at) " +
			"VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13)"
		if _, err = tx.Exec(transactionCtx, queryString, photo.ID, userId, photo.AlbumID, photo.Filename,
			photo.OriginalName, photo.Path, photo.URL, photo.Size, photo.MimeType, photo.Description, photo.Tags,
			photo.CreatedAt, photo.UpdatedAt); err != nil {
			handler.removeStoredFiles(storedPaths)
			utils.WriteAndLogError(c, schemas.DatabaseError, http.StatusInternalServerError, err)
			return
		}

		photoDtos = append(photoDtos, buildPhotoDTO(photo))
	}

	if err = utils.CommitTransaction(c, tx, transactionCtx, cancel); err != nil {
		handler.removeStoredFiles(storedPaths)
		return
	}

	utils.WriteAndLogResponse(c, http.StatusCreated, fmt.Sprintf("Uploaded %d photos", len(photoDtos)), gin.H{"photos": photoDtos})
}

// DeletePhoto removes a photo row and its files. File removal happens after
// the commit and is best-effort.
func (handler *PhotoHandler) DeletePhoto(c *gin.Context) {
	userId := c.GetString(utils.UserIDKey.String())
	photoId := c.Param(utils.IdParamKey)

	tx, transactionCtx, cancel := utils.BeginTransaction(c, handler.DatabaseManager.GetPool())
	if tx == nil || transactionCtx == nil {
		return
	}
	var err error
	defer func() { utils.RollbackTransaction(c, tx, transactionCtx, cancel, err) }()

	var path, filename string
	queryString := "SELECT path, filename FROM lovelog_schema.photos WHERE photo_id = $1 AND user_id = $2 FOR UPDATE"
	if err = tx.QueryRow(transactionCtx, queryString, photoId, userId).Scan(&path, &filename); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			utils.WriteAndLogError(c, schemas.PhotoNotFound, http.StatusNotFound, err)
			return
		}

		utils.WriteAndLogError(c, schemas.DatabaseError, http.StatusInternalServerError, err)
		return
	}

	queryString = "DELETE FROM lovelog_schema.photos WHERE photo_id = $1"
	if _, err = tx.Exec(transactionCtx, queryString, photoId); err != nil {
		utils.WriteAndLogError(c, schemas.DatabaseError, http.StatusInternalServerError, err)
		return
	}

	if err = utils.CommitTransaction(c, tx, transactionCtx, cancel); err != nil {
		return
	}

	handler.StorageManager.RemoveFile(path)
	handler.StorageManager.RemoveThumbnail(filename)

	utils.WriteAndLogResponse(c, http.StatusOK, "Photo deleted", nil)
}

// resolveTargetAlbum verifies ownership of the requested album, or falls back
// to the user's default album, creating one on first upload.
func (handler *PhotoHandler) resolveTargetAlbum(c *gin.Context, tx pgx.Tx, ctx context.Context, userId, requestedAlbumId string) (uuid.UUID, error) {
	if requestedAlbumId != "" {
		var albumId uuid.UUID
		queryString := "SELECT album_id FROM lovelog_schema.albums WHERE album_id = $1 AND user_id = $2"
		if err := tx.QueryRow(ctx, queryString, requestedAlbumId, userId).Scan(&albumId); err != nil {
			if errors.Is(err, pgx.ErrNoRows) {
				utils.WriteAndLogError(c, schemas.AlbumNotFound, http.StatusNotFound, err)
				return uuid.Nil, err
			}

			utils.WriteAndLogError(c, schemas.DatabaseError, http.StatusInternalServerError, err)
			return uuid.Nil, err
		}
		return albumId, nil
	}

	var albumId uuid.UUID
	queryString := "SELECT album_id FROM lovelog_schema.albums WHERE user_id = $1 AND is_default = TRUE"
	err := tx.QueryRow(ctx, queryString, userId).Scan(&albumId)
	if err == nil {
		return albumId, nil
	}
	if !errors.Is(err, pgx.ErrNoRows) {
		utils.WriteAndLogError(c, schemas.DatabaseError, http.StatusInternalServerError, err)
		return uuid.Nil, err
	}

	albumId = uuid.New()
	queryString = "INSERT INTO lovelog_schema.albums (album_id, user_id, name, description, cover_photo, is_default, created_at, updated_at) " +
		"VALUES ($1, $2, $3, $4, $5, TRUE, $6, $7)"
	if _, err = tx.Exec(ctx, queryString, albumId, userId, "All Photos", "", "", time.Now(), time.Now()); err != nil {
		utils.WriteAndLogError(c, schemas.DatabaseError, http.StatusInternalServerError, err)
		return uuid.Nil, err
	}

	return albumId, nil
}

func (handler *PhotoHandler) removeStoredFiles(paths []string) {
	for _, path := range paths {
		handler.StorageManager.RemoveFile(path)
	}
}

// unsetDefaultAlbum moves the default flag off the user's current default
// album, keeping at most one default per user.
func unsetDefaultAlbum(c *gin.Context, tx pgx.Tx, ctx context.Context, userId string) error {
	queryString := "UPDATE lovelog_schema.albums SET is_default = FALSE WHERE user_id = $1 AND is_default = TRUE"
	if _, err := tx.Exec(ctx, queryString, userId); err != nil {
		utils.WriteAndLogError(c, schemas.DatabaseError, http.StatusInternalServerError, err)
		return err
	}
	return nil
}

// buildAlbumDTO derives the response view of an album.
func buildAlbumDTO(album schemas.Album, photoCount int) schemas.AlbumDTO {
	return schemas.AlbumDTO{
		ID:          album.ID.String(),
		Name:        album.Name,
		Description: album.Description,
		CoverPhoto:  album.CoverPhoto,
		IsDefault:   album.IsDefault,
		PhotoCount:  photoCount,
		CreatedAt:   album.CreatedAt.Format(time.RFC3339),
		UpdatedAt:   album.UpdatedAt.Format(time.RFC3339),
	}
}

// buildPhotoDTO derives the response view of a photo. The thumbnail URL and
// the human-readable size are computed here, never stored.
func buildPhotoDTO(photo schemas.Photo) schemas.PhotoDTO {
	tags := photo.Tags
	if tags == nil {
		tags = []string{}
	}

	return schemas.PhotoDTO{
		ID:            photo.ID.String(),
		AlbumID:       photo.AlbumID.String(),
		Filename:      photo.Filename,
		OriginalName:  photo.OriginalName,
		URL:           photo.URL,
		ThumbnailURL:  "/uploads/thumbnails/" + photo.Filename,
		Size:          photo.Size,
		SizeFormatted: formatSize(photo.Size),
		MimeType:      photo.MimeType,
		Description:   photo.Description,
		Tags:          tags,
		CreatedAt:     photo.CreatedAt.Format(time.RFC3339),
	}
}

// parseTagList splits a comma-separated tag field, dropping empty entries.
func parseTagList(raw string) []string {
	tags := make([]string, 0)
	for _, tag := range strings.Split(raw, ",") {
		if tag = strings.TrimSpace(tag); tag != "" {
			tags = append(tags, tag)
		}
	}
	return tags
}

// formatSize renders a byte count the way the gallery displays it.
func formatSize(size int64) string {
	switch {
	case size >= 1024*1024:
		return fmt.Sprintf("%.2f MB", float64(size)/(1024*1024))
	case size >= 1024:
		return fmt.Sprintf("%.2f KB", float64(size)/1024)
	default:
		return fmt.Sprintf("%d B", size)
	}
}
