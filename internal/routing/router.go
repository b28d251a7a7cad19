package routing

import (
	"net/http"
	"os"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"

	"lovelog/internal/handlers"
	"lovelog/internal/managers"
	"lovelog/internal/middleware"
	"lovelog/internal/schemas"
	"lovelog/internal/utils"
)

func InitRouter(databaseMgr managers.DatabaseMgr, mailMgr managers.MailMgr, jwtMgr managers.JWTMgr, storageMgr managers.StorageMgr) *gin.Engine {
	// Initialize router with logging and recovery middleware
	router := gin.New()
	// Initialize middleware
	setupCommonMiddleware(router)
	// Setup routes
	setupRoutes(router, databaseMgr, mailMgr, jwtMgr, storageMgr)

	return router
}

func setupCommonMiddleware(router *gin.Engine) {
	router.Use(gin.Logger())
	router.Use(gin.Recovery())
	router.Use(middleware.InjectTrace())
	router.Use(cors.New(cors.Config{
		AllowOrigins:  []string{"http://localhost:5173", "http://localhost:3000"},
		AllowMethods:  []string{"GET", "PATCH", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowHeaders:  []string{"Accept, Authorization", "Content-Type"},
		ExposeHeaders: []string{"Content-Length", "Content-Type", "Content-Disposition", "X-Trace-Id"},
		MaxAge:        12 * time.Hour,
	}))
	router.Use(middleware.SanitizePath())
	router.Use(middleware.LogRequest())
}

func setupRoutes(router *gin.Engine, databaseMgr managers.DatabaseMgr, mailMgr managers.MailMgr, jwtMgr managers.JWTMgr, storageMgr managers.StorageMgr) {
	// Set up version route
	router.GET("/", func(c *gin.Context) {
		apiVersion := os.Getenv("API_VERSION")
		if apiVersion == "" {
			apiVersion = "main:latest"
		}
		metadata := &schemas.MetadataDTO{
			ApiVersion: apiVersion,
			ApiName:    "Lovelog",
		}
		utils.WriteAndLogResponse(c, http.StatusOK, "", metadata)
	})

	// Set up health route
	router.GET("/health", func(c *gin.Context) {
		// Ping the database
		if err := databaseMgr.GetPool().Ping(c); err != nil {
			c.String(http.StatusInternalServerError, "Database not responding")
			return
		}
		c.Status(http.StatusOK)
	})

	// Serve the stored photos and thumbnails
	router.Static("/uploads", storageMgr.UploadDir())

	// Set up API routes
	apiRouter := router.Group("/api")
	{
		// Set up auth routes
		authRouter := apiRouter.Group("/auth")
		userHdl := handlers.NewUserHandler(&databaseMgr, &jwtMgr, &mailMgr)
		authRoutes(authRouter, userHdl, jwtMgr)

		// Set up diary routes
		diaryRouter := apiRouter.Group("/diaries")
		diaryRouter.Use(jwtMgr.JWTMiddleware())
		diaryHdl := handlers.NewDiaryHandler(&databaseMgr)
		diaryRoutes(diaryRouter, diaryHdl)

		// Set up album and photo routes
		photoRouter := apiRouter.Group("/photos")
		photoRouter.Use(jwtMgr.JWTMiddleware())
		photoHdl := handlers.NewPhotoHandler(&databaseMgr, &storageMgr)
		photoRoutes(photoRouter, photoHdl)

		// Set up countdown routes
		countdownRouter := apiRouter.Group("/countdowns")
		countdownRouter.Use(jwtMgr.JWTMiddleware())
		countdownHdl := handlers.NewCountdownHandler(&databaseMgr)
		countdownRoutes(countdownRouter, countdownHdl)

		// Set up backup route
		backupRouter := apiRouter.Group("/backup")
		backupRouter.Use(jwtMgr.JWTMiddleware())
		backupHdl := handlers.NewBackupHandler(&databaseMgr)
		backupRouter.GET("/export", backupHdl.ExportBackup)
	}
}

func authRoutes(authRouter *gin.RouterGroup, userHdl handlers.UserHdl, jwtMgr managers.JWTMgr) {
	authRouter.POST("/register", userHdl.Register)
	authRouter.POST("/login", userHdl.Login)
	authRouter.POST("/refresh", userHdl.RefreshToken)
	// The following routes require the user to be authenticated
	authRouter.Use(jwtMgr.JWTMiddleware())
	authRouter.GET("/profile", userHdl.GetProfile)
	authRouter.PUT("/profile", userHdl.UpdateProfile)
	authRouter.POST("/change-password", userHdl.ChangePassword)
}

func diaryRoutes(diaryRouter *gin.RouterGroup, diaryHdl handlers.DiaryHdl) {
	diaryRouter.GET("/", diaryHdl.ListDiaries)
	diaryRouter.POST("/", diaryHdl.CreateDiary)
	diaryRouter.GET("/meta/categories", diaryHdl.GetCategories)
	diaryRouter.GET("/meta/tags", diaryHdl.GetTags)
	diaryRouter.GET("/:id", diaryHdl.GetDiary)
	diaryRouter.PUT("/:id", diaryHdl.UpdateDiary)
	diaryRouter.DELETE("/:id", diaryHdl.DeleteDiary)
	diaryRouter.POST("/:id/photos", diaryHdl.AttachPhotos)
	diaryRouter.DELETE("/:id/photos/:photoId", diaryHdl.RemovePhoto)
}

func photoRoutes(photoRouter *gin.RouterGroup, photoHdl handlers.PhotoHdl) {
	photoRouter.GET("/albums", photoHdl.GetAlbums)
	photoRouter.POST("/albums", photoHdl.CreateAlbum)
	photoRouter.PUT("/albums/:id", photoHdl.UpdateAlbum)
	photoRouter.DELETE("/albums/:id", photoHdl.DeleteAlbum)
	photoRouter.GET("/", photoHdl.GetPhotos)
	photoRouter.POST("/upload", photoHdl.UploadPhotos)
	photoRouter.DELETE("/:id", photoHdl.DeletePhoto)
}

func countdownRoutes(countdownRouter *gin.RouterGroup, countdownHdl handlers.CountdownHdl) {
	countdownRouter.GET("/", countdownHdl.ListCountdowns)
	countdownRouter.POST("/", countdownHdl.CreateCountdown)
	countdownRouter.GET("/:id", countdownHdl.GetCountdown)
	countdownRouter.PUT("/:id", countdownHdl.UpdateCountdown)
	countdownRouter.DELETE("/:id", countdownHdl.DeleteCountdown)
}
