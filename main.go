package main

import (
	"log/slog"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/minio/minio-go/v7"
	"github.com/minio/minio-go/v7/pkg/credentials"
	"github.com/redis/go-redis/v9"
	"gorm.io/driver/mysql"
	"gorm.io/gorm"

	"echosphere/middleware"
	"echosphere/models"
)

var (
	cfg   Config
	db    *gorm.DB
	media MediaStore
	mail  Mailer
	rdb   *redis.Client
)

func main() {
	cfg = loadConfig()
	middleware.JwtKey = []byte(cfg.JWTSecret)

	var err error
	db, err = gorm.Open(mysql.Open(cfg.DSN), &gorm.Config{})
	if err != nil {
		panic("Connection Failed: " + err.Error())
	}
	db.AutoMigrate(
		&models.User{}, &models.Picture{}, &models.Post{}, &models.MediaFile{},
		&models.Comment{}, &models.Like{}, &models.Share{}, &models.Admin{},
	)

	initMinio()
	initRedis()
	mail = &smtpMailer{
		host:     cfg.SMTPHost,
		port:     cfg.SMTPPort,
		username: cfg.SMTPUser,
		password: cfg.SMTPPassword,
		from:     cfg.MailFrom,
	}

	r := setupRouter()
	slog.Info("server up and running", "port", cfg.Port)
	r.Run(":" + cfg.Port)
}

func setupRouter() *gin.Engine {
	registerValidators()

	r := gin.New()
	r.Use(gin.Logger())
	r.Use(errorGuard())
	r.MaxMultipartMemory = maxUploadSize

	r.GET("/", func(c *gin.Context) {
		c.String(http.StatusOK, "Welcome EchoSphere Blog project API")
	})

	api := r.Group("/api/v1")
	api.POST("/signup", signUp)
	api.GET("/verify-user/:id/:token", verifyUser)
	api.POST("/login", logIn)
	api.POST("/forgot-password", forgotPassword)
	api.POST("/reset-password/:id", resetPassword)
	api.GET("/users", getAllUsers)
	api.DELETE("/user/:id", deleteUserProfile)
	api.GET("/viewapost/:postId", viewOnePost)
	api.GET("/viewposts", viewPosts)

	auth := api.Group("/")
	auth.Use(middleware.Auth(db))
	{
		auth.POST("/signout", signOut)
		auth.GET("/user", getUser)
		auth.PUT("/user", updateUserProfile)
		auth.POST("/upload-photo", uploadPhoto)
		auth.POST("/comments/:postId", commentPost)
		auth.GET("/viewcomments/:postId", viewComments)
		auth.DELETE("/deletecomments/:postId/:commentId", deleteComment)
		auth.POST("/posts/like/:postId", likePost)
		auth.POST("/posts/share/:postId", sharePost)
	}

	admin := api.Group("/")
	admin.Use(middleware.Admin(db))
	{
		admin.POST("/createpost", createPost)
		admin.PUT("/updatepost/:postId", updatePost)
		admin.DELETE("/deletepost/:postId", deletePost)
		admin.POST("/make-admin/:userId", makeAdmin)
	}

	return r
}

// errorGuard is the last-resort handler: a panic, or an error attached to
// the context without a written response, becomes a generic JSON 500.
func errorGuard() gin.HandlerFunc {
	return func(c *gin.Context) {
		defer func() {
			if rec := recover(); rec != nil {
				slog.Error("panic recovered", "path", c.Request.URL.Path, "error", rec)
				c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{"message": "Internal Server Error"})
			}
		}()
		c.Next()
		if len(c.Errors) > 0 && !c.Writer.Written() {
			slog.Error("unhandled request error", "path", c.Request.URL.Path, "error", c.Errors.Last().Err)
			c.JSON(http.StatusInternalServerError, gin.H{"message": "Internal Server Error"})
		}
	}
}

func initMinio() {
	client, err := minio.New(cfg.MinioEndpoint, &minio.Options{
		Creds:  credentials.NewStaticV4(cfg.MinioAccessKey, cfg.MinioSecretKey, ""),
		Secure: cfg.MinioUseSSL,
	})
	if err != nil {
		panic("Failed to connect Minio: " + err.Error())
	}
	media = &minioStore{client: client, bucket: cfg.MinioBucket, publicURL: cfg.MinioPublicURL}
}

func initRedis() {
	rdb = redis.NewClient(&redis.Options{
		Addr:     cfg.RedisAddr,
		Password: cfg.RedisPassword,
		DB:       0,
	})
}
