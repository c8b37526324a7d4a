// Package mockapi is a self-contained stand-in for the Martillo auction
// platform gateway. It serves the same HTTP surface the CLI consumes,
// backed by a local SQLite database, so the client can be demoed and
// integration-tested without the real platform. Confirmation and
// recovery emails are simulated as log lines carrying the code.
package mockapi

import (
	"crypto/rand"
	"encoding/hex"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/gin-gonic/gin/binding"
	"github.com/go-playground/validator/v10"
	"github.com/rs/zerolog"
	"gorm.io/gorm"

	"github.com/glebarez/sqlite"
)

const bearerPrefix = "Bearer "

var (
	ErrMissingAuthHeader = errors.New("missing authorization header")
	ErrInvalidAuthFormat = errors.New("invalid authorization header format")
	ErrEmptyToken        = errors.New("empty token")
)

// Options configures the mock backend
type Options struct {
	// DBPath is the SQLite database path; ":memory:" works for tests
	DBPath string
	// JWTSecret signs issued tokens; autogenerated when empty
	JWTSecret string
}

// Server is the mock auction backend
type Server struct {
	db        *gorm.DB
	router    *gin.Engine
	logger    zerolog.Logger
	jwtSecret []byte
}

// New creates a mock backend over the given database
func New(opts Options, zlog zerolog.Logger) (*Server, error) {
	db, err := gorm.Open(sqlite.Open(opts.DBPath), &gorm.Config{})
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	if err := AutoMigrate(db); err != nil {
		return nil, fmt.Errorf("failed to migrate database: %w", err)
	}

	secret := opts.JWTSecret
	if secret == "" {
		secretBytes := make([]byte, 32)
		if _, err := rand.Read(secretBytes); err != nil {
			return nil, fmt.Errorf("failed to generate JWT secret: %w", err)
		}
		secret = hex.EncodeToString(secretBytes)
	}

	server := &Server{
		db:        db,
		logger:    zlog,
		jwtSecret: []byte(secret),
	}

	registerValidations()
	server.setupRouter()

	return server, nil
}

// registerValidations adds custom binding validations on gin's
// validator engine
func registerValidations() {
	if v, ok := binding.Validator.Engine().(*validator.Validate); ok {
		_ = v.RegisterValidation("rfc3339", func(fl validator.FieldLevel) bool {
			_, err := time.Parse(time.RFC3339, fl.Field().String())
			return err == nil
		})
	}
}

// setupRouter configures the Gin router with routes and middleware
func (s *Server) setupRouter() {
	gin.SetMode(gin.ReleaseMode)

	s.router = gin.New()
	s.router.Use(gin.Recovery())
	s.router.Use(s.loggingMiddleware())

	// The web frontend talks to the same gateway
	s.router.Use(cors.New(cors.Config{
		AllowOrigins:     []string{"*"},
		AllowMethods:     []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Content-Type", "Authorization"},
		AllowCredentials: false,
		MaxAge:           12 * time.Hour,
	}))

	s.router.POST("/auth/login", s.login)

	users := s.router.Group("/api/Usuarios")
	{
		users.POST("", s.register)
		users.PATCH("/confirmar", s.confirmAccount)
		users.POST("/solicitar-recuperacion", s.requestRecovery)
		users.PATCH("/restablecer-password", s.resetPassword)
		users.GET("/actividades", s.listAllActivities)

		authed := users.Group("")
		authed.Use(s.requireAuth())
		{
			authed.PATCH("/cambiar-password", s.changePassword)
			authed.PUT("/actualizar-perfil", s.updateProfile)
			authed.GET("/:id", s.getProfile)
			authed.GET("/:id/historial", s.getHistory)
		}
	}

	auctions := s.router.Group("/auctions")
	{
		auctions.GET("", s.listAuctions)
		auctions.GET("/:id", s.getAuction)

		authed := auctions.Group("")
		authed.Use(s.requireAuth())
		{
			authed.POST("", s.createAuction)
			authed.POST("/:id/bids", s.placeBid)
		}
	}
}

// Handler returns the HTTP handler, for mounting under httptest
func (s *Server) Handler() http.Handler {
	return s.router
}

// Run serves the API on the given address (blocks)
func (s *Server) Run(addr string) error {
	s.logger.Info().Str("addr", addr).Msg("Mock auction API listening")
	return s.router.Run(addr)
}

// requireAuth validates the bearer token and stores the account id in
// the request context
func (s *Server) requireAuth() gin.HandlerFunc {
	return func(c *gin.Context) {
		token, err := extractBearerToken(c.GetHeader("Authorization"))
		if err != nil {
			s.logger.Warn().Err(err).Str("path", c.Request.URL.Path).Msg("Unauthenticated request")
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "authentication required"})
			return
		}

		claims, err := s.validateToken(token)
		if err != nil {
			s.logger.Warn().Err(err).Msg("Invalid token")
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "invalid token"})
			return
		}

		c.Set("accountID", claims.UserID)
		c.Next()
	}
}

// accountID returns the authenticated account id set by requireAuth
func accountID(c *gin.Context) string {
	return c.GetString("accountID")
}

func extractBearerToken(authHeader string) (string, error) {
	if authHeader == "" {
		return "", ErrMissingAuthHeader
	}

	if !strings.HasPrefix(authHeader, bearerPrefix) {
		return "", ErrInvalidAuthFormat
	}

	token := strings.TrimPrefix(authHeader, bearerPrefix)
	if token == "" {
		return "", ErrEmptyToken
	}

	return token, nil
}

// loggingMiddleware logs each request with zerolog
func (s *Server) loggingMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()

		s.logger.Debug().
			Str("method", c.Request.Method).
			Str("path", c.Request.URL.Path).
			Int("status", c.Writer.Status()).
			Dur("duration", time.Since(start)).
			Msg("Request")
	}
}

// recordActivity appends an entry to an account's history. History is
// best effort; a failed insert never fails the request that caused it.
func (s *Server) recordActivity(account, activityType, description string) {
	activity := Activity{
		AccountID:   account,
		Type:        activityType,
		Description: description,
	}
	if err := s.db.Create(&activity).Error; err != nil {
		s.logger.Warn().Err(err).Msg("Failed to record activity")
	}
}
