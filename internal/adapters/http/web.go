package web

import (
	"crypto/rand"
	"encoding/hex"
	"log"
	"net/http"
	"os"
	"time"

	"storyboard/internal/adapters/http/middleware"
	partStore "storyboard/internal/adapters/storage/part"
	"storyboard/internal/config"
)

// Stores holds all storage dependencies.
type Stores struct {
	PartStore partStore.Store
}

// Global stores instance (set by NewMux)
var stores *Stores

// Global config instance (set by NewMux)
var cfg config.Config

// Global session codec instance (set by NewMux)
var sessionCodec *middleware.SessionCodec

// RateLimitPerSecond controls the per-IP rate limit. Tests can increase this.
var RateLimitPerSecond = 20

// loadCSRFKey reads the CSRF secret from STORYBOARD_CSRF_KEY (hex-encoded, 32 bytes).
// In production, the key MUST be set. In development, a random key is generated per startup.
func loadCSRFKey(production bool) []byte {
	if keyHex := os.Getenv("STORYBOARD_CSRF_KEY"); keyHex != "" {
		key, err := hex.DecodeString(keyHex)
		if err != nil || len(key) != 32 {
			log.Fatal("STORYBOARD_CSRF_KEY must be 64 hex characters (32 bytes)")
		}
		return key
	}
	if production {
		log.Fatal("STORYBOARD_CSRF_KEY is required in production")
	}
	key := make([]byte, 32)
	if _, err := rand.Read(key); err != nil {
		log.Fatalf("failed to generate CSRF key: %v", err)
	}
	return key
}

// NewMux wires HTTP handlers for the app.
func NewMux(c config.Config, s *Stores) http.Handler {
	stores = s
	cfg = c
	sessionCodec = middleware.NewSessionCodec(c.SessionSecret, c.SessionMaxAge, c.Production)

	mux := http.NewServeMux()
	registerRoutes(mux)

	// Uploaded images are public static assets under a predictable prefix.
	mux.Handle("GET /uploads/", http.StripPrefix("/uploads/",
		http.FileServer(http.Dir(c.UploadDir))))

	csrfKey := loadCSRFKey(c.Production)

	limiter := middleware.NewRateLimiter(RateLimitPerSecond, time.Second)

	// Request flow: Timing -> CORS -> SecurityHeaders -> CSRF -> Auth -> RateLimit -> Mux
	return middleware.Chain(mux,
		middleware.RateLimit(limiter),
		middleware.Auth(sessionCodec),
		middleware.CSRF(csrfKey, []string{"localhost:3856", "127.0.0.1:3856"}),
		middleware.SecurityHeaders,
		middleware.CORS(c.CORSOrigin),
		middleware.Timing(),
	)
}

// registerRoutes maps the REST surface. List and Get are public; every
// mutating route sits behind RequireAuth. The reorder route is registered as
// a literal path so it takes precedence over /api/parts/{id}.
func registerRoutes(mux *http.ServeMux) {
	mux.HandleFunc("GET /{$}", handleIndex)

	mux.HandleFunc("GET /api/parts", handleListParts)
	mux.HandleFunc("GET /api/parts/{id}", handleGetPart)
	mux.Handle("POST /api/parts", middleware.RequireAuth(http.HandlerFunc(handleCreatePart)))
	mux.Handle("PUT /api/parts/reorder", middleware.RequireAuth(http.HandlerFunc(handleReorderParts)))
	mux.Handle("PUT /api/parts/{id}", middleware.RequireAuth(http.HandlerFunc(handleUpdatePart)))
	mux.Handle("DELETE /api/parts/{id}", middleware.RequireAuth(http.HandlerFunc(handleDeletePart)))
	mux.Handle("POST /api/upload", middleware.RequireAuth(http.HandlerFunc(handleUpload)))

	mux.HandleFunc("POST /api/auth/login", handleLogin)
	mux.HandleFunc("POST /api/auth/logout", handleLogout)
	mux.HandleFunc("GET /api/auth/status", handleAuthStatus)
}
