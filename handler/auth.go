package handler

import (
	"net/http"
	"strings"
	"time"

	"sombot-backend/config"
	"sombot-backend/firebase"

	"github.com/spf13/viper"
)

// authorized verifies the bearer token offline against the configured
// Firebase project. When no project is configured the check is skipped,
// which keeps local development and tests unauthenticated.
func authorized(r *http.Request) bool {
	projectID := viper.GetString(config.FirebaseProjectID)
	if projectID == "" {
		return true
	}

	token := strings.TrimPrefix(r.Header.Get("Authorization"), "Bearer ")
	if token == "" {
		return false
	}

	interval := time.Duration(viper.GetInt(config.JWTOfflineInterval)) * time.Second
	_, ok := firebase.VerifyJWTIDToken(token, projectID, interval)
	return ok
}
