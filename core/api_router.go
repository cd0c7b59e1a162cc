package core

import (
	"errors"
	"log"
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
)

// NewAPIRouter constructs the auth API engine.
func NewAPIRouter(cfg Config, authService AuthService, tokens TokenStore) *gin.Engine {
	startedAt := time.Now()
	r := gin.Default()

	r.Use(RequestIDMiddleware())
	r.Use(OriginRefererMiddleware(cfg))

	r.GET("/healthz", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})

	api := r.Group("/api")
	{
		api.POST("/auth/login", func(c *gin.Context) {
			var req Credentials
			if err := c.ShouldBindJSON(&req); err != nil {
				respondError(c, http.StatusBadRequest, "Invalid request body")
				return
			}
			if strings.TrimSpace(req.Email) == "" || req.Password == "" {
				respondError(c, http.StatusBadRequest, "Email and password are required")
				return
			}

			ctx := c.Request.Context()
			user, err := authService.Authenticate(ctx, req.Email, req.Password)
			if err != nil {
				respondError(c, http.StatusUnauthorized, "Invalid credentials")
				return
			}

			token, err := tokens.Issue(ctx, user)
			if err != nil {
				log.Printf("issue token failed user_id=%d: %v", user.ID, err)
				respondError(c, http.StatusInternalServerError, "Failed to create session")
				return
			}

			c.JSON(http.StatusOK, LoginResponse{Token: token, Username: user.Username, Email: user.Email})
		})

		api.POST("/auth/logout", func(c *gin.Context) {
			token := bearerToken(c)
			if token == "" {
				respondError(c, http.StatusUnauthorized, "Authentication required")
				return
			}
			if err := tokens.Revoke(c.Request.Context(), token); err != nil {
				respondError(c, http.StatusInternalServerError, "Failed to sign out")
				return
			}
			c.Status(http.StatusNoContent)
		})

		api.GET("/auth/me", func(c *gin.Context) {
			claims, err := tokens.Lookup(c.Request.Context(), bearerToken(c))
			if err != nil {
				if errors.Is(err, ErrTokenNotFound) {
					respondError(c, http.StatusUnauthorized, "Authentication required")
					return
				}
				respondError(c, http.StatusInternalServerError, "Failed to load session")
				return
			}
			c.JSON(http.StatusOK, gin.H{"username": claims.Username, "email": claims.Email})
		})

		api.GET("/status", func(c *gin.Context) {
			c.JSON(http.StatusOK, CollectStatus(c.Request.Context(), tokens, startedAt))
		})
	}

	return r
}

func bearerToken(c *gin.Context) string {
	h := strings.TrimSpace(c.GetHeader("Authorization"))
	if len(h) < 7 || !strings.EqualFold(h[:7], "Bearer ") {
		return ""
	}
	return strings.TrimSpace(h[7:])
}
