package httpapi

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

type credentialsRequest struct {
	UserName string `json:"username" binding:"required"`
	Password string `json:"password" binding:"required"`
}

type refreshRequest struct {
	RefreshToken string `json:"refresh_token" binding:"required"`
}

type tokenResponse struct {
	AccessToken  string `json:"access_token"`
	RefreshToken string `json:"refresh_token"`
	TokenType    string `json:"token_type"`
	UserID       string `json:"user_id,omitempty"`
}

type registerResponse struct {
	ID       string `json:"id"`
	UserName string `json:"username"`
}

func (s *Server) login(c *gin.Context) {
	var req credentialsRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		writeBindError(c, "login")
		return
	}

	pair, err := s.auth.Login(c.Request.Context(), req.UserName, req.Password)
	if err != nil {
		writeError(c, "login", err, detailBadCredentials)
		return
	}

	observe("login", "success")
	c.JSON(http.StatusOK, tokenResponse{
		AccessToken:  pair.AccessToken,
		RefreshToken: pair.RefreshToken,
		TokenType:    pair.TokenType,
		UserID:       pair.UserID,
	})
}

func (s *Server) refresh(c *gin.Context) {
	var req refreshRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		writeBindError(c, "refresh")
		return
	}

	pair, err := s.auth.Refresh(c.Request.Context(), req.RefreshToken)
	if err != nil {
		writeError(c, "refresh", err, detailInvalidRefresh)
		return
	}

	observe("refresh", "success")
	c.JSON(http.StatusOK, tokenResponse{
		AccessToken:  pair.AccessToken,
		RefreshToken: pair.RefreshToken,
		TokenType:    pair.TokenType,
	})
}

func (s *Server) register(c *gin.Context) {
	var req credentialsRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		writeBindError(c, "register")
		return
	}

	user, err := s.auth.Register(c.Request.Context(), req.UserName, req.Password)
	if err != nil {
		writeError(c, "register", err, detailNotAuthenticated)
		return
	}

	observe("register", "success")
	c.JSON(http.StatusCreated, registerResponse{ID: user.ID, UserName: user.UserName})
}

func (s *Server) me(c *gin.Context) {
	profile, err := s.auth.WhoAmI(c.Request.Context(), c.GetString(userNameKey))
	if err != nil {
		writeError(c, "me", err, detailInvalidToken)
		return
	}

	observe("me", "success")
	c.JSON(http.StatusOK, profile)
}

func (s *Server) liveness(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}

func (s *Server) readiness(c *gin.Context) {
	if err := s.store.Ping(c.Request.Context()); err != nil {
		s.logger.Warn(c.Request.Context(), "store not ready", "error", err)
		c.JSON(http.StatusServiceUnavailable, gin.H{"status": "not_ready"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"status": "ready"})
}
