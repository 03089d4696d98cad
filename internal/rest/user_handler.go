package rest

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/yourusername/video-sharing-platform/internal/config"
	"github.com/yourusername/video-sharing-platform/internal/middleware"
	"github.com/yourusername/video-sharing-platform/internal/models"
	"github.com/yourusername/video-sharing-platform/internal/service"
)

type UserHandler struct {
	users *service.UserService
	cfg   *config.Config
}

func NewUserHandler(users *service.UserService, cfg *config.Config) *UserHandler {
	return &UserHandler{users: users, cfg: cfg}
}

func (h *UserHandler) RegisterRoutes(rg *gin.RouterGroup, auth, optionalAuth gin.HandlerFunc) {
	users := rg.Group("/users")
	{
		users.POST("/register", h.register)
		users.POST("/login", h.login)
		users.POST("/refresh-token", h.refreshToken)
		users.POST("/logout", auth, h.logout)
		users.POST("/change-password", auth, h.changePassword)
		users.GET("/current-user", auth, h.currentUser)
		users.PATCH("/update-account", auth, h.updateAccount)
		users.PATCH("/avatar", auth, h.updateAvatar)
		users.PATCH("/cover-image", auth, h.updateCoverImage)
		users.GET("/c/:username", optionalAuth, h.channelProfile)
		users.GET("/history", auth, h.watchHistory)
	}
}

func (h *UserHandler) register(c *gin.Context) {
	avatarPath, avatarHeader, err := saveUpload(c, "avatar", h.cfg.TempUploadDir)
	if err != nil {
		respondError(c, err)
		return
	}
	if avatarHeader != nil {
		if err := validateImage("avatar", avatarHeader, h.cfg); err != nil {
			discardUploads(avatarPath)
			respondBadRequest(c, err.Error())
			return
		}
	}

	coverPath, coverHeader, err := saveUpload(c, "coverImage", h.cfg.TempUploadDir)
	if err != nil {
		discardUploads(avatarPath)
		respondError(c, err)
		return
	}
	if coverHeader != nil {
		if err := validateImage("coverImage", coverHeader, h.cfg); err != nil {
			discardUploads(avatarPath, coverPath)
			respondBadRequest(c, err.Error())
			return
		}
	}

	user, err := h.users.Register(c.Request.Context(), service.RegisterInput{
		Username:       c.PostForm("username"),
		FullName:       c.PostForm("fullname"),
		Email:          c.PostForm("email"),
		Password:       c.PostForm("password"),
		AvatarPath:     avatarPath,
		CoverImagePath: coverPath,
	})
	if err != nil {
		// uploads the media host already consumed are gone; the rest are
		// still staged
		discardUploads(avatarPath, coverPath)
		respondError(c, err)
		return
	}
	respond(c, http.StatusCreated, user, "user registered successfully")
}

type loginRequest struct {
	Username string `json:"username"`
	Email    string `json:"email"`
	Password string `json:"password"`
}

func (h *UserHandler) login(c *gin.Context) {
	var req loginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBadRequest(c, "invalid request body")
		return
	}

	identifier := req.Email
	if identifier == "" {
		identifier = req.Username
	}

	user, tokens, err := h.users.Login(c.Request.Context(), identifier, req.Password)
	if err != nil {
		respondError(c, err)
		return
	}

	h.setAuthCookies(c, tokens)
	respond(c, http.StatusOK, gin.H{
		"user":   user,
		"tokens": tokens,
	}, "logged in successfully")
}

type refreshRequest struct {
	RefreshToken string `json:"refreshToken"`
}

func (h *UserHandler) refreshToken(c *gin.Context) {
	var req refreshRequest
	if err := c.ShouldBindJSON(&req); err != nil || req.RefreshToken == "" {
		// browser clients carry the token in a cookie instead
		if cookie, cerr := c.Cookie("refreshToken"); cerr == nil {
			req.RefreshToken = cookie
		}
	}
	if req.RefreshToken == "" {
		respondBadRequest(c, "refresh token is required")
		return
	}

	tokens, err := h.users.Refresh(c.Request.Context(), req.RefreshToken)
	if err != nil {
		respondError(c, err)
		return
	}

	h.setAuthCookies(c, tokens)
	respond(c, http.StatusOK, tokens, "token refreshed successfully")
}

func (h *UserHandler) logout(c *gin.Context) {
	if err := h.users.Logout(c.Request.Context(), middleware.CallerID(c)); err != nil {
		respondError(c, err)
		return
	}

	h.clearAuthCookies(c)
	respond(c, http.StatusOK, nil, "logged out successfully")
}

type changePasswordRequest struct {
	OldPassword string `json:"oldPassword"`
	NewPassword string `json:"newPassword"`
}

func (h *UserHandler) changePassword(c *gin.Context) {
	var req changePasswordRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBadRequest(c, "invalid request body")
		return
	}

	if err := h.users.ChangePassword(c.Request.Context(), middleware.CallerID(c), req.OldPassword, req.NewPassword); err != nil {
		respondError(c, err)
		return
	}
	respond(c, http.StatusOK, nil, "password changed successfully")
}

func (h *UserHandler) currentUser(c *gin.Context) {
	user, err := h.users.GetByID(c.Request.Context(), middleware.CallerID(c))
	if err != nil {
		respondError(c, err)
		return
	}
	respond(c, http.StatusOK, user, "current user fetched successfully")
}

type updateAccountRequest struct {
	FullName string `json:"fullname"`
	Email    string `json:"email"`
}

func (h *UserHandler) updateAccount(c *gin.Context) {
	var req updateAccountRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBadRequest(c, "invalid request body")
		return
	}

	user, err := h.users.UpdateAccount(c.Request.Context(), middleware.CallerID(c), req.FullName, req.Email)
	if err != nil {
		respondError(c, err)
		return
	}
	respond(c, http.StatusOK, user, "account updated successfully")
}

func (h *UserHandler) updateAvatar(c *gin.Context) {
	h.updateImage(c, "avatar", h.users.UpdateAvatar)
}

func (h *UserHandler) updateCoverImage(c *gin.Context) {
	h.updateImage(c, "coverImage", h.users.UpdateCoverImage)
}

func (h *UserHandler) updateImage(c *gin.Context, field string, update func(ctx context.Context, userID primitive.ObjectID, localPath string) (*models.User, error)) {
	localPath, header, err := saveUpload(c, field, h.cfg.TempUploadDir)
	if err != nil {
		respondError(c, err)
		return
	}
	if header == nil {
		respondBadRequest(c, field+" file is required")
		return
	}
	if err := validateImage(field, header, h.cfg); err != nil {
		discardUploads(localPath)
		respondBadRequest(c, err.Error())
		return
	}

	user, err := update(c.Request.Context(), middleware.CallerID(c), localPath)
	if err != nil {
		discardUploads(localPath)
		respondError(c, err)
		return
	}
	respond(c, http.StatusOK, user, field+" updated successfully")
}

func (h *UserHandler) channelProfile(c *gin.Context) {
	profile, err := h.users.ChannelProfile(c.Request.Context(), c.Param("username"), middleware.CallerID(c))
	if err != nil {
		respondError(c, err)
		return
	}
	respond(c, http.StatusOK, profile, "channel profile fetched successfully")
}

func (h *UserHandler) watchHistory(c *gin.Context) {
	history, err := h.users.WatchHistory(c.Request.Context(), middleware.CallerID(c))
	if err != nil {
		respondError(c, err)
		return
	}
	respond(c, http.StatusOK, history, "watch history fetched successfully")
}

func (h *UserHandler) setAuthCookies(c *gin.Context, tokens *service.TokenPair) {
	secure := h.cfg.Environment == "production"
	c.SetCookie("accessToken", tokens.AccessToken, int(h.cfg.AccessTokenExpiry.Seconds()), "/", "", secure, true)
	c.SetCookie("refreshToken", tokens.RefreshToken, int(h.cfg.RefreshTokenExpiry.Seconds()), "/", "", secure, true)
}

func (h *UserHandler) clearAuthCookies(c *gin.Context) {
	secure := h.cfg.Environment == "production"
	c.SetCookie("accessToken", "", -1, "/", "", secure, true)
	c.SetCookie("refreshToken", "", -1, "/", "", secure, true)
}
