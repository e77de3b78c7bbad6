package handlers

import (
	"net/http"
	"path"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/Gaurav200247/suvichar-auth/internal/core/domain"
	"github.com/Gaurav200247/suvichar-auth/internal/transport/http/middleware"
	"github.com/Gaurav200247/suvichar-auth/internal/usecase"
)

const maxProfileImageBytes = 5 << 20

var allowedImageExtensions = map[string]bool{
	".jpg":  true,
	".jpeg": true,
	".png":  true,
	".webp": true,
}

// UserHandler exposes profile endpoints for authenticated users.
type UserHandler struct {
	users    *usecase.UserService
	sessions *usecase.SessionService
}

// NewUserHandler constructs UserHandler.
func NewUserHandler(users *usecase.UserService, sessions *usecase.SessionService) *UserHandler {
	return &UserHandler{users: users, sessions: sessions}
}

// RegisterRoutes binds profile routes behind the session guard.
func (h *UserHandler) RegisterRoutes(r *gin.RouterGroup) {
	guard := middleware.RequireAuth(h.sessions)
	r.GET("/profile", guard, h.getProfile)
	r.PUT("/profile", guard, h.updateProfile)
}

// GetProfile godoc
// @Summary Get current user profile
// @Description Returns the session owner's profile.
// @Tags User
// @Produce json
// @Security BearerAuth
// @Success 200 {object} GetProfileResponse
// @Failure 401 {object} ErrorResponse
// @Router /api/v1/user/profile [get]
func (h *UserHandler) getProfile(c *gin.Context) {
	user, ok := middleware.GetAuthenticatedUser(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, NewErrorResponse(c, http.StatusUnauthorized, "authentication required"))
		return
	}

	c.JSON(http.StatusOK, GetProfileResponse{
		Error:      false,
		StatusCode: http.StatusOK,
		Msg:        "Profile retrieved successfully",
		User:       NewUserProfile(*user),
	})
}

// UpdateProfile godoc
// @Summary Update user profile (name, photo, account type)
// @Description Applies optional name, account type, and profile image changes. The image is a multipart file field named profileImage.
// @Tags User
// @Accept multipart/form-data
// @Produce json
// @Security BearerAuth
// @Param name formData string false "Display name"
// @Param accountType formData string false "Account type: personal or business"
// @Param profileImage formData file false "Profile image (max 5MB)"
// @Success 200 {object} UpdateProfileResponse
// @Failure 400 {object} ErrorResponse
// @Failure 401 {object} ErrorResponse
// @Router /api/v1/user/profile [put]
func (h *UserHandler) updateProfile(c *gin.Context) {
	user, ok := middleware.GetAuthenticatedUser(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, NewErrorResponse(c, http.StatusUnauthorized, "authentication required"))
		return
	}

	var input usecase.ProfileUpdateInput

	if name := strings.TrimSpace(c.PostForm("name")); name != "" {
		if len(name) < 2 {
			c.JSON(http.StatusBadRequest, NewErrorResponse(c, http.StatusBadRequest, "Name must be at least 2 characters"))
			return
		}
		input.Name = &name
	}

	if raw := c.PostForm("accountType"); raw != "" {
		accountType, err := domain.ParseAccountType(raw)
		if err != nil {
			c.JSON(http.StatusBadRequest, NewErrorResponse(c, http.StatusBadRequest, "Account type must be personal or business"))
			return
		}
		input.AccountType = &accountType
	}

	fileHeader, err := c.FormFile("profileImage")
	if err == nil && fileHeader != nil {
		if fileHeader.Size > maxProfileImageBytes {
			c.JSON(http.StatusBadRequest, NewErrorResponse(c, http.StatusBadRequest, "Profile image must be at most 5MB"))
			return
		}

		ext := strings.ToLower(path.Ext(fileHeader.Filename))
		if !allowedImageExtensions[ext] {
			c.JSON(http.StatusBadRequest, NewErrorResponse(c, http.StatusBadRequest, "Profile image must be a jpg, jpeg, png, or webp file"))
			return
		}

		file, err := fileHeader.Open()
		if err != nil {
			c.JSON(http.StatusBadRequest, NewErrorResponse(c, http.StatusBadRequest, "failed to read profile image"))
			return
		}
		defer file.Close()

		input.Image = &usecase.ProfileImage{
			Filename:    fileHeader.Filename,
			ContentType: fileHeader.Header.Get("Content-Type"),
			Body:        file,
		}
	}

	updated, err := h.users.UpdateProfile(c.Request.Context(), *user, input)
	if err != nil {
		c.JSON(http.StatusInternalServerError, NewErrorResponse(c, http.StatusInternalServerError, "failed to update profile"))
		return
	}

	c.JSON(http.StatusOK, UpdateProfileResponse{
		Error:      false,
		StatusCode: http.StatusOK,
		Msg:        "Profile updated successfully",
		User:       NewUserProfile(*updated),
	})
}
