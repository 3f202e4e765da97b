package controllers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/yigit/coursescope/internal/app/models"
	"github.com/yigit/coursescope/internal/app/models/dto"
	"github.com/yigit/coursescope/internal/app/services"
	"github.com/yigit/coursescope/internal/middleware"
)

// ProfileController handles the authenticated user's profile
type ProfileController struct {
	profileService services.ProfileService
}

// NewProfileController creates a new ProfileController
func NewProfileController(profileService services.ProfileService) *ProfileController {
	return &ProfileController{
		profileService: profileService,
	}
}

func (c *ProfileController) toProfileResponse(user *models.User) dto.ProfileResponse {
	response := dto.ProfileResponse{
		Username:       user.Username,
		Email:          user.Email,
		DateJoined:     user.DateJoined,
		EditableFields: c.profileService.EditableFields(user),
	}
	if user.HasEmail() {
		sendReviewEmail := user.SendReviewEmail
		response.SendReviewEmail = &sendReviewEmail
	}
	return response
}

func currentUserID(ctx *gin.Context) (int64, bool) {
	userID, ok := middleware.GetUserID(ctx)
	if !ok {
		errorDetail := dto.NewErrorDetail(dto.ErrorCodeUnauthorized, "Authentication required")
		ctx.AbortWithStatusJSON(http.StatusUnauthorized, dto.NewErrorResponse(errorDetail))
	}
	return userID, ok
}

// GetProfile returns the current user's profile
// @Summary Get profile
// @Tags profile
// @Produce json
// @Security BearerAuth
// @Success 200 {object} dto.APIResponse{data=dto.ProfileResponse} "Profile"
// @Failure 401 {object} dto.ErrorResponse "Unauthorized - Invalid or missing token"
// @Failure 404 {object} dto.ErrorResponse "User not found"
// @Router /profile [get]
func (c *ProfileController) GetProfile(ctx *gin.Context) {
	userID, ok := currentUserID(ctx)
	if !ok {
		return
	}

	user, err := c.profileService.GetProfile(ctx.Request.Context(), userID)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, dto.NewSuccessResponse(c.toProfileResponse(user), ""))
}

// UpdateProfile edits the current user's profile
// @Summary Update profile
// @Description Sets the email when none is on file, otherwise updates the review email preference
// @Tags profile
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param request body dto.UpdateProfileRequest true "Profile changes"
// @Success 200 {object} dto.APIResponse{data=dto.ProfileResponse} "Updated profile"
// @Failure 400 {object} dto.ErrorResponse "Invalid email"
// @Failure 401 {object} dto.ErrorResponse "Unauthorized - Invalid or missing token"
// @Failure 409 {object} dto.ErrorResponse "Email already in use"
// @Router /profile [put]
func (c *ProfileController) UpdateProfile(ctx *gin.Context) {
	userID, ok := currentUserID(ctx)
	if !ok {
		return
	}

	var req dto.UpdateProfileRequest
	if !middleware.BindJSON(ctx, &req) {
		return
	}

	user, err := c.profileService.UpdateProfile(ctx.Request.Context(), userID, services.ProfileUpdate{
		Email:           req.Email,
		SendReviewEmail: req.SendReviewEmail,
	})
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, dto.NewSuccessResponse(c.toProfileResponse(user), "Profile updated"))
}
