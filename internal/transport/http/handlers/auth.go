package handlers

import (
	"net/http"
	"regexp"

	"github.com/gin-gonic/gin"

	"github.com/Gaurav200247/suvichar-auth/internal/transport/http/middleware"
	"github.com/Gaurav200247/suvichar-auth/internal/usecase"
)

// E.164 with a leading plus, 7 to 15 digits.
var phoneNumberRegex = regexp.MustCompile(`^\+[1-9]\d{6,14}$`)

// AuthHandler exposes OTP issuance, verification, and logout endpoints.
type AuthHandler struct {
	otp      *usecase.OTPService
	sessions *usecase.SessionService
}

// NewAuthHandler constructs AuthHandler.
func NewAuthHandler(otp *usecase.OTPService, sessions *usecase.SessionService) *AuthHandler {
	return &AuthHandler{otp: otp, sessions: sessions}
}

// RegisterRoutes binds authentication routes. Logout sits behind the session
// guard so a revoked token can never reach it twice.
func (h *AuthHandler) RegisterRoutes(r *gin.RouterGroup) {
	r.POST("/send-otp", h.sendOTP)
	r.POST("/resend-otp", h.resendOTP)
	r.POST("/verify-otp", h.verifyOTP)
	r.GET("/logout", middleware.RequireAuth(h.sessions), h.logout)
}

var otpErrorCases = []ErrorCase{
	{Err: usecase.ErrAccountDisabled, Status: http.StatusBadRequest, Message: "Your account has been deactivated. Please contact support."},
	{Err: usecase.ErrUserNotFound, Status: http.StatusBadRequest, Message: "User not found. Please sign up first."},
	{Err: usecase.ErrInvalidOrExpiredOTP, Status: http.StatusBadRequest, Message: "Invalid or expired OTP"},
}

// SendOTP godoc
// @Summary Send OTP to phone number
// @Description Creates the account on first contact, supersedes any active passcode, and dispatches a fresh one over SMS.
// @Tags Authentication
// @Accept json
// @Produce json
// @Param request body SendOTPRequest true "Phone number in international format"
// @Success 200 {object} SendOTPResponse
// @Failure 400 {object} ErrorResponse
// @Failure 500 {object} ErrorResponse
// @Router /api/v1/auth/send-otp [post]
func (h *AuthHandler) sendOTP(c *gin.Context) {
	var req SendOTPRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, NewErrorResponse(c, http.StatusBadRequest, "Phone number is required"))
		return
	}

	if !phoneNumberRegex.MatchString(req.PhoneNumber) {
		c.JSON(http.StatusBadRequest, NewErrorResponse(c, http.StatusBadRequest,
			"Phone number must be in international format (e.g., +919876543210)"))
		return
	}

	result, err := h.otp.SendOTP(c.Request.Context(), req.PhoneNumber)
	if err != nil {
		RespondWithMappedError(c, err, otpErrorCases, http.StatusInternalServerError, "failed to send OTP")
		return
	}

	c.JSON(http.StatusOK, SendOTPResponse{
		Error:      false,
		StatusCode: http.StatusOK,
		Msg:        "OTP sent successfully",
		IsNewUser:  result.IsNewUser,
		ExpiresIn:  result.ExpiresIn,
	})
}

// ResendOTP godoc
// @Summary Resend OTP to phone number
// @Description Supersedes the active passcode for an existing account and awaits SMS delivery.
// @Tags Authentication
// @Accept json
// @Produce json
// @Param request body ResendOTPRequest true "Phone number in international format"
// @Success 200 {object} ResendOTPResponse
// @Failure 400 {object} ErrorResponse
// @Failure 500 {object} ErrorResponse
// @Router /api/v1/auth/resend-otp [post]
func (h *AuthHandler) resendOTP(c *gin.Context) {
	var req ResendOTPRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, NewErrorResponse(c, http.StatusBadRequest, "Phone number is required"))
		return
	}

	if !phoneNumberRegex.MatchString(req.PhoneNumber) {
		c.JSON(http.StatusBadRequest, NewErrorResponse(c, http.StatusBadRequest,
			"Phone number must be in international format (e.g., +919876543210)"))
		return
	}

	result, err := h.otp.ResendOTP(c.Request.Context(), req.PhoneNumber)
	if err != nil {
		RespondWithMappedError(c, err, otpErrorCases, http.StatusInternalServerError, "failed to resend OTP")
		return
	}

	c.JSON(http.StatusOK, ResendOTPResponse{
		Error:      false,
		StatusCode: http.StatusOK,
		Msg:        "OTP resent successfully",
		ExpiresIn:  result.ExpiresIn,
	})
}

// VerifyOTP godoc
// @Summary Verify OTP and get access token
// @Description Consumes a valid passcode, marks the account verified, and issues the single active session token.
// @Tags Authentication
// @Accept json
// @Produce json
// @Param request body VerifyOTPRequest true "Phone number and 6-digit code"
// @Success 200 {object} VerifyOTPResponse
// @Failure 400 {object} ErrorResponse
// @Failure 500 {object} ErrorResponse
// @Router /api/v1/auth/verify-otp [post]
func (h *AuthHandler) verifyOTP(c *gin.Context) {
	var req VerifyOTPRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, NewErrorResponse(c, http.StatusBadRequest, "Phone number and OTP are required"))
		return
	}

	if !phoneNumberRegex.MatchString(req.PhoneNumber) {
		c.JSON(http.StatusBadRequest, NewErrorResponse(c, http.StatusBadRequest,
			"Phone number must be in international format (e.g., +919876543210)"))
		return
	}

	if len(req.OTP) != 6 {
		c.JSON(http.StatusBadRequest, NewErrorResponse(c, http.StatusBadRequest, "OTP must be exactly 6 digits"))
		return
	}

	result, err := h.otp.VerifyOTP(c.Request.Context(), req.PhoneNumber, req.OTP)
	if err != nil {
		RespondWithMappedError(c, err, otpErrorCases, http.StatusInternalServerError, "failed to verify OTP")
		return
	}

	c.JSON(http.StatusOK, VerifyOTPResponse{
		Error:                false,
		StatusCode:           http.StatusOK,
		Msg:                  "OTP verified successfully",
		AccessToken:          result.Token,
		Expiry:               result.Expiry,
		User:                 NewUserProfile(result.User),
		RequiresProfileSetup: result.RequiresProfileSetup,
	})
}

// Logout godoc
// @Summary Logout and invalidate access token
// @Description Pins the presented token's expiry to now so it can never authenticate again.
// @Tags Authentication
// @Produce json
// @Security BearerAuth
// @Success 200 {object} LogoutResponse
// @Failure 401 {object} ErrorResponse
// @Failure 500 {object} ErrorResponse
// @Router /api/v1/auth/logout [get]
func (h *AuthHandler) logout(c *gin.Context) {
	token, ok := middleware.GetAccessToken(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, NewErrorResponse(c, http.StatusUnauthorized, "authentication required"))
		return
	}

	if err := h.sessions.Logout(c.Request.Context(), token); err != nil {
		c.JSON(http.StatusInternalServerError, NewErrorResponse(c, http.StatusInternalServerError, "failed to logout"))
		return
	}

	c.JSON(http.StatusOK, LogoutResponse{
		Error:      false,
		StatusCode: http.StatusOK,
		Msg:        "Logged out successfully",
	})
}
