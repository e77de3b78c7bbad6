package handlers

import (
	"time"

	"github.com/gin-gonic/gin"

	"github.com/Gaurav200247/suvichar-auth/internal/core/domain"
)

// ErrorResponse is the error payload returned by every endpoint. The envelope
// mirrors the success shape so clients can always read error and msg.
type ErrorResponse struct {
	Error      bool   `json:"error"`
	StatusCode int    `json:"statusCode"`
	Msg        string `json:"msg"`
	TraceID    string `json:"trace_id,omitempty"`
}

// NewErrorResponse creates an error response with trace ID from context.
func NewErrorResponse(c *gin.Context, status int, msg string) ErrorResponse {
	traceID, _ := c.Get("trace_id")
	traceIDStr, _ := traceID.(string)

	return ErrorResponse{
		Error:      true,
		StatusCode: status,
		Msg:        msg,
		TraceID:    traceIDStr,
	}
}

// UserProfile describes the user view returned by the API.
type UserProfile struct {
	ID              string  `json:"id"`
	PhoneNumber     string  `json:"phoneNumber"`
	Name            *string `json:"name"`
	ProfileImageURL *string `json:"profileImageUrl"`
	AccountType     string  `json:"accountType"`
	IsVerified      bool    `json:"isVerified"`
	IsDeleted       bool    `json:"isDeleted"`
}

// NewUserProfile maps a domain user onto the API representation. An empty
// display name is rendered as null to signal an incomplete profile.
func NewUserProfile(user domain.User) UserProfile {
	var name *string
	if user.Name != "" {
		n := user.Name
		name = &n
	}

	return UserProfile{
		ID:              user.ID,
		PhoneNumber:     user.PhoneNumber,
		Name:            name,
		ProfileImageURL: user.ProfileImageURL,
		AccountType:     string(user.AccountType),
		IsVerified:      user.IsVerified,
		IsDeleted:       user.IsDeleted,
	}
}

// SendOTPRequest defines the payload for the send-otp endpoint.
type SendOTPRequest struct {
	PhoneNumber string `json:"phoneNumber" binding:"required"`
}

// SendOTPResponse describes a successful passcode issuance.
type SendOTPResponse struct {
	Error      bool   `json:"error"`
	StatusCode int    `json:"statusCode"`
	Msg        string `json:"msg"`
	IsNewUser  bool   `json:"isNewUser"`
	ExpiresIn  int    `json:"expiresIn"`
}

// ResendOTPRequest defines the payload for the resend-otp endpoint.
type ResendOTPRequest struct {
	PhoneNumber string `json:"phoneNumber" binding:"required"`
}

// ResendOTPResponse describes a successful passcode resend.
type ResendOTPResponse struct {
	Error      bool   `json:"error"`
	StatusCode int    `json:"statusCode"`
	Msg        string `json:"msg"`
	ExpiresIn  int    `json:"expiresIn"`
}

// VerifyOTPRequest defines the payload for the verify-otp endpoint.
type VerifyOTPRequest struct {
	PhoneNumber string `json:"phoneNumber" binding:"required"`
	OTP         string `json:"otp" binding:"required"`
}

// VerifyOTPResponse carries the session issued for a verified passcode.
type VerifyOTPResponse struct {
	Error                bool        `json:"error"`
	StatusCode           int         `json:"statusCode"`
	Msg                  string      `json:"msg"`
	AccessToken          string      `json:"accessToken"`
	Expiry               time.Time   `json:"expiry"`
	User                 UserProfile `json:"user"`
	RequiresProfileSetup bool        `json:"requiresProfileSetup"`
}

// LogoutResponse acknowledges session termination.
type LogoutResponse struct {
	Error      bool   `json:"error"`
	StatusCode int    `json:"statusCode"`
	Msg        string `json:"msg"`
}

// GetProfileResponse wraps the authenticated user's profile.
type GetProfileResponse struct {
	Error      bool        `json:"error"`
	StatusCode int         `json:"statusCode"`
	Msg        string      `json:"msg"`
	User       UserProfile `json:"user"`
}

// UpdateProfileResponse wraps the profile state after an update.
type UpdateProfileResponse struct {
	Error      bool        `json:"error"`
	StatusCode int         `json:"statusCode"`
	Msg        string      `json:"msg"`
	User       UserProfile `json:"user"`
}

// HealthResponse reports service liveness.
type HealthResponse struct {
	Status    string    `json:"status"`
	StartedAt time.Time `json:"started_at"`
}

// ReadinessResponse reports dependency readiness.
type ReadinessResponse struct {
	Status string `json:"status"`
}
