package domain

import "time"

// Account lifecycle status values. DELETE is a soft-delete marker: the row
// stays in the table but identifier lookups must treat it as nonexistent.
const (
	StatusActive = "ACTIVE"
	StatusBlock  = "BLOCK"
	StatusDelete = "DELETE"
)

// Approval states consumed by the admin reminder job.
const (
	ApprovePending  = "PENDING"
	ApproveApproved = "APPROVED"
)

const (
	TypeUser  = "USER"
	TypeAdmin = "ADMIN"
)

type Account struct {
	AccountID    string `json:"id" dynamodbav:"account_id"`
	Name         string `json:"name" dynamodbav:"name"`
	Email        string `json:"email" dynamodbav:"email"`
	CountryCode  string `json:"countryCode" dynamodbav:"country_code"`
	MobileNumber string `json:"mobileNumber" dynamodbav:"mobile_number"`
	DOB          string `json:"dob" dynamodbav:"dob"`
	Address      string `json:"address" dynamodbav:"address"`
	Gender       string `json:"gender" dynamodbav:"gender"`
	PasswordHash string `json:"-" dynamodbav:"password_hash"`

	OTP          string `json:"-" dynamodbav:"otp"`
	OTPExpiresAt int64  `json:"-" dynamodbav:"otp_expires_at"` // Unix milliseconds
	Verified     bool   `json:"isUserVerified" dynamodbav:"verified"`

	Status        string `json:"status" dynamodbav:"account_status"`
	ApproveStatus string `json:"approveStatus" dynamodbav:"approve_status"`
	UserType      string `json:"userType" dynamodbav:"user_type"`

	ProfilePic  string `json:"profilePic,omitempty" dynamodbav:"profile_pic"`
	DeviceToken string `json:"deviceToken,omitempty" dynamodbav:"device_token"`

	CreatedAt time.Time `json:"created" dynamodbav:"created_at"`
	UpdatedAt time.Time `json:"updated" dynamodbav:"updated_at"`
}

type LoginRequest struct {
	EmailOrMobile string `json:"emailOrMobile" validate:"required"`
	Password      string `json:"password" validate:"required"`
	DeviceType    string `json:"deviceType"`
	DeviceToken   string `json:"deviceToken"`
}

type SignUpRequest struct {
	Name         string `json:"name" validate:"required"`
	Email        string `json:"email" validate:"required,email"`
	DOB          string `json:"dob" validate:"required"`
	MobileNumber string `json:"mobileNumber" validate:"required"`
	Address      string `json:"address" validate:"required"`
	Gender       string `json:"gender" validate:"required"`
	CountryCode  string `json:"countryCode" validate:"required,max=3"`
	Password     string `json:"password" validate:"required,min=8,max=72"`
	DeviceToken  string `json:"deviceToken"`
}

type VerifyOTPRequest struct {
	UserID string `json:"userId" validate:"required"`
	OTP    string `json:"otp" validate:"required,len=6,numeric"`
}

type ResetPasswordRequest struct {
	UserID   string `json:"userId" validate:"required"`
	Password string `json:"password" validate:"required,min=8,max=72"`
}

type ChangePasswordRequest struct {
	OldPassword string `json:"oldPassword" validate:"required"`
	NewPassword string `json:"newPassword" validate:"required,min=8,max=72"`
}

type UpdateProfileRequest struct {
	Name         *string `json:"name"`
	DOB          *string `json:"dob"`
	MobileNumber *string `json:"mobileNumber"`
	Address      *string `json:"address"`
	Gender       *string `json:"gender"`
	CountryCode  *string `json:"countryCode" validate:"omitempty,max=3"`
	DeviceToken  *string `json:"deviceToken"`
}
