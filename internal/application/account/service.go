package account

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"strings"
	"time"

	"github.com/go-account-api/internal/domain"
	"github.com/go-account-api/internal/pkg/id"
	pkgotp "github.com/go-account-api/internal/pkg/otp"
	"github.com/go-account-api/internal/pkg/validate"
	"golang.org/x/crypto/bcrypt"
)

// DynamoDB attribute names used in partial update maps.
const (
	fieldName         = "name"
	fieldDOB          = "dob"
	fieldMobileNumber = "mobile_number"
	fieldAddress      = "address"
	fieldGender       = "gender"
	fieldCountryCode  = "country_code"
	fieldPasswordHash = "password_hash"
	fieldOTP          = "otp"
	fieldOTPExpiresAt = "otp_expires_at"
	fieldVerified     = "verified"
	fieldProfilePic   = "profile_pic"
	fieldDeviceToken  = "device_token"
)

// UploadedFile carries an optional multipart upload into the service.
type UploadedFile struct {
	Reader      io.Reader
	Filename    string
	ContentType string
}

type Service interface {
	Login(ctx context.Context, req domain.LoginRequest) (*domain.Account, string, error)
	SignUp(ctx context.Context, req domain.SignUpRequest, file *UploadedFile) (*domain.Account, error)
	VerifyOTP(ctx context.Context, req domain.VerifyOTPRequest) error
	ResendOTP(ctx context.Context, identifier string) (string, error)
	ForgotPassword(ctx context.Context, identifier string) (string, error)
	ResetPassword(ctx context.Context, req domain.ResetPasswordRequest) error
	Profile(ctx context.Context, accountID string) (*domain.Account, error)
	ChangePassword(ctx context.Context, accountID string, req domain.ChangePasswordRequest) error
	Logout(ctx context.Context, accountID string) error
	DeleteAccount(ctx context.Context, accountID string) error
	UpdateProfile(ctx context.Context, accountID string, req domain.UpdateProfileRequest, file *UploadedFile) (*domain.Account, error)
}

type accountStore interface {
	Put(ctx context.Context, a *domain.Account) error
	Get(ctx context.Context, accountID string) (*domain.Account, error)
	GetByIdentifier(ctx context.Context, identifier string) (*domain.Account, error)
	FindDuplicate(ctx context.Context, email, mobileNumber string) (bool, error)
	Update(ctx context.Context, accountID string, updates map[string]interface{}) error
	SoftDelete(ctx context.Context, accountID string) error
}

type objectStore interface {
	Upload(ctx context.Context, key string, r io.Reader, contentType string) (string, error)
	Delete(ctx context.Context, key string) error
}

type tokenSigner interface {
	Sign(userID string) (string, error)
}

type mailer interface {
	SendEmail(to, subject, body string) error
}

type smsSender interface {
	SendSMS(ctx context.Context, to, message string) error
}

type service struct {
	repo      accountStore
	files     objectStore
	signer    tokenSigner
	mailer    mailer
	smsSender smsSender
	otpTTL    time.Duration
}

type ServiceDeps struct {
	AccountRepo accountStore
	FileStore   objectStore
	TokenSigner tokenSigner
	Mailer      mailer
	SMSSender   smsSender
	OTPTTL      time.Duration
}

func NewService(deps ServiceDeps) Service {
	return &service{
		repo:      deps.AccountRepo,
		files:     deps.FileStore,
		signer:    deps.TokenSigner,
		mailer:    deps.Mailer,
		smsSender: deps.SMSSender,
		otpTTL:    deps.OTPTTL,
	}
}

func (s *service) Login(ctx context.Context, req domain.LoginRequest) (*domain.Account, string, error) {
	if err := validate.Struct(&req); err != nil {
		return nil, "", err
	}
	a, err := s.repo.GetByIdentifier(ctx, req.EmailOrMobile)
	if err != nil {
		return nil, "", err
	}
	if a.Status == domain.StatusBlock {
		return nil, "", fmt.Errorf("account awaiting admin approval: %w", domain.ErrUnauthorized)
	}
	if err := bcrypt.CompareHashAndPassword([]byte(a.PasswordHash), []byte(req.Password)); err != nil {
		return nil, "", fmt.Errorf("incorrect email or password: %w", domain.ErrUnauthorized)
	}
	token, err := s.signer.Sign(a.AccountID)
	if err != nil {
		return nil, "", err
	}
	if req.DeviceToken != "" && req.DeviceToken != a.DeviceToken {
		if err := s.repo.Update(ctx, a.AccountID, map[string]interface{}{fieldDeviceToken: req.DeviceToken}); err != nil {
			slog.Warn("failed to store device token", "account_id", a.AccountID, "err", err)
		} else {
			a.DeviceToken = req.DeviceToken
		}
	}
	return a, token, nil
}

func (s *service) SignUp(ctx context.Context, req domain.SignUpRequest, file *UploadedFile) (*domain.Account, error) {
	if err := validate.Struct(&req); err != nil {
		return nil, err
	}
	dup, err := s.repo.FindDuplicate(ctx, req.Email, req.MobileNumber)
	if err != nil {
		return nil, err
	}
	if dup {
		return nil, fmt.Errorf("account with this email or mobile number already exists: %w", domain.ErrConflict)
	}

	profilePic := ""
	if file != nil {
		key := fmt.Sprintf("profile-pics/%s-%s", id.New(), file.Filename)
		profilePic, err = s.files.Upload(ctx, key, file.Reader, file.ContentType)
		if err != nil {
			return nil, fmt.Errorf("upload profile picture: %w", err)
		}
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
	if err != nil {
		return nil, err
	}
	code, err := pkgotp.New()
	if err != nil {
		return nil, err
	}

	now := time.Now().UTC()
	a := &domain.Account{
		AccountID:     id.New(),
		Name:          req.Name,
		Email:         req.Email,
		CountryCode:   req.CountryCode,
		MobileNumber:  req.MobileNumber,
		DOB:           req.DOB,
		Address:       req.Address,
		Gender:        req.Gender,
		PasswordHash:  string(hash),
		OTP:           code,
		OTPExpiresAt:  pkgotp.Expiry(s.otpTTL),
		Verified:      false,
		Status:        domain.StatusActive,
		ApproveStatus: domain.ApprovePending,
		UserType:      domain.TypeUser,
		ProfilePic:    profilePic,
		DeviceToken:   req.DeviceToken,
		CreatedAt:     now,
		UpdatedAt:     now,
	}
	if err := s.repo.Put(ctx, a); err != nil {
		return nil, err
	}
	s.deliverOTP(ctx, a, code)
	return a, nil
}

func (s *service) VerifyOTP(ctx context.Context, req domain.VerifyOTPRequest) error {
	if err := validate.Struct(&req); err != nil {
		return err
	}
	a, err := s.repo.Get(ctx, req.UserID)
	if err != nil {
		return err
	}
	if time.Now().UnixMilli() > a.OTPExpiresAt {
		return fmt.Errorf("otp has expired: %w", domain.ErrOTPExpired)
	}
	if a.OTP == "" || a.OTP != req.OTP {
		return fmt.Errorf("incorrect otp: %w", domain.ErrOTPMismatch)
	}
	// Clearing the code makes it single-use; a replay before natural expiry
	// fails the mismatch check above.
	return s.repo.Update(ctx, a.AccountID, map[string]interface{}{
		fieldVerified: true,
		fieldOTP:      "",
	})
}

func (s *service) ResendOTP(ctx context.Context, identifier string) (string, error) {
	return s.issueOTP(ctx, identifier)
}

func (s *service) ForgotPassword(ctx context.Context, identifier string) (string, error) {
	return s.issueOTP(ctx, identifier)
}

// issueOTP regenerates the account's OTP and resets its expiry window.
// Delivery is best-effort; the code is also returned to the caller.
func (s *service) issueOTP(ctx context.Context, identifier string) (string, error) {
	if identifier == "" {
		return "", &validate.FieldErrors{Fields: map[string]string{"mobileNumberOREmail": "required"}}
	}
	a, err := s.repo.GetByIdentifier(ctx, identifier)
	if err != nil {
		return "", err
	}
	code, err := pkgotp.New()
	if err != nil {
		return "", err
	}
	err = s.repo.Update(ctx, a.AccountID, map[string]interface{}{
		fieldOTP:          code,
		fieldOTPExpiresAt: pkgotp.Expiry(s.otpTTL),
	})
	if err != nil {
		return "", err
	}
	s.deliverOTP(ctx, a, code)
	return code, nil
}

func (s *service) ResetPassword(ctx context.Context, req domain.ResetPasswordRequest) error {
	if err := validate.Struct(&req); err != nil {
		return err
	}
	if _, err := s.repo.Get(ctx, req.UserID); err != nil {
		return err
	}
	hash, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
	if err != nil {
		return err
	}
	return s.repo.Update(ctx, req.UserID, map[string]interface{}{fieldPasswordHash: string(hash)})
}

func (s *service) Profile(ctx context.Context, accountID string) (*domain.Account, error) {
	return s.repo.Get(ctx, accountID)
}

func (s *service) ChangePassword(ctx context.Context, accountID string, req domain.ChangePasswordRequest) error {
	if err := validate.Struct(&req); err != nil {
		return err
	}
	a, err := s.repo.Get(ctx, accountID)
	if err != nil {
		return err
	}
	if err := bcrypt.CompareHashAndPassword([]byte(a.PasswordHash), []byte(req.OldPassword)); err != nil {
		return fmt.Errorf("current password is incorrect: %w", domain.ErrUnauthorized)
	}
	hash, err := bcrypt.GenerateFromPassword([]byte(req.NewPassword), bcrypt.DefaultCost)
	if err != nil {
		return err
	}
	return s.repo.Update(ctx, accountID, map[string]interface{}{fieldPasswordHash: string(hash)})
}

// Logout clears the stored device token. Access tokens are stateless and
// expire on their own.
func (s *service) Logout(ctx context.Context, accountID string) error {
	return s.repo.Update(ctx, accountID, map[string]interface{}{fieldDeviceToken: ""})
}

func (s *service) DeleteAccount(ctx context.Context, accountID string) error {
	return s.repo.SoftDelete(ctx, accountID)
}

func (s *service) UpdateProfile(ctx context.Context, accountID string, req domain.UpdateProfileRequest, file *UploadedFile) (*domain.Account, error) {
	if err := validate.Struct(&req); err != nil {
		return nil, err
	}
	updates := map[string]interface{}{}
	if req.Name != nil {
		updates[fieldName] = *req.Name
	}
	if req.DOB != nil {
		updates[fieldDOB] = *req.DOB
	}
	if req.MobileNumber != nil {
		updates[fieldMobileNumber] = *req.MobileNumber
	}
	if req.Address != nil {
		updates[fieldAddress] = *req.Address
	}
	if req.Gender != nil {
		updates[fieldGender] = *req.Gender
	}
	if req.CountryCode != nil {
		updates[fieldCountryCode] = *req.CountryCode
	}
	if req.DeviceToken != nil {
		updates[fieldDeviceToken] = *req.DeviceToken
	}
	var oldPic string
	if file != nil {
		if cur, err := s.repo.Get(ctx, accountID); err == nil {
			oldPic = cur.ProfilePic
		}
		key := fmt.Sprintf("profile-pics/%s-%s", id.New(), file.Filename)
		url, err := s.files.Upload(ctx, key, file.Reader, file.ContentType)
		if err != nil {
			return nil, fmt.Errorf("upload profile picture: %w", err)
		}
		updates[fieldProfilePic] = url
	}
	if len(updates) == 0 {
		return s.repo.Get(ctx, accountID)
	}
	if err := s.repo.Update(ctx, accountID, updates); err != nil {
		return nil, err
	}
	// The superseded picture is unreferenced once the update lands; removing
	// it is best-effort cleanup.
	if key := objectKeyFromURL(oldPic); key != "" {
		if err := s.files.Delete(ctx, key); err != nil {
			slog.Warn("failed to delete superseded profile picture", "account_id", accountID, "err", err)
		}
	}
	return s.repo.Get(ctx, accountID)
}

// objectKeyFromURL extracts the object key from an s3://bucket/key URL as
// produced by the file store. Anything else yields "".
func objectKeyFromURL(url string) string {
	rest, ok := strings.CutPrefix(url, "s3://")
	if !ok {
		return ""
	}
	_, key, ok := strings.Cut(rest, "/")
	if !ok {
		return ""
	}
	return key
}

// deliverOTP pushes the code over email and SMS. Failures are logged and
// never fail the originating request; the caller still returns the code.
func (s *service) deliverOTP(ctx context.Context, a *domain.Account, code string) {
	if s.mailer != nil && a.Email != "" {
		if err := s.mailer.SendEmail(a.Email, "Your verification code", "Your OTP: "+code); err != nil {
			slog.Warn("failed to email otp", "account_id", a.AccountID, "err", err)
		}
	}
	if s.smsSender != nil && a.MobileNumber != "" {
		if err := s.smsSender.SendSMS(ctx, a.CountryCode+a.MobileNumber, "Your OTP: "+code); err != nil {
			slog.Warn("failed to sms otp", "account_id", a.AccountID, "err", err)
		}
	}
}
