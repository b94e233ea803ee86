package handler

import (
	"encoding/json"
	"fmt"
	"net/http"

	"github.com/go-account-api/internal/application/account"
	"github.com/go-account-api/internal/domain"
	"github.com/go-account-api/internal/transport/http/middleware"
)

const maxUploadBytes = 32 << 20

// AccountHandler handles every /user endpoint.
type AccountHandler struct {
	svc account.Service
}

func NewAccountHandler(svc account.Service) *AccountHandler {
	return &AccountHandler{svc: svc}
}

func (h *AccountHandler) Login(w http.ResponseWriter, r *http.Request) {
	var req domain.LoginRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, fmt.Errorf("invalid request body: %w", domain.ErrBadRequest))
		return
	}
	a, token, err := h.svc.Login(r.Context(), req)
	if err != nil {
		writeError(w, err)
		return
	}
	writeSuccess(w, "Login successfully.", map[string]interface{}{
		"user":  a,
		"token": token,
	})
}

func (h *AccountHandler) SignUp(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseMultipartForm(maxUploadBytes); err != nil {
		writeError(w, fmt.Errorf("invalid multipart form: %w", domain.ErrBadRequest))
		return
	}
	req := domain.SignUpRequest{
		Name:         r.FormValue("name"),
		Email:        r.FormValue("email"),
		DOB:          r.FormValue("dob"),
		MobileNumber: r.FormValue("mobileNumber"),
		Address:      r.FormValue("address"),
		Gender:       r.FormValue("gender"),
		CountryCode:  r.FormValue("countryCode"),
		Password:     r.FormValue("password"),
		DeviceToken:  r.FormValue("deviceToken"),
	}

	file, closeFile, err := formFile(r, "files")
	if err != nil {
		writeError(w, fmt.Errorf("invalid file upload: %w", domain.ErrBadRequest))
		return
	}
	if closeFile != nil {
		defer closeFile()
	}

	a, err := h.svc.SignUp(r.Context(), req, file)
	if err != nil {
		writeError(w, err)
		return
	}
	writeSuccess(w, "User created successfully.", a)
}

func (h *AccountHandler) VerifyOTP(w http.ResponseWriter, r *http.Request) {
	req := domain.VerifyOTPRequest{
		UserID: r.URL.Query().Get("userId"),
		OTP:    r.URL.Query().Get("otp"),
	}
	if err := h.svc.VerifyOTP(r.Context(), req); err != nil {
		writeError(w, err)
		return
	}
	writeSuccess(w, "OTP verified successfully.", map[string]interface{}{})
}

func (h *AccountHandler) ResendOTP(w http.ResponseWriter, r *http.Request) {
	code, err := h.svc.ResendOTP(r.Context(), r.URL.Query().Get("mobileNumberOREmail"))
	if err != nil {
		writeError(w, err)
		return
	}
	writeSuccess(w, "OTP resent successfully.", map[string]string{"otp": code})
}

func (h *AccountHandler) ForgotPassword(w http.ResponseWriter, r *http.Request) {
	code, err := h.svc.ForgotPassword(r.Context(), r.URL.Query().Get("mobileNumberOREmail"))
	if err != nil {
		writeError(w, err)
		return
	}
	writeSuccess(w, "OTP sent successfully.", map[string]string{"otp": code})
}

func (h *AccountHandler) ResetPassword(w http.ResponseWriter, r *http.Request) {
	req := domain.ResetPasswordRequest{
		UserID:   r.URL.Query().Get("userId"),
		Password: r.URL.Query().Get("password"),
	}
	if req.UserID == "" && r.Body != nil {
		_ = json.NewDecoder(r.Body).Decode(&req)
	}
	if err := h.svc.ResetPassword(r.Context(), req); err != nil {
		writeError(w, err)
		return
	}
	writeSuccess(w, "Password changed successfully.", map[string]interface{}{})
}

func (h *AccountHandler) Profile(w http.ResponseWriter, r *http.Request) {
	accountID, ok := middleware.AccountIDFromContext(r.Context())
	if !ok {
		writeErrorCode(w, http.StatusUnauthorized, http.StatusUnauthorized, "unauthorized", nil)
		return
	}
	a, err := h.svc.Profile(r.Context(), accountID)
	if err != nil {
		writeError(w, err)
		return
	}
	writeSuccess(w, "Profile fetched successfully.", a)
}

func (h *AccountHandler) ChangePassword(w http.ResponseWriter, r *http.Request) {
	accountID, ok := middleware.AccountIDFromContext(r.Context())
	if !ok {
		writeErrorCode(w, http.StatusUnauthorized, http.StatusUnauthorized, "unauthorized", nil)
		return
	}
	var req domain.ChangePasswordRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, fmt.Errorf("invalid request body: %w", domain.ErrBadRequest))
		return
	}
	if err := h.svc.ChangePassword(r.Context(), accountID, req); err != nil {
		writeError(w, err)
		return
	}
	writeSuccess(w, "Password changed successfully.", nil)
}

func (h *AccountHandler) Logout(w http.ResponseWriter, r *http.Request) {
	accountID, ok := middleware.AccountIDFromContext(r.Context())
	if !ok {
		writeErrorCode(w, http.StatusUnauthorized, http.StatusUnauthorized, "unauthorized", nil)
		return
	}
	if err := h.svc.Logout(r.Context(), accountID); err != nil {
		writeError(w, err)
		return
	}
	writeSuccess(w, "Logged out successfully.", nil)
}

func (h *AccountHandler) DeleteAccount(w http.ResponseWriter, r *http.Request) {
	accountID, ok := middleware.AccountIDFromContext(r.Context())
	if !ok {
		writeErrorCode(w, http.StatusUnauthorized, http.StatusUnauthorized, "unauthorized", nil)
		return
	}
	if err := h.svc.DeleteAccount(r.Context(), accountID); err != nil {
		writeError(w, err)
		return
	}
	writeSuccess(w, "Account deleted successfully.", nil)
}

func (h *AccountHandler) UpdateProfile(w http.ResponseWriter, r *http.Request) {
	accountID, ok := middleware.AccountIDFromContext(r.Context())
	if !ok {
		writeErrorCode(w, http.StatusUnauthorized, http.StatusUnauthorized, "unauthorized", nil)
		return
	}
	if err := r.ParseMultipartForm(maxUploadBytes); err != nil {
		writeError(w, fmt.Errorf("invalid multipart form: %w", domain.ErrBadRequest))
		return
	}
	req := domain.UpdateProfileRequest{
		Name:         formValue(r, "name"),
		DOB:          formValue(r, "dob"),
		MobileNumber: formValue(r, "mobileNumber"),
		Address:      formValue(r, "address"),
		Gender:       formValue(r, "gender"),
		CountryCode:  formValue(r, "countryCode"),
		DeviceToken:  formValue(r, "deviceToken"),
	}

	file, closeFile, err := formFile(r, "files")
	if err != nil {
		writeError(w, fmt.Errorf("invalid file upload: %w", domain.ErrBadRequest))
		return
	}
	if closeFile != nil {
		defer closeFile()
	}

	a, err := h.svc.UpdateProfile(r.Context(), accountID, req, file)
	if err != nil {
		writeError(w, err)
		return
	}
	writeSuccess(w, "Profile updated successfully.", a)
}

// formValue returns a pointer to the multipart field value, or nil when the
// field was not sent at all. Distinguishes "absent" from "empty".
func formValue(r *http.Request, name string) *string {
	if r.MultipartForm == nil {
		return nil
	}
	vs, ok := r.MultipartForm.Value[name]
	if !ok || len(vs) == 0 {
		return nil
	}
	return &vs[0]
}

// formFile extracts the optional uploaded file. The second return closes the
// underlying stream and must be deferred when non-nil.
func formFile(r *http.Request, field string) (*account.UploadedFile, func(), error) {
	f, header, err := r.FormFile(field)
	if err == http.ErrMissingFile {
		return nil, nil, nil
	}
	if err != nil {
		return nil, nil, err
	}
	return &account.UploadedFile{
		Reader:      f,
		Filename:    header.Filename,
		ContentType: header.Header.Get("Content-Type"),
	}, func() { _ = f.Close() }, nil
}
