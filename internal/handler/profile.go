package handler

import (
	"errors"
	"log/slog"
	"net/http"
	"time"

	"github.com/sakif/dailystretch/internal/apperror"
	"github.com/sakif/dailystretch/internal/auth"
	"github.com/sakif/dailystretch/internal/service"
)

// maxUploadMemory is how much of a multipart body is held in memory before
// spilling to temp files. The actual photo size limit is enforced by the
// profile service, not here.
const maxUploadMemory = 1 << 20 // 1 MiB

// ProfileHandler serves the profile page data, partial edits, and photo
// uploads.
type ProfileHandler struct {
	profiles *service.ProfileService
	accounts *service.AccountService
	logger   *slog.Logger
}

func NewProfileHandler(profiles *service.ProfileService, accounts *service.AccountService, logger *slog.Logger) *ProfileHandler {
	return &ProfileHandler{profiles: profiles, accounts: accounts, logger: logger}
}

// profileView is the JSON shape for profile reads and successful edits.
type profileView struct {
	OK                bool   `json:"ok"`
	Username          string `json:"username"`
	Email             string `json:"email"`
	Bio               string `json:"bio"`
	DateOfBirth       string `json:"date_of_birth"`       // "" or YYYY-MM-DD
	ProfilePictureURL string `json:"profile_picture_url"` // "" when no photo set
}

// HandleGet returns the caller's account and profile data.
func (h *ProfileHandler) HandleGet(w http.ResponseWriter, r *http.Request) {
	userID, _ := auth.UserIDFromContext(r.Context())

	user, err := h.accounts.GetUserByID(r.Context(), userID)
	if err != nil {
		writeError(w, err)
		return
	}
	profile, err := h.profiles.Get(r.Context(), userID)
	if err != nil {
		writeError(w, err)
		return
	}

	dob := ""
	if profile.DateOfBirth != nil {
		dob = profile.DateOfBirth.Format("2006-01-02")
	}
	writeJSON(w, http.StatusOK, profileView{
		OK:                true,
		Username:          user.Username,
		Email:             user.Email,
		Bio:               profile.Bio,
		DateOfBirth:       dob,
		ProfilePictureURL: h.profiles.PhotoURL(profile),
	})
}

// HandleEdit applies a partial profile edit. Only fields present in the form
// are touched — omitting "bio" leaves the bio alone, submitting an empty
// "bio" clears it. An optional profile_picture file part is stored too.
func (h *ProfileHandler) HandleEdit(w http.ResponseWriter, r *http.Request) {
	userID, _ := auth.UserIDFromContext(r.Context())

	// The edit form posts multipart when it includes a photo, urlencoded
	// otherwise. ParseMultipartForm falls through to ParseForm semantics
	// for the text fields either way.
	if err := r.ParseMultipartForm(maxUploadMemory); err != nil && err != http.ErrNotMultipart {
		writeError(w, apperror.ValidationFailed("", "Invalid form data"))
		return
	}

	var upd service.ProfileUpdate
	if r.Form.Has("username") {
		v := r.FormValue("username")
		upd.Username = &v
	}
	if r.Form.Has("bio") {
		v := r.FormValue("bio")
		upd.Bio = &v
	}
	if r.Form.Has("date_of_birth") {
		raw := r.FormValue("date_of_birth")
		if raw != "" {
			dob, err := time.Parse("2006-01-02", raw)
			if err != nil {
				writeError(w, apperror.ValidationFailed("date_of_birth", "Invalid date format, expected YYYY-MM-DD"))
				return
			}
			upd.DateOfBirth = &dob
		}
	}

	// A photo bundled with the edit form rides along as profile_picture,
	// saved in the same service call as the text fields.
	if file, header, ferr := r.FormFile("profile_picture"); ferr == nil {
		defer file.Close()
		upd.Photo = &service.PhotoUpload{
			Filename:    header.Filename,
			ContentType: header.Header.Get("Content-Type"),
			Size:        header.Size,
			File:        file,
		}
	}

	user, profile, err := h.profiles.Update(r.Context(), userID, upd)
	if err != nil {
		var appErr *apperror.AppError
		if !isXHR(r) && errors.As(err, &appErr) && appErr.Code == apperror.CodeUsernameTaken {
			redirect(w, r, "/main/profile?error=username_taken")
			return
		}
		writeError(w, err)
		return
	}

	if isXHR(r) {
		dob := ""
		if profile.DateOfBirth != nil {
			dob = profile.DateOfBirth.Format("2006-01-02")
		}
		writeJSON(w, http.StatusOK, profileView{
			OK:                true,
			Username:          user.Username,
			Email:             user.Email,
			Bio:               profile.Bio,
			DateOfBirth:       dob,
			ProfilePictureURL: h.profiles.PhotoURL(profile),
		})
		return
	}
	redirect(w, r, "/main/profile?updated=1")
}

// HandleUploadPhoto stores a new profile photo posted as the
// profile_picture multipart field and returns its public URL.
func (h *ProfileHandler) HandleUploadPhoto(w http.ResponseWriter, r *http.Request) {
	userID, _ := auth.UserIDFromContext(r.Context())

	if err := r.ParseMultipartForm(maxUploadMemory); err != nil {
		writeError(w, apperror.ValidationCode(apperror.CodeNoFile, "profile_picture", "No file uploaded"))
		return
	}

	file, header, err := r.FormFile("profile_picture")
	if err != nil {
		writeError(w, apperror.ValidationCode(apperror.CodeNoFile, "profile_picture", "No file uploaded"))
		return
	}
	defer file.Close()

	url, err := h.profiles.UploadPhoto(r.Context(), userID, service.PhotoUpload{
		Filename:    header.Filename,
		ContentType: header.Header.Get("Content-Type"),
		Size:        header.Size,
		File:        file,
	})
	if err != nil {
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, map[string]any{
		"ok":                  true,
		"profile_picture_url": url,
	})
}
