package service

import "github.com/jobtrackr/jobtrackr-go/internal/apperr"

// Sentinel errors returned by the services. Handlers translate them through
// apperr; compare with errors.Is.
var (
	ErrNameRequired     = apperr.New(apperr.KindValidation, "name is required")
	ErrEmailRequired    = apperr.New(apperr.KindValidation, "email is required")
	ErrPasswordRequired = apperr.New(apperr.KindValidation, "password is required")

	ErrInvalidCredentials = apperr.New(apperr.KindAuth, "invalid email or password")
	ErrEmailTaken         = apperr.New(apperr.KindConflict, "user with this email already exists")
	ErrUserNotFound       = apperr.New(apperr.KindNotFound, "user not found")

	ErrTokenRequired         = apperr.New(apperr.KindValidation, "token is required")
	ErrNewPasswordRequired   = apperr.New(apperr.KindValidation, "new password is required")
	ErrInvalidOrExpiredToken = apperr.New(apperr.KindValidation, "invalid or expired reset token")

	ErrCompanyRequired        = apperr.New(apperr.KindValidation, "company is required")
	ErrTitleRequired          = apperr.New(apperr.KindValidation, "title is required")
	ErrJobDescriptionRequired = apperr.New(apperr.KindValidation, "job description is required")
	ErrInvalidStatus          = apperr.New(apperr.KindValidation, "invalid job status")
	ErrJobNotFound            = apperr.New(apperr.KindNotFound, "job not found")

	ErrResumeTextRequired = apperr.New(apperr.KindValidation, "resume text is required")
	ErrAIUnavailable      = apperr.New(apperr.KindUnavailable, "AI service is not configured")
)

// weakPassword reports strength policy failures. The message is the first
// violation and the details list all of them; callers match on the kind.
func weakPassword(messages []string) error {
	return apperr.New(apperr.KindValidation, messages[0]).WithDetails(messages...)
}

func serverError(err error, msg string) error {
	return apperr.Wrap(err, apperr.KindServer, msg)
}
