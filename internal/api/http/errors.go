package http

import (
	"errors"
	"net/http"

	validation "github.com/go-ozzo/ozzo-validation"
	"github.com/gofiber/fiber/v2"

	"github.com/Behnamfe76/user-auth-service/internal/auth"
	"github.com/Behnamfe76/user-auth-service/internal/service"
	apperrors "github.com/Behnamfe76/user-auth-service/pkg/util"
)

// MapError translates an error from the auth pipeline or the services into
// the status and message shown to the client. Server faults never expose
// their cause.
func MapError(err error) *apperrors.DomainError {
	if err == nil {
		return nil
	}

	switch {
	case errors.Is(err, auth.ErrServerError):
		return serverError(err)
	case errors.Is(err, auth.ErrTokenNotProvided):
		return apperrors.NewDomainError("TOKEN_NOT_PROVIDED", auth.ErrTokenNotProvided.Error(), http.StatusUnauthorized, nil)
	case errors.Is(err, auth.ErrInvalidToken):
		return apperrors.NewDomainError("INVALID_TOKEN", auth.ErrInvalidToken.Error(), http.StatusUnauthorized, nil)
	case errors.Is(err, auth.ErrUserNoLongerExists):
		return apperrors.NewDomainError("USER_NO_LONGER_EXISTS", auth.ErrUserNoLongerExists.Error(), http.StatusUnauthorized, nil)
	case errors.Is(err, auth.ErrPermissionsDenied):
		return apperrors.NewDomainError("PERMISSIONS_DENIED", auth.ErrPermissionsDenied.Error(), http.StatusForbidden, nil)
	case errors.Is(err, service.ErrWrongCredentials):
		return apperrors.NewDomainError("WRONG_CREDENTIALS", service.ErrWrongCredentials.Error(), http.StatusBadRequest, nil)
	case errors.Is(err, service.ErrEmailExists):
		return apperrors.NewConflict(service.ErrEmailExists.Error(), nil).(*apperrors.DomainError)
	case errors.Is(err, service.ErrTooManyAttempts):
		return apperrors.NewTooManyRequests(service.ErrTooManyAttempts.Error()).(*apperrors.DomainError)
	case errors.Is(err, auth.ErrEmptyPassword), errors.Is(err, auth.ErrPasswordTooLong):
		return apperrors.NewValidationError(err.Error(), nil).(*apperrors.DomainError)
	}

	var verrs validation.Errors
	if errors.As(err, &verrs) {
		details := make(map[string]any, len(verrs))
		for field, fieldErr := range verrs {
			details[field] = fieldErr.Error()
		}
		return apperrors.NewValidationError(verrs.Error(), details).(*apperrors.DomainError)
	}

	var fiberErr *fiber.Error
	if errors.As(err, &fiberErr) {
		if fiberErr.Code >= http.StatusInternalServerError {
			return serverError(err)
		}
		return apperrors.NewDomainError(http.StatusText(fiberErr.Code), fiberErr.Message, fiberErr.Code, nil)
	}

	return apperrors.ToDomainError(err)
}

func serverError(err error) *apperrors.DomainError {
	return apperrors.NewInternalError(err).(*apperrors.DomainError)
}
