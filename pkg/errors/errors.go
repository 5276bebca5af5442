package errors

import (
	"errors"
	"fmt"
)

// Domain errors
var (
	ErrVehicleNotFound     = errors.New("vehicle not found")
	ErrVehicleAlreadySold  = errors.New("vehicle is already sold")
	ErrBuyerNotFound       = errors.New("buyer not found")
	ErrInstallmentNotFound = errors.New("installment not found")
	ErrScheduleCorrupt     = errors.New("installment schedule is corrupt")
	ErrUserNotFound        = errors.New("user not found")
	ErrUsernameTaken       = errors.New("username already exists")
	ErrInvalidCredentials  = errors.New("invalid username or password")
	ErrSessionExpired      = errors.New("session expired or invalid")
	ErrSelfDelete          = errors.New("cannot delete your own account")
	ErrOrphanedInstallments = errors.New("orphaned installments detected")
)

// BusinessError represents a business logic error
type BusinessError struct {
	Code    string
	Message string
	Err     error
}

func (e *BusinessError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %s (%v)", e.Code, e.Message, e.Err)
	}
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

func (e *BusinessError) Unwrap() error {
	return e.Err
}

// NewBusinessError creates a new business error
func NewBusinessError(code, message string, err error) *BusinessError {
	return &BusinessError{
		Code:    code,
		Message: message,
		Err:     err,
	}
}

// Error codes
const (
	ErrCodeVehicleNotFound      = "VEHICLE_NOT_FOUND"
	ErrCodeVehicleAlreadySold   = "VEHICLE_ALREADY_SOLD"
	ErrCodeBuyerNotFound        = "BUYER_NOT_FOUND"
	ErrCodeInstallmentNotFound  = "INSTALLMENT_NOT_FOUND"
	ErrCodeScheduleCorrupt      = "SCHEDULE_CORRUPT"
	ErrCodeUserNotFound         = "USER_NOT_FOUND"
	ErrCodeUsernameTaken        = "USERNAME_TAKEN"
	ErrCodeInvalidCredentials   = "INVALID_CREDENTIALS"
	ErrCodeSessionExpired       = "SESSION_EXPIRED"
	ErrCodeSelfDelete           = "SELF_DELETE"
	ErrCodeIntegrityViolation   = "INTEGRITY_VIOLATION"
	ErrCodeDatabaseError        = "DATABASE_ERROR"
	ErrCodeCacheError           = "CACHE_ERROR"
)

// Wrap common errors with business context
func WrapVehicleNotFound(vehicleID int64) *BusinessError {
	return NewBusinessError(
		ErrCodeVehicleNotFound,
		fmt.Sprintf("Vehicle with ID %d not found", vehicleID),
		ErrVehicleNotFound,
	)
}

func WrapVehicleAlreadySold(vehicleID int64) *BusinessError {
	return NewBusinessError(
		ErrCodeVehicleAlreadySold,
		fmt.Sprintf("Vehicle with ID %d is already sold", vehicleID),
		ErrVehicleAlreadySold,
	)
}

func WrapBuyerNotFound(vehicleID int64) *BusinessError {
	return NewBusinessError(
		ErrCodeBuyerNotFound,
		fmt.Sprintf("No buyer recorded for vehicle %d", vehicleID),
		ErrBuyerNotFound,
	)
}

func WrapInstallmentNotFound(id string) *BusinessError {
	return NewBusinessError(
		ErrCodeInstallmentNotFound,
		fmt.Sprintf("Installment %s not found", id),
		ErrInstallmentNotFound,
	)
}

func WrapScheduleCorrupt(buyerID int64, detail string) *BusinessError {
	return NewBusinessError(
		ErrCodeScheduleCorrupt,
		fmt.Sprintf("Schedule for buyer %d failed precondition check: %s", buyerID, detail),
		ErrScheduleCorrupt,
	)
}

func WrapUserNotFound(userID int64) *BusinessError {
	return NewBusinessError(
		ErrCodeUserNotFound,
		fmt.Sprintf("User with ID %d not found", userID),
		ErrUserNotFound,
	)
}

func WrapUsernameTaken(username string) *BusinessError {
	return NewBusinessError(
		ErrCodeUsernameTaken,
		fmt.Sprintf("Username %s already exists", username),
		ErrUsernameTaken,
	)
}

func WrapInvalidCredentials() *BusinessError {
	return NewBusinessError(
		ErrCodeInvalidCredentials,
		"Invalid username or password",
		ErrInvalidCredentials,
	)
}

func WrapSessionExpired() *BusinessError {
	return NewBusinessError(
		ErrCodeSessionExpired,
		"Session expired or invalid",
		ErrSessionExpired,
	)
}

func WrapSelfDelete() *BusinessError {
	return NewBusinessError(
		ErrCodeSelfDelete,
		"Cannot delete your own account",
		ErrSelfDelete,
	)
}

func WrapIntegrityViolation(detail string) *BusinessError {
	return NewBusinessError(
		ErrCodeIntegrityViolation,
		detail,
		ErrOrphanedInstallments,
	)
}

func WrapDatabaseError(err error) *BusinessError {
	return NewBusinessError(
		ErrCodeDatabaseError,
		"database operation failed",
		err,
	)
}

func WrapCacheError(err error) *BusinessError {
	return NewBusinessError(
		ErrCodeCacheError,
		"cache operation failed",
		err,
	)
}
