package matching

import "errors"

var (
	ErrSelfSwipe           = errors.New("cannot swipe on yourself")
	ErrInvalidAction       = errors.New("invalid swipe action")
	ErrTargetNotFound      = errors.New("target user not found")
	ErrDuplicateSwipe      = errors.New("already swiped on this user")
	ErrInvalidPreferences  = errors.New("invalid swipe preferences")
	ErrProfileNotFound     = errors.New("profile not found")
	ErrSwipeNotFound       = errors.New("swipe not found")
	ErrMatchNotFound       = errors.New("match not found")
	ErrPreferencesNotFound = errors.New("swipe preferences not found")
)

// IsValidationError reports whether err should map to a 400 for the caller.
func IsValidationError(err error) bool {
	return errors.Is(err, ErrSelfSwipe) ||
		errors.Is(err, ErrInvalidAction) ||
		errors.Is(err, ErrInvalidPreferences)
}
