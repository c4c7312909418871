package errorvalues

import "errors"

var (
	ErrKeyNotFound       = errors.New("no value stored under this key")
	ErrInsufficientFunds = errors.New("not enough coins")
	ErrNonPositiveAmount = errors.New("amount must be positive")
	ErrHomeworkNotFound  = errors.New("homework doesn't exist")
	ErrInvalidSettings   = errors.New("settings values out of allowed range")
	ErrTimerNotRunning   = errors.New("timer isn't running")
	ErrTimerNotPaused    = errors.New("timer isn't paused")
	ErrRoomNotFound      = errors.New("room doesn't exist")
	ErrRoomCodeTaken     = errors.New("room code already in use")
	ErrMemberNotFound    = errors.New("member is not in the room")
	ErrNameRequired      = errors.New("name is required")
	ErrItemNotFound      = errors.New("shop item doesn't exist")
	ErrItemOwned         = errors.New("item already owned")
	ErrInvalidToken      = errors.New("invalid token")
)
