package repository

import "errors"

var (
	// ErrActivityNotFound возвращается, если занятия с таким названием нет в каталоге.
	ErrActivityNotFound = errors.New("activity not found")

	// ErrParticipantNotFound возвращается, если email не записан на занятие.
	ErrParticipantNotFound = errors.New("participant not found")
)
