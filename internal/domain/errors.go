package domain

import "errors"

var (
	ErrRecordNotFound     = errors.New("record not found")
	ErrDuplicateEvent     = errors.New("event was already delivered")
	ErrSeminarNotBookable = errors.New("seminar is not open for registration")
	ErrEditConflict       = errors.New("edit conflict")
)
