package domain

import (
	"time"

	"github.com/google/uuid"
)

type User struct {
	ID           uuid.UUID
	FirstName    string
	Surname      string
	Patronymic   *string
	IIN          string
	Email        string
	Phone        string // stored normalized, see transfer.NormalizePhone
	AvatarURL    *string
	PasswordHash string
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

func (u *User) FullName() string {
	return u.FirstName + " " + u.Surname
}
