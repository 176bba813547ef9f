package adminusers

import (
	"errors"

	"uattracker/frontend/shared/nav"
)

var (
	ErrUsernameRequired = errors.New("username is required")
	ErrPasswordRequired = errors.New("password is required")
	ErrInvalidRole      = errors.New("role must be admin or tester")
	ErrUsernameExists   = errors.New("username already exists")
)

type UserView struct {
	ID          int64
	Username    string
	DisplayName string
	Email       string
	Role        string
	IsInternal  bool
}

type PageData struct {
	Nav          nav.TopNavData
	Users        []UserView
	Status       string
	ErrorMessage string
}
