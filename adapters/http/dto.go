package http

import (
	"time"

	"github.com/khoahotran/cv-portfolio/internal/domain/admin"
	"github.com/khoahotran/cv-portfolio/internal/domain/profile"
	"github.com/khoahotran/cv-portfolio/internal/domain/user"
	"github.com/khoahotran/cv-portfolio/internal/formstate"
)

// Admin auth DTOs

type loginRequest struct {
	Email    string `json:"email" binding:"required,cvemail"`
	Password string `json:"password" binding:"required"`
}

type changePasswordRequest struct {
	CurrentPassword string `json:"currentPassword" binding:"required"`
	NewPassword     string `json:"newPassword" binding:"required"`
}

type SessionDTO struct {
	Email       string            `json:"email"`
	Role        admin.Role        `json:"role"`
	Permissions admin.Permissions `json:"permissions"`
	IssuedAt    time.Time         `json:"issuedAt"`
	ExpiresAt   time.Time         `json:"expiresAt"`
}

func ToSessionDTO(s *admin.Session) SessionDTO {
	return SessionDTO{
		Email:       s.Email,
		Role:        s.Role,
		Permissions: s.Permissions,
		IssuedAt:    s.IssuedAt,
		ExpiresAt:   s.ExpiresAt,
	}
}

// Profile DTOs

type addSkillRequest struct {
	Name  string             `json:"name" binding:"required,notblank"`
	Level profile.SkillLevel `json:"level" binding:"required,oneof=beginner intermediate advanced expert"`
}

type removeSkillRequest struct {
	Name string `json:"name" binding:"required"`
}

type setCurrentJobRequest struct {
	Current *bool `json:"current" binding:"required"`
}

// autosaveRequest carries either a whole record or a form snapshot.
type autosaveRequest struct {
	Profile *profile.Record     `json:"profile"`
	Form    *formstate.Snapshot `json:"form"`
}

// User DTOs

type UserDTO struct {
	ID               int64       `json:"id"`
	Name             string      `json:"name"`
	Email            string      `json:"email"`
	Phone            string      `json:"phone"`
	Role             user.Role   `json:"role"`
	Status           user.Status `json:"status"`
	RegistrationDate string      `json:"registrationDate"`
	LastLogin        *string     `json:"lastLogin"`
	ProfileImage     *string     `json:"profileImage"`
}

func ToUserDTO(u *user.User) UserDTO {
	return UserDTO{
		ID:               u.ID,
		Name:             u.Name,
		Email:            u.Email,
		Phone:            u.Phone,
		Role:             u.Role,
		Status:           u.Status,
		RegistrationDate: u.RegistrationDate,
		LastLogin:        u.LastLogin,
		ProfileImage:     u.ProfileImage,
	}
}

func ToUserDTOs(users []user.User) []UserDTO {
	out := make([]UserDTO, len(users))
	for i := range users {
		out[i] = ToUserDTO(&users[i])
	}
	return out
}

type UserListDTO struct {
	Users      []UserDTO `json:"users"`
	Total      int       `json:"total"`
	Page       int       `json:"page"`
	PerPage    int       `json:"perPage"`
	TotalPages int       `json:"totalPages"`
}

type createUserRequest struct {
	Name            string      `json:"name" binding:"required"`
	Email           string      `json:"email" binding:"required"`
	Phone           string      `json:"phone"`
	Role            user.Role   `json:"role" binding:"omitempty,oneof=user admin"`
	Status          user.Status `json:"status" binding:"omitempty,oneof=active inactive"`
	Password        string      `json:"password" binding:"required"`
	ConfirmPassword string      `json:"confirmPassword" binding:"required"`
}

type updateUserRequest struct {
	Name   string      `json:"name" binding:"required"`
	Email  string      `json:"email" binding:"required"`
	Phone  string      `json:"phone"`
	Role   user.Role   `json:"role" binding:"omitempty,oneof=user admin"`
	Status user.Status `json:"status" binding:"omitempty,oneof=active inactive"`
}

type listUsersQuery struct {
	Search  string `form:"search"`
	SortBy  string `form:"sortBy" binding:"omitempty,oneof=name email registrationDate lastLogin"`
	Order   string `form:"order" binding:"omitempty,oneof=asc desc"`
	Page    int    `form:"page" binding:"omitempty,min=1"`
	PerPage int    `form:"perPage" binding:"omitempty,min=1,max=100"`
}

// Account DTOs

type registerRequest struct {
	FirstName       string `json:"firstName"`
	LastName        string `json:"lastName"`
	Email           string `json:"email"`
	Password        string `json:"password"`
	ConfirmPassword string `json:"confirmPassword"`
	AgreeTerms      bool   `json:"agreeTerms"`
}

type signInRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// Misc DTOs

type languageRequest struct {
	Language string `json:"language" binding:"required"`
}

type emailCheckRequest struct {
	Email string `json:"email"`
}

type passwordCheckRequest struct {
	Password string `json:"password"`
	Confirm  string `json:"confirm"`
}
