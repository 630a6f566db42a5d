package models

import "github.com/golang-jwt/jwt/v5"

// UserRole mirrors the roles issued by the platform's auth service.
type UserRole string

// Roles recognised by this service.
const (
	RoleStudent UserRole = "STUDENT"
	RoleMentor  UserRole = "MENTOR"
	RoleAdmin   UserRole = "ADMIN"
)

// JWTClaims is the access-token payload issued by the (external) auth
// service. Only validation lives here.
type JWTClaims struct {
	UserID   string   `json:"user_id"`
	Role     UserRole `json:"role"`
	Email    string   `json:"email"`
	FullName string   `json:"full_name"`
	jwt.RegisteredClaims
}

// Pagination describes list metadata returned alongside collections.
type Pagination struct {
	Page       int `json:"page"`
	PageSize   int `json:"page_size"`
	TotalCount int `json:"total_count"`
}
