package models

import "time"

// AccountKind discriminates the two account tables.
type AccountKind string

const (
	AccountKindResident  AccountKind = "RESIDENT"
	AccountKindPreceptor AccountKind = "PRECEPTOR"
)

// ResidencyCategory is the resident's year-of-training category.
type ResidencyCategory string

const (
	CategoryR1    ResidencyCategory = "R1"
	CategoryR2    ResidencyCategory = "R2"
	CategoryR3    ResidencyCategory = "R3"
	CategoryR4    ResidencyCategory = "R4"
	CategoryRPlus ResidencyCategory = "R+"
)

// ValidCategories lists the accepted residency categories.
var ValidCategories = []ResidencyCategory{CategoryR1, CategoryR2, CategoryR3, CategoryR4, CategoryRPlus}

// IsValidCategory reports whether the given string is a known residency category.
func IsValidCategory(s string) bool {
	for _, c := range ValidCategories {
		if string(c) == s {
			return true
		}
	}
	return false
}

// Principal is the authenticated identity attached to a request.
type Principal struct {
	ID    int64
	Kind  AccountKind
	Email string
}

// Resident represents a medical resident account.
type Resident struct {
	ID            int64
	Name          string
	Email         string
	Phone         string
	CPF           string
	LicenseState  string
	LicenseNumber string
	SpecialtyID   int64
	PreceptorID   int64
	UniversityID  int64
	HospitalID    int64
	EntryYear     int
	Category      ResidencyCategory
	PasswordHash  string
	CreatedAt     time.Time
}

// Preceptor represents a supervising physician account.
type Preceptor struct {
	ID            int64
	Name          string
	Email         string
	Phone         string
	CPF           string
	LicenseState  string
	LicenseNumber string
	UniversityID  int64
	HospitalID    int64
	SpecialtyID   int64
	PasswordHash  string
	CreatedAt     time.Time
}

// RefreshToken is a persisted refresh token bound to an account.
type RefreshToken struct {
	Token       string
	AccountKind AccountKind
	AccountID   int64
	ExpiryDate  time.Time
	IsRevoked   bool
	CreatedAt   time.Time
}
