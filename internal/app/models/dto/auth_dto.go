package dto

// VerifyLicenseRequest asks the external registry about a medical license
type VerifyLicenseRequest struct {
	State  string `json:"state" binding:"required" example:"SP"`
	Number string `json:"number" binding:"required" example:"123456"`
}

// VerifyLicenseResponse returns a short-lived token proving eligibility
type VerifyLicenseResponse struct {
	LicenseToken string `json:"licenseToken"`
	ExpiresIn    int    `json:"expiresIn" example:"1800"`
}

// RegisterResidentRequest carries resident registration data
type RegisterResidentRequest struct {
	LicenseToken string `json:"licenseToken" binding:"required"`
	Name         string `json:"name" binding:"required" example:"Ana Souza"`
	Email        string `json:"email" binding:"required" example:"ana@example.com"`
	Phone        string `json:"phone" example:"+55 34 99999-0000"`
	CPF          string `json:"cpf" binding:"required" example:"12345678901"`
	Password     string `json:"password" binding:"required"`
	SpecialtyID  int64  `json:"specialtyId" binding:"required"`
	PreceptorID  int64  `json:"preceptorId" binding:"required"`
	UniversityID int64  `json:"universityId" binding:"required"`
	HospitalID   int64  `json:"hospitalId" binding:"required"`
	EntryYear    int    `json:"entryYear" binding:"required" example:"2024"`
	Category     string `json:"category" binding:"required" example:"R2"`
}

// RegisterPreceptorRequest carries preceptor registration data
type RegisterPreceptorRequest struct {
	LicenseToken string `json:"licenseToken" binding:"required"`
	Name         string `json:"name" binding:"required" example:"Carlos Lima"`
	Email        string `json:"email" binding:"required" example:"carlos@example.com"`
	Phone        string `json:"phone" example:"+55 34 99999-0000"`
	CPF          string `json:"cpf" binding:"required" example:"10987654321"`
	Password     string `json:"password" binding:"required"`
	UniversityID int64  `json:"universityId" binding:"required"`
	HospitalID   int64  `json:"hospitalId" binding:"required"`
	SpecialtyID  int64  `json:"specialtyId" binding:"required"`
}

// LoginRequest carries login credentials
type LoginRequest struct {
	Email    string `json:"email" binding:"required" example:"ana@example.com"`
	Password string `json:"password" binding:"required"`
}

// RefreshTokenRequest carries a refresh token to rotate
type RefreshTokenRequest struct {
	RefreshToken string `json:"refreshToken" binding:"required"`
}

// TokenResponse returns an access/refresh token pair
type TokenResponse struct {
	AccessToken      string `json:"accessToken"`
	RefreshToken     string `json:"refreshToken"`
	ExpiresIn        int    `json:"expiresIn" example:"3600"`
	RefreshExpiresIn int    `json:"refreshExpiresIn" example:"2592000"`
	Kind             string `json:"kind" example:"RESIDENT"`
}

// ProfileResponse returns the authenticated account's identity block
type ProfileResponse struct {
	ID             int64  `json:"id"`
	Kind           string `json:"kind" example:"RESIDENT"`
	Name           string `json:"name"`
	Email          string `json:"email"`
	Phone          string `json:"phone,omitempty"`
	CPF            string `json:"cpf"`
	LicenseState   string `json:"licenseState"`
	LicenseNumber  string `json:"licenseNumber"`
	UniversityName string `json:"universityName,omitempty"`
	HospitalName   string `json:"hospitalName,omitempty"`
	SpecialtyName  string `json:"specialtyName,omitempty"`
	PreceptorName  string `json:"preceptorName,omitempty"`
	EntryYear      int    `json:"entryYear,omitempty"`
	Category       string `json:"category,omitempty"`
}
