package dto

// UniversityResponse returns a university entry
type UniversityResponse struct {
	ID    int64  `json:"id"`
	Name  string `json:"name"`
	State string `json:"state"`
}

// HospitalResponse returns a hospital entry
type HospitalResponse struct {
	ID           int64  `json:"id"`
	Name         string `json:"name"`
	UniversityID int64  `json:"universityId"`
}

// SpecialtyResponse returns a specialty entry
type SpecialtyResponse struct {
	ID   int64  `json:"id"`
	Name string `json:"name"`
}

// PreceptorSummaryResponse returns the fields needed by registration and
// submission forms
type PreceptorSummaryResponse struct {
	ID            int64  `json:"id"`
	Name          string `json:"name"`
	SpecialtyID   int64  `json:"specialtyId"`
	SpecialtyName string `json:"specialtyName,omitempty"`
	HospitalID    int64  `json:"hospitalId"`
}

// ResidentSummaryResponse returns a supervised resident as shown on the
// preceptor's dashboard
type ResidentSummaryResponse struct {
	ID            int64  `json:"id"`
	Name          string `json:"name"`
	Email         string `json:"email"`
	Category      string `json:"category"`
	EntryYear     int    `json:"entryYear"`
	SpecialtyID   int64  `json:"specialtyId"`
	SpecialtyName string `json:"specialtyName,omitempty"`
}

// ResidentListResponse returns the residents supervised by a preceptor
type ResidentListResponse struct {
	Residents []ResidentSummaryResponse `json:"residents"`
	Total     int                       `json:"total"`
}
