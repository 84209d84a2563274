package models

// University is a pre-seeded teaching institution.
type University struct {
	ID    int64
	Name  string
	State string
}

// Hospital is a pre-seeded training site, linked to a university.
type Hospital struct {
	ID           int64
	Name         string
	UniversityID int64
}

// Specialty is a pre-seeded medical specialty.
type Specialty struct {
	ID   int64
	Name string
}
