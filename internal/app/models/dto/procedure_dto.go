package dto

import "time"

// SubmitProcedureRequest carries a new procedure record
type SubmitProcedureRequest struct {
	Name                     string `json:"name" binding:"required" example:"Appendectomy"`
	PerformedAt              string `json:"performedAt" binding:"required" example:"2025-03-10"`
	PreceptorID              int64  `json:"preceptorId" binding:"required"`
	ClinicalHistory          string `json:"clinicalHistory" binding:"required"`
	PhysicalExam             string `json:"physicalExam" binding:"required"`
	DiagnosticInterpretation string `json:"diagnosticInterpretation" binding:"required"`
	TreatmentPlan            string `json:"treatmentPlan" binding:"required"`
	PatientGuidance          string `json:"patientGuidance" binding:"required"`
	LessonsLearned           string `json:"lessonsLearned" binding:"required"`
}

// EvaluateProcedureRequest carries a preceptor's verdict
type EvaluateProcedureRequest struct {
	Decision string `json:"decision" binding:"required" example:"VALIDATE"`
	Remarks  string `json:"remarks,omitempty"`
}

// ProcedureResponse returns a procedure record
type ProcedureResponse struct {
	ID                       int64      `json:"id"`
	Name                     string     `json:"name"`
	PerformedAt              string     `json:"performedAt" example:"2025-03-10"`
	ClinicalHistory          string     `json:"clinicalHistory"`
	PhysicalExam             string     `json:"physicalExam"`
	DiagnosticInterpretation string     `json:"diagnosticInterpretation"`
	TreatmentPlan            string     `json:"treatmentPlan"`
	PatientGuidance          string     `json:"patientGuidance"`
	LessonsLearned           string     `json:"lessonsLearned"`
	Status                   string     `json:"status" example:"PENDING"`
	EvaluatorRemarks         string     `json:"evaluatorRemarks,omitempty"`
	ResidentID               int64      `json:"residentId"`
	PreceptorID              int64      `json:"preceptorId"`
	CreatedAt                time.Time  `json:"createdAt"`
	EvaluatedAt              *time.Time `json:"evaluatedAt,omitempty"`
}

// ProcedureListResponse returns a set of procedure records
type ProcedureListResponse struct {
	Procedures []ProcedureResponse `json:"procedures"`
	Total      int                 `json:"total"`
}
