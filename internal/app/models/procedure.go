package models

import "time"

// ProcedureStatus is the evaluation state of a procedure record.
type ProcedureStatus string

const (
	StatusPending   ProcedureStatus = "PENDING"
	StatusValidated ProcedureStatus = "VALIDATED"
	StatusRejected  ProcedureStatus = "REJECTED"
)

// IsTerminal reports whether the status admits no further transitions.
func (s ProcedureStatus) IsTerminal() bool {
	return s == StatusValidated || s == StatusRejected
}

// Decision is a preceptor's verdict on a pending procedure.
type Decision string

const (
	DecisionValidate Decision = "VALIDATE"
	DecisionReject   Decision = "REJECT"
)

// Status returns the terminal status a decision resolves to.
func (d Decision) Status() ProcedureStatus {
	if d == DecisionValidate {
		return StatusValidated
	}
	return StatusRejected
}

// IsValid reports whether the decision is one of the two accepted verdicts.
func (d Decision) IsValid() bool {
	return d == DecisionValidate || d == DecisionReject
}

// Procedure is a clinical procedure record submitted by a resident.
type Procedure struct {
	ID                       int64
	Name                     string
	PerformedAt              time.Time
	ClinicalHistory          string
	PhysicalExam             string
	DiagnosticInterpretation string
	TreatmentPlan            string
	PatientGuidance          string
	LessonsLearned           string
	Status                   ProcedureStatus
	EvaluatorRemarks         *string
	ResidentID               int64
	PreceptorID              int64
	CreatedAt                time.Time
	EvaluatedAt              *time.Time
}

// IsPending reports whether the procedure still awaits evaluation.
func (p *Procedure) IsPending() bool {
	return p.Status == StatusPending
}
