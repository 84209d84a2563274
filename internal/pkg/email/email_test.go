package email

import (
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestBuildEvaluationEmail_EscapesUserContent(t *testing.T) {
	notice := EvaluationNotice{
		ResidentName:  "Ana <script>alert(1)</script>",
		ResidentEmail: "ana@example.com",
		ProcedureName: "Suture & drainage",
		PerformedAt:   time.Date(2025, 3, 10, 0, 0, 0, 0, time.UTC),
		PreceptorName: "Dr. Lima",
		Approved:      false,
		Remarks:       `Needs review <img src=x onerror="steal()">`,
	}

	_, body := buildEvaluationEmail(notice)

	assert.NotContains(t, body, "<script>")
	assert.NotContains(t, body, "<img src=x")
	assert.Contains(t, body, "&lt;script&gt;")
	assert.Contains(t, body, "Suture &amp; drainage")
	assert.Contains(t, body, "&lt;img src=x onerror=&#34;steal()&#34;&gt;")
}

func TestBuildEvaluationEmail_ApprovedAndRejected(t *testing.T) {
	notice := EvaluationNotice{
		ResidentName:  "Ana Souza",
		ProcedureName: "Lumbar puncture",
		PerformedAt:   time.Date(2025, 3, 10, 0, 0, 0, 0, time.UTC),
		PreceptorName: "Dr. Lima",
		Approved:      true,
		Remarks:       "Good technique",
	}

	subject, body := buildEvaluationEmail(notice)
	assert.Equal(t, "Procedure Approved - Lumbar puncture", subject)
	assert.Contains(t, body, "APPROVED")
	assert.Contains(t, body, "10/03/2025")
	assert.Contains(t, body, "Good technique")

	notice.Approved = false
	notice.Remarks = ""
	subject, body = buildEvaluationEmail(notice)
	assert.Equal(t, "Procedure Rejected - Lumbar puncture", subject)
	assert.Contains(t, body, "REJECTED")
	assert.False(t, strings.Contains(body, "Preceptor remarks"))
}
