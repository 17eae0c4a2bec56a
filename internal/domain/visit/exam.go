package visit

import (
	"fmt"
	"strings"

	"github.com/frontdesk/frontdesk/internal/domain/medrecord"
	"github.com/frontdesk/frontdesk/internal/domain/patient"
)

// AnalysisResult is the outcome of complaint analysis: the indications the
// doctor found in the complaint text and a severity score derived from
// them.
type AnalysisResult struct {
	Indications []string `json:"indications"`
	Severity    int      `json:"severity"`
	Summary     string   `json:"summary"`
}

// ExamPolicy supplies the examination logic a doctor runs during a visit.
// Both methods must be pure: the same complaints and prior diagnoses always
// produce the same result.
type ExamPolicy interface {
	// AnalyzeComplaints inspects the complaint list against prior history.
	AnalyzeComplaints(complaints []string, prior []*medrecord.Diagnosis) AnalysisResult
	// Checkup decides whether the current treatment needs an update and, if
	// so, what the new treatment text is.
	Checkup(p *patient.Patient, prior []*medrecord.Diagnosis, res AnalysisResult) (needsUpdate bool, newTreatment string)
}

// keywordPolicy is the default examination policy: complaints are scanned
// for indication keywords, severity is the hit count, and any hit calls for
// a treatment update.
type keywordPolicy struct {
	keywords []string
}

// NewKeywordPolicy builds the default policy. With no keywords given a
// stock indication list is used.
func NewKeywordPolicy(keywords ...string) ExamPolicy {
	if len(keywords) == 0 {
		keywords = []string{"severe", "acute", "pain", "fever", "worse", "bleeding"}
	}
	lowered := make([]string, len(keywords))
	for i, k := range keywords {
		lowered[i] = strings.ToLower(k)
	}
	return &keywordPolicy{keywords: lowered}
}

func (kp *keywordPolicy) AnalyzeComplaints(complaints []string, prior []*medrecord.Diagnosis) AnalysisResult {
	var indications []string
	seen := make(map[string]bool)
	for _, complaint := range complaints {
		lowered := strings.ToLower(complaint)
		for _, kw := range kp.keywords {
			if strings.Contains(lowered, kw) && !seen[kw] {
				indications = append(indications, kw)
				seen[kw] = true
			}
		}
	}

	res := AnalysisResult{
		Indications: indications,
		Severity:    len(indications),
	}
	switch {
	case res.Severity == 0:
		res.Summary = "no acute indications found"
	default:
		res.Summary = fmt.Sprintf("%d indication(s): %s", res.Severity, strings.Join(indications, ", "))
	}
	return res
}

func (kp *keywordPolicy) Checkup(p *patient.Patient, prior []*medrecord.Diagnosis, res AnalysisResult) (bool, string) {
	if res.Severity == 0 {
		return false, ""
	}
	return true, "follow-up required: " + strings.Join(res.Indications, ", ")
}
