package cli

import (
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"github.com/veritas-suite/caseflow/internal/domain/deadline"
	"github.com/veritas-suite/caseflow/internal/domain/settlement"
	"github.com/veritas-suite/caseflow/internal/domain/task"
	"github.com/veritas-suite/caseflow/internal/domain/treatment"
)

func writeTempFile(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	if err := os.WriteFile(path, []byte(content), 0o600); err != nil {
		t.Fatalf("writing %s: %v", name, err)
	}
	return path
}

const sampleCase = `{
  "case_id": "case-2024-001",
  "title": "Doe v. Ontario Mutual",
  "incident_date": "2024-01-01",
  "treatment_events": [
    {"date": "2024-01-05", "kind": "assessment", "provider": "Dr. Chen"},
    {"date": "2024-01-15", "kind": "therapy_session", "provider": "Dr. Chen"},
    {"date": "2024-02-14", "kind": "therapy_session", "provider": "Dr. Chen"}
  ]
}`

func TestTimelineCommand(t *testing.T) {
	caseFile := writeTempFile(t, "case.json", sampleCase)

	out, err := executeCommand(t, "timeline", "--case-file", caseFile, "--as-of", "2024-01-02", "-o", "json")
	if err != nil {
		t.Fatalf("timeline command failed: %v", err)
	}

	var result struct {
		Deadlines []deadline.Deadline `json:"deadlines"`
	}
	if err := json.Unmarshal([]byte(out), &result); err != nil {
		t.Fatalf("parsing output: %v\n%s", err, out)
	}
	if len(result.Deadlines) == 0 {
		t.Fatal("expected deadlines in the output")
	}

	// The 7-day insurer notice for a 2024-01-01 incident lands on 2024-01-08.
	found := false
	for _, d := range result.Deadlines {
		if d.Kind == deadline.KindInsurerNotice {
			found = true
			if got := d.DueDate.Format("2006-01-02"); got != "2024-01-08" {
				t.Errorf("expected insurer notice due 2024-01-08, got %s", got)
			}
		}
	}
	if !found {
		t.Error("expected an insurer notice deadline")
	}
}

func TestTimelineCommandMissingCaseFile(t *testing.T) {
	_, err := executeCommand(t, "timeline", "--case-file", "/nonexistent/case.json")
	if err == nil {
		t.Error("expected an error for a missing case file")
	}
}

func TestTasksCommand(t *testing.T) {
	caseFile := writeTempFile(t, "case.json", sampleCase)

	out, err := executeCommand(t, "tasks", "--case-file", caseFile, "--as-of", "2024-01-02", "-o", "json")
	if err != nil {
		t.Fatalf("tasks command failed: %v", err)
	}

	var result struct {
		Tasks []task.Task `json:"tasks"`
	}
	if err := json.Unmarshal([]byte(out), &result); err != nil {
		t.Fatalf("parsing output: %v\n%s", err, out)
	}
	if len(result.Tasks) == 0 {
		t.Fatal("expected tasks in the output")
	}
	// The intake task opens the board.
	if result.Tasks[0].Category != task.CategoryIntake {
		t.Errorf("expected the intake task first, got category %s", result.Tasks[0].Category)
	}
}

func TestOverdueCommand(t *testing.T) {
	caseFile := writeTempFile(t, "case.json", sampleCase)

	// A year after the incident the notice deadlines are long past.
	out, err := executeCommand(t, "overdue", "--case-file", caseFile, "--as-of", "2025-01-01", "-o", "json")
	if err != nil {
		t.Fatalf("overdue command failed: %v", err)
	}

	var result struct {
		Tasks []task.Task `json:"tasks"`
	}
	if err := json.Unmarshal([]byte(out), &result); err != nil {
		t.Fatalf("parsing output: %v\n%s", err, out)
	}
	if len(result.Tasks) == 0 {
		t.Fatal("expected overdue escalation tasks")
	}
	for _, alert := range result.Tasks {
		if alert.Priority != task.PriorityCritical {
			t.Errorf("expected critical priority, got %s", alert.Priority)
		}
	}
}

func TestGapsCommand(t *testing.T) {
	caseFile := writeTempFile(t, "case.json", sampleCase)

	// 2024-01-15 to 2024-02-14 is a 30-day break, over the 14-day threshold.
	out, err := executeCommand(t, "gaps", "--case-file", caseFile, "--as-of", "2024-02-20", "-o", "json")
	if err != nil {
		t.Fatalf("gaps command failed: %v", err)
	}

	var result struct {
		Gaps []treatment.Gap `json:"gaps"`
	}
	if err := json.Unmarshal([]byte(out), &result); err != nil {
		t.Fatalf("parsing output: %v\n%s", err, out)
	}
	if len(result.Gaps) != 1 {
		t.Fatalf("expected exactly one gap, got %d", len(result.Gaps))
	}
	if result.Gaps[0].DurationDays != 30 {
		t.Errorf("expected a 30-day gap, got %d", result.Gaps[0].DurationDays)
	}
	if result.Gaps[0].ProviderName != "Dr. Chen" {
		t.Errorf("expected the opener's provider, got %q", result.Gaps[0].ProviderName)
	}
}

func TestGapsCommandEmitTasks(t *testing.T) {
	caseFile := writeTempFile(t, "case.json", sampleCase)

	out, err := executeCommand(t, "gaps", "--case-file", caseFile, "--as-of", "2024-02-20", "--tasks", "-o", "json")
	if err != nil {
		t.Fatalf("gaps --tasks failed: %v", err)
	}

	var result struct {
		Tasks []task.Task `json:"tasks"`
	}
	if err := json.Unmarshal([]byte(out), &result); err != nil {
		t.Fatalf("parsing output: %v\n%s", err, out)
	}
	if len(result.Tasks) != 1 {
		t.Fatalf("expected one follow-up task, got %d", len(result.Tasks))
	}
	if result.Tasks[0].Category != task.CategoryClientComms {
		t.Errorf("expected client-communication category, got %s", result.Tasks[0].Category)
	}
}

func TestSettlementCommand(t *testing.T) {
	out, err := executeCommand(t, "settlement",
		"--gross", "100000",
		"--fee-percent", "0.30",
		"--disbursements", "5000",
		"-o", "json",
	)
	if err != nil {
		t.Fatalf("settlement command failed: %v", err)
	}

	var result settlement.NetSettlementResult
	if err := json.Unmarshal([]byte(out), &result); err != nil {
		t.Fatalf("parsing output: %v\n%s", err, out)
	}
	if result.NetToClient.Amount != 6500000 {
		t.Errorf("expected net 65000.00, got %s", result.NetToClient)
	}
	if result.FeeAmount.Amount != 3000000 {
		t.Errorf("expected fee 30000.00, got %s", result.FeeAmount)
	}
}

func TestSettlementCommandRejectsBadFee(t *testing.T) {
	_, err := executeCommand(t, "settlement", "--gross", "1000", "--fee-percent", "1.5")
	if err == nil {
		t.Error("expected an error for a fee above 1")
	}
}

func TestBulkCommand(t *testing.T) {
	casesFile := writeTempFile(t, "cases.json", `[
	  {"case_id": "case-a", "title": "A", "incident_date": "2024-01-01"},
	  {"case_id": "case-b", "title": "B", "incident_date": "2024-02-01"}
	]`)

	out, err := executeCommand(t, "bulk", "--cases-file", casesFile, "--as-of", "2024-02-02", "-o", "json")
	if err != nil {
		t.Fatalf("bulk command failed: %v", err)
	}

	var result struct {
		Outcomes     []json.RawMessage `json:"outcomes"`
		SuccessCount int               `json:"success_count"`
	}
	if err := json.Unmarshal([]byte(out), &result); err != nil {
		t.Fatalf("parsing output: %v\n%s", err, out)
	}
	if result.SuccessCount != 2 || len(result.Outcomes) != 2 {
		t.Errorf("expected both cases to succeed, got %s", out)
	}
}

func TestBulkCommandReportsFailures(t *testing.T) {
	casesFile := writeTempFile(t, "cases.json", `[
	  {"case_id": "case-a", "title": "A", "incident_date": "2024-01-01"},
	  {"case_id": "case-bad", "title": "B"}
	]`)

	_, err := executeCommand(t, "bulk", "--cases-file", casesFile, "--as-of", "2024-02-02", "-o", "json")
	if err == nil {
		t.Error("expected an error when a case fails")
	}
}

func TestLoadCaseFileValidation(t *testing.T) {
	path := writeTempFile(t, "case.json", `{"title": "no id"}`)
	if _, err := loadCaseFile(path); err == nil {
		t.Error("expected an error for a missing case_id")
	}

	path = writeTempFile(t, "case.json", `{not json`)
	if _, err := loadCaseFile(path); err == nil {
		t.Error("expected an error for malformed JSON")
	}
}

func TestDateUnmarshal(t *testing.T) {
	var d Date
	if err := json.Unmarshal([]byte(`"2024-06-30"`), &d); err != nil {
		t.Fatalf("unmarshal failed: %v", err)
	}
	if d.Year() != 2024 || d.Month() != 6 || d.Day() != 30 {
		t.Errorf("unexpected date %v", d.Time)
	}

	round, err := json.Marshal(d)
	if err != nil {
		t.Fatalf("marshal failed: %v", err)
	}
	if string(round) != `"2024-06-30"` {
		t.Errorf("unexpected marshal output %s", round)
	}
}
