package project

import (
	"fmt"
	"strings"
	"testing"

	"github.com/rcliao/helios/internal/model"
)

func epic(key, status, assignee, due string) model.Issue {
	return model.Issue{Key: key, Kind: model.KindEpic, Summary: "summary " + key, Status: status, Assignee: assignee, DueDate: due}
}

func TestRoadmapEmpty(t *testing.T) {
	if got := Roadmap(nil, fixedToday); got != NoEpicsMessage {
		t.Errorf("expected %q, got %q", NoEpicsMessage, got)
	}
}

func TestRoadmapCapsAtTenInInputOrder(t *testing.T) {
	var epics []model.Issue
	for i := 12; i >= 1; i-- {
		epics = append(epics, epic(fmt.Sprintf("E-%d", i), "In Progress", "Ada", ""))
	}
	got := Roadmap(epics, fixedToday)

	if n := strings.Count(got, "  - Status:"); n != MaxRoadmapEpics {
		t.Errorf("expected %d epics listed, got %d", MaxRoadmapEpics, n)
	}
	if strings.Contains(got, "**E-2**") || strings.Contains(got, "**E-1**") {
		t.Error("epics beyond the first ten should be left out")
	}
	if strings.Index(got, "**E-12**") > strings.Index(got, "**E-11**") {
		t.Error("epics should keep input order")
	}
}

func TestRoadmapPrefersEpicName(t *testing.T) {
	e := epic("E-1", "Done", "Ada", "")
	e.EpicName = "Checkout"
	got := Roadmap([]model.Issue{e}, fixedToday)
	if !strings.Contains(got, "**E-1**: Checkout") {
		t.Errorf("expected epic name in roadmap, got %q", got)
	}
	if strings.Contains(got, "Risks") {
		t.Error("risk line should be absent when no risk applies")
	}
}

func TestRisks(t *testing.T) {
	tests := []struct {
		name string
		epic model.Issue
		want []Risk
	}{
		{"none", epic("E", "In Progress", "Ada", ""), nil},
		{"unassigned", epic("E", "In Progress", model.Unassigned, ""), []Risk{RiskUnassigned}},
		{"not started todo", epic("E", "To Do", "Ada", ""), []Risk{RiskNotStarted}},
		{"not started backlog", epic("E", "Backlog", model.Unassigned, ""), []Risk{RiskUnassigned, RiskNotStarted}},
		{"overdue", epic("E", "In Progress", "Ada", "2025-03-09"), []Risk{RiskOverdue}},
		{"past due but done", epic("E", "Done", "Ada", "2025-03-01"), nil},
		{"due today", epic("E", "In Progress", "Ada", "2025-03-10"), []Risk{RiskDueSoon}},
		{"due in six days", epic("E", "In Progress", "Ada", "2025-03-16"), []Risk{RiskDueSoon}},
		{"due in seven days", epic("E", "In Progress", "Ada", "2025-03-17"), nil},
		{"malformed due", epic("E", "In Progress", "Ada", "soon"), nil},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Risks(tt.epic, fixedToday)
			if fmt.Sprint(got) != fmt.Sprint(tt.want) {
				t.Errorf("Risks() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestRoadmapRiskLine(t *testing.T) {
	got := Roadmap([]model.Issue{epic("E-1", "To Do", model.Unassigned, "2025-03-01")}, fixedToday)
	if !strings.Contains(got, "  - Risks: ⚠️ Unassigned, ⚠️ Not started, 🔴 Overdue") {
		t.Errorf("unexpected risk line in %q", got)
	}
}

func TestRoadmapIdempotent(t *testing.T) {
	epics := []model.Issue{epic("E-1", "To Do", "Ada", "2025-03-12")}
	if Roadmap(epics, fixedToday) != Roadmap(epics, fixedToday) {
		t.Error("roadmap should be byte-identical across calls")
	}
}
