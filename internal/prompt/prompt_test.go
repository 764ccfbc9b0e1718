package prompt

import (
	"bytes"
	"strings"
	"testing"
)

func TestTerminalGoalBulk(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  GoalBulkAction
	}{
		{"local short", "l\n", GoalBulkUseLocal},
		{"reference word", "reference\n", GoalBulkUseReference},
		{"individual", "i\n", GoalBulkIndividual},
		{"empty aborts", "\n", GoalBulkAbort},
		{"eof aborts", "", GoalBulkAbort},
		{"garbage then valid", "x\nl\n", GoalBulkUseLocal},
		{"case insensitive", "R\n", GoalBulkUseReference},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var out bytes.Buffer
			p := NewTerminalPrompter(strings.NewReader(tt.input), &out)

			got, err := p.GoalBulk([]string{"a.txt", "b.txt"})
			if err != nil {
				t.Fatalf("GoalBulk() error = %v", err)
			}
			if got != tt.want {
				t.Errorf("GoalBulk() = %v, want %v", got, tt.want)
			}
			if !strings.Contains(out.String(), "2 file(s)") {
				t.Error("prompt did not list the diverged file count")
			}
		})
	}
}

func TestTerminalGoalFile(t *testing.T) {
	var out bytes.Buffer
	p := NewTerminalPrompter(strings.NewReader("r\n"), &out)

	got, err := p.GoalFile("src/main.go")
	if err != nil || got != GoalFileUseReference {
		t.Errorf("GoalFile() = (%v, %v)", got, err)
	}
	if !strings.Contains(out.String(), "src/main.go") {
		t.Error("prompt did not name the file")
	}
}

func TestTerminalConflict(t *testing.T) {
	tests := []struct {
		input string
		want  ConflictAction
	}{
		{"r\n", ConflictReplace},
		{"a\n", ConflictReplaceAll},
		{"keep\n", ConflictKeep},
		{"l\n", ConflictListBulk},
		{"\n", ConflictAbort},
		{"", ConflictAbort},
	}

	for _, tt := range tests {
		var out bytes.Buffer
		p := NewTerminalPrompter(strings.NewReader(tt.input), &out)

		got, err := p.Conflict(ConflictInfo{Path: "a.txt", GoalHash: "G", RemoteHash: "R"})
		if err != nil {
			t.Fatalf("Conflict(%q) error = %v", tt.input, err)
		}
		if got != tt.want {
			t.Errorf("Conflict(%q) = %v, want %v", tt.input, got, tt.want)
		}
	}
}

func TestTerminalConfirmDeploy(t *testing.T) {
	tests := []struct {
		input string
		want  bool
	}{
		{"y\n", true},
		{"yes\n", true},
		{"n\n", false},
		{"\n", false},
		{"", false},
	}

	for _, tt := range tests {
		var out bytes.Buffer
		p := NewTerminalPrompter(strings.NewReader(tt.input), &out)

		got, err := p.ConfirmDeploy(3)
		if err != nil {
			t.Fatalf("ConfirmDeploy(%q) error = %v", tt.input, err)
		}
		if got != tt.want {
			t.Errorf("ConfirmDeploy(%q) = %v, want %v", tt.input, got, tt.want)
		}
	}
}

func TestScriptedPrompterConsumesInOrder(t *testing.T) {
	p := NewScriptedPrompter()
	p.ConflictAnswers = []ConflictAction{ConflictKeep, ConflictReplaceAll}

	first, err := p.Conflict(ConflictInfo{Path: "one.txt"})
	if err != nil || first != ConflictKeep {
		t.Errorf("first = (%v, %v)", first, err)
	}
	second, err := p.Conflict(ConflictInfo{Path: "two.txt"})
	if err != nil || second != ConflictReplaceAll {
		t.Errorf("second = (%v, %v)", second, err)
	}

	if _, err := p.Conflict(ConflictInfo{Path: "three.txt"}); err == nil {
		t.Error("exhausted script should error, not default")
	}

	if len(p.Asked) != 3 || p.Asked[0] != "conflict:one.txt" {
		t.Errorf("Asked = %v", p.Asked)
	}
}
