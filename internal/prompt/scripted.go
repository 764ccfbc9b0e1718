package prompt

import "fmt"

// ScriptedPrompter implements DecisionProvider with queued answers, for
// tests and non-interactive runs. Each queue is consumed in order; running
// out of answers is an error, never a silent default.
type ScriptedPrompter struct {
	BulkAnswers     []GoalBulkAction
	FileAnswers     []GoalFileAction
	ConflictAnswers []ConflictAction
	ConfirmAnswers  []bool

	// Asked records every prompt issued, in order, for assertions.
	Asked []string
}

// NewScriptedPrompter creates an empty ScriptedPrompter.
func NewScriptedPrompter() *ScriptedPrompter {
	return &ScriptedPrompter{}
}

// GoalBulk pops the next bulk answer.
func (p *ScriptedPrompter) GoalBulk(paths []string) (GoalBulkAction, error) {
	p.Asked = append(p.Asked, fmt.Sprintf("bulk(%d)", len(paths)))
	if len(p.BulkAnswers) == 0 {
		return GoalBulkAbort, fmt.Errorf("unexpected bulk goal prompt for %d files", len(paths))
	}
	a := p.BulkAnswers[0]
	p.BulkAnswers = p.BulkAnswers[1:]
	return a, nil
}

// GoalFile pops the next per-file answer.
func (p *ScriptedPrompter) GoalFile(path string) (GoalFileAction, error) {
	p.Asked = append(p.Asked, "goal:"+path)
	if len(p.FileAnswers) == 0 {
		return GoalFileAbort, fmt.Errorf("unexpected goal prompt for %s", path)
	}
	a := p.FileAnswers[0]
	p.FileAnswers = p.FileAnswers[1:]
	return a, nil
}

// Conflict pops the next conflict answer.
func (p *ScriptedPrompter) Conflict(info ConflictInfo) (ConflictAction, error) {
	p.Asked = append(p.Asked, "conflict:"+info.Path)
	if len(p.ConflictAnswers) == 0 {
		return ConflictAbort, fmt.Errorf("unexpected conflict prompt for %s", info.Path)
	}
	a := p.ConflictAnswers[0]
	p.ConflictAnswers = p.ConflictAnswers[1:]
	return a, nil
}

// ConfirmDeploy pops the next confirmation answer; with none queued it
// confirms, so scripted deployment runs do not need to queue one.
func (p *ScriptedPrompter) ConfirmDeploy(fileCount int) (bool, error) {
	p.Asked = append(p.Asked, fmt.Sprintf("confirm(%d)", fileCount))
	if len(p.ConfirmAnswers) == 0 {
		return true, nil
	}
	a := p.ConfirmAnswers[0]
	p.ConfirmAnswers = p.ConfirmAnswers[1:]
	return a, nil
}
