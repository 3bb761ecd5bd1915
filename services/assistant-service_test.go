package services

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"testing"
	"time"

	"github.com/PatrikF1/backend-ProjectPartner/repositories"
	"github.com/PatrikF1/backend-ProjectPartner/utils"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeCompleter struct {
	reply    string
	err      error
	messages []utils.ChatMessage
}

func (f *fakeCompleter) Complete(_ context.Context, messages []utils.ChatMessage) (string, error) {
	f.messages = messages
	return f.reply, f.err
}

func newTestAssistant(s Stores, completer Completer) *AssistantService {
	svc := NewAssistantService(completer, s, NewTaskService(s), NewProjectService(s))
	svc.now = func() time.Time { return time.Date(2030, 1, 15, 12, 0, 0, 0, time.UTC) }
	return svc
}

func TestChatCreatesTask(t *testing.T) {
	ctx := context.Background()
	s := newTestStores(t)
	admin := seedUser(t, s, "Admin", "admin@example.com", true)
	a := seedUser(t, s, "A", "a@example.com", false)
	project := seedProject(t, s, admin, "Capstone", nil)

	completer := &fakeCompleter{reply: fmt.Sprintf("```json\n"+
		`{"message": "Done.", "actions": [{"type": "create_task", "data": {"projectId": %q, "name": "Draft outline", "priority": "HIGH", "deadline": "2030-02-01"}}]}`+
		"\n```", project.ID.Hex())}
	resp, err := newTestAssistant(s, completer).Chat(ctx, a, ChatInput{Message: "add a task"})
	require.NoError(t, err)

	assert.True(t, resp.Success)
	require.Len(t, resp.Actions, 1)
	assert.True(t, resp.Actions[0].Success, resp.Actions[0].Detail)
	assert.True(t, strings.HasPrefix(resp.Message, "Done."))
	assert.Contains(t, resp.Message, "✅")

	tasks, err := s.Tasks.List(ctx, repositories.TaskFilter{ProjectID: &project.ID})
	require.NoError(t, err)
	require.Len(t, tasks, 1)
	assert.Equal(t, "Draft outline", tasks[0].Name)
	assert.Equal(t, "high", string(tasks[0].Priority))
	assert.Equal(t, a.ID, tasks[0].CreatedBy)

	require.Len(t, completer.messages, 2)
	assert.Equal(t, "system", completer.messages[0].Role)
	assert.Contains(t, completer.messages[0].Content, "Current Date: 2030-01-15")
	assert.Equal(t, "add a task", completer.messages[1].Content)
}

func TestChatRejectsProjectCreationForNonAdmin(t *testing.T) {
	ctx := context.Background()
	s := newTestStores(t)
	a := seedUser(t, s, "A", "a@example.com", false)
	// A stale in-memory flag must not grant admin rights.
	a.IsAdmin = true

	completer := &fakeCompleter{reply: `{"message": "Sure.", "actions": [{"type": "create_project", "data": {"name": "New", "description": "d"}}]}`}
	resp, err := newTestAssistant(s, completer).Chat(ctx, a, ChatInput{Message: "create a project"})
	require.NoError(t, err)
	require.Len(t, resp.Actions, 1)
	assert.False(t, resp.Actions[0].Success)
	assert.Contains(t, resp.Message, "⚠️")

	projects, err := s.Projects.List(ctx, repositories.ProjectFilter{})
	require.NoError(t, err)
	assert.Empty(t, projects)
}

func TestChatAdminCreatesProject(t *testing.T) {
	ctx := context.Background()
	s := newTestStores(t)
	admin := seedUser(t, s, "Admin", "admin@example.com", true)

	completer := &fakeCompleter{reply: `{"message": "Created.", "actions": [{"type": "create_project", "data": {"name": "New", "description": "d", "type": "Feature", "capacity": 3}}]}`}
	resp, err := newTestAssistant(s, completer).Chat(ctx, admin, ChatInput{Message: "create a project"})
	require.NoError(t, err)
	require.Len(t, resp.Actions, 1)
	assert.True(t, resp.Actions[0].Success, resp.Actions[0].Detail)

	projects, err := s.Projects.List(ctx, repositories.ProjectFilter{})
	require.NoError(t, err)
	require.Len(t, projects, 1)
	assert.Equal(t, "feature", string(projects[0].Type))
	require.NotNil(t, projects[0].Capacity)
	assert.Equal(t, 3, *projects[0].Capacity)
}

func TestChatFallsBackToPlainText(t *testing.T) {
	ctx := context.Background()
	s := newTestStores(t)
	a := seedUser(t, s, "A", "a@example.com", false)

	tests := map[string]string{
		"prose":          "You have two tasks due this week.",
		"unknown field":  `{"message": "hi", "actions": [], "mood": "happy"}`,
		"unknown action": `{"message": "hi", "actions": [{"type": "delete_everything", "data": {}}]}`,
		"missing name":   `{"message": "hi", "actions": [{"type": "create_task", "data": {"projectId": "abc"}}]}`,
	}
	for name, reply := range tests {
		t.Run(name, func(t *testing.T) {
			resp, err := newTestAssistant(s, &fakeCompleter{reply: reply}).Chat(ctx, a, ChatInput{Message: "hi"})
			require.NoError(t, err)
			assert.Equal(t, strings.TrimSpace(reply), resp.Message)
			assert.Empty(t, resp.Actions)
		})
	}

	tasks, err := s.Tasks.List(ctx, repositories.TaskFilter{})
	require.NoError(t, err)
	assert.Empty(t, tasks)
}

func TestChatErrors(t *testing.T) {
	ctx := context.Background()
	s := newTestStores(t)
	a := seedUser(t, s, "A", "a@example.com", false)

	_, err := newTestAssistant(s, &fakeCompleter{}).Chat(ctx, a, ChatInput{Message: "  "})
	requireCode(t, err, ErrCodeInvalidRequest)

	_, err = newTestAssistant(s, nil).Chat(ctx, a, ChatInput{Message: "hi"})
	requireCode(t, err, ErrCodeInternal)

	_, err = newTestAssistant(s, &fakeCompleter{err: errors.New("upstream down")}).Chat(ctx, a, ChatInput{Message: "hi"})
	requireCode(t, err, ErrCodeInternal)
	serr, _ := AsError(err)
	assert.Equal(t, "error processing assistant request", serr.Msg)

	resp, err := newTestAssistant(s, &fakeCompleter{reply: "   "}).Chat(ctx, a, ChatInput{Message: "hi"})
	require.NoError(t, err)
	assert.Equal(t, fallbackReply, resp.Message)
}

func TestChatStats(t *testing.T) {
	s := newTestStores(t)
	svc := newTestAssistant(s, nil)
	st := svc.stats(ChatContext{
		Projects: []map[string]any{{"name": "p"}},
		Tasks: []map[string]any{
			{"status": "completed", "deadline": "2020-01-01"},
			{"status": "in-progress", "deadline": "2020-01-01"},
			{"status": "not-started", "deadline": "2031-01-01"},
			{"status": "not-started"},
		},
		Applications: []map[string]any{{"status": "pending"}, {"status": "approved"}},
	})
	assert.Equal(t, chatStats{projects: 1, activeTasks: 3, pendingApplications: 1, overdueTasks: 1}, st)
}
