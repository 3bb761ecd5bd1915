package services

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/PatrikF1/backend-ProjectPartner/logging"
	"github.com/PatrikF1/backend-ProjectPartner/models"
	"github.com/PatrikF1/backend-ProjectPartner/utils"

	"github.com/bytedance/sonic"
)

const (
	actionCreateTask    = "create_task"
	actionCreateProject = "create_project"
	fallbackReply       = "I apologize, but I couldn't process your request."
)

// strictJSON rejects fields the reply contract does not define.
var strictJSON = sonic.Config{DisallowUnknownFields: true}.Froze()

// Completer sends a conversation to the language model and returns its reply.
type Completer interface {
	Complete(ctx context.Context, messages []utils.ChatMessage) (string, error)
}

// ChatContext is what the client already knows about the caller. Entries are
// passed to the model as-is.
type ChatContext struct {
	Projects     []map[string]any `json:"projects"`
	Tasks        []map[string]any `json:"tasks"`
	Applications []map[string]any `json:"applications"`
	UserID       string           `json:"userId"`
}

type ChatInput struct {
	Message string      `json:"message"`
	Context ChatContext `json:"context"`
}

type ActionResult struct {
	Type    string `json:"type"`
	Success bool   `json:"success"`
	Detail  string `json:"detail"`
}

type ChatResponse struct {
	Message string         `json:"message"`
	Success bool           `json:"success"`
	Actions []ActionResult `json:"actions"`
}

type assistantReply struct {
	Message string            `json:"message"`
	Actions []assistantAction `json:"actions"`
}

type assistantAction struct {
	Type string          `json:"type"`
	Data json.RawMessage `json:"data"`
}

type taskActionData struct {
	ProjectID   string `json:"projectId"`
	Name        string `json:"name"`
	Description string `json:"description"`
	Priority    string `json:"priority"`
	Deadline    string `json:"deadline"`
}

type projectActionData struct {
	Name        string `json:"name"`
	Description string `json:"description"`
	Type        string `json:"type"`
	Capacity    *int   `json:"capacity"`
	Deadline    string `json:"deadline"`
}

// parsedAction holds exactly one decoded payload.
type parsedAction struct {
	kind    string
	task    *taskActionData
	project *projectActionData
}

type AssistantService struct {
	completer Completer
	tasks     *TaskService
	projects  *ProjectService
	users     UserStore
	now       func() time.Time
}

// NewAssistantService wires the assistant. A nil completer means no API key
// is configured and every chat request fails.
func NewAssistantService(completer Completer, s Stores, tasks *TaskService, projects *ProjectService) *AssistantService {
	return &AssistantService{completer: completer, tasks: tasks, projects: projects, users: s.Users, now: time.Now}
}

func (s *AssistantService) Chat(ctx context.Context, caller *models.User, in ChatInput) (*ChatResponse, error) {
	message := strings.TrimSpace(in.Message)
	if message == "" {
		return nil, invalid("message is required")
	}
	if s.completer == nil {
		return nil, internal("assistant is not configured", errors.New("no completion API key"))
	}

	raw, err := s.completer.Complete(ctx, []utils.ChatMessage{
		{Role: "system", Content: s.systemPrompt(caller, in.Context)},
		{Role: "user", Content: message},
	})
	if err != nil {
		logging.Logger.Errorf("Event ID: ASSISTANT_UPSTREAM_FAILED, Description: Completion call failed for user %s: %v", caller.ID.Hex(), err)
		return nil, internal("error processing assistant request", err)
	}

	reply, actions, ok := parseReply(raw)
	if !ok {
		reply = strings.TrimSpace(raw)
		actions = nil
	}
	if reply == "" {
		reply = fallbackReply
	}

	resp := &ChatResponse{Success: true, Actions: make([]ActionResult, 0, len(actions))}
	for _, a := range actions {
		resp.Actions = append(resp.Actions, s.execute(ctx, caller, a))
	}
	resp.Message = appendResults(reply, resp.Actions)
	return resp, nil
}

// parseReply decodes the reply contract. Anything that does not match it
// exactly is reported as not ok and the caller falls back to plain text.
func parseReply(raw string) (string, []parsedAction, bool) {
	body := stripCodeFence(raw)
	var reply assistantReply
	if err := strictJSON.UnmarshalFromString(body, &reply); err != nil {
		return "", nil, false
	}
	if strings.TrimSpace(reply.Message) == "" && len(reply.Actions) == 0 {
		return "", nil, false
	}

	actions := make([]parsedAction, 0, len(reply.Actions))
	for _, a := range reply.Actions {
		switch a.Type {
		case actionCreateTask:
			var data taskActionData
			if err := strictJSON.Unmarshal(a.Data, &data); err != nil {
				return "", nil, false
			}
			if strings.TrimSpace(data.ProjectID) == "" || strings.TrimSpace(data.Name) == "" {
				return "", nil, false
			}
			actions = append(actions, parsedAction{kind: a.Type, task: &data})
		case actionCreateProject:
			var data projectActionData
			if err := strictJSON.Unmarshal(a.Data, &data); err != nil {
				return "", nil, false
			}
			if strings.TrimSpace(data.Name) == "" || strings.TrimSpace(data.Description) == "" {
				return "", nil, false
			}
			actions = append(actions, parsedAction{kind: a.Type, project: &data})
		default:
			return "", nil, false
		}
	}
	return strings.TrimSpace(reply.Message), actions, true
}

func stripCodeFence(raw string) string {
	body := strings.TrimSpace(raw)
	if !strings.HasPrefix(body, "```") {
		return body
	}
	body = strings.TrimPrefix(body, "```")
	body = strings.TrimPrefix(body, "json")
	body = strings.TrimSuffix(strings.TrimSpace(body), "```")
	return strings.TrimSpace(body)
}

func (s *AssistantService) execute(ctx context.Context, caller *models.User, a parsedAction) ActionResult {
	result := ActionResult{Type: a.kind}
	switch a.kind {
	case actionCreateTask:
		result.Detail, result.Success = s.createTask(ctx, caller, a.task)
	case actionCreateProject:
		result.Detail, result.Success = s.createProject(ctx, caller, a.project)
	}
	logging.Logger.Infof("Event ID: ASSISTANT_ACTION, Description: Action %s for user %s succeeded: %t", a.kind, caller.ID.Hex(), result.Success)
	return result
}

func (s *AssistantService) createTask(ctx context.Context, caller *models.User, data *taskActionData) (string, bool) {
	in := CreateTaskInput{
		ProjectID:   data.ProjectID,
		Name:        data.Name,
		Description: data.Description,
		Priority:    NormalizePriority(data.Priority),
	}
	if data.Deadline != "" {
		deadline, err := models.ParseDate(data.Deadline)
		if err != nil {
			return fmt.Sprintf("Could not create task %q: invalid deadline", data.Name), false
		}
		in.Deadline = models.OptionalTime{Set: true, Value: &deadline}
	}
	task, err := s.tasks.CreateTask(ctx, caller, in)
	if err != nil {
		return fmt.Sprintf("Could not create task %q: %s", data.Name, clientMessage(err)), false
	}
	return fmt.Sprintf("Created task %q", task.Name), true
}

// createProject re-reads the caller so a stale admin flag cannot be used.
func (s *AssistantService) createProject(ctx context.Context, caller *models.User, data *projectActionData) (string, bool) {
	stored, err := s.users.FindByID(ctx, caller.ID)
	if err != nil || !stored.IsAdmin {
		return fmt.Sprintf("Could not create project %q: only administrators can create projects", data.Name), false
	}
	in := CreateProjectInput{
		Name:        data.Name,
		Description: data.Description,
		Type:        models.ProjectType(strings.ToLower(strings.TrimSpace(data.Type))),
		Capacity:    data.Capacity,
	}
	if data.Deadline != "" {
		deadline, err := models.ParseDate(data.Deadline)
		if err != nil {
			return fmt.Sprintf("Could not create project %q: invalid deadline", data.Name), false
		}
		in.Deadline = models.OptionalTime{Set: true, Value: &deadline}
	}
	project, err := s.projects.CreateProject(ctx, stored, in)
	if err != nil {
		return fmt.Sprintf("Could not create project %q: %s", data.Name, clientMessage(err)), false
	}
	return fmt.Sprintf("Created project %q", project.Name), true
}

func appendResults(message string, results []ActionResult) string {
	if len(results) == 0 {
		return message
	}
	var b strings.Builder
	b.WriteString(message)
	b.WriteString("\n\n")
	for _, r := range results {
		mark := "✅"
		if !r.Success {
			mark = "⚠️"
		}
		fmt.Fprintf(&b, "%s %s\n", mark, r.Detail)
	}
	return strings.TrimRight(b.String(), "\n")
}

// clientMessage is the part of err that is safe to show to the caller.
func clientMessage(err error) string {
	if serr, ok := AsError(err); ok && serr.Code != ErrCodeInternal {
		return serr.Msg
	}
	return "internal error"
}

type chatStats struct {
	projects, activeTasks, pendingApplications, overdueTasks int
}

func (s *AssistantService) stats(c ChatContext) chatStats {
	now := s.now()
	st := chatStats{projects: len(c.Projects)}
	for _, t := range c.Tasks {
		status, _ := t["status"].(string)
		if status == string(models.StatusCompleted) {
			continue
		}
		st.activeTasks++
		if raw, ok := t["deadline"].(string); ok && raw != "" {
			if deadline, err := models.ParseDate(raw); err == nil && deadline.Before(now) {
				st.overdueTasks++
			}
		}
	}
	for _, a := range c.Applications {
		if status, _ := a["status"].(string); status == string(models.ApplicationPending) {
			st.pendingApplications++
		}
	}
	return st
}

func (s *AssistantService) systemPrompt(caller *models.User, c ChatContext) string {
	st := s.stats(c)
	today := s.now().UTC().Format("2006-01-02")
	encode := func(v any) string {
		out, err := sonic.MarshalString(v)
		if err != nil || out == "null" {
			return "[]"
		}
		return out
	}

	var b strings.Builder
	b.WriteString("You are a helpful AI assistant for a project management system called ProjectPartner.\n\n")
	b.WriteString("## Your Role\nYou help users manage their projects, tasks, and applications. Be proactive, concise, and action-oriented.\n\n")
	b.WriteString("## User Context\n")
	fmt.Fprintf(&b, "- Projects: %s\n", encode(c.Projects))
	fmt.Fprintf(&b, "- Tasks: %s\n", encode(c.Tasks))
	fmt.Fprintf(&b, "- Applications: %s\n", encode(c.Applications))
	fmt.Fprintf(&b, "- User ID: %s\n", caller.ID.Hex())
	fmt.Fprintf(&b, "- User is admin: %t\n\n", caller.IsAdmin)
	b.WriteString("## Quick Statistics\n")
	fmt.Fprintf(&b, "- Total Projects: %d\n", st.projects)
	fmt.Fprintf(&b, "- Active Tasks: %d\n", st.activeTasks)
	fmt.Fprintf(&b, "- Pending Applications: %d\n", st.pendingApplications)
	fmt.Fprintf(&b, "- Overdue Tasks: %d\n", st.overdueTasks)
	fmt.Fprintf(&b, "- Current Date: %s\n\n", today)
	b.WriteString("## Response Guidelines\n")
	b.WriteString("1. Reference projects, tasks and applications by their actual names.\n")
	b.WriteString("2. Highlight urgent work: approaching deadlines, high priority and overdue tasks.\n")
	b.WriteString("3. If the context is empty, suggest a next step.\n")
	b.WriteString("4. Keep answers to 2-4 sentences unless asked for detail.\n")
	fmt.Fprintf(&b, "5. Consider the current date (%s) when discussing deadlines.\n\n", today)
	b.WriteString("## Response Format\n")
	b.WriteString("Always answer with a single JSON object and nothing else:\n")
	b.WriteString(`{"message": "<text shown to the user>", "actions": []}` + "\n")
	b.WriteString("Only add an action when the user explicitly asks to create something. Supported actions:\n")
	b.WriteString(`{"type": "create_task", "data": {"projectId": "<project id>", "name": "<name>", "description": "<optional>", "priority": "low|medium|high", "deadline": "YYYY-MM-DD"}}` + "\n")
	b.WriteString(`{"type": "create_project", "data": {"name": "<name>", "description": "<description>", "type": "project|feature|bug/fix|other|task|application", "capacity": 5, "deadline": "YYYY-MM-DD"}}` + "\n")
	b.WriteString("Use only project ids that appear in the context. create_project is only allowed for admins.\n")
	return b.String()
}
