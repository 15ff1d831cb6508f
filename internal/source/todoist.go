package source

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"slices"

	"github.com/alexanderramin/sentencemine/internal/domain"
	"github.com/alexanderramin/sentencemine/internal/todoist"
)

const (
	DefaultProjectName = "english-words"
	DefaultErrorLabel  = "needs_review"
)

// TaskAPI is the subset of the Todoist client the provider uses.
type TaskAPI interface {
	ProjectByName(ctx context.Context, name string) (*todoist.Project, error)
	Tasks(ctx context.Context, projectID string) ([]todoist.Task, error)
	Task(ctx context.Context, id string) (*todoist.Task, error)
	CloseTask(ctx context.Context, id string) error
	SetLabels(ctx context.Context, id string, labels []string) error
	AddComment(ctx context.Context, taskID, content string) (*todoist.Comment, error)
}

type TodoistOptions struct {
	Project    string
	ErrorLabel string
}

// Todoist reads items from the tasks of one project. The task content holds
// the entry and the description holds the context sentence.
type Todoist struct {
	api    TaskAPI
	opts   TodoistOptions
	logger *slog.Logger
}

func NewTodoist(api TaskAPI, opts TodoistOptions, logger *slog.Logger) *Todoist {
	if opts.Project == "" {
		opts.Project = DefaultProjectName
	}
	if opts.ErrorLabel == "" {
		opts.ErrorLabel = DefaultErrorLabel
	}
	return &Todoist{api: api, opts: opts, logger: orDiscard(logger)}
}

func (s *Todoist) Name() string { return string(domain.SourceTodoist) }

func (s *Todoist) ListItems(ctx context.Context) ([]domain.SourceItem, error) {
	project, err := s.api.ProjectByName(ctx, s.opts.Project)
	if err != nil {
		return nil, fmt.Errorf("finding todoist project %q: %w", s.opts.Project, err)
	}
	if project == nil {
		s.logger.Warn("todoist project not found", slog.String("project", s.opts.Project))
		return nil, nil
	}

	tasks, err := s.api.Tasks(ctx, project.ID)
	if err != nil {
		return nil, fmt.Errorf("listing todoist tasks: %w", err)
	}

	items := make([]domain.SourceItem, 0, len(tasks))
	for _, task := range tasks {
		tags := make([]string, 0, len(task.Labels)+1)
		for _, label := range task.Labels {
			tags = append(tags, "TaskLabel::"+label)
		}
		items = append(items, domain.SourceItem{
			ID:        task.ID,
			EntryText: task.Content,
			Sentence:  task.Description,
			Tags:      append(tags, "Type::Todoist"),
		})
	}
	return items, nil
}

func (s *Todoist) Complete(ctx context.Context, id string) error {
	if err := s.api.CloseTask(ctx, id); err != nil {
		return fmt.Errorf("closing todoist task %s: %w", id, err)
	}
	return nil
}

// Fail adds the review label (once) and leaves a comment with the reason.
func (s *Todoist) Fail(ctx context.Context, id, reason string) error {
	var errs []error

	task, err := s.api.Task(ctx, id)
	switch {
	case err != nil:
		errs = append(errs, fmt.Errorf("reading todoist task %s: %w", id, err))
	case !slices.Contains(task.Labels, s.opts.ErrorLabel):
		labels := append(slices.Clone(task.Labels), s.opts.ErrorLabel)
		if err := s.api.SetLabels(ctx, id, labels); err != nil {
			errs = append(errs, fmt.Errorf("labelling todoist task %s: %w", id, err))
		}
	}

	if reason != "" {
		if _, err := s.api.AddComment(ctx, id, "sentencemine: "+reason); err != nil {
			errs = append(errs, fmt.Errorf("commenting on todoist task %s: %w", id, err))
		}
	}
	return errors.Join(errs...)
}
