package usecase

import (
	"context"
	"fmt"

	"github.com/runoshun/mfnd/internal/domain"
	"gopkg.in/yaml.v3"
)

// ImportTreeInput contains the parameters for importing tasks.
type ImportTreeInput struct {
	Parent  string // Label to import under (empty = top level)
	Content []byte // YAML or JSON TreeDocument
}

// ImportTreeOutput contains the result of importing tasks.
type ImportTreeOutput struct {
	Labels []string // Labels of the imported top-level tasks
	Count  int      // Number of tasks inserted, including subtasks
}

// ImportTree is the use case for adding tasks from a document.
// Labels in the document are ignored; tasks are appended in order.
type ImportTree struct {
	tree   TaskTree
	logger domain.Logger
}

// NewImportTree creates a new ImportTree use case.
func NewImportTree(tree TaskTree, logger domain.Logger) *ImportTree {
	return &ImportTree{
		tree:   tree,
		logger: logger,
	}
}

// Execute decodes the document and inserts its tasks.
func (uc *ImportTree) Execute(ctx context.Context, in ImportTreeInput) (*ImportTreeOutput, error) {
	// JSON is a subset of YAML, so one decoder serves both formats.
	var doc TreeDocument
	if err := yaml.Unmarshal(in.Content, &doc); err != nil {
		return nil, fmt.Errorf("decode document: %w", err)
	}
	if err := validateDocument(doc.Tasks, ""); err != nil {
		return nil, err
	}

	out := &ImportTreeOutput{}
	for _, dt := range doc.Tasks {
		label, err := uc.insert(ctx, dt, in.Parent, out)
		if err != nil {
			return out, err
		}
		out.Labels = append(out.Labels, label)
	}
	uc.logger.Info("import", fmt.Sprintf("imported %d tasks", out.Count))
	return out, nil
}

func (uc *ImportTree) insert(ctx context.Context, dt DocumentTask, parent string, out *ImportTreeOutput) (string, error) {
	status, _ := domain.ParseStatus(dt.Status)
	task := domain.NewTask(dt.Description)
	task.Status = status

	label, err := uc.tree.Insert(ctx, task, parent)
	if err != nil {
		return "", fmt.Errorf("import %q: %w", dt.Description, err)
	}
	out.Count++
	for _, child := range dt.Children {
		if _, err := uc.insert(ctx, child, label, out); err != nil {
			return "", err
		}
	}
	return label, nil
}

// validateDocument rejects the document before anything is inserted.
func validateDocument(tasks []DocumentTask, path string) error {
	for i, dt := range tasks {
		where := fmt.Sprintf("%s%d.", path, i+1)
		status, err := domain.ParseStatus(dt.Status)
		if err != nil {
			return fmt.Errorf("task %s: %w", where, err)
		}
		task := domain.NewTask(dt.Description)
		task.Status = status
		if err := task.Validate(); err != nil {
			return fmt.Errorf("task %s: %w", where, err)
		}
		if err := validateDocument(dt.Children, where); err != nil {
			return err
		}
	}
	return nil
}
