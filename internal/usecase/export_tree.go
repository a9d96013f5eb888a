package usecase

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/runoshun/mfnd/internal/domain"
	"github.com/runoshun/mfnd/internal/tasktree"
	"gopkg.in/yaml.v3"
)

// Export formats.
const (
	FormatYAML = "yaml"
	FormatJSON = "json"
)

// TreeDocument is the exported and importable shape of a task list.
type TreeDocument struct {
	Date  string         `json:"date,omitempty" yaml:"date,omitempty"`
	Tasks []DocumentTask `json:"tasks" yaml:"tasks"`
}

// DocumentTask is one task of a TreeDocument.
// Fields are ordered to minimize memory padding.
type DocumentTask struct {
	Label       string         `json:"label,omitempty" yaml:"label,omitempty"`
	Description string         `json:"description" yaml:"description"`
	Status      string         `json:"status,omitempty" yaml:"status,omitempty"`
	Children    []DocumentTask `json:"children,omitempty" yaml:"children,omitempty"`
}

// ExportTreeInput contains the parameters for exporting the tree.
type ExportTreeInput struct {
	Format string // yaml (default) or json
}

// ExportTreeOutput contains the encoded document.
type ExportTreeOutput struct {
	Data []byte
}

// ExportTree is the use case for dumping the tree as a nested document.
type ExportTree struct {
	tree  TaskTree
	clock domain.Clock
}

// NewExportTree creates a new ExportTree use case.
func NewExportTree(tree TaskTree, clock domain.Clock) *ExportTree {
	return &ExportTree{
		tree:  tree,
		clock: clock,
	}
}

// Execute encodes the current tree in the requested format.
func (uc *ExportTree) Execute(_ context.Context, in ExportTreeInput) (*ExportTreeOutput, error) {
	doc := TreeDocument{
		Date:  uc.clock.Now().Format(domain.HeaderDateLayout),
		Tasks: documentTasks(uc.tree.Snapshot()),
	}

	var data []byte
	var err error
	switch strings.ToLower(in.Format) {
	case "", FormatYAML, "yml":
		data, err = yaml.Marshal(doc)
	case FormatJSON:
		data, err = json.MarshalIndent(doc, "", "  ")
		if err == nil {
			data = append(data, '\n')
		}
	default:
		return nil, fmt.Errorf("%w: %q", domain.ErrUnsupportedFormat, in.Format)
	}
	if err != nil {
		return nil, fmt.Errorf("encode tree: %w", err)
	}
	return &ExportTreeOutput{Data: data}, nil
}

func documentTasks(snaps []tasktree.Snapshot) []DocumentTask {
	out := make([]DocumentTask, 0, len(snaps))
	for _, s := range snaps {
		out = append(out, DocumentTask{
			Label:       s.Label,
			Description: s.Task.Description,
			Status:      s.Task.Status.String(),
			Children:    documentTasks(s.Children),
		})
	}
	return out
}
