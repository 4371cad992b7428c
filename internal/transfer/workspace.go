package transfer

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/google/uuid"
)

const (
	workspaceDirectoryTemplateConstant = "repokeeper-transfer-%s"
	workspaceDirectoryPermissions      = 0o700
	workspaceCreateFailureTemplate     = "creating transfer workspace: %w"
)

// Workspace is a disposable directory holding one transfer's mirror clone.
type Workspace struct {
	Path string
}

// Remove deletes the workspace and everything beneath it.
func (workspace Workspace) Remove() error {
	return os.RemoveAll(workspace.Path)
}

// WorkspaceManager creates uniquely named scratch directories for mirror
// clones. Names embed a fresh identifier so concurrent transfers never
// collide, and callers remove the workspace whether the transfer succeeds
// or fails.
type WorkspaceManager struct {
	baseDirectory string
}

// NewWorkspaceManager builds a manager rooted at baseDirectory, defaulting
// to the system temporary directory.
func NewWorkspaceManager(baseDirectory string) *WorkspaceManager {
	if len(baseDirectory) == 0 {
		baseDirectory = os.TempDir()
	}
	return &WorkspaceManager{baseDirectory: baseDirectory}
}

// Create allocates an empty workspace directory.
func (manager *WorkspaceManager) Create() (Workspace, error) {
	workspacePath := filepath.Join(manager.baseDirectory, fmt.Sprintf(workspaceDirectoryTemplateConstant, uuid.NewString()))
	if mkdirError := os.MkdirAll(workspacePath, workspaceDirectoryPermissions); mkdirError != nil {
		return Workspace{}, fmt.Errorf(workspaceCreateFailureTemplate, mkdirError)
	}
	return Workspace{Path: workspacePath}, nil
}
