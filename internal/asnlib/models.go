package asnlib

import "github.com/taskwire/asana/pkg/model"

type User struct {
	model.Entity
	Name  string `json:"name"`
	Email string `json:"email"`
}

var userDescriptor = model.MustDescribe[User]("users")

func (User) Descriptor() *model.Descriptor { return userDescriptor }

type Workspace struct {
	model.Entity
	Name           string `json:"name"`
	IsOrganization bool   `json:"is_organization"`
}

var workspaceDescriptor = model.MustDescribe[Workspace]("workspaces")

func (Workspace) Descriptor() *model.Descriptor { return workspaceDescriptor }

type Project struct {
	model.Entity
	Name         string `json:"name"`
	Archived     bool   `json:"archived"`
	PermalinkUrl string `json:"permalink_url"`
}

var projectDescriptor = model.MustDescribe[Project]("projects")

func (Project) Descriptor() *model.Descriptor { return projectDescriptor }

type Section struct {
	model.Entity
	Name string `json:"name"`
}

var sectionDescriptor = model.MustDescribe[Section]("sections")

func (Section) Descriptor() *model.Descriptor { return sectionDescriptor }

// Task expands its projects; the assignee arrives in compact form
type Task struct {
	model.Entity
	Name      string    `json:"name"`
	Completed bool      `json:"completed"`
	DueOn     string    `json:"due_on"`
	Notes     string    `json:"notes"`
	Assignee  *User     `json:"assignee"`
	Projects  []Project `json:"projects"`
}

var taskDescriptor = model.MustDescribe[Task]("tasks", projectDescriptor)

func (Task) Descriptor() *model.Descriptor { return taskDescriptor }
