package asana

import "github.com/taskwire/asana/pkg/model"

// The package ships no models; these are the ones its tests declare.

type testUser struct {
	model.Entity
	Email string `json:"email"`
	Name  string `json:"name"`
}

var testUserDescriptor = model.MustDescribe[testUser]("users")

func (testUser) Descriptor() *model.Descriptor { return testUserDescriptor }

type testProject struct {
	model.Entity
	Name string `json:"name"`
}

var testProjectDescriptor = model.MustDescribe[testProject]("projects")

func (testProject) Descriptor() *model.Descriptor { return testProjectDescriptor }

type testSection struct {
	model.Entity
	Name string `json:"name"`
}

var testSectionDescriptor = model.MustDescribe[testSection]("sections")

func (testSection) Descriptor() *model.Descriptor { return testSectionDescriptor }

type testTask struct {
	model.Entity
	Name     string        `json:"name"`
	Projects []testProject `json:"projects"`
}

var testTaskDescriptor = model.MustDescribe[testTask](
	"tasks", testProjectDescriptor,
)

func (testTask) Descriptor() *model.Descriptor { return testTaskDescriptor }
