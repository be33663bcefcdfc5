/*
Package model
Declarative descriptions of the entities returned by the Asana API.

The API returns sparse objects: only the fields named in the `opt_fields`
query parameter are populated. A Descriptor records, once per entity type,
which endpoint serves it, which fields to ask for and which related entities
to expand inline. The asana package turns descriptors into requests.

Usage:

    type Project struct {
        model.Entity
        Name string `json:"name"`
    }

    var projectDescriptor = model.MustDescribe[Project]("projects")

    func (Project) Descriptor() *model.Descriptor { return projectDescriptor }

    type Task struct {
        model.Entity
        Name     string    `json:"name"`
        Projects []Project `json:"projects"`
    }

    var taskDescriptor = model.MustDescribe[Task]("tasks", projectDescriptor)

    func (Task) Descriptor() *model.Descriptor { return taskDescriptor }

    taskDescriptor.OptFields()
    // <<< this.(resource_type|name|projects),projects.(resource_type|name)

Every entity carries `gid` and `resource_type` through the embedded Entity.
Members of a response that the caller did not declare are kept in
Entity.Extra so that Marshal can reproduce them.

Descriptors can also be built at runtime with New, and decoded into Record
values, when the shape is only known while the program runs.
*/
package model
