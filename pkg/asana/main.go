/*
Package asana
Typed client for the Asana REST API.

Entity shapes are declared by the caller with the model package; this package
turns them into requests and decodes the responses.

Usage:

    import (
        "github.com/taskwire/asana/pkg/asana"
        "github.com/taskwire/asana/pkg/model"
    )

    type User struct {
        model.Entity
        Email string `json:"email"`
        Name  string `json:"name"`
    }

    var userDescriptor = model.MustDescribe[User]("users")

    func (User) Descriptor() *model.Descriptor { return userDescriptor }

    api, err := asana.Connect("1/your:personal-access-token")

    // GET /api/1.0/users/me?opt_fields=this.(resource_type|email|name),
    user, err := asana.Get[User](ctx, api, "me")

    // GET /api/1.0/users/
    users, err := asana.List[User](ctx, api)

    // Lets list the sections of a project
    sections, err := asana.List[Section](
        ctx, asana.Under[Project](api, "12345678"),
    )

Scopes returned by Under are values: they never change the connection, so
one connection can serve many goroutines. The older chaining style, where the
scope is stored on the connection and consumed by the very next call, is
still available:

    sections, err := asana.List[Section](
        ctx, api.ScopeUnder(projectDescriptor, "12345678"),
    )

Every error returned is a *ConfigError, a *TransportError or a *DecodeError.
Nothing is retried.
*/
package asana
