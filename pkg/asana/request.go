package asana

import (
	"context"
	"fmt"

	"github.com/taskwire/asana/pkg/model"
)

var errNoConnection = &ConfigError{Reason: "request without a connection"}

// Requester is either a *Connection or a Scope
type Requester interface {
	take() (*Connection, string)
	under(prefix string) Scope
}

/*
Scope
A relational path prefix bound to a connection, eg 'projects/12345678/'.
Scopes are values; making one does not change the connection. A request made
through a scope uses only the scope's prefix and discards any pending scope
set with Connection.ScopeUnder, like every other request on the connection.
*/
type Scope struct {
	conn   *Connection
	prefix string
}

func (s Scope) take() (*Connection, string) {
	if s.conn != nil {
		s.conn.take()
	}
	return s.conn, s.prefix
}

func (s Scope) under(prefix string) Scope {
	return Scope{conn: s.conn, prefix: s.prefix + prefix}
}

// Under nests another parent below this scope
func (s Scope) Under(parent *model.Descriptor, id string) Scope {
	return s.under(scopePrefix(parent, id))
}

func (s Scope) Prefix() string {
	return s.prefix
}

// Under scopes the next request under the entity of type P with the given gid
func Under[P model.Model](r Requester, id string) Scope {
	return r.under(scopePrefix(model.DescriptorOf[P](), id))
}

// ScopeUnder is Connection.ScopeUnder with the parent given as a type
func ScopeUnder[P model.Model](c *Connection, id string) *Connection {
	return c.ScopeUnder(model.DescriptorOf[P](), id)
}

/*
Get
Fetch a single entity:

    GET {scope}{endpoint}/{id}?opt_fields=...

and decode the 'data' member of the response into T.
*/
func Get[T model.Model](ctx context.Context, r Requester, id string) (T, error) {
	return GetWith[T](ctx, r, model.DescriptorOf[T](), id)
}

/*
List
Fetch the collection:

    GET {scope}{endpoint}/?opt_fields=...

and decode the 'data' member of the response into a slice of T, in response
order.
*/
func List[T model.Model](ctx context.Context, r Requester) ([]T, error) {
	return ListWith[T](ctx, r, model.DescriptorOf[T]())
}

// GetWith is Get with an explicit descriptor, eg one built at runtime with
// model.New and decoded into a model.Record
func GetWith[T any](
	ctx context.Context, r Requester, descriptor *model.Descriptor, id string,
) (T, error) {
	var result T
	if r == nil {
		return result, errNoConnection
	}
	conn, prefix := r.take()
	if conn == nil {
		return result, errNoConnection
	}
	if id == "" {
		return result, &ConfigError{
			Reason: fmt.Sprintf("empty id for '%s'", descriptor.Endpoint()),
		}
	}
	body, err := conn.fetch(ctx, prefix, descriptor, id)
	if err != nil {
		return result, err
	}
	data, err := unwrapPayload(body)
	if err != nil {
		return result, &DecodeError{Endpoint: descriptor.Endpoint(), Err: err}
	}
	err = model.Unmarshal(data, &result)
	if err != nil {
		return result, &DecodeError{Endpoint: descriptor.Endpoint(), Err: err}
	}
	return result, nil
}

func ListWith[T any](
	ctx context.Context, r Requester, descriptor *model.Descriptor,
) ([]T, error) {
	if r == nil {
		return nil, errNoConnection
	}
	conn, prefix := r.take()
	if conn == nil {
		return nil, errNoConnection
	}
	body, err := conn.fetch(ctx, prefix, descriptor, "")
	if err != nil {
		return nil, err
	}
	data, err := unwrapPayload(body)
	if err != nil {
		return nil, &DecodeError{Endpoint: descriptor.Endpoint(), Err: err}
	}
	var result []T
	err = model.Unmarshal(data, &result)
	if err != nil {
		return nil, &DecodeError{Endpoint: descriptor.Endpoint(), Err: err}
	}
	if result == nil {
		result = make([]T, 0)
	}
	return result, nil
}
