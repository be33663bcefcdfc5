package model

import (
	"fmt"
	"reflect"
	"strings"
)

const (
	IdField   = "gid"
	TypeField = "resource_type"
)

type Descriptor struct {
	endpoint string
	fields   []string
	includes []*Descriptor
}

// Model is implemented by entity types that know their own Descriptor. The
// method must have a value receiver so it can be called on a zero value.
type Model interface {
	Descriptor() *Descriptor
}

func DescriptorOf[T Model]() *Descriptor {
	var zero T
	return zero.Descriptor()
}

/*
New
Build a descriptor from an endpoint path, the ordered own fields and the
descriptors of the relations to expand. Malformed declarations are rejected
with a *DefinitionError.
*/
func New(
	endpoint string, fields []string, includes ...*Descriptor,
) (*Descriptor, error) {
	if endpoint == "" {
		return nil, &DefinitionError{Endpoint: endpoint, Reason: "empty endpoint"}
	}
	if strings.HasPrefix(endpoint, "/") || strings.HasSuffix(endpoint, "/") {
		return nil, &DefinitionError{
			Endpoint: endpoint,
			Reason:   "endpoint must not start or end with '/'",
		}
	}

	seen := make(map[string]bool, len(fields))
	for _, field := range fields {
		switch {
		case field == "":
			return nil, &DefinitionError{Endpoint: endpoint, Reason: "empty field name"}
		case field == IdField || field == TypeField:
			return nil, &DefinitionError{
				Endpoint: endpoint,
				Field:    field,
				Reason:   "field is implicit and cannot be declared",
			}
		case seen[field]:
			return nil, &DefinitionError{
				Endpoint: endpoint,
				Field:    field,
				Reason:   "duplicate field",
			}
		}
		seen[field] = true
	}
	for i, include := range includes {
		if include == nil {
			return nil, &DefinitionError{
				Endpoint: endpoint,
				Reason:   fmt.Sprintf("include #%d is nil", i),
			}
		}
	}

	return &Descriptor{
		endpoint: endpoint,
		fields:   append([]string(nil), fields...),
		includes: append([]*Descriptor(nil), includes...),
	}, nil
}

func MustNew(
	endpoint string, fields []string, includes ...*Descriptor,
) *Descriptor {
	descriptor, err := New(endpoint, fields, includes...)
	if err != nil {
		panic(err)
	}
	return descriptor
}

/*
Describe
Build a descriptor whose own fields are the JSON names of T's exported fields,
in declaration order. T must be a struct that embeds Entity.
*/
func Describe[T any](
	endpoint string, includes ...*Descriptor,
) (*Descriptor, error) {
	typ := reflect.TypeOf((*T)(nil)).Elem()
	if typ.Kind() != reflect.Struct {
		return nil, &DefinitionError{
			Endpoint: endpoint,
			Reason:   fmt.Sprintf("%s is not a struct", typ),
		}
	}
	if !embedsEntity(typ) {
		return nil, &DefinitionError{
			Endpoint: endpoint,
			Reason:   fmt.Sprintf("%s does not embed model.Entity", typ),
		}
	}
	return New(endpoint, fieldNamesOf(typ), includes...)
}

func MustDescribe[T any](endpoint string, includes ...*Descriptor) *Descriptor {
	descriptor, err := Describe[T](endpoint, includes...)
	if err != nil {
		panic(err)
	}
	return descriptor
}

func (d *Descriptor) Endpoint() string {
	return d.endpoint
}

/*
FieldNames
The discriminator followed by the declared fields. The identifier is always
returned by the API and is never listed.
*/
func (d *Descriptor) FieldNames() []string {
	result := make([]string, 0, len(d.fields)+1)
	result = append(result, TypeField)
	return append(result, d.fields...)
}

func (d *Descriptor) Includes() []*Descriptor {
	return append([]*Descriptor(nil), d.includes...)
}

/*
InclusionStrings
One expression per included relation:

    projects.(resource_type|name)

Relations of relations are not expanded.
*/
func (d *Descriptor) InclusionStrings() []string {
	result := make([]string, 0, len(d.includes))
	for _, include := range d.includes {
		result = append(result, fmt.Sprintf(
			"%s.(%s)",
			include.Endpoint(),
			strings.Join(include.FieldNames(), "|"),
		))
	}
	return result
}

/*
OptFields
Value of the `opt_fields` query parameter. When there are no includes the
separating comma is still emitted:

    this.(resource_type|email|name),
*/
func (d *Descriptor) OptFields() string {
	return fmt.Sprintf(
		"this.(%s),%s",
		strings.Join(d.FieldNames(), "|"),
		strings.Join(d.InclusionStrings(), ","),
	)
}

func (d *Descriptor) String() string {
	return fmt.Sprintf("%s?opt_fields=%s", d.endpoint, d.OptFields())
}

type DefinitionError struct {
	Endpoint string
	Field    string
	Reason   string
}

func (e *DefinitionError) Error() string {
	if e.Field != "" {
		return fmt.Sprintf("invalid model '%s': %s: %s",
			e.Endpoint, e.Reason, e.Field)
	}
	return fmt.Sprintf("invalid model '%s': %s", e.Endpoint, e.Reason)
}
