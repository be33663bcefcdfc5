package model

import (
	"encoding/json"
)

/*
Entity
Embed in every model struct. Gid and ResourceType are always populated by the
API. Extra holds the members of the response that the model did not declare;
it is filled by Unmarshal and written back by Marshal.
*/
type Entity struct {
	Gid          string                     `json:"gid"`
	ResourceType string                     `json:"resource_type"`
	Extra        map[string]json.RawMessage `json:"-"`
}

func (e *Entity) ID() string {
	return e.Gid
}

func (e *Entity) Type() string {
	return e.ResourceType
}

// Field returns an undeclared member kept from the response.
func (e *Entity) Field(name string) (json.RawMessage, bool) {
	value, exists := e.Extra[name]
	return value, exists
}

/*
Record
Decode target for descriptors built at runtime with New. Since it declares no
fields of its own, every member besides gid and resource_type ends up in
Extra.
*/
type Record struct {
	Entity
}
