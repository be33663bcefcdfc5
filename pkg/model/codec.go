package model

import (
	"bytes"
	"encoding/json"
	"errors"
	"reflect"
	"strings"
	"sync"
)

var entityType = reflect.TypeOf(Entity{})

type fieldInfo struct {
	name  string
	index []int
}

type structInfo struct {
	fields []fieldInfo
	known  map[string]bool
	// encoding/json matches member names case-insensitively as a fallback
	folded    map[string]bool
	hasEntity bool
	entity    []int
}

var (
	structInfoCache sync.Map // reflect.Type -> *structInfo
	containsCache   sync.Map // reflect.Type -> bool
)

/*
Unmarshal
Like json.Unmarshal, but for every struct that embeds Entity, at any depth,
the members not matched by a struct field are stored in Entity.Extra. Entities
are found through pointers, slices, arrays, struct fields and the values of
string-keyed maps.
*/
func Unmarshal(data []byte, v interface{}) error {
	err := json.Unmarshal(data, v)
	if err != nil {
		return err
	}
	return collectExtra(data, reflect.ValueOf(v))
}

/*
Marshal
Like json.Marshal, but the contents of Entity.Extra are written back next to
the declared fields. Declared fields win when a key exists in both.
*/
func Marshal(v interface{}) ([]byte, error) {
	return marshalValue(reflect.ValueOf(v))
}

func collectExtra(data []byte, v reflect.Value) error {
	if !v.IsValid() || !containsEntity(v.Type()) {
		return nil
	}
	switch v.Kind() {
	case reflect.Ptr:
		if v.IsNil() {
			return nil
		}
		return collectExtra(data, v.Elem())

	case reflect.Slice, reflect.Array:
		var items []json.RawMessage
		err := json.Unmarshal(data, &items)
		if err != nil {
			return err
		}
		for i := 0; i < len(items) && i < v.Len(); i++ {
			err = collectExtra(items[i], v.Index(i))
			if err != nil {
				return err
			}
		}
		return nil

	case reflect.Map:
		if v.IsNil() || v.Type().Key().Kind() != reflect.String {
			return nil
		}
		var members map[string]json.RawMessage
		err := json.Unmarshal(data, &members)
		if err != nil {
			return err
		}
		for key, value := range members {
			mapKey := reflect.ValueOf(key).Convert(v.Type().Key())
			elem := v.MapIndex(mapKey)
			if !elem.IsValid() {
				continue
			}
			// Map values are not addressable
			item := reflect.New(elem.Type()).Elem()
			item.Set(elem)
			err = collectExtra(value, item)
			if err != nil {
				return err
			}
			v.SetMapIndex(mapKey, item)
		}
		return nil

	case reflect.Struct:
		var members map[string]json.RawMessage
		err := json.Unmarshal(data, &members)
		if err != nil {
			return err
		}
		if members == nil {
			return nil
		}
		info := structInfoOf(v.Type())
		if info.hasEntity {
			extra := make(map[string]json.RawMessage)
			for key, value := range members {
				if !info.matches(key) {
					extra[key] = value
				}
			}
			if len(extra) == 0 {
				extra = nil
			}
			entity := v.FieldByIndex(info.entity).Addr().Interface().(*Entity)
			entity.Extra = extra
		}
		for _, field := range info.fields {
			value, exists := members[field.name]
			if !exists {
				continue
			}
			err = collectExtra(value, v.FieldByIndex(field.index))
			if err != nil {
				return err
			}
		}
	}
	return nil
}

func marshalValue(v reflect.Value) ([]byte, error) {
	if !v.IsValid() {
		return []byte("null"), nil
	}
	if !containsEntity(v.Type()) {
		return json.Marshal(v.Interface())
	}
	switch v.Kind() {
	case reflect.Ptr:
		if v.IsNil() {
			return []byte("null"), nil
		}
		return marshalValue(v.Elem())

	case reflect.Slice, reflect.Array:
		if v.Kind() == reflect.Slice && v.IsNil() {
			return []byte("null"), nil
		}
		items := make([][]byte, 0, v.Len())
		for i := 0; i < v.Len(); i++ {
			item, err := marshalValue(v.Index(i))
			if err != nil {
				return nil, err
			}
			items = append(items, item)
		}
		var buffer bytes.Buffer
		buffer.WriteByte('[')
		buffer.Write(bytes.Join(items, []byte(",")))
		buffer.WriteByte(']')
		return buffer.Bytes(), nil

	case reflect.Map:
		if v.IsNil() {
			return []byte("null"), nil
		}
		if v.Type().Key().Kind() != reflect.String {
			return json.Marshal(v.Interface())
		}
		members := make(map[string]json.RawMessage, v.Len())
		iter := v.MapRange()
		for iter.Next() {
			item, err := marshalValue(iter.Value())
			if err != nil {
				return nil, err
			}
			members[iter.Key().String()] = item
		}
		return json.Marshal(members)

	case reflect.Struct:
		base, err := json.Marshal(v.Interface())
		if err != nil {
			return nil, err
		}
		var members map[string]json.RawMessage
		err = json.Unmarshal(base, &members)
		if err != nil {
			return nil, err
		}
		if members == nil {
			return base, nil
		}
		info := structInfoOf(v.Type())
		for _, field := range info.fields {
			if _, exists := members[field.name]; !exists {
				// omitempty
				continue
			}
			fieldValue := v.FieldByIndex(field.index)
			if !containsEntity(fieldValue.Type()) {
				continue
			}
			members[field.name], err = marshalValue(fieldValue)
			if err != nil {
				return nil, err
			}
		}
		if info.hasEntity {
			entity := v.FieldByIndex(info.entity).Interface().(Entity)
			for key, value := range entity.Extra {
				if _, exists := members[key]; !exists {
					members[key] = value
				}
			}
		}
		return json.Marshal(members)
	}
	return nil, errors.New("model: cannot marshal " + v.Type().String())
}

func (info *structInfo) matches(key string) bool {
	return info.known[key] || info.folded[strings.ToLower(key)]
}

func structInfoOf(typ reflect.Type) *structInfo {
	if cached, ok := structInfoCache.Load(typ); ok {
		return cached.(*structInfo)
	}
	info := &structInfo{
		known:  map[string]bool{IdField: true, TypeField: true},
		folded: map[string]bool{IdField: true, TypeField: true},
	}
	if typ == entityType {
		info.hasEntity = true
		info.entity = []int{}
	} else {
		info.walk(typ, nil)
	}
	actual, _ := structInfoCache.LoadOrStore(typ, info)
	return actual.(*structInfo)
}

func (info *structInfo) walk(typ reflect.Type, prefix []int) {
	for i := 0; i < typ.NumField(); i++ {
		field := typ.Field(i)
		index := append(append([]int(nil), prefix...), i)
		tag := field.Tag.Get("json")

		if field.Anonymous {
			if field.Type == entityType {
				if !info.hasEntity {
					info.hasEntity = true
					info.entity = index
				}
				continue
			}
			if tag == "" && field.Type.Kind() == reflect.Struct {
				info.walk(field.Type, index)
				continue
			}
		}
		if !field.IsExported() || tag == "-" {
			continue
		}
		name := strings.Split(tag, ",")[0]
		if name == "" {
			name = field.Name
		}
		info.fields = append(info.fields, fieldInfo{name: name, index: index})
		info.known[name] = true
		info.folded[strings.ToLower(name)] = true
	}
}

func embedsEntity(typ reflect.Type) bool {
	return typ != entityType && structInfoOf(typ).hasEntity
}

func fieldNamesOf(typ reflect.Type) []string {
	info := structInfoOf(typ)
	result := make([]string, 0, len(info.fields))
	for _, field := range info.fields {
		result = append(result, field.name)
	}
	return result
}

// containsEntity reports whether values of typ can hold an Entity somewhere
// below them, following pointers, slices, arrays and struct fields.
func containsEntity(typ reflect.Type) bool {
	if cached, ok := containsCache.Load(typ); ok {
		return cached.(bool)
	}
	result := visitEntity(typ, make(map[reflect.Type]bool))
	containsCache.Store(typ, result)
	return result
}

// Results for inner types are only final once the whole graph below the root
// has been walked, so only the root result is cached.
func visitEntity(typ reflect.Type, visiting map[reflect.Type]bool) bool {
	if cached, ok := containsCache.Load(typ); ok {
		return cached.(bool)
	}
	if visiting[typ] {
		return false
	}
	visiting[typ] = true
	switch typ.Kind() {
	case reflect.Ptr, reflect.Slice, reflect.Array:
		return visitEntity(typ.Elem(), visiting)
	case reflect.Map:
		if typ.Key().Kind() != reflect.String {
			return false
		}
		return visitEntity(typ.Elem(), visiting)
	case reflect.Struct:
		info := structInfoOf(typ)
		if info.hasEntity {
			return true
		}
		for _, field := range info.fields {
			if visitEntity(typ.FieldByIndex(field.index).Type, visiting) {
				return true
			}
		}
	}
	return false
}
