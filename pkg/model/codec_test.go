package model

import (
	"encoding/json"
	"reflect"
	"testing"

	"github.com/taskwire/asana/pkg/assert"
)

func jsonEqual(leftBytes, rightBytes []byte) (bool, error) {
	var left interface{}
	err := json.Unmarshal(leftBytes, &left)
	if err != nil {
		return false, err
	}

	var right interface{}
	err = json.Unmarshal(rightBytes, &right)
	if err != nil {
		return false, err
	}

	return reflect.DeepEqual(left, right), nil
}

func TestUnmarshalKeepsUnknownFields(t *testing.T) {
	body := []byte(`{"gid": "42",
	                 "resource_type": "user",
	                 "email": "jane@example.com",
	                 "name": "Jane",
	                 "photo": {"image_21x21": "https://example.com/p.png"}}`)
	var user testUser
	err := Unmarshal(body, &user)
	if err != nil {
		t.Fatal(err)
	}

	testCases := []struct {
		name     string
		getter   func() interface{}
		expected interface{}
	}{
		{"gid", func() interface{} { return user.ID() }, "42"},
		{"resource_type", func() interface{} { return user.Type() }, "user"},
		{"email", func() interface{} { return user.Email }, "jane@example.com"},
		{"name", func() interface{} { return user.Name }, "Jane"},
		{"extra length", func() interface{} { return len(user.Extra) }, 1},
	}
	for _, testCase := range testCases {
		value := testCase.getter()
		if value != testCase.expected {
			t.Errorf("User's %s was '%v', expected '%v'",
				testCase.name, value, testCase.expected)
		}
	}

	photo, exists := user.Field("photo")
	assert.True(t, exists, "photo should be kept")
	equal, err := jsonEqual(photo,
		[]byte(`{"image_21x21": "https://example.com/p.png"}`))
	if err != nil {
		t.Error(err)
	}
	assert.True(t, equal, "photo was '%s'", string(photo))
}

func TestUnmarshalWithoutUnknownFields(t *testing.T) {
	var user testUser
	err := Unmarshal(
		[]byte(`{"gid": "1", "resource_type": "user", "name": "A"}`), &user,
	)
	if err != nil {
		t.Fatal(err)
	}
	assert.True(t, user.Extra == nil, "Extra should be nil, got %v", user.Extra)
}

func TestRoundTrip(t *testing.T) {
	body := []byte(`{"gid": "42",
	                 "resource_type": "user",
	                 "email": "jane@example.com",
	                 "name": "Jane",
	                 "photo": null,
	                 "workspaces": [{"gid": "1", "resource_type": "workspace"}]}`)
	var user testUser
	err := Unmarshal(body, &user)
	if err != nil {
		t.Fatal(err)
	}
	output, err := Marshal(user)
	if err != nil {
		t.Fatal(err)
	}
	equal, err := jsonEqual(body, output)
	if err != nil {
		t.Error(err)
	}
	assert.True(t, equal, "Round trip produced '%s'", string(output))
}

func TestNestedUnknownFields(t *testing.T) {
	body := []byte(`{"gid": "7",
	                 "resource_type": "task",
	                 "name": "Write docs",
	                 "notes": "top level extra",
	                 "projects": [
	                     {"gid": "1", "resource_type": "project", "name": "P1",
	                      "color": "red"},
	                     {"gid": "2", "resource_type": "project", "name": "P2"}
	                 ],
	                 "assignee": {"gid": "9", "resource_type": "user",
	                              "name": "Bob", "email": "bob@example.com",
	                              "photo": null}}`)
	var task testTask
	err := Unmarshal(body, &task)
	if err != nil {
		t.Fatal(err)
	}

	_, exists := task.Field("notes")
	assert.True(t, exists, "task should keep 'notes'")
	color, exists := task.Projects[0].Field("color")
	assert.True(t, exists, "first project should keep 'color'")
	assert.Equal(t, string(color), `"red"`)
	assert.True(t, task.Projects[1].Extra == nil,
		"second project should have no extras")
	_, exists = task.Assignee.Field("photo")
	assert.True(t, exists, "assignee should keep 'photo'")

	output, err := Marshal(&task)
	if err != nil {
		t.Fatal(err)
	}
	equal, err := jsonEqual(body, output)
	if err != nil {
		t.Error(err)
	}
	assert.True(t, equal, "Round trip produced '%s'", string(output))
}

func TestNullRelation(t *testing.T) {
	body := []byte(`{"gid": "7", "resource_type": "task", "name": "A",
	                 "projects": [], "assignee": null}`)
	var task testTask
	err := Unmarshal(body, &task)
	if err != nil {
		t.Fatal(err)
	}
	assert.True(t, task.Assignee == nil, "assignee should be nil")
	assert.Equal(t, len(task.Projects), 0)

	output, err := Marshal(task)
	if err != nil {
		t.Fatal(err)
	}
	equal, err := jsonEqual(body, output)
	if err != nil {
		t.Error(err)
	}
	assert.True(t, equal, "Round trip produced '%s'", string(output))
}

func TestRecordKeepsEverything(t *testing.T) {
	body := []byte(`[{"gid": "1", "resource_type": "tag", "name": "urgent",
	                  "color": "dark-red"},
	                 {"gid": "2", "resource_type": "tag", "name": "later"}]`)
	var records []Record
	err := Unmarshal(body, &records)
	if err != nil {
		t.Fatal(err)
	}
	assert.Equal(t, len(records), 2)
	assert.Equal(t, records[0].ID(), "1")
	assert.Equal(t, len(records[0].Extra), 2)
	name, _ := records[1].Field("name")
	assert.Equal(t, string(name), `"later"`)

	output, err := Marshal(records)
	if err != nil {
		t.Fatal(err)
	}
	equal, err := jsonEqual(body, output)
	if err != nil {
		t.Error(err)
	}
	assert.True(t, equal, "Round trip produced '%s'", string(output))
}

func TestUnmarshalDeclaredFieldIsNotExtra(t *testing.T) {
	var user testUser
	err := Unmarshal(
		[]byte(`{"gid": "1", "resource_type": "user", "Name": "A"}`), &user,
	)
	if err != nil {
		t.Fatal(err)
	}
	assert.Equal(t, user.Name, "A")
	assert.True(t, user.Extra == nil,
		"case-insensitive match should not be kept as extra")
}

func TestUnmarshalInvalid(t *testing.T) {
	var user testUser
	err := Unmarshal([]byte(`{"gid": 12`), &user)
	assert.True(t, err != nil, "Expected error for truncated body")

	err = Unmarshal([]byte(`{"gid": "1", "name": 12}`), &user)
	assert.True(t, err != nil, "Expected error for mismatched type")
}

func TestMarshalPlainValue(t *testing.T) {
	output, err := Marshal(map[string]int{"a": 1})
	if err != nil {
		t.Fatal(err)
	}
	assert.Equal(t, string(output), `{"a":1}`)
}

func TestUnknownFieldsInMapValues(t *testing.T) {
	type projectsByKey struct {
		ByKey    map[string]testProject  `json:"by_key"`
		ByKeyPtr map[string]*testProject `json:"by_key_ptr"`
	}
	body := []byte(`{"by_key": {"a": {"gid": "1", "resource_type": "project",
	                                   "name": "P1", "secret": 7}},
	                 "by_key_ptr": {"b": {"gid": "2", "resource_type": "project",
	                                      "color": "red"}}}`)
	var result projectsByKey
	err := Unmarshal(body, &result)
	if err != nil {
		t.Fatal(err)
	}

	project := result.ByKey["a"]
	secret, exists := project.Field("secret")
	assert.True(t, exists, "map value should keep 'secret'")
	assert.Equal(t, string(secret), "7")
	color, exists := result.ByKeyPtr["b"].Field("color")
	assert.True(t, exists, "pointer map value should keep 'color'")
	assert.Equal(t, string(color), `"red"`)

	output, err := Marshal(&result)
	if err != nil {
		t.Fatal(err)
	}
	equal, err := jsonEqual(body, output)
	if err != nil {
		t.Error(err)
	}
	assert.True(t, equal, "Round trip produced '%s'", string(output))
}
