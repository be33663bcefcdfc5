package asana

import (
	"bytes"
	"encoding/json"
	"errors"
)

var errMissingData = errors.New("response has no 'data' member")

// Used to parse JSON. Single entities and lists share the same envelope;
// the shape of 'data' is checked when it is decoded.

type payload struct {
	Data json.RawMessage `json:"data"`
}

func unwrapPayload(body []byte) (json.RawMessage, error) {
	var response payload
	err := json.Unmarshal(body, &response)
	if err != nil {
		return nil, err
	}
	data := bytes.TrimSpace(response.Data)
	if len(data) == 0 || bytes.Equal(data, []byte("null")) {
		return nil, errMissingData
	}
	return data, nil
}
