package models

import (
	"encoding/json"

	"gorm.io/datatypes"
)

// NewMetadata builds a JSON metadata column from a map. Marshal failures
// cannot happen for string-keyed maps of plain values, so the error is
// intentionally dropped.
func NewMetadata(m map[string]any) datatypes.JSON {
	b, _ := json.Marshal(m)
	return datatypes.JSON(b)
}

func jsonUnmarshal(data []byte, v any) error {
	return json.Unmarshal(data, v)
}
