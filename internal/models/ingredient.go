package models

import (
	"database/sql/driver"
	"encoding/json"
)

// Ingredient is one structured ingredient of a generated recipe. Quantity is
// always numeric; preparation notes ride along in Item or Note.
type Ingredient struct {
	Item     string  `json:"item"`
	Quantity float64 `json:"quantity"`
	Unit     string  `json:"unit"`
	Note     string  `json:"note,omitempty"`
}

// JSONBIngredientArray is a custom type for handling ingredient lists in JSONB
type JSONBIngredientArray []Ingredient

// Value implements the driver.Valuer interface
func (a JSONBIngredientArray) Value() (driver.Value, error) {
	if len(a) == 0 {
		return "[]", nil
	}
	return json.Marshal(a)
}

// Scan implements the sql.Scanner interface
func (a *JSONBIngredientArray) Scan(value interface{}) error {
	if value == nil {
		*a = JSONBIngredientArray{}
		return nil
	}

	var bytes []byte
	switch v := value.(type) {
	case []byte:
		bytes = v
	case string:
		bytes = []byte(v)
	default:
		return nil
	}

	return json.Unmarshal(bytes, a)
}
