package model

import (
	"database/sql/driver"
	"errors"
	"fmt"
	"strings"
)

// TagList is stored as a comma joined string so substring search keeps working on the column.
type TagList []string

func (t TagList) Value() (driver.Value, error) {
	return strings.Join(t, ","), nil
}

func (t *TagList) Scan(value interface{}) error {
	var raw string
	switch v := value.(type) {
	case nil:
		*t = nil
		return nil
	case []byte:
		raw = string(v)
	case string:
		raw = v
	default:
		return errors.New(fmt.Sprint("Failed to scan tag list value:", value))
	}

	list := make(TagList, 0)
	for _, part := range strings.Split(raw, ",") {
		if part = strings.TrimSpace(part); part != "" {
			list = append(list, part)
		}
	}
	*t = list
	return nil
}
