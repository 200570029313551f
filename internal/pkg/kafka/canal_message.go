package kafka

import (
	"fmt"
	"strconv"
)

// Canal event types.
const (
	INSERT = "INSERT"
	UPDATE = "UPDATE"
	DELETE = "DELETE"
)

// CanalMessage is the JSON envelope Canal publishes for each binlog event.
type CanalMessage struct {
	ID       int64    `json:"id"`
	Database string   `json:"database"`
	Table    string   `json:"table"`
	PKNames  []string `json:"pkNames"`
	IsDDL    bool     `json:"isDdl"`
	Type     string   `json:"type"`
	ES       int64    `json:"es"`
	TS       int64    `json:"ts"`
	SQL      string   `json:"sql"`

	// Data holds the rows after the change.
	Data []map[string]interface{} `json:"data"`

	// Old holds only the changed columns of each row, before the change.
	Old []map[string]interface{} `json:"old"`

	SqlType   map[string]int    `json:"sqlType"`
	MysqlType map[string]string `json:"mysqlType"`
}

// Canal renders every column value as a string or null.

func StrToString(v interface{}) string {
	switch t := v.(type) {
	case nil:
		return ""
	case string:
		return t
	default:
		return fmt.Sprint(t)
	}
}

func StrToUint64(v interface{}) uint64 {
	n, err := strconv.ParseUint(StrToString(v), 10, 64)
	if err != nil {
		return 0
	}
	return n
}

// changed reports whether column is among the old values of row i of an UPDATE.
func (m *CanalMessage) changed(i int, column string) bool {
	if i >= len(m.Old) {
		return false
	}
	_, ok := m.Old[i][column]
	return ok
}
