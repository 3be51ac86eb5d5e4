package models

import (
	"database/sql/driver"
	"encoding/json"
	"errors"
	"fmt"
	"time"
)

// Run maps the quiz_runs table.
type Run struct {
	ID          string    `db:"id"`
	SessionID   string    `db:"session_id"`
	Score       int       `db:"score"`
	Total       int       `db:"total"`
	Percent     float64   `db:"percent"`
	BankSource  string    `db:"bank_source"`
	CompletedAt time.Time `db:"completed_at"`
}

// MissedAnswer maps the missed_answers table.
type MissedAnswer struct {
	ID           int64       `db:"id"`
	RunID        string      `db:"run_id"`
	QuestionID   int         `db:"question_id"`
	QuestionText string      `db:"question_text"`
	Selected     IntSlice    `db:"selected"`
	Correct      IntSlice    `db:"correct"`
	CorrectTexts StringSlice `db:"correct_texts"`
	AnsweredAt   time.Time   `db:"answered_at"`
}

// IntSlice is stored as a JSON array in a TEXT column.
type IntSlice []int

func (s IntSlice) Value() (driver.Value, error) {
	return jsonValue(s, s == nil)
}

func (s *IntSlice) Scan(value interface{}) error {
	*s = IntSlice{}
	return jsonScan(value, (*[]int)(s), "IntSlice")
}

// StringSlice is stored as a JSON array in a TEXT column.
type StringSlice []string

func (s StringSlice) Value() (driver.Value, error) {
	return jsonValue(s, s == nil)
}

func (s *StringSlice) Scan(value interface{}) error {
	*s = StringSlice{}
	return jsonScan(value, (*[]string)(s), "StringSlice")
}

func jsonValue(v interface{}, isNil bool) (driver.Value, error) {
	if isNil {
		return "[]", nil
	}
	data, err := json.Marshal(v)
	if err != nil {
		return nil, err
	}
	return string(data), nil
}

// jsonScan treats NULL, "" and "null" as an empty slice.
func jsonScan(value interface{}, dest interface{}, typeName string) error {
	var raw []byte
	switch v := value.(type) {
	case nil:
		return nil
	case []byte:
		raw = v
	case string:
		raw = []byte(v)
	default:
		return errors.New(typeName + " Scan: unsupported type " + fmt.Sprintf("%T", value))
	}
	if len(raw) == 0 || string(raw) == "null" {
		return nil
	}
	return json.Unmarshal(raw, dest)
}
