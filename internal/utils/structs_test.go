package utils

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

type sample struct {
	ID       string  `db:"id"`
	Name     string  `db:"name"`
	Nickname *string `db:"nickname"`
	Skipped  string  `db:"-"`
	Untagged string
	private  string `db:"private"`
}

func TestStructTagValues(t *testing.T) {
	assert.Equal(t, []string{"id", "name", "nickname"}, StructTagValues(sample{}))
	assert.Equal(t, []string{"id", "name", "nickname"}, StructTagValues(&sample{}))
}

func TestStructToMap(t *testing.T) {
	s := &sample{ID: "1", Name: "Juan", private: "x"}

	got := StructToMap(s, "name")

	assert.Equal(t, map[string]any{"id": "1", "nickname": (*string)(nil)}, got)
}

func TestStructTagValuesPanicsOnNonStruct(t *testing.T) {
	assert.Panics(t, func() { StructTagValues(42) })
}

func TestDigits(t *testing.T) {
	d, err := Digits(4)
	assert.NoError(t, err)
	assert.Regexp(t, `^\d{4}$`, d)
}

func TestNonEmptyStringPtr(t *testing.T) {
	assert.Nil(t, NonEmptyStringPtr("   "))
	assert.Equal(t, "Reyes", PtrString(NonEmptyStringPtr(" Reyes ")))
}
