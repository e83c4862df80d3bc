package utils

import (
	"reflect"
	"slices"
)

var ColumnTag = "db"

// StructTagValues lists the column names tagged on the exported fields of input.
func StructTagValues(input any) []string {
	targetType := structType(reflect.TypeOf(input))

	result := make([]string, 0, targetType.NumField())
	for i := 0; i < targetType.NumField(); i++ {
		if column, ok := columnName(targetType.Field(i)); ok {
			result = append(result, column)
		}
	}

	return result
}

// StructToMap maps column names to field values, skipping any column in omit.
func StructToMap(input any, omit ...string) map[string]any {
	itemValue := reflect.ValueOf(input)
	if itemValue.Kind() == reflect.Ptr {
		itemValue = itemValue.Elem()
	}
	itemType := structType(itemValue.Type())

	result := make(map[string]any, itemType.NumField())
	for i := 0; i < itemType.NumField(); i++ {
		column, ok := columnName(itemType.Field(i))
		if !ok || slices.Contains(omit, column) {
			continue
		}

		result[column] = itemValue.Field(i).Interface()
	}

	return result
}

func structType(t reflect.Type) reflect.Type {
	if t.Kind() == reflect.Ptr {
		t = t.Elem()
	}

	if t.Kind() != reflect.Struct {
		panic("input must be a pointer to a struct or a struct")
	}

	return t
}

func columnName(field reflect.StructField) (string, bool) {
	if field.PkgPath != "" {
		return "", false
	}

	tagValue := field.Tag.Get(ColumnTag)
	if tagValue == "" || tagValue == "-" {
		return "", false
	}

	return tagValue, true
}
