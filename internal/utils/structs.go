package utils

import (
	"fmt"
	"reflect"
	"slices"
	"strings"
)

var (
	ColumnTag = "db"

	// OptionTag carries column options next to ColumnTag. `store:"immutable"` marks a
	// column that is written on insert and never updated.
	OptionTag = "store"
)

const OptionImmutable = "immutable"

type column struct {
	name      string
	immutable bool
	index     int
}

func columns(input any) (reflect.Value, []column) {
	targetValue := reflect.ValueOf(input)
	if targetValue.Kind() == reflect.Ptr {
		targetValue = targetValue.Elem()
	}

	if targetValue.Kind() != reflect.Struct {
		panic("input must be a pointer to a struct or a struct")
	}

	targetType := targetValue.Type()
	result := make([]column, 0, targetValue.NumField())

	for i := 0; i < targetValue.NumField(); i++ {
		field := targetType.Field(i)
		if field.PkgPath != "" {
			continue
		}

		name := field.Tag.Get(ColumnTag)
		if name == "" || name == "-" {
			continue
		}

		result = append(result, column{
			name:      name,
			immutable: slices.Contains(strings.Split(field.Tag.Get(OptionTag), ","), OptionImmutable),
			index:     i,
		})
	}

	return targetValue, result
}

// StructTagValues returns the column names of a tagged struct in field order.
func StructTagValues(input any) []string {
	_, cols := columns(input)

	result := make([]string, len(cols))
	for i, c := range cols {
		result[i] = c.name
	}
	return result
}

// StructToMap maps every column of a tagged struct to its field value.
func StructToMap(input any) map[string]any {
	value, cols := columns(input)

	result := make(map[string]any, len(cols))
	for _, c := range cols {
		result[c.name] = value.Field(c.index).Interface()
	}
	return result
}

// MutableMap is StructToMap without the immutable columns; it is the SET list of an
// upsert.
func MutableMap(input any) map[string]any {
	value, cols := columns(input)

	result := make(map[string]any, len(cols))
	for _, c := range cols {
		if !c.immutable {
			result[c.name] = value.Field(c.index).Interface()
		}
	}
	return result
}

func ErrorWrapOrNil(err error, msg string) error {
	if err == nil {
		return nil
	}

	if msg == "" {
		return err
	}

	return fmt.Errorf("%s: %w", msg, err)
}
