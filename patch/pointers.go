package patch

import (
	"reflect"
	"strings"
)

// Pointers lists every JSON pointer reachable in T, using "-" for slice elements
// and "*" for map values.
func Pointers[T any]() []string {
	typ := reflect.TypeFor[T]()
	for typ.Kind() == reflect.Pointer {
		typ = typ.Elem()
	}
	if typ.Kind() != reflect.Struct {
		return nil
	}

	var paths []string
	walk(typ, "", &paths, map[reflect.Type]bool{})
	return paths
}

func walk(typ reflect.Type, prefix string, paths *[]string, seen map[reflect.Type]bool) {
	for typ.Kind() == reflect.Pointer {
		typ = typ.Elem()
	}

	switch typ.Kind() {
	case reflect.Struct:
		if seen[typ] {
			return
		}
		seen[typ] = true
		defer delete(seen, typ)

		for i := range typ.NumField() {
			field := typ.Field(i)
			if !field.IsExported() {
				continue
			}
			name := jsonName(field)
			if name == "-" {
				continue
			}
			path := prefix + "/" + escapeToken(name)
			*paths = append(*paths, path)
			walk(field.Type, path, paths, seen)
		}
	case reflect.Slice, reflect.Array:
		path := prefix + "/-"
		*paths = append(*paths, path)
		if isStruct(typ.Elem()) {
			walk(typ.Elem(), path, paths, seen)
		}
	case reflect.Map:
		path := prefix + "/*"
		*paths = append(*paths, path)
		if isStruct(typ.Elem()) {
			walk(typ.Elem(), path, paths, seen)
		}
	}
}

func isStruct(t reflect.Type) bool {
	return t.Kind() == reflect.Struct || (t.Kind() == reflect.Pointer && t.Elem().Kind() == reflect.Struct)
}

func jsonName(field reflect.StructField) string {
	name, _, _ := strings.Cut(field.Tag.Get("json"), ",")
	if name == "" {
		return field.Name
	}
	return name
}
