package maincmd

import (
	"fmt"
	"io"
	"reflect"

	"github.com/mna/matiria/lang/token"
)

var posType = reflect.TypeOf(token.Pos(0))

// dumpNode prints a generic, indented tree view of an AST node (or any
// value reachable from it) to w, resolving token.Pos fields to
// file:line:col. There is no stable on-disk AST format to match here, so
// this is a plain reflection-driven rendering meant for a human reading
// terminal output.
func dumpNode(w io.Writer, filename string, v interface{}) {
	dumpValue(w, filename, reflect.ValueOf(v), 0, make(map[uintptr]bool))
}

func dumpValue(w io.Writer, filename string, v reflect.Value, depth int, seen map[uintptr]bool) {
	indent := func() {
		for i := 0; i < depth; i++ {
			fmt.Fprint(w, "  ")
		}
	}

	if !v.IsValid() {
		fmt.Fprintln(w, "<nil>")
		return
	}

	switch v.Kind() {
	case reflect.Ptr, reflect.Interface:
		if v.IsNil() {
			fmt.Fprintln(w, "nil")
			return
		}
		if v.Kind() == reflect.Ptr {
			addr := v.Pointer()
			if seen[addr] {
				fmt.Fprintln(w, "<cycle>")
				return
			}
			seen[addr] = true
		}
		dumpValue(w, filename, v.Elem(), depth, seen)

	case reflect.Struct:
		if v.Type() == posType {
			pos := v.Interface().(token.Pos)
			line, col := pos.LineCol()
			fmt.Fprintln(w, (token.Position{Filename: filename, Line: line, Col: col}).String())
			return
		}
		fmt.Fprintf(w, "%s\n", v.Type())
		for i := 0; i < v.NumField(); i++ {
			field := v.Type().Field(i)
			if !field.IsExported() {
				continue
			}
			indent()
			fmt.Fprintf(w, "  %s: ", field.Name)
			dumpValue(w, filename, v.Field(i), depth+1, seen)
		}

	case reflect.Slice, reflect.Array:
		if v.Len() == 0 {
			fmt.Fprintln(w, "[]")
			return
		}
		fmt.Fprintln(w)
		for i := 0; i < v.Len(); i++ {
			indent()
			fmt.Fprintf(w, "  [%d] ", i)
			dumpValue(w, filename, v.Index(i), depth+1, seen)
		}

	default:
		fmt.Fprintf(w, "%v\n", v.Interface())
	}
}
