package sqlu

import (
	"bytes"
	"reflect"
	"strconv"
	"unsafe"
)

func try(err error) {
	if err != nil {
		panic(err)
	}
}

func rec(ptr *error) {
	val := recover()
	if val == nil {
		return
	}

	recErr, ok := val.(error)
	if ok {
		*ptr = recErr
		return
	}

	panic(val)
}

func isJsonDict(val []byte) bool { return firstMeaningfulByte(val) == '{' }
func isJsonList(val []byte) bool { return firstMeaningfulByte(val) == '[' }
func isJsonNull(val []byte) bool { return string(bytes.TrimSpace(val)) == `null` }

func firstMeaningfulByte(val []byte) byte {
	val = bytes.TrimSpace(val)
	if len(val) > 0 {
		return val[0]
	}
	return 0
}

func typeElem(typ reflect.Type) reflect.Type {
	for typ != nil && (typ.Kind() == reflect.Ptr || typ.Kind() == reflect.Slice) {
		typ = typ.Elem()
	}
	return typ
}

// The input is used only as a type carrier, unless it's already a type.
func typeOf(val any) reflect.Type {
	if typ, ok := val.(reflect.Type); ok {
		return typ
	}
	return reflect.TypeOf(val)
}

func isNil(val any) bool {
	if val == nil {
		return true
	}
	rval := reflect.ValueOf(val)
	switch rval.Kind() {
	case reflect.Ptr, reflect.Map, reflect.Slice, reflect.Interface, reflect.Func, reflect.Chan:
		return rval.IsNil()
	}
	return false
}

func quoteString(val string) string { return strconv.Quote(val) }

func mustCompileString(dialect Dialect, val Expr) string {
	comp := Compiler{Dialect: dialect}
	try(val.CompileExpr(&comp))
	return bytesToMutableString(comp.Text)
}

/*
Allocation-free conversion. Reinterprets a byte slice as a string. Borrowed from
the standard library. Reasonably safe. Should not be used when the underlying
byte array is volatile, for example when it's part of a scratch buffer during
SQL scanning.
*/
func bytesToMutableString(bytes []byte) string {
	return *(*string)(unsafe.Pointer(&bytes))
}
