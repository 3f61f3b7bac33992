package respcodec

import (
	"math/big"
	"reflect"
	"strings"
	"sync"
)

// Marshaler is implemented by types that encode themselves, usually with the
// typed Append methods of the Encoder. Marshal and Encoder.Encode use it
// before falling back to reflection.
type Marshaler interface {
	MarshalRESP(enc *Encoder) error
}

// Marshal encodes v as RESP wire data.
//
// Booleans, integers, floats, strings and byte slices encode as the matching
// scalar kinds, with unsigned 64-bit values always taking the big number
// kind. Nil pointers, slices, maps and interfaces encode as null; non-nil
// pointers encode the value they point at. Slices and arrays encode as
// arrays, maps and structs as maps. Struct fields use the field name as key
// unless renamed via a `resp:"name"` tag; fields tagged `resp:"-"` are
// skipped.
func Marshal(v any) ([]byte, error) {
	enc := NewEncoder()
	if err := enc.Encode(v); err != nil {
		return nil, err
	}
	return enc.Bytes(), nil
}

// MarshalString is like Marshal but returns the wire data as a string.
func MarshalString(v any) (string, error) {
	b, err := Marshal(v)
	if err != nil {
		return "", err
	}
	return string(b), nil
}

// Encode appends the complete encoding of v to the Encoder. It follows the
// same rules as Marshal.
func (e *Encoder) Encode(v any) error {
	return e.encodeValue(reflect.ValueOf(v), 0)
}

var (
	bigIntType    = reflect.TypeOf(big.Int{})
	marshalerType = reflect.TypeOf((*Marshaler)(nil)).Elem()
)

func (e *Encoder) encodeValue(rv reflect.Value, depth int) error {
	if depth > MaxDepth {
		return ErrMaxDepth
	}

	if !rv.IsValid() {
		e.AppendNull()
		return nil
	}

	t := rv.Type()
	if t.Implements(marshalerType) {
		if rv.Kind() == reflect.Pointer && rv.IsNil() {
			e.AppendNull()
			return nil
		}
		return rv.Interface().(Marshaler).MarshalRESP(e)
	}
	if rv.CanAddr() && reflect.PointerTo(t).Implements(marshalerType) {
		return rv.Addr().Interface().(Marshaler).MarshalRESP(e)
	}
	if t == bigIntType {
		n := rv.Interface().(big.Int)
		e.AppendBigInt(&n)
		return nil
	}

	switch rv.Kind() {
	case reflect.Bool:
		e.AppendBool(rv.Bool())
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		e.AppendInt(rv.Int())
	case reflect.Uint8, reflect.Uint16, reflect.Uint32:
		// Narrow unsigned values fit the signed 64-bit wire integer.
		e.AppendInt(int64(rv.Uint()))
	case reflect.Uint, reflect.Uint64, reflect.Uintptr:
		e.AppendUint(rv.Uint())
	case reflect.Float32:
		e.AppendFloat32(float32(rv.Float()))
	case reflect.Float64:
		e.AppendFloat64(rv.Float())
	case reflect.String:
		e.AppendString(rv.String())
	case reflect.Slice:
		if rv.IsNil() {
			e.AppendNull()
			return nil
		}
		if t.Elem().Kind() == reflect.Uint8 {
			e.AppendBytes(rv.Bytes())
			return nil
		}
		return e.encodeSequence(rv, depth)
	case reflect.Array:
		return e.encodeSequence(rv, depth)
	case reflect.Map:
		if rv.IsNil() {
			e.AppendNull()
			return nil
		}
		if err := e.AppendMapHeader(rv.Len()); err != nil {
			return err
		}
		iter := rv.MapRange()
		for iter.Next() {
			if err := e.encodeValue(iter.Key(), depth+1); err != nil {
				return err
			}
			if err := e.encodeValue(iter.Value(), depth+1); err != nil {
				return err
			}
		}
	case reflect.Struct:
		fields := typeFields(t)
		if err := e.AppendMapHeader(len(fields)); err != nil {
			return err
		}
		for _, f := range fields {
			e.AppendString(f.name)
			if err := e.encodeValue(rv.Field(f.index), depth+1); err != nil {
				return err
			}
		}
	case reflect.Pointer, reflect.Interface:
		if rv.IsNil() {
			e.AppendNull()
			return nil
		}
		return e.encodeValue(rv.Elem(), depth+1)
	default:
		return serializeErrorf("unsupported type %s", t)
	}

	return nil
}

func (e *Encoder) encodeSequence(rv reflect.Value, depth int) error {
	if err := e.AppendArrayHeader(rv.Len()); err != nil {
		return err
	}
	for i := 0; i < rv.Len(); i++ {
		if err := e.encodeValue(rv.Index(i), depth+1); err != nil {
			return err
		}
	}
	return nil
}

type structField struct {
	name  string
	index int
}

var fieldCache sync.Map // reflect.Type -> []structField

// typeFields returns the encodable fields of a struct type: the exported
// fields not tagged `resp:"-"`, in declaration order.
func typeFields(t reflect.Type) []structField {
	if cached, ok := fieldCache.Load(t); ok {
		return cached.([]structField)
	}

	fields := make([]structField, 0, t.NumField())
	for i := 0; i < t.NumField(); i++ {
		sf := t.Field(i)
		if sf.PkgPath != "" { // unexported
			continue
		}

		name := sf.Name
		if tag, ok := sf.Tag.Lookup("resp"); ok {
			tagName, _, _ := strings.Cut(tag, ",")
			if tagName == "-" {
				continue
			}
			if tagName != "" {
				name = tagName
			}
		}

		fields = append(fields, structField{name: name, index: i})
	}

	fieldCache.Store(t, fields)
	return fields
}
