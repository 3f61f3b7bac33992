package respcodec

import (
	"reflect"
)

// Unmarshaler is implemented by types that decode themselves, usually with
// the typed Read methods of the Decoder. Unmarshal and Decoder.Decode use it
// before falling back to reflection.
type Unmarshaler interface {
	UnmarshalRESP(dec *Decoder) error
}

// Unmarshal decodes the RESP wire data in data into v, which must be a
// non-nil pointer.
//
// The target type declares what is expected next on the wire: numeric
// targets accept integer, double and big number values of fitting width,
// string targets accept any string or numeric value, pointer targets treat
// null as nil and otherwise decode into the value pointed at. Struct targets
// consume map pairs positionally but assign fields by key name; unknown keys
// are skipped and absent fields keep their zero value.
func Unmarshal(data []byte, v any) error {
	return NewDecoder(data).Decode(v)
}

// UnmarshalString is like Unmarshal but reads from a string.
func UnmarshalString(s string, v any) error {
	return Unmarshal([]byte(s), v)
}

var unmarshalerType = reflect.TypeOf((*Unmarshaler)(nil)).Elem()

// Decode decodes the next value into v, which must be a non-nil pointer. It
// follows the same rules as Unmarshal.
func (d *Decoder) Decode(v any) error {
	rv := reflect.ValueOf(v)
	if rv.Kind() != reflect.Pointer || rv.IsNil() {
		return deserializeErrorf("target must be a non-nil pointer, got %v", reflect.TypeOf(v))
	}
	return d.decodeValue(rv.Elem())
}

func (d *Decoder) peekIsNull() bool {
	b, err := d.peekByte()
	return err == nil && KindOf(b) == KindNull
}

func (d *Decoder) decodeValue(rv reflect.Value) error {
	d.depth++
	defer func() { d.depth-- }()
	if d.depth > MaxDepth {
		return ErrMaxDepth
	}

	t := rv.Type()
	if rv.CanAddr() && reflect.PointerTo(t).Implements(unmarshalerType) {
		return rv.Addr().Interface().(Unmarshaler).UnmarshalRESP(d)
	}
	if t == bigIntType {
		n, err := d.ReadBigInt()
		if err != nil {
			return err
		}
		rv.Set(reflect.ValueOf(*n))
		return nil
	}

	switch rv.Kind() {
	case reflect.Bool:
		v, err := d.ReadBool()
		if err != nil {
			return err
		}
		rv.SetBool(v)
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		n, err := d.ReadInt(t.Bits())
		if err != nil {
			return err
		}
		rv.SetInt(n)
	case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64, reflect.Uintptr:
		n, err := d.ReadUint(t.Bits())
		if err != nil {
			return err
		}
		rv.SetUint(n)
	case reflect.Float32, reflect.Float64:
		f, err := d.ReadFloat(t.Bits())
		if err != nil {
			return err
		}
		rv.SetFloat(f)
	case reflect.String:
		s, err := d.ReadString()
		if err != nil {
			return err
		}
		rv.SetString(s)
	case reflect.Pointer:
		if d.peekIsNull() {
			if err := d.ReadNull(); err != nil {
				return err
			}
			rv.SetZero()
			return nil
		}
		if rv.IsNil() {
			rv.Set(reflect.New(t.Elem()))
		}
		return d.decodeValue(rv.Elem())
	case reflect.Slice:
		return d.decodeSlice(rv)
	case reflect.Array:
		return d.decodeArray(rv)
	case reflect.Map:
		return d.decodeMap(rv)
	case reflect.Struct:
		return d.decodeStruct(rv)
	case reflect.Interface:
		if t.NumMethod() != 0 {
			return deserializeErrorf("unsupported type %s", t)
		}
		if d.peekIsNull() {
			if err := d.ReadNull(); err != nil {
				return err
			}
			rv.SetZero()
			return nil
		}
		v, err := d.decodeAny()
		if err != nil {
			return err
		}
		rv.Set(reflect.ValueOf(v))
	default:
		return deserializeErrorf("unsupported type %s", t)
	}

	return nil
}

func (d *Decoder) decodeSlice(rv reflect.Value) error {
	t := rv.Type()

	if d.peekIsNull() {
		if err := d.ReadNull(); err != nil {
			return err
		}
		rv.SetZero()
		return nil
	}

	if t.Elem().Kind() == reflect.Uint8 {
		b, err := d.ReadBytes()
		if err != nil {
			return err
		}
		rv.SetBytes(b)
		return nil
	}

	ar, err := d.ReadArray()
	if err != nil {
		return err
	}

	out := reflect.MakeSlice(t, 0, ar.Len())
	for ar.More() {
		elem := reflect.New(t.Elem())
		if err := ar.Decode(elem.Interface()); err != nil {
			return err
		}
		out = reflect.Append(out, elem.Elem())
	}
	rv.Set(out)
	return nil
}

func (d *Decoder) decodeArray(rv reflect.Value) error {
	ar, err := d.ReadArray()
	if err != nil {
		return err
	}
	if ar.Len() != rv.Len() {
		return deserializeErrorf("cannot decode array of length %d into %s", ar.Len(), rv.Type())
	}
	for i := 0; ar.More(); i++ {
		if err := ar.Decode(rv.Index(i).Addr().Interface()); err != nil {
			return err
		}
	}
	return nil
}

func (d *Decoder) decodeMap(rv reflect.Value) error {
	t := rv.Type()

	if d.peekIsNull() {
		if err := d.ReadNull(); err != nil {
			return err
		}
		rv.SetZero()
		return nil
	}

	mr, err := d.ReadMap()
	if err != nil {
		return err
	}

	out := reflect.MakeMapWithSize(t, mr.Len())
	for mr.More() {
		key := reflect.New(t.Key())
		if err := mr.DecodeKey(key.Interface()); err != nil {
			return err
		}
		val := reflect.New(t.Elem())
		if err := mr.DecodeValue(val.Interface()); err != nil {
			return err
		}
		out.SetMapIndex(key.Elem(), val.Elem())
	}
	rv.Set(out)
	return nil
}

// decodeStruct consumes map pairs positionally and assigns fields by key
// name. Wire field order is not assumed to match declaration order.
func (d *Decoder) decodeStruct(rv reflect.Value) error {
	mr, err := d.ReadMap()
	if err != nil {
		return err
	}

	fields := typeFields(rv.Type())
	for mr.More() {
		var name string
		if err := mr.DecodeKey(&name); err != nil {
			return err
		}

		idx := -1
		for _, f := range fields {
			if f.name == name {
				idx = f.index
				break
			}
		}
		if idx < 0 {
			var skip any
			if err := mr.DecodeValue(&skip); err != nil {
				return err
			}
			continue
		}

		if err := mr.DecodeValue(rv.Field(idx).Addr().Interface()); err != nil {
			return err
		}
	}
	return nil
}

// decodeAny materializes the next value by its wire kind alone: strings for
// the string family, int64 for integers, float64 for doubles, *big.Int for
// big numbers, bool, nil, []any and map[string]any. Map keys are read as
// strings, which also covers numeric keys via their raw token text.
func (d *Decoder) decodeAny() (any, error) {
	k, err := d.PeekKind()
	if err != nil {
		return nil, err
	}

	switch {
	case k == KindNull:
		return nil, d.ReadNull()
	case k == KindBoolean:
		return d.ReadBool()
	case k == KindInteger:
		return d.ReadInt(64)
	case k == KindDouble:
		return d.ReadFloat(64)
	case k == KindBigNumber:
		return d.ReadBigInt()
	case k.isStringy():
		return d.ReadString()
	case k.isSequence():
		ar, err := d.ReadArray()
		if err != nil {
			return nil, err
		}
		out := make([]any, 0, ar.Len())
		for ar.More() {
			var elem any
			if err := ar.Decode(&elem); err != nil {
				return nil, err
			}
			out = append(out, elem)
		}
		return out, nil
	case k.isMapping():
		mr, err := d.ReadMap()
		if err != nil {
			return nil, err
		}
		out := make(map[string]any, mr.Len())
		for mr.More() {
			var key string
			if err := mr.DecodeKey(&key); err != nil {
				return nil, err
			}
			var val any
			if err := mr.DecodeValue(&val); err != nil {
				return nil, err
			}
			out[key] = val
		}
		return out, nil
	default:
		return nil, deserializeErrorf("cannot decode %s value into interface target", k)
	}
}
