package tlv

import (
	"encoding/hex"
	"fmt"
	"reflect"
	"strings"

	"github.com/moov-io/bertlv"
)

// Marshaler allows custom types to produce their own TLV value.
type Marshaler interface {
	MarshalTLV() ([]byte, error)
}

// Marshal is the inverse of Unmarshal: it walks the `tlv` struct tags of src and
// encodes the resulting tree wrapped in the constructed tag template.
func Marshal(template string, src interface{}) ([]byte, error) {
	packet, err := MarshalToPacket(template, src)
	if err != nil {
		return nil, err
	}

	data, err := bertlv.Encode([]bertlv.TLV{packet})
	if err != nil {
		return nil, fmt.Errorf("bertlv encode failed: %w", err)
	}
	return data, nil
}

// MarshalToPacket builds the composite packet for src without encoding it.
// Empty byte slices and nil pointers are omitted, mirroring how Unmarshal leaves them unset.
func MarshalToPacket(template string, src interface{}) (bertlv.TLV, error) {
	v := reflect.ValueOf(src)
	if v.Kind() == reflect.Ptr {
		if v.IsNil() {
			return bertlv.TLV{}, fmt.Errorf("source must be a non-nil struct")
		}
		v = v.Elem()
	}
	if v.Kind() != reflect.Struct {
		return bertlv.TLV{}, fmt.Errorf("source must be a struct, got %s", v.Kind())
	}

	children, err := marshalFields(v)
	if err != nil {
		return bertlv.TLV{}, fmt.Errorf("template %s: %w", template, err)
	}
	return bertlv.NewComposite(strings.ToUpper(template), children...), nil
}

func marshalFields(v reflect.Value) ([]bertlv.TLV, error) {
	t := v.Type()
	var packets []bertlv.TLV

	for i := 0; i < v.NumField(); i++ {
		field := v.Field(i)
		tag, unknown := fieldTag(t.Field(i))

		if unknown {
			if leftovers, ok := field.Interface().([]bertlv.TLV); ok {
				packets = append(packets, leftovers...)
			}
			continue
		}
		if tag == "" {
			continue
		}

		fieldPackets, err := marshalField(tag, field)
		if err != nil {
			return nil, fmt.Errorf("field %s: %w", t.Field(i).Name, err)
		}
		packets = append(packets, fieldPackets...)
	}

	return packets, nil
}

func marshalField(tagHex string, field reflect.Value) ([]bertlv.TLV, error) {
	// 1. Custom Marshaler
	if field.CanInterface() {
		if m, ok := field.Interface().(Marshaler); ok {
			data, err := m.MarshalTLV()
			if err != nil {
				return nil, err
			}
			return []bertlv.TLV{bertlv.NewTag(tagHex, data)}, nil
		}
	}

	switch {
	case isByteSlice(field):
		if field.Len() == 0 {
			return nil, nil
		}
		return []bertlv.TLV{bertlv.NewTag(tagHex, field.Bytes())}, nil

	case field.Kind() == reflect.String:
		if field.Len() == 0 {
			return nil, nil
		}
		data, err := hex.DecodeString(field.String())
		if err != nil {
			return nil, fmt.Errorf("string is not hex: %w", err)
		}
		return []bertlv.TLV{bertlv.NewTag(tagHex, data)}, nil

	case field.Kind() == reflect.Slice:
		var packets []bertlv.TLV
		for j := 0; j < field.Len(); j++ {
			elem, err := marshalField(tagHex, field.Index(j))
			if err != nil {
				return nil, fmt.Errorf("element %d: %w", j, err)
			}
			packets = append(packets, elem...)
		}
		return packets, nil

	case field.Kind() == reflect.Ptr:
		if field.IsNil() {
			return nil, nil
		}
		return marshalField(tagHex, field.Elem())

	case field.Kind() == reflect.Struct:
		children, err := marshalFields(field)
		if err != nil {
			return nil, err
		}
		return []bertlv.TLV{bertlv.NewComposite(tagHex, children...)}, nil
	}

	return nil, fmt.Errorf("unsupported kind %s", field.Kind())
}
