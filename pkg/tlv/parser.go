// Package tlv maps BER-TLV (Basic Encoding Rules - Tag-Length-Value) data to and
// from Go structures using `tlv:"<tag>"` struct tags, and renders such structures
// as indented report lines.
package tlv

import (
	"encoding/hex"
	"errors"
	"fmt"
	"reflect"
	"strings"

	"github.com/moov-io/bertlv"
)

// Unmarshaler allows custom types to implement their own TLV parsing logic.
type Unmarshaler interface {
	UnmarshalTLV(data []byte) error
}

// ErrTemplateMismatch is returned by Unmarshal when data is not the expected template.
var ErrTemplateMismatch = errors.New("unexpected TLV template")

// Unmarshal is the inverse of Marshal. data must hold exactly one constructed packet
// tagged template, whose children are mapped into target.
func Unmarshal(template string, data []byte, target interface{}) error {
	if len(data) == 0 {
		return fmt.Errorf("%w: no data, want tag %s", ErrTemplateMismatch, strings.ToUpper(template))
	}

	packets, err := bertlv.Decode(data)
	if err != nil {
		return fmt.Errorf("bertlv decode failed: %w", err)
	}

	switch {
	case len(packets) == 0 || !strings.EqualFold(packets[0].Tag, template):
		return fmt.Errorf("%w: missing tag %s", ErrTemplateMismatch, strings.ToUpper(template))
	case len(packets) > 1:
		return fmt.Errorf("%w: %d packets after tag %s", ErrTemplateMismatch, len(packets)-1, strings.ToUpper(template))
	}

	if err := UnmarshalFromPackets(packets[0].TLVs, target); err != nil {
		return fmt.Errorf("template %s: %w", strings.ToUpper(template), err)
	}
	return nil
}

// UnmarshalFromPackets maps pre-decoded packets onto the tagged fields of target.
// A tag seen several times fills a slice field with one element per occurrence.
// Packets matching no field land in the `tlv:",unknown"` field when there is one.
func UnmarshalFromPackets(packets []bertlv.TLV, target interface{}) error {
	v := reflect.ValueOf(target)
	if v.Kind() != reflect.Ptr || v.IsNil() {
		return fmt.Errorf("target must be a non-nil pointer")
	}
	v = v.Elem()
	if v.Kind() != reflect.Struct {
		return fmt.Errorf("target must point to a struct, got %s", v.Kind())
	}
	t := v.Type()

	consumed := make([]bool, len(packets))
	unknown := -1

	for i := 0; i < v.NumField(); i++ {
		tag, isUnknown := fieldTag(t.Field(i))
		if isUnknown {
			unknown = i
			continue
		}
		if tag == "" {
			continue
		}

		for idx, packet := range packets {
			if !strings.EqualFold(packet.Tag, tag) {
				continue
			}
			if err := mapPacketToField(packet, v.Field(i)); err != nil {
				return fmt.Errorf("field %s: %w", t.Field(i).Name, err)
			}
			consumed[idx] = true
		}
	}

	if unknown < 0 || !v.Field(unknown).CanSet() {
		return nil
	}

	var leftovers []bertlv.TLV
	for idx, packet := range packets {
		if !consumed[idx] {
			leftovers = append(leftovers, packet)
		}
	}
	if len(leftovers) > 0 {
		v.Field(unknown).Set(reflect.ValueOf(leftovers))
	}
	return nil
}

// fieldTag reads the `tlv` struct tag of a field. The catch-all field for unmatched
// packets is tagged ",unknown" or named Unknown.
func fieldTag(f reflect.StructField) (tag string, unknown bool) {
	config := f.Tag.Get("tlv")
	if config == ",unknown" || f.Name == "Unknown" {
		return "", true
	}
	tag, _, _ = strings.Cut(config, ",")
	return strings.ToUpper(tag), false
}

// mapPacketToField appends to slice fields (other than []byte) and sets everything else.
func mapPacketToField(packet bertlv.TLV, field reflect.Value) error {
	if field.Kind() != reflect.Slice || isByteSlice(field) {
		return decodeToValue(packet, field)
	}

	elem := reflect.New(field.Type().Elem()).Elem()
	if err := decodeToValue(packet, elem); err != nil {
		return err
	}
	field.Set(reflect.Append(field, elem))
	return nil
}

// decodeToValue sets one field from one packet. An Unmarshaler wins over the field kind.
func decodeToValue(packet bertlv.TLV, field reflect.Value) error {
	if field.CanAddr() {
		if u, ok := field.Addr().Interface().(Unmarshaler); ok {
			return u.UnmarshalTLV(rawValue(packet))
		}
	}

	switch {
	case isByteSlice(field):
		field.SetBytes(rawValue(packet))

	case field.Kind() == reflect.String:
		field.SetString(hex.EncodeToString(packet.Value))

	case field.Kind() == reflect.Struct:
		return unmarshalTemplate(packet, field.Addr())

	case field.Kind() == reflect.Ptr && field.Type().Elem().Kind() == reflect.Struct:
		if field.IsNil() {
			field.Set(reflect.New(field.Type().Elem()))
		}
		return unmarshalTemplate(packet, field)
	}

	return nil
}

// unmarshalTemplate maps the children of a constructed packet into the struct ptr points to.
func unmarshalTemplate(packet bertlv.TLV, ptr reflect.Value) error {
	children := packet.TLVs
	if len(children) == 0 && len(packet.Value) > 0 {
		// Primitive encoding of a template: the value still holds TLV children.
		decoded, err := bertlv.Decode(packet.Value)
		if err != nil {
			return fmt.Errorf("tag %s: bertlv decode failed: %w", packet.Tag, err)
		}
		children = decoded
	}
	return UnmarshalFromPackets(children, ptr.Interface())
}

// rawValue returns the value bytes of a packet, re-encoding the children of a constructed one.
func rawValue(p bertlv.TLV) []byte {
	if len(p.TLVs) > 0 {
		if enc, err := bertlv.Encode(p.TLVs); err == nil {
			return enc
		}
	}
	return p.Value
}

func isByteSlice(v reflect.Value) bool {
	return v.Kind() == reflect.Slice && v.Type().Elem().Kind() == reflect.Uint8
}
