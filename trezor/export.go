package trezor

import (
	"fmt"
	"math"

	"github.com/q0jt/go-trezor/trezor/config"
	"google.golang.org/protobuf/encoding/protojson"
	"google.golang.org/protobuf/proto"
	"google.golang.org/protobuf/types/known/structpb"
)

// Export converts a descriptor into a protobuf Struct keyed by the pkl field names.
func Export(l *config.ModelLayout) (*structpb.Struct, error) {
	return structpb.NewStruct(map[string]any{
		"name":                   l.Name,
		"fullName":               l.FullName,
		"internalName":           l.InternalName,
		"bootloaderStart":        l.BootloaderStart,
		"firmwareStart":          l.FirmwareStart,
		"imageChunkSize":         l.ImageChunkSize,
		"bootloaderImageMaxSize": l.BootloaderImageMaxSize,
		"firmwareImageMaxSize":   l.FirmwareImageMaxSize,
		"norcowSectorSize":       l.NorcowSectorSize,
	})
}

func MarshalJSON(l *config.ModelLayout) ([]byte, error) {
	st, err := Export(l)
	if err != nil {
		return nil, err
	}
	return protojson.MarshalOptions{Multiline: true, Indent: "  "}.Marshal(st)
}

func MarshalProto(l *config.ModelLayout) ([]byte, error) {
	st, err := Export(l)
	if err != nil {
		return nil, err
	}
	return proto.MarshalOptions{Deterministic: true}.Marshal(st)
}

// UnmarshalProto is the inverse of MarshalProto. Every field must be
// present and the result must pass Validate.
func UnmarshalProto(b []byte) (*config.ModelLayout, error) {
	var st structpb.Struct
	if err := proto.Unmarshal(b, &st); err != nil {
		return nil, err
	}
	d := structDecoder{fields: st.GetFields()}
	l := &config.ModelLayout{
		Name:                   d.str("name"),
		FullName:               d.str("fullName"),
		InternalName:           d.str("internalName"),
		BootloaderStart:        d.u32("bootloaderStart"),
		FirmwareStart:          d.u32("firmwareStart"),
		ImageChunkSize:         d.u32("imageChunkSize"),
		BootloaderImageMaxSize: d.u32("bootloaderImageMaxSize"),
		FirmwareImageMaxSize:   d.u32("firmwareImageMaxSize"),
		NorcowSectorSize:       d.u32("norcowSectorSize"),
	}
	if d.err != nil {
		return nil, d.err
	}
	if err := Validate(l); err != nil {
		return nil, err
	}
	return l, nil
}

// structDecoder keeps the first error it meets.
type structDecoder struct {
	fields map[string]*structpb.Value
	err    error
}

func (d *structDecoder) value(key string) *structpb.Value {
	v, ok := d.fields[key]
	if !ok && d.err == nil {
		d.err = fmt.Errorf("descriptor field %q is missing", key)
	}
	return v
}

func (d *structDecoder) str(key string) string {
	v := d.value(key)
	if v == nil {
		return ""
	}
	s, ok := v.GetKind().(*structpb.Value_StringValue)
	if !ok {
		if d.err == nil {
			d.err = fmt.Errorf("descriptor field %q is not a string", key)
		}
		return ""
	}
	return s.StringValue
}

func (d *structDecoder) u32(key string) uint32 {
	v := d.value(key)
	if v == nil {
		return 0
	}
	n, ok := v.GetKind().(*structpb.Value_NumberValue)
	if !ok {
		if d.err == nil {
			d.err = fmt.Errorf("descriptor field %q is not a number", key)
		}
		return 0
	}
	f := n.NumberValue
	if f != math.Trunc(f) || f < 0 || f > math.MaxUint32 {
		if d.err == nil {
			d.err = fmt.Errorf("descriptor field %q: %v is not a uint32", key, f)
		}
		return 0
	}
	return uint32(f)
}
