package trezor

import (
	"encoding/json"
	"testing"

	"google.golang.org/protobuf/proto"
	"google.golang.org/protobuf/types/known/structpb"
)

func TestMarshalProto(t *testing.T) {
	b, err := MarshalProto(T1B1())
	if err != nil {
		t.Fatal(err)
	}
	got, err := UnmarshalProto(b)
	if err != nil {
		t.Fatal(err)
	}
	if *got != *T1B1() {
		t.Errorf("got %+v, want %+v", got, T1B1())
	}
}

func TestMarshalJSON(t *testing.T) {
	b, err := MarshalJSON(T1B1())
	if err != nil {
		t.Fatal(err)
	}
	var m map[string]any
	if err := json.Unmarshal(b, &m); err != nil {
		t.Fatal(err)
	}
	if m["fullName"] != ModelFullName {
		t.Errorf("fullName = %v", m["fullName"])
	}
	if m["firmwareStart"] != float64(FirmwareStart) {
		t.Errorf("firmwareStart = %v", m["firmwareStart"])
	}
}

func TestUnmarshalProtoInvalid(t *testing.T) {
	tests := []struct {
		name   string
		modify func(f map[string]*structpb.Value)
	}{
		{
			name:   "missing field",
			modify: func(f map[string]*structpb.Value) { delete(f, "firmwareStart") },
		},
		{
			name:   "negative number",
			modify: func(f map[string]*structpb.Value) { f["firmwareStart"] = structpb.NewNumberValue(-1) },
		},
		{
			name:   "out of range",
			modify: func(f map[string]*structpb.Value) { f["norcowSectorSize"] = structpb.NewNumberValue(1e12) },
		},
		{
			name:   "fractional",
			modify: func(f map[string]*structpb.Value) { f["imageChunkSize"] = structpb.NewNumberValue(1.5) },
		},
		{
			name:   "wrong type",
			modify: func(f map[string]*structpb.Value) { f["name"] = structpb.NewNumberValue(1) },
		},
		{
			name:   "fails validation",
			modify: func(f map[string]*structpb.Value) { f["firmwareStart"] = structpb.NewNumberValue(BootloaderStart) },
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			st, err := Export(T1B1())
			if err != nil {
				t.Fatal(err)
			}
			tt.modify(st.Fields)
			b, err := proto.Marshal(st)
			if err != nil {
				t.Fatal(err)
			}
			if l, err := UnmarshalProto(b); err == nil {
				t.Errorf("expected error, got %+v", l)
			}
		})
	}
}
