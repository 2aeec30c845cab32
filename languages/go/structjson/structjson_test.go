package structjson

import (
	"bytes"
	"math"
	"strings"
	"testing"

	"github.com/gostdlib/base/context"
	"github.com/kylelemons/godebug/pretty"

	"github.com/bearlytools/bitstruct/languages/go/structs"
)

func sample() *structs.Struct {
	return structs.MustStruct("sample",
		structs.UBit("a", 3),
		structs.Bool("b"),
		structs.PadTo(1),
		structs.Char("name", 4),
		structs.Bytes("raw", 2),
		structs.Repeat(structs.Uint8("list"), 2),
		structs.MustStruct("inner", structs.Uint16("x")),
	)
}

func sampleRecord() structs.Record {
	return structs.Record{
		"a":     uint32(5),
		"b":     true,
		"name":  "hi",
		"raw":   []byte{1, 2},
		"list":  []any{uint8(1), uint8(2)},
		"inner": structs.Record{"x": uint16(7)},
	}
}

func TestMarshal(t *testing.T) {
	ctx := context.Background()

	tests := []struct {
		name string
		rec  structs.Record
		want string
	}{
		{
			name: "Full record in layout order",
			rec:  sampleRecord(),
			want: `{"a":5,"b":true,"name":"hi","raw":"AQI=","list":[1,2],"inner":{"x":7}}`,
		},
		{
			name: "Missing fields are null",
			rec:  structs.Record{"a": uint32(1)},
			want: `{"a":1,"b":null,"name":null,"raw":null,"list":null,"inner":null}`,
		},
	}

	for _, test := range tests {
		got, err := Marshal(ctx, sample(), test.rec)
		if err != nil {
			t.Errorf("TestMarshal(%s): got err == %s, want err == nil", test.name, err)
			continue
		}
		if string(got) != test.want {
			t.Errorf("TestMarshal(%s): got %s, want %s", test.name, got, test.want)
		}
	}
}

func TestMarshalFloats(t *testing.T) {
	s := structs.MustStruct("", structs.Float64("f"), structs.Float32LE("g"))

	got, err := Marshal(context.Background(), s, structs.Record{"f": math.NaN(), "g": float32(1.5)})
	if err != nil {
		t.Fatalf("TestMarshalFloats: got err == %s, want err == nil", err)
	}
	if want := `{"f":null,"g":1.5}`; string(got) != want {
		t.Errorf("TestMarshalFloats: got %s, want %s", got, want)
	}
}

func TestMarshalIndent(t *testing.T) {
	s := structs.MustStruct("", structs.Uint8("x"))

	got, err := Marshal(context.Background(), s, structs.Record{"x": uint8(1)}, WithIndent("  "))
	if err != nil {
		t.Fatalf("TestMarshalIndent: got err == %s, want err == nil", err)
	}
	if want := "{\n  \"x\": 1\n}"; string(got) != want {
		t.Errorf("TestMarshalIndent: got %q, want %q", got, want)
	}

	if _, err := Marshal(context.Background(), s, nil, WithIndent("--")); err == nil {
		t.Errorf("TestMarshalIndent(bad indent): got err == nil, want err != nil")
	}
}

func TestRoundTrip(t *testing.T) {
	ctx := context.Background()
	s := sample()

	buf, err := s.Pack(sampleRecord(), nil, nil)
	if err != nil {
		t.Fatalf("TestRoundTrip: Pack: %s", err)
	}
	want, err := s.Unpack(buf, nil)
	if err != nil {
		t.Fatalf("TestRoundTrip: Unpack: %s", err)
	}

	data, err := Marshal(ctx, s, want)
	if err != nil {
		t.Fatalf("TestRoundTrip: Marshal: %s", err)
	}
	got, err := Unmarshal(ctx, s, data)
	if err != nil {
		t.Fatalf("TestRoundTrip: Unmarshal: %s", err)
	}
	if diff := pretty.Compare(want, got); diff != "" {
		t.Errorf("TestRoundTrip: -want/+got:\n%s", diff)
	}

	again, err := s.Pack(got, nil, nil)
	if err != nil {
		t.Fatalf("TestRoundTrip: Pack after Unmarshal: %s", err)
	}
	if !bytes.Equal(buf, again) {
		t.Errorf("TestRoundTrip: got bytes %x, want %x", again, buf)
	}
}

func TestUnmarshal(t *testing.T) {
	ctx := context.Background()

	tests := []struct {
		name    string
		json    string
		opts    []UnmarshalOption
		want    structs.Record
		wantErr bool
	}{
		{
			name: "Values are truncated like Pack",
			json: `{"a": 9, "list": [257, 3], "inner": {"x": 65537}}`,
			want: structs.Record{
				"a":     uint32(1),
				"list":  []any{uint8(1), uint8(3)},
				"inner": structs.Record{"x": uint16(1)},
			},
		},
		{
			name: "Bools and nulls",
			json: `{"b": true, "name": null}`,
			want: structs.Record{"b": true, "name": nil},
		},
		{
			name:    "Unknown field",
			json:    `{"a": 1, "zz": 2}`,
			wantErr: true,
		},
		{
			name: "Unknown field ignored",
			json: `{"a": 1, "zz": {"q": [1, 2]}}`,
			opts: []UnmarshalOption{WithIgnoreUnknownFields(true)},
			want: structs.Record{"a": uint32(1)},
		},
		{
			name:    "String where a number belongs",
			json:    `{"a": "1"}`,
			wantErr: true,
		},
		{
			name:    "Not an object",
			json:    `[1]`,
			wantErr: true,
		},
		{
			name:    "Truncated input",
			json:    `{"a": 1`,
			wantErr: true,
		},
	}

	for _, test := range tests {
		got, err := Unmarshal(ctx, sample(), []byte(test.json), test.opts...)
		switch {
		case err == nil && test.wantErr:
			t.Errorf("TestUnmarshal(%s): got err == nil, want err != nil", test.name)
			continue
		case err != nil && !test.wantErr:
			t.Errorf("TestUnmarshal(%s): got err == %s, want err == nil", test.name, err)
			continue
		case err != nil:
			continue
		}
		if diff := pretty.Compare(test.want, got); diff != "" {
			t.Errorf("TestUnmarshal(%s): -want/+got:\n%s", test.name, diff)
		}
	}
}

func TestDerived(t *testing.T) {
	ctx := context.Background()
	label := structs.Derive(structs.Uint8("x"),
		func(v any) (any, error) {
			if v == "on" {
				return 1, nil
			}
			return 0, nil
		},
		func(v any) (any, error) {
			if v == uint8(1) {
				return "on", nil
			}
			return "off", nil
		},
	)
	s := structs.MustStruct("", label("state"))

	rec, err := s.Unpack([]byte{1}, nil)
	if err != nil {
		t.Fatalf("TestDerived: Unpack: %s", err)
	}
	data, err := Marshal(ctx, s, rec)
	if err != nil {
		t.Fatalf("TestDerived: Marshal: %s", err)
	}
	if want := `{"state":"on"}`; string(data) != want {
		t.Errorf("TestDerived: got %s, want %s", data, want)
	}
	got, err := Unmarshal(ctx, s, data)
	if err != nil {
		t.Fatalf("TestDerived: Unmarshal: %s", err)
	}
	if got["state"] != "on" {
		t.Errorf("TestDerived: got %v, want on", got["state"])
	}
}

func TestMergedMembers(t *testing.T) {
	ctx := context.Background()
	// flags reads one byte as a record of two members and writes it back from the parent record.
	flags := structs.Derive(structs.Uint8("flags"),
		func(v any) (any, error) {
			rec, _ := v.(structs.Record)
			var b uint8
			if rec["enabled"] == true {
				b |= 1
			}
			if rec["mode"] == "fast" {
				b |= 2
			}
			return b, nil
		},
		func(v any) (any, error) {
			b := v.(uint8)
			mode := "slow"
			if b&2 != 0 {
				mode = "fast"
			}
			return structs.Record{"enabled": b&1 != 0, "mode": mode}, nil
		},
	)
	s := structs.MustStruct("", structs.Uint8("id"), flags(""))
	if !s.Merges() {
		t.Fatalf("TestMergedMembers: got Merges() == false, want true")
	}

	rec, err := s.Unpack([]byte{9, 3}, nil)
	if err != nil {
		t.Fatalf("TestMergedMembers: Unpack: %s", err)
	}
	data, err := Marshal(ctx, s, rec)
	if err != nil {
		t.Fatalf("TestMergedMembers: Marshal: %s", err)
	}
	if want := `{"id":9,"enabled":true,"mode":"fast"}`; string(data) != want {
		t.Errorf("TestMergedMembers: got %s, want %s", data, want)
	}

	got, err := Unmarshal(ctx, s, data)
	if err != nil {
		t.Fatalf("TestMergedMembers: Unmarshal: %s", err)
	}
	if diff := pretty.Compare(rec, got); diff != "" {
		t.Errorf("TestMergedMembers: -want/+got:\n%s", diff)
	}
	packed, err := s.Pack(got, nil, nil)
	if err != nil {
		t.Fatalf("TestMergedMembers: Pack: %s", err)
	}
	if !bytes.Equal(packed, []byte{9, 3}) {
		t.Errorf("TestMergedMembers: got %v, want [9 3]", packed)
	}
}

func TestArray(t *testing.T) {
	ctx := context.Background()
	s := structs.MustStruct("", structs.Uint8("x"))

	var buf strings.Builder
	arr, err := NewArray(&buf, s)
	if err != nil {
		t.Fatal(err)
	}
	if err := arr.Close(); err != nil {
		t.Fatal(err)
	}
	if buf.String() != "[]" {
		t.Errorf("TestArray(empty): got %s, want []", buf.String())
	}

	buf.Reset()
	arr.Reset(&buf)
	for i := range 3 {
		if err := arr.Write(ctx, structs.Record{"x": uint8(i)}); err != nil {
			t.Fatal(err)
		}
	}
	if err := arr.Close(); err != nil {
		t.Fatal(err)
	}
	if want := `[{"x":0},{"x":1},{"x":2}]`; buf.String() != want {
		t.Errorf("TestArray: got %s, want %s", buf.String(), want)
	}
}

func TestCanceled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	if _, err := Marshal(ctx, sample(), sampleRecord()); err == nil {
		t.Errorf("TestCanceled(Marshal): got err == nil, want err != nil")
	}
	if _, err := Unmarshal(ctx, sample(), []byte(`{}`)); err == nil {
		t.Errorf("TestCanceled(Unmarshal): got err == nil, want err != nil")
	}
}
