package codec

import (
	"bytes"
	"reflect"
	"strings"
	"testing"

	"github.com/JonMunkholm/splitter/internal/sheet"
)

func TestCSV_Decode(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  sheet.Table
	}{
		{
			name:  "header and rows",
			input: "id,name\n1,alpha\n2,beta\n",
			want:  sheet.Table{{"id", "name"}, {"1", "alpha"}, {"2", "beta"}},
		},
		{
			name:  "utf8 bom stripped",
			input: "\xEF\xBB\xBFid,name\n1,Zoë\n",
			want:  sheet.Table{{"id", "name"}, {"1", "Zoë"}},
		},
		{
			name:  "ragged rows kept",
			input: "a,b,c\n1\n1,2,3,4\n",
			want:  sheet.Table{{"a", "b", "c"}, {"1"}, {"1", "2", "3", "4"}},
		},
		{
			name:  "quoted fields",
			input: "a,b\n\"x, y\",\"line\nbreak\"\n",
			want:  sheet.Table{{"a", "b"}, {"x, y", "line\nbreak"}},
		},
		{
			name:  "empty input",
			input: "",
			want:  nil,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := CSV{}.Decode(strings.NewReader(tt.input))
			if err != nil {
				t.Fatalf("Decode() error = %v", err)
			}
			if !reflect.DeepEqual(got, tt.want) {
				t.Errorf("Decode() = %#v, want %#v", got, tt.want)
			}
		})
	}
}

func TestCSV_DecodeInvalidUTF8(t *testing.T) {
	got, err := CSV{}.Decode(strings.NewReader("a\n\xff\n"))
	if err != nil {
		t.Fatalf("Decode() error = %v", err)
	}
	if len(got) != 2 || got[1][0] != "�" {
		t.Errorf("Decode() = %#v, want replacement character", got)
	}
}

func TestCSV_Encode(t *testing.T) {
	tbl := sheet.Table{
		{"id", "price", "active", "note"},
		{1.0, 2.5, true, nil},
		{"007", -3.0, false, "a,b"},
	}

	var buf bytes.Buffer
	if err := (CSV{}).Encode(&buf, tbl); err != nil {
		t.Fatalf("Encode() error = %v", err)
	}

	want := "id,price,active,note\n1,2.5,TRUE,\n007,-3,FALSE,\"a,b\"\n"
	if buf.String() != want {
		t.Errorf("Encode() = %q, want %q", buf.String(), want)
	}
}

func TestCSV_RoundTrip(t *testing.T) {
	input := "name,city\nAnn,Oslo\n\"Bo, Jr\",Köln\n"

	tbl, err := CSV{}.Decode(strings.NewReader(input))
	if err != nil {
		t.Fatalf("Decode() error = %v", err)
	}
	var buf bytes.Buffer
	if err := (CSV{}).Encode(&buf, tbl); err != nil {
		t.Fatalf("Encode() error = %v", err)
	}
	if buf.String() != input {
		t.Errorf("round trip = %q, want %q", buf.String(), input)
	}
}

func TestFor(t *testing.T) {
	for _, f := range sheet.Formats {
		c, err := For(f)
		if err != nil {
			t.Fatalf("For(%q) error = %v", f, err)
		}
		if c.Format() != f {
			t.Errorf("For(%q).Format() = %q", f, c.Format())
		}
	}
	if _, err := For("ods"); err == nil {
		t.Error("For(ods) expected error")
	}
}

func TestCSV_DecodeMalformed(t *testing.T) {
	_, err := CSV{}.Decode(strings.NewReader("a,b\n1,x\"y\n"))
	if err == nil {
		t.Fatal("Decode() expected error for bare quote")
	}
	if !strings.Contains(err.Error(), "invalid csv") {
		t.Errorf("error %q should mention invalid csv", err)
	}
}
