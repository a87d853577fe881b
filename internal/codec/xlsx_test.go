package codec

import (
	"bytes"
	"reflect"
	"strings"
	"testing"

	"github.com/xuri/excelize/v2"

	"github.com/JonMunkholm/splitter/internal/sheet"
)

func TestXLSX_RoundTrip(t *testing.T) {
	tbl := sheet.Table{
		{"id", "name", "active", "amount"},
		{1.0, "alpha", true, 10.5},
		{2.0, "beta", false, -4.0},
		{3.0, nil, true, 0.25},
		{"007", "leading zeros stay text"},
	}

	var buf bytes.Buffer
	if err := (XLSX{}).Encode(&buf, tbl); err != nil {
		t.Fatalf("Encode() error = %v", err)
	}

	got, err := XLSX{}.Decode(bytes.NewReader(buf.Bytes()))
	if err != nil {
		t.Fatalf("Decode() error = %v", err)
	}
	if !reflect.DeepEqual(got, tbl) {
		t.Errorf("round trip = %#v, want %#v", got, tbl)
	}
}

func TestXLSX_EncodeSingleSheet(t *testing.T) {
	var buf bytes.Buffer
	if err := (XLSX{}).Encode(&buf, sheet.Table{{"h"}}); err != nil {
		t.Fatalf("Encode() error = %v", err)
	}

	f, err := excelize.OpenReader(bytes.NewReader(buf.Bytes()))
	if err != nil {
		t.Fatalf("OpenReader() error = %v", err)
	}
	defer f.Close()

	if got := f.GetSheetList(); !reflect.DeepEqual(got, []string{OutputSheet}) {
		t.Errorf("sheets = %v, want [%s]", got, OutputSheet)
	}
}

func TestXLSX_DecodeFirstSheetOnly(t *testing.T) {
	f := excelize.NewFile()
	if err := f.SetSheetRow("Sheet1", "A1", &[]interface{}{"first"}); err != nil {
		t.Fatal(err)
	}
	if _, err := f.NewSheet("Other"); err != nil {
		t.Fatal(err)
	}
	if err := f.SetSheetRow("Other", "A1", &[]interface{}{"second"}); err != nil {
		t.Fatal(err)
	}
	var buf bytes.Buffer
	if err := f.Write(&buf); err != nil {
		t.Fatal(err)
	}
	f.Close()

	got, err := XLSX{}.Decode(&buf)
	if err != nil {
		t.Fatalf("Decode() error = %v", err)
	}
	want := sheet.Table{{"first"}}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("Decode() = %#v, want %#v", got, want)
	}
}

func TestXLSX_DecodeCorrupt(t *testing.T) {
	_, err := XLSX{}.Decode(strings.NewReader("definitely not a workbook"))
	if err == nil {
		t.Fatal("Decode() expected error for corrupt input")
	}
	if !strings.Contains(err.Error(), "invalid xlsx") {
		t.Errorf("error %q should mention invalid xlsx", err)
	}
}
