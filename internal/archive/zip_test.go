package archive

import (
	"archive/zip"
	"bytes"
	"errors"
	"testing"
)

func TestBuild_Completeness(t *testing.T) {
	entries := []Entry{
		{Name: "Sales Q1_Part01.csv", Data: []byte("id,name\n1,a\n")},
		{Name: "Sales Q1_Part02.csv", Data: []byte("id,name\n2,b\n")},
		{Name: "Sales Q1_Part03.csv", Data: []byte("id,name\n")},
	}

	payload, err := Build(entries)
	if err != nil {
		t.Fatalf("Build() error = %v", err)
	}

	got, err := Read(payload)
	if err != nil {
		t.Fatalf("Read() error = %v", err)
	}
	if len(got) != len(entries) {
		t.Fatalf("Read() returned %d entries, want %d", len(got), len(entries))
	}
	for i, want := range entries {
		if got[i].Name != want.Name {
			t.Errorf("entry %d name = %q, want %q", i, got[i].Name, want.Name)
		}
		if !bytes.Equal(got[i].Data, want.Data) {
			t.Errorf("entry %d data = %q, want %q", i, got[i].Data, want.Data)
		}
	}
}

func TestBuild_ReadableByStandardLibrary(t *testing.T) {
	payload, err := Build([]Entry{{Name: "a.csv", Data: []byte("x\n")}})
	if err != nil {
		t.Fatalf("Build() error = %v", err)
	}

	zr, err := zip.NewReader(bytes.NewReader(payload), int64(len(payload)))
	if err != nil {
		t.Fatalf("archive/zip cannot open payload: %v", err)
	}
	if len(zr.File) != 1 || zr.File[0].Name != "a.csv" {
		t.Errorf("unexpected members: %v", zr.File)
	}
}

func TestBuild_Deterministic(t *testing.T) {
	entries := []Entry{
		{Name: "a_Part01.csv", Data: []byte("h\n1\n")},
		{Name: "a_Part02.csv", Data: []byte("h\n2\n")},
	}

	first, err := Build(entries)
	if err != nil {
		t.Fatalf("Build() error = %v", err)
	}
	second, err := Build(entries)
	if err != nil {
		t.Fatalf("Build() error = %v", err)
	}
	if !bytes.Equal(first, second) {
		t.Error("Build() is not deterministic for identical input")
	}
}

func TestBuild_DuplicateName(t *testing.T) {
	_, err := Build([]Entry{
		{Name: "same.csv", Data: []byte("1")},
		{Name: "same.csv", Data: []byte("2")},
	})
	if !errors.Is(err, ErrDuplicateEntry) {
		t.Errorf("Build() error = %v, want ErrDuplicateEntry", err)
	}
}

func TestZipArchiver_AddAfterFinalize(t *testing.T) {
	z := NewZipArchiver()
	if err := z.Add("a.csv", []byte("a")); err != nil {
		t.Fatalf("Add() error = %v", err)
	}
	if _, err := z.Bytes(); err != nil {
		t.Fatalf("Bytes() error = %v", err)
	}
	if err := z.Add("b.csv", []byte("b")); err == nil {
		t.Error("Add() after Bytes() should fail")
	}
	if z.Extension() != ".zip" {
		t.Errorf("Extension() = %q, want .zip", z.Extension())
	}
}

func TestRead_Garbage(t *testing.T) {
	if _, err := Read([]byte("not a zip")); err == nil {
		t.Error("Read() expected error for non-zip payload")
	}
}
