package core

import (
	"context"
	"errors"
	"io"
	"strings"
	"testing"
	"time"

	"github.com/JonMunkholm/splitter/internal/archive"
	"github.com/JonMunkholm/splitter/internal/codec"
	"github.com/JonMunkholm/splitter/internal/sheet"
)

// brokenWriter decodes like CSV but fails on the failAt-th encode.
type brokenWriter struct {
	codec.CSV
	failAt int
	calls  int
}

func (b *brokenWriter) Encode(w io.Writer, t sheet.Table) error {
	b.calls++
	if b.calls >= b.failAt {
		return errors.New("disk full")
	}
	return b.CSV.Encode(w, t)
}

func TestService_EncodeFailureKeepsNothing(t *testing.T) {
	svc := NewService(testConfig(), nil)

	prior, err := svc.Split(context.Background(), SplitRequest{FileName: "a.csv", Data: csvInput(6), PartCount: 2, Owner: "u1"})
	if err != nil {
		t.Fatal(err)
	}

	bw := &brokenWriter{failAt: 2}
	svc.codecFor = func(sheet.Format) (codec.Codec, error) { return bw, nil }

	result, err := svc.Split(context.Background(), SplitRequest{FileName: "b.csv", Data: csvInput(6), PartCount: 3, Owner: "u1"})
	if !errors.Is(err, ErrEncodingFailure) {
		t.Fatalf("Split() error = %v, want ErrEncodingFailure", err)
	}
	if result != nil {
		t.Errorf("Split() returned a partial result: %+v", result)
	}
	if !strings.Contains(err.Error(), "b_Part02.csv") {
		t.Errorf("error does not name the failing part: %v", err)
	}
	if bw.calls != 2 {
		t.Errorf("encode called %d times, want to stop at the failure", bw.calls)
	}

	if n := svc.results.Len(); n != 1 {
		t.Errorf("stored results = %d, want only the prior one", n)
	}
	if latest, ok := svc.LatestResult("u1"); !ok || latest.ID != prior.ID {
		t.Error("failed split replaced the prior result")
	}
}

func TestService_EncodeFailureFirstSplit(t *testing.T) {
	svc := NewService(testConfig(), nil)
	svc.codecFor = func(sheet.Format) (codec.Codec, error) { return &brokenWriter{failAt: 1}, nil }

	if _, err := svc.Split(context.Background(), SplitRequest{FileName: "a.csv", Data: csvInput(3), PartCount: 2, Owner: "u1"}); !errors.Is(err, ErrEncodingFailure) {
		t.Fatalf("Split() error = %v, want ErrEncodingFailure", err)
	}
	if n := svc.results.Len(); n != 0 {
		t.Errorf("stored results = %d, want 0", n)
	}
}

func TestSplitResult_ArchiveDuplicateNames(t *testing.T) {
	r := &SplitResult{
		ID:          "dup",
		ArchiveName: "a_split.zip",
		Files: []NamedBlob{
			{Name: "a_Part01.csv", Data: []byte("h\n1\n")},
			{Name: "a_Part01.csv", Data: []byte("h\n2\n")},
		},
	}

	payload, err := r.Archive()
	if !errors.Is(err, ErrEncodingFailure) {
		t.Fatalf("Archive() error = %v, want ErrEncodingFailure", err)
	}
	if payload != nil {
		t.Error("Archive() returned a payload alongside the error")
	}
	if !errors.Is(err, archive.ErrDuplicateEntry) {
		t.Errorf("error does not wrap ErrDuplicateEntry: %v", err)
	}

	if _, again := r.Archive(); !errors.Is(again, ErrEncodingFailure) {
		t.Errorf("second Archive() error = %v, want the same failure", again)
	}
}

func TestService_UncategorizedErrors(t *testing.T) {
	t.Run("cancelled context", func(t *testing.T) {
		svc := NewService(testConfig(), nil)
		ctx, cancel := context.WithCancel(context.Background())
		cancel()

		result, err := svc.Split(ctx, SplitRequest{FileName: "a.csv", Data: csvInput(4), PartCount: 2, Owner: "u1"})
		if !errors.Is(err, context.Canceled) {
			t.Fatalf("Split() error = %v, want context.Canceled", err)
		}
		if result != nil || svc.results.Len() != 0 {
			t.Error("cancelled split left a result behind")
		}
	})

	t.Run("no free slot", func(t *testing.T) {
		svc := NewService(testConfig(), nil)
		svc.limiter = NewSplitLimiter(1, 10*time.Millisecond)
		release, err := svc.limiter.Acquire(context.Background())
		if err != nil {
			t.Fatal(err)
		}
		defer release()

		_, err = svc.Split(context.Background(), SplitRequest{FileName: "a.csv", Data: csvInput(4), PartCount: 2})
		if !errors.Is(err, ErrTooManySplits) {
			t.Fatalf("Split() error = %v, want ErrTooManySplits", err)
		}
		for _, category := range []error{ErrInvalidInput, ErrDecodeFailure, ErrEncodingFailure} {
			if errors.Is(err, category) {
				t.Errorf("busy error also matches %v", category)
			}
		}
	})
}
