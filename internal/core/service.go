package core

import (
	"bytes"
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/JonMunkholm/splitter/internal/codec"
	"github.com/JonMunkholm/splitter/internal/config"
	"github.com/JonMunkholm/splitter/internal/logging"
	"github.com/JonMunkholm/splitter/internal/sheet"
)

// SplitRequest is the input of one split operation.
type SplitRequest struct {
	FileName  string // original file name; its extension selects the format
	Data      []byte // raw file bytes
	PartCount int    // number of output parts, must be positive
	Owner     string // session that owns the result; a newer split by the same owner replaces it
}

// Service provides the split operation and access to recent results.
type Service struct {
	cfg     config.SplitConfig
	limiter *SplitLimiter
	results *ResultStore
	history HistoryStore

	now      func() time.Time
	newID    func() string
	codecFor func(sheet.Format) (codec.Codec, error)
}

// NewService creates a Service. history may be nil, in which case nothing is recorded.
func NewService(cfg *config.Config, history HistoryStore) *Service {
	if history == nil {
		history = NopHistory{}
	}
	return &Service{
		cfg:     cfg.Split,
		limiter: NewSplitLimiter(cfg.Split.MaxConcurrent, cfg.Split.MaxWaitTime),
		results: NewResultStore(cfg.Split.ResultTTL),
		history: history,
		now:     time.Now,
		newID:   func() string { return uuid.New().String() },

		codecFor: codec.For,
	}
}

// Split decodes the file, partitions its rows into req.PartCount parts and
// re-encodes every part in the source format. The result is stored for
// later retrieval and returned. On error nothing is stored.
func (s *Service) Split(ctx context.Context, req SplitRequest) (*SplitResult, error) {
	src, err := s.validate(req)
	if err != nil {
		return nil, err
	}

	release, err := s.limiter.Acquire(ctx)
	if err != nil {
		return nil, err
	}
	defer release()

	if s.cfg.Timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, s.cfg.Timeout)
		defer cancel()
	}

	id := s.newID()
	logger := logging.WithFields(ctx, "split_id", id, "file", req.FileName, "parts", req.PartCount)
	start := s.now()

	c, err := s.codecFor(src.Format)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrInvalidInput, err)
	}

	table, err := c.Decode(bytes.NewReader(req.Data))
	if err != nil {
		return nil, fmt.Errorf("%w: %s: %w", ErrDecodeFailure, req.FileName, err)
	}

	parts, err := Partition(table, req.PartCount)
	if err != nil {
		return nil, err
	}

	files := make([]NamedBlob, len(parts))
	for i, p := range parts {
		if err := ctx.Err(); err != nil {
			return nil, err
		}

		name := src.PartName(p.Index, req.PartCount)
		var buf bytes.Buffer
		if err := c.Encode(&buf, p.Table); err != nil {
			return nil, fmt.Errorf("%w: %s: %w", ErrEncodingFailure, name, err)
		}

		files[i] = NamedBlob{
			Name:      name,
			Data:      buf.Bytes(),
			PartIndex: p.Index,
			DataRows:  p.DataRowCount(),
		}
	}

	result := &SplitResult{
		ID:           id,
		SourceName:   req.FileName,
		Format:       src.Format,
		PartCount:    req.PartCount,
		DataRowCount: table.DataRowCount(),
		ArchiveName:  src.ArchiveName(),
		Files:        files,
		CreatedAt:    s.now(),
	}

	s.results.Put(req.Owner, result)

	if err := s.history.Record(ctx, newHistoryEntry(ctx, result)); err != nil {
		logger.Warn("failed to record split history", "error", err)
	}

	logger.Info("split completed",
		"format", result.Format,
		"data_rows", result.DataRowCount,
		"bytes", result.TotalBytes(),
		"duration_ms", time.Since(start).Milliseconds(),
	)

	return result, nil
}

// validate rejects bad requests before any decoding happens.
func (s *Service) validate(req SplitRequest) (SourceName, error) {
	src, err := ParseSourceName(req.FileName)
	if err != nil {
		return SourceName{}, err
	}
	if req.PartCount <= 0 {
		return SourceName{}, fmt.Errorf("%w: part count must be a positive integer, got %d", ErrInvalidInput, req.PartCount)
	}
	if s.cfg.MaxParts > 0 && req.PartCount > s.cfg.MaxParts {
		return SourceName{}, fmt.Errorf("%w: part count %d exceeds maximum of %d", ErrInvalidInput, req.PartCount, s.cfg.MaxParts)
	}
	if len(req.Data) == 0 {
		return SourceName{}, fmt.Errorf("%w: empty file", ErrInvalidInput)
	}
	if limit := s.cfg.MaxFileSize.Bytes(); limit > 0 && uint64(len(req.Data)) > limit {
		return SourceName{}, fmt.Errorf("%w: file too large: %d bytes exceeds %s", ErrInvalidInput, len(req.Data), s.cfg.MaxFileSize.HumanReadable())
	}
	return src, nil
}

// Result returns a stored split result.
func (s *Service) Result(id string) (*SplitResult, error) {
	r, ok := s.results.Get(id)
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrSplitNotFound, id)
	}
	return r, nil
}

// LatestResult returns the most recent result owned by owner.
func (s *Service) LatestResult(owner string) (*SplitResult, bool) {
	if owner == "" {
		return nil, false
	}
	return s.results.Latest(owner)
}

// File returns one part of a stored split.
func (s *Service) File(id, name string) (NamedBlob, error) {
	r, err := s.Result(id)
	if err != nil {
		return NamedBlob{}, err
	}
	return r.File(name)
}

// Archive returns the archive name and payload of a stored split, building
// the archive on first request.
func (s *Service) Archive(id string) (string, []byte, error) {
	r, err := s.Result(id)
	if err != nil {
		return "", nil, err
	}
	payload, err := r.Archive()
	if err != nil {
		return "", nil, err
	}
	return r.ArchiveName, payload, nil
}

// History returns up to limit recent splits, newest first.
func (s *Service) History(ctx context.Context, limit int) ([]HistoryEntry, error) {
	return s.history.Recent(ctx, limit)
}

// DefaultParts is the part count offered when the caller has no preference.
func (s *Service) DefaultParts() int {
	return s.cfg.DefaultParts
}

// MaxFileSize is the largest accepted upload in bytes.
func (s *Service) MaxFileSize() int64 {
	return int64(s.cfg.MaxFileSize.Bytes())
}

// StartResultSweeper removes expired results until ctx is cancelled.
func (s *Service) StartResultSweeper(ctx context.Context) {
	s.results.StartSweeper(ctx, 0)
}

// LimiterStatus reports how many splits are in progress.
func (s *Service) LimiterStatus() LimiterStatus {
	return s.limiter.Status()
}

// WaitForSplits blocks until in-progress splits finish or ctx is done.
func (s *Service) WaitForSplits(ctx context.Context) error {
	return s.limiter.WaitForDrain(ctx)
}
