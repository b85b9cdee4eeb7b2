package kvstore

import (
	"context"
	"encoding/json"
	"os"
	"path/filepath"
	"sync"

	"go.uber.org/zap"
)

// File keeps the whole store as one JSON document on local disk,
// read-modify-written per Set. Meant for local/interactive use where
// separate invocations need to share state. A missing or corrupt file is
// treated as an empty store, never as a failure.
type File struct {
	path string
	log  *zap.Logger

	mu sync.Mutex
}

func NewFile(path string, log *zap.Logger) *File {
	if log == nil {
		log = zap.NewNop()
	}
	return &File{path: path, log: log}
}

func (s *File) Get(_ context.Context, key string, out any) bool {
	s.mu.Lock()
	all := s.readAll()
	s.mu.Unlock()

	raw, ok := all[key]
	if !ok {
		return false
	}
	if err := json.Unmarshal(raw, out); err != nil {
		s.log.Warn("kv_decode_failed", zap.String("key", key), zap.Error(err))
		return false
	}
	return true
}

func (s *File) Set(_ context.Context, key string, val any) {
	raw, err := json.Marshal(val)
	if err != nil {
		s.log.Warn("kv_encode_failed", zap.String("key", key), zap.Error(err))
		return
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	all := s.readAll()
	all[key] = raw
	s.writeAll(all)
}

// readAll loads the backing document, treating every failure as empty.
func (s *File) readAll() map[string]json.RawMessage {
	all := make(map[string]json.RawMessage)
	raw, err := os.ReadFile(s.path)
	if err != nil || len(raw) == 0 {
		return all
	}
	if err := json.Unmarshal(raw, &all); err != nil {
		s.log.Warn("kv_file_corrupt", zap.String("path", s.path), zap.Error(err))
		return make(map[string]json.RawMessage)
	}
	return all
}

func (s *File) writeAll(all map[string]json.RawMessage) {
	raw, err := json.Marshal(all)
	if err != nil {
		s.log.Warn("kv_encode_failed", zap.Error(err))
		return
	}
	if err := os.MkdirAll(filepath.Dir(s.path), 0o755); err != nil {
		s.log.Warn("kv_file_write_failed", zap.String("path", s.path), zap.Error(err))
		return
	}
	if err := os.WriteFile(s.path, raw, 0o644); err != nil {
		s.log.Warn("kv_file_write_failed", zap.String("path", s.path), zap.Error(err))
	}
}
