package store

import "matchlog/internal/platform/logger"

// Option mutates the Store during Open
type Option func(*Store) error

// WithLogger replaces the store logger
func WithLogger(log logger.Logger) Option {
	return func(s *Store) error {
		s.Log = log
		return nil
	}
}
