package profile

import (
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"runtime"
	"runtime/pprof"
	"slices"
	"strings"
)

// Kind is a pprof profile type.
type Kind string

// Supported profiles. [KindCPU] samples for the whole session; the others are
// snapshots written by [Session.Stop].
const (
	KindCPU       Kind = "cpu"
	KindHeap      Kind = "heap"
	KindAllocs    Kind = "allocs"
	KindGoroutine Kind = "goroutine"
	KindBlock     Kind = "block"
	KindMutex     Kind = "mutex"
)

// ErrUnknownKind indicates an unrecognized profile name.
var ErrUnknownKind = errors.New("unknown profile")

// GetAllKindStrings returns the accepted profile names.
func GetAllKindStrings() []string {
	return []string{
		string(KindCPU),
		string(KindHeap),
		string(KindAllocs),
		string(KindGoroutine),
		string(KindBlock),
		string(KindMutex),
	}
}

// ParseKind parses a profile name. It is case insensitive.
func ParseKind(s string) (Kind, error) {
	k := Kind(strings.ToLower(strings.TrimSpace(s)))
	if !slices.Contains(GetAllKindStrings(), string(k)) {
		return "", fmt.Errorf("%w: %q", ErrUnknownKind, s)
	}

	return k, nil
}

// Filename returns the file name used for the profile.
func (k Kind) Filename() string {
	return string(k) + ".pprof"
}

// Session is a running profiling session.
//
// Create instances with [Config.Start].
type Session struct {
	logger  *slog.Logger
	cpuFile *os.File
	dir     string
	kinds   []Kind
	written []string
}

func (s *Session) enabled(k Kind) bool {
	return slices.Contains(s.kinds, k)
}

func (s *Session) start() error {
	if len(s.kinds) == 0 {
		return nil
	}

	err := os.MkdirAll(s.dir, 0o755)
	if err != nil {
		return fmt.Errorf("create profile dir: %w", err)
	}

	if s.enabled(KindBlock) {
		runtime.SetBlockProfileRate(1)
	}

	if s.enabled(KindMutex) {
		runtime.SetMutexProfileFraction(1)
	}

	if !s.enabled(KindCPU) {
		return nil
	}

	path := filepath.Join(s.dir, KindCPU.Filename())

	f, err := os.Create(path) //nolint:gosec // Profile path from CLI flag is expected.
	if err != nil {
		return fmt.Errorf("create cpu profile: %w", err)
	}

	err = pprof.StartCPUProfile(f)
	if err != nil {
		_ = f.Close()

		return fmt.Errorf("start cpu profile: %w", err)
	}

	s.cpuFile = f

	return nil
}

// Stop ends CPU profiling and writes the snapshot profiles. All profiles are
// attempted; failures are joined. Stop on a nil Session is a no-op.
func (s *Session) Stop() error {
	if s == nil {
		return nil
	}

	var errs []error

	if s.cpuFile != nil {
		pprof.StopCPUProfile()

		err := s.cpuFile.Close()
		if err != nil {
			errs = append(errs, fmt.Errorf("close cpu profile: %w", err))
		} else {
			s.wrote(s.cpuFile.Name())
		}

		s.cpuFile = nil
	}

	for _, k := range s.kinds {
		if k == KindCPU {
			continue
		}

		err := s.snapshot(k)
		if err != nil {
			errs = append(errs, err)
		}
	}

	if s.enabled(KindBlock) {
		runtime.SetBlockProfileRate(0)
	}

	if s.enabled(KindMutex) {
		runtime.SetMutexProfileFraction(0)
	}

	return errors.Join(errs...)
}

// Written returns the paths of the profiles written so far.
func (s *Session) Written() []string {
	return slices.Clone(s.written)
}

func (s *Session) snapshot(k Kind) error {
	prof := pprof.Lookup(string(k))
	if prof == nil {
		return fmt.Errorf("%w: %s", ErrUnknownKind, k)
	}

	path := filepath.Join(s.dir, k.Filename())

	f, err := os.Create(path) //nolint:gosec // Profile path from CLI flag is expected.
	if err != nil {
		return fmt.Errorf("create %s profile: %w", k, err)
	}

	err = prof.WriteTo(f, 0)
	if err != nil {
		_ = f.Close()

		return fmt.Errorf("write %s profile: %w", k, err)
	}

	err = f.Close()
	if err != nil {
		return fmt.Errorf("close %s profile: %w", k, err)
	}

	s.wrote(path)

	return nil
}

func (s *Session) wrote(path string) {
	s.written = append(s.written, path)
	s.logger.Info("wrote profile", slog.String("path", path))
}
