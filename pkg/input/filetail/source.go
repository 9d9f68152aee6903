// Unless explicitly stated otherwise all files in this repository are licensed
// under the Apache License Version 2.0.
// This product includes software developed at Streamhouse (https://www.streamhouse.dev/).
// Copyright 2026 Streamhouse, Inc.

// Package filetail implements the directory-tailing source. A source
// watches one directory, tails the regular files matching its glob and
// emits each newly appended complete line exactly once to its outbox.
// Parallelism sibling instances watch the same directory without
// coordinating; a file belongs to the instance its name hashes onto.
package filetail

import (
	"errors"
	"fmt"
	"io"
	"log"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/cespare/xxhash/v2"
	"github.com/fsnotify/fsnotify"
	"github.com/juju/clock"
	"golang.org/x/text/encoding"
	"golang.org/x/text/encoding/ianaindex"

	"github.com/streamhouse/stream-engine/pkg/config"
	"github.com/streamhouse/stream-engine/pkg/message"
	"github.com/streamhouse/stream-engine/pkg/stream"
)

// backpressureDelay is how long the worker sleeps after the outbox
// refused a line
const backpressureDelay = 10 * time.Millisecond

// A Source tails the files of one directory that partition onto this
// instance. It is non-cooperative: the watch poll inside Complete may
// block up to the poll timeout, so a source runs on a dedicated worker
// goroutine.
type Source struct {
	directory     string
	glob          string
	parallelism   uint64
	id            uint64
	linesPerBatch int
	pollTimeout   time.Duration
	enc           encoding.Encoding
	clk           clock.Clock
	outbox        stream.Outbox

	watcher *fsnotify.Watcher
	offsets *offsetMap
	pending *pendingQueue
	current *openFile
	refused message.Message
	stalled bool
	closed  bool

	done     chan struct{}
	stopOnce sync.Once
	wg       sync.WaitGroup
}

// openFile is the at most one file a source holds open, with the
// decoding reader stack positioned at the last committed offset
type openFile struct {
	path string
	file *os.File
	raw  *countingReader
	lr   *lineReader
	base int64
}

// position returns the raw byte position consumed from the file
func (of *openFile) position() int64 {
	return of.base + of.raw.n
}

// New returns an initialized Source emitting the lines of
// cfg.Directory into outbox
func New(cfg *config.FileSourceConfig, outbox stream.Outbox, clk clock.Clock) (*Source, error) {
	if cfg.Parallelism < 1 {
		return nil, fmt.Errorf("filetail: parallelism must be at least 1, got %d", cfg.Parallelism)
	}
	if cfg.ID < 0 || cfg.ID >= cfg.Parallelism {
		return nil, fmt.Errorf("filetail: id %d out of range [0, %d)", cfg.ID, cfg.Parallelism)
	}
	if _, err := filepath.Match(cfg.Glob, ""); err != nil {
		return nil, fmt.Errorf("filetail: bad glob %q: %v", cfg.Glob, err)
	}
	enc, err := ianaindex.IANA.Encoding(cfg.Charset)
	if err != nil || enc == nil {
		return nil, fmt.Errorf("filetail: unknown charset %q", cfg.Charset)
	}
	linesPerBatch := cfg.LinesPerBatch
	if linesPerBatch <= 0 {
		linesPerBatch = config.DefaultLinesPerBatch
	}
	pollTimeout := cfg.WatchPoll()
	if pollTimeout <= 0 {
		pollTimeout = config.DefaultWatchPollSeconds * time.Second
	}
	return &Source{
		directory:     cfg.Directory,
		glob:          cfg.Glob,
		parallelism:   uint64(cfg.Parallelism),
		id:            uint64(cfg.ID),
		linesPerBatch: linesPerBatch,
		pollTimeout:   pollTimeout,
		enc:           enc,
		clk:           clk,
		outbox:        outbox,
		offsets:       newOffsetMap(),
		pending:       newPendingQueue(),
		done:          make(chan struct{}),
	}, nil
}

// Init enumerates the directory, seeding offsets so that only content
// appended from now on is read, and opens the directory watcher
func (s *Source) Init() error {
	entries, err := os.ReadDir(s.directory)
	if err != nil {
		return fmt.Errorf("filetail: %v", err)
	}
	for _, entry := range entries {
		if !entry.Type().IsRegular() || !s.owns(entry.Name()) {
			continue
		}
		info, err := entry.Info()
		if err != nil {
			continue
		}
		s.offsets.seed(filepath.Join(s.directory, entry.Name()), info.Size())
	}
	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("filetail: %v", err)
	}
	if err := watcher.Add(s.directory); err != nil {
		watcher.Close()
		return fmt.Errorf("filetail: %v", err)
	}
	s.watcher = watcher
	return nil
}

// owns returns whether a file name matches the glob and partitions
// onto this instance. The hash is on the file name, not the full path,
// and is stable across siblings on the same host.
func (s *Source) owns(name string) bool {
	ok, err := filepath.Match(s.glob, name)
	if err != nil || !ok {
		return false
	}
	return xxhash.Sum64String(name)%s.parallelism == s.id
}

// Complete performs one batch of work: drain watch events, open the
// next pending file if none is open, then read and emit up to
// linesPerBatch complete lines. It returns true when the source is
// closed and nothing is left to drain.
func (s *Source) Complete() bool {
	if !s.closed {
		if err := s.drainWatchEvents(); err != nil {
			log.Println("filetail: closing source:", err)
			s.Close()
		}
	}
	s.stalled = false
	if s.refused != nil {
		if !s.outbox.Offer(s.refused) {
			s.stalled = true
			return false
		}
		s.refused = nil
	}
	if s.current == nil {
		s.openNext()
	}
	if s.current != nil {
		s.readBatch()
	}
	return s.closed && s.pending.len() == 0 && s.current == nil && s.refused == nil
}

// drainWatchEvents handles buffered watcher events, blocking up to the
// poll timeout when the source has nothing else to do
func (s *Source) drainWatchEvents() error {
	if s.watcher == nil {
		return nil
	}
	if s.current == nil && s.refused == nil && s.pending.len() == 0 {
		select {
		case ev, ok := <-s.watcher.Events:
			if !ok {
				return errors.New("watcher closed")
			}
			if err := s.handleEvent(ev); err != nil {
				return err
			}
		case err, ok := <-s.watcher.Errors:
			if !ok {
				return errors.New("watcher closed")
			}
			if err := s.handleWatchError(err); err != nil {
				return err
			}
		case <-s.done:
			s.Close()
			return nil
		case <-s.clk.After(s.pollTimeout):
			return nil
		}
	}
	for {
		select {
		case ev, ok := <-s.watcher.Events:
			if !ok {
				return errors.New("watcher closed")
			}
			if err := s.handleEvent(ev); err != nil {
				return err
			}
		case err, ok := <-s.watcher.Errors:
			if !ok {
				return errors.New("watcher closed")
			}
			if err := s.handleWatchError(err); err != nil {
				return err
			}
		case <-s.done:
			s.Close()
			return nil
		default:
			return nil
		}
	}
}

func (s *Source) handleEvent(ev fsnotify.Event) error {
	switch {
	case ev.Has(fsnotify.Create) || ev.Has(fsnotify.Write):
		if !s.owns(filepath.Base(ev.Name)) {
			return nil
		}
		info, err := os.Stat(ev.Name)
		if err != nil {
			// gone already; a Create will resurface it if it comes back
			return nil
		}
		if info.IsDir() {
			return nil
		}
		s.pending.push(ev.Name)
	case ev.Has(fsnotify.Remove) || ev.Has(fsnotify.Rename):
		if ev.Name == s.directory {
			return fmt.Errorf("watched directory %s is gone", s.directory)
		}
		s.offsets.forget(ev.Name)
		s.pending.drop(ev.Name)
	case ev.Has(fsnotify.Chmod):
		// metadata only, nothing new to read
	default:
		return fmt.Errorf("unexpected watch event %v", ev)
	}
	return nil
}

// handleWatchError tells a dropped-events overflow, which only costs
// the lines written inside the overflow window, from a fatal watcher
// failure. Offsets are preserved across an overflow, so the next write
// to an affected file re-enqueues it.
func (s *Source) handleWatchError(err error) error {
	if errors.Is(err, fsnotify.ErrEventOverflow) {
		log.Println("filetail: watch event overflow, lines may be missed:", err)
		return nil
	}
	return err
}

// openNext pops pending paths until one opens
func (s *Source) openNext() {
	for {
		path, ok := s.pending.pop()
		if !ok {
			return
		}
		if s.open(path) {
			return
		}
	}
}

// open positions a reader on path at its committed offset. A file that
// disappeared between the watch event and the open is dropped silently.
func (s *Source) open(path string) bool {
	offset, partial := s.offsets.resume(path)
	file, err := os.Open(path)
	if err != nil {
		if !os.IsNotExist(err) {
			log.Println("filetail: cannot open:", err)
		}
		return false
	}
	if offset >= 0 {
		if _, err := file.Seek(offset, io.SeekStart); err != nil {
			log.Println("filetail: cannot seek:", err)
			file.Close()
			return false
		}
		s.current = s.newOpenFile(path, file, offset, partial)
		return true
	}
	// never read: skip whatever straddles the size the file had when
	// it was first observed
	start := -offset - 1
	if _, err := file.Seek(start, io.SeekStart); err != nil {
		log.Println("filetail: cannot seek:", err)
		file.Close()
		return false
	}
	of := s.newOpenFile(path, file, start, "")
	reached, err := of.lr.skipToTerminator()
	if err != nil {
		log.Println("filetail: cannot read:", err)
		file.Close()
		return false
	}
	if !reached {
		// no terminator yet; retry from scratch on the next write
		file.Close()
		return false
	}
	s.current = of
	return true
}

func (s *Source) newOpenFile(path string, file *os.File, base int64, partial string) *openFile {
	raw := &countingReader{r: file}
	decoded := s.enc.NewDecoder().Reader(raw)
	return &openFile{
		path: path,
		file: file,
		raw:  raw,
		lr:   newLineReader(decoded, partial),
		base: base,
	}
}

// readBatch reads up to linesPerBatch complete lines from the current
// file and offers them downstream. The batch ends early on
// backpressure, or at end-of-file where the consumed byte position is
// committed and the file is closed.
func (s *Source) readBatch() {
	for n := 0; n < s.linesPerBatch; n++ {
		line, ok, err := s.current.lr.readLine()
		if err != nil {
			log.Println("filetail: read failed:", err)
			s.closeCurrent(false)
			return
		}
		if !ok {
			s.closeCurrent(true)
			return
		}
		msg := message.NewMessage([]byte(line))
		origin := message.NewOrigin()
		origin.Identifier = s.current.path
		msg.SetOrigin(origin)
		if !s.outbox.Offer(msg) {
			s.refused = msg
			s.stalled = true
			return
		}
	}
}

// closeCurrent closes the open file, committing the consumed position
// and the unfinished trailing line when commit is set
func (s *Source) closeCurrent(commit bool) {
	if s.current == nil {
		return
	}
	if commit {
		s.offsets.commit(s.current.path, s.current.position(), s.current.lr.partial())
	}
	s.current.file.Close()
	s.current = nil
}

// Close releases the current file and the watcher. It is idempotent;
// later Complete calls drain the pending queue and then report done.
func (s *Source) Close() {
	if s.closed {
		return
	}
	s.closed = true
	s.closeCurrent(false)
	if s.watcher != nil {
		if err := s.watcher.Close(); err != nil {
			log.Println("filetail: closing watcher:", err)
		}
		s.watcher = nil
	}
}

// Start begins tailing on a dedicated worker goroutine
func (s *Source) Start() {
	s.wg.Add(1)
	go s.run()
}

// run drives the source until it is finished. The watch poll inside
// Complete keeps the loop from spinning while idle; a refused line
// backs off briefly instead.
func (s *Source) run() {
	defer s.wg.Done()
	if err := s.Init(); err != nil {
		log.Println("filetail: init failed:", err)
		return
	}
	for !s.Complete() {
		if !s.stalled {
			continue
		}
		select {
		case <-s.done:
			// stopping with a refused line in hand; the consumer is
			// not draining, so the remaining output is abandoned
			s.Close()
			return
		case <-s.clk.After(backpressureDelay):
		}
	}
}

// Stop signals the worker to close the source and waits for it to
// finish draining
func (s *Source) Stop() {
	s.stopOnce.Do(func() {
		close(s.done)
	})
	s.wg.Wait()
}
