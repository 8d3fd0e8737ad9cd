// Package replay implements a length-prefixed binary log of every
// request/response pair, one file per level, for offline inspection.
// Grounded in the teacher's internal/infrastructure/storage reader/writer
// pair and its CDRP-style binary framing.
package replay

import (
	"bufio"
	"encoding/binary"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/kees-jan/swoq-bot/internal/action"
	"github.com/kees-jan/swoq-bot/internal/wire"
)

const (
	magicHeader = "SWRP"
	version1    = uint32(1)
)

// fileHeader is the fixed-size header written once at the start of every
// replay file.
type fileHeader struct {
	Magic   [4]byte
	Version uint32
	Level   int32
}

// recordHeader precedes every tick's record.
type recordHeader struct {
	Tick     int32
	Action0  uint8
	Action1  uint8
	HasAct1  uint8
	StateLen uint32
}

// Record is one decoded tick from a replay file.
type Record struct {
	Tick    int
	Action0 action.Directed
	Action1 action.Directed
	HasAct1 bool
	State   wire.State
}

// Writer appends one record per tick to a single level's replay file.
type Writer struct {
	f *os.File
	w *bufio.Writer
}

// NewWriter creates (or truncates) the replay file for level within dir,
// creating dir if necessary.
func NewWriter(dir string, level int) (*Writer, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("replay: create folder: %w", err)
	}
	path := filepath.Join(dir, fmt.Sprintf("level-%d.swrp", level))
	f, err := os.Create(path)
	if err != nil {
		return nil, fmt.Errorf("replay: create %s: %w", path, err)
	}

	w := bufio.NewWriter(f)
	header := fileHeader{Version: version1, Level: int32(level)}
	copy(header.Magic[:], magicHeader)
	if err := binary.Write(w, binary.LittleEndian, &header); err != nil {
		_ = f.Close()
		return nil, fmt.Errorf("replay: write header: %w", err)
	}

	return &Writer{f: f, w: w}, nil
}

// Write appends one tick's actions and resulting state.
func (rw *Writer) Write(tick int, action0, action1 action.Directed, hasAction1 bool, state wire.State) error {
	body, err := json.Marshal(state)
	if err != nil {
		return fmt.Errorf("replay: encode state: %w", err)
	}

	hdr := recordHeader{
		Tick:     int32(tick),
		Action0:  uint8(action0),
		Action1:  uint8(action1),
		StateLen: uint32(len(body)),
	}
	if hasAction1 {
		hdr.HasAct1 = 1
	}

	if err := binary.Write(rw.w, binary.LittleEndian, &hdr); err != nil {
		return fmt.Errorf("replay: write record header: %w", err)
	}
	if _, err := rw.w.Write(body); err != nil {
		return fmt.Errorf("replay: write state: %w", err)
	}
	return nil
}

// Close flushes buffered writes and closes the file.
func (rw *Writer) Close() error {
	if err := rw.w.Flush(); err != nil {
		_ = rw.f.Close()
		return fmt.Errorf("replay: flush: %w", err)
	}
	return rw.f.Close()
}

// Reader reads back records written by Writer, in order.
type Reader struct {
	f      *os.File
	r      *bufio.Reader
	Level  int
	closed bool
}

// Open reads the file header and returns a Reader positioned at the
// first record.
func Open(path string) (*Reader, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("replay: open %s: %w", path, err)
	}
	r := bufio.NewReader(f)

	var header fileHeader
	if err := binary.Read(r, binary.LittleEndian, &header); err != nil {
		_ = f.Close()
		return nil, fmt.Errorf("replay: read header: %w", err)
	}
	if string(header.Magic[:]) != magicHeader {
		_ = f.Close()
		return nil, fmt.Errorf("replay: %s: bad magic", path)
	}
	if header.Version != version1 {
		_ = f.Close()
		return nil, fmt.Errorf("replay: %s: unsupported version %d", path, header.Version)
	}

	return &Reader{f: f, r: r, Level: int(header.Level)}, nil
}

// Next decodes the following record, returning io.EOF once the file is
// exhausted.
func (rr *Reader) Next() (Record, error) {
	var hdr recordHeader
	if err := binary.Read(rr.r, binary.LittleEndian, &hdr); err != nil {
		if err == io.EOF {
			return Record{}, io.EOF
		}
		return Record{}, fmt.Errorf("replay: read record header: %w", err)
	}

	body := make([]byte, hdr.StateLen)
	if _, err := io.ReadFull(rr.r, body); err != nil {
		return Record{}, fmt.Errorf("replay: read state: %w", err)
	}

	var state wire.State
	if err := json.Unmarshal(body, &state); err != nil {
		return Record{}, fmt.Errorf("replay: decode state: %w", err)
	}

	return Record{
		Tick:    int(hdr.Tick),
		Action0: action.Directed(hdr.Action0),
		Action1: action.Directed(hdr.Action1),
		HasAct1: hdr.HasAct1 != 0,
		State:   state,
	}, nil
}

// Close closes the underlying file.
func (rr *Reader) Close() error {
	if rr.closed {
		return nil
	}
	rr.closed = true
	return rr.f.Close()
}
