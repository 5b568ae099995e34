// Package textio moves text between files and buffers.
package textio

import (
	"bufio"
	"bytes"
	"context"
	"io/fs"
	"os"
	"path/filepath"
	"strconv"
	"unicode/utf8"

	"github.com/rs/zerolog"
	"gitlab.com/tozd/go/errors"

	"textedit/internal/buffer"
)

var (
	ErrNotFound = errors.Base("file not found")
	ErrBinary   = errors.Base("binary file")
	ErrEncoding = errors.Base("file is not valid UTF-8")
	ErrSave     = errors.Base("could not save file")
)

const (
	// maxLine bounds a single line read by Load.
	maxLine    = 16 << 20
	maxBackups = 1000
)

// Status is the outcome of Save.
type Status int

const (
	StatusSaveFailed Status = iota
	StatusSaved
)

func (s Status) String() string {
	if s == StatusSaved {
		return "File Saved"
	}
	return "Could not save file"
}

// SaveOptions controls how Save writes. BackupSuffix is used only when
// Backup is true; if empty, ".bak" is used.
type SaveOptions struct {
	Backup       bool
	BackupSuffix string
}

// backupName returns the n-th candidate backup path for path: path+suffix,
// then path+suffix+".1", path+suffix+".2" and so on.
func (o SaveOptions) backupName(path string, n int) string {
	suffix := o.BackupSuffix
	if suffix == "" {
		suffix = ".bak"
	}
	if n == 0 {
		return path + suffix
	}
	return path + suffix + "." + strconv.Itoa(n)
}

// Load reads the file at path line by line into a new buffer, appending a
// newline after every line. A final line without a terminator gains one and
// "\r\n" terminators become "\n". Files holding NUL bytes or invalid UTF-8
// are rejected so that saving never rewrites bytes a replace did not touch.
func Load(ctx context.Context, path string) (*buffer.Buffer, error) {
	f, err := os.Open(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, errors.Errorf("%w: %s: %w", ErrNotFound, path, err)
		}
		return nil, errors.Errorf("textio: open: %w", err)
	}
	defer func() { _ = f.Close() }()

	b := buffer.New("")
	sc := bufio.NewScanner(f)
	sc.Buffer(make([]byte, 0, 64*1024), maxLine)
	lines := 0
	for sc.Scan() {
		line := sc.Bytes()
		if bytes.IndexByte(line, 0x00) >= 0 {
			return nil, errors.Errorf("%w: %s", ErrBinary, path)
		}
		if !utf8.Valid(line) {
			return nil, errors.Errorf("%w: %s: line %d", ErrEncoding, path, lines+1)
		}
		b.Append(string(line))
		b.Append("\n")
		lines++
	}
	if err := sc.Err(); err != nil {
		return nil, errors.Errorf("textio: read %s: %w", path, err)
	}
	zerolog.Ctx(ctx).Debug().Str("file", path).Int("lines", lines).Int("chars", b.Len()).Msg("loaded")
	return b, nil
}

// Save writes content to path, replacing whatever is there:
//  1. stat the existing file, if any, to keep its mode
//  2. optionally copy it to a unique backup path
//  3. write a temp file in the same dir, fsync, close
//  4. rename the temp file over path
func Save(ctx context.Context, path, content string, opts SaveOptions) (Status, error) {
	if err := save(ctx, path, []byte(content), opts); err != nil {
		zerolog.Ctx(ctx).Debug().Str("file", path).Err(err).Msg("save failed")
		return StatusSaveFailed, errors.Errorf("%w: %w", ErrSave, err)
	}
	zerolog.Ctx(ctx).Debug().Str("file", path).Int("bytes", len(content)).Msg("saved")
	return StatusSaved, nil
}

func save(ctx context.Context, path string, data []byte, opts SaveOptions) error {
	mode := fs.FileMode(0o644)
	exists := false
	info, err := os.Stat(path)
	switch {
	case err == nil:
		if !info.Mode().IsRegular() {
			return errors.Errorf("%s: not a regular file", path)
		}
		mode = info.Mode().Perm()
		exists = true
	case !errors.Is(err, fs.ErrNotExist):
		return errors.Errorf("stat: %w", err)
	}

	dir := filepath.Dir(path)
	base := filepath.Base(path)

	if opts.Backup && exists {
		name, err := backup(path, mode, opts)
		if err != nil {
			return errors.Errorf("backup: %w", err)
		}
		zerolog.Ctx(ctx).Debug().Str("file", path).Str("backup", name).Msg("backed up")
	}

	tf, err := os.CreateTemp(dir, base+".tmp-*")
	if err != nil {
		return errors.Errorf("temp: %w", err)
	}
	renamed := false
	defer func(name string) {
		if !renamed {
			_ = os.Remove(name)
		}
	}(tf.Name())
	if _, err := tf.Write(data); err != nil {
		return errors.Join(errors.Errorf("write temp: %w", err), tf.Close())
	}
	if err := tf.Chmod(mode); err != nil {
		return errors.Join(errors.Errorf("chmod temp: %w", err), tf.Close())
	}
	if err := tf.Sync(); err != nil {
		return errors.Join(errors.Errorf("fsync temp: %w", err), tf.Close())
	}
	if err := tf.Close(); err != nil {
		return errors.Errorf("close temp: %w", err)
	}

	if err := os.Rename(tf.Name(), path); err != nil {
		return errors.Errorf("rename: %w", err)
	}
	renamed = true
	return nil
}

// backup copies the current content of path to the first backup name that
// does not exist yet. Names are claimed with O_EXCL so an existing backup is
// never overwritten.
func backup(path string, mode fs.FileMode, opts SaveOptions) (string, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return "", errors.Errorf("read: %w", err)
	}
	for n := 0; n < maxBackups; n++ {
		name := opts.backupName(path, n)
		f, err := os.OpenFile(name, os.O_WRONLY|os.O_CREATE|os.O_EXCL, mode)
		if errors.Is(err, fs.ErrExist) {
			continue
		}
		if err != nil {
			return "", errors.Errorf("create %s: %w", name, err)
		}
		_, err = f.Write(data)
		if err == nil {
			err = f.Sync()
		}
		if cerr := f.Close(); err == nil {
			err = cerr
		}
		if err != nil {
			return "", errors.Errorf("write %s: %w", name, err)
		}
		return name, nil
	}
	return "", errors.Errorf("too many existing backups for %s", path)
}
