package textfile

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"gradebook/internal/codec"
	"gradebook/internal/domain"
	"gradebook/internal/repository"
)

// Backing file names inside the data directory
const (
	StudentsFile = "students.txt"
	SubjectsFile = "subjects.txt"
	RecordsFile  = "records.txt"
)

const (
	dirPerm  = 0o755
	filePerm = 0o644
)

// Repository implements repository.Backend on pipe-delimited text files
type Repository struct {
	dir    string
	logger *slog.Logger
}

var _ repository.Backend = (*Repository)(nil)

// New creates a text file repository rooted at dir. The directory is created
// on the first save, not here.
func New(dir string, logger *slog.Logger) *Repository {
	if logger == nil {
		logger = slog.Default()
	}
	return &Repository{
		dir:    dir,
		logger: logger.With("backend", "text", "dir", dir),
	}
}

// Dir returns the data directory
func (r *Repository) Dir() string {
	return r.dir
}

// Path returns the full path of a backing file
func (r *Repository) Path(name string) string {
	return filepath.Join(r.dir, name)
}

// LoadStudents reads students.txt
func (r *Repository) LoadStudents(ctx context.Context) (repository.LoadResult[domain.Student], error) {
	return load(ctx, r.Path(StudentsFile), codec.Students)
}

// LoadSubjects reads subjects.txt
func (r *Repository) LoadSubjects(ctx context.Context) (repository.LoadResult[domain.Subject], error) {
	return load(ctx, r.Path(SubjectsFile), codec.Subjects)
}

// LoadRecords reads records.txt
func (r *Repository) LoadRecords(ctx context.Context) (repository.LoadResult[domain.Record], error) {
	return load(ctx, r.Path(RecordsFile), codec.Records)
}

// SaveStudents rewrites students.txt
func (r *Repository) SaveStudents(ctx context.Context, students []domain.Student) error {
	return r.save(ctx, StudentsFile, codec.Students.Header, encodeAll(students, codec.Students))
}

// SaveSubjects rewrites subjects.txt
func (r *Repository) SaveSubjects(ctx context.Context, subjects []domain.Subject) error {
	return r.save(ctx, SubjectsFile, codec.Subjects.Header, encodeAll(subjects, codec.Subjects))
}

// SaveRecords rewrites records.txt
func (r *Repository) SaveRecords(ctx context.Context, records []domain.Record) error {
	return r.save(ctx, RecordsFile, codec.Records.Header, encodeAll(records, codec.Records))
}

// Close is a no-op; files are closed after every operation
func (r *Repository) Close() error {
	return nil
}

// load decodes every line of path. A missing file is an empty collection.
func load[T any](ctx context.Context, path string, c codec.LineCodec[T]) (repository.LoadResult[T], error) {
	var result repository.LoadResult[T]
	if err := ctx.Err(); err != nil {
		return result, err
	}

	f, err := os.Open(path)
	if errors.Is(err, fs.ErrNotExist) {
		return result, nil
	}
	if err != nil {
		return result, fmt.Errorf("open %s: %w", c.Name, err)
	}
	defer f.Close()

	// lines have no length limit; a saved entry must always load back
	reader := bufio.NewReader(f)
	lineNo := 0
	for {
		line, err := reader.ReadString('\n')
		if line != "" {
			lineNo++
			if !skipLine(line) {
				item, derr := c.Decode(line)
				if derr != nil {
					result.Skipped = append(result.Skipped, fmt.Errorf("%s line %d: %w", filepath.Base(path), lineNo, derr))
				} else {
					result.Items = append(result.Items, item)
				}
			}
		}
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return result, fmt.Errorf("read %s: %w", c.Name, err)
		}
	}

	return result, nil
}

// skipLine reports blank lines and # comments
func skipLine(line string) bool {
	trimmed := strings.TrimSpace(line)
	return trimmed == "" || strings.HasPrefix(trimmed, domain.CommentPrefix)
}

func encodeAll[T any](items []T, c codec.LineCodec[T]) []string {
	lines := make([]string, 0, len(items))
	for _, item := range items {
		lines = append(lines, c.Encode(item))
	}
	return lines
}

// save writes header and lines to a temp file next to the target, then
// renames it over the target
func (r *Repository) save(ctx context.Context, name, header string, lines []string) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if err := os.MkdirAll(r.dir, dirPerm); err != nil {
		return fmt.Errorf("create data dir: %w", err)
	}

	target := r.Path(name)
	tmp, err := os.CreateTemp(r.dir, "."+name+".*.tmp")
	if err != nil {
		return fmt.Errorf("create temp file for %s: %w", name, err)
	}
	tmpName := tmp.Name()
	committed := false
	defer func() {
		if !committed {
			tmp.Close()
			os.Remove(tmpName)
		}
	}()

	w := bufio.NewWriter(tmp)
	w.WriteString(header)
	w.WriteByte('\n')
	for _, line := range lines {
		w.WriteString(line)
		w.WriteByte('\n')
	}
	if err := w.Flush(); err != nil {
		return fmt.Errorf("write %s: %w", name, err)
	}
	if err := tmp.Sync(); err != nil {
		return fmt.Errorf("sync %s: %w", name, err)
	}
	if err := tmp.Chmod(filePerm); err != nil {
		return fmt.Errorf("chmod %s: %w", name, err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("close %s: %w", name, err)
	}
	if err := os.Rename(tmpName, target); err != nil {
		return fmt.Errorf("replace %s: %w", name, err)
	}
	committed = true

	r.logger.Debug("saved collection", "file", name, "entries", len(lines))
	return nil
}
