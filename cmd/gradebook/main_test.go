package main

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"gradebook/internal/config"
	"gradebook/internal/domain"
	"gradebook/internal/repository/textfile"
	"gradebook/internal/service"
)

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

// isolate keeps the host's config, .env and GRADEBOOK_* variables out of a test
func isolate(t *testing.T) string {
	t.Helper()
	dir := t.TempDir()
	t.Chdir(dir)
	t.Setenv("HOME", dir)
	t.Setenv("XDG_CONFIG_HOME", "")
	for _, k := range []string{
		config.EnvConfigPath, config.EnvDataDir, config.EnvBackend,
		config.EnvDBPath, config.EnvLogLevel, config.EnvLogFormat,
	} {
		t.Setenv(k, "")
	}
	return dir
}

func newMenuManager(t *testing.T) (*service.Manager, string) {
	t.Helper()
	dir := t.TempDir()
	mgr := service.NewManager(textfile.New(dir, discardLogger()), discardLogger())
	_, err := mgr.Load(context.Background())
	require.NoError(t, err)
	return mgr, dir
}

func script(lines ...string) io.Reader {
	return strings.NewReader(strings.Join(lines, "\n") + "\n")
}

func TestMenuScenario(t *testing.T) {
	mgr, dir := newMenuManager(t)
	var out bytes.Buffer

	in := script(
		"1", "S001", "Alice", "alice@example.com", "20",
		"2", "SUB001", "CS101", "Intro to CS", "3",
		"3", "S001", "SUB001",
		"4", "S001", "SUB001", "85",
		"5", "S001", "SUB001", "y",
		"5", "S001", "SUB001", "n",
		"6", "S001",
		"9",
	)
	require.NoError(t, newMenu(mgr, in, &out).run(context.Background()))

	text := out.String()
	assert.Contains(t, text, "Added student S001.")
	assert.Contains(t, text, "Added subject SUB001.")
	assert.Contains(t, text, "Enrolled S001 in SUB001.")
	assert.Contains(t, text, "Attendance for S001/SUB001: 1/2.")
	assert.Contains(t, text, "CS101 - Intro to CS")
	assert.Contains(t, text, "85")
	assert.Contains(t, text, "1/2")
	assert.Contains(t, text, "Goodbye.")

	// state survives a fresh load from the same directory
	reloaded := service.NewManager(textfile.New(dir, discardLogger()), discardLogger())
	_, err := reloaded.Load(context.Background())
	require.NoError(t, err)
	record, ok := reloaded.Record("S001", "SUB001")
	require.True(t, ok)
	require.NotNil(t, record.Grade)
	assert.Equal(t, 85.0, *record.Grade)
	assert.Equal(t, 1, record.Present)
	assert.Equal(t, 2, record.Total)
}

func TestMenuContinuesAfterErrors(t *testing.T) {
	mgr, _ := newMenuManager(t)
	var out bytes.Buffer

	in := script(
		"0",
		"3", "S404", "SUB404",
		"1", "S001", "", "a@example.com", "",
		"1", "S001", "Al", "a@example.com", "abc",
		"7",
		"9",
	)
	require.NoError(t, newMenu(mgr, in, &out).run(context.Background()))

	text := out.String()
	assert.Contains(t, text, "Invalid option")
	assert.Contains(t, text, `Error: student "S404" not found`)
	assert.Contains(t, text, `invalid age "abc": failed number`)
	assert.Contains(t, text, "No students.")
	assert.Empty(t, mgr.ListStudents())
}

func TestMenuGeneratesIDs(t *testing.T) {
	mgr, _ := newMenuManager(t)
	var out bytes.Buffer

	in := script(
		"1", "", "Bob", "bob@example.com", "-",
		"2", "", "MA101", "Calculus", "",
		"8",
		"9",
	)
	require.NoError(t, newMenu(mgr, in, &out).run(context.Background()))

	students := mgr.ListStudents()
	require.Len(t, students, 1)
	assert.True(t, strings.HasPrefix(students[0].ID, "S-"))
	assert.Nil(t, students[0].Age)

	subjects := mgr.ListSubjects()
	require.Len(t, subjects, 1)
	assert.True(t, strings.HasPrefix(subjects[0].ID, "SUB-"))
	assert.Contains(t, out.String(), "MA101")
}

func TestMenuStopsAtEndOfInput(t *testing.T) {
	mgr, _ := newMenuManager(t)
	var out bytes.Buffer

	// input ends in the middle of adding a student
	err := newMenu(mgr, strings.NewReader("7\n1\nS001\n"), &out).run(context.Background())
	require.NoError(t, err)
	assert.Empty(t, mgr.ListStudents())
}

func TestNewID(t *testing.T) {
	a := newID(studentIDPrefix)
	b := newID(studentIDPrefix)

	assert.Len(t, a, len("S-")+8)
	assert.True(t, strings.HasPrefix(a, "S-"))
	assert.NotEqual(t, a, b)
	assert.True(t, strings.HasPrefix(newID(subjectIDPrefix), "SUB-"))
}

func TestParseOptionalInt(t *testing.T) {
	tests := []struct {
		input   string
		want    *int
		wantErr bool
	}{
		{"", nil, false},
		{"-", nil, false},
		{" 21 ", intPtr(21), false},
		{"0", intPtr(0), false},
		{"-3", nil, true},
		{"x", nil, true},
		{"2.5", nil, true},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			got, err := parseOptionalInt("age", tt.input)
			if tt.wantErr {
				assert.ErrorIs(t, err, domain.ErrValidation)
				var ve *domain.ValidationError
				require.ErrorAs(t, err, &ve)
				assert.Equal(t, "age", ve.Field)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestParseGrade(t *testing.T) {
	g, err := parseGrade(" 72.5 ")
	require.NoError(t, err)
	assert.Equal(t, 72.5, g)

	// out-of-range values parse; the manager rejects them
	g, err = parseGrade("101")
	require.NoError(t, err)
	assert.Equal(t, 101.0, g)

	for _, bad := range []string{"", "abc", "NaN", "Inf"} {
		_, err := parseGrade(bad)
		assert.ErrorIs(t, err, domain.ErrValidation, bad)
	}
}

func TestParseYesNo(t *testing.T) {
	for _, s := range []string{"y", "Y", "yes"} {
		v, err := parseYesNo(s)
		require.NoError(t, err)
		assert.True(t, v, s)
	}
	for _, s := range []string{"n", "NO"} {
		v, err := parseYesNo(s)
		require.NoError(t, err)
		assert.False(t, v, s)
	}
	_, err := parseYesNo("maybe")
	assert.ErrorIs(t, err, domain.ErrValidation)
}

func TestLoadConfigFlagsOverride(t *testing.T) {
	dir := isolate(t)
	cfgPath := filepath.Join(dir, "custom.yaml")
	require.NoError(t, os.WriteFile(cfgPath, []byte("storage:\n  data_dir: from-file\nlog:\n  level: warn\n"), 0644))

	cfg, path, err := loadConfig(options{
		configPath: cfgPath,
		backend:    "SQLite",
		dbPath:     filepath.Join(dir, "gb.db"),
		logFormat:  "json",
	})
	require.NoError(t, err)
	assert.Equal(t, cfgPath, path)
	assert.Equal(t, config.BackendSQLite, cfg.Storage.Backend)
	assert.Equal(t, filepath.Join(dir, "gb.db"), cfg.Storage.DBPath)
	assert.Equal(t, "from-file", cfg.Storage.DataDir)
	assert.Equal(t, "warn", cfg.Log.Level)
	assert.Equal(t, "json", cfg.Log.Format)
}

func TestLoadConfigDataFlagMovesDatabase(t *testing.T) {
	dir := isolate(t)
	dataDir := filepath.Join(dir, "elsewhere")

	cfg, _, err := loadConfig(options{backend: "sqlite", dataDir: dataDir})
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(dataDir, "gradebook.db"), cfg.Storage.DatabasePath())
}

func TestLoadConfigRejectsBadFlags(t *testing.T) {
	isolate(t)

	_, _, err := loadConfig(options{backend: "postgres"})
	assert.Error(t, err)

	_, _, err = loadConfig(options{logLevel: "chatty"})
	assert.Error(t, err)
}

func TestSetupLogger(t *testing.T) {
	var buf bytes.Buffer
	logger, err := setupLogger(config.LogConfig{Level: "warn", Format: "json"}, &buf)
	require.NoError(t, err)

	logger.Info("hidden")
	logger.Warn("shown", "student_id", "S001")

	var entry map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &entry))
	assert.Equal(t, "shown", entry["msg"])
	assert.Equal(t, "S001", entry["student_id"])
}

func TestOpenBackend(t *testing.T) {
	dir := t.TempDir()

	text, err := openBackend(config.StorageConfig{Backend: config.BackendText, DataDir: dir}, discardLogger())
	require.NoError(t, err)
	require.NoError(t, text.Close())

	db, err := openBackend(config.StorageConfig{Backend: config.BackendSQLite, DBPath: filepath.Join(dir, "gb.db")}, discardLogger())
	require.NoError(t, err)
	require.NoError(t, db.Close())

	_, err = openBackend(config.StorageConfig{Backend: "csv"}, discardLogger())
	assert.Error(t, err)
}

func TestRunReportMode(t *testing.T) {
	dir := isolate(t)
	dataDir := filepath.Join(dir, "data")

	ctx := context.Background()
	mgr := service.NewManager(textfile.New(dataDir, discardLogger()), discardLogger())
	_, err := mgr.AddStudent(ctx, "S001", "Alice", "alice@example.com", nil)
	require.NoError(t, err)
	_, err = mgr.AddSubject(ctx, "SUB001", "CS101", "Intro to CS", nil)
	require.NoError(t, err)
	_, err = mgr.Enroll(ctx, "S001", "SUB001")
	require.NoError(t, err)

	var out bytes.Buffer
	opts := options{dataDir: dataDir, logLevel: "error", reportID: "S001", format: "json"}
	require.NoError(t, run(ctx, opts, strings.NewReader(""), &out))

	var doc map[string]any
	require.NoError(t, json.Unmarshal(out.Bytes(), &doc))
	assert.Contains(t, out.String(), `"S001"`)
	assert.Contains(t, out.String(), "CS101")

	opts.reportID = "S404"
	assert.Error(t, run(ctx, opts, strings.NewReader(""), &out))

	opts.reportID = "S001"
	opts.format = "xml"
	assert.Error(t, run(ctx, opts, strings.NewReader(""), &out))
}

func intPtr(n int) *int { return &n }

func TestRunImportExport(t *testing.T) {
	dir := isolate(t)
	rosterPath := filepath.Join(dir, "roster.yaml")
	require.NoError(t, os.WriteFile(rosterPath, []byte(`
students:
  - {id: S001, name: Alice, email: alice@example.com}
subjects:
  - {id: SUB001, code: CS101, name: Intro to CS, credits: 3}
enrollments:
  - {student: S001, subject: SUB001, grade: 91}
  - {student: S404, subject: SUB001}
`), 0644))

	ctx := context.Background()
	exportPath := filepath.Join(dir, "snapshot.yaml")
	opts := options{
		backend:    "sqlite",
		dbPath:     filepath.Join(dir, "gb.db"),
		logLevel:   "error",
		importPath: rosterPath,
		exportPath: exportPath,
	}

	var out bytes.Buffer
	require.NoError(t, run(ctx, opts, strings.NewReader(""), &out))
	assert.Contains(t, out.String(), "Imported 1 student(s), 1 subject(s), 1 enrollment(s), 1 grade(s); skipped 1.")

	snapshot, err := os.ReadFile(exportPath)
	require.NoError(t, err)
	assert.Contains(t, string(snapshot), "grade: 91")
	assert.NotContains(t, string(snapshot), "S404")

	// the import persisted into the sqlite database
	out.Reset()
	report := options{backend: "sqlite", dbPath: opts.dbPath, logLevel: "error", reportID: "S001", format: "yaml"}
	require.NoError(t, run(ctx, report, strings.NewReader(""), &out))
	assert.Contains(t, out.String(), "CS101")
}

func TestRunWriteConfig(t *testing.T) {
	dir := isolate(t)
	target := filepath.Join(dir, "conf", "gradebook.yaml")

	var out bytes.Buffer
	opts := options{backend: "sqlite", dataDir: filepath.Join(dir, "grades"), logLevel: "error", writeConfig: target}
	require.NoError(t, run(context.Background(), opts, strings.NewReader(""), &out))
	assert.Contains(t, out.String(), "Config written to")

	cfg, _, err := config.LoadFromPath(target)
	require.NoError(t, err)
	assert.Equal(t, config.BackendSQLite, cfg.Storage.Backend)
	assert.Equal(t, filepath.Join(dir, "grades", "gradebook.db"), cfg.Storage.DatabasePath())
}
