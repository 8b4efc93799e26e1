package store

import (
	"encoding/json"
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"
)

func newTestStore(t *testing.T, windowDays int) *Store {
	t.Helper()
	s, err := New(Config{
		Path:       filepath.Join(t.TempDir(), "data.json"),
		WindowDays: windowDays,
	}, nil)
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}
	return s
}

func readingAt(t time.Time, ph, tds, temp float64) Reading {
	return Reading{
		Timestamp: FormatTime(t),
		PH:        Float(ph),
		TDS:       Float(tds),
		TempC:     Float(temp),
	}
}

// ─── Load ──────────────────────────────────────────────────────────

func TestLoad_MissingFile(t *testing.T) {
	s := newTestStore(t, 0)
	series := s.Load()
	if len(series) != 0 {
		t.Errorf("Load() on missing file returned %d entries, want 0", len(series))
	}
}

func TestLoad_CorruptFile(t *testing.T) {
	s := newTestStore(t, 0)

	corrupt := []byte("{not json")
	if err := os.WriteFile(s.Path(), corrupt, 0600); err != nil {
		t.Fatalf("writing corrupt file: %v", err)
	}

	series := s.Load()
	if len(series) != 0 {
		t.Errorf("Load() on corrupt file returned %d entries, want 0", len(series))
	}

	// The corrupt file must be left untouched; Load is read-only.
	after, err := os.ReadFile(s.Path())
	if err != nil {
		t.Fatalf("reading file back: %v", err)
	}
	if string(after) != string(corrupt) {
		t.Error("Load() modified the corrupt file")
	}
}

func TestLoad_NonArrayRoot(t *testing.T) {
	s := newTestStore(t, 0)
	if err := os.WriteFile(s.Path(), []byte(`{"timestamp": "x"}`), 0600); err != nil {
		t.Fatalf("writing file: %v", err)
	}
	if got := s.Load(); len(got) != 0 {
		t.Errorf("Load() on object root returned %d entries, want 0", len(got))
	}
}

func TestLoad_SortsAscending(t *testing.T) {
	s := newTestStore(t, 0)
	base := time.Date(2026, 1, 10, 12, 0, 0, 0, time.UTC)

	// Save out of order by writing the raw file directly.
	series := Series{
		readingAt(base.AddDate(0, 0, 2), 7.0, 300, 22),
		readingAt(base, 6.9, 310, 21),
		readingAt(base.AddDate(0, 0, 1), 7.1, 305, 23),
	}
	data, _ := json.Marshal(series)
	if err := os.WriteFile(s.Path(), data, 0600); err != nil {
		t.Fatalf("writing file: %v", err)
	}

	got := s.Load()
	for i := 1; i < len(got); i++ {
		if got[i].Timestamp < got[i-1].Timestamp {
			t.Fatalf("Load() not sorted: %q before %q", got[i-1].Timestamp, got[i].Timestamp)
		}
	}
}

// ─── Save ──────────────────────────────────────────────────────────

func TestSave_RoundTrip(t *testing.T) {
	s := newTestStore(t, 0)
	base := time.Date(2026, 2, 1, 8, 30, 0, 0, time.UTC)

	series := Series{
		readingAt(base, 7.0, 300, 22.5),
		{Timestamp: FormatTime(base.Add(time.Hour))}, // all metrics absent
	}

	if err := s.Save(series); err != nil {
		t.Fatalf("Save() error = %v", err)
	}

	got := s.Load()
	if len(got) != 2 {
		t.Fatalf("Load() returned %d entries, want 2", len(got))
	}
	if got[0].PH == nil || *got[0].PH != 7.0 {
		t.Errorf("ph = %v, want 7.0", got[0].PH)
	}
	if got[1].PH != nil || got[1].TDS != nil || got[1].TempC != nil {
		t.Error("absent metrics did not round-trip as null")
	}
}

func TestSave_NullsNotZeros(t *testing.T) {
	s := newTestStore(t, 0)
	series := Series{{Timestamp: FormatTime(time.Now())}}
	if err := s.Save(series); err != nil {
		t.Fatalf("Save() error = %v", err)
	}

	raw, err := os.ReadFile(s.Path())
	if err != nil {
		t.Fatalf("reading file: %v", err)
	}

	var entries []map[string]any
	if err := json.Unmarshal(raw, &entries); err != nil {
		t.Fatalf("parsing file: %v", err)
	}
	for _, field := range []string{"ph", "tds", "temp_c"} {
		v, present := entries[0][field]
		if !present {
			t.Errorf("field %s missing from persisted entry", field)
		}
		if v != nil {
			t.Errorf("field %s = %v, want null", field, v)
		}
	}
}

func TestSave_Idempotent(t *testing.T) {
	// save(load(save(series))) must be byte-identical to save(series):
	// sorting is a fixed point.
	s := newTestStore(t, 0)
	base := time.Date(2026, 2, 1, 8, 30, 0, 0, time.UTC)
	series := Series{
		readingAt(base.Add(2*time.Hour), 7.2, 280, 23),
		readingAt(base, 7.0, 300, 22),
		readingAt(base.Add(time.Hour), 7.1, 290, 22.5),
	}

	if err := s.Save(series); err != nil {
		t.Fatalf("first Save() error = %v", err)
	}
	first, err := os.ReadFile(s.Path())
	if err != nil {
		t.Fatalf("reading file: %v", err)
	}

	if err := s.Save(s.Load()); err != nil {
		t.Fatalf("second Save() error = %v", err)
	}
	second, err := os.ReadFile(s.Path())
	if err != nil {
		t.Fatalf("reading file: %v", err)
	}

	if string(first) != string(second) {
		t.Error("save(load(save(series))) not byte-identical to save(series)")
	}
}

func TestSave_FailureLeavesOriginalUntouched(t *testing.T) {
	if os.Geteuid() == 0 {
		t.Skip("directory permissions are not enforced for root")
	}
	s := newTestStore(t, 0)

	original := Series{readingAt(time.Date(2026, 2, 1, 0, 0, 0, 0, time.UTC), 7.0, 300, 22)}
	if err := s.Save(original); err != nil {
		t.Fatalf("Save() error = %v", err)
	}
	before, err := os.ReadFile(s.Path())
	if err != nil {
		t.Fatalf("reading file: %v", err)
	}

	// Make the directory read-only so the temp file cannot be created.
	dir := filepath.Dir(s.Path())
	if err := os.Chmod(dir, 0500); err != nil {
		t.Fatalf("chmod: %v", err)
	}
	t.Cleanup(func() { _ = os.Chmod(dir, 0750) })

	err = s.Save(Series{readingAt(time.Now(), 6.0, 100, 20)})
	if !errors.Is(err, ErrSaveFailed) {
		t.Fatalf("Save() error = %v, want ErrSaveFailed", err)
	}

	_ = os.Chmod(dir, 0750)
	after, readErr := os.ReadFile(s.Path())
	if readErr != nil {
		t.Fatalf("reading file back: %v", readErr)
	}
	if string(before) != string(after) {
		t.Error("failed save modified the original file")
	}

	// No temp files left behind.
	entries, _ := os.ReadDir(dir)
	for _, e := range entries {
		if e.Name() != filepath.Base(s.Path()) {
			t.Errorf("leftover file after failed save: %s", e.Name())
		}
	}
}

// ─── Append / Prune ────────────────────────────────────────────────

func TestAppendReading_CreatesFile(t *testing.T) {
	s := newTestStore(t, 60)

	r := readingAt(time.Date(2026, 3, 1, 10, 0, 0, 0, time.UTC), 7.0, 350, 24)
	s.now = func() time.Time { return time.Date(2026, 3, 1, 10, 0, 1, 0, time.UTC) }

	if err := s.AppendReading(r); err != nil {
		t.Fatalf("AppendReading() error = %v", err)
	}

	got := s.Load()
	if len(got) != 1 {
		t.Fatalf("file contains %d entries, want 1", len(got))
	}
	if got[0].Timestamp != r.Timestamp || *got[0].PH != *r.PH ||
		*got[0].TDS != *r.TDS || *got[0].TempC != *r.TempC {
		t.Errorf("persisted reading = %+v, want %+v", got[0], r)
	}
}

func TestAppendReading_MissingTimestamp(t *testing.T) {
	s := newTestStore(t, 60)

	err := s.AppendReading(Reading{PH: Float(7.0)})
	if !errors.Is(err, ErrMissingTimestamp) {
		t.Fatalf("AppendReading() error = %v, want ErrMissingTimestamp", err)
	}

	if _, statErr := os.Stat(s.Path()); !os.IsNotExist(statErr) {
		t.Error("rejected append touched the data file")
	}
}

func TestAppendReading_PrunesRetentionWindow(t *testing.T) {
	// 100 readings, the 10 oldest 70 days old, 90 within the 60-day
	// window: exactly 90 survive, ascending.
	s := newTestStore(t, 60)
	now := time.Date(2026, 4, 1, 12, 0, 0, 0, time.UTC)
	s.now = func() time.Time { return now }

	var series Series
	for i := 0; i < 10; i++ {
		series = append(series, readingAt(now.AddDate(0, 0, -70).Add(time.Duration(i)*time.Minute), 7.0, 300, 22))
	}
	for i := 0; i < 89; i++ {
		series = append(series, readingAt(now.AddDate(0, 0, -50).Add(time.Duration(i)*time.Minute), 7.1, 310, 23))
	}
	if err := s.Save(series); err != nil {
		t.Fatalf("Save() error = %v", err)
	}

	if err := s.AppendReading(readingAt(now, 7.2, 320, 24)); err != nil {
		t.Fatalf("AppendReading() error = %v", err)
	}

	got := s.Load()
	if len(got) != 90 {
		t.Fatalf("persisted series has %d entries, want 90", len(got))
	}
	for i := 1; i < len(got); i++ {
		if got[i].Timestamp < got[i-1].Timestamp {
			t.Fatal("persisted series not ascending by timestamp")
		}
	}
	if got[len(got)-1].Timestamp != FormatTime(now) {
		t.Error("newest entry is not the appended reading")
	}
}

func TestPrune_DisabledWindow(t *testing.T) {
	now := time.Now().UTC()
	series := Series{
		readingAt(now.AddDate(0, 0, -365), 7.0, 300, 22),
		readingAt(now, 7.1, 310, 23),
	}

	got := series.Prune(0, now)
	if len(got) != len(series) {
		t.Errorf("Prune(0) removed entries: %d != %d", len(got), len(series))
	}
}

func TestPrune_CutoffBoundary(t *testing.T) {
	now := time.Date(2026, 4, 1, 0, 0, 0, 0, time.UTC)
	atCutoff := readingAt(now.AddDate(0, 0, -7), 7.0, 300, 22)
	justBefore := readingAt(now.AddDate(0, 0, -7).Add(-time.Millisecond), 7.0, 300, 22)
	recent := readingAt(now, 7.1, 310, 23)

	got := Series{justBefore, atCutoff, recent}.Prune(7, now)
	if len(got) != 2 {
		t.Fatalf("Prune(7) kept %d entries, want 2", len(got))
	}
	if got[0].Timestamp != atCutoff.Timestamp {
		t.Error("entry exactly at the cutoff was pruned; cutoff is inclusive")
	}
}

// ─── Recent / Stats ────────────────────────────────────────────────

func TestRecent(t *testing.T) {
	s := newTestStore(t, 0)
	now := time.Date(2026, 4, 1, 12, 0, 0, 0, time.UTC)
	s.now = func() time.Time { return now }

	series := Series{
		readingAt(now.AddDate(0, 0, -30), 7.0, 300, 22),
		readingAt(now.AddDate(0, 0, -3), 7.1, 310, 23),
		readingAt(now.AddDate(0, 0, -1), 7.2, 320, 24),
	}
	if err := s.Save(series); err != nil {
		t.Fatalf("Save() error = %v", err)
	}

	got := s.Recent(7)
	if len(got) != 2 {
		t.Fatalf("Recent(7) returned %d entries, want 2", len(got))
	}

	// Recent never persists: the file still holds all three.
	if all := s.Load(); len(all) != 3 {
		t.Errorf("Recent() modified the file: %d entries, want 3", len(all))
	}
}

func TestStats_EmptyStore(t *testing.T) {
	s := newTestStore(t, 0)
	stats := s.Stats()

	if stats.Count != 0 || stats.FileExists || stats.FileSizeBytes != 0 {
		t.Errorf("Stats() on empty store = %+v", stats)
	}
	if stats.Oldest != "" || stats.Newest != "" || stats.DaysCovered != 0 {
		t.Errorf("Stats() on empty store reported bounds: %+v", stats)
	}
}

func TestStats(t *testing.T) {
	s := newTestStore(t, 0)
	base := time.Date(2026, 3, 1, 0, 0, 0, 0, time.UTC)

	series := Series{
		readingAt(base, 7.0, 300, 22),
		readingAt(base.AddDate(0, 0, 10), 7.1, 310, 23),
	}
	if err := s.Save(series); err != nil {
		t.Fatalf("Save() error = %v", err)
	}

	stats := s.Stats()
	if stats.Count != 2 {
		t.Errorf("Count = %d, want 2", stats.Count)
	}
	if !stats.FileExists || stats.FileSizeBytes == 0 {
		t.Errorf("file report wrong: %+v", stats)
	}
	if stats.Oldest != FormatTime(base) {
		t.Errorf("Oldest = %q, want %q", stats.Oldest, FormatTime(base))
	}
	if stats.Newest != FormatTime(base.AddDate(0, 0, 10)) {
		t.Errorf("Newest = %q", stats.Newest)
	}
	if stats.DaysCovered != 10 {
		t.Errorf("DaysCovered = %d, want 10", stats.DaysCovered)
	}
}

// ─── Atomicity ─────────────────────────────────────────────────────

func TestWriteAtomic_ReplacesWholeFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "data.json")
	if err := WriteAtomic(path, []byte("first")); err != nil {
		t.Fatalf("WriteAtomic() error = %v", err)
	}
	if err := WriteAtomic(path, []byte("second")); err != nil {
		t.Fatalf("WriteAtomic() error = %v", err)
	}

	got, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("reading file: %v", err)
	}
	if string(got) != "second" {
		t.Errorf("file content = %q, want %q", got, "second")
	}
}

func TestTimeLayout_LexicographicOrder(t *testing.T) {
	// The fixed-width layout makes string order chronological,
	// including across fractional-second boundaries.
	times := []time.Time{
		time.Date(2026, 1, 2, 3, 4, 5, 60_000_000, time.UTC),
		time.Date(2026, 1, 2, 3, 4, 5, 500_000_000, time.UTC),
		time.Date(2026, 1, 2, 3, 4, 6, 0, time.UTC),
		time.Date(2026, 1, 10, 0, 0, 0, 0, time.UTC),
		time.Date(2026, 2, 1, 0, 0, 0, 0, time.UTC),
	}

	for i := 1; i < len(times); i++ {
		a, b := FormatTime(times[i-1]), FormatTime(times[i])
		if !(a < b) {
			t.Errorf("string order broken: %q !< %q", a, b)
		}
	}
}
