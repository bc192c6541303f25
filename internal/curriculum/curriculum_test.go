package curriculum

import (
	"bytes"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestReadCSV(t *testing.T) {
	input := "module,module_position,item_title_raw,item_position,item_type\n" +
		"Week 1,1, Lecture 1 ,1,ExternalTool\n" +
		"Week 1,1,,2,Page\n" +
		",2,Orphan,1,Page\n" +
		"Week 2,2,Lecture 2,1,ExternalTool\n"
	items, err := ReadCSV(strings.NewReader(input))
	if err != nil {
		t.Fatalf("ReadCSV() error = %v", err)
	}
	if len(items) != 2 {
		t.Fatalf("len(items) = %d, want 2: %+v", len(items), items)
	}
	want := Item{ModuleName: "Week 1", ModulePosition: 1, Title: "Lecture 1", ItemPosition: 1, ItemType: "ExternalTool"}
	if items[0] != want {
		t.Errorf("items[0] = %+v, want %+v", items[0], want)
	}
	if items[1].ModuleName != "Week 2" || items[1].ModulePosition != 2 {
		t.Errorf("items[1] = %+v", items[1])
	}
}

func TestReadCSVAlternateTitleColumn(t *testing.T) {
	input := "Module,video_title_raw\nIntro,Welcome\nIntro,Syllabus\nWrap Up,Review\n"
	items, err := ReadCSV(strings.NewReader(input))
	if err != nil {
		t.Fatalf("ReadCSV() error = %v", err)
	}
	if len(items) != 3 {
		t.Fatalf("len(items) = %d, want 3", len(items))
	}
	if items[1].ModulePosition != 1 || items[2].ModulePosition != 2 {
		t.Errorf("fallback module positions = %d, %d, want 1, 2", items[1].ModulePosition, items[2].ModulePosition)
	}
	if items[2].ItemPosition != 3 {
		t.Errorf("fallback item position = %d, want 3", items[2].ItemPosition)
	}
}

func TestReadCSVStructureMissing(t *testing.T) {
	tests := []struct {
		name  string
		input string
	}{
		{"no module", "title\nLecture 1\n"},
		{"no title", "module\nWeek 1\n"},
		{"empty", ""},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			items, err := ReadCSV(strings.NewReader(tt.input))
			if !errors.Is(err, ErrStructureMissing) {
				t.Fatalf("ReadCSV() error = %v, want ErrStructureMissing", err)
			}
			if items == nil || len(items) != 0 {
				t.Errorf("items = %v, want empty non-nil slice", items)
			}
		})
	}
}

func TestReadJSON(t *testing.T) {
	input := `[
		{"module": "Week 1", "module_position": 1, "item_title_raw": "Lecture 1", "item_position": 2, "item_type": "Page"},
		{"module": "Week 0", "module_position": 0, "title": "ignored when item_title_raw exists", "item_title_raw": "Welcome"},
		{"module": null, "item_title_raw": "Dropped"}
	]`
	items, err := ReadJSON(strings.NewReader(input))
	if err != nil {
		t.Fatalf("ReadJSON() error = %v", err)
	}
	if len(items) != 2 {
		t.Fatalf("len(items) = %d, want 2", len(items))
	}
	if items[0].ItemPosition != 2 || items[0].ItemType != "Page" {
		t.Errorf("items[0] = %+v", items[0])
	}
	if items[1].Title != "Welcome" || items[1].ModulePosition != 0 {
		t.Errorf("items[1] = %+v", items[1])
	}
}

func TestReadJSONMalformed(t *testing.T) {
	if _, err := ReadJSON(strings.NewReader(`{"module": "x"}`)); err == nil {
		t.Fatal("expected decode error for a non-array document")
	}
}

func TestSaveAndLoadRoundTrip(t *testing.T) {
	items := []Item{
		{ModuleName: "Week 1", ModulePosition: 1, Title: "Lecture, part 1", ItemPosition: 1, ItemType: "ExternalTool"},
		{ModuleName: "Week 2", ModulePosition: 2, Title: "Lab", ItemPosition: 1, ItemType: "Assignment"},
	}
	dir := t.TempDir()
	for _, name := range []string{"structure.csv", "nested/structure.json"} {
		path := filepath.Join(dir, name)
		if err := Save(path, items); err != nil {
			t.Fatalf("Save(%s) error = %v", name, err)
		}
		got, err := Load(path)
		if err != nil {
			t.Fatalf("Load(%s) error = %v", name, err)
		}
		if len(got) != len(items) {
			t.Fatalf("Load(%s) returned %d items, want %d", name, len(got), len(items))
		}
		for i := range items {
			if got[i] != items[i] {
				t.Errorf("Load(%s)[%d] = %+v, want %+v", name, i, got[i], items[i])
			}
		}
	}
}

func TestWriteCSVHeader(t *testing.T) {
	var buf bytes.Buffer
	if err := WriteCSV(&buf, nil); err != nil {
		t.Fatalf("WriteCSV() error = %v", err)
	}
	if got := buf.String(); got != "module,module_position,item_title_raw,item_position,item_type\n" {
		t.Errorf("WriteCSV() = %q", got)
	}
}

func TestLoadMissingFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "present.csv")
	if err := os.WriteFile(path, []byte("module,title\nA,B\n"), 0o644); err != nil {
		t.Fatalf("write fixture: %v", err)
	}
	if _, err := Load(path); err != nil {
		t.Fatalf("Load(present) error = %v", err)
	}
	if _, err := Load(filepath.Join(t.TempDir(), "absent.csv")); err == nil {
		t.Fatal("expected error for a missing file")
	}
}
