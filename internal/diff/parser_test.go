package diff

import (
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/pullscout/pkg/models"
)

const sampleDiff = `diff --git a/main.go b/main.go
index 83db48f..bf269f4 100644
--- a/main.go
+++ b/main.go
@@ -1,4 +1,5 @@
 package main

+import "fmt"

 func main() {
@@ -10,3 +11,4 @@ func helper() {
 	return
 }
+
diff --git a/old.txt b/old.txt
deleted file mode 100644
index e69de29..0000000
--- a/old.txt
+++ /dev/null
@@ -1,2 +0,0 @@
-first line
-second line
diff --git a/new.txt b/new.txt
new file mode 100644
index 0000000..9daeafb
--- /dev/null
+++ b/new.txt
@@ -0,0 +1 @@
+test
`

func TestParse_FileAndHunkCounts(t *testing.T) {
	files, err := NewParser().Parse(sampleDiff)
	if err != nil {
		t.Fatalf("Parse() error: %v", err)
	}

	if len(files) != 3 {
		t.Fatalf("expected 3 files, got %d", len(files))
	}

	if files[0].ToPath != "main.go" || len(files[0].Hunks) != 2 {
		t.Errorf("main.go: got path %q with %d hunks", files[0].ToPath, len(files[0].Hunks))
	}
	if !files[1].IsDeleted {
		t.Error("old.txt should be marked deleted")
	}
	if files[1].HasTargetPath() {
		t.Error("deleted file should have no usable target path")
	}
	if !files[2].IsNew || files[2].ToPath != "new.txt" {
		t.Errorf("new.txt: IsNew=%v path=%q", files[2].IsNew, files[2].ToPath)
	}
}

func TestParse_DualLineNumbering(t *testing.T) {
	files, err := NewParser().Parse(sampleDiff)
	if err != nil {
		t.Fatalf("Parse() error: %v", err)
	}

	hunk := files[0].Hunks[0]
	if hunk.OldStart != 1 || hunk.OldCount != 4 || hunk.NewStart != 1 || hunk.NewCount != 5 {
		t.Fatalf("unexpected hunk header numbers: %+v", hunk)
	}

	want := []models.Line{
		{OldNumber: 1, NewNumber: 1, Content: " package main"},
		{OldNumber: 2, NewNumber: 2, Content: " "},
		{OldNumber: 0, NewNumber: 3, Content: `+import "fmt"`},
		{OldNumber: 3, NewNumber: 4, Content: " "},
		{OldNumber: 4, NewNumber: 5, Content: " func main() {"},
	}
	if diff := cmp.Diff(want, hunk.Lines); diff != "" {
		t.Errorf("hunk lines mismatch (-want +got):\n%s", diff)
	}

	// Deleted-only hunk: anchors resolve to the original-version numbers.
	deleted := files[1].Hunks[0]
	if got := deleted.Lines[0].AnchorNumber(); got != 1 {
		t.Errorf("deleted line anchor = %d, want 1", got)
	}
	if got := deleted.Lines[1].AnchorNumber(); got != 2 {
		t.Errorf("deleted line anchor = %d, want 2", got)
	}
}

func TestParse_HunkContentIsLiteral(t *testing.T) {
	files, err := NewParser().Parse(sampleDiff)
	if err != nil {
		t.Fatalf("Parse() error: %v", err)
	}

	content := files[2].Hunks[0].Content
	if !strings.HasPrefix(content, "@@ -0,0 +1 @@") {
		t.Errorf("hunk content should start with the @@ header, got %q", content)
	}
	if !strings.Contains(content, "+test") {
		t.Errorf("hunk content missing body line, got %q", content)
	}
}

func TestParse_HeaderWithoutCounts(t *testing.T) {
	text := "diff --git a/f.txt b/f.txt\n--- a/f.txt\n+++ b/f.txt\n@@ -1 +1 @@\n-old\n+new\n"

	files, err := NewParser().Parse(text)
	if err != nil {
		t.Fatalf("Parse() error: %v", err)
	}

	hunk := files[0].Hunks[0]
	if hunk.OldCount != 1 || hunk.NewCount != 1 {
		t.Errorf("omitted counts should default to 1, got old=%d new=%d", hunk.OldCount, hunk.NewCount)
	}
}

func TestParse_Rename(t *testing.T) {
	text := strings.Join([]string{
		"diff --git a/before.go b/after.go",
		"similarity index 95%",
		"rename from before.go",
		"rename to after.go",
		"index 1234567..89abcde 100644",
		"--- a/before.go",
		"+++ b/after.go",
		"@@ -5,2 +5,2 @@",
		"-x := 1",
		"+x := 2",
		" y := 3",
		"",
	}, "\n")

	files, err := NewParser().Parse(text)
	if err != nil {
		t.Fatalf("Parse() error: %v", err)
	}

	fd := files[0]
	if !fd.IsRenamed || fd.FromPath != "before.go" || fd.ToPath != "after.go" {
		t.Errorf("rename not captured: %+v", fd)
	}
}

func TestParse_BinaryFileHasNoHunks(t *testing.T) {
	text := "diff --git a/logo.png b/logo.png\nindex 1234567..89abcde 100644\nBinary files a/logo.png and b/logo.png differ\n"

	files, err := NewParser().Parse(text)
	if err != nil {
		t.Fatalf("Parse() error: %v", err)
	}
	if len(files) != 1 || len(files[0].Hunks) != 0 {
		t.Errorf("binary file should pass through with zero hunks, got %+v", files[0])
	}
}

func TestParse_Malformed(t *testing.T) {
	if _, err := NewParser().Parse("diff --git nonsense\n@@ broken @@\n"); err == nil {
		t.Error("expected error for malformed file header")
	}
}

func TestParse_Empty(t *testing.T) {
	files, err := NewParser().Parse("")
	if err != nil {
		t.Fatalf("Parse() error: %v", err)
	}
	if files != nil {
		t.Errorf("empty input should produce no files, got %v", files)
	}
}
