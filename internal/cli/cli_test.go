package cli

import (
	"bytes"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/tsawler/pdfcomply/internal/testpdf"
)

func execute(t *testing.T, args ...string) (code int, stdout, stderr string) {
	t.Helper()
	var out, errOut bytes.Buffer
	code = run(NewRootCmd(), args, &out, &errOut)
	return code, out.String(), errOut.String()
}

func TestAnalyzeJSON(t *testing.T) {
	path := testpdf.WriteFile(t, "resume.pdf", testpdf.Resume())
	code, out, stderr := execute(t, "analyze", path, "--format", "json", "--limit", "summary=2", "-l", "skills=1")
	if code != ExitOK {
		t.Fatalf("exit %d, stderr %s", code, stderr)
	}
	want := `{
  "format": {
    "file_type": "pass",
    "font_size": "pass",
    "font_family": "pass",
    "margin": "pass"
  },
  "content": {
    "summary_pages": 3,
    "summary": "fail",
    "skills_pages": 1,
    "skills": "pass"
  }
}
`
	if out != want {
		t.Errorf("got\n%s\nwant\n%s", out, want)
	}
}

func TestAnalyzeSummary(t *testing.T) {
	path := testpdf.WriteFile(t, "resume.pdf", testpdf.Resume())
	code, out, _ := execute(t, "analyze", path, "--preset", "resume")
	if code != ExitOK {
		t.Fatalf("exit %d", code)
	}
	for _, want := range []string{
		"PDF Compliance Analysis",
		"resume.pdf",
		"Total Pages: 4",
		"Compliance Score: 83.3%",
		"Issues Found: 1",
		"Checks Passed: 5",
		"3 page(s) of 1",
		"Failed: Summary",
	} {
		if !strings.Contains(out, want) {
			t.Errorf("summary missing %q:\n%s", want, out)
		}
	}
}

func TestAnalyzeStrict(t *testing.T) {
	path := testpdf.WriteFile(t, "resume.pdf", testpdf.Resume())
	tests := []struct {
		name string
		args []string
		want int
	}{
		{"failing limit", []string{"--limit", "summary=1"}, ExitFailed},
		{"generous limits", []string{"--limit", "summary=3", "--limit", "skills=1"}, ExitOK},
		{"no limits", nil, ExitOK},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			args := append([]string{"analyze", path, "--strict", "-f", "json"}, tt.args...)
			if code, _, stderr := execute(t, args...); code != tt.want {
				t.Errorf("exit %d, want %d (stderr %s)", code, tt.want, stderr)
			}
		})
	}

	// without --strict failing checks still exit 0
	if code, _, _ := execute(t, "analyze", path, "--limit", "summary=1"); code != ExitOK {
		t.Errorf("exit %d without --strict", code)
	}
}

func TestAnalyzeInvalidFileIsNotAnError(t *testing.T) {
	path := testpdf.WriteBytes(t, "notes.pdf", []byte("not a pdf"))
	code, out, _ := execute(t, "analyze", path, "-f", "json")
	if code != ExitOK {
		t.Fatalf("exit %d", code)
	}
	var got map[string]any
	if err := json.Unmarshal([]byte(out), &got); err != nil {
		t.Fatal(err)
	}
	format, _ := got["format"].(map[string]any)
	if format["file_type"] != "fail" || len(format) != 1 {
		t.Errorf("format = %v", format)
	}
}

func TestAnalyzeErrors(t *testing.T) {
	path := testpdf.WriteFile(t, "resume.pdf", testpdf.Resume())
	tests := []struct {
		name string
		args []string
	}{
		{"missing file", []string{"analyze", filepath.Join(t.TempDir(), "gone.pdf")}},
		{"no argument", []string{"analyze"}},
		{"bad limit", []string{"analyze", path, "--limit", "summary"}},
		{"zero limit", []string{"analyze", path, "--limit", "summary=0"}},
		{"fractional limit", []string{"analyze", path, "--limit", "summary=1.5"}},
		{"unknown preset", []string{"analyze", path, "--preset", "thesis"}},
		{"unknown format", []string{"analyze", path, "--format", "xml"}},
		{"unknown log format", []string{"analyze", path, "--log-format", "yaml"}},
		{"missing limits file", []string{"analyze", path, "--limits", filepath.Join(t.TempDir(), "none.json")}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			code, _, stderr := execute(t, tt.args...)
			if code != ExitError {
				t.Errorf("exit %d, want %d", code, ExitError)
			}
			if !strings.Contains(stderr, "Error:") {
				t.Errorf("stderr = %q", stderr)
			}
		})
	}
}

func TestAnalyzeLimitsFile(t *testing.T) {
	path := testpdf.WriteFile(t, "resume.pdf", testpdf.Resume())
	limitsFile := filepath.Join(t.TempDir(), "limits.json")
	if err := os.WriteFile(limitsFile, []byte(`{"Summary": 1, "skills": 4}`), 0o644); err != nil {
		t.Fatal(err)
	}

	// --limit overrides the file
	code, out, _ := execute(t, "analyze", path, "-f", "json", "--limits", limitsFile, "--limit", "skills=0x")
	if code != ExitError {
		t.Errorf("exit %d for a malformed --limit, output %s", code, out)
	}
	code, out, _ = execute(t, "analyze", path, "-f", "json", "--limits", limitsFile, "--limit", "summary=5")
	if code != ExitOK {
		t.Fatalf("exit %d", code)
	}
	if !strings.Contains(out, `"summary": "pass"`) || !strings.Contains(out, `"skills": "pass"`) {
		t.Errorf("output = %s", out)
	}
}

func TestAnalyzeOutput(t *testing.T) {
	path := testpdf.WriteFile(t, "resume.pdf", testpdf.Resume())

	t.Run("file", func(t *testing.T) {
		dest := filepath.Join(t.TempDir(), "out.html")
		code, out, _ := execute(t, "analyze", path, "-f", "html", "-o", dest)
		if code != ExitOK {
			t.Fatalf("exit %d", code)
		}
		if !strings.Contains(out, dest) {
			t.Errorf("stdout = %q", out)
		}
		data, err := os.ReadFile(dest)
		if err != nil {
			t.Fatal(err)
		}
		if !strings.HasPrefix(strings.ToLower(string(data)), "<!doctype html>") {
			t.Errorf("not an HTML document: %.40s", data)
		}
	})

	t.Run("directory", func(t *testing.T) {
		dir := t.TempDir()
		if code, _, _ := execute(t, "analyze", path, "-o", dir); code != ExitOK {
			t.Fatalf("exit %d", code)
		}
		matches, err := filepath.Glob(filepath.Join(dir, "resume_summary_*.txt"))
		if err != nil || len(matches) != 1 {
			t.Fatalf("matches = %v, %v", matches, err)
		}
		data, _ := os.ReadFile(matches[0])
		if !strings.HasPrefix(string(data), "PDF Compliance Analysis Report") {
			t.Errorf("text export = %.60s", data)
		}
	})
}

func TestVerboseLogsToStderr(t *testing.T) {
	path := testpdf.WriteFile(t, "resume.pdf", testpdf.Resume())
	code, _, stderr := execute(t, "analyze", path, "-f", "json", "-v", "--log-format", "json")
	if code != ExitOK {
		t.Fatalf("exit %d", code)
	}
	if !strings.Contains(stderr, `"msg":"analysis complete"`) {
		t.Errorf("stderr = %s", stderr)
	}
}

func TestPresets(t *testing.T) {
	code, out, _ := execute(t, "presets")
	if code != ExitOK {
		t.Fatalf("exit %d", code)
	}
	for _, want := range []string{
		"report",
		"appendix=10, executive summary=2, methodology=3, results=5",
		"resume",
		"education=1, experience=3, skills=2, summary=1",
	} {
		if !strings.Contains(out, want) {
			t.Errorf("presets missing %q:\n%s", want, out)
		}
	}
}

func TestVersion(t *testing.T) {
	for _, args := range [][]string{{"version"}, {"--version"}} {
		code, out, _ := execute(t, args...)
		if code != ExitOK || !strings.HasPrefix(out, "pdfcomply dev") {
			t.Errorf("%v: exit %d, output %q", args, code, out)
		}
	}
}
