package jobdesc

import (
	"strings"
	"testing"
)

func mustSections(t *testing.T, raw string) *Sections {
	t.Helper()
	s, err := DecodeSections([]byte(raw))
	if err != nil {
		t.Fatalf("decode sections: %v", err)
	}
	return s
}

func TestToCanonicalText_PreservesOrderAndLists(t *testing.T) {
	s := mustSections(t, `{
		"Job Title": "Backend Engineer",
		"Summary": "Build APIs.",
		"Responsibilities": ["Write code", "Review PRs"],
		"Openings": 2
	}`)

	got := ToCanonicalText(s)
	want := "Job Title:\nBackend Engineer\n\nSummary:\nBuild APIs.\n\nResponsibilities:\n- Write code\n- Review PRs\n\nOpenings:\n2"
	if got != want {
		t.Fatalf("unexpected canonical text:\n%q\nwant\n%q", got, want)
	}
}

func TestToCanonicalText_RoundTripsMetadata(t *testing.T) {
	s := NewSections()
	s.Set("Job Title", "Data Analyst")
	s.Set("Summary", "Turn numbers into decisions.")
	s.Set("Job Location", "Pune")

	text := ToCanonicalText(s)

	meta := ExtractMetadata(text)
	if meta.Title != "Data Analyst" {
		t.Fatalf("title = %q", meta.Title)
	}
	if meta.Summary != "Turn numbers into decisions." {
		t.Fatalf("summary = %q", meta.Summary)
	}
	if meta.Location != "Pune" {
		t.Fatalf("location = %q", meta.Location)
	}
	if got := ExtractTitle(text); got != "Data Analyst" {
		t.Fatalf("ExtractTitle = %q", got)
	}
}

func TestDecodeSections_RejectsNonObject(t *testing.T) {
	if _, err := DecodeSections([]byte(`["a","b"]`)); err == nil {
		t.Fatal("expected error for array payload")
	}
}

func TestExtractTitle(t *testing.T) {
	cases := []struct {
		name string
		in   string
		want string
	}{
		{"plain", "Job Title: Backend Engineer", "Backend Engineer"},
		{"literal newlines", `Intro\nJob Title: Backend Engineer\nSummary: x`, "Backend Engineer"},
		{"case insensitive", "JOB TITLE :  Backend Engineer  \nmore", "Backend Engineer"},
		{"value on next line", "Job Title:\nBackend Engineer", "Backend Engineer"},
		{"missing", "Summary: nothing here", DefaultTitle},
		{"empty", "", DefaultTitle},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if got := ExtractTitle(tc.in); got != tc.want {
				t.Fatalf("ExtractTitle(%q) = %q, want %q", tc.in, got, tc.want)
			}
		})
	}
}

func TestExtractLocation(t *testing.T) {
	if got := ExtractLocation("Job Location: Remote\nOther: X"); got != "Remote" {
		t.Fatalf("got %q", got)
	}
	if got := ExtractLocation(""); got != DefaultLocation {
		t.Fatalf("got %q", got)
	}
	if got := ExtractLocation("Location: Remote"); got != DefaultLocation {
		t.Fatalf("exact strategy must ignore bare Location, got %q", got)
	}
}

func TestExtractLocationLoose(t *testing.T) {
	cases := []struct {
		name string
		in   string
		want string
	}{
		{"colon form", `Job Location: New Delhi\nJob Type: Full time`, "New Delhi Job Type"},
		{"bare location colon", "Location:   Bangalore, India", "Bangalore"},
		{"inline with stop word", "Location Mumbai Job Type Permanent", "Mumbai"},
		{"inline stops at summary", "Location Chennai Summary We build", "Chennai"},
		{"inline only stop word", "Location Summary of role", UnknownLocation},
		{"absent", "Remote friendly team", UnknownLocation},
		{"empty", "", UnknownLocation},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if got := ExtractLocationWith(LocationLoose, tc.in); got != tc.want {
				t.Fatalf("loose(%q) = %q, want %q", tc.in, got, tc.want)
			}
		})
	}
}

func TestParseLocationStrategy(t *testing.T) {
	if s, ok := ParseLocationStrategy(""); !ok || s != LocationExact {
		t.Fatalf("default strategy = %q %v", s, ok)
	}
	if s, ok := ParseLocationStrategy("LOOSE"); !ok || s != LocationLoose {
		t.Fatalf("loose strategy = %q %v", s, ok)
	}
	if _, ok := ParseLocationStrategy("fuzzy"); ok {
		t.Fatal("unknown strategy accepted")
	}
}

func TestExtractMetadata_Defaults(t *testing.T) {
	meta := ExtractMetadata("nothing useful")
	if meta.Title != DefaultTitle || meta.Location != UnknownLocation || meta.Summary != "" {
		t.Fatalf("unexpected defaults: %+v", meta)
	}
}

func TestExtractMetadata_SummaryOnLastLine(t *testing.T) {
	meta := ExtractMetadata("Job Title: QA\nSummary:")
	if meta.Summary != "" {
		t.Fatalf("summary = %q", meta.Summary)
	}
	if meta.Title != "QA" {
		t.Fatalf("title = %q", meta.Title)
	}
}

func TestExtractMetadata_IndentedHeaderIgnored(t *testing.T) {
	meta := ExtractMetadata("  Job Title: QA")
	if meta.Title != DefaultTitle {
		t.Fatalf("indented header should not match, got %q", meta.Title)
	}
}

func TestToDisplayHTML_SummaryAndList(t *testing.T) {
	in := "Summary: Build things.\nResponsibilities:\n- Write code\n- Review PRs"
	got := ToDisplayHTML(in)
	want := "<h5>Summary:</h5>\n<p>Build things.</p>\n" +
		"<h5>Responsibilities:</h5>\n<ul>\n<li>Write code</li>\n<li>Review PRs</li>\n</ul>\n"
	if got != want {
		t.Fatalf("unexpected html:\n%s\nwant\n%s", got, want)
	}
}

func TestToDisplayHTML_SwitchesListsAndDegrades(t *testing.T) {
	in := `- stray bullet\nRequired Skills:\n* Go\n• SQL\nJob Location: Remote\nthanks`
	got := ToDisplayHTML(in)
	want := "<p>- stray bullet</p>\n" +
		"<h5>Required Skills:</h5>\n<ul>\n<li>Go</li>\n<li>SQL</li>\n</ul>\n" +
		"<h5>Job Location:</h5>\n<p>Remote</p>\n" +
		"<p>thanks</p>\n"
	if got != want {
		t.Fatalf("unexpected html:\n%s\nwant\n%s", got, want)
	}
}

func TestToDisplayHTML_HeadersAreCaseSensitive(t *testing.T) {
	got := ToDisplayHTML("summary: lower case")
	if got != "<p>summary: lower case</p>\n" {
		t.Fatalf("got %q", got)
	}
}

func TestToPlainPreview(t *testing.T) {
	html := ToDisplayHTML("Summary: Build things.\nResponsibilities:\n- Write code")
	got := ToPlainPreview(html)
	if got != "Summary: Build things. Responsibilities: Write code" {
		t.Fatalf("got %q", got)
	}
	if got := ToPlainPreview("<p>a &amp; b</p>"); got != "a & b" {
		t.Fatalf("entities not decoded: %q", got)
	}
}

func TestTruncateWords(t *testing.T) {
	if got := TruncateWords("one two three", 5); got != "one two three" {
		t.Fatalf("got %q", got)
	}
	if got := TruncateWords("one two three", 2); got != "one two..." {
		t.Fatalf("got %q", got)
	}
	if got := TruncateWords("", 2); got != "" {
		t.Fatalf("got %q", got)
	}
}

func TestClean(t *testing.T) {
	if got := Clean(`a\nb` + "\nc\\"); got != "a b c" {
		t.Fatalf("got %q", got)
	}
}

func TestLooksLikeJobDescription(t *testing.T) {
	if !LooksLikeJobDescription(mustSections(t, `{"Job Title": "x"}`)) {
		t.Fatal("title key should be recognised")
	}
	if LooksLikeJobDescription(mustSections(t, `{"foo": "bar"}`)) {
		t.Fatal("unrelated payload accepted")
	}
}

func TestWordCount(t *testing.T) {
	if got := WordCount(strings.Repeat("word ", 10)); got != 10 {
		t.Fatalf("got %d", got)
	}
}
