package citation

import (
	"testing"
)

func TestParseText_BasicLines(t *testing.T) {
	data := []byte(`Smith J, Doe J (2021) Deep learning for cell imaging. Nature Methods.

Jones A (2019) Protein folding at scale. Science.
`)

	cits, errs := ParseText(data)
	if len(errs) > 0 {
		t.Fatalf("ParseText() returned errors: %v", errs)
	}
	if len(cits) != 2 {
		t.Fatalf("ParseText() returned %d citations, want 2", len(cits))
	}

	if cits[0].Index != 1 || cits[1].Index != 2 {
		t.Errorf("indices = %d, %d, want 1, 2", cits[0].Index, cits[1].Index)
	}
	if cits[0].Raw != "Smith J, Doe J (2021) Deep learning for cell imaging. Nature Methods." {
		t.Errorf("Raw = %q", cits[0].Raw)
	}
	if cits[0].Year != 2021 {
		t.Errorf("Year = %d, want 2021", cits[0].Year)
	}
	if cits[1].Year != 2019 {
		t.Errorf("Year = %d, want 2019", cits[1].Year)
	}
}

func TestParseText_StripsHTML(t *testing.T) {
	data := []byte("Smith J (2020) The <i>E. coli</i> genome &amp; beyond. <b>Cell</b>.\n")

	cits, errs := ParseText(data)
	if len(errs) > 0 {
		t.Fatalf("ParseText() returned errors: %v", errs)
	}
	if len(cits) != 1 {
		t.Fatalf("ParseText() returned %d citations, want 1", len(cits))
	}

	want := "Smith J (2020) The E. coli genome & beyond. Cell."
	if cits[0].Raw != want {
		t.Errorf("Raw = %q, want %q", cits[0].Raw, want)
	}
}

func TestParseText_SkipsBlankAndTagOnlyLines(t *testing.T) {
	data := []byte("\n   \n<p></p>\nReal citation line with enough text (2022).\n")

	cits, _ := ParseText(data)
	if len(cits) != 1 {
		t.Fatalf("ParseText() returned %d citations, want 1", len(cits))
	}
	if cits[0].Index != 1 {
		t.Errorf("Index = %d, want 1", cits[0].Index)
	}
}

func TestStripTags(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  string
	}{
		{"plain", "no markup here", "no markup here"},
		{"italics", "<i>Homo sapiens</i> study", "Homo sapiens study"},
		{"entity", "Smith &amp; Jones", "Smith & Jones"},
		{"nested", " <div><span>x</span></div> ", "x"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := StripTags(tt.input); got != tt.want {
				t.Errorf("StripTags(%q) = %q, want %q", tt.input, got, tt.want)
			}
		})
	}
}

func TestDetectYear(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  int
	}{
		{"parenthesized", "Smith (2021) Title", 2021},
		{"bare", "Smith 1998. Title", 1998},
		{"none", "Smith. Title only", 0},
		{"too large", "catalog number 3021", 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := detectYear(tt.input); got != tt.want {
				t.Errorf("detectYear(%q) = %d, want %d", tt.input, got, tt.want)
			}
		})
	}
}

func TestParse_UnknownFormat(t *testing.T) {
	cits, errs := Parse("ris", []byte("data"))
	if cits != nil {
		t.Errorf("Parse() returned citations for unknown format")
	}
	if len(errs) != 1 {
		t.Fatalf("Parse() returned %d errors, want 1", len(errs))
	}
}
