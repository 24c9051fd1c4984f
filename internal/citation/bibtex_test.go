package citation

import (
	"strings"
	"testing"
)

const sampleBib = `@article{Smith2021-ab,
  title = {Deep learning for cell imaging},
  author = {Smith, John and Doe, Jane},
  journal = {Nature Methods},
  year = {2021},
  doi = {10.1234/smith}
}

@article{Jones2019-cd,
  title = "Protein folding at scale",
  author = "Jones, Alice",
  journal = "Science",
  year = "2019"
}
`

func TestParseBibTeX_ValidEntries(t *testing.T) {
	cits, errs := ParseBibTeX([]byte(sampleBib))
	if len(errs) > 0 {
		t.Fatalf("ParseBibTeX() returned errors: %v", errs)
	}
	if len(cits) != 2 {
		t.Fatalf("ParseBibTeX() returned %d citations, want 2", len(cits))
	}

	first := cits[0]
	if first.Index != 1 {
		t.Errorf("Index = %d, want 1", first.Index)
	}
	if first.Title != "Deep learning for cell imaging" {
		t.Errorf("Title = %q", first.Title)
	}
	if first.Authors != "Smith, John and Doe, Jane" {
		t.Errorf("Authors = %q", first.Authors)
	}
	if first.Year != 2021 {
		t.Errorf("Year = %d, want 2021", first.Year)
	}
	if first.Journal != "Nature Methods" {
		t.Errorf("Journal = %q", first.Journal)
	}

	if !strings.Contains(first.Raw, "Deep learning for cell imaging") {
		t.Errorf("Raw = %q, missing title", first.Raw)
	}
	if !strings.Contains(first.Raw, "(2021)") {
		t.Errorf("Raw = %q, missing year", first.Raw)
	}

	second := cits[1]
	if second.Index != 2 {
		t.Errorf("Index = %d, want 2", second.Index)
	}
	if second.Title != "Protein folding at scale" {
		t.Errorf("Title = %q", second.Title)
	}
}

func TestParseBibTeX_MissingTitle(t *testing.T) {
	data := []byte(`@article{NoTitle2020,
  author = {Nobody, Ann},
  year = {2020}
}

@article{Good2021,
  title = {A fine paper},
  year = {2021}
}
`)

	cits, errs := ParseBibTeX(data)
	if len(errs) != 1 {
		t.Fatalf("ParseBibTeX() returned %d errors, want 1: %v", len(errs), errs)
	}
	if !strings.Contains(errs[0].Error(), "NoTitle2020") {
		t.Errorf("error = %v, want mention of entry key", errs[0])
	}
	if len(cits) != 1 {
		t.Fatalf("ParseBibTeX() returned %d citations, want 1", len(cits))
	}
	if cits[0].Index != 1 {
		t.Errorf("surviving entry Index = %d, want 1 (reindexed)", cits[0].Index)
	}
}

func TestParseBibTeX_BraceStripping(t *testing.T) {
	data := []byte(`@article{Braces2022,
  title = {The {DNA} of {E. coli}},
  year = {2022}
}
`)

	cits, errs := ParseBibTeX(data)
	if len(errs) > 0 {
		t.Fatalf("ParseBibTeX() returned errors: %v", errs)
	}
	if len(cits) != 1 {
		t.Fatalf("got %d citations, want 1", len(cits))
	}
	if cits[0].Title != "The DNA of E. coli" {
		t.Errorf("Title = %q, want braces stripped", cits[0].Title)
	}
}
