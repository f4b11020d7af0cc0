package jobs

import (
	"errors"
	"strings"
	"testing"
)

func validJobJSON() string {
	return `{
  "title": "Backend Engineer",
  "company": "ServerStack Technologies",
  "location": "Austin, TX",
  "type": "Full-time",
  "experience": "Senior Level",
  "salary": {"min": 100000, "max": 140000},
  "salaryRange": "$100,000 - $140,000",
  "category": "Technology",
  "description": "Design and implement scalable server-side applications.",
  "requirements": "5+ years of backend development experience.",
  "skills": ["Go", "PostgreSQL", "AWS"],
  "benefits": ["Health Insurance", "Equity"]
}`
}

func TestValidateDocumentAcceptsValidJob(t *testing.T) {
	doc, err := ParseDocument([]byte(validJobJSON()))
	if err != nil {
		t.Fatalf("ParseDocument: %v", err)
	}
	if err := validateDocument(doc); err != nil {
		t.Fatalf("validateDocument: %v", err)
	}
	in, err := doc.decode()
	if err != nil {
		t.Fatalf("decode: %v", err)
	}
	if in.Salary == nil || *in.Salary.Max != 140000 {
		t.Fatalf("unexpected salary: %+v", in.Salary)
	}
	if len(in.Skills) != 3 || in.Skills[0] != "Go" {
		t.Fatalf("skills order lost: %v", in.Skills)
	}
}

func TestValidateDocumentReportsViolations(t *testing.T) {
	cases := map[string]string{
		"bad enum":       `{"type": "Freelance"}`,
		"missing title":  `{"title": null}`,
		"blank company":  `{"company": "   "}`,
		"negative min":   `{"salary": {"min": -1}}`,
		"bad deadline":   `{"applicationDeadline": "next week"}`,
		"skills strings": `{"skills": [1, 2]}`,
	}
	for name, patch := range cases {
		base, err := ParseDocument([]byte(validJobJSON()))
		if err != nil {
			t.Fatalf("ParseDocument: %v", err)
		}
		p, err := ParseDocument([]byte(patch))
		if err != nil {
			t.Fatalf("%s: ParseDocument: %v", name, err)
		}
		err = validateDocument(merge(base, p))
		if !errors.Is(err, ErrInvalidInput) {
			t.Fatalf("%s: expected ErrInvalidInput, got %v", name, err)
		}
	}
}

func TestParseDocumentStripsServerOwnedKeys(t *testing.T) {
	doc, err := ParseDocument([]byte(`{"title":"x","employer":"someone","applications":["a"],"id":"z"}`))
	if err != nil {
		t.Fatalf("ParseDocument: %v", err)
	}
	for _, k := range []string{"employer", "applications", "id"} {
		if _, ok := doc[k]; ok {
			t.Fatalf("expected %s to be stripped", k)
		}
	}
	if _, err := ParseDocument([]byte(`[1,2]`)); !errors.Is(err, ErrInvalidInput) {
		t.Fatalf("expected ErrInvalidInput for array body, got %v", err)
	}
	if _, err := ParseDocument([]byte(`null`)); !errors.Is(err, ErrInvalidInput) {
		t.Fatalf("expected ErrInvalidInput for null body, got %v", err)
	}
}

func TestValidateDocumentMessageNamesField(t *testing.T) {
	doc, _ := ParseDocument([]byte(`{"title":"x"}`))
	err := validateDocument(doc)
	if err == nil || !strings.Contains(err.Error(), "company") {
		t.Fatalf("expected message naming company, got %v", err)
	}
}
