package util

import "testing"

func TestValidateFileName(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		input   string
		want    string
		wantErr bool
	}{
		{name: "plain", input: "resume-1700000000000-42.pdf", want: "resume-1700000000000-42.pdf"},
		{name: "trimmed", input: "  a.pdf ", want: "a.pdf"},
		{name: "empty", input: "", wantErr: true},
		{name: "dot", input: ".", wantErr: true},
		{name: "parent", input: "..", wantErr: true},
		{name: "traversal", input: "../../etc/passwd", wantErr: true},
		{name: "slash", input: "a/b.pdf", wantErr: true},
		{name: "backslash", input: `a\b.pdf`, wantErr: true},
		{name: "embedded dots", input: "a..pdf", wantErr: true},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			got, err := ValidateFileName(tt.input)
			if tt.wantErr {
				if err == nil {
					t.Fatalf("ValidateFileName(%q) expected error, got %q", tt.input, got)
				}
				return
			}
			if err != nil {
				t.Fatalf("ValidateFileName(%q) unexpected error: %v", tt.input, err)
			}
			if got != tt.want {
				t.Fatalf("ValidateFileName(%q) = %q, want %q", tt.input, got, tt.want)
			}
		})
	}
}

func TestExtension(t *testing.T) {
	t.Parallel()

	cases := map[string]string{
		"CV.PDF":                  ".pdf",
		"resume.docx":             ".docx",
		"noext":                   "",
		"weird.p d f":             "",
		"archive.tar.gz":          ".gz",
		"trailing-dot.":           "",
		"../../etc/x.pdf":         ".pdf",
		"name.averylongextension": "",
	}
	for in, want := range cases {
		if got := Extension(in); got != want {
			t.Fatalf("Extension(%q) = %q, want %q", in, got, want)
		}
	}
}
