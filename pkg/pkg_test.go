package pkg

import (
	"errors"
	"os"
	"path/filepath"
	"slices"
	"strings"
	"testing"
)

func TestName(t *testing.T) {
	expected := "argot"
	if Name != expected {
		t.Errorf("Expected Name to be %q, got %q", expected, Name)
	}
}

func TestVersion(t *testing.T) {
	// Tests run in the package directory, next to the embedded file.
	buf, err := os.ReadFile("VERSION")
	if err != nil {
		t.Fatalf("Failed to read VERSION file: %v", err)
	}

	if content := strings.TrimSpace(string(buf)); Version != content {
		t.Errorf("Expected Version to be %q, got %q", content, Version)
	}

	if got := SemVer().String(); got != Version {
		t.Errorf("Expected SemVer to be %q, got %q", Version, got)
	}
}

func TestAuthor(t *testing.T) {
	if !slices.ContainsFunc(Author, func(a AuthorInfo) bool {
		return a.Name == "ardnew" && a.Email == "andrew@ardnew.com"
	}) {
		t.Errorf("Expected Author to contain ardnew")
	}

	for i, author := range Author {
		if author.Name == "" && author.Email == "" {
			t.Errorf("Author[%d] must define at least Name or Email", i)
		}
	}
}

func TestError_Is(t *testing.T) {
	cause := errors.New("disk on fire")
	err := ErrReadInput.Wrap(cause).Wrapf("stdin")

	if !errors.Is(err, ErrReadInput) {
		t.Errorf("expected chain to match its sentinel")
	}

	if !errors.Is(err, cause) {
		t.Errorf("expected chain to match its cause")
	}

	if errors.Is(err, ErrJSONMarshal) {
		t.Errorf("expected chain not to match an unrelated sentinel")
	}

	if errors.Is(ErrReadInput, err) {
		t.Errorf("expected a sentinel not to match a longer chain")
	}

	want := "failed to read input: disk on fire: stdin"
	if err.Error() != want {
		t.Errorf("expected %q, got %q", want, err.Error())
	}
}

func TestError_WrapDoesNotAlias(t *testing.T) {
	a := ErrInvalidFormat.Wrapf("a")
	b := ErrInvalidFormat.Wrapf("b")

	if a.Error() == b.Error() || len(ErrInvalidFormat) != 1 {
		t.Errorf("expected independent chains, got %q and %q", a, b)
	}
}

func TestMakeError(t *testing.T) {
	if MakeError() != nil || MakeError(nil, nil) != nil {
		t.Errorf("expected nil for no errors")
	}

	inner := ErrUnknownKind.Wrapf("color")
	err := MakeError(inner, errors.New("outer"))

	if len(err) != 3 {
		t.Fatalf("expected nested chains to flatten, got %d elements", len(err))
	}

	if !errors.Is(err, ErrUnknownKind) {
		t.Errorf("expected flattened chain to match its sentinel")
	}
}

func TestPrefixOf(t *testing.T) {
	tests := []struct {
		path string
		want string
	}{
		{"/usr/local/bin/argot", "argot"},
		{"/tmp/__debug_bin1234", Name},
		{"/opt/..argot.bin", "argot"},
		{"/opt/.hidden", Name},
		{"/bin/...", Name},
	}

	for _, tt := range tests {
		t.Run(tt.path, func(t *testing.T) {
			if got := prefixOf(filepath.FromSlash(tt.path)); got != tt.want {
				t.Errorf("expected %q, got %q", tt.want, got)
			}
		})
	}
}

func TestUserDir(t *testing.T) {
	root := t.TempDir()

	got := userDir(func() (string, error) { return root, nil }, ".config")
	if got != filepath.Join(root, Prefix()) {
		t.Errorf("expected %q under %q", got, root)
	}

	home, err := os.UserHomeDir()
	if err != nil {
		t.Skip("no home directory")
	}

	got = userDir(func() (string, error) { return "", errors.New("unset") }, ".cache")
	if want := filepath.Join(home, ".cache", Prefix()); got != want {
		t.Errorf("expected %q, got %q", want, got)
	}
}
