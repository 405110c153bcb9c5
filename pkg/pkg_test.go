package pkg

import (
	"os"
	"strings"
	"testing"

	"github.com/ardnew/confstr/confstr"
)

func TestName_IsValidService(t *testing.T) {
	c, err := confstr.Parse(Name)
	if err != nil {
		t.Fatalf("Name %q is not a valid service identifier: %v", Name, err)
	}

	if c.Service() != Name {
		t.Errorf("expected service %q, got %q", Name, c.Service())
	}
}

func TestVersion(t *testing.T) {
	buf, err := os.ReadFile("VERSION")
	if err != nil {
		t.Fatalf("failed to read VERSION file: %v", err)
	}

	if content := strings.TrimSpace(string(buf)); Version != content {
		t.Errorf("expected Version %q, got %q", content, Version)
	}
}

func TestAuthor(t *testing.T) {
	for i, author := range Author {
		if author.Name == "" && author.Email == "" {
			t.Errorf("Author[%d] must define at least Name or Email", i)
		}
	}
}
