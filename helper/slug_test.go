package helper

import (
	"regexp"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestSlugify(t *testing.T) {
	cases := map[string]string{
		"Go":           "go",
		"Go Lang!":     "go-lang-",
		"  Web Dev  ":  "--web-dev--",
		"C++":          "c--",
		"already-slug": "already-slug",
		"123":          "123",
		"":             "",
		"Üñïçødé":      "-----d-",
	}

	for input, want := range cases {
		assert.Equal(t, want, Slugify(input), "Slugify(%q)", input)
	}
}

func TestSlugifyIdempotent(t *testing.T) {
	charset := regexp.MustCompile(`^[a-z0-9-]*$`)
	inputs := []string{"Go Lang!", "Hello, World", "TAG", "a b c", "", "--x--"}

	for _, input := range inputs {
		once := Slugify(input)
		assert.Equal(t, once, Slugify(once), "Slugify not idempotent for %q", input)
		assert.Regexp(t, charset, once)
	}
}

func TestSplitCSV(t *testing.T) {
	assert.Equal(t, []string{"a", "b"}, SplitCSV("a, b"))
	assert.Equal(t, []string{"a", "b", "a"}, SplitCSV("a,b,a"), "duplicates preserved in order")
	assert.Equal(t, []string{"solo"}, SplitCSV("  solo  "))
	assert.Nil(t, SplitCSV(""))
	assert.Nil(t, SplitCSV("  ,  , "))
}
