package query

import (
	"context"
	"net/url"
	"testing"

	"github.com/cockroachdb/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/runnerr0/stringlab/internal/storage"
)

// seed inserts values into a fresh memory store and returns its contents.
func seed(t *testing.T, values ...string) []storage.Record {
	t.Helper()
	s := storage.NewMemoryStore()
	for _, v := range values {
		_, err := s.Insert(context.Background(), v)
		require.NoError(t, err)
	}
	records, err := s.List(context.Background())
	require.NoError(t, err)
	return records
}

func valuesOf(records []storage.Record) []string {
	out := make([]string, len(records))
	for i, r := range records {
		out[i] = r.Value
	}
	return out
}

func TestFilter_Conjunction(t *testing.T) {
	records := seed(t, "racecar", "hello world", "level")

	got := Filter{IsPalindrome: true, MinLength: Int(5)}.Apply(records)
	assert.Equal(t, []string{"racecar", "level"}, valuesOf(got))

	got = Filter{IsPalindrome: true, MinLength: Int(6)}.Apply(records)
	assert.Equal(t, []string{"racecar"}, valuesOf(got))
}

func TestFilter_EachField(t *testing.T) {
	records := seed(t, "racecar", "hello world", "level", "Zebra crossing", "a a")

	tests := []struct {
		name   string
		filter Filter
		want   []string
	}{
		{"palindrome", Filter{IsPalindrome: true}, []string{"racecar", "level", "a a"}},
		{"min length inclusive", Filter{MinLength: Int(10)}, []string{"hello world", "Zebra crossing"}},
		{"max length inclusive", Filter{MaxLength: Int(5)}, []string{"level", "a a"}},
		{"length range", Filter{MinLength: Int(5), MaxLength: Int(7)}, []string{"racecar", "level"}},
		{"word count", Filter{WordCount: Int(2)}, []string{"hello world", "Zebra crossing", "a a"}},
		{"contains ignores case", Filter{ContainsCharacter: Str("z")}, []string{"Zebra crossing"}},
		{"contains substring", Filter{ContainsCharacter: Str("LL")}, []string{"hello world"}},
		{"nothing matches", Filter{WordCount: Int(9)}, []string{}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, valuesOf(tt.filter.Apply(records)))
		})
	}
}

func TestFilter_EmptyReturnsEverything(t *testing.T) {
	records := seed(t, "one", "two", "three")

	var f Filter
	assert.True(t, f.IsEmpty())
	assert.Equal(t, []string{"one", "two", "three"}, valuesOf(f.Apply(records)))
}

func TestFilter_ApplyOnEmptyStore(t *testing.T) {
	got := Filter{IsPalindrome: true}.Apply(nil)
	assert.NotNil(t, got)
	assert.Empty(t, got)
}

func TestFilter_IsEmpty(t *testing.T) {
	assert.False(t, Filter{IsPalindrome: true}.IsEmpty())
	assert.False(t, Filter{MinLength: Int(0)}.IsEmpty())
	assert.False(t, Filter{ContainsCharacter: Str("a")}.IsEmpty())
}

func TestFilter_String(t *testing.T) {
	assert.Equal(t, "(no filters)", Filter{}.String())
	assert.Equal(t,
		`is_palindrome=true min_length=5 contains_character="a"`,
		Filter{IsPalindrome: true, MinLength: Int(5), ContainsCharacter: Str("a")}.String())
}

func TestFilter_Validate(t *testing.T) {
	assert.NoError(t, Filter{MinLength: Int(3), MaxLength: Int(3)}.Validate())

	err := Filter{MinLength: Int(4), MaxLength: Int(3)}.Validate()
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrInvalidFilter))

	err = Filter{WordCount: Int(-1)}.Validate()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "word_count must not be negative")
}

func TestParseValues(t *testing.T) {
	f, err := ParseValues(url.Values{
		"is_palindrome":      {"TRUE"},
		"min_length":         {"5"},
		"max_length":         {" 20 "},
		"word_count":         {"2"},
		"contains_character": {"a"},
	})
	require.NoError(t, err)
	assert.Equal(t, Filter{
		IsPalindrome:      true,
		MinLength:         Int(5),
		MaxLength:         Int(20),
		WordCount:         Int(2),
		ContainsCharacter: Str("a"),
	}, f)
}

func TestParseValues_NoParams(t *testing.T) {
	f, err := ParseValues(url.Values{})
	require.NoError(t, err)
	assert.True(t, f.IsEmpty())
}

func TestParseValues_PalindromeFalseDoesNotConstrain(t *testing.T) {
	for _, v := range []string{"false", "0", "yes", ""} {
		f, err := ParseValues(url.Values{"is_palindrome": {v}})
		require.NoError(t, err)
		assert.True(t, f.IsEmpty(), "is_palindrome=%q", v)
	}
}

func TestParseValues_Rejects(t *testing.T) {
	tests := []struct {
		name string
		q    url.Values
		want string
	}{
		{"non-integer", url.Values{"min_length": {"five"}}, "min_length must be an integer"},
		{"float", url.Values{"word_count": {"1.5"}}, "word_count must be an integer"},
		{"negative", url.Values{"max_length": {"-2"}}, "max_length must not be negative"},
		{"inverted range", url.Values{"min_length": {"9"}, "max_length": {"3"}}, "exceeds max_length"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := ParseValues(tt.q)
			require.Error(t, err)
			assert.True(t, errors.Is(err, ErrInvalidFilter))
			assert.Contains(t, err.Error(), tt.want)
		})
	}
}
