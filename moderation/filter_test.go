package moderation

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func newTestFilter(t *testing.T, words ...string) *Filter {
	t.Helper()
	filter, err := NewFilter(words, '*')
	require.NoError(t, err)
	return filter
}

func Test_Censor_Masks_Matched_Words(t *testing.T) {
	req := require.New(t)
	filter := newTestFilter(t, "idiot")

	censored, found, _ := filter.Censor("what an idiot move")

	req.Equal("what an ***** move", censored)
	req.Equal([]string{"idiot"}, found)
}

func Test_Censor_Leaves_Clean_Content_Untouched(t *testing.T) {
	req := require.New(t)
	filter := newTestFilter(t, "idiot")

	censored, found, _ := filter.Censor("hi everyone")

	req.Equal("hi everyone", censored)
	req.Empty(found)
}

func Test_Censor_Matches_Leet_Spellings(t *testing.T) {
	req := require.New(t)
	filter := newTestFilter(t, "idiot")

	censored, found, _ := filter.Censor("such an 1d10t")

	req.Equal("such an *****", censored)
	req.Len(found, 1)
}

func Test_Censor_Is_Case_Insensitive(t *testing.T) {
	req := require.New(t)
	filter := newTestFilter(t, "idiot")

	censored, _, _ := filter.Censor("IDIOT")

	req.Equal("*****", censored)
}

func Test_LoadWords_Merges_Embedded_Dictionaries(t *testing.T) {
	req := require.New(t)

	list, err := LoadWords()

	req.NoError(err)
	req.NotEmpty(list.Words)
	req.Contains(list.Languages, "en")
	req.Contains(list.Languages, "fr")
	req.Contains(list.Words, "damn")
}
