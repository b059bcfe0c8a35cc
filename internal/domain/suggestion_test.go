package domain

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func johnLinks() []Link {
	return []Link{
		{Sign: "@", Path: johnPath, Name: "Johnny", FileName: "@John Smith", Kind: LinkKindAlias},
		{Sign: "@", Path: johnPath, Name: "John Smith", FileName: "@John Smith", Kind: LinkKindFilename},
	}
}

func TestBuildSuggestions(t *testing.T) {
	mt := MentionType{Sign: "@", Label: "Person", Folder: "People"}

	got := BuildSuggestions(johnLinks(), mt, "John")
	require.Len(t, got, 3)

	assert.Equal(t, SuggestionLink, got[0].Type)
	assert.Equal(t, "John Smith", got[0].Render())
	assert.Equal(t, "[[@John Smith]]", got[0].LinkText())

	assert.Equal(t, "Johnny (@John Smith)", got[1].Render())
	assert.Equal(t, "[[@John Smith|@Johnny]]", got[1].LinkText())

	create := got[2]
	assert.Equal(t, SuggestionCreate, create.Type)
	assert.Equal(t, "Create Person: John", create.Render())
	assert.Equal(t, "People/@John.md", create.Link.Path)
	assert.Equal(t, "[[@John]]", create.LinkText())
}

func TestBuildSuggestions_NoNameNoCreate(t *testing.T) {
	got := BuildSuggestions(johnLinks(), MentionType{Sign: "@"}, "")
	require.Len(t, got, 2)
	for _, s := range got {
		assert.Equal(t, SuggestionLink, s.Type)
	}
}

func TestBuildSuggestions_Dedupes(t *testing.T) {
	links := append(johnLinks(), johnLinks()...)
	got := BuildSuggestions(links, MentionType{Sign: "@"}, "")
	assert.Len(t, got, 2)
}

func TestBuildSuggestions_DefaultLabel(t *testing.T) {
	got := BuildSuggestions(nil, MentionType{Sign: "+"}, "Launch")
	require.Len(t, got, 1)
	assert.Equal(t, "Create Item: Launch", got[0].Render())
	assert.Equal(t, "+Launch.md", got[0].Link.Path)
}

func TestFilterLinks(t *testing.T) {
	links := johnLinks()

	assert.Len(t, FilterLinks(links, "JOHN", true), 2)
	assert.Empty(t, FilterLinks(links, "smith", true))

	contains := FilterLinks(links, "smith", false)
	require.Len(t, contains, 1)
	assert.Equal(t, "John Smith", contains[0].Name)
}

func TestSuggestionType_String(t *testing.T) {
	assert.Equal(t, "link", SuggestionLink.String())
	assert.Equal(t, "create", SuggestionCreate.String())
}
