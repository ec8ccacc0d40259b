package parsers

import (
	"bytes"
	"io"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ersonp/trope-crawler/internal/domain/entities"
)

func TestCatalogReader_Next(t *testing.T) {
	input := "id,title,link\n" +
		"m1,Alien,https://tvtropes.org/pmwiki/pmwiki.php/Film/Alien\n" +
		"m2,Unknown,\n" +
		"m3,Heat,https://tvtropes.org/pmwiki/pmwiki.php/Film/Heat\n"

	c, err := NewCatalogReader(strings.NewReader(input))
	require.NoError(t, err)

	var got []entities.Parent
	for {
		p, err := c.Next()
		if err == io.EOF {
			break
		}
		require.NoError(t, err)
		got = append(got, p)
	}

	assert.Equal(t, []entities.Parent{
		{ID: "m1", Locator: "https://tvtropes.org/pmwiki/pmwiki.php/Film/Alien"},
		{ID: "m2", Locator: ""},
		{ID: "m3", Locator: "https://tvtropes.org/pmwiki/pmwiki.php/Film/Heat"},
	}, got)
}

func TestCatalogReader_ColumnsInAnyOrder(t *testing.T) {
	c, err := NewCatalogReader(strings.NewReader("\ufefflink,id\nu1,m1\n"))
	require.NoError(t, err)

	p, err := c.Next()
	require.NoError(t, err)
	assert.Equal(t, entities.Parent{ID: "m1", Locator: "u1"}, p)
}

func TestCatalogReader_Errors(t *testing.T) {
	tests := []struct {
		name  string
		input string
		err   error
	}{
		{name: "missing link column", input: "id,title\nm1,Alien\n", err: entities.ErrMissingColumn},
		{name: "missing id column", input: "title,link\nAlien,u\n", err: entities.ErrMissingColumn},
		{name: "empty file", input: "", err: io.EOF},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := NewCatalogReader(strings.NewReader(tt.input))
			require.ErrorIs(t, err, tt.err)
		})
	}
}

func TestCatalogReader_MalformedRow(t *testing.T) {
	c, err := NewCatalogReader(strings.NewReader("id,link\nm1,\"unterminated\n"))
	require.NoError(t, err)

	_, err = c.Next()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "line 2")
}

func TestOpenCatalog(t *testing.T) {
	t.Run("missing file", func(t *testing.T) {
		_, err := OpenCatalog(filepath.Join(t.TempDir(), "nope.csv"))
		require.ErrorIs(t, err, os.ErrNotExist)
	})

	t.Run("reads and closes", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "list_movies.csv")
		require.NoError(t, os.WriteFile(path, []byte("id,link\nm1,u1\n"), 0644))

		c, err := OpenCatalog(path)
		require.NoError(t, err)
		p, err := c.Next()
		require.NoError(t, err)
		assert.Equal(t, "m1", p.ID)
		assert.NoError(t, c.Close())
	})
}

func TestTropes_RoundTrip(t *testing.T) {
	tropes := []entities.Trope{
		{ID: "tr00001", Name: "ChekhovsGun"},
		{ID: "tr00002", Name: "Name, With \"Quotes\""},
	}

	var buf bytes.Buffer
	require.NoError(t, WriteTropes(&buf, tropes))
	assert.True(t, strings.HasPrefix(buf.String(), "tropeid,tropename\n"))

	got, err := ReadTropes(&buf)
	require.NoError(t, err)
	assert.Equal(t, tropes, got)
}

func TestRelations_RoundTrip(t *testing.T) {
	relations := []entities.Relation{
		{ParentID: "m1", TropeID: "tr00001"},
		{ParentID: "m1", TropeID: "tr00001"},
	}

	var buf bytes.Buffer
	require.NoError(t, WriteRelations(&buf, relations))
	assert.Equal(t, "movie_id,tropeid\nm1,tr00001\nm1,tr00001\n", buf.String())

	got, err := ReadRelations(&buf)
	require.NoError(t, err)
	assert.Equal(t, relations, got)
}

func TestReadTables_Empty(t *testing.T) {
	tropes, err := ReadTropes(strings.NewReader("tropeid,tropename\n"))
	require.NoError(t, err)
	assert.Empty(t, tropes)

	relations, err := ReadRelations(strings.NewReader("movie_id,tropeid\n"))
	require.NoError(t, err)
	assert.Empty(t, relations)
}

func TestReadTables_MissingColumns(t *testing.T) {
	_, err := ReadTropes(strings.NewReader("id,name\n"))
	require.ErrorIs(t, err, entities.ErrMissingColumn)

	_, err = ReadRelations(strings.NewReader("movie_id\n"))
	require.ErrorIs(t, err, entities.ErrMissingColumn)
}
