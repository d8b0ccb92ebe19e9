package catalog

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pageza/recipeverse/backend/internal/discovery"
)

func TestFormatFromPath(t *testing.T) {
	tests := []struct {
		path string
		want Format
	}{
		{"recipes.json", FormatJSON},
		{"recipes.yaml", FormatYAML},
		{"RECIPES.YML", FormatYAML},
		{"/tmp/x/recipes.Yaml", FormatYAML},
		{"recipes.txt", FormatJSON},
		{"recipes", FormatJSON},
	}
	for _, tt := range tests {
		t.Run(tt.path, func(t *testing.T) {
			assert.Equal(t, tt.want, FormatFromPath(tt.path))
		})
	}
}

func TestParseFormat(t *testing.T) {
	f, err := ParseFormat("YAML")
	require.NoError(t, err)
	assert.Equal(t, FormatYAML, f)

	f, err = ParseFormat("json")
	require.NoError(t, err)
	assert.Equal(t, FormatJSON, f)

	_, err = ParseFormat("table")
	assert.ErrorIs(t, err, ErrUnknownFormat)
}

func TestRead(t *testing.T) {
	t.Run("yaml assigns missing ids", func(t *testing.T) {
		doc := `
recipes:
  - title: Toast
    ingredients: [bread, butter]
    veg: true
    stars: 4
  - id: soup-1
    title: Soup
    ingredients: [onion, stock]
`
		recipes, err := Read(strings.NewReader(doc), FormatYAML)
		require.NoError(t, err)
		require.Len(t, recipes, 2)
		assert.Equal(t, "1", recipes[0].ID)
		assert.Equal(t, []string{"bread", "butter"}, recipes[0].Ingredients)
		assert.True(t, recipes[0].Veg)
		assert.Equal(t, 4.0, recipes[0].Stars)
		assert.Equal(t, "soup-1", recipes[1].ID)
	})

	t.Run("json", func(t *testing.T) {
		doc := `{"recipes":[{"id":"a","title":"Rice","ingredients":["rice"],"imageUrl":"x.png"}]}`
		recipes, err := Read(strings.NewReader(doc), FormatJSON)
		require.NoError(t, err)
		require.Len(t, recipes, 1)
		assert.Equal(t, "x.png", recipes[0].ImageURL)
	})

	t.Run("empty document", func(t *testing.T) {
		recipes, err := Read(strings.NewReader(""), FormatYAML)
		require.NoError(t, err)
		assert.Empty(t, recipes)
	})

	t.Run("malformed", func(t *testing.T) {
		_, err := Read(strings.NewReader("{"), FormatJSON)
		assert.Error(t, err)
	})

	t.Run("unknown format", func(t *testing.T) {
		_, err := Read(strings.NewReader(""), Format("xml"))
		assert.ErrorIs(t, err, ErrUnknownFormat)
	})
}

func TestWriteThenLoad(t *testing.T) {
	in := Catalog{Recipes: []discovery.Recipe{
		{ID: "1", Title: "Curry", Ingredients: []string{"onion", "oil"}, Steps: []string{"fry"}, Stars: 4.5},
	}}

	for _, format := range []Format{FormatJSON, FormatYAML} {
		t.Run(string(format), func(t *testing.T) {
			var buf bytes.Buffer
			require.NoError(t, Write(&buf, format, in))

			path := filepath.Join(t.TempDir(), "catalog."+string(format))
			require.NoError(t, os.WriteFile(path, buf.Bytes(), 0o600))

			out, err := Load(path)
			require.NoError(t, err)
			assert.Equal(t, in.Recipes, out)
		})
	}
}

func TestLoadMissingFile(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "nope.yaml"))
	assert.Error(t, err)
}

func TestSampleCatalog(t *testing.T) {
	recipes, err := Load(filepath.Join("..", "..", "data", "recipes.yaml"))
	require.NoError(t, err)
	require.NotEmpty(t, recipes)
	for _, r := range recipes {
		assert.NotEmpty(t, r.Title, "recipe %s has no title", r.ID)
	}
}
