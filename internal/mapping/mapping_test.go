package mapping

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSetKeepsOrderAndUpdatesInPlace(t *testing.T) {
	m := New()
	m.Set("Suma", "Amount")
	m.Set("Nume", "Name")
	m.Set("Suma", "Total")

	assert.Equal(t, []Entry{
		{Tag: "Suma", Header: "Total"},
		{Tag: "Nume", Header: "Name"},
	}, m.Entries())

	header, ok := m.Lookup("Suma")
	assert.True(t, ok)
	assert.Equal(t, "Total", header)

	_, ok = m.Lookup("Missing")
	assert.False(t, ok)
}

func TestActiveSkipsPlaceholders(t *testing.T) {
	m := New()
	m.Set("Nume", "Name")
	m.Set("Data", "")
	m.Set("Suma", "Amount")

	assert.Equal(t, []Entry{
		{Tag: "Nume", Header: "Name"},
		{Tag: "Suma", Header: "Amount"},
	}, m.Active())
	assert.Equal(t, []string{"Name", "Amount"}, m.Headers())
	assert.Equal(t, 3, m.Len())
}

func TestMerge(t *testing.T) {
	m := New()
	m.Set("Nume", "Name")

	added := m.Merge([]string{"Nume", "Suma", "Data"})

	assert.Equal(t, 2, added)
	assert.Equal(t, []Entry{
		{Tag: "Nume", Header: "Name"},
		{Tag: "Suma", Header: ""},
		{Tag: "Data", Header: ""},
	}, m.Entries())
}

func TestLoadMissingFileIsEmpty(t *testing.T) {
	m, err := Load(filepath.Join(t.TempDir(), "mapping_config.json"))
	require.NoError(t, err)
	assert.Equal(t, 0, m.Len())
}

func TestJSONRoundTripKeepsOrder(t *testing.T) {
	path := filepath.Join(t.TempDir(), "mapping_config.json")

	m := New()
	m.Set("Suma", "Amount")
	m.Set("Nume", "Name")
	m.Set("Data", "")
	require.NoError(t, m.Save(path))

	loaded, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, m.Entries(), loaded.Entries())
}

func TestJSONFileShape(t *testing.T) {
	path := filepath.Join(t.TempDir(), "m.json")

	m := New()
	m.Set("Nume", "Name")
	m.Set("Suma", "Amount")
	require.NoError(t, m.Save(path))

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, "{\n  \"Nume\": \"Name\",\n  \"Suma\": \"Amount\"\n}\n", string(data))
}

func TestLoadJSONKeepsFileOrderAndLastHeaderWins(t *testing.T) {
	path := filepath.Join(t.TempDir(), "m.json")
	content := `{"Suma": "Amount", "Nume": "Name", "Suma": "Total"}`
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))

	m, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, []Entry{
		{Tag: "Suma", Header: "Total"},
		{Tag: "Nume", Header: "Name"},
	}, m.Entries())
}

func TestLoadJSONRejectsNonStringHeader(t *testing.T) {
	path := filepath.Join(t.TempDir(), "m.json")
	require.NoError(t, os.WriteFile(path, []byte(`{"Suma": 3}`), 0o644))

	_, err := Load(path)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "must be a string")
}

func TestYAMLRoundTripKeepsOrder(t *testing.T) {
	path := filepath.Join(t.TempDir(), "mapping.yaml")

	m := New()
	m.Set("Suma", "Amount")
	m.Set("Nume", "Name")
	m.Set("Data", "")
	require.NoError(t, m.Save(path))

	loaded, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, m.Entries(), loaded.Entries())
}

func TestLoadYAML(t *testing.T) {
	path := filepath.Join(t.TempDir(), "m.yml")
	content := "Suma: Amount\nNume: Name\nData:\n"
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))

	m, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, []Entry{
		{Tag: "Suma", Header: "Amount"},
		{Tag: "Nume", Header: "Name"},
		{Tag: "Data", Header: ""},
	}, m.Entries())
}

func TestLoadEmptyYAMLIsEmptyMapping(t *testing.T) {
	path := filepath.Join(t.TempDir(), "m.yaml")
	require.NoError(t, os.WriteFile(path, []byte("# nothing mapped yet\n"), 0o644))

	m, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, 0, m.Len())
}

func TestUnsupportedExtension(t *testing.T) {
	_, err := Load("mapping.toml")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "unsupported mapping format")

	err = New().Save("mapping.txt")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "unsupported mapping format")
}
