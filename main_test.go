package main

import (
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"

	"classmap-server-go/models"
)

func execute(t *testing.T, args ...string) error {
	t.Helper()
	missing := filepath.Join(t.TempDir(), "none.yaml")
	rootCmd.SetArgs(append([]string{"--config", missing}, args...))
	return rootCmd.Execute()
}

func TestBuildCommand(t *testing.T) {
	out := t.TempDir()
	require.NoError(t, execute(t, "build", "--data", "data", "--out", out))

	index, err := os.ReadFile(filepath.Join(out, "index.html"))
	require.NoError(t, err)
	assert.Contains(t, string(index), "University of Maryland")
	assert.Contains(t, string(index), `"mode":"static"`)
	assert.FileExists(t, filepath.Join(out, "static", "map.js"))
}

func TestBuildCommandFailsWithoutData(t *testing.T) {
	err := execute(t, "build", "--data", t.TempDir(), "--out", t.TempDir())
	assert.Error(t, err)
}

func TestImportStudentsCommand(t *testing.T) {
	dir := t.TempDir()
	in := filepath.Join(dir, "students.xlsx")

	f := excelize.NewFile()
	require.NoError(t, f.SetSheetRow("Sheet1", "A1", &[]interface{}{"Name", "School"}))
	require.NoError(t, f.SetSheetRow("Sheet1", "A2", &[]interface{}{"Ada", 2}))
	require.NoError(t, f.SetSheetRow("Sheet1", "A3", &[]interface{}{"Ben"}))
	require.NoError(t, f.SaveAs(in))
	require.NoError(t, f.Close())

	out := filepath.Join(dir, "students.json")
	require.NoError(t, execute(t, "import-students", in, "--out", out))

	data, err := os.ReadFile(out)
	require.NoError(t, err)
	var students []models.Student
	require.NoError(t, json.Unmarshal(data, &students))
	assert.Equal(t, []models.Student{{Name: "Ada", SchoolID: 2}, {Name: "Ben", SchoolID: 0}}, students)
}

func TestExportRosterCommand(t *testing.T) {
	out := filepath.Join(t.TempDir(), "roster.xlsx")
	require.NoError(t, execute(t, "export-roster", out, "--data", "data"))

	f, err := excelize.OpenFile(out)
	require.NoError(t, err)
	defer f.Close()
	rows, err := f.GetRows("Roster")
	require.NoError(t, err)
	assert.Equal(t, []string{"Gap Year", "Taylor Brooks"}, rows[len(rows)-1])
}
