package environment

import (
	"os"
	"path/filepath"
	"testing"
)

func TestLoad(t *testing.T) {
	path := filepath.Join(t.TempDir(), ".env")
	err := os.WriteFile(path, []byte("PORT=8080\nSTORE=sheets\nSPREADSHEET_ID=sheet-1\n"), 0600)
	if err != nil {
		t.Fatal(err)
	}

	for _, key := range keys {
		value, ok := os.LookupEnv(key)
		_ = os.Unsetenv(key)
		if ok {
			defer os.Setenv(key, value)
		}
	}
	_ = os.Setenv("SPREADSHEET_ID", "sheet-2")
	defer os.Unsetenv("SPREADSHEET_ID")

	env, err := Load(path)
	if err != nil {
		t.Fatal(err)
	}

	want := Environment{
		Environment:   Dev,
		Cors:          "*",
		Port:          "8080",
		Store:         StoreSheets,
		SpreadsheetID: "sheet-2",
		Database:      "taskboard",
	}
	if env != want {
		t.Errorf("Load() got = %+v, want %+v", env, want)
	}
}

func TestLoad_MissingFile(t *testing.T) {
	for _, key := range keys {
		value, ok := os.LookupEnv(key)
		_ = os.Unsetenv(key)
		if ok {
			defer os.Setenv(key, value)
		}
	}

	env, err := Load(filepath.Join(t.TempDir(), "absent.env"))
	if err != nil {
		t.Fatal(err)
	}
	if env.Port != "3001" || env.Store != StoreMemory {
		t.Errorf("Load() got = %+v, want defaults", env)
	}
}
