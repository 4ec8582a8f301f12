package google

import (
	"io/ioutil"
	"path/filepath"
	"testing"
)

func TestReadCredentials(t *testing.T) {
	path := filepath.Join(t.TempDir(), "credentials.json")
	err := ioutil.WriteFile(path, []byte(`{"type":"service_account"}`), 0600)
	if err != nil {
		t.Fatal(err)
	}

	tests := []struct {
		name    string
		value   string
		want    string
		wantErr bool
	}{
		{name: "inline", value: `  {"type":"service_account"}` + "\n", want: `{"type":"service_account"}`},
		{name: "path", value: path, want: `{"type":"service_account"}`},
		{name: "missing file", value: filepath.Join(t.TempDir(), "absent.json"), wantErr: true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ReadCredentials(tt.value)
			if (err != nil) != tt.wantErr {
				t.Errorf("ReadCredentials() error = %v, wantErr %v", err, tt.wantErr)
				return
			}
			if string(got) != tt.want {
				t.Errorf("ReadCredentials() got = %s, want %s", got, tt.want)
			}
		})
	}
}

func TestServiceAccountEmail(t *testing.T) {
	_, err := ServiceAccountEmail([]byte(`{"type":"service_account"`))
	if err == nil {
		t.Errorf("ServiceAccountEmail() accepted broken JSON")
	}
}
