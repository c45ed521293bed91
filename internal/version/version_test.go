package version

import (
	"testing"

	"github.com/confsched/schedsync/internal/model"
)

func TestCheck(t *testing.T) {
	tests := []struct {
		name    string
		local   string
		schema  int
		remote  string
		want    Result
		wantErr bool
	}{
		{"identical", "1.34", model.SchemaVersionCurrent, "1.34", NoUpdateRequired, false},
		{"newer minor", "1.34", model.SchemaVersionCurrent, "1.35", UpdateAvailable, false},
		{"newer major", "1.99", model.SchemaVersionCurrent, "2.0", UpdateAvailable, false},
		{"older remote", "1.35", model.SchemaVersionCurrent, "1.34", NoUpdateRequired, false},
		{"older remote major", "2.0", model.SchemaVersionCurrent, "1.99", NoUpdateRequired, false},
		{"no local version", "", model.SchemaVersionCurrent, "1.0", UpdateAvailable, false},
		{"stale schema forces update", "1.34", model.SchemaVersionCurrent - 1, "1.34", UpdateAvailable, false},
		{"corrupt local forces update", "banana", model.SchemaVersionCurrent, "1.34", UpdateAvailable, false},
		{"remote missing minor", "1.34", model.SchemaVersionCurrent, "1", NoUpdateRequired, true},
		{"remote too many parts", "1.34", model.SchemaVersionCurrent, "1.2.3", NoUpdateRequired, true},
		{"remote not numeric", "1.34", model.SchemaVersionCurrent, "a.b", NoUpdateRequired, true},
		{"remote empty", "1.34", model.SchemaVersionCurrent, "", NoUpdateRequired, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := Check(tt.local, tt.schema, tt.remote)
			if (err != nil) != tt.wantErr {
				t.Fatalf("Check() error = %v, wantErr %v", err, tt.wantErr)
			}
			if err == nil && got != tt.want {
				t.Errorf("Check() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestResultString(t *testing.T) {
	if got := UpdateAvailable.String(); got != "update available" {
		t.Errorf("String() = %q", got)
	}
	if got := NoUpdateRequired.String(); got != "no update required" {
		t.Errorf("String() = %q", got)
	}
}
