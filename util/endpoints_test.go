package util

import (
	"os"
	"reflect"
	"testing"
)

func TestParseEndpoints(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		expected []string
	}{
		{"Single", "http://192.168.100.94/save", []string{"http://192.168.100.94/save"}},
		{"Two", "http://a/save,http://b/save", []string{"http://a/save", "http://b/save"}},
		{"Spaces trimmed", " http://a/save , http://b/save ", []string{"http://a/save", "http://b/save"}},
		{"Blank entries dropped", "http://a/save,,", []string{"http://a/save"}},
		{"Empty", "", nil},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := ParseEndpoints(tt.input)
			if !reflect.DeepEqual(got, tt.expected) {
				t.Errorf("ParseEndpoints(%q) = %v, expected %v", tt.input, got, tt.expected)
			}
		})
	}
}

func TestConfiguredEndpointsDefault(t *testing.T) {
	resetConfig()

	got := ConfiguredEndpoints()
	if len(got) != 1 || got[0] != DefaultEndpoint {
		t.Errorf("ConfiguredEndpoints() = %v, expected [%s]", got, DefaultEndpoint)
	}
}

func TestConfiguredEndpointsList(t *testing.T) {
	resetConfig()
	Config.Set("endpoints", []string{"http://a/save", "http://b/save,http://c/save"})

	expected := []string{"http://a/save", "http://b/save", "http://c/save"}
	if got := ConfiguredEndpoints(); !reflect.DeepEqual(got, expected) {
		t.Errorf("ConfiguredEndpoints() = %v, expected %v", got, expected)
	}
}

func TestConfiguredEndpointsFromEnvironment(t *testing.T) {
	_ = os.Setenv("ENDPOINTS", "http://env-a/save,http://env-b/save") //nolint:errcheck // test setup
	defer func() { _ = os.Unsetenv("ENDPOINTS") }()                    //nolint:errcheck // test cleanup

	resetConfig()
	SetupConfig()

	expected := []string{"http://env-a/save", "http://env-b/save"}
	if got := ConfiguredEndpoints(); !reflect.DeepEqual(got, expected) {
		t.Errorf("ConfiguredEndpoints() = %v, expected %v", got, expected)
	}
}
