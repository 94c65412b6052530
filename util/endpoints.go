package util

import "strings"

// ParseEndpoints splits a comma separated endpoint list. Blank entries are
// dropped.
func ParseEndpoints(s string) []string {
	var endpoints []string
	for _, e := range strings.Split(s, ",") {
		e = strings.TrimSpace(e)
		if e == "" {
			continue
		}
		endpoints = append(endpoints, e)
	}
	return endpoints
}

// ConfiguredEndpoints reads the endpoints key, which may be a comma separated
// string (env var, flag) or a list (config file).
func ConfiguredEndpoints() []string {
	if s, ok := Config.Get("endpoints").(string); ok {
		return ParseEndpoints(s)
	}
	var endpoints []string
	for _, e := range Config.GetStringSlice("endpoints") {
		endpoints = append(endpoints, ParseEndpoints(e)...)
	}
	return endpoints
}
