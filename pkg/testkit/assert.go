package testkit

import (
	"encoding/json"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// AssertStatusCode checks the response code with testify.
func AssertStatusCode(t *testing.T, scenario *Scenario, got int) {
	t.Helper()
	assert.Equal(t, scenario.ExpectedCode, got,
		"[%s] HTTP status code mismatch", scenario.Name)
}

// AssertJSONBody compares both bodies after decoding, so key order and
// whitespace never matter. Paths in scenario.IgnoreFields must exist in the
// actual body but their values are not compared.
func AssertJSONBody(t *testing.T, scenario *Scenario, expected, actual []byte) {
	t.Helper()
	if len(expected) == 0 {
		return
	}

	var expVal, actVal interface{}

	require.NoError(t,
		json.Unmarshal(expected, &expVal),
		"[%s] expected response is not valid JSON", scenario.Name,
	)

	if !assert.NoError(t,
		json.Unmarshal(actual, &actVal),
		"[%s] actual response is not valid JSON\nbody: %s", scenario.Name, string(actual),
	) {
		return
	}

	for _, path := range scenario.IgnoreFields {
		assert.True(t, dropPath(actVal, path),
			"[%s] ignored field %q missing from response", scenario.Name, path)
		dropPath(expVal, path)
	}

	assert.Equal(t, expVal, actVal,
		"[%s] response body mismatch", scenario.Name)
}

// dropPath deletes a dotted object path from v and reports whether it existed.
func dropPath(v interface{}, path string) bool {
	keys := strings.Split(path, ".")
	for _, k := range keys[:len(keys)-1] {
		obj, ok := v.(map[string]interface{})
		if !ok {
			return false
		}
		if v, ok = obj[k]; !ok {
			return false
		}
	}

	obj, ok := v.(map[string]interface{})
	if !ok {
		return false
	}
	last := keys[len(keys)-1]
	if _, ok := obj[last]; !ok {
		return false
	}
	delete(obj, last)
	return true
}
