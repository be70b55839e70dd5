package jsonmap_test

import (
	"bytes"
	"encoding/json"
	"fmt"
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/atwupack/owasp-dependency-check/pkg/internal/jsonmap"
)

func TestRemarshalJSON(t *testing.T) {
	tests := []string{
		"{}\n",
		`{"hello":"world"}` + "\n",
		`{"hello":"foo","bar":"baz"}` + "\n",
		`{"hi":"a & b"}` + "\n",
		`{"hi":"a & b","abc":[1,2,3,4],"deps":{"a":1}}` + "\n",
		`{"hi":"a & b","abc":[1,2,3,4],"deps":{"a":1,"b":"c && d"}}` + "\n",
		`{"hi":"a & b","deps":{"a":1},"devdeps":{"a":1}}` + "\n",
		`{"dependencies":[],"scanInfo":{"engineVersion":"12.1.0"}}` + "\n",
		`{"score":7.5,"ratio":1e-3,"nothing":null,"flag":false}` + "\n",
		`{"we \"quote\"":"<b>"}` + "\n",
		`{"dependencies":[{"packages":[{"id":"pkg:npm/lodash@4.17.21"}]}]}` + "\n",
	}

	for i, test := range tests {
		t.Run(fmt.Sprintf("%03d", i), func(t *testing.T) {
			var om jsonmap.OrderedMap
			err := json.Unmarshal([]byte(test), &om)
			if err != nil {
				t.Fatalf("unexpected error: %q", err)
			}

			res, err := jsonmap.MarshalJSON(&om, "", false)
			if err != nil {
				t.Fatalf("unexpected error: %q", err)
			}

			if !bytes.Equal([]byte(test), res) {
				t.Errorf("unexpected result: expected %q, got %q", test, string(res))
			}
		})
	}
}

func TestMarshalJSONIndent(t *testing.T) {
	in := `{"b":1,"a":{"list":[{"id":"x"}],"empty":[]}}`
	expected := `{
  "b": 1,
  "a": {
    "list": [
      {
        "id": "x"
      }
    ],
    "empty": []
  }
}
`

	var om jsonmap.OrderedMap
	if err := json.Unmarshal([]byte(in), &om); err != nil {
		t.Fatalf("unexpected error: %q", err)
	}
	res, err := jsonmap.MarshalJSON(&om, "  ", false)
	if err != nil {
		t.Fatalf("unexpected error: %q", err)
	}

	if diff := cmp.Diff(expected, string(res)); diff != "" {
		t.Errorf("MarshalJSON() mismatch (-want +got):\n%s", diff)
	}
}

func TestSet(t *testing.T) {
	var om jsonmap.OrderedMap
	if err := json.Unmarshal([]byte(`{"isSuppressed":false,"fileName":"a.jar"}`), &om); err != nil {
		t.Fatalf("unexpected error: %q", err)
	}

	om.Set("isSuppressed", true)
	om.Set("extra", "x")

	if diff := cmp.Diff([]string{"isSuppressed", "fileName", "extra"}, om.Keys()); diff != "" {
		t.Errorf("Keys() mismatch (-want +got):\n%s", diff)
	}
	if v, _ := om.Get("isSuppressed"); v != true {
		t.Errorf("expected isSuppressed to be overwritten, got %v", v)
	}
}

func TestTypedGetters(t *testing.T) {
	var om jsonmap.OrderedMap
	if err := json.Unmarshal([]byte(`{"id":"pkg:npm/a@1","packages":[{"id":"x"}],"count":3}`), &om); err != nil {
		t.Fatalf("unexpected error: %q", err)
	}

	if s, ok := om.GetString("id"); !ok || s != "pkg:npm/a@1" {
		t.Errorf("GetString(id) = %q, %v", s, ok)
	}
	if _, ok := om.GetString("count"); ok {
		t.Errorf("GetString(count) should not succeed on a number")
	}
	if arr, ok := om.GetArray("packages"); !ok || len(arr) != 1 {
		t.Errorf("GetArray(packages) = %v, %v", arr, ok)
	}
	if _, ok := om.GetArray("missing"); ok {
		t.Errorf("GetArray(missing) should not succeed")
	}
}

func TestUnmarshalRejectsNonObject(t *testing.T) {
	for _, in := range []string{`[]`, `"x"`, `{"a":`} {
		var om jsonmap.OrderedMap
		if err := json.Unmarshal([]byte(in), &om); err == nil {
			t.Errorf("expected error for %q", in)
		}
	}
}
