package streamsvc

import "testing"

func TestCELFilterDisabledAlwaysTrue(t *testing.T) {
	f, err := newCELFilter("   ")
	if err != nil {
		t.Fatalf("empty filter: %v", err)
	}
	if !f.Eval([]byte(`{"x":1}`)) {
		t.Fatalf("disabled filter rejected a chunk")
	}
}

func TestCELFilterVariables(t *testing.T) {
	cases := []struct {
		expr    string
		payload string
		want    bool
	}{
		{`json.kind == "delta"`, `{"kind":"delta"}`, true},
		{`json.kind == "delta"`, `{"kind":"other"}`, false},
		{`size > 5`, `{"kind":"delta"}`, true},
		{`text.contains("delta")`, `{"kind":"delta"}`, true},
		{`now_ms > 0`, `{}`, true},
	}
	for _, tc := range cases {
		f, err := newCELFilter(tc.expr)
		if err != nil {
			t.Fatalf("compile %q: %v", tc.expr, err)
		}
		if got := f.Eval([]byte(tc.payload)); got != tc.want {
			t.Fatalf("%q on %s = %v, want %v", tc.expr, tc.payload, got, tc.want)
		}
	}
}

func TestCELFilterEvalErrorRejects(t *testing.T) {
	// Field access on a payload missing the field errors at eval time.
	f, err := newCELFilter(`json.missing.deep == 1`)
	if err != nil {
		t.Fatalf("compile: %v", err)
	}
	if f.Eval([]byte(`{"other":true}`)) {
		t.Fatalf("eval error should reject the chunk")
	}
}
