package main

import "testing"

func TestParseArgs(t *testing.T) {
	f, err := parseArgs([]string{"--trace", "-c", "opts.yaml", "prog.yaml", "--eval"})
	if err != nil {
		t.Fatalf("parseArgs() error: %v", err)
	}
	if !f.trace || !f.eval || f.parallel || f.configPath != "opts.yaml" || f.program != "prog.yaml" {
		t.Errorf("parseArgs() = %+v", f)
	}

	for _, args := range [][]string{
		{},
		{"--config"},
		{"--frobnicate", "prog.yaml"},
		{"a.yaml", "b.yaml"},
	} {
		if _, err := parseArgs(args); err == nil {
			t.Errorf("parseArgs(%q) succeeded", args)
		}
	}
}
