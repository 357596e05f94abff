package main

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
)

const sampleInput = "ts_recv,ts_event,rtype,publisher_id,instrument_id,action,side,price,size,channel_id,order_id,flags,ts_in_delta,sequence,symbol\n" +
	"t0,t0,160,1,1,A,B,10.000000000,5,0,1,0,0,1,TEST\n" +
	"t1,t1,160,1,1,C,B,10.000000000,5,0,1,0,0,2,TEST\n"

func TestRunEndToEnd(t *testing.T) {
	dir := t.TempDir()
	inPath := filepath.Join(dir, "in.csv")
	outPath := filepath.Join(dir, "out.csv")

	if err := os.WriteFile(inPath, []byte(sampleInput), 0o644); err != nil {
		t.Fatalf("writing input fixture: %v", err)
	}

	code := run([]string{inPath, outPath}, os.Stdout, os.Stderr)
	if code != 0 {
		t.Fatalf("expected exit code 0, got %d", code)
	}

	out, err := os.ReadFile(outPath)
	if err != nil {
		t.Fatalf("reading output: %v", err)
	}
	lines := strings.Split(strings.TrimRight(string(out), "\n"), "\n")
	if len(lines) != 3 {
		t.Fatalf("expected header + 2 rows, got %d lines:\n%s", len(lines), out)
	}
	if !strings.HasPrefix(lines[1], "0,") || !strings.HasPrefix(lines[2], "1,") {
		t.Fatalf("expected gap-free row indices, got:\n%s", out)
	}
}

func TestRunUsageErrorOnMissingArgs(t *testing.T) {
	code := run(nil, os.Stdout, os.Stderr)
	if code != 1 {
		t.Fatalf("expected exit code 1 for missing input arg, got %d", code)
	}
}

func TestRunSourceFailureOnMissingInput(t *testing.T) {
	dir := t.TempDir()
	code := run([]string{filepath.Join(dir, "missing.csv")}, os.Stdout, os.Stderr)
	if code != 1 {
		t.Fatalf("expected exit code 1 for missing input file, got %d", code)
	}
}
