package cmd

import (
	"bytes"
	"testing"
)

func TestWriteJSON(t *testing.T) {
	var buf bytes.Buffer
	if err := writeJSON(&buf, map[string]string{"foo": "bar"}); err != nil {
		t.Fatalf("write json: %v", err)
	}
	if !bytes.Contains(buf.Bytes(), []byte("\"foo\"")) {
		t.Fatalf("expected json output, got %q", buf.String())
	}
}
