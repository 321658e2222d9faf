package cli

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/commentdex/commentdex/internal/bulk"
)

func TestSyncCmd_Flags(t *testing.T) {
	cases := []struct {
		name string
		def  string
	}{
		{name: "all", def: "false"},
		{name: "batch-size", def: "0"},
		{name: "out", def: ""},
	}
	for _, tc := range cases {
		flag := syncCmd.Flags().Lookup(tc.name)
		if flag == nil {
			t.Errorf("flag %q should exist", tc.name)
			continue
		}
		if flag.DefValue != tc.def {
			t.Errorf("flag %q default: got %q, want %q", tc.name, flag.DefValue, tc.def)
		}
	}
}

func TestWriterSink_ForwardsBody(t *testing.T) {
	var buf strings.Builder
	sink := writerSink{w: &buf}

	payload := bulk.Payload{Body: []byte("{\"index\":{}}\n"), Indexed: 1}
	if err := sink.Write(context.Background(), payload); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if buf.String() != "{\"index\":{}}\n" {
		t.Errorf("body: got %q", buf.String())
	}
}

type failWriter struct{}

func (failWriter) Write([]byte) (int, error) { return 0, errors.New("pipe closed") }

func TestWriterSink_WrapsWriteError(t *testing.T) {
	sink := writerSink{w: failWriter{}}

	err := sink.Write(context.Background(), bulk.Payload{Body: []byte("x"), Indexed: 1})
	if err == nil || !strings.Contains(err.Error(), "write payload") {
		t.Fatalf("expected a wrapped write error, got %v", err)
	}
}
