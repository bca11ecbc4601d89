package core

import (
	"errors"
	"reflect"
	"strings"
	"testing"
	"testing/iotest"
)

func TestDecodeCSV(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want Table
	}{
		{
			name: "simple",
			in:   "a,b\n1,2",
			want: Table{{"a", "b"}, {"1", "2"}},
		},
		{
			name: "trailing newline",
			in:   "a,b\n1,2\n",
			want: Table{{"a", "b"}, {"1", "2"}},
		},
		{
			name: "crlf",
			in:   "a,b\r\n1,2\r\n",
			want: Table{{"a", "b"}, {"1", "2"}},
		},
		{
			name: "ragged rows",
			in:   "a,b,c\n1\n1,2",
			want: Table{{"a", "b", "c"}, {"1"}, {"1", "2"}},
		},
		{
			name: "quoted comma",
			in:   "name,city\n\"Smith, J\",Oslo",
			want: Table{{"name", "city"}, {"Smith, J", "Oslo"}},
		},
		{
			name: "quoted newline",
			in:   "note\n\"line one\nline two\"",
			want: Table{{"note"}, {"line one\nline two"}},
		},
		{
			name: "bare quote kept",
			in:   "size\n5\" screen",
			want: Table{{"size"}, {"5\" screen"}},
		},
		{
			name: "bom stripped",
			in:   "\xEF\xBB\xBFa,b\n1,2",
			want: Table{{"a", "b"}, {"1", "2"}},
		},
		{
			name: "invalid utf8 replaced",
			in:   "a\n\xff",
			want: Table{{"a"}, {"�"}},
		},
		{
			name: "empty input",
			in:   "",
			want: Table{},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := DecodeCSV(strings.NewReader(tt.in), OpCSV)
			if err != nil {
				t.Fatalf("DecodeCSV() error = %v", err)
			}
			if !reflect.DeepEqual(got, tt.want) {
				t.Errorf("DecodeCSV() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestDecodeCSV_ErrorCarriesOp(t *testing.T) {
	readErr := errors.New("disk gone")

	_, err := DecodeCSV(iotest.ErrReader(readErr), OpPaste)
	if err == nil {
		t.Fatal("DecodeCSV() expected error from failing reader")
	}
	if !IsKind(err, KindCSVParse) {
		t.Errorf("kind = %v, want %v", KindOf(err), KindCSVParse)
	}
	if !errors.Is(err, readErr) {
		t.Errorf("error should wrap the read failure, got %v", err)
	}
	if got := MapError(err).Code; got != "INP003" {
		t.Errorf("paste decode code = %q, want INP003", got)
	}

	_, err = DecodeCSV(iotest.ErrReader(readErr), OpCSV)
	if got := MapError(err).Code; got != "FILE001" {
		t.Errorf("file decode code = %q, want FILE001", got)
	}
}

func TestTableClone(t *testing.T) {
	orig := Table{{"a", "b"}, {"1"}}
	clone := orig.Clone()
	clone[0][0] = "changed"

	if orig[0][0] != "a" {
		t.Errorf("Clone() shares cells with the original")
	}
	if Table(nil).Clone() != nil {
		t.Errorf("Clone() of nil should be nil")
	}
	if got := orig.Width(); got != 2 {
		t.Errorf("Width() = %d, want 2", got)
	}
	if got := orig.Header(); !reflect.DeepEqual(got, []string{"a", "b"}) {
		t.Errorf("Header() = %v", got)
	}
}
