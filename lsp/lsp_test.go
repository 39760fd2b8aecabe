package lsp

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/tliron/glsp"
	protocol "github.com/tliron/glsp/protocol_3_16"

	"github.com/dhamidi/jminus/diag"
)

type notification struct {
	method string
	params protocol.PublishDiagnosticsParams
}

func recordingContext(got *[]notification) *glsp.Context {
	return &glsp.Context{
		Notify: func(method string, params any) {
			*got = append(*got, notification{method: method, params: params.(protocol.PublishDiagnosticsParams)})
		},
	}
}

func TestToProtocolDiagnostics(t *testing.T) {
	text := "class A {\r\n  void m() { break; }\r\n}\n"
	ds := []diag.Diagnostic{
		{File: "A.java", Line: 2, Message: "break outside of a loop or switch"},
		{File: "A.java", Line: 9, Message: "past the end"},
	}

	out := toProtocolDiagnostics(ds, text)
	require.Len(t, out, 2)

	assert.Equal(t, protocol.UInteger(1), out[0].Range.Start.Line)
	assert.Equal(t, protocol.UInteger(0), out[0].Range.Start.Character)
	assert.Equal(t, protocol.UInteger(21), out[0].Range.End.Character)
	assert.Equal(t, "break outside of a loop or switch", out[0].Message)
	assert.Equal(t, protocol.DiagnosticSeverityError, *out[0].Severity)
	assert.Equal(t, "jmm", *out[0].Source)

	assert.Equal(t, protocol.UInteger(8), out[1].Range.Start.Line)
	assert.Equal(t, protocol.UInteger(0), out[1].Range.End.Character)
}

func TestURIToPath(t *testing.T) {
	tests := []struct {
		uri  string
		want string
	}{
		{"file:///home/me/src/A.java", "/home/me/src/A.java"},
		{"file:///home/me/my%20src/A.java", "/home/me/my src/A.java"},
		{"untitled:Untitled-1", "untitled:Untitled-1"},
	}
	for _, tt := range tests {
		t.Run(tt.uri, func(t *testing.T) {
			got, err := uriToPath(tt.uri)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestDidOpenPublishesDiagnostics(t *testing.T) {
	s := NewServer("test")
	var got []notification
	ctx := recordingContext(&got)
	uri := "file:///work/A.java"

	err := s.textDocumentDidOpen(ctx, &protocol.DidOpenTextDocumentParams{
		TextDocument: protocol.TextDocumentItem{URI: uri, LanguageID: "java", Version: 1, Text: "class A { void m() { x + 1; } }"},
	})
	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.Equal(t, protocol.ServerTextDocumentPublishDiagnostics, got[0].method)
	assert.Equal(t, uri, got[0].params.URI)
	require.Len(t, got[0].params.Diagnostics, 1)
	assert.Equal(t, "Invalid statement expression; it does not have a side effect", got[0].params.Diagnostics[0].Message)

	text, ok := s.Document(uri)
	assert.True(t, ok)
	assert.Contains(t, text, "x + 1")
}

func TestDidChangeClearsDiagnostics(t *testing.T) {
	s := NewServer("test")
	var got []notification
	ctx := recordingContext(&got)
	uri := "file:///work/A.java"

	require.NoError(t, s.textDocumentDidOpen(ctx, &protocol.DidOpenTextDocumentParams{
		TextDocument: protocol.TextDocumentItem{URI: uri, Text: "class A { int m() { return; } }"},
	}))
	require.NoError(t, s.textDocumentDidChange(ctx, &protocol.DidChangeTextDocumentParams{
		TextDocument: protocol.VersionedTextDocumentIdentifier{
			TextDocumentIdentifier: protocol.TextDocumentIdentifier{URI: uri},
			Version:                2,
		},
		ContentChanges: []any{
			protocol.TextDocumentContentChangeEventWhole{Text: "class A { int m() { return 1; } }"},
		},
	}))

	require.Len(t, got, 2)
	require.Len(t, got[0].params.Diagnostics, 1)
	assert.Equal(t, "Missing return value", got[0].params.Diagnostics[0].Message)
	assert.NotNil(t, got[1].params.Diagnostics)
	assert.Empty(t, got[1].params.Diagnostics)
}

func TestDidCloseForgetsDocument(t *testing.T) {
	s := NewServer("test")
	var got []notification
	ctx := recordingContext(&got)
	uri := "file:///work/A.java"

	require.NoError(t, s.textDocumentDidOpen(ctx, &protocol.DidOpenTextDocumentParams{
		TextDocument: protocol.TextDocumentItem{URI: uri, Text: "class A { }"},
	}))
	require.NoError(t, s.textDocumentDidClose(ctx, &protocol.DidCloseTextDocumentParams{
		TextDocument: protocol.TextDocumentIdentifier{URI: uri},
	}))

	_, ok := s.Document(uri)
	assert.False(t, ok)
	require.Len(t, got, 2)
	assert.Empty(t, got[1].params.Diagnostics)
}
