// Package lsp is a language server that reports j-- lexical, syntax and
// semantic errors as diagnostics while a file is edited.
package lsp

import (
	"net/url"
	"path/filepath"
	"strings"
	"sync"
	"unicode/utf8"

	"github.com/tliron/commonlog"
	"github.com/tliron/glsp"
	protocol "github.com/tliron/glsp/protocol_3_16"
	"github.com/tliron/glsp/server"

	_ "github.com/tliron/commonlog/simple"

	"github.com/dhamidi/jminus/compiler"
	"github.com/dhamidi/jminus/diag"
)

const lsName = "jmm"

type Server struct {
	handler protocol.Handler
	server  *server.Server
	version string
	log     commonlog.Logger

	mu        sync.RWMutex
	documents map[protocol.DocumentUri]string
}

func NewServer(version string) *Server {
	s := &Server{
		version:   version,
		log:       commonlog.GetLogger("jminus.lsp"),
		documents: make(map[protocol.DocumentUri]string),
	}

	s.handler = protocol.Handler{
		Initialize:            s.initialize,
		Initialized:           s.initialized,
		Shutdown:              s.shutdown,
		SetTrace:              s.setTrace,
		TextDocumentDidOpen:   s.textDocumentDidOpen,
		TextDocumentDidChange: s.textDocumentDidChange,
		TextDocumentDidClose:  s.textDocumentDidClose,
		TextDocumentDidSave:   s.textDocumentDidSave,
	}

	s.server = server.NewServer(&s.handler, lsName, false)

	return s
}

func (s *Server) RunStdio() error {
	return s.server.RunStdio()
}

func (s *Server) initialize(ctx *glsp.Context, params *protocol.InitializeParams) (any, error) {
	capabilities := s.handler.CreateServerCapabilities()

	capabilities.TextDocumentSync = &protocol.TextDocumentSyncOptions{
		OpenClose: boolPtr(true),
		Change:    syncKindPtr(protocol.TextDocumentSyncKindFull),
		Save: &protocol.SaveOptions{
			IncludeText: boolPtr(true),
		},
	}

	return protocol.InitializeResult{
		Capabilities: capabilities,
		ServerInfo: &protocol.InitializeResultServerInfo{
			Name:    lsName,
			Version: &s.version,
		},
	}, nil
}

func (s *Server) initialized(ctx *glsp.Context, params *protocol.InitializedParams) error {
	s.log.Info("client initialized")
	return nil
}

func (s *Server) shutdown(ctx *glsp.Context) error {
	return nil
}

func (s *Server) setTrace(ctx *glsp.Context, params *protocol.SetTraceParams) error {
	protocol.SetTraceValue(params.Value)
	return nil
}

func (s *Server) textDocumentDidOpen(ctx *glsp.Context, params *protocol.DidOpenTextDocumentParams) error {
	s.update(ctx, params.TextDocument.URI, params.TextDocument.Text)
	return nil
}

func (s *Server) textDocumentDidChange(ctx *glsp.Context, params *protocol.DidChangeTextDocumentParams) error {
	if len(params.ContentChanges) == 0 {
		return nil
	}
	change := params.ContentChanges[len(params.ContentChanges)-1]
	if whole, ok := change.(protocol.TextDocumentContentChangeEventWhole); ok {
		s.update(ctx, params.TextDocument.URI, whole.Text)
	}
	return nil
}

func (s *Server) textDocumentDidClose(ctx *glsp.Context, params *protocol.DidCloseTextDocumentParams) error {
	s.mu.Lock()
	delete(s.documents, params.TextDocument.URI)
	s.mu.Unlock()
	s.log.Debugf("closed %s", params.TextDocument.URI)
	ctx.Notify(protocol.ServerTextDocumentPublishDiagnostics, protocol.PublishDiagnosticsParams{
		URI:         params.TextDocument.URI,
		Diagnostics: []protocol.Diagnostic{},
	})
	return nil
}

func (s *Server) textDocumentDidSave(ctx *glsp.Context, params *protocol.DidSaveTextDocumentParams) error {
	uri := params.TextDocument.URI
	if params.Text != nil {
		s.update(ctx, uri, *params.Text)
		return nil
	}
	if text, ok := s.Document(uri); ok {
		s.update(ctx, uri, text)
	}
	return nil
}

// Document returns the last text seen for uri.
func (s *Server) Document(uri protocol.DocumentUri) (string, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	text, ok := s.documents[uri]
	return text, ok
}

func (s *Server) update(ctx *glsp.Context, uri protocol.DocumentUri, text string) {
	s.mu.Lock()
	s.documents[uri] = text
	s.mu.Unlock()

	diagnostics := s.Diagnose(uri, text)
	s.log.Debugf("%s: publishing %d diagnostic(s)", uri, len(diagnostics))
	ctx.Notify(protocol.ServerTextDocumentPublishDiagnostics, protocol.PublishDiagnosticsParams{
		URI:         uri,
		Diagnostics: diagnostics,
	})
}

// Diagnose parses and analyzes text and converts every report into a
// protocol diagnostic. The result is never nil, so publishing it clears
// stale diagnostics.
func (s *Server) Diagnose(uri protocol.DocumentUri, text string) []protocol.Diagnostic {
	path, err := uriToPath(uri)
	if err != nil {
		path = uri
	}
	c := compiler.New(compiler.WithFile(path), compiler.WithLogger(s.log))
	res, err := c.Check(strings.NewReader(text))
	if err != nil {
		s.log.Debugf("check %s: %s", path, err)
	}
	return toProtocolDiagnostics(res.Diagnostics, text)
}

// toProtocolDiagnostics maps each line-tagged report onto the whole of
// its (0-based) source line.
func toProtocolDiagnostics(ds []diag.Diagnostic, text string) []protocol.Diagnostic {
	lines := strings.Split(text, "\n")
	severity := protocol.DiagnosticSeverityError
	source := lsName

	out := make([]protocol.Diagnostic, 0, len(ds))
	for _, d := range ds {
		line := max(d.Line-1, 0)
		width := 0
		if line < len(lines) {
			width = utf8.RuneCountInString(strings.TrimSuffix(lines[line], "\r"))
		}
		out = append(out, protocol.Diagnostic{
			Range: protocol.Range{
				Start: protocol.Position{Line: protocol.UInteger(line), Character: 0},
				End:   protocol.Position{Line: protocol.UInteger(line), Character: protocol.UInteger(width)},
			},
			Severity: &severity,
			Source:   &source,
			Message:  d.Message,
		})
	}
	return out
}

func uriToPath(uri string) (string, error) {
	if strings.HasPrefix(uri, "file://") {
		parsed, err := url.Parse(uri)
		if err != nil {
			return "", err
		}
		return filepath.Clean(parsed.Path), nil
	}
	return uri, nil
}

func boolPtr(b bool) *bool {
	return &b
}

func syncKindPtr(k protocol.TextDocumentSyncKind) *protocol.TextDocumentSyncKind {
	return &k
}
