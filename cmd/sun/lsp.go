package main

import (
	"bufio"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"slices"
	"sort"
	"strconv"
	"strings"
	"unicode"
	"unicode/utf16"

	"github.com/mgomes/sunscript/sun"
)

const (
	severityError   = 1
	severityWarning = 2

	completionFunction = 3
	completionKeyword  = 14
)

type lspInboundMessage struct {
	JSONRPC string           `json:"jsonrpc"`
	ID      *json.RawMessage `json:"id,omitempty"`
	Method  string           `json:"method,omitempty"`
	Params  json.RawMessage  `json:"params,omitempty"`
}

type lspResponseError struct {
	Code    int    `json:"code"`
	Message string `json:"message"`
}

type lspOutboundMessage struct {
	JSONRPC string            `json:"jsonrpc"`
	ID      *json.RawMessage  `json:"id,omitempty"`
	Method  string            `json:"method,omitempty"`
	Params  any               `json:"params,omitempty"`
	Result  any               `json:"result,omitempty"`
	Error   *lspResponseError `json:"error,omitempty"`
}

type lspTextDocument struct {
	URI  string `json:"uri"`
	Text string `json:"text"`
}

type lspDidOpenParams struct {
	TextDocument lspTextDocument `json:"textDocument"`
}

type lspDidChangeParams struct {
	TextDocument   lspTextDocument `json:"textDocument"`
	ContentChanges []struct {
		Text string `json:"text"`
	} `json:"contentChanges"`
}

type lspTextDocumentPositionParams struct {
	TextDocument lspTextDocument `json:"textDocument"`
	Position     struct {
		Line      int `json:"line"`
		Character int `json:"character"`
	} `json:"position"`
}

type lspServer struct {
	reader *bufio.Reader
	writer *bufio.Writer
	docs   map[string]string
}

func runLSP() error {
	server := &lspServer{
		reader: bufio.NewReader(os.Stdin),
		writer: bufio.NewWriter(os.Stdout),
		docs:   make(map[string]string),
	}
	return server.serve()
}

func (s *lspServer) serve() error {
	for {
		payload, err := s.readPayload()
		if err != nil {
			if errors.Is(err, io.EOF) {
				return nil
			}
			return err
		}

		var incoming lspInboundMessage
		if err := json.Unmarshal(payload, &incoming); err != nil {
			continue
		}

		for _, msg := range s.handleMessage(incoming) {
			if err := s.writePayload(msg); err != nil {
				return err
			}
		}

		if incoming.Method == "exit" {
			return nil
		}
	}
}

func (s *lspServer) handleMessage(incoming lspInboundMessage) []lspOutboundMessage {
	switch incoming.Method {
	case "initialize":
		return []lspOutboundMessage{
			{
				JSONRPC: "2.0",
				ID:      incoming.ID,
				Result: map[string]any{
					"capabilities": map[string]any{
						"textDocumentSync":           1,
						"hoverProvider":              true,
						"documentFormattingProvider": true,
						"completionProvider": map[string]any{
							"resolveProvider": false,
						},
					},
				},
			},
		}
	case "initialized", "exit":
		return nil
	case "shutdown":
		if incoming.ID == nil {
			return nil
		}
		return []lspOutboundMessage{{JSONRPC: "2.0", ID: incoming.ID, Result: nil}}
	case "textDocument/didOpen":
		var params lspDidOpenParams
		if err := json.Unmarshal(incoming.Params, &params); err != nil {
			return nil
		}
		s.docs[params.TextDocument.URI] = params.TextDocument.Text
		return []lspOutboundMessage{
			s.publishDiagnostics(params.TextDocument.URI, params.TextDocument.Text),
		}
	case "textDocument/didChange":
		var params lspDidChangeParams
		if err := json.Unmarshal(incoming.Params, &params); err != nil {
			return nil
		}
		if len(params.ContentChanges) == 0 {
			return nil
		}
		latest := params.ContentChanges[len(params.ContentChanges)-1].Text
		s.docs[params.TextDocument.URI] = latest
		return []lspOutboundMessage{
			s.publishDiagnostics(params.TextDocument.URI, latest),
		}
	case "textDocument/completion":
		if incoming.ID == nil {
			return nil
		}
		var params lspTextDocumentPositionParams
		_ = json.Unmarshal(incoming.Params, &params)
		return []lspOutboundMessage{
			{
				JSONRPC: "2.0",
				ID:      incoming.ID,
				Result: map[string]any{
					"isIncomplete": false,
					"items":        completionItems(s.docs[params.TextDocument.URI]),
				},
			},
		}
	case "textDocument/hover":
		if incoming.ID == nil {
			return nil
		}
		var params lspTextDocumentPositionParams
		if err := json.Unmarshal(incoming.Params, &params); err != nil {
			return []lspOutboundMessage{invalidParams(incoming.ID, "invalid hover params")}
		}
		source := s.docs[params.TextDocument.URI]
		word := wordAtPosition(source, params.Position.Line, params.Position.Character)
		if word == "" {
			return []lspOutboundMessage{{JSONRPC: "2.0", ID: incoming.ID, Result: nil}}
		}
		return []lspOutboundMessage{
			{
				JSONRPC: "2.0",
				ID:      incoming.ID,
				Result: map[string]any{
					"contents": map[string]any{
						"kind":  "markdown",
						"value": describeWord(source, word),
					},
				},
			},
		}
	case "textDocument/formatting":
		if incoming.ID == nil {
			return nil
		}
		var params lspTextDocumentPositionParams
		if err := json.Unmarshal(incoming.Params, &params); err != nil {
			return []lspOutboundMessage{invalidParams(incoming.ID, "invalid formatting params")}
		}
		return []lspOutboundMessage{
			{JSONRPC: "2.0", ID: incoming.ID, Result: formattingEdits(s.docs[params.TextDocument.URI])},
		}
	default:
		if incoming.ID == nil {
			return nil
		}
		return []lspOutboundMessage{
			{
				JSONRPC: "2.0",
				ID:      incoming.ID,
				Error: &lspResponseError{
					Code:    -32601,
					Message: "method not found",
				},
			},
		}
	}
}

func invalidParams(id *json.RawMessage, message string) lspOutboundMessage {
	return lspOutboundMessage{
		JSONRPC: "2.0",
		ID:      id,
		Error:   &lspResponseError{Code: -32602, Message: message},
	}
}

func (s *lspServer) publishDiagnostics(uri, source string) lspOutboundMessage {
	return lspOutboundMessage{
		JSONRPC: "2.0",
		Method:  "textDocument/publishDiagnostics",
		Params: map[string]any{
			"uri":         uri,
			"diagnostics": diagnosticsForSource(source),
		},
	}
}

// diagnosticsForSource reports every parse error, or the analyzer's warnings
// when the source parses.
func diagnosticsForSource(source string) []map[string]any {
	program, err := sun.Parse(source)
	if err == nil {
		warnings := analyzeProgram(program)
		out := make([]map[string]any, 0, len(warnings))
		for _, warning := range warnings {
			out = append(out, newDiagnostic(warning.Pos, severityWarning, warning.Message))
		}
		return out
	}

	errs := []error{err}
	if joined, ok := err.(interface{ Unwrap() []error }); ok {
		errs = joined.Unwrap()
	}
	out := make([]map[string]any, 0, len(errs))
	for _, e := range errs {
		var located *sun.Error
		if errors.As(e, &located) {
			out = append(out, newDiagnostic(located.Pos, severityError, located.Message))
			continue
		}
		out = append(out, newDiagnostic(sun.Position{}, severityError, e.Error()))
	}
	return out
}

func newDiagnostic(pos sun.Position, severity int, message string) map[string]any {
	line := max(0, pos.Line-1)
	character := max(0, pos.Column-1)
	return map[string]any{
		"range": map[string]any{
			"start": map[string]any{
				"line":      line,
				"character": character,
			},
			"end": map[string]any{
				"line":      line,
				"character": character + 1,
			},
		},
		"severity": severity,
		"source":   "sun-lsp",
		"message":  message,
	}
}

func formattingEdits(source string) []map[string]any {
	formatted, err := sun.FormatSource(source)
	if err != nil || formatted == source {
		return []map[string]any{}
	}
	lines := strings.Count(source, "\n") + 1
	return []map[string]any{
		{
			"range": map[string]any{
				"start": map[string]any{"line": 0, "character": 0},
				"end":   map[string]any{"line": lines, "character": 0},
			},
			"newText": formatted,
		},
	}
}

// documentFunctions maps each function defined in source to its signature.
// Source that fails to parse yields no functions.
func documentFunctions(source string) map[string]string {
	out := make(map[string]string)
	program, err := sun.Parse(source)
	if err != nil {
		return out
	}
	for _, stmt := range program.Statements {
		fn, ok := stmt.(*sun.FunctionStmt)
		if !ok {
			continue
		}
		params := make([]string, len(fn.Params))
		for i, param := range fn.Params {
			params[i] = param.Name
			if param.ByRef {
				params[i] = "*" + param.Name
			}
		}
		out[fn.Name] = fmt.Sprintf("Function %s(%s)", fn.Name, strings.Join(params, ", "))
	}
	return out
}

func completionItems(source string) []map[string]any {
	keywords := sun.Keywords()
	natives := sun.NativeNames()
	functions := documentFunctions(source)

	labels := make([]string, 0, len(keywords)+len(natives)+len(functions))
	labels = append(labels, keywords...)
	labels = append(labels, natives...)
	for name := range functions {
		if !slices.Contains(natives, name) {
			labels = append(labels, name)
		}
	}
	sort.Strings(labels)

	items := make([]map[string]any, 0, len(labels))
	for _, label := range labels {
		kind := completionFunction
		detail := "builtin"
		switch {
		case slices.Contains(keywords, label):
			kind = completionKeyword
			detail = "keyword"
		case functions[label] != "":
			detail = functions[label]
		}
		items = append(items, map[string]any{
			"label":  label,
			"kind":   kind,
			"detail": detail,
		})
	}
	return items
}

func describeWord(source, word string) string {
	if signature, ok := documentFunctions(source)[word]; ok {
		return fmt.Sprintf("```\n%s\n```\n\nSunScript function", signature)
	}
	return fmt.Sprintf("`%s`\n\nSunScript %s", word, classifyWord(word))
}

func classifyWord(word string) string {
	switch {
	case slices.Contains(sun.Keywords(), word):
		return "keyword"
	case slices.Contains(sun.NativeNames(), word):
		return "builtin"
	default:
		return "symbol"
	}
}

// wordAtPosition finds the identifier under an LSP position, whose character
// offset counts UTF-16 code units.
func wordAtPosition(source string, line, character int) string {
	lines := strings.Split(source, "\n")
	if line < 0 || line >= len(lines) {
		return ""
	}

	runes := []rune(lines[line])
	if len(runes) == 0 {
		return ""
	}

	cursor := 0
	for units := 0; cursor < len(runes) && units < character; cursor++ {
		units += utf16.RuneLen(runes[cursor])
	}
	if cursor == len(runes) {
		cursor--
	}
	if !isWordRune(runes[cursor]) {
		if cursor > 0 && isWordRune(runes[cursor-1]) {
			cursor--
		} else {
			return ""
		}
	}

	start := cursor
	for start > 0 && isWordRune(runes[start-1]) {
		start--
	}
	end := cursor
	for end < len(runes) && isWordRune(runes[end]) {
		end++
	}
	return string(runes[start:end])
}

func isWordRune(r rune) bool {
	return unicode.IsLetter(r) || unicode.IsDigit(r) || r == '_'
}

func (s *lspServer) readPayload() ([]byte, error) {
	contentLength := -1
	for {
		line, err := s.reader.ReadString('\n')
		if err != nil {
			return nil, err
		}
		line = strings.TrimRight(line, "\r\n")
		if line == "" {
			break
		}
		name, value, ok := strings.Cut(line, ":")
		if !ok {
			continue
		}
		if strings.EqualFold(strings.TrimSpace(name), "Content-Length") {
			n, err := strconv.Atoi(strings.TrimSpace(value))
			if err != nil {
				return nil, fmt.Errorf("invalid Content-Length: %w", err)
			}
			contentLength = n
		}
	}

	if contentLength < 0 {
		return nil, errors.New("missing Content-Length header")
	}
	payload := make([]byte, contentLength)
	if _, err := io.ReadFull(s.reader, payload); err != nil {
		return nil, err
	}
	return payload, nil
}

func (s *lspServer) writePayload(msg lspOutboundMessage) error {
	data, err := json.Marshal(msg)
	if err != nil {
		return err
	}
	if _, err := fmt.Fprintf(s.writer, "Content-Length: %d\r\n\r\n", len(data)); err != nil {
		return err
	}
	if _, err := s.writer.Write(data); err != nil {
		return err
	}
	return s.writer.Flush()
}
