package domain

import (
	"bytes"
	"crypto/md5" //nolint:gosec // content fingerprint, not a security boundary
	"encoding/hex"
	"encoding/json"
	"fmt"
	"strings"
	"unicode/utf16"
)

// UnknownSource is reported when a chunk carries no source metadata.
const UnknownSource = "unknown"

// Chunk is a unit of text produced by a splitter.
// Chunks are immutable once created; their order is the splitter's output order.
type Chunk struct {
	// Content is the text of this chunk.
	Content string

	// Metadata contains arbitrary JSON-serialisable key-value pairs.
	// The "source" key names the file the chunk came from.
	Metadata map[string]any
}

// Source returns the chunk's source metadata, or UnknownSource when absent
// or null. Non-string values are formatted with fmt.Sprint.
func (c Chunk) Source() string {
	switch v := c.Metadata["source"].(type) {
	case nil:
		return UnknownSource
	case string:
		return v
	default:
		return fmt.Sprint(v)
	}
}

// DocumentRecord is one row of the document export collection.
// Metadata holds the chunk metadata encoded as a JSON string, not a nested object.
type DocumentRecord struct {
	ID       string `json:"id"`
	Content  string `json:"content"`
	Source   string `json:"source"`
	Metadata string `json:"metadata"`
}

// DocumentExport is the document export collection.
type DocumentExport struct {
	TotalDocuments int              `json:"total_documents"`
	Documents      []DocumentRecord `json:"documents"`
}

// NewDocumentExport wraps records into a collection with a consistent total.
func NewDocumentExport(docs []DocumentRecord) *DocumentExport {
	if docs == nil {
		docs = []DocumentRecord{}
	}
	return &DocumentExport{
		TotalDocuments: len(docs),
		Documents:      docs,
	}
}

// Validate checks the collection total against its records.
func (e *DocumentExport) Validate() error {
	if e.TotalDocuments != len(e.Documents) {
		return fmt.Errorf("%w: total_documents is %d but %d documents are present",
			ErrInvalidInput, e.TotalDocuments, len(e.Documents))
	}
	return nil
}

// DocumentID derives the content-addressed identifier for the chunk at position.
// The format is doc_<position>_<first 8 hex chars of MD5(content)>.
func DocumentID(position int, content string) string {
	sum := md5.Sum([]byte(content)) //nolint:gosec // see import
	return fmt.Sprintf("doc_%d_%s", position, hex.EncodeToString(sum[:])[:8])
}

// NewDocumentRecord builds the export record for the chunk at position.
// Metadata is encoded the way Python's json.dumps does by default: ", " and
// ": " separators and non-ASCII characters as \uXXXX escapes. Keys are sorted.
func NewDocumentRecord(position int, chunk Chunk) (DocumentRecord, error) {
	metadata := chunk.Metadata
	if metadata == nil {
		metadata = map[string]any{}
	}

	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	if err := enc.Encode(metadata); err != nil {
		return DocumentRecord{}, fmt.Errorf("marshalling metadata of chunk %d: %w", position, err)
	}

	return DocumentRecord{
		ID:       DocumentID(position, chunk.Content),
		Content:  chunk.Content,
		Source:   chunk.Source(),
		Metadata: pythonJSON(bytes.TrimSuffix(buf.Bytes(), []byte("\n"))),
	}, nil
}

// pythonJSON rewrites compact JSON with spaced separators and ASCII-only strings.
func pythonJSON(compact []byte) string {
	var b strings.Builder
	inString, escaped := false, false

	for _, r := range string(compact) {
		switch {
		case inString && escaped:
			escaped = false
			b.WriteRune(r)
		case inString && r == '\\':
			escaped = true
			b.WriteRune(r)
		case inString && r == '"':
			inString = false
			b.WriteRune(r)
		case inString && r > 0xFFFF:
			hi, lo := utf16.EncodeRune(r)
			fmt.Fprintf(&b, "\\u%04x\\u%04x", hi, lo)
		case inString && r >= 0x80:
			fmt.Fprintf(&b, "\\u%04x", r)
		case inString:
			b.WriteRune(r)
		case r == '"':
			inString = true
			b.WriteRune(r)
		case r == ',':
			b.WriteString(", ")
		case r == ':':
			b.WriteString(": ")
		default:
			b.WriteRune(r)
		}
	}

	return b.String()
}
