package schema

const (
	// MetadataKeySource is the key for the originating file name. Every
	// fragment and chunk carries it so answers can be attributed.
	MetadataKeySource = "source"
	// MetadataKeyPageLabel is the key for the page number within a PDF.
	MetadataKeyPageLabel = "page_label"
	// MetadataKeySheetName is the key for the sheet name within a workbook.
	MetadataKeySheetName = "sheet_name"
	// MetadataKeyScore is the key for the similarity score attached by the
	// vector store at query time.
	MetadataKeyScore = "score"
)

// Document is the central data structure representing a piece of text and its
// associated data. Loaders produce one Document per extracted fragment; the
// splitter derives smaller Documents from them; the same type flows through
// embedding, storage and retrieval.
type Document struct {
	// ID is the unique identifier for this fragment or chunk.
	ID string

	// Text is the string content.
	Text string

	// Embedding is the vector representation of Text. Empty until the
	// indexing pipeline fills it in.
	Embedding []float32

	// Metadata holds arbitrary data about the document, such as the source
	// file name and a page or sheet label.
	Metadata map[string]interface{}
}

// Source returns the originating file name, or "" when untagged.
func (d *Document) Source() string {
	if d.Metadata == nil {
		return ""
	}
	if s, ok := d.Metadata[MetadataKeySource].(string); ok {
		return s
	}
	return ""
}
