package domain

// Document is an uploaded study document. The client holds a read-through cache of
// the user's documents in the order the backend returned them.
type Document struct {
	ID       int64
	Filename string
}

// FindDocument returns the document with the given id from docs.
func FindDocument(docs []Document, id int64) (Document, bool) {
	for _, d := range docs {
		if d.ID == id {
			return d, true
		}
	}
	return Document{}, false
}
