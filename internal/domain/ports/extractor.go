package ports

// Extractor turns document content into a sorted, deduplicated list of
// canonical trope names. It never fails; anomalies yield an empty list.
type Extractor interface {
	Extract(content string) []string
}
