package types

// ClauseSelection is one remedy chosen for a document. Ordinals are contiguous from 1
// and identical for identical inputs.
type ClauseSelection struct {
	ID      string `json:"id"`
	Text    string `json:"text"`
	Ordinal int    `json:"ordinal"`
}
