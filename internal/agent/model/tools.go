package model

// BaziResult is what the calculator tool hands back to the model. On bad
// input only the Error fields are set so the model can ask again.
type BaziResult struct {
	Input            string `json:"input"`
	Bazi             string `json:"bazi,omitempty"`
	DayMaster        string `json:"day_master,omitempty"`
	DayMasterElement string `json:"day_master_element,omitempty"`
	LunarDate        string `json:"lunar_date,omitempty"`

	Error  string `json:"error,omitempty"`
	Field  string `json:"field,omitempty"`
	Reason string `json:"reason,omitempty"`
}

// Source is one grounding reference of a search answer.
type Source struct {
	Title string `json:"title,omitempty"`
	URI   string `json:"uri"`
}

// SearchResult is a grounded answer from the knowledge base or the web.
type SearchResult struct {
	Query   string   `json:"query"`
	Answer  string   `json:"answer,omitempty"`
	Sources []Source `json:"sources,omitempty"`
	Cached  bool     `json:"cached,omitempty"`
	Error   string   `json:"error,omitempty"`
}
