package internal

import (
	"encoding/json"
	"fmt"
	"os"
)

// SimpleJSONFormat is a minimal JSON format carrying the same six fields as the CSV export
// Example:
//
//	{
//	  "transactions": [
//	    {"date": "2025-01-15", "description": "Grocery Store", "original_description": "KROGER #123 ATLANTA GA",
//	     "category": "Food", "amount": "-45.67", "status": "Posted"}
//	  ]
//	}
//
// Amounts may be JSON strings or numbers.
type SimpleJSONFormat struct {
	Transactions []SimpleJSONTransaction `json:"transactions"`
}

type SimpleJSONTransaction struct {
	Date                string          `json:"date"` // YYYY-MM-DD format
	Description         string          `json:"description"`
	OriginalDescription string          `json:"original_description"`
	Category            string          `json:"category"`
	Amount              json.RawMessage `json:"amount"` // Negative for spending
	Status              string          `json:"status"`
}

// ParseSimpleJSON parses a JSON file in the simple JSON format
func ParseSimpleJSON(path string) ([]Row, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading file: %w", err)
	}

	var jsonData SimpleJSONFormat
	if err := json.Unmarshal(data, &jsonData); err != nil {
		return nil, fmt.Errorf("parsing JSON: %w", err)
	}

	rows := make([]Row, 0, len(jsonData.Transactions))
	for _, tx := range jsonData.Transactions {
		rows = append(rows, Row{
			ColDate:                tx.Date,
			ColDescription:         tx.Description,
			ColOriginalDescription: tx.OriginalDescription,
			ColCategory:            tx.Category,
			ColAmount:              rawAmount(tx.Amount),
			ColStatus:              tx.Status,
		})
	}
	return rows, nil
}

// rawAmount returns the amount text so the loader can report bad values per row
func rawAmount(raw json.RawMessage) string {
	var s string
	if err := json.Unmarshal(raw, &s); err == nil {
		return s
	}
	if string(raw) == "null" {
		return ""
	}
	return string(raw)
}

func init() {
	RegisterParser("simple-json", ParserFunc(ParseSimpleJSON), ".json")
}
