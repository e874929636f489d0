package domain

// SettingSheetsURL is the settings key holding the remote spreadsheet endpoint.
const SettingSheetsURL = "GOOGLE_SHEETS_URL"

type Setting struct {
	Key   string `json:"key"`
	Value string `json:"value"`
}
