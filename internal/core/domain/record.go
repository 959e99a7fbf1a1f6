package domain

import "time"

const (
	// IdentifierHeader is the serial-number column. It is assigned by the
	// row-store on append and never updated afterwards.
	IdentifierHeader = "Sl No."

	// identifierHeaderAlt tolerates sheets whose header omits the dot.
	identifierHeaderAlt = "Sl No"

	CollectedByHeader = "Collected by"
)

// Record is one traveler row keyed by spreadsheet header names. Values are
// plain cell text; document-reference headers hold the blob URL.
type Record map[string]string

// Identifier returns the serial-number value, tolerating both spellings of
// the column.
func (r Record) Identifier() string {
	if v, ok := r[IdentifierHeader]; ok && v != "" {
		return v
	}
	return r[identifierHeaderAlt]
}

// Clone returns a shallow copy so cached rows can be handed out safely.
func (r Record) Clone() Record {
	out := make(Record, len(r))
	for k, v := range r {
		out[k] = v
	}
	return out
}

// Identity is the authenticated operator taken from the session token.
type Identity struct {
	Name     string `json:"name"`
	Username string `json:"username"`
}

// DisplayName prefers the human name over the login username.
func (id Identity) DisplayName() string {
	if id.Name != "" {
		return id.Name
	}
	return id.Username
}

// Credential is one row of the credential sheet.
type Credential struct {
	Username string
	Password string
	Name     string
}

// BlobRef identifies a stored document in the media host.
type BlobRef struct {
	ID  string
	URL string
}

// AuditEntry describes one persisted mutation for the audit log.
type AuditEntry struct {
	ID       string
	Actor    string
	Action   string
	RecordID string
	Header   string
	At       time.Time
}

// RecordChange is the event published after a successful mutation.
type RecordChange struct {
	Action   string    `json:"action"`
	RecordID string    `json:"record_id"`
	Actor    string    `json:"actor"`
	At       time.Time `json:"at"`
}

const (
	ActionCreate         = "create"
	ActionUpdate         = "update"
	ActionDeleteDocument = "delete_document"
)

// PageMeta describes one page of the listing view.
type PageMeta struct {
	Total      int `json:"total"`
	Page       int `json:"page"`
	Limit      int `json:"limit"`
	TotalPages int `json:"totalPages"`
}

// RecordPage is the listing response: a page of rows plus the full header
// list so the client can render columns even when the page is empty.
type RecordPage struct {
	Data    []Record `json:"data"`
	Headers []string `json:"headers"`
	Meta    PageMeta `json:"meta"`
}
