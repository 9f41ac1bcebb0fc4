package codec

import "encoding/json"

// DeliverableMeta is the structured record embedded as a JSON object in
// the remote description field. AppStatus is the authoritative
// fine-grained status; the remote status field is only an approximation
// derived from it.
type DeliverableMeta struct {
	URL          string     `json:"url"`
	CarouselURLs []string   `json:"carouselUrls,omitempty"`
	AppStatus    string     `json:"app_status,omitempty"`
	ClientID     string     `json:"clientId,omitempty"`
	ClientName   string     `json:"clientName,omitempty"`
	Type         string     `json:"type,omitempty"`
	Feedback     []Feedback `json:"feedback,omitempty"`
	Description  string     `json:"description,omitempty"`
}

// Feedback mirrors models.Feedback; duplicated here so the codec does
// not depend on the models package.
type Feedback struct {
	Date    string `json:"date"`
	Comment string `json:"comment"`
	Author  string `json:"author"`
}

// EncodeDeliverableMeta serializes the whole record as a single JSON
// object string.
func EncodeDeliverableMeta(m DeliverableMeta) string {
	out, err := json.Marshal(m)
	if err != nil {
		// Marshal of this struct cannot fail; keep the record anyway.
		return "{}"
	}
	return string(out)
}

// DecodeDeliverableMeta parses text produced by EncodeDeliverableMeta.
// Text that is not a JSON object (a bare URL typed by hand) degrades to
// a record carrying the whole input as the URL. Never fails.
func DecodeDeliverableMeta(text string) DeliverableMeta {
	var m DeliverableMeta
	if err := json.Unmarshal([]byte(text), &m); err != nil {
		return DeliverableMeta{URL: text}
	}
	return m
}
