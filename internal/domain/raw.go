package domain

import "encoding/json"

// Count is a VK counter block, normally `{"count": N}`.
type Count struct {
	Count int `json:"count"`
}

// UnmarshalJSON tolerates counters that arrive as something other than an
// object; a malformed or bare-number counter decodes to zero instead of
// failing the whole post.
func (c *Count) UnmarshalJSON(data []byte) error {
	var obj struct {
		Count int `json:"count"`
	}
	if err := json.Unmarshal(data, &obj); err != nil {
		c.Count = 0
		return nil
	}
	c.Count = obj.Count
	return nil
}

// RawVideo is the video payload of a video attachment.
type RawVideo struct {
	Views    int    `json:"views"`
	Duration int    `json:"duration"`
	Title    string `json:"title"`
}

// RawAttachment is one entry of a post's attachment list.
type RawAttachment struct {
	Type  string    `json:"type"`
	Video *RawVideo `json:"video"`
}

// RawPost is a post record as returned by the VK API. The owner may be
// reported in either owner_id or from_id depending on the endpoint.
type RawPost struct {
	ID          int64           `json:"id"`
	OwnerID     int64           `json:"owner_id"`
	FromID      int64           `json:"from_id"`
	Date        int64           `json:"date"`
	Text        string          `json:"text"`
	Views       *Count          `json:"views"`
	Likes       *Count          `json:"likes"`
	Comments    *Count          `json:"comments"`
	Reposts     *Count          `json:"reposts"`
	Attachments []RawAttachment `json:"attachments"`
}
