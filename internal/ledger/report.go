package ledger

import "time"

// BlockSummary is a display-only projection of a block. The truncated hash
// must never be used for verification.
type BlockSummary struct {
	Index int    `json:"index"`
	Time  string `json:"time"`
	Data  string `json:"data"`
	Hash  string `json:"hash"`
}

// Report returns ordered summaries of every block with a human-readable
// timestamp and a truncated hash digest.
func (c *Chain) Report() []BlockSummary {
	out := make([]BlockSummary, 0, len(c.blocks))
	for _, b := range c.blocks {
		sec := int64(b.Timestamp)
		nsec := int64((b.Timestamp - float64(sec)) * 1e9)
		out = append(out, BlockSummary{
			Index: b.Index,
			Time:  time.Unix(sec, nsec).Format("2006-01-02 15:04:05"),
			Data:  b.Data,
			Hash:  truncateHash(b.Hash),
		})
	}
	return out
}

func truncateHash(h string) string {
	if len(h) <= 8 {
		return h
	}
	return h[:8] + "..."
}
