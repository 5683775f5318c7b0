package model

// AnalysisResult is produced by the video analysis pipeline.
type AnalysisResult struct {
	TechniqueScore int      `json:"technique_score"`
	Speed          int      `json:"speed"`
	Power          int      `json:"power"`
	Balance        int      `json:"balance"`
	Strengths      []string `json:"strengths"`
	Improvements   []string `json:"improvements"`
}

// KeyMoment marks a point of interest in a summarized video.
type KeyMoment struct {
	Timestamp   string `json:"timestamp"` // MM:SS
	Description string `json:"description"`
	Highlight   bool   `json:"highlight"`
}

// SummaryResult is produced by the video summarization pipeline.
// KeyMoments are kept in chronological order as produced.
type SummaryResult struct {
	Text       string         `json:"text"`
	KeyMoments []KeyMoment    `json:"key_moments"`
	Tags       []string       `json:"tags"`
	Duration   string         `json:"duration"` // MM:SS
	Statistics map[string]int `json:"statistics"`
}

// Highlights returns the key moments flagged as highlights, in order.
func (s SummaryResult) Highlights() []KeyMoment {
	out := make([]KeyMoment, 0, len(s.KeyMoments))
	for _, km := range s.KeyMoments {
		if km.Highlight {
			out = append(out, km)
		}
	}
	return out
}
