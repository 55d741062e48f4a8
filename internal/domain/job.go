package domain

// Job is one posting as published by the listing source.
type Job struct {
	ID        int      `json:"id"`
	Company   string   `json:"company"`
	Logo      string   `json:"logo"`
	New       bool     `json:"new"`
	Featured  bool     `json:"featured"`
	Position  string   `json:"position"`
	Role      string   `json:"role"`
	Level     string   `json:"level"`
	PostedAt  string   `json:"postedAt"`
	Contract  string   `json:"contract"`
	Location  string   `json:"location"`
	Languages []string `json:"languages"`
	Tools     []string `json:"tools"`
}

// Clone returns a copy that shares no slices with j.
func (j Job) Clone() Job {
	out := j
	out.Languages = append([]string(nil), j.Languages...)
	out.Tools = append([]string(nil), j.Tools...)
	if out.Languages == nil {
		out.Languages = []string{}
	}
	if out.Tools == nil {
		out.Tools = []string{}
	}
	return out
}

// Tags returns languages followed by tools, the order tags are shown in.
func (j Job) Tags() []string {
	out := make([]string, 0, len(j.Languages)+len(j.Tools))
	out = append(out, j.Languages...)
	return append(out, j.Tools...)
}
