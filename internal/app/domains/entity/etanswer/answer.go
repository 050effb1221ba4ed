package etanswer

// 统一响应契约：insights 与 next_questions 有固定上限，保证输出可快速浏览。
const (
	MaxInsights      = 3
	MaxNextQuestions = 4
)

// Response 统一响应结构（传输层原样透出）
type Response struct {
	Intent        string      `json:"intent"`
	Answer        string      `json:"answer"`
	Insights      []string    `json:"insights"`
	Data          interface{} `json:"data"`
	NextQuestions []string    `json:"next_questions"`

	// 可选扩展字段（按意图填充）
	Metrics             interface{} `json:"metrics,omitempty"`
	Recommendations     []string    `json:"recommendations,omitempty"`
	Explanation         interface{} `json:"explanation,omitempty"`
	Summary             string      `json:"summary,omitempty"`
	Findings            []string    `json:"findings,omitempty"`
	Evidence            interface{} `json:"evidence,omitempty"`
	NextActions         []string    `json:"next_actions,omitempty"`
	AnomalySummary      interface{} `json:"anomaly_summary,omitempty"`
	DelaySummary        interface{} `json:"delay_summary,omitempty"`
	SupplierPerformance interface{} `json:"supplier_performance,omitempty"`
}

// Normalize 裁剪超限字段并补齐空集合
func (r *Response) Normalize() *Response {
	if len(r.Insights) > MaxInsights {
		r.Insights = r.Insights[:MaxInsights]
	}
	if len(r.NextQuestions) > MaxNextQuestions {
		r.NextQuestions = r.NextQuestions[:MaxNextQuestions]
	}
	if r.Insights == nil {
		r.Insights = []string{}
	}
	if r.NextQuestions == nil {
		r.NextQuestions = []string{}
	}
	if r.Data == nil {
		r.Data = map[string]interface{}{}
	}
	return r
}
