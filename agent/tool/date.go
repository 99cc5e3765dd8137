package tool

import (
	"context"
	"fmt"
	"time"

	"github.com/cloudwego/eino/schema"
)

const ToolDateShift = "date.shift"

type DateShiftOutput struct {
	Days int    `json:"days"`
	Date string `json:"date"`
}

// NewDateTool returns the calendar date N days from today as an ISO-8601
// string. Negative offsets go backwards. The clock is injected; a nil now
// falls back to time.Now.
func NewDateTool(now func() time.Time) *Spec {
	if now == nil {
		now = time.Now
	}
	params := map[string]*schema.ParameterInfo{
		"days": {Type: schema.Integer, Desc: "Number of days from today; may be negative", Required: true},
	}
	return &Spec{
		Info: &schema.ToolInfo{
			Name:        ToolDateShift,
			Desc:        "Return the calendar date N days from today (ISO-8601, YYYY-MM-DD).",
			ParamsOneOf: schema.NewParamsOneOfByParams(params),
		},
		Params: params,
		Invoke: func(_ context.Context, args map[string]any) (any, error) {
			days, ok := intArg(args, "days")
			if !ok {
				return nil, fmt.Errorf("days must be an integer")
			}
			date := now().AddDate(0, 0, days).Format("2006-01-02")
			return DateShiftOutput{
				Days: days,
				Date: date,
			}, nil
		},
	}
}
