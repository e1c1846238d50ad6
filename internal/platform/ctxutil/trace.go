package ctxutil

import "context"

type traceDataKey struct{}

// TraceData correlates one ops request or batch unit across logs and spans.
type TraceData struct {
	TraceID    string
	RequestID  string
	CampaignID string
}

func WithTraceData(ctx context.Context, td *TraceData) context.Context {
	return context.WithValue(ctx, traceDataKey{}, td)
}

func GetTraceData(ctx context.Context) *TraceData {
	if ctx == nil {
		return nil
	}
	if td, ok := ctx.Value(traceDataKey{}).(*TraceData); ok {
		return td
	}
	return nil
}

// LogFields returns the non-empty identifiers as logger key-value pairs.
func (td *TraceData) LogFields() []interface{} {
	if td == nil {
		return nil
	}
	var kv []interface{}
	if td.TraceID != "" {
		kv = append(kv, "trace_id", td.TraceID)
	}
	if td.RequestID != "" {
		kv = append(kv, "request_id", td.RequestID)
	}
	if td.CampaignID != "" {
		kv = append(kv, "campaign_id", td.CampaignID)
	}
	return kv
}
