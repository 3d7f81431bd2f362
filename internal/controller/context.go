package controller

import "context"

type contextKey int

const connectionIdCtxKey contextKey = iota

func (c *controller) getConnectionIdFromCtx(ctx context.Context) string {
	connectionId, ok := ctx.Value(connectionIdCtxKey).(string)
	if !ok {
		return ""
	}

	return connectionId
}
