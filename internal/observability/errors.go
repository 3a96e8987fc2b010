package observability

import (
	"context"
	"errors"
	"strings"

	"github.com/arbebra14/hh-parser/internal/httpx"
)

const (
	ErrorNetwork  = "network"
	ErrorUpstream = "upstream"
	ErrorParsing  = "parsing"
	ErrorStore    = "store"
	ErrorUnknown  = "unknown"
)

func ClassifyFetchError(err error) string {
	if err == nil {
		return ErrorUnknown
	}
	var fe *httpx.FetchError
	if errors.As(err, &fe) {
		return ErrorUpstream
	}
	if errors.Is(err, context.DeadlineExceeded) || errors.Is(err, context.Canceled) {
		return ErrorNetwork
	}
	return ErrorNetwork
}

func ClassifyScrapeError(err error) string {
	if err == nil {
		return ErrorUnknown
	}
	if kind := ClassifyFetchError(err); kind == ErrorUpstream {
		return kind
	}
	msg := strings.ToLower(err.Error())
	if strings.Contains(msg, "parse") || strings.Contains(msg, "decode") {
		return ErrorParsing
	}
	if strings.Contains(msg, "insert") || strings.Contains(msg, "count") {
		return ErrorStore
	}
	return ErrorNetwork
}
