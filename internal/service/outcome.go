package service

import (
	"github.com/jobtrackr/jobtrackr-go/internal/apperr"
	"github.com/jobtrackr/jobtrackr-go/internal/metrics"
)

// outcome maps an operation result to a metrics result label.
func outcome(err error) string {
	switch {
	case err == nil:
		return metrics.ResultSuccess
	case apperr.KindOf(err) == apperr.KindServer:
		return metrics.ResultError
	default:
		return metrics.ResultRejected
	}
}
