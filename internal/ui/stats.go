package ui

import "sync/atomic"

type Stats struct {
	TotalPages     atomic.Int64
	FailedPages    atomic.Int64
	TotalQuestions atomic.Int64
	TotalBytes     atomic.Int64
}
