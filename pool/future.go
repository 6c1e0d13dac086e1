package pool

import "github.com/utkarsh5026/parx/internal/types"

// Future is the handle returned for a submitted task.
type Future[R any] = types.Future[R]

// Result is the value/error pair stored in a Future.
type Result[R any] = types.Result[R]
